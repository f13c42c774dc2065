package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 1.0, cfg.Tempo)
	require.Equal(t, 1.0, cfg.Pitch)
	require.Equal(t, 1.0, cfg.Rate)
	require.Equal(t, 16384, cfg.BlockSize)
	require.Equal(t, 16, cfg.BitDepth)
	require.Empty(t, cfg.StretchOptions())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("STRETCH_TEMPO", "1.25")
	t.Setenv("STRETCH_SEEK_WINDOW", "4096")
	t.Setenv("STRETCH_SLOPE", "512")
	t.Setenv("STRETCH_WORKERS", "4")
	t.Setenv("STRETCH_BLOCK_SIZE", "not-a-number")
	t.Setenv("STRETCH_ANTI_ALIAS", "best")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 1.25, cfg.Tempo)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 16384, cfg.BlockSize, "unparsable values fall back")
	require.Equal(t, "best", cfg.AntiAlias)
	require.Len(t, cfg.StretchOptions(), 3)
}

func TestLoadEnvFilePrecedence(t *testing.T) {
	// Registered so t.Setenv restores it; godotenv only fills unset keys.
	t.Setenv("STRETCH_PITCH", "")
	require.NoError(t, os.Unsetenv("STRETCH_PITCH"))
	t.Setenv("STRETCH_TEMPO", "0.8")

	path := writeEnv(t, "STRETCH_TEMPO=2\nSTRETCH_PITCH=1.5\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.8, cfg.Tempo, "process environment wins")
	require.Equal(t, 1.5, cfg.Pitch, "file fills unset keys")
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Tempo: 1, Pitch: 1, Rate: 1, BlockSize: 1024, Workers: 1, BitDepth: 24}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero tempo", mutate: func(c *Config) { c.Tempo = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.Rate = -1 }},
		{name: "zero block", mutate: func(c *Config) { c.BlockSize = 0 }},
		{name: "negative slope", mutate: func(c *Config) { c.Slope = -4 }},
		{name: "no workers", mutate: func(c *Config) { c.Workers = 0 }},
		{name: "8-bit output", mutate: func(c *Config) { c.BitDepth = 8 }},
		{name: "unknown anti-alias", mutate: func(c *Config) { c.AntiAlias = "ultra" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
