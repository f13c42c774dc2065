package tone_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/measure/tone"
)

func ExampleZeroCrossingFrequency() {
	const sampleRate = 8000.0
	x := make([]float64, 8000)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 250 * float64(i) / sampleRate)
	}
	f, _ := tone.ZeroCrossingFrequency(x, sampleRate)
	fmt.Printf("%.0f Hz\n", f)
	// Output:
	// 250 Hz
}
