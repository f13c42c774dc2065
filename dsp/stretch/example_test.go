package stretch_test

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

func ExampleEngine() {
	engine, err := stretch.NewEngine(2, 44100)
	if err != nil {
		panic(err)
	}
	tempo, _ := stretch.TempoFromBPM(100, 125)
	_ = engine.SetTempo(tempo)

	input := buffer.NewFrames(2, 44100)
	_ = engine.Put(input)
	_ = engine.Flush()

	out := engine.Get(engine.Available())
	fmt.Printf("tempo=%.2f in=%d out=%d\n", tempo, input.Len(), out.Len())
	// Output:
	// tempo=1.25 in=44100 out=35280
}
