package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-stretch/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{0.5, -0.5, 0.5, -0.5})
	fmt.Printf("rms=%.2f peak=%.2f crossings=%d\n", s.RMS, s.Peak, s.ZeroCrossings)
	// Output:
	// rms=0.50 peak=0.50 crossings=3
}
