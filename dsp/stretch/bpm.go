package stretch

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/core"
)

// TempoFromBPM returns the tempo ratio that plays material recorded at
// sourceBPM at targetBPM.
func TempoFromBPM(sourceBPM, targetBPM float64) (float64, error) {
	if !core.IsFinitePositive(sourceBPM) || !core.IsFinitePositive(targetBPM) {
		return 0, fmt.Errorf("%w: bpm must be finite and > 0: source=%f target=%f",
			ErrInvalidParameters, sourceBPM, targetBPM)
	}
	return targetBPM / sourceBPM, nil
}
