package strength_test

import (
	"fmt"

	"github.com/cwbudde/algo-rtspectrum/dsp/strength"
)

func ExampleCombine() {
	axis := strength.Spectrum{
		Energy:    []float64{0, 1, 2},
		Omega:     []float64{0, 0.0367, 0.0735},
		Intensity: []float64{0, 0.25, 1},
	}

	sum, _ := strength.Combine(axis, axis, axis, strength.ModeSum)
	norm, _ := strength.Combine(axis, axis, axis, strength.ModeNormalized)
	fmt.Printf("%.2f\n%.4f\n", sum.Intensity, norm.Intensity)
	// Output:
	// [0.00 0.75 3.00]
	// [0.0000 0.2425 0.9701]
}
