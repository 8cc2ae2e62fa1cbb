package window

import (
	"fmt"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: envelope size must be > 0: %d", core.ErrInvalidParameter, size)
	}
	return nil
}

func validateDecay(step, tau float64) error {
	if !(step > 0) || !core.IsFinite(step) {
		return fmt.Errorf("%w: time step must be > 0: %g", core.ErrInvalidParameter, step)
	}
	if !(tau > 0) || !core.IsFinite(tau) {
		return fmt.Errorf("%w: damping constant must be > 0: %g", core.ErrInvalidParameter, tau)
	}
	return nil
}
