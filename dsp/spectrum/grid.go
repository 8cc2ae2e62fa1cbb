package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

// Grid is the signed angular-frequency axis of an estimate, in atomic units
// (radians per atomic time unit, numerically equal to Hartree).
//
// Bin k holds k·Δω for k < ceil(n/2) and (k−n)·Δω above, the standard DFT
// ordering. Both estimators use this one policy.
type Grid struct {
	Omega   []float64
	Spacing float64
}

// BuildGrid returns the signed frequency grid for n bins of a signal sampled
// every step: Δω = 2π/(n·step).
func BuildGrid(n int, step float64) (Grid, error) {
	if n < 1 {
		return Grid{}, fmt.Errorf("%w: grid needs at least 1 bin: %d", core.ErrInvalidParameter, n)
	}
	if !(step > 0) || !core.IsFinite(step) {
		return Grid{}, fmt.Errorf("%w: time step must be > 0: %g", core.ErrInvalidParameter, step)
	}

	dw := 2 * math.Pi / (float64(n) * step)
	omega := make([]float64, n)
	half := (n + 1) / 2
	for k := range omega {
		if k < half {
			omega[k] = float64(k) * dw
		} else {
			omega[k] = float64(k-n) * dw
		}
	}
	return Grid{Omega: omega, Spacing: dw}, nil
}

// Len returns the bin count.
func (g Grid) Len() int { return len(g.Omega) }

// Energies returns the grid converted to electron-volts.
func (g Grid) Energies() []float64 {
	out := make([]float64, len(g.Omega))
	for i, w := range g.Omega {
		out[i] = w * core.HartreeToEV
	}
	return out
}

// Bin returns the index whose frequency is closest to omega.
func (g Grid) Bin(omega float64) int {
	if len(g.Omega) == 0 || g.Spacing == 0 {
		return -1
	}
	n := len(g.Omega)
	k := int(math.Round(omega / g.Spacing))
	k %= n
	if k < 0 {
		k += n
	}
	return k
}
