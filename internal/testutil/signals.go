// Package testutil provides deterministic dipole-like signals and tolerance
// helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// TimeGrid returns n uniformly spaced time stamps starting at t0.
func TimeGrid(t0, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + float64(i)*dt
	}
	return out
}

// Sine samples amplitude*sin(omega*t) at each time stamp.
func Sine(omega, amplitude float64, times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = amplitude * math.Sin(omega*t)
	}
	return out
}

// DampedSine samples amplitude*sin(omega*t)*exp(-t/tau), the free induction
// decay of a single excitation after a delta kick.
func DampedSine(omega, amplitude, tau float64, times []float64) []float64 {
	out := Sine(omega, amplitude, times)
	for i, t := range times {
		out[i] *= math.Exp(-t / tau)
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// ArgMax returns the index of the largest element, or -1 for an empty slice.
func ArgMax(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	best := 0
	for i, v := range xs {
		if v > xs[best] {
			best = i
		}
	}
	return best
}
