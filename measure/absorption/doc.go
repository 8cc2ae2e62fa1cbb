// Package absorption turns real-time dipole traces into isotropic
// absorption spectra.
//
// Each Cartesian axis is processed independently:
//
//   - baseline removal and damping (dsp/condition)
//   - spectral estimation by Fourier transform or compressed sensing
//     (dsp/spectrum)
//   - conversion to the dipole strength function on a signed frequency
//     grid (dsp/strength)
//
// The three axis spectra are then combined into one spectrum. Fourier
// spectra are summed; compressed-sensing spectra are summed, normalized and
// made non-negative.
//
// # Usage
//
//	trace, err := dipole.LoadTrace("x.csv", "y.csv", "z.csv")
//	analyzer, err := absorption.NewAnalyzer(absorption.WithKickStrength(1e-4))
//	result, err := analyzer.Analyze(ctx, trace)
//	for i, e := range result.Combined.Energy { ... }
package absorption
