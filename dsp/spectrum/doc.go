// Package spectrum maps a conditioned dipole signal to the frequency domain.
//
// Two estimators implement [Estimator]:
//
//   - [Fourier] takes the discrete Fourier transform and keeps every bin,
//     positive and negative frequencies alike, exposing real, imaginary and
//     magnitude channels.
//   - [CompressedSensing] reconstructs an oversampled sparse line spectrum
//     of length round(const·Nt) through a sparse.Solver. Only its
//     coefficient channel is produced; it takes the place of the imaginary
//     channel downstream.
//
// [BuildGrid] assigns signed angular frequencies to the bins of either
// estimate. The grid always covers the full signed range in standard DFT
// order; no estimator truncates to the positive half.
package spectrum
