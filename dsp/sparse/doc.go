// Package sparse recovers a sparse coefficient vector g from an
// under-determined linear observation h ≈ F·g.
//
// The sensing operator used for absorption spectra is the sine dictionary
//
//	F[i,j] = sin(2π·i·j / Nw),  i < Nt, j < Nw, Nw > Nt
//
// whose columns are oversampled sine modes; a sparse g is then a
// high-resolution line spectrum of the time signal h.
//
// Two solvers are provided and registered in [Global] under their names:
//
//   - "bpdn": basis pursuit denoising, min ‖g‖₁ s.t. ‖F·g − h‖₂ ≤ noise,
//     solved by linearized ADMM (convex).
//   - "omp": orthogonal matching pursuit, greedily adding the best
//     correlated column until ‖F·g − h‖₂ ≤ noise (greedy).
//
// Callers resolve a solver by name through the registry, which reports
// [core.ErrMissingDependency] for names that are not registered.
package sparse
