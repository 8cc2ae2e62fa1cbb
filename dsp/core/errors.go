package core

import "errors"

// Error kinds shared by every stage of the spectrum pipeline. Stages wrap
// them with context, so callers match with errors.Is.
var (
	// ErrInvalidParameter reports a bad axis label, a non-positive damping
	// constant, a zero kick strength, a zero time step or malformed input.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMissingDependency reports that a requested sparse-recovery solver
	// is not registered.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrShapeMismatch reports spectra or grids of differing length.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrTimeout reports a compressed-sensing solve that exceeded its bound.
	ErrTimeout = errors.New("timeout")
)
