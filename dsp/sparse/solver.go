package sparse

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

// Result is the outcome of a sparse recovery.
type Result struct {
	// Coefficients is the recovered g, one value per operator column.
	Coefficients []float64
	// Residual is ‖F·g − h‖₂ for the returned coefficients.
	Residual float64
	// Iterations counts solver iterations (ADMM steps or selected atoms).
	Iterations int
	// Converged reports whether Residual meets the noise bound. When false
	// the coefficients are the best iterate found and satisfy the bound only
	// approximately.
	Converged bool
}

// Solver recovers a sparse g with ‖F·g − h‖₂ ≤ noise.
type Solver interface {
	// Name returns the registry name of the solver.
	Name() string
	// Solve runs the recovery. It honours ctx cancellation and deadlines; a
	// passed deadline is reported as core.ErrTimeout.
	Solve(ctx context.Context, op Operator, h []float64, noise float64) (Result, error)
}

// Option configures a solver.
type Option func(*config)

type config struct {
	maxIterations int
	tolerance     float64
	penalty       float64
	maxAtoms      int
}

func defaultConfig() config {
	return config{
		maxIterations: 5000,
		tolerance:     1e-6,
		penalty:       1,
	}
}

// WithMaxIterations bounds ADMM iterations.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithTolerance sets the relative change in g below which ADMM stops once
// the residual bound holds.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		if tol > 0 {
			c.tolerance = tol
		}
	}
}

// WithPenalty sets the ADMM augmented-Lagrangian penalty for a
// unit-amplitude signal.
func WithPenalty(beta float64) Option {
	return func(c *config) {
		if beta > 0 {
			c.penalty = beta
		}
	}
}

// WithMaxAtoms bounds the OMP support size. The default is the number of
// observations.
func WithMaxAtoms(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAtoms = n
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func validateProblem(op Operator, h []float64, noise float64) error {
	if op == nil {
		return fmt.Errorf("%w: nil sensing operator", core.ErrInvalidParameter)
	}
	rows, cols := op.Dims()
	if rows != len(h) {
		return fmt.Errorf("%w: observation length %d != operator rows %d", core.ErrShapeMismatch, len(h), rows)
	}
	if cols < 1 {
		return fmt.Errorf("%w: operator has no columns", core.ErrInvalidParameter)
	}
	if noise < 0 || !core.IsFinite(noise) {
		return fmt.Errorf("%w: noise tolerance must be >= 0: %g", core.ErrInvalidParameter, noise)
	}
	if !core.AllFinite(h) {
		return fmt.Errorf("%w: observation contains non-finite values", core.ErrInvalidParameter)
	}
	return nil
}

// contextErr maps a done context to the package error kinds.
func contextErr(ctx context.Context, solver string, iter int) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s solver stopped after %d iterations: %v", core.ErrTimeout, solver, iter, err)
	}
	return fmt.Errorf("%s solver: %w", solver, err)
}
