package spectrum

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/dipole"
	"github.com/cwbudde/algo-rtspectrum/dsp/sparse"
)

// Compressed-sensing defaults.
const (
	DefaultConst      = 5.0
	DefaultNoise      = 1e-7
	DefaultMaxSamples = 1000
)

// CSOption configures a CompressedSensing estimator.
type CSOption func(*csConfig)

type csConfig struct {
	oversample float64
	noise      float64
	maxSamples int
	timeout    time.Duration
	dense      bool
	logger     *zap.Logger
}

func defaultCSConfig() csConfig {
	return csConfig{
		oversample: DefaultConst,
		noise:      DefaultNoise,
		maxSamples: DefaultMaxSamples,
		logger:     zap.NewNop(),
	}
}

// WithConst sets the oversampling factor: Nw = round(c·Nt).
func WithConst(c float64) CSOption {
	return func(cfg *csConfig) {
		if c > 0 && core.IsFinite(c) {
			cfg.oversample = c
		}
	}
}

// WithNoise sets the residual bound ‖F·g − h‖₂ ≤ noise.
func WithNoise(noise float64) CSOption {
	return func(cfg *csConfig) {
		if noise >= 0 && core.IsFinite(noise) {
			cfg.noise = noise
		}
	}
}

// WithMaxSamples sets the cap on consumed time samples. The default is 1000.
func WithMaxSamples(n int) CSOption {
	return func(cfg *csConfig) {
		if n >= 2 {
			cfg.maxSamples = n
		}
	}
}

// WithTimeout bounds a single solve. Exceeding it yields core.ErrTimeout.
func WithTimeout(d time.Duration) CSOption {
	return func(cfg *csConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithDenseSensing uses an explicit sensing matrix instead of the FFT-backed
// operator.
func WithDenseSensing() CSOption {
	return func(cfg *csConfig) {
		cfg.dense = true
	}
}

// WithLogger sets the sink for sample-cap and convergence reports.
func WithLogger(l *zap.Logger) CSOption {
	return func(cfg *csConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// CompressedSensing reconstructs a sparse line spectrum g of length
// Nw = round(const·Nt) from the signal h of length Nt through the sine
// dictionary F[i,j] = sin(2π·i·j/Nw).
type CompressedSensing struct {
	solver sparse.Solver
	cfg    csConfig
}

// NewCompressedSensing returns an estimator backed by solver. A nil solver is
// core.ErrMissingDependency; there is no fallback to the Fourier estimator.
func NewCompressedSensing(solver sparse.Solver, opts ...CSOption) (*CompressedSensing, error) {
	if solver == nil {
		return nil, fmt.Errorf("%w: compressed sensing requires a sparse solver", core.ErrMissingDependency)
	}
	cfg := defaultCSConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &CompressedSensing{solver: solver, cfg: cfg}, nil
}

// Method implements Estimator.
func (c *CompressedSensing) Method() Method { return MethodCompressedSensing }

// Bins returns the output length for an input of n samples, after the cap.
func (c *CompressedSensing) Bins(n int) int {
	if n > c.cfg.maxSamples {
		n = c.cfg.maxSamples
	}
	return int(math.Round(c.cfg.oversample * float64(n)))
}

// Estimate implements Estimator.
func (c *CompressedSensing) Estimate(ctx context.Context, s dipole.TimeSeries) (Estimate, error) {
	if err := validateSeries(s); err != nil {
		return Estimate{}, err
	}

	input := s.Len()
	used := s.Head(c.cfg.maxSamples)
	truncated := used.Len() < input
	if truncated {
		c.cfg.logger.Warn("compressed sensing input exceeds sample cap; truncating",
			zap.Int("samples", input),
			zap.Int("cap", c.cfg.maxSamples),
		)
	}

	nt := used.Len()
	nw := c.Bins(input)
	if nw < 1 {
		return Estimate{}, fmt.Errorf("%w: compressed sensing grid is empty (const=%g, samples=%d)",
			core.ErrInvalidParameter, c.cfg.oversample, nt)
	}

	op, err := c.operator(nt, nw)
	if err != nil {
		return Estimate{}, err
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	res, err := c.solver.Solve(ctx, op, used.Values(), c.cfg.noise)
	if err != nil {
		return Estimate{}, fmt.Errorf("compressed sensing (%s): %w", c.solver.Name(), err)
	}
	if !res.Converged {
		c.cfg.logger.Warn("sparse solver did not reach the residual bound",
			zap.String("solver", c.solver.Name()),
			zap.Int("iterations", res.Iterations),
			zap.Float64("residual", res.Residual),
			zap.Float64("noise", c.cfg.noise),
		)
	}

	return Estimate{
		Method:       MethodCompressedSensing,
		Imag:         res.Coefficients,
		Step:         s.Step(),
		InputSamples: input,
		UsedSamples:  nt,
		Truncated:    truncated,
		Solver:       c.solver.Name(),
		Iterations:   res.Iterations,
		Residual:     res.Residual,
		Converged:    res.Converged,
	}, nil
}

func (c *CompressedSensing) operator(nt, nw int) (sparse.Operator, error) {
	if c.cfg.dense {
		m, err := sparse.SineMatrix(nt, nw)
		if err != nil {
			return nil, err
		}
		return sparse.NewDenseOperator(m), nil
	}
	return sparse.NewSineOperator(nt, nw)
}
