package absorption

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-rtspectrum/dsp/sparse"
	"github.com/cwbudde/algo-rtspectrum/dsp/spectrum"
	"github.com/cwbudde/algo-rtspectrum/dsp/strength"
	"github.com/cwbudde/algo-rtspectrum/dsp/window"
)

// DefaultDampingConstant is the envelope decay time in atomic units. Values
// between 50 and 250 usually give well-resolved lines.
const DefaultDampingConstant = 150.0

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	kick       float64
	damping    float64
	envelope   window.Type
	padding    int
	convention strength.Convention

	estimator  spectrum.Estimator
	useCS      bool
	solver     string
	csOpts     []spectrum.CSOption
	solverOpts []sparse.Option

	logger   *zap.Logger
	parallel bool
}

func defaultConfig() config {
	return config{
		damping:  DefaultDampingConstant,
		envelope: window.TypeExponential,
		logger:   zap.NewNop(),
	}
}

// WithKickStrength sets the applied field strength in atomic units. It has
// no default and must be nonzero.
func WithKickStrength(k float64) Option {
	return func(cfg *config) {
		cfg.kick = k
	}
}

// WithDampingConstant sets the envelope decay time in atomic units.
func WithDampingConstant(tau float64) Option {
	return func(cfg *config) {
		cfg.damping = tau
	}
}

// WithEnvelope selects the damping envelope shape.
func WithEnvelope(t window.Type) Option {
	return func(cfg *config) {
		cfg.envelope = t
	}
}

// WithZeroPadding appends n zero samples after damping.
func WithZeroPadding(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.padding = n
		}
	}
}

// WithConvention selects the strength formula.
func WithConvention(c strength.Convention) Option {
	return func(cfg *config) {
		cfg.convention = c
	}
}

// WithEstimator uses e for every axis. It takes precedence over
// WithCompressedSensing.
func WithEstimator(e spectrum.Estimator) Option {
	return func(cfg *config) {
		if e != nil {
			cfg.estimator = e
		}
	}
}

// WithCompressedSensing switches to compressed-sensing estimation with the
// named solver from sparse.Global. An empty name selects the registry's
// default convex solver.
func WithCompressedSensing(solver string, opts ...spectrum.CSOption) Option {
	return func(cfg *config) {
		cfg.useCS = true
		cfg.solver = solver
		cfg.csOpts = append(cfg.csOpts, opts...)
	}
}

// WithSolverOptions passes options to the compressed-sensing solver.
func WithSolverOptions(opts ...sparse.Option) Option {
	return func(cfg *config) {
		cfg.solverOpts = append(cfg.solverOpts, opts...)
	}
}

// WithLogger sets the logger for progress and estimator reports.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithParallelAxes processes the three axes concurrently.
func WithParallelAxes(enabled bool) Option {
	return func(cfg *config) {
		cfg.parallel = enabled
	}
}
