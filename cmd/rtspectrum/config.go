package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/dipole"
	"github.com/cwbudde/algo-rtspectrum/dsp/spectrum"
	"github.com/cwbudde/algo-rtspectrum/measure/absorption"
)

// envPrefix prefixes every environment override.
const envPrefix = "RTSPECTRUM_"

// Config is the complete command configuration.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// InputConfig locates the dipole files.
type InputConfig struct {
	X       string         `yaml:"x"`
	Y       string         `yaml:"y"`
	Z       string         `yaml:"z"`
	Columns dipole.Columns `yaml:"columns"`
	// Unit of the dipole columns, "debye" or "au".
	Unit string `yaml:"unit"`
}

// AnalysisConfig holds the pipeline parameters.
type AnalysisConfig struct {
	KickStrength    float64 `yaml:"kick_strength"`
	DampingConstant float64 `yaml:"damping_constant"`
	Envelope        string  `yaml:"envelope"`
	ZeroPadding     int     `yaml:"zero_padding"`
	Convention      string  `yaml:"convention"`
	Estimator       string  `yaml:"estimator"`
	Solver          string  `yaml:"solver"`
	CSConst         float64 `yaml:"cs_const"`
	CSNoise         float64 `yaml:"cs_noise"`
	CSMaxSamples    int     `yaml:"cs_max_samples"`
	MaxIterations   int     `yaml:"max_iterations"`
	Timeout         string  `yaml:"timeout"`
	Parallel        bool    `yaml:"parallel"`
}

// OutputConfig names the output files. Empty paths are skipped; a CSV path
// of "-" writes to stdout.
type OutputConfig struct {
	CSV       string  `yaml:"csv"`
	PNG       string  `yaml:"png"`
	HTML      string  `yaml:"html"`
	Peaks     int     `yaml:"peaks"`
	EnergyMax float64 `yaml:"energy_max"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

func defaultConfig() Config {
	return Config{
		Input: InputConfig{
			Columns: dipole.DefaultColumns(),
			Unit:    "debye",
		},
		Analysis: AnalysisConfig{
			KickStrength:    1e-4,
			DampingConstant: absorption.DefaultDampingConstant,
			Estimator:       spectrum.MethodFourier.String(),
			CSConst:         spectrum.DefaultConst,
			CSNoise:         spectrum.DefaultNoise,
			CSMaxSamples:    spectrum.DefaultMaxSamples,
		},
		Output: OutputConfig{
			CSV:       "-",
			Peaks:     5,
			EnergyMax: 25,
		},
		Log: LogConfig{Level: "info"},
	}
}

// loadFile overlays a YAML file onto cfg. Keys absent from the file keep
// their current values.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// readEnv returns the RTSPECTRUM_* variables from an optional .env file,
// overridden by the process environment.
func readEnv(path string) (map[string]string, error) {
	env := map[string]string{}
	if path != "" {
		fileEnv, err := godotenv.Read(path)
		switch {
		case err == nil:
			for k, v := range fileEnv {
				env[k] = v
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, envPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

// applyEnv overlays RTSPECTRUM_* overrides onto cfg.
func applyEnv(cfg *Config, env map[string]string) error {
	strs := map[string]*string{
		"X":         &cfg.Input.X,
		"Y":         &cfg.Input.Y,
		"Z":         &cfg.Input.Z,
		"UNIT":      &cfg.Input.Unit,
		"ENVELOPE":  &cfg.Analysis.Envelope,
		"ESTIMATOR": &cfg.Analysis.Estimator,
		"SOLVER":    &cfg.Analysis.Solver,
		"TIMEOUT":   &cfg.Analysis.Timeout,
		"OUT":       &cfg.Output.CSV,
		"PNG":       &cfg.Output.PNG,
		"HTML":      &cfg.Output.HTML,
		"LOG_LEVEL": &cfg.Log.Level,
	}
	floats := map[string]*float64{
		"KICK":     &cfg.Analysis.KickStrength,
		"DAMP":     &cfg.Analysis.DampingConstant,
		"CS_CONST": &cfg.Analysis.CSConst,
		"CS_NOISE": &cfg.Analysis.CSNoise,
	}
	ints := map[string]*int{
		"ZERO_PADDING":   &cfg.Analysis.ZeroPadding,
		"CS_MAX_SAMPLES": &cfg.Analysis.CSMaxSamples,
		"MAX_ITERATIONS": &cfg.Analysis.MaxIterations,
	}

	for key, dst := range strs {
		if v, ok := env[envPrefix+key]; ok {
			*dst = v
		}
	}
	for key, dst := range floats {
		if v, ok := env[envPrefix+key]; ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q: %v", core.ErrInvalidParameter, envPrefix, key, v, err)
			}
			*dst = f
		}
	}
	for key, dst := range ints {
		if v, ok := env[envPrefix+key]; ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q: %v", core.ErrInvalidParameter, envPrefix, key, v, err)
			}
			*dst = n
		}
	}
	if v, ok := env[envPrefix+"PARALLEL"]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sPARALLEL=%q: %v", core.ErrInvalidParameter, envPrefix, v, err)
		}
		cfg.Analysis.Parallel = b
	}
	return nil
}

// scale returns the dipole unit conversion factor.
func (c InputConfig) scale() (float64, error) {
	switch strings.ToLower(strings.TrimSpace(c.Unit)) {
	case "", "debye":
		return core.DebyeToAU, nil
	case "au", "atomic":
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: unknown dipole unit %q", core.ErrInvalidParameter, c.Unit)
	}
}

// timeout parses the solver timeout. Empty means none.
func (c AnalysisConfig) timeout() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: timeout %q", core.ErrInvalidParameter, c.Timeout)
	}
	return d, nil
}

// validate checks what the pipeline itself cannot: that every axis has an
// input file.
func (c Config) validate() error {
	for _, p := range []struct {
		axis dipole.Axis
		path string
	}{{dipole.AxisX, c.Input.X}, {dipole.AxisY, c.Input.Y}, {dipole.AxisZ, c.Input.Z}} {
		if strings.TrimSpace(p.path) == "" {
			return fmt.Errorf("%w: no input file for axis %s", core.ErrInvalidParameter, p.axis)
		}
	}
	return c.Input.Columns.Validate()
}
