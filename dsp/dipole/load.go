package dipole

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

// LoadOption configures table parsing.
type LoadOption func(*loadConfig)

type loadConfig struct {
	columns Columns
	comma   rune
	scale   float64
}

func defaultLoadConfig() loadConfig {
	return loadConfig{
		columns: DefaultColumns(),
		comma:   ',',
		scale:   core.DebyeToAU,
	}
}

// WithColumns overrides the column layout.
func WithColumns(c Columns) LoadOption {
	return func(cfg *loadConfig) {
		if c.Validate() == nil {
			cfg.columns = c
		}
	}
}

// WithComma sets the field delimiter. The default is ','.
func WithComma(r rune) LoadOption {
	return func(cfg *loadConfig) {
		if r != 0 && r != '\n' && r != '\r' && r != '"' {
			cfg.comma = r
		}
	}
}

// WithScale sets the factor applied to every dipole value. The default
// converts Debye to atomic units.
func WithScale(scale float64) LoadOption {
	return func(cfg *loadConfig) {
		if scale != 0 && core.IsFinite(scale) {
			cfg.scale = scale
		}
	}
}

func applyLoadOptions(opts []LoadOption) loadConfig {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ReadAxis parses one axis of a dipole table from r. The first row is a
// header and is discarded.
func ReadAxis(r io.Reader, axis Axis, opts ...LoadOption) (TimeSeries, error) {
	cfg := applyLoadOptions(opts)

	col, err := cfg.columns.Index(axis)
	if err != nil {
		return TimeSeries{}, err
	}

	cr := csv.NewReader(r)
	cr.Comma = cfg.comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return TimeSeries{}, fmt.Errorf("%w: dipole table is empty", core.ErrInvalidParameter)
		}
		return TimeSeries{}, fmt.Errorf("dipole: read header: %w", err)
	}

	var times, values []float64
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TimeSeries{}, fmt.Errorf("dipole: read row %d: %w", row, err)
		}
		if blankRecord(rec) {
			continue
		}

		t, err := parseField(rec, cfg.columns.Time, row)
		if err != nil {
			return TimeSeries{}, err
		}
		v, err := parseField(rec, col, row)
		if err != nil {
			return TimeSeries{}, err
		}

		times = append(times, t)
		values = append(values, v*cfg.scale)
	}

	return NewTimeSeries(times, values)
}

// LoadAxis reads one axis of the dipole table stored at path.
func LoadAxis(path string, axis Axis, opts ...LoadOption) (TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return TimeSeries{}, fmt.Errorf("dipole: %w", err)
	}
	defer f.Close()

	s, err := ReadAxis(f, axis, opts...)
	if err != nil {
		return TimeSeries{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadTrace loads the x, y and z components from one file per axis. The same
// path may be given for several axes.
func LoadTrace(xPath, yPath, zPath string, opts ...LoadOption) (Trace, error) {
	var series [3]TimeSeries
	for i, path := range [3]string{xPath, yPath, zPath} {
		s, err := LoadAxis(path, Axes[i], opts...)
		if err != nil {
			return Trace{}, fmt.Errorf("axis %s: %w", Axes[i], err)
		}
		series[i] = s
	}
	return NewTrace(series[0], series[1], series[2])
}

func parseField(rec []string, col, row int) (float64, error) {
	if col >= len(rec) {
		return 0, fmt.Errorf("%w: row %d has %d columns, need column %d",
			core.ErrInvalidParameter, row, len(rec), col)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d column %d: %v", core.ErrInvalidParameter, row, col, err)
	}
	return v, nil
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
