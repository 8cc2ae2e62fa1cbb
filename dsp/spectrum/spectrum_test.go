package spectrum

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
	"github.com/cwbudde/algo-rtspectrum/dsp/dipole"
	"github.com/cwbudde/algo-rtspectrum/dsp/sparse"
	"github.com/cwbudde/algo-rtspectrum/internal/testutil"
)

func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range out {
		var sum complex128
		for i, v := range x {
			sum += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*i)/float64(n)))
		}
		out[k] = sum
	}
	return out
}

func series(t *testing.T, dt float64, values []float64) dipole.TimeSeries {
	t.Helper()
	s, err := dipole.NewTimeSeries(testutil.TimeGrid(0, dt, len(values)), values)
	require.NoError(t, err)
	return s
}

func TestTransformMatchesNaiveDFT(t *testing.T) {
	for _, n := range []int{2, 7, 8, 12, 64, 97} {
		x := testutil.DeterministicNoise(int64(n), 1, n)
		got, err := Transform(x)
		require.NoError(t, err)
		want := naiveDFT(x)
		for k := range want {
			assert.InDelta(t, real(want[k]), real(got[k]), 1e-9, "n=%d re[%d]", n, k)
			assert.InDelta(t, imag(want[k]), imag(got[k]), 1e-9, "n=%d im[%d]", n, k)
		}
	}
}

func TestBuildGridSpacingAndOrder(t *testing.T) {
	for _, tc := range []struct {
		n  int
		dt float64
	}{{4, 1}, {5, 0.1}, {1000, 0.05}, {5000, 0.2}, {1, 2}} {
		g, err := BuildGrid(tc.n, tc.dt)
		require.NoError(t, err)
		want := 2 * math.Pi / (float64(tc.n) * tc.dt)
		assert.InDelta(t, want, g.Spacing, 1e-15*want)
		require.Equal(t, tc.n, g.Len())
		assert.Equal(t, 0.0, g.Omega[0])
		for k := 1; k < g.Len(); k++ {
			d := g.Omega[k] - g.Omega[k-1]
			if g.Omega[k] < 0 && g.Omega[k-1] >= 0 {
				continue // wrap to the negative half
			}
			assert.InDelta(t, want, d, 1e-9*want, "n=%d k=%d", tc.n, k)
		}
	}

	g, err := BuildGrid(4, 1)
	require.NoError(t, err)
	dw := math.Pi / 2
	assert.InDeltaSlice(t, []float64{0, dw, -2 * dw, -dw}, g.Omega, 1e-15)

	g, err = BuildGrid(5, 1)
	require.NoError(t, err)
	dw = 2 * math.Pi / 5
	assert.InDeltaSlice(t, []float64{0, dw, 2 * dw, -2 * dw, -dw}, g.Omega, 1e-15)
}

func TestBuildGridRejectsBadInput(t *testing.T) {
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := BuildGrid(8, dt)
		assert.ErrorIs(t, err, core.ErrInvalidParameter, "dt=%v", dt)
	}
	_, err := BuildGrid(0, 1)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestGridEnergiesAndBin(t *testing.T) {
	g, err := BuildGrid(8, 0.5)
	require.NoError(t, err)
	e := g.Energies()
	for i := range e {
		assert.Equal(t, g.Omega[i]*core.HartreeToEV, e[i])
	}
	assert.Equal(t, 3, g.Bin(3*g.Spacing))
	assert.Equal(t, 6, g.Bin(-2*g.Spacing))
}

func TestFourierEstimateChannels(t *testing.T) {
	s := series(t, 0.5, []float64{0, 1, 0, -1, 0, 1, 0, -1})
	est, err := NewFourier().Estimate(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, MethodFourier, est.Method)
	assert.Equal(t, 8, est.Len())
	require.Len(t, est.Real, 8)
	require.Len(t, est.Magnitude, 8)
	assert.Equal(t, 0.5, est.Step)

	// sin(π n / 2): all energy in bins 2 and 6, Im[X2] = −N/2.
	assert.InDelta(t, -4, est.Imag[2], 1e-9)
	assert.InDelta(t, 4, est.Imag[6], 1e-9)
	assert.InDelta(t, 4, est.Magnitude[2], 1e-9)
	for _, k := range []int{0, 1, 3, 4, 5, 7} {
		assert.InDelta(t, 0, est.Magnitude[k], 1e-9, "bin %d", k)
	}

	// sin(πt) sampled at dt = 0.5: the line sits at ω = π, Δω = π/2.
	g, err := est.Grid()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, g.Spacing, 1e-12)
	assert.InDelta(t, math.Pi, g.Omega[2], 1e-12)
	assert.InDelta(t, -math.Pi, g.Omega[6], 1e-12)
}

func TestFourierZeroSignal(t *testing.T) {
	s := series(t, 1, []float64{0, 0, 0, 0})
	est, err := NewFourier().Estimate(context.Background(), s)
	require.NoError(t, err)
	testutil.RequireAllZero(t, est.Real)
	testutil.RequireAllZero(t, est.Imag)
	testutil.RequireAllZero(t, est.Magnitude)
}

func TestFourierRejectsEmptySeries(t *testing.T) {
	_, err := NewFourier().Estimate(context.Background(), dipole.TimeSeries{})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestCompressedSensingRequiresSolver(t *testing.T) {
	_, err := NewCompressedSensing(nil)
	assert.ErrorIs(t, err, core.ErrMissingDependency)
}

func TestCompressedSensingLength(t *testing.T) {
	solver := sparse.NewOMP(sparse.WithMaxAtoms(4))
	cs, err := NewCompressedSensing(solver)
	require.NoError(t, err)

	for _, n := range []int{10, 37, 200} {
		s := series(t, 0.1, testutil.Sine(1.3, 1, testutil.TimeGrid(0, 0.1, n)))
		est, err := cs.Estimate(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, MethodCompressedSensing, est.Method)
		assert.Equal(t, int(math.Round(5.0*float64(n))), est.Len())
		assert.Nil(t, est.Real)
		assert.Nil(t, est.Magnitude)
		assert.False(t, est.Truncated)
		assert.Equal(t, sparse.NameOMP, est.Solver)
	}
}

func TestCompressedSensingCapsSamples(t *testing.T) {
	obsCore, logs := observer.New(zap.WarnLevel)
	cs, err := NewCompressedSensing(sparse.NewOMP(sparse.WithMaxAtoms(2)),
		WithConst(2.5),
		WithMaxSamples(40),
		WithLogger(zap.New(obsCore)),
	)
	require.NoError(t, err)

	s := series(t, 0.2, testutil.Sine(0.7, 1, testutil.TimeGrid(0, 0.2, 100)))
	est, err := cs.Estimate(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, est.Truncated)
	assert.Equal(t, 100, est.InputSamples)
	assert.Equal(t, 40, est.UsedSamples)
	assert.Equal(t, 100, est.Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("sample cap").Len())
}

func TestCompressedSensingDefaultCap(t *testing.T) {
	cs, err := NewCompressedSensing(sparse.NewOMP())
	require.NoError(t, err)
	assert.Equal(t, 5000, cs.Bins(1500))
	assert.Equal(t, 5000, cs.Bins(1000))
	assert.Equal(t, 4995, cs.Bins(999))
}

func TestCompressedSensingRecoversLine(t *testing.T) {
	// A sine exactly on the sparse grid: h[i] = sin(2π·i·j0/Nw).
	const nt, dt, j0 = 32, 0.5, 21
	nw := 5 * nt
	omega := 2 * math.Pi * float64(j0) / (float64(nw) * dt)
	s := series(t, dt, testutil.Sine(omega, 1, testutil.TimeGrid(0, dt, nt)))

	for _, dense := range []bool{false, true} {
		opts := []CSOption{WithNoise(1e-9)}
		if dense {
			opts = append(opts, WithDenseSensing())
		}
		cs, err := NewCompressedSensing(sparse.NewOMP(), opts...)
		require.NoError(t, err)

		est, err := cs.Estimate(context.Background(), s)
		require.NoError(t, err)
		require.Equal(t, nw, est.Len())
		assert.True(t, est.Converged)

		g, err := est.Grid()
		require.NoError(t, err)
		assert.InDelta(t, omega, g.Omega[j0], 1e-12)
		assert.InDelta(t, 1, est.Imag[j0]-est.Imag[nw-j0], 1e-8)
	}
}

func TestCompressedSensingTimeout(t *testing.T) {
	cs, err := NewCompressedSensing(sparse.NewBPDN(sparse.WithMaxIterations(1_000_000)),
		WithTimeout(time.Nanosecond), WithNoise(0))
	require.NoError(t, err)

	s := series(t, 0.1, testutil.DeterministicNoise(5, 1, 64))
	_, err = cs.Estimate(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTimeout), "err = %v", err)
}

func TestParseMethod(t *testing.T) {
	for name, want := range map[string]Method{
		"fourier": MethodFourier, "FFT": MethodFourier, "": MethodFourier,
		"cs": MethodCompressedSensing, "compressed-sensing": MethodCompressedSensing,
	} {
		got, err := ParseMethod(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseMethod("wavelet")
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.Equal(t, "compressed-sensing", MethodCompressedSensing.String())
}

func TestSplit(t *testing.T) {
	re, im, mag := Split([]complex128{3 + 4i, 0, -1})
	assert.Equal(t, []float64{3, 0, -1}, re)
	assert.Equal(t, []float64{4, 0, 0}, im)
	assert.InDeltaSlice(t, []float64{5, 0, 1}, mag, 1e-12)

	re, im, mag = Split(nil)
	assert.Nil(t, re)
	assert.Nil(t, im)
	assert.Nil(t, mag)
}

func TestTransformReusesScratch(t *testing.T) {
	long := testutil.DeterministicNoise(3, 1, 64)
	short := []float64{1, 2, 3, 4}

	want, err := Transform(short)
	require.NoError(t, err)

	// A larger pooled buffer must be trimmed, not leak stale samples.
	_, err = Transform(long)
	require.NoError(t, err)
	got, err := Transform(short)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			out, err := Transform(short)
			if err != nil {
				return err
			}
			for k := range out {
				if cmplx.Abs(out[k]-want[k]) > 1e-12 {
					return fmt.Errorf("bin %d = %v, want %v", k, out[k], want[k])
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
