package dipole

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

const sampleTable = `Time (au),Energy,Dipole X,Dipole Y,Dipole Z
0.0,-76.0,1.0,2.0,3.0
0.1,-76.0,1.5,2.0,2.5
0.2,-76.0,2.0,2.0,2.0
0.3,-76.0,2.5,2.0,1.5
`

func TestParseAxis(t *testing.T) {
	tests := []struct {
		label string
		want  Axis
	}{
		{"x", AxisX},
		{"Y", AxisY},
		{" z ", AxisZ},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseAxis(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "w", "xy", "1"} {
		_, err := ParseAxis(bad)
		assert.ErrorIs(t, err, core.ErrInvalidParameter, "label %q", bad)
	}
}

func TestAxisString(t *testing.T) {
	assert.Equal(t, "x", AxisX.String())
	assert.Equal(t, "z", AxisZ.String())
	assert.Equal(t, "Axis(7)", Axis(7).String())
	assert.False(t, Axis(-1).Valid())
}

func TestColumnsIndex(t *testing.T) {
	c := DefaultColumns()
	for a, want := range map[Axis]int{AxisX: 2, AxisY: 3, AxisZ: 4} {
		got, err := c.Index(a)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := c.Index(Axis(3))
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.ErrorIs(t, Columns{Time: 0, X: -1}.Validate(), core.ErrInvalidParameter)
}

func TestNewTimeSeriesValidation(t *testing.T) {
	tests := []struct {
		name string
		time []float64
		amp  []float64
	}{
		{name: "too short", time: []float64{0}, amp: []float64{1}},
		{name: "length mismatch", time: []float64{0, 1, 2}, amp: []float64{1, 2}},
		{name: "zero step", time: []float64{1, 1, 1}, amp: []float64{1, 2, 3}},
		{name: "decreasing", time: []float64{2, 1, 0}, amp: []float64{1, 2, 3}},
		{name: "non-uniform", time: []float64{0, 1, 3}, amp: []float64{1, 2, 3}},
		{name: "nan", time: []float64{0, 1, 2}, amp: []float64{1, 2, math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeSeries(tt.time, tt.amp)
			assert.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}
}

func TestTimeSeriesIsImmutable(t *testing.T) {
	time := []float64{0, 0.5, 1}
	amp := []float64{3, 4, 5}
	s, err := NewTimeSeries(time, amp)
	require.NoError(t, err)

	amp[0] = 100
	assert.Equal(t, 3.0, s.ValueAt(0))

	vals := s.Values()
	vals[1] = 100
	assert.Equal(t, 4.0, s.ValueAt(1))
	assert.InDelta(t, 0.5, s.Step(), 1e-15)
	assert.Equal(t, 3, s.Len())
}

func TestTimeSeriesHead(t *testing.T) {
	s, err := NewTimeSeries([]float64{0, 1, 2, 3}, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Head(2).Len())
	assert.Equal(t, 4, s.Head(10).Len())
	assert.Equal(t, 2, s.Head(0).Len())
}

func TestReadAxisConvertsDebye(t *testing.T) {
	s, err := ReadAxis(strings.NewReader(sampleTable), AxisX)
	require.NoError(t, err)

	require.Equal(t, 4, s.Len())
	assert.InDelta(t, 0.1, s.Step(), 1e-12)
	assert.InDelta(t, 1.0*core.DebyeToAU, s.ValueAt(0), 1e-15)
	assert.InDelta(t, 2.5*core.DebyeToAU, s.ValueAt(3), 1e-15)

	z, err := ReadAxis(strings.NewReader(sampleTable), AxisZ, WithScale(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2.5, 2, 1.5}, z.Values())
}

func TestReadAxisCustomLayout(t *testing.T) {
	table := "t;dz\n0;1\n2;4\n4;9\n"
	s, err := ReadAxis(strings.NewReader(table), AxisZ,
		WithComma(';'),
		WithColumns(Columns{Time: 0, X: 1, Y: 1, Z: 1}),
		WithScale(1),
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 9}, s.Values())
	assert.InDelta(t, 2.0, s.Step(), 1e-15)
}

func TestReadAxisErrors(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{name: "empty", table: ""},
		{name: "header only", table: "a,b,c,d,e\n"},
		{name: "missing column", table: "a,b\n0,0\n1,0\n"},
		{name: "not a number", table: "a,b,c,d,e\n0,0,abc,0,0\n1,0,1,0,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAxis(strings.NewReader(tt.table), AxisX)
			assert.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}
}

func TestLoadTrace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "RealTime_Dipole.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o600))

	tr, err := LoadTrace(path, path, path)
	require.NoError(t, err)
	assert.Equal(t, 4, tr.Len())
	assert.InDelta(t, 2.0*core.DebyeToAU, tr.Axis(AxisY).ValueAt(2), 1e-15)

	_, err = LoadTrace(path, filepath.Join(dir, "missing.csv"), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "axis y")
}

func TestNewTraceRejectsDifferentGrids(t *testing.T) {
	a, err := NewTimeSeries([]float64{0, 1, 2}, []float64{0, 0, 0})
	require.NoError(t, err)
	b, err := NewTimeSeries([]float64{0, 2, 4}, []float64{0, 0, 0})
	require.NoError(t, err)
	c, err := NewTimeSeries([]float64{0, 1}, []float64{0, 0})
	require.NoError(t, err)

	_, err = NewTrace(a, b, a)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
	_, err = NewTrace(a, a, c)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
	_, err = NewTrace(a, TimeSeries{}, a)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}
