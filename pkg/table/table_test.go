package table

import (
	"math"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func sampleRows() ([]float64, []float64, [][]float64) {
	distances := []float64{0, 1, 2, 3, 4}
	depths := []float64{0, 35, 100}
	rows := [][]float64{
		{0, 13.8, 27.6, 41.4, 55.2},
		{BadSample, BadSample, 26.1, 39.9, 53.7},
		{10.2, 16.9, 29.8, 42.1, 54.9},
	}
	return distances, depths, rows
}

func TestNewTracksHoles(t *testing.T) {
	distances, depths, rows := sampleRows()
	tbl, err := New(distances, depths, rows)
	require.NoError(t, err)

	assert.Equal(t, 5, tbl.NumDistances())
	assert.Equal(t, 3, tbl.NumDepths())
	assert.Equal(t, 13, tbl.ValidCount())
	assert.InDelta(t, 13.0/15.0, tbl.Coverage(), 1e-12)

	v, ok := tbl.Sample(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = tbl.Sample(1, 0)
	assert.False(t, ok)
	assert.False(t, tbl.Valid(1, 1))
	assert.True(t, tbl.Valid(1, 2))

	v, ok = tbl.Sample(2, 3)
	assert.True(t, ok)
	assert.Equal(t, 42.1, v)
}

func TestNewCopiesInput(t *testing.T) {
	distances, depths, rows := sampleRows()
	tbl, err := New(distances, depths, rows)
	require.NoError(t, err)

	rows[0][1] = 99
	distances[0] = -5

	v, _ := tbl.Sample(0, 1)
	assert.Equal(t, 13.8, v)
	assert.Equal(t, 0.0, tbl.Distances()[0])
}

func TestNewValidation(t *testing.T) {
	testCases := []struct {
		name      string
		distances []float64
		depths    []float64
		rows      [][]float64
		want      error
	}{
		{"empty distances", nil, []float64{0}, [][]float64{{}}, ErrEmptyAxis},
		{"empty depths", []float64{0, 1}, nil, nil, ErrEmptyAxis},
		{"row count", []float64{0, 1}, []float64{0, 1}, [][]float64{{1, 2}}, ErrShapeMismatch},
		{"row length", []float64{0, 1}, []float64{0}, [][]float64{{1}}, ErrShapeMismatch},
		{"repeated distance", []float64{0, 1, 1}, []float64{0}, [][]float64{{1, 2, 3}}, ErrNotMonotonic},
		{"zig-zag depth", []float64{0, 1}, []float64{0, 10, 5}, [][]float64{{1, 2}, {1, 2}, {1, 2}}, ErrNotMonotonic},
		{"NaN axis", []float64{0, math.NaN()}, []float64{0}, [][]float64{{1, 2}}, ErrNotFinite},
		{"Inf sample", []float64{0, 1}, []float64{0}, [][]float64{{1, math.Inf(1)}}, ErrNotFinite},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.distances, tc.depths, tc.rows)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewDense(t *testing.T) {
	distances, depths, rows := sampleRows()
	m := mat.NewDense(3, 5, nil)
	for i, row := range rows {
		m.SetRow(i, row)
	}

	tbl, err := NewDense(distances, depths, m)
	require.NoError(t, err)
	assert.Equal(t, 13, tbl.ValidCount())

	m.Set(0, 1, 99)
	v, _ := tbl.Sample(0, 1)
	assert.Equal(t, 13.8, v)

	assert.True(t, mat.Equal(tbl.Values(), mat.NewDense(3, 5, []float64{
		0, 13.8, 27.6, 41.4, 55.2,
		BadSample, BadSample, 26.1, 39.9, 53.7,
		10.2, 16.9, 29.8, 42.1, 54.9,
	})))

	_, err = NewDense(distances, depths[:2], m)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDescendingAxes(t *testing.T) {
	tbl, err := New([]float64{4, 3, 2}, []float64{100, 0}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 6, tbl.ValidCount())
}

func TestNearestValid(t *testing.T) {
	distances, depths, rows := sampleRows()
	tbl, err := New(distances, depths, rows)
	require.NoError(t, err)

	// The query sits on the hole at (35 km, 0 deg); the closest real
	// samples in grid space are directly above and below it.
	knot, ok := tbl.NearestValid(0, 30)
	require.True(t, ok)
	want := Knot{DepthIndex: 0, DistanceIndex: 0, Depth: 0, Distance: 0, Value: 0}
	if diff := pretty.Compare(want, knot); diff != "" {
		t.Errorf("NearestValid(0, 30) diff (-want +got):\n%s", diff)
	}

	knot, ok = tbl.NearestValid(1.9, 40)
	require.True(t, ok)
	want = Knot{DepthIndex: 1, DistanceIndex: 2, Depth: 35, Distance: 2, Value: 26.1}
	if diff := pretty.Compare(want, knot); diff != "" {
		t.Errorf("NearestValid(1.9, 40) diff (-want +got):\n%s", diff)
	}

	knot, ok = tbl.NearestValid(10, 500)
	require.True(t, ok)
	assert.Equal(t, 2, knot.DepthIndex)
	assert.Equal(t, 4, knot.DistanceIndex)
}

func TestNearestValidEmptyTable(t *testing.T) {
	tbl, err := New([]float64{0, 1}, []float64{0}, [][]float64{{BadSample, BadSample}})
	require.NoError(t, err)

	_, ok := tbl.NearestValid(0.5, 0)
	assert.False(t, ok)
	assert.Equal(t, 0.0, tbl.Coverage())
}
