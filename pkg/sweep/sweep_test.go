package sweep

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttinterp/pkg/table"
	"ttinterp/pkg/traveltime"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testTable(t *testing.T) *table.Table {
	t.Helper()

	distances := Grid(0, 9, 10)
	depths := []float64{0, 15, 35, 70, 120, 200}
	rows := make([][]float64, len(depths))
	for i, z := range depths {
		rows[i] = make([]float64, len(distances))
		for j, d := range distances {
			rows[i][j] = 5 + 10*d + 0.1*z + 0.3*d*d
		}
	}
	// One depth row with too few samples to be usable.
	for j := 1; j < len(distances); j += 2 {
		rows[5][j] = table.BadSample
	}

	tbl, err := table.New(distances, depths, rows)
	require.NoError(t, err)
	return tbl
}

func TestGrid(t *testing.T) {
	assert.Nil(t, Grid(0, 1, 0))
	assert.Equal(t, []float64{3}, Grid(3, 7, 1))
	assert.Equal(t, []float64{0, 0.5, 1}, Grid(0, 1, 3))
	assert.Equal(t, []float64{10, 5, 0}, Grid(10, 0, 3))
}

func TestRunMatchesSerial(t *testing.T) {
	tbl := testTable(t)
	params := &Params{
		Distances:          Grid(-0.5, 9.5, 21),
		Depths:             Grid(0, 100, 11),
		NumWorkers:         4,
		AllowExtrapolation: true,
	}

	s := NewSweeper(tbl, params, quietLogger())
	points, err := s.Run()
	require.NoError(t, err)
	require.Len(t, points, 21*11)

	for i, z := range params.Depths {
		for j, d := range params.Distances {
			p := points[i*len(params.Distances)+j]
			assert.Equal(t, d, p.Query.Distance)
			assert.Equal(t, z, p.Query.Depth)

			want, err := traveltime.Interpolate(tbl, p.Query)
			require.NoError(t, err)
			assert.Equal(t, want, p.Result, "point (%g, %g)", d, z)
		}
	}

	got, err := s.Points()
	require.NoError(t, err)
	assert.Equal(t, points, got)
}

func TestRunRecordsNearestForFailures(t *testing.T) {
	tbl := testTable(t)
	params := &Params{
		Distances:  []float64{2.5, 4.5},
		Depths:     []float64{50, 180},
		NumWorkers: 2,
	}

	s := NewSweeper(tbl, params, quietLogger())
	points, err := s.Run()
	require.NoError(t, err)

	// The window for 180 km reaches the broken 200 km row.
	for _, p := range points {
		if p.Query.Depth == 180 {
			assert.Equal(t, traveltime.StatusInsufficientSamples, p.Result.Status)
			require.NotNil(t, p.Nearest)
			assert.True(t, tbl.Valid(p.Nearest.DepthIndex, p.Nearest.DistanceIndex))
			assert.False(t, p.HasValue())
		} else {
			assert.Equal(t, traveltime.StatusOK, p.Result.Status)
			assert.Nil(t, p.Nearest)
			assert.True(t, p.HasValue())
		}
	}
}

func TestSummary(t *testing.T) {
	tbl := testTable(t)
	params := &Params{
		Distances: []float64{1, 2, 3, 20},
		Depths:    []float64{0, 35},
	}

	s := NewSweeper(tbl, params, quietLogger())
	assert.Equal(t, 0, s.Summary().Points)
	_, err := s.Points()
	assert.ErrorIs(t, err, ErrNotRun)

	_, err = s.Run()
	require.NoError(t, err)

	sum := s.Summary()
	_, err = uuid.Parse(sum.RunID)
	assert.NoError(t, err)
	assert.Equal(t, s.RunID(), sum.RunID)
	assert.Equal(t, 8, sum.Points)
	assert.Equal(t, 6, sum.Valued)
	assert.Equal(t, 6, sum.Counts[traveltime.StatusOK])
	assert.Equal(t, 2, sum.Counts[traveltime.StatusInHole])
	assert.Equal(t, []traveltime.Status{traveltime.StatusOK, traveltime.StatusInHole}, sum.Statuses())

	value := func(d, z float64) float64 { return 5 + 10*d + 0.1*z + 0.3*d*d }
	assert.InDelta(t, value(1, 0), sum.Min, 1e-9)
	assert.InDelta(t, value(3, 35), sum.Max, 1e-9)
	assert.Greater(t, sum.StdDev, 0.0)
	assert.Greater(t, sum.Mean, sum.Min)
	assert.Less(t, sum.Mean, sum.Max)
}

func TestRunErrors(t *testing.T) {
	_, err := NewSweeper(nil, &Params{Distances: []float64{1}, Depths: []float64{1}}, nil).Run()
	assert.ErrorIs(t, err, ErrNilTable)

	tbl := testTable(t)
	_, err = NewSweeper(tbl, &Params{Depths: []float64{1}}, quietLogger()).Run()
	assert.ErrorIs(t, err, ErrEmptyGrid)

	_, err = NewSweeper(tbl, nil, quietLogger()).Run()
	assert.ErrorIs(t, err, ErrEmptyGrid)
}
