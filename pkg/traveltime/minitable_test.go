package traveltime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttinterp/pkg/table"
)

func TestRepairRowNearestRun(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6}
	y := []float64{BadSample, 3, 5, 7, BadSample, 13, 15}
	ok := []bool{false, true, true, true, false, true, true}

	status, err := repairRow(x, y, ok)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)

	// Both holes are filled from the only run of three, 2x+1 on [1, 3].
	assert.InDelta(t, 1, y[0], 1e-4)
	assert.InDelta(t, 9, y[4], 1e-4)
	assert.Equal(t, []float64{3, 5, 7}, y[1:4])
}

func TestRepairRowTiesGoLeft(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6}
	y := []float64{1, 2, 3, BadSample, 100, 101, 102}
	ok := []bool{true, true, true, false, true, true, true}

	status, err := repairRow(x, y, ok)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
	assert.InDelta(t, 4, y[3], 1e-4)
}

func TestRepairRowInsufficient(t *testing.T) {
	testCases := []struct {
		name string
		ok   []bool
	}{
		{"two samples", []bool{true, false, false, true, false}},
		{"scattered", []bool{true, false, true, false, true}},
		{"runs of two", []bool{true, true, false, true, true}},
		{"empty", []bool{false, false, false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			x := make([]float64, len(tc.ok))
			y := make([]float64, len(tc.ok))
			for i := range x {
				x[i] = float64(i)
				y[i] = float64(i * i)
			}
			status, err := repairRow(x, y, tc.ok)
			require.NoError(t, err)
			assert.Equal(t, StatusInsufficientSamples, status)
		})
	}
}

func TestResample(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 5, 7}
	at := []float64{-0.5, 0.5, 1.5, 2.5}
	out := make([]float64, len(at))

	status, err := resample(x, y, at, out)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
	for i, a := range at {
		assert.InDelta(t, 1+2*a, out[i], 1e-4, "at %g", a)
	}
}

func TestResampleNeedsThreeKnots(t *testing.T) {
	out := make([]float64, 2)
	status, err := resample([]float64{0, 100}, []float64{5, 15}, []float64{50, 150}, out)
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientSamples, status)

	var mt miniTable
	mt.nDist, mt.nDepth = 3, 2
	copy(mt.dist[:], []float64{0, 1, 2})
	copy(mt.depth[:], []float64{0, 100})
	copy(mt.val[0][:], []float64{5, 15, 25})
	copy(mt.val[1][:], []float64{15, 25, 35})

	status, err = mt.shiftDepth(50, 150, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientSamples, status)
	assert.Equal(t, []float64{0, 100}, mt.depth[:mt.nDepth])
}

func TestResamplePole(t *testing.T) {
	// 5/(1 - x/150) through three knots: the depth shift past 150 crosses
	// the pole.
	f := func(x float64) float64 { return 5 / (1 - x/150) }
	x := []float64{0, 50, 100}
	y := []float64{f(0), f(50), f(100)}
	out := make([]float64, len(x))

	status, err := resample(x, y, []float64{100, 150, 200}, out)
	require.NoError(t, err)
	assert.Equal(t, StatusPole, status)

	status, err = resample(x, y, []float64{25, 75, 125}, out)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
	assert.InDelta(t, f(125), out[2], 1e-3)
}

func TestMiniTableFill(t *testing.T) {
	distances := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	depths := []float64{0, 10, 20, 30, 40}
	rows := make([][]float64, len(depths))
	for i := range rows {
		rows[i] = make([]float64, len(distances))
		for j := range rows[i] {
			rows[i][j] = float64(10*i + j)
		}
	}
	rows[2][1] = BadSample

	tbl, err := table.New(distances, depths, rows)
	require.NoError(t, err)

	var mt miniTable
	status, err := mt.fill(tableSource{tbl}, 1, 7, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, 7, mt.nDist)
	assert.Equal(t, 4, mt.nDepth)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, mt.dist[:mt.nDist])
	assert.Equal(t, []float64{10, 20, 30, 40}, mt.depth[:mt.nDepth])
	assert.Equal(t, []float64{11, 12, 13, 14, 15, 16, 17}, mt.row(0))
	assert.InDelta(t, 21, mt.row(1)[0], 1e-4)
}

func TestMiniTableShiftDistance(t *testing.T) {
	var mt miniTable
	mt.nDist, mt.nDepth = 4, 1
	copy(mt.dist[:], []float64{0, 1, 2, 3})
	copy(mt.val[0][:], []float64{1, 3, 5, 7})

	status, err := mt.shiftDistance(-0.5, -0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)

	assert.Equal(t, -0.5, mt.dist[0])
	assert.Equal(t, []float64{-0.5, 0.5, 1.5, 2.5}, mt.dist[:mt.nDist])
	for i, d := range mt.dist[:mt.nDist] {
		assert.InDelta(t, 1+2*d, mt.row(0)[i], 1e-4)
	}
}
