package traveltime

import (
	"errors"
	"fmt"

	"ttinterp/pkg/interpolation"
)

// miniTable is the per-query working copy of the table around the query
// point. Its arrays are fixed size so a query needs no heap allocation for
// them; only the first nDepth rows and nDist columns are in use.
type miniTable struct {
	nDist, nDepth int

	dist  [MaxDistSamples]float64
	depth [MaxDepthSamples]float64
	val   [MaxDepthSamples][MaxDistSamples]float64
}

// row returns the used part of row k.
func (m *miniTable) row(k int) []float64 {
	return m.val[k][:m.nDist]
}

// fill copies rows itop..ibot and columns ilow..ihigh of src and replaces every
// hole by rational extrapolation from its row.
func (m *miniTable) fill(src source, ilow, ihigh, itop, ibot int) (Status, error) {
	if err := src.checkWindow(itop, ibot, ilow, ihigh); err != nil {
		return StatusOK, fmt.Errorf("traveltime: %w", err)
	}

	m.nDist = ihigh - ilow + 1
	m.nDepth = ibot - itop + 1
	copy(m.dist[:m.nDist], src.Distances()[ilow:ihigh+1])
	copy(m.depth[:m.nDepth], src.Depths()[itop:ibot+1])

	var ok [MaxDistSamples]bool
	for k := 0; k < m.nDepth; k++ {
		for i := 0; i < m.nDist; i++ {
			m.val[k][i], ok[i] = src.Sample(itop+k, ilow+i)
		}

		status, err := repairRow(m.dist[:m.nDist], m.row(k), ok[:m.nDist])
		if err != nil {
			return status, fmt.Errorf("depth row %d: %w", itop+k, err)
		}
		if status != StatusOK {
			return status, nil
		}
	}
	return StatusOK, nil
}

// run is an inclusive index range of consecutive real samples.
type run struct {
	start, end int
}

// repairRow replaces the holes of y (where ok is false) using the
// MinNumDistSamples real samples of the nearest run of at least that many
// consecutive real samples.
func repairRow(x, y []float64, ok []bool) (Status, error) {
	var runs [MaxDistSamples]run
	nRuns, nValid := 0, 0

	for i := 0; i < len(y); {
		if !ok[i] {
			i++
			continue
		}
		j := i
		for j+1 < len(y) && ok[j+1] {
			j++
		}
		nValid += j - i + 1
		if j-i+1 >= MinNumDistSamples {
			runs[nRuns] = run{i, j}
			nRuns++
		}
		i = j + 1
	}

	if nValid < MinNumDistSamples || nRuns == 0 {
		return StatusInsufficientSamples, nil
	}
	if nValid == len(y) {
		return StatusOK, nil
	}

	for i := range y {
		if ok[i] {
			continue
		}

		// Pick the closest qualifying run; ties go to the lower index.
		best, bestGap := 0, len(y)
		for r := 0; r < nRuns; r++ {
			gap := runs[r].start - i
			if runs[r].end < i {
				gap = i - runs[r].end
			}
			if gap < bestGap {
				best, bestGap = r, gap
			}
		}

		s := runs[best].start
		if runs[best].end < i {
			s = runs[best].end - MinNumDistSamples + 1
		}

		v, _, err := interpolation.RationalInterpolate(x[s:s+MinNumDistSamples], y[s:s+MinNumDistSamples], x[i])
		if errors.Is(err, interpolation.ErrPoleAtQuery) {
			return StatusPole, nil
		}
		if err != nil {
			return StatusPole, err
		}
		y[i] = v
	}
	return StatusOK, nil
}

// shiftDistance moves the distance knots by shift and resamples every row at
// the moved knots. edge is the mini-table column that lands on the query.
func (m *miniTable) shiftDistance(shift, query float64, edge int) (Status, error) {
	var moved [MaxDistSamples]float64
	for i := 0; i < m.nDist; i++ {
		moved[i] = m.dist[i] + shift
	}
	moved[edge] = query

	var out [MaxDistSamples]float64
	for k := 0; k < m.nDepth; k++ {
		status, err := resample(m.dist[:m.nDist], m.row(k), moved[:m.nDist], out[:m.nDist])
		if status != StatusOK || err != nil {
			return status, err
		}
		copy(m.row(k), out[:m.nDist])
	}

	m.dist = moved
	return StatusOK, nil
}

// shiftDepth is shiftDistance along the depth direction: each column is
// resampled at the moved depth knots.
func (m *miniTable) shiftDepth(shift, query float64, edge int) (Status, error) {
	var moved [MaxDepthSamples]float64
	for k := 0; k < m.nDepth; k++ {
		moved[k] = m.depth[k] + shift
	}
	moved[edge] = query

	var col, out [MaxDepthSamples]float64
	for i := 0; i < m.nDist; i++ {
		for k := 0; k < m.nDepth; k++ {
			col[k] = m.val[k][i]
		}
		status, err := resample(m.depth[:m.nDepth], col[:m.nDepth], moved[:m.nDepth], out[:m.nDepth])
		if status != StatusOK || err != nil {
			return status, err
		}
		for k := 0; k < m.nDepth; k++ {
			m.val[k][i] = out[k]
		}
	}

	m.depth = moved
	return StatusOK, nil
}

// resample evaluates the curve through (x, y) at every point of at, writing
// into out. Each point uses the MinNumDistSamples knots nearest to it. Fewer
// knots than that cannot carry a trend beyond the data, so the shift fails
// with StatusInsufficientSamples.
func resample(x, y, at, out []float64) (Status, error) {
	n := len(x)
	k := MinNumDistSamples
	if n < k {
		return StatusInsufficientSamples, nil
	}

	for i, t := range at {
		s := interpolation.Locate(x, t) - (k-1)/2
		if s < 0 {
			s = 0
		} else if s > n-k {
			s = n - k
		}

		v, _, err := interpolation.RationalInterpolate(x[s:s+k], y[s:s+k], t)
		if errors.Is(err, interpolation.ErrPoleAtQuery) {
			return StatusPole, nil
		}
		if err != nil {
			return StatusPole, err
		}
		out[i] = v
	}
	return StatusOK, nil
}
