// Package traveltime interpolates travel-time tables. Given a table sampled
// in epicentral distance and source depth, it returns the travel time at an
// arbitrary point together with its first and second derivatives along both
// axes, and a status code saying whether and how the table was extrapolated.
//
// A lookup copies a small window of the table around the query, patches holes
// in that window by rational extrapolation, and evaluates a bi-cubic natural
// spline over it. Lookups keep no state and may run concurrently against the
// same table.
package traveltime

import (
	"errors"
	"fmt"
	"math"

	"ttinterp/pkg/interpolation"
	"ttinterp/pkg/table"
)

const (
	// MaxDistSamples is the widest distance window used for one lookup.
	MaxDistSamples    = 7
	// MaxDepthSamples is the deepest depth window used for one lookup.
	MaxDepthSamples   = 4
	// MinNumDistSamples real samples are needed along distance in every row
	// of the window.
	MinNumDistSamples = 3

	// BadSample marks a hole in raw table data.
	BadSample = table.BadSample
)

var (
	// ErrNilTable is returned when no table is given.
	ErrNilTable = errors.New("traveltime: nil table")

	// ErrInvalidQuery is returned for NaN or infinite query coordinates.
	ErrInvalidQuery = errors.New("traveltime: query coordinates must be finite")
)

// Interpolate looks up q in tbl.
//
// Problems with the query point itself (holes, extrapolation, missing or
// unusable samples) are reported through Result.Status, never as an error.
// An error means the call itself was malformed.
func Interpolate(tbl *table.Table, q Query) (Result, error) {
	if tbl == nil {
		return NewResult(), ErrNilTable
	}
	return lookup(tableSource{tbl}, q)
}

func lookup(src source, q Query) (Result, error) {
	res := NewResult()
	if !finite(q.Distance) || !finite(q.Depth) {
		return res, fmt.Errorf("%w: (%g, %g)", ErrInvalidQuery, q.Distance, q.Depth)
	}

	dists, depths := src.Distances(), src.Depths()
	nd, nz := len(dists), len(depths)
	needDepth := q.DepthDerivs.Resolve(DerivCompute) == DerivCompute

	// Classify the query against the table coverage.
	jd := interpolation.Locate(dists, q.Distance)
	idist := classify(dists, q.Distance, jd)

	jz, idepth := 0, 0
	if nz > 1 {
		jz = interpolation.Locate(depths, q.Depth)
		idepth = classify(depths, q.Depth, jz)
	}

	if !q.AllowExtrapolation && (q.InHole || idist != 0 || idepth != 0) {
		res.Status = StatusInHole
		return res, nil
	}

	ilow, ihigh := window(jd, nd, MaxDistSamples)
	itop, ibot := window(jz, nz, MaxDepthSamples)

	var mt miniTable
	status, err := mt.fill(src, ilow, ihigh, itop, ibot)
	if err != nil {
		return res, err
	}
	if status != StatusOK {
		res.Status = status
		return res, nil
	}

	if idist != 0 {
		edge, col := 0, ilow
		if idist > 0 {
			edge, col = mt.nDist-1, ihigh
		}
		status, err = mt.shiftDistance(q.Distance-dists[col], q.Distance, edge)
		if err != nil {
			return res, err
		}
		if status != StatusOK {
			res.Status = status
			return res, nil
		}
	}

	if idepth != 0 {
		edge, row := 0, itop
		if idepth > 0 {
			edge, row = mt.nDepth-1, ibot
		}
		status, err = mt.shiftDepth(q.Depth-depths[row], q.Depth, edge)
		if err != nil {
			return res, err
		}
		if status != StatusOK {
			res.Status = status
			return res, nil
		}
	}

	if mt.nDepth == 1 {
		err = mt.evalSingleDepth(q, needDepth, &res)
	} else {
		err = mt.eval(q, needDepth, &res)
	}
	if err != nil {
		return NewResult(), err
	}

	if q.InHole {
		res.Status = StatusInHole
	} else {
		res.Status = StatusFor(idist, idepth)
	}
	return res, nil
}

// InterpolateTableValue is Interpolate for callers holding raw table arrays:
// values[i][j] is the sample at depthAxis[i] and distanceAxis[j], with
// BadSample marking holes. Malformed tables are reported as errors.
//
// The arrays are read in place and not copied. The axes and row lengths are
// checked on every call, and only the samples in the window around the query
// are checked. Callers making many lookups against one table should build a
// table.Table once and use Interpolate.
func InterpolateTableValue(
	allowExtrapolation, isInHole, needDepthDerivatives bool,
	distanceAxis, depthAxis []float64, values [][]float64,
	queryDistance, queryDepth float64,
) (Result, error) {
	src, err := newRawSource(distanceAxis, depthAxis, values)
	if err != nil {
		return NewResult(), fmt.Errorf("traveltime: %w", err)
	}

	need := DerivSkip
	if needDepthDerivatives {
		need = DerivCompute
	}
	return lookup(src, Query{
		Distance:           queryDistance,
		Depth:              queryDepth,
		AllowExtrapolation: allowExtrapolation,
		InHole:             isInHole,
		DepthDerivs:        need,
	})
}

// classify turns a bracket index from Locate into -1 (before the first
// sample), 0 (inside) or 1 (past the last sample). A query sitting exactly on
// an end sample is inside.
func classify(axis []float64, x float64, j int) int {
	n := len(axis)
	switch {
	case j < 0:
		if x == axis[0] {
			return 0
		}
		return -1
	case j >= n-1:
		if x == axis[n-1] {
			return 0
		}
		return 1
	}
	return 0
}

// window returns the first and last index of a run of at most size samples
// around interval j, kept inside [0, n).
func window(j, n, size int) (lo, hi int) {
	lo = j - size/2 + 1
	hi = lo + size - 1
	if lo < 0 {
		lo = 0
		hi = min(size, n) - 1
	}
	if hi > n-1 {
		hi = n - 1
		lo = max(n-size, 0)
	}
	return lo, hi
}

// eval runs the bi-cubic spline over the mini table. Distance derivatives come
// from the transposed table (distance as the slow axis); depth derivatives
// from a second pass with depth as the slow axis.
func (m *miniTable) eval(q Query, needDepth bool, res *Result) error {
	var (
		tVal, tY2 [MaxDistSamples][MaxDepthSamples]float64
		rows, y2s [MaxDistSamples][]float64
	)
	for i := 0; i < m.nDist; i++ {
		for k := 0; k < m.nDepth; k++ {
			tVal[i][k] = m.val[k][i]
		}
		rows[i] = tVal[i][:m.nDepth]
		y2s[i] = tY2[i][:m.nDepth]
	}

	dist, depth := m.dist[:m.nDist], m.depth[:m.nDepth]
	if err := interpolation.BicubicSecondDerivs(dist, depth, rows[:m.nDist], y2s[:m.nDist]); err != nil {
		return fmt.Errorf("traveltime: distance pass: %w", err)
	}
	v, dy, d2y, err := interpolation.BicubicEval(dist, depth, rows[:m.nDist], y2s[:m.nDist], q.Distance, q.Depth)
	if err != nil {
		return fmt.Errorf("traveltime: distance pass: %w", err)
	}
	res.Value, res.DistanceDeriv, res.DistanceSecondDeriv = v, dy, d2y

	if !needDepth {
		return nil
	}

	var (
		y2          [MaxDepthSamples][MaxDistSamples]float64
		zRows, zY2s [MaxDepthSamples][]float64
	)
	for k := 0; k < m.nDepth; k++ {
		zRows[k] = m.row(k)
		zY2s[k] = y2[k][:m.nDist]
	}
	if err := interpolation.BicubicSecondDerivs(depth, dist, zRows[:m.nDepth], zY2s[:m.nDepth]); err != nil {
		return fmt.Errorf("traveltime: depth pass: %w", err)
	}
	_, dy, d2y, err = interpolation.BicubicEval(depth, dist, zRows[:m.nDepth], zY2s[:m.nDepth], q.Depth, q.Distance)
	if err != nil {
		return fmt.Errorf("traveltime: depth pass: %w", err)
	}
	res.DepthDeriv, res.DepthSecondDeriv = dy, d2y
	return nil
}

// evalSingleDepth handles tables with a single depth sample, which do not
// vary with depth.
func (m *miniTable) evalSingleDepth(q Query, needDepth bool, res *Result) error {
	var y2 [MaxDistSamples]float64

	dist, row := m.dist[:m.nDist], m.row(0)
	if err := interpolation.SplineSecondDerivs(dist, row, interpolation.NaturalBoundary, interpolation.NaturalBoundary, y2[:m.nDist]); err != nil {
		return fmt.Errorf("traveltime: distance spline: %w", err)
	}
	v, dy, d2y, err := interpolation.SplineEvalDeriv(dist, row, y2[:m.nDist], q.Distance)
	if err != nil {
		return fmt.Errorf("traveltime: distance spline: %w", err)
	}
	res.Value, res.DistanceDeriv, res.DistanceSecondDeriv = v, dy, d2y

	if needDepth {
		res.DepthDeriv, res.DepthSecondDeriv = 0, 0
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
