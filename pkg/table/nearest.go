package table

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"ttinterp/pkg/interpolation"
)

// Knot is a real table sample with its grid position.
type Knot struct {
	DepthIndex    int
	DistanceIndex int
	Depth         float64
	Distance      float64
	Value         float64
}

// gridPoint is a sample position in fractional index space. Index space keeps
// degrees and kilometres from being mixed in the distance metric.
type gridPoint struct {
	Z, D   float64
	iz, id int
}

// Compare implements the kdtree.Comparable interface
func (p gridPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(gridPoint)
	switch d {
	case 0:
		return p.Z - q.Z
	case 1:
		return p.D - q.D
	default:
		panic("illegal dimension")
	}
}

func (p gridPoint) Dims() int { return 2 }

// Distance returns the squared distance between two grid points.
func (p gridPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(gridPoint)
	dz := p.Z - q.Z
	dd := p.D - q.D
	return dz*dz + dd*dd
}

type gridPoints []gridPoint

func (p gridPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p gridPoints) Len() int                              { return len(p) }
func (p gridPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p gridPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(gridPlane{gridPoints: p, Dim: d}, kdtree.MedianOfRandoms(gridPlane{gridPoints: p, Dim: d}, 100))
}

// gridPlane implements kdtree.SortSlicer for gridPoints.
type gridPlane struct {
	gridPoints
	kdtree.Dim
}

func (p gridPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.gridPoints[i].Z < p.gridPoints[j].Z
	case 1:
		return p.gridPoints[i].D < p.gridPoints[j].D
	default:
		panic("illegal dimension")
	}
}

func (p gridPlane) Slice(start, end int) kdtree.SortSlicer {
	return gridPlane{gridPoints: p.gridPoints[start:end], Dim: p.Dim}
}

func (p gridPlane) Swap(i, j int) {
	p.gridPoints[i], p.gridPoints[j] = p.gridPoints[j], p.gridPoints[i]
}

func (t *Table) buildTree() {
	if t.nValid == 0 {
		return
	}

	pts := make(gridPoints, 0, t.nValid)
	nd := len(t.distances)
	for i := range t.depths {
		for j := range t.distances {
			if t.valid[i*nd+j] {
				pts = append(pts, gridPoint{Z: float64(i), D: float64(j), iz: i, id: j})
			}
		}
	}
	t.tree = kdtree.New(pts, false)
}

// NearestValid returns the real sample closest to (dist, depth), measured in
// grid cells. It returns false if the table has no real samples.
func (t *Table) NearestValid(dist, depth float64) (Knot, bool) {
	if t.tree == nil {
		return Knot{}, false
	}

	q := gridPoint{Z: fractionalIndex(t.depths, depth), D: fractionalIndex(t.distances, dist)}
	c, _ := t.tree.Nearest(q)
	if c == nil {
		return Knot{}, false
	}

	p := c.(gridPoint)
	return Knot{
		DepthIndex:    p.iz,
		DistanceIndex: p.id,
		Depth:         t.depths[p.iz],
		Distance:      t.distances[p.id],
		Value:         t.values.At(p.iz, p.id),
	}, true
}

// fractionalIndex maps a coordinate onto the continuous index of axis,
// extending the end intervals linearly beyond the axis.
func fractionalIndex(axis []float64, x float64) float64 {
	n := len(axis)
	if n == 1 {
		return 0
	}

	j := interpolation.Locate(axis, x)
	if j < 0 {
		j = 0
	} else if j > n-2 {
		j = n - 2
	}
	f := float64(j) + (x-axis[j])/(axis[j+1]-axis[j])
	if math.IsNaN(f) {
		return 0
	}
	return f
}
