// Package table holds travel-time tables: a grid of samples indexed by source
// depth and epicentral distance, with an explicit record of which samples are
// missing ("holes").
package table

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// BadSample marks a missing sample in raw table data. It is only recognised on
// input; a Table never hands it back as a value.
const BadSample = -1.0

var (
	// ErrEmptyAxis indicates a distance or depth axis with no samples.
	ErrEmptyAxis = errors.New("table: empty axis")

	// ErrNotMonotonic indicates an axis that is not strictly increasing or
	// strictly decreasing.
	ErrNotMonotonic = errors.New("table: axis is not strictly monotonic")

	// ErrShapeMismatch indicates sample data that does not match the axes.
	ErrShapeMismatch = errors.New("table: sample shape does not match axes")

	// ErrNotFinite indicates a NaN or infinite coordinate or sample.
	ErrNotFinite = errors.New("table: NaN or Inf in table data")
)

// Table is an immutable travel-time table. Rows are depths, columns are
// distances. It is safe for concurrent use once built.
type Table struct {
	distances []float64
	depths    []float64

	// values is row-major [depth][distance]; holes hold BadSample.
	values *mat.Dense
	valid  []bool

	nValid int
	tree   *kdtree.Tree
}

// New builds a table from per-depth rows of samples. rows[i][j] is the sample
// at depths[i] and distances[j]; BadSample marks a hole. The axes and rows are
// copied.
func New(distances, depths []float64, rows [][]float64) (*Table, error) {
	if len(rows) != len(depths) {
		return nil, fmt.Errorf("%w: %d rows for %d depths", ErrShapeMismatch, len(rows), len(depths))
	}
	if len(distances) == 0 || len(depths) == 0 {
		return nil, ErrEmptyAxis
	}

	values := mat.NewDense(len(depths), len(distances), nil)
	for i, row := range rows {
		if len(row) != len(distances) {
			return nil, fmt.Errorf("%w: row %d has %d samples for %d distances",
				ErrShapeMismatch, i, len(row), len(distances))
		}
		values.SetRow(i, row)
	}

	return build(distances, depths, values)
}

// NewDense builds a table from a depth-by-distance matrix. The matrix is
// copied.
func NewDense(distances, depths []float64, values *mat.Dense) (*Table, error) {
	if values == nil {
		return nil, fmt.Errorf("%w: nil sample matrix", ErrShapeMismatch)
	}
	r, c := values.Dims()
	if r != len(depths) || c != len(distances) {
		return nil, fmt.Errorf("%w: %dx%d samples for %d depths and %d distances",
			ErrShapeMismatch, r, c, len(depths), len(distances))
	}
	if len(distances) == 0 || len(depths) == 0 {
		return nil, ErrEmptyAxis
	}

	return build(distances, depths, mat.DenseCopyOf(values))
}

func build(distances, depths []float64, values *mat.Dense) (*Table, error) {
	if err := CheckAxis("distance", distances); err != nil {
		return nil, err
	}
	if err := CheckAxis("depth", depths); err != nil {
		return nil, err
	}

	t := &Table{
		distances: append([]float64(nil), distances...),
		depths:    append([]float64(nil), depths...),
		values:    values,
		valid:     make([]bool, len(depths)*len(distances)),
	}

	nd := len(distances)
	for i := range depths {
		for j := range distances {
			v := values.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: sample (%d, %d)", ErrNotFinite, i, j)
			}
			if v != BadSample {
				t.valid[i*nd+j] = true
				t.nValid++
			}
		}
	}

	t.buildTree()
	return t, nil
}

// CheckAxis validates a table axis: non-empty, finite and strictly
// monotonic. name is used in the error.
func CheckAxis(name string, axis []float64) error {
	if len(axis) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyAxis, name)
	}
	if floats.HasNaN(axis) || math.IsInf(floats.Max(axis), 1) || math.IsInf(floats.Min(axis), -1) {
		return fmt.Errorf("%w: %s axis", ErrNotFinite, name)
	}
	if len(axis) == 1 {
		return nil
	}

	incr := axis[1] > axis[0]
	for i := 1; i < len(axis); i++ {
		if axis[i] == axis[i-1] || (axis[i] > axis[i-1]) != incr {
			return fmt.Errorf("%w: %s axis at index %d", ErrNotMonotonic, name, i)
		}
	}
	return nil
}

// Distances returns the distance axis. The slice must not be modified.
func (t *Table) Distances() []float64 { return t.distances }

// Depths returns the depth axis. The slice must not be modified.
func (t *Table) Depths() []float64 { return t.depths }

// NumDistances returns the number of distance samples.
func (t *Table) NumDistances() int { return len(t.distances) }

// NumDepths returns the number of depth samples.
func (t *Table) NumDepths() int { return len(t.depths) }

// Sample returns the sample at depth index iz and distance index id, and
// whether it is a real sample. Holes return (0, false).
func (t *Table) Sample(iz, id int) (float64, bool) {
	if !t.valid[iz*len(t.distances)+id] {
		return 0, false
	}
	return t.values.At(iz, id), true
}

// Valid reports whether the sample at (iz, id) is real.
func (t *Table) Valid(iz, id int) bool {
	return t.valid[iz*len(t.distances)+id]
}

// ValidCount returns the number of real samples in the table.
func (t *Table) ValidCount() int { return t.nValid }

// Coverage returns the fraction of the table holding real samples.
func (t *Table) Coverage() float64 {
	return float64(t.nValid) / float64(len(t.valid))
}

// Values returns a copy of the samples with holes set to BadSample.
func (t *Table) Values() *mat.Dense {
	return mat.DenseCopyOf(t.values)
}
