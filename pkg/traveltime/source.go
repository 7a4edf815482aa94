package traveltime

import (
	"fmt"

	"ttinterp/pkg/table"
)

// source is the read access a lookup needs: the axes and the samples in the
// window around the query.
type source interface {
	Distances() []float64
	Depths() []float64

	// Sample returns the sample at (iz, id) and whether it is real.
	Sample(iz, id int) (float64, bool)

	// checkWindow validates the samples a lookup is about to read.
	checkWindow(itop, ibot, ilow, ihigh int) error
}

// tableSource reads a validated Table.
type tableSource struct {
	*table.Table
}

func (tableSource) checkWindow(itop, ibot, ilow, ihigh int) error { return nil }

// rawSource reads caller-owned arrays in place. Only the axes and row lengths
// are validated up front; samples are validated as windows are read, so a
// lookup does work proportional to its window rather than to the table.
type rawSource struct {
	distances, depths []float64
	values            [][]float64
}

func newRawSource(distances, depths []float64, values [][]float64) (rawSource, error) {
	if err := table.CheckAxis("distance", distances); err != nil {
		return rawSource{}, err
	}
	if err := table.CheckAxis("depth", depths); err != nil {
		return rawSource{}, err
	}
	if len(values) != len(depths) {
		return rawSource{}, fmt.Errorf("%w: %d rows for %d depths", table.ErrShapeMismatch, len(values), len(depths))
	}
	for i, row := range values {
		if len(row) != len(distances) {
			return rawSource{}, fmt.Errorf("%w: row %d has %d samples for %d distances",
				table.ErrShapeMismatch, i, len(row), len(distances))
		}
	}
	return rawSource{distances: distances, depths: depths, values: values}, nil
}

func (r rawSource) Distances() []float64 { return r.distances }
func (r rawSource) Depths() []float64    { return r.depths }

func (r rawSource) Sample(iz, id int) (float64, bool) {
	v := r.values[iz][id]
	if v == BadSample {
		return 0, false
	}
	return v, true
}

func (r rawSource) checkWindow(itop, ibot, ilow, ihigh int) error {
	for iz := itop; iz <= ibot; iz++ {
		for id := ilow; id <= ihigh; id++ {
			if !finite(r.values[iz][id]) {
				return fmt.Errorf("%w: sample (%d, %d)", table.ErrNotFinite, iz, id)
			}
		}
	}
	return nil
}
