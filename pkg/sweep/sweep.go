// Package sweep evaluates a travel-time table over a grid of distances and
// depths in parallel. It is used to tabulate a table at a new resolution and
// to survey where a table can be trusted: every grid point carries its status,
// and points that could not be evaluated carry the nearest real sample.
package sweep

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ttinterp/pkg/table"
	"ttinterp/pkg/traveltime"
)

var (
	// ErrNilTable is returned when a sweep is run without a table.
	ErrNilTable = errors.New("sweep: nil table")

	// ErrEmptyGrid is returned when either grid axis has no points.
	ErrEmptyGrid = errors.New("sweep: empty grid")

	// ErrNotRun is returned by Points before Run has completed.
	ErrNotRun = errors.New("sweep: not run")
)

// Params holds the sweep configuration.
type Params struct {
	// Distances are the grid distances in degrees.
	Distances []float64

	// Depths are the grid depths in kilometres. Each depth is one unit of work
	// handed to a worker.
	Depths []float64

	// NumWorkers bounds the number of goroutines. Zero or less uses every CPU.
	NumWorkers int

	// AllowExtrapolation is passed to every lookup.
	AllowExtrapolation bool

	// DepthDerivs is passed to every lookup.
	DepthDerivs traveltime.DerivNeed
}

// Point is one evaluated grid point.
type Point struct {
	Query  traveltime.Query
	Result traveltime.Result

	// Nearest is the closest real table sample, set only when the lookup
	// failed.
	Nearest *table.Knot
}

// HasValue reports whether the lookup produced a value.
func (p Point) HasValue() bool {
	return p.Result.Status == traveltime.StatusOK || p.Result.Status.Extrapolated()
}

// Summary describes a completed sweep.
type Summary struct {
	RunID   string
	Points  int
	Valued  int
	Counts  map[traveltime.Status]int
	Elapsed time.Duration

	// Statistics of the values that were produced. They are zero when no
	// point has a value, and StdDev is zero for a single value.
	Mean, StdDev float64
	Min, Max     float64
}

// Statuses returns the statuses present in the summary in ascending order.
func (s Summary) Statuses() []traveltime.Status {
	out := make([]traveltime.Status, 0, len(s.Counts))
	for st := range s.Counts {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Sweeper runs one sweep over one table.
type Sweeper struct {
	tbl    *table.Table
	params *Params
	log    *logrus.Logger

	runID   uuid.UUID
	points  []Point
	elapsed time.Duration
}

// NewSweeper creates a sweeper for tbl. A nil logger uses the logrus
// standard logger.
func NewSweeper(tbl *table.Table, params *Params, log *logrus.Logger) *Sweeper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweeper{
		tbl:    tbl,
		params: params,
		log:    log,
		runID:  uuid.New(),
	}
}

// RunID identifies this sweep in log output.
func (s *Sweeper) RunID() string {
	return s.runID.String()
}

// Run evaluates every grid point. Points are returned depth-major: the point
// for Depths[i] and Distances[j] is at index i*len(Distances)+j.
func (s *Sweeper) Run() ([]Point, error) {
	if s.tbl == nil {
		return nil, ErrNilTable
	}
	if s.params == nil || len(s.params.Distances) == 0 || len(s.params.Depths) == 0 {
		return nil, ErrEmptyGrid
	}

	nd, nz := len(s.params.Distances), len(s.params.Depths)
	workers := s.params.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > nz {
		workers = nz
	}

	log := s.log.WithField("run", s.RunID())
	log.Infof("Sweeping %d x %d grid with %d workers", nz, nd, workers)
	start := time.Now()

	type rowResult struct {
		depthIdx int
		points   []Point
		err      error
	}
	jobs := make(chan int)
	resultChan := make(chan rowResult)

	for w := 0; w < workers; w++ {
		go func() {
			for iz := range jobs {
				points, err := s.evaluateRow(iz)
				resultChan <- rowResult{depthIdx: iz, points: points, err: err}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for iz := 0; iz < nz; iz++ {
			jobs <- iz
		}
	}()

	// Collect every row even after a failure so no worker is left blocked.
	points := make([]Point, nz*nd)
	var firstErr error
	for completed := 1; completed <= nz; completed++ {
		res := <-resultChan
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("sweep: depth %g: %w", s.params.Depths[res.depthIdx], res.err)
			}
			continue
		}
		copy(points[res.depthIdx*nd:], res.points)
		log.Debugf("Rows complete: %.1f%%", float64(completed)/float64(nz)*100)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	s.points = points
	s.elapsed = time.Since(start)
	log.Infof("Sweep finished in %s", s.elapsed)
	return points, nil
}

// evaluateRow looks up every grid distance at depth index iz.
func (s *Sweeper) evaluateRow(iz int) ([]Point, error) {
	depth := s.params.Depths[iz]
	row := make([]Point, len(s.params.Distances))

	for j, dist := range s.params.Distances {
		q := traveltime.Query{
			Distance:           dist,
			Depth:              depth,
			AllowExtrapolation: s.params.AllowExtrapolation,
			DepthDerivs:        s.params.DepthDerivs,
		}
		res, err := traveltime.Interpolate(s.tbl, q)
		if err != nil {
			return nil, err
		}
		row[j] = Point{Query: q, Result: res}

		if !res.Status.Failed() {
			continue
		}
		if knot, ok := s.tbl.NearestValid(dist, depth); ok {
			row[j].Nearest = &knot
			s.log.WithFields(logrus.Fields{
				"run":      s.RunID(),
				"status":   res.Status,
				"distance": dist,
				"depth":    depth,
			}).Debugf("Lookup failed, nearest sample at (%g, %g)", knot.Distance, knot.Depth)
		}
	}
	return row, nil
}

// Points returns the points of the last run.
func (s *Sweeper) Points() ([]Point, error) {
	if s.points == nil {
		return nil, ErrNotRun
	}
	return s.points, nil
}

// Summary aggregates the last run. It is empty before Run.
func (s *Sweeper) Summary() Summary {
	sum := Summary{
		RunID:   s.RunID(),
		Points:  len(s.points),
		Counts:  make(map[traveltime.Status]int),
		Elapsed: s.elapsed,
	}

	values := make([]float64, 0, len(s.points))
	for _, p := range s.points {
		sum.Counts[p.Result.Status]++
		if p.HasValue() {
			values = append(values, p.Result.Value)
		}
	}
	sum.Valued = len(values)

	switch len(values) {
	case 0:
	case 1:
		sum.Mean, sum.Min, sum.Max = values[0], values[0], values[0]
	default:
		sum.Mean, sum.StdDev = stat.MeanStdDev(values, nil)
		sum.Min, sum.Max = floats.Min(values), floats.Max(values)
	}
	return sum
}

// Grid returns n evenly spaced values from lo to hi inclusive.
func Grid(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
