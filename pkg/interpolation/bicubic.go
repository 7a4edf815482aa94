package interpolation

import "fmt"

// BicubicSecondDerivs fits a natural spline along the fast axis x2 for every
// row ya[j] of a table sampled at slow coordinates x1, writing the second
// derivatives into y2a, which must have the same shape as ya.
func BicubicSecondDerivs(x1, x2 []float64, ya, y2a [][]float64) error {
	if len(ya) != len(x1) || len(y2a) != len(x1) {
		return fmt.Errorf("%w: %d rows for %d slow knots", ErrLengthMismatch, len(ya), len(x1))
	}

	for j := range ya {
		if err := SplineSecondDerivs(x2, ya[j], NaturalBoundary, NaturalBoundary, y2a[j]); err != nil {
			return fmt.Errorf("row %d: %w", j, err)
		}
	}
	return nil
}

// BicubicEval evaluates the bi-cubic spline prepared by BicubicSecondDerivs at
// (q1, q2). Every row is first interpolated to q2 along the fast axis; a
// natural spline through those values is then evaluated at q1. The returned
// derivatives are with respect to the slow coordinate.
//
// Swapping the roles of the two axes (and transposing ya) gives the
// derivatives along the other direction.
func BicubicEval(x1, x2 []float64, ya, y2a [][]float64, q1, q2 float64) (val, dy, d2y float64, err error) {
	m := len(x1)
	if len(ya) != m || len(y2a) != m {
		return 0, 0, 0, fmt.Errorf("%w: %d rows for %d slow knots", ErrLengthMismatch, len(ya), m)
	}

	var ybuf, yybuf [smallKnots]float64
	ytmp, yytmp := ybuf[:0], yybuf[:0]
	if m > smallKnots {
		ytmp, yytmp = make([]float64, 0, m), make([]float64, 0, m)
	}
	ytmp, yytmp = ytmp[:m], yytmp[:m]
	for j := 0; j < m; j++ {
		ytmp[j], err = SplineEval(x2, ya[j], y2a[j], q2)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("row %d: %w", j, err)
		}
	}

	if err := SplineSecondDerivs(x1, ytmp, NaturalBoundary, NaturalBoundary, yytmp); err != nil {
		return 0, 0, 0, err
	}
	return SplineEvalDeriv(x1, ytmp, yytmp, q1)
}
