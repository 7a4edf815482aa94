package interpolation

import "math"

// NaturalBoundary passed as a boundary derivative to SplineSecondDerivs selects
// the natural condition (zero second derivative) at that end.
const NaturalBoundary = 1.0e30

// Any boundary derivative at least this large in magnitude is treated as
// NaturalBoundary.
const naturalThreshold = 0.99e30

// SplineSecondDerivs fits a cubic spline through the knots (x[i], y[i]) and
// writes the second derivative at every knot into y2, which must have the
// same length as x.
//
// yp1 and ypn are the first derivatives at the first and last knot. Passing
// NaturalBoundary (or anything with |yp| >= 0.99e30) gives a natural spline at
// that end instead of a clamped one.
func SplineSecondDerivs(x, y []float64, yp1, ypn float64, y2 []float64) error {
	n := len(x)
	if n != len(y) || n != len(y2) {
		return ErrLengthMismatch
	}
	if n < 2 {
		return ErrTooFewKnots
	}
	for i := 1; i < n; i++ {
		if x[i] == x[i-1] {
			return ErrDegenerateInterval
		}
	}

	var ubuf [smallKnots]float64
	u := ubuf[:0]
	if n-1 > smallKnots {
		u = make([]float64, 0, n-1)
	}
	u = u[:n-1]

	if math.Abs(yp1) >= naturalThreshold {
		y2[0], u[0] = 0, 0
	} else {
		h := x[1] - x[0]
		y2[0] = -0.5
		u[0] = (3 / h) * ((y[1]-y[0])/h - yp1)
	}

	// Forward sweep of the tridiagonal system.
	for i := 1; i < n-1; i++ {
		sig := (x[i] - x[i-1]) / (x[i+1] - x[i-1])
		p := sig*y2[i-1] + 2
		y2[i] = (sig - 1) / p
		u[i] = (y[i+1]-y[i])/(x[i+1]-x[i]) - (y[i]-y[i-1])/(x[i]-x[i-1])
		u[i] = (6*u[i]/(x[i+1]-x[i-1]) - sig*u[i-1]) / p
	}

	var qn, un float64
	if math.Abs(ypn) < naturalThreshold {
		h := x[n-1] - x[n-2]
		qn = 0.5
		un = (3 / h) * (ypn - (y[n-1]-y[n-2])/h)
	}

	y2[n-1] = (un - qn*u[n-2]) / (qn*y2[n-2] + 1)
	for k := n - 2; k >= 0; k-- {
		y2[k] = y2[k]*y2[k+1] + u[k]
	}

	return nil
}

// SplineEval evaluates the spline described by x, y and the second
// derivatives y2 from SplineSecondDerivs at x0.
func SplineEval(x, y, y2 []float64, x0 float64) (float64, error) {
	klo, khi, err := splineInterval(x, y, y2, x0)
	if err != nil {
		return 0, err
	}

	h := x[khi] - x[klo]
	a := (x[khi] - x0) / h
	b := (x0 - x[klo]) / h
	return a*y[klo] + b*y[khi] +
		((a*a*a-a)*y2[klo]+(b*b*b-b)*y2[khi])*(h*h)/6, nil
}

// SplineEvalDeriv is SplineEval that also returns the first and second
// derivatives of the spline at x0.
func SplineEvalDeriv(x, y, y2 []float64, x0 float64) (val, dy, d2y float64, err error) {
	klo, khi, err := splineInterval(x, y, y2, x0)
	if err != nil {
		return 0, 0, 0, err
	}

	h := x[khi] - x[klo]
	a := (x[khi] - x0) / h
	b := (x0 - x[klo]) / h

	val = a*y[klo] + b*y[khi] +
		((a*a*a-a)*y2[klo]+(b*b*b-b)*y2[khi])*(h*h)/6
	dy = (y[khi]-y[klo])/h -
		(3*a*a-1)/6*h*y2[klo] +
		(3*b*b-1)/6*h*y2[khi]
	d2y = a*y2[klo] + b*y2[khi]

	return val, dy, d2y, nil
}

// splineInterval finds the knot interval holding x0 by bisection. Queries
// outside the knots fall into the first or last interval.
func splineInterval(x, y, y2 []float64, x0 float64) (klo, khi int, err error) {
	n := len(x)
	if n != len(y) || n != len(y2) {
		return 0, 0, ErrLengthMismatch
	}
	if n < 2 {
		return 0, 0, ErrTooFewKnots
	}

	ascnd := x[n-1] > x[0]
	klo, khi = 0, n-1
	for khi-klo > 1 {
		k := (khi + klo) >> 1
		if (x[k] > x0) == ascnd {
			khi = k
		} else {
			klo = k
		}
	}

	if x[khi] == x[klo] {
		return 0, 0, ErrDegenerateInterval
	}
	return klo, khi, nil
}
