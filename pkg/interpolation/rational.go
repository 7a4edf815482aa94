package interpolation

import "math"

// RationalTiny seeds the d tableau of RationalInterpolate. It keeps a
// zero-over-zero from appearing when two neighbouring ordinates round to the
// same value. Changing it changes extrapolated values.
const RationalTiny = 1.0e-6

// smallKnots is the knot count up to which scratch space is not heap allocated.
const smallKnots = 8

// RationalInterpolate evaluates the diagonal rational function passing through
// the knots (xa[i], ya[i]) at x, returning the value and an error estimate dy.
// It is used both inside and beyond the knot range.
//
// If x coincides with a knot the knot's ordinate is returned with dy = 0.
// ErrPoleAtQuery is returned when the interpolant has a pole at x, or
// anywhere between x and the knots, where the result would be meaningless.
func RationalInterpolate(xa, ya []float64, x float64) (y, dy float64, err error) {
	n := len(xa)
	if n != len(ya) {
		return 0, 0, ErrLengthMismatch
	}
	if n == 0 {
		return 0, 0, ErrTooFewKnots
	}

	// Tableaus of the size the table lookup builds stay on the stack.
	var cbuf, dbuf [smallKnots]float64
	c, d := cbuf[:0], dbuf[:0]
	if n > smallKnots {
		c, d = make([]float64, 0, n), make([]float64, 0, n)
	}
	c, d = c[:n], d[:n]

	ns := 0
	hh := math.Abs(x - xa[0])
	for i := 0; i < n; i++ {
		h := math.Abs(x - xa[i])
		if h == 0 {
			return ya[i], 0, nil
		}
		if h < hh {
			ns = i
			hh = h
		}
		c[i] = ya[i]
		d[i] = ya[i] + RationalTiny
	}

	y = ya[ns]
	ns--
	for m := 1; m < n; m++ {
		for i := 0; i < n-m; i++ {
			w := c[i+1] - d[i]
			h := xa[i+m] - x
			t := (xa[i] - x) * d[i] / h
			dd := t - c[i+1]
			if dd == 0 {
				return 0, 0, ErrPoleAtQuery
			}
			dd = w / dd
			d[i] = c[i+1] * dd
			c[i] = t * dd
		}

		// Walk the tableau towards whichever side keeps the path straight.
		if 2*(ns+1) < n-m {
			dy = c[ns+1]
		} else {
			dy = d[ns]
			ns--
		}
		y += dy
	}

	if math.IsInf(y, 0) || math.IsNaN(y) {
		return 0, 0, ErrPoleAtQuery
	}

	// The tableau stays finite when the pole lies between the knots and x
	// rather than on x, so look for it explicitly.
	lo, hi := x, x
	for _, v := range xa {
		lo, hi = min(lo, v), max(hi, v)
	}
	if rationalHasPole(xa, ya, lo, hi) {
		return 0, 0, ErrPoleAtQuery
	}
	return y, dy, nil
}

// rationalHasPole reports whether the diagonal rational function through the
// knots has a pole in [lo, hi]. It fits p(u)/q(u) with deg p = (n-1)/2 and
// q(0) = 1 by linearising yi*q(ui) = p(ui), where u is x rescaled about an
// origin left of lo. Knot sets larger than smallKnots and degenerate fits
// (such as constant data) report no pole.
func rationalHasPole(xa, ya []float64, lo, hi float64) bool {
	n := len(xa)
	if n < 2 || n > smallKnots {
		return false
	}
	mu := (n - 1) / 2
	nu := n - 1 - mu

	scale := hi - lo + 1
	origin := lo - scale

	var a [smallKnots][smallKnots + 1]float64
	for i := 0; i < n; i++ {
		u := (xa[i] - origin) / scale
		p := 1.0
		for j := 0; j <= mu; j++ {
			a[i][j] = p
			p *= u
		}
		p = u
		for k := 1; k <= nu; k++ {
			a[i][mu+k] = -ya[i] * p
			p *= u
		}
		a[i][n] = ya[i]
	}

	sol, ok := solveSmall(&a, n)
	if !ok {
		return false
	}
	q := sol[mu+1 : n]

	if nu == 1 {
		if q[0] == 0 {
			return false
		}
		root := origin - scale/q[0]
		return root >= lo && root <= hi
	}

	den := func(x float64) float64 {
		u := (x - origin) / scale
		s, p := 1.0, u
		for _, qk := range q {
			s += qk * p
			p *= u
		}
		return s
	}

	// Higher degree denominators are scanned for a sign change.
	const steps = 128
	prev := den(lo)
	if prev == 0 {
		return true
	}
	for i := 1; i <= steps; i++ {
		d := den(lo + (hi-lo)*float64(i)/steps)
		if d == 0 || (d > 0) != (prev > 0) {
			return true
		}
		prev = d
	}
	return false
}

// solveSmall solves the n x n system held in the augmented matrix a by
// Gaussian elimination with partial pivoting. It reports false for a
// numerically singular system.
func solveSmall(a *[smallKnots][smallKnots + 1]float64, n int) ([smallKnots]float64, bool) {
	var x [smallKnots]float64

	scale := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			scale = max(scale, math.Abs(a[i][j]))
		}
	}
	if scale == 0 {
		return x, false
	}

	for c := 0; c < n; c++ {
		p := c
		for r := c + 1; r < n; r++ {
			if math.Abs(a[r][c]) > math.Abs(a[p][c]) {
				p = r
			}
		}
		if math.Abs(a[p][c]) <= 1e-13*scale {
			return x, false
		}
		a[c], a[p] = a[p], a[c]
		for r := c + 1; r < n; r++ {
			f := a[r][c] / a[c][c]
			for k := c; k <= n; k++ {
				a[r][k] -= f * a[c][k]
			}
		}
	}

	for r := n - 1; r >= 0; r-- {
		s := a[r][n]
		for k := r + 1; k < n; k++ {
			s -= a[r][k] * x[k]
		}
		x[r] = s / a[r][r]
	}
	return x, true
}
