// Package interpolation provides the numerical kernels behind travel-time
// table lookups: bracket search over monotonic axes, Bulirsch-Stoer rational
// extrapolation, natural cubic splines and bi-cubic splines built from them.
//
// None of the routines keep state between calls, so they are safe to use from
// any number of goroutines as long as the input slices are not being written.
package interpolation

// Locate returns the index j such that x lies between axis[j] and axis[j+1].
// The axis may be ascending or descending; its direction is decided once from
// the end samples. Locate returns -1 when x precedes axis[0] and len(axis)-1
// when x follows the last sample. A query equal to the last sample is placed
// in the last interval.
//
// Interior knot hits go to the interval that starts at the knot on ascending
// axes (axis[j] <= x < axis[j+1]) and to the interval that ends at it on
// descending ones (axis[j] > x >= axis[j+1]). This is the Numerical Recipes
// locate convention: both come from the single test x >= axis[jm].
func Locate(axis []float64, x float64) int {
	n := len(axis)
	if n == 0 {
		return -1
	}
	if n == 1 {
		if x < axis[0] {
			return -1
		}
		return 0
	}

	ascnd := axis[n-1] > axis[0]
	jl, ju := -1, n
	for ju-jl > 1 {
		jm := (ju + jl) >> 1
		if (x >= axis[jm]) == ascnd {
			jl = jm
		} else {
			ju = jm
		}
	}

	// Pin exact hits on the end samples to the adjacent interval.
	if x == axis[0] {
		return 0
	}
	if x == axis[n-1] {
		return n - 2
	}
	return jl
}

// Locate32 is Locate for single precision axes.
func Locate32(axis []float32, x float32) int {
	n := len(axis)
	if n == 0 {
		return -1
	}
	if n == 1 {
		if x < axis[0] {
			return -1
		}
		return 0
	}

	ascnd := axis[n-1] > axis[0]
	jl, ju := -1, n
	for ju-jl > 1 {
		jm := (ju + jl) >> 1
		if (x >= axis[jm]) == ascnd {
			jl = jm
		} else {
			ju = jm
		}
	}

	if x == axis[0] {
		return 0
	}
	if x == axis[n-1] {
		return n - 2
	}
	return jl
}
