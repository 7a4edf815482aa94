package interpolation

import "errors"

// Errors returned by the interpolation kernels. Callers match them with
// errors.Is; the travel-time orchestrator turns them into status codes.
var (
	// ErrPoleAtQuery indicates the rational interpolant has a pole at the
	// requested abscissa or between it and the knots.
	ErrPoleAtQuery = errors.New("interpolation: rational interpolant has a pole at query")

	// ErrDegenerateInterval indicates two knots share the same abscissa.
	ErrDegenerateInterval = errors.New("interpolation: degenerate knot interval")

	// ErrTooFewKnots indicates there are not enough knots for the operation.
	ErrTooFewKnots = errors.New("interpolation: too few knots")

	// ErrLengthMismatch indicates the abscissa and ordinate slices differ in length.
	ErrLengthMismatch = errors.New("interpolation: length mismatch between knot arrays")
)
