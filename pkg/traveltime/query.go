package traveltime

// DerivNeed says whether depth-direction derivatives should be computed. The
// zero value defers to the caller's default.
type DerivNeed int

const (
	DerivDefault DerivNeed = iota
	DerivSkip
	DerivCompute
)

// Resolve replaces DerivDefault with def.
func (n DerivNeed) Resolve(def DerivNeed) DerivNeed {
	if n == DerivDefault {
		return def
	}
	return n
}

// Query is a single table lookup.
type Query struct {
	// Distance is the epicentral distance in degrees.
	Distance float64
	// Depth is the source depth in kilometres.
	Depth    float64

	// AllowExtrapolation permits values outside the table and inside holes.
	AllowExtrapolation bool
	// InHole declares that the query lies in a hole of the table.
	InHole             bool

	// DepthDerivs controls the depth-direction derivatives. DerivDefault
	// computes them.
	DepthDerivs DerivNeed
}

// Result is the outcome of a lookup. Numeric fields that were not computed
// hold -1.
type Result struct {
	Value               float64
	DistanceDeriv       float64
	DistanceSecondDeriv float64
	DepthDeriv          float64
	DepthSecondDeriv    float64

	Status Status
}

// NewResult returns a Result with every numeric field set to -1.
func NewResult() Result {
	return Result{
		Value:               -1,
		DistanceDeriv:       -1,
		DistanceSecondDeriv: -1,
		DepthDeriv:          -1,
		DepthSecondDeriv:    -1,
		Status:              StatusOK,
	}
}
