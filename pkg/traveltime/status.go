package traveltime

import "fmt"

// Status reports how a table value was obtained. The numeric codes are part
// of the interface: callers branch on them, so they must not be renumbered.
type Status int

const (
	// StatusOK means the query was inside the table and no extrapolation was needed.
	StatusOK     Status = 0
	// StatusInHole means the query lies in a declared hole of the table.
	StatusInHole Status = 11

	StatusDistanceBelow           Status = 12
	StatusDistanceAbove           Status = 13
	StatusDepthBelow              Status = 14
	StatusDepthAbove              Status = 15
	StatusDistanceBelowDepthBelow Status = 16
	StatusDistanceAboveDepthBelow Status = 17
	StatusDistanceBelowDepthAbove Status = 18
	StatusDistanceAboveDepthAbove Status = 19

	// StatusPole means rational extrapolation hit a pole at a required abscissa.
	StatusPole                Status = -1
	// StatusInsufficientSamples means too few real samples surround the query.
	StatusInsufficientSamples Status = -2
)

// regimes is indexed by [idepth+1][idist+1].
var regimes = [3][3]Status{
	{StatusDistanceBelowDepthBelow, StatusDepthBelow, StatusDistanceAboveDepthBelow},
	{StatusDistanceBelow, StatusOK, StatusDistanceAbove},
	{StatusDistanceBelowDepthAbove, StatusDepthAbove, StatusDistanceAboveDepthAbove},
}

// StatusFor maps the distance and depth extrapolation flags, each -1 (below
// the first sample), 0 (inside) or 1 (above the last sample), to a status.
func StatusFor(idist, idepth int) Status {
	if idist < -1 || idist > 1 || idepth < -1 || idepth > 1 {
		panic(fmt.Sprintf("traveltime: extrapolation flags (%d, %d) out of range", idist, idepth))
	}
	return regimes[idepth+1][idist+1]
}

// Extrapolated reports whether the status is one of the extrapolation regimes.
func (s Status) Extrapolated() bool {
	return s >= StatusDistanceBelow && s <= StatusDistanceAboveDepthAbove
}

// Failed reports whether no value could be computed.
func (s Status) Failed() bool {
	return s < 0
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInHole:
		return "in hole"
	case StatusDistanceBelow:
		return "distance below table"
	case StatusDistanceAbove:
		return "distance above table"
	case StatusDepthBelow:
		return "depth below table"
	case StatusDepthAbove:
		return "depth above table"
	case StatusDistanceBelowDepthBelow:
		return "distance and depth below table"
	case StatusDistanceAboveDepthBelow:
		return "distance above and depth below table"
	case StatusDistanceBelowDepthAbove:
		return "distance below and depth above table"
	case StatusDistanceAboveDepthAbove:
		return "distance and depth above table"
	case StatusPole:
		return "rational extrapolation pole"
	case StatusInsufficientSamples:
		return "insufficient samples"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}
