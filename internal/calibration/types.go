package calibration

import "github.com/philipparndt/gotakeoff/pkg/geometry"

// DefaultRatio is used until a calibration succeeds
const DefaultRatio = 1.0

// Phase defines phases of the calibration workflow.
type Phase string

const (
	PhaseIdle             Phase = "Idle"
	PhaseCollecting       Phase = "CollectingPoints"
	PhaseAwaitingDistance Phase = "AwaitingDistance"
)

// Method records how the current ratio was derived.
type Method string

const (
	MethodDefault       Method = "default"
	MethodNotation      Method = "notation"
	MethodKnownDistance Method = "known-distance"
	MethodPrompted      Method = "prompted"
	MethodRestored      Method = "restored"
)

// Options selects the declaration path for a new calibration. Notation takes
// precedence over KnownDistance; when neither is set the distance has to be
// supplied after both reference points are clicked.
type Options struct {
	// KnownDistance is the real-world distance between the two reference
	// points. Zero means unset.
	KnownDistance float64 `json:"knownDistance"`
	// Notation is an architectural scale label such as 1/4"=1'.
	Notation string `json:"notation"`
}

// Result describes a completed calibration.
type Result struct {
	Ratio          float64          `json:"ratio"`
	PreviousRatio  float64          `json:"previousRatio"`
	ActualDistance float64          `json:"actualDistance"`
	Pixels         float64          `json:"pixels"`
	Method         Method           `json:"method"`
	Points         []geometry.Point `json:"points"`
}
