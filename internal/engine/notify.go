package engine

// ChangeKind describes what part of the engine state changed.
type ChangeKind string

const (
	ChangeDocument    ChangeKind = "document"
	ChangeMode        ChangeKind = "mode"
	ChangeSession     ChangeKind = "session"
	ChangeMeasurement ChangeKind = "measurement"
	ChangeCalibration ChangeKind = "calibration"
	ChangeLayer       ChangeKind = "layer"
	ChangeView        ChangeKind = "view"
	ChangeDescription ChangeKind = "description"
)

// Change is delivered to the Notifier after a mutating operation.
type Change struct {
	Kind ChangeKind `json:"kind"`
}

// Notifier is called synchronously after every state change. A redraw
// request is the typical reaction.
type Notifier func(Change)

// Prompter asks the user for a real-world distance.
type Prompter interface {
	PromptDistance() (value float64, confirmed bool)
}

// PrompterFunc adapts a function to the Prompter interface
type PrompterFunc func() (float64, bool)

func (f PrompterFunc) PromptDistance() (float64, bool) {
	return f()
}
