// Package session implements the input state machine that turns pointer
// events into completed measurement and calibration actions.
package session

import (
	"fmt"
	"strings"

	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
)

// Mode is the active input mode.
type Mode string

const (
	ModeIdle        Mode = "Idle"
	ModeCalibrating Mode = "Calibrating"
	ModeDistance    Mode = "Distance"
	ModeArea        Mode = "Area"
	ModeCount       Mode = "Count"
)

// ParseMode accepts the mode names offered to users, case-insensitively.
// "None" selects ModeIdle.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "idle", "":
		return ModeIdle, nil
	case "calibrate", "calibrating", "calibration":
		return ModeCalibrating, nil
	case "distance":
		return ModeDistance, nil
	case "area":
		return ModeArea, nil
	case "count":
		return ModeCount, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// EventKind distinguishes pointer events.
type EventKind string

const (
	PointerDown EventKind = "down"
	PointerMove EventKind = "move"
	PointerUp   EventKind = "up"
)

// Input is one pointer event in document pixel space. Close carries the
// closing modifier of an area gesture.
type Input struct {
	Kind  EventKind
	Point geometry.Point
	Close bool
}

// ActionKind tells the controller what a completed gesture produced.
type ActionKind string

const (
	ActionNone      ActionKind = ""
	ActionCalibrate ActionKind = "Calibrate"
	ActionDistance  ActionKind = "Distance"
	ActionArea      ActionKind = "Area"
	ActionCount     ActionKind = "Count"
)

// Action is returned by Handle. Points is set for every kind except
// ActionCount and ActionNone.
type Action struct {
	Kind   ActionKind
	Points []geometry.Point
}

// State is a read-only copy of the session for overlay rendering.
type State struct {
	Mode        Mode             `json:"mode"`
	Points      []geometry.Point `json:"points"`
	Drawing     bool             `json:"drawing"`
	Provisional *geometry.Point  `json:"provisional,omitempty"`
}

// Session tracks the active mode and the in-progress point sequence.
type Session struct {
	mode        Mode
	points      []geometry.Point
	drawing     bool
	provisional *geometry.Point
}

// New returns an idle session
func New() *Session {
	return &Session{mode: ModeIdle}
}

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) Points() []geometry.Point { return geometry.ClonePoints(s.points) }

func (s *Session) Drawing() bool { return s.drawing }

// Select switches to mode m and discards any accumulated points
func (s *Session) Select(m Mode) {
	s.reset()
	s.mode = m
}

// Cancel returns to Idle and discards accumulated points
func (s *Session) Cancel() {
	s.Select(ModeIdle)
}

// Handle applies one pointer event and reports what, if anything, completed.
func (s *Session) Handle(in Input) Action {
	switch in.Kind {
	case PointerMove:
		if len(s.points) > 0 {
			p := in.Point
			s.provisional = &p
		}
		return Action{}
	case PointerUp:
		if s.mode == ModeArea && in.Close && len(s.points) >= 3 {
			return s.finish(ActionArea)
		}
		return Action{}
	case PointerDown:
	default:
		return Action{}
	}

	switch s.mode {
	case ModeCalibrating:
		s.points = append(s.points, in.Point)
		if len(s.points) == 2 {
			action := s.finish(ActionCalibrate)
			s.mode = ModeIdle
			return action
		}
	case ModeDistance:
		s.points = append(s.points, in.Point)
		if len(s.points) == 2 {
			return s.finish(ActionDistance)
		}
	case ModeArea:
		s.points = append(s.points, in.Point)
		s.drawing = true
	case ModeCount:
		return Action{Kind: ActionCount}
	}
	return Action{}
}

// Close is the explicit closing gesture of an area. With fewer than three
// points it fails and the points stay in place.
func (s *Session) Close() (Action, error) {
	if s.mode != ModeArea {
		return Action{}, nil
	}
	if len(s.points) < 3 {
		return Action{}, &measurement.InsufficientPointsError{Kind: measurement.KindArea, Got: len(s.points), Need: 3}
	}
	return s.finish(ActionArea), nil
}

// Rescale multiplies every accumulated point by factor
func (s *Session) Rescale(factor float64) {
	s.points = geometry.ScalePoints(s.points, 1, factor)
	if s.provisional != nil {
		p := s.provisional.Mul(factor)
		s.provisional = &p
	}
}

// Snapshot returns a copy of the session state
func (s *Session) Snapshot() State {
	st := State{
		Mode:    s.mode,
		Points:  geometry.ClonePoints(s.points),
		Drawing: s.drawing,
	}
	if s.provisional != nil {
		p := *s.provisional
		st.Provisional = &p
	}
	return st
}

func (s *Session) finish(kind ActionKind) Action {
	action := Action{Kind: kind, Points: s.points}
	s.points = nil
	s.drawing = false
	s.provisional = nil
	return action
}

func (s *Session) reset() {
	s.points = nil
	s.drawing = false
	s.provisional = nil
}
