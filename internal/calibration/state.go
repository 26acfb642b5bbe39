package calibration

import (
	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"github.com/philipparndt/gotakeoff/pkg/scale"
)

// State owns the current ratio and the in-progress reference points.
type State struct {
	ratio  float64
	method Method
	phase  Phase

	pending  []geometry.Point
	known    float64
	hasKnown bool
	source   Method
}

// New returns a state with the default ratio
func New() *State {
	return &State{
		ratio:  DefaultRatio,
		method: MethodDefault,
		phase:  PhaseIdle,
	}
}

// Ratio returns the pixels-per-unit ratio; it is always positive
func (s *State) Ratio() float64 {
	return s.ratio
}

// Method returns how the current ratio was derived
func (s *State) Method() Method {
	return s.method
}

// Phase returns the current workflow phase
func (s *State) Phase() Phase {
	return s.phase
}

// InProgress reports whether a calibration has been started and not finished
func (s *State) InProgress() bool {
	return s.phase != PhaseIdle
}

// Pending returns a copy of the recorded reference points
func (s *State) Pending() []geometry.Point {
	return geometry.ClonePoints(s.pending)
}

// KnownDistance returns the pre-declared distance, if Begin received one
func (s *State) KnownDistance() (float64, bool) {
	return s.known, s.hasKnown
}

// Begin starts a new calibration and clears any pending points. A notation
// that does not parse fails with an *InvalidCalibrationError wrapping
// scale.ErrInvalidNotation and leaves the state idle.
func (s *State) Begin(opts Options) error {
	s.reset()

	switch {
	case scale.IsNotation(opts.Notation):
		value, err := scale.ParseNotation(opts.Notation)
		if err != nil {
			return &InvalidCalibrationError{Reason: "unparseable scale notation", Cause: err}
		}
		s.known, s.hasKnown, s.source = value, true, MethodNotation
	case opts.KnownDistance != 0:
		if opts.KnownDistance < 0 {
			return &InvalidCalibrationError{Reason: "declared distance must be positive", ActualDistance: opts.KnownDistance}
		}
		s.known, s.hasKnown, s.source = opts.KnownDistance, true, MethodKnownDistance
	default:
		s.source = MethodPrompted
	}

	s.phase = PhaseCollecting
	return nil
}

// RecordPoint appends a reference point. It reports true once both points
// are present; the state then waits for Complete. Extra points are ignored.
func (s *State) RecordPoint(p geometry.Point) (bool, error) {
	if s.phase == PhaseIdle {
		return false, ErrNotCalibrating
	}
	if len(s.pending) < 2 {
		s.pending = append(s.pending, p)
	}
	if len(s.pending) == 2 {
		s.phase = PhaseAwaitingDistance
		return true, nil
	}
	return false, nil
}

// Pixels returns the separation of the two reference points
func (s *State) Pixels() (float64, error) {
	if len(s.pending) != 2 {
		return 0, ErrPointsMissing
	}
	return geometry.Distance(s.pending[0], s.pending[1]), nil
}

// Complete derives the ratio from the reference points and actualDistance.
// On success the state returns to idle. On failure the previous ratio is kept,
// the pending points are discarded and the state returns to idle as well.
func (s *State) Complete(actualDistance float64) (*Result, error) {
	pixels, err := s.Pixels()
	if err != nil {
		return nil, err
	}
	points := s.Pending()
	source := s.source
	defer s.reset()

	if !(actualDistance > 0) {
		return nil, &InvalidCalibrationError{Reason: "declared distance must be positive", ActualDistance: actualDistance, Pixels: pixels}
	}
	if pixels == 0 {
		return nil, &InvalidCalibrationError{Reason: "reference points coincide", ActualDistance: actualDistance, Pixels: pixels}
	}

	ratio := pixels / actualDistance
	if err := ValidateRatio(ratio); err != nil {
		return nil, &InvalidCalibrationError{Reason: err.Error(), ActualDistance: actualDistance, Pixels: pixels}
	}

	result := &Result{
		Ratio:          ratio,
		PreviousRatio:  s.ratio,
		ActualDistance: actualDistance,
		Pixels:         pixels,
		Method:         source,
		Points:         points,
	}
	s.ratio = ratio
	s.method = source
	return result, nil
}

// CompleteKnown completes with the distance declared in Begin
func (s *State) CompleteKnown() (*Result, error) {
	if !s.hasKnown {
		return nil, &InvalidCalibrationError{Reason: "no known distance declared"}
	}
	return s.Complete(s.known)
}

// Cancel abandons the calibration without touching the ratio
func (s *State) Cancel() {
	s.reset()
}

// SetRatio replaces the ratio directly, e.g. when restoring a project
func (s *State) SetRatio(ratio float64, method Method) error {
	if err := ValidateRatio(ratio); err != nil {
		return err
	}
	s.ratio = ratio
	s.method = method
	return nil
}

// Rescale multiplies the ratio by factor and re-projects pending points, so a
// zoom change keeps the calibration consistent with the new pixel space.
func (s *State) Rescale(factor float64) error {
	if err := ValidateRatio(factor); err != nil {
		return err
	}
	next := s.ratio * factor
	if err := ValidateRatio(next); err != nil {
		return err
	}
	s.pending = geometry.ScalePoints(s.pending, 1, factor)
	s.ratio = next
	return nil
}

func (s *State) reset() {
	s.phase = PhaseIdle
	s.pending = nil
	s.known = 0
	s.hasKnown = false
	s.source = ""
}
