package engine

import (
	"fmt"

	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"github.com/sirupsen/logrus"
)

// Modifiers carries keyboard state of a pointer event
type Modifiers struct {
	// Close finishes the area being drawn
	Close bool
}

// Outcome reports what a pointer event completed
type Outcome struct {
	Measurement      *measurement.Measurement `json:"measurement,omitempty"`
	Calibration      *calibration.Result      `json:"calibration,omitempty"`
	AwaitingDistance bool                     `json:"awaitingDistance,omitempty"`
}

// SelectMode switches the input mode. Any calibration in progress is
// abandoned; selecting ModeCalibrating starts a prompted calibration.
func (e *Engine) SelectMode(m session.Mode) error {
	if !e.loaded {
		return ErrNoDocument
	}
	if m == session.ModeCalibrating {
		return e.BeginCalibration(calibration.Options{})
	}

	e.cal.Cancel()
	e.sess.Select(m)
	e.log.WithField("mode", m).Debug("mode selected")
	e.changed(ChangeMode)
	return nil
}

// BeginCalibration starts collecting two reference points
func (e *Engine) BeginCalibration(opts calibration.Options) error {
	if !e.loaded {
		return ErrNoDocument
	}
	if err := e.cal.Begin(opts); err != nil {
		e.sess.Cancel()
		e.log.WithError(err).Warn("calibration not started")
		e.changed(ChangeMode)
		return err
	}

	e.sess.Select(session.ModeCalibrating)
	known, ok := e.cal.KnownDistance()
	e.log.WithFields(logrus.Fields{
		"notation": opts.Notation,
		"known":    ok,
		"distance": known,
	}).Debug("calibration started")
	e.changed(ChangeMode)
	return nil
}

// SetDescription sets the description of the next completed measurement.
// It is cleared once used.
func (e *Engine) SetDescription(s string) {
	e.description = s
	e.changed(ChangeDescription)
}

// Description returns the pending description
func (e *Engine) Description() string {
	return e.description
}

// PointerDown delivers a click at p in document pixel space
func (e *Engine) PointerDown(p geometry.Point, mods Modifiers) (Outcome, error) {
	if err := e.checkPoint(p); err != nil {
		return Outcome{}, err
	}
	if e.cal.Phase() == calibration.PhaseAwaitingDistance {
		return Outcome{AwaitingDistance: true}, nil
	}
	return e.apply(e.sess.Handle(session.Input{Kind: session.PointerDown, Point: p, Close: mods.Close}))
}

// PointerMove updates the provisional point of the shape being drawn
func (e *Engine) PointerMove(p geometry.Point) error {
	if err := e.checkPoint(p); err != nil {
		return err
	}
	before := len(e.sess.Points())
	e.sess.Handle(session.Input{Kind: session.PointerMove, Point: p})
	if before > 0 {
		e.changed(ChangeSession)
	}
	return nil
}

// PointerUp ends a click; with the Close modifier it finishes an area
func (e *Engine) PointerUp(p geometry.Point, mods Modifiers) (Outcome, error) {
	if err := e.checkPoint(p); err != nil {
		return Outcome{}, err
	}
	return e.apply(e.sess.Handle(session.Input{Kind: session.PointerUp, Point: p, Close: mods.Close}))
}

// CloseShape finishes the area being drawn
func (e *Engine) CloseShape() (Outcome, error) {
	if !e.loaded {
		return Outcome{}, ErrNoDocument
	}
	action, err := e.sess.Close()
	if err != nil {
		e.log.WithError(err).Warn("area not closed")
		return Outcome{}, err
	}
	return e.apply(action)
}

// Cancel abandons the shape or calibration in progress and returns to Idle.
// The ratio is never touched.
func (e *Engine) Cancel() {
	if e.cal.InProgress() {
		e.log.Debug("calibration cancelled")
	}
	e.cal.Cancel()
	e.sess.Cancel()
	e.changed(ChangeMode)
}

// SubmitDistance answers a calibration waiting in the AwaitingDistance phase.
// confirmed=false cancels the calibration.
func (e *Engine) SubmitDistance(value float64, confirmed bool) (Outcome, error) {
	if e.cal.Phase() != calibration.PhaseAwaitingDistance {
		return Outcome{}, ErrNotAwaitingDistance
	}
	if !confirmed {
		e.Cancel()
		return Outcome{}, nil
	}
	if value > e.promptMax {
		err := &calibration.InvalidCalibrationError{
			Reason:         fmt.Sprintf("distance exceeds %g", e.promptMax),
			ActualDistance: value,
		}
		e.cal.Cancel()
		e.sess.Cancel()
		e.log.WithError(err).Warn("calibration failed")
		e.changed(ChangeCalibration)
		return Outcome{}, err
	}
	return e.finishCalibration(e.cal.Complete(value))
}

func (e *Engine) checkPoint(p geometry.Point) error {
	if !e.loaded {
		return ErrNoDocument
	}
	if !p.IsFinite() {
		return fmt.Errorf("%w: %v", ErrInvalidPoint, p)
	}
	return nil
}

func (e *Engine) apply(action session.Action) (Outcome, error) {
	var (
		m   measurement.Measurement
		err error
	)

	switch action.Kind {
	case session.ActionNone:
		e.changed(ChangeSession)
		return Outcome{}, nil
	case session.ActionCalibrate:
		return e.calibrate(action.Points)
	case session.ActionDistance:
		m, err = e.store.RecordDistance(action.Points[0], action.Points[1], e.description, e.cal.Ratio())
	case session.ActionArea:
		m, err = e.store.RecordArea(action.Points, e.description, e.cal.Ratio())
	case session.ActionCount:
		m = e.store.RecordCount(e.description)
	}
	if err != nil {
		e.log.WithError(err).Warnf("%s not recorded", action.Kind)
		e.changed(ChangeSession)
		return Outcome{}, err
	}

	e.description = ""
	e.log.WithFields(logrus.Fields{
		"kind":  m.Kind,
		"value": m.Value,
		"unit":  m.Unit,
	}).Info("measurement recorded")
	e.changed(ChangeMeasurement)
	return Outcome{Measurement: &m}, nil
}

func (e *Engine) calibrate(points []geometry.Point) (Outcome, error) {
	for _, p := range points {
		if _, err := e.cal.RecordPoint(p); err != nil {
			e.sess.Cancel()
			return Outcome{}, err
		}
	}

	if _, ok := e.cal.KnownDistance(); ok {
		return e.finishCalibration(e.cal.CompleteKnown())
	}
	if e.prompter != nil {
		value, confirmed := e.prompter.PromptDistance()
		return e.SubmitDistance(value, confirmed)
	}

	e.log.Debug("waiting for calibration distance")
	e.changed(ChangeCalibration)
	return Outcome{AwaitingDistance: true}, nil
}

func (e *Engine) finishCalibration(result *calibration.Result, err error) (Outcome, error) {
	e.sess.Cancel()
	if err != nil {
		e.log.WithError(err).WithField("ratio", e.cal.Ratio()).Warn("calibration failed, keeping previous ratio")
		e.changed(ChangeCalibration)
		return Outcome{}, err
	}

	m := e.store.RecordCalibration(result.ActualDistance, result.Points, e.description)
	e.description = ""
	e.log.WithFields(logrus.Fields{
		"ratio":    result.Ratio,
		"previous": result.PreviousRatio,
		"method":   result.Method,
	}).Info("calibrated")
	e.changed(ChangeCalibration)
	return Outcome{Measurement: &m, Calibration: result}, nil
}
