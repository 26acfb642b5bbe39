package engine

import (
	"image/color"

	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/sirupsen/logrus"
)

// SetZoom changes the zoom factor, clamped to the limits. Stored geometry,
// in-progress points and the ratio are re-projected into the new pixel space
// in the same step, so every measured value stays the same.
func (e *Engine) SetZoom(z float64) error {
	if !e.loaded {
		return ErrNoDocument
	}
	before := e.view.Zoom()
	factor, err := e.view.SetZoom(z)
	if err != nil {
		return err
	}
	if err := e.rescale(factor); err != nil {
		e.view.SetZoom(before)
		return err
	}
	return nil
}

// ZoomIn increases the zoom by one step
func (e *Engine) ZoomIn() error {
	return e.SetZoom(e.view.Zoom() * e.view.Limits().Step)
}

// ZoomOut decreases the zoom by one step
func (e *Engine) ZoomOut() error {
	return e.SetZoom(e.view.Zoom() / e.view.Limits().Step)
}

func (e *Engine) rescale(factor float64) error {
	if factor == 1 {
		return nil
	}
	if err := rescaleAll(e.cal, e.store, e.sess, factor); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"zoom":   e.view.Zoom(),
		"factor": factor,
		"ratio":  e.cal.Ratio(),
	}).Debug("zoom changed")
	e.changed(ChangeView)
	return nil
}

// rescaleAll re-projects calibration, stored measurements and the session by
// factor. Nothing is modified when the rescaled ratio would be invalid.
func rescaleAll(cal *calibration.State, store *measurement.Store, sess *session.Session, factor float64) error {
	if factor == 1 {
		return nil
	}
	oldRatio := cal.Ratio()
	newRatio := oldRatio * factor
	if err := calibration.ValidateRatio(newRatio); err != nil {
		return err
	}
	if err := cal.Rescale(factor); err != nil {
		return err
	}
	if err := store.RescaleAll(oldRatio, newRatio); err != nil {
		return err
	}
	sess.Rescale(factor)
	return nil
}

// SetRotation sets the clockwise page rotation. Document geometry is
// unaffected; only the document to screen mapping changes.
func (e *Engine) SetRotation(deg int) error {
	if !e.loaded {
		return ErrNoDocument
	}
	if err := e.view.SetRotation(deg); err != nil {
		return err
	}
	e.log.WithField("rotation", e.view.Rotation()).Debug("rotation changed")
	e.changed(ChangeView)
	return nil
}

// SetLayerVisible shows or hides a layer
func (e *Engine) SetLayerVisible(name string, visible bool) error {
	if err := e.store.SetLayerVisible(name, visible); err != nil {
		return err
	}
	e.changed(ChangeLayer)
	return nil
}

// SetLayerColor changes the overlay color of a layer
func (e *Engine) SetLayerColor(name string, c color.NRGBA) error {
	if err := e.store.SetLayerColor(name, c); err != nil {
		return err
	}
	e.changed(ChangeLayer)
	return nil
}
