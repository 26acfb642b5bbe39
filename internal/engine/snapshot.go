package engine

import (
	"fmt"

	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/philipparndt/gotakeoff/internal/view"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"github.com/sirupsen/logrus"
)

// ViewState is the document to screen mapping at snapshot time
type ViewState struct {
	Zoom     float64 `json:"zoom"`
	Rotation int     `json:"rotation"`
	// Width and Height are the document size at the current zoom
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Snapshot is everything a renderer needs to paint the overlay. It shares
// no memory with the engine.
type Snapshot struct {
	Document    string              `json:"document"`
	Page        int                 `json:"page"`
	Loaded      bool                `json:"loaded"`
	Ratio       float64             `json:"ratio"`
	Method      calibration.Method  `json:"method"`
	Phase       calibration.Phase   `json:"phase"`
	Calibration []geometry.Point    `json:"calibrationPoints,omitempty"`
	Session     session.State       `json:"session"`
	Layers      []measurement.Layer `json:"layers"`
	View        ViewState           `json:"view"`
	Description string              `json:"description,omitempty"`
}

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() Snapshot {
	w, h := e.view.DocumentSize()
	return Snapshot{
		Document:    e.doc.Path,
		Page:        e.page,
		Loaded:      e.loaded,
		Ratio:       e.cal.Ratio(),
		Method:      e.cal.Method(),
		Phase:       e.cal.Phase(),
		Calibration: e.cal.Pending(),
		Session:     e.sess.Snapshot(),
		Layers:      e.store.Layers(),
		View: ViewState{
			Zoom:     e.view.Zoom(),
			Rotation: e.view.Rotation(),
			Width:    w,
			Height:   h,
		},
		Description: e.description,
	}
}

// RestoreState is the persisted part of a takeoff. Points are in the
// document pixel space of Zoom.
type RestoreState struct {
	Ratio    float64
	Method   calibration.Method
	Zoom     float64
	Rotation int
	Layers   []measurement.Layer
}

// Restore replaces calibration, measurements and view of the loaded page.
// Nothing changes if any part of state is invalid.
func (e *Engine) Restore(state RestoreState) error {
	if !e.loaded {
		return ErrNoDocument
	}
	if err := calibration.ValidateRatio(state.Ratio); err != nil {
		return err
	}
	rotation, err := view.NormalizeRotation(state.Rotation)
	if err != nil {
		return err
	}
	if !(state.Zoom > 0) {
		return fmt.Errorf("invalid zoom %g", state.Zoom)
	}

	store := measurement.NewStore(e.units)
	if err := store.Import(state.Layers); err != nil {
		return err
	}
	cal := calibration.New()
	method := state.Method
	if method == "" {
		method = calibration.MethodRestored
	}
	if err := cal.SetRatio(state.Ratio, method); err != nil {
		return err
	}

	size, _ := e.doc.Page(e.page)
	vt := view.New(e.view.Limits())
	vt.Reset(size.Width, size.Height)
	vt.SetRotation(rotation)
	vt.SetZoom(state.Zoom)

	// the saved zoom may lie outside the configured limits
	sess := session.New()
	if err := rescaleAll(cal, store, sess, vt.Zoom()/state.Zoom); err != nil {
		return err
	}

	e.cal = cal
	e.store = store
	e.sess = sess
	e.description = ""
	*e.view = *vt

	e.log.WithFields(logrus.Fields{
		"ratio":        e.cal.Ratio(),
		"measurements": e.store.Len(),
		"zoom":         e.view.Zoom(),
	}).Info("takeoff restored")
	e.changed(ChangeDocument)
	return nil
}
