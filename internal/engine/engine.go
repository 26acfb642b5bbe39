// Package engine is the top-level controller of a takeoff. It owns the
// calibration state, the input session, the measurement store and the view
// transform of the active document page and is the only entry point hosts
// talk to.
//
// An Engine is not safe for concurrent use. Hosts deliver one event at a time
// and decide themselves when to redraw, usually from the Notifier callback.
package engine

import (
	"errors"

	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/philipparndt/gotakeoff/internal/view"
	"github.com/sirupsen/logrus"
)

// DefaultPromptMax is the largest distance accepted from the interactive prompt
const DefaultPromptMax = 1000.0

var (
	// ErrNoDocument is returned by input operations before a document is loaded
	ErrNoDocument = errors.New("no document loaded")
	// ErrNotAwaitingDistance is returned by SubmitDistance when no calibration
	// is waiting for a distance
	ErrNotAwaitingDistance = errors.New("no calibration is waiting for a distance")
	// ErrInvalidPoint is returned for points with NaN or infinite coordinates
	ErrInvalidPoint = errors.New("point is not finite")
)

// Options configures an Engine. Zero fields select the defaults.
type Options struct {
	Units     measurement.Units
	Limits    view.Limits
	PromptMax float64
	// Prompter asks for the calibration distance synchronously. Without one,
	// calibration pauses in the AwaitingDistance phase until SubmitDistance.
	Prompter Prompter
	Logger   *logrus.Entry
	Notifier Notifier
}

// Engine wires the takeoff components together.
type Engine struct {
	log       *logrus.Entry
	units     measurement.Units
	promptMax float64
	prompter  Prompter
	notify    Notifier

	doc    document.Info
	page   int
	loaded bool

	cal   *calibration.State
	sess  *session.Session
	store *measurement.Store
	view  *view.Transform

	description string
}

// New returns an engine without a document
func New(opts *Options) *Engine {
	if opts == nil {
		opts = &Options{}
	}
	e := &Engine{
		log:       opts.Logger,
		units:     opts.Units,
		promptMax: opts.PromptMax,
		prompter:  opts.Prompter,
		notify:    opts.Notifier,
		view:      view.New(opts.Limits),
	}
	if e.log == nil {
		e.log = logrus.WithField("component", "engine")
	}
	if e.promptMax <= 0 {
		e.promptMax = DefaultPromptMax
	}
	e.reset()
	return e
}

// SetNotifier replaces the change callback
func (e *Engine) SetNotifier(n Notifier) {
	e.notify = n
}

// SetPrompter replaces the distance prompter; nil selects asynchronous prompting
func (e *Engine) SetPrompter(p Prompter) {
	e.prompter = p
}

// LoadDocument makes page of doc the active page. Calibration, session and
// measurements of a previous document are discarded.
func (e *Engine) LoadDocument(doc document.Info, page int) error {
	size, err := doc.Page(page)
	if err != nil {
		return err
	}

	e.doc = doc
	e.page = page
	e.loaded = true
	e.reset()
	e.view.Reset(size.Width, size.Height)

	e.log.WithFields(logrus.Fields{
		"document": doc.Path,
		"page":     page,
		"width":    size.Width,
		"height":   size.Height,
	}).Info("document loaded")
	e.changed(ChangeDocument)
	return nil
}

// SetPage switches to another page of the loaded document
func (e *Engine) SetPage(page int) error {
	if !e.loaded {
		return ErrNoDocument
	}
	return e.LoadDocument(e.doc, page)
}

// Document returns the loaded document and page
func (e *Engine) Document() (document.Info, int, bool) {
	return e.doc, e.page, e.loaded
}

// Ratio returns the current pixels-per-unit ratio
func (e *Engine) Ratio() float64 {
	return e.cal.Ratio()
}

// Mode returns the active input mode
func (e *Engine) Mode() session.Mode {
	return e.sess.Mode()
}

// Phase returns the calibration phase
func (e *Engine) Phase() calibration.Phase {
	return e.cal.Phase()
}

// Layers returns a copy of all layers
func (e *Engine) Layers() []measurement.Layer {
	return e.store.Layers()
}

// Units returns the unit labels of new measurements
func (e *Engine) Units() measurement.Units {
	return e.store.Units()
}

// View returns the zoom and rotation state
func (e *Engine) View() *view.Transform {
	return e.view
}

func (e *Engine) reset() {
	e.cal = calibration.New()
	e.sess = session.New()
	e.store = measurement.NewStore(e.units)
	e.description = ""
}

func (e *Engine) changed(kind ChangeKind) {
	if e.notify != nil {
		e.notify(Change{Kind: kind})
	}
}
