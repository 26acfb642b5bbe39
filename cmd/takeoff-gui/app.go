package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/config"
	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/overlay"
	"github.com/philipparndt/gotakeoff/internal/project"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/philipparndt/gotakeoff/internal/watcher"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"github.com/sirupsen/logrus"
)

// App is the desktop host of one engine. All engine calls happen on the
// fyne event goroutine.
type App struct {
	window fyne.Window
	cfg    *config.Config
	log    *logrus.Entry
	eng    *engine.Engine

	path      string
	source    document.Source
	raster    *document.Raster
	composed  *image.RGBA
	renderGen int
	prompting bool

	watcher     *watcher.FileWatcher
	stopWatcher context.CancelFunc

	page     *PageView
	controls *controls
}

// NewApp builds the window content
func NewApp(w fyne.Window, cfg *config.Config, log *logrus.Entry) *App {
	a := &App{window: w, cfg: cfg, log: log}
	a.eng = engine.New(cfg.EngineOptions(log.WithField("component", "engine")))
	a.eng.SetNotifier(a.onChange)

	a.page = NewPageView()
	a.page.onDown = a.pointerDown
	a.page.onUp = a.pointerUp
	a.page.onMove = a.pointerMove
	a.page.onOut = a.page.HideLoupe
	a.page.onScroll = func(in bool) {
		if in {
			a.report(a.eng.ZoomIn())
		} else {
			a.report(a.eng.ZoomOut())
		}
	}

	a.controls = newControls(a)
	// centered so the page keeps one raster pixel per canvas unit
	scroll := container.NewScroll(container.NewCenter(a.page))
	scroll.Direction = container.ScrollBoth

	side := container.NewVScroll(a.controls.panel)
	side.SetMinSize(fyne.NewSize(320, 0))

	w.SetContent(container.NewBorder(nil, a.controls.status, nil, side, scroll))
	w.Canvas().SetOnTypedKey(a.typedKey)
	a.controls.update()
	return a
}

// Open loads the first page of a PDF and restores its sidecar takeoff
func (a *App) Open(path string) {
	src := a.cfg.Poppler(path)
	info, err := src.Info(context.Background())
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to open drawing: %w", err), a.window)
		return
	}

	a.path, a.source, a.raster = path, src, nil
	if err := a.eng.LoadDocument(info, 0); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.restore()
	a.watch(path)
	a.window.SetTitle("Takeoff - " + filepath.Base(path))
}

func (a *App) restore() {
	f, err := project.Load(a.cfg.ProjectPath(a.path))
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err == nil {
		var state engine.RestoreState
		if state, err = f.RestoreState(); err == nil {
			err = a.eng.Restore(state)
		}
	}
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to restore takeoff: %w", err), a.window)
	}
}

// Save writes the takeoff next to the drawing
func (a *App) Save() {
	if a.source == nil {
		a.report(engine.ErrNoDocument)
		return
	}
	path := a.cfg.ProjectPath(a.path)
	if err := project.Save(path, project.FromSnapshot(a.eng.Snapshot())); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.controls.status.SetText("Saved " + filepath.Base(path))
}

func (a *App) watch(path string) {
	a.Close()

	fw, err := watcher.New(0, a.log.WithField("component", "watcher"))
	if err != nil {
		a.log.WithError(err).Warn("document changes will not be picked up")
		return
	}
	if err := fw.Watch(path, func(string) {
		fyne.Do(a.renderPage)
	}); err != nil {
		a.log.WithError(err).Warn("document changes will not be picked up")
		fw.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.watcher, a.stopWatcher = fw, cancel
	go fw.Run(ctx)
}

// Close stops watching the current drawing
func (a *App) Close() {
	if a.watcher == nil {
		return
	}
	a.stopWatcher()
	_ = a.watcher.Close()
	a.watcher, a.stopWatcher = nil, nil
}

func (a *App) onChange(c engine.Change) {
	switch c.Kind {
	case engine.ChangeDocument, engine.ChangeView:
		a.renderPage()
	default:
		a.compose()
	}
	a.controls.update()
}

// renderPage rasterizes the page off the event goroutine. Only the newest
// render is kept.
func (a *App) renderPage() {
	if a.source == nil {
		return
	}
	a.renderGen++
	gen := a.renderGen
	snap := a.eng.Snapshot()
	src := a.source

	go func() {
		raster, err := src.RenderPage(context.Background(), snap.Page, snap.View.Zoom, snap.View.Rotation)
		fyne.Do(func() {
			if gen != a.renderGen {
				return
			}
			if err != nil {
				a.log.WithError(err).Error("render failed")
				a.controls.status.SetText(err.Error())
				return
			}
			a.raster = raster
			a.compose()
		})
	}()
}

func (a *App) compose() {
	if a.raster == nil {
		return
	}
	a.composed = overlay.Compose(a.raster, a.eng.Snapshot(), overlay.DefaultStyle)
	a.page.SetImage(a.composed)
}

func (a *App) toDocument(p geometry.Point) geometry.Point {
	return a.eng.View().ToDocument(p)
}

func (a *App) pointerDown(p geometry.Point, close bool) {
	a.outcome(a.eng.PointerDown(a.toDocument(p), engine.Modifiers{Close: close}))
}

func (a *App) pointerUp(p geometry.Point, close bool) {
	a.outcome(a.eng.PointerUp(a.toDocument(p), engine.Modifiers{Close: close}))
}

func (a *App) pointerMove(p geometry.Point) {
	if a.source == nil {
		return
	}
	a.report(a.eng.PointerMove(a.toDocument(p)))
	a.updateLoupe(p)
}

// picking reports whether clicks currently place points
func (a *App) picking() bool {
	snap := a.eng.Snapshot()
	if snap.Phase == calibration.PhaseCollecting {
		return true
	}
	return snap.Session.Mode == session.ModeDistance || snap.Session.Mode == session.ModeArea
}

// updateLoupe magnifies the composed page around the cursor at screen point p
func (a *App) updateLoupe(p geometry.Point) {
	if a.composed == nil || !a.picking() {
		a.page.HideLoupe()
		return
	}
	loupe := overlay.DefaultLoupe
	cursor := image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	img := overlay.Magnify(a.composed, cursor, loupe.Size, loupe.FactorAt(a.eng.View().Zoom()))
	pos := loupe.Position(cursor, a.composed.Bounds())
	a.page.ShowLoupe(img, fyne.NewPos(float32(pos.X), float32(pos.Y)))
}

func (a *App) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape:
		a.eng.Cancel()
	case fyne.KeyReturn, fyne.KeyEnter:
		a.outcome(a.eng.CloseShape())
	}
}

// calibrate starts a calibration from the preset and distance controls
func (a *App) calibrate(opts calibration.Options) {
	if err := a.eng.BeginCalibration(opts); err != nil {
		a.report(err)
		return
	}
	a.controls.status.SetText("Click the two ends of a known distance")
}

func (a *App) outcome(out engine.Outcome, err error) {
	if err != nil {
		a.report(err)
		return
	}
	switch {
	case out.AwaitingDistance:
		a.promptDistance()
	case out.Calibration != nil:
		a.controls.status.SetText(fmt.Sprintf("Calibrated: %.4f px per %s", out.Calibration.Ratio, a.eng.Units().Length))
	case out.Measurement != nil:
		a.controls.status.SetText(out.Measurement.String())
	}
}

// report shows recoverable errors in the status bar and invalid
// calibrations as a dialog
func (a *App) report(err error) {
	if err == nil {
		return
	}
	var calErr *calibration.InvalidCalibrationError
	if errors.As(err, &calErr) {
		dialog.ShowError(err, a.window)
		return
	}
	var ptsErr *measurement.InsufficientPointsError
	if errors.As(err, &ptsErr) {
		a.controls.status.SetText(fmt.Sprintf("An area needs at least %d points", ptsErr.Need))
		return
	}
	a.controls.status.SetText(err.Error())
}

func (a *App) promptDistance() {
	if a.prompting {
		return
	}
	a.prompting = true

	entry := widget.NewEntry()
	entry.SetPlaceHolder("e.g. 12.5")
	entry.Validator = func(s string) error {
		_, err := parseDistance(s, a.cfg.PromptMax)
		return err
	}
	items := []*widget.FormItem{
		widget.NewFormItem(fmt.Sprintf("Distance (%s)", a.eng.Units().Length), entry),
	}
	dialog.ShowForm("Calibration", "OK", "Cancel", items, func(confirmed bool) {
		a.prompting = false
		v, _ := parseDistance(entry.Text, a.cfg.PromptMax)
		a.outcome(a.eng.SubmitDistance(v, confirmed))
	}, a.window)
}
