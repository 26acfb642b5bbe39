package main

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/philipparndt/gotakeoff/pkg/scale"
)

var (
	modeOptions        = []string{"None", "Calibrate", "Distance", "Area", "Count"}
	orientationOptions = []string{"0°", "90°", "180°", "270°"}
)

type controls struct {
	app *App
	// updating suppresses widget callbacks while widgets follow the engine
	updating bool

	panel       *fyne.Container
	status      *widget.Label
	ratio       *widget.Label
	zoom        *widget.Label
	mode        *widget.Select
	preset      *widget.Select
	distance    *widget.Entry
	description *widget.Entry
	orientation *widget.RadioGroup
	layers      map[string]*widget.Check
	list        *widget.List
	totals      *widget.Label
	items       []measurement.Measurement
}

func newControls(a *App) *controls {
	c := &controls{app: a, layers: make(map[string]*widget.Check)}

	c.status = widget.NewLabel("Open a drawing to start")
	c.ratio = widget.NewLabel("")
	c.zoom = widget.NewLabel("")
	c.totals = widget.NewLabel("")

	c.mode = widget.NewSelect(modeOptions, func(s string) {
		if c.updating {
			return
		}
		m, err := session.ParseMode(s)
		if err == nil {
			err = a.eng.SelectMode(m)
		}
		a.report(err)
	})

	c.preset = widget.NewSelect(scale.Presets, nil)
	c.preset.SetSelected(scale.Custom)
	c.distance = widget.NewEntry()
	c.distance.SetPlaceHolder("Known distance")
	calibrate := widget.NewButton("Calibrate", func() {
		opts, err := c.calibrationOptions()
		if err != nil {
			a.report(err)
			return
		}
		a.calibrate(opts)
	})

	c.description = widget.NewEntry()
	c.description.SetPlaceHolder("Description of the next measurement")
	c.description.OnChanged = func(s string) {
		if !c.updating {
			a.eng.SetDescription(s)
		}
	}

	zoomIn := widget.NewButton("Zoom In", func() { a.report(a.eng.ZoomIn()) })
	zoomOut := widget.NewButton("Zoom Out", func() { a.report(a.eng.ZoomOut()) })

	c.orientation = widget.NewRadioGroup(orientationOptions, func(s string) {
		if c.updating || s == "" {
			return
		}
		deg, _ := strconv.Atoi(strings.TrimSuffix(s, "°"))
		a.report(a.eng.SetRotation(deg))
	})
	c.orientation.Horizontal = true

	layerBox := container.NewVBox()
	for _, name := range measurement.LayerNames {
		check := widget.NewCheck(name, func(visible bool) {
			if !c.updating {
				a.report(a.eng.SetLayerVisible(name, visible))
			}
		})
		c.layers[name] = check
		layerBox.Add(check)
	}

	c.list = widget.NewList(
		func() int { return len(c.items) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(c.items[id].String())
		},
	)
	listScroll := container.NewVScroll(c.list)
	listScroll.SetMinSize(fyne.NewSize(0, 240))

	open := widget.NewButton("Open Drawing", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if reader == nil {
				return
			}
			defer reader.Close()
			a.Open(reader.URI().Path())
		}, a.window)
	})
	save := widget.NewButton("Save Takeoff", a.Save)

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Click to place points\n" +
			"• Ctrl-click or Enter closes an area\n" +
			"• Escape cancels the current shape\n" +
			"• Scroll to zoom in/out",
	)
	instructions.Wrapping = fyne.TextWrapWord

	c.panel = container.NewVBox(
		widget.NewLabelWithStyle("Mode", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		c.mode,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Calibration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		c.preset,
		c.distance,
		calibrate,
		c.ratio,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Description", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		c.description,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("View", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, zoomOut, zoomIn),
		c.zoom,
		c.orientation,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Layers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layerBox,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Measurements", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		listScroll,
		c.totals,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		container.NewGridWithColumns(2, open, save),
	)
	return c
}

// calibrationOptions prefers the selected scale preset over the typed
// distance. Neither selects the interactive prompt.
func (c *controls) calibrationOptions() (calibration.Options, error) {
	if scale.IsNotation(c.preset.Selected) {
		return calibration.Options{Notation: c.preset.Selected}, nil
	}
	text := strings.TrimSpace(c.distance.Text)
	if text == "" {
		return calibration.Options{}, nil
	}
	v, err := parseDistance(text, 0)
	if err != nil {
		return calibration.Options{}, err
	}
	return calibration.Options{KnownDistance: v}, nil
}

// update makes the widgets follow the engine state
func (c *controls) update() {
	c.updating = true
	defer func() { c.updating = false }()

	e := c.app.eng
	snap := e.Snapshot()

	c.mode.SetSelected(modeLabel(snap.Session.Mode, snap.Phase))
	c.ratio.SetText(fmt.Sprintf("%.4f px per %s (%s)", snap.Ratio, e.Units().Length, snap.Method))
	c.zoom.SetText(fmt.Sprintf("Zoom: %.0f%%", snap.View.Zoom*100))
	c.orientation.SetSelected(fmt.Sprintf("%d°", snap.View.Rotation))
	if c.description.Text != snap.Description {
		c.description.SetText(snap.Description)
	}

	c.items = c.items[:0]
	for _, l := range snap.Layers {
		if check, ok := c.layers[l.Name]; ok {
			check.SetChecked(l.Visible)
		}
		c.items = append(c.items, l.Measurements...)
	}
	c.list.Refresh()

	sum := measurement.Summarize(snap.Layers)
	units := e.Units()
	c.totals.SetText(fmt.Sprintf("Length: %s\nArea: %s\nItems: %d",
		measurement.FormatValue(sum.TotalLength, units.Length),
		measurement.FormatValue(sum.TotalArea, units.Area),
		sum.ItemCount))
}

func modeLabel(m session.Mode, phase calibration.Phase) string {
	if phase != calibration.PhaseIdle {
		return "Calibrate"
	}
	switch m {
	case session.ModeDistance, session.ModeArea, session.ModeCount:
		return string(m)
	}
	return "None"
}

// parseDistance accepts positive distances up to max. A max of zero means
// no upper bound.
func parseDistance(s string, max float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v <= 0 || (max > 0 && v > max) {
		if max > 0 {
			return 0, fmt.Errorf("distance must be between 0 and %.0f", max)
		}
		return 0, fmt.Errorf("distance must be positive")
	}
	return v, nil
}
