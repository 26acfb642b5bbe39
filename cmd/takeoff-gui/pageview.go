package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
)

// PageView shows the composed page one raster pixel per canvas unit and
// reports pointer events in screen pixels
type PageView struct {
	widget.BaseWidget
	image *canvas.Image
	loupe *canvas.Image

	onDown   func(p geometry.Point, close bool)
	onUp     func(p geometry.Point, close bool)
	onMove   func(p geometry.Point)
	onOut    func()
	onScroll func(zoomIn bool)
}

// NewPageView creates an empty page view
func NewPageView() *PageView {
	v := &PageView{image: canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))}
	v.image.FillMode = canvas.ImageFillStretch
	v.image.ScaleMode = canvas.ImageScalePixels
	v.loupe = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	v.loupe.ScaleMode = canvas.ImageScalePixels
	v.loupe.Hide()
	v.ExtendBaseWidget(v)
	return v
}

// SetImage replaces the displayed page
func (v *PageView) SetImage(img *image.RGBA) {
	b := img.Bounds()
	v.image.Image = img
	size := fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
	v.image.SetMinSize(size)
	v.image.Resize(size)
	v.image.Refresh()
	v.Refresh()
}

func (v *PageView) CreateRenderer() fyne.WidgetRenderer {
	// the loupe floats over the page at the position set by ShowLoupe
	return widget.NewSimpleRenderer(container.NewWithoutLayout(v.image, v.loupe))
}

// ShowLoupe shows img with its top left corner at pos
func (v *PageView) ShowLoupe(img *image.RGBA, pos fyne.Position) {
	b := img.Bounds()
	v.loupe.Image = img
	v.loupe.Resize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	v.loupe.Move(pos)
	v.loupe.Show()
	v.loupe.Refresh()
}

// HideLoupe hides the magnifier
func (v *PageView) HideLoupe() {
	v.loupe.Hide()
}

func (v *PageView) MinSize() fyne.Size {
	return v.image.MinSize()
}

func (v *PageView) inside(pos fyne.Position) bool {
	size := v.image.MinSize()
	return pos.X >= 0 && pos.Y >= 0 && pos.X <= size.Width && pos.Y <= size.Height
}

func toPoint(pos fyne.Position) geometry.Point {
	return geometry.NewPoint(float64(pos.X), float64(pos.Y))
}

func closeModifier(ev *desktop.MouseEvent) bool {
	return ev.Modifier&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0
}

// MouseDown implements desktop.Mouseable
func (v *PageView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !v.inside(ev.Position) || v.onDown == nil {
		return
	}
	v.onDown(toPoint(ev.Position), closeModifier(ev))
}

// MouseUp implements desktop.Mouseable
func (v *PageView) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !v.inside(ev.Position) || v.onUp == nil {
		return
	}
	v.onUp(toPoint(ev.Position), closeModifier(ev))
}

// MouseIn implements desktop.Hoverable
func (v *PageView) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable
func (v *PageView) MouseMoved(ev *desktop.MouseEvent) {
	if v.inside(ev.Position) && v.onMove != nil {
		v.onMove(toPoint(ev.Position))
	}
}

// MouseOut implements desktop.Hoverable
func (v *PageView) MouseOut() {
	if v.onOut != nil {
		v.onOut()
	}
}

// Scrolled zooms with the wheel
func (v *PageView) Scrolled(ev *fyne.ScrollEvent) {
	if v.onScroll == nil || ev.Scrolled.DY == 0 {
		return
	}
	v.onScroll(ev.Scrolled.DY > 0)
}

var (
	_ desktop.Mouseable = (*PageView)(nil)
	_ desktop.Hoverable = (*PageView)(nil)
	_ fyne.Scrollable   = (*PageView)(nil)
)
