package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var labelBackground = color.NRGBA{R: 20, G: 20, B: 20, A: 220}

// Label is the value tag drawn next to a measurement
type Label struct {
	Text  string
	Pos   geometry.Point
	Color color.NRGBA
}

// Draw renders the label centered horizontally on Pos and returns its
// bounding rectangle
func (l *Label) Draw(img *image.RGBA, face font.Face, padding int) image.Rectangle {
	if face == nil {
		face = basicfont.Face7x13
	}

	_, advance := font.BoundString(face, l.Text)
	width := advance.Ceil()
	metrics := face.Metrics()
	height := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	x := int(l.Pos.X) - width/2
	y := int(l.Pos.Y)
	rect := image.Rect(x-padding, y-padding, x+width+padding, y+height+padding)
	if !rect.Overlaps(img.Bounds()) {
		return rect
	}

	draw.Draw(img, rect, image.NewUniform(labelBackground), image.Point{}, draw.Over)
	strokeRect(img, rect, l.Color)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(l.Color),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + ascent)},
	}
	d.DrawString(l.Text)

	return rect
}
