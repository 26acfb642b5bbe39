// Package overlay paints an engine snapshot onto a rendered page. Geometry is
// mapped from document space to screen space with the snapshot's rotation.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/philipparndt/gotakeoff/internal/view"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Style controls line widths and fill opacity
type Style struct {
	LineWidth   int
	MarkerSize  int
	AreaAlpha   uint8
	Labels      bool
	Face        font.Face
	LabelMargin int
	// SessionColor is used for shapes being drawn
	SessionColor color.NRGBA
}

// DefaultStyle draws 2px lines, 6px markers and labels in basicfont
var DefaultStyle = Style{
	LineWidth:    2,
	MarkerSize:   6,
	AreaAlpha:    60,
	Labels:       true,
	Face:         basicfont.Face7x13,
	LabelMargin:  3,
	SessionColor: color.NRGBA{R: 255, G: 140, B: 0, A: 255},
}

// Compose copies raster and paints the overlay of snap on top
func Compose(raster *document.Raster, snap engine.Snapshot, style Style) *image.RGBA {
	src := raster.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	Paint(dst, snap, style)
	return dst
}

// Paint draws visible layers, pending calibration points and the shape being
// drawn onto img, which must be in screen space
func Paint(img *image.RGBA, snap engine.Snapshot, style Style) {
	m := view.Mapping(snap.View.Rotation, snap.View.Width, snap.View.Height)
	toScreen := func(points []geometry.Point) []geometry.Point {
		out := make([]geometry.Point, len(points))
		for i, p := range points {
			out[i] = view.Apply(m, p)
		}
		return out
	}

	var labels []Label
	for _, layer := range snap.Layers {
		if !layer.Visible {
			continue
		}
		for _, ms := range layer.Measurements {
			points := toScreen(ms.Points)
			switch ms.Kind {
			case measurement.KindArea:
				fill := layer.Color
				fill.A = style.AreaAlpha
				fillPolygon(img, points, fill)
				polyline(img, points, true, style.LineWidth, layer.Color)
				labels = append(labels, Label{Text: ms.Label(), Pos: geometry.Centroid(points), Color: layer.Color})
			case measurement.KindDistance, measurement.KindCalibration:
				if len(points) < 2 {
					continue
				}
				polyline(img, points, false, style.LineWidth, layer.Color)
				for _, p := range points {
					fillSquare(img, p, style.MarkerSize, layer.Color)
				}
				labels = append(labels, Label{Text: ms.Label(), Pos: geometry.Midpoint(points[0], points[1]), Color: layer.Color})
			}
		}
	}

	for _, p := range toScreen(snap.Calibration) {
		fillSquare(img, p, style.MarkerSize, measurement.ColorCalibration)
	}
	if len(snap.Calibration) == 2 {
		pts := toScreen(snap.Calibration)
		drawDashed(img, pts[0], pts[1], 6, measurement.ColorCalibration)
	}

	paintSession(img, snap.Session, toScreen, style)

	if style.Labels {
		for i := range labels {
			labels[i].Pos.Y += float64(style.LabelMargin)
			labels[i].Draw(img, style.Face, style.LabelMargin)
		}
	}
}

func paintSession(img *image.RGBA, st session.State, toScreen func([]geometry.Point) []geometry.Point, style Style) {
	points := toScreen(st.Points)
	if len(points) == 0 {
		return
	}
	col := style.SessionColor
	if st.Mode == session.ModeCalibrating {
		col = measurement.ColorCalibration
	}

	polyline(img, points, false, style.LineWidth, col)
	for _, p := range points {
		fillSquare(img, p, style.MarkerSize, col)
	}

	if st.Provisional != nil {
		cursor := toScreen([]geometry.Point{*st.Provisional})[0]
		drawDashed(img, points[len(points)-1], cursor, 4, col)
		// closing edge of the area being drawn
		if st.Mode == session.ModeArea && len(points) >= 2 {
			drawDashed(img, cursor, points[0], 4, col)
		}
	}
}

func polyline(img *image.RGBA, points []geometry.Point, closed bool, width int, col color.NRGBA) {
	for i := 1; i < len(points); i++ {
		drawLine(img, points[i-1], points[i], width, col)
	}
	if closed && len(points) > 2 {
		drawLine(img, points[len(points)-1], points[0], width, col)
	}
}
