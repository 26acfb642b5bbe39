package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Loupe is the magnifier shown next to the cursor while points are picked
type Loupe struct {
	// Size is the edge length of the loupe in screen pixels
	Size int
	// Factor is the magnification at zoom 1
	Factor float64
	// Offset is the gap between cursor and loupe
	Offset int
}

// DefaultLoupe is a 100px loupe at 2.5x, 20px from the cursor
var DefaultLoupe = Loupe{Size: 100, Factor: 2.5, Offset: 20}

var (
	loupeBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 180}
	loupeCrosshair  = color.NRGBA{A: 180}
)

// FactorAt scales the magnification with the view zoom, within 1.5x and 5x
func (l Loupe) FactorAt(zoom float64) float64 {
	return math.Max(1.5, math.Min(5, l.Factor*zoom))
}

// Position places the loupe above and right of cursor, flipping to the other
// side when it would leave bounds
func (l Loupe) Position(cursor image.Point, bounds image.Rectangle) image.Point {
	x := cursor.X + l.Offset
	y := cursor.Y - l.Size - l.Offset
	if x+l.Size > bounds.Max.X {
		x = cursor.X - l.Size - l.Offset
	}
	if y < bounds.Min.Y {
		y = cursor.Y + l.Offset
	}
	return image.Pt(x, y)
}

// Magnify returns a size x size image of the region of img around center,
// enlarged by factor with a crosshair on center. Parts of the region outside
// img show the translucent background.
func Magnify(img image.Image, center image.Point, size int, factor float64) *image.RGBA {
	if size <= 0 {
		size = DefaultLoupe.Size
	}
	if !(factor > 0) {
		factor = DefaultLoupe.Factor
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(loupeBackground), image.Point{}, draw.Src)

	span := max(1, int(math.Round(float64(size)/factor)))
	origin := center.Sub(image.Pt(span/2, span/2))
	sr := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(span, span))}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, sr, draw.Over, nil)

	mid := size / 2
	for i := 0; i < size; i++ {
		blend(dst, mid, i, loupeCrosshair)
		if i != mid {
			blend(dst, i, mid, loupeCrosshair)
		}
	}
	return dst
}
