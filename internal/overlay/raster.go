package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"golang.org/x/image/vector"
)

// blend composites col over the pixel at (x, y)
func blend(img *image.RGBA, x, y int, col color.NRGBA) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return
	}
	if col.A == 255 {
		img.SetRGBA(x, y, color.RGBA{R: col.R, G: col.G, B: col.B, A: 255})
		return
	}
	i := img.PixOffset(x, y)
	a := uint32(col.A)
	for c, v := range [3]uint8{col.R, col.G, col.B} {
		img.Pix[i+c] = uint8((uint32(v)*a + uint32(img.Pix[i+c])*(255-a)) / 255)
	}
	img.Pix[i+3] = uint8(a + uint32(img.Pix[i+3])*(255-a)/255)
}

// clipSegment clips the segment p0 to p1 against r grown by pad pixels on
// each side (Liang-Barsky). It returns the parameter range that remains
// visible, or ok false when nothing does.
func clipSegment(p0, p1 geometry.Point, r image.Rectangle, pad float64) (t0, t1 float64, ok bool) {
	d := p1.Sub(p0)
	minX, minY := float64(r.Min.X)-pad, float64(r.Min.Y)-pad
	maxX, maxY := float64(r.Max.X)+pad, float64(r.Max.Y)+pad
	t0, t1 = 0, 1
	edges := [4][2]float64{
		{-d.X, p0.X - minX},
		{d.X, maxX - p0.X},
		{-d.Y, p0.Y - minY},
		{d.Y, maxY - p0.Y},
	}
	for _, e := range edges {
		q, dist := e[0], e[1]
		if q == 0 {
			if dist < 0 {
				return 0, 0, false
			}
			continue
		}
		t := dist / q
		if q < 0 {
			if t > t1 {
				return 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return t0, t1, true
}

func lerp(p0, p1 geometry.Point, t float64) geometry.Point {
	return p0.Add(p1.Sub(p0).Mul(t))
}

// drawLine draws a line using Bresenham's algorithm. Thicker lines repeat the
// line with a perpendicular offset.
func drawLine(img *image.RGBA, p0, p1 geometry.Point, width int, col color.NRGBA) {
	t0, t1, ok := clipSegment(p0, p1, img.Bounds(), float64(width))
	if !ok {
		return
	}
	p0, p1 = lerp(p0, p1, t0), lerp(p0, p1, t1)

	if width <= 1 {
		bresenham(img, int(math.Round(p0.X)), int(math.Round(p0.Y)), int(math.Round(p1.X)), int(math.Round(p1.Y)), col)
		return
	}

	d := p1.Sub(p0)
	length := d.Length()
	if length == 0 {
		fillSquare(img, p0, width, col)
		return
	}
	normal := geometry.NewPoint(-d.Y/length, d.X/length)
	for i := 0; i < width; i++ {
		offset := normal.Mul(float64(i) - float64(width-1)/2)
		a, b := p0.Add(offset), p1.Add(offset)
		bresenham(img, int(math.Round(a.X)), int(math.Round(a.Y)), int(math.Round(b.X)), int(math.Round(b.Y)), col)
	}
}

// drawDashed draws a dashed line with dash and gap lengths of dash pixels.
// Dashes keep their phase relative to p0 when the line is clipped.
func drawDashed(img *image.RGBA, p0, p1 geometry.Point, dash float64, col color.NRGBA) {
	d := p1.Sub(p0)
	length := d.Length()
	if length == 0 || dash <= 0 {
		return
	}
	t0, t1, ok := clipSegment(p0, p1, img.Bounds(), 1)
	if !ok {
		return
	}
	step := d.Mul(1 / length)
	period := 2 * dash
	stop := t1 * length
	for s := math.Floor(t0*length/period) * period; s < stop; s += period {
		end := math.Min(s+dash, length)
		drawLine(img, p0.Add(step.Mul(s)), p0.Add(step.Mul(end)), 1, col)
	}
}

func bresenham(img *image.RGBA, x1, y1, x2, y2 int, col color.NRGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		blend(img, x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillPolygon fills a closed polygon with the non-zero winding rule
func fillPolygon(img *image.RGBA, points []geometry.Point, col color.NRGBA) {
	if len(points) < 3 {
		return
	}
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	r.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(img, b, image.NewUniform(col), image.Point{})
}

// fillSquare fills a size x size square centered on p
func fillSquare(img *image.RGBA, p geometry.Point, size int, col color.NRGBA) {
	x0 := int(math.Round(p.X)) - size/2
	y0 := int(math.Round(p.Y)) - size/2
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			blend(img, x, y, col)
		}
	}
}

// strokeRect draws the outline of r
func strokeRect(img *image.RGBA, r image.Rectangle, col color.NRGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		blend(img, x, r.Min.Y, col)
		blend(img, x, r.Max.Y-1, col)
	}
	for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
		blend(img, r.Min.X, y, col)
		blend(img, r.Max.X-1, y, col)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
