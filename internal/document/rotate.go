package document

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Rotate turns img clockwise by a multiple of 90 degrees. The pixel mapping
// matches view.Transform, so (x, y) on the unrotated page lands at (h-y, x)
// for a quarter turn.
func Rotate(img image.Image, rotation int) image.Image {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	var (
		m      f64.Aff3
		bounds image.Rectangle
	)
	switch rotation {
	case 90:
		m = f64.Aff3{0, -1, h, 1, 0, 0}
		bounds = image.Rect(0, 0, b.Dy(), b.Dx())
	case 180:
		m = f64.Aff3{-1, 0, w, 0, -1, h}
		bounds = image.Rect(0, 0, b.Dx(), b.Dy())
	case 270:
		m = f64.Aff3{0, 1, 0, -1, 0, w}
		bounds = image.Rect(0, 0, b.Dy(), b.Dx())
	default:
		return img
	}

	// translate the source to the origin first
	m[2] -= m[0]*float64(b.Min.X) + m[1]*float64(b.Min.Y)
	m[5] -= m[3]*float64(b.Min.X) + m[4]*float64(b.Min.Y)

	dst := image.NewRGBA(bounds)
	xdraw.NearestNeighbor.Transform(dst, m, img, b, xdraw.Src, nil)
	return dst
}
