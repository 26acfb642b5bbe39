// Package document rasterizes drawing pages for measurement. The engine never
// renders pages itself; hosts pick a Rasterizer and feed the result to the
// overlay compositor.
package document

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
)

var (
	// ErrRasterizerUnavailable is returned when the external renderer is not installed
	ErrRasterizerUnavailable = errors.New("rasterizer not available")
	// ErrPageOutOfRange is returned for page indexes outside the document
	ErrPageOutOfRange = errors.New("page out of range")
)

// PageSize is a page size in PDF points, which equal pixels at zoom 1
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Info describes a loaded document
type Info struct {
	Path  string     `json:"path"`
	Title string     `json:"title,omitempty"`
	Pages []PageSize `json:"pages"`
}

// Page returns the size of page i
func (i Info) Page(page int) (PageSize, error) {
	if page < 0 || page >= len(i.Pages) {
		return PageSize{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, len(i.Pages))
	}
	return i.Pages[page], nil
}

// Rasterizer renders one page at a zoom factor and clockwise rotation
type Rasterizer interface {
	RenderPage(ctx context.Context, page int, zoom float64, rotation int) (*Raster, error)
}

// Source is a Rasterizer that can also describe its document
type Source interface {
	Rasterizer
	Info(ctx context.Context) (Info, error)
}

// Raster is an 8-bit RGBA pixel buffer
type Raster struct {
	Width    int
	Height   int
	Stride   int
	HasAlpha bool
	Pix      []byte
}

// FromImage converts img into a Raster
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Raster{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Stride:   rgba.Stride,
		HasAlpha: !rgba.Opaque(),
		Pix:      rgba.Pix,
	}
}

// Image returns an image sharing the raster's pixels
func (r *Raster) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    r.Pix,
		Stride: r.Stride,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}
