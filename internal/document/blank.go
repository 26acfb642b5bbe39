package document

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Blank renders plain white pages. It stands in for a real document in
// scripts, tests and headless servers.
type Blank struct {
	info Info
}

// NewBlank returns a blank document with the given page sizes
func NewBlank(pages ...PageSize) *Blank {
	return &Blank{info: Info{Path: "blank", Pages: pages}}
}

func (b *Blank) Info(context.Context) (Info, error) {
	return b.info, nil
}

func (b *Blank) RenderPage(_ context.Context, page int, zoom float64, rotation int) (*Raster, error) {
	size, err := b.info.Page(page)
	if err != nil {
		return nil, err
	}
	if !(zoom > 0) {
		return nil, fmt.Errorf("invalid zoom %g", zoom)
	}

	w := int(math.Round(size.Width * zoom))
	h := int(math.Round(size.Height * zoom))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	return FromImage(Rotate(img, rotation)), nil
}
