package document

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const pdfinfoOutput = `Title:          Ground Floor Plan
Producer:       plotter 2.1
Tagged:         no
Pages:          3
Encrypted:      no
Page    1 size: 612 x 792 pts (letter)
Page    1 rot:  0
Page    2 size: 1224 x 792 pts
Page    2 rot:  90
Page    3 size: 2592 x 1728 pts
Page    3 rot:  0
File size:      482113 bytes
PDF version:    1.6
`

func TestParsePDFInfo(t *testing.T) {
	info, err := ParsePDFInfo(pdfinfoOutput)
	if err != nil {
		t.Fatalf("ParsePDFInfo failed: %v", err)
	}

	want := Info{
		Title: "Ground Floor Plan",
		Pages: []PageSize{
			{Width: 612, Height: 792},
			{Width: 792, Height: 1224},
			{Width: 2592, Height: 1728},
		},
	}
	if d := cmp.Diff(want, info); d != "" {
		t.Errorf("unexpected info (-want +got):\n%s", d)
	}
}

func TestParsePDFInfoCommonSize(t *testing.T) {
	info, err := ParsePDFInfo("Pages:          2\nPage size:      842 x 595 pts (A4)\n")
	if err != nil {
		t.Fatalf("ParsePDFInfo failed: %v", err)
	}
	if len(info.Pages) != 2 || info.Pages[1] != (PageSize{Width: 842, Height: 595}) {
		t.Errorf("unexpected pages %+v", info.Pages)
	}
}

func TestParsePDFInfoErrors(t *testing.T) {
	inputs := []string{
		"Title: no pages here\n",
		"Pages: many\n",
		"Pages: 2\nPage    1 size: 612 x 792 pts\n",
	}
	for _, in := range inputs {
		if _, err := ParsePDFInfo(in); err == nil {
			t.Errorf("expected an error for %q", in)
		}
	}
}

func TestInfoPage(t *testing.T) {
	info := Info{Pages: []PageSize{{Width: 10, Height: 20}}}
	if _, err := info.Page(1); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
	if p, err := info.Page(0); err != nil || p.Height != 20 {
		t.Errorf("unexpected page %+v, %v", p, err)
	}
}

func TestRotate(t *testing.T) {
	// 3x2 image with a red pixel at (0, 0)
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	red := color.RGBA{R: 255, A: 255}
	src.Set(0, 0, red)

	tests := []struct {
		rotation int
		w, h     int
		x, y     int
	}{
		{0, 3, 2, 0, 0},
		{90, 2, 3, 1, 0},
		{180, 3, 2, 2, 1},
		{270, 2, 3, 0, 2},
	}

	for _, tt := range tests {
		img := Rotate(src, tt.rotation)
		b := img.Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("rotation %d: expected %dx%d, got %dx%d", tt.rotation, tt.w, tt.h, b.Dx(), b.Dy())
			continue
		}
		r, _, _, _ := img.At(tt.x, tt.y).RGBA()
		if r>>8 != 255 {
			t.Errorf("rotation %d: expected red pixel at (%d, %d)", tt.rotation, tt.x, tt.y)
		}
	}
}

func TestBlankRenderPage(t *testing.T) {
	b := NewBlank(PageSize{Width: 100, Height: 50})

	r, err := b.RenderPage(context.Background(), 0, 2, 90)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if r.Width != 100 || r.Height != 200 || r.Stride != 400 || r.HasAlpha {
		t.Errorf("unexpected raster %dx%d stride %d alpha %v", r.Width, r.Height, r.Stride, r.HasAlpha)
	}
	if c := r.Image().RGBAAt(10, 10); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected a white page, got %v", c)
	}

	if _, err := b.RenderPage(context.Background(), 1, 1, 0); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 7))
	r := FromImage(src)
	if r.Width != 4 || r.Height != 2 || len(r.Pix) != 4*2*4 {
		t.Errorf("unexpected raster %+v", r)
	}
}

func TestPopplerUnavailable(t *testing.T) {
	p := NewPoppler("plan.pdf", "pdftoppm-does-not-exist", "pdfinfo-does-not-exist")

	if _, err := p.Info(context.Background()); !errors.Is(err, ErrRasterizerUnavailable) {
		t.Errorf("expected ErrRasterizerUnavailable, got %v", err)
	}
	if _, err := p.RenderPage(context.Background(), 0, 1, 0); !errors.Is(err, ErrRasterizerUnavailable) {
		t.Errorf("expected ErrRasterizerUnavailable, got %v", err)
	}
}
