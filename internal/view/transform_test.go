package view

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
)

func TestZoomClamps(t *testing.T) {
	tr := New(DefaultLimits)
	tr.Reset(100, 50)

	factor, err := tr.SetZoom(10)
	if err != nil {
		t.Fatalf("SetZoom failed: %v", err)
	}
	if tr.Zoom() != 5 || factor != 5 {
		t.Errorf("expected zoom clamped to 5 with factor 5, got %v / %v", tr.Zoom(), factor)
	}
	if factor := tr.ZoomIn(); factor != 1 {
		t.Errorf("zooming in at the limit must be a no-op, got factor %v", factor)
	}

	tr.SetZoom(0.01)
	if tr.Zoom() != 0.2 {
		t.Errorf("expected zoom clamped to 0.2, got %v", tr.Zoom())
	}
	if _, err := tr.SetZoom(-1); err == nil {
		t.Errorf("expected an error for a negative zoom")
	}
}

func TestZoomSteps(t *testing.T) {
	tr := New(DefaultLimits)
	tr.Reset(100, 100)

	if factor := tr.ZoomIn(); math.Abs(factor-1.2) > 1e-12 {
		t.Errorf("expected factor 1.2, got %v", factor)
	}
	tr.ZoomOut()
	if math.Abs(tr.Zoom()-1) > 1e-12 {
		t.Errorf("expected zoom back at 1, got %v", tr.Zoom())
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {90, 90}, {-90, 270}, {180, 180}, {270, 270}, {360, 0}, {-270, 90},
	}
	for _, tt := range tests {
		got, err := NormalizeRotation(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("NormalizeRotation(%d) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
	if _, err := NormalizeRotation(45); !errors.Is(err, ErrInvalidRotation) {
		t.Errorf("expected ErrInvalidRotation, got %v", err)
	}
}

func TestToScreen(t *testing.T) {
	p := geometry.NewPoint(10, 20)
	tests := []struct {
		rotation int
		want     geometry.Point
		w, h     float64
	}{
		{0, geometry.NewPoint(10, 20), 200, 100},
		{90, geometry.NewPoint(80, 10), 100, 200},
		{180, geometry.NewPoint(190, 80), 200, 100},
		{-90, geometry.NewPoint(20, 190), 100, 200},
	}

	for _, tt := range tests {
		tr := New(DefaultLimits)
		tr.Reset(200, 100)
		if err := tr.SetRotation(tt.rotation); err != nil {
			t.Fatalf("SetRotation(%d) failed: %v", tt.rotation, err)
		}

		got := tr.ToScreen(p)
		if d := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
			t.Errorf("rotation %d (-want +got):\n%s", tt.rotation, d)
		}
		if w, h := tr.ScreenSize(); w != tt.w || h != tt.h {
			t.Errorf("rotation %d: expected screen size %vx%v, got %vx%v", tt.rotation, tt.w, tt.h, w, h)
		}

		back := tr.ToDocument(got)
		if d := cmp.Diff(p, back, cmpopts.EquateApprox(0, 1e-9)); d != "" {
			t.Errorf("rotation %d round trip (-want +got):\n%s", tt.rotation, d)
		}
	}
}

func TestDocumentSizeFollowsZoom(t *testing.T) {
	tr := New(DefaultLimits)
	tr.Reset(200, 100)
	tr.SetZoom(2)
	tr.SetRotation(90)

	if w, h := tr.DocumentSize(); w != 400 || h != 200 {
		t.Errorf("expected 400x200, got %vx%v", w, h)
	}
	got := tr.ToScreen(geometry.NewPoint(0, 0))
	if got != geometry.NewPoint(200, 0) {
		t.Errorf("expected the origin to land at (200, 0), got %v", got)
	}
}

func TestToDocumentInvertsEveryRotation(t *testing.T) {
	points := []geometry.Point{
		geometry.NewPoint(0, 0),
		geometry.NewPoint(37.5, 12),
		geometry.NewPoint(400, 200),
	}
	for _, rotation := range []int{0, 90, 180, 270} {
		tr := New(DefaultLimits)
		tr.Reset(200, 100)
		tr.SetZoom(2)
		if err := tr.SetRotation(rotation); err != nil {
			t.Fatalf("SetRotation(%d) failed: %v", rotation, err)
		}

		for _, p := range points {
			back := tr.ToDocument(tr.ToScreen(p))
			if d := cmp.Diff(p, back, cmpopts.EquateApprox(0, 1e-9)); d != "" {
				t.Errorf("rotation %d, point %v (-want +got):\n%s", rotation, p, d)
			}
		}
	}
}

func TestApplyTranslation(t *testing.T) {
	got := Apply(Mapping(180, 200, 100), geometry.NewPoint(0, 0))
	if got != geometry.NewPoint(200, 100) {
		t.Errorf("expected the origin to land at (200, 100), got %v", got)
	}
}
