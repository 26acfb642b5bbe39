// Package view maps between document pixel space, the unrotated page raster at
// the current zoom, and screen space, the raster as displayed after rotation.
package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// ErrInvalidRotation is returned for angles that are not a multiple of 90 degrees
var ErrInvalidRotation = errors.New("rotation must be a multiple of 90 degrees")

// Limits bounds the zoom factor and sets the step used by ZoomIn and ZoomOut
type Limits struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultLimits are 0.2 to 5.0 in steps of 1.2
var DefaultLimits = Limits{Min: 0.2, Max: 5.0, Step: 1.2}

// Transform holds the current zoom and rotation of a page.
type Transform struct {
	limits   Limits
	zoom     float64
	rotation int
	// page size in pixels at zoom 1
	page vec.Vec2
}

// New returns a transform at zoom 1 without rotation
func New(limits Limits) *Transform {
	if limits.Min <= 0 || limits.Max < limits.Min {
		limits.Min, limits.Max = DefaultLimits.Min, DefaultLimits.Max
	}
	if limits.Step <= 1 {
		limits.Step = DefaultLimits.Step
	}
	return &Transform{limits: limits, zoom: 1}
}

// Reset returns to zoom 1 and rotation 0 for a page of the given size
func (t *Transform) Reset(width, height float64) {
	t.zoom = t.clamp(1)
	t.rotation = 0
	t.page = vec.Vec2{X: width, Y: height}
}

func (t *Transform) Zoom() float64 { return t.zoom }

func (t *Transform) Rotation() int { return t.rotation }

func (t *Transform) Limits() Limits { return t.limits }

// SetZoom clamps z to the limits and returns the factor between the new and
// the previous zoom. A factor of 1 means nothing changed.
func (t *Transform) SetZoom(z float64) (float64, error) {
	if math.IsNaN(z) || z <= 0 {
		return 1, fmt.Errorf("invalid zoom %g", z)
	}
	next := t.clamp(z)
	factor := next / t.zoom
	t.zoom = next
	return factor, nil
}

// ZoomIn multiplies the zoom by the step
func (t *Transform) ZoomIn() float64 {
	factor, _ := t.SetZoom(t.zoom * t.limits.Step)
	return factor
}

// ZoomOut divides the zoom by the step
func (t *Transform) ZoomOut() float64 {
	factor, _ := t.SetZoom(t.zoom / t.limits.Step)
	return factor
}

func (t *Transform) clamp(z float64) float64 {
	return math.Max(t.limits.Min, math.Min(t.limits.Max, z))
}

// NormalizeRotation maps any multiple of 90 degrees to 0, 90, 180 or 270
func NormalizeRotation(deg int) (int, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRotation, deg)
	}
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg, nil
}

// SetRotation sets the clockwise rotation in degrees
func (t *Transform) SetRotation(deg int) error {
	r, err := NormalizeRotation(deg)
	if err != nil {
		return err
	}
	t.rotation = r
	return nil
}

// DocumentSize is the size of the unrotated raster at the current zoom
func (t *Transform) DocumentSize() (float64, float64) {
	return t.page.X * t.zoom, t.page.Y * t.zoom
}

// ScreenSize is the size of the displayed raster
func (t *Transform) ScreenSize() (float64, float64) {
	w, h := t.DocumentSize()
	if t.rotation == 90 || t.rotation == 270 {
		return h, w
	}
	return w, h
}

// Matrix maps document coordinates to screen coordinates
func (t *Transform) Matrix() matrix.Matrix {
	w, h := t.DocumentSize()
	return Mapping(t.rotation, w, h)
}

// Mapping returns the document to screen matrix for a document of the given
// size rotated clockwise by rotation degrees
func Mapping(rotation int, width, height float64) matrix.Matrix {
	switch rotation {
	case 90:
		return matrix.Matrix{0, 1, -1, 0, height, 0}
	case 180:
		return matrix.Matrix{-1, 0, 0, -1, width, height}
	case 270:
		return matrix.Matrix{0, -1, 1, 0, 0, width}
	default:
		return matrix.Identity
	}
}

// Apply maps p through m
func Apply(m matrix.Matrix, p geometry.Point) geometry.Point {
	x, y := m.Apply(p.X, p.Y)
	return geometry.NewPoint(x, y)
}

// ToScreen maps a document point to screen space
func (t *Transform) ToScreen(p geometry.Point) geometry.Point {
	return Apply(t.Matrix(), p)
}

// ToDocument maps a screen point back to document space
func (t *Transform) ToDocument(p geometry.Point) geometry.Point {
	return Apply(t.Matrix().Inv(), p)
}
