package geometry

import "math"

// Point represents a 2D point in document pixel space
type Point struct {
	X, Y float64
}

// NewPoint creates a new 2D point
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points
func (p Point) Add(other Point) Point {
	return Point{
		X: p.X + other.X,
		Y: p.Y + other.Y,
	}
}

// Sub returns the difference between two points
func (p Point) Sub(other Point) Point {
	return Point{
		X: p.X - other.X,
		Y: p.Y - other.Y,
	}
}

// Mul multiplies both coordinates by a scalar
func (p Point) Mul(scalar float64) Point {
	return Point{
		X: p.X * scalar,
		Y: p.Y * scalar,
	}
}

// Length returns the Euclidean norm of the point treated as a vector
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the distance between two points
func (p Point) Distance(other Point) float64 {
	return p.Sub(other).Length()
}

// IsFinite reports whether both coordinates are finite numbers
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b Point) float64 {
	return a.Distance(b)
}

// Midpoint returns the point halfway between a and b
func Midpoint(a, b Point) Point {
	return a.Add(b).Mul(0.5)
}

// ScalePoint re-projects p from a view with ratioOld into a view with ratioNew.
// Both coordinates are multiplied by ratioNew/ratioOld. A non-positive ratioOld
// leaves the point unchanged.
func ScalePoint(p Point, ratioOld, ratioNew float64) Point {
	if ratioOld <= 0 {
		return p
	}
	return p.Mul(ratioNew / ratioOld)
}

// ScalePoints applies ScalePoint to every point and returns a new slice; nil
// stays nil
func ScalePoints(points []Point, ratioOld, ratioNew float64) []Point {
	if points == nil {
		return nil
	}
	scaled := make([]Point, len(points))
	for i, p := range points {
		scaled[i] = ScalePoint(p, ratioOld, ratioNew)
	}
	return scaled
}

// ClonePoints returns a copy of points; nil stays nil
func ClonePoints(points []Point) []Point {
	if points == nil {
		return nil
	}
	out := make([]Point, len(points))
	copy(out, points)
	return out
}
