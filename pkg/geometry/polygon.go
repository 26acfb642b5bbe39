package geometry

import "math"

// PolygonArea returns the area enclosed by points using the shoelace formula.
// The polygon is closed from the last point back to the first. Orientation does
// not matter; self-intersecting input is not validated. Fewer than 3 points
// yield 0.
func PolygonArea(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}

	return math.Abs(sum) / 2
}

// Perimeter returns the length of the closed outline through points
func Perimeter(points []Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}

	total := 0.0
	for i := 0; i < n; i++ {
		total += points[i].Distance(points[(i+1)%n])
	}
	return total
}

// Centroid returns the average of the vertices, used for label placement
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var c Point
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(points)))
}

// Bounds returns the axis-aligned bounding box of points as min and max corners
func Bounds(points []Point) (min, max Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}

	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
