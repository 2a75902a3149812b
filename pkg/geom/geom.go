// Package geom defines the shared 2D value types used across the
// toolpath kernel. All types are plain value structs with no back
// references; callers own the slices they pass in and receive.
package geom

import "math"

// Point is a 2D point in physical (machine bed) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by s about the origin.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Polyline is an ordered sequence of points. A polyline is closed when
// its first and last points coincide within tolerance; nothing else
// distinguishes open from closed.
type Polyline []Point

// Closed reports whether the polyline's endpoints coincide within tol.
func (pl Polyline) Closed(tol float64) bool {
	if len(pl) < 3 {
		return false
	}
	return pl[0].Dist(pl[len(pl)-1]) <= tol
}

// Length returns the total arc length of the polyline.
func (pl Polyline) Length() float64 {
	var sum float64
	for i := 1; i < len(pl); i++ {
		sum += pl[i].Dist(pl[i-1])
	}
	return sum
}

// Bounds returns the axis-aligned bounding box of the polyline.
// Returns zero points for an empty polyline.
func (pl Polyline) Bounds() (min, max Point) {
	if len(pl) == 0 {
		return Point{}, Point{}
	}
	min, max = pl[0], pl[0]
	for _, p := range pl[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
