// Package path defines printable toolpaths. A Path is an ordered
// sequence of 3D machine coordinates stored as parallel slices, the
// form the G-code generator consumes. Paths are built from contour
// polylines or synthesized directly (circles, infill hatches).
package path

import (
	"fmt"
	"math"

	"github.com/printforge/strand/pkg/geom"
)

// Path is an ordered sequence of 3D points the nozzle visits in order.
type Path struct {
	X []float64
	Y []float64
	Z []float64
}

// New creates a path from parallel coordinate slices, which must have
// equal lengths.
func New(x, y, z []float64) (*Path, error) {
	if len(x) != len(y) || len(x) != len(z) {
		return nil, fmt.Errorf("path: coordinate lengths differ: x=%d y=%d z=%d", len(x), len(y), len(z))
	}
	return &Path{X: x, Y: y, Z: z}, nil
}

// FromPolyline lifts a 2D polyline to a path at constant height z.
func FromPolyline(pl geom.Polyline, z float64) *Path {
	p := &Path{
		X: make([]float64, len(pl)),
		Y: make([]float64, len(pl)),
		Z: make([]float64, len(pl)),
	}
	for i, pt := range pl {
		p.X[i] = pt.X
		p.Y[i] = pt.Y
		p.Z[i] = z
	}
	return p
}

// Circle synthesizes a closed circular path of n segments at height z.
// The first point is repeated at the end to close the loop.
func Circle(cx, cy, r, z float64, n int) *Path {
	p := &Path{
		X: make([]float64, n+1),
		Y: make([]float64, n+1),
		Z: make([]float64, n+1),
	}
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		p.X[i] = cx + r*math.Cos(theta)
		p.Y[i] = cy + r*math.Sin(theta)
		p.Z[i] = z
	}
	return p
}

// Len returns the number of points.
func (p *Path) Len() int { return len(p.X) }

// Polygon returns the path's XY vertices for containment tests.
func (p *Path) Polygon() []geom.Point {
	poly := make([]geom.Point, len(p.X))
	for i := range p.X {
		poly[i] = geom.Point{X: p.X[i], Y: p.Y[i]}
	}
	return poly
}

// Length returns the 3D arc length of the path.
func (p *Path) Length() float64 {
	var sum float64
	for i := 1; i < len(p.X); i++ {
		dx := p.X[i] - p.X[i-1]
		dy := p.Y[i] - p.Y[i-1]
		dz := p.Z[i] - p.Z[i-1]
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return sum
}

// Bounds returns the axis-aligned XY bounding box of the path.
// Returns zero points for an empty path.
func (p *Path) Bounds() (min, max geom.Point) {
	if len(p.X) == 0 {
		return geom.Point{}, geom.Point{}
	}
	min = geom.Point{X: p.X[0], Y: p.Y[0]}
	max = min
	for i := 1; i < len(p.X); i++ {
		min.X = math.Min(min.X, p.X[i])
		min.Y = math.Min(min.Y, p.Y[i])
		max.X = math.Max(max.X, p.X[i])
		max.Y = math.Max(max.Y, p.Y[i])
	}
	return min, max
}
