// Package infill generates interior fill paths for a closed outline.
// Generators classify candidate geometry against the outline polygon
// (ray casting) and, for implicit patterns, extract the pattern's
// contours from a sampled scalar field. The outline's height is taken
// from its first point; infill for a layer stays in that layer.
package infill

import (
	"fmt"
	"math"
	"sort"

	"github.com/printforge/strand/pkg/geom"
	"github.com/printforge/strand/pkg/path"
	"github.com/printforge/strand/pkg/polygon"
)

// Lines generates a serpentine hatch of parallel lines across the
// outline's interior, spaced by spacing and rotated by angle radians.
// The hatch is returned as a single connected path at the outline's
// height. Outlines with fewer than three points produce an empty path.
func Lines(outline *path.Path, spacing, angle float64) (*path.Path, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("infill: line spacing must be positive, got %v", spacing)
	}
	poly := outline.Polygon()
	if len(poly) < 3 {
		return &path.Path{}, nil
	}
	z := outline.Z[0]

	// Rotate the polygon so the hatch direction becomes horizontal,
	// scan, then rotate the result back.
	rotated := rotatePoints(poly, -angle)
	min, max := geom.Polyline(rotated).Bounds()

	var xs, ys []float64
	flip := false
	for y := min.Y + spacing/2; y < max.Y; y += spacing {
		hits := scanline(y, rotated)
		if flip {
			for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
				hits[i], hits[j] = hits[j], hits[i]
			}
		}
		for i := 0; i+1 < len(hits); i += 2 {
			// Reject spans whose midpoint falls outside; vertex-grazing
			// scanlines can produce odd parity.
			mid := geom.Point{X: (hits[i] + hits[i+1]) / 2, Y: y}
			if !polygon.Inside(mid, rotated) {
				continue
			}
			xs = append(xs, hits[i], hits[i+1])
			ys = append(ys, y, y)
		}
		flip = !flip
	}

	sin, cos := math.Sincos(angle)
	out := &path.Path{
		X: make([]float64, len(xs)),
		Y: make([]float64, len(xs)),
		Z: make([]float64, len(xs)),
	}
	for i := range xs {
		out.X[i] = xs[i]*cos - ys[i]*sin
		out.Y[i] = xs[i]*sin + ys[i]*cos
		out.Z[i] = z
	}
	return out, nil
}

// scanline returns the sorted x-coordinates where the horizontal line
// at height y crosses the polygon's edges. Horizontal edges and
// non-straddling edges contribute nothing, the same strict rule the
// containment test uses.
func scanline(y float64, poly []geom.Point) []float64 {
	var hits []float64
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if (a.Y > y) == (b.Y > y) {
			continue
		}
		hits = append(hits, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
	}
	sort.Float64s(hits)
	return hits
}

func rotatePoints(pts []geom.Point, angle float64) []geom.Point {
	sin, cos := math.Sincos(angle)
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}
	return out
}
