// Package polygon classifies points against closed polygons using the
// even-odd ray casting rule. The test is purely combinatorial: there
// is no tolerance parameter, and points exactly on a polygon edge get
// whatever the strict inequalities decide. Downstream infill trimming
// relies on that behavior staying bit-for-bit stable.
package polygon

import "github.com/printforge/strand/pkg/geom"

// closureEps decides whether the caller already closed the ring. A
// last vertex within this distance of the first is taken as the first
// vertex repeated, not as one more edge.
const closureEps = 1e-8

// PointsInside classifies every query point against poly under the
// even-odd rule, one boolean per point. The polygon is implicitly
// closed: the last vertex connects back to the first unless it already
// coincides with it within closureEps. Polygons with fewer than three
// vertices classify everything as outside; that is a valid degenerate
// input, not an error. Self-intersecting polygons are evaluated under
// the same even-odd rule with no special-casing.
//
// Each point is classified independently, so the batch may be split
// across goroutines by the caller without coordination.
func PointsInside(points []geom.Point, poly []geom.Point) []bool {
	result := make([]bool, len(points))
	if len(poly) < 3 {
		return result
	}

	closed := poly
	if poly[0].Dist(poly[len(poly)-1]) > closureEps {
		closed = make([]geom.Point, 0, len(poly)+1)
		closed = append(closed, poly...)
		closed = append(closed, poly[0])
	}

	for i, p := range points {
		result[i] = crossings(p, closed)%2 == 1
	}
	return result
}

// Inside is the single-point convenience form of PointsInside.
func Inside(p geom.Point, poly []geom.Point) bool {
	return PointsInside([]geom.Point{p}, poly)[0]
}

// crossings counts how many edges of the closed ring a rightward
// horizontal ray from p crosses. An edge counts iff its y-coordinates
// straddle p's y (strict) and the edge's x at that height lies strictly
// right of p. Horizontal edges never contribute a crossing: the
// straddle test rules them out before the x-intersection divides by
// their zero y-extent.
func crossings(p geom.Point, ring []geom.Point) int {
	n := 0
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue
		}
		xCross := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if p.X < xCross {
			n++
		}
	}
	return n
}
