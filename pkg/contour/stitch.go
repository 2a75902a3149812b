package contour

import (
	"math"

	"github.com/printforge/strand/pkg/geom"
)

// segment is an ordered pair of crossing points produced by one cell.
type segment struct {
	a, b geom.Point
}

// quantKey is a spatially quantized endpoint. Endpoints whose
// coordinates agree within the stitching tolerance collide to the same
// key, so floating-point-near-equal points from adjacent cells can be
// looked up without a nearest-neighbor search.
type quantKey struct {
	x, y int64
}

func quantize(p geom.Point, tol float64) quantKey {
	return quantKey{
		x: int64(math.Round(p.X / tol)),
		y: int64(math.Round(p.Y / tol)),
	}
}

// segEnd identifies one endpoint of one segment in the adjacency index.
type segEnd struct {
	idx int
	end int // 0 = segment.a is the shared point, 1 = segment.b
}

// stitch chains segments that share a quantized endpoint into maximal
// polylines. Every segment lands in exactly one polyline. Chains grow
// greedily from both ends of a seed segment; seeds are taken lowest
// index first, which fixes the output order and each path's starting
// point for a given segment order.
func stitch(segs []segment, tol float64) []geom.Polyline {
	if len(segs) == 0 {
		return nil
	}

	adjacency := make(map[quantKey][]segEnd, len(segs)*2)
	for i, s := range segs {
		ka := quantize(s.a, tol)
		kb := quantize(s.b, tol)
		adjacency[ka] = append(adjacency[ka], segEnd{idx: i, end: 0})
		adjacency[kb] = append(adjacency[kb], segEnd{idx: i, end: 1})
	}

	used := make([]bool, len(segs))
	var paths []geom.Polyline

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		path := geom.Polyline{segs[start].a, segs[start].b}

		// Extend forward from the tail, then backward from the head.
		for _, fromTail := range []bool{true, false} {
			for {
				tip := path[0]
				if fromTail {
					tip = path[len(path)-1]
				}

				next, ok := takeUnused(adjacency[quantize(tip, tol)], used)
				if !ok {
					break
				}
				used[next.idx] = true

				far := segs[next.idx].a
				if next.end == 0 {
					far = segs[next.idx].b
				}
				if fromTail {
					path = append(path, far)
				} else {
					path = append(geom.Polyline{far}, path...)
				}
			}
		}
		paths = append(paths, path)
	}
	return paths
}

// takeUnused returns the first endpoint in bucket whose segment has not
// been consumed yet.
func takeUnused(bucket []segEnd, used []bool) (segEnd, bool) {
	for _, e := range bucket {
		if !used[e.idx] {
			return e, true
		}
	}
	return segEnd{}, false
}
