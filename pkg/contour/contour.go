// Package contour extracts iso-level contours from a scalar field
// sampled on a rectangular grid using marching squares. Cells are
// classified by a 4-bit corner case, crossing points are interpolated
// along cell edges, and the resulting segments are stitched into
// maximal polylines. The extraction is pure: it only reads its inputs
// and allocates new output.
package contour

import (
	"fmt"
	"math"

	"github.com/printforge/strand/pkg/geom"
)

// DefaultTolerance is the endpoint quantization tolerance used by Find
// when stitching segments into paths. Endpoints from adjacent cells
// that agree within this distance are treated as the same point.
const DefaultTolerance = 1e-8

// degenerateEps guards the edge interpolation divisor. When the two
// corner values differ by less than this, the crossing is placed at
// the edge midpoint instead of dividing by a near-zero delta.
const degenerateEps = 1e-10

// Cell corners are numbered counter-clockwise from the bottom-left:
//
//	3 ---- 2
//	|      |
//	0 ---- 1
//
// Cell edges: 0 = bottom (corner 0->1), 1 = right (1->2),
// 2 = top (2->3), 3 = left (3->0).

// edgeTable maps the 4-bit corner case (bit k set iff corner k >= level)
// to the edge pairs to connect. Cases 0 and 15 produce nothing. The
// ambiguous saddle cases 5 and 10 are resolved with a fixed pairing:
// each yields two parallel segments, never a center-probed split.
var edgeTable = [16][][2]int{
	0:  nil,
	1:  {{3, 0}},
	2:  {{0, 1}},
	3:  {{3, 1}},
	4:  {{1, 2}},
	5:  {{3, 0}, {1, 2}},
	6:  {{0, 2}},
	7:  {{3, 2}},
	8:  {{2, 3}},
	9:  {{2, 0}},
	10: {{0, 1}, {2, 3}},
	11: {{2, 1}},
	12: {{1, 3}},
	13: {{1, 0}},
	14: {{0, 3}},
	15: nil,
}

// ShapeError reports a mismatch between the coordinate vectors and the
// scalar field's dimensions. It indicates a caller programming error
// and is never produced for valid (even if trivial) grids.
type ShapeError struct {
	XLen, YLen int // len(xs), len(ys)
	Rows, Cols int // observed shape of z; Cols is -1 for ragged rows
}

func (e *ShapeError) Error() string {
	if e.Cols < 0 {
		return fmt.Sprintf("contour: ragged scalar field: not all rows have %d samples", e.XLen)
	}
	return fmt.Sprintf("contour: shape mismatch: xs has %d elements, ys has %d elements, but z has shape %dx%d",
		e.XLen, e.YLen, e.Rows, e.Cols)
}

// Find extracts the level-set contours of the scalar field z sampled
// at coordinates xs (columns, length M) and ys (rows, length N). z must
// have shape NxM (row-major, row = y). Each returned polyline is a
// maximal chain of crossing segments; a closed level-set component
// comes back as a single polyline whose endpoints coincide within
// DefaultTolerance.
//
// A corner is above the level iff its value >= level. Cells containing
// a NaN or infinite corner are excluded and produce no segments; the
// rest of the grid still contours. Grids with fewer than two samples
// in either dimension yield an empty result.
func Find(xs, ys []float64, z [][]float64, level float64) ([]geom.Polyline, error) {
	return FindTol(xs, ys, z, level, DefaultTolerance)
}

// FindTol is Find with an explicit stitching tolerance.
func FindTol(xs, ys []float64, z [][]float64, level, tol float64) ([]geom.Polyline, error) {
	if err := checkShape(xs, ys, z); err != nil {
		return nil, err
	}
	if len(xs) < 2 || len(ys) < 2 {
		return nil, nil
	}
	segs := marchCells(xs, ys, z, level)
	return stitch(segs, tol), nil
}

// checkShape validates that z has shape len(ys) x len(xs).
func checkShape(xs, ys []float64, z [][]float64) error {
	if len(z) != len(ys) {
		return &ShapeError{XLen: len(xs), YLen: len(ys), Rows: len(z), Cols: colsOf(z)}
	}
	for _, row := range z {
		if len(row) != len(xs) {
			return &ShapeError{XLen: len(xs), YLen: len(ys), Rows: len(z), Cols: -1}
		}
	}
	return nil
}

func colsOf(z [][]float64) int {
	if len(z) == 0 {
		return 0
	}
	return len(z[0])
}

// marchCells classifies every cell and collects the crossing segments
// in row-major cell order. The ordering matters: stitching starts from
// the lowest unused segment index, so a fixed cell order makes the
// output deterministic for identical input.
func marchCells(xs, ys []float64, z [][]float64, level float64) []segment {
	var segs []segment
	for i := 0; i < len(ys)-1; i++ {
		for j := 0; j < len(xs)-1; j++ {
			// Corner values, counter-clockwise from bottom-left.
			v0 := z[i][j]
			v1 := z[i][j+1]
			v2 := z[i+1][j+1]
			v3 := z[i+1][j]
			if !finite(v0) || !finite(v1) || !finite(v2) || !finite(v3) {
				continue // invalid cell, contributes nothing
			}

			c := 0
			if v0 >= level {
				c |= 1
			}
			if v1 >= level {
				c |= 2
			}
			if v2 >= level {
				c |= 4
			}
			if v3 >= level {
				c |= 8
			}

			for _, pair := range edgeTable[c] {
				segs = append(segs, segment{
					a: interpEdge(pair[0], xs, ys, i, j, v0, v1, v2, v3, level),
					b: interpEdge(pair[1], xs, ys, i, j, v0, v1, v2, v3, level),
				})
			}
		}
	}
	return segs
}

// interpEdge places the level crossing on the given edge of cell (i, j)
// by linear interpolation between the edge's corner values, in physical
// grid coordinates. Near-equal corners default the crossing to the edge
// midpoint to avoid a blow-up of the divisor.
func interpEdge(edge int, xs, ys []float64, i, j int, v0, v1, v2, v3, level float64) geom.Point {
	var va, vb float64
	var pa, pb geom.Point
	switch edge {
	case 0: // bottom: corner 0 -> 1
		va, vb = v0, v1
		pa = geom.Point{X: xs[j], Y: ys[i]}
		pb = geom.Point{X: xs[j+1], Y: ys[i]}
	case 1: // right: corner 1 -> 2
		va, vb = v1, v2
		pa = geom.Point{X: xs[j+1], Y: ys[i]}
		pb = geom.Point{X: xs[j+1], Y: ys[i+1]}
	case 2: // top: corner 2 -> 3
		va, vb = v2, v3
		pa = geom.Point{X: xs[j+1], Y: ys[i+1]}
		pb = geom.Point{X: xs[j], Y: ys[i+1]}
	default: // left: corner 3 -> 0
		va, vb = v3, v0
		pa = geom.Point{X: xs[j], Y: ys[i+1]}
		pb = geom.Point{X: xs[j], Y: ys[i]}
	}

	t := 0.5
	if dv := vb - va; math.Abs(dv) >= degenerateEps {
		t = (level - va) / dv
	}
	return geom.Point{
		X: pa.X + t*(pb.X-pa.X),
		Y: pa.Y + t*(pb.Y-pa.Y),
	}
}

// finite reports whether v is a usable sample. Infinities are treated
// the same as NaN: the containing cell is excluded.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
