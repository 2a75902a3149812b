// Package field defines scalar field sources and their sampled grid
// form. A Field is anything that can be evaluated at a 2D point;
// backends (sdfx) provide concrete geometry behind this interface.
// The abstraction allows swapping field sources without changing the
// contouring pipeline.
package field

import (
	"github.com/printforge/strand/pkg/contour"
	"github.com/printforge/strand/pkg/geom"
)

// Field is a continuous scalar field over the plane.
type Field interface {
	// Evaluate returns the field value at (x, y).
	Evaluate(x, y float64) float64
	// Bounds returns the region of interest to sample.
	Bounds() (min, max geom.Point)
}

// Func adapts an ordinary function to a Field over a fixed region.
type Func struct {
	F        func(x, y float64) float64
	Min, Max geom.Point
}

func (f *Func) Evaluate(x, y float64) float64 { return f.F(x, y) }

func (f *Func) Bounds() (min, max geom.Point) { return f.Min, f.Max }

// Grid is a scalar field sampled on a rectangular grid. Xs has length
// M, Ys has length N, and Z has shape NxM (row = y, column = x).
type Grid struct {
	Xs []float64
	Ys []float64
	Z  [][]float64
}

// Contours extracts the iso-level contours of the sampled field.
func (g *Grid) Contours(level float64) ([]geom.Polyline, error) {
	return contour.Find(g.Xs, g.Ys, g.Z, level)
}

// Sample evaluates f on an nx by ny grid spanning its bounds. The
// grid is sized from the coordinate vectors, so non-positive counts
// yield an empty grid rather than a shape mismatch.
func Sample(f Field, nx, ny int) *Grid {
	min, max := f.Bounds()
	g := &Grid{
		Xs: Linspace(min.X, max.X, nx),
		Ys: Linspace(min.Y, max.Y, ny),
	}
	g.Z = make([][]float64, len(g.Ys))
	for i, y := range g.Ys {
		row := make([]float64, len(g.Xs))
		for j, x := range g.Xs {
			row[j] = f.Evaluate(x, y)
		}
		g.Z[i] = row
	}
	return g
}

// Linspace returns n evenly spaced values from a to b inclusive.
// n == 1 yields a single-element slice holding a; n < 1 yields an
// empty slice.
func Linspace(a, b float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}
