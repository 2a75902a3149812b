// Package sdfx implements the field.Field interface using the
// github.com/deadsy/sdfx SDF-based CAD library. An SDF2 evaluates to
// the signed distance from its boundary (negative inside), so
// contouring a sampled sdfx field at level 0 recovers the shape's
// outline.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/printforge/strand/pkg/field"
	"github.com/printforge/strand/pkg/geom"
)

// Compile-time interface check.
var _ field.Field = (*Field)(nil)

// boundsPad expands the reported sampling bounds by this fraction of
// the bounding box extent on every side. Sampling exactly at the SDF
// bounding box puts the zero level set tangent to the outermost grid
// cells, which can break closed outlines open; the pad keeps the level
// set in the grid interior.
const boundsPad = 0.1

// Field wraps an sdf.SDF2 as a field.Field.
type Field struct {
	s sdf.SDF2
}

// Wrap creates a Field from an existing sdf.SDF2.
func Wrap(s sdf.SDF2) *Field {
	return &Field{s: s}
}

// Circle creates a circular field of the given radius, centered at the
// origin.
func Circle(radius float64) *Field {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Circle2D: %v", err))
	}
	return Wrap(s)
}

// Box creates a rectangular field of the given width and height,
// centered at the origin.
func Box(w, h float64) *Field {
	s := sdf.Box2D(v2.Vec{X: w, Y: h}, 0)
	return Wrap(s)
}

// Polygon creates a field from a closed polygon outline.
func Polygon(vertices []geom.Point) (*Field, error) {
	vs := make([]v2.Vec, len(vertices))
	for i, p := range vertices {
		vs[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx: polygon field: %w", err)
	}
	return Wrap(s), nil
}

// Union returns the union of two fields.
func Union(a, b *Field) *Field {
	return Wrap(sdf.Union2D(a.s, b.s))
}

// Difference returns the difference a - b.
func Difference(a, b *Field) *Field {
	return Wrap(sdf.Difference2D(a.s, b.s))
}

// Intersection returns the intersection of two fields.
func Intersection(a, b *Field) *Field {
	return Wrap(sdf.Intersect2D(a.s, b.s))
}

// Translate moves a field by (x, y).
func (f *Field) Translate(x, y float64) *Field {
	return Wrap(sdf.Transform2D(f.s, sdf.Translate2d(v2.Vec{X: x, Y: y})))
}

// Rotate rotates a field by the given angle in radians.
func (f *Field) Rotate(a float64) *Field {
	return Wrap(sdf.Transform2D(f.s, sdf.Rotate2d(a)))
}

// Evaluate returns the signed distance at (x, y), negative inside.
func (f *Field) Evaluate(x, y float64) float64 {
	return f.s.Evaluate(v2.Vec{X: x, Y: y})
}

// Bounds returns the SDF bounding box, padded so the zero level set
// stays in the sampled grid interior.
func (f *Field) Bounds() (min, max geom.Point) {
	bb := f.s.BoundingBox()
	padX := (bb.Max.X - bb.Min.X) * boundsPad
	padY := (bb.Max.Y - bb.Min.Y) * boundsPad
	min = geom.Point{X: bb.Min.X - padX, Y: bb.Min.Y - padY}
	max = geom.Point{X: bb.Max.X + padX, Y: bb.Max.Y + padY}
	return min, max
}
