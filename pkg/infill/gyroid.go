package infill

import (
	"fmt"
	"math"

	"github.com/printforge/strand/pkg/field"
	"github.com/printforge/strand/pkg/geom"
	"github.com/printforge/strand/pkg/path"
	"github.com/printforge/strand/pkg/polygon"
)

// samplesPerPeriod sets the grid resolution used to sample the gyroid
// surface. More samples give smoother contours at linear cost per axis.
const samplesPerPeriod = 16

// Gyroid fills the outline's interior with the z-slice of the gyroid
// triply periodic surface, with walls roughly spacing apart. The
// surface is sampled over the outline's bounding box, its zero level
// set is contoured, and the contour points are clipped to the outline
// polygon. Each contiguous run of interior points becomes one path at
// the outline's height.
func Gyroid(outline *path.Path, spacing float64) ([]*path.Path, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("infill: gyroid spacing must be positive, got %v", spacing)
	}
	poly := outline.Polygon()
	if len(poly) < 3 {
		return nil, nil
	}
	z := outline.Z[0]
	min, max := outline.Bounds()

	// One gyroid period produces two walls, so the period is twice the
	// requested wall spacing.
	period := 2 * spacing
	k := 2 * math.Pi / period
	f := &field.Func{
		F: func(x, y float64) float64 {
			return math.Sin(k*x)*math.Cos(k*y) +
				math.Sin(k*y)*math.Cos(k*z) +
				math.Sin(k*z)*math.Cos(k*x)
		},
		Min: min,
		Max: max,
	}

	nx := gridSamples(max.X-min.X, period)
	ny := gridSamples(max.Y-min.Y, period)
	contours, err := field.Sample(f, nx, ny).Contours(0)
	if err != nil {
		return nil, fmt.Errorf("infill: gyroid contours: %w", err)
	}

	var paths []*path.Path
	for _, pl := range contours {
		for _, run := range clipToPolygon(pl, poly) {
			paths = append(paths, path.FromPolyline(run, z))
		}
	}
	return paths, nil
}

// gridSamples returns the sample count covering extent at
// samplesPerPeriod resolution, never fewer than two.
func gridSamples(extent, period float64) int {
	n := int(math.Ceil(extent/period))*samplesPerPeriod + 1
	if n < 2 {
		return 2
	}
	return n
}

// clipToPolygon splits a polyline into its maximal runs of points that
// lie inside the polygon. Points outside are dropped; a run shorter
// than two points draws nothing and is discarded.
func clipToPolygon(pl geom.Polyline, poly []geom.Point) []geom.Polyline {
	inside := polygon.PointsInside(pl, poly)

	var runs []geom.Polyline
	var cur geom.Polyline
	for i, in := range inside {
		if in {
			cur = append(cur, pl[i])
			continue
		}
		if len(cur) >= 2 {
			runs = append(runs, cur)
		}
		cur = nil
	}
	if len(cur) >= 2 {
		runs = append(runs, cur)
	}
	return runs
}
