package polygon_test

import (
	"testing"

	"github.com/printforge/strand/pkg/geom"
	"github.com/printforge/strand/pkg/polygon"
)

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

var unitSquare = []geom.Point{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}

func TestUnitSquare(t *testing.T) {
	points := []geom.Point{pt(0.5, 0.5), pt(2, 2)}
	got := polygon.PointsInside(points, unitSquare)
	want := []bool{true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %v: got %v, want %v", points[i], got[i], want[i])
		}
	}
}

func TestExplicitlyClosedPolygon(t *testing.T) {
	closed := append(append([]geom.Point{}, unitSquare...), unitSquare[0])
	points := []geom.Point{pt(0.5, 0.5), pt(2, 2), pt(-0.1, 0.5)}

	open := polygon.PointsInside(points, unitSquare)
	dup := polygon.PointsInside(points, closed)
	for i := range points {
		if open[i] != dup[i] {
			t.Errorf("point %v: open-form %v, closed-form %v", points[i], open[i], dup[i])
		}
	}
}

func TestNearlyClosedPolygon(t *testing.T) {
	// A last vertex off the first by float noise is the first vertex
	// repeated, not an extra edge of the ring.
	noisy := append(append([]geom.Point{}, unitSquare...), pt(1e-12, -1e-12))
	points := []geom.Point{pt(0.5, 0.5), pt(2, 2), pt(-0.1, 0.5), pt(0.5, -0.1)}

	base := polygon.PointsInside(points, unitSquare)
	got := polygon.PointsInside(points, noisy)
	for i := range points {
		if got[i] != base[i] {
			t.Errorf("point %v: noisy-closure %v, open-form %v", points[i], got[i], base[i])
		}
	}
}

func TestDegeneratePolygon(t *testing.T) {
	points := []geom.Point{pt(0, 0), pt(0.5, 0.5)}
	for _, poly := range [][]geom.Point{nil, {pt(0, 0)}, {pt(0, 0), pt(1, 1)}} {
		got := polygon.PointsInside(points, poly)
		if len(got) != len(points) {
			t.Fatalf("%d-vertex polygon: got %d results, want %d", len(poly), len(got), len(points))
		}
		for i, in := range got {
			if in {
				t.Errorf("%d-vertex polygon: point %v classified inside", len(poly), points[i])
			}
		}
	}
}

func TestEmptyBatch(t *testing.T) {
	got := polygon.PointsInside(nil, unitSquare)
	if len(got) != 0 {
		t.Fatalf("empty batch: got %d results, want 0", len(got))
	}
}

func TestConcavePolygon(t *testing.T) {
	// An L shape: the notch at the top right is outside.
	l := []geom.Point{pt(0, 0), pt(2, 0), pt(2, 1), pt(1, 1), pt(1, 2), pt(0, 2)}

	cases := []struct {
		p    geom.Point
		want bool
	}{
		{pt(0.5, 0.5), true},
		{pt(1.5, 0.5), true},
		{pt(0.5, 1.5), true},
		{pt(1.5, 1.5), false}, // inside the notch
		{pt(2.5, 0.5), false},
	}
	for _, c := range cases {
		if got := polygon.Inside(c.p, l); got != c.want {
			t.Errorf("Inside(%v): got %v, want %v", c.p, got, c.want)
		}
	}
}

func TestSelfIntersectingEvenOdd(t *testing.T) {
	// A bowtie evaluated under the even-odd rule, no special-casing:
	// the two lobes are inside, the region above and below the crossing
	// is outside.
	bowtie := []geom.Point{pt(0, 0), pt(2, 0), pt(0, 2), pt(2, 2)}

	cases := []struct {
		p    geom.Point
		want bool
	}{
		{pt(1, 0.5), true},
		{pt(1, 1.5), true},
		{pt(0.25, 1), false},
		{pt(1.75, 1), false},
	}
	for _, c := range cases {
		if got := polygon.Inside(c.p, bowtie); got != c.want {
			t.Errorf("Inside(%v): got %v, want %v", c.p, got, c.want)
		}
	}
}

func TestScaleInvariance(t *testing.T) {
	const scale = 3.7
	points := []geom.Point{pt(0.5, 0.5), pt(2, 2), pt(0.9, 0.1), pt(-0.5, 0.5)}

	base := polygon.PointsInside(points, unitSquare)

	sp := make([]geom.Point, len(points))
	for i, p := range points {
		sp[i] = p.Scale(scale)
	}
	spoly := make([]geom.Point, len(unitSquare))
	for i, p := range unitSquare {
		spoly[i] = p.Scale(scale)
	}
	scaled := polygon.PointsInside(sp, spoly)

	for i := range points {
		if base[i] != scaled[i] {
			t.Errorf("point %v: classification changed under scaling", points[i])
		}
	}
}

func TestScalarMatchesBatch(t *testing.T) {
	points := []geom.Point{pt(0.5, 0.5), pt(2, 2), pt(0, 0.5), pt(1.0001, 0.5)}
	batch := polygon.PointsInside(points, unitSquare)
	for i, p := range points {
		if got := polygon.Inside(p, unitSquare); got != batch[i] {
			t.Errorf("Inside(%v)=%v disagrees with batch result %v", p, got, batch[i])
		}
	}
}
