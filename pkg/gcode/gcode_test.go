package gcode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/printforge/strand/pkg/path"
)

func line(t *testing.T) *path.Path {
	t.Helper()
	p, err := path.New([]float64{0, 10}, []float64{0, 0}, []float64{0.2, 0.2})
	if err != nil {
		t.Fatalf("path.New failed: %v", err)
	}
	return p
}

func TestGenerateHeaderAndFooter(t *testing.T) {
	g := New(DefaultSettings())
	out := g.Generate(nil)

	for _, want := range []string{
		"G21", "G90", "M83",
		"M104 S200", "M140 S50", "M106 S255",
		"M104 S0", "M140 S0", "M107",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateMoves(t *testing.T) {
	g := New(DefaultSettings())
	out := g.Generate([]*path.Path{line(t)})

	// Travel to the first point, offset by the origin (100, 100).
	if !strings.Contains(out, "G0 X100.0000 Y100.0000 Z0.2000 F10000") {
		t.Errorf("missing travel move:\n%s", out)
	}
	// One printing move covering 10mm: E = 0.2*0.4*10 / (pi*1.75^2/4).
	if !strings.Contains(out, "G1 X110.0000 Y100.0000 Z0.2000 E0.33260 F5000") {
		t.Errorf("missing print move:\n%s", out)
	}
}

func TestGenerateSkipsEmptyPaths(t *testing.T) {
	g := New(DefaultSettings())
	withEmpty := g.Generate([]*path.Path{{}, line(t), {}})
	without := g.Generate([]*path.Path{line(t)})
	if withEmpty != without {
		t.Error("empty paths must not affect the output")
	}
}

func TestExtrusionScalesWithMultiplier(t *testing.T) {
	s := DefaultSettings()
	s.ExtrusionMultiplier = 2
	out := New(s).Generate([]*path.Path{line(t)})
	if !strings.Contains(out, "E0.66520") {
		t.Errorf("doubled multiplier should double extrusion:\n%s", out)
	}
}

func TestRetractionAndZHop(t *testing.T) {
	s := DefaultSettings()
	s.Travel.Retraction = true
	s.Travel.ZHop = true
	out := New(s).Generate([]*path.Path{line(t)})

	if !strings.Contains(out, "G1 E-2.00000") {
		t.Errorf("missing retraction:\n%s", out)
	}
	if !strings.Contains(out, "G1 E2.00000") {
		t.Errorf("missing unretraction:\n%s", out)
	}
	if !strings.Contains(out, "Z3.2000") { // 0.2 + 3.0 hop
		t.Errorf("missing z-hop:\n%s", out)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.LayerHeight = 0.3
	s.Travel.ZHop = true

	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := LoadSettings(&buf)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if got != s {
		t.Errorf("round trip changed settings:\ngot  %+v\nwant %+v", got, s)
	}
}

func TestLoadSettingsPartial(t *testing.T) {
	got, err := LoadSettings(strings.NewReader(`{"layerHeight": 0.1}`))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if got.LayerHeight != 0.1 {
		t.Errorf("layerHeight: got %v, want 0.1", got.LayerHeight)
	}
	// Unspecified fields keep their defaults.
	if got.Nozzle.Diameter != 0.4 || got.Speed.Print != 5000 {
		t.Errorf("defaults lost: %+v", got)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	if _, err := LoadSettings(strings.NewReader("{nope")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
