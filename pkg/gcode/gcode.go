package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/printforge/strand/pkg/path"
)

// Generator emits Marlin-flavor G-code for a sequence of toolpaths.
type Generator struct {
	Settings Settings
}

// New returns a Generator with the given settings.
func New(s Settings) *Generator {
	return &Generator{Settings: s}
}

// Generate produces the full G-code program for the paths, in order.
// Each path starts with a travel move to its first point; subsequent
// points are printing moves with extrusion. Empty paths are skipped.
func (g *Generator) Generate(paths []*path.Path) string {
	var b strings.Builder
	g.writeStart(&b)

	for _, p := range paths {
		if p.Len() == 0 {
			continue
		}
		g.writePath(&b, p)
	}

	g.writeEnd(&b)
	return b.String()
}

func (g *Generator) writeStart(b *strings.Builder) {
	s := g.Settings
	b.WriteString("; generated by strand\n")
	b.WriteString("G21 ; millimeter units\n")
	b.WriteString("G90 ; absolute positioning\n")
	b.WriteString("M83 ; relative extrusion\n")
	fmt.Fprintf(b, "M140 S%.0f ; set bed temperature\n", s.Temperature.Bed)
	fmt.Fprintf(b, "M104 S%.0f ; set nozzle temperature\n", s.Temperature.Nozzle)
	fmt.Fprintf(b, "M190 S%.0f ; wait for bed\n", s.Temperature.Bed)
	fmt.Fprintf(b, "M109 S%.0f ; wait for nozzle\n", s.Temperature.Nozzle)
	b.WriteString("G28 ; home\n")
	fmt.Fprintf(b, "M106 S%d ; fan\n", s.FanSpeed)
	b.WriteString("G92 E0\n")
}

func (g *Generator) writePath(b *strings.Builder, p *path.Path) {
	s := g.Settings
	tr := s.Travel

	if tr.Retraction {
		fmt.Fprintf(b, "G1 E%.5f F%.0f\n", -tr.RetractionDistance, s.Speed.Travel)
	}
	zTravel := p.Z[0]
	if tr.ZHop {
		fmt.Fprintf(b, "G0 Z%.4f F%.0f\n", zTravel+tr.ZHopDistance, s.Speed.Travel)
	}
	fmt.Fprintf(b, "G0 X%.4f Y%.4f Z%.4f F%.0f\n",
		p.X[0]+s.Origin.X, p.Y[0]+s.Origin.Y, zTravel, s.Speed.Travel)
	if tr.Retraction {
		fmt.Fprintf(b, "G1 E%.5f F%.0f\n", tr.UnretractionDistance, s.Speed.Travel)
	}

	for i := 1; i < p.Len(); i++ {
		dx := p.X[i] - p.X[i-1]
		dy := p.Y[i] - p.Y[i-1]
		dz := p.Z[i] - p.Z[i-1]
		dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
		fmt.Fprintf(b, "G1 X%.4f Y%.4f Z%.4f E%.5f F%.0f\n",
			p.X[i]+s.Origin.X, p.Y[i]+s.Origin.Y, p.Z[i],
			g.extrusion(dist), s.Speed.Print)
	}
}

func (g *Generator) writeEnd(b *strings.Builder) {
	b.WriteString("M104 S0 ; nozzle off\n")
	b.WriteString("M140 S0 ; bed off\n")
	b.WriteString("M107 ; fan off\n")
}

// extrusion converts a move distance into millimeters of filament to
// feed: the deposited bead is modeled as a rectangle of layer height
// by nozzle diameter, pushed through the filament's cross section.
func (g *Generator) extrusion(dist float64) float64 {
	s := g.Settings
	bead := s.LayerHeight * s.Nozzle.Diameter * dist
	section := math.Pi * s.Nozzle.FilamentDiameter * s.Nozzle.FilamentDiameter / 4
	return s.ExtrusionMultiplier * bead / section
}
