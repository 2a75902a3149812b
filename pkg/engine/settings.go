package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/printforge/strand/pkg/gcode"
)

// applySetting maps one script keyword onto its settings field. Keyword
// names mirror the settings tree in kebab case.
func applySetting(s *gcode.Settings, key string, v zygo.Sexp) error {
	switch key {
	case "retraction", "z-hop":
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "retraction" {
			s.Travel.Retraction = b
		} else {
			s.Travel.ZHop = b
		}
		return nil

	case "fan-speed":
		n, err := toInt(v)
		if err != nil {
			return fmt.Errorf("fan-speed: %w", err)
		}
		if n < 0 || n > 255 {
			return fmt.Errorf("fan-speed: must be in 0..255, got %d", n)
		}
		s.FanSpeed = n
		return nil
	}

	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	switch key {
	case "layer-height":
		s.LayerHeight = f
	case "nozzle-diameter":
		s.Nozzle.Diameter = f
	case "filament-diameter":
		s.Nozzle.FilamentDiameter = f
	case "print-speed":
		s.Speed.Print = f
	case "travel-speed":
		s.Speed.Travel = f
	case "origin-x":
		s.Origin.X = f
	case "origin-y":
		s.Origin.Y = f
	case "nozzle-temperature":
		s.Temperature.Nozzle = f
	case "bed-temperature":
		s.Temperature.Bed = f
	case "extrusion-multiplier":
		s.ExtrusionMultiplier = f
	case "retraction-distance":
		s.Travel.RetractionDistance = f
	case "unretraction-distance":
		s.Travel.UnretractionDistance = f
	case "z-hop-distance":
		s.Travel.ZHopDistance = f
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
