// Package gcode turns ordered toolpaths into machine instruction text.
// The generator consumes the point sequences produced by the geometry
// kernel and applies machine and material settings; it knows nothing
// about how the paths were made.
package gcode

import (
	"encoding/json"
	"fmt"
	"io"
)

// NozzleSettings describe the extruder hardware.
type NozzleSettings struct {
	Diameter         float64 `json:"nozzleDiameter"`   // mm
	FilamentDiameter float64 `json:"filamentDiameter"` // mm
}

// SpeedSettings are feed rates in mm/min.
type SpeedSettings struct {
	Print  float64 `json:"printSpeed"`
	Travel float64 `json:"travelSpeed"`
}

// Origin offsets all emitted coordinates, mapping model space onto the
// machine bed.
type Origin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TemperatureSettings in degrees Celsius.
type TemperatureSettings struct {
	Nozzle float64 `json:"nozzleTemperature"`
	Bed    float64 `json:"bedTemperature"`
}

// TravelSettings control non-printing moves.
type TravelSettings struct {
	Retraction           bool    `json:"retraction"`
	RetractionDistance   float64 `json:"retractionDistance"`   // mm of filament
	UnretractionDistance float64 `json:"unretractionDistance"` // mm of filament
	ZHop                 bool    `json:"zHop"`
	ZHopDistance         float64 `json:"zHopDistance"` // mm
}

// BedSettings describe the build volume.
type BedSettings struct {
	SizeX float64 `json:"bedSizeX"`
	SizeY float64 `json:"bedSizeY"`
	SizeZ float64 `json:"bedSizeZ"`
}

// Settings is the full machine and material configuration.
type Settings struct {
	Nozzle              NozzleSettings      `json:"nozzle"`
	LayerHeight         float64             `json:"layerHeight"` // mm
	Speed               SpeedSettings       `json:"speed"`
	Origin              Origin              `json:"origin"`
	FanSpeed            int                 `json:"fanSpeed"` // 0-255
	Temperature         TemperatureSettings `json:"temperature"`
	Travel              TravelSettings      `json:"travel"`
	ExtrusionMultiplier float64             `json:"extrusionMultiplier"`
	Bed                 BedSettings         `json:"bed"`
}

// DefaultSettings returns a configuration for a common 0.4mm/1.75mm
// cartesian machine.
func DefaultSettings() Settings {
	return Settings{
		Nozzle:      NozzleSettings{Diameter: 0.4, FilamentDiameter: 1.75},
		LayerHeight: 0.2,
		Speed:       SpeedSettings{Print: 5000, Travel: 10000},
		Origin:      Origin{X: 100, Y: 100},
		FanSpeed:    255,
		Temperature: TemperatureSettings{Nozzle: 200, Bed: 50},
		Travel: TravelSettings{
			Retraction:           false,
			RetractionDistance:   2.0,
			UnretractionDistance: 2.0,
			ZHop:                 false,
			ZHopDistance:         3.0,
		},
		ExtrusionMultiplier: 1.0,
		Bed:                 BedSettings{SizeX: 200, SizeY: 200, SizeZ: 205},
	}
}

// LoadSettings reads a JSON settings document. Absent fields keep
// their default values.
func LoadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("gcode: load settings: %w", err)
	}
	return s, nil
}

// Save writes the settings as indented JSON.
func (s Settings) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("gcode: save settings: %w", err)
	}
	return nil
}
