package config

import (
	"sort"

	"github.com/san-kum/diffdrive/internal/control"
)

// Presets are complete robot profiles selectable with --preset.
var Presets = map[string]*Config{
	"tao":   taoPreset(),
	"bench": benchPreset(),
}

// taoPreset is an 84:60 geared competition base tuned on carpet.
func taoPreset() *Config {
	c := DefaultConfig()
	c.Name = "tao"
	c.Controller.Drive = control.Gains{KP: 4.24, KD: 0.06}
	c.Controller.Turn = control.Gains{KP: 0.82, KI: 0.003, KD: 0.0875}
	c.Controller.DriveTolerance = 0.7
	c.Controller.TurnTolerance = 1.4
	c.Controller.Lookahead = 8.5
	c.Geometry.TrackWidth = 13.75
	c.Geometry.WheelDiameter = 3.25
	c.Geometry.Gearing = 84.0 / 60.0
	return c
}

// benchPreset is the reference geometry the end-to-end checks run on.
func benchPreset() *Config {
	c := DefaultConfig()
	c.Name = "bench"
	c.Controller.DriveTolerance = 1.0
	c.Controller.TurnTolerance = 3.0
	c.Geometry.TrackWidth = 13.75
	c.Geometry.WheelDiameter = 3.25
	c.Geometry.Gearing = 0.6
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
