package config

import (
	"sort"

	"github.com/san-kum/erisim/internal/astro"
)

// Presets are in simulation units (G = 1) so orbits complete in seconds of
// wall-clock time.
var Presets = map[string]*Config{
	"earth-moon": {
		Name: "earth-moon", Dt: 0.01, Duration: 100.0, SampleEvery: 10,
		Constants: astro.Constants{G: 1, Scale: 1, Speed: 5, MinSeparation: 0.01},
		Bodies: []BodyConfig{
			{Name: "earth", Mass: 1000, Radius: 5, Spin: &SpinConfig{Axis: [3]float64{0, 1, 0}, Rate: 1}},
			{Name: "moon", Mass: 12, Radius: 1.4, Position: [3]float64{60, 0, 0}, Orbit: &OrbitConfig{Parent: "earth"}},
		},
	},
	"binary": {
		Name: "binary", Dt: 0.01, Duration: 120.0, SampleEvery: 10,
		Constants: astro.Constants{G: 1, Scale: 1, Speed: 2, MinSeparation: 0.01},
		Bodies: []BodyConfig{
			{Name: "primary", Mass: 500, Radius: 4, Position: [3]float64{-20, 0, 0}, Velocity: [3]float64{0, 0, -2.5}},
			{Name: "secondary", Mass: 500, Radius: 4, Position: [3]float64{20, 0, 0}, Velocity: [3]float64{0, 0, 2.5}},
		},
	},
	"sun-planets": {
		Name: "sun-planets", Dt: 0.005, Duration: 300.0, SampleEvery: 20,
		Constants: astro.Constants{G: 1, Scale: 1, Speed: 10, MinSeparation: 0.01},
		Bodies: []BodyConfig{
			{Name: "sun", Mass: 10000, Radius: 8, Spin: &SpinConfig{Axis: [3]float64{0, 1, 0}, Rate: 0.2}},
			{Name: "inner", Mass: 2, Radius: 0.8, Position: [3]float64{30, 0, 0}, Orbit: &OrbitConfig{Parent: "sun"}},
			{Name: "middle", Mass: 6, Radius: 1.2, Position: [3]float64{0, 0, 55}, Orbit: &OrbitConfig{Parent: "sun"}},
			{Name: "outer", Mass: 10, Radius: 1.5, Position: [3]float64{-90, 0, 0}, Orbit: &OrbitConfig{Parent: "sun"}},
			{Name: "outer-moon", Mass: 0.1, Radius: 0.4, Position: [3]float64{-93, 0, 0}, Orbit: &OrbitConfig{Parent: "outer"}},
		},
	},
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

// Clone deep-copies the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Spin != nil {
			spin := *b.Spin
			b.Spin = &spin
		}
		if b.Orbit != nil {
			orbit := *b.Orbit
			b.Orbit = &orbit
		}
		out.Bodies[i] = b
	}
	return &out
}
