package main

import (
	"fmt"

	"github.com/san-kum/erisim/internal/celestial"
	"github.com/san-kum/erisim/internal/metrics"
	"github.com/san-kum/erisim/internal/sim"
)

type series struct {
	caption string
	values  []float64
}

// trajectorySeries extracts one value per frame for the requested bodies.
// Distance is measured from the centre of mass unless relativeTo names a
// body.
func trajectorySeries(frames []sim.Frame, quantity, body, relativeTo string) ([]series, error) {
	if quantity != "speed" && quantity != "distance" {
		return nil, fmt.Errorf("unknown quantity %q (speed or distance)", quantity)
	}

	names := make([]string, 0, len(frames[0].Bodies))
	for _, b := range frames[0].Bodies {
		if body == "" || b.Name == body {
			names = append(names, b.Name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no body named %q", body)
	}
	if relativeTo != "" {
		if _, ok := find(frames[0].Bodies, relativeTo); !ok {
			return nil, fmt.Errorf("no body named %q", relativeTo)
		}
	}

	out := make([]series, 0, len(names))
	for _, name := range names {
		s := series{caption: fmt.Sprintf("%s %s vs time", name, quantity), values: make([]float64, 0, len(frames))}
		if quantity == "distance" && relativeTo != "" {
			s.caption = fmt.Sprintf("%s distance from %s vs time", name, relativeTo)
		}

		for _, f := range frames {
			b, ok := find(f.Bodies, name)
			if !ok {
				continue
			}
			switch quantity {
			case "speed":
				s.values = append(s.values, b.Speed())
			case "distance":
				origin := metrics.CenterOfMass(f.Bodies)
				if ref, ok := find(f.Bodies, relativeTo); ok {
					origin = ref.Position
				}
				s.values = append(s.values, b.Position.Sub(origin).Len())
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func find(bodies []celestial.State, name string) (celestial.State, bool) {
	for _, b := range bodies {
		if b.Name == name {
			return b, true
		}
	}
	return celestial.State{}, false
}
