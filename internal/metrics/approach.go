package metrics

import (
	"math"

	"github.com/san-kum/erisim/internal/celestial"
)

// MinSeparation returns the smallest centre distance between any two bodies,
// or +Inf for fewer than two bodies.
func MinSeparation(bodies []celestial.State) float64 {
	best := math.Inf(1)
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			d := bodies[j].Position.Sub(bodies[i].Position).Len()
			best = math.Min(best, d)
		}
	}
	return best
}

type ClosestApproach struct {
	name string
	min  float64
}

func NewClosestApproach() *ClosestApproach {
	return &ClosestApproach{name: "closest_approach", min: math.Inf(1)}
}

func (c *ClosestApproach) Name() string { return c.name }

func (c *ClosestApproach) Observe(t float64, bodies []celestial.State) {
	c.min = math.Min(c.min, MinSeparation(bodies))
}

func (c *ClosestApproach) Value() float64 { return c.min }
func (c *ClosestApproach) Reset()         { c.min = math.Inf(1) }

// Dominant returns the body exerting the strongest pull (m/r²) on
// bodies[idx]. Coincident bodies are ignored.
func Dominant(bodies []celestial.State, idx int) (celestial.State, bool) {
	var (
		best  float64
		out   celestial.State
		found bool
	)
	for i, b := range bodies {
		if i == idx {
			continue
		}
		d := b.Position.Sub(bodies[idx].Position)
		r2 := d.Dot(d)
		if r2 == 0 {
			continue
		}
		if pull := b.Mass / r2; pull > best {
			best, out, found = pull, b, true
		}
	}
	return out, found
}
