package metrics

import "github.com/san-kum/erisim/internal/celestial"

// Stability is the fraction of samples in which every body stays within
// radius of the centre of mass. Escaping bodies pull it below one.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(t float64, bodies []celestial.State) {
	s.samples++
	com := CenterOfMass(bodies)
	for _, b := range bodies {
		if b.Position.Sub(com).Len() > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
