package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/erisim/internal/celestial"
)

func LinearMomentum(bodies []celestial.State) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range bodies {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// AngularMomentum is Σ r × m·v about the origin.
func AngularMomentum(bodies []celestial.State) mgl64.Vec3 {
	var l mgl64.Vec3
	for _, b := range bodies {
		l = l.Add(b.Position.Cross(b.Velocity.Mul(b.Mass)))
	}
	return l
}

func CenterOfMass(bodies []celestial.State) mgl64.Vec3 {
	var sum mgl64.Vec3
	total := 0.0
	for _, b := range bodies {
		sum = sum.Add(b.Position.Mul(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return mgl64.Vec3{}
	}
	return sum.Mul(1 / total)
}

// Momentum reports the largest absolute change of the linear momentum vector.
// Total momentum is often zero, so a relative measure would be meaningless.
type Momentum struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum_drift"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(t float64, bodies []celestial.State) {
	p := LinearMomentum(bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *Momentum) Value() float64 { return m.maxDrift }

func (m *Momentum) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

type AngularMomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewAngularMomentum() *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift"}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(t float64, bodies []celestial.State) {
	l := AngularMomentum(bodies)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++

	drift := l.Sub(a.initial).Len()
	if n := a.initial.Len(); n != 0 {
		drift /= n
	}
	a.maxDrift = math.Max(a.maxDrift, drift)
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = mgl64.Vec3{}
	a.maxDrift = 0
	a.samples = 0
}
