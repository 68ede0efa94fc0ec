// Package celestial holds the physics-only body entity of the simulation.
package celestial

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Params are the initial values of a body.
type Params struct {
	Name        string
	Mass        float64
	Radius      float64
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Orientation mgl64.Quat // zero value means identity
	SpinAxis    mgl64.Vec3
	SpinRate    float64 // rad per unit of simulated time
}

// Body is one gravitating point mass with a visual radius. Identity, mass and
// radius never change after New; position, velocity and orientation are
// mutated only through Integrate.
type Body struct {
	id     int
	name   string
	mass   float64
	radius float64

	position    mgl64.Vec3
	velocity    mgl64.Vec3
	orientation mgl64.Quat
	spinAxis    mgl64.Vec3
	spinRate    float64
}

func New(id int, p Params) (*Body, error) {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return nil, fmt.Errorf("body %q: %w (got %g)", p.Name, ErrInvalidMass, p.Mass)
	}
	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		return nil, fmt.Errorf("body %q: %w (got %g)", p.Name, ErrInvalidRadius, p.Radius)
	}
	if !finiteVec(p.Position) || !finiteVec(p.Velocity) || !finiteVec(p.SpinAxis) ||
		math.IsNaN(p.SpinRate) || math.IsInf(p.SpinRate, 0) {
		return nil, fmt.Errorf("body %q: %w", p.Name, ErrNonFinite)
	}

	orientation := p.Orientation
	if orientation == (mgl64.Quat{}) {
		orientation = mgl64.QuatIdent()
	} else {
		if !finiteVec(orientation.V) || math.IsNaN(orientation.W) || math.IsInf(orientation.W, 0) {
			return nil, fmt.Errorf("body %q: %w", p.Name, ErrNonFinite)
		}
		orientation = orientation.Normalize()
	}

	axis := p.SpinAxis
	if p.SpinRate != 0 {
		if axis.Len() == 0 {
			return nil, fmt.Errorf("body %q: %w", p.Name, ErrInvalidSpin)
		}
		axis = axis.Normalize()
	}

	return &Body{
		id:          id,
		name:        p.Name,
		mass:        p.Mass,
		radius:      p.Radius,
		position:    p.Position,
		velocity:    p.Velocity,
		orientation: orientation,
		spinAxis:    axis,
		spinRate:    p.SpinRate,
	}, nil
}

func (b *Body) ID() int                 { return b.id }
func (b *Body) Name() string            { return b.name }
func (b *Body) Mass() float64           { return b.mass }
func (b *Body) Radius() float64         { return b.radius }
func (b *Body) Position() mgl64.Vec3    { return b.position }
func (b *Body) Velocity() mgl64.Vec3    { return b.velocity }
func (b *Body) Orientation() mgl64.Quat { return b.orientation }

// Integrate advances the body by one semi-implicit Euler step: the velocity
// is updated first and the new velocity moves the position. The cosmetic spin
// is applied last and does not touch the dynamics. dt must be finite and
// non-negative; the tick driver guarantees it.
func (b *Body) Integrate(acc mgl64.Vec3, dt float64) {
	b.velocity = b.velocity.Add(acc.Mul(dt))
	b.position = b.position.Add(b.velocity.Mul(dt))

	if b.spinRate != 0 && dt != 0 {
		step := mgl64.QuatRotate(b.spinRate*dt, b.spinAxis)
		b.orientation = step.Mul(b.orientation).Normalize()
	}
}

// State returns a copy of the body that is safe to hand to readers.
func (b *Body) State() State {
	return State{
		ID:          b.id,
		Name:        b.name,
		Mass:        b.mass,
		Radius:      b.radius,
		Position:    b.position,
		Velocity:    b.velocity,
		Orientation: b.orientation,
	}
}

func (b *Body) String() string {
	return fmt.Sprintf("%s#%d", b.name, b.id)
}

func finiteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
