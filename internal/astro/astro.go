package astro

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Massive is anything with a mass and a physical radius.
type Massive interface {
	Mass() float64
	Radius() float64
}

// Mu returns the standard gravitational parameter μ = G·M.
func (c Constants) Mu(b Massive) float64 {
	return c.EffectiveG() * b.Mass()
}

// EscapeVelocity returns the speed needed at the body's surface to escape
// to infinity. The radius must be positive.
func (c Constants) EscapeVelocity(b Massive) float64 {
	return math.Sqrt(2 * c.Mu(b) / b.Radius())
}

// CircularVelocity returns the speed a massless particle needs to hold a
// circular orbit of radius r around b. r must be positive.
func (c Constants) CircularVelocity(b Massive, r float64) float64 {
	return math.Sqrt(c.Mu(b) / r)
}

// SurfaceGravity returns the gravitational acceleration at the body's radius.
func (c Constants) SurfaceGravity(b Massive) float64 {
	r := b.Radius()
	return c.Mu(b) / (r * r)
}

// OrbitalPeriod returns the period of a circular orbit of radius r around b.
func (c Constants) OrbitalPeriod(b Massive, r float64) float64 {
	return 2 * math.Pi * math.Sqrt(r*r*r/c.Mu(b))
}

// OrbitVelocity returns the velocity that puts a body at pos on a circular
// orbit around parent, which sits at parentPos moving with parentVel. The
// orbit lies in the plane perpendicular to normal; motion follows the right
// hand rule around it.
func (c Constants) OrbitVelocity(parent Massive, parentPos, parentVel, pos, normal mgl64.Vec3) (mgl64.Vec3, error) {
	radial := pos.Sub(parentPos)
	r := radial.Len()
	if r == 0 {
		return mgl64.Vec3{}, fmt.Errorf("%w: body coincides with its parent", ErrDegenerateOrbit)
	}

	tangent := normal.Cross(radial)
	if tangent.Len() < 1e-12*r*normal.Len() || normal.Len() == 0 {
		return mgl64.Vec3{}, fmt.Errorf("%w: normal %v is parallel to the radius vector", ErrDegenerateOrbit, normal)
	}

	speed := c.CircularVelocity(parent, r)
	return parentVel.Add(tangent.Normalize().Mul(speed)), nil
}

// Sphere is a plain mass and radius pair.
type Sphere struct {
	M, R float64
}

func (s Sphere) Mass() float64   { return s.M }
func (s Sphere) Radius() float64 { return s.R }
