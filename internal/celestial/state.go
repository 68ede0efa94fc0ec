package celestial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/erisim/internal/astro"
)

// State is a read-only snapshot of a body at the end of a tick. It is what
// renderers, metrics and storage consume.
type State struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Mass        float64    `json:"mass"`
	Radius      float64    `json:"radius"`
	Position    mgl64.Vec3 `json:"position"`
	Velocity    mgl64.Vec3 `json:"velocity"`
	Orientation mgl64.Quat `json:"orientation"`
}

func (s State) Speed() float64 { return s.Velocity.Len() }

// IsValid reports whether position and velocity are free of NaN and Inf.
func (s State) IsValid() bool {
	return finiteVec(s.Position) && finiteVec(s.Velocity) &&
		!math.IsNaN(s.Orientation.W) && finiteVec(s.Orientation.V)
}

// ModelMatrix composes translation, orientation and a uniform radius scale.
func (s State) ModelMatrix() mgl64.Mat4 {
	p := s.Position
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(s.Orientation.Mat4()).
		Mul4(mgl64.Scale3D(s.Radius, s.Radius, s.Radius))
}

// Sphere lets a State stand in for its body in the astro helpers.
func (s State) Sphere() astro.Sphere {
	return astro.Sphere{M: s.Mass, R: s.Radius}
}
