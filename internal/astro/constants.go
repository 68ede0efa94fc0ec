package astro

import (
	"errors"
	"fmt"
	"math"
)

// GravitationalConstant is the CODATA 2018 value in m³/(kg·s²).
const GravitationalConstant = 6.67430e-11

const (
	DefaultScale         = 1.0
	DefaultSpeed         = 1.0
	DefaultMinSeparation = 1e-6
)

var (
	ErrInvalidConstant = errors.New("astro: constant out of valid bounds")
	ErrDegenerateOrbit = errors.New("astro: orbit geometry is degenerate")
)

// Constants is the read-only configuration shared by the force accumulator,
// the tick driver and the derived quantities.
type Constants struct {
	// G is the gravitational constant before scaling.
	G float64 `yaml:"g" toml:"g" json:"g"`
	// Scale multiplies G to keep magnitudes tractable at visualization scale.
	Scale float64 `yaml:"scale" toml:"scale" json:"scale"`
	// Speed multiplies every elapsed time step before integration.
	Speed float64 `yaml:"speed" toml:"speed" json:"speed"`
	// MinSeparation is the distance below which a pair exerts no force.
	MinSeparation float64 `yaml:"min_separation" toml:"min_separation" json:"min_separation"`
}

func DefaultConstants() Constants {
	return Constants{
		G:             GravitationalConstant,
		Scale:         DefaultScale,
		Speed:         DefaultSpeed,
		MinSeparation: DefaultMinSeparation,
	}
}

// EffectiveG is the gravitational constant the simulation actually uses.
func (c Constants) EffectiveG() float64 {
	return c.G * c.Scale
}

// ScaleDt applies the speed multiplier to an elapsed wall-clock step.
func (c Constants) ScaleDt(dt float64) float64 {
	return dt * c.Speed
}

func (c Constants) Validate() error {
	if !positiveFinite(c.G) {
		return fmt.Errorf("%w: g=%g", ErrInvalidConstant, c.G)
	}
	if !positiveFinite(c.Scale) {
		return fmt.Errorf("%w: scale=%g", ErrInvalidConstant, c.Scale)
	}
	if !positiveFinite(c.Speed) {
		return fmt.Errorf("%w: speed=%g", ErrInvalidConstant, c.Speed)
	}
	// The guard compares squared distances, so its square must not underflow.
	if !positiveFinite(c.MinSeparation) || c.MinSeparation*c.MinSeparation == 0 {
		return fmt.Errorf("%w: min_separation=%g", ErrInvalidConstant, c.MinSeparation)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
