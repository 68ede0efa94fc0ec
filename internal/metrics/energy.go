package metrics

import (
	"math"

	"github.com/san-kum/erisim/internal/astro"
	"github.com/san-kum/erisim/internal/celestial"
	"github.com/san-kum/erisim/internal/gravity"
	"gonum.org/v1/gonum/floats"
)

func KineticEnergy(bodies []celestial.State) float64 {
	terms := make([]float64, len(bodies))
	for i, b := range bodies {
		terms[i] = 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	}
	return floats.Sum(terms)
}

// TotalEnergy is kinetic plus gravitational potential energy, using the same
// effective G and separation guard as the force accumulator.
func TotalEnergy(c astro.Constants, bodies []celestial.State) float64 {
	pe := gravity.PotentialEnergy(c.EffectiveG(), c.MinSeparation, gravity.Snapshot(bodies))
	return KineticEnergy(bodies) + pe
}

// Energy reports the mean total energy over the observed samples.
type Energy struct {
	name    string
	consts  astro.Constants
	samples int
	total   float64
}

func NewEnergy(c astro.Constants) *Energy {
	return &Energy{name: "energy", consts: c}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(t float64, bodies []celestial.State) {
	e.total += TotalEnergy(e.consts, bodies)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

type EnergyDrift struct {
	name          string
	consts        astro.Constants
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(c astro.Constants) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", consts: c}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(t float64, bodies []celestial.State) {
	energy := TotalEnergy(e.consts, bodies)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64   { return e.maxDrift }
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
