package sim

import (
	"fmt"

	"github.com/san-kum/erisim/internal/celestial"
	"github.com/san-kum/erisim/internal/gravity"
)

// Metric observes the body set once per tick, before the tick is applied.
type Metric interface {
	Name() string
	Observe(t float64, bodies []celestial.State)
	Value() float64
	Reset()
}

// Observer is notified after every tick, rejected ones included.
type Observer interface {
	OnTick(t float64, bodies []celestial.State, report TickReport)
}

// TickReport describes what a single tick did.
type TickReport struct {
	Tick       int
	Dt         float64 // scaled step actually integrated
	Rejected   bool
	Degenerate []gravity.Pair
}

type Config struct {
	// Dt is the elapsed time handed to every tick, before the speed multiplier.
	Dt       float64
	Duration float64
	// SampleEvery records one frame every n ticks; zero records all of them.
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Duration:      10.0,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Frame is the state of every body at a point in simulated time.
type Frame struct {
	Time   float64           `json:"time"`
	Bodies []celestial.State `json:"bodies"`
}

type Result struct {
	Frames          []Frame
	Metrics         map[string]float64
	EnergyDrift     float64
	StepsTaken      int
	DegeneratePairs int
	Errors          []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
