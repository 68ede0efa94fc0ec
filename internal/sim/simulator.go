package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/erisim/internal/astro"
	"github.com/san-kum/erisim/internal/celestial"
	"github.com/san-kum/erisim/internal/gravity"
	"github.com/san-kum/erisim/internal/metrics"
	"go.uber.org/zap"
)

type Simulator struct {
	consts    astro.Constants
	bodies    []*celestial.Body
	sources   []gravity.Source
	acc       []mgl64.Vec3
	metrics   []Metric
	observers []Observer
	log       *zap.Logger

	t     float64
	ticks int
}

// New builds a simulator over a fixed body set. The slice is copied; the
// simulator never adds or removes bodies afterwards.
func New(c astro.Constants, bodies []*celestial.Body, log *zap.Logger) (*Simulator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, ErrNoBodies
	}
	if log == nil {
		log = zap.NewNop()
	}

	seen := make(map[int]string, len(bodies))
	for i, b := range bodies {
		if b == nil {
			return nil, fmt.Errorf("%w at index %d", ErrNilBody, i)
		}
		if other, ok := seen[b.ID()]; ok {
			return nil, fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateBody, b.ID(), other, b.Name())
		}
		seen[b.ID()] = b.Name()
	}

	owned := make([]*celestial.Body, len(bodies))
	copy(owned, bodies)

	return &Simulator{
		consts:    c,
		bodies:    owned,
		sources:   make([]gravity.Source, len(bodies)),
		acc:       make([]mgl64.Vec3, len(bodies)),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log,
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Constants() astro.Constants { return s.consts }
func (s *Simulator) Len() int                   { return len(s.bodies) }
func (s *Simulator) Time() float64              { return s.t }
func (s *Simulator) Ticks() int                 { return s.ticks }

// States returns a copy of every body, in body-set order.
func (s *Simulator) States() []celestial.State {
	out := make([]celestial.State, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.State()
	}
	return out
}

func (s *Simulator) State(id int) (celestial.State, bool) {
	for _, b := range s.bodies {
		if b.ID() == id {
			return b.State(), true
		}
	}
	return celestial.State{}, false
}

// Tick advances every body by dt (scaled by the speed multiplier). A
// negative or non-finite dt, before or after scaling, is rejected and leaves
// all bodies untouched.
func (s *Simulator) Tick(dt float64) TickReport {
	scaled := s.consts.ScaleDt(dt)
	if !validStep(dt) || !validStep(scaled) {
		s.log.Warn("rejected tick",
			zap.Float64("dt", dt),
			zap.Float64("scaled_dt", scaled),
			zap.Int("tick", s.ticks),
		)
		report := TickReport{Tick: s.ticks, Dt: dt, Rejected: true}
		s.notify(report)
		return report
	}

	dt = scaled
	degenerate := s.accumulate()
	s.apply(dt)

	s.t += dt
	s.ticks++

	report := TickReport{Tick: s.ticks, Dt: dt, Degenerate: degenerate}
	s.notify(report)
	return report
}

// accumulate is the read-only phase.
func (s *Simulator) accumulate() []gravity.Pair {
	for i, b := range s.bodies {
		s.sources[i] = gravity.Source{Position: b.Position(), Mass: b.Mass()}
	}

	pairs := gravity.Accumulate(s.consts.EffectiveG(), s.consts.MinSeparation, s.sources, s.acc)
	for _, p := range pairs {
		s.log.Warn("skipping degenerate pair",
			zap.String("a", s.bodies[p.I].Name()),
			zap.String("b", s.bodies[p.J].Name()),
			zap.Float64("distance", p.Distance),
			zap.Int("tick", s.ticks),
		)
	}
	return pairs
}

// apply is the write phase; each body only sees its own acceleration.
func (s *Simulator) apply(dt float64) {
	for i, b := range s.bodies {
		b.Integrate(s.acc[i], dt)
	}
}

func (s *Simulator) notify(report TickReport) {
	if len(s.observers) == 0 {
		return
	}
	states := s.States()
	for _, o := range s.observers {
		o.OnTick(s.t, states, report)
	}
}

// Energy returns the total kinetic plus potential energy of the body set.
func (s *Simulator) Energy() float64 {
	return metrics.TotalEnergy(s.consts, s.States())
}

// Run replays a fixed-step session of cfg.Duration from the current state.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	states, at := s.States(), s.t
	result.Frames = append(result.Frames, Frame{Time: s.t, Bodies: states})
	initialEnergy := metrics.TotalEnergy(s.consts, states)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(s.t, states)
		}

		report := s.Tick(cfg.Dt)
		result.DegeneratePairs += len(report.Degenerate)
		next := s.States()

		if cfg.ValidateState && !allValid(next) {
			result.Errors = append(result.Errors, SimError{Time: s.t, Step: i, Message: ErrInvalidState.Error()})
			s.log.Error("simulation produced invalid state", zap.Int("step", i), zap.Float64("t", s.t))
			break
		}
		states, at = next, s.t

		result.StepsTaken++
		if result.StepsTaken%every == 0 || i == steps-1 {
			result.Frames = append(result.Frames, Frame{Time: s.t, Bodies: states})
		}
	}

	// states is the last valid set here, so the final step is seen too.
	for _, m := range s.metrics {
		m.Observe(at, states)
		result.Metrics[m.Name()] = m.Value()
	}
	result.EnergyDrift = RelativeDrift(initialEnergy, metrics.TotalEnergy(s.consts, states))

	return result, nil
}

// RunWithCallback ticks until cfg.Duration elapses or callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(t float64, bodies []celestial.State) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for i, steps := 0, stepCount(cfg); i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		states := s.States()
		if !callback(s.t, states) {
			return nil
		}

		s.Tick(cfg.Dt)

		if cfg.ValidateState && !allValid(s.States()) {
			return SimError{Time: s.t, Step: i, Message: ErrInvalidState.Error()}
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must not be negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

// RelativeDrift returns |final-initial| / |initial|, or zero when the initial
// value is zero.
func RelativeDrift(initial, final float64) float64 {
	if initial == 0 {
		return 0
	}
	return math.Abs(final-initial) / math.Abs(initial)
}

func validStep(dt float64) bool {
	return dt >= 0 && !math.IsInf(dt, 0)
}

func stepCount(cfg Config) int {
	return int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
}

func allValid(states []celestial.State) bool {
	for _, st := range states {
		if !st.IsValid() {
			return false
		}
	}
	return true
}
