// Package sim drives the per-tick update of a fixed set of bodies.
//
// Every [Simulator.Tick] runs two phases in order:
//
//   - Accumulate: positions and masses are copied into a snapshot and
//     [gravity.Accumulate] fills one acceleration per body. No body is
//     written during this phase.
//   - Apply: each body integrates its own precomputed acceleration.
//
// Because the snapshot is taken before any body moves, results do not depend
// on the order of the body set and the same sequence of time steps always
// reproduces the same trajectory.
//
// # Example
//
//	s, _ := sim.New(astro.DefaultConstants(), bodies, log)
//	for dt := range frames {
//	    s.Tick(dt)
//	    render(s.States())
//	}
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Ticks are driven from a single
// frame loop.
package sim
