// Package metrics provides conserved-quantity diagnostics for a body set.
//
// The free functions compute a quantity for one snapshot. The metric types
// accumulate over a run and satisfy sim.Metric:
//
//   - [EnergyDrift]: maximum relative change of total energy
//   - [Momentum]: maximum change of linear momentum
//   - [AngularMomentum]: maximum relative change of angular momentum
//   - [ClosestApproach]: minimum pair separation observed
//   - [Stability]: fraction of samples with every body inside a radius
//
// Semi-implicit Euler is not symplectic in general, so a slow energy drift is
// expected on long runs. Momentum is conserved to rounding because every pair
// is applied with opposite signs.
package metrics
