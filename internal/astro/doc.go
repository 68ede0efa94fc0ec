// Package astro provides the simulation constants and the derived
// astrodynamics quantities of a gravitating body.
//
//   - [Constants]: gravitational constant, scale and speed multipliers
//   - [Constants.Mu]: standard gravitational parameter (μ = G·M)
//   - [Constants.EscapeVelocity]: surface escape speed
//   - [Constants.CircularVelocity]: circular orbit speed at a radius
//   - [OrbitVelocity]: velocity vector seeding a circular orbit
//
// Every quantity uses [Constants.EffectiveG], so a scaled G (SIM_SCALE)
// applies consistently to the force accumulator and to these helpers.
//
// # Example
//
//	c := astro.DefaultConstants()
//	v := c.CircularVelocity(earth, 100)
package astro
