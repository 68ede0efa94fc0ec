// Package gravity computes Newtonian gravitational accelerations for a fixed
// set of point masses.
//
// [Accumulate] reads a single immutable snapshot of positions and masses and
// writes one acceleration per source. No body state is touched, so the
// caller can only commit the results after every pair has been evaluated:
// the result is a synchronized (Jacobi) update that does not depend on the
// order in which bodies are stored.
//
// Each unordered pair is evaluated once and applied to both members with
// opposite sign, so the underlying pair force obeys Newton's third law
// exactly. Pairs closer than the minimum separation are skipped and reported
// instead of producing NaN.
package gravity
