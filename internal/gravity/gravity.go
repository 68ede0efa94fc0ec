package gravity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/erisim/internal/celestial"
)

// Source is the part of a body the accumulator reads.
type Source struct {
	Position mgl64.Vec3
	Mass     float64
}

// Pair identifies two sources closer than the minimum separation.
type Pair struct {
	I, J     int
	Distance float64
}

// Snapshot copies the positions and masses out of a set of body states.
func Snapshot(states []celestial.State) []Source {
	src := make([]Source, len(states))
	for i, s := range states {
		src[i] = Source{Position: s.Position, Mass: s.Mass}
	}
	return src
}

// Accumulate writes the net acceleration on every source into out, which
// must have the same length as src. Pairs whose separation is below
// minSeparation, or so close that the pull overflows, contribute nothing and
// are returned.
func Accumulate(g, minSeparation float64, src []Source, out []mgl64.Vec3) []Pair {
	n := len(src)
	if len(out) != n {
		panic("gravity: output buffer length does not match source count")
	}
	for i := range out {
		out[i] = mgl64.Vec3{}
	}

	minD2 := minSeparation * minSeparation
	var skipped []Pair

	for i := 0; i < n; i++ {
		pi := src[i].Position

		for j := i + 1; j < n; j++ {
			delta := src[j].Position.Sub(pi)
			d2 := delta.Dot(delta)

			if d2 <= minD2 || d2 == 0 {
				skipped = append(skipped, Pair{I: i, J: j, Distance: math.Sqrt(d2)})
				continue
			}

			invD2 := 1 / d2
			ai, aj := g*src[j].Mass*invD2, g*src[i].Mass*invD2
			if math.IsInf(ai, 0) || math.IsInf(aj, 0) {
				skipped = append(skipped, Pair{I: i, J: j, Distance: math.Sqrt(d2)})
				continue
			}

			dir := delta.Mul(1 / math.Sqrt(d2))
			out[i] = out[i].Add(dir.Mul(ai))
			out[j] = out[j].Sub(dir.Mul(aj))
		}
	}

	return skipped
}

// Acceleration returns the acceleration that from imposes on on. It does
// not depend on the mass of on.
func Acceleration(g float64, on, from Source) mgl64.Vec3 {
	delta := from.Position.Sub(on.Position)
	d2 := delta.Dot(delta)
	if d2 == 0 {
		return mgl64.Vec3{}
	}
	return delta.Mul(1 / math.Sqrt(d2)).Mul(g * from.Mass * (1 / d2))
}

// Force returns the gravitational force exerted on a by b.
func Force(g float64, a, b Source) mgl64.Vec3 {
	delta := b.Position.Sub(a.Position)
	d2 := delta.Dot(delta)
	if d2 == 0 {
		return mgl64.Vec3{}
	}
	return delta.Mul(1 / math.Sqrt(d2)).Mul(g * a.Mass * b.Mass * (1 / d2))
}

// PotentialEnergy returns the total pairwise potential -Σ G·mi·mj / rij,
// skipping pairs closer than minSeparation.
func PotentialEnergy(g, minSeparation float64, src []Source) float64 {
	pe := 0.0
	for i := 0; i < len(src); i++ {
		for j := i + 1; j < len(src); j++ {
			r := src[j].Position.Sub(src[i].Position).Len()
			if r <= minSeparation || r == 0 {
				continue
			}
			pe -= g * src[i].Mass * src[j].Mass / r
		}
	}
	return pe
}
