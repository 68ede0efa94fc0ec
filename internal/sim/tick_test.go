package sim_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/erisim/internal/astro"
	"github.com/san-kum/erisim/internal/celestial"
	"github.com/san-kum/erisim/internal/gravity"
	"github.com/san-kum/erisim/internal/sim"
)

var testConstants = astro.Constants{G: 1e-7, Scale: 1, Speed: 1, MinSeparation: 1e-6}

var threeBody = []celestial.Params{
	{Name: "alpha", Mass: 1e6, Radius: 10, Position: mgl64.Vec3{0, 0, 0}, Velocity: mgl64.Vec3{0, 0.001, 0}},
	{Name: "beta", Mass: 3e5, Radius: 4, Position: mgl64.Vec3{100, 5, -3}, Velocity: mgl64.Vec3{0, 0.03, 0.002}},
	{Name: "gamma", Mass: 7e4, Radius: 2, Position: mgl64.Vec3{-40, 60, 12}, Velocity: mgl64.Vec3{0.02, -0.01, 0}},
}

// build creates bodies from params, ids taken from the params index, inserted
// into the simulator in the given order.
func build(c astro.Constants, params []celestial.Params, order []int) *sim.Simulator {
	bodies := make([]*celestial.Body, 0, len(order))
	for _, idx := range order {
		b, err := celestial.New(idx, params[idx])
		Expect(err).NotTo(HaveOccurred())
		bodies = append(bodies, b)
	}
	s, err := sim.New(c, bodies, nil)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func byID(states []celestial.State) map[int]celestial.State {
	out := make(map[int]celestial.State, len(states))
	for _, st := range states {
		out[st.ID] = st
	}
	return out
}

func expectVecClose(got, want mgl64.Vec3, tol float64) {
	for k := 0; k < 3; k++ {
		scale := math.Max(1, math.Abs(want[k]))
		ExpectWithOffset(1, got[k]).To(BeNumerically("~", want[k], tol*scale))
	}
}

var _ = Describe("Simulator", func() {
	Describe("construction", func() {
		It("rejects an empty body set", func() {
			_, err := sim.New(testConstants, nil, nil)
			Expect(err).To(MatchError(sim.ErrNoBodies))
		})

		It("rejects duplicate ids", func() {
			a, _ := celestial.New(1, threeBody[0])
			b, _ := celestial.New(1, threeBody[1])
			_, err := sim.New(testConstants, []*celestial.Body{a, b}, nil)
			Expect(err).To(MatchError(sim.ErrDuplicateBody))
		})

		It("rejects nil bodies", func() {
			a, _ := celestial.New(1, threeBody[0])
			_, err := sim.New(testConstants, []*celestial.Body{a, nil}, nil)
			Expect(err).To(MatchError(sim.ErrNilBody))
		})

		It("rejects invalid constants", func() {
			a, _ := celestial.New(1, threeBody[0])
			c := testConstants
			c.G = 0
			_, err := sim.New(c, []*celestial.Body{a}, nil)
			Expect(err).To(MatchError(astro.ErrInvalidConstant))
		})

		It("rejects a zero min separation", func() {
			a, _ := celestial.New(1, threeBody[0])
			c := testConstants
			c.MinSeparation = 0
			_, err := sim.New(c, []*celestial.Body{a}, nil)
			Expect(err).To(MatchError(astro.ErrInvalidConstant))
		})

		It("is not affected by later changes to the caller's slice", func() {
			a, _ := celestial.New(0, threeBody[0])
			b, _ := celestial.New(1, threeBody[1])
			bodies := []*celestial.Body{a, b}
			s, err := sim.New(testConstants, bodies, nil)
			Expect(err).NotTo(HaveOccurred())

			bodies[1] = a
			Expect(s.States()[1].Name).To(Equal("beta"))
		})
	})

	Describe("a single body", func() {
		It("stays at rest indefinitely", func() {
			p := threeBody[0]
			p.Velocity = mgl64.Vec3{}
			s := build(testConstants, []celestial.Params{p}, []int{0})

			for i := 0; i < 1000; i++ {
				s.Tick(1.0 / 60.0)
			}

			st := s.States()[0]
			Expect(st.Position).To(Equal(p.Position))
			Expect(st.Velocity).To(Equal(mgl64.Vec3{}))
		})

		It("keeps its initial velocity", func() {
			s := build(testConstants, threeBody[:1], []int{0})
			for i := 0; i < 100; i++ {
				s.Tick(0.5)
			}
			st := s.States()[0]
			Expect(st.Velocity).To(Equal(threeBody[0].Velocity))
			expectVecClose(st.Position, mgl64.Vec3{0, 0.05, 0}, 1e-12)
		})
	})

	Describe("order independence", func() {
		permutations := [][]int{
			{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
		}

		It("produces the same state for every iteration order", func() {
			reference := build(testConstants, threeBody, identity(3))
			for i := 0; i < 50; i++ {
				reference.Tick(0.25)
			}
			want := byID(reference.States())

			for _, order := range permutations {
				s := build(testConstants, threeBody, order)
				for i := 0; i < 50; i++ {
					s.Tick(0.25)
				}
				got := byID(s.States())
				for id, w := range want {
					expectVecClose(got[id].Position, w.Position, 1e-12)
					expectVecClose(got[id].Velocity, w.Velocity, 1e-12)
				}
			}
		})

		It("reads only the pre-tick snapshot", func() {
			s := build(testConstants, threeBody, identity(3))
			before := s.States()

			acc := make([]mgl64.Vec3, len(before))
			gravity.Accumulate(testConstants.EffectiveG(), testConstants.MinSeparation, gravity.Snapshot(before), acc)

			dt := 2.0
			s.Tick(dt)

			for i, st := range s.States() {
				v := before[i].Velocity.Add(acc[i].Mul(dt))
				p := before[i].Position.Add(v.Mul(dt))
				Expect(st.Velocity).To(Equal(v))
				Expect(st.Position).To(Equal(p))
			}
		})
	})

	Describe("determinism", func() {
		It("replays the same dt sequence to the same trajectory", func() {
			dts := []float64{0.016, 0.017, 0.5, 0, 0.033, 1.25, 0.016}

			a := build(testConstants, threeBody, identity(3))
			b := build(testConstants, threeBody, identity(3))
			for round := 0; round < 20; round++ {
				for _, dt := range dts {
					a.Tick(dt)
					b.Tick(dt)
					Expect(a.States()).To(Equal(b.States()))
				}
			}
			Expect(a.Time()).To(Equal(b.Time()))
		})
	})

	Describe("degenerate geometry", func() {
		It("skips coincident bodies without producing NaN", func() {
			params := []celestial.Params{
				{Name: "a", Mass: 1e6, Radius: 1, Position: mgl64.Vec3{5, 5, 5}},
				{Name: "b", Mass: 2e6, Radius: 1, Position: mgl64.Vec3{5, 5, 5}},
			}
			s := build(testConstants, params, identity(2))

			report := s.Tick(0.1)
			Expect(report.Rejected).To(BeFalse())
			Expect(report.Degenerate).To(HaveLen(1))
			Expect(report.Degenerate[0].Distance).To(BeZero())

			for _, st := range s.States() {
				Expect(st.IsValid()).To(BeTrue())
				Expect(st.Velocity).To(Equal(mgl64.Vec3{}))
				Expect(st.Position).To(Equal(mgl64.Vec3{5, 5, 5}))
			}
		})

		It("skips a separated pair closer than the minimum", func() {
			params := []celestial.Params{
				{Name: "a", Mass: 1e6, Radius: 1},
				{Name: "b", Mass: 1e6, Radius: 1, Position: mgl64.Vec3{1e-8, 0, 0}},
			}
			s := build(testConstants, params, identity(2))

			report := s.Tick(0.1)
			Expect(report.Degenerate).To(HaveLen(1))
			Expect(report.Degenerate[0].Distance).To(BeNumerically("~", 1e-8, 1e-20))

			for _, st := range s.States() {
				Expect(st.IsValid()).To(BeTrue())
				Expect(st.Velocity).To(Equal(mgl64.Vec3{}))
			}
		})

		It("still applies forces from other bodies", func() {
			params := []celestial.Params{
				{Name: "a", Mass: 1e6, Radius: 1},
				{Name: "b", Mass: 1e6, Radius: 1},
				{Name: "c", Mass: 1e6, Radius: 1, Position: mgl64.Vec3{10, 0, 0}},
			}
			s := build(testConstants, params, identity(3))

			report := s.Tick(1)
			Expect(report.Degenerate).To(HaveLen(1))

			states := s.States()
			Expect(states[0].Velocity.X()).To(BeNumerically(">", 0))
			Expect(states[2].Velocity.X()).To(BeNumerically("<", 0))
		})
	})

	Describe("time step handling", func() {
		DescribeTable("rejects invalid dt without touching state",
			func(dt float64) {
				s := build(testConstants, threeBody, identity(3))
				before := s.States()

				report := s.Tick(dt)

				Expect(report.Rejected).To(BeTrue())
				Expect(s.States()).To(Equal(before))
				Expect(s.Ticks()).To(BeZero())
				Expect(s.Time()).To(BeZero())
			},
			Entry("negative", -0.016),
			Entry("NaN", math.NaN()),
			Entry("+Inf", math.Inf(1)),
			Entry("-Inf", math.Inf(-1)),
		)

		It("rejects a step that overflows once scaled", func() {
			fast := testConstants
			fast.Speed = 1e300
			s := build(fast, threeBody, identity(3))
			before := s.States()

			report := s.Tick(1e10)

			Expect(report.Rejected).To(BeTrue())
			Expect(s.States()).To(Equal(before))
			Expect(s.Time()).To(BeZero())
		})

		It("accepts a zero dt as a no-op tick", func() {
			s := build(testConstants, threeBody, identity(3))
			before := s.States()

			report := s.Tick(0)
			Expect(report.Rejected).To(BeFalse())
			Expect(s.Ticks()).To(Equal(1))
			Expect(s.States()).To(Equal(before))
		})

		It("applies the speed multiplier before integrating", func() {
			fast := testConstants
			fast.Speed = 4
			a := build(fast, threeBody, identity(3))
			b := build(testConstants, threeBody, identity(3))

			report := a.Tick(0.5)
			b.Tick(2)

			Expect(report.Dt).To(Equal(2.0))
			Expect(a.States()).To(Equal(b.States()))
			Expect(a.Time()).To(Equal(2.0))
		})

		It("scales gravity by the configured scale", func() {
			scaled := testConstants
			scaled.Scale = 10
			plain := testConstants
			plain.G = testConstants.G * 10

			a := build(scaled, threeBody, identity(3))
			b := build(plain, threeBody, identity(3))
			a.Tick(1)
			b.Tick(1)

			Expect(a.States()).To(Equal(b.States()))
		})
	})

	Describe("lookups", func() {
		It("finds bodies by id", func() {
			s := build(testConstants, threeBody, []int{2, 0, 1})
			st, ok := s.State(1)
			Expect(ok).To(BeTrue())
			Expect(st.Name).To(Equal("beta"))

			_, ok = s.State(42)
			Expect(ok).To(BeFalse())
		})
	})
})
