package celestial

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		err    error
	}{
		{"zero mass", Params{Name: "a", Mass: 0, Radius: 1}, ErrInvalidMass},
		{"negative mass", Params{Name: "a", Mass: -5, Radius: 1}, ErrInvalidMass},
		{"nan mass", Params{Name: "a", Mass: math.NaN(), Radius: 1}, ErrInvalidMass},
		{"zero radius", Params{Name: "a", Mass: 1, Radius: 0}, ErrInvalidRadius},
		{"negative radius", Params{Name: "a", Mass: 1, Radius: -1}, ErrInvalidRadius},
		{"inf position", Params{Name: "a", Mass: 1, Radius: 1, Position: mgl64.Vec3{math.Inf(1), 0, 0}}, ErrNonFinite},
		{"nan velocity", Params{Name: "a", Mass: 1, Radius: 1, Velocity: mgl64.Vec3{0, math.NaN(), 0}}, ErrNonFinite},
		{"spin without axis", Params{Name: "a", Mass: 1, Radius: 1, SpinRate: 1}, ErrInvalidSpin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(0, tt.params)
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
			if b != nil {
				t.Error("expected nil body on error")
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	b, err := New(7, Params{Name: "earth", Mass: 5, Radius: 2, Position: mgl64.Vec3{1, 2, 3}})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	if b.ID() != 7 || b.Name() != "earth" {
		t.Errorf("unexpected identity %s", b)
	}
	if b.Orientation() != mgl64.QuatIdent() {
		t.Errorf("expected identity orientation, got %v", b.Orientation())
	}
	if b.Position() != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("unexpected position %v", b.Position())
	}
}

func TestIntegrateSemiImplicit(t *testing.T) {
	b, err := New(0, Params{Name: "a", Mass: 1, Radius: 1, Velocity: mgl64.Vec3{1, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}

	b.Integrate(mgl64.Vec3{0, 2, 0}, 0.5)

	// v = (1, 1, 0); p = v * 0.5 uses the updated velocity
	if b.Velocity() != (mgl64.Vec3{1, 1, 0}) {
		t.Errorf("unexpected velocity %v", b.Velocity())
	}
	if b.Position() != (mgl64.Vec3{0.5, 0.5, 0}) {
		t.Errorf("unexpected position %v", b.Position())
	}
}

func TestIntegrateZeroDt(t *testing.T) {
	b, _ := New(0, Params{Name: "a", Mass: 1, Radius: 1, Velocity: mgl64.Vec3{3, 0, 0},
		SpinAxis: mgl64.Vec3{0, 1, 0}, SpinRate: 1})
	before := b.State()

	b.Integrate(mgl64.Vec3{10, 10, 10}, 0)

	if b.State() != before {
		t.Errorf("zero dt changed state: %+v -> %+v", before, b.State())
	}
}

func TestIntegrateSpin(t *testing.T) {
	b, _ := New(0, Params{Name: "a", Mass: 1, Radius: 1, SpinAxis: mgl64.Vec3{0, 2, 0}, SpinRate: math.Pi / 2})

	b.Integrate(mgl64.Vec3{}, 1)

	rotated := b.Orientation().Rotate(mgl64.Vec3{1, 0, 0})
	if !rotated.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-12) {
		t.Errorf("expected quarter turn about y, got %v", rotated)
	}
	if math.Abs(b.Orientation().Len()-1) > 1e-12 {
		t.Errorf("orientation not normalized: %f", b.Orientation().Len())
	}
	if b.Position() != (mgl64.Vec3{}) || b.Velocity() != (mgl64.Vec3{}) {
		t.Error("spin must not affect dynamics")
	}
}

func TestStateIsCopy(t *testing.T) {
	b, _ := New(1, Params{Name: "moon", Mass: 1, Radius: 0.5, Velocity: mgl64.Vec3{0, 0, 2}})
	s := b.State()
	s.Position[0] = 99

	if b.Position()[0] != 0 {
		t.Error("mutating a state copy changed the body")
	}
	if s.Speed() != 2 {
		t.Errorf("expected speed 2, got %f", s.Speed())
	}
	if !s.IsValid() {
		t.Error("expected valid state")
	}
}

func TestModelMatrix(t *testing.T) {
	b, _ := New(0, Params{Name: "a", Mass: 1, Radius: 2, Position: mgl64.Vec3{1, 2, 3}})
	m := b.State().ModelMatrix()

	p := m.Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	if !p.Vec3().ApproxEqual(mgl64.Vec3{3, 2, 3}) {
		t.Errorf("expected scaled and translated point, got %v", p)
	}
}

func TestStateSphere(t *testing.T) {
	b, _ := New(0, Params{Name: "a", Mass: 3, Radius: 4})
	sp := b.State().Sphere()
	if sp.Mass() != 3 || sp.Radius() != 4 {
		t.Errorf("unexpected sphere %+v", sp)
	}
}
