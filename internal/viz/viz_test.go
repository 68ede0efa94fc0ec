package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/erisim/internal/config"
	"github.com/san-kum/erisim/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	got := []rune(c.String())
	if got[0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", got[0])
	}
	if got[1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", got[1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("Clear left a dot set")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)
	for i := 0; i < 20; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot (%d,%d) not set", i, i)
		}
	}
}

func TestCanvasDrawDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawDisc(10, 10, 3)
	if !c.IsSet(10, 10) || !c.IsSet(13, 10) || !c.IsSet(10, 7) {
		t.Error("disc missing expected dots")
	}
	if c.IsSet(13, 13) {
		t.Error("corner outside the disc should stay clear")
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera(10)

	x, y, ok := cam.Project(mgl64.Vec3{}, 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("origin projected to (%d,%d,%v), want (50,40,true)", x, y, ok)
	}

	// top-down: +x right, +z down
	x, y, _ = cam.Project(mgl64.Vec3{10, 0, 0}, 100, 80)
	if x != 90 || y != 40 {
		t.Errorf("+x projected to (%d,%d), want (90,40)", x, y)
	}
	x, y, _ = cam.Project(mgl64.Vec3{0, 0, 5}, 100, 80)
	if x != 50 || y != 60 {
		t.Errorf("+z projected to (%d,%d), want (50,60)", x, y)
	}

	if _, _, ok := cam.Project(mgl64.Vec3{100, 0, 0}, 100, 80); ok {
		t.Error("far point should be off screen")
	}
}

func TestCameraZoomBounds(t *testing.T) {
	cam := NewCamera(1)
	for i := 0; i < 100; i++ {
		cam.ZoomIn()
	}
	if cam.Zoom > 50 {
		t.Errorf("zoom %f exceeds bound", cam.Zoom)
	}
	cam.Rotate(0, 10)
	if cam.Pitch > math.Pi/2 {
		t.Errorf("pitch %f exceeds bound", cam.Pitch)
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.GetPreset("earth-moon")
	build := SessionBuilder(cfg, nil)
	s, err := build()
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(cfg.Name, s, build, Options{MaxStep: cfg.Dt})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelUsesWallClock(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(1000, 0)

	m = update(m, TickMsg(start))
	if m.sim.Ticks() != 0 {
		t.Fatal("first frame should only start the clock")
	}

	m = update(m, TickMsg(start.Add(100*time.Millisecond)))

	// earth-moon runs at x5 with 0.01 max step: 0.5 simulated in 50 ticks
	if got := m.sim.Time(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("simulated time = %f, want 0.5", got)
	}
	if m.sim.Ticks() != 50 {
		t.Errorf("ticks = %d, want 50", m.sim.Ticks())
	}
	if len(m.energy) != 1 {
		t.Errorf("expected one energy sample, got %d", len(m.energy))
	}
}

func TestModelClampsFrameGap(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(1000, 0)

	m = update(m, TickMsg(start))
	m = update(m, TickMsg(start.Add(10*time.Second)))

	if got, want := m.sim.Time(), maxFrameGap*5; math.Abs(got-want) > 1e-9 {
		t.Errorf("simulated time = %f, want %f", got, want)
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(1000, 0)

	m = update(m, TickMsg(start))
	m = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(m, TickMsg(start.Add(100*time.Millisecond)))
	if m.sim.Ticks() != 0 {
		t.Error("paused model should not tick")
	}

	m = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(m, TickMsg(start.Add(110*time.Millisecond)))
	if got := m.sim.Time(); math.Abs(got-0.05) > 1e-9 {
		t.Errorf("resume should only count the last frame, time = %f", got)
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(1000, 0)
	m = update(m, TickMsg(start))
	m = update(m, TickMsg(start.Add(50*time.Millisecond)))

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.sim.Ticks() != 0 || len(m.energy) != 0 {
		t.Error("reset should start a fresh session")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tea.KeyMsg{Type: tea.KeyTab})

	view := m.View()
	for _, want := range []string{"EARTH-MOON", "earth", "moon", "Escape", "μ"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}
}

func TestSessionBuilderFresh(t *testing.T) {
	build := SessionBuilder(config.GetPreset("binary"), nil)
	a, err := build()
	if err != nil {
		t.Fatal(err)
	}
	a.Tick(1)

	b, err := build()
	if err != nil {
		t.Fatal(err)
	}
	if b.Ticks() != 0 || b.Len() != 2 {
		t.Error("builder should return an untouched simulator")
	}
	var _ *sim.Simulator = b
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	if nextTheme(Themes[len(Themes)-1]).Name != Themes[0].Name {
		t.Error("theme cycle should wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}

func TestRatioBar(t *testing.T) {
	if RatioBar(0.5, 0) != "" {
		t.Error("zero width should render nothing")
	}
	bar := RatioBar(2, 10)
	if strings.Count(bar, "█") != 10 {
		t.Errorf("ratio above one should fill the bar: %q", bar)
	}
}
