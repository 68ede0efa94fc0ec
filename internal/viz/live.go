package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/erisim/internal/astro"
	"github.com/san-kum/erisim/internal/celestial"
	"github.com/san-kum/erisim/internal/metrics"
	"github.com/san-kum/erisim/internal/sim"
	"go.uber.org/zap"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 240
	frameInterval   = time.Second / 60

	// maxFrameGap caps the wall-clock time fed to the simulator for one frame,
	// so a stalled terminal does not turn into one huge step.
	maxFrameGap = 0.25
)

// TickMsg carries the wall-clock time of an animation frame.
type TickMsg time.Time

// Builder returns a fresh simulator for the session; used on reset.
type Builder func() (*sim.Simulator, error)

type Options struct {
	// MaxStep bounds a single Tick; longer frames are split into equal
	// sub-steps. Zero disables splitting.
	MaxStep float64
	Theme   string
	Log     *zap.Logger
}

// Model drives a simulator from the frame clock: every TickMsg hands the
// elapsed wall-clock time since the previous frame to Simulator.Tick.
type Model struct {
	name    string
	sim     *sim.Simulator
	build   Builder
	opts    Options
	log     *zap.Logger
	theme   Theme
	styles  palette
	canvas  *Canvas
	camera  *Camera
	trails  map[int][]mgl64.Vec3
	energy  []float64
	last    time.Time
	running bool
	follow  bool
	help    bool

	selected   int
	degenerate int
	rejected   int
	width      int
	height     int
}

func NewModel(name string, s *sim.Simulator, build Builder, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	theme := GetTheme(opts.Theme)

	return Model{
		name:    name,
		sim:     s,
		build:   build,
		opts:    opts,
		log:     log,
		theme:   theme,
		styles:  newPalette(theme),
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(fitExtent(s.States())),
		trails:  make(map[int][]mgl64.Vec3, s.Len()),
		energy:  make([]float64, 0, historyCapacity),
		running: true,
		width:   width,
		height:  height,
	}
}

// fitExtent frames every body around the centre of mass with some margin.
func fitExtent(bodies []celestial.State) float64 {
	com := metrics.CenterOfMass(bodies)
	extent := 0.0
	for _, b := range bodies {
		extent = math.Max(extent, b.Position.Sub(com).Len()+b.Radius)
	}
	return extent * 1.2
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		if m.running && !m.last.IsZero() {
			m.advance(now.Sub(m.last).Seconds())
		}
		// paused frames still move the clock so resuming does not jump
		m.last = now
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "tab":
		m.selected = (m.selected + 1) % m.sim.Len()
	case "shift+tab":
		m.selected = (m.selected + m.sim.Len() - 1) % m.sim.Len()
	case "f":
		m.follow = !m.follow
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "left", "h":
		m.camera.Rotate(-0.1, 0)
	case "right", "l":
		m.camera.Rotate(0.1, 0)
	case "up", "k":
		m.camera.Rotate(0, 0.1)
	case "down", "j":
		m.camera.Rotate(0, -0.1)
	case "t":
		m.theme = nextTheme(m.theme)
		m.styles = newPalette(m.theme)
	case "?":
		m.help = !m.help
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	// leave room for the side panel and padding
	cw, ch := w-50, h-4
	if cw < 10 || ch < 5 {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

// advance feeds one frame of wall-clock time to the simulator.
func (m *Model) advance(elapsed float64) {
	if elapsed > maxFrameGap {
		m.log.Debug("clamping frame gap", zap.Float64("elapsed", elapsed))
		elapsed = maxFrameGap
	}

	steps := 1
	if m.opts.MaxStep > 0 {
		scaled := m.sim.Constants().ScaleDt(elapsed)
		steps = max(1, int(math.Ceil(scaled/m.opts.MaxStep)))
	}
	dt := elapsed / float64(steps)

	for i := 0; i < steps; i++ {
		report := m.sim.Tick(dt)
		m.degenerate += len(report.Degenerate)
		if report.Rejected {
			m.rejected++
		}
	}

	for _, st := range m.sim.States() {
		trail := append(m.trails[st.ID], st.Position)
		if len(trail) > trailCapacity {
			trail = trail[1:]
		}
		m.trails[st.ID] = trail
	}

	m.energy = append(m.energy, m.sim.Energy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) reset() {
	if m.build == nil {
		return
	}
	s, err := m.build()
	if err != nil {
		m.log.Error("reset failed", zap.Error(err))
		return
	}
	m.sim = s
	m.trails = make(map[int][]mgl64.Vec3, s.Len())
	m.energy = m.energy[:0]
	m.degenerate, m.rejected = 0, 0
	m.selected = min(m.selected, s.Len()-1)
}

// draw renders trails and bodies onto the canvas.
func (m *Model) draw(states []celestial.State) {
	m.canvas.Clear()
	w, h := m.canvas.DotsWide(), m.canvas.DotsTall()

	if m.follow {
		m.camera.Target = states[m.selected].Position
	}

	for _, trail := range m.trails {
		for _, p := range trail {
			if x, y, ok := m.camera.Project(p, w, h); ok {
				m.canvas.Set(x, y)
			}
		}
	}

	scale := m.camera.Scale(w, h)
	for _, st := range states {
		x, y, _ := m.camera.Project(st.Position, w, h)
		m.canvas.DrawDisc(x, y, int(st.Radius*scale))
	}
}

func (m Model) View() string {
	states := m.sim.States()
	m.draw(states)

	s := m.styles
	var b strings.Builder

	b.WriteString(s.header.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case !m.running:
		b.WriteString(s.warning.Render("PAUSED") + "\n\n")
	default:
		b.WriteString(s.muted.Render("RUNNING") + "\n\n")
	}

	c := m.sim.Constants()
	b.WriteString(s.label.Render("Time") + s.value.Render(fmt.Sprintf("%.2f", m.sim.Time())) + "\n")
	b.WriteString(s.label.Render("Ticks") + s.value.Render(fmt.Sprintf("%d", m.sim.Ticks())) + "\n")
	b.WriteString(s.label.Render("Speed") + s.value.Render(fmt.Sprintf("x%g", c.Speed)) + "\n")
	if len(m.energy) > 0 {
		b.WriteString(s.label.Render("Energy") + s.value.Render(fmt.Sprintf("%.6g", m.energy[len(m.energy)-1])) + "\n")
	}
	if m.degenerate > 0 {
		b.WriteString(s.warning.Render(fmt.Sprintf("%d close pairs skipped", m.degenerate)) + "\n")
	}
	if m.rejected > 0 {
		b.WriteString(s.warning.Render(fmt.Sprintf("%d frames rejected", m.rejected)) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		b.WriteString("\n" + chart + "\n")
	}

	b.WriteString("\n" + Separator(36, s.muted) + "\n")
	b.WriteString(m.bodyPanel(states))
	b.WriteString("\n" + s.muted.Render("SP:Pause TAB:Body F:Follow R:Reset\n+/-:Zoom HJKL:Orbit T:Theme Q:Quit"))

	canvasView := s.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, s.panel.Render(b.String()))
	if m.help {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

// bodyPanel lists every body and details the selected one with the derived
// display values.
func (m Model) bodyPanel(states []celestial.State) string {
	s := m.styles
	c := m.sim.Constants()
	var b strings.Builder

	for i, st := range states {
		line := fmt.Sprintf("%-12s v=%.4g", st.Name, st.Speed())
		if i == m.selected {
			b.WriteString(s.selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + s.value.Render(line) + "\n")
		}
	}

	sel := states[m.selected]
	vesc := c.EscapeVelocity(sel.Sphere())
	b.WriteString("\n")
	b.WriteString(s.label.Render("Mass") + s.value.Render(fmt.Sprintf("%.4g", sel.Mass)) + "\n")
	b.WriteString(s.label.Render("Radius") + s.value.Render(fmt.Sprintf("%.4g", sel.Radius)) + "\n")
	b.WriteString(s.label.Render("μ") + s.value.Render(fmt.Sprintf("%.4g", c.Mu(sel.Sphere()))) + "\n")
	b.WriteString(s.label.Render("Escape") + s.value.Render(fmt.Sprintf("%.4g", vesc)) + "\n")
	b.WriteString(s.label.Render("Speed") + s.value.Render(fmt.Sprintf("%.4g", sel.Speed())) + "\n")

	if dom, ok := metrics.Dominant(states, m.selected); ok {
		rel := sel.Velocity.Sub(dom.Velocity).Len()
		r := sel.Position.Sub(dom.Position).Len()
		ratio := rel / c.EscapeVelocity(astro.Sphere{M: dom.Mass, R: r})
		b.WriteString(s.label.Render("Bound") + RatioBar(ratio, 20) + s.muted.Render(" vs "+dom.Name) + "\n")
	}
	return b.String()
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space      Pause/Resume             ║
║  R          Reset session            ║
║  Tab        Select next body         ║
║  F          Follow selected body     ║
║  + / -      Zoom                     ║
║  H J K L    Orbit camera             ║
║  T          Cycle themes             ║
║  ?          Toggle this help         ║
║  Q          Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the live view full screen and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
