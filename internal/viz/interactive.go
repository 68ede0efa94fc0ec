package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/erisim/internal/config"
	"github.com/san-kum/erisim/internal/sim"
	"go.uber.org/zap"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	subStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9e64")).Bold(true)
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
	keyHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
)

// picker lets the user choose a preset before handing over to the live view.
type picker struct {
	presets []string
	cursor  int
	live    *Model
	err     error
	log     *zap.Logger
	theme   string
}

func newPicker(log *zap.Logger, theme string) picker {
	return picker{presets: config.ListPresets(), log: log, theme: theme}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

func (p picker) start() (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(p.presets[p.cursor])
	build := SessionBuilder(cfg, p.log)

	s, err := build()
	if err != nil {
		p.err = err
		return p, nil
	}

	live := NewModel(cfg.Name, s, build, Options{MaxStep: cfg.Dt, Theme: p.theme, Log: p.log})
	p.live = &live
	return p, live.Init()
}

func (p picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("ERISIM") + "\n")
	b.WriteString("    " + subStyle.Render("gravitational n-body sessions") + "\n")
	b.WriteString("    " + subStyle.Render(strings.Repeat("─", 29)) + "\n\n")

	for i, name := range p.presets {
		cfg := config.Presets[name]
		desc := fmt.Sprintf("%d bodies, x%g speed", len(cfg.Bodies), cfg.Constants.Speed)
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), cursorStyle.Render(fmt.Sprintf("%-14s", name)), itemStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", itemStyle.Render(fmt.Sprintf("%-14s", name)), subStyle.Render(desc)))
		}
	}

	if p.err != nil {
		b.WriteString("\n    " + errStyle.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHintStyle.Render("j/k") + subStyle.Render(" navigate  ") +
		keyHintStyle.Render("enter") + subStyle.Render(" start  ") +
		keyHintStyle.Render("q") + subStyle.Render(" quit") + "\n")
	return b.String()
}

// SessionBuilder returns a Builder constructing a fresh simulator from cfg.
func SessionBuilder(cfg *config.Config, log *zap.Logger) Builder {
	return func() (*sim.Simulator, error) {
		bodies, err := config.Build(cfg)
		if err != nil {
			return nil, err
		}
		return sim.New(cfg.Constants, bodies, log)
	}
}

// RunInteractive shows the preset picker, then the live view.
func RunInteractive(log *zap.Logger, theme string) error {
	_, err := tea.NewProgram(newPicker(log, theme), tea.WithAltScreen()).Run()
	return err
}
