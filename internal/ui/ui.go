// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/version"
)

// Layout
const (
	headerLines = 2 // Title and status line
	footerLines = 2

	panelMinWidth = 80 // Narrower terminals hide the info panel
	panelOuter    = infoPanelWidth + 4
)

// Slider steps for the star field keys.
const (
	starCountStep  = 100
	starRadiusStep = 10
)

// DefaultFrameInterval is the redraw cadence when none is configured.
const DefaultFrameInterval = 33 * time.Millisecond

// Msg types for Bubble Tea
type (
	// FrameMsg drives one simulation step and redraw.
	FrameMsg time.Time

	// ReloadMsg carries a hot-reload result from the descriptor watcher.
	ReloadMsg config.Reload
)

// Options configures the root model.
type Options struct {
	FrameInterval time.Duration
	Reloads       <-chan config.Reload // Nil disables hot reload
	Logger        *logging.Logger

	// Observer receives reload failures that never reach the simulation.
	// Usually the same fan-out the simulation was built with.
	Observer sim.Observer
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	sim      *sim.Simulation
	state    *state.Manager
	observer sim.Observer
	log      *logging.Logger
	reloads  <-chan config.Reload
	interval time.Duration

	// UI state
	width     int
	height    int
	ready     bool
	paused    bool
	statusMsg string
	lastFrame time.Time

	// Sub-models
	orrery OrreryModel
	panel  InfoPanel
}

// New creates a new root UI model.
func New(s *sim.Simulation, stateMgr *state.Manager, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Observer == nil {
		opts.Observer = stateMgr
	}
	return Model{
		sim:      s,
		state:    stateMgr,
		observer: opts.Observer,
		log:      opts.Logger.With("ui"),
		reloads:  opts.Reloads,
		interval: opts.FrameInterval,
		orrery:   NewOrreryModel(s),
		panel:    NewInfoPanel(s),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.interval),
		waitForReload(m.reloads),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "p", " ":
			m.paused = !m.paused

		case ">", ".":
			speed := m.sim.Speed() * 2
			if m.sim.Speed() == 0 {
				speed = 1
			}
			m.setSpeed(speed)
		case "<", ",":
			speed := m.sim.Speed() / 2
			if speed < 1 {
				speed = 0
			}
			m.setSpeed(speed)

		case "a":
			m.rebuildStars(-starCountStep, 0)
		case "A":
			m.rebuildStars(starCountStep, 0)
		case "x":
			m.rebuildStars(0, -starRadiusStep)
		case "X":
			m.rebuildStars(0, starRadiusStep)

		case "esc":
			m.selectBody(body.NoParent)

		default:
			var cmd tea.Cmd
			m.orrery, cmd = m.orrery.Update(msg)
			cmds = append(cmds, cmd)
			m.syncSelection()
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y-headerLines)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.orrery = m.orrery.SetSize(m.orreryWidth(), msg.Height-headerLines-footerLines)

	case FrameMsg:
		m.frame(time.Time(msg))
		cmds = append(cmds, frameCmd(m.interval))

	case ReloadMsg:
		m.reload(config.Reload(msg))
		cmds = append(cmds, waitForReload(m.reloads))
	}

	return m, tea.Batch(cmds...)
}

// frame steps the simulation by the wall-clock time since the last frame.
// The first frame only starts the clock.
func (m *Model) frame(now time.Time) {
	var dt float64
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame).Seconds()
		if dt < 0 {
			dt = 0
		}
	}
	m.lastFrame = now

	speed := m.sim.Speed()
	if m.paused {
		speed = 0
	}
	m.sim.Step(dt, speed)
}

func (m *Model) reload(r config.Reload) {
	if r.Err != nil {
		m.observer.ObserveReload(r.System.Source, r.Err)
		m.statusMsg = "Reload failed: " + r.Err.Error()
		return
	}
	if err := m.sim.ReloadSystem(r.System); err != nil {
		m.statusMsg = "Reload failed: " + err.Error()
		return
	}

	// Old IDs belong to the released arena
	m.orrery = m.orrery.SetFocus(body.NoParent)
	m.panel = m.panel.Select(body.NoParent)
	m.statusMsg = fmt.Sprintf("Reloaded %s (%d bodies)", r.System.Source, r.System.CountBodies())
}

func (m *Model) setSpeed(speed float64) {
	speed = config.SpeedRange.Clamp(speed)
	if speed == m.sim.Speed() {
		return
	}
	m.sim.SetSpeed(speed)
	m.state.Record(state.Event{Type: state.EventSpeedChanged, Detail: fmt.Sprintf("×%g", speed)})
}

func (m *Model) rebuildStars(countDelta int, radiusDelta float64) {
	cfg := m.sim.Stars().Config()
	count := int(config.StarCountRange.Clamp(float64(cfg.Count + countDelta)))
	radius := config.StarRadiusRange.Clamp(cfg.Radius + radiusDelta)
	if count == cfg.Count && radius == cfg.Radius {
		return
	}
	if err := m.sim.RebuildStars(count, radius); err != nil {
		m.log.Warn("rebuild stars: %v", err)
		m.statusMsg = "Star rebuild failed: " + err.Error()
		return
	}
	m.statusMsg = ""
}

// click selects the body under a canvas cell, or clears the selection
// when the cell shows no body. Clicks outside the canvas are ignored.
func (m *Model) click(x, y int) {
	if x < 0 || x >= m.orreryWidth() || y < 0 || y >= m.height-headerLines-footerLines-hudLines {
		return
	}
	id, ok := m.orrery.HitAt(x, y)
	if !ok {
		id = body.NoParent
	}
	m.selectBody(id)
}

func (m *Model) selectBody(id body.ID) {
	m.orrery = m.orrery.SetFocus(id)
	m.syncSelection()
}

// syncSelection makes the info panel follow the orrery focus.
func (m *Model) syncSelection() {
	focus := m.orrery.Focus()
	if focus == m.panel.Selected() {
		return
	}
	m.panel = m.panel.Select(focus)
	if focus == body.NoParent {
		m.state.Record(state.Event{Type: state.EventCleared})
		return
	}
	m.state.Record(state.Event{Type: state.EventSelected, Body: m.sim.Arena().Body(focus).Name})
}

// Selected returns the selected body, or NoParent.
func (m Model) Selected() body.ID { return m.panel.Selected() }

// Paused reports whether simulated time is frozen.
func (m Model) Paused() bool { return m.paused }

// StatusMessage returns the transient status line text.
func (m Model) StatusMessage() string { return m.statusMsg }

func (m Model) panelShown() bool { return m.width >= panelMinWidth }

func (m Model) orreryWidth() int {
	if m.panelShown() {
		return m.width - panelOuter
	}
	return m.width
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	content := m.orrery.View()
	if m.panelShown() {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", m.panel.View())
	}
	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderTitle() + "\n" + m.renderStatusLine()
}

func (m Model) renderTitle() string {
	title := fmt.Sprintf("  ☉ ls-orrery v%s", version.Version)
	runes := []rune(title)

	var b strings.Builder
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, 0, len(runes), 1))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  · " + m.sim.Source()))
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient.
// Creates a vibrant nebula effect: blue -> purple -> magenta -> pink
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Blue (#3B82F6) -> Purple (#8B5CF6) -> Magenta (#D946EF) -> Pink (#EC4899)
	var r, g, b float64

	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	// Vertical fade: brighter at top, darker toward bottom
	brightnessFactor := 1.0 - (yRatio * 0.5)

	return fmt.Sprintf("#%02X%02X%02X",
		clampByte(r*brightnessFactor), clampByte(g*brightnessFactor), clampByte(b*brightnessFactor))
}

func clampByte(v float64) int {
	switch {
	case v > 255:
		return 255
	case v < 0:
		return 0
	default:
		return int(v)
	}
}

func (m Model) renderStatusLine() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	pausedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")).Bold(true)

	stars := m.sim.Stars().Config()

	parts := []string{
		dimStyle.Render("speed ") + accentStyle.Render(fmt.Sprintf("×%g", m.sim.Speed())),
		dimStyle.Render("stars ") + accentStyle.Render(fmt.Sprintf("%d @ %g", stars.Count, stars.Radius)),
		dimStyle.Render("elapsed ") + accentStyle.Render(sim.FormatDuration(m.sim.SimulatedSeconds())),
	}
	if m.paused {
		parts = append(parts, pausedStyle.Render("PAUSED"))
	}
	return "  " + strings.Join(parts, dimStyle.Render("  |  "))
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[int(m.sim.Frames()/3)%len(spinnerFrames)]
	if m.paused {
		spinner = "‖"
	}

	stats := m.state.Stats()
	status := accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" %.0f fps · frame %d", stats.FPS, stats.Frames))

	switch {
	case m.statusMsg != "":
		status += "  " + dimStyle.Render(m.statusMsg)
	case m.state.LastError() != nil:
		status += "  " + errorStyle.Render("ERROR: "+m.state.LastError().Error())
	default:
		if ev := m.state.RecentEvents(1); len(ev) == 1 {
			status += "  " + dimStyle.Render(formatEvent(ev[0]))
		}
	}

	help := dimStyle.Render("click/j/k: select | esc: clear | </>: speed | p: pause | a/A x/X: stars | +/-: zoom | arrows: pan | z: mode | l: labels | t: stars | o: orbits | q: quit")

	return "  " + status + "\n  " + help
}

func formatEvent(e state.Event) string {
	s := string(e.Type)
	if e.Body != "" {
		s += " " + e.Body
	}
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	return s
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// waitForReload blocks on the watcher channel. A nil or closed channel
// ends the loop.
func waitForReload(ch <-chan config.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg(r)
	}
}
