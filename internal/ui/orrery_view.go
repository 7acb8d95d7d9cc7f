package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Every body
)

func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	case LabelAll:
		return "all"
	default:
		return "?"
	}
}

// hudLines is the height reserved below the canvas.
const hudLines = 2

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

const defaultZoom = 3 // Index of 1.0 in zoomLevels

// OrreryModel renders a top-down view of the simulated system, looking
// down the orbit axis.
type OrreryModel struct {
	width  int
	height int
	sim    *sim.Simulation

	// View state
	focus      body.ID // Focused body, NoParent for none
	zoomLevel  int     // Index into zoomLevels
	panX       float64 // Pan offset in display units
	panY       float64
	scaleMode  astro.ScaleMode
	labelMode  LabelMode
	userPanned bool // True if user has manually panned (disables auto-center on zoom)
	showStars  bool
	showOrbits bool
}

// NewOrreryModel creates a view of s.
func NewOrreryModel(s *sim.Simulation) OrreryModel {
	return OrreryModel{
		sim:        s,
		focus:      body.NoParent,
		zoomLevel:  defaultZoom,
		scaleMode:  astro.ScaleLog,
		labelMode:  LabelFocused,
		showStars:  true,
		showOrbits: true,
	}
}

// scale returns the current zoom scale.
func (m OrreryModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// SetSize updates the viewport size.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	return m
}

// Focus returns the focused body, or NoParent.
func (m OrreryModel) Focus() body.ID { return m.focus }

// SetFocus focuses id without moving the view; NoParent clears the focus.
func (m OrreryModel) SetFocus(id body.ID) OrreryModel {
	if id != body.NoParent && m.sim.Arena().Body(id) == nil {
		id = body.NoParent
	}
	m.focus = id
	return m
}

// ShowStars returns whether the star field is drawn.
func (m OrreryModel) ShowStars() bool { return m.showStars }

// ShowOrbits returns whether orbit lines are drawn.
func (m OrreryModel) ShowOrbits() bool { return m.showOrbits }

// Update handles input messages.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Focus navigation
		case "j", "[":
			m.focusStep(-1)
		case "k", "]":
			m.focusStep(1)

		// Viewport panning
		case "up":
			m.panY -= 0.1 / m.scale()
			m.userPanned = true
		case "down":
			m.panY += 0.1 / m.scale()
			m.userPanned = true
		case "left":
			m.panX -= 0.1 / m.scale()
			m.userPanned = true
		case "right":
			m.panX += 0.1 / m.scale()
			m.userPanned = true
		case "c":
			m.panX, m.panY = 0, 0 // Center on Sun
			m.userPanned = false

		// Zoom (discrete levels) - only auto-center if user hasn't panned
		case "+", "=":
			if m.zoomLevel < len(zoomLevels)-1 {
				m.zoomLevel++
				if !m.userPanned {
					m.centerOnFocused()
				}
			}
		case "-":
			if m.zoomLevel > 0 {
				m.zoomLevel--
				if !m.userPanned {
					m.centerOnFocused()
				}
			}
		case "0":
			m.zoomLevel = defaultZoom
			if !m.userPanned {
				m.centerOnFocused()
			}

		case "z":
			m.scaleMode = (m.scaleMode + 1) % 3
			if !m.userPanned {
				m.centerOnFocused()
			}

		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "t":
			m.showStars = !m.showStars
		case "o":
			m.showOrbits = !m.showOrbits
		}
	}
	return m, nil
}

// focusStep moves the focus through the bodies in update order. From no
// focus, forward lands on the first body and backward on the last.
func (m *OrreryModel) focusStep(dir int) {
	bodies := m.sim.Bodies()
	if len(bodies) == 0 {
		return
	}
	idx := -1
	for i, id := range bodies {
		if id == m.focus {
			idx = i
		}
	}
	switch {
	case idx < 0 && dir > 0:
		idx = 0
	case idx < 0:
		idx = len(bodies) - 1
	default:
		idx = (idx + dir + len(bodies)) % len(bodies)
	}
	m.focus = bodies[idx]
	m.centerOnFocused()
	m.userPanned = false
}

// centerOnFocused pans the view to center on the focused body.
func (m *OrreryModel) centerOnFocused() {
	if m.focus == body.NoParent || m.sim.Arena().Body(m.focus) == nil {
		m.panX, m.panY = 0, 0
		return
	}
	proj := astro.ProjectTopDown(m.sim.WorldPosition(m.focus), m.projection())
	m.panX = -proj.X
	m.panY = -proj.Y
}

func (m OrreryModel) projection() astro.ProjectionConfig {
	return astro.ProjectionConfig{
		Scale:  m.scale(),
		Mode:   m.scaleMode,
		Extent: systemExtent(m.sim),
	}
}

// systemExtent is the farthest a body can get from the Sun: each top-level
// orbit plus the widest moon orbit beneath it.
func systemExtent(s *sim.Simulation) float64 {
	a := s.Arena()
	var extent float64
	var reach func(id body.ID) float64
	reach = func(id body.ID) float64 {
		var d float64
		if b := a.Body(id); b != nil && b.Orbit != nil {
			d = b.Orbit.Distance
		}
		var widest float64
		for _, c := range a.Children(id) {
			widest = math.Max(widest, reach(c))
		}
		return d + widest
	}
	for _, p := range s.Planets() {
		extent = math.Max(extent, reach(p))
	}
	if extent <= 0 {
		return 1
	}
	return extent
}

// geometry maps scene positions to canvas cells for one frame.
type geometry struct {
	w, h             int
	originX, originY int
	unit             float64 // Cells per projected unit, horizontally
	cfg              astro.ProjectionConfig
}

func (m OrreryModel) canvasSize() (int, int) {
	h := m.height - hudLines
	if h < 5 {
		h = 5
	}
	return m.width, h
}

func (m OrreryModel) geometry() geometry {
	w, h := m.canvasSize()
	cx, cy := w/2, h/2

	// Fit the outermost orbit in the smaller half-extent; rows count double.
	unit := float64(min(cx, cy*2)) * 0.9

	return geometry{
		w:       w,
		h:       h,
		originX: cx + int(math.Round(m.panX*unit)),
		originY: cy - int(math.Round(m.panY*unit*0.5)),
		unit:    unit,
		cfg:     m.projection(),
	}
}

func (g geometry) toScreen(p astro.Vec3) (x, y int, ok bool) {
	proj := astro.ProjectTopDown(p, g.cfg)
	x = g.originX + int(math.Round(proj.X*g.unit))
	y = g.originY - int(math.Round(proj.Y*g.unit*0.5)) // Aspect ratio correction
	return x, y, x >= 0 && x < g.w && y >= 0 && y < g.h
}

// placed is a body's footprint on the canvas.
type placed struct {
	id      body.ID
	x, y    int
	radius  float64 // Pick radius in cells
	name    string
	kind    body.Kind
	moon    bool
	giant   bool
	ringed  bool
	focused bool
	mesh    render.Handle
}

// layout places every visible body in draw order: planets and moons first,
// the Sun last so it is always on top.
func (m OrreryModel) layout(g geometry) []placed {
	a := m.sim.Arena()
	var out []placed
	add := func(id body.ID) {
		b := a.Body(id)
		x, y, ok := g.toScreen(m.sim.WorldPosition(id))
		if !ok {
			return
		}
		p := placed{
			id:      id,
			x:       x,
			y:       y,
			radius:  1,
			name:    b.Name,
			kind:    b.Kind,
			moon:    a.Parent(id) != body.NoParent,
			giant:   b.Radius >= 2,
			focused: id == m.focus,
			mesh:    b.Mesh,
		}
		if b.Orbit != nil && b.Orbit.Ring != nil {
			p.ringed = true
			p.radius = 2
		}
		if b.Kind == body.KindLight {
			p.radius = 2
		}
		out = append(out, p)
	}

	for _, p := range m.sim.Planets() {
		for _, id := range a.Walk(p) {
			add(id)
		}
	}
	add(m.sim.Sun())
	return out
}

// HitAt returns the body drawn at canvas cell (x, y).
func (m OrreryModel) HitAt(x, y int) (body.ID, bool) {
	if m.sim == nil || m.width <= 0 {
		return body.NoParent, false
	}
	w, h := m.canvasSize()
	if x < 0 || x >= w || y < 0 || y >= h {
		return body.NoParent, false
	}

	placements := m.layout(m.geometry())
	hits := make([]render.Hit, 0, len(placements))
	for _, p := range placements {
		hits = append(hits, render.Hit{Handle: p.mesh, X: p.x, Y: p.y, Radius: p.radius})
	}
	h2, ok := render.Pick(hits, x, y)
	if !ok {
		return body.NoParent, false
	}
	return m.sim.Pick(h2)
}

// View renders the orrery view.
func (m OrreryModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orrery view"
	}

	grid := m.buildCanvas()
	hud := m.renderHUD()

	return lipgloss.JoinVertical(lipgloss.Left, grid, hud)
}

// canvas is a character grid with an optional explicit color per cell.
type canvas struct {
	cells [][]rune
	tint  [][]string
}

func newCanvas(w, h int) *canvas {
	c := &canvas{cells: make([][]rune, h), tint: make([][]string, h)}
	for y := range c.cells {
		c.cells[y] = make([]rune, w)
		c.tint[y] = make([]string, w)
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return y >= 0 && y < len(c.cells) && x >= 0 && x < len(c.cells[y])
}

func (c *canvas) set(x, y int, r rune) {
	if c.inside(x, y) {
		c.cells[y][x] = r
		c.tint[y][x] = ""
	}
}

// fill writes r only on an empty cell.
func (c *canvas) fill(x, y int, r rune, color string) {
	if c.inside(x, y) && c.cells[y][x] == ' ' {
		c.cells[y][x] = r
		c.tint[y][x] = color
	}
}

// buildCanvas renders the system to a string canvas.
func (m OrreryModel) buildCanvas() string {
	g := m.geometry()
	c := newCanvas(g.w, g.h)

	// Background first so nothing else is overwritten by it
	if m.showStars {
		m.drawStarfield(c)
	}
	if m.showOrbits {
		m.drawOrbitLines(c, g)
	}

	positions := m.layout(g)
	for _, p := range positions {
		if p.ringed {
			c.set(p.x-1, p.y, '(')
			c.set(p.x+1, p.y, ')')
		}
		c.set(p.x, p.y, m.bodyGlyph(p))
	}

	m.renderLabels(c, positions)
	return m.renderGrid(c)
}

// drawOrbitLines traces each sampled orbit path around its parent's
// current position.
func (m OrreryModel) drawOrbitLines(c *canvas, g geometry) {
	a := m.sim.Arena()
	for _, root := range m.sim.Planets() {
		for _, id := range a.Walk(root) {
			path := a.OrbitLine(id)
			if len(path) == 0 {
				continue
			}
			center := astro.Vec3{}
			if parent := a.Parent(id); parent != body.NoParent {
				center = m.sim.WorldPosition(parent)
			}

			prevX, prevY, _ := g.toScreen(center.Add(path[0]))
			for _, pt := range path[1:] {
				x, y, _ := g.toScreen(center.Add(pt))
				drawSegment(c, prevX, prevY, x, y)
				prevX, prevY = x, y
			}
		}
	}
}

// drawSegment plots the cells between two points, skipping occupied ones.
func drawSegment(c *canvas, x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.fill(x0, y0, '·', "")
		return
	}
	if steps > 512 {
		steps = 512
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(float64(dx)*t))
		y := y0 + int(math.Round(float64(dy)*t))
		c.fill(x, y, '·', "")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawStarfield renders the background star field. Stars sit on a sphere
// far outside the system, so they are drawn by direction over the whole
// canvas, independent of zoom and pan. Only a readable fraction of a dense
// field is drawn.
func (m OrreryModel) drawStarfield(c *canvas) {
	field := m.sim.Stars()
	stars := field.Stars()
	if len(stars) == 0 {
		return
	}
	radius := field.Config().Radius
	h := len(c.cells)
	w := len(c.cells[0])

	budget := max(1, w*h/25)
	stride := max(1, (len(stars)+budget-1)/budget)

	for i := 0; i < len(stars); i += stride {
		s := stars[i]
		sx := int((s.Position.X/radius + 1) / 2 * float64(w-1))
		sy := int((s.Position.Z/radius + 1) / 2 * float64(h-1))

		glyph := starGlyph(s.Size, field.Twinkle(i))
		if glyph != ' ' {
			c.fill(sx, sy, glyph, s.Color.Hex())
		}
	}
}

// starGlyph picks a glyph from a star's size and current twinkle. Dimmed
// stars drop to a smaller glyph or vanish.
func starGlyph(size, twinkle float64) rune {
	brightness := size * twinkle
	switch {
	case brightness >= 2.4:
		return '∗'
	case brightness >= 1.6:
		return '·'
	case brightness >= 0.9:
		return '˙'
	default:
		return ' '
	}
}

// renderLabels draws body labels on the canvas based on label mode.
func (m OrreryModel) renderLabels(c *canvas, positions []placed) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	for _, pos := range positions {
		showLabel := false
		switch m.labelMode {
		case LabelFocused:
			showLabel = pos.focused
		case LabelAll:
			showLabel = !pos.moon || pos.focused
		}
		if !showLabel {
			continue
		}

		labelX := pos.x + 2
		if pos.ringed {
			labelX++
		}
		labelText := pos.name
		if pos.focused {
			labelText = "◄ " + pos.name
		}

		i := 0
		for _, r := range labelText {
			x := labelX + i
			i++
			if !c.inside(x, pos.y) {
				break
			}
			// Labels may cover empty space, orbit dots and stars only
			if ch := c.cells[pos.y][x]; ch == ' ' || ch == '·' || ch == '˙' || ch == '∗' {
				c.set(x, pos.y, r)
				c.tint[pos.y][x] = "label"
			}
		}
	}
}

func (m OrreryModel) bodyGlyph(p placed) rune {
	switch {
	case p.kind == body.KindLight:
		return '☉'
	case p.moon:
		if p.focused {
			return '●'
		}
		return '∘'
	case p.giant:
		if p.focused {
			return '◉'
		}
		return '○'
	default:
		if p.focused {
			return '●'
		}
		return '•'
	}
}

func (m OrreryModel) renderGrid(c *canvas) string {
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	planetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	giantStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	moonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	ringStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))

	starStyles := make(map[string]lipgloss.Style)

	for y, row := range c.cells {
		for x, ch := range row {
			if ch == ' ' {
				b.WriteRune(ch)
				continue
			}

			var style lipgloss.Style
			switch tint := c.tint[y][x]; {
			case tint == "label":
				style = labelStyle
			case tint != "":
				st, ok := starStyles[tint]
				if !ok {
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(tint)).Faint(true)
					starStyles[tint] = st
				}
				style = st
			default:
				switch ch {
				case '·':
					style = dimStyle
				case '☉':
					style = sunStyle
				case '•':
					style = planetStyle
				case '○':
					style = giantStyle
				case '∘':
					style = moonStyle
				case '(', ')':
					style = ringStyle
				case '●', '◉', '◄':
					style = focusStyle
				default:
					style = labelStyle
				}
			}
			b.WriteString(style.Render(string(ch)))
		}
		if y < len(c.cells)-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}

func (m OrreryModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(10)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// First line: focused body, or the instruction overlay
	if b0 := m.sim.Arena().Body(m.focus); b0 != nil {
		glyph := "◆"
		if b0.Kind == body.KindLight {
			glyph = "☉"
		}
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s", glyph, b0.Name)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("From Sun:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f", m.sim.WorldPosition(m.focus).Norm())))
		if b0.Orbit != nil {
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("Orbit:"))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", astro.RadToDeg(b0.Orbit.Angle))))
		}
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Spin:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", astro.RadToDeg(b0.Orientation))))
	} else {
		b.WriteString(dimStyle.Render(Instructions))
	}
	b.WriteString("\n")

	starsName := "off"
	if m.showStars {
		starsName = "on"
	}
	orbitsName := "off"
	if m.showOrbits {
		orbitsName = "on"
	}

	b.WriteString(dimStyle.Render("Mode:"))
	b.WriteString(valueStyle.Render(m.scaleMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(m.labelMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Stars:"))
	b.WriteString(valueStyle.Render(starsName))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Orbits:"))
	b.WriteString(valueStyle.Render(orbitsName))

	return b.String()
}
