package ui

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/sim"
)

// Instructions is shown while no body is selected.
const Instructions = "Click on the Sun or any planet to view detailed information"

const infoPanelWidth = 36

// leadKeys are listed first, in this order; the rest follow sorted.
var leadKeys = []string{"name", "radius", "rotationPeriod"}

// InfoPanel renders the descriptive data of the selected body.
type InfoPanel struct {
	sim      *sim.Simulation
	selected body.ID
}

// NewInfoPanel creates a panel with nothing selected.
func NewInfoPanel(s *sim.Simulation) InfoPanel {
	return InfoPanel{sim: s, selected: body.NoParent}
}

// Select shows id, or clears the panel for NoParent or an unknown body.
func (p InfoPanel) Select(id body.ID) InfoPanel {
	if _, ok := p.sim.Info(id); !ok {
		id = body.NoParent
	}
	p.selected = id
	return p
}

// Selected returns the shown body, or NoParent.
func (p InfoPanel) Selected() body.ID { return p.selected }

// Visible reports whether a body is selected.
func (p InfoPanel) Visible() bool { return p.selected != body.NoParent }

// Rows returns the panel rows as label/value pairs.
func (p InfoPanel) Rows() [][2]string {
	info, ok := p.sim.Info(p.selected)
	if !ok {
		return nil
	}

	var rows [][2]string
	for _, k := range leadKeys {
		if v, ok := info[k]; ok {
			rows = append(rows, [2]string{humanizeKey(k), formatValue(k, v)})
		}
	}

	rest := make([]string, 0, len(info))
	for k := range info {
		if !isLeadKey(k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		rows = append(rows, [2]string{humanizeKey(k), formatValue(k, info[k])})
	}
	return rows
}

func isLeadKey(k string) bool {
	for _, l := range leadKeys {
		if k == l {
			return true
		}
	}
	return false
}

// humanizeKey turns "distanceFromSun" into "Distance From Sun".
func humanizeKey(k string) string {
	var b strings.Builder
	for i, r := range k {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		case r == '_':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func formatValue(key string, v any) string {
	switch val := v.(type) {
	case float64:
		if key == "rotationPeriod" {
			return fmt.Sprintf("%g hours", val)
		}
		return fmt.Sprintf("%g", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case int:
		return fmt.Sprintf("%d", val)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case string:
		return val
	case nil:
		return "-"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// View renders the panel, or the instruction overlay with no selection.
func (p InfoPanel) View() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Width(infoPanelWidth)

	if !p.Visible() {
		hint := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
		return boxStyle.Render(hint.Render(Instructions))
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	b := p.sim.Arena().Body(p.selected)

	var lines []string
	lines = append(lines, titleStyle.Render(b.Name), "")
	for _, row := range p.Rows() {
		if row[0] == "Name" {
			continue
		}
		lines = append(lines, labelStyle.Render(row[0]+":")+" "+valueStyle.Render(row[1]))
	}

	// Live values
	lines = append(lines, "")
	lines = append(lines, labelStyle.Render("Now from Sun:")+" "+
		valueStyle.Render(fmt.Sprintf("%.2f", p.sim.WorldPosition(p.selected).Norm())))
	if b.Orbit != nil {
		lines = append(lines, labelStyle.Render("Orbit angle:")+" "+
			valueStyle.Render(fmt.Sprintf("%.1f°", astro.RadToDeg(b.Orbit.Angle))))
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
