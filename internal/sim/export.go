package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
)

// SnapshotExport is the JSON-serializable state of a simulation.
type SnapshotExport struct {
	Source           string       `json:"source"`
	Frames           uint64       `json:"frames"`
	SimulatedSeconds float64      `json:"simulated_seconds"`
	Speed            float64      `json:"speed"`
	Bodies           []BodyExport `json:"bodies"`
	Stars            StarsExport  `json:"stars"`
	LiveResources    int          `json:"live_resources"`
}

// BodyExport is a JSON-friendly body with its derived world position.
type BodyExport struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Parent      int        `json:"parent"`
	Position    [3]float64 `json:"position"`
	Orientation float64    `json:"orientation"`
	OrbitAngle  *float64   `json:"orbit_angle,omitempty"`
	Distance    float64    `json:"distance,omitempty"`
}

// StarsExport summarizes the star field.
type StarsExport struct {
	Count  int     `json:"count"`
	Radius float64 `json:"radius"`
	Seed   int64   `json:"seed"`
	Time   float64 `json:"time"`
}

// Export captures the current state.
func (s *Simulation) Export() *SnapshotExport {
	cfg := s.stars.Config()
	export := &SnapshotExport{
		Source:           s.source,
		Frames:           s.frames,
		SimulatedSeconds: s.simSeconds,
		Speed:            s.speed,
		Stars: StarsExport{
			Count:  s.stars.Len(),
			Radius: cfg.Radius,
			Seed:   cfg.Seed,
			Time:   s.stars.Time(),
		},
		LiveResources: s.resources.Live(),
	}

	for _, id := range s.Bodies() {
		b := s.arena.Body(id)
		p := s.arena.WorldPosition(id)
		be := BodyExport{
			ID:          int(id),
			Name:        b.Name,
			Kind:        b.Kind.String(),
			Parent:      int(s.arena.Parent(id)),
			Position:    [3]float64{p.X, p.Y, p.Z},
			Orientation: b.Orientation,
		}
		if b.Orbit != nil {
			angle := b.Orbit.Angle
			be.OrbitAngle = &angle
			be.Distance = b.Orbit.Distance
		}
		export.Bodies = append(export.Bodies, be)
	}
	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (e *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteSummaryTable writes a text table of every body to w.
func (s *Simulation) WriteSummaryTable(w io.Writer) {
	fmt.Fprintf(w, "Orrery @ frame %d, %s simulated (speed ×%g)\n",
		s.frames, FormatDuration(s.simSeconds), s.speed)
	fmt.Fprintln(w, strings.Repeat("─", 78))

	// Header
	fmt.Fprintf(w, "%-12s %-7s %-10s %9s %9s %9s %8s %8s\n",
		"Body", "Kind", "Parent", "X", "Y", "Z", "Orbit°", "Spin°")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	// Rows
	for _, id := range s.Bodies() {
		b := s.arena.Body(id)
		p := s.arena.WorldPosition(id)

		parent := "-"
		if pid := s.arena.Parent(id); pid != body.NoParent {
			parent = s.arena.Body(pid).Name
		}
		orbit := "-"
		if b.Orbit != nil {
			orbit = fmt.Sprintf("%.1f", astro.RadToDeg(b.Orbit.Angle))
		}

		fmt.Fprintf(w, "%-12s %-7s %-10s %9.3f %9.3f %9.3f %8s %8.1f\n",
			truncateStr(b.Name, 12),
			b.Kind,
			truncateStr(parent, 10),
			p.X, p.Y, p.Z,
			orbit,
			astro.RadToDeg(b.Orientation),
		)
	}

	cfg := s.stars.Config()
	fmt.Fprintf(w, "\nTotal: %d bodies, %d stars (radius %g, seed %d), %d live resources\n",
		s.arena.Len(), s.stars.Len(), cfg.Radius, cfg.Seed, s.resources.Live())
}

// FormatDuration renders simulated seconds in the largest sensible unit.
func FormatDuration(seconds float64) string {
	switch {
	case seconds >= 365.25*86400:
		return fmt.Sprintf("%.2f years", seconds/(365.25*86400))
	case seconds >= 86400:
		return fmt.Sprintf("%.1f days", seconds/86400)
	case seconds >= 3600:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	default:
		return fmt.Sprintf("%.0f s", seconds)
	}
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
