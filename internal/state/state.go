// Package state provides thread-safe state management for the application.
package state

import (
	"fmt"
	"sync"
	"time"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventSelected       EventType = "SELECTED"
	EventCleared        EventType = "CLEARED"
	EventStarsRebuilt   EventType = "STARS_REBUILT"
	EventSystemReloaded EventType = "SYSTEM_RELOADED"
	EventReloadFailed   EventType = "RELOAD_FAILED"
	EventSpeedChanged   EventType = "SPEED_CHANGED"
)

// Event represents a notable change in the running simulation.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// FrameStats summarizes the most recent simulation step.
type FrameStats struct {
	Frames       uint64
	SimSeconds   float64 // Simulated time, dt·speed summed over frames
	LastDelta    float64 // Wall-clock seconds of the last frame
	StepDuration time.Duration
	FPS          float64 // Averaged over the frame window
}

// Manager handles shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	stats FrameStats

	// Recent frame deltas for the FPS average
	deltas       []float64
	maxDeltas    int
	deltaWriteAt int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	lastError error
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents   int
	FrameWindow int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:   50, // Last 50 events
		FrameWindow: 30, // About one second at the default frame rate
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	window := cfg.FrameWindow
	if window <= 0 {
		window = 30
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		maxDeltas: window,
		deltas:    make([]float64, 0, window),
	}
}

// ObserveStep records one simulation step.
func (m *Manager) ObserveStep(deltaTime, speedFactor float64, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Frames++
	m.stats.SimSeconds += deltaTime * speedFactor
	m.stats.LastDelta = deltaTime
	m.stats.StepDuration = took

	if len(m.deltas) < m.maxDeltas {
		m.deltas = append(m.deltas, deltaTime)
	} else {
		m.deltas[m.deltaWriteAt] = deltaTime
		m.deltaWriteAt = (m.deltaWriteAt + 1) % m.maxDeltas
	}

	var sum float64
	for _, d := range m.deltas {
		sum += d
	}
	if sum > 0 {
		m.stats.FPS = float64(len(m.deltas)) / sum
	}
}

// ObserveStarRebuild records a star field rebuild.
func (m *Manager) ObserveStarRebuild(count int, radius float64) {
	m.Record(Event{
		Type:   EventStarsRebuilt,
		Detail: fmt.Sprintf("%d stars, radius %g", count, radius),
	})
}

// ObserveReload records the outcome of a system reload. A failed reload
// also becomes the last error until the next successful one.
func (m *Manager) ObserveReload(source string, err error) {
	if err != nil {
		m.Record(Event{Type: EventReloadFailed, Body: source, Detail: err.Error()})
		m.mu.Lock()
		m.lastError = err
		m.mu.Unlock()
		return
	}
	m.Record(Event{Type: EventSystemReloaded, Body: source})
	m.mu.Lock()
	m.lastError = nil
	m.mu.Unlock()
}

// Record appends an event, stamping it with the current time if unset.
func (m *Manager) Record(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Stats     FrameStats
	LastError error
	Events    []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Stats:     m.stats,
		LastError: m.lastError,
		Events:    m.getEventsOrdered(),
	}
}

// Stats returns the latest frame statistics.
func (m *Manager) Stats() FrameStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// LastError returns the error of the most recent failed reload, if any.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
