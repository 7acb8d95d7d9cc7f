// Package sim drives the orrery: it owns one Sun, the ordered top-level
// planets, one star field and the global speed factor, and advances them
// together once per frame.
//
// A Simulation is not safe for concurrent use; the frame loop owns it.
// The render registry it acquires from may be read concurrently.
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/body"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/starfield"
)

// Observer is notified of simulation activity. Metrics and the event log
// both implement it.
type Observer interface {
	ObserveStep(deltaTime, speedFactor float64, took time.Duration)
	ObserveStarRebuild(count int, radius float64)
	ObserveReload(source string, err error)
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (obs Observers) ObserveStep(deltaTime, speedFactor float64, took time.Duration) {
	for _, o := range obs {
		o.ObserveStep(deltaTime, speedFactor, took)
	}
}

func (obs Observers) ObserveStarRebuild(count int, radius float64) {
	for _, o := range obs {
		o.ObserveStarRebuild(count, radius)
	}
}

func (obs Observers) ObserveReload(source string, err error) {
	for _, o := range obs {
		o.ObserveReload(source, err)
	}
}

type nopObserver struct{}

func (nopObserver) ObserveStep(float64, float64, time.Duration) {}
func (nopObserver) ObserveStarRebuild(int, float64)              {}
func (nopObserver) ObserveReload(string, error)                  {}

// Options configures a Simulation. Zero values select defaults.
type Options struct {
	Stars    starfield.Config
	Speed    float64
	Registry *render.Registry
	Logger   *logging.Logger
	Observer Observer
}

// Simulation is the per-frame driver.
type Simulation struct {
	arena   *body.Arena
	sun     body.ID
	planets []body.ID
	source  string

	stars *starfield.Field
	speed float64

	frames     uint64
	simSeconds float64

	resources *render.Registry
	log       *logging.Logger
	observer  Observer
}

// New builds the system and the star field. The system is validated as a
// whole before any body is constructed.
func New(system config.System, opts Options) (*Simulation, error) {
	if opts.Registry == nil {
		opts.Registry = render.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Stars.Count == 0 && opts.Stars.Radius == 0 {
		opts.Stars = starfield.DefaultConfig()
	}

	s := &Simulation{
		speed:     opts.Speed,
		resources: opts.Registry,
		log:       opts.Logger.With("sim"),
		observer:  opts.Observer,
	}

	if err := s.install(system); err != nil {
		return nil, err
	}
	s.stars = starfield.New(opts.Stars, s.resources)
	s.log.Info("built %s: %d bodies, %d stars", s.source, s.arena.Len(), s.stars.Len())
	return s, nil
}

// build constructs a fresh arena for system. On failure nothing it
// acquired stays live.
func (s *Simulation) build(system config.System) (*body.Arena, body.ID, []body.ID, error) {
	if err := system.Validate(); err != nil {
		return nil, body.NoParent, nil, fmt.Errorf("build %s: %w", system.Source, err)
	}

	arena := body.NewArena(s.resources)
	sun, err := arena.AddSun(system.Sun)
	if err != nil {
		_ = arena.Release()
		return nil, body.NoParent, nil, fmt.Errorf("build %s: %w", system.Source, err)
	}

	planets := make([]body.ID, 0, len(system.Planets))
	for _, p := range system.Planets {
		id, err := arena.AddPlanet(body.NoParent, p)
		if err != nil {
			_ = arena.Release()
			return nil, body.NoParent, nil, fmt.Errorf("build %s: %w", system.Source, err)
		}
		planets = append(planets, id)
	}

	for _, root := range planets {
		for _, id := range arena.Walk(root) {
			arena.CreateOrbitLine(id)
		}
	}
	return arena, sun, planets, nil
}

func (s *Simulation) install(system config.System) error {
	arena, sun, planets, err := s.build(system)
	if err != nil {
		return err
	}
	s.arena, s.sun, s.planets, s.source = arena, sun, planets, system.Source
	return nil
}

// Step advances everything by one frame in a fixed order: the Sun, then
// each top-level planet with its moons, then the star field. Every entity
// sees the same deltaTime and speedFactor.
func (s *Simulation) Step(deltaTime, speedFactor float64) {
	start := time.Now()

	s.arena.Update(s.sun, deltaTime, speedFactor)
	for _, p := range s.planets {
		s.arena.Update(p, deltaTime, speedFactor)
	}
	s.stars.Update(deltaTime, speedFactor)

	s.frames++
	s.simSeconds += deltaTime * speedFactor
	s.observer.ObserveStep(deltaTime, speedFactor, time.Since(start))
}

// Advance steps with the simulation's own speed factor.
func (s *Simulation) Advance(deltaTime float64) {
	s.Step(deltaTime, s.speed)
}

// Speed returns the global speed factor.
func (s *Simulation) Speed() float64 { return s.speed }

// SetSpeed sets the global speed factor. Negative values are clamped to 0.
func (s *Simulation) SetSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	s.speed = speed
}

// Frames returns the number of steps taken.
func (s *Simulation) Frames() uint64 { return s.frames }

// SimulatedSeconds returns the accumulated deltaTime·speedFactor.
func (s *Simulation) SimulatedSeconds() float64 { return s.simSeconds }

// Source names the system currently installed.
func (s *Simulation) Source() string { return s.source }

// Arena exposes the body hierarchy to the renderer.
func (s *Simulation) Arena() *body.Arena { return s.arena }

// Sun returns the ID of the light-emitting root.
func (s *Simulation) Sun() body.ID { return s.sun }

// Planets returns the top-level planets in order.
func (s *Simulation) Planets() []body.ID {
	return append([]body.ID(nil), s.planets...)
}

// Bodies returns every body in update order.
func (s *Simulation) Bodies() []body.ID {
	out := s.arena.Walk(s.sun)
	for _, p := range s.planets {
		out = append(out, s.arena.Walk(p)...)
	}
	return out
}

// Stars returns the current star field.
func (s *Simulation) Stars() *starfield.Field { return s.stars }

// Resources returns the registry every primitive is acquired from.
func (s *Simulation) Resources() *render.Registry { return s.resources }

// WorldPosition returns a body's absolute position.
func (s *Simulation) WorldPosition(id body.ID) astro.Vec3 {
	return s.arena.WorldPosition(id)
}

// Pick maps a primitive handle to the body that owns it.
func (s *Simulation) Pick(h render.Handle) (body.ID, bool) {
	return s.arena.Owner(h)
}

// Info returns the descriptive snapshot of a body.
func (s *Simulation) Info(id body.ID) (map[string]any, bool) {
	return s.arena.Info(id)
}

// Find returns the first body in update order with the given name.
func (s *Simulation) Find(name string) (body.ID, bool) {
	for _, id := range s.Bodies() {
		if s.arena.Body(id).Name == name {
			return id, true
		}
	}
	return body.NoParent, false
}

// RebuildStars replaces the star field with one of the given count and
// radius, keeping every other parameter including the seed. The new field
// is acquired before the old one is disposed.
func (s *Simulation) RebuildStars(count int, radius float64) error {
	cfg := s.stars.Config()
	cfg.Count = count
	cfg.Radius = radius
	return s.replaceStars(cfg)
}

// Reseed rebuilds the star field with a different seed.
func (s *Simulation) Reseed(seed int64) error {
	cfg := s.stars.Config()
	cfg.Seed = seed
	return s.replaceStars(cfg)
}

func (s *Simulation) replaceStars(cfg starfield.Config) error {
	next := starfield.New(cfg, s.resources)
	old := s.stars
	s.stars = next

	if err := old.Dispose(); err != nil {
		return fmt.Errorf("rebuild stars: %w", err)
	}
	s.log.Debug("stars rebuilt: count=%d radius=%g seed=%d", cfg.Count, cfg.Radius, cfg.Seed)
	s.observer.ObserveStarRebuild(next.Len(), cfg.Radius)
	return nil
}

// ReloadSystem replaces the body hierarchy. The new system is built first;
// if that fails the current one stays installed and untouched. On success
// the old hierarchy's resources are released. Body IDs from the old system
// are invalid afterwards.
func (s *Simulation) ReloadSystem(system config.System) error {
	arena, sun, planets, err := s.build(system)
	if err != nil {
		s.log.Warn("reload rejected, keeping %s: %v", s.source, err)
		s.observer.ObserveReload(system.Source, err)
		return err
	}

	old := s.arena
	s.arena, s.sun, s.planets, s.source = arena, sun, planets, system.Source

	if err := old.Release(); err != nil && !errors.Is(err, body.ErrReleased) {
		s.observer.ObserveReload(system.Source, err)
		return fmt.Errorf("release previous system: %w", err)
	}
	s.log.Info("reloaded %s: %d bodies", s.source, s.arena.Len())
	s.observer.ObserveReload(system.Source, nil)
	return nil
}

// Close releases every resource the simulation holds.
func (s *Simulation) Close() error {
	var errs []error
	if err := s.arena.Release(); err != nil && !errors.Is(err, body.ErrReleased) {
		errs = append(errs, err)
	}
	if err := s.stars.Dispose(); err != nil && !errors.Is(err, starfield.ErrDisposed) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
