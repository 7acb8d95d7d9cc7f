// Package starfield generates the decorative background star field: a
// deterministic point cloud on a sphere, with per-star size and color,
// plus a clamped twinkle clock.
package starfield

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/render"
)

// ErrDisposed is returned when using a field after Dispose.
var ErrDisposed = errors.New("star field disposed")

// Twinkle clock parameters: the clock runs at speedFactor·1e-5 per second
// but never faster than twinkleCeiling.
const (
	twinkleRate    = 0.00001
	twinkleCeiling = 0.02
)

// Color is an RGB triple with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	n := int(math.Round(v * 255))
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// ColorFromHex converts a 0xRRGGBB integer to a Color.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float64(hex>>16&0xff) / 255,
		G: float64(hex>>8&0xff) / 255,
		B: float64(hex&0xff) / 255,
	}
}

// DefaultPalette is white, warm, cool and reddish stars.
func DefaultPalette() []Color {
	return []Color{
		ColorFromHex(0xffffff),
		ColorFromHex(0xffddaa),
		ColorFromHex(0xaaccff),
		ColorFromHex(0xffaaaa),
	}
}

// Config describes a star field. Construction is a pure function of it.
type Config struct {
	Count   int
	Radius  float64
	MinSize float64
	MaxSize float64
	Colors  []Color
	Seed    int64
}

// DefaultConfig returns the stock star field configuration.
func DefaultConfig() Config {
	return Config{
		Count:   2000,
		Radius:  500,
		MinSize: 1.0,
		MaxSize: 3.0,
		Colors:  DefaultPalette(),
		Seed:    1,
	}
}

// Star is one generated point.
type Star struct {
	Position astro.Vec3
	Size     float64
	Color    Color
}

// Buffers are the packed attribute arrays handed to a renderer.
type Buffers struct {
	Positions []float32 // x, y, z per star
	Sizes     []float32
	Colors    []float32 // r, g, b per star
}

// Field is a generated star field. It holds renderer resources until
// Dispose is called.
type Field struct {
	cfg   Config
	stars []Star
	time  float64

	resources *render.Registry
	handles   [4]render.Handle
	disposed  bool
}

// Generate computes the stars for cfg without acquiring any resources.
func Generate(cfg Config) []Star {
	if cfg.Count <= 0 {
		return nil
	}
	palette := cfg.Colors
	if len(palette) == 0 {
		palette = DefaultPalette()
	}

	rng := NewRand(cfg.Seed)
	stars := make([]Star, cfg.Count)
	for i := range stars {
		theta := rng.Float64() * astro.TwoPi
		phi := math.Acos(2*rng.Float64() - 1)

		size := astro.Lerp(cfg.MinSize, cfg.MaxSize, rng.Float64())

		idx := int(math.Floor(rng.Float64() * float64(len(palette))))
		if idx >= len(palette) {
			idx = len(palette) - 1
		}

		stars[i] = Star{
			Position: astro.Spherical(cfg.Radius, theta, phi),
			Size:     size,
			Color:    palette[idx],
		}
	}
	return stars
}

// New generates a field and acquires its position, size and color buffers
// and its point material from reg.
func New(cfg Config, reg *render.Registry) *Field {
	if reg == nil {
		reg = render.NewRegistry()
	}
	if len(cfg.Colors) == 0 {
		cfg.Colors = DefaultPalette()
	}
	cfg.Colors = append([]Color(nil), cfg.Colors...)

	f := &Field{
		cfg:       cfg,
		stars:     Generate(cfg),
		resources: reg,
	}
	n := len(f.stars)
	f.handles = [4]render.Handle{
		reg.Acquire(render.KindPointPositions, "stars", n),
		reg.Acquire(render.KindPointSizes, "stars", n),
		reg.Acquire(render.KindPointColors, "stars", n),
		reg.Acquire(render.KindPointMaterial, "stars", n),
	}
	return f
}

// Config returns the configuration the field was built from.
func (f *Field) Config() Config {
	cfg := f.cfg
	cfg.Colors = append([]Color(nil), f.cfg.Colors...)
	return cfg
}

// Len returns the number of stars, or 0 after Dispose.
func (f *Field) Len() int {
	if f.disposed {
		return 0
	}
	return len(f.stars)
}

// Stars returns the generated stars, or nil after Dispose. The slice is
// shared; callers must not modify it.
func (f *Field) Stars() []Star {
	if f.disposed {
		return nil
	}
	return f.stars
}

// Buffers packs the star attributes into the float32 arrays a renderer uploads.
func (f *Field) Buffers() (Buffers, error) {
	if f.disposed {
		return Buffers{}, ErrDisposed
	}
	n := len(f.stars)
	b := Buffers{
		Positions: make([]float32, 0, n*3),
		Sizes:     make([]float32, 0, n),
		Colors:    make([]float32, 0, n*3),
	}
	for _, s := range f.stars {
		b.Positions = append(b.Positions, float32(s.Position.X), float32(s.Position.Y), float32(s.Position.Z))
		b.Sizes = append(b.Sizes, float32(s.Size))
		b.Colors = append(b.Colors, float32(s.Color.R), float32(s.Color.G), float32(s.Color.B))
	}
	return b, nil
}

// Handles returns the renderer resources held by the field.
func (f *Field) Handles() []render.Handle {
	if f.disposed {
		return nil
	}
	return append([]render.Handle(nil), f.handles[:]...)
}

// Time returns the twinkle clock, the field's animation parameter.
func (f *Field) Time() float64 { return f.time }

// Update advances the twinkle clock by deltaTime·min(speedFactor·1e-5, 0.02).
// A disposed field ignores updates.
func (f *Field) Update(deltaTime, speedFactor float64) {
	if f.disposed {
		return
	}
	f.time += deltaTime * math.Min(speedFactor*twinkleRate, twinkleCeiling)
}

// Twinkle returns the brightness multiplier of star i at the current
// time, in [0.7, 1.0].
func (f *Field) Twinkle(i int) float64 {
	if f.disposed || i < 0 || i >= len(f.stars) {
		return 0
	}
	return 0.85 + 0.15*math.Sin(f.time+f.stars[i].Position.X*10)
}

// Dispose releases every resource the field acquired and makes the field
// unusable. A second call returns ErrDisposed.
func (f *Field) Dispose() error {
	if f.disposed {
		return ErrDisposed
	}
	f.disposed = true
	if err := f.resources.ReleaseAll(f.handles[:]...); err != nil {
		return fmt.Errorf("dispose star field: %w", err)
	}
	return nil
}

// Disposed reports whether Dispose has been called.
func (f *Field) Disposed() bool { return f.disposed }
