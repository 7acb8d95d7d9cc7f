// Package config loads the solar system descriptor and application
// settings, and watches the descriptor for changes.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/litescript/ls-orrery/internal/body"
)

//go:embed default_system.toml
var defaultSystemTOML []byte

// DefaultSource names the built-in system in logs and errors.
const DefaultSource = "<built-in>"

// ErrNoSun is returned when a descriptor has no [sun] table.
var ErrNoSun = errors.New("system has no sun")

// System is a parsed, not yet constructed, solar system.
type System struct {
	Source  string
	Sun     body.SunSpec
	Planets []body.PlanetSpec
}

// Validate checks every descriptor in the system. It stops at the first
// error, which names the offending body.
func (s System) Validate() error {
	if err := s.Sun.Validate(); err != nil {
		return err
	}
	for _, p := range s.Planets {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CountBodies returns the number of bodies the system builds, Sun included.
func (s System) CountBodies() int {
	n := 1
	for _, p := range s.Planets {
		n += p.CountBodies()
	}
	return n
}

type systemFile struct {
	Sun     *sunFile     `toml:"sun"`
	Planets []planetFile `toml:"planets"`
}

type sunFile struct {
	Name           string         `toml:"name"`
	Radius         float64        `toml:"radius"`
	RotationPeriod float64        `toml:"rotation_period"`
	Texture        string         `toml:"texture"`
	LightIntensity float64        `toml:"light_intensity"`
	Info           map[string]any `toml:"info"`
}

type ringFile struct {
	InnerRadius float64 `toml:"inner_radius"`
	OuterRadius float64 `toml:"outer_radius"`
	Texture     string  `toml:"texture"`
}

type planetFile struct {
	Name           string         `toml:"name"`
	Radius         float64        `toml:"radius"`
	Distance       float64        `toml:"distance"`
	OrbitPeriod    float64        `toml:"orbit_period"`
	RotationPeriod float64        `toml:"rotation_period"`
	Texture        string         `toml:"texture"`
	Info           map[string]any `toml:"info"`
	Ring           *ringFile      `toml:"ring"`
	Moons          []planetFile   `toml:"moons"`
}

func (p planetFile) spec() body.PlanetSpec {
	s := body.PlanetSpec{
		Spec: body.Spec{
			Name:           p.Name,
			Radius:         p.Radius,
			RotationPeriod: p.RotationPeriod,
			Texture:        p.Texture,
			Info:           p.Info,
		},
		Distance:    p.Distance,
		OrbitPeriod: p.OrbitPeriod,
	}
	if p.Ring != nil {
		s.Ring = &body.RingSpec{
			InnerRadius: p.Ring.InnerRadius,
			OuterRadius: p.Ring.OuterRadius,
			Texture:     p.Ring.Texture,
		}
	}
	for _, m := range p.Moons {
		s.Moons = append(s.Moons, m.spec())
	}
	return s
}

// Decode parses a system descriptor. Unknown keys are rejected so a typo
// never silently yields a default.
func Decode(r io.Reader, source string) (System, error) {
	var f systemFile
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return System{}, fmt.Errorf("%s: unknown fields:\n%s", source, strict.String())
		}
		return System{}, fmt.Errorf("%s: %w", source, err)
	}
	if f.Sun == nil {
		return System{}, fmt.Errorf("%s: %w", source, ErrNoSun)
	}

	sys := System{
		Source: source,
		Sun: body.SunSpec{
			Spec: body.Spec{
				Name:           f.Sun.Name,
				Radius:         f.Sun.Radius,
				RotationPeriod: f.Sun.RotationPeriod,
				Texture:        f.Sun.Texture,
				Info:           f.Sun.Info,
			},
			LightIntensity: f.Sun.LightIntensity,
		},
	}
	for _, p := range f.Planets {
		sys.Planets = append(sys.Planets, p.spec())
	}
	return sys, nil
}

// Parse decodes a descriptor held in memory.
func Parse(data []byte, source string) (System, error) {
	return Decode(bytes.NewReader(data), source)
}

// Load reads a descriptor from path. An empty path selects the built-in
// system.
func Load(path string) (System, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return System{}, fmt.Errorf("read system: %w", err)
	}
	return Parse(data, path)
}

// Default returns the built-in solar system.
func Default() System {
	sys, err := Parse(defaultSystemTOML, DefaultSource)
	if err != nil {
		panic(fmt.Sprintf("built-in system: %v", err))
	}
	return sys
}

// DefaultTOML returns the built-in descriptor text, useful as a template.
func DefaultTOML() []byte {
	return append([]byte(nil), defaultSystemTOML...)
}
