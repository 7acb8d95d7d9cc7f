// Package body implements the celestial-body model of the orrery: a single
// Body type tagged by Kind, with an orbit payload for planets and moons and
// a light payload for the Sun, stored in an Arena that owns the hierarchy.
//
// Rotation periods are in hours and orbit periods in days. Updates take a
// deltaTime in seconds and a dimensionless speed factor.
package body

import (
	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/render"
)

// ID indexes a body in its Arena.
type ID int

// NoParent marks a top-level body.
const NoParent ID = -1

// Kind is the variant tag of a Body.
type Kind int

const (
	KindBody     Kind = iota // Rotation only
	KindOrbiting             // Planet or moon
	KindLight                // Light-emitting root
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindOrbiting:
		return "planet"
	case KindLight:
		return "sun"
	default:
		return "unknown"
	}
}

// Ring is a flat annulus in a planet's orbital plane. Rendering only.
type Ring struct {
	InnerRadius float64
	OuterRadius float64
	Texture     string
	Tilt        float64 // Rotation about X; -π/2 lays the ring in the XZ plane
	Mesh        render.Handle
}

// Orbit is the payload of an orbiting body. Distance and Angle are relative
// to the parent's position.
type Orbit struct {
	Distance float64
	Period   float64 // Days
	Angle    float64 // Radians, [0, 2π)
	Ring     *Ring

	Line render.Handle // Zero until CreateOrbitLine
	Path []astro.Vec3
}

// Light is the payload of the light-emitting root.
type Light struct {
	Intensity float64
	Range     float64
}

// Body is one simulated celestial body.
type Body struct {
	ID             ID
	Name           string
	Radius         float64
	RotationPeriod float64 // Hours; 0 means no self-rotation
	Texture        string
	Details        map[string]any // Free-form info bag

	Orientation float64 // Self-rotation angle, radians, [0, 2π)

	Kind  Kind
	Orbit *Orbit // Set for KindOrbiting
	Light *Light // Set for KindLight

	Mesh render.Handle // Pickable primitive
}

// RotationRate returns the self-rotation angular velocity in rad/s.
func (b *Body) RotationRate() float64 {
	return astro.AngularRate(b.RotationPeriod, astro.SecondsPerHour)
}

// OrbitRate returns the revolution angular velocity in rad/s, or 0 for
// bodies that do not orbit.
func (b *Body) OrbitRate() float64 {
	if b.Orbit == nil {
		return 0
	}
	return astro.AngularRate(b.Orbit.Period, astro.SecondsPerDay)
}

// rotate advances Orientation. A zero rotation period leaves it untouched.
func (b *Body) rotate(deltaTime, speedFactor float64) {
	rate := b.RotationRate()
	if rate == 0 {
		return
	}
	b.Orientation = astro.WrapAngle(b.Orientation + rate*deltaTime*speedFactor)
}

// revolve advances the orbit angle.
func (b *Body) revolve(deltaTime, speedFactor float64) {
	rate := b.OrbitRate()
	if rate == 0 {
		return
	}
	b.Orbit.Angle = astro.WrapAngle(b.Orbit.Angle + rate*deltaTime*speedFactor)
}

// step applies this body's own update, dispatching on Kind.
func (b *Body) step(deltaTime, speedFactor float64) {
	switch b.Kind {
	case KindOrbiting:
		b.rotate(deltaTime, speedFactor)
		b.revolve(deltaTime, speedFactor)
	default:
		b.rotate(deltaTime, speedFactor)
	}
}

// LocalPosition returns the body's offset from its parent's origin.
func (b *Body) LocalPosition() astro.Vec3 {
	if b.Orbit == nil {
		return astro.Vec3{}
	}
	return astro.OnOrbit(b.Orbit.Distance, b.Orbit.Angle)
}

// Info returns a snapshot of the body's descriptive data: name, radius and
// rotationPeriod, then every entry of the Details bag. Bag entries are merged
// last, so a same-named key in the bag overwrites the built-in value.
func (b *Body) Info() map[string]any {
	out := make(map[string]any, 3+len(b.Details))
	out["name"] = b.Name
	out["radius"] = b.Radius
	out["rotationPeriod"] = b.RotationPeriod
	for k, v := range b.Details {
		out[k] = v
	}
	return out
}
