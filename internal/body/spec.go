package body

// Spec holds the fields shared by every body descriptor.
type Spec struct {
	Name           string
	Radius         float64
	RotationPeriod float64 // Hours
	Texture        string  // Opaque to the simulation
	Info           map[string]any
}

// RingSpec describes a planetary ring.
type RingSpec struct {
	InnerRadius float64
	OuterRadius float64
	Texture     string
}

// PlanetSpec describes an orbiting body. Moons are planets in their own
// right whose distance and period are relative to this body.
type PlanetSpec struct {
	Spec
	Distance    float64
	OrbitPeriod float64 // Days
	Ring        *RingSpec
	Moons       []PlanetSpec
}

// SunSpec describes the light-emitting root.
type SunSpec struct {
	Spec
	LightIntensity float64 // 0 selects DefaultLightIntensity
}

const (
	DefaultLightIntensity = 2.0
	DefaultLightRange     = 1000.0
)

// Validate checks the shared invariants.
func (s Spec) Validate() error {
	if !(s.Radius > 0) {
		return &SpecError{Body: s.Name, Field: "radius", Value: s.Radius, Err: ErrInvalidRadius}
	}
	return nil
}

// Validate checks the planet and, recursively, its moons. It runs before
// any resource is acquired so a bad descriptor never half-builds a tree.
func (s PlanetSpec) Validate() error {
	if err := s.Spec.Validate(); err != nil {
		return err
	}
	if s.RotationPeriod < 0 {
		return &SpecError{Body: s.Name, Field: "rotationPeriod", Value: s.RotationPeriod, Err: ErrInvalidRotationPeriod}
	}
	if !(s.OrbitPeriod > 0) {
		return &SpecError{Body: s.Name, Field: "orbitPeriod", Value: s.OrbitPeriod, Err: ErrInvalidOrbitPeriod}
	}
	if s.Distance < 0 {
		return &SpecError{Body: s.Name, Field: "distance", Value: s.Distance, Err: ErrInvalidDistance}
	}
	if r := s.Ring; r != nil {
		if r.InnerRadius < 0 || !(r.InnerRadius < r.OuterRadius) {
			return &SpecError{Body: s.Name, Field: "ring.innerRadius", Value: r.InnerRadius, Err: ErrInvalidRing}
		}
	}
	for _, m := range s.Moons {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the sun. Its rotation period is permissive: zero or
// negative simply disables self-rotation.
func (s SunSpec) Validate() error {
	return s.Spec.Validate()
}

// CountBodies returns the number of bodies this descriptor builds, moons included.
func (s PlanetSpec) CountBodies() int {
	n := 1
	for _, m := range s.Moons {
		n += m.CountBodies()
	}
	return n
}
