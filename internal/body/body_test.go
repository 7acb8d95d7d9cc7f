package body

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/render"
)

func TestRotationSentinel(t *testing.T) {
	a := NewArena(render.NewRegistry())
	id, err := a.AddBody(NoParent, Spec{Name: "Rock", Radius: 1, RotationPeriod: 0})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	before := a.Body(id).Orientation
	for i := 0; i < 1000; i++ {
		a.Update(id, 0.016, 1e6)
	}
	if got := a.Body(id).Orientation; got != before {
		t.Errorf("Orientation changed from %v to %v with rotationPeriod 0", before, got)
	}
}

func TestRotationRate(t *testing.T) {
	a := NewArena(nil)
	id, err := a.AddBody(NoParent, Spec{Name: "Spinner", Radius: 1, RotationPeriod: 24})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	// A quarter of 24h at speed 1.
	a.Update(id, 6*3600, 1)
	got := a.Body(id).Orientation
	if math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("Orientation after 6h = %v, want π/2", got)
	}

	// Speed factor scales the step linearly.
	a.Update(id, 3*3600, 2)
	got = a.Body(id).Orientation
	if math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("Orientation after 6h more at 2x = %v, want π", got)
	}
}

func TestOrientationStaysBounded(t *testing.T) {
	a := NewArena(nil)
	id, _ := a.AddBody(NoParent, Spec{Name: "Fast", Radius: 1, RotationPeriod: 0.001})

	for i := 0; i < 10000; i++ {
		a.Update(id, 1, 1e6)
		o := a.Body(id).Orientation
		if o < 0 || o >= astro.TwoPi || math.IsNaN(o) {
			t.Fatalf("Orientation %v out of [0, 2π) at step %d", o, i)
		}
	}
}

func TestSunRotationPermissive(t *testing.T) {
	for _, period := range []float64{0, -5} {
		a := NewArena(nil)
		id, err := a.AddSun(SunSpec{Spec: Spec{Name: "Sun", Radius: 5, RotationPeriod: period}})
		if err != nil {
			t.Fatalf("AddSun(period=%v): %v", period, err)
		}
		a.Update(id, 1000, 1000)
		if o := a.Body(id).Orientation; o != 0 {
			t.Errorf("period %v: Orientation = %v, want 0", period, o)
		}
	}
}

func TestSunRotatesInHours(t *testing.T) {
	a := NewArena(nil)
	id, _ := a.AddSun(SunSpec{Spec: Spec{Name: "Sun", Radius: 5, RotationPeriod: 600}})

	a.Update(id, 300*3600, 1)
	if got := a.Body(id).Orientation; math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("Sun orientation after half period = %v, want π", got)
	}
}

func TestSunDefaults(t *testing.T) {
	a := NewArena(nil)
	id, _ := a.AddSun(SunSpec{Spec: Spec{Name: "Sun", Radius: 5}})
	b := a.Body(id)

	if b.Kind != KindLight {
		t.Errorf("Kind = %v, want sun", b.Kind)
	}
	if b.Light == nil || b.Light.Intensity != DefaultLightIntensity {
		t.Errorf("Light = %+v, want default intensity", b.Light)
	}
	if b.Orbit != nil {
		t.Error("Sun should have no orbit")
	}
	if p := a.WorldPosition(id); p != (astro.Vec3{}) {
		t.Errorf("Sun position = %v, want origin", p)
	}
}

func TestInfoMerge(t *testing.T) {
	a := NewArena(nil)
	id, _ := a.AddPlanet(NoParent, PlanetSpec{
		Spec: Spec{
			Name:           "Earth",
			Radius:         1,
			RotationPeriod: 24,
			Info: map[string]any{
				"mass":          "5.97e24 kg",
				"numberOfMoons": 1,
			},
		},
		Distance:    20,
		OrbitPeriod: 365,
	})

	info, ok := a.Info(id)
	if !ok {
		t.Fatal("Info not found")
	}

	want := map[string]any{
		"name":           "Earth",
		"radius":         1.0,
		"rotationPeriod": 24.0,
		"mass":           "5.97e24 kg",
		"numberOfMoons":  1,
	}
	if len(info) != len(want) {
		t.Errorf("Info has %d keys, want %d: %v", len(info), len(want), info)
	}
	for k, v := range want {
		if info[k] != v {
			t.Errorf("Info[%q] = %v, want %v", k, info[k], v)
		}
	}

	// Snapshot is detached from the body.
	info["mass"] = "changed"
	again, _ := a.Info(id)
	if again["mass"] != "5.97e24 kg" {
		t.Error("mutating Info snapshot leaked into the body")
	}
}

func TestInfoBagOverwritesLastWriteWins(t *testing.T) {
	a := NewArena(nil)
	id, _ := a.AddBody(NoParent, Spec{
		Name:   "Moonlet",
		Radius: 2,
		Info:   map[string]any{"name": "Display Name"},
	})
	info, _ := a.Info(id)
	if info["name"] != "Display Name" {
		t.Errorf("name = %v, want bag value", info["name"])
	}
	if info["radius"] != 2.0 {
		t.Errorf("radius = %v, want 2", info["radius"])
	}
}

func TestSpecCopiedAtConstruction(t *testing.T) {
	bag := map[string]any{"k": "v"}
	a := NewArena(nil)
	id, _ := a.AddBody(NoParent, Spec{Name: "B", Radius: 1, Info: bag})

	bag["k"] = "mutated"
	if a.Body(id).Details["k"] != "v" {
		t.Error("body should own a copy of its info bag")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindBody:     "body",
		KindOrbiting: "planet",
		KindLight:    "sun",
		Kind(42):     "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestSpecErrorMessage(t *testing.T) {
	err := &SpecError{Body: "Mars", Field: "orbitPeriod", Value: 0, Err: ErrInvalidOrbitPeriod}
	if !errors.Is(err, ErrInvalidOrbitPeriod) {
		t.Error("SpecError should unwrap to its sentinel")
	}
	want := `body "Mars": orbitPeriod = 0: orbit period must be positive`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
