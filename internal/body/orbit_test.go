package body

import (
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/render"
)

func TestOrbitPath(t *testing.T) {
	pts := OrbitPath(10, OrbitSegments)
	if len(pts) != OrbitSegments+1 {
		t.Fatalf("len = %d, want %d", len(pts), OrbitSegments+1)
	}
	if pts[0] != pts[len(pts)-1] {
		t.Errorf("path not closed: %v != %v", pts[0], pts[len(pts)-1])
	}
	for i, p := range pts {
		if p.Y != 0 {
			t.Errorf("point %d Y = %v, want 0", i, p.Y)
		}
		if math.Abs(p.PlanarRadius()-10) > 1e-9 {
			t.Errorf("point %d radius = %v, want 10", i, p.PlanarRadius())
		}
	}
}

func TestCreateOrbitLineIdempotent(t *testing.T) {
	reg := render.NewRegistry()
	a := NewArena(reg)
	id, _ := a.AddPlanet(NoParent, PlanetSpec{
		Spec:        Spec{Name: "Mars", Radius: 0.5},
		Distance:    30,
		OrbitPeriod: 687,
	})

	first, created := a.CreateOrbitLine(id)
	if !created || !first.Valid() {
		t.Fatalf("first CreateOrbitLine = %d, %v", first, created)
	}
	before := reg.Acquired()

	second, created := a.CreateOrbitLine(id)
	if created {
		t.Error("second CreateOrbitLine should be a no-op")
	}
	if second != first {
		t.Errorf("second handle = %d, want %d", second, first)
	}
	if reg.Acquired() != before {
		t.Error("second CreateOrbitLine acquired a resource")
	}
	if reg.LiveByKind(render.KindOrbitLine) != 1 {
		t.Errorf("orbit lines = %d, want 1", reg.LiveByKind(render.KindOrbitLine))
	}
	if len(a.OrbitLine(id)) != OrbitSegments+1 {
		t.Errorf("OrbitLine len = %d", len(a.OrbitLine(id)))
	}
}

func TestCreateOrbitLineNonOrbiting(t *testing.T) {
	a := NewArena(nil)
	sun, _ := a.AddSun(SunSpec{Spec: Spec{Name: "Sun", Radius: 5}})

	h, created := a.CreateOrbitLine(sun)
	if created || h.Valid() {
		t.Errorf("CreateOrbitLine(sun) = %d, %v; want zero, false", h, created)
	}
	if a.OrbitLine(sun) != nil {
		t.Error("sun should have no orbit line")
	}
}
