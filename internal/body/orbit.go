package body

import (
	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/render"
)

// OrbitSegments is the resolution of orbit lines.
const OrbitSegments = 128

// OrbitPath samples a closed circle of the given radius in the local
// orbital plane. It returns segments+1 points; the last equals the first.
func OrbitPath(distance float64, segments int) []astro.Vec3 {
	if segments < 3 {
		segments = 3
	}
	pts := make([]astro.Vec3, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments) * astro.TwoPi
		pts[i] = astro.OnOrbit(distance, t)
	}
	pts[segments] = pts[0]
	return pts
}

// CreateOrbitLine produces the orbit polyline for an orbiting body and
// acquires its line resource. A second call returns the existing line and
// created=false without acquiring anything; bodies that do not orbit
// return a zero handle.
func (a *Arena) CreateOrbitLine(id ID) (h render.Handle, created bool) {
	b := a.Body(id)
	if b == nil || b.Orbit == nil || a.released {
		return 0, false
	}
	if b.Orbit.Line.Valid() {
		return b.Orbit.Line, false
	}

	b.Orbit.Path = OrbitPath(b.Orbit.Distance, OrbitSegments)
	b.Orbit.Line = a.resources.Acquire(render.KindOrbitLine, b.Name, len(b.Orbit.Path))
	return b.Orbit.Line, true
}

// OrbitLine returns the polyline produced by CreateOrbitLine, or nil.
func (a *Arena) OrbitLine(id ID) []astro.Vec3 {
	b := a.Body(id)
	if b == nil || b.Orbit == nil {
		return nil
	}
	return b.Orbit.Path
}
