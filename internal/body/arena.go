package body

import (
	"fmt"
	"math"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/render"
)

// Mesh tessellation used when acquiring primitives.
const (
	sphereSegments = 32
	ringSegments   = 64
)

// Arena owns a hierarchy of bodies. Children are stored as index lists, so
// a body can only ever be a child of a body added before it and cycles
// cannot occur.
type Arena struct {
	bodies   []*Body
	parent   []ID
	children [][]ID
	roots    []ID

	resources *render.Registry
	picks     *render.PickTable
	released  bool
}

// NewArena creates an empty arena that acquires its primitives from reg.
func NewArena(reg *render.Registry) *Arena {
	if reg == nil {
		reg = render.NewRegistry()
	}
	return &Arena{
		resources: reg,
		picks:     render.NewPickTable(),
	}
}

// Len returns the number of bodies.
func (a *Arena) Len() int { return len(a.bodies) }

// Body returns the body with the given ID, or nil.
func (a *Arena) Body(id ID) *Body {
	if id < 0 || int(id) >= len(a.bodies) {
		return nil
	}
	return a.bodies[id]
}

// Parent returns the parent of id, or NoParent.
func (a *Arena) Parent(id ID) ID {
	if a.Body(id) == nil {
		return NoParent
	}
	return a.parent[id]
}

// Children returns the ordered children of id.
func (a *Arena) Children(id ID) []ID {
	if a.Body(id) == nil {
		return nil
	}
	return append([]ID(nil), a.children[id]...)
}

// Roots returns the top-level bodies in insertion order.
func (a *Arena) Roots() []ID {
	return append([]ID(nil), a.roots...)
}

// Resources returns the registry the arena acquires from.
func (a *Arena) Resources() *render.Registry { return a.resources }

// AddSun adds the light-emitting root body.
func (a *Arena) AddSun(spec SunSpec) (ID, error) {
	if a.released {
		return NoParent, ErrReleased
	}
	if err := spec.Validate(); err != nil {
		return NoParent, err
	}

	intensity := spec.LightIntensity
	if intensity <= 0 {
		intensity = DefaultLightIntensity
	}

	b := newBody(spec.Spec, KindLight)
	b.Light = &Light{Intensity: intensity, Range: DefaultLightRange}
	return a.insert(b, NoParent), nil
}

// AddBody adds a rotation-only body.
func (a *Arena) AddBody(parent ID, spec Spec) (ID, error) {
	if a.released {
		return NoParent, ErrReleased
	}
	if parent != NoParent && a.Body(parent) == nil {
		return NoParent, fmt.Errorf("parent %d: %w", parent, ErrUnknownBody)
	}
	if err := spec.Validate(); err != nil {
		return NoParent, err
	}
	if spec.RotationPeriod < 0 {
		return NoParent, &SpecError{Body: spec.Name, Field: "rotationPeriod", Value: spec.RotationPeriod, Err: ErrInvalidRotationPeriod}
	}
	return a.insert(newBody(spec, KindBody), parent), nil
}

// AddPlanet adds an orbiting body under parent (NoParent for top level)
// and, recursively, one child per moon descriptor. The whole tree is
// validated before anything is inserted.
func (a *Arena) AddPlanet(parent ID, spec PlanetSpec) (ID, error) {
	if a.released {
		return NoParent, ErrReleased
	}
	if parent != NoParent && a.Body(parent) == nil {
		return NoParent, fmt.Errorf("parent %d: %w", parent, ErrUnknownBody)
	}
	if err := spec.Validate(); err != nil {
		return NoParent, err
	}
	return a.addPlanet(parent, spec), nil
}

func (a *Arena) addPlanet(parent ID, spec PlanetSpec) ID {
	b := newBody(spec.Spec, KindOrbiting)
	b.Orbit = &Orbit{Distance: spec.Distance, Period: spec.OrbitPeriod}
	if r := spec.Ring; r != nil {
		b.Orbit.Ring = &Ring{
			InnerRadius: r.InnerRadius,
			OuterRadius: r.OuterRadius,
			Texture:     r.Texture,
			Tilt:        -math.Pi / 2,
			Mesh:        a.resources.Acquire(render.KindRingMesh, spec.Name, ringSegments),
		}
	}

	id := a.insert(b, parent)
	for _, m := range spec.Moons {
		a.addPlanet(id, m)
	}
	return id
}

func newBody(spec Spec, kind Kind) *Body {
	info := make(map[string]any, len(spec.Info))
	for k, v := range spec.Info {
		info[k] = v
	}
	return &Body{
		Name:           spec.Name,
		Radius:         spec.Radius,
		RotationPeriod: spec.RotationPeriod,
		Texture:        spec.Texture,
		Details:        info,
		Kind:           kind,
	}
}

func (a *Arena) insert(b *Body, parent ID) ID {
	id := ID(len(a.bodies))
	b.ID = id
	b.Mesh = a.resources.Acquire(render.KindSphereMesh, b.Name, (sphereSegments+1)*(sphereSegments+1))
	a.picks.Register(b.Mesh, int(id))

	a.bodies = append(a.bodies, b)
	a.parent = append(a.parent, parent)
	a.children = append(a.children, nil)
	if parent == NoParent {
		a.roots = append(a.roots, id)
	} else {
		a.children[parent] = append(a.children[parent], id)
	}
	return id
}

// UpdateSelf advances one body's own rotation and orbit without touching
// its children.
func (a *Arena) UpdateSelf(id ID, deltaTime, speedFactor float64) {
	if b := a.Body(id); b != nil {
		b.step(deltaTime, speedFactor)
	}
}

// Update advances a body and then every descendant, depth first in child
// order, all with the same deltaTime and speedFactor.
func (a *Arena) Update(id ID, deltaTime, speedFactor float64) {
	if a.Body(id) == nil {
		return
	}
	a.UpdateSelf(id, deltaTime, speedFactor)
	for _, c := range a.children[id] {
		a.Update(c, deltaTime, speedFactor)
	}
}

// Walk returns id and its descendants in update order.
func (a *Arena) Walk(id ID) []ID {
	if a.Body(id) == nil {
		return nil
	}
	var out []ID
	stack := []ID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		kids := a.children[n]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// AncestorChain returns the path from the top-level ancestor down to id.
func (a *Arena) AncestorChain(id ID) []ID {
	if a.Body(id) == nil {
		return nil
	}
	var chain []ID
	for n := id; n != NoParent; n = a.parent[n] {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// LocalPosition returns a body's offset from its parent.
func (a *Arena) LocalPosition(id ID) astro.Vec3 {
	b := a.Body(id)
	if b == nil {
		return astro.Vec3{}
	}
	return b.LocalPosition()
}

// WorldPosition returns a body's absolute position: the sum of the local
// offsets along its ancestor chain.
func (a *Arena) WorldPosition(id ID) astro.Vec3 {
	chain := a.AncestorChain(id)
	offsets := make([]astro.Vec3, len(chain))
	for i, n := range chain {
		offsets[i] = a.bodies[n].LocalPosition()
	}
	return WorldPosition(offsets)
}

// WorldPosition folds local offsets, outermost first, into an absolute
// position.
func WorldPosition(chain []astro.Vec3) astro.Vec3 {
	var p astro.Vec3
	for _, off := range chain {
		p = p.Add(off)
	}
	return p
}

// Owner maps a primitive handle back to the body that owns it.
func (a *Arena) Owner(h render.Handle) (ID, bool) {
	id, ok := a.picks.Owner(h)
	if !ok {
		return NoParent, false
	}
	return ID(id), true
}

// Info returns the info snapshot of a body.
func (a *Arena) Info(id ID) (map[string]any, bool) {
	b := a.Body(id)
	if b == nil {
		return nil, false
	}
	return b.Info(), true
}

// Release frees every resource the arena acquired. The arena rejects
// further additions afterwards; releasing twice returns ErrReleased.
func (a *Arena) Release() error {
	if a.released {
		return ErrReleased
	}
	a.released = true

	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for _, b := range a.bodies {
		a.picks.Unregister(b.Mesh)
		keep(a.resources.ReleaseAll(b.Mesh))
		if b.Orbit != nil {
			if b.Orbit.Ring != nil {
				keep(a.resources.ReleaseAll(b.Orbit.Ring.Mesh))
			}
			keep(a.resources.ReleaseAll(b.Orbit.Line))
		}
	}
	return first
}

// Released reports whether Release has been called.
func (a *Arena) Released() bool { return a.released }
