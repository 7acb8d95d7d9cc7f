// Package render tracks the renderer-side resources the simulation allocates
// and maps drawn primitives back to the entities that own them.
//
// The registry is the boundary the simulation exposes to a renderer: every
// buffer, mesh or line a body or star field needs is acquired here and must
// be released explicitly. A non-zero Live count after teardown is a leak.
package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Kind identifies the type of renderer resource.
type Kind int

const (
	KindSphereMesh Kind = iota
	KindRingMesh
	KindOrbitLine
	KindPointPositions
	KindPointSizes
	KindPointColors
	KindPointMaterial
)

func (k Kind) String() string {
	switch k {
	case KindSphereMesh:
		return "sphere_mesh"
	case KindRingMesh:
		return "ring_mesh"
	case KindOrbitLine:
		return "orbit_line"
	case KindPointPositions:
		return "point_positions"
	case KindPointSizes:
		return "point_sizes"
	case KindPointColors:
		return "point_colors"
	case KindPointMaterial:
		return "point_material"
	default:
		return "unknown"
	}
}

// Kinds lists every resource kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindSphereMesh,
		KindRingMesh,
		KindOrbitLine,
		KindPointPositions,
		KindPointSizes,
		KindPointColors,
		KindPointMaterial,
	}
}

// Handle refers to an acquired resource. The zero Handle refers to nothing.
type Handle uint64

// Valid reports whether h was issued by a registry.
func (h Handle) Valid() bool { return h != 0 }

var (
	// ErrReleased is returned when releasing a handle twice.
	ErrReleased = errors.New("resource already released")

	// ErrUnknownHandle is returned for handles the registry never issued.
	ErrUnknownHandle = errors.New("unknown resource handle")
)

// Resource describes one acquired resource.
type Resource struct {
	Handle   Handle
	Kind     Kind
	Label    string
	Elements int // Vertex/point/element count, informational
}

// Registry issues and tracks resource handles. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	next     Handle
	live     map[Handle]Resource
	released map[Handle]struct{}
	acquired uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		live:     make(map[Handle]Resource),
		released: make(map[Handle]struct{}),
	}
}

// Acquire allocates a new resource and returns its handle.
func (r *Registry) Acquire(kind Kind, label string, elements int) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	h := r.next
	r.live[h] = Resource{Handle: h, Kind: kind, Label: label, Elements: elements}
	r.acquired++
	return h
}

// Release frees a resource. Releasing twice returns ErrReleased.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[h]; ok {
		delete(r.live, h)
		r.released[h] = struct{}{}
		return nil
	}
	if _, ok := r.released[h]; ok {
		return fmt.Errorf("release %d: %w", h, ErrReleased)
	}
	return fmt.Errorf("release %d: %w", h, ErrUnknownHandle)
}

// ReleaseAll releases every handle in hs, returning the first error.
// Zero handles are skipped.
func (r *Registry) ReleaseAll(hs ...Handle) error {
	var first error
	for _, h := range hs {
		if !h.Valid() {
			continue
		}
		if err := r.Release(h); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Lookup returns the resource for a live handle.
func (r *Registry) Lookup(h Handle) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.live[h]
	return res, ok
}

// Live returns the number of resources acquired and not yet released.
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

// LiveByKind returns the number of live resources of one kind.
func (r *Registry) LiveByKind(kind Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, res := range r.live {
		if res.Kind == kind {
			n++
		}
	}
	return n
}

// Acquired returns the total number of resources ever acquired.
func (r *Registry) Acquired() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.acquired
}

// Resources returns the live resources ordered by handle.
func (r *Registry) Resources() []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Resource, 0, len(r.live))
	for _, res := range r.live {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}
