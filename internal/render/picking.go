package render

import "sync"

// PickTable maps primitive handles to the IDs of the entities that own them.
// It is a back-reference lookup only; it does not own the primitives.
type PickTable struct {
	mu     sync.RWMutex
	owners map[Handle]int
}

// NewPickTable creates an empty pick table.
func NewPickTable() *PickTable {
	return &PickTable{owners: make(map[Handle]int)}
}

// Register records owner as the entity behind primitive h.
func (p *PickTable) Register(h Handle, owner int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.owners[h] = owner
}

// Unregister forgets primitive h.
func (p *PickTable) Unregister(h Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.owners, h)
}

// Owner returns the entity that owns primitive h.
func (p *PickTable) Owner(h Handle) (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.owners[h]
	return id, ok
}

// Len returns the number of registered primitives.
func (p *PickTable) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.owners)
}

// Hit is a primitive's footprint on screen, recorded while drawing.
type Hit struct {
	Handle Handle
	X, Y   int     // Screen cell of the primitive's center
	Radius float64 // Pick radius in cells
}

// Pick returns the primitive under screen cell (x, y). The closest hit whose
// radius covers the cell wins; on equal distance the later-drawn hit wins
// because it sits in front.
func Pick(hits []Hit, x, y int) (Handle, bool) {
	var (
		best     Handle
		bestDist = -1.0
	)
	for _, h := range hits {
		dx := float64(x - h.X)
		// Terminal cells are about twice as tall as wide.
		dy := float64(y-h.Y) * 2
		d2 := dx*dx + dy*dy
		r := h.Radius
		if r < 1 {
			r = 1
		}
		if d2 > r*r {
			continue
		}
		if bestDist < 0 || d2 <= bestDist {
			best = h.Handle
			bestDist = d2
		}
	}
	return best, bestDist >= 0
}
