package render

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistryAcquireRelease(t *testing.T) {
	r := NewRegistry()

	a := r.Acquire(KindSphereMesh, "Earth", 1024)
	b := r.Acquire(KindOrbitLine, "Earth", 129)

	if !a.Valid() || !b.Valid() {
		t.Fatal("acquired handles should be valid")
	}
	if a == b {
		t.Fatal("handles should be unique")
	}
	if r.Live() != 2 {
		t.Errorf("Live = %d, want 2", r.Live())
	}
	if r.LiveByKind(KindOrbitLine) != 1 {
		t.Errorf("LiveByKind(orbit_line) = %d, want 1", r.LiveByKind(KindOrbitLine))
	}

	res, ok := r.Lookup(a)
	if !ok || res.Label != "Earth" || res.Kind != KindSphereMesh || res.Elements != 1024 {
		t.Errorf("Lookup = %+v, %v", res, ok)
	}

	if err := r.Release(a); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if r.Live() != 1 {
		t.Errorf("Live after release = %d, want 1", r.Live())
	}
	if _, ok := r.Lookup(a); ok {
		t.Error("released handle should not be found")
	}
	if r.Acquired() != 2 {
		t.Errorf("Acquired = %d, want 2", r.Acquired())
	}
}

func TestRegistryDoubleRelease(t *testing.T) {
	r := NewRegistry()
	h := r.Acquire(KindPointPositions, "stars", 10)

	if err := r.Release(h); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if err := r.Release(h); !errors.Is(err, ErrReleased) {
		t.Errorf("second Release err = %v, want ErrReleased", err)
	}
	if err := r.Release(Handle(999)); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("unknown Release err = %v, want ErrUnknownHandle", err)
	}
}

func TestRegistryReleaseAllSkipsZero(t *testing.T) {
	r := NewRegistry()
	a := r.Acquire(KindPointSizes, "stars", 1)
	b := r.Acquire(KindPointColors, "stars", 1)

	if err := r.ReleaseAll(a, 0, b); err != nil {
		t.Fatalf("ReleaseAll: %v", err)
	}
	if r.Live() != 0 {
		t.Errorf("Live = %d, want 0", r.Live())
	}
	if err := r.ReleaseAll(a); !errors.Is(err, ErrReleased) {
		t.Errorf("ReleaseAll again err = %v, want ErrReleased", err)
	}
}

func TestRegistryResourcesOrdered(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		r.Acquire(KindSphereMesh, "b", 0)
	}
	res := r.Resources()
	for i := 1; i < len(res); i++ {
		if res[i-1].Handle >= res[i].Handle {
			t.Errorf("resources not ordered at %d", i)
		}
	}
}

func TestRegistryConcurrentReads(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := r.Acquire(KindRingMesh, "ring", 64)
				_ = r.Live()
				_ = r.Release(h)
			}
		}()
	}
	wg.Wait()

	if r.Live() != 0 {
		t.Errorf("Live = %d, want 0", r.Live())
	}
}

func TestKindString(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range Kinds() {
		s := k.String()
		if s == "unknown" || seen[s] {
			t.Errorf("kind %d has bad or duplicate name %q", k, s)
		}
		seen[s] = true
	}
}
