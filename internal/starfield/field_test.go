package starfield

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/render"
)

func TestDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	a := New(cfg, render.NewRegistry())
	b := New(cfg, render.NewRegistry())

	ba, err := a.Buffers()
	if err != nil {
		t.Fatalf("Buffers: %v", err)
	}
	bb, _ := b.Buffers()

	compare := func(name string, x, y []float32) {
		if len(x) != len(y) {
			t.Fatalf("%s length %d vs %d", name, len(x), len(y))
		}
		for i := range x {
			if math.Float32bits(x[i]) != math.Float32bits(y[i]) {
				t.Fatalf("%s[%d] differs: %v vs %v", name, i, x[i], y[i])
			}
		}
	}
	compare("positions", ba.Positions, bb.Positions)
	compare("sizes", ba.Sizes, bb.Sizes)
	compare("colors", ba.Colors, bb.Colors)

	if len(ba.Positions) != cfg.Count*3 || len(ba.Sizes) != cfg.Count || len(ba.Colors) != cfg.Count*3 {
		t.Errorf("buffer sizes = %d/%d/%d for %d stars", len(ba.Positions), len(ba.Sizes), len(ba.Colors), cfg.Count)
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 10
	a := Generate(cfg)
	cfg.Seed = 2
	b := Generate(cfg)

	if a[0].Position == b[0].Position {
		t.Error("different seeds produced the same first star")
	}
}

func TestPolarUniformity(t *testing.T) {
	const (
		count = 100000
		bins  = 18
	)
	cfg := DefaultConfig()
	cfg.Count = count
	cfg.Radius = 1
	cfg.Seed = 42

	hist := make([]int, bins)
	for _, s := range Generate(cfg) {
		phi := math.Acos(math.Max(-1, math.Min(1, s.Position.Z)))
		b := int(phi / math.Pi * bins)
		if b >= bins {
			b = bins - 1
		}
		hist[b]++
	}

	// Expected count per band is proportional to the integral of sin φ.
	for i, got := range hist {
		lo := float64(i) * math.Pi / bins
		hi := float64(i+1) * math.Pi / bins
		want := count * (math.Cos(lo) - math.Cos(hi)) / 2
		if dev := math.Abs(float64(got)-want) / want; dev > 0.10 {
			t.Errorf("band %d: %d stars, want ~%.0f (deviation %.1f%%)", i, got, want, dev*100)
		}
	}

	// A naive uniform-φ placement would put count/bins in the polar band,
	// several times more than the sin φ profile allows.
	polarWant := count * (1 - math.Cos(math.Pi/bins)) / 2
	if float64(hist[0]) > 2*polarWant {
		t.Errorf("pole clustering: %d stars in polar band, want ~%.0f", hist[0], polarWant)
	}
}

func TestSingleStarOnSphere(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1
	cfg.Seed = 1
	cfg.Radius = 100

	f := New(cfg, render.NewRegistry())
	stars := f.Stars()
	if len(stars) != 1 {
		t.Fatalf("stars = %d, want 1", len(stars))
	}
	if d := math.Abs(stars[0].Position.Norm() - cfg.Radius); d > 1e-12*cfg.Radius {
		t.Errorf("distance from origin = %v, want %v", stars[0].Position.Norm(), cfg.Radius)
	}
}

func TestAllStarsOnSphere(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 5000
	for i, s := range Generate(cfg) {
		if math.Abs(s.Position.Norm()-cfg.Radius) > 1e-9 {
			t.Fatalf("star %d at distance %v, want %v", i, s.Position.Norm(), cfg.Radius)
		}
	}
}

func TestSizesWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSize = 0.5
	cfg.MaxSize = 4
	for i, s := range Generate(cfg) {
		if s.Size < cfg.MinSize || s.Size >= cfg.MaxSize {
			t.Fatalf("star %d size %v outside [%v, %v)", i, s.Size, cfg.MinSize, cfg.MaxSize)
		}
	}
}

func TestColorsFromPalette(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 20000
	cfg.Colors = []Color{{R: 1}, {G: 1}, {B: 1}}

	counts := make(map[Color]int)
	for _, s := range Generate(cfg) {
		counts[s.Color]++
	}
	if len(counts) != len(cfg.Colors) {
		t.Errorf("used %d colors, want %d", len(counts), len(cfg.Colors))
	}
	for _, c := range cfg.Colors {
		if counts[c] < cfg.Count/len(cfg.Colors)/2 {
			t.Errorf("color %v used %d times, expected roughly even use", c, counts[c])
		}
	}
}

func TestSingleColorPalette(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 1000
	cfg.Colors = []Color{{R: 0.5, G: 0.5, B: 0.5}}
	for _, s := range Generate(cfg) {
		if s.Color != cfg.Colors[0] {
			t.Fatalf("color %v, want only palette entry", s.Color)
		}
	}
}

func TestEmptyPaletteFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colors = nil
	f := New(cfg, nil)
	if len(f.Config().Colors) != len(DefaultPalette()) {
		t.Errorf("palette = %d colors, want default", len(f.Config().Colors))
	}
}

func TestZeroCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 0
	f := New(cfg, nil)
	if f.Len() != 0 {
		t.Errorf("Len = %d, want 0", f.Len())
	}
}

func TestUpdateClamped(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		dt       float64
		wantTime float64
	}{
		{"slow", 1000, 1, 0.01},
		{"at ceiling", 2000, 1, 0.02},
		{"above ceiling", 1e9, 1, 0.02},
		{"paused", 0, 1, 0},
		{"longer frame", 1000, 2.5, 0.025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(DefaultConfig(), nil)
			f.Update(tt.dt, tt.speed)
			if math.Abs(f.Time()-tt.wantTime) > 1e-12 {
				t.Errorf("Time = %v, want %v", f.Time(), tt.wantTime)
			}
		})
	}
}

func TestUpdateDoesNotMoveStars(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 50
	f := New(cfg, nil)
	before, _ := f.Buffers()

	for i := 0; i < 100; i++ {
		f.Update(0.016, 483712)
	}
	after, _ := f.Buffers()
	for i := range before.Positions {
		if before.Positions[i] != after.Positions[i] {
			t.Fatalf("position %d changed after Update", i)
		}
	}
}

func TestTwinkleRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 200
	f := New(cfg, nil)
	for step := 0; step < 50; step++ {
		f.Update(1, 1e6)
		for i := 0; i < f.Len(); i++ {
			tw := f.Twinkle(i)
			if tw < 0.7-1e-12 || tw > 1.0+1e-12 {
				t.Fatalf("Twinkle(%d) = %v, out of [0.7, 1]", i, tw)
			}
		}
	}
}

func TestDispose(t *testing.T) {
	reg := render.NewRegistry()
	f := New(DefaultConfig(), reg)

	if reg.Live() != 4 {
		t.Fatalf("Live = %d, want 4 (positions, sizes, colors, material)", reg.Live())
	}
	if err := f.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if reg.Live() != 0 {
		t.Errorf("Live after Dispose = %d, want 0", reg.Live())
	}
	if !f.Disposed() || f.Stars() != nil || f.Len() != 0 || f.Handles() != nil {
		t.Error("disposed field should expose nothing")
	}
	if _, err := f.Buffers(); !errors.Is(err, ErrDisposed) {
		t.Errorf("Buffers err = %v, want ErrDisposed", err)
	}
	if err := f.Dispose(); !errors.Is(err, ErrDisposed) {
		t.Errorf("second Dispose err = %v, want ErrDisposed", err)
	}

	before := f.Time()
	f.Update(1, 1000)
	if f.Time() != before {
		t.Error("Update after Dispose should be ignored")
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		hex  uint32
		want string
	}{
		{0xffffff, "#ffffff"},
		{0xffddaa, "#ffddaa"},
		{0x000000, "#000000"},
		{0xaaccff, "#aaccff"},
	}
	for _, tt := range tests {
		if got := ColorFromHex(tt.hex).Hex(); got != tt.want {
			t.Errorf("Hex(%06x) = %s, want %s", tt.hex, got, tt.want)
		}
	}
}
