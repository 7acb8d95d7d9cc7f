package astro

import (
	"math"
	"testing"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{3 * math.Pi, math.Pi},
		{-math.Pi / 2, 1.5 * math.Pi},
		{-2 * math.Pi, 0},
		{1e6 * math.Pi, 0},
	}

	for _, tt := range tests {
		got := WrapAngle(tt.in)
		if got < 0 || got >= TwoPi {
			t.Errorf("WrapAngle(%v) = %v, out of [0, 2π)", tt.in, got)
		}
		if AngularDistance(got, tt.want) > 1e-6 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAngularDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"same", 1, 1, 0},
		{"across zero", 0.1, TwoPi - 0.1, 0.2},
		{"opposite", 0, math.Pi, math.Pi},
		{"full turns apart", 0.5, 0.5 + 4*math.Pi, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularDistance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngularDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAngularRate(t *testing.T) {
	// One day in days converts to one turn per 86400s.
	got := AngularRate(1, SecondsPerDay)
	want := TwoPi / 86400
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("AngularRate(1 day) = %v, want %v", got, want)
	}

	for _, p := range []float64{0, -1} {
		if r := AngularRate(p, SecondsPerHour); r != 0 {
			t.Errorf("AngularRate(%v) = %v, want 0", p, r)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(1, 3, 0); got != 1 {
		t.Errorf("Lerp t=0 = %v", got)
	}
	if got := Lerp(1, 3, 1); got != 3 {
		t.Errorf("Lerp t=1 = %v", got)
	}
	if got := Lerp(1, 3, 0.5); got != 2 {
		t.Errorf("Lerp t=0.5 = %v", got)
	}
}

func TestDegRadRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, 359} {
		if got := RadToDeg(DegToRad(deg)); math.Abs(got-deg) > 1e-10 {
			t.Errorf("round trip %v = %v", deg, got)
		}
	}
}
