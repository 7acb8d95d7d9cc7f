package astro

import (
	"math"
	"testing"
)

func TestVec3Norm(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"zero", Vec3{0, 0, 0}, 0},
		{"unit x", Vec3{1, 0, 0}, 1},
		{"unit y", Vec3{0, 1, 0}, 1},
		{"unit z", Vec3{0, 0, 1}, 1},
		{"3-4-5", Vec3{3, 4, 0}, 5},
		{"negative", Vec3{-3, -4, 0}, 5},
		{"3D", Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Norm()
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Normalized(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec3
	}{
		{"unit x", Vec3{5, 0, 0}, Vec3{1, 0, 0}},
		{"unit z", Vec3{0, 0, 3}, Vec3{0, 0, 1}},
		{"diagonal", Vec3{1, 0, 1}, Vec3{1 / math.Sqrt(2), 0, 1 / math.Sqrt(2)}},
		{"zero", Vec3{0, 0, 0}, Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalized()
			if math.Abs(got.X-tt.want.X) > 1e-10 ||
				math.Abs(got.Y-tt.want.Y) > 1e-10 ||
				math.Abs(got.Z-tt.want.Z) > 1e-10 {
				t.Errorf("Normalized() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3AddSub(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
}

func TestOnOrbit(t *testing.T) {
	tests := []struct {
		name  string
		r     float64
		angle float64
		want  Vec3
	}{
		{"start", 10, 0, Vec3{10, 0, 0}},
		{"quarter", 10, math.Pi / 2, Vec3{0, 0, 10}},
		{"half", 10, math.Pi, Vec3{-10, 0, 0}},
		{"full turn", 10, 2 * math.Pi, Vec3{10, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnOrbit(tt.r, tt.angle)
			if got.Y != 0 {
				t.Errorf("OnOrbit Y = %v, want exactly 0", got.Y)
			}
			if got.Sub(tt.want).Norm() > 1e-9 {
				t.Errorf("OnOrbit(%v, %v) = %v, want %v", tt.r, tt.angle, got, tt.want)
			}
		})
	}
}

func TestSphericalOnSphere(t *testing.T) {
	for _, phi := range []float64{0, 0.3, math.Pi / 2, 2.5, math.Pi} {
		for _, theta := range []float64{0, 1, 3, 5.5} {
			v := Spherical(42, theta, phi)
			if math.Abs(v.Norm()-42) > 1e-9 {
				t.Errorf("Spherical(42, %v, %v) norm = %v", theta, phi, v.Norm())
			}
		}
	}
}
