// Package astro provides the vector and angle math shared by the orrery
// simulation and its renderers.
package astro

import "math"

// Vec3 represents a 3D vector in the orrery's scene frame.
// Y is the orbit axis; every orbital plane is Y = 0.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// PlanarRadius returns the distance from the orbit axis (length in the XZ plane).
func (v Vec3) PlanarRadius() float64 {
	return math.Hypot(v.X, v.Z)
}

// OnOrbit returns the point at angle on a circle of radius r in the
// reference plane: (r·cos(angle), 0, r·sin(angle)).
func OnOrbit(r, angle float64) Vec3 {
	return Vec3{X: r * math.Cos(angle), Y: 0, Z: r * math.Sin(angle)}
}

// Spherical returns the point at polar angle phi and azimuth theta on a
// sphere of radius r, with the pole along +Z.
func Spherical(r, theta, phi float64) Vec3 {
	sinPhi := math.Sin(phi)
	return Vec3{
		X: r * sinPhi * math.Cos(theta),
		Y: r * sinPhi * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}
