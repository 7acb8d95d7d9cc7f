package astro

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Seconds per hour and per day, for period conversions.
const (
	SecondsPerHour = 3600.0
	SecondsPerDay  = 86400.0
)

// WrapAngle normalizes an angle in radians to [0, 2π).
func WrapAngle(rad float64) float64 {
	a := math.Mod(rad, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod can land exactly on 2π after the negative correction.
	if a >= TwoPi {
		a = 0
	}
	return a
}

// AngularDistance returns the smallest absolute difference between two
// angles in radians, in [0, π].
func AngularDistance(a, b float64) float64 {
	d := WrapAngle(a - b)
	if d > math.Pi {
		d = TwoPi - d
	}
	return d
}

// AngularRate returns the angular velocity in rad/s of a full turn that
// takes period units of unitSeconds each. Non-positive periods have no rate.
func AngularRate(period, unitSeconds float64) float64 {
	if period <= 0 {
		return 0
	}
	return TwoPi / (period * unitSeconds)
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
