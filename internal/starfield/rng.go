package starfield

// LCG constants. The same seed always yields the same sequence.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Rand is the seeded linear congruential generator that drives placement,
// size and color selection.
type Rand struct {
	state int64
}

// NewRand creates a generator. Seeds outside [0, modulus) are reduced into
// it, which leaves the sequence of any non-negative seed unchanged.
func NewRand(seed int64) *Rand {
	s := seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return &Rand{state: s}
}

// Float64 advances the generator and returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.state) / lcgModulus
}
