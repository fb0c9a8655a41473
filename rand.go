package starbloom

// Rand is a mulberry32 generator: 32 bits of state, xorshift-multiply mixing.
// Equal seeds yield equal streams. Not safe for concurrent use.
type Rand struct {
	state uint32
}

// NewRand returns a generator seeded with seed.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Uint32 returns the next 32 bits of the stream.
func (r *Rand) Uint32() uint32 {
	r.state += 0x6d2b79f5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns the next value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Sign returns -1 or 1 with equal probability.
func (r *Rand) Sign() float64 {
	if r.Float64() < 0.5 {
		return -1
	}
	return 1
}

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool {
	return r.Float64() < p
}
