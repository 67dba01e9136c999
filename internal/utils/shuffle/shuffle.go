// Package shuffle provides a reproducible Fisher–Yates shuffle driven by a
// 32-bit linear congruential generator.
package shuffle

const (
	multiplier = 1664525
	increment  = 1013904223
)

// LCG is the Numerical Recipes generator: state = (a*state + c) mod 2^32.
// The modulus is implicit in uint32 overflow.
type LCG struct {
	state uint32
}

func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint32 {
	g.state = g.state*multiplier + increment
	return g.state
}

// Intn returns a value in [0, n) by scaling the next state, i.e.
// floor(state / 2^32 * n).
func (g *LCG) Intn(n int) int {
	return int((uint64(g.Next()) * uint64(n)) >> 32)
}

// Shuffle permutes items in place. The same seed and input always
// produce the same order.
func Shuffle[T any](items []T, seed uint32) {
	g := NewLCG(seed)
	for i := len(items) - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
