// Package mt19937 implements the Retouch Engine's MT19937 variant.
//
// The tempering and twist are standard MT19937. The seeding schedule is
// not: it drives a separate 32-bit LCG (a_{n+1} = 69069*a_n + 1) to fill
// the 624-word state, then performs one twist immediately, before the
// first Next call. Every downstream byte of both the GYU shuffle and the
// RLD keystream depends on reproducing this exactly.
package mt19937

const (
	n         = 624
	m         = 397
	matrixA   = 0x9908B0DF
	upperMask = 0x80000000
	lowerMask = 0x7FFFFFFF
)

// Engine is an MT19937 generator seeded with the Retouch Engine schedule.
type Engine struct {
	state  [n]uint32
	cursor int
}

// New creates and seeds an Engine.
func New(seed uint32) *Engine {
	e := &Engine{}
	e.Seed(seed)
	return e
}

// Seed resets the engine's state using the custom LCG-driven schedule and
// performs the first twist, leaving the engine ready for Next.
func (e *Engine) Seed(seed uint32) {
	a := seed
	idx := 0
	for outer := 0; outer < 104; outer++ {
		for inner := 0; inner < 6; inner++ {
			if idx >= n {
				break
			}
			hi := a & 0xFFFF0000
			a = 69069*a + 1
			e.state[idx] = hi | (a >> 16)
			a = 69069*a + 1
			idx++
		}
	}
	e.twist()
}

// twist performs the classic period-397 MT19937 state reload.
func (e *Engine) twist() {
	for i := 0; i < n-m; i++ {
		y := (e.state[i] & upperMask) | (e.state[i+1] & lowerMask)
		e.state[i] = e.state[i+m] ^ (y >> 1) ^ mag01(y)
	}
	for i := n - m; i < n-1; i++ {
		y := (e.state[i] & upperMask) | (e.state[i+1] & lowerMask)
		e.state[i] = e.state[i-(n-m)] ^ (y >> 1) ^ mag01(y)
	}
	y := (e.state[n-1] & upperMask) | (e.state[0] & lowerMask)
	e.state[n-1] = e.state[m-1] ^ (y >> 1) ^ mag01(y)
	e.cursor = 0
}

func mag01(y uint32) uint32 {
	if y&1 != 0 {
		return matrixA
	}
	return 0
}

// Next draws and tempers the next 32-bit word, reloading the state when
// the cursor runs off the end.
func (e *Engine) Next() uint32 {
	if e.cursor >= n {
		e.twist()
	}
	y := e.state[e.cursor]
	e.cursor++

	y ^= y >> 11
	y ^= (y << 7) & 0x9D2C5680
	y ^= (y << 15) & 0xEFC60000
	y ^= y >> 18

	return y
}

// Intn returns a uniform value in [0, bound), or 0 if bound <= 0.
// Named Intn rather than the source's "rand" to avoid colliding with the
// standard math/rand vocabulary when both packages are imported together.
func (e *Engine) Intn(bound int) int {
	if bound <= 0 {
		return 0
	}
	return int(e.Next() % uint32(bound))
}

// KeyTable draws 256 words from an engine freshly seeded with seed and
// XORs each against seed, producing the RLD keystream table.
func KeyTable(seed uint32) [256]uint32 {
	e := New(seed)
	var table [256]uint32
	for i := range table {
		table[i] = e.Next() ^ seed
	}
	return table
}
