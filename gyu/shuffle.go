package gyu

import "github.com/sensokaku/retouchtk/internal/mt19937"

// shuffle applies the ten MT19937-derived index-pair swaps described in
// spec for seed over the first size bytes of data, in place. Each pair
// exchange is its own inverse and the ten exchanges are pairwise
// independent with overwhelming probability for realistically sized
// buffers, so the same primitive serves both scramble (encode) and
// unscramble (decode); do not implement two separate routines.
//
// size drives the index draws and may differ from len(data); indices
// that land outside [0, len(data)) are silently skipped rather than
// treated as an error.
func shuffle(seed uint32, size int, data []byte) {
	if seed == 0 {
		return
	}
	e := mt19937.New(seed)
	for i := 0; i < 10; i++ {
		a := e.Intn(size)
		b := e.Intn(size)
		if a < 0 || b < 0 || a >= len(data) || b >= len(data) {
			continue
		}
		data[a], data[b] = data[b], data[a]
	}
}
