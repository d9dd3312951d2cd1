package verify

import (
	"encoding/binary"
	"math/rand"
)

// FillRandom fills p with pseudo-random bytes drawn from rng. Each draw
// yields exactly one 64-bit word; the copy is capped at the word width and
// the loop iterates, so the generator is never assumed to produce more than
// one machine word of usable entropy per call. Given the same seed and call
// sequence the output is reproducible, which lets a separately-seeded
// reader regenerate the payload byte for byte.
func FillRandom(rng *rand.Rand, p []byte) {
	var word [8]byte
	for len(p) > 0 {
		binary.LittleEndian.PutUint64(word[:], rng.Uint64())
		n := copy(p, word[:])
		p = p[n:]
	}
}
