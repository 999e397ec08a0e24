package img2dither

import "math/rand/v2"

// pcgStream is the fixed PCG stream selector; only the seed varies.
const pcgStream = 0xda3e39cb94b95bdb

// newRNG returns a fresh generator for one dither call. Two generators
// built from the same seed yield identical sequences.
func newRNG(seed uint32) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgStream))
}
