package emitter

import "math/rand/v2"

// shuffled returns a uniformly random permutation of ids. The input is not
// modified.
func shuffled(rng *rand.Rand, ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
