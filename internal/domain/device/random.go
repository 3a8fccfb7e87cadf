package device

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// pcgStream is mixed into the seed to derive the PCG increment
const pcgStream = 0x9e3779b97f4a7c15

// random is the store's seeded source. All draws happen under Store.mu.
type random struct {
	src rand.Source
	rng *rand.Rand
}

func newRandom(seed uint64) *random {
	src := rand.NewPCG(seed, seed^pcgStream)
	return &random{src: src, rng: rand.New(src)}
}

// uniform draws from U[lo, hi)
func (r *random) uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: r.src}.Rand()
}

// intn draws an integer in [0, n)
func (r *random) intn(n int) int {
	return r.rng.IntN(n)
}
