package random

import "math/rand"

// countingSource counts draws from the underlying source so that an RNG
// can be fast-forwarded to the same point after a load.
type countingSource struct {
	src rand.Source
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.n = 0
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts raw source draws, enabling save/restore.
type RNG struct {
	seed int64
	cs   *countingSource
	src  *rand.Rand
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cs := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		cs:   cs,
		src:  rand.New(cs),
	}
}

// Float64 returns a number in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Intn returns a number in [0, n).
func (r *RNG) Intn(n int) int {
	return r.src.Intn(n)
}

// Shuffle randomizes the order of n elements with a Fisher-Yates pass.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.src.Shuffle(n, swap)
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source draws since creation.
func (r *RNG) Position() int64 {
	return r.cs.n
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.cs.Int63()
	}
	return rng
}
