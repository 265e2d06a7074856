package engine

import (
	"math/rand"

	"github.com/nathoo/byteworld/types"
)

// Source is the random stream an RNG draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// RNG wraps a Source with position tracking. Position increments with every
// draw, so two sessions that drew the same number of values from the same
// seed are in the same place.
type RNG struct {
	seed int64
	src  Source
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// NewRNGFrom creates an RNG over an arbitrary source. Tests use it to script
// draws.
func NewRNGFrom(seed int64, src Source) *RNG {
	return &RNG{seed: seed, src: src}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.pos++
	return r.src.Intn(sides) + 1
}

// Between returns a random integer in [lo, hi].
func (r *RNG) Between(lo, hi int) int {
	r.pos++
	return lo + r.src.Intn(hi-lo+1)
}

// Float returns a random fraction in [0, 1).
func (r *RNG) Float() float64 {
	r.pos++
	return r.src.Float64()
}

// Pick returns a random index in [0, n).
func (r *RNG) Pick(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// PickWeighted draws an integer in [1, total weight] and walks the table
// until the running sum reaches it. It returns "" for an empty table.
func (r *RNG) PickWeighted(table []types.Weighted) string {
	if len(table) == 0 {
		return ""
	}
	total := 0
	for _, w := range table {
		total += w.Weight
	}
	roll := r.Roll(total)
	cumulative := 0
	for _, w := range table {
		cumulative += w.Weight
		if cumulative >= roll {
			return w.ID
		}
	}
	return table[len(table)-1].ID
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
