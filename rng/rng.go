// SPDX-License-Identifier: MIT
//
// Package rng centralizes deterministic random generation for xlranker.
//
// Every random decision in a run (parsimony tie-breaks, negative sampling,
// fold splits, per-run classifier seeds) draws from a generator derived from
// one top-level seed, so a whole pipeline run is reproducible.
//
// Policy:
//   - seed == 0 means DefaultSeed; any other seed is used verbatim.
//   - Substreams are derived with a SplitMix64 finalizer over (parent, stream),
//     so run r and fold f get independent, stable generators regardless of
//     the order in which they are created.
//
// Concurrency:
//   - *rand.Rand is NOT goroutine-safe. Derive one generator per goroutine.
package rng

import "math/rand"

// DefaultSeed is used when callers pass seed == 0.
const DefaultSeed int64 = 1

// Stream identifiers keep substreams of one parent seed apart.
const (
	StreamParsimony uint64 = iota + 1
	StreamNegatives
	StreamFolds
	StreamModel
	StreamSelection
)

// New returns a deterministic generator for seed (0 → DefaultSeed).
// Complexity: O(1).
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream identifier into a new seed.
// Small changes in either input give well-spread outputs.
// Complexity: O(1).
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// Derive returns New(DeriveSeed(parent, stream)).
func Derive(parent int64, stream uint64) *rand.Rand {
	return New(DeriveSeed(parent, stream))
}

// Shuffle performs an in-place Fisher–Yates shuffle of n elements via swap.
// A nil r uses the DefaultSeed stream.
// Complexity: O(n) time, O(1) extra space.
func Shuffle(n int, swap func(i, j int), r *rand.Rand) {
	if n <= 1 {
		return
	}
	if r == nil {
		r = New(0)
	}
	for i := n - 1; i > 0; i-- {
		swap(i, r.Intn(i+1))
	}
}

// Pick returns a uniformly drawn index in [0, n). n must be > 0.
func Pick(n int, r *rand.Rand) int {
	if n == 1 {
		return 0
	}
	if r == nil {
		r = New(0)
	}
	return r.Intn(n)
}
