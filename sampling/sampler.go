// SPDX-License-Identifier: MIT
// Package: xlranker/sampling
//
// sampler.go - negative protein-pair sampling for classifier training.
//
// Canonical model:
//   - Universe: every unordered pair {i,j}, i<j, over the known proteins
//     (intra pairs are never negatives).
//   - Excluded: pairs already present in the dataset, and pairs whose two
//     proteins share at least one gene set.
//   - Sample(r, n) draws n distinct pairs uniformly from universe \ excluded.
//
// Contract:
//   - n larger than Available() is clamped with a warning, or fails with
//     ErrSampleTooLarge when the sampler is fragile.
//   - n ≤ 0 yields an empty sample.
//   - The generator must be non-nil (ErrNeedRand).
//
// Strategy:
//   - 2n ≤ Available(): rejection sampling over index pairs with a
//     generated-set check; expected O(n) draws.
//   - otherwise: enumerate the available pairs and take a partial
//     Fisher–Yates shuffle of length n; O(N²) but bounded.
//
// Determinism:
//   - Proteins are indexed in sorted name order and draws happen in a fixed
//     order, so a fixed seed yields the same sample.

package sampling

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/core"
)

var (
	// ErrSampleTooLarge indicates a fragile request above Available().
	ErrSampleTooLarge = errors.New("sampling: requested more negatives than available")
	// ErrNeedRand indicates a nil generator.
	ErrNeedRand = errors.New("sampling: nil random source")
)

// Sampler draws negative protein pairs.
type Sampler struct {
	names     []string
	proteins  map[string]*core.Protein
	excluded  map[string]struct{}
	available int

	fragile bool
	logger  *zap.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithFragile makes oversized requests fail instead of being clamped.
func WithFragile(fragile bool) Option {
	return func(s *Sampler) { s.fragile = fragile }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New indexes proteins and precomputes the excluded set.
// existing holds pair ids already in the dataset; geneSets lists member
// protein names per gene set. Names unknown to proteins are ignored.
//
// Complexity: O(P log P + E + Σ|g|²) for P proteins, E existing pairs and
// gene sets g.
func New(proteins []*core.Protein, existing []string, geneSets [][]string, opts ...Option) *Sampler {
	s := &Sampler{
		proteins: make(map[string]*core.Protein, len(proteins)),
		excluded: make(map[string]struct{}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, p := range proteins {
		if p == nil || p.Name == "" {
			continue
		}
		if _, ok := s.proteins[p.Name]; !ok {
			s.names = append(s.names, p.Name)
		}
		s.proteins[p.Name] = p
	}
	sort.Strings(s.names)

	for _, id := range existing {
		s.exclude(id)
	}
	for _, set := range geneSets {
		members := s.knownMembers(set)
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				s.exclude(core.PairID(members[i], members[j]))
			}
		}
	}

	n := len(s.names)
	s.available = n*(n-1)/2 - len(s.excluded)
	if s.available < 0 {
		s.available = 0
	}
	return s
}

// exclude records id when it is a non-intra pair of known proteins.
func (s *Sampler) exclude(id string) {
	for i := 0; i < len(id); i++ {
		if id[i:i+1] != core.PairSeparator {
			continue
		}
		a, b := id[:i], id[i+1:]
		_, aok := s.proteins[a]
		_, bok := s.proteins[b]
		if aok && bok && a != b {
			s.excluded[core.PairID(a, b)] = struct{}{}
			return
		}
	}
}

// knownMembers returns the distinct members of set known to the sampler.
func (s *Sampler) knownMembers(set []string) []string {
	seen := make(map[string]struct{}, len(set))
	out := make([]string, 0, len(set))
	for _, name := range set {
		if _, ok := s.proteins[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Available returns how many distinct negatives can be drawn.
func (s *Sampler) Available() int { return s.available }

// IsExcluded reports whether the unordered pair {x, y} can never be drawn.
func (s *Sampler) IsExcluded(x, y string) bool {
	if x == y {
		return true
	}
	_, ok := s.excluded[core.PairID(x, y)]
	return ok
}

// Sample draws n negatives. See the file header for the contract.
func (s *Sampler) Sample(r *rand.Rand, n int) ([]*core.ProteinPair, error) {
	if r == nil {
		return nil, ErrNeedRand
	}
	if n <= 0 {
		return nil, nil
	}
	if n > s.available {
		if s.fragile {
			return nil, fmt.Errorf("%w: requested %d, available %d", ErrSampleTooLarge, n, s.available)
		}
		s.logger.Warn("negative sample clamped to available pairs",
			zap.Int("requested", n),
			zap.Int("available", s.available))
		n = s.available
		if n == 0 {
			return nil, nil
		}
	}

	var ids [][2]int
	if 2*n <= s.available {
		ids = s.rejection(r, n)
	} else {
		ids = s.enumerate(r, n)
	}

	out := make([]*core.ProteinPair, len(ids))
	for k, ij := range ids {
		out[k] = core.NewProteinPair(s.proteins[s.names[ij[0]]], s.proteins[s.names[ij[1]]])
	}
	return out, nil
}

// rejection draws index pairs until n distinct admissible ones are found.
func (s *Sampler) rejection(r *rand.Rand, n int) [][2]int {
	total := len(s.names)
	generated := make(map[string]struct{}, n)
	out := make([][2]int, 0, n)
	for len(out) < n {
		i, j := r.Intn(total), r.Intn(total)
		if s.IsExcluded(s.names[i], s.names[j]) {
			continue
		}
		if i > j {
			i, j = j, i
		}
		id := core.PairID(s.names[i], s.names[j])
		if _, ok := generated[id]; ok {
			continue
		}
		generated[id] = struct{}{}
		out = append(out, [2]int{i, j})
	}
	return out
}

// enumerate lists admissible pairs in (i asc, j asc) order and keeps the
// first n after a partial shuffle.
func (s *Sampler) enumerate(r *rand.Rand, n int) [][2]int {
	all := make([][2]int, 0, s.available)
	for i := 0; i < len(s.names); i++ {
		for j := i + 1; j < len(s.names); j++ {
			if s.IsExcluded(s.names[i], s.names[j]) {
				continue
			}
			all = append(all, [2]int{i, j})
		}
	}
	for k := 0; k < n; k++ {
		m := k + r.Intn(len(all)-k)
		all[k], all[m] = all[m], all[k]
	}
	return all[:n]
}
