package ml

import "github.com/katalvlaran/xlranker/core"

// GoldStandard is a set of known interacting protein pairs, keyed by the
// order-independent pair id.
type GoldStandard struct {
	pairs map[string]struct{}
}

// NewGoldStandard indexes pairs; member order does not matter.
func NewGoldStandard(pairs [][2]string) *GoldStandard {
	g := &GoldStandard{pairs: make(map[string]struct{}, len(pairs))}
	for _, p := range pairs {
		g.Add(p[0], p[1])
	}
	return g
}

// Add records {x, y}.
func (g *GoldStandard) Add(x, y string) {
	g.pairs[core.PairID(x, y)] = struct{}{}
}

// Contains reports whether {x, y} is a known interaction. A nil GoldStandard
// contains nothing.
func (g *GoldStandard) Contains(x, y string) bool {
	if g == nil {
		return false
	}
	_, ok := g.pairs[core.PairID(x, y)]
	return ok
}

// Len returns the number of known pairs.
func (g *GoldStandard) Len() int {
	if g == nil {
		return 0
	}
	return len(g.pairs)
}
