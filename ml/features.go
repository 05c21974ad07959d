package ml

import (
	"sort"

	"github.com/katalvlaran/xlranker/core"
)

// KnownPPIFeature is the name of the gold-standard indicator column.
const KnownPPIFeature = "known_ppi"

// FeatureBuilder turns protein pairs into feature rows.
type FeatureBuilder struct {
	sources []string
	gold    *GoldStandard
}

// NewFeatureBuilder returns a builder over sources (sorted, deduplicated).
// gold may be nil, in which case known_ppi is always 0.
func NewFeatureBuilder(sources []string, gold *GoldStandard) *FeatureBuilder {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return &FeatureBuilder{sources: out, gold: gold}
}

// Names returns the column names in row order.
func (b *FeatureBuilder) Names() []string {
	out := make([]string, 0, b.Width())
	for _, s := range b.sources {
		out = append(out, s+"_a", s+"_b")
	}
	return append(out, KnownPPIFeature)
}

// Width returns the number of columns.
func (b *FeatureBuilder) Width() int { return 2*len(b.sources) + 1 }

// Row builds the feature row of pp.
func (b *FeatureBuilder) Row(pp *core.ProteinPair) []float64 {
	row := pp.AbundanceRow(b.sources)
	known := 0.0
	if b.gold.Contains(pp.A.Name, pp.B.Name) {
		known = 1
	}
	return append(row, known)
}

// Rows builds one row per pair, in order.
func (b *FeatureBuilder) Rows(pairs []*core.ProteinPair) [][]float64 {
	out := make([][]float64, len(pairs))
	for i, pp := range pairs {
		out[i] = b.Row(pp)
	}
	return out
}
