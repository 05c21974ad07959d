package selection

import (
	"fmt"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/rng"
)

// Best keeps the top-scoring pair of each subgroup; with WithSecondary, pairs
// tied with it become secondary.
type Best struct {
	WithSecondary bool
}

// Name implements Selector.
func (Best) Name() string { return PolicyBest }

// Select implements Selector.
func (b Best) Select(pairs []*core.ProteinPair) (Assignment, error) {
	if err := requireScores(pairs); err != nil {
		return nil, err
	}
	var promote func([]scored, int) bool
	if b.WithSecondary {
		promote = func(sg []scored, rank int) bool { return sg[rank].score == sg[0].score }
	}
	return assign(subgroups(pairs, pairScore), promote), nil
}

// Threshold promotes every non-primary pair whose score reaches Threshold.
type Threshold struct {
	Threshold float64
}

// Name implements Selector.
func (Threshold) Name() string { return PolicyThreshold }

// Select implements Selector.
func (t Threshold) Select(pairs []*core.ProteinPair) (Assignment, error) {
	if err := requireScores(pairs); err != nil {
		return nil, err
	}
	return assign(subgroups(pairs, pairScore), func(sg []scored, rank int) bool {
		return sg[rank].score >= t.Threshold
	}), nil
}

// WithinBestScore promotes up to TopN non-primary pairs whose score is at
// least best·(1−Within), in rank order.
type WithinBestScore struct {
	TopN   int
	Within float64
}

// NewWithinBestScore validates 0 ≤ within ≤ 1 and topN ≥ 0.
func NewWithinBestScore(topN int, within float64) (WithinBestScore, error) {
	w := WithinBestScore{TopN: topN, Within: within}
	return w, w.validate()
}

func (w WithinBestScore) validate() error {
	if !(w.Within >= 0 && w.Within <= 1) {
		return fmt.Errorf("%w: within=%g not in [0,1]", ErrInvalidParameter, w.Within)
	}
	if w.TopN < 0 {
		return fmt.Errorf("%w: top_n=%d < 0", ErrInvalidParameter, w.TopN)
	}
	return nil
}

// Name implements Selector.
func (WithinBestScore) Name() string { return PolicyWithin }

// Select implements Selector.
func (w WithinBestScore) Select(pairs []*core.ProteinPair) (Assignment, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if err := requireScores(pairs); err != nil {
		return nil, err
	}
	return assign(subgroups(pairs, pairScore), func(sg []scored, rank int) bool {
		// scores are non-increasing in rank, so qualifiers form a prefix
		return rank <= w.TopN && sg[rank].score >= sg[0].score*(1-w.Within)
	}), nil
}

// Random ranks pairs by seeded pseudo-scores and names one primary per
// subgroup. It ignores real scores, for parsimony-only runs without a model.
type Random struct {
	Seed int64
}

// Name implements Selector.
func (Random) Name() string { return PolicyRandom }

// Select implements Selector. Pseudo-scores are drawn in PairID order.
func (r Random) Select(pairs []*core.ProteinPair) (Assignment, error) {
	sorted := append([]*core.ProteinPair(nil), pairs...)
	sortByID(sorted)
	gen := rng.Derive(r.Seed, rng.StreamSelection)
	pseudo := make(map[string]float64, len(sorted))
	for _, pp := range sorted {
		pseudo[pp.PairID] = gen.Float64()
	}
	return assign(subgroups(pairs, func(pp *core.ProteinPair) float64 { return pseudo[pp.PairID] }), nil), nil
}
