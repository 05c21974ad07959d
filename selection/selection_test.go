package selection_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/grouping"
	"github.com/katalvlaran/xlranker/internal/fixtures"
	"github.com/katalvlaran/xlranker/parsimony"
	"github.com/katalvlaran/xlranker/selection"
)

// ambiguous resolves ev with parsimony, scores the ambiguous pairs and
// returns them sorted by PairID.
func ambiguous(t *testing.T, ev fixtures.Evidence, scores map[string]float64) []*core.ProteinPair {
	t.Helper()
	ds := fixtures.DataSet(t, ev, nil)
	groups, err := grouping.NewAssigner().Assign(context.Background(), ds)
	require.NoError(t, err)
	_, err = parsimony.NewSelector().Run(ds, groups)
	require.NoError(t, err)
	pairs := ds.ProteinPairsWithStatus(core.ParsimonyAmbiguous)
	for _, pp := range pairs {
		if s, ok := scores[pp.PairID]; ok {
			pp.SetScore(s)
		}
	}
	return pairs
}

var oneBucket = fixtures.Evidence{"P1": {"A+A", "B+B", "C+C"}}

func TestThreshold_PrimarySecondaryNotSelected(t *testing.T) {
	pairs := ambiguous(t, oneBucket, map[string]float64{"A+A": 0.9, "B+B": 0.5, "C+C": 0.3})

	got, err := selection.Process(selection.Threshold{Threshold: 0.5}, pairs)
	require.NoError(t, err)
	require.Equal(t, selection.Assignment{
		"A+A": core.MLPrimarySelected,
		"B+B": core.MLSecondarySelected,
		"C+C": core.MLNotSelected,
	}, got)
	require.Equal(t, core.MLSecondarySelected, pairs[1].Status())
}

func TestBest(t *testing.T) {
	scores := map[string]float64{"A+A": 0.7, "B+B": 0.7, "C+C": 0.2}

	got, err := selection.Best{}.Select(ambiguous(t, oneBucket, scores))
	require.NoError(t, err)
	// tie goes to the smaller PairID
	require.Equal(t, selection.Assignment{
		"A+A": core.MLPrimarySelected,
		"B+B": core.MLNotSelected,
		"C+C": core.MLNotSelected,
	}, got)

	got, err = selection.Best{WithSecondary: true}.Select(ambiguous(t, oneBucket, scores))
	require.NoError(t, err)
	require.Equal(t, core.MLSecondarySelected, got["B+B"])
	require.Equal(t, core.MLNotSelected, got["C+C"])
}

func TestWithinBestScore(t *testing.T) {
	ev := fixtures.Evidence{"P1": {"A+A", "B+B", "C+C", "D+D"}}
	scores := map[string]float64{"A+A": 1.0, "B+B": 0.95, "C+C": 0.92, "D+D": 0.5}

	w, err := selection.NewWithinBestScore(1, 0.1)
	require.NoError(t, err)
	got, err := w.Select(ambiguous(t, ev, scores))
	require.NoError(t, err)
	require.Equal(t, selection.Assignment{
		"A+A": core.MLPrimarySelected,
		"B+B": core.MLSecondarySelected,
		"C+C": core.MLNotSelected, // within range, but TopN=1
		"D+D": core.MLNotSelected,
	}, got)

	w, err = selection.NewWithinBestScore(5, 0.1)
	require.NoError(t, err)
	got, err = w.Select(ambiguous(t, ev, scores))
	require.NoError(t, err)
	require.Equal(t, 2, got.Counts()[core.MLSecondarySelected])

	for _, bad := range []struct {
		topN   int
		within float64
	}{{1, -0.1}, {1, 1.5}, {-1, 0.5}} {
		_, err := selection.NewWithinBestScore(bad.topN, bad.within)
		require.ErrorIs(t, err, selection.ErrInvalidParameter)
	}
}

func TestPolicies_OnePrimaryPerSubgroup(t *testing.T) {
	ev := fixtures.Evidence{
		"P1": {"A+A", "B+B"},
		"P2": {"C+C", "D+D", "E+E"},
		"P3": {"F+F", "G+G"},
	}
	scores := map[string]float64{"A+A": 0.1, "B+B": 0.8, "C+C": 0.4, "D+D": 0.4, "E+E": 0.9, "F+F": 0.3, "G+G": 0.3}
	within, err := selection.NewWithinBestScore(2, 0.5)
	require.NoError(t, err)

	for _, s := range []selection.Selector{
		selection.Best{WithSecondary: true},
		selection.Threshold{Threshold: 0.35},
		within,
		selection.Random{Seed: 3},
	} {
		t.Run(s.Name(), func(t *testing.T) {
			pairs := ambiguous(t, ev, scores)
			_, err := selection.Process(s, pairs)
			require.NoError(t, err)

			primaries := map[string]int{}
			for _, pp := range pairs {
				require.True(t, pp.Status().IsTerminal())
				if pp.Status() == core.MLPrimarySelected {
					primaries[pp.ConnectivityID()]++
				}
			}
			require.Equal(t, map[string]int{"P1": 1, "P2": 1, "P3": 1}, primaries)

			// statuses never move again
			_, err = selection.Process(s, pairs)
			require.ErrorIs(t, err, core.ErrIllegalTransition)
		})
	}
}

func TestRandom_Reproducible(t *testing.T) {
	ev := fixtures.Evidence{"P1": {"A+A", "B+B", "C+C", "D+D", "E+E"}}
	a, err := selection.Random{Seed: 11}.Select(ambiguous(t, ev, nil))
	require.NoError(t, err)
	b, err := selection.Random{Seed: 11}.Select(ambiguous(t, ev, nil))
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, 1, a.Counts()[core.MLPrimarySelected])
	require.Equal(t, 4, a.Counts()[core.MLNotSelected])
}

// TestScoringPolicies_RejectNonFinite checks NaN and infinite scores are
// refused like missing ones, since they cannot be ranked.
func TestScoringPolicies_RejectNonFinite(t *testing.T) {
	policies := map[string]selection.Selector{
		"best":      selection.Best{},
		"threshold": selection.Threshold{Threshold: 0.5},
		"within":    selection.WithinBestScore{TopN: 2, Within: 0.1},
	}
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		for name, policy := range policies {
			pairs := ambiguous(t, oneBucket, map[string]float64{"A+A": 0.9, "B+B": bad, "C+C": 0.3})
			_, err := policy.Select(pairs)
			require.ErrorIs(t, err, selection.ErrUnscored, "%s with %v", name, bad)
		}
	}
}

func TestProcess_Errors(t *testing.T) {
	pairs := ambiguous(t, oneBucket, map[string]float64{"A+A": 0.9})
	_, err := selection.Process(selection.Best{}, pairs)
	require.ErrorIs(t, err, selection.ErrUnscored)
	for _, pp := range pairs {
		require.Equal(t, core.ParsimonyAmbiguous, pp.Status(), "nothing applied on error")
	}

	_, err = selection.New("nope", selection.Params{})
	require.ErrorIs(t, err, selection.ErrUnknownPolicy)

	s, err := selection.New(selection.PolicyThreshold, selection.Params{Threshold: 0.4})
	require.NoError(t, err)
	require.Equal(t, selection.Threshold{Threshold: 0.4}, s)

	_, err = selection.New(selection.PolicyWithin, selection.Params{TopN: 1, Within: 2})
	require.ErrorIs(t, err, selection.ErrInvalidParameter)
}
