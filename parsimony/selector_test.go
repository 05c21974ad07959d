package parsimony_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/grouping"
	"github.com/katalvlaran/xlranker/internal/fixtures"
	"github.com/katalvlaran/xlranker/parsimony"
	"github.com/katalvlaran/xlranker/rng"
)

func assign(t *testing.T, ds *core.DataSet) *grouping.Groups {
	t.Helper()
	groups, err := grouping.NewAssigner().Assign(context.Background(), ds)
	require.NoError(t, err)
	return groups
}

// TestResolve_SinglePairCoversAll: one protein pair explains P1 and P2.
func TestResolve_SinglePairCoversAll(t *testing.T) {
	ds := fixtures.DataSet(t, fixtures.Evidence{
		"P1": {"A+B"},
		"P2": {"A+B"},
	}, nil)
	groups := assign(t, ds)

	res, err := parsimony.NewSelector().Resolve(ds, groups, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"A+B"}, res.Primary)
	require.Empty(t, res.Ambiguous)
	require.Empty(t, res.NotSelected)
	require.Equal(t, core.ParsimonyPrimarySelected, fixtures.ProteinPair(t, ds, "A+B").Status())
}

// TestResolve_IdenticalConnectionsAreAmbiguous: X and Y both explain only P1.
func TestResolve_IdenticalConnectionsAreAmbiguous(t *testing.T) {
	ds := fixtures.DataSet(t, fixtures.Evidence{
		"P1": {"X+X", "Y+Y"},
	}, nil)
	groups := assign(t, ds)

	res, err := parsimony.NewSelector().Resolve(ds, groups, 1)
	require.NoError(t, err)
	require.Empty(t, res.Primary)
	require.Equal(t, [][]string{{"X+X", "Y+Y"}}, res.Ambiguous)
	require.Zero(t, res.Ties)

	x := fixtures.ProteinPair(t, ds, "X+X")
	y := fixtures.ProteinPair(t, ds, "Y+Y")
	require.Equal(t, core.ParsimonyAmbiguous, x.Status())
	require.Equal(t, core.ParsimonyAmbiguous, y.Status())
	require.Equal(t, x.SubgroupID(), y.SubgroupID())
	require.Equal(t, "1.1", x.GroupString())
}

// TestResolve_GreedyPicksBroadest builds
//
//	A+B: P1 P2 P3
//	A+C: P1
//	C+D: P3 P4
//
// A+B is picked first (3), then C+D covers P4; A+C is redundant.
func TestResolve_GreedyPicksBroadest(t *testing.T) {
	ds := fixtures.DataSet(t, fixtures.Evidence{
		"P1": {"A+B", "A+C"},
		"P2": {"A+B"},
		"P3": {"A+B", "C+D"},
		"P4": {"C+D"},
	}, nil)
	groups := assign(t, ds)
	require.Equal(t, 1, groups.Len())

	sum, err := parsimony.NewSelector().Run(ds, groups)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Groups)
	require.Equal(t, 2, sum.Primary)
	require.Equal(t, 1, sum.NotSelected)

	require.Equal(t, map[string]core.Status{
		"A+B": core.ParsimonyPrimarySelected,
		"A+C": core.ParsimonyNotSelected,
		"C+D": core.ParsimonyPrimarySelected,
	}, fixtures.Statuses(ds))

	// Subgroups follow ConnectivityID order: "P1" < "P1|P2|P3" < "P3|P4".
	require.Equal(t, 2, fixtures.ProteinPair(t, ds, "A+B").SubgroupID())
	require.Equal(t, 1, fixtures.ProteinPair(t, ds, "A+C").SubgroupID())
	require.Equal(t, 3, fixtures.ProteinPair(t, ds, "C+D").SubgroupID())
}

// TestRun_CoversEveryPeptidePair checks that every peptide pair ends up
// connected to at least one selected or ambiguous protein pair.
func TestRun_CoversEveryPeptidePair(t *testing.T) {
	ev := fixtures.Evidence{
		"P1": {"A+B", "A+C", "B+C"},
		"P2": {"A+B", "B+C"},
		"P3": {"A+C", "C+D"},
		"P4": {"C+D", "D+E"},
		"P5": {"D+E"},
		"P6": {"F+G", "F+H"},
		"P7": {"F+G", "F+H"},
	}
	ds := fixtures.DataSet(t, ev, nil)
	groups := assign(t, ds)

	_, err := parsimony.NewSelector(parsimony.WithSeed(7)).Run(ds, groups)
	require.NoError(t, err)

	for pep, prots := range ev {
		covered := false
		for _, id := range prots {
			switch fixtures.ProteinPair(t, ds, id).Status() {
			case core.ParsimonyPrimarySelected, core.ParsimonyAmbiguous:
				covered = true
			}
		}
		require.Truef(t, covered, "peptide pair %s left uncovered", pep)
	}
	for id, st := range fixtures.Statuses(ds) {
		require.NotEqualf(t, core.NotAnalyzed, st, "%s not analyzed", id)
	}
}

// TestRun_TieBreakReproducible: A+B and C+D cover two peptide pairs each,
// so the first pick is a draw.
func TestRun_TieBreakReproducible(t *testing.T) {
	ev := fixtures.Evidence{
		"P1": {"A+B", "C+D"},
		"P2": {"A+B"},
		"P3": {"C+D"},
	}
	run := func(seed int64) (map[string]core.Status, int) {
		ds := fixtures.DataSet(t, ev, nil)
		groups := assign(t, ds)
		sum, err := parsimony.NewSelector(parsimony.WithRand(rng.New(seed))).Run(ds, groups)
		require.NoError(t, err)
		return fixtures.Statuses(ds), sum.Ties
	}

	first, ties := run(42)
	require.Equal(t, 1, ties)
	for i := 0; i < 5; i++ {
		again, _ := run(42)
		require.Equal(t, first, again)
	}
	// Both pairs are still needed: each covers a peptide pair the other lacks.
	require.Equal(t, core.ParsimonyPrimarySelected, first["A+B"])
	require.Equal(t, core.ParsimonyPrimarySelected, first["C+D"])
}

func TestResolve_Errors(t *testing.T) {
	t.Run("unknown group", func(t *testing.T) {
		ds := fixtures.DataSet(t, fixtures.Evidence{"P1": {"A+B"}}, nil)
		groups := assign(t, ds)
		_, err := parsimony.NewSelector().Resolve(ds, groups, 9)
		require.ErrorIs(t, err, grouping.ErrGroupNotFound)
	})

	t.Run("already resolved", func(t *testing.T) {
		ds := fixtures.DataSet(t, fixtures.Evidence{"P1": {"A+B"}}, nil)
		groups := assign(t, ds)
		sel := parsimony.NewSelector()
		_, err := sel.Resolve(ds, groups, 1)
		require.NoError(t, err)
		_, err = sel.Resolve(ds, groups, 1)
		require.ErrorIs(t, err, parsimony.ErrAlreadyResolved)
	})

	t.Run("connection outside group", func(t *testing.T) {
		ds := fixtures.DataSet(t, fixtures.Evidence{
			"P1": {"A+B"},
			"P2": {"C+D"},
		}, nil)
		groups := assign(t, ds)
		// Stray one-way link from A+B into the second component.
		fixtures.ProteinPair(t, ds, "A+B").AddConnection("P2")
		_, err := parsimony.NewSelector().Resolve(ds, groups, 1)
		require.ErrorIs(t, err, parsimony.ErrInconsistentGroup)
	})
}
