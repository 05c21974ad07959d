package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/xlranker/core"
)

func TestPairIDOrderIndependent(t *testing.T) {
	assert.Equal(t, "A+B", core.PairID("A", "B"))
	assert.Equal(t, "A+B", core.PairID("B", "A"))
	assert.Equal(t, "A+A", core.PairID("A", "A"))
}

func TestNewProteinMainSource(t *testing.T) {
	p := core.NewProtein("P", map[string]float64{"rna": 1, "protein": 2}, "")
	assert.Equal(t, "protein", p.MainSource, "first source in sorted order")
	assert.Equal(t, []string{"protein", "rna"}, p.Sources())

	v, ok := p.Abundance()
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	empty := core.NewProtein("Q", nil, "")
	assert.Empty(t, empty.MainSource)
	_, ok = empty.Abundance()
	assert.False(t, ok)

	nan := core.NewProtein("R", map[string]float64{"x": math.NaN()}, "x")
	_, ok = nan.Abundance()
	assert.False(t, ok, "NaN is missing")
}

func TestSortProteins(t *testing.T) {
	hi := core.NewProtein("HI", map[string]float64{"s": 5}, "s")
	lo := core.NewProtein("LO", map[string]float64{"s": 1}, "s")
	tie := core.NewProtein("TIE", map[string]float64{"s": 5}, "s")
	none := core.NewProtein("NONE", nil, "s")
	none2 := core.NewProtein("NONE2", nil, "s")

	for _, tc := range []struct {
		name       string
		x, y       *core.Protein
		wantA, wnB string
	}{
		{"higher first", lo, hi, "HI", "LO"},
		{"already ordered", hi, lo, "HI", "LO"},
		{"tie keeps input order", tie, hi, "TIE", "HI"},
		{"missing sorts last", none, lo, "LO", "NONE"},
		{"both missing keep order", none2, none, "NONE2", "NONE"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, b := core.SortProteins(tc.x, tc.y)
			assert.Equal(t, tc.wantA, a.Name)
			assert.Equal(t, tc.wnB, b.Name)
		})
	}
}

func TestProteinPair(t *testing.T) {
	x := core.NewProtein("X", map[string]float64{"s1": 1, "s2": 9}, "s1")
	y := core.NewProtein("Y", map[string]float64{"s1": 4}, "s1")

	pp := core.NewProteinPair(x, y)
	assert.Equal(t, "X+Y", pp.PairID)
	assert.Equal(t, "Y", pp.A.Name, "main source abundance orders members")
	assert.False(t, pp.IsIntra)
	assert.True(t, core.NewProteinPair(x, x).IsIntra)

	row := pp.AbundanceRow([]string{"s1", "s2", "s3"})
	require.Len(t, row, 6)
	assert.Equal(t, []float64{4, 1}, row[0:2])
	assert.Equal(t, 9.0, row[2])
	assert.True(t, math.IsNaN(row[3]), "missing sorts last")
	assert.True(t, math.IsNaN(row[4]) && math.IsNaN(row[5]))

	assert.False(t, pp.HasScore())
	pp.SetScore(0.25)
	assert.True(t, pp.HasScore())
	assert.Equal(t, 0.25, pp.Score())

	require.NoError(t, pp.SetGroup(3))
	pp.SetSubgroup(2)
	require.NoError(t, pp.SetStatus(core.ParsimonyAmbiguous))
	assert.Equal(t, "X+Y\tPARSIMONY_AMBIGUOUS\t3.2", pp.TSV())
}

func TestPeptidePair(t *testing.T) {
	pp := core.NewPeptidePair(core.NewPeptide("KLM", "P1"), core.NewPeptide("ABC"))
	assert.Equal(t, "ABC+KLM", pp.PairID)
	assert.Equal(t, "KLM", pp.A.String(), "member order kept")
	assert.Equal(t, -1, pp.GroupID())
	assert.Equal(t, "-1.0", pp.GroupString())

	require.NoError(t, pp.SetStatus(core.ParsimonyPrimarySelected))
	err := pp.SetStatus(core.ParsimonyNotSelected)
	require.ErrorIs(t, err, core.ErrIllegalTransition)
	assert.Contains(t, err.Error(), "ABC+KLM")
}
