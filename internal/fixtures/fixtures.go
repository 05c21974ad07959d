// Package fixtures builds small DataSets for tests across packages.
package fixtures

import (
	"sort"
	"strings"
	"testing"

	"github.com/katalvlaran/xlranker/core"
)

// Evidence maps a peptide pair id to the protein pair ids ("A+B") it supports.
type Evidence map[string][]string

// Abundances maps a protein name to its per-source abundances.
type Abundances map[string]map[string]float64

// DataSet builds a DataSet whose peptide pairs carry the given ids verbatim
// and whose protein pairs are created from "A+B" ids, connected both ways.
func DataSet(tb testing.TB, ev Evidence, ab Abundances) *core.DataSet {
	tb.Helper()
	ds := core.NewEmptyDataSet()
	proteins := make(map[string]*core.Protein)
	protein := func(name string) *core.Protein {
		if p, ok := proteins[name]; ok {
			return p
		}
		p := core.NewProtein(name, ab[name], "")
		proteins[name] = p
		return p
	}

	pepIDs := make([]string, 0, len(ev))
	for id := range ev {
		pepIDs = append(pepIDs, id)
	}
	sort.Strings(pepIDs)

	for _, pepID := range pepIDs {
		pep := &core.PeptidePair{
			A:      core.NewPeptide(pepID + "_a"),
			B:      core.NewPeptide(pepID + "_b"),
			PairID: pepID,
		}
		if err := ds.AddPeptidePair(pep); err != nil {
			tb.Fatalf("AddPeptidePair(%s): %v", pepID, err)
		}
		for _, protID := range ev[pepID] {
			a, b, ok := strings.Cut(protID, core.PairSeparator)
			if !ok {
				tb.Fatalf("protein pair id %q must be A+B", protID)
			}
			pp := core.NewProteinPair(protein(a), protein(b))
			if existing, ok := ds.ProteinPair(pp.PairID); ok {
				pp = existing
			} else if err := ds.AddProteinPair(pp); err != nil {
				tb.Fatalf("AddProteinPair(%s): %v", pp.PairID, err)
			}
			if err := ds.Connect(pepID, pp.PairID); err != nil {
				tb.Fatalf("Connect(%s, %s): %v", pepID, pp.PairID, err)
			}
		}
	}
	return ds
}

// ProteinPair fetches a protein pair by id or fails the test.
func ProteinPair(tb testing.TB, ds *core.DataSet, id string) *core.ProteinPair {
	tb.Helper()
	pp, ok := ds.ProteinPair(id)
	if !ok {
		tb.Fatalf("protein pair %s not found", id)
	}
	return pp
}

// Statuses returns pair id → status for every protein pair.
func Statuses(ds *core.DataSet) map[string]core.Status {
	out := make(map[string]core.Status)
	for _, pp := range ds.ProteinPairs() {
		out[pp.PairID] = pp.Status()
	}
	return out
}
