// SPDX-License-Identifier: MIT
//
// File: pairs.go
// Role: ProteinPair and PeptidePair, the two node kinds of the evidence graph.

package core

import (
	"fmt"
	"math"
)

// PairSeparator joins the two member names inside a pair id.
const PairSeparator = "+"

// PairID returns the order-independent id of the unordered pair {x, y}:
// the lexicographically smaller name first.
func PairID(x, y string) string {
	if x < y {
		return x + PairSeparator + y
	}
	return y + PairSeparator + x
}

// ProteinPair is one candidate protein-level explanation of cross-link evidence.
//
// A is the higher-abundance protein (see SortProteins). Connections hold the
// ids of the PeptidePairs this protein pair can explain.
type ProteinPair struct {
	GroupedEntity

	A, B    *Protein
	PairID  string
	IsIntra bool

	score  float64
	scored bool
}

// NewProteinPair canonicalizes the member order and builds the pair id.
func NewProteinPair(x, y *Protein) *ProteinPair {
	a, b := SortProteins(x, y)
	return &ProteinPair{
		A:       a,
		B:       b,
		PairID:  PairID(a.Name, b.Name),
		IsIntra: a.Name == b.Name,
	}
}

// SetScore records the classifier confidence for the pair.
func (p *ProteinPair) SetScore(score float64) {
	p.score = score
	p.scored = true
}

// Score returns the classifier confidence; meaningful only when HasScore.
func (p *ProteinPair) Score() float64 { return p.score }

// HasScore reports whether SetScore has been called.
func (p *ProteinPair) HasScore() bool { return p.scored }

// SetStatus wraps GroupedEntity.SetStatus with the pair id for context.
func (p *ProteinPair) SetStatus(next Status) error {
	if err := p.GroupedEntity.SetStatus(next); err != nil {
		return fmt.Errorf("protein pair %s: %w", p.PairID, err)
	}
	return nil
}

// AbundanceRow returns, for every source in order, the two member abundances
// with the larger value first. Missing values are NaN and sort last.
func (p *ProteinPair) AbundanceRow(sources []string) []float64 {
	row := make([]float64, 0, 2*len(sources))
	for _, src := range sources {
		av, aok := p.A.AbundanceFor(src)
		bv, bok := p.B.AbundanceFor(src)
		if !aok {
			av = math.NaN()
		}
		if !bok {
			bv = math.NaN()
		}
		if greaterOrEqual(av, aok, bv, bok) {
			row = append(row, av, bv)
		} else {
			row = append(row, bv, av)
		}
	}
	return row
}

// greaterOrEqual treats a missing value as smaller than any present value.
func greaterOrEqual(a float64, aok bool, b float64, bok bool) bool {
	switch {
	case !bok:
		return true
	case !aok:
		return false
	default:
		return a >= b
	}
}

// TSV renders the pair as "pair\tstatus\tgroup".
func (p *ProteinPair) TSV() string {
	return p.PairID + "\t" + p.Status().String() + "\t" + p.GroupString()
}

// PeptidePair is one cross-link observation between two peptides.
// Connections hold the ids of compatible ProteinPairs.
type PeptidePair struct {
	GroupedEntity

	A, B   *Peptide
	PairID string
}

// NewPeptidePair builds a PeptidePair; member order is kept as given.
func NewPeptidePair(a, b *Peptide) *PeptidePair {
	return &PeptidePair{A: a, B: b, PairID: PairID(a.Sequence, b.Sequence)}
}

// SetStatus wraps GroupedEntity.SetStatus with the pair id for context.
func (p *PeptidePair) SetStatus(next Status) error {
	if err := p.GroupedEntity.SetStatus(next); err != nil {
		return fmt.Errorf("peptide pair %s: %w", p.PairID, err)
	}
	return nil
}
