// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Sentinel errors and the leaf value types Protein and Peptide.

package core

import (
	"errors"
	"math"
	"sort"
)

// Sentinel errors for the entity model.
var (
	// ErrGroupConflict indicates an entity was reached from a second component,
	// which only happens when connection sets were built asymmetrically.
	ErrGroupConflict = errors.New("core: entity already assigned to a different group")

	// ErrInvalidGroupID indicates a group id below 1.
	ErrInvalidGroupID = errors.New("core: group id must be >= 1")

	// ErrIllegalTransition indicates a status change the state machine forbids.
	ErrIllegalTransition = errors.New("core: illegal status transition")

	// ErrUnknownEntity indicates an id that is not present in the DataSet.
	ErrUnknownEntity = errors.New("core: unknown entity")

	// ErrUnmappedPeptide indicates a peptide that maps to no protein while
	// running in fragile mode.
	ErrUnmappedPeptide = errors.New("core: peptide has no mapped proteins")

	// ErrEmptyName indicates a protein name or peptide sequence that is empty.
	ErrEmptyName = errors.New("core: empty name")

	// ErrDuplicateEntity indicates a pair id that is already registered.
	ErrDuplicateEntity = errors.New("core: duplicate entity")
)

// Protein is a named protein with optional per-source abundances.
//
// A source missing from Abundances, or holding NaN, has no abundance.
// Equality is by Name only.
type Protein struct {
	// Name is the unique key (usually a gene symbol).
	Name string

	// Abundances maps an omics source name to its abundance value.
	Abundances map[string]float64

	// MainSource is the source used for canonical pair ordering.
	MainSource string
}

// NewProtein creates a Protein. When mainSource is empty, the first source in
// sorted order is used so that the choice is deterministic. Proteins that are
// paired together must share one MainSource; callers building a DataSet
// should resolve it once for all proteins rather than rely on this fallback.
// Complexity: O(k log k) for k sources.
func NewProtein(name string, abundances map[string]float64, mainSource string) *Protein {
	if abundances == nil {
		abundances = make(map[string]float64)
	}
	if mainSource == "" && len(abundances) > 0 {
		keys := make([]string, 0, len(abundances))
		for k := range abundances {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		mainSource = keys[0]
	}
	return &Protein{Name: name, Abundances: abundances, MainSource: mainSource}
}

// Abundance returns the abundance of the main source.
func (p *Protein) Abundance() (float64, bool) {
	return p.AbundanceFor(p.MainSource)
}

// AbundanceFor returns the abundance recorded for source, if any.
func (p *Protein) AbundanceFor(source string) (float64, bool) {
	if p == nil || p.Abundances == nil {
		return 0, false
	}
	v, ok := p.Abundances[source]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Sources returns the abundance source names in sorted order.
func (p *Protein) Sources() []string {
	out := make([]string, 0, len(p.Abundances))
	for k := range p.Abundances {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SortProteins orders two proteins so the higher-abundance one comes first.
//
// Missing abundance sorts after any present value. When both are missing or
// the values tie, the input order is kept.
func SortProteins(a, b *Protein) (*Protein, *Protein) {
	av, aok := a.Abundance()
	bv, bok := b.Abundance()
	switch {
	case !aok && !bok:
		return a, b
	case !aok:
		return b, a
	case !bok:
		return a, b
	case bv <= av:
		return a, b
	default:
		return b, a
	}
}

// Peptide is an observed peptide sequence and the proteins it maps to.
type Peptide struct {
	// Sequence is the unique key.
	Sequence string

	// MappedProteins lists protein names resolved by the sequence mapper.
	MappedProteins []string
}

// NewPeptide creates a Peptide; mapped protein names are copied.
func NewPeptide(sequence string, mapped ...string) *Peptide {
	return &Peptide{Sequence: sequence, MappedProteins: append([]string(nil), mapped...)}
}

// String returns the sequence.
func (p *Peptide) String() string { return p.Sequence }
