// SPDX-License-Identifier: MIT
//
// File: dataset.go
// Role: DataSet, the arena that owns every Protein, PeptidePair and ProteinPair
// of a run and wires the two-way connection sets between pairs.
// Determinism:
//   - Construction walks peptide pairs in PairID order, and mapped proteins
//     in their given order, so protein pair creation order is stable.
//   - All *IDs() accessors return sorted ids.
// Concurrency:
//   - mu guards the maps. Pipeline stages mutate pair fields in place from a
//     single goroutine; concurrent readers must not overlap a mutating stage.

package core

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// DataSet is the in-memory arena for one cross-linking dataset.
type DataSet struct {
	mu sync.RWMutex

	proteins     map[string]*Protein
	peptidePairs map[string]*PeptidePair
	proteinPairs map[string]*ProteinPair

	fragile bool
	logger  *zap.Logger
}

// DataSetOption configures DataSet construction.
type DataSetOption func(*DataSet)

// WithFragile turns degraded-with-warning conditions into errors.
func WithFragile(fragile bool) DataSetOption {
	return func(d *DataSet) { d.fragile = fragile }
}

// WithLogger sets the logger used for construction warnings.
func WithLogger(l *zap.Logger) DataSetOption {
	return func(d *DataSet) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDataSet builds the arena from peptide pairs and known proteins.
//
// Implementation:
//   - Stage 1: Register peptide pairs by PairID; duplicates keep the first.
//   - Stage 2: For each peptide pair (sorted), skip it with a warning when a
//     member maps to no protein (ErrUnmappedPeptide in fragile mode).
//   - Stage 3: For every (a, b) in A.MappedProteins × B.MappedProteins, get or
//     create the ProteinPair and connect both directions.
//
// Proteins missing from proteins are created with no abundances.
//
// Complexity: O(P·m²) for P peptide pairs with at most m mapped proteins each.
func NewDataSet(peptidePairs []*PeptidePair, proteins map[string]*Protein, opts ...DataSetOption) (*DataSet, error) {
	ds := NewEmptyDataSet(opts...)
	for name, p := range proteins {
		ds.proteins[name] = p
	}

	duplicates := 0
	for _, pp := range peptidePairs {
		if pp.A == nil || pp.B == nil || pp.A.Sequence == "" || pp.B.Sequence == "" {
			return nil, fmt.Errorf("peptide pair %q: %w", pp.PairID, ErrEmptyName)
		}
		if _, ok := ds.peptidePairs[pp.PairID]; ok {
			duplicates++
			continue
		}
		ds.peptidePairs[pp.PairID] = pp
	}
	if duplicates > 0 {
		ds.logger.Warn("duplicate peptide pairs dropped", zap.Int("count", duplicates))
	}

	unmapped := 0
	for _, id := range ds.PeptidePairIDs() {
		pp := ds.peptidePairs[id]
		if len(pp.A.MappedProteins) == 0 || len(pp.B.MappedProteins) == 0 {
			if ds.fragile {
				return nil, fmt.Errorf("peptide pair %s: %w", id, ErrUnmappedPeptide)
			}
			ds.logger.Warn("peptide pair has an unmapped peptide, skipping",
				zap.String("pair", id))
			unmapped++
			continue
		}
		for _, na := range pp.A.MappedProteins {
			for _, nb := range pp.B.MappedProteins {
				prot := ds.proteinPairFor(ds.protein(na), ds.protein(nb))
				prot.AddConnection(id)
				pp.AddConnection(prot.PairID)
			}
		}
	}
	if unmapped > 0 {
		ds.logger.Warn("peptide pairs without protein mapping", zap.Int("count", unmapped))
	}
	ds.logger.Debug("dataset built",
		zap.Int("peptide_pairs", len(ds.peptidePairs)),
		zap.Int("protein_pairs", len(ds.proteinPairs)),
		zap.Int("proteins", len(ds.proteins)))
	return ds, nil
}

// NewEmptyDataSet returns an arena with no entities, to be filled with
// AddPeptidePair, AddProteinPair and Connect.
func NewEmptyDataSet(opts ...DataSetOption) *DataSet {
	ds := &DataSet{
		proteins:     make(map[string]*Protein),
		peptidePairs: make(map[string]*PeptidePair),
		proteinPairs: make(map[string]*ProteinPair),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ds)
	}
	return ds
}

// AddPeptidePair registers pp; a second pair with the same id is ErrDuplicateEntity.
func (d *DataSet) AddPeptidePair(pp *PeptidePair) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.peptidePairs[pp.PairID]; ok {
		return fmt.Errorf("peptide pair %s: %w", pp.PairID, ErrDuplicateEntity)
	}
	d.peptidePairs[pp.PairID] = pp
	return nil
}

// AddProteinPair registers pp and its member proteins.
func (d *DataSet) AddProteinPair(pp *ProteinPair) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.proteinPairs[pp.PairID]; ok {
		return fmt.Errorf("protein pair %s: %w", pp.PairID, ErrDuplicateEntity)
	}
	d.proteinPairs[pp.PairID] = pp
	for _, p := range []*Protein{pp.A, pp.B} {
		if _, ok := d.proteins[p.Name]; !ok {
			d.proteins[p.Name] = p
		}
	}
	return nil
}

// Connect links a peptide pair and a protein pair in both directions.
func (d *DataSet) Connect(peptideID, proteinID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	pep, ok := d.peptidePairs[peptideID]
	if !ok {
		return fmt.Errorf("%w: peptide pair %s", ErrUnknownEntity, peptideID)
	}
	prot, ok := d.proteinPairs[proteinID]
	if !ok {
		return fmt.Errorf("%w: protein pair %s", ErrUnknownEntity, proteinID)
	}
	pep.AddConnection(proteinID)
	prot.AddConnection(peptideID)
	return nil
}

// protein returns the registered protein or registers an empty one.
func (d *DataSet) protein(name string) *Protein {
	if p, ok := d.proteins[name]; ok {
		return p
	}
	p := NewProtein(name, nil, "")
	d.proteins[name] = p
	return p
}

// proteinPairFor returns the existing pair for {a, b} or creates it.
func (d *DataSet) proteinPairFor(a, b *Protein) *ProteinPair {
	id := PairID(a.Name, b.Name)
	if pp, ok := d.proteinPairs[id]; ok {
		return pp
	}
	pp := NewProteinPair(a, b)
	d.proteinPairs[id] = pp
	return pp
}

// Fragile reports whether the DataSet was built in fragile mode.
func (d *DataSet) Fragile() bool { return d.fragile }

// Protein returns the protein named name.
func (d *DataSet) Protein(name string) (*Protein, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.proteins[name]
	return p, ok
}

// PeptidePair returns the peptide pair with id.
func (d *DataSet) PeptidePair(id string) (*PeptidePair, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.peptidePairs[id]
	return p, ok
}

// ProteinPair returns the protein pair with id.
func (d *DataSet) ProteinPair(id string) (*ProteinPair, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.proteinPairs[id]
	return p, ok
}

// ProteinNames returns every protein name, sorted.
func (d *DataSet) ProteinNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedKeys(d.proteins)
}

// PeptidePairIDs returns every peptide pair id, sorted.
func (d *DataSet) PeptidePairIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedKeys(d.peptidePairs)
}

// ProteinPairIDs returns every protein pair id, sorted.
func (d *DataSet) ProteinPairIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedKeys(d.proteinPairs)
}

// ProteinPairs returns every protein pair, sorted by PairID.
func (d *DataSet) ProteinPairs() []*ProteinPair {
	ids := d.ProteinPairIDs()
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*ProteinPair, len(ids))
	for i, id := range ids {
		out[i] = d.proteinPairs[id]
	}
	return out
}

// ProteinPairsWithStatus returns pairs holding any of statuses, sorted by PairID.
func (d *DataSet) ProteinPairsWithStatus(statuses ...Status) []*ProteinPair {
	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []*ProteinPair
	for _, pp := range d.ProteinPairs() {
		if want[pp.Status()] {
			out = append(out, pp)
		}
	}
	return out
}

// Sources returns the union of abundance source names over all proteins, sorted.
func (d *DataSet) Sources() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, p := range d.proteins {
		for src := range p.Abundances {
			seen[src] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// StatusCounts tallies protein pair statuses.
func (d *DataSet) StatusCounts() map[Status]int {
	out := make(map[Status]int)
	for _, pp := range d.ProteinPairs() {
		out[pp.Status()]++
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
