// File: view.go
// Role: Read-only bipartite view of a DataSet for id-addressed traversals.
// Determinism:
//   - NeighborIDs returns node keys sorted lexicographically.
// Concurrency:
//   - Read locks only; the view never mutates the DataSet.

package core

import (
	"fmt"
	"sort"
	"strings"
)

// NodeKind tells which side of the bipartite graph a node key addresses.
type NodeKind uint8

const (
	// PeptideNode addresses a PeptidePair.
	PeptideNode NodeKind = iota + 1
	// ProteinNode addresses a ProteinPair.
	ProteinNode
)

const (
	peptidePrefix = "pep:"
	proteinPrefix = "prot:"
)

// NodeKey encodes a pair id with its side so both id spaces can share one
// traversal without collisions.
func NodeKey(kind NodeKind, id string) string {
	if kind == ProteinNode {
		return proteinPrefix + id
	}
	return peptidePrefix + id
}

// SplitNodeKey decodes a key produced by NodeKey.
func SplitNodeKey(key string) (NodeKind, string, error) {
	switch {
	case strings.HasPrefix(key, peptidePrefix):
		return PeptideNode, key[len(peptidePrefix):], nil
	case strings.HasPrefix(key, proteinPrefix):
		return ProteinNode, key[len(proteinPrefix):], nil
	default:
		return 0, "", fmt.Errorf("%w: malformed node key %q", ErrUnknownEntity, key)
	}
}

// BipartiteView exposes a DataSet as an undirected graph whose vertices are
// node keys and whose edges are the connection sets.
type BipartiteView struct {
	ds *DataSet
}

// Bipartite returns a view over d.
func (d *DataSet) Bipartite() *BipartiteView {
	return &BipartiteView{ds: d}
}

// HasVertex reports whether key names an existing pair.
func (v *BipartiteView) HasVertex(key string) bool {
	_, err := v.Entity(key)
	return err == nil
}

// Entity resolves key to the grouped entity it names.
func (v *BipartiteView) Entity(key string) (*GroupedEntity, error) {
	kind, id, err := SplitNodeKey(key)
	if err != nil {
		return nil, err
	}
	v.ds.mu.RLock()
	defer v.ds.mu.RUnlock()
	switch kind {
	case PeptideNode:
		if pp, ok := v.ds.peptidePairs[id]; ok {
			return &pp.GroupedEntity, nil
		}
	case ProteinNode:
		if pp, ok := v.ds.proteinPairs[id]; ok {
			return &pp.GroupedEntity, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, key)
}

// NeighborIDs returns the node keys connected to key, sorted. A connection
// naming a missing entity yields ErrUnknownEntity.
//
// Complexity: O(c log c) for c connections.
func (v *BipartiteView) NeighborIDs(key string) ([]string, error) {
	kind, _, err := SplitNodeKey(key)
	if err != nil {
		return nil, err
	}
	e, err := v.Entity(key)
	if err != nil {
		return nil, err
	}
	other := ProteinNode
	if kind == ProteinNode {
		other = PeptideNode
	}

	v.ds.mu.RLock()
	defer v.ds.mu.RUnlock()
	out := make([]string, 0, e.NConnections())
	for _, id := range e.Connections() {
		var ok bool
		if other == ProteinNode {
			_, ok = v.ds.proteinPairs[id]
		} else {
			_, ok = v.ds.peptidePairs[id]
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s references %s", ErrUnknownEntity, key, NodeKey(other, id))
		}
		out = append(out, NodeKey(other, id))
	}
	sort.Strings(out)
	return out, nil
}
