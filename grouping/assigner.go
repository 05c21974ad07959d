// SPDX-License-Identifier: MIT

package grouping

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/bfs"
	"github.com/katalvlaran/xlranker/core"
)

// Group lists the members of one connected component, sorted by id.
type Group struct {
	ID             int
	PeptidePairIDs []string
	ProteinPairIDs []string
}

// Size returns the number of members of both kinds.
func (g *Group) Size() int { return len(g.PeptidePairIDs) + len(g.ProteinPairIDs) }

// Groups maps group ids to their members.
type Groups struct {
	byID map[int]*Group
	ids  []int
}

// Get returns the group with id, or ErrGroupNotFound.
func (gs *Groups) Get(id int) (*Group, error) {
	if gs == nil {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, id)
	}
	g, ok := gs.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, id)
	}
	return g, nil
}

// IDs returns every group id in ascending order.
func (gs *Groups) IDs() []int { return append([]int(nil), gs.ids...) }

// Len returns the number of groups.
func (gs *Groups) Len() int { return len(gs.ids) }

// Assigner computes connected components.
type Assigner struct {
	logger *zap.Logger
}

// Option configures an Assigner.
type Option func(*Assigner)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assigner) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAssigner returns an Assigner.
func NewAssigner(opts ...Option) *Assigner {
	a := &Assigner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assign stamps group ids on every connected entity of ds and returns the
// components.
//
// Implementation:
//   - Stage 1: Build the seed list: peptide pairs then protein pairs, each sorted.
//   - Stage 2: For every seed that is connected and still ungrouped, open the
//     next group id and BFS from it, stamping each visited entity.
//   - Stage 3: Sort member lists and return.
//
// Errors: ErrDataSetNil, the context error when ctx is cancelled mid-walk,
// or a wrapped core.ErrGroupConflict / core.ErrUnknownEntity when the
// connection graph is inconsistent.
func (a *Assigner) Assign(ctx context.Context, ds *core.DataSet) (*Groups, error) {
	if ds == nil {
		return nil, ErrDataSetNil
	}
	view := ds.Bipartite()

	seeds := make([]string, 0)
	for _, id := range ds.PeptidePairIDs() {
		seeds = append(seeds, core.NodeKey(core.PeptideNode, id))
	}
	for _, id := range ds.ProteinPairIDs() {
		seeds = append(seeds, core.NodeKey(core.ProteinNode, id))
	}

	out := &Groups{byID: make(map[int]*Group)}
	next := 1
	skipped := 0
	for _, key := range seeds {
		e, err := view.Entity(key)
		if err != nil {
			return nil, err
		}
		if e.NConnections() == 0 {
			skipped++
			continue
		}
		if e.InGroup() {
			continue
		}

		g := &Group{ID: next}
		next++
		visit := func(k string, _ int) error {
			ent, err := view.Entity(k)
			if err != nil {
				return err
			}
			if err := ent.SetGroup(g.ID); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			kind, id, _ := core.SplitNodeKey(k)
			if kind == core.PeptideNode {
				g.PeptidePairIDs = append(g.PeptidePairIDs, id)
			} else {
				g.ProteinPairIDs = append(g.ProteinPairIDs, id)
			}
			return nil
		}
		if _, err := bfs.BFS(view, key, bfs.WithContext(ctx), bfs.WithOnVisit(visit)); err != nil {
			return nil, fmt.Errorf("grouping: component %d: %w", g.ID, err)
		}
		sort.Strings(g.PeptidePairIDs)
		sort.Strings(g.ProteinPairIDs)
		out.byID[g.ID] = g
		out.ids = append(out.ids, g.ID)
	}

	a.logger.Info("groups assigned",
		zap.Int("groups", out.Len()),
		zap.Int("unconnected", skipped))
	return out, nil
}
