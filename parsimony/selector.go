// SPDX-License-Identifier: MIT

package parsimony

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/grouping"
	"github.com/katalvlaran/xlranker/rng"
)

var (
	// ErrInconsistentGroup indicates broken group bookkeeping.
	ErrInconsistentGroup = errors.New("parsimony: inconsistent group")
	// ErrAlreadyResolved indicates a group whose members already carry a status.
	ErrAlreadyResolved = errors.New("parsimony: group already resolved")
)

// Selector runs greedy parsimony resolution.
type Selector struct {
	rng    *rand.Rand
	logger *zap.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand injects the generator used for tie-breaks.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithSeed derives the tie-break generator from a top-level seed.
func WithSeed(seed int64) Option {
	return func(s *Selector) { s.rng = rng.Derive(seed, rng.StreamParsimony) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSelector returns a Selector. Without WithRand/WithSeed the tie-break
// generator is derived from rng.DefaultSeed.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rng.Derive(rng.DefaultSeed, rng.StreamParsimony)
	}
	return s
}

// Resolution reports what happened in one group.
type Resolution struct {
	GroupID     int
	Primary     []string   // pair ids marked PARSIMONY_PRIMARY_SELECTED
	Ambiguous   [][]string // one slice per bucket marked PARSIMONY_AMBIGUOUS
	NotSelected []string   // pair ids marked PARSIMONY_NOT_SELECTED
	Ties        int        // picks decided by the generator
}

// Summary aggregates resolutions over many groups.
type Summary struct {
	Groups      int
	Primary     int
	Ambiguous   int
	NotSelected int
	Ties        int
}

// add folds r into s.
func (s *Summary) add(r *Resolution) {
	s.Groups++
	s.Primary += len(r.Primary)
	for _, b := range r.Ambiguous {
		s.Ambiguous += len(b)
	}
	s.NotSelected += len(r.NotSelected)
	s.Ties += r.Ties
}

// bucket is a set of interchangeable protein pairs.
type bucket struct {
	connectivityID string
	connections    []string
	pairs          []*core.ProteinPair
}

// Run resolves every group in ascending id order.
func (s *Selector) Run(ds *core.DataSet, groups *grouping.Groups) (*Summary, error) {
	sum := &Summary{}
	for _, id := range groups.IDs() {
		res, err := s.Resolve(ds, groups, id)
		if err != nil {
			return nil, err
		}
		sum.add(res)
	}
	s.logger.Info("parsimony resolved",
		zap.Int("groups", sum.Groups),
		zap.Int("primary", sum.Primary),
		zap.Int("ambiguous", sum.Ambiguous),
		zap.Int("not_selected", sum.NotSelected),
		zap.Int("ties", sum.Ties))
	return sum, nil
}

// Resolve runs greedy maximum coverage on group groupID.
//
// Implementation:
//   - Stage 1 (Validate): load members, check group stamps, statuses and
//     that every protein pair only references peptide pairs of the group.
//   - Stage 2 (Prepare): bucket protein pairs and number subgroups of both kinds.
//   - Stage 3 (Execute): greedy picks until every peptide pair is covered.
//   - Stage 4 (Finalize): remaining pairs become PARSIMONY_NOT_SELECTED.
func (s *Selector) Resolve(ds *core.DataSet, groups *grouping.Groups, groupID int) (*Resolution, error) {
	g, err := groups.Get(groupID)
	if err != nil {
		return nil, fmt.Errorf("parsimony: %w", err)
	}
	peptides, proteins, err := loadMembers(ds, g)
	if err != nil {
		return nil, err
	}
	res := &Resolution{GroupID: g.ID}
	if len(proteins) == 0 && len(peptides) == 0 {
		return res, nil
	}

	buckets := bucketize(proteins)
	numberPeptideSubgroups(peptides)

	uncovered := make(map[string]struct{}, len(peptides))
	for _, pep := range peptides {
		if pep.NConnections() > 0 {
			uncovered[pep.PairID] = struct{}{}
		}
	}

	remaining := buckets
	for len(uncovered) > 0 {
		best, tied := -1, []int(nil)
		for i, b := range remaining {
			ov := b.pairs[0].Overlap(uncovered)
			switch {
			case ov > best:
				best, tied = ov, []int{i}
			case ov == best:
				tied = append(tied, i)
			}
		}
		if best <= 0 {
			return nil, fmt.Errorf("%w: group %d has %d peptide pairs no protein pair covers",
				ErrInconsistentGroup, g.ID, len(uncovered))
		}
		pick := tied[0]
		if len(tied) > 1 {
			pick = tied[rng.Pick(len(tied), s.rng)]
			res.Ties++
		}
		chosen := remaining[pick]
		if err := markChosen(chosen, res); err != nil {
			return nil, err
		}
		for _, id := range chosen.connections {
			delete(uncovered, id)
		}
		remaining = append(remaining[:pick:pick], remaining[pick+1:]...)
	}

	for _, b := range remaining {
		for _, pp := range b.pairs {
			if err := pp.SetStatus(core.ParsimonyNotSelected); err != nil {
				return nil, err
			}
			res.NotSelected = append(res.NotSelected, pp.PairID)
		}
	}
	sort.Strings(res.NotSelected)

	s.logger.Debug("group resolved",
		zap.Int("group", g.ID),
		zap.Int("buckets", len(buckets)),
		zap.Int("primary", len(res.Primary)),
		zap.Int("ambiguous_buckets", len(res.Ambiguous)),
		zap.Int("ties", res.Ties))
	return res, nil
}

// loadMembers resolves member ids and validates group bookkeeping.
func loadMembers(ds *core.DataSet, g *grouping.Group) ([]*core.PeptidePair, []*core.ProteinPair, error) {
	inGroup := make(map[string]struct{}, len(g.PeptidePairIDs))
	peptides := make([]*core.PeptidePair, 0, len(g.PeptidePairIDs))
	for _, id := range g.PeptidePairIDs {
		pep, ok := ds.PeptidePair(id)
		if !ok || pep.GroupID() != g.ID {
			return nil, nil, fmt.Errorf("%w: peptide pair %s not in group %d", ErrInconsistentGroup, id, g.ID)
		}
		inGroup[id] = struct{}{}
		peptides = append(peptides, pep)
	}

	proteins := make([]*core.ProteinPair, 0, len(g.ProteinPairIDs))
	for _, id := range g.ProteinPairIDs {
		pp, ok := ds.ProteinPair(id)
		if !ok || pp.GroupID() != g.ID {
			return nil, nil, fmt.Errorf("%w: protein pair %s not in group %d", ErrInconsistentGroup, id, g.ID)
		}
		if pp.Status() != core.NotAnalyzed {
			return nil, nil, fmt.Errorf("%w: group %d, %s is %s", ErrAlreadyResolved, g.ID, id, pp.Status())
		}
		for _, pepID := range pp.Connections() {
			if _, ok := inGroup[pepID]; !ok {
				return nil, nil, fmt.Errorf("%w: protein pair %s references peptide pair %s outside group %d",
					ErrInconsistentGroup, id, pepID, g.ID)
			}
		}
		proteins = append(proteins, pp)
	}
	return peptides, proteins, nil
}

// bucketize groups pairs by ConnectivityID, sorted by that id, and stamps
// subgroup ids 1..n.
func bucketize(pairs []*core.ProteinPair) []*bucket {
	byID := make(map[string]*bucket)
	for _, pp := range pairs {
		cid := pp.ConnectivityID()
		b, ok := byID[cid]
		if !ok {
			b = &bucket{connectivityID: cid, connections: pp.Connections()}
			byID[cid] = b
		}
		b.pairs = append(b.pairs, pp)
	}
	out := make([]*bucket, 0, len(byID))
	for _, b := range byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].connectivityID < out[j].connectivityID })
	for i, b := range out {
		for _, pp := range b.pairs {
			pp.SetSubgroup(i + 1)
		}
	}
	return out
}

// numberPeptideSubgroups stamps subgroup ids on peptide pairs by ConnectivityID.
func numberPeptideSubgroups(peptides []*core.PeptidePair) {
	ids := make(map[string]int)
	var keys []string
	for _, pep := range peptides {
		cid := pep.ConnectivityID()
		if _, ok := ids[cid]; !ok {
			ids[cid] = 0
			keys = append(keys, cid)
		}
	}
	sort.Strings(keys)
	for i, k := range keys {
		ids[k] = i + 1
	}
	for _, pep := range peptides {
		pep.SetSubgroup(ids[pep.ConnectivityID()])
	}
}

// markChosen applies the bucket outcome and records it in res.
func markChosen(b *bucket, res *Resolution) error {
	if len(b.pairs) == 1 {
		pp := b.pairs[0]
		if err := pp.SetStatus(core.ParsimonyPrimarySelected); err != nil {
			return err
		}
		res.Primary = append(res.Primary, pp.PairID)
		return nil
	}
	ids := make([]string, 0, len(b.pairs))
	for _, pp := range b.pairs {
		if err := pp.SetStatus(core.ParsimonyAmbiguous); err != nil {
			return err
		}
		ids = append(ids, pp.PairID)
	}
	sort.Strings(ids)
	res.Ambiguous = append(res.Ambiguous, ids)
	return nil
}
