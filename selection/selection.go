package selection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/xlranker/core"
)

var (
	// ErrUnscored indicates a pair without a finite score given to a scoring policy.
	ErrUnscored = errors.New("selection: pair has no score")
	// ErrInvalidParameter indicates an out-of-range policy parameter.
	ErrInvalidParameter = errors.New("selection: invalid parameter")
	// ErrUnknownPolicy indicates a policy name New does not know.
	ErrUnknownPolicy = errors.New("selection: unknown policy")
)

// Assignment maps PairID to the status a policy decided.
type Assignment map[string]core.Status

// Counts tallies an assignment by status.
func (a Assignment) Counts() map[core.Status]int {
	out := make(map[core.Status]int)
	for _, s := range a {
		out[s]++
	}
	return out
}

// Selector is one selection policy.
type Selector interface {
	Name() string
	Select(pairs []*core.ProteinPair) (Assignment, error)
}

// Process validates that every pair is PARSIMONY_AMBIGUOUS, runs s and applies
// the assignment in PairID order. Nothing is applied when validation or
// selection fails.
func Process(s Selector, pairs []*core.ProteinPair) (Assignment, error) {
	for _, pp := range pairs {
		if pp.Status() != core.ParsimonyAmbiguous {
			return nil, fmt.Errorf("selection: %s: pair %s is %s: %w",
				s.Name(), pp.PairID, pp.Status(), core.ErrIllegalTransition)
		}
	}
	assignment, err := s.Select(pairs)
	if err != nil {
		return nil, fmt.Errorf("selection: %s: %w", s.Name(), err)
	}
	byID := make(map[string]*core.ProteinPair, len(pairs))
	for _, pp := range pairs {
		byID[pp.PairID] = pp
	}
	ids := make([]string, 0, len(assignment))
	for id := range assignment {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		pp, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("selection: %s: %w: %s", s.Name(), core.ErrUnknownEntity, id)
		}
		if err := pp.SetStatus(assignment[id]); err != nil {
			return nil, err
		}
	}
	return assignment, nil
}

// Params carries the parameters of every policy; New reads the ones its
// policy needs.
type Params struct {
	WithSecondary bool
	Threshold     float64
	TopN          int
	Within        float64
	Seed          int64
}

// Policy names accepted by New.
const (
	PolicyBest      = "best"
	PolicyThreshold = "threshold"
	PolicyWithin    = "within"
	PolicyRandom    = "random"
)

// New builds the policy named name.
func New(name string, p Params) (Selector, error) {
	switch name {
	case PolicyBest:
		return Best{WithSecondary: p.WithSecondary}, nil
	case PolicyThreshold:
		return Threshold{Threshold: p.Threshold}, nil
	case PolicyWithin:
		return NewWithinBestScore(p.TopN, p.Within)
	case PolicyRandom:
		return Random{Seed: p.Seed}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// scored is a pair with the score a policy ranks by.
type scored struct {
	pair  *core.ProteinPair
	score float64
}

// subgroups partitions pairs by ConnectivityID; each subgroup is ranked by
// score desc, PairID asc. Subgroups are returned in ConnectivityID order.
func subgroups(pairs []*core.ProteinPair, score func(*core.ProteinPair) float64) [][]scored {
	byCID := make(map[string][]scored)
	for _, pp := range pairs {
		cid := pp.ConnectivityID()
		byCID[cid] = append(byCID[cid], scored{pair: pp, score: score(pp)})
	}
	keys := make([]string, 0, len(byCID))
	for k := range byCID {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][]scored, 0, len(keys))
	for _, k := range keys {
		sg := byCID[k]
		sort.Slice(sg, func(i, j int) bool {
			if sg[i].score != sg[j].score {
				return sg[i].score > sg[j].score
			}
			return sg[i].pair.PairID < sg[j].pair.PairID
		})
		out = append(out, sg)
	}
	return out
}

// requireScores returns ErrUnscored for the first pair without a finite
// score. NaN would break the ranking order.
func requireScores(pairs []*core.ProteinPair) error {
	for _, pp := range pairs {
		if !pp.HasScore() {
			return fmt.Errorf("%w: %s", ErrUnscored, pp.PairID)
		}
		if v := pp.Score(); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s has non-finite score %v", ErrUnscored, pp.PairID, v)
		}
	}
	return nil
}

// assign applies the common primary rule; promote decides secondaries given
// the ranked subgroup and the rank of a non-primary pair.
func assign(groups [][]scored, promote func(sg []scored, rank int) bool) Assignment {
	out := make(Assignment)
	for _, sg := range groups {
		for rank, s := range sg {
			switch {
			case rank == 0:
				out[s.pair.PairID] = core.MLPrimarySelected
			case promote != nil && promote(sg, rank):
				out[s.pair.PairID] = core.MLSecondarySelected
			default:
				out[s.pair.PairID] = core.MLNotSelected
			}
		}
	}
	return out
}

func pairScore(pp *core.ProteinPair) float64 { return pp.Score() }

func sortByID(pairs []*core.ProteinPair) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].PairID < pairs[j].PairID })
}
