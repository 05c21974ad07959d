// Package selection turns ensemble scores into final statuses for
// PARSIMONY_AMBIGUOUS protein pairs.
//
// Every policy partitions pairs by ConnectivityID (one subgroup per bucket)
// and names exactly one ML_PRIMARY_SELECTED pair per subgroup: the highest
// score, ties to the smallest PairID. The policies differ only in which of
// the remaining pairs become ML_SECONDARY_SELECTED rather than
// ML_NOT_SELECTED:
//
//	Best             pairs tied with the primary score (when WithSecondary)
//	Threshold        pairs with score ≥ Threshold
//	WithinBestScore  pairs with score ≥ best·(1−Within), at most TopN
//	Random           none; scores are seeded pseudo-scores
//
// Select is pure. Process validates, selects and applies.
package selection
