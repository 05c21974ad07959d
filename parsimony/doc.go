// Package parsimony resolves each evidence group to the smallest set of
// protein pairs that explains every peptide pair in it.
//
// Algorithm (greedy maximum coverage, per group):
//
//  1. Bucket the group's protein pairs by ConnectivityID. Pairs in one bucket
//     explain exactly the same peptide pairs and share a subgroup id.
//  2. Uncovered ← every peptide pair in the group with connections.
//  3. While uncovered is non-empty, pick the bucket covering the most
//     uncovered peptide pairs. Ties are broken by a uniform draw from the
//     injected generator over the tied buckets in ConnectivityID order.
//  4. A single-pair bucket becomes PARSIMONY_PRIMARY_SELECTED; a multi-pair
//     bucket makes every member PARSIMONY_AMBIGUOUS.
//  5. Remove the bucket's connections from uncovered and drop the bucket.
//  6. Pairs never picked become PARSIMONY_NOT_SELECTED.
//
// Determinism: everything except step 3 ties is deterministic; ties are
// reproducible for a fixed seed.
//
// Complexity: O(k·B·c) per group for k picks over B buckets with at most c
// connections each.
//
// Errors:
//
//   - grouping.ErrGroupNotFound  – group id unknown to the Groups value.
//   - ErrInconsistentGroup       – members missing, stamped with another group,
//     referencing peptide pairs outside the group, or leaving peptide pairs
//     no bucket can cover.
//   - ErrAlreadyResolved         – a member already left NOT_ANALYZED.
package parsimony
