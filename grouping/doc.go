// Package grouping assigns connected-component ids over the bipartite
// evidence graph of a core.DataSet.
//
// What:
//
//   - Every PeptidePair and ProteinPair with at least one connection receives
//     exactly one group id, starting at 1 and incrementing per component.
//   - Entities with no connections are skipped (group unset, NOT_ANALYZED).
//   - The walk is an iterative BFS over core.BipartiteView; seeds are peptide
//     pairs in PairID order, then protein pairs in PairID order, so group
//     numbering is reproducible.
//
// Consistency:
//
//	Connection sets must be symmetric. If a walk reaches an entity stamped by
//	an earlier component, core.ErrGroupConflict aborts the run; a connection to
//	a missing id aborts with core.ErrUnknownEntity. Neither is ever repaired.
//	A cancelled context stops the walk with the context error.
//
// Complexity:
//
//   - Assign: O(V + E·log d), Memory: O(V), where d is the largest degree.
package grouping
