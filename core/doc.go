// Package core defines the entity model shared by every xlranker stage:
// proteins, peptides, the pairs built from them, and the DataSet arena that
// owns those pairs for the lifetime of a pipeline run.
//
// The evidence graph is bipartite:
//
//	PeptidePair ──connections──▶ ProteinPair
//	ProteinPair ──connections──▶ PeptidePair
//
// A PeptidePair is one cross-linked observation; a ProteinPair is one possible
// explanation of it. Connections are stored as id sets on both sides (never as
// pointers), so the graph stays acyclic in memory and every traversal is
// addressed through the DataSet.
//
// Grouped entities:
//
//	Both pair types embed GroupedEntity, which carries
//	  – group id      (assigned once; a different id later is ErrGroupConflict)
//	  – subgroup id   (partition of a group by identical ConnectivityID)
//	  – status        (forward-only Status state machine)
//	  – connections   (ids of the opposite entity type)
//
// Status machine:
//
//	NOT_ANALYZED ─┬─▶ PARSIMONY_NOT_SELECTED      (terminal)
//	              ├─▶ PARSIMONY_PRIMARY_SELECTED  (terminal)
//	              └─▶ PARSIMONY_AMBIGUOUS ─┬─▶ ML_NOT_SELECTED        (terminal)
//	                                       ├─▶ ML_PRIMARY_SELECTED    (terminal)
//	                                       └─▶ ML_SECONDARY_SELECTED  (terminal)
//
// Identifiers:
//
//	PairID(x, y)      – "min+max" of the two names; order independent.
//	ConnectivityID()  – sorted, "|"-joined connection ids; order independent.
//
// Errors:
//
//	ErrGroupConflict      – entity already belongs to another group.
//	ErrInvalidGroupID     – group ids start at 1.
//	ErrIllegalTransition  – status change not allowed by the state machine.
//	ErrUnknownEntity      – a connection or node key names no entity.
//	ErrUnmappedPeptide    – peptide without mapped proteins (fragile mode only).
//	ErrEmptyName          – protein or peptide without a name/sequence.
package core
