// Package xlranker prioritizes protein-protein interaction candidates
// inferred from cross-linking mass spectrometry.
//
// A cross-linked peptide pair is often compatible with several protein
// pairs, because a peptide sequence can occur in more than one protein.
// xlranker resolves that ambiguity in two passes:
//
//	1. Parsimony: the smallest set of protein pairs that explains every
//	   peptide pair is selected greedily per connected component.
//	2. Machine learning: protein pairs parsimony cannot tell apart are scored
//	   by an ensemble of classifiers trained on the parsimonious pairs
//	   against sampled negatives, then settled by a selection policy.
//
// Under the hood, everything is organized into subpackages:
//
//	core/       — Protein, Peptide, pair types, status machine, DataSet arena
//	bfs/        — iterative breadth-first walker over the bipartite view
//	grouping/   — connected component assignment
//	parsimony/  — greedy max-coverage selection with seeded tie-breaks
//	sampling/   — negative protein pair sampling
//	matrix/     — dense feature matrices and column statistics
//	ml/         — features, logistic regression, cross-validated ensemble
//	selection/  — best / threshold / within-best / random policies
//	readers/    — network, mapping, FASTA, omics, gold standard, GMT inputs
//	report/     — TSV reports filtered by level
//	store/      — SQLite persistence of finished runs
//	httpapi/    — read-only HTTP API over stored runs
//	config/     — YAML configuration with environment overrides
//	logging/    — zap logger construction
//	pipeline/   — end-to-end runs
//	rng/        — seed derivation for reproducible runs
//
// The evidence graph:
//
//	PEPA+PEPB ───▶ P1+P2
//	PEPE+PEPF ─┬─▶ P5+P7   (ambiguous: same peptide evidence)
//	           └─▶ P6+P7
//
// Command line:
//
//	go install github.com/katalvlaran/xlranker/cmd/xlranker@latest
//	xlranker run --config xlranker.yaml
package xlranker
