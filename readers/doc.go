// Package readers loads the external inputs of a run: the cross-link
// network, peptide→protein mappings (table or FASTA), omics abundance
// tables, the gold-standard PPI table and gene sets.
//
// All tables are tab-separated. Every opener transparently decompresses
// gzip input, detected by magic number or a .gz suffix.
package readers
