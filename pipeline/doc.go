// Package pipeline wires the xlranker stages into the two end-to-end runs:
//
//	Run:            inputs → DataSet → groups → parsimony → ensemble → selection → report
//	ParsimonyOnly:  inputs → DataSet → groups → parsimony [→ random selection] → report
//
// Every stage receives the configured seed, fragile flag and logger through
// its constructor. Output files and store rows are written only after every
// stage succeeded, so a failed run leaves no partial results behind.
package pipeline
