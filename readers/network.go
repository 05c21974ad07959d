package readers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/core"
)

// ReadNetwork reads a two-column TSV of cross-linked peptide sequences.
// The first row is skipped as a header when it contains lower-case letters
// (peptide sequences are upper-case residue codes). Pairs repeated in either
// order keep their first occurrence.
func ReadNetwork(path string, opts ...Option) ([][2]string, error) {
	o := buildOptions(opts)
	rows, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && hasLower(rows[0]) {
		rows = rows[1:]
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([][2]string, 0, len(rows))
	dups := 0
	for i, row := range rows {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			return nil, fmt.Errorf("%w: %s row %d: need two peptide sequences", ErrMalformedRow, path, i+1)
		}
		id := core.PairID(row[0], row[1])
		if _, ok := seen[id]; ok {
			dups++
			continue
		}
		seen[id] = struct{}{}
		out = append(out, [2]string{row[0], row[1]})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}
	if dups > 0 {
		o.logger.Warn("duplicate peptide pairs in network", zap.String("path", path), zap.Int("count", dups))
	}
	return out, nil
}

// Sequences returns the distinct sequences of a network in first-seen order.
func Sequences(network [][2]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, pair := range network {
		for _, s := range pair {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				out = append(out, s)
			}
		}
	}
	return out
}
