package readers

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/core"
)

// ReadMappingTable reads a TSV whose first column is a peptide sequence and
// whose remaining columns are the proteins it maps to. Rows without a tab
// are ignored; a repeated sequence keeps its first row.
func ReadMappingTable(path string, opts ...Option) (map[string][]string, error) {
	o := buildOptions(opts)
	rows, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 || row[0] == "" {
			continue
		}
		seq := row[0]
		if _, ok := out[seq]; ok {
			o.logger.Warn("duplicated peptide sequence in mapping table, keeping first",
				zap.String("sequence", seq))
			continue
		}
		proteins := make([]string, 0, len(row)-1)
		for _, name := range row[1:] {
			if name != "" {
				proteins = append(proteins, name)
			}
		}
		out[seq] = proteins
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no peptide sequences in %s", ErrEmptyTable, path)
	}
	return out, nil
}

// FastaType names a FASTA header convention.
type FastaType uint8

const (
	// Uniprot headers carry the gene symbol in a "GN=" token.
	Uniprot FastaType = iota + 1
	// Gencode headers carry the gene symbol at a fixed split index.
	Gencode
)

// String returns "UNIPROT" or "GENCODE".
func (t FastaType) String() string {
	switch t {
	case Uniprot:
		return "UNIPROT"
	case Gencode:
		return "GENCODE"
	default:
		return fmt.Sprintf("FastaType(%d)", uint8(t))
	}
}

// ParseFastaType parses a FastaType name, case-insensitively.
func ParseFastaType(s string) (FastaType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UNIPROT":
		return Uniprot, nil
	case "GENCODE":
		return Gencode, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFastaType, s)
	}
}

// FastaOptions controls gene symbol extraction.
type FastaOptions struct {
	Type       FastaType
	SplitBy    string // GENCODE field separator
	SplitIndex int    // GENCODE 0-based index of the gene symbol field
}

// DefaultFastaOptions returns UNIPROT headers with the GENCODE split "|" / 3.
func DefaultFastaOptions() FastaOptions {
	return FastaOptions{Type: Uniprot, SplitBy: "|", SplitIndex: 3}
}

// GeneSymbol extracts the upper-cased gene symbol from a FASTA description
// (the header line without '>').
//
// UNIPROT: the value of the first "GN=" token; else the second "|" field of
// the first word; else the whole description.
// GENCODE: field SplitIndex after splitting by SplitBy, cut at the first
// space; the first field when SplitIndex is out of range.
func GeneSymbol(description string, o FastaOptions) string {
	switch o.Type {
	case Gencode:
		parts := strings.Split(description, o.SplitBy)
		if o.SplitIndex < 0 || o.SplitIndex >= len(parts) {
			return strings.ToUpper(parts[0])
		}
		field, _, _ := strings.Cut(parts[o.SplitIndex], " ")
		return strings.ToUpper(field)
	default:
		words := strings.Split(description, " ")
		for _, w := range words {
			if strings.HasPrefix(w, "GN=") {
				return strings.ToUpper(w[len("GN="):])
			}
		}
		if ids := strings.Split(words[0], "|"); len(ids) >= 2 {
			return strings.ToUpper(ids[1])
		}
		return strings.ToUpper(description)
	}
}

// MapFasta maps every sequence to the gene symbols of the FASTA records
// containing it as a substring. Every input sequence is a key of the result;
// symbol lists are sorted and distinct.
//
// Complexity: O(R·S·L) for R records, S sequences, L record length.
func MapFasta(ctx context.Context, path string, sequences []string, fo FastaOptions) (map[string][]string, error) {
	matches := make(map[string]map[string]struct{}, len(sequences))
	for _, s := range sequences {
		matches[s] = make(map[string]struct{})
	}

	rc, err := openReader(path)
	if err != nil {
		return nil, fmt.Errorf("readers: %w", err)
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	const maxLine = 64 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var desc string
	var seq strings.Builder
	flush := func() {
		if desc == "" {
			return
		}
		record := seq.String()
		var symbol string
		for s, set := range matches {
			if strings.Contains(record, s) {
				if symbol == "" {
					symbol = GeneSymbol(desc, fo)
				}
				set[symbol] = struct{}{}
			}
		}
	}
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			flush()
			desc = line[1:]
			seq.Reset()
			continue
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("readers: %s: %w", path, err)
	}
	flush()

	out := make(map[string][]string, len(matches))
	for s, set := range matches {
		list := make([]string, 0, len(set))
		for sym := range set {
			list = append(list, sym)
		}
		sort.Strings(list)
		out[s] = list
	}
	return out, nil
}

// MapPeptides builds a Peptide per sequence from a mapping. Sequences
// missing from the mapping or mapping to nothing are logged (and get no
// mapped proteins), or fail with ErrUnmappedSequence in fragile mode.
func MapPeptides(mapping map[string][]string, sequences []string, opts ...Option) (map[string]*core.Peptide, error) {
	o := buildOptions(opts)
	out := make(map[string]*core.Peptide, len(sequences))
	noMaps := 0
	for _, s := range sequences {
		proteins, ok := mapping[s]
		switch {
		case !ok:
			if o.fragile {
				return nil, fmt.Errorf("%w: %s not found in mapping", ErrUnmappedSequence, s)
			}
			o.logger.Warn("sequence not found in mapping table", zap.String("sequence", s))
		case len(proteins) == 0:
			if o.fragile {
				return nil, fmt.Errorf("%w: %s maps to no proteins", ErrUnmappedSequence, s)
			}
			o.logger.Debug("sequence maps to no proteins", zap.String("sequence", s))
			noMaps++
		}
		out[s] = core.NewPeptide(s, proteins...)
	}
	if noMaps > 0 {
		o.logger.Warn("sequences without mapped proteins", zap.Int("count", noMaps))
	}
	return out, nil
}

// ReadFastaHeaders returns up to limit record descriptions (header lines
// without '>') from a FASTA file. limit <= 0 reads every header.
func ReadFastaHeaders(path string, limit int) ([]string, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, fmt.Errorf("readers: %w", err)
	}
	defer rc.Close()

	var out []string
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, ">") {
			continue
		}
		out = append(out, line[1:])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("readers: %s: %w", path, err)
	}
	return out, nil
}
