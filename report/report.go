// Package report serializes pair statuses and ensemble predictions as TSV
// and filters pairs by report level.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/ml"
)

// File names written by WriteDir.
const (
	PairsFile       = "pairs.tsv"
	PredictionsFile = "predictions.tsv"
)

// PairsHeader is the first line of a pairs table.
const PairsHeader = "pair\tstatus\tgroup"

// ErrUnknownLevel indicates an unparseable report level.
var ErrUnknownLevel = errors.New("report: unknown level")

// Level selects which pairs a report contains.
type Level uint8

const (
	// Conservative keeps parsimony and ML primaries.
	Conservative Level = iota + 1
	// Minimal adds ambiguous pairs left unresolved.
	Minimal
	// Expanded adds ML secondaries.
	Expanded
	// All keeps every pair.
	All
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case Conservative:
		return "conservative"
	case Minimal:
		return "minimal"
	case Expanded:
		return "expanded"
	case All:
		return "all"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for _, l := range []Level{Conservative, Minimal, Expanded, All} {
		if strings.EqualFold(strings.TrimSpace(s), l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Includes reports whether a pair with status s belongs in a level-l report.
func (l Level) Includes(s core.Status) bool {
	switch s {
	case core.ParsimonyPrimarySelected, core.MLPrimarySelected:
		return l >= Conservative
	case core.ParsimonyAmbiguous:
		return l >= Minimal
	case core.MLSecondarySelected:
		return l >= Expanded
	case core.NotAnalyzed, core.ParsimonyNotSelected, core.MLNotSelected:
		return l >= All
	default:
		return false
	}
}

// Filter returns the pairs a level-l report contains, in input order.
func Filter(l Level, pairs []*core.ProteinPair) []*core.ProteinPair {
	var out []*core.ProteinPair
	for _, pp := range pairs {
		if l.Includes(pp.Status()) {
			out = append(out, pp)
		}
	}
	return out
}

// WritePairs writes PairsHeader and one "pair\tstatus\tgroup" row per pair.
func WritePairs(w io.Writer, pairs []*core.ProteinPair) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, PairsHeader); err != nil {
		return err
	}
	for _, pp := range pairs {
		if _, err := fmt.Fprintln(bw, pp.TSV()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePredictions writes "pair", the feature columns and "prediction".
// Missing feature values are written as NA.
func WritePredictions(w io.Writer, featureNames []string, preds []ml.Prediction) error {
	bw := bufio.NewWriter(w)
	header := append(append([]string{"pair"}, featureNames...), "prediction")
	if _, err := fmt.Fprintln(bw, strings.Join(header, "\t")); err != nil {
		return err
	}
	cells := make([]string, 0, len(header))
	for _, p := range preds {
		cells = append(cells[:0], p.PairID)
		for _, v := range p.Features {
			cells = append(cells, formatFloat(v))
		}
		cells = append(cells, formatFloat(p.Score))
		if _, err := fmt.Fprintln(bw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteDir writes PairsFile for the level-filtered pairs and, when res is
// non-nil, PredictionsFile, creating dir if needed.
func WriteDir(dir string, l Level, pairs []*core.ProteinPair, res *ml.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := writeFile(filepath.Join(dir, PairsFile), func(w io.Writer) error {
		return WritePairs(w, Filter(l, pairs))
	}); err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	return writeFile(filepath.Join(dir, PredictionsFile), func(w io.Writer) error {
		return WritePredictions(w, res.FeatureNames, res.Predictions)
	})
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("report: %w", cerr)
		}
	}()
	if err := write(fh); err != nil {
		return fmt.Errorf("report: %s: %w", path, err)
	}
	return nil
}
