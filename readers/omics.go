package readers

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// missingValues are cells treated as absent in omics tables.
var missingValues = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "NAN": {}, "NULL": {}, "-": {},
}

// ReadOmics reads an abundance table: a header row, then one row per
// analyte with the analyte name first and numeric sample columns after it.
// The abundance of an analyte is the mean of its present values over every
// row naming it; analytes with no present value are omitted.
func ReadOmics(path string) (map[string]float64, error) {
	rows, err := readTSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s has no analyte rows", ErrEmptyTable, path)
	}

	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[string]*acc)
	for i, row := range rows[1:] {
		name := row[0]
		if name == "" {
			continue
		}
		a, ok := sums[name]
		if !ok {
			a = &acc{}
			sums[name] = a
		}
		for _, cell := range row[1:] {
			if _, missing := missingValues[strings.ToUpper(cell)]; missing {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d: %q is not a number", ErrMalformedRow, path, i+2, cell)
			}
			if math.IsNaN(v) {
				continue
			}
			a.sum += v
			a.n++
		}
	}

	out := make(map[string]float64, len(sums))
	for name, a := range sums {
		if a.n > 0 {
			out[name] = a.sum / float64(a.n)
		}
	}
	return out, nil
}

// ReadOmicsSources loads several omics tables concurrently, keyed by source
// name. The first failure cancels the rest.
func ReadOmicsSources(ctx context.Context, sources map[string]string) (map[string]map[string]float64, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var mu sync.Mutex
	out := make(map[string]map[string]float64, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		path := sources[name]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			values, err := ReadOmics(path)
			if err != nil {
				return fmt.Errorf("omics source %s: %w", name, err)
			}
			mu.Lock()
			out[name] = values
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Abundances pivots per-source tables into per-protein abundance maps for
// the given protein names. Names absent from a source get no entry for it.
func Abundances(sources map[string]map[string]float64, proteins []string) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(proteins))
	for _, p := range proteins {
		ab := make(map[string]float64)
		for src, table := range sources {
			if v, ok := table[p]; ok {
				ab[src] = v
			}
		}
		out[p] = ab
	}
	return out
}
