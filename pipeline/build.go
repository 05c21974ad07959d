package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/readers"
)

// BuildDataSet reads the configured inputs and builds the evidence arena.
//
// Implementation:
//   - Stage 1: read the peptide network and collect its sequences.
//   - Stage 2: map sequences to proteins via the FASTA or the mapping table.
//   - Stage 3: load omics sources and attach abundances to every mapped protein.
//   - Stage 4: core.NewDataSet connects peptide pairs to protein pairs.
func (p *Pipeline) BuildDataSet(ctx context.Context) (*core.DataSet, error) {
	in := p.cfg.Inputs
	ropts := []readers.Option{readers.WithFragile(p.cfg.Fragile), readers.WithLogger(p.logger)}

	network, err := readers.ReadNetwork(in.Network, ropts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	sequences := readers.Sequences(network)

	mapping, err := p.readMapping(ctx, sequences)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	peptides, err := readers.MapPeptides(mapping, sequences, ropts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	pairs := make([]*core.PeptidePair, 0, len(network))
	for _, row := range network {
		pairs = append(pairs, core.NewPeptidePair(peptides[row[0]], peptides[row[1]]))
	}

	names := mappedProteins(peptides)
	var sources map[string]map[string]float64
	if len(in.Omics) > 0 {
		if sources, err = readers.ReadOmicsSources(ctx, in.Omics); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}
	primary := primarySource(in.PrimaryOmic, sources)
	abundances := readers.Abundances(sources, names)
	proteins := make(map[string]*core.Protein, len(names))
	for _, name := range names {
		proteins[name] = core.NewProtein(name, abundances[name], primary)
	}

	ds, err := core.NewDataSet(pairs, proteins,
		core.WithFragile(p.cfg.Fragile), core.WithLogger(p.logger))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	p.logger.Info("dataset loaded",
		zap.Int("peptide_pairs", len(ds.PeptidePairIDs())),
		zap.Int("protein_pairs", len(ds.ProteinPairIDs())),
		zap.Int("proteins", len(names)),
		zap.Int("omics_sources", len(sources)),
		zap.String("primary_omic", primary))
	return ds, nil
}

func (p *Pipeline) readMapping(ctx context.Context, sequences []string) (map[string][]string, error) {
	m := p.cfg.Inputs.Mapping
	if !m.IsFasta {
		return readers.ReadMappingTable(m.Path,
			readers.WithFragile(p.cfg.Fragile), readers.WithLogger(p.logger))
	}
	fo, err := p.cfg.FastaOptions()
	if err != nil {
		return nil, err
	}
	return readers.MapFasta(ctx, m.Path, sequences, fo)
}

// primarySource returns the omics source every protein orders by: the
// configured one, else the first loaded source in sorted order. It is empty
// only when no source was loaded.
func primarySource(configured string, sources map[string]map[string]float64) string {
	if configured != "" || len(sources) == 0 {
		return configured
	}
	keys := make([]string, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// mappedProteins returns the sorted union of protein names over peptides.
func mappedProteins(peptides map[string]*core.Peptide) []string {
	seen := make(map[string]struct{})
	for _, pep := range peptides {
		for _, name := range pep.MappedProteins {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
