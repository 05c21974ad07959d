package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/katalvlaran/xlranker/config"
	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/grouping"
	"github.com/katalvlaran/xlranker/ml"
	"github.com/katalvlaran/xlranker/parsimony"
	"github.com/katalvlaran/xlranker/readers"
	"github.com/katalvlaran/xlranker/report"
	"github.com/katalvlaran/xlranker/sampling"
	"github.com/katalvlaran/xlranker/selection"
	"github.com/katalvlaran/xlranker/store"
)

// Run modes recorded in the store.
const (
	ModeFull          = "full"
	ModeParsimony     = "parsimony"
	ModeParsimonyFull = "parsimony-full"
)

// RunSaver persists a finished run. *store.Store implements it.
type RunSaver interface {
	SaveRun(ctx context.Context, run store.Run, pairs []*core.ProteinPair, aucs []float64) (store.Run, error)
}

// Pipeline runs xlranker end to end for one configuration.
type Pipeline struct {
	cfg        *config.Config
	logger     *zap.Logger
	saver      RunSaver
	classifier ml.ClassifierFactory
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger shared by every stage.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSaver persists every successful run.
func WithSaver(s RunSaver) Option {
	return func(p *Pipeline) { p.saver = s }
}

// WithClassifier replaces the ensemble's logistic regression.
func WithClassifier(f ml.ClassifierFactory) Option {
	return func(p *Pipeline) { p.classifier = f }
}

// New validates cfg and returns a Pipeline.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: %w: nil config", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateInputs(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Outcome summarizes a finished run.
type Outcome struct {
	Run       store.Run // zero ID unless a saver is configured
	DataSet   *core.DataSet
	Groups    int
	Parsimony *parsimony.Summary
	Ensemble  *ml.Result           // nil for parsimony-only runs
	Selection selection.Assignment // nil unless ambiguous pairs were selected
}

// Run executes the full pipeline: parsimony, the classifier ensemble over
// the ambiguous pairs, the configured selection policy, then the report.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	out, err := p.resolve(ctx)
	if err != nil {
		return nil, err
	}
	ds := out.DataSet

	gold, err := p.readGold()
	if err != nil {
		return nil, err
	}
	geneSets, err := p.readGeneSets()
	if err != nil {
		return nil, err
	}

	sampler := sampling.New(proteinsOf(ds), ds.ProteinPairIDs(), geneSets,
		sampling.WithFragile(p.cfg.Fragile), sampling.WithLogger(p.logger))
	eopts := []ml.Option{ml.WithLogger(p.logger)}
	if p.classifier != nil {
		eopts = append(eopts, ml.WithClassifier(p.classifier))
	}
	ens, err := ml.NewEnsemble(p.cfg.EnsembleConfig(), ml.NewFeatureBuilder(ds.Sources(), gold), sampler, eopts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if out.Ensemble, err = ens.Run(ctx, ds); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	sel, err := selection.New(p.cfg.Selection.Policy, p.cfg.SelectionParams())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if out.Selection, err = p.selectAmbiguous(sel, ds); err != nil {
		return nil, err
	}

	if err := p.finish(ctx, out, ModeFull); err != nil {
		return nil, err
	}
	return out, nil
}

// ParsimonyOnly resolves the dataset with parsimony alone. With full set,
// every ambiguous subgroup is settled by the seeded Random policy so that
// each one ends with exactly one primary.
func (p *Pipeline) ParsimonyOnly(ctx context.Context, full bool) (*Outcome, error) {
	out, err := p.resolve(ctx)
	if err != nil {
		return nil, err
	}
	mode := ModeParsimony
	if full {
		mode = ModeParsimonyFull
		if out.Selection, err = p.selectAmbiguous(selection.Random{Seed: p.cfg.Seed}, out.DataSet); err != nil {
			return nil, err
		}
	}
	if err := p.finish(ctx, out, mode); err != nil {
		return nil, err
	}
	return out, nil
}

// resolve builds the DataSet, assigns groups and runs parsimony.
func (p *Pipeline) resolve(ctx context.Context) (*Outcome, error) {
	ds, err := p.BuildDataSet(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := grouping.NewAssigner(grouping.WithLogger(p.logger)).Assign(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	summary, err := parsimony.NewSelector(
		parsimony.WithSeed(p.cfg.Seed), parsimony.WithLogger(p.logger)).Run(ds, groups)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if p.cfg.Detailed {
		p.logStatuses(ds, "after parsimony")
	}
	return &Outcome{DataSet: ds, Groups: groups.Len(), Parsimony: summary}, nil
}

func (p *Pipeline) selectAmbiguous(sel selection.Selector, ds *core.DataSet) (selection.Assignment, error) {
	ambiguous := ds.ProteinPairsWithStatus(core.ParsimonyAmbiguous)
	if len(ambiguous) == 0 {
		return selection.Assignment{}, nil
	}
	a, err := selection.Process(sel, ambiguous)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s selection: %w", sel.Name(), err)
	}
	counts := a.Counts()
	p.logger.Info("selection applied",
		zap.String("policy", sel.Name()),
		zap.Int("primary", counts[core.MLPrimarySelected]),
		zap.Int("secondary", counts[core.MLSecondarySelected]),
		zap.Int("not_selected", counts[core.MLNotSelected]))
	return a, nil
}

// finish writes the reports and stores the run. Reports are staged in a
// sibling temp directory and moved into the output directory only once the
// run is stored, so a store failure leaves nothing behind.
func (p *Pipeline) finish(ctx context.Context, out *Outcome, mode string) error {
	level, err := report.ParseLevel(p.cfg.Output.ReportLevel)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if p.cfg.Detailed {
		p.logStatuses(out.DataSet, "final")
	}

	dir := filepath.Clean(p.cfg.Output.Dir)
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	staging, err := os.MkdirTemp(parent, stagingPattern)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	defer os.RemoveAll(staging)
	if err := report.WriteDir(staging, level, out.DataSet.ProteinPairs(), out.Ensemble); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if p.saver != nil {
		var aucs []float64
		if out.Ensemble != nil {
			aucs = out.Ensemble.RunAUCs
		}
		run, err := p.saver.SaveRun(ctx, store.Run{Seed: p.cfg.Seed, Mode: mode}, out.DataSet.ProteinPairs(), aucs)
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		out.Run = run
		p.logger.Info("run stored", zap.String("run_id", run.ID), zap.String("mode", mode))
	}

	if err := publish(staging, dir); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	p.logger.Info("report written", zap.String("dir", dir), zap.Stringer("level", level))
	return nil
}

// stagingPattern names the temp directory reports are written to first.
const stagingPattern = ".xlranker-*"

// publish moves every file of staging into dir, replacing existing files.
func publish(staging, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(staging)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Rename(filepath.Join(staging, e.Name()), filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) readGold() (*ml.GoldStandard, error) {
	if p.cfg.Inputs.GoldStandard == "" {
		return nil, nil
	}
	gold, err := readers.ReadGoldStandard(p.cfg.Inputs.GoldStandard)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return gold, nil
}

func (p *Pipeline) readGeneSets() ([][]string, error) {
	if p.cfg.Inputs.GeneSets == "" {
		return nil, nil
	}
	sets, err := readers.ReadGeneSets(p.cfg.Inputs.GeneSets)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return readers.Members(sets), nil
}

func (p *Pipeline) logStatuses(ds *core.DataSet, stage string) {
	counts := ds.StatusCounts()
	fields := []zap.Field{zap.String("stage", stage)}
	for _, s := range core.AllStatuses() {
		if counts[s] > 0 {
			fields = append(fields, zap.Int(s.String(), counts[s]))
		}
	}
	p.logger.Info("protein pair statuses", fields...)
}

// proteinsOf returns every protein of ds in name order.
func proteinsOf(ds *core.DataSet) []*core.Protein {
	names := ds.ProteinNames()
	out := make([]*core.Protein, 0, len(names))
	for _, name := range names {
		if p, ok := ds.Protein(name); ok {
			out = append(out, p)
		}
	}
	return out
}
