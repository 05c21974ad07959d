package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/xlranker/core"
	"github.com/katalvlaran/xlranker/matrix"
	"github.com/katalvlaran/xlranker/rng"
	"github.com/katalvlaran/xlranker/sampling"
)

// Ensemble defaults.
const (
	DefaultRuns  = 10
	DefaultFolds = 5
)

// Config controls the ensemble.
type Config struct {
	Runs        int   // independent runs, ≥ 1
	Folds       int   // cross-validation folds per run, ≥ 2
	Seed        int64 // top-level seed; 0 means rng.DefaultSeed
	Parallelism int   // concurrent runs; ≤ 0 means GOMAXPROCS
}

// DefaultConfig returns Runs=10, Folds=5.
func DefaultConfig() Config {
	return Config{Runs: DefaultRuns, Folds: DefaultFolds}
}

// Validate reports ErrInvalidConfig for runs < 1 or folds < 2.
func (c Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("%w: runs=%d", ErrInvalidConfig, c.Runs)
	}
	if c.Folds < 2 {
		return fmt.Errorf("%w: folds=%d", ErrInvalidConfig, c.Folds)
	}
	return nil
}

// Prediction is one scored ambiguous pair.
type Prediction struct {
	PairID   string
	Features []float64
	Score    float64
}

// Result summarizes an ensemble pass.
type Result struct {
	RunAUCs      []float64 // held-out AUC per run; NaN when undefined
	FeatureNames []string
	Predictions  []Prediction // sorted by PairID
}

// MeanAUC averages the defined run AUCs (NaN if none).
func (r *Result) MeanAUC() float64 {
	var sum float64
	n := 0
	for _, a := range r.RunAUCs {
		if !math.IsNaN(a) {
			sum += a
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Ensemble trains and averages classifiers over repeated runs.
type Ensemble struct {
	cfg      Config
	features *FeatureBuilder
	sampler  *sampling.Sampler
	factory  ClassifierFactory
	logger   *zap.Logger
}

// Option configures an Ensemble.
type Option func(*Ensemble)

// WithClassifier replaces the default logistic regression.
func WithClassifier(f ClassifierFactory) Option {
	return func(e *Ensemble) {
		if f != nil {
			e.factory = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Ensemble) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEnsemble validates cfg and returns an Ensemble.
func NewEnsemble(cfg Config, features *FeatureBuilder, sampler *sampling.Sampler, opts ...Option) (*Ensemble, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if features == nil || sampler == nil {
		return nil, fmt.Errorf("%w: nil feature builder or sampler", ErrInvalidConfig)
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}
	e := &Ensemble{
		cfg:      cfg,
		features: features,
		sampler:  sampler,
		factory:  LogisticRegressionFactory,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// runOutput is what one run hands back.
type runOutput struct {
	auc    float64
	scores []float64
}

// Run scores every PARSIMONY_AMBIGUOUS pair of ds with the mean ensemble
// prediction and records it via SetScore. Statuses are not touched.
//
// Implementation:
//   - Stage 1: collect positives and ambiguous pairs (sorted by PairID),
//     build their feature rows once.
//   - Stage 2: execute runs on an errgroup limited to Parallelism; run r
//     writes only scores[r] and aucs[r].
//   - Stage 3: average per pair, SetScore, build the prediction table.
func (e *Ensemble) Run(ctx context.Context, ds *core.DataSet) (*Result, error) {
	positives := ds.ProteinPairsWithStatus(core.ParsimonyPrimarySelected)
	if len(positives) == 0 {
		return nil, ErrNoPositives
	}
	ambiguous := ds.ProteinPairsWithStatus(core.ParsimonyAmbiguous)
	if len(ambiguous) == 0 {
		return nil, ErrNoAmbiguous
	}
	posRows := e.features.Rows(positives)
	ambRows := e.features.Rows(ambiguous)
	ambX, err := matrix.FromRows(ambRows)
	if err != nil {
		return nil, fmt.Errorf("ml: ambiguous features: %w", err)
	}

	outputs := make([]runOutput, e.cfg.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Parallelism)
	for run := 0; run < e.cfg.Runs; run++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := e.runOnce(run, posRows, ambX)
			if err != nil {
				return fmt.Errorf("ml: run %d: %w", run, err)
			}
			outputs[run] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		RunAUCs:      make([]float64, e.cfg.Runs),
		FeatureNames: e.features.Names(),
		Predictions:  make([]Prediction, len(ambiguous)),
	}
	for run, out := range outputs {
		res.RunAUCs[run] = out.auc
		e.logger.Info("ensemble run finished", zap.Int("run", run), zap.Float64("auc", out.auc))
	}
	for i, pp := range ambiguous {
		var sum float64
		for _, out := range outputs {
			sum += out.scores[i]
		}
		score := sum / float64(len(outputs))
		pp.SetScore(score)
		res.Predictions[i] = Prediction{PairID: pp.PairID, Features: ambRows[i], Score: score}
	}
	e.logger.Info("ensemble finished",
		zap.Int("positives", len(positives)),
		zap.Int("ambiguous", len(ambiguous)),
		zap.Int("runs", e.cfg.Runs),
		zap.Float64("mean_auc", res.MeanAUC()))
	return res, nil
}

// runOnce executes one run. It only reads shared state.
func (e *Ensemble) runOnce(run int, posRows [][]float64, ambX *matrix.Dense) (runOutput, error) {
	seed := rng.DeriveSeed(e.cfg.Seed, uint64(run))
	negatives, err := e.sampler.Sample(rng.Derive(seed, rng.StreamNegatives), len(posRows))
	if err != nil {
		return runOutput{}, err
	}
	if len(negatives) == 0 {
		return runOutput{}, ErrNoNegatives
	}

	rows := make([][]float64, 0, len(posRows)+len(negatives))
	labels := make([]float64, 0, cap(rows))
	for _, row := range posRows {
		rows = append(rows, row)
		labels = append(labels, 1)
	}
	for _, row := range e.features.Rows(negatives) {
		rows = append(rows, row)
		labels = append(labels, 0)
	}
	X, err := matrix.FromRows(rows)
	if err != nil {
		return runOutput{}, err
	}

	modelSeed := rng.DeriveSeed(seed, rng.StreamModel)
	auc, err := e.crossValidate(X, labels, rng.Derive(seed, rng.StreamFolds), modelSeed)
	if err != nil {
		return runOutput{}, err
	}

	clf := e.factory(modelSeed)
	if err := clf.Fit(X, labels); err != nil {
		return runOutput{}, err
	}
	scores, err := clf.Predict(ambX)
	if err != nil {
		return runOutput{}, err
	}
	return runOutput{auc: auc, scores: scores}, nil
}

// crossValidate returns the AUC of pooled held-out predictions, or NaN when
// it is undefined (a fold plan that leaves one class out of the pool).
func (e *Ensemble) crossValidate(X *matrix.Dense, labels []float64, r *rand.Rand, modelSeed int64) (float64, error) {
	folds, err := StratifiedKFold(labels, e.cfg.Folds, r)
	if err != nil {
		return 0, err
	}
	var pooled, truth []float64
	for f, held := range folds {
		train := complement(len(labels), held)
		if len(held) == 0 || len(train) == 0 {
			continue
		}
		Xtr, err := X.SelectRows(train)
		if err != nil {
			return 0, err
		}
		Xte, err := X.SelectRows(held)
		if err != nil {
			return 0, err
		}
		ytr := make([]float64, len(train))
		for k, i := range train {
			ytr[k] = labels[i]
		}

		clf := e.factory(rng.DeriveSeed(modelSeed, uint64(f)+1))
		if err := clf.Fit(Xtr, ytr); err != nil {
			return 0, fmt.Errorf("fold %d: %w", f, err)
		}
		pred, err := clf.Predict(Xte)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", f, err)
		}
		pooled = append(pooled, pred...)
		for _, i := range held {
			truth = append(truth, labels[i])
		}
	}
	auc, err := AUC(pooled, truth)
	if errors.Is(err, ErrSingleClass) {
		return math.NaN(), nil
	}
	return auc, err
}
