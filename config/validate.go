package config

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/xlranker/ml"
	"github.com/katalvlaran/xlranker/readers"
	"github.com/katalvlaran/xlranker/report"
	"github.com/katalvlaran/xlranker/selection"
)

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"json": true, "console": true}
)

// Validate checks every setting that does not depend on the command being
// run. All problems are reported together, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Model.Runs < 1 {
		bad("model.runs=%d must be >= 1", c.Model.Runs)
	}
	if c.Model.Folds < 2 {
		bad("model.folds=%d must be >= 2", c.Model.Folds)
	}
	if c.Model.Parallelism < 0 {
		bad("model.parallelism=%d must be >= 0", c.Model.Parallelism)
	}
	if _, err := selection.New(c.Selection.Policy, c.SelectionParams()); err != nil {
		bad("selection: %v", err)
	}
	if _, err := report.ParseLevel(c.Output.ReportLevel); err != nil {
		bad("output.report_level: %v", err)
	}
	if !validLevels[c.Logging.Level] {
		bad("logging.level=%q", c.Logging.Level)
	}
	if !validFormats[c.Logging.Format] {
		bad("logging.format=%q", c.Logging.Format)
	}
	if c.Inputs.Mapping.IsFasta {
		if _, err := c.FastaOptions(); err != nil {
			bad("inputs.mapping: %v", err)
		}
	}
	return errors.Join(errs...)
}

// ValidateInputs checks the inputs a pipeline run needs.
func (c *Config) ValidateInputs() error {
	var errs []error
	if c.Inputs.Network == "" {
		errs = append(errs, fmt.Errorf("%w: inputs.network is required", ErrInvalid))
	}
	if c.Inputs.Mapping.Path == "" {
		errs = append(errs, fmt.Errorf("%w: inputs.mapping.path is required", ErrInvalid))
	}
	if _, ok := c.Inputs.Omics[c.Inputs.PrimaryOmic]; c.Inputs.PrimaryOmic != "" && !ok {
		errs = append(errs, fmt.Errorf("%w: inputs.primary_omic %q has no table", ErrInvalid, c.Inputs.PrimaryOmic))
	}
	return errors.Join(errs...)
}

// SelectionParams maps the selection section onto policy parameters.
func (c *Config) SelectionParams() selection.Params {
	return selection.Params{
		WithSecondary: c.Selection.WithSecondary,
		Threshold:     c.Selection.Threshold,
		TopN:          c.Selection.TopN,
		Within:        c.Selection.Within,
		Seed:          c.Seed,
	}
}

// FastaOptions maps the mapping section onto FASTA parsing options.
func (c *Config) FastaOptions() (readers.FastaOptions, error) {
	m := c.Inputs.Mapping
	ft, err := readers.ParseFastaType(m.FastaType)
	if err != nil {
		return readers.FastaOptions{}, err
	}
	if ft == readers.Gencode && m.SplitBy == "" {
		return readers.FastaOptions{}, errors.New("split_by is required for GENCODE headers")
	}
	return readers.FastaOptions{Type: ft, SplitBy: m.SplitBy, SplitIndex: m.SplitIndex}, nil
}

// EnsembleConfig maps the model section onto the ensemble configuration.
func (c *Config) EnsembleConfig() ml.Config {
	return ml.Config{
		Runs:        c.Model.Runs,
		Folds:       c.Model.Folds,
		Seed:        c.Seed,
		Parallelism: c.Model.Parallelism,
	}
}
