package ml

import "errors"

var (
	// ErrNoPositives indicates no PARSIMONY_PRIMARY_SELECTED pair to train on.
	ErrNoPositives = errors.New("ml: no positive pairs")
	// ErrNoAmbiguous indicates no PARSIMONY_AMBIGUOUS pair to score.
	ErrNoAmbiguous = errors.New("ml: no ambiguous pairs")
	// ErrNoNegatives indicates the sampler could not provide any negative pair.
	ErrNoNegatives = errors.New("ml: no negative pairs available")
	// ErrInvalidConfig indicates runs < 1 or folds < 2.
	ErrInvalidConfig = errors.New("ml: invalid ensemble config")
	// ErrSingleClass indicates AUC over labels of one class only.
	ErrSingleClass = errors.New("ml: labels contain a single class")
	// ErrNotFitted indicates Predict before Fit.
	ErrNotFitted = errors.New("ml: classifier not fitted")
	// ErrLabelMismatch indicates a label vector whose length differs from the rows.
	ErrLabelMismatch = errors.New("ml: labels do not match rows")
)
