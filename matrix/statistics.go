// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - NaN-aware column statistics and the in-place transforms the classifier
//     applies before fitting: mean imputation and z-scoring.
//
// Exposed API:
//   - ColumnMeans(X)            -> means            // NaN cells skipped
//   - ColumnStds(X, means)      -> stds             // population std, NaN skipped
//   - FillNaN(X, fill)          -> error            // X[i,j]=fill[j] where NaN
//   - Standardize(X, mu, sigma) -> error            // (x-mu)/sigma; sigma==0 → 0
//
// Determinism:
//   - Fixed i→j traversal for every loop.

package matrix

import (
	"fmt"
	"math"
)

const (
	opColumnMeans = "ColumnMeans"
	opColumnStds  = "ColumnStds"
	opFillNaN     = "FillNaN"
	opStandardize = "Standardize"
)

// ColumnMeans returns the mean of the finite cells of every column.
// Complexity: O(r*c).
func ColumnMeans(X *Dense) ([]float64, error) {
	if X == nil {
		return nil, matrixErrorf(opColumnMeans, ErrNilMatrix)
	}
	sums := make([]float64, X.c)
	counts := make([]int, X.c)
	for i := 0; i < X.r; i++ {
		for j, v := range X.row(i) {
			if math.IsNaN(v) {
				continue
			}
			sums[j] += v
			counts[j]++
		}
	}
	for j := range sums {
		if counts[j] > 0 {
			sums[j] /= float64(counts[j])
		}
	}
	return sums, nil
}

// ColumnStds returns the population standard deviation of the finite cells of
// every column around means.
// Complexity: O(r*c).
func ColumnStds(X *Dense, means []float64) ([]float64, error) {
	if X == nil {
		return nil, matrixErrorf(opColumnStds, ErrNilMatrix)
	}
	if len(means) != X.c {
		return nil, matrixErrorf(opColumnStds, mismatch(len(means), X.c))
	}
	ss := make([]float64, X.c)
	counts := make([]int, X.c)
	for i := 0; i < X.r; i++ {
		for j, v := range X.row(i) {
			if math.IsNaN(v) {
				continue
			}
			d := v - means[j]
			ss[j] += d * d
			counts[j]++
		}
	}
	for j := range ss {
		if counts[j] > 0 {
			ss[j] = math.Sqrt(ss[j] / float64(counts[j]))
		}
	}
	return ss, nil
}

// FillNaN replaces every NaN in column j with fill[j], in place.
func FillNaN(X *Dense, fill []float64) error {
	if X == nil {
		return matrixErrorf(opFillNaN, ErrNilMatrix)
	}
	if len(fill) != X.c {
		return matrixErrorf(opFillNaN, mismatch(len(fill), X.c))
	}
	for i := 0; i < X.r; i++ {
		row := X.row(i)
		for j, v := range row {
			if math.IsNaN(v) {
				row[j] = fill[j]
			}
		}
	}
	return nil
}

// Standardize maps x to (x-mu[j])/sigma[j] in place. Columns with sigma 0
// become 0.
func Standardize(X *Dense, mu, sigma []float64) error {
	if X == nil {
		return matrixErrorf(opStandardize, ErrNilMatrix)
	}
	if len(mu) != X.c || len(sigma) != X.c {
		return matrixErrorf(opStandardize, mismatch(len(mu), X.c))
	}
	for i := 0; i < X.r; i++ {
		row := X.row(i)
		for j := range row {
			if sigma[j] == 0 {
				row[j] = 0
				continue
			}
			row[j] = (row[j] - mu[j]) / sigma[j]
		}
	}
	return nil
}

func mismatch(got, want int) error {
	return fmt.Errorf("%w: got %d columns, want %d", ErrDimensionMismatch, got, want)
}
