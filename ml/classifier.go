package ml

import (
	"fmt"
	"math"

	"github.com/katalvlaran/xlranker/matrix"
)

// Classifier is a binary classifier producing calibrated probabilities of
// the positive class.
type Classifier interface {
	// Fit trains on X with labels y ∈ {0,1}. X is not modified.
	Fit(X *matrix.Dense, y []float64) error
	// Predict returns P(y=1) per row of X.
	Predict(X *matrix.Dense) ([]float64, error)
}

// ClassifierFactory builds a fresh classifier for one fit. The seed is
// derived per run and fold, for models that need randomness.
type ClassifierFactory func(seed int64) Classifier

// LogisticRegression defaults.
const (
	DefaultL2           = 1e-2
	DefaultLearningRate = 0.5
	DefaultMaxIter      = 500
	DefaultTolerance    = 1e-6
)

// LogisticRegression is L2-regularized logistic regression fitted by batch
// gradient descent on mean-imputed, z-scored features. Fitting starts from
// zero weights, so it is deterministic.
type LogisticRegression struct {
	L2           float64
	LearningRate float64
	MaxIter      int
	Tolerance    float64

	weights []float64
	bias    float64
	means   []float64
	stds    []float64
}

// NewLogisticRegression returns a model with default hyperparameters.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		L2:           DefaultL2,
		LearningRate: DefaultLearningRate,
		MaxIter:      DefaultMaxIter,
		Tolerance:    DefaultTolerance,
	}
}

// LogisticRegressionFactory is the default ClassifierFactory.
func LogisticRegressionFactory(int64) Classifier { return NewLogisticRegression() }

// Fit implements Classifier.
//
// Implementation:
//   - Stage 1: clone X, impute NaN with column means, z-score.
//   - Stage 2: gradient descent on mean log-loss + (L2/2)·‖w‖² until the
//     largest gradient component drops below Tolerance or MaxIter.
//
// Complexity: O(MaxIter·r·c).
func (m *LogisticRegression) Fit(X *matrix.Dense, y []float64) error {
	if X == nil {
		return matrix.ErrNilMatrix
	}
	r, c := X.Shape()
	if len(y) != r {
		return fmt.Errorf("%w: %d labels for %d rows", ErrLabelMismatch, len(y), r)
	}

	Z := X.Clone()
	means, err := matrix.ColumnMeans(Z)
	if err != nil {
		return err
	}
	if err = matrix.FillNaN(Z, means); err != nil {
		return err
	}
	stds, err := matrix.ColumnStds(Z, means)
	if err != nil {
		return err
	}
	if err = matrix.Standardize(Z, means, stds); err != nil {
		return err
	}

	w := make([]float64, c)
	grad := make([]float64, c)
	var b float64
	invR := 1.0 / float64(r)
	for iter := 0; iter < m.MaxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		var gb float64
		for i := 0; i < r; i++ {
			row, _ := Z.Row(i)
			d := sigmoid(dot(w, row)+b) - y[i]
			for j, v := range row {
				grad[j] += d * v
			}
			gb += d
		}
		maxg := math.Abs(gb * invR)
		for j := range grad {
			grad[j] = grad[j]*invR + m.L2*w[j]
			maxg = math.Max(maxg, math.Abs(grad[j]))
			w[j] -= m.LearningRate * grad[j]
		}
		b -= m.LearningRate * gb * invR
		if maxg < m.Tolerance {
			break
		}
	}

	m.weights, m.bias, m.means, m.stds = w, b, means, stds
	return nil
}

// Predict implements Classifier.
func (m *LogisticRegression) Predict(X *matrix.Dense) ([]float64, error) {
	if m.weights == nil {
		return nil, ErrNotFitted
	}
	if X == nil {
		return nil, matrix.ErrNilMatrix
	}
	Z := X.Clone()
	if err := matrix.FillNaN(Z, m.means); err != nil {
		return nil, err
	}
	if err := matrix.Standardize(Z, m.means, m.stds); err != nil {
		return nil, err
	}
	out := make([]float64, Z.Rows())
	for i := range out {
		row, _ := Z.Row(i)
		out[i] = sigmoid(dot(m.weights, row) + m.bias)
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
