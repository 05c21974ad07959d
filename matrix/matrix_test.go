// SPDX-License-Identifier: MIT

package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/xlranker/matrix"
)

const epsTight = 1e-12

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	return m
}

func sliceClose(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsTight {
			t.Fatalf("[%d]: got %g, want %g", i, got[i], want[i])
		}
	}
}

func TestDense_ShapeAndAccess(t *testing.T) {
	t.Parallel()

	if _, err := matrix.NewDense(0, 3); !errors.Is(err, matrix.ErrBadShape) {
		t.Fatalf("NewDense(0,3): want ErrBadShape, got %v", err)
	}
	if _, err := matrix.FromRows([][]float64{{1, 2}, {3}}); !errors.Is(err, matrix.ErrBadShape) {
		t.Fatalf("ragged: want ErrBadShape, got %v", err)
	}

	m := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	if r, c := m.Shape(); r != 2 || c != 3 {
		t.Fatalf("Shape = %dx%d", r, c)
	}
	if v, _ := m.At(1, 2); v != 6 {
		t.Fatalf("At(1,2) = %g", v)
	}
	if err := m.Set(0, 0, 9); err != nil {
		t.Fatal(err)
	}
	if _, err := m.At(2, 0); !errors.Is(err, matrix.ErrOutOfRange) {
		t.Fatalf("At(2,0): want ErrOutOfRange, got %v", err)
	}

	row, err := m.Row(0)
	if err != nil {
		t.Fatal(err)
	}
	row[1] = -1 // copy, must not alias
	if v, _ := m.At(0, 1); v != 2 {
		t.Fatalf("Row aliased backing data")
	}

	sub, err := m.SelectRows([]int{1, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if sub.Rows() != 3 {
		t.Fatalf("SelectRows rows = %d", sub.Rows())
	}
	if v, _ := sub.At(2, 0); v != 9 {
		t.Fatalf("SelectRows order broken: %g", v)
	}
	if _, err := m.SelectRows([]int{5}); !errors.Is(err, matrix.ErrOutOfRange) {
		t.Fatalf("SelectRows(5): want ErrOutOfRange, got %v", err)
	}

	if got, want := m.String(), "[9, 2, 3]\n[4, 5, 6]\n"; got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}

func TestColumnStatistics_SkipNaN(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	X := mustRows(t, [][]float64{
		{1, nan, 5},
		{3, nan, 5},
		{nan, nan, 5},
	})

	means, err := matrix.ColumnMeans(X)
	if err != nil {
		t.Fatal(err)
	}
	sliceClose(t, means, []float64{2, 0, 5})

	stds, err := matrix.ColumnStds(X, means)
	if err != nil {
		t.Fatal(err)
	}
	sliceClose(t, stds, []float64{1, 0, 0})

	if err := matrix.FillNaN(X, means); err != nil {
		t.Fatal(err)
	}
	if v, _ := X.At(2, 0); v != 2 {
		t.Fatalf("FillNaN(2,0) = %g", v)
	}

	if err := matrix.Standardize(X, means, stds); err != nil {
		t.Fatal(err)
	}
	col0 := []float64{}
	for i := 0; i < 3; i++ {
		v, _ := X.At(i, 0)
		col0 = append(col0, v)
		if v2, _ := X.At(i, 2); v2 != 0 {
			t.Fatalf("constant column not zeroed: %g", v2)
		}
	}
	sliceClose(t, col0, []float64{-1, 1, 0})
}

func TestColumnStatistics_Errors(t *testing.T) {
	t.Parallel()

	X := mustRows(t, [][]float64{{1, 2}})
	if _, err := matrix.ColumnMeans(nil); !errors.Is(err, matrix.ErrNilMatrix) {
		t.Fatalf("nil: got %v", err)
	}
	if _, err := matrix.ColumnStds(X, []float64{1}); !errors.Is(err, matrix.ErrDimensionMismatch) {
		t.Fatalf("stds mismatch: got %v", err)
	}
	if err := matrix.FillNaN(X, nil); !errors.Is(err, matrix.ErrDimensionMismatch) {
		t.Fatalf("fill mismatch: got %v", err)
	}
	if err := matrix.Standardize(X, []float64{0, 0}, []float64{1}); !errors.Is(err, matrix.ErrDimensionMismatch) {
		t.Fatalf("standardize mismatch: got %v", err)
	}
}
