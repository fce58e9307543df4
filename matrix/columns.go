// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column-oriented kernels for the membership matrix U (c×n, one column per
//     series) and the raw observation matrix (t×n, one column per commodity).
//
// Exposed API:
//   - ColumnSums(X)          -> []float64        // Σ_i X[i][j]
//   - NormalizeColumnsL1(X)  -> (Y, sums)        // column-stochastic copy (zero-sum columns unchanged)
//   - ZScoreColumns(X)       -> (Y, means, stds) // population z-score; std=0 → zeroed column
//   - ArgMaxColumns(X)       -> []int            // first index of the column maximum
//   - Transpose(X)           -> Xᵀ
//   - Apply(X, f)            -> f applied elementwise into a copy
//
// Determinism:
//   - Fixed i→j traversal; ties in ArgMaxColumns resolve to the lowest row.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	opColumnSums         = "ColumnSums"
	opNormalizeColumnsL1 = "NormalizeColumnsL1"
	opZScoreColumns      = "ZScoreColumns"
	opArgMaxColumns      = "ArgMaxColumns"
	opTranspose          = "Transpose"
	opApply              = "Apply"
)

// ColumnSums returns the sum of every column.
// Complexity: O(r*c).
func ColumnSums(X *Dense) ([]float64, error) {
	if X == nil {
		return nil, matrixErrorf(opColumnSums, ErrNilMatrix)
	}
	sums := make([]float64, X.c)
	for i := 0; i < X.r; i++ {
		floats.Add(sums, X.data[i*X.c:(i+1)*X.c])
	}

	return sums, nil
}

// NormalizeColumnsL1 returns a copy of X whose columns are divided by their
// sums, plus the sums themselves. Columns summing to zero are copied as is.
//
// Implementation:
//   - Stage 1: ColumnSums in one row-major pass.
//   - Stage 2: Scale every row by the reciprocal sums (floats.Div).
func NormalizeColumnsL1(X *Dense) (*Dense, []float64, error) {
	sums, err := ColumnSums(X)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeColumnsL1, err)
	}
	div := make([]float64, len(sums))
	for j, s := range sums {
		div[j] = s
		if s == 0 {
			div[j] = 1
		}
	}
	out := X.Clone()
	for i := 0; i < out.r; i++ {
		floats.Div(out.data[i*out.c:(i+1)*out.c], div)
	}

	return out, sums, nil
}

// ZScoreColumns standardises every column with its mean and population
// standard deviation. Constant columns become zeros.
//
// Errors:
//   - ErrNilMatrix for a nil input.
//   - ErrNaNInf when X holds non-finite values.
func ZScoreColumns(X *Dense) (*Dense, []float64, []float64, error) {
	if X == nil {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, ErrNilMatrix)
	}
	if err := ValidateFinite(X); err != nil {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, err)
	}

	out := X.Clone()
	means := make([]float64, X.c)
	stds := make([]float64, X.c)
	col := make([]float64, X.r)
	var i, j int
	for j = 0; j < X.c; j++ {
		for i = 0; i < X.r; i++ {
			col[i] = X.data[i*X.c+j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		means[j] = mean
		if variance <= 0 {
			for i = 0; i < X.r; i++ {
				out.data[i*X.c+j] = 0
			}
			continue
		}
		sd := math.Sqrt(variance)
		stds[j] = sd
		for i = 0; i < X.r; i++ {
			out.data[i*X.c+j] = (col[i] - mean) / sd
		}
	}

	return out, means, stds, nil
}

// ArgMaxColumns returns, for every column, the row index holding its maximum.
// NaN entries are never selected unless the whole column is NaN, in which
// case row 0 is reported.
func ArgMaxColumns(X *Dense) ([]int, error) {
	if X == nil {
		return nil, matrixErrorf(opArgMaxColumns, ErrNilMatrix)
	}
	idx := make([]int, X.c)
	col := make([]float64, X.r)
	for j := 0; j < X.c; j++ {
		for i := 0; i < X.r; i++ {
			col[i] = X.data[i*X.c+j]
		}
		idx[j] = floats.MaxIdx(col)
	}

	return idx, nil
}

// Transpose returns Xᵀ as a new Dense.
// Complexity: O(r*c).
func Transpose(X *Dense) (*Dense, error) {
	if X == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}
	out := &Dense{r: X.c, c: X.r, data: make([]float64, len(X.data))}
	var i, j int
	for i = 0; i < X.r; i++ {
		for j = 0; j < X.c; j++ {
			out.data[j*X.r+i] = X.data[i*X.c+j]
		}
	}

	return out, nil
}

// Apply returns a copy of X with f applied to every element.
func Apply(X *Dense, f func(float64) float64) (*Dense, error) {
	if X == nil {
		return nil, matrixErrorf(opApply, ErrNilMatrix)
	}
	out := &Dense{r: X.r, c: X.c, data: make([]float64, len(X.data))}
	for k, v := range X.data {
		out.data[k] = f(v)
	}

	return out, nil
}
