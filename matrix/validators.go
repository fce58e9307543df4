// SPDX-License-Identifier: MIT
// Package matrix: validation helpers shared by the clustering engine.

package matrix

import (
	"fmt"
	"math"
)

// ValidateNotNil returns ErrNilMatrix if m is nil (including a typed nil *Dense).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return ErrNilMatrix
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return ErrNilMatrix
	}

	return nil
}

// ValidateSameShape ensures a and b share the same row and column counts.
func ValidateSameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("ValidateSameShape: %dx%d vs %dx%d: %w",
			a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite reports the first NaN or ±Inf entry of m.
func ValidateFinite(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if d, ok := m.(*Dense); ok {
		for k, v := range d.data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("ValidateFinite(%d,%d): %w", k/d.c, k%d.c, ErrNaNInf)
			}
		}

		return nil
	}
	var i, j int
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("ValidateFinite(%d,%d): %w", i, j, ErrNaNInf)
			}
		}
	}

	return nil
}

// ValidateColumnStochastic checks that every entry lies in [-tol, 1+tol] and
// every column sums to 1 within tol.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf.
//   - ErrNotStochastic naming the first offending column.
func ValidateColumnStochastic(m *Dense, tol float64) error {
	if err := ValidateFinite(m); err != nil {
		return err
	}
	for k, v := range m.data {
		if v < -tol || v > 1+tol {
			return fmt.Errorf("ValidateColumnStochastic: entry (%d,%d)=%g: %w", k/m.c, k%m.c, v, ErrNotStochastic)
		}
	}
	sums, err := ColumnSums(m)
	if err != nil {
		return err
	}
	for j, s := range sums {
		if math.Abs(s-1) > tol {
			return fmt.Errorf("ValidateColumnStochastic: column %d sums to %g: %w", j, s, ErrNotStochastic)
		}
	}

	return nil
}
