// SPDX-License-Identifier: MIT

// Package matrix provides the dense numeric containers of the clustering
// engine: the n×t series matrix (one row per time series) and the c×n
// membership matrix U (one column per series, columns summing to 1).
//
// The package offers:
//
//   - Dense, a row-major float64 matrix with error-returning accessors
//     and aliasing row views for hot loops.
//   - Column statistics: sums, L1 column normalisation, population
//     z-scores, arg-max per column, transpose.
//   - Validators with sentinel errors: finite values, equal shapes,
//     column-stochastic membership.
//
// Determinism:
//
//	All loops run in fixed i→j order; no map iteration, no randomness.
package matrix
