// Package dtw computes Dynamic Time Warping (DTW) distances between
// numeric time series, with optional alignment path, cost matrix and
// early-abandon pruning.
//
// What is DTW?
//
//	DTW finds the best match between two sequences by warping the time
//	axis to minimize cumulative distance. Here it is the dissimilarity
//	oracle of the fuzzy clustering engine (package fcm) and of the
//	validity indices (package validity).
//
// Key features:
//   - local cost: squared difference (distance = sqrt of the accumulated
//     squared differences) or absolute difference (plain accumulation)
//   - full-matrix mode: exact O(N·M) time & memory, supports path and matrix
//   - two-row / single-row modes: O(M) memory, distance only
//   - optional Sakoe–Chiba window (|i−j| ≤ w)
//   - slope penalty to discourage excessive stretching
//   - pruning: cells above the cost of a feasible diagonal path are
//     abandoned; the returned distance is identical to the unpruned one
//
// Usage:
//
//	opts := dtw.DefaultOptions()
//	opts.Prune = true
//	dist, _, err := dtw.DTW(a, b, &opts)
//
//	m, _ := dtw.New(dtw.DefaultOptions())
//	al, err := m.Align(a, b) // al.Distance, al.Path, al.Matrix
//
// Performance:
//
//   - Time:   O(N·M)
//   - Memory: O(N·M) (FullMatrix) or O(M) (TwoRows, NoMemory)
package dtw
