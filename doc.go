// Package fcmdtw clusters time series with fuzzy c-means, measuring the
// distance between a series and a centroid with dynamic time warping.
//
// What is inside?
//
//	dtw/      — DTW distance and alignment, full-matrix, two-row and pruned variants
//	matrix/   — dense row-major matrix with column helpers (sums, z-score, arg-max)
//	fcm/      — membership initialisation, centroid and membership updates, Run
//	validity/ — partition coefficient (PC, MPC), partition entropy (PE), Xie-Beni (XB)
//	dataset/  — daily price CSV → weekly series: aggregation, gap filling, z-scores
//	report/   — Evaluate, Sweep and Align plus text, JSON and xlsx renderers
//	chart/    — PNG charts of prices, clusters and alignments
//
// The fcmdtw command (cmd/fcmdtw) wires these packages together:
//
//	fcmdtw cluster --data prices.csv -c 3 --seed 42
//	fcmdtw sweep   --data prices.csv --counts 2,3,4,5
//	fcmdtw align   --data prices.csv "Cabai Merah" "Cabai Rawit"
//
// A run in three lines:
//
//	series, _, _ := dataset.Prepare(r, dataset.CommodityOptions(), dataset.CommodityAnchor)
//	ev, _ := report.Evaluate(series, report.Params{Clusters: 3, Fuzziness: 2, Tolerance: 1e-3, MaxIter: 100})
//	report.WriteText(os.Stdout, ev)
package fcmdtw
