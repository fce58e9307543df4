package dtw

import (
	"math"
)

// DTW — Dynamic Time Warping
//
// Description:
//
//	DTW measures similarity between two sequences that may vary
//	in time or speed by finding an optimal "warping path".
//
// Algorithm Outline (Full-Matrix):
//  1. Let n = len(a), m = len(b). Allocate (n+1)x(m+1) DP matrix D.
//  2. Initialize:
//     D[0][0] = 0
//     D[i][0] = +∞ for i=1..n
//     D[0][j] = +∞ for j=1..m
//  3. For i = 1..n:
//     For j = 1..m (and |i-j| ≤ Window, if constrained):
//     cost  = (a[i-1] - b[j-1])²  or  |a[i-1] - b[j-1]|
//     ins   = D[i-1][j]   + SlopePenalty
//     del   = D[i][j-1]   + SlopePenalty
//     match = D[i-1][j-1]
//     D[i][j] = cost + min(ins, del, match)
//     (Prune: D[i][j] = +∞ when it exceeds the diagonal upper bound)
//  4. distance = sqrt(D[n][m]) for SquaredDiff, D[n][m] for AbsDiff.
//  5. If ReturnPath, backtrack from (n,m) to (1,1) following the
//     cheapest predecessor, diagonal first on ties.
//
// Complexity:
//
//	Time   = O(n·m)
//	Memory = O(n·m) (FullMatrix) or O(m) (TwoRows, NoMemory)
//
// Errors:
//   - ErrEmptyInput       — if either input is empty.
//   - ErrBadInput         — invalid option values.
//   - ErrPathNeedsMatrix  — ReturnPath/ReturnMatrix without FullMatrix mode.
//
// Example:
//
//	opts := DefaultOptions()
//	opts.MemoryMode = FullMatrix
//	opts.ReturnPath = true
//	dist, path, err := DTW(seqA, seqB, &opts)
func DTW(a, b []float64, opts *Options) (distance float64, path []Coord, err error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, nil, ErrEmptyInput
	}

	// Apply options or defaults
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err = o.Validate(); err != nil {
		return 0, nil, err
	}

	bound := math.Inf(1)
	if o.Prune {
		bound = upperBound(a, b, o)
	}

	switch o.MemoryMode {
	case FullMatrix:
		dp := fillFull(a, b, o, bound)
		distance = finish(dp[n][m], o.Cost)
		if o.ReturnPath && !math.IsInf(dp[n][m], 0) && !math.IsNaN(dp[n][m]) {
			path = backtrack(dp, o.SlopePenalty)
		}
	case TwoRows:
		distance = finish(fillTwoRows(a, b, o, bound), o.Cost)
	default:
		distance = finish(fillOneRow(a, b, o, bound), o.Cost)
	}

	return distance, path, nil
}

// Align runs DTW in full-matrix mode and returns the distance, the optimal
// path and the cumulative-cost matrix in distance units. Window, SlopePenalty
// and Cost are taken from opts; memory and pruning settings are overridden.
func Align(a, b []float64, opts *Options) (Alignment, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return Alignment{}, ErrEmptyInput
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	o.MemoryMode = FullMatrix
	o.ReturnPath = true
	o.ReturnMatrix = true
	o.Prune = false
	if err := o.Validate(); err != nil {
		return Alignment{}, err
	}

	dp := fillFull(a, b, o, math.Inf(1))
	al := Alignment{Distance: finish(dp[n][m], o.Cost)}
	if !math.IsInf(dp[n][m], 0) && !math.IsNaN(dp[n][m]) {
		al.Path = backtrack(dp, o.SlopePenalty)
	}

	// Convert the matrix to distance units in place; backtracking is done.
	if o.Cost == SquaredDiff {
		for i := range dp {
			for j := range dp[i] {
				dp[i][j] = math.Sqrt(dp[i][j])
			}
		}
	}
	al.Matrix = dp

	return al, nil
}

// fillFull computes the complete (n+1)x(m+1) DP matrix.
func fillFull(a, b []float64, o Options, bound float64) [][]float64 {
	n, m := len(a), len(b)
	inf := math.Inf(1)
	penalty := o.SlopePenalty

	dp := make([][]float64, n+1)
	for i := range dp {
		dp[i] = make([]float64, m+1)
		for j := range dp[i] {
			dp[i][j] = inf
		}
	}
	dp[0][0] = 0

	var i, j, lo, hi int
	var v float64
	for i = 1; i <= n; i++ {
		lo, hi = band(i, m, o.Window)
		for j = lo; j <= hi; j++ {
			v = local(a[i-1], b[j-1], o.Cost) + min3(dp[i-1][j-1], dp[i-1][j]+penalty, dp[i][j-1]+penalty)
			if v > bound {
				v = inf
			}
			dp[i][j] = v
		}
	}

	return dp
}

// fillTwoRows keeps the previous and current DP rows only.
func fillTwoRows(a, b []float64, o Options, bound float64) float64 {
	n, m := len(a), len(b)
	inf := math.Inf(1)
	penalty := o.SlopePenalty

	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}

	var i, j, lo, hi int
	var v, rowMin float64
	for i = 1; i <= n; i++ {
		for j = 0; j <= m; j++ {
			curr[j] = inf
		}
		rowMin = inf
		lo, hi = band(i, m, o.Window)
		for j = lo; j <= hi; j++ {
			v = local(a[i-1], b[j-1], o.Cost) + min3(prev[j-1], prev[j]+penalty, curr[j-1]+penalty)
			if v > bound {
				v = inf
			}
			curr[j] = v
			if v < rowMin {
				rowMin = v
			}
		}
		// Every cell of this row is abandoned: no path can reach (n,m).
		if math.IsInf(rowMin, 1) {
			return inf
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// fillOneRow overwrites a single row in place, carrying D[i-1][j-1] in diag.
func fillOneRow(a, b []float64, o Options, bound float64) float64 {
	n, m := len(a), len(b)
	inf := math.Inf(1)
	penalty := o.SlopePenalty

	row := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		row[j] = inf
	}

	var i, j, lo, hi int
	var v, up, diag, rowMin float64
	for i = 1; i <= n; i++ {
		diag = row[0]
		row[0] = inf
		rowMin = inf
		lo, hi = band(i, m, o.Window)
		for j = 1; j <= m; j++ {
			up = row[j]
			v = inf
			if j >= lo && j <= hi {
				v = local(a[i-1], b[j-1], o.Cost) + min3(diag, up+penalty, row[j-1]+penalty)
				if v > bound {
					v = inf
				}
			}
			diag = up
			row[j] = v
			if v < rowMin {
				rowMin = v
			}
		}
		if math.IsInf(rowMin, 1) {
			return inf
		}
	}

	return row[m]
}

// backtrack walks from (n,m) back to (1,1) choosing the cheapest
// predecessor (diagonal, then up, then left on ties) and returns the path
// in forward order with 0-based sequence indices.
func backtrack(dp [][]float64, penalty float64) []Coord {
	i, j := len(dp)-1, len(dp[0])-1
	inf := math.Inf(1)
	path := make([]Coord, 0, i+j)

	var diag, up, left float64
	for {
		path = append(path, Coord{I: i - 1, J: j - 1})
		if i == 1 && j == 1 {
			break
		}
		diag, up, left = inf, inf, inf
		if i > 1 && j > 1 {
			diag = dp[i-1][j-1]
		}
		if i > 1 {
			up = dp[i-1][j] + penalty
		}
		if j > 1 {
			left = dp[i][j-1] + penalty
		}
		switch {
		case i > 1 && j > 1 && diag <= up && diag <= left:
			i--
			j--
		case i > 1 && (j == 1 || up <= left):
			i--
		default:
			j--
		}
	}

	// reverse path in-place
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return path
}

// band returns the inclusive column range [lo, hi] of row i allowed by the
// Sakoe–Chiba window. window < 0 means unconstrained.
func band(i, m, window int) (lo, hi int) {
	if window < 0 {
		return 1, m
	}
	lo, hi = i-window, i+window
	if lo < 1 {
		lo = 1
	}
	if hi > m {
		hi = m
	}

	return lo, hi
}

// local is the pointwise cost of aligning x with y.
func local(x, y float64, c Cost) float64 {
	d := x - y
	if c == AbsDiff {
		return math.Abs(d)
	}

	return d * d
}

// finish converts an accumulated DP value into a distance.
func finish(acc float64, c Cost) float64 {
	if c == SquaredDiff {
		return math.Sqrt(acc)
	}

	return acc
}

// min3 returns the minimum of three float64 values.
func min3(a, b, c float64) float64 {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
