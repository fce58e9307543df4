package dtw

import "math"

// upperBound returns the accumulated cost of one feasible warping path:
// the main diagonal up to min(n,m), then straight down (or right) to (n,m).
// Every DP cell of the optimal path is bounded by this value, so cells that
// exceed it can be abandoned without changing the result.
//
// The accumulation order matches the DP recurrence (cost + (prev + penalty)),
// so the DP value on this very path never exceeds the bound in floating point.
// With a window narrower than |n-m| no path exists and the bound is +Inf.
func upperBound(a, b []float64, o Options) float64 {
	n, m := len(a), len(b)
	gap := n - m
	if gap < 0 {
		gap = -gap
	}
	if o.Window >= 0 && gap > o.Window {
		return math.Inf(1)
	}

	short := n
	if m < short {
		short = m
	}

	ub := 0.0
	var k int
	for k = 0; k < short; k++ {
		ub = local(a[k], b[k], o.Cost) + ub
	}
	for k = short; k < n; k++ {
		ub = local(a[k], b[m-1], o.Cost) + (ub + o.SlopePenalty)
	}
	for k = short; k < m; k++ {
		ub = local(a[n-1], b[k], o.Cost) + (ub + o.SlopePenalty)
	}

	return ub
}
