package fcm

import (
	"math"

	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/matrix"
)

// UpdateMembership recomputes U from scratch against the given centroids:
//
//	U[j][i] = 1 / Σ_k ((d(i,j)+ε) / (d(i,k)+ε))^(2/(m-1))
//
// with d measured by metric (sequentially) and ε = Epsilon.
// Use DistanceTable plus MembershipFromDistances to parallelise the distances.
func UpdateMembership(data *matrix.Dense, centroids [][]float64, m float64, metric dtw.Metric) (*matrix.Dense, error) {
	if !(m > 1) {
		return nil, invalidf("m=%g, must be > 1", m)
	}
	table, err := DistanceTable(data, centroids, metric, 1)
	if err != nil {
		return nil, err
	}

	return MembershipFromDistances(table, m)
}

// MembershipFromDistances applies the closed-form membership update to a
// c×n distance table. Every column of the result sums to 1 up to rounding
// whenever its distances are finite.
//
// Complexity: O(c²·n) pow calls, no distance evaluations.
func MembershipFromDistances(table [][]float64, m float64) (*matrix.Dense, error) {
	if !(m > 1) {
		return nil, invalidf("m=%g, must be > 1", m)
	}
	c := len(table)
	if c == 0 || len(table[0]) == 0 {
		return nil, invalidf("empty distance table")
	}
	n := len(table[0])
	for j := range table {
		if len(table[j]) != n {
			return nil, invalidf("distance table row %d has %d entries, want %d", j, len(table[j]), n)
		}
	}

	u, err := matrix.NewDense(c, n)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, c)
	for j := range rows {
		if rows[j], err = u.RowView(j); err != nil {
			return nil, err
		}
	}
	exp := 2 / (m - 1)
	var i, j, k int
	var num, denom float64
	for i = 0; i < n; i++ {
		for j = 0; j < c; j++ {
			num = table[j][i] + Epsilon
			denom = 0
			for k = 0; k < c; k++ {
				denom += math.Pow(num/(table[k][i]+Epsilon), exp)
			}
			rows[j][i] = 1 / denom
		}
	}

	return u, nil
}
