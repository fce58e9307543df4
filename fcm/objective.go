package fcm

import (
	"math"

	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/matrix"
)

// Objective computes Jm = Σ_j Σ_i U[j][i]^m · d(i,j)² with the given metric.
func Objective(data *matrix.Dense, centroids [][]float64, u *matrix.Dense, m float64, metric dtw.Metric) (float64, error) {
	table, err := DistanceTable(data, centroids, metric, 1)
	if err != nil {
		return 0, err
	}

	return ObjectiveFromDistances(table, u, m)
}

// ObjectiveFromDistances computes Jm from a c×n distance table. The sum runs
// j-major, i-minor so the result does not depend on how the table was filled.
func ObjectiveFromDistances(table [][]float64, u *matrix.Dense, m float64) (float64, error) {
	if u == nil {
		return 0, invalidf("nil membership matrix")
	}
	if len(table) != u.Rows() {
		return 0, invalidf("distance table has %d rows, membership %d", len(table), u.Rows())
	}
	var jm float64
	for j, row := range table {
		urow, _ := u.RowView(j)
		if len(row) != len(urow) {
			return 0, invalidf("distance table row %d has %d entries, membership %d", j, len(row), len(urow))
		}
		for i, d := range row {
			jm += math.Pow(urow[i], m) * d * d
		}
	}

	return jm, nil
}
