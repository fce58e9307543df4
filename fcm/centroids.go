package fcm

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/fcmdtw/matrix"
)

// Centroids returns, for every cluster j, the pointwise weighted mean of the
// series under weights U[j][i]^m:
//
//	v_j = Σ_i U[j][i]^m · x_i / Σ_i U[j][i]^m
//
// The mean is Euclidean even though memberships are measured under DTW.
// A cluster whose total weight is zero yields a NaN centroid; the value is
// returned as is.
//
// Complexity: O(c·n·t).
//
// Errors:
//   - ErrInvalidParameter on nil inputs, m ≤ 1 or when U has a column count
//     different from the number of series.
func Centroids(data, u *matrix.Dense, m float64) ([][]float64, error) {
	if data == nil || u == nil {
		return nil, invalidf("nil data or membership matrix")
	}
	if !(m > 1) {
		return nil, invalidf("m=%g, must be > 1", m)
	}
	n, t, c := data.Rows(), data.Cols(), u.Rows()
	if u.Cols() != n {
		return nil, invalidf("membership has %d columns for %d series", u.Cols(), n)
	}

	centroids := make([][]float64, c)
	weights := make([]float64, n)
	var j, i int
	for j = 0; j < c; j++ {
		urow, _ := u.RowView(j)
		for i = 0; i < n; i++ {
			weights[i] = math.Pow(urow[i], m)
		}
		sum := make([]float64, t)
		for i = 0; i < n; i++ {
			x, _ := data.RowView(i)
			floats.AddScaled(sum, weights[i], x)
		}
		floats.Scale(1/floats.Sum(weights), sum)
		centroids[j] = sum
	}

	return centroids, nil
}

// degenerate reports the indices of centroids holding NaN or Inf values.
func degenerate(centroids [][]float64) []int {
	var out []int
	for j, v := range centroids {
		if floats.HasNaN(v) {
			out = append(out, j)
			continue
		}
		for _, x := range v {
			if math.IsInf(x, 0) {
				out = append(out, j)
				break
			}
		}
	}

	return out
}
