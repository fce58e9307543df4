// Package validity scores a fuzzy partition with the Modified Partition
// Coefficient (MPC), the Partition Entropy (PE) and the Xie-Beni index (XB).
//
// All functions are pure: they read U, the centroids and the data and never
// modify them, so scoring the same tuple twice gives bit-identical values.
//
// Interpretation:
//
//	MPC ∈ [0,1], 1 for a hard partition, 0 for U = 1/c everywhere.
//	PC  ∈ [1/c,1], the unmodified partition coefficient.
//	PE  ∈ [0,log c], 0 for a hard partition.
//	XB  ≥ 0, lower is better; +Inf/NaN when two centroids coincide.
package validity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/fcm"
	"github.com/katalvlaran/fcmdtw/matrix"
)

// Delta keeps log(U) finite for zero memberships in PE.
const Delta = 1e-10

var (
	// ErrTooFewClusters is returned when U has fewer than two rows.
	ErrTooFewClusters = errors.New("validity: need at least 2 clusters")

	// ErrDegenerateCluster is returned by XB together with its raw value
	// when the smallest inter-centroid distance is zero (or not finite).
	ErrDegenerateCluster = errors.New("validity: degenerate cluster")

	// ErrShape is returned when U, centroids and data disagree in size.
	ErrShape = errors.New("validity: shape mismatch")
)

// Report is the evaluation record of one clustering run.
type Report struct {
	Clusters int     `json:"clusters"`
	MPC      float64 `json:"mpc"`
	PC       float64 `json:"pc"`
	PE       float64 `json:"pe"`
	XB       float64 `json:"xb"`
}

// PC returns Σ U² / n.
func PC(u *matrix.Dense) (float64, error) {
	return meanColumnSum(u, func(v float64) float64 { return v * v })
}

// MPC returns 1 − c/(c−1) · (1 − PC).
func MPC(u *matrix.Dense) (float64, error) {
	pc, err := PC(u)
	if err != nil {
		return 0, err
	}
	c := u.Rows()
	if c < 2 {
		return 0, ErrTooFewClusters
	}
	cf := float64(c)

	return 1 - cf/(cf-1)*(1-pc), nil
}

// PE returns −Σ U·log(U+Delta) / n.
func PE(u *matrix.Dense) (float64, error) {
	s, err := meanColumnSum(u, func(v float64) float64 { return v * math.Log(v+Delta) })

	return -s, err
}

// meanColumnSum maps every membership through f and returns the total over n.
func meanColumnSum(u *matrix.Dense, f func(float64) float64) (float64, error) {
	if err := matrix.ValidateNotNil(u); err != nil {
		return 0, err
	}
	fu, err := matrix.Apply(u, f)
	if err != nil {
		return 0, err
	}
	sums, err := matrix.ColumnSums(fu)
	if err != nil {
		return 0, err
	}

	return floats.Sum(sums) / float64(u.Cols()), nil
}

// XB returns Σ U^m·d(i,j)² / (n · min_{j≠k} d(v_j,v_k)²) with all
// distances measured by metric (unpruned DTW in the engine).
//
// When the minimum inter-centroid distance is zero the division yields
// +Inf (or NaN for a zero numerator). That value is returned unmasked,
// together with ErrDegenerateCluster.
//
// Complexity: c·n + c(c−1)/2 metric calls.
func XB(data *matrix.Dense, centroids [][]float64, u *matrix.Dense, m float64, metric dtw.Metric) (float64, error) {
	if data == nil || u == nil {
		return 0, matrix.ErrNilMatrix
	}
	c := u.Rows()
	if c < 2 {
		return 0, ErrTooFewClusters
	}
	if len(centroids) != c || u.Cols() != data.Rows() {
		return 0, fmt.Errorf("validity: U %dx%d, %d centroids, %d series: %w",
			u.Rows(), u.Cols(), len(centroids), data.Rows(), ErrShape)
	}

	table, err := fcm.DistanceTable(data, centroids, metric, 1)
	if err != nil {
		return 0, err
	}
	num, err := fcm.ObjectiveFromDistances(table, u, m)
	if err != nil {
		return 0, err
	}

	minDist := math.Inf(1)
	var j, k int
	for j = 0; j < c; j++ {
		for k = j + 1; k < c; k++ {
			d, err := metric.Distance(centroids[j], centroids[k])
			if err != nil {
				return 0, fmt.Errorf("validity: distance(centroid %d, centroid %d): %w", j, k, err)
			}
			if d < minDist {
				minDist = d
			}
		}
	}

	xb := num / (float64(u.Cols()) * minDist * minDist)
	if minDist == 0 || math.IsInf(minDist, 1) {
		return xb, fmt.Errorf("validity: min inter-centroid distance %g: %w", minDist, ErrDegenerateCluster)
	}

	return xb, nil
}

// Score computes every index for one run. On ErrDegenerateCluster the
// report is still complete and carries the raw XB value.
func Score(data *matrix.Dense, centroids [][]float64, u *matrix.Dense, m float64, metric dtw.Metric) (Report, error) {
	if u == nil {
		return Report{}, matrix.ErrNilMatrix
	}
	rep := Report{Clusters: u.Rows()}
	var err error
	if rep.MPC, err = MPC(u); err != nil {
		return Report{}, err
	}
	if rep.PC, err = PC(u); err != nil {
		return Report{}, err
	}
	if rep.PE, err = PE(u); err != nil {
		return Report{}, err
	}
	rep.XB, err = XB(data, centroids, u, m, metric)
	if err != nil && !errors.Is(err, ErrDegenerateCluster) {
		return Report{}, err
	}

	return rep, err
}
