package validity_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/matrix"
	"github.com/katalvlaran/fcmdtw/validity"
)

func dense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)
	return m
}

// uniform returns a c×n matrix filled with 1/c.
func uniform(t *testing.T, c, n int) *matrix.Dense {
	t.Helper()
	rows := make([][]float64, c)
	for j := range rows {
		rows[j] = make([]float64, n)
		for i := range rows[j] {
			rows[j][i] = 1 / float64(c)
		}
	}
	return dense(t, rows)
}

func TestMPC_HardAndUniform(t *testing.T) {
	t.Parallel()

	hard := dense(t, [][]float64{{1, 0, 1, 0}, {0, 1, 0, 0}, {0, 0, 0, 1}})
	mpc, err := validity.MPC(hard)
	require.NoError(t, err)
	assert.Equal(t, 1.0, mpc)

	for _, c := range []int{2, 3, 4, 5} {
		mpc, err = validity.MPC(uniform(t, c, 6))
		require.NoError(t, err)
		assert.InDelta(t, 0, mpc, 1e-12, "c=%d", c)
	}
}

func TestMPC_TooFewClusters(t *testing.T) {
	t.Parallel()

	_, err := validity.MPC(dense(t, [][]float64{{1, 1, 1}}))
	assert.ErrorIs(t, err, validity.ErrTooFewClusters)
	_, err = validity.MPC(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestPC(t *testing.T) {
	t.Parallel()

	pc, err := validity.PC(dense(t, [][]float64{{0.5, 1}, {0.5, 0}}))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, pc, 1e-15)
}

func TestPE_ZeroForHardMonotoneTowardUniform(t *testing.T) {
	t.Parallel()

	hard := dense(t, [][]float64{{1, 0}, {0, 1}})
	pe, err := validity.PE(hard)
	require.NoError(t, err)
	assert.InDelta(t, 0, pe, 1e-9)

	prev := pe
	for _, p := range []float64{0.9, 0.8, 0.7, 0.6, 0.5} {
		u := dense(t, [][]float64{{p, 1 - p}, {1 - p, p}})
		pe, err = validity.PE(u)
		require.NoError(t, err)
		assert.Greater(t, pe, prev, "p=%g", p)
		prev = pe
	}
	assert.InDelta(t, math.Log(2), prev, 1e-9)
}

func TestXB_WellSeparated(t *testing.T) {
	t.Parallel()

	data := dense(t, [][]float64{{0, 0, 0}, {0, 0, 0}, {4, 4, 4}})
	u := dense(t, [][]float64{{1, 1, 0}, {0, 0, 1}})
	centroids := [][]float64{{0, 0, 0}, {4, 4, 4}}

	xb, err := validity.XB(data, centroids, u, 2, dtw.Default())
	require.NoError(t, err)
	assert.Zero(t, xb)

	// Shift the second centroid: numerator d² = 3·1, denominator n·(3·9).
	centroids = [][]float64{{0, 0, 0}, {3, 3, 3}}
	xb, err = validity.XB(data, centroids, u, 2, dtw.Default())
	require.NoError(t, err)
	assert.InDelta(t, 3.0/(3*27), xb, 1e-12)
}

func TestXB_DegenerateWhenCentroidsCoincide(t *testing.T) {
	t.Parallel()

	data := dense(t, [][]float64{{0, 1, 2}, {2, 1, 0}})
	u := dense(t, [][]float64{{0.5, 0.5}, {0.5, 0.5}})
	centroids := [][]float64{{1, 1, 1}, {1, 1, 1}}

	xb, err := validity.XB(data, centroids, u, 2, dtw.Default())
	assert.ErrorIs(t, err, validity.ErrDegenerateCluster)
	assert.True(t, math.IsInf(xb, 1), "raw value is returned unmasked, got %g", xb)

	// Zero numerator too: 0/0 stays NaN.
	flat := dense(t, [][]float64{{1, 1, 1}, {1, 1, 1}})
	xb, err = validity.XB(flat, centroids, u, 2, dtw.Default())
	assert.ErrorIs(t, err, validity.ErrDegenerateCluster)
	assert.True(t, math.IsNaN(xb))
}

func TestXB_ShapeAndClusterErrors(t *testing.T) {
	t.Parallel()

	data := dense(t, [][]float64{{0, 1}, {1, 0}})
	u := dense(t, [][]float64{{1, 0}, {0, 1}})

	_, err := validity.XB(data, [][]float64{{0, 1}}, u, 2, dtw.Default())
	assert.ErrorIs(t, err, validity.ErrShape)
	_, err = validity.XB(data, [][]float64{{0, 1}}, dense(t, [][]float64{{1, 1}}), 2, dtw.Default())
	assert.ErrorIs(t, err, validity.ErrTooFewClusters)
}

func TestScore_Idempotent(t *testing.T) {
	t.Parallel()

	data := dense(t, [][]float64{{0, 0, 1}, {0, 1, 1}, {5, 5, 4}, {5, 4, 4}})
	u := dense(t, [][]float64{{0.9, 0.8, 0.15, 0.05}, {0.1, 0.2, 0.85, 0.95}})
	centroids := [][]float64{{0.1, 0.5, 1}, {4.8, 4.6, 4}}

	a, err := validity.Score(data, centroids, u, 1.5, dtw.Default())
	require.NoError(t, err)
	b, err := validity.Score(data, centroids, u, 1.5, dtw.Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.Clusters)
	assert.Greater(t, a.MPC, 0.5)
	assert.Less(t, a.XB, 1.0)

	// Inputs are left untouched.
	assert.Equal(t, [][]float64{{0.9, 0.8, 0.15, 0.05}, {0.1, 0.2, 0.85, 0.95}}, u.ToRows())
}

func TestScore_KeepsReportOnDegenerateXB(t *testing.T) {
	t.Parallel()

	data := dense(t, [][]float64{{0, 1, 2}, {2, 1, 0}})
	u := dense(t, [][]float64{{0.5, 0.5}, {0.5, 0.5}})
	rep, err := validity.Score(data, [][]float64{{1, 1, 1}, {1, 1, 1}}, u, 2, dtw.Default())
	assert.ErrorIs(t, err, validity.ErrDegenerateCluster)
	assert.Equal(t, 2, rep.Clusters)
	assert.InDelta(t, 0, rep.MPC, 1e-12)
	assert.True(t, math.IsInf(rep.XB, 1))
}
