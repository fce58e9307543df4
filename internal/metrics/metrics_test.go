package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fcmdtw/dataset"
	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/fcm"
	"github.com/katalvlaran/fcmdtw/internal/metrics"
	"github.com/katalvlaran/fcmdtw/report"
)

func TestMetric_CountsCalls(t *testing.T) {
	t.Parallel()

	rec := metrics.New()
	m := rec.Metric("objective", dtw.Default())
	d, err := m.Distance([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Zero(t, d)
	_, err = m.Align([]float64{1, 2}, []float64{2, 1})
	require.NoError(t, err)
	_, err = m.Distance(nil, []float64{1})
	assert.ErrorIs(t, err, dtw.ErrEmptyInput)

	n, err := testutil.GatherAndCount(rec.Registry(), "fcmdtw_dtw_distance_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorder_FullRun(t *testing.T) {
	t.Parallel()

	s, err := dataset.NewSeries(
		[]string{"a", "b", "c", "d"},
		[][]float64{{0, 0, 0, 0}, {0, 0, 0, 1}, {5, 5, 5, 5}, {5, 5, 5, 4}},
	)
	require.NoError(t, err)

	rec := metrics.New()
	start := time.Now()
	ev, err := report.Evaluate(s, report.Params{Clusters: 2, Fuzziness: 2, Tolerance: 1e-6, MaxIter: 50},
		fcm.WithSeed(3),
		fcm.WithMetric(rec.Metric("membership", dtw.Pruned())),
		fcm.WithObjectiveMetric(rec.Metric("objective", dtw.Default())),
		fcm.WithObserver(rec.Observer()),
	)
	require.NoError(t, err)
	rec.ObserveEvaluation(ev, time.Since(start))

	path := filepath.Join(t.TempDir(), "fcmdtw.prom")
	require.NoError(t, rec.WriteTextfile(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `fcmdtw_runs_total{status="converged"} 1`)
	assert.Contains(t, out, `fcmdtw_validity{clusters="2",index="mpc"}`)
	assert.Contains(t, out, `fcmdtw_dtw_distance_total{purpose="membership"}`)
	assert.Contains(t, out, "fcmdtw_run_duration_seconds_count 1")

	n, err := testutil.GatherAndCount(rec.Registry(), "fcmdtw_iterations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
