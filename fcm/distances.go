package fcm

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/matrix"
)

// DistanceTable evaluates metric once per (centroid j, series i) pair and
// returns the c×n table D[j][i].
//
// Implementation:
//   - Stage 1: allocate the table; every pair owns one slot.
//   - Stage 2: workers ≤ 1 fills it in i→j order; otherwise an errgroup
//     limited to workers goroutines fills one series column per task.
//
// Each slot is written by exactly one goroutine and nothing is aggregated
// here, so the table is identical for any worker count.
//
// Errors:
//   - ErrInvalidParameter for nil inputs or an empty centroid set.
//   - The first error returned by metric, wrapped with the pair indices.
func DistanceTable(data *matrix.Dense, centroids [][]float64, metric dtw.Metric, workers int) ([][]float64, error) {
	if data == nil || metric == nil {
		return nil, invalidf("nil data or metric")
	}
	if len(centroids) == 0 {
		return nil, invalidf("no centroids")
	}
	n, c := data.Rows(), len(centroids)
	table := make([][]float64, c)
	for j := range table {
		table[j] = make([]float64, n)
	}

	column := func(i int) error {
		x, err := data.RowView(i)
		if err != nil {
			return err
		}
		for j := 0; j < c; j++ {
			d, err := metric.Distance(x, centroids[j])
			if err != nil {
				return fmt.Errorf("fcm: distance(series %d, centroid %d): %w", i, j, err)
			}
			table[j][i] = d
		}

		return nil
	}

	if workers <= 1 {
		for i := 0; i < n; i++ {
			if err := column(i); err != nil {
				return nil, err
			}
		}

		return table, nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error { return column(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return table, nil
}
