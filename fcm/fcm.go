package fcm

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/fcmdtw/matrix"
)

// Run clusters the n×t series matrix into c fuzzy clusters.
//
// Algorithm Outline:
//  1. Validate every argument; nothing is computed on bad input.
//  2. U ← InitMembership(n, c) from the configured random source.
//  3. Repeat up to maxIter times:
//     a. centroids ← Centroids(data, U, m)
//     b. U ← membership update against the centroids (Options.Metric)
//     c. Jm ← objective of (U, centroids) (Options.ObjectiveMetric)
//     d. stop with Converged when |Jm - Jm_prev| < tolerance (Jm_prev starts at +Inf)
//  4. Otherwise stop with MaxIterReached. Both return the last pair.
//
// Complexity:
//
//	Time   = O(maxIter · 2·c·n · t²) for unwindowed DTW
//	Memory = O(c·n + c·t) plus the metric's own buffers
//
// Errors:
//   - ErrInvalidParameter: nil or non-finite data, c < 2, c > n, m ≤ 1,
//     tolerance < 0, maxIter < 1.
//   - ErrObserverAbort if the observer hook returns an error.
//   - Errors of the configured metrics.
func Run(data *matrix.Dense, c int, m, tolerance float64, maxIter int, opts ...Option) (*Result, error) {
	// Stage 1 (Validate)
	if err := validate(data, c, m, tolerance, maxIter); err != nil {
		return nil, err
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.Logger.With().Str("component", "fcm").Int("clusters", c).Logger()
	n := data.Rows()

	// Stage 2 (Init)
	u, err := InitMembership(n, c, o.Rand)
	if err != nil {
		return nil, err
	}

	// Stage 3 (Iterate)
	res := &Result{U: u, Status: MaxIterReached}
	prev := math.Inf(1)
	var table [][]float64
	for it := 1; it <= maxIter; it++ {
		if res.Centroids, err = Centroids(data, res.U, m); err != nil {
			return nil, err
		}
		if bad := degenerate(res.Centroids); len(bad) > 0 {
			log.Warn().Int("iteration", it).Ints("centroids", bad).Msg("degenerate cluster: centroid is not finite")
		}

		if table, err = DistanceTable(data, res.Centroids, o.Metric, o.Workers); err != nil {
			return nil, err
		}
		if res.U, err = MembershipFromDistances(table, m); err != nil {
			return nil, err
		}

		if table, err = DistanceTable(data, res.Centroids, o.ObjectiveMetric, o.Workers); err != nil {
			return nil, err
		}
		if res.Objective, err = ObjectiveFromDistances(table, res.U, m); err != nil {
			return nil, err
		}
		res.Iterations = it

		delta := math.Abs(res.Objective - prev)
		log.Debug().Int("iteration", it).Float64("objective", res.Objective).Float64("delta", delta).Msg("iteration")
		if err = o.OnIteration(Iteration{
			Index:     it,
			Objective: res.Objective,
			Delta:     delta,
			U:         res.U,
			Centroids: res.Centroids,
		}); err != nil {
			return nil, fmt.Errorf("fcm: iteration %d: %w: %w", it, ErrObserverAbort, err)
		}

		if delta < tolerance {
			res.Status = Converged
			break
		}
		prev = res.Objective
	}

	log.Info().
		Stringer("status", res.Status).
		Int("iterations", res.Iterations).
		Float64("objective", res.Objective).
		Msg("fcm run finished")

	return res, nil
}

// RunRows converts rows into a matrix and calls Run. Ragged or empty input
// is reported as ErrInvalidParameter.
func RunRows(rows [][]float64, c int, m, tolerance float64, maxIter int, opts ...Option) (*Result, error) {
	data, err := matrix.NewDenseFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("fcm: series: %w: %w", ErrInvalidParameter, err)
	}

	return Run(data, c, m, tolerance, maxIter, opts...)
}

// validate checks every precondition of Run.
func validate(data *matrix.Dense, c int, m, tolerance float64, maxIter int) error {
	if data == nil {
		return invalidf("nil series matrix")
	}
	n := data.Rows()
	switch {
	case c < 2:
		return invalidf("c=%d, need at least 2 clusters", c)
	case c > n:
		return invalidf("c=%d exceeds the number of series %d", c, n)
	case !(m > 1) || math.IsInf(m, 1):
		return invalidf("m=%g, must be finite and > 1", m)
	case !(tolerance >= 0):
		return invalidf("tolerance=%g, must be >= 0", tolerance)
	case maxIter < 1:
		return invalidf("maxIter=%d, must be >= 1", maxIter)
	}
	if err := matrix.ValidateFinite(data); err != nil {
		if errors.Is(err, matrix.ErrNaNInf) {
			return fmt.Errorf("fcm: series: %w: %w", ErrInvalidParameter, err)
		}

		return err
	}

	return nil
}
