// Package report composes a clustering run with validity scoring and
// defuzzification, and renders the outcome for people and spreadsheets.
package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/katalvlaran/fcmdtw/dataset"
	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/fcm"
	"github.com/katalvlaran/fcmdtw/matrix"
	"github.com/katalvlaran/fcmdtw/validity"
)

// DegreePlaces is the number of decimals kept in membership degrees.
const DegreePlaces = 6

var (
	// ErrSameSeries is returned by Align when both names are equal.
	ErrSameSeries = errors.New("report: alignment needs two different series")

	// ErrNoCounts is returned by Sweep without cluster counts.
	ErrNoCounts = errors.New("report: no cluster counts to sweep")
)

// Params are the run parameters of one evaluation.
type Params struct {
	Clusters  int     `json:"clusters"`
	Fuzziness float64 `json:"fuzziness"`
	Tolerance float64 `json:"tolerance"`
	MaxIter   int     `json:"max_iter"`
}

// Membership is one row of the degree table.
type Membership struct {
	Name string `json:"name"`
	// Cluster is the 1-based arg-max cluster.
	Cluster int `json:"cluster"`
	// Degrees holds U[j][i] for every cluster j, rounded to DegreePlaces.
	Degrees []float64 `json:"degrees"`
}

// Evaluation is the user-facing record of one run.
type Evaluation struct {
	RunID       uuid.UUID       `json:"run_id"`
	Params      Params          `json:"params"`
	Validity    validity.Report `json:"validity"`
	Memberships []Membership    `json:"memberships"`
	Status      string          `json:"status"`
	Iterations  int             `json:"iterations"`
	Objective   float64         `json:"objective"`
	// Degenerate is set when XB hit coinciding centroids.
	Degenerate bool        `json:"degenerate,omitempty"`
	Result     *fcm.Result `json:"-"`
}

// Evaluate runs fcm.Run on the series, scores the final partition and
// builds the degree table.
//
// Stages:
//  1. fcm.Run with the given options.
//  2. validity.Score with the objective metric of the same options.
//     A degenerate XB is logged at warn level and kept in the report.
//  3. Defuzzification: arg-max per column, 1-based labels.
func Evaluate(series dataset.Series, p Params, opts ...fcm.Option) (*Evaluation, error) {
	if len(series.Names) == 0 || series.Data == nil || len(series.Names) != series.Data.Rows() {
		return nil, fmt.Errorf("report: %d names for series matrix: %w", len(series.Names), dataset.ErrShape)
	}
	o := fcm.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	runID := uuid.New()
	log := o.Logger.With().Str("run_id", runID.String()).Logger()
	runOpts := append(append(make([]fcm.Option, 0, len(opts)+1), opts...), fcm.WithLogger(log))

	// Stage 1
	res, err := fcm.Run(series.Data, p.Clusters, p.Fuzziness, p.Tolerance, p.MaxIter, runOpts...)
	if err != nil {
		return nil, err
	}

	// Stage 2
	ev := &Evaluation{
		RunID:      runID,
		Params:     p,
		Status:     res.Status.String(),
		Iterations: res.Iterations,
		Objective:  res.Objective,
		Result:     res,
	}
	ev.Validity, err = validity.Score(series.Data, res.Centroids, res.U, p.Fuzziness, o.ObjectiveMetric)
	switch {
	case errors.Is(err, validity.ErrDegenerateCluster):
		ev.Degenerate = true
		log.Warn().Err(err).Float64("xb", ev.Validity.XB).Msg("xie-beni index is degenerate")
	case err != nil:
		return nil, err
	}

	// Stage 3
	if ev.Memberships, err = Defuzzify(series.Names, res.U); err != nil {
		return nil, err
	}
	log.Info().
		Int("clusters", p.Clusters).
		Float64("mpc", ev.Validity.MPC).
		Float64("pe", ev.Validity.PE).
		Float64("xb", ev.Validity.XB).
		Msg("evaluation finished")

	return ev, nil
}

// Defuzzify labels every series with its arg-max cluster (1-based) and
// copies its rounded degree vector.
func Defuzzify(names []string, u *matrix.Dense) ([]Membership, error) {
	if u == nil {
		return nil, matrix.ErrNilMatrix
	}
	if len(names) != u.Cols() {
		return nil, fmt.Errorf("report: %d names for %d columns: %w", len(names), u.Cols(), dataset.ErrShape)
	}
	labels, err := matrix.ArgMaxColumns(u)
	if err != nil {
		return nil, err
	}
	out := make([]Membership, len(names))
	for i, name := range names {
		col, _ := u.Col(i)
		for j := range col {
			col[j] = Round(col[j], DegreePlaces)
		}
		out[i] = Membership{Name: name, Cluster: labels[i] + 1, Degrees: col}
	}

	return out, nil
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Sweep evaluates every cluster count with otherwise identical parameters.
// Counts larger than the number of series fail like fcm.Run does.
func Sweep(series dataset.Series, p Params, counts []int, opts ...fcm.Option) ([]*Evaluation, error) {
	if len(counts) == 0 {
		return nil, ErrNoCounts
	}
	out := make([]*Evaluation, 0, len(counts))
	for _, c := range counts {
		q := p
		q.Clusters = c
		ev, err := Evaluate(series, q, opts...)
		if err != nil {
			return nil, fmt.Errorf("report: sweep c=%d: %w", c, err)
		}
		out = append(out, ev)
	}

	return out, nil
}

// Members groups series names by 1-based cluster label.
func (e *Evaluation) Members() map[int][]string {
	out := make(map[int][]string)
	for _, m := range e.Memberships {
		out[m.Cluster] = append(out[m.Cluster], m.Name)
	}

	return out
}

// PairAlignment is the DTW alignment of two named series.
type PairAlignment struct {
	A        string      `json:"a"`
	B        string      `json:"b"`
	Distance float64     `json:"distance"`
	Path     []dtw.Coord `json:"path"`
}

// Align aligns two different named series with metric (dtw.Default() when nil).
func Align(series dataset.Series, nameA, nameB string, metric dtw.Metric) (PairAlignment, error) {
	if nameA == nameB {
		return PairAlignment{}, fmt.Errorf("report: %q: %w", nameA, ErrSameSeries)
	}
	a, err := series.Row(nameA)
	if err != nil {
		return PairAlignment{}, err
	}
	b, err := series.Row(nameB)
	if err != nil {
		return PairAlignment{}, err
	}
	if metric == nil {
		metric = dtw.Default()
	}
	al, err := metric.Align(a, b)
	if err != nil {
		return PairAlignment{}, err
	}

	return PairAlignment{A: nameA, B: nameB, Distance: al.Distance, Path: al.Path}, nil
}
