// Package metrics counts clustering work with Prometheus collectors and
// exports them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/fcm"
	"github.com/katalvlaran/fcmdtw/report"
)

const namespace = "fcmdtw"

// Recorder owns a private registry so several runs in one process do not
// collide on the default one.
type Recorder struct {
	reg        *prometheus.Registry
	runs       *prometheus.CounterVec
	iterations prometheus.Counter
	dtwCalls   *prometheus.CounterVec
	objective  prometheus.Gauge
	duration   prometheus.Histogram
	validity   *prometheus.GaugeVec
}

// New registers every collector on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Clustering runs by terminal status.",
		}, []string{"status"}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Completed fixed-point iterations.",
		}),
		dtwCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dtw_distance_total",
			Help:      "DTW distance evaluations by purpose.",
		}, []string{"purpose"}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objective",
			Help:      "Objective Jm of the latest iteration.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one evaluation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		validity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "validity",
			Help:      "Validity index of the latest evaluation per cluster count.",
		}, []string{"index", "clusters"}),
	}
	r.reg.MustRegister(r.runs, r.iterations, r.dtwCalls, r.objective, r.duration, r.validity)

	return r
}

// Registry exposes the collectors, e.g. for testutil or an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Metric wraps m so every Distance and Align call increments the counter
// labelled purpose. The wrapper is safe for concurrent use when m is.
func (r *Recorder) Metric(purpose string, m dtw.Metric) dtw.Metric {
	return countingMetric{inner: m, calls: r.dtwCalls.WithLabelValues(purpose)}
}

type countingMetric struct {
	inner dtw.Metric
	calls prometheus.Counter
}

func (c countingMetric) Distance(a, b []float64) (float64, error) {
	c.calls.Inc()
	return c.inner.Distance(a, b)
}

func (c countingMetric) Align(a, b []float64) (dtw.Alignment, error) {
	c.calls.Inc()
	return c.inner.Align(a, b)
}

// Observer returns an fcm observer that records iteration count and
// objective. It never aborts the run.
func (r *Recorder) Observer() func(fcm.Iteration) error {
	return func(it fcm.Iteration) error {
		r.iterations.Inc()
		r.objective.Set(it.Objective)
		return nil
	}
}

// ObserveEvaluation records the outcome of one report.Evaluate call.
func (r *Recorder) ObserveEvaluation(ev *report.Evaluation, took time.Duration) {
	r.runs.WithLabelValues(ev.Status).Inc()
	r.duration.Observe(took.Seconds())
	c := strconv.Itoa(ev.Params.Clusters)
	r.validity.WithLabelValues("mpc", c).Set(ev.Validity.MPC)
	r.validity.WithLabelValues("pe", c).Set(ev.Validity.PE)
	r.validity.WithLabelValues("xb", c).Set(ev.Validity.XB)
}

// WriteTextfile writes the current values to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	return nil
}
