package fcm

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/matrix"
)

// Epsilon is added to every distance in the membership update so a series
// sitting exactly on a centroid does not divide by zero.
const Epsilon = 1e-6

// Sentinel errors for clustering runs.
var (
	// ErrInvalidParameter is returned before any computation when the
	// arguments of Run (or one of its building blocks) are unusable.
	ErrInvalidParameter = errors.New("fcm: invalid parameter")

	// ErrObserverAbort wraps the error returned by an observer hook.
	ErrObserverAbort = errors.New("fcm: aborted by observer")
)

// invalidf wraps ErrInvalidParameter with the offending field.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("fcm: %s: %w", fmt.Sprintf(format, args...), ErrInvalidParameter)
}

// Status is the terminal state of the fixed-point loop.
type Status int

const (
	// Running is the state while iterations are in progress.
	Running Status = iota
	// Converged means |Jm - Jm_prev| dropped below the tolerance.
	Converged
	// MaxIterReached means the iteration budget ran out first. It is a
	// normal outcome, not an error.
	MaxIterReached
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case MaxIterReached:
		return "max-iter-reached"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the last (centroids, U) pair of a run plus loop bookkeeping.
type Result struct {
	// Centroids holds c sequences of length t.
	Centroids [][]float64
	// U is the c×n membership matrix; columns sum to 1.
	U *matrix.Dense
	// Objective is Jm of the final iteration.
	Objective float64
	// Iterations counts completed loop iterations (1..maxIter).
	Iterations int
	// Status is Converged or MaxIterReached.
	Status Status
}

// Iteration is the snapshot handed to an observer after every loop pass.
// U and Centroids are owned by the run: observers must not retain or mutate them.
type Iteration struct {
	Index     int // 1-based
	Objective float64
	Delta     float64 // |Jm - Jm_prev|, +Inf on the first pass
	U         *matrix.Dense
	Centroids [][]float64
}

// Options holds the tunables of Run. Use DefaultOptions and Option functions.
type Options struct {
	// Rand drives the membership initialisation.
	Rand *rand.Rand

	// Metric measures series→centroid distances in the membership update.
	Metric dtw.Metric

	// ObjectiveMetric measures distances for Jm.
	ObjectiveMetric dtw.Metric

	// Workers bounds the goroutines computing a distance table; ≤1 is sequential.
	Workers int

	// Logger receives iteration progress (debug), the run summary (info) and
	// degenerate clusters (warn).
	Logger zerolog.Logger

	// OnIteration is called after each loop pass. Returning an error stops
	// the run with ErrObserverAbort.
	OnIteration func(it Iteration) error
}

// Option configures Run via functional arguments.
type Option func(*Options)

// DefaultOptions returns an unseeded random source, the pruned DTW measure
// for memberships, the unpruned one for the objective, sequential distance
// tables, a disabled logger and a no-op observer.
func DefaultOptions() Options {
	return Options{
		Rand:            rand.New(rand.NewSource(time.Now().UnixNano())),
		Metric:          dtw.Pruned(),
		ObjectiveMetric: dtw.Default(),
		Workers:         1,
		Logger:          zerolog.Nop(),
		OnIteration:     func(Iteration) error { return nil },
	}
}

// WithSeed makes the initial membership matrix reproducible.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Rand = rand.New(rand.NewSource(seed))
	}
}

// WithRand injects a caller-owned random source. A nil source is ignored.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		if r != nil {
			o.Rand = r
		}
	}
}

// WithMetric replaces the membership-update distance.
func WithMetric(m dtw.Metric) Option {
	return func(o *Options) {
		if m != nil {
			o.Metric = m
		}
	}
}

// WithObjectiveMetric replaces the distance used for Jm.
func WithObjectiveMetric(m dtw.Metric) Option {
	return func(o *Options) {
		if m != nil {
			o.ObjectiveMetric = m
		}
	}
}

// WithWorkers computes distance tables on up to k goroutines.
// Results are identical to the sequential run.
func WithWorkers(k int) Option {
	return func(o *Options) {
		o.Workers = k
	}
}

// WithLogger sets the run logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithObserver registers a per-iteration hook.
func WithObserver(fn func(it Iteration) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnIteration = fn
		}
	}
}
