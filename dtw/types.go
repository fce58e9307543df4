package dtw

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by DTW and Measure.
var (
	// ErrEmptyInput indicates one or both input sequences are empty.
	ErrEmptyInput = errors.New("dtw: input sequences must be non-empty")

	// ErrBadInput indicates an invalid option value (Window < -1, negative
	// or NaN SlopePenalty, unknown MemoryMode or Cost, Prune with ReturnMatrix).
	ErrBadInput = errors.New("dtw: invalid options")

	// ErrPathNeedsMatrix indicates that path or matrix recovery was requested
	// without MemoryMode=FullMatrix.
	ErrPathNeedsMatrix = errors.New("dtw: ReturnPath/ReturnMatrix requires MemoryMode=FullMatrix")
)

// MemoryMode controls how DTW stores its DP matrix.
//
//   - FullMatrix — keep the entire (n+1)x(m+1) matrix in memory.
//     Allows distance + full backtrace for the optimal warping path.
//     Memory: O(n·m).
//
//   - TwoRows — only keep two rows (current and previous).
//     Memory O(m), cannot recover the path.
//
//   - NoMemory — a single row plus one carried diagonal value.
//     Memory O(m), cannot recover the path.
type MemoryMode int

const (
	// FullMatrix mode: store all rows, support path recovery, uses O(N·M) memory.
	FullMatrix MemoryMode = iota

	// TwoRows mode: keep only two rows, no path recovery.
	TwoRows

	// NoMemory mode: keep one row, no path recovery.
	NoMemory
)

// String implements fmt.Stringer.
func (m MemoryMode) String() string {
	switch m {
	case FullMatrix:
		return "full"
	case TwoRows:
		return "two-rows"
	case NoMemory:
		return "no-memory"
	default:
		return fmt.Sprintf("MemoryMode(%d)", int(m))
	}
}

// Cost selects the local (pointwise) cost of aligning a[i] with b[j].
type Cost int

const (
	// SquaredDiff accumulates (a[i]-b[j])² along the path; the reported
	// distance is the square root of the accumulated value.
	SquaredDiff Cost = iota

	// AbsDiff accumulates |a[i]-b[j]|; the reported distance is the sum.
	AbsDiff
)

// String implements fmt.Stringer.
func (c Cost) String() string {
	switch c {
	case SquaredDiff:
		return "squared"
	case AbsDiff:
		return "absolute"
	default:
		return fmt.Sprintf("Cost(%d)", int(c))
	}
}

// ParseCost maps "squared" / "absolute" to a Cost.
func ParseCost(s string) (Cost, error) {
	switch s {
	case "squared", "":
		return SquaredDiff, nil
	case "absolute":
		return AbsDiff, nil
	default:
		return 0, fmt.Errorf("dtw: unknown cost %q: %w", s, ErrBadInput)
	}
}

// Options configures Dynamic Time Warping.
//
// Fields:
//   - Window       — maximum deviation |i-j| allowed (Sakoe–Chiba band).
//     -1 means no constraint, 0 means diagonal only.
//   - SlopePenalty — non-negative cost added for every insertion/deletion step.
//   - Cost         — local cost, SquaredDiff (default) or AbsDiff.
//   - ReturnPath   — if true, DTW will backtrack and return the optimal warping path.
//     Requires MemoryMode=FullMatrix.
//   - ReturnMatrix — if true, Align also returns the cumulative-cost matrix.
//     Requires MemoryMode=FullMatrix and Prune=false.
//   - MemoryMode   — FullMatrix, TwoRows or NoMemory storage.
//   - Prune        — abandon cells whose cost exceeds the cost of a feasible
//     diagonal path. Same distance, less work on dissimilar pairs.
type Options struct {
	Window       int
	SlopePenalty float64
	Cost         Cost
	ReturnPath   bool
	ReturnMatrix bool
	MemoryMode   MemoryMode
	Prune        bool
}

// DefaultOptions returns the configuration the clustering engine uses for
// distance-only queries: no window, no penalty, squared cost, two rows.
func DefaultOptions() Options {
	return Options{
		Window:       -1,
		SlopePenalty: 0,
		Cost:         SquaredDiff,
		ReturnPath:   false,
		ReturnMatrix: false,
		MemoryMode:   TwoRows,
		Prune:        false,
	}
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if o.Window < -1 {
		return fmt.Errorf("dtw: window %d: %w", o.Window, ErrBadInput)
	}
	if o.SlopePenalty < 0 || math.IsNaN(o.SlopePenalty) || math.IsInf(o.SlopePenalty, 0) {
		return fmt.Errorf("dtw: slope penalty %g: %w", o.SlopePenalty, ErrBadInput)
	}
	if o.Cost != SquaredDiff && o.Cost != AbsDiff {
		return fmt.Errorf("dtw: %v: %w", o.Cost, ErrBadInput)
	}
	if o.MemoryMode < FullMatrix || o.MemoryMode > NoMemory {
		return fmt.Errorf("dtw: %v: %w", o.MemoryMode, ErrBadInput)
	}
	if (o.ReturnPath || o.ReturnMatrix) && o.MemoryMode != FullMatrix {
		return ErrPathNeedsMatrix
	}
	if o.Prune && o.ReturnMatrix {
		return fmt.Errorf("dtw: pruned matrix is incomplete: %w", ErrBadInput)
	}

	return nil
}

// Coord is one step of a warping path: a[I] is aligned with b[J].
type Coord struct {
	I, J int
}

// Alignment is the expensive query result: distance, optimal path and the
// (len(a)+1)x(len(b)+1) cumulative-cost matrix in distance units, so that
// Matrix[len(a)][len(b)] == Distance. Row 0 and column 0 are the DP border
// (0 at the origin, +Inf elsewhere).
type Alignment struct {
	Distance float64
	Path     []Coord
	Matrix   [][]float64
}

// Metric is the narrow distance-oracle contract consumed by the clustering
// loop and the validity indices. Alternate step patterns or constraints can
// be substituted by implementing it.
type Metric interface {
	// Distance returns the cheap distance-only result.
	Distance(a, b []float64) (float64, error)

	// Align returns distance, optimal path and cumulative-cost matrix.
	Align(a, b []float64) (Alignment, error)
}
