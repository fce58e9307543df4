package dtw_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/fcmdtw/dtw"
)

// benchmarkDTW is a helper that runs DTW on sequences of lengths n and m using opts.
// It resets the timer before entering the loop and fails on unexpected errors.
func benchmarkDTW(b *testing.B, n, m int, opts dtw.Options) {
	// Two phase-shifted sines: similar shape, non-trivial warping.
	a := make([]float64, n)
	bSeq := make([]float64, m)
	for i := 0; i < n; i++ {
		a[i] = math.Sin(float64(i) / 10)
	}
	for j := 0; j < m; j++ {
		bSeq[j] = math.Sin(float64(j)/10 + 0.7)
	}

	b.ResetTimer() // ignore setup time
	for i := 0; i < b.N; i++ {
		_, _, err := dtw.DTW(a, bSeq, &opts)
		if err != nil {
			b.Fatalf("DTW failed: %v", err)
		}
	}
}

// BenchmarkDTW_FullMatrixWeekly benchmarks FullMatrix mode on ~5 years of weekly points.
func BenchmarkDTW_FullMatrixWeekly(b *testing.B) {
	opts := dtw.DefaultOptions()
	opts.MemoryMode = dtw.FullMatrix
	benchmarkDTW(b, 250, 250, opts)
}

// BenchmarkDTW_TwoRowsWeekly benchmarks the distance-only default.
func BenchmarkDTW_TwoRowsWeekly(b *testing.B) {
	benchmarkDTW(b, 250, 250, dtw.DefaultOptions())
}

// BenchmarkDTW_NoMemoryWeekly benchmarks the single-row mode.
func BenchmarkDTW_NoMemoryWeekly(b *testing.B) {
	opts := dtw.DefaultOptions()
	opts.MemoryMode = dtw.NoMemory
	benchmarkDTW(b, 250, 250, opts)
}

// BenchmarkDTW_PrunedWeekly benchmarks early abandon as used by membership updates.
func BenchmarkDTW_PrunedWeekly(b *testing.B) {
	opts := dtw.DefaultOptions()
	opts.Prune = true
	benchmarkDTW(b, 250, 250, opts)
}

// BenchmarkDTW_WindowConstraint benchmarks a Sakoe–Chiba band of 10.
func BenchmarkDTW_WindowConstraint(b *testing.B) {
	opts := dtw.DefaultOptions()
	opts.Window = 10
	benchmarkDTW(b, 250, 250, opts)
}
