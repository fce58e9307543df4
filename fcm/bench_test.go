package fcm_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/fcmdtw/fcm"
	"github.com/katalvlaran/fcmdtw/matrix"
)

// benchData builds ten phase-shifted sines of 250 weekly points, the size
// of the commodity dataset.
func benchData(b *testing.B) *matrix.Dense {
	b.Helper()
	rows := make([][]float64, 10)
	for i := range rows {
		rows[i] = make([]float64, 250)
		for k := range rows[i] {
			rows[i][k] = math.Sin(float64(k)/20 + float64(i%3))
		}
	}
	data, err := matrix.NewDenseFrom(rows)
	if err != nil {
		b.Fatal(err)
	}
	return data
}

func BenchmarkRun_Sequential(b *testing.B) {
	data := benchData(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fcm.Run(data, 3, 1.5, 1e-4, 5, fcm.WithSeed(1)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_Workers4(b *testing.B) {
	data := benchData(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fcm.Run(data, 3, 1.5, 1e-4, 5, fcm.WithSeed(1), fcm.WithWorkers(4)); err != nil {
			b.Fatal(err)
		}
	}
}
