package fcm

import (
	"math/rand"

	"github.com/katalvlaran/fcmdtw/matrix"
)

// InitMembership draws a c×n matrix of independent uniform [0,1) values and
// normalises every column to sum to 1.
//
// Errors:
//   - ErrInvalidParameter if n < 1, c < 2 or rng is nil.
func InitMembership(n, c int, rng *rand.Rand) (*matrix.Dense, error) {
	if n < 1 {
		return nil, invalidf("n=%d, need at least one series", n)
	}
	if c < 2 {
		return nil, invalidf("c=%d, need at least 2 clusters", c)
	}
	if rng == nil {
		return nil, invalidf("nil random source")
	}

	raw, err := matrix.NewDense(c, n)
	if err != nil {
		return nil, err
	}
	var j, i int
	for j = 0; j < c; j++ {
		row, _ := raw.RowView(j)
		for i = range row {
			row[i] = rng.Float64()
		}
	}
	u, _, err := matrix.NormalizeColumnsL1(raw)

	return u, err
}
