package dataset

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/katalvlaran/fcmdtw/matrix"
)

// Weekly aggregates a daily frame into numbered weeks.
//
// Weeks are Monday-based and counted from the week containing anchor:
// days from anchor to the following Sunday form week 1, the next Monday
// starts week 2, and so on. Rows before anchor and weekend rows are skipped.
// Each cell is the mean of the strictly positive, finite values of its
// week; a week without any gives NaN. Weeks with no rows at all are absent.
//
// Errors:
//   - ErrDateColumn if f carries no dates.
//   - ErrNoRows if no row falls on a weekday on or after anchor.
func (f *Frame) Weekly(anchor time.Time) (*Frame, error) {
	if len(f.Dates) != len(f.Values) || len(f.Dates) == 0 {
		return nil, fmt.Errorf("dataset: weekly needs a daily frame: %w", ErrDateColumn)
	}
	anchor = truncateDay(anchor)
	// Monday on or before the anchor.
	start := anchor.AddDate(0, 0, -((int(anchor.Weekday()) + 6) % 7))

	type acc struct {
		sum []float64
		cnt []int
	}
	k := len(f.Columns)
	weeks := make(map[int]*acc)
	for r, day := range f.Dates {
		day = truncateDay(day)
		if day.Before(anchor) {
			continue
		}
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		w := int(day.Sub(start).Hours()/24)/7 + 1
		a, ok := weeks[w]
		if !ok {
			a = &acc{sum: make([]float64, k), cnt: make([]int, k)}
			weeks[w] = a
		}
		for c, v := range f.Values[r] {
			if v > 0 && !math.IsInf(v, 1) {
				a.sum[c] += v
				a.cnt[c]++
			}
		}
	}
	if len(weeks) == 0 {
		return nil, ErrNoRows
	}

	order := make([]int, 0, len(weeks))
	for w := range weeks {
		order = append(order, w)
	}
	sort.Ints(order)

	out := &Frame{Columns: append([]string(nil), f.Columns...), Weeks: order}
	for _, w := range order {
		a := weeks[w]
		row := make([]float64, k)
		for c := range row {
			row[c] = math.NaN()
			if a.cnt[c] > 0 {
				row[c] = a.sum[c] / float64(a.cnt[c])
			}
		}
		out.Values = append(out.Values, row)
	}

	return out, nil
}

// Interpolate fills NaN cells column by column: interior gaps linearly by
// row position, trailing gaps with the last value, leading gaps with the
// first value. The receiver is left unchanged.
//
// Errors:
//   - ErrEmptyColumn naming the first column without any value.
func (f *Frame) Interpolate() (*Frame, error) {
	out := f.clone()
	n := len(out.Values)
	var r, c int
	for c = range out.Columns {
		prev := -1
		for r = 0; r < n; r++ {
			v := out.Values[r][c]
			if math.IsNaN(v) {
				continue
			}
			switch {
			case prev < 0:
				for g := 0; g < r; g++ {
					out.Values[g][c] = v
				}
			case r-prev > 1:
				lo := out.Values[prev][c]
				span := float64(r - prev)
				for g := prev + 1; g < r; g++ {
					out.Values[g][c] = lo + (v-lo)*float64(g-prev)/span
				}
			}
			prev = r
		}
		if prev < 0 {
			return nil, fmt.Errorf("dataset: column %q: %w", out.Columns[c], ErrEmptyColumn)
		}
		for g := prev + 1; g < n; g++ {
			out.Values[g][c] = out.Values[prev][c]
		}
	}

	return out, nil
}

// ZNormalize standardises every column with its mean and population
// standard deviation; constant columns become zeros.
func (f *Frame) ZNormalize() (*Frame, error) {
	m, err := matrix.NewDenseFrom(f.Values)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	z, _, _, err := matrix.ZScoreColumns(m)
	if err != nil {
		return nil, fmt.Errorf("dataset: z-normalise: %w", err)
	}
	out := f.clone()
	out.Values = z.ToRows()

	return out, nil
}

// Series transposes the frame so every column becomes one named series.
func (f *Frame) Series() (Series, error) {
	m, err := matrix.NewDenseFrom(f.Values)
	if err != nil {
		return Series{}, fmt.Errorf("dataset: %w", err)
	}
	t, err := matrix.Transpose(m)
	if err != nil {
		return Series{}, err
	}

	return Series{Names: append([]string(nil), f.Columns...), Data: t}, nil
}

// Prepare runs the whole pipeline on a daily CSV table and returns the
// normalised series together with the gap-filled weekly prices.
func Prepare(r io.Reader, opts ReadOptions, anchor time.Time) (Series, *Frame, error) {
	daily, err := ReadCSV(r, opts)
	if err != nil {
		return Series{}, nil, err
	}
	weekly, err := daily.Weekly(anchor)
	if err != nil {
		return Series{}, nil, err
	}
	filled, err := weekly.Interpolate()
	if err != nil {
		return Series{}, nil, err
	}
	norm, err := filled.ZNormalize()
	if err != nil {
		return Series{}, nil, err
	}
	s, err := norm.Series()
	if err != nil {
		return Series{}, nil, err
	}

	return s, filled, nil
}

// truncateDay drops the clock part while keeping the location.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
