// Package dataset turns a daily commodity price table into the n×t series
// matrix consumed by the clustering engine.
//
// Pipeline:
//
//	ReadCSV → Frame.Weekly → Frame.Interpolate → Frame.ZNormalize → Frame.Series
//
// A Frame keeps one row per observation (a day, later a week) and one
// column per commodity; missing values are NaN.
package dataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/fcmdtw/matrix"
)

// Sentinel errors for the data pipeline.
var (
	// ErrNoColumns is returned when a table has no value columns left.
	ErrNoColumns = errors.New("dataset: no value columns")

	// ErrNoRows is returned when a table (or a weekly aggregation) is empty.
	ErrNoRows = errors.New("dataset: no rows")

	// ErrDateColumn is returned when the date column is missing or unparsable.
	ErrDateColumn = errors.New("dataset: bad date column")

	// ErrEmptyColumn is returned when a column has no usable value at all.
	ErrEmptyColumn = errors.New("dataset: column has no values")

	// ErrUnknownSeries is returned when a series name is not in the set.
	ErrUnknownSeries = errors.New("dataset: unknown series")

	// ErrShape is returned when names and rows disagree.
	ErrShape = errors.New("dataset: names and rows disagree")
)

// Frame is a rectangular table of observations.
// Values[r][k] belongs to row r (Dates[r] or Weeks[r]) and column Columns[k].
type Frame struct {
	Columns []string
	// Dates is set for daily frames produced by ReadCSV.
	Dates []time.Time
	// Weeks is set for weekly frames produced by Weekly (1-based week numbers).
	Weeks  []int
	Values [][]float64
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Values) }

// Column returns a copy of column name.
func (f *Frame) Column(name string) ([]float64, error) {
	for k, c := range f.Columns {
		if c == name {
			out := make([]float64, len(f.Values))
			for r, row := range f.Values {
				out[r] = row[k]
			}
			return out, nil
		}
	}

	return nil, fmt.Errorf("dataset: column %q: %w", name, ErrUnknownSeries)
}

// clone returns a deep copy sharing nothing with f.
func (f *Frame) clone() *Frame {
	out := &Frame{
		Columns: append([]string(nil), f.Columns...),
		Dates:   append([]time.Time(nil), f.Dates...),
		Weeks:   append([]int(nil), f.Weeks...),
		Values:  make([][]float64, len(f.Values)),
	}
	for r, row := range f.Values {
		out.Values[r] = append([]float64(nil), row...)
	}

	return out
}

// Series is the engine input: one named row per time series.
type Series struct {
	Names []string
	Data  *matrix.Dense
}

// NewSeries pairs names with equal-length rows.
func NewSeries(names []string, rows [][]float64) (Series, error) {
	if len(names) != len(rows) {
		return Series{}, fmt.Errorf("dataset: %d names for %d rows: %w", len(names), len(rows), ErrShape)
	}
	data, err := matrix.NewDenseFrom(rows)
	if err != nil {
		return Series{}, fmt.Errorf("dataset: %w", err)
	}

	return Series{Names: append([]string(nil), names...), Data: data}, nil
}

// Index returns the row of name.
func (s Series) Index(name string) (int, error) {
	for i, n := range s.Names {
		if n == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("dataset: series %q: %w", name, ErrUnknownSeries)
}

// Row returns the values of series name. The slice aliases s.Data.
func (s Series) Row(name string) ([]float64, error) {
	i, err := s.Index(name)
	if err != nil {
		return nil, err
	}

	return s.Data.RowView(i)
}
