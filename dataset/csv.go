package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultDateLayout parses day/month/year dates such as 06/01/2020.
const DefaultDateLayout = "02/01/2006"

// ReadOptions controls ReadCSV.
type ReadOptions struct {
	// DateColumn names the date column after renaming; empty means the first column.
	DateColumn string
	// DateLayout is a time.Parse layout; empty means DefaultDateLayout.
	DateLayout string
	// Drop lists source columns removed before renaming.
	Drop []string
	// Rename maps source header names to short names.
	Rename map[string]string
	// Thousands is stripped from numeric cells before parsing; 0 means ','.
	Thousands rune
	// Comma is the field delimiter; 0 means ','.
	Comma rune
}

// ReadCSV reads a header row followed by one row per day.
//
// Implementation:
//   - Stage 1: read the header, drop the listed columns, rename the rest.
//   - Stage 2: parse every row; empty cells, "-" and unparsable numbers become NaN.
//   - Stage 3: sort rows by date (stable).
//
// Errors:
//   - ErrDateColumn if the date column is missing or a date does not parse.
//   - ErrNoColumns / ErrNoRows for tables without values.
//   - csv reader errors, wrapped.
func ReadCSV(r io.Reader, opts ReadOptions) (*Frame, error) {
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	thousands := opts.Thousands
	if thousands == 0 {
		thousands = ','
	}

	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true

	// Stage 1: header
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	drop := make(map[string]bool, len(opts.Drop))
	for _, d := range opts.Drop {
		drop[d] = true
	}
	keep := make([]int, 0, len(header))
	names := make([]string, 0, len(header))
	for k, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if drop[h] {
			continue
		}
		if short, ok := opts.Rename[h]; ok {
			h = short
		}
		keep = append(keep, k)
		names = append(names, h)
	}

	dateAt := 0
	if opts.DateColumn != "" {
		dateAt = -1
		for k, n := range names {
			if n == opts.DateColumn {
				dateAt = k
				break
			}
		}
	}
	if dateAt < 0 || len(names) == 0 {
		return nil, fmt.Errorf("dataset: date column %q not found: %w", opts.DateColumn, ErrDateColumn)
	}
	if len(names) < 2 {
		return nil, ErrNoColumns
	}

	f := &Frame{}
	for k, n := range names {
		if k != dateAt {
			f.Columns = append(f.Columns, n)
		}
	}

	// Stage 2: rows
	cr.FieldsPerRecord = len(header)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		raw := strings.TrimSpace(rec[keep[dateAt]])
		day, err := time.Parse(layout, raw)
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: date %q: %w", line, raw, ErrDateColumn)
		}
		row := make([]float64, 0, len(f.Columns))
		for k, src := range keep {
			if k == dateAt {
				continue
			}
			row = append(row, parseNumber(rec[src], thousands))
		}
		f.Dates = append(f.Dates, day)
		f.Values = append(f.Values, row)
	}
	if len(f.Values) == 0 {
		return nil, ErrNoRows
	}

	// Stage 3: chronological order
	idx := make([]int, len(f.Dates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return f.Dates[idx[a]].Before(f.Dates[idx[b]]) })
	dates := make([]time.Time, len(idx))
	values := make([][]float64, len(idx))
	for to, from := range idx {
		dates[to] = f.Dates[from]
		values[to] = f.Values[from]
	}
	f.Dates, f.Values = dates, values

	return f, nil
}

// parseNumber reads a price cell; anything unusable is NaN.
func parseNumber(cell string, thousands rune) float64 {
	s := strings.TrimSpace(cell)
	if s == "" || s == "-" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, string(thousands), "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return v
}
