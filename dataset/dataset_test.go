package dataset_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fcmdtw/dataset"
)

const dailyCSV = `Komoditas (Rp),Beras,Beras Kualitas Medium I,Gula Pasir,Gula Pasir Lokal
13/01/2020,1,-,1,"16,000"
01/01/2020,1,"10,000",1,"12,000"
02/01/2020,1,"12,000",1,-
03/01/2020,1,"11,000",1,"14,000"
04/01/2020,1,"99,000",1,"99,000"
06/01/2020,1,"20,000",1,0
07/01/2020,1,"22,000",1,
14/01/2020,1,-,1,-
`

func readDaily(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.ReadCSV(strings.NewReader(dailyCSV), dataset.CommodityOptions())
	require.NoError(t, err)
	return f
}

func TestReadCSV_DropsRenamesAndSorts(t *testing.T) {
	t.Parallel()

	f := readDaily(t)
	assert.Equal(t, []string{"Beras", "Gula Pasir"}, f.Columns)
	require.Equal(t, 8, f.Len())
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), f.Dates[0])
	assert.Equal(t, time.Date(2020, 1, 14, 0, 0, 0, 0, time.UTC), f.Dates[7])
	assert.Equal(t, []float64{10000, 12000}, f.Values[0])

	beras, err := f.Column("Beras")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(beras[6]), "13/01 has no rice price")

	_, err = f.Column("Telur Ayam")
	assert.ErrorIs(t, err, dataset.ErrUnknownSeries)
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	_, err := dataset.ReadCSV(strings.NewReader(""), dataset.ReadOptions{})
	assert.ErrorIs(t, err, dataset.ErrNoRows)

	_, err = dataset.ReadCSV(strings.NewReader("Date,A\n"), dataset.ReadOptions{})
	assert.ErrorIs(t, err, dataset.ErrNoRows)

	_, err = dataset.ReadCSV(strings.NewReader("Date,A\n2020-01-01,3\n"), dataset.ReadOptions{})
	assert.ErrorIs(t, err, dataset.ErrDateColumn)

	_, err = dataset.ReadCSV(strings.NewReader("Date,A\n01/01/2020,3\n"), dataset.ReadOptions{DateColumn: "Tanggal"})
	assert.ErrorIs(t, err, dataset.ErrDateColumn)

	_, err = dataset.ReadCSV(strings.NewReader("Date\n01/01/2020\n"), dataset.ReadOptions{})
	assert.ErrorIs(t, err, dataset.ErrNoColumns)
}

func TestWeekly_BucketsAndPositiveMeans(t *testing.T) {
	t.Parallel()

	w, err := readDaily(t).Weekly(dataset.CommodityAnchor)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, w.Weeks)
	require.Len(t, w.Values, 3)

	// Week 1 is Wed..Fri, the Saturday row is ignored.
	assert.Equal(t, []float64{11000, 13000}, w.Values[0])
	// Zero and missing sugar prices leave week 2 empty.
	assert.Equal(t, 21000.0, w.Values[1][0])
	assert.True(t, math.IsNaN(w.Values[1][1]))
	assert.True(t, math.IsNaN(w.Values[2][0]))
	assert.Equal(t, 16000.0, w.Values[2][1])
}

func TestWeekly_NeedsRowsAfterAnchor(t *testing.T) {
	t.Parallel()

	_, err := readDaily(t).Weekly(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, dataset.ErrNoRows)

	_, err = (&dataset.Frame{Columns: []string{"A"}}).Weekly(dataset.CommodityAnchor)
	assert.ErrorIs(t, err, dataset.ErrDateColumn)
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	f := &dataset.Frame{
		Columns: []string{"lead", "inner", "trail"},
		Weeks:   []int{1, 2, 3, 4, 5},
		Values: [][]float64{
			{nan, 0, 1},
			{nan, nan, 2},
			{3, nan, nan},
			{4, nan, nan},
			{5, 6, nan},
		},
	}
	out, err := f.Interpolate()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{3, 0, 1},
		{3, 1.5, 2},
		{3, 3, 2},
		{4, 4.5, 2},
		{5, 6, 2},
	}, out.Values)
	assert.True(t, math.IsNaN(f.Values[0][0]), "receiver unchanged")

	_, err = (&dataset.Frame{Columns: []string{"x"}, Values: [][]float64{{nan}, {nan}}}).Interpolate()
	assert.ErrorIs(t, err, dataset.ErrEmptyColumn)
}

func TestZNormalizeAndSeries(t *testing.T) {
	t.Parallel()

	f := &dataset.Frame{
		Columns: []string{"a", "flat"},
		Weeks:   []int{1, 2, 3},
		Values:  [][]float64{{1, 7}, {2, 7}, {3, 7}},
	}
	z, err := f.ZNormalize()
	require.NoError(t, err)
	s, err := z.Series()
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "flat"}, s.Names)
	assert.Equal(t, 2, s.Data.Rows())
	assert.Equal(t, 3, s.Data.Cols())

	a, err := s.Row("a")
	require.NoError(t, err)
	sd := math.Sqrt(2.0 / 3.0)
	assert.InDeltaSlice(t, []float64{-1 / sd, 0, 1 / sd}, a, 1e-12)
	flat, _ := s.Row("flat")
	assert.Equal(t, []float64{0, 0, 0}, flat)

	_, err = s.Row("missing")
	assert.ErrorIs(t, err, dataset.ErrUnknownSeries)
}

func TestPrepare_EndToEnd(t *testing.T) {
	t.Parallel()

	s, weekly, err := dataset.Prepare(strings.NewReader(dailyCSV), dataset.CommodityOptions(), dataset.CommodityAnchor)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{11000, 13000}, {21000, 14500}, {21000, 16000}}, weekly.Values)
	assert.Equal(t, []string{"Beras", "Gula Pasir"}, s.Names)

	for i := range s.Names {
		row, _ := s.Data.RowView(i)
		var sum float64
		for _, v := range row {
			sum += v
		}
		assert.InDelta(t, 0, sum, 1e-12)
	}
}

func TestNewSeries(t *testing.T) {
	t.Parallel()

	_, err := dataset.NewSeries([]string{"a"}, [][]float64{{1}, {2}})
	assert.ErrorIs(t, err, dataset.ErrShape)

	s, err := dataset.NewSeries([]string{"a", "b"}, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	i, err := s.Index("b")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}
