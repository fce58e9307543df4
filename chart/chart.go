// Package chart draws PNG line charts of series, clusters and DTW
// alignments with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/fcmdtw/dataset"
	"github.com/katalvlaran/fcmdtw/report"
)

// Default canvas size of every chart.
const (
	Width  = 10 * vg.Inch
	Height = 4 * vg.Inch
)

// MaxConnectors caps the dotted path links drawn by Alignment.
const MaxConnectors = 200

// ErrNothingToDraw is returned for empty inputs.
var ErrNothingToDraw = errors.New("chart: nothing to draw")

// addLine plots ys against 1..len(ys) with the i-th palette colour.
func addLine(p *plot.Plot, name string, xs []float64, ys []float64, i int) error {
	pts := make(plotter.XYs, len(ys))
	for k, y := range ys {
		x := float64(k + 1)
		if xs != nil {
			x = xs[k]
		}
		pts[k] = plotter.XY{X: x, Y: y}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("chart: %s: %w", name, err)
	}
	line.Color = plotutil.Color(i)
	line.Width = vg.Points(1.2)
	p.Add(line)
	p.Legend.Add(name, line)

	return nil
}

// Frame plots every column of a weekly frame against its week number.
func Frame(f *dataset.Frame, title, yLabel string) (*plot.Plot, error) {
	if f == nil || f.Len() == 0 || len(f.Columns) == 0 {
		return nil, ErrNothingToDraw
	}
	var xs []float64
	if len(f.Weeks) == f.Len() {
		xs = make([]float64, len(f.Weeks))
		for r, w := range f.Weeks {
			xs[r] = float64(w)
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Week"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	for k, name := range f.Columns {
		col, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		if err = addLine(p, name, xs, col, k); err != nil {
			return nil, err
		}
	}
	p.Legend.Top = true

	return p, nil
}

// Cluster plots the members of one 1-based cluster of an evaluation.
func Cluster(series dataset.Series, ev *report.Evaluation, cluster int) (*plot.Plot, error) {
	names := ev.Members()[cluster]
	if len(names) == 0 {
		return nil, fmt.Errorf("chart: cluster %d has no members: %w", cluster, ErrNothingToDraw)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Cluster %d", cluster)
	p.X.Label.Text = "Week"
	p.Y.Label.Text = "Value (scaled)"
	p.Add(plotter.NewGrid())
	for k, name := range names {
		row, err := series.Row(name)
		if err != nil {
			return nil, err
		}
		if err = addLine(p, name, nil, row, k); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Alignment plots two series and dotted links along the warping path,
// thinned to at most MaxConnectors links.
func Alignment(series dataset.Series, pa report.PairAlignment) (*plot.Plot, error) {
	a, err := series.Row(pa.A)
	if err != nil {
		return nil, err
	}
	b, err := series.Row(pa.B)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s (DTW %.4f)", pa.A, pa.B, pa.Distance)
	p.X.Label.Text = "Index (week)"
	p.Y.Label.Text = "Value (scaled)"

	stride := len(pa.Path) / MaxConnectors
	if stride < 1 {
		stride = 1
	}
	for k := 0; k < len(pa.Path); k += stride {
		c := pa.Path[k]
		link, err := plotter.NewLine(plotter.XYs{
			{X: float64(c.I), Y: a[c.I]},
			{X: float64(c.J), Y: b[c.J]},
		})
		if err != nil {
			return nil, fmt.Errorf("chart: link %d: %w", k, err)
		}
		link.Color = color.Gray{Y: 160}
		link.Width = vg.Points(0.5)
		link.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(link)
	}

	xs := func(n int) []float64 {
		out := make([]float64, n)
		for k := range out {
			out[k] = float64(k)
		}
		return out
	}
	if err = addLine(p, pa.A, xs(len(a)), a, 0); err != nil {
		return nil, err
	}
	if err = addLine(p, pa.B, xs(len(b)), b, 1); err != nil {
		return nil, err
	}
	p.Legend.Top = true

	return p, nil
}

// WritePNG encodes p as a Width×Height PNG.
func WritePNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if _, err = wt.WriteTo(w); err != nil {
		return fmt.Errorf("chart: %w", err)
	}

	return nil
}

// SavePNG writes p to path, creating parent directories.
func SavePNG(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if err = WritePNG(p, f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// SaveClusters writes cluster-<k>.png for every non-empty cluster into dir
// and returns the written paths in cluster order.
func SaveClusters(dir string, series dataset.Series, ev *report.Evaluation) ([]string, error) {
	groups := ev.Members()
	labels := make([]int, 0, len(groups))
	for k := range groups {
		labels = append(labels, k)
	}
	sort.Ints(labels)

	paths := make([]string, 0, len(labels))
	for _, k := range labels {
		p, err := Cluster(series, ev, k)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, fmt.Sprintf("cluster-%d.png", k))
		if err = SavePNG(p, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}
