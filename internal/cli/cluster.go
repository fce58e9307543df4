package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/fcmdtw/chart"
	"github.com/katalvlaran/fcmdtw/dataset"
	"github.com/katalvlaran/fcmdtw/report"
)

func newClusterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster the series once and print memberships and validity",
		Long: `Run fuzzy c-means with the configured cluster count and print the
validity indices together with every series' membership degrees.

Examples:
  fcmdtw cluster --data prices.csv -c 3
  fcmdtw cluster --data prices.csv -c 4 -f json --centroids
  fcmdtw cluster --data prices.csv --charts out/ --metrics fcmdtw.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCluster(cmd)
		},
	}
	cmd.Flags().IntVarP(&a.flags.clusters, "clusters", "c", 3, "number of clusters")
	cmd.Flags().BoolVar(&a.flags.centroids, "centroids", false, "include centroids in JSON output")

	return cmd
}

func (a *app) params(clusters int) report.Params {
	c := a.cfg.Clustering
	return report.Params{
		Clusters:  clusters,
		Fuzziness: c.Fuzziness,
		Tolerance: c.Tolerance,
		MaxIter:   c.MaxIter,
	}
}

func (a *app) runCluster(cmd *cobra.Command) error {
	series, weekly, err := a.loadSeries()
	if err != nil {
		return err
	}
	opts, err := a.fcmOptions()
	if err != nil {
		return err
	}

	start := time.Now()
	ev, err := report.Evaluate(series, a.params(a.cfg.Clustering.Clusters), opts...)
	if err != nil {
		return err
	}
	a.rec.ObserveEvaluation(ev, time.Since(start))

	if err = a.withOutput(cmd, func(w io.Writer) error {
		return a.writeEvaluations(w, []*report.Evaluation{ev})
	}); err != nil {
		return err
	}
	if dir := a.cfg.Output.Charts; dir != "" {
		if err = a.saveCharts(dir, series, weekly, ev); err != nil {
			return err
		}
	}

	return a.flushMetrics()
}

// writeEvaluations renders in the configured format.
func (a *app) writeEvaluations(w io.Writer, evals []*report.Evaluation) error {
	switch a.cfg.Output.Format {
	case "json":
		return report.WriteJSON(w, evals, a.cfg.Output.Centroids)
	case "xlsx":
		return report.WriteXLSX(w, evals)
	default:
		if len(evals) == 1 {
			report.WriteText(w, evals[0])
			return nil
		}
		report.WriteValidityTable(w, evals)
		return nil
	}
}

// saveCharts writes the weekly price overview and one chart per cluster.
func (a *app) saveCharts(dir string, series dataset.Series, weekly *dataset.Frame, ev *report.Evaluation) error {
	overview, err := chart.Frame(weekly, "Weekly prices", "Price")
	if err != nil {
		return err
	}
	if err = chart.SavePNG(overview, filepath.Join(dir, "prices.png")); err != nil {
		return err
	}
	paths, err := chart.SaveClusters(dir, series, ev)
	if err != nil {
		return err
	}
	a.log.Info().Str("dir", dir).Int("charts", len(paths)+1).Msg("charts written")

	return nil
}

// clusterDir is the chart directory of one sweep member.
func clusterDir(root string, clusters int) string {
	return filepath.Join(root, fmt.Sprintf("c%d", clusters))
}
