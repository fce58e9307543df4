package cli

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/fcmdtw/report"
)

func newSweepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare validity indices across cluster counts",
		Long: `Cluster the series once per cluster count and print one validity row
per run. In text mode the count with the highest MPC is reported.

Examples:
  fcmdtw sweep --data prices.csv
  fcmdtw sweep --data prices.csv --counts 2,3 -f xlsx -o sweep.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSweep(cmd)
		},
	}
	cmd.Flags().IntSliceVar(&a.flags.counts, "counts", nil, "cluster counts to compare (default 2,3,4,5)")
	cmd.Flags().BoolVar(&a.flags.centroids, "centroids", false, "include centroids in JSON output")

	return cmd
}

func (a *app) runSweep(cmd *cobra.Command) error {
	series, weekly, err := a.loadSeries()
	if err != nil {
		return err
	}
	opts, err := a.fcmOptions()
	if err != nil {
		return err
	}

	start := time.Now()
	evals, err := report.Sweep(series, a.params(0), a.cfg.Clustering.Sweep, opts...)
	if err != nil {
		return err
	}
	per := time.Since(start) / time.Duration(len(evals))
	for _, ev := range evals {
		a.rec.ObserveEvaluation(ev, per)
	}

	if err = a.withOutput(cmd, func(w io.Writer) error {
		if err := a.writeEvaluations(w, evals); err != nil {
			return err
		}
		if a.cfg.Output.Format == "text" {
			best := bestByMPC(evals)
			fmt.Fprintf(w, "highest MPC: %d clusters (%.4f)\n", best.Params.Clusters, best.Validity.MPC)
		}
		return nil
	}); err != nil {
		return err
	}
	if root := a.cfg.Output.Charts; root != "" {
		for _, ev := range evals {
			if err = a.saveCharts(clusterDir(root, ev.Params.Clusters), series, weekly, ev); err != nil {
				return err
			}
		}
	}

	return a.flushMetrics()
}

// bestByMPC returns the first evaluation with the highest finite MPC.
func bestByMPC(evals []*report.Evaluation) *report.Evaluation {
	best := evals[0]
	for _, ev := range evals[1:] {
		if !math.IsNaN(ev.Validity.MPC) && (math.IsNaN(best.Validity.MPC) || ev.Validity.MPC > best.Validity.MPC) {
			best = ev
		}
	}

	return best
}
