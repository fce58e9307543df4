package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/fcmdtw/chart"
	"github.com/katalvlaran/fcmdtw/report"
)

func newAlignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "align <series-a> <series-b>",
		Short: "Show the DTW alignment of two series",
		Long: `Align two normalised series with the configured DTW settings and print
the distance and warping-path length. With --charts the alignment is drawn
with dotted links between matched points.

Examples:
  fcmdtw align --data prices.csv "Cabai Merah" "Cabai Rawit"
  fcmdtw align --data prices.csv Beras "Gula Pasir" -f json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAlign(cmd, args[0], args[1])
		},
	}
}

func (a *app) runAlign(cmd *cobra.Command, nameA, nameB string) error {
	if a.cfg.Output.Format == "xlsx" {
		return errors.New("cli: align has no xlsx output")
	}
	series, _, err := a.loadSeries()
	if err != nil {
		return err
	}
	_, objective, err := a.cfg.Metrics()
	if err != nil {
		return err
	}
	pa, err := report.Align(series, nameA, nameB, a.rec.Metric("alignment", objective))
	if err != nil {
		return err
	}

	if err = a.withOutput(cmd, func(w io.Writer) error {
		switch a.cfg.Output.Format {
		case "json":
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(pa)
		default:
			report.WriteAlignment(w, pa)
			return nil
		}
	}); err != nil {
		return err
	}
	if dir := a.cfg.Output.Charts; dir != "" {
		p, err := chart.Alignment(series, pa)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("align-%s-%s.png", slug(nameA), slug(nameB)))
		if err = chart.SavePNG(p, path); err != nil {
			return err
		}
		a.log.Info().Str("file", path).Msg("alignment chart written")
	}

	return a.flushMetrics()
}

// slug lower-cases name and replaces anything but letters and digits with '-'.
func slug(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, name)
}
