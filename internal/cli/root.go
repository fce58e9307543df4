// Package cli provides the fcmdtw command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/fcmdtw/dataset"
	"github.com/katalvlaran/fcmdtw/fcm"
	"github.com/katalvlaran/fcmdtw/internal/config"
	"github.com/katalvlaran/fcmdtw/internal/metrics"
)

// Version is set at build time.
var Version = "0.1.0"

// errNoData is returned when neither config nor flags name an input table.
var errNoData = errors.New("cli: no input table, set --data or data.path")

// app carries the state shared by all commands of one invocation.
type app struct {
	cfg config.Config
	log zerolog.Logger
	rec *metrics.Recorder

	configPath string
	flags      overrides
}

// overrides are flag values applied on top of the loaded configuration
// when the flag was set explicitly.
type overrides struct {
	data      string
	logLevel  string
	logFormat string
	format    string
	out       string
	charts    string
	metrics   string
	seed      int64
	workers   int
	clusters  int
	counts    []int
	fuzziness float64
	tol       float64
	maxIter   int
	centroids bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "fcmdtw",
		Short: "Fuzzy c-means clustering of time series under dynamic time warping",
		Long: `fcmdtw groups weekly price series with fuzzy c-means, measuring the
distance between series with dynamic time warping, and scores each
partition with the MPC, PE and Xie-Beni validity indices.

Examples:
  fcmdtw cluster --data prices.csv -c 3 --seed 42
  fcmdtw sweep --data prices.csv --counts 2,3,4,5 -f xlsx -o sweep.xlsx
  fcmdtw align --data prices.csv "Cabai Merah" "Cabai Rawit" --charts out/`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.flags.data, "data", "", "daily price table (CSV)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "trace, debug, info, warn, error or disabled")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "console or json")
	pf.StringVarP(&a.flags.format, "format", "f", "", "output format: text, json or xlsx")
	pf.StringVarP(&a.flags.out, "out", "o", "", "output file (stdout when empty)")
	pf.StringVar(&a.flags.charts, "charts", "", "directory for PNG charts")
	pf.StringVar(&a.flags.metrics, "metrics", "", "Prometheus textfile to write on exit")
	pf.Int64Var(&a.flags.seed, "seed", config.Unseeded, "random seed, -1 for time-based")
	pf.IntVar(&a.flags.workers, "workers", 1, "goroutines per distance table")
	pf.IntVar(&a.flags.maxIter, "max-iter", 100, "iteration budget")
	pf.Float64VarP(&a.flags.fuzziness, "fuzziness", "m", 1.5, "fuzziness exponent m > 1")
	pf.Float64Var(&a.flags.tol, "tol", 1e-3, "objective change that stops the loop")

	root.AddCommand(newClusterCmd(a), newSweepCmd(a), newAlignCmd(a), newVersionCmd())

	return root
}

// Execute runs the command tree on os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads configuration, applies explicit flags and builds the logger
// and metric recorder.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = a.apply(cmd, cfg)
	if err = a.cfg.Validate(); err != nil {
		return err
	}
	if a.log, err = newLogger(a.cfg.Logging, cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.rec = metrics.New()

	return nil
}

func (a *app) apply(cmd *cobra.Command, cfg config.Config) config.Config {
	fs := cmd.Flags()
	f := a.flags
	if fs.Changed("data") {
		cfg.Data.Path = f.data
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if fs.Changed("format") {
		cfg.Output.Format = f.format
	}
	if fs.Changed("out") {
		cfg.Output.File = f.out
	}
	if fs.Changed("charts") {
		cfg.Output.Charts = f.charts
	}
	if fs.Changed("metrics") {
		cfg.Output.Metrics = f.metrics
	}
	if fs.Changed("seed") {
		cfg.Clustering.Seed = f.seed
	}
	if fs.Changed("workers") {
		cfg.Clustering.Workers = f.workers
	}
	if fs.Changed("max-iter") {
		cfg.Clustering.MaxIter = f.maxIter
	}
	if fs.Changed("fuzziness") {
		cfg.Clustering.Fuzziness = f.fuzziness
	}
	if fs.Changed("tol") {
		cfg.Clustering.Tolerance = f.tol
	}
	if fs.Changed("clusters") {
		cfg.Clustering.Clusters = f.clusters
	}
	if fs.Changed("counts") {
		cfg.Clustering.Sweep = f.counts
	}
	if fs.Changed("centroids") {
		cfg.Output.Centroids = f.centroids
	}

	return cfg
}

// newLogger builds a zerolog logger on w: human-readable for "console",
// one JSON object per line for "json".
func newLogger(c config.LoggingConfig, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("cli: log level: %w", err)
	}
	out := w
	if c.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// fcmOptions turns the clustering and DTW sections into run options with
// counting metrics and the metrics observer attached.
func (a *app) fcmOptions() ([]fcm.Option, error) {
	membership, objective, err := a.cfg.Metrics()
	if err != nil {
		return nil, err
	}
	opts := []fcm.Option{
		fcm.WithMetric(a.rec.Metric("membership", membership)),
		fcm.WithObjectiveMetric(a.rec.Metric("objective", objective)),
		fcm.WithWorkers(a.cfg.Clustering.Workers),
		fcm.WithLogger(a.log),
		fcm.WithObserver(a.rec.Observer()),
	}
	if a.cfg.Clustering.Seed != config.Unseeded {
		opts = append(opts, fcm.WithSeed(a.cfg.Clustering.Seed))
	}

	return opts, nil
}

// loadSeries runs the dataset pipeline on the configured table.
func (a *app) loadSeries() (dataset.Series, *dataset.Frame, error) {
	path := a.cfg.Data.Path
	if path == "" {
		return dataset.Series{}, nil, errNoData
	}
	anchor, err := a.cfg.AnchorTime()
	if err != nil {
		return dataset.Series{}, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return dataset.Series{}, nil, fmt.Errorf("cli: open data: %w", err)
	}
	defer f.Close()

	series, weekly, err := dataset.Prepare(f, a.cfg.ReadOptions(), anchor)
	if err != nil {
		return dataset.Series{}, nil, fmt.Errorf("cli: %s: %w", path, err)
	}
	a.log.Info().
		Str("path", path).
		Int("series", len(series.Names)).
		Int("weeks", series.Data.Cols()).
		Msg("dataset prepared")

	return series, weekly, nil
}

// withOutput hands fn the configured output file, or stdout.
func (a *app) withOutput(cmd *cobra.Command, fn func(w io.Writer) error) error {
	if a.cfg.Output.File == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(a.cfg.Output.File)
	if err != nil {
		return fmt.Errorf("cli: create output: %w", err)
	}
	if err = fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("cli: close output: %w", err)
	}
	a.log.Info().Str("file", a.cfg.Output.File).Msg("output written")

	return nil
}

// flushMetrics writes the textfile when one is configured.
func (a *app) flushMetrics() error {
	if a.cfg.Output.Metrics == "" {
		return nil
	}
	if err := a.rec.WriteTextfile(a.cfg.Output.Metrics); err != nil {
		return err
	}
	a.log.Debug().Str("file", a.cfg.Output.Metrics).Msg("metrics written")

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fcmdtw %s\n", Version)
		},
	}
}
