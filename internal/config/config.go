// Package config loads the fcmdtw command configuration.
//
// Sources are layered in this order, later ones winning:
//  1. Default()
//  2. an optional YAML file
//  3. FCMDTW_* environment variables
//
// The merged value is validated with struct tags before use. Command-line
// flags are applied by the caller after Load.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fcmdtw/dataset"
	"github.com/katalvlaran/fcmdtw/dtw"
)

// EnvPrefix prefixes every environment override, e.g. FCMDTW_CLUSTERING_MAX_ITER.
// Keys are derived from field names only, so unprefixed variables such as
// PATH or FORMAT are never read.
const EnvPrefix = "FCMDTW"

// AnchorLayout is the layout of Data.Anchor.
const AnchorLayout = "2006-01-02"

// Unseeded is the Seed value that selects a time-based random source.
const Unseeded int64 = -1

// Dataset presets.
const (
	PresetCommodities = "commodities"
	PresetGeneric     = "generic"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete command configuration.
type Config struct {
	Clustering ClusteringConfig `yaml:"clustering"`
	DTW        DTWConfig        `yaml:"dtw"`
	Data       DataConfig       `yaml:"data"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`
}

// ClusteringConfig holds the fuzzy c-means parameters.
type ClusteringConfig struct {
	Clusters  int     `yaml:"clusters" split_words:"true" validate:"min=2"`
	Sweep     []int   `yaml:"sweep" split_words:"true" validate:"dive,min=2"`
	Fuzziness float64 `yaml:"fuzziness" split_words:"true" validate:"gt=1"`
	Tolerance float64 `yaml:"tolerance" split_words:"true" validate:"gte=0"`
	MaxIter   int     `yaml:"max_iter" split_words:"true" validate:"min=1"`
	Seed      int64   `yaml:"seed" split_words:"true" validate:"min=-1"`
	Workers   int     `yaml:"workers" split_words:"true" validate:"min=0"`
}

// DTWConfig configures the distance used by the clustering loop.
type DTWConfig struct {
	Window       int     `yaml:"window" split_words:"true" validate:"min=-1"`
	SlopePenalty float64 `yaml:"slope_penalty" split_words:"true" validate:"gte=0"`
	Cost         string  `yaml:"cost" split_words:"true" validate:"oneof=squared absolute"`
	// Prune enables early abandoning for membership distances.
	Prune bool `yaml:"prune" split_words:"true"`
}

// DataConfig describes the input table.
type DataConfig struct {
	Path       string `yaml:"path" split_words:"true"`
	Preset     string `yaml:"preset" split_words:"true" validate:"oneof=commodities generic"`
	DateColumn string `yaml:"date_column" split_words:"true"`
	DateLayout string `yaml:"date_layout" split_words:"true" validate:"required"`
	Anchor     string `yaml:"anchor" split_words:"true" validate:"datetime=2006-01-02"`
	Thousands  string `yaml:"thousands" split_words:"true" validate:"max=1"`
	Delimiter  string `yaml:"delimiter" split_words:"true" validate:"max=1"`
}

// LoggingConfig selects the zerolog level and encoder.
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=console json"`
}

// OutputConfig selects where results go. Empty paths disable the output,
// except File where empty means stdout.
type OutputConfig struct {
	Format    string `yaml:"format" split_words:"true" validate:"oneof=text json xlsx"`
	File      string `yaml:"file" split_words:"true"`
	Centroids bool   `yaml:"centroids" split_words:"true"`
	Charts    string `yaml:"charts" split_words:"true"`
	Metrics   string `yaml:"metrics" split_words:"true"`
}

// Default returns the settings of the price-clustering dashboard.
func Default() Config {
	return Config{
		Clustering: ClusteringConfig{
			Clusters:  3,
			Sweep:     []int{2, 3, 4, 5},
			Fuzziness: 1.5,
			Tolerance: 1e-3,
			MaxIter:   100,
			Seed:      Unseeded,
			Workers:   1,
		},
		DTW: DTWConfig{
			Window: -1,
			Cost:   dtw.SquaredDiff.String(),
			Prune:  true,
		},
		Data: DataConfig{
			Preset:     PresetCommodities,
			DateLayout: dataset.DefaultDateLayout,
			Anchor:     dataset.CommodityAnchor.Format(AnchorLayout),
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Output:  OutputConfig{Format: "text"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err = yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field tag and reports all failures at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", fe.Namespace(), fe.ActualTag(), fe.Value()))
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// DTWOptions converts the DTW section. Distance-only settings are returned;
// the caller picks the pruning flag per use.
func (c Config) DTWOptions() (dtw.Options, error) {
	cost, err := dtw.ParseCost(c.DTW.Cost)
	if err != nil {
		return dtw.Options{}, err
	}
	o := dtw.DefaultOptions()
	o.Window = c.DTW.Window
	o.SlopePenalty = c.DTW.SlopePenalty
	o.Cost = cost

	return o, o.Validate()
}

// Metrics returns the membership metric and the objective metric.
func (c Config) Metrics() (membership, objective *dtw.Measure, err error) {
	o, err := c.DTWOptions()
	if err != nil {
		return nil, nil, err
	}
	if objective, err = dtw.New(o); err != nil {
		return nil, nil, err
	}
	o.Prune = c.DTW.Prune
	if membership, err = dtw.New(o); err != nil {
		return nil, nil, err
	}

	return membership, objective, nil
}

// AnchorTime parses Data.Anchor as a UTC date.
func (c Config) AnchorTime() (time.Time, error) {
	t, err := time.ParseInLocation(AnchorLayout, c.Data.Anchor, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: anchor %q: %w", c.Data.Anchor, ErrInvalid)
	}

	return t, nil
}

// ReadOptions converts the data section. The commodities preset starts from
// dataset.CommodityOptions; explicit fields override it.
func (c Config) ReadOptions() dataset.ReadOptions {
	var o dataset.ReadOptions
	if c.Data.Preset == PresetCommodities {
		o = dataset.CommodityOptions()
	}
	if c.Data.DateColumn != "" {
		o.DateColumn = c.Data.DateColumn
	}
	if c.Data.DateLayout != "" {
		o.DateLayout = c.Data.DateLayout
	}
	if r, _ := utf8.DecodeRuneInString(c.Data.Thousands); r != utf8.RuneError {
		o.Thousands = r
	}
	if r, _ := utf8.DecodeRuneInString(c.Data.Delimiter); r != utf8.RuneError {
		o.Comma = r
	}

	return o
}
