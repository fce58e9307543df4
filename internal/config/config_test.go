package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fcmdtw/dataset"
	"github.com/katalvlaran/fcmdtw/dtw"
	"github.com/katalvlaran/fcmdtw/internal/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fcmdtw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.Unseeded, cfg.Clustering.Seed)
	assert.Equal(t, 1.5, cfg.Clustering.Fuzziness)
	assert.Equal(t, 3, cfg.Clustering.Clusters)
	assert.Equal(t, 1e-3, cfg.Clustering.Tolerance)
	assert.Equal(t, 100, cfg.Clustering.MaxIter)
	assert.Equal(t, []int{2, 3, 4, 5}, cfg.Clustering.Sweep)

	anchor, err := cfg.AnchorTime()
	require.NoError(t, err)
	assert.True(t, anchor.Equal(dataset.CommodityAnchor))
}

func TestLoad_LayersFileThenEnv(t *testing.T) {
	path := writeFile(t, `
clustering:
  clusters: 4
  fuzziness: 1.5
  seed: 42
dtw:
  window: 5
  cost: absolute
output:
  format: json
`)
	t.Setenv("FCMDTW_CLUSTERING_CLUSTERS", "5")
	t.Setenv("FCMDTW_LOGGING_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Clustering.Clusters)
	assert.Equal(t, 1.5, cfg.Clustering.Fuzziness)
	assert.Equal(t, int64(42), cfg.Clustering.Seed)
	assert.Equal(t, 100, cfg.Clustering.MaxIter)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Output.Format)

	o, err := cfg.DTWOptions()
	require.NoError(t, err)
	assert.Equal(t, 5, o.Window)
	assert.Equal(t, dtw.AbsDiff, o.Cost)
}

func TestLoad_IgnoresUnprefixedEnvironment(t *testing.T) {
	path := writeFile(t, `
data:
  path: prices.csv
`)
	for _, key := range []string{"PATH", "FORMAT", "LEVEL", "FILE", "ANCHOR", "CLUSTERS", "SEED", "FUZZINESS"} {
		t.Setenv(key, "bogus")
	}

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prices.csv", cfg.Data.Path)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Output.File)
	assert.Equal(t, config.Default().Data.Anchor, cfg.Data.Anchor)
	assert.Equal(t, 3, cfg.Clustering.Clusters)

	t.Setenv("FCMDTW_DATA_PATH", "other.csv")
	t.Setenv("FCMDTW_OUTPUT_FORMAT", "xlsx")
	t.Setenv("FCMDTW_DATA_DATE_COLUMN", "date")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.csv", cfg.Data.Path)
	assert.Equal(t, "xlsx", cfg.Output.Format)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "date", cfg.Data.DateColumn)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config.Load(writeFile(t, "clustering: [1, 2"))
	assert.Error(t, err)

	_, err = config.Load(writeFile(t, "clustering:\n  clusters: 1\n  fuzziness: 1\n"))
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "Config.Clustering.Clusters")
	assert.Contains(t, err.Error(), "Config.Clustering.Fuzziness")

	t.Setenv("FCMDTW_CLUSTERING_MAX_ITER", "many")
	_, err = config.Load("")
	assert.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*config.Config){
		"sweep below two":  func(c *config.Config) { c.Clustering.Sweep = []int{2, 1} },
		"negative tol":     func(c *config.Config) { c.Clustering.Tolerance = -1 },
		"window below -1":  func(c *config.Config) { c.DTW.Window = -2 },
		"unknown cost":     func(c *config.Config) { c.DTW.Cost = "cubic" },
		"bad anchor":       func(c *config.Config) { c.Data.Anchor = "01/01/2020" },
		"long thousands":   func(c *config.Config) { c.Data.Thousands = ".," },
		"unknown format":   func(c *config.Config) { c.Output.Format = "csv" },
		"unknown level":    func(c *config.Config) { c.Logging.Level = "loud" },
		"unknown preset":   func(c *config.Config) { c.Data.Preset = "stocks" },
		"seed below -1":    func(c *config.Config) { c.Clustering.Seed = -2 },
		"negative workers": func(c *config.Config) { c.Clustering.Workers = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}

func TestMetrics_PruneOnlyForMembership(t *testing.T) {
	cfg := config.Default()
	cfg.DTW.Window = 3
	mem, obj, err := cfg.Metrics()
	require.NoError(t, err)
	assert.True(t, mem.Options().Prune)
	assert.False(t, obj.Options().Prune)
	assert.Equal(t, 3, mem.Options().Window)
	assert.Equal(t, 3, obj.Options().Window)
}

func TestReadOptions(t *testing.T) {
	cfg := config.Default()
	o := cfg.ReadOptions()
	assert.Equal(t, "Tanggal", o.DateColumn)
	assert.Equal(t, dataset.Commodities, o.Drop)
	assert.Zero(t, o.Thousands)

	cfg.Data.Preset = config.PresetGeneric
	cfg.Data.DateColumn = "date"
	cfg.Data.DateLayout = time.DateOnly
	cfg.Data.Thousands = "."
	cfg.Data.Delimiter = ";"
	o = cfg.ReadOptions()
	assert.Equal(t, dataset.ReadOptions{
		DateColumn: "date",
		DateLayout: time.DateOnly,
		Thousands:  '.',
		Comma:      ';',
	}, o)
}
