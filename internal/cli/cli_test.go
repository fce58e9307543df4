package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fcmdtw/internal/cli"
)

// writeFixture writes eight weeks of weekday prices for two rising and two
// falling series plus a config selecting the generic preset.
func writeFixture(t *testing.T) (dir, data, cfg string) {
	t.Helper()
	dir = t.TempDir()

	var b strings.Builder
	b.WriteString("date,up-a,up-b,down-a,down-b\n")
	day := time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC) // Monday
	for k := 0; k < 56; k++ {
		d := day.AddDate(0, 0, k)
		x := float64(k)
		fmt.Fprintf(&b, "%s,%.0f,%.0f,%.0f,%.0f\n", d.Format(time.DateOnly),
			1000+10*x, 2000+21*x, 3000-12*x, 1500-5*x)
	}
	data = filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(data, []byte(b.String()), 0o600))

	cfg = filepath.Join(dir, "fcmdtw.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
data:
  preset: generic
  date_column: date
  date_layout: "2006-01-02"
  anchor: "2021-03-01"
clustering:
  seed: 7
  tolerance: 0.000001
logging:
  level: disabled
`), 0o600))

	return dir, data, cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCluster_JSON(t *testing.T) {
	dir, data, cfg := writeFixture(t)
	metricsFile := filepath.Join(dir, "fcmdtw.prom")

	out, err := run(t, "cluster", "--config", cfg, "--data", data, "-c", "2", "-f", "json",
		"--centroids", "--metrics", metricsFile, "--workers", "2")
	require.NoError(t, err)

	var docs []struct {
		Params struct {
			Clusters int `json:"clusters"`
		} `json:"params"`
		Memberships []struct {
			Name    string `json:"name"`
			Cluster int    `json:"cluster"`
		} `json:"memberships"`
		Centroids [][]float64 `json:"centroids"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, 2, docs[0].Params.Clusters)
	require.Len(t, docs[0].Memberships, 4)
	require.Len(t, docs[0].Centroids, 2)
	assert.Len(t, docs[0].Centroids[0], 8)

	ms := docs[0].Memberships
	assert.Equal(t, ms[0].Cluster, ms[1].Cluster, "rising series together")
	assert.Equal(t, ms[2].Cluster, ms[3].Cluster, "falling series together")
	assert.NotEqual(t, ms[0].Cluster, ms[2].Cluster)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "fcmdtw_runs_total")
}

func TestCluster_TextAndCharts(t *testing.T) {
	dir, data, cfg := writeFixture(t)
	charts := filepath.Join(dir, "charts")

	out, err := run(t, "cluster", "--config", cfg, "--data", data, "-c", "2", "--charts", charts)
	require.NoError(t, err)
	assert.Contains(t, out, "MPC")
	assert.Contains(t, out, "up-a")

	for _, name := range []string{"prices.png", "cluster-1.png", "cluster-2.png"} {
		assert.FileExists(t, filepath.Join(charts, name))
	}
}

func TestSweep_XLSXFile(t *testing.T) {
	dir, data, cfg := writeFixture(t)
	file := filepath.Join(dir, "sweep.xlsx")

	_, err := run(t, "sweep", "--config", cfg, "--data", data, "--counts", "2,3", "-f", "xlsx", "-o", file)
	require.NoError(t, err)
	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "xlsx is a zip archive")
}

func TestSweep_TextReportsBest(t *testing.T) {
	_, data, cfg := writeFixture(t)

	out, err := run(t, "sweep", "--config", cfg, "--data", data, "--counts", "2,3")
	require.NoError(t, err)
	assert.Contains(t, out, "highest MPC:")
}

func TestAlign(t *testing.T) {
	dir, data, cfg := writeFixture(t)

	out, err := run(t, "align", "--config", cfg, "--data", data, "up-a", "up-b", "--charts", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "DTW DISTANCE")
	assert.FileExists(t, filepath.Join(dir, "align-up-a-up-b.png"))

	_, err = run(t, "align", "--config", cfg, "--data", data, "up-a", "missing")
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	_, data, cfg := writeFixture(t)
	t.Setenv("FORMAT", "xlsx")
	t.Setenv("LEVEL", "loud")

	_, err := run(t, "cluster", "--config", cfg)
	assert.ErrorContains(t, err, "no input table")

	_, err = run(t, "cluster", "--config", cfg, "--data", data, "-c", "1")
	assert.ErrorContains(t, err, "Clusters")

	_, err = run(t, "cluster", "--config", cfg, "--data", data, "-c", "9")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "fcmdtw "+cli.Version+"\n", out)
}
