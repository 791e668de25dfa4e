package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ToTo.csv", cfg.Data.DrawsCSV)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "optimization_results.csv", cfg.Output.SweepCSV)
	assert.Equal(t, 0.1, cfg.Scoring.DecayFloor)
	assert.Equal(t, 6, cfg.Scoring.Picks)
	assert.Equal(t, 1, cfg.Sweep.LookbackMin)
	assert.Equal(t, 20, cfg.Sweep.LookbackMax)
	assert.Equal(t, 1.0, cfg.Sweep.FloorMax)
	assert.Equal(t, []int{1, 2, 3, 5, 7}, cfg.Trend.Lookbacks)
	assert.Equal(t, []float64{0.5}, cfg.Trend.Floors)
	assert.Equal(t, "", cfg.Database.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
data:
  draws_csv: data/draws.csv
sweep:
  lookback_max: 8
  workers: 2
trend:
  lookbacks: [4, 6]
log:
  level: debug
`)
	t.Setenv("TOTO_DRAWS_CSV", "env.csv")
	t.Setenv("SQLITE_PATH", "runs.db")
	t.Setenv("SWEEP_WORKERS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "env.csv", cfg.Data.DrawsCSV)
	assert.Equal(t, "runs.db", cfg.Database.SQLitePath)
	assert.Equal(t, 8, cfg.Sweep.LookbackMax)
	assert.Equal(t, 2, cfg.Sweep.Workers)
	assert.Equal(t, []int{4, 6}, cfg.Trend.Lookbacks)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	writeFile(t, dir, ".env", "TOTO_SWEEP_CSV=from_dotenv.csv\n")
	t.Cleanup(func() { os.Unsetenv("TOTO_SWEEP_CSV") })

	cfg, err := Load(filepath.Join(dir, "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv.csv", cfg.Output.SweepCSV)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "sweep: [unclosed")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{name: "decay floor", mutate: func(c *Config) { c.Scoring.DecayFloor = 1.5 }, want: "decay_floor"},
		{name: "picks", mutate: func(c *Config) { c.Scoring.Picks = -1 }, want: "picks"},
		{name: "lookback range", mutate: func(c *Config) { c.Sweep.LookbackMax = 0; c.Sweep.LookbackMin = 3 }, want: "lookback range"},
		{name: "floor range", mutate: func(c *Config) { c.Sweep.FloorMax = 2 }, want: "floor range"},
		{name: "trend lookback", mutate: func(c *Config) { c.Trend.Lookbacks = []int{0} }, want: "trend.lookbacks"},
		{name: "trend floor", mutate: func(c *Config) { c.Trend.Floors = []float64{0} }, want: "trend.floors"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "loud" }, want: "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.applyDefaults()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

func TestSweepGridAndPaths(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	g := cfg.SweepGrid()
	require.NoError(t, g.Validate())
	assert.Equal(t, 200, g.Size())

	assert.Equal(t, filepath.Join("output", "optimization_results.csv"), cfg.SweepCSVPath())
	cfg.Output.SweepCSV = "/tmp/results.csv"
	assert.Equal(t, "/tmp/results.csv", cfg.SweepCSVPath())
}
