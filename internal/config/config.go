package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TotoSentinel/internal/sweep"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		DrawsCSV string `yaml:"draws_csv"`
	} `yaml:"data"`
	Output struct {
		Dir      string `yaml:"dir"`
		SweepCSV string `yaml:"sweep_csv"`
	} `yaml:"output"`
	Scoring struct {
		DecayFloor float64 `yaml:"decay_floor"`
		Picks      int     `yaml:"picks"`
	} `yaml:"scoring"`
	Sweep struct {
		LookbackMin  int     `yaml:"lookback_min"`
		LookbackMax  int     `yaml:"lookback_max"`
		LookbackStep int     `yaml:"lookback_step"`
		FloorMin     float64 `yaml:"floor_min"`
		FloorMax     float64 `yaml:"floor_max"`
		FloorStep    float64 `yaml:"floor_step"`
		Workers      int     `yaml:"workers"`
	} `yaml:"sweep"`
	Trend struct {
		Lookbacks []int     `yaml:"lookbacks"`
		Floors    []float64 `yaml:"floors"`
	} `yaml:"trend"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		SweepCron string `yaml:"sweep_cron"`
	} `yaml:"schedule"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then a .env file next to the working directory,
// then applies environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("TOTO_DRAWS_CSV"); v != "" {
		cfg.Data.DrawsCSV = v
	}
	if v := os.Getenv("TOTO_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("TOTO_SWEEP_CSV"); v != "" {
		cfg.Output.SweepCSV = v
	}
	if v := os.Getenv("TOTO_DECAY_FLOOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.DecayFloor = f
		}
	}
	if v := os.Getenv("SWEEP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Workers = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SWEEP"); v != "" {
		cfg.Schedule.SweepCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Data.DrawsCSV == "" {
		c.Data.DrawsCSV = "ToTo.csv"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
	if c.Output.SweepCSV == "" {
		c.Output.SweepCSV = "optimization_results.csv"
	}
	if c.Scoring.DecayFloor == 0 {
		c.Scoring.DecayFloor = 0.1
	}
	if c.Scoring.Picks == 0 {
		c.Scoring.Picks = 6
	}
	if c.Sweep.LookbackMin == 0 {
		c.Sweep.LookbackMin = 1
	}
	if c.Sweep.LookbackMax == 0 {
		c.Sweep.LookbackMax = 20
	}
	if c.Sweep.LookbackStep == 0 {
		c.Sweep.LookbackStep = 1
	}
	if c.Sweep.FloorMin == 0 {
		c.Sweep.FloorMin = 0.1
	}
	if c.Sweep.FloorMax == 0 {
		c.Sweep.FloorMax = 1.0
	}
	if c.Sweep.FloorStep == 0 {
		c.Sweep.FloorStep = 0.1
	}
	if c.Sweep.Workers == 0 {
		c.Sweep.Workers = 4
	}
	if len(c.Trend.Lookbacks) == 0 {
		c.Trend.Lookbacks = []int{1, 2, 3, 5, 7}
	}
	if len(c.Trend.Floors) == 0 {
		c.Trend.Floors = []float64{0.5}
	}
	// TOTO draws are on Monday and Thursday evenings
	if c.Schedule.SweepCron == "" {
		c.Schedule.SweepCron = "0 30 21 * * 1,4"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Scoring.DecayFloor <= 0 || c.Scoring.DecayFloor > 1 {
		return fmt.Errorf("scoring.decay_floor must be in (0, 1]")
	}
	if c.Scoring.Picks < 1 {
		return fmt.Errorf("scoring.picks must be positive")
	}
	if c.Sweep.LookbackMin < 1 || c.Sweep.LookbackMax < c.Sweep.LookbackMin || c.Sweep.LookbackStep < 1 {
		return fmt.Errorf("sweep lookback range %d..%d step %d is invalid",
			c.Sweep.LookbackMin, c.Sweep.LookbackMax, c.Sweep.LookbackStep)
	}
	if c.Sweep.FloorMin <= 0 || c.Sweep.FloorMax > 1 || c.Sweep.FloorMax < c.Sweep.FloorMin || c.Sweep.FloorStep <= 0 {
		return fmt.Errorf("sweep floor range %.2f..%.2f step %.2f is invalid",
			c.Sweep.FloorMin, c.Sweep.FloorMax, c.Sweep.FloorStep)
	}
	for _, lb := range c.Trend.Lookbacks {
		if lb < 1 {
			return fmt.Errorf("trend.lookbacks must be positive, got %d", lb)
		}
	}
	for _, f := range c.Trend.Floors {
		if f <= 0 || f > 1 {
			return fmt.Errorf("trend.floors must be in (0, 1], got %.2f", f)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("log.level %q is not a valid level", c.Log.Level)
	}
	return nil
}

// SweepGrid is the configured parameter grid.
func (c *Config) SweepGrid() sweep.Grid {
	return sweep.Grid{
		LookbackMin:  c.Sweep.LookbackMin,
		LookbackMax:  c.Sweep.LookbackMax,
		LookbackStep: c.Sweep.LookbackStep,
		FloorMin:     c.Sweep.FloorMin,
		FloorMax:     c.Sweep.FloorMax,
		FloorStep:    c.Sweep.FloorStep,
	}
}

// SweepCSVPath resolves output.sweep_csv against output.dir unless it is absolute.
func (c *Config) SweepCSVPath() string {
	if filepath.IsAbs(c.Output.SweepCSV) {
		return c.Output.SweepCSV
	}
	return filepath.Join(c.Output.Dir, c.Output.SweepCSV)
}
