package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mcpower/domain/grid"
	"mcpower/internal/errors"
)

// Config represents the complete study configuration. Values come from
// defaults, then an optional YAML file, then MCPOWER_* environment overrides.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Output  OutputConfig  `yaml:"output"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

// GridConfig holds the parameter grid.
type GridConfig struct {
	SliceTechniques   []string `yaml:"slice_techniques"`
	ObservationCounts []int    `yaml:"observation_counts"`
	UndilutedDims     []int    `yaml:"undiluted_dims"`
	// DilutedDims lists the dimensions eligible for diluted evaluation; the
	// minimum value gates dilution. Empty disables dilution.
	DilutedDims     []int   `yaml:"diluted_dims"`
	NoiseCount      int     `yaml:"noise_count"`
	NoiseResolution float64 `yaml:"noise_resolution"`
	Generators      []string `yaml:"generators"`
	Distribution    string  `yaml:"distribution"`
	Estimator       string  `yaml:"estimator"`
	CalibrationReps int     `yaml:"calibration_reps"`
	EstimationReps  int     `yaml:"estimation_reps"`
	Seed            int64   `yaml:"seed"`
}

// OutputConfig holds the result sinks. CSVPath is always written; the
// Postgres and XLSX sinks are enabled when configured.
type OutputConfig struct {
	CSVPath     string `yaml:"csv_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	XLSXPath    string `yaml:"xlsx_path"`
}

// RuntimeConfig holds execution settings.
type RuntimeConfig struct {
	// Parallelism sizes the shared trial pool; 0 means available hardware
	// parallelism.
	Parallelism int `yaml:"parallelism"`
}

// Default returns the built-in study configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			SliceTechniques:   []string{"c"},
			ObservationCounts: []int{1000},
			UndilutedDims:     []int{2, 4, 8},
			DilutedDims:       []int{4, 8},
			NoiseCount:        30,
			NoiseResolution:   1.0,
			Generators:        []string{"independent", "linear", "parabola", "sine", "circle", "cross", "star"},
			Distribution:      "uniform",
			Estimator:         "R",
			CalibrationReps:   500,
			EstimationReps:    500,
			Seed:              42,
		},
		Output: OutputConfig{
			CSVPath: "power_study.csv",
		},
		Runtime: RuntimeConfig{},
	}
}

// Load builds the configuration: defaults, optional YAML file, environment
// overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the run could not honor.
func (c *Config) Validate() error {
	if c.Output.CSVPath == "" && c.Output.PostgresDSN == "" && c.Output.XLSXPath == "" {
		return errors.ConfigInvalid("at least one output sink must be configured")
	}
	if c.Grid.NoiseCount < 1 {
		return errors.ConfigInvalid("noise_count must be positive")
	}
	if c.Grid.NoiseResolution <= 0 || c.Grid.NoiseResolution > 1 {
		return errors.ConfigInvalid("noise_resolution must be in (0,1]")
	}
	for _, d := range c.Grid.DilutedDims {
		if d < 2 {
			return errors.ConfigInvalid(fmt.Sprintf("diluted dimension %d cannot split into two half-spaces", d))
		}
	}
	if c.Runtime.Parallelism < 0 {
		return errors.ConfigInvalid("parallelism cannot be negative")
	}
	plan := c.Plan()
	if err := plan.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// Plan maps the configuration onto the domain grid plan.
func (c *Config) Plan() grid.Plan {
	minDiluted := 0
	for _, d := range c.Grid.DilutedDims {
		if minDiluted == 0 || d < minDiluted {
			minDiluted = d
		}
	}
	return grid.Plan{
		SliceTechniques:   c.Grid.SliceTechniques,
		ObservationCounts: c.Grid.ObservationCounts,
		UndilutedDims:     c.Grid.UndilutedDims,
		MinDilutedDim:     minDiluted,
		NoiseLevels:       grid.NoiseSequence(c.Grid.NoiseCount, c.Grid.NoiseResolution),
		Generators:        c.Grid.Generators,
		Distribution:      c.Grid.Distribution,
		Estimator:         c.Grid.Estimator,
		CalibrationReps:   c.Grid.CalibrationReps,
		EstimationReps:    c.Grid.EstimationReps,
		Seed:              c.Grid.Seed,
	}
}

// applyEnv layers MCPOWER_* environment overrides onto the configuration.
func applyEnv(cfg *Config) error {
	cfg.Output.CSVPath = getEnvOrDefault("MCPOWER_CSV_PATH", cfg.Output.CSVPath)
	cfg.Output.PostgresDSN = getEnvOrDefault("MCPOWER_POSTGRES_DSN", cfg.Output.PostgresDSN)
	cfg.Output.XLSXPath = getEnvOrDefault("MCPOWER_XLSX_PATH", cfg.Output.XLSXPath)
	cfg.Grid.Distribution = getEnvOrDefault("MCPOWER_DISTRIBUTION", cfg.Grid.Distribution)
	cfg.Grid.Estimator = getEnvOrDefault("MCPOWER_ESTIMATOR", cfg.Grid.Estimator)

	if v := os.Getenv("MCPOWER_SLICE_TECHNIQUES"); v != "" {
		cfg.Grid.SliceTechniques = splitList(v)
	}
	if v := os.Getenv("MCPOWER_GENERATORS"); v != "" {
		cfg.Grid.Generators = splitList(v)
	}

	var err error
	if cfg.Grid.ObservationCounts, err = getEnvIntList("MCPOWER_OBSERVATION_COUNTS", cfg.Grid.ObservationCounts); err != nil {
		return err
	}
	if cfg.Grid.UndilutedDims, err = getEnvIntList("MCPOWER_UNDILUTED_DIMS", cfg.Grid.UndilutedDims); err != nil {
		return err
	}
	if cfg.Grid.DilutedDims, err = getEnvIntList("MCPOWER_DILUTED_DIMS", cfg.Grid.DilutedDims); err != nil {
		return err
	}
	if cfg.Grid.NoiseCount, err = getEnvIntOrDefault("MCPOWER_NOISE_COUNT", cfg.Grid.NoiseCount); err != nil {
		return err
	}
	if cfg.Grid.CalibrationReps, err = getEnvIntOrDefault("MCPOWER_CALIBRATION_REPS", cfg.Grid.CalibrationReps); err != nil {
		return err
	}
	if cfg.Grid.EstimationReps, err = getEnvIntOrDefault("MCPOWER_ESTIMATION_REPS", cfg.Grid.EstimationReps); err != nil {
		return err
	}
	if cfg.Runtime.Parallelism, err = getEnvIntOrDefault("MCPOWER_PARALLELISM", cfg.Runtime.Parallelism); err != nil {
		return err
	}

	if v := os.Getenv("MCPOWER_NOISE_RESOLUTION"); v != "" {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return errors.ConfigInvalid("MCPOWER_NOISE_RESOLUTION must be a number")
		}
		cfg.Grid.NoiseResolution = f
	}
	if v := os.Getenv("MCPOWER_SEED"); v != "" {
		s, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return errors.ConfigInvalid("MCPOWER_SEED must be an integer")
		}
		cfg.Grid.Seed = s
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, v))
	}
	return n, nil
}

func getEnvIntList(key string, fallback []int) ([]int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parts := splitList(v)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("%s must be a comma-separated integer list, got %q", key, v))
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
