// Package config holds the YAML configuration of an xlranker run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/xlranker/ml"
)

// Environment variables applied over the file.
const (
	EnvSeed    = "XLRANKER_SEED"
	EnvFragile = "XLRANKER_FRAGILE"
	EnvDB      = "XLRANKER_DB"
)

// ErrInvalid indicates a configuration that cannot drive a run.
var ErrInvalid = errors.New("config: invalid")

// Config is the root configuration.
type Config struct {
	Seed     int64 `yaml:"seed"`
	Fragile  bool  `yaml:"fragile"`  // turn warnings into errors
	Detailed bool  `yaml:"detailed"` // log dataset statistics

	Inputs    InputsConfig    `yaml:"inputs"`
	Model     ModelConfig     `yaml:"model"`
	Selection SelectionConfig `yaml:"selection"`
	Output    OutputConfig    `yaml:"output"`
	Store     StoreConfig     `yaml:"store"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
}

// InputsConfig locates the input tables.
type InputsConfig struct {
	Network      string            `yaml:"network"`
	Mapping      MappingConfig     `yaml:"mapping"`
	Omics        map[string]string `yaml:"omics"` // source name → table path
	PrimaryOmic  string            `yaml:"primary_omic"`
	GoldStandard string            `yaml:"gold_standard"`
	GeneSets     string            `yaml:"gene_sets"`
}

// MappingConfig selects the peptide→protein mapping source.
type MappingConfig struct {
	Path       string `yaml:"path"`
	IsFasta    bool   `yaml:"is_fasta"`
	FastaType  string `yaml:"fasta_type"` // UNIPROT or GENCODE
	SplitBy    string `yaml:"split_by"`
	SplitIndex int    `yaml:"split_index"`
}

// ModelConfig controls the classifier ensemble.
type ModelConfig struct {
	Runs        int `yaml:"runs"`
	Folds       int `yaml:"folds"`
	Parallelism int `yaml:"parallelism"` // 0 = GOMAXPROCS
}

// SelectionConfig picks and parameterizes the selection policy.
type SelectionConfig struct {
	Policy        string  `yaml:"policy"` // best, threshold, within, random
	WithSecondary bool    `yaml:"with_secondary"`
	Threshold     float64 `yaml:"threshold"`
	TopN          int     `yaml:"top_n"`
	Within        float64 `yaml:"within"`
}

// OutputConfig controls report files.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	ReportLevel string `yaml:"report_level"`
}

// StoreConfig enables the SQLite result store when Path is set.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// ServerConfig configures `xlranker serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultConfig returns the defaults used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Inputs: InputsConfig{
			Mapping: MappingConfig{IsFasta: true, FastaType: "UNIPROT", SplitBy: "|", SplitIndex: 3},
		},
		Model: ModelConfig{Runs: ml.DefaultRuns, Folds: ml.DefaultFolds},
		Selection: SelectionConfig{
			Policy:    "best",
			Threshold: 0.5,
			TopN:      1,
			Within:    0.05,
		},
		Output:  OutputConfig{Dir: "xlranker_output", ReportLevel: "minimal"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load loads configuration from a YAML file over the defaults. A missing
// file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies XLRANKER_* variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvSeed, v, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv(EnvFragile); v != "" {
		fragile, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvFragile, v, err)
		}
		c.Fragile = fragile
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.Store.Path = v
	}
	return nil
}
