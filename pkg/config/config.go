package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the gh-pages tools configuration
type Config struct {
	DatabasePath  string `yaml:"database"`
	RecordHistory bool   `yaml:"record_history"`

	BenchInput        string   `yaml:"bench_input"`
	BenchOutput       string   `yaml:"bench_output"`
	BenchMaxAgeYears  float64  `yaml:"bench_max_age_years"`
	OutlierCommits    []string `yaml:"outlier_commits"`
	IrrelevantBenches []string `yaml:"irrelevant_benches"`

	Test262Root string `yaml:"test262_root"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	dbPath := "ghp-tools.db"
	if err == nil {
		dbPath = filepath.Join(homeDir, ".local", "share", "ghp-tools", "history.db")
	}
	return &Config{
		DatabasePath:     dbPath,
		RecordHistory:    true,
		BenchInput:       filepath.Join("dev", "bench", "data.json"),
		BenchOutput:      filepath.Join("dev", "bench", "data.min.json"),
		BenchMaxAgeYears: 1,
		OutlierCommits:   []string{},
		IrrelevantBenches: []string{
			"Create Realm",
		},
		Test262Root: "test262",
	}
}

// Load loads configuration from file and environment variables
// Priority: environment variables > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := GetConfigPath()
	if err := loadFromFile(cfg, configPath); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if db := os.Getenv("GHP_DB"); db != "" {
		cfg.DatabasePath = db
	}
	if record := os.Getenv("GHP_RECORD_HISTORY"); record != "" {
		enabled, err := strconv.ParseBool(record)
		if err != nil {
			return nil, fmt.Errorf("invalid GHP_RECORD_HISTORY %q: %w", record, err)
		}
		cfg.RecordHistory = enabled
	}
	if in := os.Getenv("GHP_BENCH_INPUT"); in != "" {
		cfg.BenchInput = in
	}
	if out := os.Getenv("GHP_BENCH_OUTPUT"); out != "" {
		cfg.BenchOutput = out
	}
	if root := os.Getenv("GHP_TEST262_ROOT"); root != "" {
		cfg.Test262Root = root
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// Save saves the configuration to a file
func (cfg *Config) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	configPath := os.Getenv("GHP_CONFIG")
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(homeDir, ".ghp-tools.yaml")
		} else {
			configPath = ".ghp-tools.yaml"
		}
	}
	return configPath
}

// GetDatabasePath returns the database path, expanding ~/ if needed
func (cfg *Config) GetDatabasePath() string {
	return expandHome(cfg.DatabasePath)
}

// GetTest262Root returns the results root, expanding ~/ if needed
func (cfg *Config) GetTest262Root() string {
	return expandHome(cfg.Test262Root)
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// OutlierSet returns the outlier commit ids as a lookup set
func (cfg *Config) OutlierSet() map[string]struct{} {
	return toSet(cfg.OutlierCommits)
}

// IrrelevantSet returns the irrelevant benchmark names as a lookup set
func (cfg *Config) IrrelevantSet() map[string]struct{} {
	return toSet(cfg.IrrelevantBenches)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Validate checks that the configuration can be used
func (cfg *Config) Validate() error {
	if cfg.BenchMaxAgeYears <= 0 {
		return fmt.Errorf("bench_max_age_years must be positive, got %v", cfg.BenchMaxAgeYears)
	}

	if cfg.RecordHistory {
		dbPath := cfg.GetDatabasePath()
		if dbPath == "" {
			return fmt.Errorf("database path is empty but record_history is enabled")
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	return nil
}
