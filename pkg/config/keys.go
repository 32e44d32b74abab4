package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Keys lists the settable configuration keys in display order
var Keys = []string{
	"database",
	"record_history",
	"bench_input",
	"bench_output",
	"bench_max_age_years",
	"outlier_commits",
	"irrelevant_benches",
	"test262_root",
}

// Get returns the value of key formatted for display. List values are
// comma separated.
func (cfg *Config) Get(key string) (string, error) {
	switch key {
	case "database":
		return cfg.DatabasePath, nil
	case "record_history":
		return strconv.FormatBool(cfg.RecordHistory), nil
	case "bench_input":
		return cfg.BenchInput, nil
	case "bench_output":
		return cfg.BenchOutput, nil
	case "bench_max_age_years":
		return strconv.FormatFloat(cfg.BenchMaxAgeYears, 'g', -1, 64), nil
	case "outlier_commits":
		return strings.Join(cfg.OutlierCommits, ","), nil
	case "irrelevant_benches":
		return strings.Join(cfg.IrrelevantBenches, ","), nil
	case "test262_root":
		return cfg.Test262Root, nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
}

// Set parses value and stores it under key
func (cfg *Config) Set(key, value string) error {
	switch key {
	case "database":
		cfg.DatabasePath = value
	case "record_history":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for record_history (use true/false or 1/0): %w", err)
		}
		cfg.RecordHistory = enabled
	case "bench_input":
		cfg.BenchInput = value
	case "bench_output":
		cfg.BenchOutput = value
	case "bench_max_age_years":
		years, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for bench_max_age_years: %w", err)
		}
		if years <= 0 {
			return fmt.Errorf("bench_max_age_years must be positive, got %v", years)
		}
		cfg.BenchMaxAgeYears = years
	case "outlier_commits":
		cfg.OutlierCommits = splitList(value)
	case "irrelevant_benches":
		cfg.IrrelevantBenches = splitList(value)
	case "test262_root":
		cfg.Test262Root = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
