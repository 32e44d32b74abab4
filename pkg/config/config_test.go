package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.NotEmpty(t, cfg.DatabasePath)
	assert.True(t, cfg.RecordHistory)
	assert.Equal(t, 1.0, cfg.BenchMaxAgeYears)
	assert.Equal(t, "test262", cfg.Test262Root)
	assert.Contains(t, cfg.IrrelevantBenches, "Create Realm")
	assert.Empty(t, cfg.OutlierCommits)
}

func TestConfigSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	cfg := &Config{
		DatabasePath:      "/tmp/test.db",
		RecordHistory:     false,
		BenchInput:        "in.json",
		BenchOutput:       "out.json",
		BenchMaxAgeYears:  2,
		OutlierCommits:    []string{"abc123"},
		IrrelevantBenches: []string{"Noise"},
		Test262Root:       "/srv/gh-pages/test262",
	}
	require.NoError(t, cfg.Save(configPath))

	_, err := os.Stat(configPath)
	require.NoError(t, err, "config file was not created")

	loaded := DefaultConfig()
	require.NoError(t, loadFromFile(loaded, configPath))

	assert.Equal(t, cfg, loaded)
}

func TestLoadWithEnvironmentOverrides(t *testing.T) {
	t.Setenv("GHP_CONFIG", "/nonexistent/config.yaml")
	t.Setenv("GHP_DB", "/env/test.db")
	t.Setenv("GHP_RECORD_HISTORY", "false")
	t.Setenv("GHP_TEST262_ROOT", "/env/test262")
	t.Setenv("GHP_BENCH_INPUT", "/env/in.json")
	t.Setenv("GHP_BENCH_OUTPUT", "/env/out.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/env/test.db", cfg.DatabasePath)
	assert.False(t, cfg.RecordHistory)
	assert.Equal(t, "/env/test262", cfg.Test262Root)
	assert.Equal(t, "/env/in.json", cfg.BenchInput)
	assert.Equal(t, "/env/out.json", cfg.BenchOutput)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database: /file/history.db
outlier_commits:
  - deadbeef
irrelevant_benches:
  - "Symbols (Compiler)"
bench_max_age_years: 0.5
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	t.Setenv("GHP_CONFIG", configPath)
	t.Setenv("GHP_DB", "/env/wins.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/env/wins.db", cfg.DatabasePath)
	assert.Equal(t, []string{"deadbeef"}, cfg.OutlierCommits)
	assert.Equal(t, []string{"Symbols (Compiler)"}, cfg.IrrelevantBenches)
	assert.Equal(t, 0.5, cfg.BenchMaxAgeYears)
}

func TestLoadInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("database: [unterminated"), 0644))
	t.Setenv("GHP_CONFIG", configPath)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidRecordHistory(t *testing.T) {
	t.Setenv("GHP_CONFIG", "/nonexistent/config.yaml")
	t.Setenv("GHP_RECORD_HISTORY", "maybe")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("GHP_CONFIG", "/custom/path.yaml")
	assert.Equal(t, "/custom/path.yaml", GetConfigPath())

	t.Setenv("GHP_CONFIG", "")
	assert.Equal(t, ".ghp-tools.yaml", filepath.Base(GetConfigPath()))
}

func TestGetDatabasePath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"absolute", "/var/db/history.db", "/var/db/history.db"},
		{"relative", "history.db", "history.db"},
		{"tilde", "~/history.db", filepath.Join(homeDir, "history.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DatabasePath: tt.path, Test262Root: tt.path}
			assert.Equal(t, tt.want, cfg.GetDatabasePath())
			assert.Equal(t, tt.want, cfg.GetTest262Root())
		})
	}
}

func TestSets(t *testing.T) {
	cfg := &Config{
		OutlierCommits:    []string{"a", "b", "a"},
		IrrelevantBenches: []string{"x"},
	}

	outliers := cfg.OutlierSet()
	assert.Len(t, outliers, 2)
	assert.Contains(t, outliers, "a")
	assert.Contains(t, outliers, "b")

	assert.Contains(t, cfg.IrrelevantSet(), "x")
}

func TestSaveCreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	require.NoError(t, DefaultConfig().Save(configPath))

	_, err := os.Stat(configPath)
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DatabasePath = filepath.Join(tempDir, "sub", "history.db")
		require.NoError(t, cfg.Validate())

		_, err := os.Stat(filepath.Join(tempDir, "sub"))
		assert.NoError(t, err, "database directory should be created")
	})

	t.Run("non-positive max age", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BenchMaxAgeYears = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty database with history", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DatabasePath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty database without history", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DatabasePath = ""
		cfg.RecordHistory = false
		assert.NoError(t, cfg.Validate())
	})
}
