package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"database", "/tmp/h.db", "/tmp/h.db"},
		{"record_history", "0", "false"},
		{"bench_input", "a.json", "a.json"},
		{"bench_output", "b.json", "b.json"},
		{"bench_max_age_years", "1.5", "1.5"},
		{"outlier_commits", "abc, def,,", "abc,def"},
		{"irrelevant_benches", "Create Realm", "Create Realm"},
		{"test262_root", "/srv/test262", "/srv/test262"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			require.NoError(t, cfg.Set(tt.key, tt.value))

			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeysAreGettable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range Keys {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestSetInvalid(t *testing.T) {
	cfg := DefaultConfig()

	assert.Error(t, cfg.Set("record_history", "maybe"))
	assert.Error(t, cfg.Set("bench_max_age_years", "soon"))
	assert.Error(t, cfg.Set("bench_max_age_years", "-1"))
	assert.Error(t, cfg.Set("remote_host", "x"))

	_, err := cfg.Get("remote_host")
	assert.Error(t, err)
}

func TestSetEmptyList(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Set("irrelevant_benches", ""))
	assert.Empty(t, cfg.IrrelevantBenches)
	assert.NotNil(t, cfg.IrrelevantBenches)
}
