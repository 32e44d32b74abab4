package jsonio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"n"`
	Count int    `json:"c"`
}

func TestMarshalCompact(t *testing.T) {
	data, err := Marshal(map[string]any{"b": []int{1, 2}, "a": "ñ<&>"}, Compact)
	require.NoError(t, err)

	assert.Equal(t, `{"a":"ñ<&>","b":[1,2]}`, string(data))
}

func TestMarshalIndented(t *testing.T) {
	data, err := Marshal(sample{Name: "Ünïcode", Count: 3}, Indented)
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"n\": \"Ünïcode\",\n  \"c\": 3\n}", string(data))
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	n, err := Write(path, sample{Name: "x", Count: 1}, Compact)
	require.NoError(t, err)
	assert.Equal(t, int64(len(`{"n":"x","c":1}`)), n)
	assert.Equal(t, n, Size(path))

	var got sample
	require.NoError(t, Read(path, &got))
	assert.Equal(t, sample{Name: "x", Count: 1}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer"), 0644))

	_, err := Write(path, []int{1}, Compact)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(data))
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	var v any
	assert.Error(t, Read(filepath.Join(dir, "missing.json"), &v))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	assert.Error(t, Read(bad, &v))
}

func TestSizeMissing(t *testing.T) {
	assert.Zero(t, Size(filepath.Join(t.TempDir(), "missing")))
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]byte(`{"b": "caf\u00e9", "a": [1.0, 2e3, "<x>"]}`), Compact)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1.0,2e3,"<x>"],"b":"café"}`, string(out))

	_, err = Normalize([]byte(`{"a": 1} {}`), Compact)
	assert.Error(t, err)

	_, err = Normalize([]byte(`{"a": `), Compact)
	assert.Error(t, err)
}
