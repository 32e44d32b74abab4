package conformance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangesAdd(t *testing.T) {
	tests := []struct {
		name   string
		base   Outcome
		next   Outcome
		bucket func(c *Changes) []string
	}{
		{"fixed", Failed, Outdated, func(c *Changes) []string { return c.Fixed }},
		{"ignored to passing", Ignored, Outdated, func(c *Changes) []string { return c.Fixed }},
		{"panic to passing", Partial, Outdated, func(c *Changes) []string { return c.Fixed }},
		{"panic fix", Partial, Failed, func(c *Changes) []string { return c.PanicFixes }},
		{"broken", Outdated, Failed, func(c *Changes) []string { return c.Broken }},
		{"new panic", Outdated, Partial, func(c *Changes) []string { return c.NewPanics }},
		{"new panic from failure", Failed, Partial, func(c *Changes) []string { return c.NewPanics }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Changes
			c.add("x", tt.base, tt.next)
			assert.Equal(t, []string{"x"}, tt.bucket(&c))
		})
	}
}

func TestChangesAddSkipped(t *testing.T) {
	skipped := [][2]Outcome{
		{Outdated, Outdated},
		{Failed, Failed},
		{Ignored, Failed},
		{Outdated, Ignored},
		{Failed, Ignored},
	}
	for _, pair := range skipped {
		var c Changes
		c.add("x", pair[0], pair[1])
		assert.True(t, c.Empty(), "%s -> %s", pair[0], pair[1])
	}
}

func TestDiffSuiteLabels(t *testing.T) {
	base := &Suite{
		Tests: map[string]*TestRecord{
			"a":    {Strict: Outdated, Result: Failed},
			"b":    {Result: Outdated},
			"gone": {Result: Outdated},
		},
		Suites: map[string]*Suite{
			"inner": {Tests: map[string]*TestRecord{"c": {Result: Partial}}},
		},
	}
	next := &Suite{
		Tests: map[string]*TestRecord{
			"a": {Strict: Failed, Result: Outdated},
			"b": {Strict: Failed, Result: Outdated},
		},
		Suites: map[string]*Suite{
			"inner": {Tests: map[string]*TestRecord{"c": {Result: Failed}}},
		},
	}

	changes := DiffSuite("built-ins", base, next)

	assert.Equal(t, []string{"test/built-ins/a.js (previously Failed)"}, changes.Fixed)
	assert.Equal(t, []string{"test/built-ins/a.js [strict mode] (previously Passed)"}, changes.Broken)
	assert.Equal(t, []string{"test/built-ins/inner/c.js (previously Panic)"}, changes.PanicFixes)
	assert.Empty(t, changes.NewPanics)
}

func TestCompareMatchesSuitesByName(t *testing.T) {
	base := &Latest{
		Aggregate: Counters{Total: 3, Outdated: 1, Ignored: 1},
		Results: map[string]*Suite{
			"a":         {Tests: map[string]*TestRecord{"t": {Result: Outdated}}},
			"b":         {Tests: map[string]*TestRecord{"t": {Result: Failed}}},
			"only-base": {Tests: map[string]*TestRecord{"t": {Result: Outdated}}},
		},
	}
	next := &Latest{
		Aggregate: Counters{Total: 3, Outdated: 1, Partial: 1},
		Results: map[string]*Suite{
			"b": {Tests: map[string]*TestRecord{"t": {Result: Outdated}}},
			"a": {Tests: map[string]*TestRecord{"t": {Result: Partial}}},
		},
	}

	cmp := Compare(base, next)

	assert.Equal(t, base.Aggregate, cmp.Base)
	assert.Equal(t, next.Aggregate, cmp.New)
	assert.Equal(t, []string{"test/b/t.js (previously Failed)"}, cmp.Changes.Fixed)
	assert.Equal(t, []string{"test/a/t.js (previously Passed)"}, cmp.Changes.NewPanics)
}

func TestCountersDerived(t *testing.T) {
	c := Counters{Total: 10, Outdated: 6, Ignored: 1, Partial: 2}

	assert.Equal(t, 6, c.Passed())
	assert.Equal(t, 3, c.Failed())
	assert.Equal(t, 2, c.Panics())
	assert.InDelta(t, 60.0, c.ConformancePercent(), 1e-9)
	assert.Zero(t, Counters{}.ConformancePercent())
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.json")
	newPath := filepath.Join(dir, "new.json")

	base := `{"c":"a","u":"b","r":{"n":"test","s":[{"n":"s","t":[{"n":"x","s":false,"r":"F"},{"n":"x","s":true,"r":"O"}]}]}}`
	fixed := `{"c":"c","u":"b","r":{"s":{"t":{"x":{"s":"O","r":"O"}}}}}`
	require.NoError(t, os.WriteFile(basePath, []byte(base), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(fixed), 0o644))

	cmp, err := CompareFiles(basePath, newPath)
	require.NoError(t, err)

	assert.Equal(t, Counters{Total: 1}, cmp.Base)
	assert.Equal(t, Counters{Total: 1, Outdated: 1}, cmp.New)
	assert.Equal(t, []string{"test/s/x.js (previously Failed)"}, cmp.Changes.Fixed)

	_, err = CompareFiles(filepath.Join(dir, "missing.json"), newPath)
	assert.ErrorContains(t, err, "failed to load base results")
}
