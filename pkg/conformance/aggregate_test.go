package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestMergeTestsStrictSplit(t *testing.T) {
	merged := MergeTests([]RawTest{
		{Name: "a.js", Version: intPtr(6), Strict: boolPtr(true), Result: Outdated},
		{Name: "a.js", Version: intPtr(6), Strict: boolPtr(false), Result: Ignored},
	})

	require.Len(t, merged, 1)
	rec := merged["a.js"]
	assert.Equal(t, Outdated, rec.Strict)
	assert.Equal(t, Ignored, rec.Result)
	require.NotNil(t, rec.Version)
	assert.Equal(t, 6, *rec.Version)
}

func TestMergeTestsFirstAssignmentWins(t *testing.T) {
	merged := MergeTests([]RawTest{
		{Name: "a.js", Result: Failed},
		{Name: "a.js", Result: Outdated},
		{Name: "a.js", Strict: boolPtr(true), Result: Partial},
		{Name: "a.js", Strict: boolPtr(true), Result: Ignored},
	})

	rec := merged["a.js"]
	assert.Equal(t, Failed, rec.Result)
	assert.Equal(t, Partial, rec.Strict)
	assert.Nil(t, rec.Version)
}

func TestMergeTestsVersionFromFirstRun(t *testing.T) {
	merged := MergeTests([]RawTest{
		{Name: "a.js", Strict: boolPtr(true), Result: Outdated},
		{Name: "a.js", Version: intPtr(9), Result: Outdated},
		{Name: "b.js", Version: intPtr(NoVersion), Result: Ignored},
	})

	assert.Nil(t, merged["a.js"].Version)
	require.NotNil(t, merged["b.js"].Version)
	assert.Equal(t, NoVersion, *merged["b.js"].Version)
}

func TestTestRecordMerge(t *testing.T) {
	var rec TestRecord
	assert.True(t, rec.Merge(Outdated, true))
	assert.False(t, rec.Merge(Ignored, true))
	assert.True(t, rec.Merge(Ignored, false))
	assert.False(t, rec.Merge(Partial, false))
	assert.Equal(t, TestRecord{Strict: Outdated, Result: Ignored}, rec)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		strict Outcome
		result Outcome
		want   Category
	}{
		{"both outdated", Outdated, Outdated, CategoryOutdated},
		{"both ignored", Ignored, Ignored, CategoryIgnored},
		{"both partial", Partial, Partial, CategoryPartial},
		{"strict partial", Partial, Outdated, CategoryPartial},
		{"result partial", Failed, Partial, CategoryPartial},
		{"outdated and ignored", Outdated, Ignored, Unclassified},
		{"outdated and failed", Outdated, Failed, Unclassified},
		{"both failed", Failed, Failed, Unclassified},
		{"only strict outdated", Outdated, "", CategoryOutdated},
		{"only strict ignored", Ignored, "", CategoryIgnored},
		{"only result partial", "", Partial, CategoryPartial},
		{"only result failed", "", Failed, Unclassified},
		{"nothing", "", "", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&TestRecord{Strict: tt.strict, Result: tt.result}))
		})
	}
}

func TestSuiteConformance(t *testing.T) {
	s := &Suite{
		Suites: map[string]*Suite{
			"child": {Aggregate: Counters{Total: 5, Outdated: 2, Ignored: 1}},
		},
		Tests: map[string]*TestRecord{
			"a.js": {Strict: Outdated, Result: Outdated},
			"b.js": {Strict: Partial},
			"c.js": {Strict: Outdated, Result: Failed},
		},
	}

	assert.Equal(t, Counters{Total: 8, Outdated: 3, Ignored: 1, Partial: 1}, SuiteConformance(s))
}

func TestSuiteConformanceUnclassifiedSlack(t *testing.T) {
	s := &Suite{Tests: map[string]*TestRecord{
		"a.js": {Strict: Outdated, Result: Ignored},
		"b.js": {Result: Failed},
	}}

	c := SuiteConformance(s)
	assert.Equal(t, Counters{Total: 2}, c)
}

func TestVersionConformance(t *testing.T) {
	s := &Suite{
		Suites: map[string]*Suite{
			"x": {Versions: VersionCounters{3: {Total: 2, Outdated: 2}, 5: {Total: 1}}},
			"y": {Versions: VersionCounters{3: {Total: 1, Partial: 1}}},
		},
		Tests: map[string]*TestRecord{
			"ignored.js":   {Version: intPtr(3), Result: Ignored},
			"esnext.js":    {Version: intPtr(NoVersion), Result: Outdated},
			"noversion.js": {Result: Outdated},
			"es8.js":       {Version: intPtr(8), Strict: Outdated, Result: Outdated},
		},
	}

	got := VersionConformance(s)
	assert.Equal(t, VersionCounters{
		3: {Total: 4, Outdated: 2, Ignored: 1, Partial: 1},
		5: {Total: 1},
		8: {Total: 1, Outdated: 1},
	}, got)
	assert.NotContains(t, got, NoVersion)
}

func TestVersionBucketSingleTest(t *testing.T) {
	s := FixSuite(RawSuite{Name: "s", Tests: []RawTest{
		{Name: "a.js", Version: intPtr(3), Result: Ignored},
		{Name: "b.js", Version: intPtr(NoVersion), Result: Ignored},
	}})

	assert.Equal(t, VersionCounters{3: {Total: 1, Ignored: 1}}, s.Versions)
	assert.Equal(t, Counters{Total: 2, Ignored: 2}, s.Aggregate)
}

func TestFixSuitePostOrder(t *testing.T) {
	raw := RawSuite{
		Name: "built-ins",
		Suites: []RawSuite{
			{
				Name: "Array",
				Tests: []RawTest{
					{Name: "from.js", Version: intPtr(6), Strict: boolPtr(true), Result: Outdated},
					{Name: "from.js", Version: intPtr(6), Strict: boolPtr(false), Result: Outdated},
					{Name: "of.js", Version: intPtr(6), Result: Failed},
				},
			},
			{
				Name: "Symbol",
				Suites: []RawSuite{
					{Name: "iterator", Tests: []RawTest{{Name: "prop.js", Version: intPtr(7), Result: Partial}}},
				},
			},
		},
		Tests: []RawTest{{Name: "direct.js", Version: intPtr(5), Result: Ignored}},
	}

	s := FixSuite(raw)

	require.Contains(t, s.Suites, "Array")
	require.Contains(t, s.Suites, "Symbol")
	assert.Len(t, s.Suites["Array"].Tests, 2)
	assert.Equal(t, Counters{Total: 2, Outdated: 1}, s.Suites["Array"].Aggregate)
	assert.Equal(t, Counters{Total: 1, Partial: 1}, s.Suites["Symbol"].Aggregate)
	assert.Nil(t, s.Suites["Symbol"].Tests)
	assert.Equal(t, Counters{Total: 4, Outdated: 1, Ignored: 1, Partial: 1}, s.Aggregate)
	assert.Equal(t, VersionCounters{
		5: {Total: 1, Ignored: 1},
		6: {Total: 2, Outdated: 1},
		7: {Total: 1, Partial: 1},
	}, s.Versions)
}

func TestFixAll(t *testing.T) {
	raw := &RawLatest{
		Commit:        "abc",
		Test262Commit: "def",
		Suites: []RawSuite{
			{Name: "test/language", Tests: []RawTest{{Name: "a.js", Version: intPtr(5), Result: Outdated}}},
			{Name: "test/built-ins", Tests: []RawTest{{Name: "b.js", Version: intPtr(5), Result: Ignored}}},
		},
	}

	l := FixAll(raw)

	assert.Equal(t, "abc", l.Commit)
	assert.Equal(t, "def", l.Test262Commit)
	assert.Len(t, l.Results, 2)
	assert.Equal(t, Counters{Total: 2, Outdated: 1, Ignored: 1}, l.Aggregate)
	assert.Equal(t, VersionCounters{5: {Total: 2, Outdated: 1, Ignored: 1}}, l.Versions)
	assert.Equal(t, Summary{Commit: "abc", Test262Commit: "def", Aggregate: l.Aggregate}, l.Summary())
}

func TestFixAllEmpty(t *testing.T) {
	l := FixAll(&RawLatest{Commit: "c", Test262Commit: "u"})

	assert.Empty(t, l.Results)
	assert.Equal(t, Counters{}, l.Aggregate)
	assert.NotNil(t, l.Versions)
}

func TestCountersInvariant(t *testing.T) {
	records := []*TestRecord{
		{Strict: Outdated, Result: Ignored},
		{Strict: Partial, Result: Partial},
		{Result: Outdated},
		{Strict: Failed},
		{},
	}

	var c Counters
	for _, r := range records {
		c.Count(Classify(r))
	}

	assert.Equal(t, len(records), c.Total)
	assert.GreaterOrEqual(t, c.Total, c.Outdated+c.Ignored+c.Partial)
}
