package conformance

// RawTest is a single test run as written by the test runner. The same test
// appears twice when it was run in both strict and non-strict mode.
type RawTest struct {
	Name    string
	Version *int
	Strict  *bool
	Result  Outcome
}

// IsStrict reports whether the run was a strict mode run.
func (t RawTest) IsStrict() bool {
	return t.Strict != nil && *t.Strict
}

// Merge records outcome in the strict or non-strict slot, but only when that
// slot is still empty: the first outcome seen for a slot is kept. It reports
// whether the slot was written.
func (r *TestRecord) Merge(outcome Outcome, strict bool) bool {
	slot := &r.Result
	if strict {
		slot = &r.Strict
	}
	if *slot != "" {
		return false
	}
	*slot = outcome
	return true
}

// MergeTests folds a list of test runs into one record per test name. The
// first run of a test creates its record and supplies its version.
func MergeTests(raw []RawTest) map[string]*TestRecord {
	merged := make(map[string]*TestRecord, len(raw))
	for _, rt := range raw {
		rec, ok := merged[rt.Name]
		if !ok {
			rec = &TestRecord{}
			if rt.Version != nil {
				v := *rt.Version
				rec.Version = &v
			}
			merged[rt.Name] = rec
		}
		rec.Merge(rt.Result, rt.IsStrict())
	}
	return merged
}

// runs expands a merged record back into the runs it was built from.
func (r *TestRecord) runs(name string) []RawTest {
	strict, nonStrict := true, false
	var out []RawTest
	if r.Strict != "" {
		out = append(out, RawTest{Name: name, Version: r.Version, Strict: &strict, Result: r.Strict})
	}
	if r.Result != "" || len(out) == 0 {
		out = append(out, RawTest{Name: name, Version: r.Version, Strict: &nonStrict, Result: r.Result})
	}
	return out
}
