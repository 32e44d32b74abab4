package conformance

// Category is the bucket a test counts towards besides the total.
type Category int

const (
	// Unclassified tests count towards the total only.
	Unclassified Category = iota
	CategoryOutdated
	CategoryIgnored
	CategoryPartial
)

func classifyOutcome(o Outcome) Category {
	switch o {
	case Outdated:
		return CategoryOutdated
	case Ignored:
		return CategoryIgnored
	case Partial:
		return CategoryPartial
	}
	return Unclassified
}

// Classify buckets a merged test. With both outcomes present they must agree
// to count as outdated or ignored, while a partial outcome on either side
// makes the test partial. Anything else is left unclassified.
func Classify(r *TestRecord) Category {
	switch {
	case r.Strict != "" && r.Result != "":
		if r.Strict == r.Result && (r.Strict == Outdated || r.Strict == Ignored) {
			return classifyOutcome(r.Strict)
		}
		if r.Strict == Partial || r.Result == Partial {
			return CategoryPartial
		}
		return Unclassified
	case r.Strict != "":
		return classifyOutcome(r.Strict)
	case r.Result != "":
		return classifyOutcome(r.Result)
	}
	return Unclassified
}

// SuiteConformance sums the aggregates of the child suites and classifies the
// direct tests.
func SuiteConformance(s *Suite) Counters {
	var c Counters
	for _, child := range s.Suites {
		c.Add(child.Aggregate)
	}
	for _, t := range s.Tests {
		c.Count(Classify(t))
	}
	return c
}

// VersionConformance is SuiteConformance bucketed by test edition. Tests
// without an edition, or with NoVersion, are skipped.
func VersionConformance(s *Suite) VersionCounters {
	v := VersionCounters{}
	for _, child := range s.Suites {
		v.Merge(child.Versions)
	}
	for _, t := range s.Tests {
		if t.Version == nil || *t.Version == NoVersion {
			continue
		}
		bucket := v[*t.Version]
		bucket.Count(Classify(t))
		v[*t.Version] = bucket
	}
	return v
}

// FixSuites fixes every suite of raw, children before parents.
func FixSuites(raw []RawSuite) map[string]*Suite {
	fixed := make(map[string]*Suite, len(raw))
	for _, rs := range raw {
		fixed[rs.Name] = FixSuite(rs)
	}
	return fixed
}

// FixSuite merges the tests of rs and derives its counters.
func FixSuite(rs RawSuite) *Suite {
	s := &Suite{}
	if rs.Suites != nil {
		s.Suites = FixSuites(rs.Suites)
	}
	if rs.Tests != nil {
		s.Tests = MergeTests(rs.Tests)
	}
	s.Aggregate = SuiteConformance(s)
	s.Versions = VersionConformance(s)
	return s
}

// FixAll fixes a whole latest.json and derives the root counters from the
// top-level suites.
func FixAll(raw *RawLatest) *Latest {
	l := &Latest{
		Commit:        raw.Commit,
		Test262Commit: raw.Test262Commit,
		Results:       FixSuites(raw.Suites),
		Versions:      VersionCounters{},
	}
	for _, s := range l.Results {
		l.Aggregate.Add(s.Aggregate)
		l.Versions.Merge(s.Versions)
	}
	return l
}
