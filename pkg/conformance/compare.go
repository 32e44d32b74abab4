package conformance

import (
	"fmt"
	"path"
)

// Changes lists the tests whose outcome moved between two result sets.
type Changes struct {
	Fixed      []string
	Broken     []string
	NewPanics  []string
	PanicFixes []string
}

func (c *Changes) extend(other Changes) {
	c.Fixed = append(c.Fixed, other.Fixed...)
	c.Broken = append(c.Broken, other.Broken...)
	c.NewPanics = append(c.NewPanics, other.NewPanics...)
	c.PanicFixes = append(c.PanicFixes, other.PanicFixes...)
}

// Empty reports whether no test changed.
func (c *Changes) Empty() bool {
	return len(c.Fixed)+len(c.Broken)+len(c.NewPanics)+len(c.PanicFixes) == 0
}

// Comparison holds the totals of a base and a new result set and the tests
// that changed between them.
type Comparison struct {
	Base    Counters
	New     Counters
	Changes Changes
}

// Passed is the number of tests with the passing outcome.
func (c Counters) Passed() int { return c.Outdated }

// Failed counts every test that neither passed nor was ignored, panics
// included.
func (c Counters) Failed() int { return c.Total - c.Outdated - c.Ignored }

// Panics is the number of tests that panicked.
func (c Counters) Panics() int { return c.Partial }

// ConformancePercent is the passing share of the total, 0 for an empty run.
func (c Counters) ConformancePercent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Outdated) * 100 / float64(c.Total)
}

// Compare diffs two fixed result sets. Only suites and tests present in both
// are compared, and a slot is compared only when both sides filled it.
func Compare(base, next *Latest) *Comparison {
	cmp := &Comparison{Base: base.Aggregate, New: next.Aggregate}
	for _, name := range sortedKeys(base.Results) {
		if other, ok := next.Results[name]; ok {
			cmp.Changes.extend(DiffSuite(name, base.Results[name], other))
		}
	}
	return cmp
}

// DiffSuite lists the changed tests of a suite and its children. Test names
// are reported as test/<dir>/<name>.js, with strict runs labelled.
func DiffSuite(dir string, base, next *Suite) Changes {
	var changes Changes

	for _, name := range sortedKeys(base.Tests) {
		other, ok := next.Tests[name]
		if !ok {
			continue
		}
		rec := base.Tests[name]
		file := fmt.Sprintf("test/%s/%s.js", dir, name)

		if rec.Strict != "" && other.Strict != "" {
			label := fmt.Sprintf("%s [strict mode] (previously %s)", file, OutcomeName(rec.Strict))
			changes.add(label, rec.Strict, other.Strict)
		}
		if rec.Result != "" && other.Result != "" {
			label := fmt.Sprintf("%s (previously %s)", file, OutcomeName(rec.Result))
			changes.add(label, rec.Result, other.Result)
		}
	}

	for _, name := range sortedKeys(base.Suites) {
		if other, ok := next.Suites[name]; ok {
			changes.extend(DiffSuite(path.Join(dir, name), base.Suites[name], other))
		}
	}

	return changes
}

// add files one test under the bucket its outcome change belongs to. An
// ignored test that now fails is not a regression.
func (c *Changes) add(test string, base, next Outcome) {
	switch {
	case base == next:
	case base == Ignored && next == Failed:
	case next == Outdated:
		c.Fixed = append(c.Fixed, test)
	case base == Partial:
		c.PanicFixes = append(c.PanicFixes, test)
	case next == Failed:
		c.Broken = append(c.Broken, test)
	case next == Partial:
		c.NewPanics = append(c.NewPanics, test)
	}
}

// OutcomeName is the runner's name for an outcome code.
func OutcomeName(o Outcome) string {
	switch o {
	case Outdated:
		return "Passed"
	case Ignored:
		return "Ignored"
	case Failed:
		return "Failed"
	case Partial:
		return "Panic"
	}
	return string(o)
}

// CompareFiles loads two latest.json files, raw or fixed, and compares them.
func CompareFiles(basePath, newPath string) (*Comparison, error) {
	base, err := LoadLatest(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load base results: %w", err)
	}
	next, err := LoadLatest(newPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load new results: %w", err)
	}
	return Compare(FixAll(base), FixAll(next)), nil
}
