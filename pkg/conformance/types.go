// Package conformance compacts test262 conformance results: duplicate test
// records from strict and non-strict runs are merged into one record, and the
// per-suite and per-edition counters are recomputed bottom-up.
package conformance

import (
	"encoding/json"

	"github.com/boa-dev/ghpages-tools/pkg/jsonio"
)

// Outcome is the single-letter result code of a test run. O is the code
// counted as passing by conformance figures, and P is what the runner
// records for a test that panicked.
type Outcome string

const (
	Outdated Outcome = "O"
	Ignored  Outcome = "I"
	Failed   Outcome = "F"
	Partial  Outcome = "P"
)

// NoVersion is the edition value of tests that do not target a specific
// ECMAScript edition. Such tests are left out of the per-edition counters.
const NoVersion = 255

// Counters holds the aggregate tallies of a suite. Categories are mutually
// exclusive, so Total is never less than the sum of the other three.
type Counters struct {
	Total    int `json:"t"`
	Outdated int `json:"o"`
	Ignored  int `json:"i"`
	Partial  int `json:"p"`
}

// Add accumulates other into c.
func (c *Counters) Add(other Counters) {
	c.Total += other.Total
	c.Outdated += other.Outdated
	c.Ignored += other.Ignored
	c.Partial += other.Partial
}

// Count adds a single test of the given category.
func (c *Counters) Count(cat Category) {
	c.Total++
	switch cat {
	case CategoryOutdated:
		c.Outdated++
	case CategoryIgnored:
		c.Ignored++
	case CategoryPartial:
		c.Partial++
	}
}

// VersionCounters holds counters keyed by ECMAScript edition.
type VersionCounters map[int]Counters

// Merge sums other into v key by key.
func (v VersionCounters) Merge(other VersionCounters) {
	for version, counters := range other {
		bucket := v[version]
		bucket.Add(counters)
		v[version] = bucket
	}
}

// TestRecord is a test merged from its strict and non-strict runs.
// An empty outcome means the slot was never filled.
type TestRecord struct {
	Version *int    `json:"v,omitempty"`
	Strict  Outcome `json:"s,omitempty"`
	Result  Outcome `json:"r,omitempty"`
}

// Suite is a fixed-up test suite. Aggregate and Versions are derived from
// Suites and Tests and are recomputed on every pass. A nil Suites or Tests
// map is left out of the JSON form, while an empty one is written as {}.
type Suite struct {
	Suites    map[string]*Suite
	Tests     map[string]*TestRecord
	Aggregate Counters
	Versions  VersionCounters
}

type suiteJSON struct {
	Suites    *map[string]*Suite      `json:"s,omitempty"`
	Tests     *map[string]*TestRecord `json:"t,omitempty"`
	Aggregate Counters                `json:"a"`
	Versions  VersionCounters         `json:"v"`
}

// MarshalJSON implements json.Marshaler.
func (s Suite) MarshalJSON() ([]byte, error) {
	aux := suiteJSON{Aggregate: s.Aggregate, Versions: s.Versions}
	if s.Suites != nil {
		aux.Suites = &s.Suites
	}
	if s.Tests != nil {
		aux.Tests = &s.Tests
	}
	return jsonio.Marshal(aux, jsonio.Compact)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Suite) UnmarshalJSON(data []byte) error {
	var aux suiteJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Suite{Aggregate: aux.Aggregate, Versions: aux.Versions}
	if aux.Suites != nil {
		s.Suites = *aux.Suites
	}
	if aux.Tests != nil {
		s.Tests = *aux.Tests
	}
	return nil
}

// Latest is the fixed-up content of a latest.json file.
type Latest struct {
	Commit        string            `json:"c"`
	Test262Commit string            `json:"u"`
	Results       map[string]*Suite `json:"r"`
	Aggregate     Counters          `json:"a"`
	Versions      VersionCounters   `json:"v"`
}

// Summary is one element of a results.json history.
type Summary struct {
	Commit        string   `json:"c"`
	Test262Commit string   `json:"u"`
	Aggregate     Counters `json:"a"`
}

// Summary projects l onto its history record.
func (l *Latest) Summary() Summary {
	return Summary{
		Commit:        l.Commit,
		Test262Commit: l.Test262Commit,
		Aggregate:     l.Aggregate,
	}
}
