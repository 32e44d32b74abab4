// Package benchfilter trims a benchmark history down to the runs and
// measurements worth plotting: runs from the last year that are not known
// outliers, and measurements that are not known noise.
package benchfilter

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	secondsPerDay  = 86400
	daysPerYear    = 365.2425
	fullBenchMatch = "(Full)"
)

// Filter decides which entries and measurements survive.
type Filter struct {
	Now         time.Time
	MaxAgeYears float64
	Outliers    map[string]struct{}
	Irrelevant  map[string]struct{}
}

// CollectionStats counts what happened to one named collection.
type CollectionStats struct {
	Name     string
	Before   int
	After    int
	Stale    int
	Outliers int
}

// Stats summarizes a filter run.
type Stats struct {
	Collections         []CollectionStats
	MeasurementsBefore  int
	MeasurementsDropped int
}

// EntriesBefore returns the number of entries before filtering.
func (s *Stats) EntriesBefore() int {
	n := 0
	for _, c := range s.Collections {
		n += c.Before
	}
	return n
}

// EntriesAfter returns the number of entries that survived.
func (s *Stats) EntriesAfter() int {
	n := 0
	for _, c := range s.Collections {
		n += c.After
	}
	return n
}

// ElapsedYears returns the time between ts and now in Julian years, counting
// whole seconds only.
func ElapsedYears(ts, now time.Time) float64 {
	seconds := math.Floor(now.Sub(ts).Seconds())
	return seconds / secondsPerDay / daysPerYear
}

// IsRecent reports whether the entry's commit is younger than MaxAgeYears.
func (f *Filter) IsRecent(e *Entry) (bool, error) {
	ts, err := time.Parse(time.RFC3339, e.Commit.Timestamp)
	if err != nil {
		return false, fmt.Errorf("invalid timestamp for commit %s: %w", e.Commit.ID, err)
	}

	return ElapsedYears(ts, f.Now) < f.MaxAgeYears, nil
}

// IsNotOutlier reports whether the entry's commit is absent from the outlier set.
func (f *Filter) IsNotOutlier(e *Entry) bool {
	_, outlier := f.Outliers[e.Commit.ID]
	return !outlier
}

// KeepEntry reports whether the entry is both recent and not an outlier.
func (f *Filter) KeepEntry(e *Entry) (bool, error) {
	recent, err := f.IsRecent(e)
	if err != nil {
		return false, err
	}
	return recent && f.IsNotOutlier(e), nil
}

// IsRelevantMeasurement reports whether a measurement should be kept.
func (f *Filter) IsRelevantMeasurement(m Measurement) bool {
	if m.Name == "" {
		return false
	}
	if _, irrelevant := f.Irrelevant[m.Name]; irrelevant {
		return false
	}
	return !strings.Contains(m.Name, fullBenchMatch)
}

// CleanEntry drops the irrelevant measurements of e, keeping the order of the
// rest. It returns the number of measurements dropped.
func (f *Filter) CleanEntry(e *Entry) (int, error) {
	kept := make([]json.RawMessage, 0, len(e.Benches))
	for _, raw := range e.Benches {
		var aux measurementJSON
		if err := json.Unmarshal(raw, &aux); err != nil {
			return 0, fmt.Errorf("invalid measurement in commit %s: %w", e.Commit.ID, err)
		}
		if aux.Name == nil {
			return 0, fmt.Errorf("measurement in commit %s is missing key %q", e.Commit.ID, "name")
		}
		if f.IsRelevantMeasurement(Measurement{Name: *aux.Name}) {
			kept = append(kept, raw)
		}
	}

	dropped := len(e.Benches) - len(kept)
	e.Benches = kept
	return dropped, nil
}

// Apply filters every collection of doc in place.
func (f *Filter) Apply(doc *Document) (*Stats, error) {
	names := make([]string, 0, len(doc.Entries))
	for name := range doc.Entries {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := &Stats{}
	for _, name := range names {
		entries := doc.Entries[name]
		cs := CollectionStats{Name: name, Before: len(entries)}

		kept := make([]*Entry, 0, len(entries))
		for _, e := range entries {
			recent, err := f.IsRecent(e)
			if err != nil {
				return nil, fmt.Errorf("collection %q: %w", name, err)
			}
			switch {
			case !recent:
				cs.Stale++
			case !f.IsNotOutlier(e):
				cs.Outliers++
			default:
				kept = append(kept, e)
			}
		}

		for _, e := range kept {
			stats.MeasurementsBefore += len(e.Benches)
			dropped, err := f.CleanEntry(e)
			if err != nil {
				return nil, fmt.Errorf("collection %q: %w", name, err)
			}
			stats.MeasurementsDropped += dropped
		}

		doc.Entries[name] = kept
		cs.After = len(kept)
		stats.Collections = append(stats.Collections, cs)
	}

	return stats, nil
}
