// Package compact rewrites the test262 results tree published on gh-pages.
//
// For every tag under refs/tags and for refs/heads/main it fixes latest.json
// in place, reduces results.json to summaries built from the fixed totals,
// and removes the obsolete features.json. Each file is replaced atomically,
// but there is no transaction spanning several files: a failure part-way
// leaves the refs processed so far rewritten.
package compact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/boa-dev/ghpages-tools/pkg/conformance"
	"github.com/boa-dev/ghpages-tools/pkg/jsonio"
)

const (
	LatestFileName   = "latest.json"
	ResultsFileName  = "results.json"
	FeaturesFileName = "features.json"

	TagsDir = "refs/tags"
	MainDir = "refs/heads/main"
)

// Options configures a Compactor.
type Options struct {
	Root  string    // Directory holding refs/
	Out   io.Writer // Progress output (tag names); nil discards
	Debug bool      // Print per-file details to Out
}

// RefResult describes what happened to one ref directory.
type RefResult struct {
	Ref             string
	Commit          string
	Test262Commit   string
	Aggregate       conformance.Counters
	LatestBefore    int64
	LatestAfter     int64
	ResultsBefore   int64
	ResultsAfter    int64
	HistoryLen      int
	RemovedFeatures bool
}

// Report collects the results of a full run, tags first, main last.
type Report struct {
	Refs []RefResult
}

// BytesBefore returns the combined size of the rewritten files before the run.
func (r *Report) BytesBefore() int64 {
	var n int64
	for _, ref := range r.Refs {
		n += ref.LatestBefore + ref.ResultsBefore
	}
	return n
}

// BytesAfter returns the combined size of the rewritten files after the run.
func (r *Report) BytesAfter() int64 {
	var n int64
	for _, ref := range r.Refs {
		n += ref.LatestAfter + ref.ResultsAfter
	}
	return n
}

// Compactor rewrites a results tree.
type Compactor struct {
	root  string
	out   io.Writer
	debug bool
}

// New creates a Compactor for opts.Root.
func New(opts Options) *Compactor {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Compactor{root: opts.Root, out: out, debug: opts.Debug}
}

// Run compacts every tag and then the main branch. It stops at the first
// error and returns the refs completed so far along with it.
func (c *Compactor) Run() (*Report, error) {
	report := &Report{}

	tags, err := c.Tags()
	if err != nil {
		return report, err
	}

	for _, tag := range tags {
		fmt.Fprintln(c.out, tag)
		res, err := c.CompactTag(tag)
		if err != nil {
			return report, fmt.Errorf("tag %s: %w", tag, err)
		}
		report.Refs = append(report.Refs, *res)
	}

	res, err := c.CompactMain()
	if err != nil {
		return report, fmt.Errorf("main: %w", err)
	}
	report.Refs = append(report.Refs, *res)

	return report, nil
}

// Tags lists the tag directories in name order.
func (c *Compactor) Tags() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.root, TagsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var tags []string
	for _, e := range entries {
		if e.IsDir() {
			tags = append(tags, e.Name())
		}
	}
	return tags, nil
}

// CompactTag fixes the latest results of a tag and replaces its history with
// the single resulting summary.
func (c *Compactor) CompactTag(tag string) (*RefResult, error) {
	dir := filepath.Join(c.root, TagsDir, tag)

	res, latest, err := c.compactLatest(dir)
	if err != nil {
		return nil, err
	}
	res.Ref = filepath.ToSlash(filepath.Join(TagsDir, tag))

	history := []conformance.Summary{latest.Summary()}
	if err := c.writeHistory(dir, history, res); err != nil {
		return nil, err
	}

	if res.RemovedFeatures, err = RemoveFeatures(dir); err != nil {
		return nil, err
	}

	return res, nil
}

// CompactMain fixes the latest results of the main branch, projects its
// history onto summaries and replaces the last summary with the fresh one.
func (c *Compactor) CompactMain() (*RefResult, error) {
	dir := filepath.Join(c.root, MainDir)

	res, latest, err := c.compactLatest(dir)
	if err != nil {
		return nil, err
	}
	res.Ref = filepath.ToSlash(MainDir)

	history, err := conformance.LoadHistory(filepath.Join(dir, ResultsFileName))
	if err != nil {
		return nil, err
	}
	history = conformance.ReplaceLast(history, latest.Summary())

	if err := c.writeHistory(dir, history, res); err != nil {
		return nil, err
	}

	if res.RemovedFeatures, err = RemoveFeatures(dir); err != nil {
		return nil, err
	}

	return res, nil
}

func (c *Compactor) compactLatest(dir string) (*RefResult, *conformance.Latest, error) {
	path := filepath.Join(dir, LatestFileName)
	before := jsonio.Size(path)

	raw, err := conformance.LoadLatest(path)
	if err != nil {
		return nil, nil, err
	}

	latest := conformance.FixAll(raw)

	after, err := jsonio.Write(path, latest, jsonio.Compact)
	if err != nil {
		return nil, nil, err
	}

	if c.debug {
		fmt.Fprintf(c.out, "  %s: %d -> %d bytes\n", path, before, after)
	}

	return &RefResult{
		Commit:        latest.Commit,
		Test262Commit: latest.Test262Commit,
		Aggregate:     latest.Aggregate,
		LatestBefore:  before,
		LatestAfter:   after,
	}, latest, nil
}

func (c *Compactor) writeHistory(dir string, history []conformance.Summary, res *RefResult) error {
	path := filepath.Join(dir, ResultsFileName)
	res.ResultsBefore = jsonio.Size(path)

	after, err := jsonio.Write(path, history, jsonio.Compact)
	if err != nil {
		return err
	}
	res.ResultsAfter = after
	res.HistoryLen = len(history)

	if c.debug {
		fmt.Fprintf(c.out, "  %s: %d -> %d bytes (%d records)\n", path, res.ResultsBefore, after, len(history))
	}

	return nil
}

// RemoveFeatures deletes the obsolete features.json of dir, reporting whether
// one was present.
func RemoveFeatures(dir string) (bool, error) {
	err := os.Remove(filepath.Join(dir, FeaturesFileName))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to remove %s: %w", FeaturesFileName, err)
}
