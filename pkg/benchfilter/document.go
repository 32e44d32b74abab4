package benchfilter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/boa-dev/ghpages-tools/pkg/jsonio"
)

// dataJSPrefix is the assignment wrapping the published data.js variant of
// the benchmark history.
const dataJSPrefix = "window.BENCHMARK_DATA = "

// Document is a benchmark history: named collections of run entries.
// Fields other than "entries" are carried through untouched.
type Document struct {
	Entries map[string][]*Entry

	prefix string
	fields map[string]json.RawMessage
}

// Commit identifies the commit a benchmark run was taken at.
type Commit struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

// Entry is a single benchmark run. Benches holds the raw measurements in their
// original order; only their names are ever inspected.
type Entry struct {
	Commit  Commit
	Benches []json.RawMessage

	fields map[string]json.RawMessage
}

// Measurement is the part of a benchmark measurement the filter looks at.
type Measurement struct {
	Name string `json:"name"`
}

type measurementJSON struct {
	Name *string `json:"name"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &d.fields); err != nil {
		return err
	}

	raw, ok := d.fields["entries"]
	if !ok {
		return fmt.Errorf("missing key %q", "entries")
	}

	if err := json.Unmarshal(raw, &d.Entries); err != nil {
		return fmt.Errorf("failed to decode entries: %w", err)
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.fields)+1)
	for k, v := range d.fields {
		out[k] = v
	}

	entries, err := jsonio.Marshal(d.Entries, jsonio.Compact)
	if err != nil {
		return nil, err
	}
	out["entries"] = entries

	return jsonio.Marshal(out, jsonio.Compact)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &e.fields); err != nil {
		return err
	}

	commit, ok := e.fields["commit"]
	if !ok {
		return fmt.Errorf("missing key %q", "commit")
	}
	if err := json.Unmarshal(commit, &e.Commit); err != nil {
		return fmt.Errorf("failed to decode commit: %w", err)
	}

	benches, ok := e.fields["benches"]
	if !ok {
		return fmt.Errorf("missing key %q in entry %s", "benches", e.Commit.ID)
	}
	if err := json.Unmarshal(benches, &e.Benches); err != nil {
		return fmt.Errorf("failed to decode benches of %s: %w", e.Commit.ID, err)
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (e *Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}

	benches := e.Benches
	if benches == nil {
		benches = []json.RawMessage{}
	}
	raw, err := jsonio.Marshal(benches, jsonio.Compact)
	if err != nil {
		return nil, err
	}
	out["benches"] = raw

	return jsonio.Marshal(out, jsonio.Compact)
}

// Len returns the number of entries across all collections.
func (d *Document) Len() int {
	n := 0
	for _, entries := range d.Entries {
		n += len(entries)
	}
	return n
}

// Parse decodes a benchmark history, accepting both the plain JSON form and
// the data.js form.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte(dataJSPrefix)) {
		doc.prefix = dataJSPrefix
		trimmed = bytes.TrimPrefix(trimmed, []byte(dataJSPrefix))
		trimmed = bytes.TrimSuffix(trimmed, []byte(";"))
	}

	if err := json.Unmarshal(trimmed, doc); err != nil {
		return nil, fmt.Errorf("failed to parse benchmark data: %w", err)
	}

	return doc, nil
}

// Load reads and parses the benchmark history at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Encode renders doc with two-space indentation, restoring the data.js
// wrapper when the document was loaded from one. Fields carried through
// unchanged are re-encoded too, so escaped text in them comes out literally.
func Encode(doc *Document) ([]byte, error) {
	compact, err := jsonio.Marshal(doc, jsonio.Compact)
	if err != nil {
		return nil, err
	}

	data, err := jsonio.Normalize(compact, jsonio.Indented)
	if err != nil {
		return nil, err
	}

	if doc.prefix == "" {
		return data, nil
	}

	return append([]byte(doc.prefix), data...), nil
}

// Write atomically replaces path with the encoded document and returns the
// number of bytes written.
func Write(path string, doc *Document) (int64, error) {
	data, err := Encode(doc)
	if err != nil {
		return 0, err
	}

	if err := jsonio.WriteFile(path, data); err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}
