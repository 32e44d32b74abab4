package conformance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// RawSuite is a suite as read from disk. It is decoded from either the test
// runner's form, where child suites and tests are lists of named objects, or
// from an already fixed file, where they are objects keyed by name.
type RawSuite struct {
	Name   string
	Suites []RawSuite
	Tests  []RawTest
}

// RawLatest is a latest.json file as read from disk.
type RawLatest struct {
	Commit        string
	Test262Commit string
	Suites        []RawSuite
}

type rawSuiteJSON struct {
	Name   *string         `json:"n"`
	Suites json.RawMessage `json:"s"`
	Tests  json.RawMessage `json:"t"`
}

type rawTestJSON struct {
	Name    *string  `json:"n"`
	Version *int     `json:"v"`
	Strict  *bool    `json:"s"`
	Result  *Outcome `json:"r"`
}

type rawLatestJSON struct {
	Commit        *string         `json:"c"`
	Test262Commit *string         `json:"u"`
	Results       json.RawMessage `json:"r"`
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// UnmarshalJSON implements json.Unmarshaler for the list form; the name of a
// suite in the keyed form is filled in by decodeSuites.
func (s *RawSuite) UnmarshalJSON(data []byte) error {
	var aux rawSuiteJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Name != nil {
		s.Name = *aux.Name
	}

	suites, err := decodeSuites(aux.Suites)
	if err != nil {
		return fmt.Errorf("suite %q: %w", s.Name, err)
	}
	s.Suites = suites

	tests, err := decodeTests(aux.Tests)
	if err != nil {
		return fmt.Errorf("suite %q: %w", s.Name, err)
	}
	s.Tests = tests

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *RawTest) UnmarshalJSON(data []byte) error {
	var aux rawTestJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Name == nil {
		return fmt.Errorf("test is missing key %q", "n")
	}
	if aux.Result == nil {
		return fmt.Errorf("test %q is missing key %q", *aux.Name, "r")
	}

	*t = RawTest{
		Name:    *aux.Name,
		Version: aux.Version,
		Strict:  aux.Strict,
		Result:  *aux.Result,
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *RawLatest) UnmarshalJSON(data []byte) error {
	var aux rawLatestJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Commit == nil {
		return fmt.Errorf("missing key %q", "c")
	}
	if aux.Test262Commit == nil {
		return fmt.Errorf("missing key %q", "u")
	}
	if isNull(aux.Results) {
		return fmt.Errorf("missing key %q", "r")
	}

	suites, err := decodeRoot(aux.Results)
	if err != nil {
		return err
	}

	*l = RawLatest{
		Commit:        *aux.Commit,
		Test262Commit: *aux.Test262Commit,
		Suites:        suites,
	}
	return nil
}

// decodeRoot returns the top-level suites. The runner writes the root as a
// suite object holding them under "s"; a fixed file keys them by name.
func decodeRoot(data json.RawMessage) ([]RawSuite, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	name, hasName := fields["n"]
	children, hasChildren := fields["s"]
	isRunnerRoot := (hasChildren && isArray(children)) ||
		(hasName && len(bytes.TrimSpace(name)) > 0 && bytes.TrimSpace(name)[0] == '"')
	if !isRunnerRoot {
		return decodeSuites(data)
	}

	if !hasChildren {
		return nil, fmt.Errorf("results are missing key %q", "s")
	}
	return decodeSuites(children)
}

func decodeSuites(data json.RawMessage) ([]RawSuite, error) {
	if isNull(data) {
		return nil, nil
	}

	if isArray(data) {
		var suites []RawSuite
		if err := json.Unmarshal(data, &suites); err != nil {
			return nil, err
		}
		for _, s := range suites {
			if s.Name == "" {
				return nil, fmt.Errorf("suite is missing key %q", "n")
			}
		}
		return suites, nil
	}

	var keyed map[string]RawSuite
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, err
	}
	suites := make([]RawSuite, 0, len(keyed))
	for _, name := range sortedKeys(keyed) {
		s := keyed[name]
		s.Name = name
		suites = append(suites, s)
	}
	return suites, nil
}

func decodeTests(data json.RawMessage) ([]RawTest, error) {
	if isNull(data) {
		return nil, nil
	}

	if isArray(data) {
		var tests []RawTest
		if err := json.Unmarshal(data, &tests); err != nil {
			return nil, err
		}
		return tests, nil
	}

	var keyed map[string]*TestRecord
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, err
	}
	tests := make([]RawTest, 0, len(keyed))
	for _, name := range sortedKeys(keyed) {
		rec := keyed[name]
		if rec == nil {
			rec = &TestRecord{}
		}
		tests = append(tests, rec.runs(name)...)
	}
	return tests, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseLatest decodes the content of a latest.json file.
func ParseLatest(data []byte) (*RawLatest, error) {
	var raw RawLatest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse latest results: %w", err)
	}
	return &raw, nil
}

// LoadLatest reads and decodes a latest.json file.
func LoadLatest(path string) (*RawLatest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw, err := ParseLatest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}
