// Package jsonio reads and writes whole JSON documents the way the published
// gh-pages data expects them: non-ASCII text and HTML characters are written
// literally, and files are replaced atomically.
package jsonio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Format selects the output layout.
type Format int

const (
	// Compact uses minimal separators and no trailing newline.
	Compact Format = iota
	// Indented uses two-space indentation.
	Indented
)

// Read loads path and decodes it into v.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

// Marshal encodes v without escaping non-ASCII or HTML characters.
func Marshal(v any, format Format) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if format == Indented {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Normalize decodes data and encodes it again in the given format, so that
// escaped text in pass-through values is written literally. Numbers keep
// their original text.
func Normalize(data []byte, format Format) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse JSON: trailing data after value")
	}

	return Marshal(v, format)
}

// Write encodes v and atomically replaces path with the result.
// It returns the number of bytes written.
func Write(path string, v any, format Format) (int64, error) {
	data, err := Marshal(v, format)
	if err != nil {
		return 0, err
	}

	if err := WriteFile(path, data); err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}

// WriteFile writes data next to path and renames it into place, so readers
// never observe a partially written file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", tmpPath, err)
	}

	return nil
}

// Size returns the size of path in bytes, or 0 when it does not exist.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
