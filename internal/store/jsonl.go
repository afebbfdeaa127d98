// Package store persists pipeline records as append-only JSON Lines files.
// Each harvesting stage writes one file; downstream stages stream it back
// line by line so a corrupt or interrupted run never blocks reprocessing of
// the lines that did land.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Lines longer than the bufio default are routine: a single raw record can
// carry a whole rendered job description.
const maxLineBytes = 16 * 1024 * 1024

// JSONL is an append-only JSON Lines writer. Appends are atomic with respect
// to each other; the file is opened O_APPEND so interleaved writers from
// separate runs cannot tear a line.
type JSONL struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// OpenJSONL opens path for appending, creating parent directories as needed.
func OpenJSONL(path string) (*JSONL, error) {
	return open(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

// CreateJSONL truncates any existing file and opens a fresh writer. Derived
// stages use it so a rerun replaces their output instead of doubling it.
func CreateJSONL(path string) (*JSONL, error) {
	return open(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

func open(path string, flag int) (*JSONL, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	f, err := os.OpenFile(path, flag, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return &JSONL{path: path, f: f}, nil
}

// Append marshals v and writes it as one line.
func (w *JSONL) Append(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return fmt.Errorf("store %s is closed", w.path)
	}
	if _, err := w.f.Write(data); err != nil {
		return fmt.Errorf("failed to append to %s: %w", w.path, err)
	}
	return nil
}

// Path returns the file the writer appends to.
func (w *JSONL) Path() string {
	return w.path
}

// Close flushes and closes the underlying file. Further appends fail.
func (w *JSONL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// EachLine streams every non-blank line of a JSON Lines file to fn. fn
// returning an error stops the scan and propagates the error.
func EachLine(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("line %d of %s: %w", lineNo, path, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// ReadAll decodes every line of a JSON Lines file into a slice of T.
func ReadAll[T any](path string) ([]T, error) {
	var out []T
	err := EachLine(path, func(line []byte) error {
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return fmt.Errorf("failed to decode record: %w", err)
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
