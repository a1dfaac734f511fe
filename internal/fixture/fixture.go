// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package fixture loads static JSON payloads and routes intercepted HTTP
// requests to them.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrInvalidFixture indicates the fixture file is not valid JSON
	ErrInvalidFixture = errors.New("fixture is not valid JSON")
	// ErrEscapesRoot indicates a fixture path outside the fixtures directory
	ErrEscapesRoot = errors.New("fixture path escapes fixtures directory")
)

// Loader reads fixture files relative to a root directory. Payloads are
// read once and cached; callers receive copies so the cache stays
// immutable.
type Loader struct {
	root  string
	mu    sync.RWMutex
	cache map[string][]byte
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		root:  dir,
		cache: make(map[string][]byte),
	}
}

// Root returns the fixtures directory.
func (l *Loader) Root() string {
	return l.root
}

// Load returns the payload stored at the relative path, e.g.
// "netobserv/flow_records_fully_dropped.json".
func (l *Loader) Load(path string) ([]byte, error) {
	key := filepath.ToSlash(filepath.Clean(path))
	if strings.HasPrefix(key, "../") || key == ".." || filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: %s", ErrEscapesRoot, path)
	}

	l.mu.RLock()
	data, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return clone(data), nil
	}

	data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", key, err)
	}
	if strings.HasSuffix(key, ".json") && !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFixture, key)
	}

	l.mu.Lock()
	l.cache[key] = data
	l.mu.Unlock()
	return clone(data), nil
}

// Path returns the absolute location of a fixture, for callers that hand
// the file to an external process such as `oc create -f`.
func (l *Loader) Path(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(l.root, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("stat fixture %s: %w", path, err)
	}
	return abs, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
