// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/davetashner/llmscan/internal/testable"
)

// DefaultDir is the directory reports land in when no output path is given.
const DefaultDir = "results"

// timestampLayout names report files down to the second.
const timestampLayout = "20060102_150405"

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// nowFunc is used for testing to override the current time.
var nowFunc = time.Now

// DefaultPath returns the default report location for a provider, e.g.
// "results/scan_results_openai_20260821_153000.json".
func DefaultPath(providerName string) string {
	return DefaultPathIn(DefaultDir, providerName)
}

// DefaultPathIn is DefaultPath rooted at dir instead of DefaultDir.
func DefaultPathIn(dir, providerName string) string {
	name := fmt.Sprintf("scan_results_%s_%s.json", providerName, nowFunc().Format(timestampLayout))
	return filepath.Join(dir, name)
}

// Write persists the report as indented JSON at path, creating parent
// directories as needed. The report is written in a single pass; a run that
// aborts before this point leaves no partial file behind.
func Write(path string, r *Report) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := FS.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	if err := FS.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

// Load reads a report back from disk.
func Load(path string) (*Report, error) {
	data, err := FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report file: %w", err)
	}
	return &r, nil
}
