// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/davetashner/llmscan/internal/testable"
)

// FS is the filesystem implementation used by this package.
// Tests may substitute a mock.
var FS testable.FileSystem = testable.DefaultFS

// excludedDirs are directory names skipped during traversal. Their
// contents are never considered, whatever the pattern.
var excludedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Enumerate walks root and returns every file whose base name matches
// pattern, in the deterministic lexical order of the walk. Unreadable
// entries are skipped rather than failing the scan.
func Enumerate(ctx context.Context, root, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var files []string
	err := FS.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}
