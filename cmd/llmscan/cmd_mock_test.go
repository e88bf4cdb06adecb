// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/llmscan/internal/testable"
)

// withMockFS swaps cmdFS with the given mock and restores it on test cleanup.
func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = mock
	t.Cleanup(func() { cmdFS = orig })
}

func TestRunScan_AbsError(t *testing.T) {
	resetScanFlags()
	withMockFS(t, &testable.MockFileSystem{
		AbsFn: func(string) (string, error) {
			return "", fmt.Errorf("mock abs error")
		},
	})

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"scan", "."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve path")
}

func TestRunScan_EvalSymlinksError(t *testing.T) {
	resetScanFlags()
	withMockFS(t, &testable.MockFileSystem{
		EvalSymlinksFn: func(string) (string, error) {
			return "", fmt.Errorf("mock symlink error")
		},
	})

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"scan", "."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve path")
}

func TestRunScan_StatError(t *testing.T) {
	resetScanFlags()
	dir := t.TempDir()
	ghost := filepath.Join(dir, "gone")

	withMockFS(t, &testable.MockFileSystem{
		AbsFn:          func(string) (string, error) { return ghost, nil },
		EvalSymlinksFn: func(path string) (string, error) { return path, nil },
		StatFn: func(string) (os.FileInfo, error) {
			return nil, os.ErrNotExist
		},
	})

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"scan", dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRunAnalyze_CSVWriteError(t *testing.T) {
	resetAnalyzeFlags()
	reportPath := writeAnalyzeFixture(t, fixtureReport())

	withMockFS(t, &testable.MockFileSystem{
		WriteFileFn: func(string, []byte, os.FileMode) error {
			return fmt.Errorf("mock write error")
		},
	})

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"analyze", reportPath, "--csv", filepath.Join(t.TempDir(), "out.csv")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to export CSV")
}

func TestVersionCmd_InProcess(t *testing.T) {
	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "llmscan")
	assert.Contains(t, out, Version)
}
