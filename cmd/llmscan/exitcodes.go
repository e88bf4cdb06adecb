// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package main

// Exit codes for the llmscan CLI.
const (
	ExitOK             = 0 // Scan finished; report written.
	ExitInvalidArgs    = 1 // Invalid arguments or bad path.
	ExitPartialFailure = 2 // Some files failed under --strict; report written.
	ExitTotalFailure   = 3 // Every file failed, or no report produced.
)
