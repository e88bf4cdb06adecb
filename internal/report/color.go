// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"

	"github.com/fatih/color"
)

// Shared color printers for scan and analyze output.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// ColorSeverity colors high/medium/low severity labels.
func ColorSeverity(val string) string {
	switch val {
	case "high", "critical":
		return colorRed.Sprint(val)
	case "medium":
		return colorYellow.Sprint(val)
	case "low", "none":
		return colorGreen.Sprint(val)
	default:
		return val
	}
}

// ColorVerdict renders the per-file status line for a scan result.
func ColorVerdict(vulnerable bool) string {
	if vulnerable {
		return colorRed.Sprint("⚠ Vulnerability found")
	}
	return colorGreen.Sprint("✓ Clean")
}

// ColorError renders a per-file failure line.
func ColorError(msg string) string {
	return colorRed.Sprintf("✗ Error: %s", msg)
}

// ColorCount colors a count: 0 is green, >0 is yellow.
func ColorCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n == 0 {
		return colorGreen.Sprint(s)
	}
	return colorYellow.Sprint(s)
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}
