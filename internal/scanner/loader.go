// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package scanner

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// FileContent is a source file decoded to text and capped for prompt
// assembly.
type FileContent struct {
	// Text is the decoded content, truncated to the requested cap.
	Text string

	// Size is the character count before truncation.
	Size int

	// LineCount is the line count before truncation.
	LineCount int

	// Truncated reports whether Text was cut to the cap.
	Truncated bool
}

// Load reads path and decodes it to text, trying UTF-8, then GBK, then
// Latin-1. Content longer than truncateChars characters is cut at that
// boundary.
func Load(path string, truncateChars int) (*FileContent, error) {
	raw, err := FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := decode(raw)
	fc := &FileContent{
		Size:      utf8.RuneCountInString(text),
		LineCount: strings.Count(text, "\n") + 1,
		Text:      text,
	}
	if truncateChars > 0 && fc.Size > truncateChars {
		fc.Text = string([]rune(text)[:truncateChars])
		fc.Truncated = true
	}
	return fc, nil
}

// decode tries UTF-8, then GBK, then Latin-1. The x/text decoders
// substitute U+FFFD for bytes they cannot map instead of failing, so a
// replacement rune in the GBK output means the content is not GBK.
// Latin-1 maps every byte, so the ladder always produces text.
func decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if text, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw); err == nil &&
		!bytes.ContainsRune(text, utf8.RuneError) {
		return string(text)
	}
	text, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	return string(text)
}
