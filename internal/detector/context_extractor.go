// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
)

// ContextExtractor cuts surrounding text out of extracted content
type ContextExtractor struct {
	// Number of lines before and after the match to consider
	ContextLines int

	// Number of characters before and after the match to consider
	ContextChars int
}

// NewContextExtractor creates a new context extractor with default settings
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{
		ContextLines: 1,
		ContextChars: 50,
	}
}

// WithContextLines sets the number of context lines
func (ce *ContextExtractor) WithContextLines(lines int) *ContextExtractor {
	ce.ContextLines = lines
	return ce
}

// WithContextChars sets the number of context characters
func (ce *ContextExtractor) WithContextChars(chars int) *ContextExtractor {
	ce.ContextChars = chars
	return ce
}

// ExtractFromContent builds context for the byte range [start, end) of
// content. Lines are delimited by CR or LF.
func (ce *ContextExtractor) ExtractFromContent(content string, start, end int) ContextInfo {
	if start < 0 {
		start = 0
	}
	if end > len(content) {
		end = len(content)
	}
	if start > end {
		return ContextInfo{}
	}

	lineStart := strings.LastIndexAny(content[:start], "\r\n") + 1
	lineEnd := len(content)
	if idx := strings.IndexAny(content[end:], "\r\n"); idx >= 0 {
		lineEnd = end + idx
	}

	info := ContextInfo{
		FullLine:   content[lineStart:lineEnd],
		BeforeText: content[max(lineStart, start-ce.ContextChars):start],
		AfterText:  content[end:min(lineEnd, end+ce.ContextChars)],
	}

	if ce.ContextLines > 0 {
		if before := previousLines(content[:lineStart], ce.ContextLines); before != "" {
			info.BeforeText = before + "\n" + info.BeforeText
		}
		if after := nextLines(content[lineEnd:], ce.ContextLines); after != "" {
			info.AfterText = info.AfterText + "\n" + after
		}
	}

	return info
}

// LineNumber returns the 1-based line holding offset. A CRLF pair counts
// as one break.
func LineNumber(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	line := 1
	for i := 0; i < offset; i++ {
		switch content[i] {
		case '\n':
			line++
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				continue
			}
			line++
		}
	}
	return line
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func previousLines(prefix string, n int) string {
	prefix = strings.TrimRight(prefix, "\r\n")
	if prefix == "" {
		return ""
	}
	lines := splitLines(prefix)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func nextLines(suffix string, n int) string {
	suffix = strings.TrimLeft(suffix, "\r\n")
	if suffix == "" {
		return ""
	}
	lines := splitLines(suffix)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
