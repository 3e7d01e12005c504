// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ssnfinder locates Social Security Number shaped tokens in OCR
// output. A candidate is two hyphen separators with digit groups around
// them; the groups may contain OCR unrecognized-character markers and a
// small amount of space or underscore noise.
package ssnfinder

import (
	"fmt"
	"strings"
)

// StringSegment is a half-open byte range [Start, End) into scanned text.
type StringSegment struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the segment.
func (s StringSegment) Len() int {
	return s.End - s.Start
}

// Text returns the covered substring of text.
func (s StringSegment) Text(text string) string {
	return text[s.Start:s.End]
}

// Finder scans text with a fixed set of bounds. It holds no per-scan state
// and is safe for concurrent use.
type Finder struct {
	bounds       Bounds
	unrecognized byte
}

// New creates a Finder. The unrecognized marker may not be a character the
// scanner already assigns a role to.
func New(bounds Bounds, unrecognized byte) (*Finder, error) {
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid finder bounds: %w", err)
	}
	if (unrecognized >= '0' && unrecognized <= '9') || unrecognized == '-' ||
		unrecognized == ' ' || unrecognized == '_' || unrecognized == '\r' || unrecognized == '\n' {
		return nil, fmt.Errorf("unrecognized character marker %q collides with a separator, space or digit", unrecognized)
	}
	return &Finder{bounds: bounds, unrecognized: unrecognized}, nil
}

// Default returns a Finder using DefaultBounds and DefaultUnrecognizedChar.
func Default() *Finder {
	return &Finder{bounds: DefaultBounds(), unrecognized: DefaultUnrecognizedChar}
}

// Bounds returns the limits this Finder applies.
func (f *Finder) Bounds() Bounds {
	return f.bounds
}

// UnrecognizedChar returns the OCR placeholder treated as a possible digit.
func (f *Finder) UnrecognizedChar() byte {
	return f.unrecognized
}

// FindAll splits text on CR and LF and scans every line.
func (f *Finder) FindAll(text string) []StringSegment {
	var all []StringSegment
	lineStart := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '\n' && text[i] != '\r' {
			continue
		}
		if i > lineStart {
			all = append(all, f.Scan(text, lineStart, i)...)
		}
		lineStart = i + 1
	}
	return all
}

// Scan returns the accepted spans within text[lineStart:lineEnd], sorted
// and non-overlapping. Indices outside the text are clamped.
func (f *Finder) Scan(text string, lineStart, lineEnd int) []StringSegment {
	lineStart, lineEnd = clampRange(len(text), lineStart, lineEnd)
	if lineStart >= lineEnd {
		return nil
	}

	first := nextHyphen(text, lineStart, lineEnd)
	if first < 0 {
		return nil
	}
	firstEnd := separatorEnd(text, first, lineEnd)

	var segments []StringSegment
	for {
		second := nextHyphen(text, firstEnd, lineEnd)
		if second < 0 {
			break
		}
		secondEnd := separatorEnd(text, second, lineEnd)

		seg, ok := f.evaluate(text, lineStart, lineEnd, first, firstEnd, second, secondEnd)
		if !ok {
			// The second separator may still open a valid pair of its own
			first, firstEnd = second, secondEnd
			continue
		}

		segments = appendMerged(segments, seg)

		first = nextHyphen(text, secondEnd, lineEnd)
		if first < 0 {
			break
		}
		firstEnd = separatorEnd(text, first, lineEnd)
	}

	return segments
}

// evaluate classifies the three groups around one separator pair.
func (f *Finder) evaluate(text string, lineStart, lineEnd, first, firstEnd, second, secondEnd int) (StringSegment, bool) {
	start, leading, ok := f.walkLeading(text, lineStart, first)
	if !ok {
		return StringSegment{}, false
	}

	middle, ok := f.walkMiddle(text, firstEnd, second)
	if !ok {
		return StringSegment{}, false
	}

	end, trailing, ok := f.walkTrailing(text, secondEnd, lineEnd)
	if !ok {
		return StringSegment{}, false
	}

	total := leading.plus(middle).plus(trailing)
	if total.spaces > f.bounds.MaxSpaces ||
		total.unrecognized > f.bounds.MaxUnrecognized ||
		total.digits < f.bounds.MinTotalDigits {
		return StringSegment{}, false
	}

	return StringSegment{Start: start, End: end}, true
}

// walkLeading moves left from the first separator and returns the leftmost
// start whose group satisfies the leading bounds. Counts are those inside
// the returned start, so spaces beyond the last digit are not charged.
func (f *Finder) walkLeading(text string, lineStart, separator int) (int, counts, bool) {
	var running, accepted counts
	start := -1
	if f.bounds.MinLeadingDigits == 0 {
		start = separator
	}

	for i := separator - 1; i >= lineStart; i-- {
		class := f.classify(text[i])
		if class == classDisqualifying {
			break
		}
		running.add(class)
		n := running.digitLike()
		if n > f.bounds.MaxLeadingDigits {
			break
		}
		if class != classSpace && n >= f.bounds.MinLeadingDigits {
			start = i
			accepted = running
		}
	}

	return start, accepted, start >= 0
}

// walkMiddle classifies every byte between the separators. Any
// disqualifying byte, an empty group or a count outside the bounds rejects.
func (f *Finder) walkMiddle(text string, from, to int) (counts, bool) {
	var c counts
	for i := from; i < to; i++ {
		class := f.classify(text[i])
		if class == classDisqualifying {
			return counts{}, false
		}
		c.add(class)
	}

	if c == (counts{}) {
		return counts{}, false
	}
	n := c.digitLike()
	if n < f.bounds.MinMiddleDigits || n > f.bounds.MaxMiddleDigits {
		return counts{}, false
	}
	return c, true
}

// walkTrailing moves right from the second separator and returns the
// rightmost exclusive end whose group satisfies the trailing bounds.
func (f *Finder) walkTrailing(text string, separatorEnd, lineEnd int) (int, counts, bool) {
	var running, accepted counts
	end := -1
	if f.bounds.MinTrailingDigits == 0 {
		end = separatorEnd
	}

	for i := separatorEnd; i < lineEnd; i++ {
		class := f.classify(text[i])
		if class == classDisqualifying {
			break
		}
		running.add(class)
		n := running.digitLike()
		if n > f.bounds.MaxTrailingDigits {
			break
		}
		if class != classSpace && n >= f.bounds.MinTrailingDigits {
			end = i + 1
			accepted = running
		}
	}

	return end, accepted, end >= 0
}

// appendMerged coalesces seg into the last span when they touch or overlap.
func appendMerged(segments []StringSegment, seg StringSegment) []StringSegment {
	if n := len(segments); n > 0 && seg.Start <= segments[n-1].End {
		if seg.End > segments[n-1].End {
			segments[n-1].End = seg.End
		}
		return segments
	}
	return append(segments, seg)
}

func nextHyphen(text string, from, end int) int {
	if from >= end {
		return -1
	}
	idx := strings.IndexByte(text[from:end], '-')
	if idx < 0 {
		return -1
	}
	return from + idx
}

// separatorEnd treats "--" as a single separator.
func separatorEnd(text string, hyphen, end int) int {
	if hyphen+1 < end && text[hyphen+1] == '-' {
		return hyphen + 2
	}
	return hyphen + 1
}

func clampRange(n, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	return start, end
}
