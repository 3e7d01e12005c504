// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssnfinder

import (
	"strconv"
	"strings"
)

// SegmentStats summarizes the characters inside an accepted span.
type SegmentStats struct {
	Digits       int
	Unrecognized int
	Spaces       int
	Separators   int
	// Groups holds the digit-like count of each hyphen-delimited group
	Groups []int
	// Normalized is the span with spaces, underscores and separators removed
	Normalized string
}

// Shape renders the group sizes, e.g. "3-2-4".
func (s SegmentStats) Shape() string {
	parts := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, "-")
}

// IsCanonical reports a clean NNN-NN-NNNN span.
func (s SegmentStats) IsCanonical() bool {
	return s.Shape() == "3-2-4" && s.Unrecognized == 0 && s.Spaces == 0
}

// Describe classifies the bytes of seg. Merged spans yield more than three
// groups.
func (f *Finder) Describe(text string, seg StringSegment) SegmentStats {
	start, end := clampRange(len(text), seg.Start, seg.End)

	var stats SegmentStats
	var normalized strings.Builder
	group := 0
	for i := start; i < end; i++ {
		b := text[i]
		if b == '-' {
			// A doubled hyphen closes a single group
			if i > start && text[i-1] == '-' {
				continue
			}
			stats.Separators++
			stats.Groups = append(stats.Groups, group)
			group = 0
			continue
		}
		switch f.classify(b) {
		case classDigit:
			stats.Digits++
			group++
			normalized.WriteByte(b)
		case classUnrecognized:
			stats.Unrecognized++
			group++
			normalized.WriteByte(b)
		case classSpace:
			stats.Spaces++
		}
	}
	if end > start {
		stats.Groups = append(stats.Groups, group)
	}
	stats.Normalized = normalized.String()
	return stats
}
