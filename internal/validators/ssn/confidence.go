// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"strings"

	"ssn-finder/internal/ssnfinder"
)

// CalculateConfidence scores a span on its own, without surrounding context.
func (v *Validator) CalculateConfidence(match string) (float64, map[string]bool) {
	stats := v.finder.Describe(match, ssnfinder.StringSegment{Start: 0, End: len(match)})
	return v.scoreStats(stats)
}

// scoreStats derives a base confidence from the shape and digits of a span.
func (v *Validator) scoreStats(stats ssnfinder.SegmentStats) (float64, map[string]bool) {
	checks := map[string]bool{
		"canonical_shape": false,
		"no_unrecognized": stats.Unrecognized == 0,
		"no_spaces":       stats.Spaces == 0,
		"single_token":    stats.Separators <= 2,
		"nine_digits":     len(stats.Normalized) == 9,
		"valid_area":      false,
		"valid_group":     false,
		"valid_serial":    false,
		"not_test_number": true,
		"not_sequential":  true,
		"not_repeating":   true,
	}

	confidence := 60.0

	switch {
	case stats.IsCanonical():
		checks["canonical_shape"] = true
		confidence += 15
	case stats.Shape() == "3-2-4":
		// Right grouping, but OCR noise inside it
		checks["canonical_shape"] = true
		confidence += 8
	default:
		confidence -= 10
	}

	confidence -= 8 * float64(stats.Unrecognized)
	confidence -= 5 * float64(stats.Spaces)

	if !checks["single_token"] {
		confidence -= 15
	}
	if !checks["nine_digits"] {
		confidence -= 10
	}

	digits := stats.Normalized
	if len(digits) != 9 || strings.IndexByte(digits, v.finder.UnrecognizedChar()) >= 0 {
		return confidence, checks
	}

	area, group, serial := digits[0:3], digits[3:5], digits[5:9]
	if isValidArea(area) {
		checks["valid_area"] = true
		confidence += 10
	} else {
		confidence -= 20
	}
	if group != "00" {
		checks["valid_group"] = true
	} else {
		confidence -= 15
	}
	if serial != "0000" {
		checks["valid_serial"] = true
	} else {
		confidence -= 15
	}

	if v.knownTestNumbers[digits] {
		checks["not_test_number"] = false
		confidence -= 25
	}
	if isSequential(digits) {
		checks["not_sequential"] = false
		confidence -= 15
	}
	if isRepeating(digits) {
		checks["not_repeating"] = false
		confidence -= 15
	}

	return confidence, checks
}

// isValidArea rejects area numbers the SSA never assigns.
func isValidArea(area string) bool {
	return area != "000" && area != "666" && area[0] != '9'
}

// isSequential detects runs like 123456789 or 987654321, wrapping at 9/0.
func isSequential(digits string) bool {
	ascending, descending := true, true
	for i := 0; i < len(digits)-1; i++ {
		curr := int(digits[i] - '0')
		next := int(digits[i+1] - '0')
		if next != (curr+1)%10 {
			ascending = false
		}
		if next != (curr+9)%10 {
			descending = false
		}
	}
	return ascending || descending
}

func isRepeating(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}
