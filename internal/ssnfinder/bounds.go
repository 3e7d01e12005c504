// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssnfinder

import "fmt"

// DefaultUnrecognizedChar is the placeholder OCR engines emit for a glyph
// they could not identify.
const DefaultUnrecognizedChar = '^'

// Bounds holds the per-segment and whole-match limits used to accept a
// hyphen-delimited candidate. Digit counts include unrecognized markers.
type Bounds struct {
	MinLeadingDigits  int `yaml:"min_leading_digits"`
	MaxLeadingDigits  int `yaml:"max_leading_digits"`
	MinMiddleDigits   int `yaml:"min_middle_digits"`
	MaxMiddleDigits   int `yaml:"max_middle_digits"`
	MinTrailingDigits int `yaml:"min_trailing_digits"`
	MaxTrailingDigits int `yaml:"max_trailing_digits"`

	// Limits across the leading, middle and trailing segments combined
	MaxSpaces       int `yaml:"max_spaces"`
	MaxUnrecognized int `yaml:"max_unrecognized"`
	MinTotalDigits  int `yaml:"min_total_digits"`
}

// DefaultBounds returns the limits tuned for NNN-NN-NNNN tokens in OCR output.
func DefaultBounds() Bounds {
	return Bounds{
		MinLeadingDigits:  2,
		MaxLeadingDigits:  4,
		MinMiddleDigits:   0,
		MaxMiddleDigits:   3,
		MinTrailingDigits: 2,
		MaxTrailingDigits: 5,
		MaxSpaces:         2,
		MaxUnrecognized:   3,
		MinTotalDigits:    5,
	}
}

// Validate reports the first inconsistent limit.
func (b Bounds) Validate() error {
	pairs := []struct {
		name     string
		min, max int
	}{
		{"leading", b.MinLeadingDigits, b.MaxLeadingDigits},
		{"middle", b.MinMiddleDigits, b.MaxMiddleDigits},
		{"trailing", b.MinTrailingDigits, b.MaxTrailingDigits},
	}
	for _, p := range pairs {
		if p.min < 0 || p.max < 0 {
			return fmt.Errorf("%s digit bounds must not be negative (min=%d, max=%d)", p.name, p.min, p.max)
		}
		if p.min > p.max {
			return fmt.Errorf("%s digit minimum %d exceeds maximum %d", p.name, p.min, p.max)
		}
	}
	if b.MaxSpaces < 0 {
		return fmt.Errorf("max_spaces must not be negative, got %d", b.MaxSpaces)
	}
	if b.MaxUnrecognized < 0 {
		return fmt.Errorf("max_unrecognized must not be negative, got %d", b.MaxUnrecognized)
	}
	if b.MinTotalDigits < 0 {
		return fmt.Errorf("min_total_digits must not be negative, got %d", b.MinTotalDigits)
	}
	return nil
}
