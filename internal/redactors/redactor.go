// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"time"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/preprocessors"
)

// RedactionStrategy defines the type of redaction to apply
type RedactionStrategy int

const (
	// RedactionSimple replaces sensitive data with placeholder text
	RedactionSimple RedactionStrategy = iota
	// RedactionFormatPreserving masks every digit and keeps separators, so length is preserved
	RedactionFormatPreserving
	// RedactionMaskLast4 masks everything except the last four digits
	RedactionMaskLast4
)

// String returns the string representation of the redaction strategy
func (rs RedactionStrategy) String() string {
	switch rs {
	case RedactionSimple:
		return "simple"
	case RedactionFormatPreserving:
		return "format_preserving"
	case RedactionMaskLast4:
		return "mask_last4"
	default:
		return "unknown"
	}
}

// MarshalText writes the strategy name into JSON and YAML output
func (rs RedactionStrategy) MarshalText() ([]byte, error) {
	return []byte(rs.String()), nil
}

// UnmarshalText parses a strategy name
func (rs *RedactionStrategy) UnmarshalText(text []byte) error {
	parsed, err := ParseRedactionStrategy(string(text))
	if err != nil {
		return err
	}
	*rs = parsed
	return nil
}

// ParseRedactionStrategy converts a string to RedactionStrategy. An empty
// string selects format_preserving.
func ParseRedactionStrategy(s string) (RedactionStrategy, error) {
	switch s {
	case "simple":
		return RedactionSimple, nil
	case "format_preserving", "":
		return RedactionFormatPreserving, nil
	case "mask_last4":
		return RedactionMaskLast4, nil
	default:
		return RedactionFormatPreserving, fmt.Errorf("unknown redaction strategy %q (valid: simple, format_preserving, mask_last4)", s)
	}
}

// ContentRedactor writes redacted copies of already-extracted content
type ContentRedactor interface {
	// GetName returns the name of the redactor
	GetName() string

	// RedactContent writes content with every match replaced to outputPath
	RedactContent(content *preprocessors.ProcessedContent, outputPath string, matches []detector.Match, strategy RedactionStrategy) (*RedactionResult, error)
}

// RedactionResult contains the results of a redaction operation
type RedactionResult struct {
	// Success indicates whether the redaction was successful
	Success bool

	// RedactedFilePath is the path to the redacted document
	RedactedFilePath string

	// RedactionMap contains details of all redactions performed
	RedactionMap []RedactionMapping

	// Skipped counts matches that overlapped an earlier redaction or had bad offsets
	Skipped int

	// Hashes of the text before and after redaction
	OriginalContentHash string
	RedactedContentHash string

	// ProcessingTime is the time taken to perform the redaction
	ProcessingTime time.Duration

	// Error contains any error that occurred during redaction
	Error error
}

// RedactionMapping represents a single redaction operation. It never holds
// the original text.
type RedactionMapping struct {
	// RedactedText is the replacement text
	RedactedText string `json:"redacted_text"`

	// Position is the position in the extracted text
	Position TextPosition `json:"position"`

	// DataType is the type of sensitive data (e.g., "SSN")
	DataType string `json:"data_type"`

	// Strategy is the redaction strategy used
	Strategy RedactionStrategy `json:"strategy"`

	// Confidence is the confidence score of the finding that was redacted
	Confidence float64 `json:"confidence"`
}

// TextPosition represents a position in text content
type TextPosition struct {
	// Line is the line number (1-based)
	Line int `json:"line"`

	// StartChar is the starting byte position in the line (0-based)
	StartChar int `json:"start_char"`

	// EndChar is the ending byte position in the line, exclusive
	EndChar int `json:"end_char"`

	// Offset is the byte offset of the match in the whole text
	Offset int `json:"offset"`
}
