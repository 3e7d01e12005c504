// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/formatters"
)

// HiddenText replaces match text unless ShowMatch is set
const HiddenText = "[REDACTED]"

// Confidence bucket thresholds
const (
	HighThreshold   = 90.0
	MediumThreshold = 60.0
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Results    []JSONMatch      `json:"results" yaml:"results"`
	Suppressed []JSONSuppressed `json:"suppressed,omitempty" yaml:"suppressed,omitempty"`
}

// JSONMatch represents a single match in JSON/YAML format
type JSONMatch struct {
	Text            string                 `json:"text" yaml:"text"`
	LineNumber      int                    `json:"line_number" yaml:"line_number"`
	Start           int                    `json:"start" yaml:"start"`
	End             int                    `json:"end" yaml:"end"`
	Type            string                 `json:"type" yaml:"type"`
	Confidence      float64                `json:"confidence" yaml:"confidence"`
	ConfidenceLevel string                 `json:"confidence_level" yaml:"confidence_level"`
	Filename        string                 `json:"filename" yaml:"filename"`
	Validator       string                 `json:"validator,omitempty" yaml:"validator,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	FullLine        string                 `json:"full_line,omitempty" yaml:"full_line,omitempty"`
	BeforeText      string                 `json:"before_text,omitempty" yaml:"before_text,omitempty"`
	AfterText       string                 `json:"after_text,omitempty" yaml:"after_text,omitempty"`
}

// JSONSuppressed is a suppressed finding with the rule that hid it
type JSONSuppressed struct {
	Finding      JSONMatch  `json:"finding" yaml:"finding"`
	SuppressedBy string     `json:"suppressed_by" yaml:"suppressed_by"`
	RuleReason   string     `json:"rule_reason" yaml:"rule_reason"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired      bool       `json:"expired" yaml:"expired"`
}

// FilterMatchesByConfidence filters matches based on confidence level settings
func FilterMatchesByConfidence(matches []detector.Match, options formatters.FormatterOptions) []detector.Match {
	var filtered []detector.Match
	for _, match := range matches {
		if options.ConfidenceLevel[LevelKey(match.Confidence)] {
			filtered = append(filtered, match)
		}
	}
	return filtered
}

// GetConfidenceLevel returns the confidence level as a string
func GetConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= HighThreshold:
		return "HIGH"
	case confidence >= MediumThreshold:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// LevelKey returns the lower-case bucket name used in confidence filters
func LevelKey(confidence float64) string {
	switch {
	case confidence >= HighThreshold:
		return "high"
	case confidence >= MediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

// DisplayText returns the match text, or HiddenText unless ShowMatch is set
func DisplayText(match detector.Match, options formatters.FormatterOptions) string {
	if options.ShowMatch {
		return match.Text
	}
	return HiddenText
}

// ConvertMatch converts a detector match to its JSON/YAML form. Context
// text can carry the number itself, so it is only included when both
// Verbose and ShowMatch are set.
func ConvertMatch(match detector.Match, options formatters.FormatterOptions) JSONMatch {
	metadata := make(map[string]interface{}, len(match.Metadata))
	for k, v := range match.Metadata {
		metadata[k] = v
	}

	jsonMatch := JSONMatch{
		Text:            DisplayText(match, options),
		LineNumber:      match.LineNumber,
		Start:           match.Start,
		End:             match.End,
		Type:            match.Type,
		Confidence:      match.Confidence,
		ConfidenceLevel: GetConfidenceLevel(match.Confidence),
		Filename:        match.Filename,
		Validator:       match.Validator,
		Metadata:        metadata,
	}

	if options.Verbose && options.ShowMatch {
		jsonMatch.FullLine = match.Context.FullLine
		jsonMatch.BeforeText = match.Context.BeforeText
		jsonMatch.AfterText = match.Context.AfterText
	}

	return jsonMatch
}

// ConvertMatchesToJSONFormat converts detector matches to JSON/YAML format
func ConvertMatchesToJSONFormat(matches []detector.Match, suppressedMatches []detector.SuppressedMatch, options formatters.FormatterOptions) JSONResponse {
	response := JSONResponse{Results: make([]JSONMatch, 0, len(matches))}
	for _, match := range matches {
		response.Results = append(response.Results, ConvertMatch(match, options))
	}
	for _, s := range suppressedMatches {
		response.Suppressed = append(response.Suppressed, JSONSuppressed{
			Finding:      ConvertMatch(s.Match, options),
			SuppressedBy: s.SuppressedBy,
			RuleReason:   s.RuleReason,
			ExpiresAt:    s.ExpiresAt,
			Expired:      s.Expired,
		})
	}
	return response
}
