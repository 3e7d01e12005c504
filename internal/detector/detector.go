// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"time"

	"ssn-finder/internal/security"
)

// ContextInfo stores contextual information about a match
type ContextInfo struct {
	// Text before and after the match
	BeforeText string
	AfterText  string

	// Line containing the match
	FullLine string

	// Contextual keywords found near the match
	PositiveKeywords []string
	NegativeKeywords []string

	// Impact on confidence score
	ConfidenceImpact float64
}

// Validator detects sensitive tokens in already-extracted document text
type Validator interface {
	// ValidateContent scans extracted text for the given source file
	ValidateContent(content string, originalPath string) ([]Match, error)

	CalculateConfidence(match string) (float64, map[string]bool)
	AnalyzeContext(match string, context ContextInfo) float64

	// Name identifies the validator in findings
	Name() string
}

// Match represents a detected sensitive data match
type Match struct {
	Text       string
	SecureText *security.SecureString
	LineNumber int
	// Start and End are byte offsets into the extracted text, End exclusive
	Start      int
	End        int
	Type       string
	Confidence float64
	Metadata   map[string]any
	Filename   string
	Validator  string

	Context ContextInfo
}

// SuppressedMatch represents a finding that was suppressed by a rule
type SuppressedMatch struct {
	Match        Match      `json:"finding"`
	SuppressedBy string     `json:"suppressed_by"`
	RuleReason   string     `json:"rule_reason"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Expired      bool       `json:"expired"`
}

// Clear securely wipes sensitive data from memory
func (m *Match) Clear() {
	m.Text = ""
	if m.SecureText != nil {
		m.SecureText.Clear()
		m.SecureText = nil
	}

	m.Context.BeforeText = ""
	m.Context.AfterText = ""
	m.Context.FullLine = ""
}
