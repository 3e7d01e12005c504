// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"ssn-finder/internal/redactors"
	"ssn-finder/internal/security"
)

// FormatPreservingStrategy masks every digit and unrecognized marker while
// keeping hyphens, spaces and underscores in place
type FormatPreservingStrategy struct {
	name string
}

// NewFormatPreservingStrategy creates a new format-preserving strategy
func NewFormatPreservingStrategy() *FormatPreservingStrategy {
	return &FormatPreservingStrategy{name: "format_preserving_strategy"}
}

// GetStrategyType returns the redaction strategy type
func (fps *FormatPreservingStrategy) GetStrategyType() redactors.RedactionStrategy {
	return redactors.RedactionFormatPreserving
}

// GetStrategyName returns the name of the strategy implementation
func (fps *FormatPreservingStrategy) GetStrategyName() string {
	return fps.name
}

// RedactText masks the digits of originalText; the result has the same length
func (fps *FormatPreservingStrategy) RedactText(originalText, dataType string, context RedactionContext) (*RedactionResult, error) {
	secure := security.NewSecureString(originalText)
	defer secure.Clear()

	return &RedactionResult{
		RedactedText:    secure.Masked(context.maskChar(), 0, context.unrecognizedChar()),
		Strategy:        redactors.RedactionFormatPreserving,
		DataType:        dataType,
		PreservedLength: true,
	}, nil
}
