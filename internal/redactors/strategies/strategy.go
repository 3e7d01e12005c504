// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"fmt"

	"ssn-finder/internal/redactors"
	"ssn-finder/internal/ssnfinder"
)

// RedactionStrategyImplementation defines the interface for redaction strategy implementations
type RedactionStrategyImplementation interface {
	// GetStrategyType returns the redaction strategy type
	GetStrategyType() redactors.RedactionStrategy

	// GetStrategyName returns the name of the strategy implementation
	GetStrategyName() string

	// RedactText returns the replacement for originalText
	RedactText(originalText, dataType string, context RedactionContext) (*RedactionResult, error)
}

// RedactionContext provides context for redaction operations
type RedactionContext struct {
	// UnrecognizedChar is the OCR placeholder that stands in for an unread digit
	UnrecognizedChar byte

	// Replacement overrides the simple strategy's placeholder when set
	Replacement string

	// MaskChar is the byte written over masked characters
	MaskChar byte
}

// DefaultContext returns a context using the default OCR marker and 'X' masks
func DefaultContext() RedactionContext {
	return RedactionContext{
		UnrecognizedChar: ssnfinder.DefaultUnrecognizedChar,
		MaskChar:         'X',
	}
}

func (c RedactionContext) maskChar() byte {
	if c.MaskChar == 0 {
		return 'X'
	}
	return c.MaskChar
}

func (c RedactionContext) unrecognizedChar() byte {
	if c.UnrecognizedChar == 0 {
		return ssnfinder.DefaultUnrecognizedChar
	}
	return c.UnrecognizedChar
}

// RedactionResult represents the result of a redaction operation
type RedactionResult struct {
	// RedactedText is the redacted version of the original text
	RedactedText string

	// Strategy is the strategy that was used
	Strategy redactors.RedactionStrategy

	// DataType is the detected data type
	DataType string

	// PreservedLength indicates whether the length was preserved
	PreservedLength bool
}

// New returns the implementation for strategy
func New(strategy redactors.RedactionStrategy) (RedactionStrategyImplementation, error) {
	switch strategy {
	case redactors.RedactionSimple:
		return NewSimpleRedactionStrategy(), nil
	case redactors.RedactionFormatPreserving:
		return NewFormatPreservingStrategy(), nil
	case redactors.RedactionMaskLast4:
		return NewMaskLast4Strategy(), nil
	default:
		return nil, fmt.Errorf("unsupported redaction strategy: %s", strategy)
	}
}
