// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"ssn-finder/internal/redactors"
	"ssn-finder/internal/security"
)

const visibleDigits = 4

// MaskLast4Strategy keeps the last four digits readable, the convention on
// benefit statements and tax forms
type MaskLast4Strategy struct {
	name string
}

// NewMaskLast4Strategy creates a new mask_last4 strategy
func NewMaskLast4Strategy() *MaskLast4Strategy {
	return &MaskLast4Strategy{name: "mask_last4_strategy"}
}

// GetStrategyType returns the redaction strategy type
func (m *MaskLast4Strategy) GetStrategyType() redactors.RedactionStrategy {
	return redactors.RedactionMaskLast4
}

// GetStrategyName returns the name of the strategy implementation
func (m *MaskLast4Strategy) GetStrategyName() string {
	return m.name
}

// RedactText masks all but the last four digits or markers of originalText
func (m *MaskLast4Strategy) RedactText(originalText, dataType string, context RedactionContext) (*RedactionResult, error) {
	secure := security.NewSecureString(originalText)
	defer secure.Clear()

	return &RedactionResult{
		RedactedText:    secure.Masked(context.maskChar(), visibleDigits, context.unrecognizedChar()),
		Strategy:        redactors.RedactionMaskLast4,
		DataType:        dataType,
		PreservedLength: true,
	}, nil
}
