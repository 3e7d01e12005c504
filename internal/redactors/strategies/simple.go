// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"strings"

	"ssn-finder/internal/redactors"
)

// SimpleRedactionStrategy implements simple redaction with fixed replacement text
type SimpleRedactionStrategy struct {
	name string

	// replacementTemplates maps data types to their replacement templates
	replacementTemplates map[string]string
}

// NewSimpleRedactionStrategy creates a new simple redaction strategy
func NewSimpleRedactionStrategy() *SimpleRedactionStrategy {
	return &SimpleRedactionStrategy{
		name: "simple_redaction_strategy",
		replacementTemplates: map[string]string{
			"SSN":     "[SSN-REDACTED]",
			"DEFAULT": "[REDACTED]",
		},
	}
}

// GetStrategyType returns the redaction strategy type
func (srs *SimpleRedactionStrategy) GetStrategyType() redactors.RedactionStrategy {
	return redactors.RedactionSimple
}

// GetStrategyName returns the name of the strategy implementation
func (srs *SimpleRedactionStrategy) GetStrategyName() string {
	return srs.name
}

// RedactText replaces the whole match with a placeholder. Custom match types
// get "[<TYPE>-REDACTED]".
func (srs *SimpleRedactionStrategy) RedactText(originalText, dataType string, context RedactionContext) (*RedactionResult, error) {
	replacement := context.Replacement
	if replacement == "" {
		replacement = srs.template(dataType)
	}

	return &RedactionResult{
		RedactedText:    replacement,
		Strategy:        redactors.RedactionSimple,
		DataType:        dataType,
		PreservedLength: len(replacement) == len(originalText),
	}, nil
}

func (srs *SimpleRedactionStrategy) template(dataType string) string {
	if t, ok := srs.replacementTemplates[dataType]; ok {
		return t
	}
	if dataType == "" {
		return srs.replacementTemplates["DEFAULT"]
	}
	return "[" + strings.ToUpper(strings.ReplaceAll(dataType, " ", "_")) + "-REDACTED]"
}
