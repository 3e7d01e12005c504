// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"testing"

	"ssn-finder/internal/redactors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy redactors.RedactionStrategy
		input    string
		dataType string
		want     string
	}{
		{"simple ssn", redactors.RedactionSimple, "123-45-6789", "SSN", "[SSN-REDACTED]"},
		{"simple custom type", redactors.RedactionSimple, "123-45-6789", "tax id", "[TAX_ID-REDACTED]"},
		{"format preserving", redactors.RedactionFormatPreserving, "123-45-6789", "SSN", "XXX-XX-XXXX"},
		{"format preserving noisy", redactors.RedactionFormatPreserving, "12^ 4--56_6789", "SSN", "XXX X--XX_XXXX"},
		{"mask last4", redactors.RedactionMaskLast4, "123-45-6789", "SSN", "XXX-XX-6789"},
		{"mask last4 short", redactors.RedactionMaskLast4, "12-345", "SSN", "X2-345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impl, err := New(tt.strategy)
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, impl.GetStrategyType())

			result, err := impl.RedactText(tt.input, tt.dataType, DefaultContext())
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.RedactedText)
			assert.Equal(t, tt.dataType, result.DataType)
			if tt.strategy != redactors.RedactionSimple {
				assert.Len(t, result.RedactedText, len(tt.input))
				assert.True(t, result.PreservedLength)
			}
		})
	}
}

func TestSimpleRedactionStrategy_Replacement(t *testing.T) {
	ctx := DefaultContext()
	ctx.Replacement = "***"

	result, err := NewSimpleRedactionStrategy().RedactText("123-45-6789", "SSN", ctx)
	require.NoError(t, err)
	assert.Equal(t, "***", result.RedactedText)
}

func TestFormatPreserving_CustomMarkerAndMask(t *testing.T) {
	ctx := RedactionContext{UnrecognizedChar: '~', MaskChar: '#'}

	result, err := NewFormatPreservingStrategy().RedactText("1~3-45-6789", "SSN", ctx)
	require.NoError(t, err)
	assert.Equal(t, "###-##-####", result.RedactedText)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(redactors.RedactionStrategy(99))
	assert.Error(t, err)
}
