// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"fmt"

	"ssn-finder/internal/help"
)

// GetCheckInfo returns standardized information about the SSN check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	b := v.finder.Bounds()
	return help.CheckInfo{
		Name:             v.matchType,
		ShortDescription: "Detects Social Security Numbers in OCR output, tolerating recognition noise",
		DetailedDescription: `The SSN check looks for two hyphen separators with digit groups around them. Each group may
contain OCR unrecognized-character markers, which stand in for a digit the engine could not read,
and a little space or underscore noise. A doubled hyphen counts as one separator. Adjacent spans
that touch or overlap are reported as one finding.

Accepted spans are then scored: canonical NNN-NN-NNNN grouping, clean digits, a valid area number
and supporting context raise confidence; OCR noise, unassigned area/group/serial numbers, known
sample numbers and phone/account context lower it.`,

		Patterns: []string{
			"NNN-NN-NNNN (canonical)",
			"NNN--NN-NNNN (doubled separator)",
			fmt.Sprintf("N%cN-NN-NN NN (OCR noise)", v.finder.UnrecognizedChar()),
		},

		SupportedFormats: []string{
			fmt.Sprintf("Leading group: %d-%d digits", b.MinLeadingDigits, b.MaxLeadingDigits),
			fmt.Sprintf("Middle group: %d-%d digits", b.MinMiddleDigits, b.MaxMiddleDigits),
			fmt.Sprintf("Trailing group: %d-%d digits", b.MinTrailingDigits, b.MaxTrailingDigits),
			fmt.Sprintf("At most %d spaces and %d unrecognized characters per match", b.MaxSpaces, b.MaxUnrecognized),
			fmt.Sprintf("At least %d digits per match", b.MinTotalDigits),
		},

		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Shape", Description: "Digit groups of 3, 2 and 4", Weight: 15},
			{Name: "Valid Area", Description: "Area number is not 000, 666 or 9xx", Weight: 10},
			{Name: "OCR Noise", Description: "Penalty per unrecognized character", Weight: 8},
			{Name: "Spacing", Description: "Penalty per space inside the match", Weight: 5},
			{Name: "Not Test Number", Description: "Must not match published sample numbers", Weight: 25},
			{Name: "Context", Description: "Keywords on the same or nearby lines", Weight: 50},
		},

		PositiveKeywords: v.positiveKeywords,
		NegativeKeywords: v.negativeKeywords,

		ConfigurationInfo: `Bounds, the unrecognized marker and the reported type are set under ssn_finder in the
configuration file (min_leading_digits, max_spaces, unrecognized_char, match_type, ...).`,

		Examples: []string{
			"ssn-finder --file scanned-forms/ --recursive",
			"ssn-finder --file ocr.txt --format json --confidence high,medium",
			"ssn-finder --file batch.pdf --enable-redaction --redaction-strategy mask_last4",
		},
	}
}
