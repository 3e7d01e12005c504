// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"strings"

	"golang.org/x/text/width"
)

// ocrReplacer maps the dash and blank variants OCR engines and PDF
// producers emit onto the ASCII bytes the scanner classifies.
var ocrReplacer = strings.NewReplacer(
	"\u2010", "-", // hyphen
	"\u2011", "-", // non-breaking hyphen
	"\u2012", "-", // figure dash
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2015", "-", // horizontal bar
	"\u2212", "-", // minus sign
	"\ufe58", "-", // small em dash
	"\ufe63", "-", // small hyphen-minus
	"\u00a0", " ", // no-break space
	"\u2007", " ", // figure space
	"\u202f", " ", // narrow no-break space
)

// NormalizeOCRText folds full-width forms to ASCII and dash variants to '-'
func NormalizeOCRText(text string) string {
	if isASCII(text) {
		return text
	}
	return ocrReplacer.Replace(width.Fold.String(text))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
