// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"fmt"
	"strings"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/observability"
	"ssn-finder/internal/security"
	"ssn-finder/internal/ssnfinder"
)

// DefaultMatchType is the finding type reported unless configured otherwise.
const DefaultMatchType = "SSN"

// Validator implements the detector.Validator interface for detecting
// Social Security Numbers in OCR output using the hyphen-pair scanner and
// contextual analysis.
type Validator struct {
	finder           *ssnfinder.Finder
	matchType        string
	contextExtractor *detector.ContextExtractor

	// Keywords that suggest an SSN context
	positiveKeywords []string

	// Keywords that suggest this is not an SSN
	negativeKeywords []string

	// Domain-specific keywords for context analysis
	hrKeywords         []string
	taxKeywords        []string
	healthcareKeywords []string

	// Context words that indicate sample data
	testPatterns []string

	// Published or advertised numbers that were never issued to a person
	knownTestNumbers map[string]bool

	observer *observability.StandardObserver
}

// NewValidator creates a Validator using the default scanner bounds.
func NewValidator() *Validator {
	return NewValidatorWithFinder(ssnfinder.Default())
}

// NewValidatorWithFinder creates a Validator around a configured scanner.
func NewValidatorWithFinder(finder *ssnfinder.Finder) *Validator {
	if finder == nil {
		finder = ssnfinder.Default()
	}
	return &Validator{
		finder:           finder,
		matchType:        DefaultMatchType,
		contextExtractor: detector.NewContextExtractor(),
		positiveKeywords: []string{
			"ssn", "ss#", "ss no", "soc sec", "social security", "social security number",
			"taxpayer id", "tin", "identification number", "employee id",
			"federal id", "government id", "benefits", "medicare", "medicaid",
			"irs", "w2", "w-2", "1099", "tax return", "payroll", "borrower", "applicant",
		},
		negativeKeywords: []string{
			"phone", "telephone", "tel", "fax", "zip", "postal", "area code",
			"extension", "ext", "routing", "account", "acct", "invoice", "order",
			"part no", "serial", "model", "case no", "docket", "loan no", "policy no",
		},
		hrKeywords: []string{
			"payroll", "human resources", "employee", "personnel", "employment",
			"hire", "onboarding", "compensation",
		},
		taxKeywords: []string{
			"tax", "w2", "w-2", "1099", "irs", "taxpayer", "withholding", "tax year",
		},
		healthcareKeywords: []string{
			"medical", "medicare", "medicaid", "insurance", "patient", "health plan",
			"member id", "subscriber",
		},
		testPatterns: []string{
			"test", "example", "sample", "specimen", "demo", "placeholder", "dummy", "void",
		},
		knownTestNumbers: map[string]bool{
			"078051120": true, // printed on wallet inserts
			"219099999": true, // used in an SSA advertisement
			"123456789": true,
			"987654321": true,
		},
	}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

// SetMatchType overrides the finding type; an empty name keeps the default.
func (v *Validator) SetMatchType(name string) {
	if name = strings.TrimSpace(name); name != "" {
		v.matchType = name
	}
}

// MatchType returns the finding type reported by this validator.
func (v *Validator) MatchType() string {
	return v.matchType
}

// Finder returns the underlying scanner.
func (v *Validator) Finder() *ssnfinder.Finder {
	return v.finder
}

// Name implements detector.Validator
func (v *Validator) Name() string {
	return "ssn"
}

// ValidateContent scans extracted text and converts every accepted span
// into a match.
func (v *Validator) ValidateContent(content string, originalPath string) ([]detector.Match, error) {
	var finishTiming func(bool, map[string]interface{})
	if v.observer != nil {
		finishTiming = v.observer.StartTiming("ssn_validator", "validate_content", originalPath)
	}
	finishStep := observability.Steps(v.observer)("ssn_validator", "validate_content", originalPath)

	segments := v.finder.FindAll(content)
	matches := make([]detector.Match, 0, len(segments))

	for _, seg := range segments {
		text := seg.Text(content)
		stats := v.finder.Describe(content, seg)

		confidence, checks := v.scoreStats(stats)

		contextInfo := v.contextExtractor.ExtractFromContent(content, seg.Start, seg.End)
		contextImpact := v.AnalyzeContext(text, contextInfo)
		confidence += contextImpact

		contextInfo.PositiveKeywords = v.findKeywords(contextInfo.FullLine, v.positiveKeywords)
		contextInfo.NegativeKeywords = v.findKeywords(contextInfo.FullLine, v.negativeKeywords)
		contextInfo.ConfidenceImpact = contextImpact

		if len(contextInfo.PositiveKeywords) == 0 {
			if len(contextInfo.NegativeKeywords) > 0 {
				confidence -= 20
			} else if confidence > 80 {
				confidence = 80 // Cap below HIGH without supporting context
			}
		}

		if confidence > 100 {
			confidence = 100
		} else if confidence < 0 {
			confidence = 0
		}

		// Skip matches with 0% confidence - they are false positives
		if confidence <= 0 {
			continue
		}

		matches = append(matches, detector.Match{
			Text:       text,
			SecureText: security.NewSecureString(text),
			LineNumber: detector.LineNumber(content, seg.Start),
			Start:      seg.Start,
			End:        seg.End,
			Type:       v.matchType,
			Confidence: confidence,
			Filename:   originalPath,
			Validator:  v.Name(),
			Context:    contextInfo,
			Metadata: map[string]any{
				"validation_checks":  checks,
				"context_impact":     contextImpact,
				"shape":              stats.Shape(),
				"digit_count":        stats.Digits,
				"unrecognized_chars": stats.Unrecognized,
				"space_count":        stats.Spaces,
				"merged":             stats.Separators > 2,
				"source":             "preprocessed_content",
			},
		})
	}

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{"match_count": len(matches), "candidate_count": len(segments)})
	}
	finishStep(true, fmt.Sprintf("%d SSN candidates, %d reported", len(segments), len(matches)))

	return matches, nil
}

// RedactionCandidates returns every span the scanner accepts as an unscored
// match. Spans that ValidateContent drops at 0 confidence are included, so a
// redacted copy never keeps an SSN-shaped token.
func (v *Validator) RedactionCandidates(content string, originalPath string) []detector.Match {
	segments := v.finder.FindAll(content)
	candidates := make([]detector.Match, 0, len(segments))
	for _, seg := range segments {
		candidates = append(candidates, detector.Match{
			Text:       seg.Text(content),
			LineNumber: detector.LineNumber(content, seg.Start),
			Start:      seg.Start,
			End:        seg.End,
			Type:       v.matchType,
			Filename:   originalPath,
			Validator:  v.Name(),
		})
	}
	return candidates
}

// AnalyzeContext analyzes the context around a match and returns a confidence adjustment
func (v *Validator) AnalyzeContext(match string, context detector.ContextInfo) float64 {
	var sb strings.Builder
	sb.WriteString(context.BeforeText)
	sb.WriteString(" ")
	sb.WriteString(context.FullLine)
	sb.WriteString(" ")
	sb.WriteString(context.AfterText)
	fullContext := strings.ToLower(sb.String())
	line := strings.ToLower(context.FullLine)

	impact := v.domainBoost(fullContext)

	for _, keyword := range v.positiveKeywords {
		if !containsWord(fullContext, keyword) {
			continue
		}
		if containsWord(line, keyword) {
			impact += 25
		} else {
			impact += 10
		}
	}

	for _, keyword := range v.negativeKeywords {
		if !containsWord(fullContext, keyword) {
			continue
		}
		if containsWord(line, keyword) {
			impact -= 15
		} else {
			impact -= 8
		}
	}

	for _, pattern := range v.testPatterns {
		if containsWord(fullContext, pattern) {
			impact -= 40
			break
		}
	}

	if impact > 50 {
		impact = 50
	} else if impact < -50 {
		impact = -50
	}

	return impact
}

// domainBoost applies at most one boost per document domain
func (v *Validator) domainBoost(context string) float64 {
	boost := 0.0
	domains := []struct {
		keywords []string
		boost    float64
	}{
		{v.hrKeywords, 20},
		{v.taxKeywords, 25},
		{v.healthcareKeywords, 18},
	}
	for _, d := range domains {
		for _, keyword := range d.keywords {
			if containsWord(context, keyword) {
				boost += d.boost
				break
			}
		}
	}
	return boost
}

// findKeywords returns the keywords present in line
func (v *Validator) findKeywords(line string, keywords []string) []string {
	lower := strings.ToLower(line)
	var found []string
	for _, keyword := range keywords {
		if containsWord(lower, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

// containsWord reports whether keyword occurs in text bounded by non-letters,
// so "tin" does not fire inside "testing".
func containsWord(text, keyword string) bool {
	for offset := 0; offset <= len(text); {
		idx := strings.Index(text[offset:], keyword)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(keyword)
		if (start == 0 || !isLetter(text[start-1])) && (end == len(text) || !isLetter(text[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
