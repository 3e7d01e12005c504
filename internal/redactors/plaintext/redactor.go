// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package plaintext

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/observability"
	"ssn-finder/internal/preprocessors"
	"ssn-finder/internal/redactors"
	"ssn-finder/internal/redactors/strategies"
)

// PlainTextRedactor writes redacted copies of extracted text
type PlainTextRedactor struct {
	observer      *observability.StandardObserver
	outputManager *redactors.OutputStructureManager
	context       strategies.RedactionContext
}

// NewPlainTextRedactor creates a new PlainTextRedactor
func NewPlainTextRedactor(outputManager *redactors.OutputStructureManager, observer *observability.StandardObserver) *PlainTextRedactor {
	return &PlainTextRedactor{
		observer:      observer,
		outputManager: outputManager,
		context:       strategies.DefaultContext(),
	}
}

// SetRedactionContext sets the OCR marker, mask byte and simple replacement
func (ptr *PlainTextRedactor) SetRedactionContext(ctx strategies.RedactionContext) {
	ptr.context = ctx
}

// GetName returns the name of the redactor
func (ptr *PlainTextRedactor) GetName() string {
	return "Plain Text Redactor"
}

// GetComponentName returns the component name for observability
func (ptr *PlainTextRedactor) GetComponentName() string {
	return "plaintext_redactor"
}

// RedactContent writes content.Text with every match replaced to outputPath
func (ptr *PlainTextRedactor) RedactContent(content *preprocessors.ProcessedContent, outputPath string, matches []detector.Match, strategy redactors.RedactionStrategy) (*redactors.RedactionResult, error) {
	var finishTiming func(bool, map[string]interface{})
	if ptr.observer != nil {
		finishTiming = ptr.observer.StartTiming("plaintext_redactor", "redact_content", content.OriginalPath)
	} else {
		finishTiming = func(bool, map[string]interface{}) {}
	}
	finishStep := observability.Steps(ptr.observer)("plaintext_redactor", "redact_content", content.OriginalPath)

	fail := func(err error) (*redactors.RedactionResult, error) {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		finishStep(false, err.Error())
		return &redactors.RedactionResult{Success: false, Error: err}, err
	}

	startTime := time.Now()

	redactedText, redactionMap, skipped, err := ptr.RedactText(content.Text, matches, strategy)
	if err != nil {
		return fail(fmt.Errorf("failed to redact text: %w", err))
	}

	if ptr.outputManager != nil {
		if err := ptr.outputManager.EnsureDirectoryExists(outputPath); err != nil {
			return fail(fmt.Errorf("failed to ensure output directory: %w", err))
		}
	}

	// Redacted copies are written owner-only
	if err := os.WriteFile(outputPath, []byte(redactedText), 0600); err != nil {
		return fail(fmt.Errorf("failed to write redacted file: %w", err))
	}

	result := &redactors.RedactionResult{
		Success:             true,
		RedactedFilePath:    outputPath,
		RedactionMap:        redactionMap,
		Skipped:             skipped,
		OriginalContentHash: redactors.GenerateDocumentHash([]byte(content.Text)),
		RedactedContentHash: redactors.GenerateDocumentHash([]byte(redactedText)),
		ProcessingTime:      time.Since(startTime),
	}

	finishTiming(true, map[string]interface{}{
		"output_path": outputPath,
		"match_count": len(redactionMap),
		"strategy":    strategy.String(),
	})
	finishStep(true, fmt.Sprintf("%d redactions, %d skipped", len(redactionMap), skipped))

	return result, nil
}

// RedactText applies matches to text from the end backwards so earlier
// offsets stay valid. A match overlapping one already applied, or whose
// offsets fall outside text, is skipped and counted.
func (ptr *PlainTextRedactor) RedactText(text string, matches []detector.Match, strategy redactors.RedactionStrategy) (string, []redactors.RedactionMapping, int, error) {
	impl, err := strategies.New(strategy)
	if err != nil {
		return "", nil, 0, err
	}

	sorted := sortMatchesByPosition(matches)

	redacted := text
	mappings := make([]redactors.RedactionMapping, 0, len(sorted))
	skipped := 0
	floor := len(text) + 1 // lowest start applied so far

	for _, match := range sorted {
		if match.Start < 0 || match.End > len(text) || match.Start >= match.End || match.End > floor {
			skipped++
			continue
		}

		original := text[match.Start:match.End]
		replacement, err := impl.RedactText(original, match.Type, ptr.context)
		if err != nil {
			return "", nil, 0, fmt.Errorf("strategy %s failed: %w", impl.GetStrategyName(), err)
		}

		redacted = redacted[:match.Start] + replacement.RedactedText + redacted[match.End:]
		floor = match.Start

		lineStart := strings.LastIndexAny(text[:match.Start], "\r\n") + 1
		mappings = append(mappings, redactors.RedactionMapping{
			RedactedText: replacement.RedactedText,
			Position: redactors.TextPosition{
				Line:      detector.LineNumber(text, match.Start),
				StartChar: match.Start - lineStart,
				EndChar:   match.End - lineStart,
				Offset:    match.Start,
			},
			DataType:   match.Type,
			Strategy:   strategy,
			Confidence: match.Confidence,
		})
	}

	// Report in document order
	for i, j := 0, len(mappings)-1; i < j; i, j = i+1, j-1 {
		mappings[i], mappings[j] = mappings[j], mappings[i]
	}

	return redacted, mappings, skipped, nil
}

// sortMatchesByPosition orders matches by descending start, longer first on ties
func sortMatchesByPosition(matches []detector.Match) []detector.Match {
	sorted := make([]detector.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start > sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})
	return sorted
}
