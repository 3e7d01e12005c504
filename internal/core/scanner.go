// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"ssn-finder/internal/config"
	"ssn-finder/internal/detector"
	"ssn-finder/internal/observability"
	"ssn-finder/internal/parallel"
	"ssn-finder/internal/preprocessors"
	"ssn-finder/internal/redactors"
	"ssn-finder/internal/redactors/plaintext"
	"ssn-finder/internal/redactors/strategies"
	"ssn-finder/internal/suppressions"
	"ssn-finder/internal/validators/ssn"
	"ssn-finder/internal/version"
)

// ScanConfig holds configuration for scanning operations.
type ScanConfig struct {
	Inputs          []string
	Recursive       bool
	ExcludePatterns []string
	Workers         int
	// Config supplies scanner bounds, preprocessing and redaction defaults.
	// Nil means the built-in defaults.
	Config *config.Config

	// PreprocessOnly extracts text without validating it
	PreprocessOnly bool

	EnableRedaction    bool
	RedactionStrategy  string
	RedactionOutputDir string
	RedactionAuditLog  string

	// SuppressionManager, when non-nil, is applied to matches before returning.
	// ScanResult.SuppressedCount and SuppressedMatches are populated accordingly.
	SuppressionManager *suppressions.SuppressionManager

	Observer *observability.StandardObserver
	Progress parallel.ProgressCallback
}

// FileError is a file that could not be scanned
type FileError struct {
	Path string
	Err  error
}

// ScanResult holds the results of a scanning operation.
type ScanResult struct {
	Matches           []detector.Match
	SuppressedMatches []detector.SuppressedMatch
	SuppressedCount   int

	Files          []string
	ProcessedFiles int
	SkippedFiles   []SkippedFile
	Errors         []FileError

	// Contents holds extracted text per file, in Files order, for
	// preprocess-only scans
	Contents []*preprocessors.ProcessedContent

	Redactions []*redactors.RedactionResult
	AuditLogs  *redactors.AuditLogManager

	Stats    *parallel.ProcessingStats
	Duration time.Duration
}

// Clear wipes match text held by the result
func (r *ScanResult) Clear() {
	for i := range r.Matches {
		r.Matches[i].Clear()
	}
	for i := range r.SuppressedMatches {
		r.SuppressedMatches[i].Match.Clear()
	}
	for _, c := range r.Contents {
		if c != nil {
			c.Text = ""
		}
	}
}

// BuildPreprocessorManager registers the preprocessors enabled in cfg.
// Plain text is always available; PDF and image extraction follow
// preprocessors.text_extraction.
func BuildPreprocessorManager(cfg *config.Config, observer *observability.StandardObserver) *preprocessors.PreprocessorManager {
	pm := preprocessors.NewPreprocessorManager()
	pm.RegisterPreprocessor(preprocessors.NewPlainTextPreprocessor())

	extraction := cfg.Preprocessors.TextExtraction
	if extraction.Enabled {
		if hasType(extraction.Types, "pdf") {
			pm.RegisterPreprocessor(preprocessors.NewPDFTextPreprocessor())
		}
		if hasType(extraction.Types, "image") {
			pm.RegisterPreprocessor(preprocessors.NewImageMetadataPreprocessor())
		}
	}

	pm.SetNormalization(cfg.Preprocessors.Normalization.Enabled)
	pm.SetObserver(observer)
	return pm
}

func hasType(types []string, name string) bool {
	return slices.ContainsFunc(types, func(t string) bool {
		return strings.EqualFold(strings.TrimSpace(t), name)
	})
}

// BuildValidator creates the SSN validator from the ssn_finder section
func BuildValidator(cfg *config.Config, observer *observability.StandardObserver) (*ssn.Validator, error) {
	finder, err := cfg.NewFinder()
	if err != nil {
		return nil, fmt.Errorf("invalid ssn_finder configuration: %w", err)
	}
	validator := ssn.NewValidatorWithFinder(finder)
	validator.SetMatchType(cfg.SSNFinder.MatchType)
	validator.SetObserver(observer)
	return validator, nil
}

// buildRedaction returns the worker pipeline's redaction wiring
func buildRedaction(scanConfig ScanConfig, cfg *config.Config, observer *observability.StandardObserver) (*redactors.OutputStructureManager, redactors.ContentRedactor, redactors.RedactionStrategy, error) {
	strategyName := scanConfig.RedactionStrategy
	if strategyName == "" {
		strategyName = cfg.Redaction.Strategy
	}
	strategy, err := redactors.ParseRedactionStrategy(strategyName)
	if err != nil {
		return nil, nil, strategy, err
	}

	outputDir := scanConfig.RedactionOutputDir
	if outputDir == "" {
		outputDir = cfg.Redaction.OutputDir
	}
	outputManager, err := redactors.NewOutputStructureManager(outputDir, observer)
	if err != nil {
		return nil, nil, strategy, err
	}

	marker, err := cfg.UnrecognizedMarker()
	if err != nil {
		return nil, nil, strategy, err
	}
	redactionContext := strategies.DefaultContext()
	redactionContext.UnrecognizedChar = marker
	redactionContext.Replacement = cfg.Redaction.Replacement

	redactor := plaintext.NewPlainTextRedactor(outputManager, observer)
	redactor.SetRedactionContext(redactionContext)
	return outputManager, redactor, strategy, nil
}

// ScanFiles collects the inputs, scans them in parallel and applies
// suppressions and redaction. Per-file failures are reported in
// ScanResult.Errors; the returned error covers setup problems and
// cancellation.
func ScanFiles(ctx context.Context, scanConfig ScanConfig) (*ScanResult, error) {
	start := time.Now()

	cfg := scanConfig.Config
	if cfg == nil {
		cfg = config.LoadConfigOrDefault("")
	}
	observer := scanConfig.Observer

	var finishTiming func(bool, map[string]interface{})
	if observer != nil {
		finishTiming = observer.StartTiming("scanner", "scan_files", strings.Join(scanConfig.Inputs, ","))
	}
	finishStep := observability.Steps(observer)("scanner", "scan_files", strings.Join(scanConfig.Inputs, ","))

	pm := BuildPreprocessorManager(cfg, observer)
	pipeline := &parallel.Pipeline{
		Preprocessors:  pm,
		PreprocessOnly: scanConfig.PreprocessOnly,
		JobTimeout:     5 * time.Minute,
	}

	if !scanConfig.PreprocessOnly {
		validator, err := BuildValidator(cfg, observer)
		if err != nil {
			return nil, err
		}
		pipeline.Validator = validator

		if scanConfig.EnableRedaction {
			om, redactor, strategy, err := buildRedaction(scanConfig, cfg, observer)
			if err != nil {
				return nil, fmt.Errorf("failed to set up redaction: %w", err)
			}
			pipeline.OutputManager = om
			pipeline.Redactor = redactor
			pipeline.RedactionStrategy = strategy
		}
	}

	collection, err := CollectFiles(scanConfig.Inputs, scanConfig.Recursive, scanConfig.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		SkippedFiles: collection.SkippedFiles,
		AuditLogs:    redactors.NewAuditLogManager(),
	}
	for _, path := range collection.FilesToProcess {
		if pm.GetPreprocessor(path) == nil {
			result.SkippedFiles = append(result.SkippedFiles, SkippedFile{Path: path, Reason: "unsupported file type", Silent: true})
			continue
		}
		result.Files = append(result.Files, path)
	}

	processor := parallel.NewParallelProcessor(scanConfig.Workers, pipeline, observer)
	results, stats := processor.ProcessFilesWithProgress(ctx, result.Files, scanConfig.Progress)
	result.Stats = stats

	var matches []detector.Match
	for _, r := range results {
		if scanConfig.PreprocessOnly {
			result.Contents = append(result.Contents, r.Content)
		}
		if r.Error != nil {
			result.Errors = append(result.Errors, FileError{Path: r.FilePath, Err: r.Error})
			continue
		}
		result.ProcessedFiles++
		matches = append(matches, r.Matches...)

		if r.RedactionResult != nil && r.RedactionResult.Success {
			result.Redactions = append(result.Redactions, r.RedactionResult)
			result.AuditLogs.Add(redactors.NewRedactionAuditLog(r.FilePath, version.Tool(), r.RedactionResult, pipeline.RedactionStrategy))
		}
	}

	if scanConfig.SuppressionManager != nil {
		result.Matches, result.SuppressedMatches = scanConfig.SuppressionManager.Apply(matches)
	} else {
		result.Matches = matches
	}
	result.SuppressedCount = len(result.SuppressedMatches)

	auditPath := scanConfig.RedactionAuditLog
	if auditPath == "" {
		auditPath = cfg.Redaction.AuditLog
	}
	if pipeline.Redactor != nil && auditPath != "" && len(result.Redactions) > 0 {
		if err := result.AuditLogs.Save(auditPath); err != nil {
			return result, fmt.Errorf("failed to write audit log: %w", err)
		}
	}

	result.Duration = time.Since(start)

	if finishTiming != nil {
		finishTiming(ctx.Err() == nil, map[string]interface{}{
			"match_count":      len(result.Matches),
			"suppressed_count": result.SuppressedCount,
			"files":            len(result.Files),
			"failed_files":     len(result.Errors),
			"redacted_files":   len(result.Redactions),
		})
	}
	finishStep(ctx.Err() == nil, fmt.Sprintf("%d files, %d findings, %d suppressed", len(result.Files), len(result.Matches), result.SuppressedCount))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// ParseConfidenceLevels converts a comma-separated confidence level string into a map.
// "all" or empty string enables every level.
func ParseConfidenceLevels(levels string) map[string]bool {
	result := map[string]bool{
		"high":   false,
		"medium": false,
		"low":    false,
	}

	if levels == "all" || levels == "" {
		result["high"] = true
		result["medium"] = true
		result["low"] = true
		return result
	}

	for _, level := range strings.Split(levels, ",") {
		switch l := strings.ToLower(strings.TrimSpace(level)); l {
		case "high", "medium", "low":
			result[l] = true
		}
	}

	return result
}
