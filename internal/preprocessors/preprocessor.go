// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"ssn-finder/internal/observability"
)

// ProcessedContent represents content that has been processed by a preprocessor
type ProcessedContent struct {
	// Original file information
	OriginalPath string
	Filename     string

	// Extracted content. Match offsets refer to this text, after normalization.
	Text string

	// Content metadata
	Format    string
	PageCount int
	WordCount int
	CharCount int
	LineCount int

	// Processing information
	ProcessorType string
	Success       bool
	Error         error
	Normalized    bool

	Metadata map[string]interface{}
}

// Preprocessor interface defines methods for preprocessing files
type Preprocessor interface {
	// CanProcess checks if this preprocessor can handle the given file
	CanProcess(filePath string) bool

	// Process extracts content from the file
	Process(ctx context.Context, filePath string) (*ProcessedContent, error)

	// GetName returns the name of this preprocessor
	GetName() string

	// GetSupportedExtensions returns the file extensions this preprocessor supports
	GetSupportedExtensions() []string

	// SetObserver sets the observability component
	SetObserver(observer *observability.StandardObserver)
}

// PreprocessorManager manages all available preprocessors
type PreprocessorManager struct {
	preprocessors []Preprocessor
	normalize     bool
}

// NewPreprocessorManager creates a new preprocessor manager
func NewPreprocessorManager() *PreprocessorManager {
	return &PreprocessorManager{
		preprocessors: make([]Preprocessor, 0),
	}
}

// RegisterPreprocessor adds a preprocessor to the manager
func (pm *PreprocessorManager) RegisterPreprocessor(p Preprocessor) {
	pm.preprocessors = append(pm.preprocessors, p)
}

// SetNormalization toggles OCR normalization of extracted text
func (pm *PreprocessorManager) SetNormalization(enabled bool) {
	pm.normalize = enabled
}

// SetObserver passes the observer to every registered preprocessor
func (pm *PreprocessorManager) SetObserver(observer *observability.StandardObserver) {
	for _, p := range pm.preprocessors {
		p.SetObserver(observer)
	}
}

// GetPreprocessor returns the appropriate preprocessor for a file, or nil if none found
func (pm *PreprocessorManager) GetPreprocessor(filePath string) Preprocessor {
	for _, p := range pm.preprocessors {
		if p.CanProcess(filePath) {
			return p
		}
	}
	return nil
}

// ProcessFile runs the registered preprocessors that accept filePath in
// registration order and returns the first successful result.
func (pm *PreprocessorManager) ProcessFile(ctx context.Context, filePath string) (*ProcessedContent, error) {
	var available []Preprocessor
	for _, p := range pm.preprocessors {
		if p.CanProcess(filePath) {
			available = append(available, p)
		}
	}

	if len(available) == 0 {
		err := fmt.Errorf("no preprocessor supports %s", filepath.Base(filePath))
		return &ProcessedContent{
			OriginalPath:  filePath,
			Filename:      filepath.Base(filePath),
			ProcessorType: "none",
			Success:       false,
			Error:         err,
		}, err
	}

	var lastError error
	for _, preprocessor := range available {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := preprocessor.Process(ctx, filePath)
		if err == nil && result != nil && result.Success {
			if pm.normalize {
				pm.applyNormalization(result)
			}
			return result, nil
		}
		lastError = err
	}

	return &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		ProcessorType: "failed",
		Success:       false,
		Error:         lastError,
	}, lastError
}

// GetAvailablePreprocessors returns all registered preprocessors
func (pm *PreprocessorManager) GetAvailablePreprocessors() []Preprocessor {
	return pm.preprocessors
}

func (pm *PreprocessorManager) applyNormalization(result *ProcessedContent) {
	normalized := NormalizeOCRText(result.Text)
	if normalized == result.Text {
		return
	}
	result.Text = normalized
	result.Normalized = true
	result.CharCount = len(normalized)
	if result.Metadata == nil {
		result.Metadata = make(map[string]interface{})
	}
	result.Metadata["normalized"] = true
}

// countStats fills the word, character and line counts from Text
func (pc *ProcessedContent) countStats() {
	pc.WordCount = len(strings.Fields(pc.Text))
	pc.CharCount = len(pc.Text)
	pc.LineCount = strings.Count(pc.Text, "\n") + 1
}
