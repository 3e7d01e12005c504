// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"ssn-finder/internal/observability"
)

const (
	maxTextFileSize  = 100 * 1024 * 1024 // 100MB
	maxTextFileLines = 1000000
)

// PlainTextPreprocessor passes text files and OCR text exports through
// the same pipeline as extracted documents
type PlainTextPreprocessor struct {
	observer *observability.StandardObserver
}

// NewPlainTextPreprocessor creates a new plain text preprocessor
func NewPlainTextPreprocessor() *PlainTextPreprocessor {
	return &PlainTextPreprocessor{}
}

// SetObserver sets the observability component
func (ptp *PlainTextPreprocessor) SetObserver(observer *observability.StandardObserver) {
	ptp.observer = observer
}

// GetName returns the name of this preprocessor
func (ptp *PlainTextPreprocessor) GetName() string {
	return "Plain Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (ptp *PlainTextPreprocessor) GetSupportedExtensions() []string {
	return []string{
		".txt", ".text", ".log", ".md",
		// OCR engine text exports
		".uss", ".ocr", ".hocr",
		// Data files
		".csv", ".tsv", ".json", ".jsonl", ".xml", ".yaml", ".yml", ".html", ".htm",
	}
}

// CanProcess checks if this preprocessor can handle the given file
func (ptp *PlainTextPreprocessor) CanProcess(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		// For files without extension, do a quick content check
		return IsTextFile(filePath)
	}

	for _, supportedExt := range ptp.GetSupportedExtensions() {
		if ext == supportedExt {
			// Some OCR tools write binary sidecars under the same extensions
			return ext != ".uss" || IsTextFile(filePath)
		}
	}
	return false
}

// Process extracts text content from the file
func (ptp *PlainTextPreprocessor) Process(ctx context.Context, filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if ptp.observer != nil {
		finishTiming = ptp.observer.StartTiming("plaintext_preprocessor", "process_file", filePath)
	}
	finishStep := observability.Steps(ptp.observer)("plaintext_preprocessor", "process_file", filePath)

	content, err := readTextFile(filePath)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		finishStep(false, fmt.Sprintf("Failed to read text file: %v", err))
		return &ProcessedContent{
			OriginalPath:  filePath,
			Filename:      filepath.Base(filePath),
			ProcessorType: "plaintext",
			Success:       false,
			Error:         err,
		}, err
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          content,
		Format:        "Plain Text",
		PageCount:     1,
		ProcessorType: "plaintext",
		Success:       true,
		Metadata:      make(map[string]interface{}),
	}
	result.countStats()

	if ext := strings.ToLower(filepath.Ext(filePath)); ext != "" {
		result.Metadata["file_extension"] = ext
	}

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"word_count": result.WordCount,
			"char_count": result.CharCount,
			"line_count": result.LineCount,
		})
	}
	finishStep(true, fmt.Sprintf("Processed plain text file: %d words, %d lines", result.WordCount, result.LineCount))

	return result, nil
}

// readTextFile reads a text file, limiting its size and repairing invalid UTF-8
func readTextFile(filePath string) (string, error) {
	cleanPath := filepath.Clean(filePath)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}
	if fileInfo.Size() > maxTextFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), maxTextFileSize)
	}

	fileContent, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	content := string(fileContent)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
	}

	if lineCount := strings.Count(content, "\n") + 1; lineCount > maxTextFileLines {
		return "", fmt.Errorf("file has too many lines: %d (max: %d)", lineCount, maxTextFileLines)
	}

	return content, nil
}

// IsTextFile reports whether the first 512 bytes of filePath look like text:
// no NUL bytes and more than 95% printable ASCII.
func IsTextFile(filePath string) bool {
	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return false
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil || n == 0 {
		return false
	}
	buffer = buffer[:n]

	printableCount := 0
	for _, b := range buffer {
		if b == 0 {
			return false
		}
		if (b >= 32 && b <= 126) || b == 9 || b == 10 || b == 13 {
			printableCount++
		}
	}

	return float64(printableCount)/float64(len(buffer)) > 0.95
}
