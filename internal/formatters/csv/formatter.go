// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/json"
	"fmt"
	"strings"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/formatters"
	"ssn-finder/internal/formatters/shared"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(matches []detector.Match, suppressedMatches []detector.SuppressedMatch, options formatters.FormatterOptions) (string, error) {
	filteredMatches := shared.FilterMatchesByConfidence(matches, options)

	headers := []string{"Filename", "Type", "Confidence Level", "Confidence %", "Line Number", "Start", "End", "Text"}
	if options.Verbose {
		headers = append(headers, "Metadata")
	}

	csvRows := []string{strings.Join(headers, ",")}
	for _, match := range filteredMatches {
		csvRows = append(csvRows, f.createCSVRow(match, options, false))
	}
	for _, suppressed := range suppressedMatches {
		csvRows = append(csvRows, f.createCSVRow(suppressed.Match, options, true))
	}

	return strings.Join(csvRows, "\n") + "\n", nil
}

// createCSVRow creates a CSV row for a match
func (f *Formatter) createCSVRow(match detector.Match, options formatters.FormatterOptions, suppressed bool) string {
	confidenceLevel := shared.GetConfidenceLevel(match.Confidence)
	if suppressed {
		confidenceLevel = "SUPPRESSED"
	}

	row := []string{
		f.escapeCSVField(match.Filename),
		f.escapeCSVField(match.Type),
		f.escapeCSVField(confidenceLevel),
		fmt.Sprintf("%.1f", match.Confidence),
		fmt.Sprintf("%d", match.LineNumber),
		fmt.Sprintf("%d", match.Start),
		fmt.Sprintf("%d", match.End),
		f.escapeCSVField(shared.DisplayText(match, options)),
	}

	if options.Verbose {
		metadataJSON, err := json.Marshal(match.Metadata)
		if err != nil {
			row = append(row, f.escapeCSVField("Error serializing metadata"))
		} else {
			row = append(row, f.escapeCSVField(string(metadataJSON)))
		}
	}

	return strings.Join(row, ",")
}

// escapeCSVField quotes a field when needed and neutralizes spreadsheet formulas
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	if strings.ContainsAny(field, ",\"\n\r") {
		return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
	}
	return field
}

// sanitizeFormulaInjection prefixes fields that a spreadsheet would run as a formula
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
