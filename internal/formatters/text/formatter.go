// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/formatters"
	"ssn-finder/internal/formatters/shared"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and aligned columns"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(matches []detector.Match, suppressedMatches []detector.SuppressedMatch, options formatters.FormatterOptions) (string, error) {
	filteredMatches := shared.FilterMatchesByConfidence(matches, options)

	if len(filteredMatches) == 0 && len(suppressedMatches) == 0 {
		if len(matches) > 0 {
			return "No matches found at the specified confidence levels.\n", nil
		}
		return "No matches found.\n", nil
	}

	return f.formatTextWithSuppressed(filteredMatches, suppressedMatches, options), nil
}

// paint renders format in the named color unless colors are disabled
func (f *Formatter) paint(options formatters.FormatterOptions, name, format string, args ...interface{}) string {
	if options.NoColor {
		return fmt.Sprintf(format, args...)
	}
	return f.colors[name].Sprintf(format, args...)
}

func levelColor(level string) string {
	switch level {
	case "HIGH":
		return "red"
	case "MEDIUM":
		return "yellow"
	default:
		return "green"
	}
}

// formatTextWithSuppressed formats matches and suppressed findings as text output
func (f *Formatter) formatTextWithSuppressed(matches []detector.Match, suppressedMatches []detector.SuppressedMatch, options formatters.FormatterOptions) string {
	var builder strings.Builder

	matches = sortMatches(matches)
	all := make([]detector.Match, 0, len(matches)+len(suppressedMatches))
	all = append(all, matches...)
	for _, s := range suppressedMatches {
		all = append(all, s.Match)
	}

	if !options.Verbose {
		f.appendHeaders(&builder, all, options)
	}

	for _, match := range matches {
		if options.Verbose {
			f.appendDetailedMatch(&builder, match, options)
		} else {
			f.appendSummaryLine(&builder, match, all, false, options)
		}
	}

	for _, suppressed := range suppressedMatches {
		if options.Verbose {
			f.appendDetailedSuppressedMatch(&builder, suppressed, options)
		} else {
			f.appendSummaryLine(&builder, suppressed.Match, all, true, options)
		}
	}

	return builder.String()
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, matches []detector.Match, options formatters.FormatterOptions) {
	matchWidth := calculateMatchColumnWidth(matches, options)
	builder.WriteString(f.paint(options, "white", "%-8s %-8s %-14s %-8s %-10s %-*s %s\n",
		"LEVEL", "CHECK", "TYPE", "CONF%", "LINE", matchWidth, "MATCH", "FILE"))

	totalWidth := 8 + 1 + 8 + 1 + 14 + 1 + 8 + 1 + 10 + 1 + matchWidth + 1 + 10
	builder.WriteString(f.paint(options, "white", "%s\n", strings.Repeat("-", totalWidth)))
}

// calculateMatchColumnWidth returns the width of the match column, between
// the hidden placeholder and 30 runes
func calculateMatchColumnWidth(matches []detector.Match, options formatters.FormatterOptions) int {
	width := len(shared.HiddenText)
	if !options.ShowMatch {
		return width
	}
	for _, match := range matches {
		width = max(width, len([]rune(flatten(match.Text))))
	}
	return min(width, 30)
}

func flatten(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
}

// appendSummaryLine adds a single line summary to the string builder
func (f *Formatter) appendSummaryLine(builder *strings.Builder, match detector.Match, allMatches []detector.Match, suppressed bool, options formatters.FormatterOptions) {
	confidenceLevel := shared.GetConfidenceLevel(match.Confidence)

	levelStr := f.paint(options, levelColor(confidenceLevel), "[%-6s]", confidenceLevel)
	if suppressed {
		// Same column width as "[MEDIUM]"
		levelStr = f.paint(options, "white", "%-8s", "[SUPP]")
	}

	typeDisplay := match.Type
	if len(typeDisplay) > 14 {
		typeDisplay = typeDisplay[:11] + "..."
	}

	validatorName := match.Validator
	if len(validatorName) > 8 {
		validatorName = validatorName[:5] + "..."
	}

	// Pad to the column width by rune count
	targetWidth := calculateMatchColumnWidth(allMatches, options)
	matchText := flatten(shared.DisplayText(match, options))
	if runes := []rune(matchText); len(runes) > targetWidth {
		matchText = string(runes[:targetWidth-3]) + "..."
	}
	if padding := targetWidth - len([]rune(matchText)); padding > 0 {
		matchText += strings.Repeat(" ", padding)
	}

	fmt.Fprintf(builder, "%s %s %s %s %s %s %s\n",
		levelStr,
		f.paint(options, "green", "%-8s", validatorName),
		f.paint(options, "cyan", "%-14s", typeDisplay),
		f.paint(options, "blue", "%7.2f%%", match.Confidence),
		f.paint(options, "magenta", "line %5d", match.LineNumber),
		matchText,
		f.paint(options, "white", "%s", getSmartFilename(match.Filename, allMatches)))
}

// appendDetailedMatch adds detailed match information to the string builder
func (f *Formatter) appendDetailedMatch(builder *strings.Builder, match detector.Match, options formatters.FormatterOptions) {
	confidenceLevel := shared.GetConfidenceLevel(match.Confidence)

	builder.WriteString(f.paint(options, "white", "=== Match Details ===\n"))
	builder.WriteString(f.paint(options, "cyan", "Match found in ") +
		f.paint(options, "white", "%s", match.Filename) +
		f.paint(options, "cyan", " on ") +
		f.paint(options, "magenta", "line %d", match.LineNumber) +
		f.paint(options, "cyan", ": %s\n", shared.DisplayText(match, options)))

	f.appendField(builder, options, "Type", match.Type)
	f.appendField(builder, options, "Position", fmt.Sprintf("bytes %d-%d", match.Start, match.End))
	if shape, ok := match.Metadata["shape"].(string); ok {
		f.appendField(builder, options, "Digit groups", shape)
	}
	if n, ok := match.Metadata["unrecognized_chars"].(int); ok && n > 0 {
		f.appendField(builder, options, "Unrecognized characters", fmt.Sprintf("%d", n))
	}
	if merged, ok := match.Metadata["merged"].(bool); ok && merged {
		f.appendField(builder, options, "Merged", "adjacent candidates joined into one span")
	}
	if rule, ok := match.Metadata["expired_suppression"].(string); ok {
		builder.WriteString(f.paint(options, "cyan", "Expired suppression: ") + f.paint(options, "red", "%s\n", rule))
	}

	builder.WriteString(f.paint(options, "cyan", "Confidence level: ") +
		f.paint(options, "white", "%.2f%% ", match.Confidence) +
		f.paint(options, levelColor(confidenceLevel), "(%s)\n", confidenceLevel))

	if impact, ok := match.Metadata["context_impact"].(float64); ok {
		builder.WriteString(f.paint(options, "cyan", "Context impact: "))
		switch {
		case impact > 0:
			builder.WriteString(f.paint(options, "green", "+%.2f%%\n", impact))
		case impact < 0:
			builder.WriteString(f.paint(options, "red", "%.2f%%\n", impact))
		default:
			builder.WriteString(f.paint(options, "white", "0.00%%\n"))
		}
	}

	if checks, ok := match.Metadata["validation_checks"].(map[string]bool); ok && len(checks) > 0 {
		builder.WriteString(f.paint(options, "cyan", "Validation results:\n"))
		names := make([]string, 0, len(checks))
		for check := range checks {
			names = append(names, check)
		}
		sort.Strings(names)
		for _, check := range names {
			result := "red"
			if checks[check] {
				result = "green"
			}
			fmt.Fprintf(builder, "- %s: %s", formatCheckName(check), f.paint(options, result, "%v\n", checks[check]))
		}
	}

	if len(match.Context.PositiveKeywords) > 0 || len(match.Context.NegativeKeywords) > 0 {
		builder.WriteString(f.paint(options, "cyan", "Context analysis:\n"))
		if len(match.Context.PositiveKeywords) > 0 {
			fmt.Fprintf(builder, "- Supporting keywords: %s", f.paint(options, "green", "%s\n", strings.Join(match.Context.PositiveKeywords, ", ")))
		}
		if len(match.Context.NegativeKeywords) > 0 {
			fmt.Fprintf(builder, "- Contradicting keywords: %s", f.paint(options, "red", "%s\n", strings.Join(match.Context.NegativeKeywords, ", ")))
		}
	}

	// Surrounding text can hold other numbers, so it follows ShowMatch
	if options.ShowMatch && (match.Context.BeforeText != "" || match.Context.AfterText != "") {
		builder.WriteString(f.paint(options, "cyan", "Context snippet:\n"))
		fmt.Fprintf(builder, "... %s%s%s ...\n",
			flatten(match.Context.BeforeText),
			f.paint(options, "yellow", "[%s]", match.Text),
			flatten(match.Context.AfterText))
	}

	builder.WriteString("\n")
}

func (f *Formatter) appendField(builder *strings.Builder, options formatters.FormatterOptions, name, value string) {
	builder.WriteString(f.paint(options, "cyan", "%s: ", name) + f.paint(options, "white", "%s\n", value))
}

// appendDetailedSuppressedMatch adds detailed suppressed match information to the string builder
func (f *Formatter) appendDetailedSuppressedMatch(builder *strings.Builder, suppressed detector.SuppressedMatch, options formatters.FormatterOptions) {
	builder.WriteString(f.paint(options, "white", "=== Suppressed Match ===\n"))
	f.appendField(builder, options, "Suppressed by", suppressed.SuppressedBy)
	f.appendField(builder, options, "Reason", suppressed.RuleReason)
	if suppressed.ExpiresAt != nil {
		status := formatExpirationStatus(*suppressed.ExpiresAt, time.Now())
		name := "white"
		if suppressed.Expired {
			name = "red"
		}
		builder.WriteString(f.paint(options, "cyan", "Expiration: ") + f.paint(options, name, "%s\n", status))
	}

	f.appendDetailedMatch(builder, suppressed.Match, options)
}

// formatCheckName formats a check name from snake_case to Title Case
func formatCheckName(check string) string {
	words := strings.Split(check, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// sortMatches returns matches ordered by confidence level, then score, then
// file and position
func sortMatches(matches []detector.Match) []detector.Match {
	priority := map[string]int{"HIGH": 0, "MEDIUM": 1, "LOW": 2}
	sorted := make([]detector.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		pa, pb := priority[shared.GetConfidenceLevel(a.Confidence)], priority[shared.GetConfidenceLevel(b.Confidence)]
		if pa != pb {
			return pa < pb
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Start < b.Start
	})
	return sorted
}

// getSmartFilename returns the basename, or parent/basename when another
// match shares the basename
func getSmartFilename(fullPath string, allMatches []detector.Match) string {
	basename := filepath.Base(fullPath)
	if basename == fullPath {
		return fullPath
	}

	for _, match := range allMatches {
		if match.Filename != fullPath && filepath.Base(match.Filename) == basename {
			return filepath.Join(filepath.Base(filepath.Dir(fullPath)), basename)
		}
	}
	return basename
}

// formatExpirationStatus returns a human-readable expiration status
func formatExpirationStatus(expiresAt, now time.Time) string {
	if now.After(expiresAt) {
		switch daysAgo := int(now.Sub(expiresAt).Hours() / 24); daysAgo {
		case 0:
			return "expired today"
		case 1:
			return "expired 1 day ago"
		default:
			return fmt.Sprintf("expired %d days ago", daysAgo)
		}
	}

	switch daysUntil := int(expiresAt.Sub(now).Hours() / 24); daysUntil {
	case 0:
		return "expires today"
	case 1:
		return "expires in 1 day"
	default:
		return fmt.Sprintf("expires in %d days", daysUntil)
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
