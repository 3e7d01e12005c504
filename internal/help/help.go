// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a check
type CheckInfo struct {
	Name                string             // Name of the check (e.g., "SSN")
	ShortDescription    string             // Short description for the checks list
	DetailedDescription string             // Detailed description of what the check does
	Patterns            []string           // Patterns the check looks for
	SupportedFormats    []string           // Formats or types supported by the check
	ConfidenceFactors   []ConfidenceFactor // Factors affecting confidence
	PositiveKeywords    []string           // Keywords that increase confidence
	NegativeKeywords    []string           // Keywords that decrease confidence
	ConfigurationInfo   string             // Information about how to configure the check
	Examples            []string           // Usage examples
}

// ConfidenceFactor represents a factor that affects confidence scoring
type ConfidenceFactor struct {
	Name        string  // Name of the factor
	Description string  // Description of the factor
	Weight      float64 // Weight of the factor in the confidence score (percentage)
}

// Provider defines the interface for help content providers
type Provider interface {
	GetCheckInfo() CheckInfo
}

// System manages help content for the application
type System struct {
	providers map[string]Provider
	out       io.Writer
	colors    map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	colors := map[string]*color.Color{
		"title":    color.New(color.FgWhite, color.Bold),
		"header":   color.New(color.FgBlue, color.Bold),
		"item":     color.New(color.FgCyan),
		"positive": color.New(color.FgGreen),
		"negative": color.New(color.FgRed),
		"example":  color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}

	return &System{
		providers: make(map[string]Provider),
		out:       out,
		colors:    colors,
	}
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetCheckInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// ShowGeneralHelp displays usage and the registered checks
func (h *System) ShowGeneralHelp(flagUsage func(io.Writer)) {
	h.colors["title"].Fprintln(h.out, "ssn-finder - OCR-tolerant Social Security Number scanner")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "USAGE:")
	fmt.Fprintln(h.out, "  ssn-finder --file <path> [options] [more paths...]")
	fmt.Fprintln(h.out)

	if flagUsage != nil {
		h.colors["header"].Fprintln(h.out, "OPTIONS:")
		flagUsage(h.out)
		fmt.Fprintln(h.out)
	}

	h.ShowChecksHelp()
}

// ShowChecksHelp lists every registered check with its short description
func (h *System) ShowChecksHelp() {
	h.colors["header"].Fprintln(h.out, "CHECKS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for _, name := range h.names() {
		info := h.providers[name].GetCheckInfo()
		fmt.Fprintf(w, "  %s\t%s\n", h.colors["item"].Sprint(info.Name), info.ShortDescription)
	}
	w.Flush()
}

// ShowCheckHelp prints the detailed help for one check. It returns false
// when no provider is registered under checkName.
func (h *System) ShowCheckHelp(checkName string) bool {
	provider, ok := h.providers[strings.ToLower(checkName)]
	if !ok {
		return false
	}
	info := provider.GetCheckInfo()

	h.colors["title"].Fprintf(h.out, "%s\n", info.Name)
	fmt.Fprintf(h.out, "%s\n\n", info.DetailedDescription)

	h.list("PATTERNS:", info.Patterns, "item")
	h.list("SUPPORTED FORMATS:", info.SupportedFormats, "item")

	if len(info.ConfidenceFactors) > 0 {
		h.colors["header"].Fprintln(h.out, "CONFIDENCE FACTORS:")
		w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
		for _, f := range info.ConfidenceFactors {
			fmt.Fprintf(w, "  %s\t%s\t%.0f%%\n", f.Name, f.Description, f.Weight)
		}
		w.Flush()
		fmt.Fprintln(h.out)
	}

	h.list("POSITIVE KEYWORDS:", info.PositiveKeywords, "positive")
	h.list("NEGATIVE KEYWORDS:", info.NegativeKeywords, "negative")

	if info.ConfigurationInfo != "" {
		h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
		fmt.Fprintf(h.out, "%s\n\n", info.ConfigurationInfo)
	}

	h.list("EXAMPLES:", info.Examples, "example")
	return true
}

func (h *System) list(title string, items []string, colorName string) {
	if len(items) == 0 {
		return
	}
	h.colors["header"].Fprintln(h.out, title)
	for _, item := range items {
		fmt.Fprintf(h.out, "  %s\n", h.colors[colorName].Sprint(item))
	}
	fmt.Fprintln(h.out)
}

func (h *System) names() []string {
	names := make([]string, 0, len(h.providers))
	for name := range h.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
