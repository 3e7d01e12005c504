// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"ssn-finder/internal/config"
	"ssn-finder/internal/core"
	"ssn-finder/internal/detector"
	"ssn-finder/internal/help"
	"ssn-finder/internal/observability"
	"ssn-finder/internal/suppressions"
	"ssn-finder/internal/validators/ssn"
	"ssn-finder/internal/version"

	"ssn-finder/internal/formatters"
	_ "ssn-finder/internal/formatters/csv"
	_ "ssn-finder/internal/formatters/json"
	"ssn-finder/internal/formatters/shared"
	_ "ssn-finder/internal/formatters/text"
	_ "ssn-finder/internal/formatters/yaml"

	"golang.org/x/term"
)

// Process exit codes
const (
	exitClean    = 0
	exitFindings = 1
	exitError    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string, stderr io.Writer) *config.Config {
	// If config file is not specified, try to find one in standard locations
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	// Load configuration (will use defaults if file not found)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("") // Load default config
	}
	return cfg
}

// configFlags holds command line flag values that config and profiles can also set
type configFlags struct {
	outputFormat     string
	confidenceLevels string
	verbose          bool
	debug            bool
	noColor          bool
	recursive        bool
	showMatch        bool
	workers          int
	suppressionFile  string
	// Redaction flags
	enableRedaction    bool
	redactionOutputDir string
	redactionStrategy  string
	redactionAuditLog  string
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format           string
	confidenceLevels string
	verbose          bool
	debug            bool
	noColor          bool
	recursive        bool
	showMatch        bool
	workers          int
	suppressionFile  string
	excludePatterns  []string
	// Redaction configuration
	enableRedaction    bool
	redactionOutputDir string
	redactionStrategy  string
	redactionAuditLog  string
}

// resolveConfiguration resolves final configuration values from config file,
// profile, and command line flags. isFlagSet reports flags given explicitly.
func resolveConfiguration(cfg *config.Config, activeProfile *config.Profile, flags *configFlags, isFlagSet func(string) bool) *finalConfiguration {
	final := &finalConfiguration{}

	// Format
	final.format = "text" // default fallback
	if cfg != nil && cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if activeProfile != nil && activeProfile.Format != "" {
		final.format = activeProfile.Format
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}

	// Confidence levels
	final.confidenceLevels = "all" // default fallback
	if cfg != nil && cfg.Defaults.ConfidenceLevels != "" {
		final.confidenceLevels = cfg.Defaults.ConfidenceLevels
	}
	if activeProfile != nil && activeProfile.ConfidenceLevels != "" {
		final.confidenceLevels = activeProfile.ConfidenceLevels
	}
	if isFlagSet("confidence") && flags.confidenceLevels != "" {
		final.confidenceLevels = flags.confidenceLevels
	}

	// Profiles can switch booleans on but never off
	final.verbose = resolveBool(cfg != nil && cfg.Defaults.Verbose, activeProfile != nil && activeProfile.Verbose, isFlagSet("verbose"), flags.verbose)
	final.debug = resolveBool(cfg != nil && cfg.Defaults.Debug, activeProfile != nil && activeProfile.Debug, isFlagSet("debug"), flags.debug)
	final.noColor = resolveBool(cfg != nil && cfg.Defaults.NoColor, activeProfile != nil && activeProfile.NoColor, isFlagSet("no-color"), flags.noColor)
	final.recursive = resolveBool(cfg != nil && cfg.Defaults.Recursive, activeProfile != nil && activeProfile.Recursive, isFlagSet("recursive"), flags.recursive)
	final.showMatch = resolveBool(cfg != nil && cfg.Defaults.ShowMatch, activeProfile != nil && activeProfile.ShowMatch, isFlagSet("show-match"), flags.showMatch)

	// Workers
	if cfg != nil {
		final.workers = cfg.Defaults.Workers
	}
	if activeProfile != nil && activeProfile.Workers > 0 {
		final.workers = activeProfile.Workers
	}
	if isFlagSet("workers") {
		final.workers = flags.workers
	}

	// Exclude patterns accumulate
	if cfg != nil {
		final.excludePatterns = append(final.excludePatterns, cfg.Defaults.ExcludePatterns...)
	}
	if activeProfile != nil {
		final.excludePatterns = append(final.excludePatterns, activeProfile.ExcludePatterns...)
	}

	// Suppression file
	if cfg != nil {
		final.suppressionFile = cfg.Defaults.SuppressionFile
	}
	if isFlagSet("suppression-file") && flags.suppressionFile != "" {
		final.suppressionFile = flags.suppressionFile
	}

	// Redaction configuration
	final.enableRedaction = resolveBool(cfg != nil && cfg.Redaction.Enabled, activeProfile != nil && activeProfile.Redaction.Enabled, isFlagSet("enable-redaction"), flags.enableRedaction)

	final.redactionOutputDir = "./redacted" // default fallback
	if cfg != nil && cfg.Redaction.OutputDir != "" {
		final.redactionOutputDir = cfg.Redaction.OutputDir
	}
	if activeProfile != nil && activeProfile.Redaction.OutputDir != "" {
		final.redactionOutputDir = activeProfile.Redaction.OutputDir
	}
	if isFlagSet("redaction-output-dir") && flags.redactionOutputDir != "" {
		final.redactionOutputDir = flags.redactionOutputDir
	}

	final.redactionStrategy = "format_preserving" // default fallback
	if cfg != nil && cfg.Redaction.Strategy != "" {
		final.redactionStrategy = cfg.Redaction.Strategy
	}
	if activeProfile != nil && activeProfile.Redaction.Strategy != "" {
		final.redactionStrategy = activeProfile.Redaction.Strategy
	}
	if isFlagSet("redaction-strategy") && flags.redactionStrategy != "" {
		final.redactionStrategy = flags.redactionStrategy
	}

	final.redactionAuditLog = "" // default fallback (no audit log file)
	if cfg != nil && cfg.Redaction.AuditLog != "" {
		final.redactionAuditLog = cfg.Redaction.AuditLog
	}
	if isFlagSet("redaction-audit-log") && flags.redactionAuditLog != "" {
		final.redactionAuditLog = flags.redactionAuditLog
	}

	return final
}

func resolveBool(fromConfig, fromProfile, flagSet, fromFlag bool) bool {
	if flagSet {
		return fromFlag
	}
	return fromConfig || fromProfile
}

// cliFlags holds every parsed flag
type cliFlags struct {
	configFlags
	inputFile            string
	configFile           string
	profileName          string
	listProfiles         bool
	outputFile           string
	preprocessOnly       bool
	generateSuppressions bool
	showSuppressed       bool
	quiet                bool
	showVersion          bool
	showHelp             bool
}

func newFlagSet(stderr io.Writer) (*flag.FlagSet, *cliFlags) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("ssn-finder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Run 'ssn-finder --help' for usage")
	}

	fs.StringVar(&f.inputFile, "file", "", "Input file, directory, or glob pattern to scan (comma-separated; extra paths may follow the flags)")
	fs.StringVar(&f.configFile, "config", "", "Path to configuration file (default: ssn-finder.yaml in the current or config directory)")
	fs.StringVar(&f.profileName, "profile", "", "Profile name to use from the configuration file")
	fs.BoolVar(&f.listProfiles, "list-profiles", false, "List available profiles and exit")
	fs.StringVar(&f.outputFormat, "format", "text", "Output format: text, json, yaml, csv")
	fs.StringVar(&f.confidenceLevels, "confidence", "all", "Confidence levels to display: high, medium, low, or combinations like 'high,medium'")
	fs.BoolVar(&f.verbose, "verbose", false, "Display detailed information for each finding")
	fs.BoolVar(&f.debug, "debug", false, "Print processing steps and timing records to stderr")
	fs.StringVar(&f.outputFile, "output", "", "Write results to this file instead of stdout")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&f.showMatch, "show-match", false, "Show the matched text and its context in the output")
	fs.BoolVar(&f.recursive, "recursive", false, "Recursively scan directories")
	fs.IntVar(&f.workers, "workers", 0, "Number of files scanned concurrently (0 picks one per CPU)")
	fs.BoolVar(&f.preprocessOnly, "preprocess-only", false, "Print the extracted text of each file without scanning it")
	fs.BoolVar(&f.preprocessOnly, "p", false, "Shorthand for --preprocess-only")
	fs.BoolVar(&f.enableRedaction, "enable-redaction", false, "Write redacted copies of files with findings")
	fs.StringVar(&f.redactionOutputDir, "redaction-output-dir", "./redacted", "Directory for redacted copies")
	fs.StringVar(&f.redactionStrategy, "redaction-strategy", "format_preserving", "Redaction strategy: simple, format_preserving, mask_last4")
	fs.StringVar(&f.redactionAuditLog, "redaction-audit-log", "", "Write a JSON audit log of redactions to this file")
	fs.StringVar(&f.suppressionFile, "suppression-file", "", "Path to suppression rules file (default: ssn-finder-suppressions.yaml in the config directory)")
	fs.BoolVar(&f.generateSuppressions, "generate-suppressions", false, "Add a disabled suppression rule for every finding")
	fs.BoolVar(&f.showSuppressed, "show-suppressed", false, "Include suppressed findings in output (marked as [SUPP] in text format)")
	fs.BoolVar(&f.quiet, "quiet", false, "Suppress progress output (useful for scripts and CI/CD)")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information and exit")
	fs.BoolVar(&f.showHelp, "help", false, "Show help; follow with a check name for details (--help ssn)")

	return fs, f
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newHelpSystem(out io.Writer, noColor bool) *help.System {
	helpSystem := help.NewSystem(out, noColor)
	helpSystem.RegisterProvider(ssn.NewValidator())
	return helpSystem
}

// collectInputs merges --file entries with positional arguments
func collectInputs(fileFlag string, args []string) []string {
	var inputs []string
	for _, input := range strings.Split(fileFlag, ",") {
		if input = strings.TrimSpace(input); input != "" {
			inputs = append(inputs, input)
		}
	}
	return append(inputs, args...)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, flags := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			newHelpSystem(stdout, true).ShowGeneralHelp(printDefaults(fs))
			return exitClean
		}
		return exitError
	}

	isInteractive := isTerminal(stderr)
	forceNoColor := !isInteractive || flags.quiet || os.Getenv("CI") != ""

	if flags.showHelp {
		helpSystem := newHelpSystem(stdout, flags.noColor || forceNoColor)
		if fs.NArg() > 0 {
			if !helpSystem.ShowCheckHelp(fs.Arg(0)) {
				fmt.Fprintf(stderr, "Error: unknown check '%s'\n", fs.Arg(0))
				return exitError
			}
			return exitClean
		}
		helpSystem.ShowGeneralHelp(printDefaults(fs))
		return exitClean
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, version.Info())
		return exitClean
	}

	cfg := loadConfiguration(flags.configFile, stderr)

	if flags.listProfiles {
		handleProfiles(stdout, cfg)
		return exitClean
	}

	var activeProfile *config.Profile
	if flags.profileName != "" {
		activeProfile = cfg.GetProfile(flags.profileName)
		if activeProfile == nil {
			fmt.Fprintf(stderr, "Error: profile '%s' not found\n", flags.profileName)
			fmt.Fprintf(stderr, "Available profiles: %s\n", strings.Join(sortedProfiles(cfg), ", "))
			return exitError
		}
	}

	isFlagSet := func(name string) bool {
		found := false
		fs.Visit(func(f *flag.Flag) {
			if f.Name == name {
				found = true
			}
		})
		return found
	}

	finalConfig := resolveConfiguration(cfg, activeProfile, &flags.configFlags, isFlagSet)
	if forceNoColor {
		finalConfig.noColor = true
	}

	inputs := collectInputs(flags.inputFile, fs.Args())
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "Error: no input files specified. Use --file <path> or pass paths as arguments")
		fmt.Fprintln(stderr, "Run 'ssn-finder --help' for usage")
		return exitError
	}

	if flags.preprocessOnly {
		for _, incompatible := range []string{"generate-suppressions", "show-suppressed", "enable-redaction"} {
			if isFlagSet(incompatible) {
				fmt.Fprintf(stderr, "Error: --preprocess-only cannot be used with --%s\n", incompatible)
				return exitError
			}
		}
	}

	if _, ok := formatters.Get(finalConfig.format); !ok {
		fmt.Fprintf(stderr, "Error: unsupported format '%s'. Available formats: %s\n", finalConfig.format, strings.Join(formatters.List(), ", "))
		return exitError
	}

	// Set up observability
	var observer *observability.StandardObserver
	if finalConfig.debug {
		debugObs := observability.NewDebugObserver(stderr)
		observer = debugObs.StandardObserver
		observer.DebugObserver = debugObs
		debugObs.LogDetail("main", fmt.Sprintf("Command line arguments: %v", args))
		if activeProfile != nil {
			debugObs.LogDetail("main", fmt.Sprintf("Using profile: %s", flags.profileName))
		}
		debugObs.LogDetail("main", fmt.Sprintf("Inputs: %s", strings.Join(inputs, ", ")))
	} else {
		observer = observability.NewStandardObserver(observability.ObservabilityMetrics, stderr)
	}

	var suppressionManager *suppressions.SuppressionManager
	if !flags.preprocessOnly {
		suppressionManager = suppressions.NewSuppressionManager(finalConfig.suppressionFile)
		if err := suppressionManager.LoadError(); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		}
	}

	showProgress := isInteractive && !flags.quiet && !finalConfig.debug
	scanConfig := core.ScanConfig{
		Inputs:             inputs,
		Recursive:          finalConfig.recursive,
		ExcludePatterns:    finalConfig.excludePatterns,
		Workers:            finalConfig.workers,
		Config:             cfg,
		PreprocessOnly:     flags.preprocessOnly,
		EnableRedaction:    finalConfig.enableRedaction,
		RedactionStrategy:  finalConfig.redactionStrategy,
		RedactionOutputDir: finalConfig.redactionOutputDir,
		RedactionAuditLog:  finalConfig.redactionAuditLog,
		SuppressionManager: suppressionManager,
		Observer:           observer,
	}
	if showProgress {
		scanConfig.Progress = newProgressBar(stderr)
	}

	result, err := core.ScanFiles(ctx, scanConfig)
	if result != nil && cfg.Redaction.MemoryScrub {
		defer func() {
			result.Clear()
			runtime.GC()
		}()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if flags.preprocessOnly {
		printPreprocessed(stdout, result)
		if len(result.Errors) > 0 {
			return exitError
		}
		return exitClean
	}

	if !flags.quiet {
		printScanSummary(stderr, result)
		printSuppressionSummary(stderr, result.SuppressedCount, flags.showSuppressed, finalConfig.noColor)
	}
	for _, fileErr := range result.Errors {
		fmt.Fprintf(stderr, "Error: %s: %v\n", fileErr.Path, fileErr.Err)
	}
	if len(result.Redactions) > 0 && !flags.quiet {
		fmt.Fprintf(stderr, "Wrote %d redacted files to %s\n", len(result.Redactions), finalConfig.redactionOutputDir)
	}

	if flags.generateSuppressions {
		generateSuppressions(stderr, suppressionManager, result)
	}

	formatterOptions := formatters.FormatterOptions{
		ConfidenceLevel: core.ParseConfidenceLevels(finalConfig.confidenceLevels),
		Verbose:         finalConfig.verbose,
		NoColor:         finalConfig.noColor || flags.outputFile != "",
		ShowMatch:       finalConfig.showMatch,
	}
	var suppressedMatches []detector.SuppressedMatch
	if flags.showSuppressed {
		suppressedMatches = result.SuppressedMatches
	}
	output, err := formatters.Export(finalConfig.format, result.Matches, suppressedMatches, formatterOptions)
	if err != nil {
		fmt.Fprintf(stderr, "Error formatting results: %v\n", err)
		return exitError
	}
	if output != "" && !strings.HasSuffix(output, "\n") {
		output += "\n"
	}

	if flags.outputFile != "" {
		if err := writeOutputFile(flags.outputFile, output); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
	} else {
		fmt.Fprint(stdout, output)
	}

	if len(result.Errors) > 0 {
		return exitError
	}
	if len(shared.FilterMatchesByConfidence(result.Matches, formatterOptions)) > 0 {
		return exitFindings
	}
	return exitClean
}

func printDefaults(fs *flag.FlagSet) func(io.Writer) {
	return func(w io.Writer) {
		fs.SetOutput(w)
		fs.PrintDefaults()
	}
}

func sortedProfiles(cfg *config.Config) []string {
	names := cfg.ListProfiles()
	sort.Strings(names)
	return names
}

// handleProfiles lists the available profiles
func handleProfiles(out io.Writer, cfg *config.Config) {
	names := sortedProfiles(cfg)
	if len(names) == 0 {
		fmt.Fprintln(out, "No profiles found in configuration")
		return
	}

	fmt.Fprintln(out, "Available profiles:")
	for _, name := range names {
		profile := cfg.Profiles[name]
		fmt.Fprintf(out, "  %s\n", name)
		if profile.Description != "" {
			fmt.Fprintf(out, "    Description: %s\n", profile.Description)
		}
		if profile.Format != "" {
			fmt.Fprintf(out, "    Format: %s\n", profile.Format)
		}
		if profile.ConfidenceLevels != "" {
			fmt.Fprintf(out, "    Confidence: %s\n", profile.ConfidenceLevels)
		}
		if profile.Recursive {
			fmt.Fprintln(out, "    Recursive: true")
		}
		if profile.Redaction.Enabled {
			fmt.Fprintf(out, "    Redaction: %s -> %s\n", profile.Redaction.Strategy, profile.Redaction.OutputDir)
		}
	}
}

// newProgressBar returns a progress callback drawing a bar with ETA on w
func newProgressBar(w io.Writer) func(completed, total int, currentFile string) {
	progressStart := time.Now()
	return func(current, total int, _ string) {
		if total == 0 {
			return
		}
		percent := float64(current) / float64(total) * 100
		barWidth := 40
		filledWidth := barWidth * current / total
		bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)

		var etaStr string
		if current > 0 {
			avgTime := time.Since(progressStart) / time.Duration(current)
			remaining := time.Duration(total-current) * avgTime
			etaStr = fmt.Sprintf(" ETA: %s", remaining.Round(time.Second))
		}

		fmt.Fprintf(w, "\r[%s] %d/%d files (%.1f%%)%s", bar, current, total, percent, etaStr)
		if current == total {
			fmt.Fprintln(w)
		}
	}
}

func printScanSummary(w io.Writer, result *core.ScanResult) {
	skipped := 0
	for _, s := range result.SkippedFiles {
		if !s.Silent {
			fmt.Fprintf(w, "Skipped %s: %s\n", s.Path, s.Reason)
		}
		skipped++
	}

	fmt.Fprintf(w, "Scan complete: %d files processed", result.ProcessedFiles)
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, ", %d failed", len(result.Errors))
	}
	if skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", skipped)
	}
	fmt.Fprintf(w, " in %s\n", result.Duration.Round(time.Millisecond))
}

func printSuppressionSummary(w io.Writer, suppressedCount int, showSuppressed, noColor bool) {
	if suppressedCount == 0 {
		return
	}
	switch {
	case noColor && showSuppressed:
		fmt.Fprintf(w, "Suppressed %d findings based on suppression rules (shown below with [SUPP] label)\n", suppressedCount)
	case noColor:
		fmt.Fprintf(w, "Suppressed %d findings based on suppression rules (use --show-suppressed to see them)\n", suppressedCount)
	case showSuppressed:
		fmt.Fprintf(w, "\033[33mSuppressed\033[0m \033[31m%d\033[0m \033[33mfindings\033[0m based on suppression rules (shown below with \033[37m[SUPP]\033[0m label)\n", suppressedCount)
	default:
		fmt.Fprintf(w, "\033[33mSuppressed\033[0m \033[31m%d\033[0m \033[33mfindings\033[0m based on suppression rules (use \033[36m--show-suppressed\033[0m to see them)\n", suppressedCount)
	}
}

// generateSuppressions records a disabled rule for every finding, suppressed or not
func generateSuppressions(w io.Writer, manager *suppressions.SuppressionManager, result *core.ScanResult) {
	allMatches := make([]detector.Match, 0, len(result.Matches)+len(result.SuppressedMatches))
	allMatches = append(allMatches, result.Matches...)
	for _, s := range result.SuppressedMatches {
		allMatches = append(allMatches, s.Match)
	}
	if len(allMatches) == 0 {
		fmt.Fprintln(w, "No findings to generate suppression rules for")
		return
	}

	added, err := manager.GenerateSuppressionRules(allMatches, "Auto-generated suppression rule (disabled by default)", false)
	if err != nil {
		fmt.Fprintf(w, "Warning: Failed to generate suppression rules: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Updated suppression rules in %s: %d new rules added (disabled by default), existing rules had last_seen_at updated\n", manager.GetConfigPath(), added)
	fmt.Fprintln(w, "Edit the suppression file to enable specific rules by setting 'enabled: true'")
}

// printPreprocessed prints the extracted text of each file
func printPreprocessed(w io.Writer, result *core.ScanResult) {
	if len(result.Files) == 0 {
		fmt.Fprintln(w, "No files to preprocess")
		return
	}

	failures := make(map[string]error, len(result.Errors))
	for _, fileErr := range result.Errors {
		failures[fileErr.Path] = fileErr.Err
	}

	for i, filePath := range result.Files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "=== FILE: %s ===\n", filePath)

		if err, failed := failures[filePath]; failed {
			fmt.Fprintf(w, "Status: Error - %v\n", err)
			continue
		}
		content := result.Contents[i]
		fmt.Fprintf(w, "Processor: %s\n", content.ProcessorType)
		fmt.Fprintln(w, "Status: Success")

		if content.Text == "" {
			fmt.Fprintln(w, "\n[No text content found]")
			continue
		}
		fmt.Fprintf(w, "Content: %d words, %d characters", content.WordCount, content.CharCount)
		if content.PageCount > 0 {
			fmt.Fprintf(w, ", %d pages", content.PageCount)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "\n%s\n", content.Text)
	}

	if len(result.Files) > 1 {
		fmt.Fprintf(w, "\n=== SUMMARY ===\n")
		fmt.Fprintf(w, "Files processed: %d\n", result.ProcessedFiles)
		if len(result.Errors) > 0 {
			fmt.Fprintf(w, "Files with errors: %d\n", len(result.Errors))
		}
	}
}

// writeOutputFile writes results with owner-only permissions
func writeOutputFile(path, output string) error {
	cleanOutputPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("invalid output file path %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(cleanOutputPath), 0700); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(cleanOutputPath, []byte(output), 0600); err != nil {
		return fmt.Errorf("error writing to output file: %w", err)
	}
	return nil
}
