// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ssn-finder/internal/config"
	"ssn-finder/internal/paths"
	"ssn-finder/internal/suppressions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the test away from real config and suppression files
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv(paths.ConfigDirEnv, t.TempDir())
	t.Setenv("CI", "")
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	isolate(t)
	code, stdout, _ := runCLI("--version")
	assert.Equal(t, exitClean, code)
	assert.Contains(t, stdout, "ssn-finder")
}

func TestRun_Help(t *testing.T) {
	isolate(t)
	code, stdout, _ := runCLI("--help")
	assert.Equal(t, exitClean, code)
	assert.Contains(t, stdout, "USAGE:")
	assert.Contains(t, stdout, "-redaction-strategy")

	code, stdout, _ = runCLI("--help", "ssn")
	assert.Equal(t, exitClean, code)
	assert.Contains(t, stdout, "SSN")

	code, _, stderr := runCLI("--help", "passport")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unknown check")
}

func TestRun_NoInputs(t *testing.T) {
	isolate(t)
	code, _, stderr := runCLI()
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "no input files specified")
}

func TestRun_UnknownFormat(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "nothing\n")
	code, _, stderr := runCLI("--format", "sarif", path)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unsupported format 'sarif'")
}

func TestRun_UnknownProfile(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "nothing\n")
	code, _, stderr := runCLI("--profile", "missing", path)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "profile 'missing' not found")
	assert.Contains(t, stderr, "batch, redact")
}

func TestRun_ListProfiles(t *testing.T) {
	isolate(t)
	code, stdout, _ := runCLI("--list-profiles")
	assert.Equal(t, exitClean, code)
	assert.Contains(t, stdout, "Available profiles:")
	assert.Contains(t, stdout, "  batch\n")
	assert.Contains(t, stdout, "Redaction: mask_last4")
}

func TestRun_NoFindings(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "nothing sensitive here\n")

	code, stdout, stderr := runCLI("--file", path)
	assert.Equal(t, exitClean, code)
	assert.Equal(t, "No matches found.\n", stdout)
	assert.Contains(t, stderr, "Scan complete: 1 files processed")
}

func TestRun_JSONFindings(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "Employee SSN: 123-45-6789\n")

	code, stdout, _ := runCLI("--format", "json", "--quiet", "--file", path)
	assert.Equal(t, exitFindings, code)
	assert.NotContains(t, stdout, "123-45-6789")

	var response struct {
		Results []struct {
			Text       string `json:"text"`
			LineNumber int    `json:"line_number"`
			Type       string `json:"type"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, "SSN", response.Results[0].Type)
	assert.Equal(t, 1, response.Results[0].LineNumber)
	assert.Equal(t, "[REDACTED]", response.Results[0].Text)
}

func TestRun_ShowMatchAndPositionalInputs(t *testing.T) {
	dir := isolate(t)
	a := writeInput(t, dir, "a.txt", "SSN 123-45-6789\n")
	b := writeInput(t, dir, "b.txt", "SSN 234-56-7890\n")

	code, stdout, _ := runCLI("--format", "csv", "--show-match", "--quiet", a, b)
	assert.Equal(t, exitFindings, code)
	assert.Contains(t, stdout, "123-45-6789")
	assert.Contains(t, stdout, "234-56-7890")
}

func TestRun_ConfidenceFilterDecidesExitCode(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "reference 234-56-7891\n")

	// without supporting keywords a number stays below high confidence
	code, _, _ := runCLI("--format", "json", "--confidence", "high", "--quiet", path)
	assert.Equal(t, exitClean, code)
}

func TestRun_OutputFile(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "SSN 123-45-6789\n")
	outPath := filepath.Join(dir, "reports", "out.json")

	code, stdout, _ := runCLI("--format", "json", "--output", outPath, "--quiet", path)
	assert.Equal(t, exitFindings, code)
	assert.Empty(t, stdout)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestRun_PreprocessOnly(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "scanned text 123-45-6789\n")

	code, stdout, _ := runCLI("--preprocess-only", path)
	assert.Equal(t, exitClean, code)
	assert.Contains(t, stdout, "=== FILE: ")
	assert.Contains(t, stdout, "Status: Success")
	assert.Contains(t, stdout, "scanned text 123-45-6789")
}

func TestRun_PreprocessOnlyIncompatibleFlags(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "text\n")
	code, _, stderr := runCLI("-p", "--enable-redaction", path)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "--preprocess-only cannot be used with --enable-redaction")
}

func TestRun_Redaction(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, filepath.Join("in", "a.txt"), "SSN 123-45-6789\n")
	outDir := filepath.Join(dir, "out")

	code, _, stderr := runCLI("--enable-redaction", "--redaction-output-dir", outDir, "--redaction-strategy", "simple", path)
	assert.Equal(t, exitFindings, code)
	assert.Contains(t, stderr, "Wrote 1 redacted files")

	var found []string
	require.NoError(t, filepath.WalkDir(outDir, func(p string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			found = append(found, p)
		}
		return err
	}))
	require.Len(t, found, 1)
	data, err := os.ReadFile(found[0])
	require.NoError(t, err)
	assert.Equal(t, "SSN [SSN-REDACTED]\n", string(data))
}

func TestRun_GenerateAndApplySuppressions(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, dir, "a.txt", "SSN 123-45-6789\n")
	rules := filepath.Join(dir, "rules.yaml")

	code, _, stderr := runCLI("--suppression-file", rules, "--generate-suppressions", path)
	assert.Equal(t, exitFindings, code)
	assert.Contains(t, stderr, "1 new rules added")

	manager := suppressions.NewSuppressionManager(rules)
	require.Len(t, manager.ListSuppressions(), 1)
	rule := manager.ListSuppressions()[0]
	assert.False(t, rule.Enabled)
	require.NoError(t, manager.SetRuleEnabled(rule.ID, true))

	code, stdout, stderr := runCLI("--suppression-file", rules, "--no-color", path)
	assert.Equal(t, exitClean, code)
	assert.Contains(t, stderr, "Suppressed 1 findings based on suppression rules (use --show-suppressed to see them)")
	assert.Equal(t, "No matches found.\n", stdout)

	code, stdout, _ = runCLI("--suppression-file", rules, "--show-suppressed", path)
	assert.Equal(t, exitClean, code)
	assert.Contains(t, stdout, "[SUPP]")
}

func TestResolveConfiguration(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	profile := cfg.GetProfile("redact")
	require.NotNil(t, profile)

	flags := &configFlags{outputFormat: "csv", redactionStrategy: "simple"}
	set := map[string]bool{"format": true, "redaction-strategy": true}
	final := resolveConfiguration(cfg, profile, flags, func(name string) bool { return set[name] })

	assert.Equal(t, "csv", final.format)
	assert.Equal(t, "high,medium", final.confidenceLevels)
	assert.True(t, final.recursive)
	assert.True(t, final.enableRedaction)
	assert.Equal(t, "simple", final.redactionStrategy)

	// an explicit flag switches a profile boolean back off
	set["recursive"] = true
	final = resolveConfiguration(cfg, profile, flags, func(name string) bool { return set[name] })
	assert.False(t, final.recursive)
}

func TestResolveConfiguration_Defaults(t *testing.T) {
	final := resolveConfiguration(nil, nil, &configFlags{}, func(string) bool { return false })
	assert.Equal(t, "text", final.format)
	assert.Equal(t, "all", final.confidenceLevels)
	assert.Equal(t, "./redacted", final.redactionOutputDir)
	assert.Equal(t, "format_preserving", final.redactionStrategy)
	assert.False(t, final.enableRedaction)
}

func TestCollectInputs(t *testing.T) {
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, collectInputs(" a.txt, b.txt ,", []string{"c.txt"}))
	assert.Empty(t, collectInputs("", nil))
}
