// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/suppressions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRules(t *testing.T, expiresAt *time.Time) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	manager := suppressions.NewSuppressionManager(path)
	match := detector.Match{
		Text:       "123-45-6789",
		Type:       "SSN",
		LineNumber: 3,
		Confidence: 95,
		Filename:   "/scans/page1.txt",
	}
	require.NoError(t, manager.AddSuppression(match, "reviewed", "tester", expiresAt))
	return path
}

func runCmd(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_RequiresAction(t *testing.T) {
	code, _, stderr := runCmd()
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--action is required")
}

func TestRun_UnknownAction(t *testing.T) {
	code, _, stderr := runCmd("--suppression-file", filepath.Join(t.TempDir(), "s.yaml"), "--action", "purge")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Unknown action 'purge'")
}

func TestRun_ListEmpty(t *testing.T) {
	code, stdout, _ := runCmd("--suppression-file", filepath.Join(t.TempDir(), "s.yaml"), "--action", "list")
	assert.Equal(t, 0, code)
	assert.Equal(t, "No suppression rules found.\n", stdout)
}

func TestRun_List(t *testing.T) {
	path := seedRules(t, nil)

	code, stdout, _ := runCmd("--suppression-file", path, "--action", "list")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Found 1 suppression rules")
	assert.Contains(t, stdout, "ID: SUP-00000001 (enabled)")
	assert.Contains(t, stdout, "Reason: reviewed")
	assert.Contains(t, stdout, "Created By: tester")
	assert.Contains(t, stdout, "filename: page1.txt")
	assert.NotContains(t, stdout, "123-45-6789")
}

func TestRun_DisableEnableRemove(t *testing.T) {
	path := seedRules(t, nil)

	code, stdout, _ := runCmd("--suppression-file", path, "--action", "disable", "--id", "SUP-00000001")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Successfully disabled suppression rule: SUP-00000001")
	assert.False(t, suppressions.NewSuppressionManager(path).ListSuppressions()[0].Enabled)

	code, _, _ = runCmd("--suppression-file", path, "--action", "enable", "--id", "SUP-00000001")
	require.Equal(t, 0, code)
	assert.True(t, suppressions.NewSuppressionManager(path).ListSuppressions()[0].Enabled)

	code, stdout, _ = runCmd("--suppression-file", path, "--action", "remove", "--id", "SUP-00000001")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Successfully removed suppression rule")
	assert.Empty(t, suppressions.NewSuppressionManager(path).ListSuppressions())
}

func TestRun_RuleActionsNeedID(t *testing.T) {
	path := seedRules(t, nil)
	for _, action := range []string{"remove", "enable", "disable"} {
		code, _, stderr := runCmd("--suppression-file", path, "--action", action)
		assert.Equal(t, 2, code, action)
		assert.Contains(t, stderr, "--id is required", action)
	}
}

func TestRun_UnknownID(t *testing.T) {
	path := seedRules(t, nil)
	code, _, stderr := runCmd("--suppression-file", path, "--action", "remove", "--id", "SUP-99999999")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not found")
}

func TestRun_Cleanup(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	path := seedRules(t, &past)

	code, stdout, _ := runCmd("--suppression-file", path, "--action", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "(enabled, expired)")

	code, stdout, _ = runCmd("--suppression-file", path, "--action", "cleanup")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Cleaned up 1 expired suppression rules\n", stdout)
	assert.Empty(t, suppressions.NewSuppressionManager(path).ListSuppressions())
}
