// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package plaintext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/preprocessors"
	"ssn-finder/internal/redactors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchAt(text, token string, confidence float64) detector.Match {
	start := strings.Index(text, token)
	return detector.Match{
		Text:       token,
		Start:      start,
		End:        start + len(token),
		Type:       "SSN",
		Confidence: confidence,
	}
}

func TestRedactText_EndToStart(t *testing.T) {
	text := "Name: A\nSSN 123-45-6789 and 987-65-4321\n"
	matches := []detector.Match{
		matchAt(text, "123-45-6789", 90),
		matchAt(text, "987-65-4321", 70),
	}

	r := NewPlainTextRedactor(nil, nil)
	redacted, mappings, skipped, err := r.RedactText(text, matches, redactors.RedactionSimple)
	require.NoError(t, err)

	assert.Equal(t, "Name: A\nSSN [SSN-REDACTED] and [SSN-REDACTED]\n", redacted)
	assert.Zero(t, skipped)
	require.Len(t, mappings, 2)

	assert.Equal(t, 2, mappings[0].Position.Line)
	assert.Equal(t, 4, mappings[0].Position.StartChar)
	assert.Equal(t, 15, mappings[0].Position.EndChar)
	assert.Equal(t, 12, mappings[0].Position.Offset)
	assert.Equal(t, 90.0, mappings[0].Confidence)
	assert.Equal(t, 20, mappings[1].Position.StartChar)
}

func TestRedactText_FormatPreservingKeepsLength(t *testing.T) {
	text := "ID 12^-45-6789 end"
	r := NewPlainTextRedactor(nil, nil)

	redacted, _, _, err := r.RedactText(text, []detector.Match{matchAt(text, "12^-45-6789", 80)}, redactors.RedactionFormatPreserving)
	require.NoError(t, err)
	assert.Equal(t, "ID XXX-XX-XXXX end", redacted)
	assert.Len(t, redacted, len(text))
}

func TestRedactText_SkipsOverlapsAndBadOffsets(t *testing.T) {
	text := "123-45-6789"
	matches := []detector.Match{
		{Start: 0, End: 11, Type: "SSN"},
		{Start: 4, End: 11, Type: "SSN"},
		{Start: 8, End: 40, Type: "SSN"},
		{Start: 5, End: 5, Type: "SSN"},
	}

	r := NewPlainTextRedactor(nil, nil)
	redacted, mappings, skipped, err := r.RedactText(text, matches, redactors.RedactionMaskLast4)
	require.NoError(t, err)
	// The later-starting match wins an overlap
	assert.Equal(t, "123-XX-6789", redacted)
	require.Len(t, mappings, 1)
	assert.Equal(t, 4, mappings[0].Position.Offset)
	assert.Equal(t, 3, skipped)
}

func TestRedactContent_WritesMirroredFile(t *testing.T) {
	outDir := t.TempDir()
	manager, err := redactors.NewOutputStructureManager(outDir, nil)
	require.NoError(t, err)

	text := "SSN: 123-45-6789\n"
	content := &preprocessors.ProcessedContent{
		OriginalPath: "forms/w2.txt",
		Filename:     "w2.txt",
		Text:         text,
	}

	outputPath, err := manager.CreateMirroredPath(content.OriginalPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "forms", "w2.txt.redacted.txt"), outputPath)

	r := NewPlainTextRedactor(manager, nil)
	result, err := r.RedactContent(content, outputPath, []detector.Match{matchAt(text, "123-45-6789", 95)}, redactors.RedactionMaskLast4)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.RedactionMap, 1)
	assert.NotEqual(t, result.OriginalContentHash, result.RedactedContentHash)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "SSN: XXX-XX-6789\n", string(data))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}
