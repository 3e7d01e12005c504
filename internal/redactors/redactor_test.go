// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedactionStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    RedactionStrategy
		wantErr bool
	}{
		{"simple", RedactionSimple, false},
		{"format_preserving", RedactionFormatPreserving, false},
		{"", RedactionFormatPreserving, false},
		{"mask_last4", RedactionMaskLast4, false},
		{"synthetic", RedactionFormatPreserving, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRedactionStrategy(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.input != "" {
					assert.Equal(t, tt.input, got.String())
				}
			}
		})
	}
}

func TestRedactionStrategy_JSON(t *testing.T) {
	data, err := json.Marshal(RedactionMapping{Strategy: RedactionMaskLast4, DataType: "SSN"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"strategy":"mask_last4"`)

	var m RedactionMapping
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, RedactionMaskLast4, m.Strategy)
}

func TestCreateMirroredPath(t *testing.T) {
	base := t.TempDir()
	m, err := NewOutputStructureManager(base, nil)
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"scan.txt", filepath.Join(base, "scan.txt"+RedactedSuffix)},
		{"./batch/a.pdf", filepath.Join(base, "batch", "a.pdf"+RedactedSuffix)},
		{"../outside/b.txt", filepath.Join(base, "parent", "outside", "b.txt"+RedactedSuffix)},
	}
	for _, tt := range tests {
		got, err := m.CreateMirroredPath(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err = m.CreateMirroredPath("")
	assert.Error(t, err)

	_, err = NewOutputStructureManager("", nil)
	assert.Error(t, err)
}

func TestAuditLogManager_Save(t *testing.T) {
	result := &RedactionResult{
		Success:          true,
		RedactedFilePath: "out/b.txt.redacted.txt",
		RedactionMap: []RedactionMapping{
			{RedactedText: "XXX-XX-6789", DataType: "SSN", Strategy: RedactionMaskLast4, Position: TextPosition{Line: 1}},
		},
		Skipped:             1,
		OriginalContentHash: GenerateDocumentHash([]byte("before")),
		RedactedContentHash: GenerateDocumentHash([]byte("after")),
	}

	m := NewAuditLogManager()
	m.Add(NewRedactionAuditLog("b.txt", "1.0.0", result, RedactionMaskLast4))
	m.Add(NewRedactionAuditLog("a.txt", "1.0.0", &RedactionResult{}, RedactionMaskLast4))

	logs := m.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "a.txt", logs[0].OriginalPath)
	assert.Equal(t, 1, logs[1].Summary.TotalRedactions)
	assert.Equal(t, 1, logs[1].Summary.Skipped)
	assert.Equal(t, []string{"SSN"}, logs[1].Summary.DataTypes)
	assert.NotEmpty(t, logs[1].DocumentID)

	path := filepath.Join(t.TempDir(), "audit", "log.json")
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []RedactionAuditLog
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, RedactionMaskLast4, decoded[1].Summary.Strategy)
}

func TestGenerateDocumentHash(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		GenerateDocumentHash(nil))
}
