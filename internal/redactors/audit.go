// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RedactionAuditLog records what was redacted in one document. It carries
// positions, types and hashes only, never the redacted values.
type RedactionAuditLog struct {
	// DocumentID is a unique identifier for this document
	DocumentID string `json:"document_id"`

	// RedactionTimestamp is when the redaction was performed
	RedactionTimestamp time.Time `json:"redaction_timestamp"`

	// ToolVersion names the tool and version that performed the redaction, e.g. "ssn-finder/1.2.0"
	ToolVersion string `json:"tool_version"`

	OriginalPath string `json:"original_path"`
	RedactedPath string `json:"redacted_path"`

	// Hashes of the extracted and redacted text for integrity verification
	OriginalContentHash string `json:"original_content_hash"`
	RedactedContentHash string `json:"redacted_content_hash"`

	Summary RedactionSummary `json:"redaction_summary"`

	Redactions []RedactionMapping `json:"content_redactions"`
}

// RedactionSummary contains summary statistics about redactions performed
type RedactionSummary struct {
	TotalRedactions int               `json:"total_redactions"`
	Skipped         int               `json:"skipped"`
	DataTypes       []string          `json:"data_types"`
	Strategy        RedactionStrategy `json:"strategy"`
}

// NewRedactionAuditLog builds the audit record for one redaction result
func NewRedactionAuditLog(originalPath, toolVersion string, result *RedactionResult, strategy RedactionStrategy) *RedactionAuditLog {
	types := make(map[string]bool)
	for _, m := range result.RedactionMap {
		types[m.DataType] = true
	}
	dataTypes := make([]string, 0, len(types))
	for t := range types {
		dataTypes = append(dataTypes, t)
	}
	sort.Strings(dataTypes)

	return &RedactionAuditLog{
		DocumentID:          uuid.NewString(),
		RedactionTimestamp:  time.Now().UTC(),
		ToolVersion:         toolVersion,
		OriginalPath:        originalPath,
		RedactedPath:        result.RedactedFilePath,
		OriginalContentHash: result.OriginalContentHash,
		RedactedContentHash: result.RedactedContentHash,
		Summary: RedactionSummary{
			TotalRedactions: len(result.RedactionMap),
			Skipped:         result.Skipped,
			DataTypes:       dataTypes,
			Strategy:        strategy,
		},
		Redactions: result.RedactionMap,
	}
}

// AuditLogManager collects audit records from concurrent redactions
type AuditLogManager struct {
	mu   sync.Mutex
	logs []*RedactionAuditLog
}

// NewAuditLogManager creates an empty audit log collector
func NewAuditLogManager() *AuditLogManager {
	return &AuditLogManager{}
}

// Add records one document's audit log
func (m *AuditLogManager) Add(log *RedactionAuditLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
}

// Logs returns the collected records ordered by original path
func (m *AuditLogManager) Logs() []*RedactionAuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs := make([]*RedactionAuditLog, len(m.logs))
	copy(logs, m.logs)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].OriginalPath < logs[j].OriginalPath
	})
	return logs
}

// Save writes the collected records as an indented JSON array
func (m *AuditLogManager) Save(path string) error {
	data, err := json.MarshalIndent(m.Logs(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit log: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// GenerateDocumentHash generates a hash for document content
func GenerateDocumentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
