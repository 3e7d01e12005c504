// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ssn-finder/internal/observability"
)

// RedactedSuffix is appended to the mirrored path of every redacted copy
const RedactedSuffix = ".redacted.txt"

// OutputStructureManager mirrors the input folder structure under the
// redaction output directory
type OutputStructureManager struct {
	baseOutputDir string
	observer      *observability.StandardObserver
}

// NewOutputStructureManager creates a new OutputStructureManager
func NewOutputStructureManager(baseOutputDir string, observer *observability.StandardObserver) (*OutputStructureManager, error) {
	if baseOutputDir == "" {
		return nil, fmt.Errorf("base output directory cannot be empty")
	}

	return &OutputStructureManager{
		baseOutputDir: filepath.Clean(baseOutputDir),
		observer:      observer,
	}, nil
}

// GetBaseOutputDir returns the output root
func (osm *OutputStructureManager) GetBaseOutputDir() string {
	return osm.baseOutputDir
}

// CreateMirroredPath returns the path of the redacted copy for originalPath
func (osm *OutputStructureManager) CreateMirroredPath(originalPath string) (string, error) {
	if originalPath == "" {
		return "", fmt.Errorf("original path cannot be empty")
	}

	relativePath := makeRelativePath(filepath.Clean(originalPath))
	mirroredPath := filepath.Clean(filepath.Join(osm.baseOutputDir, relativePath) + RedactedSuffix)

	rel, err := filepath.Rel(osm.baseOutputDir, mirroredPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("mirrored path would escape base output directory: %s", mirroredPath)
	}

	return mirroredPath, nil
}

// makeRelativePath strips volume names, leading separators and parent
// references so the result can be joined under the output root
func makeRelativePath(path string) string {
	if path == "." || path == "" {
		return "current"
	}

	path = strings.TrimPrefix(path, filepath.VolumeName(path))
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")

	parts := strings.Split(path, "/")
	kept := parts[:0]
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			kept = append(kept, "parent")
		default:
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "current"
	}
	return filepath.Join(kept...)
}

// EnsureDirectoryExists creates the parent directory of path
func (osm *OutputStructureManager) EnsureDirectoryExists(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		if osm.observer != nil && osm.observer.DebugObserver != nil {
			osm.observer.DebugObserver.LogDetail("output_manager", fmt.Sprintf("mkdir %s failed: %v", dir, err))
		}
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
