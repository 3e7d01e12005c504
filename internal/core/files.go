// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ssn-finder/internal/paths"
)

// MaxFileSize is the largest file collected for scanning
const MaxFileSize = 100 * 1024 * 1024

// SkippedFile is an input path that will not be scanned
type SkippedFile struct {
	Path   string
	Reason string
	Silent bool // true = don't show to user, false = show as warning
}

// FileCollection holds the outcome of expanding scan inputs
type FileCollection struct {
	FilesToProcess []string
	SkippedFiles   []SkippedFile
}

// isUnsupportedType checks if a file extension is a media or archive type
// that is skipped without a warning
func isUnsupportedType(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".wav", ".m4a", ".flac",
		".mp4", ".mov", ".avi", ".mkv",
		".dmg", ".iso", ".img",
		".zip", ".tar", ".gz", ".7z":
		return true
	}
	return false
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?") || (strings.Contains(path, "[") && strings.Contains(path, "]"))
}

// isExcluded reports whether path matches an exclude pattern. Patterns are
// tried against the base name and the slash-separated path.
func isExcluded(path string, excludes []string) bool {
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, pattern := range excludes {
		if pattern == "" {
			continue
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(filepath.ToSlash(pattern), slashed); ok {
			return true
		}
	}
	return false
}

// CollectFiles expands files, directories and glob patterns into the list
// of files to scan. Directories are walked one level deep unless recursive
// is set. Duplicates are dropped and input order is kept.
func CollectFiles(inputs []string, recursive bool, excludes []string) (*FileCollection, error) {
	result := &FileCollection{
		FilesToProcess: []string{},
		SkippedFiles:   []SkippedFile{},
	}
	seen := make(map[string]bool)

	add := func(path string, size int64) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true

		if isExcluded(path, excludes) {
			result.SkippedFiles = append(result.SkippedFiles, SkippedFile{Path: path, Reason: "excluded", Silent: true})
			return
		}
		if size > MaxFileSize {
			result.SkippedFiles = append(result.SkippedFiles, SkippedFile{
				Path:   path,
				Reason: fmt.Sprintf("file too large (max size: %dMB)", MaxFileSize/(1024*1024)),
				Silent: isUnsupportedType(path),
			})
			return
		}
		result.FilesToProcess = append(result.FilesToProcess, path)
	}

	for _, input := range inputs {
		if !hasGlobMeta(input) {
			if err := paths.ValidatePath(input); err != nil {
				return nil, err
			}
		}
		inputPath := paths.NormalizePath(input)

		info, err := os.Stat(inputPath)
		if err != nil {
			// Existing files win over glob interpretation of their names
			if !hasGlobMeta(inputPath) {
				return nil, fmt.Errorf("path does not exist or is not accessible: %w", err)
			}

			matches, err := filepath.Glob(inputPath)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern: %w", err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match pattern: %s", input)
			}
			for _, match := range matches {
				if info, err := os.Stat(match); err == nil && info.Mode().IsRegular() {
					add(match, info.Size())
				}
			}
			continue
		}

		switch {
		case info.Mode().IsRegular():
			add(inputPath, info.Size())
		case info.IsDir():
			if err := walkDir(inputPath, recursive, excludes, result, add); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("path is neither a regular file nor a directory: %s", input)
		}
	}

	return result, nil
}

func walkDir(root string, recursive bool, excludes []string, result *FileCollection, add func(string, int64)) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Continue walking despite the error
			result.SkippedFiles = append(result.SkippedFiles, SkippedFile{Path: path, Reason: err.Error()})
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || isExcluded(path, excludes) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			result.SkippedFiles = append(result.SkippedFiles, SkippedFile{Path: path, Reason: err.Error()})
			return nil
		}
		add(path, info.Size())
		return nil
	})
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	return nil
}
