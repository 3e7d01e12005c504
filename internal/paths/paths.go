// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ConfigDirEnv overrides the configuration directory on every platform
const ConfigDirEnv = "SSN_FINDER_CONFIG_DIR"

// GetConfigDir returns the ssn-finder configuration directory.
// APPDATA on Windows, XDG_CONFIG_HOME (or ~/.config) elsewhere.
func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return NormalizePath(dir)
	}

	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ".ssn-finder"
		}
		return filepath.Join(home, ".ssn-finder")
	}
	return filepath.Join(base, "ssn-finder")
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetSuppressionsFile returns the path to the default suppressions file
func GetSuppressionsFile() string {
	return filepath.Join(GetConfigDir(), "suppressions.yaml")
}

// NormalizePath cleans a path and expands a leading ~ to the home directory
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(path)
}

// ValidatePath validates a path for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return nil // Empty path is valid
	}

	if strings.ContainsRune(path, 0) {
		return &PathValidationError{Path: path, Reason: "contains null byte"}
	}

	if runtime.GOOS == "windows" {
		return validateWindowsPath(path)
	}
	return nil
}

func validateWindowsPath(path string) error {
	for i, char := range path {
		if !strings.ContainsRune(`<>:"|?*`, char) {
			continue
		}
		// Drive letter (C:)
		if char == ':' && i == 1 {
			continue
		}
		return &PathValidationError{
			Path:   path,
			Reason: "contains invalid character: " + string(char),
		}
	}
	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}
