// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	assert.Equal(t, filepath.Clean(dir), GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
	assert.Equal(t, filepath.Join(dir, "suppressions.yaml"), GetSuppressionsFile())
}

func TestNormalizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", NormalizePath(""))
	assert.Equal(t, filepath.Join("a", "b"), NormalizePath("a/./b/"))
	assert.Equal(t, filepath.Join(home, "out"), NormalizePath("~/out"))
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("./redacted"))

	err := ValidatePath("bad\x00path")
	require.Error(t, err)
	var pathErr *PathValidationError
	assert.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "contains null byte", pathErr.Reason)
}
