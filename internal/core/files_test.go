// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	top := writeFile(t, filepath.Join(dir, "top.txt"), "a")
	nested := writeFile(t, filepath.Join(dir, "sub", "nested.txt"), "b")
	writeFile(t, filepath.Join(dir, "skip.log"), "c")
	writeFile(t, filepath.Join(dir, "vendor", "lib.txt"), "d")

	t.Run("non-recursive", func(t *testing.T) {
		got, err := CollectFiles([]string{dir}, false, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{top, filepath.Join(dir, "skip.log")}, got.FilesToProcess)
	})

	t.Run("recursive with excludes", func(t *testing.T) {
		got, err := CollectFiles([]string{dir}, true, []string{"*.log", "vendor"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{top, nested}, got.FilesToProcess)

		var excluded []string
		for _, s := range got.SkippedFiles {
			excluded = append(excluded, s.Path)
		}
		assert.Contains(t, excluded, filepath.Join(dir, "skip.log"))
	})

	t.Run("glob", func(t *testing.T) {
		got, err := CollectFiles([]string{filepath.Join(dir, "*.txt")}, false, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{top}, got.FilesToProcess)
	})

	t.Run("duplicates dropped", func(t *testing.T) {
		got, err := CollectFiles([]string{top, top, dir}, false, nil)
		require.NoError(t, err)
		assert.Equal(t, top, got.FilesToProcess[0])
		assert.Len(t, got.FilesToProcess, 2)
	})

	t.Run("glob without matches", func(t *testing.T) {
		_, err := CollectFiles([]string{filepath.Join(dir, "*.pdf")}, false, nil)
		assert.Error(t, err)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := CollectFiles([]string{filepath.Join(dir, "nope.txt")}, false, nil)
		assert.Error(t, err)
	})
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"/data/report.log", []string{"*.log"}, true},
		{"/data/report.txt", []string{"*.log"}, false},
		{"/data/archive/old.txt", []string{"/data/archive/*"}, true},
		{"/data/report.txt", []string{""}, false},
		{"/data/report.txt", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isExcluded(tt.path, tt.patterns))
		})
	}
}
