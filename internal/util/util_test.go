// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package util

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandUser(t *testing.T) {
	usr, err := user.Current()
	require.NoError(t, err)
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "tilde", path: "~", want: usr.HomeDir},
		{name: "tilde prefix", path: filepath.Join("~", "snapshots"), want: filepath.Join(usr.HomeDir, "snapshots")},
		{name: "absolute", path: "/tmp/x", want: "/tmp/x"},
		{name: "tilde user", path: "~other/x", want: "~other/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandUser(tt.path))
		})
	}
}

func TestAbsPath(t *testing.T) {
	path, err := AbsPath("relative")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
}

func TestFileAndDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "leaves.yaml")
	require.NoError(t, os.WriteFile(file, []byte("leaves: []\n"), 0644))

	exists, err := FileExists(file)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = FileExists(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.False(t, exists)

	_, err = FileExists(dir)
	assert.Error(t, err)

	exists, err = DirectoryExists(dir)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = DirectoryExists(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.False(t, exists)

	_, err = DirectoryExists(file)
	assert.Error(t, err)

	assert.True(t, FileOrDirectoryExists(file))
	assert.False(t, FileOrDirectoryExists(filepath.Join(dir, "missing")))
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, CreateDirectoryIfNotExists(dir, 0755))
	exists, err := DirectoryExists(dir)
	require.NoError(t, err)
	assert.True(t, exists)
	// already present
	assert.NoError(t, CreateDirectoryIfNotExists(dir, 0755))
}

func TestUniqueAppend(t *testing.T) {
	s := UniqueAppend([]string{"txt"}, "json")
	s = UniqueAppend(s, "txt")
	assert.Equal(t, []string{"txt", "json"}, s)
}
