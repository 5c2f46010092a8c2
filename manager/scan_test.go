// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package manager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
}

func TestDirScanner(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	touch(t, filepath.Join(root, "de", lcMessages, "base.mo"))
	touch(t, filepath.Join(root, "de", lcMessages, "addon.po"))
	touch(t, filepath.Join(root, "fr", lcMessages, "base.mo"))

	// Files outside the LC_MESSAGES layout or with foreign extensions are
	// not catalogs.
	touch(t, filepath.Join(root, "de", lcMessages, "readme.txt"))
	touch(t, filepath.Join(root, "stray.mo"))

	found, err := DirScanner{Roots: []string{root}}.Scan()
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, []string{
		filepath.Join(root, "de", lcMessages, "addon.po"),
		filepath.Join(root, "de", lcMessages, "base.mo"),
	}, found["de"])
	assert.Len(t, found["fr"], 1)
}

func TestDirScannerMergesRoots(t *testing.T) {
	t.Parallel()

	rootA := t.TempDir()
	rootB := t.TempDir()

	touch(t, filepath.Join(rootA, "de", lcMessages, "base.mo"))
	touch(t, filepath.Join(rootB, "de", lcMessages, "mods.mo"))
	touch(t, filepath.Join(rootB, "ja", lcMessages, "base.mo"))

	found, err := DirScanner{Roots: []string{rootA, rootB}}.Scan()
	require.NoError(t, err)

	assert.Len(t, found, 2)
	assert.Len(t, found["de"], 2)
	assert.Len(t, found["ja"], 1)
}

func TestDirScannerMissingRoot(t *testing.T) {
	t.Parallel()

	found, err := DirScanner{
		Roots: []string{filepath.Join(t.TempDir(), "absent")},
	}.Scan()

	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestLanguageCodeOfPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want string
	}{
		{"locale/de/LC_MESSAGES/base.mo", "de"},
		{"/usr/share/locale/pt_BR/LC_MESSAGES/app.mo", "pt_BR"},
		{"locale/de/LC_MESSAGES/TEST_DATA/extra.mo", "de"},
		{"locale/base.mo", ""},
		{"LC_MESSAGES/base.mo", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, LanguageCodeOfPath(tc.path), tc.path)
	}
}
