// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package manager

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// lcMessages is the directory segment that marks a language's catalog
// directory, following the gettext filesystem convention
// <root>/<lang>/LC_MESSAGES/<catalog>.
const lcMessages = "LC_MESSAGES"

// Scanner enumerates compiled catalog files per language code. It is an
// external collaborator of the manager; the build system decides what lives
// on disk and where.
type Scanner interface {
	Scan() (map[string][]string, error)
}

// DirScanner walks a set of locale root directories for compiled catalogs
// (.mo and .po files) under <lang>/LC_MESSAGES/ paths.
type DirScanner struct {
	Roots []string
}

// Scan walks every root concurrently and merges the results. Roots that do
// not exist are skipped silently; the locale directory is optional.
func (s DirScanner) Scan() (map[string][]string, error) {
	perRoot := make([]map[string][]string, len(s.Roots))

	var g errgroup.Group

	for i, root := range s.Roots {
		g.Go(func() error {
			found, err := scanRoot(root)
			if err != nil {
				return err
			}

			perRoot[i] = found

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string][]string)

	for _, found := range perRoot {
		for lang, files := range found {
			merged[lang] = append(merged[lang], files...)
		}
	}

	// Deterministic order regardless of walk interleaving.
	for _, files := range merged {
		sort.Strings(files)
	}

	return merged, nil
}

func scanRoot(root string) (map[string][]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil //nolint:nilerr // a missing locale root is not an error
	}

	found := make(map[string][]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".mo", ".po":
		default:
			return nil
		}

		lang := LanguageCodeOfPath(path)
		if lang == "" {
			return nil
		}

		found[lang] = append(found[lang], path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// LanguageCodeOfPath derives the language code from the path segment
// preceding LC_MESSAGES, or "" when the path does not follow the layout.
func LanguageCodeOfPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")

	for i := len(parts) - 1; i > 0; i-- {
		if parts[i] == lcMessages {
			return parts[i-1]
		}
	}

	return ""
}
