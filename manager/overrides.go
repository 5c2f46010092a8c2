// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package manager

import (
	"os"
	"path/filepath"
)

// Override catalog file names inside the override directory:
// overrides.<code>.txt for a language-specific catalog and overrides.txt as
// the generic fallback.
const (
	overrideBaseName = "overrides"
	overrideExt      = ".txt"
)

// OverrideCandidates returns the override catalog paths consulted for lang,
// in resolution order: the exact code, the short code when distinct, and the
// generic fallback.
//
// The generic catalog is skipped entirely for English-like codes so that a
// deliberate English selection is not shadowed by a fallback catalog meant
// for other languages.
func OverrideCandidates(dir, lang string) []string {
	if dir == "" {
		return nil
	}

	generic := filepath.Join(dir, overrideBaseName+overrideExt)

	var candidates []string

	if lang != "" {
		exact := filepath.Join(dir, overrideBaseName+"."+lang+overrideExt)
		if exact != generic {
			candidates = append(candidates, exact)
		}

		if short := shortLanguageCode(lang); short != "" {
			shortPath := filepath.Join(dir, overrideBaseName+"."+short+overrideExt)
			if shortPath != generic && len(candidates) > 0 && shortPath != candidates[0] {
				candidates = append(candidates, shortPath)
			}
		}
	}

	if !IsEnglishLike(lang) {
		candidates = append(candidates, generic)
	}

	return candidates
}

// InvalidateOverrides marks the override cache stale. The next translate
// call re-attempts candidate resolution, picking up override files that
// changed on disk. Cached plain-translation results are dropped with it.
func (m *Manager) InvalidateOverrides() {
	m.overrideAttempted = false
	m.overrideLoaded = false

	if m.results != nil {
		m.results.Purge()
	}
}

// tryLoadOverrides loads the first existing override candidate for the
// current language, at most once per invalidation.
//
// Only the first candidate that exists is consulted; if it fails to parse,
// later candidates are not tried in the same attempt. A re-attempt requires
// [Manager.InvalidateOverrides] or a language change.
func (m *Manager) tryLoadOverrides() {
	if m.overrideAttempted {
		return
	}

	m.overrideAttempted = true
	m.overrideLoaded = false

	for _, candidate := range OverrideCandidates(m.overrideDir, m.currentLanguage) {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}

		if m.overrides.LoadFile(candidate, false) {
			m.overrideLoaded = true

			m.logger.Info().Str("path", candidate).Msg("Loaded override catalog")
		} else {
			m.logger.Warn().
				Err(m.overrides.LastError()).
				Str("path", candidate).
				Msg("Failed to load override catalog")
		}

		return
	}
}
