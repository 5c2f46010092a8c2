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

const testGermanPo = `msgid ""
msgstr ""
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

msgid "Hello"
msgstr "Hallo"

msgctxt "menu"
msgid "Open"
msgstr "Öffnen"

msgid "apple"
msgid_plural "apples"
msgstr[0] "Apfel"
msgstr[1] "Äpfel"
`

const testFrenchPo = `msgid ""
msgstr ""

msgid "Hello"
msgstr "Bonjour"
`

// writeCatalog drops a compiled catalog source into the gettext layout
// root/<lang>/LC_MESSAGES/<name>.
func writeCatalog(t *testing.T, root, lang, name, content string) {
	t.Helper()

	dir := filepath.Join(root, lang, lcMessages)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func writeOverride(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// newTestManager builds a manager over a fresh locale tree with German and
// French catalogs.
func newTestManager(t *testing.T, opts Options) (*Manager, string) {
	t.Helper()

	root := t.TempDir()
	writeCatalog(t, root, "de", "base.po", testGermanPo)
	writeCatalog(t, root, "fr", "base.po", testFrenchPo)

	if opts.Scanner == nil {
		opts.Scanner = DirScanner{Roots: []string{root}}
	}

	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "de"
	}

	return New(opts), root
}

func TestManagerTranslate(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{})
	m.SetLanguage("de")

	t.Run("Compiled", func(t *testing.T) {
		assert.Equal(t, "Hallo", m.Translate("Hello"))
	})

	t.Run("IdentityFallback", func(t *testing.T) {
		assert.Equal(t, "untranslated text", m.Translate("untranslated text"))
	})
}

func TestManagerOverridePrecedence(t *testing.T) {
	t.Parallel()

	overrideDir := t.TempDir()
	writeOverride(t, overrideDir, "overrides.de.txt", "Hello: Servus\n")

	m, _ := newTestManager(t, Options{OverrideDir: overrideDir})
	m.SetLanguage("de")

	// The override layer shadows the compiled catalog.
	assert.Equal(t, "Servus", m.Translate("Hello"))

	// Tokens absent from the override catalog still resolve compiled.
	assert.Equal(t, "Apfel", m.TranslatePlural("apple", "apples", 1))
}

func TestManagerLanguageVersion(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{})

	v0 := m.LanguageVersion()
	assert.NotEqual(t, InvalidLanguageVersion, v0)

	m.SetLanguage("fr")
	assert.Equal(t, v0+1, m.LanguageVersion())

	// Re-setting the same language still bumps the version.
	m.SetLanguage("fr")
	assert.Equal(t, v0+2, m.LanguageVersion())
}

func TestManagerSetLanguageSwitchesCatalogs(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{})

	m.SetLanguage("de")
	assert.Equal(t, "Hallo", m.Translate("Hello"))

	m.SetLanguage("fr")
	assert.Equal(t, "Bonjour", m.Translate("Hello"))

	// A language with no catalogs resets the compiled layer.
	m.SetLanguage("tlh")
	assert.Equal(t, "Hello", m.Translate("Hello"))
	assert.Zero(t, m.CompiledIndex().DocumentCount())
}

func TestManagerSameLanguageRefreshesOverrides(t *testing.T) {
	t.Parallel()

	overrideDir := t.TempDir()
	writeOverride(t, overrideDir, "overrides.de.txt", "greet: hi\n")

	m := New(Options{DefaultLanguage: "de", OverrideDir: overrideDir})

	assert.Equal(t, "hi", m.Translate("greet"))

	// An on-disk edit is invisible until the override cache is invalidated.
	writeOverride(t, overrideDir, "overrides.de.txt", "greet: hey\n")
	assert.Equal(t, "hi", m.Translate("greet"))

	m.SetLanguage("de")
	assert.Equal(t, "hey", m.Translate("greet"))
}

func TestManagerInvalidateOverrides(t *testing.T) {
	t.Parallel()

	overrideDir := t.TempDir()
	writeOverride(t, overrideDir, "overrides.de.txt", "greet: hi\n")

	m := New(Options{DefaultLanguage: "de", OverrideDir: overrideDir})

	assert.Equal(t, "hi", m.Translate("greet"))

	writeOverride(t, overrideDir, "overrides.de.txt", "greet: hey\n")
	m.InvalidateOverrides()

	assert.Equal(t, "hey", m.Translate("greet"))
}

func TestManagerTranslatePlural(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{})
	m.SetLanguage("de")

	t.Run("Compiled", func(t *testing.T) {
		assert.Equal(t, "Apfel", m.TranslatePlural("apple", "apples", 1))
		assert.Equal(t, "Äpfel", m.TranslatePlural("apple", "apples", 3))
	})

	t.Run("IdentityFallback", func(t *testing.T) {
		assert.Equal(t, "pear", m.TranslatePlural("pear", "pears", 1))
		assert.Equal(t, "pears", m.TranslatePlural("pear", "pears", 2))
	})
}

func TestManagerTranslatePluralOverride(t *testing.T) {
	t.Parallel()

	overrideDir := t.TempDir()
	writeOverride(t, overrideDir, "overrides.de.txt",
		"apple(one): genau ein Apfel\n"+
			"apple(other): {count} Äpfel\n")

	m, _ := newTestManager(t, Options{OverrideDir: overrideDir})
	m.SetLanguage("de")

	assert.Equal(t, "genau ein Apfel", m.TranslatePlural("apple", "apples", 1))
	assert.Equal(t, "4 Äpfel", m.TranslatePlural("apple", "apples", 4))
}

func TestManagerTranslateWithContext(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{})
	m.SetLanguage("de")

	t.Run("CompositeKey", func(t *testing.T) {
		assert.Equal(t, "Öffnen", m.TranslateWithContext("menu", "Open"))
	})

	t.Run("UnknownContextFallsBack", func(t *testing.T) {
		assert.Equal(t, "Open", m.TranslateWithContext("verb", "Open"))
	})
}

func TestManagerContextOverrideFallback(t *testing.T) {
	t.Parallel()

	overrideDir := t.TempDir()
	writeOverride(t, overrideDir, "overrides.de.txt", "Open: Aufmachen\n")

	m, _ := newTestManager(t, Options{OverrideDir: overrideDir})
	m.SetLanguage("de")

	// The override catalog has no context dimension; a plain-token override
	// applies across all contexts.
	assert.Equal(t, "Aufmachen", m.TranslateWithContext("menu", "Open"))
	assert.Equal(t, "Aufmachen", m.TranslateWithContext("verb", "Open"))
}

func TestManagerTranslatePluralWithContext(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{})
	m.SetLanguage("de")

	// No contexted plural entry exists; identity applies per count.
	assert.Equal(t, "item", m.TranslatePluralWithContext("inv", "item", "items", 1))
	assert.Equal(t, "items", m.TranslatePluralWithContext("inv", "item", "items", 2))
}

func TestManagerResultCache(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{CacheSize: 16})

	m.SetLanguage("de")
	assert.Equal(t, "Hallo", m.Translate("Hello"))
	assert.Equal(t, "Hallo", m.Translate("Hello"))

	// The version stamp in the cache key strands the old language's entries.
	m.SetLanguage("fr")
	assert.Equal(t, "Bonjour", m.Translate("Hello"))
}

func TestManagerResultCacheCompressed(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{CacheSize: 16, CacheCompress: true})
	m.SetLanguage("de")

	assert.Equal(t, "Hallo", m.Translate("Hello"))
	assert.Equal(t, "Hallo", m.Translate("Hello"))
}

func TestGetAvailableLanguages(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{})

	assert.Equal(t, []string{"de", "fr"}, m.GetAvailableLanguages())
}

func TestMatchAvailableLanguage(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, Options{})

	assert.Equal(t, "de", m.MatchAvailableLanguage("de_DE"))
	assert.Equal(t, "fr", m.MatchAvailableLanguage("fr-CA"))
}

func TestMatchAvailableLanguageEmptyScan(t *testing.T) {
	t.Parallel()

	m := New(Options{DefaultLanguage: "de"})

	assert.Equal(t, DefaultLanguage, m.MatchAvailableLanguage("pt-BR"))
}

func TestManagerWithoutScanner(t *testing.T) {
	t.Parallel()

	m := New(Options{DefaultLanguage: "de"})

	assert.Equal(t, "Hello", m.Translate("Hello"))
	assert.Empty(t, m.GetAvailableLanguages())
}

func TestManagerIgnoresTestDataByDefault(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeCatalog(t, root, "de", "base.po", testGermanPo)

	testOnly := filepath.Join(root, "de", lcMessages, "TEST_DATA")
	require.NoError(t, os.MkdirAll(testOnly, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(testOnly, "extra.po"),
		[]byte("msgid \"fixture\"\nmsgstr \"Fixtur\"\n"), 0o600))

	t.Run("Skipped", func(t *testing.T) {
		t.Parallel()

		m := New(Options{DefaultLanguage: "de", Scanner: DirScanner{Roots: []string{root}}})
		m.SetLanguage("de")

		assert.Equal(t, "fixture", m.Translate("fixture"))
	})

	t.Run("Included", func(t *testing.T) {
		t.Parallel()

		m := New(Options{
			DefaultLanguage: "de",
			Scanner:         DirScanner{Roots: []string{root}},
			IncludeTestData: true,
		})
		m.SetLanguage("de")

		assert.Equal(t, "Fixtur", m.Translate("fixture"))
	})
}
