// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package manager ties the translation sources together: compiled catalogs
resolved through a hash index, a human-editable override catalog layered on
top, and the language state that decides which of each to load.

Lookup precedence for every translate operation is override catalog first,
then compiled catalogs, then the identity of the query itself. A missing
translation silently degrades to the original text; it never fails the host.

A Manager is confined to one logical thread. None of its operations block
and no internal locking exists; concurrent callers must serialize access
externally, for example with one manager per worker or a mutex around the
façade.
*/
package manager

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/lingora/lingora/cache"
	"codeberg.org/lingora/lingora/catalog"
	"codeberg.org/lingora/lingora/compiled"
)

// InvalidLanguageVersion is the reserved sentinel that [Manager.LanguageVersion]
// never returns; external caches may use it as an always-stale marker.
const InvalidLanguageVersion = 0

// ContextSeparator joins a message context and a message id into the
// composite key used for compiled-catalog lookups.
const ContextSeparator = compiled.EotSeparator

// Options configures a Manager. The zero value is usable: the system locale
// supplies the language, no override directory is consulted, and the result
// cache is disabled.
type Options struct {
	// DefaultLanguage is the initial language code. Empty selects the
	// system locale, falling back to [DefaultLanguage].
	DefaultLanguage string

	// OverrideDir is the directory searched for override catalogs.
	// Empty disables the override layer.
	OverrideDir string

	// Scanner enumerates compiled catalogs per language. Nil disables
	// compiled catalogs (the override layer still applies).
	Scanner Scanner

	// IncludeTestData also loads compiled catalogs whose path carries
	// the TEST_DATA marker.
	IncludeTestData bool

	// CacheSize enables a fixed-capacity result cache for plain
	// translations when positive.
	CacheSize int

	// CacheCompress stores cached results zstd-compressed.
	CacheCompress bool
}

// Manager is the top-level translation façade.
type Manager struct {
	index     *compiled.Index
	overrides *catalog.Engine

	overrideAttempted bool
	overrideLoaded    bool

	currentLanguage string
	loadedLanguage  string
	languageVersion int

	catalogFiles map[string][]string
	scanned      bool
	scanner      Scanner

	overrideDir     string
	includeTestData bool

	results *cache.Cache

	logger zerolog.Logger
}

// New constructs a Manager. It performs no I/O; catalogs load lazily on the
// first language-dependent call.
func New(opts Options) *Manager {
	lang := opts.DefaultLanguage
	if lang == "" {
		lang = SystemLanguage()
	}

	m := &Manager{
		index:           compiled.NewIndex(),
		overrides:       catalog.NewEngine(),
		currentLanguage: lang,
		languageVersion: InvalidLanguageVersion + 1,
		scanner:         opts.Scanner,
		overrideDir:     opts.OverrideDir,
		includeTestData: opts.IncludeTestData,
		logger:          log.With().Str("sys", "manager").Logger(),
	}

	if opts.CacheSize > 0 {
		results, err := cache.New(opts.CacheSize, opts.CacheCompress)
		if err == nil {
			m.results = results
		}
	}

	return m
}

// CurrentLanguage returns the active language code. It is never empty.
func (m *Manager) CurrentLanguage() string {
	return m.currentLanguage
}

// LanguageVersion returns the counter incremented by every [Manager.SetLanguage]
// call. It never equals [InvalidLanguageVersion], so external caches can use
// the sentinel to mark entries that must always be refreshed.
func (m *Manager) LanguageVersion() int {
	return m.languageVersion
}

func (m *Manager) bumpLanguageVersion() {
	m.languageVersion++
	if m.languageVersion == InvalidLanguageVersion {
		m.languageVersion++
	}
}

// ensureScanned triggers the directory scan once. Scan failures leave the
// compiled layer empty; the override layer and identity fallback still work.
func (m *Manager) ensureScanned() {
	if m.scanned {
		return
	}

	m.scanned = true
	m.catalogFiles = make(map[string][]string)

	if m.scanner == nil {
		return
	}

	found, err := m.scanner.Scan()
	if err != nil {
		m.logger.Warn().Err(err).Msg("Locale directory scan failed")

		return
	}

	m.catalogFiles = found

	m.logger.Info().Int("languages", len(found)).Msg("Scanned locale directories")
}

// SetLanguage switches the active language.
//
// Setting the language whose catalogs are already loaded only invalidates and
// retries the override cache, covering override files edited on disk without
// a language switch. Any other code loads that language's compiled documents,
// or resets the index when the code has none. Both paths bump the language
// version.
func (m *Manager) SetLanguage(code string) {
	m.currentLanguage = code
	m.ensureLanguage()

	m.InvalidateOverrides()
	m.tryLoadOverrides()
	m.bumpLanguageVersion()
}

// ensureLanguage loads the compiled catalogs of the current language unless
// they are already loaded.
func (m *Manager) ensureLanguage() {
	m.ensureScanned()

	if m.currentLanguage != m.loadedLanguage {
		m.loadedLanguage = m.currentLanguage

		files := m.catalogFiles[m.currentLanguage]
		if len(files) == 0 {
			m.index.Reset()
		} else {
			m.index.Load(files, m.includeTestData)
		}
	}
}

// GetAvailableLanguages returns the sorted language codes discovered by the
// directory scan, triggering the scan on first use.
func (m *Manager) GetAvailableLanguages() []string {
	m.ensureScanned()

	codes := make([]string, 0, len(m.catalogFiles))
	for code := range m.catalogFiles {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}

// MatchAvailableLanguage picks the best available language for a caller
// preference such as "pt-BR" or "de_DE", using BCP 47 matching over the
// scanned codes. It returns [DefaultLanguage] when nothing is available.
func (m *Manager) MatchAvailableLanguage(preferred string) string {
	codes := m.GetAvailableLanguages()
	if len(codes) == 0 {
		return DefaultLanguage
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tags = append(tags, language.Make(strings.ReplaceAll(code, "_", "-")))
	}

	matcher := language.NewMatcher(tags)
	_, idx, _ := matcher.Match(language.Make(strings.ReplaceAll(preferred, "_", "-")))

	return codes[idx]
}

// cacheKey stamps a cache key with the language version, so a version bump
// strands the previous language's entries.
func (m *Manager) cacheKey(message string) string {
	return strconv.Itoa(m.languageVersion) + "\x00" + message
}

// Translate resolves message through the override layer, then the compiled
// catalogs, and finally returns message itself.
func (m *Manager) Translate(message string) string {
	var key string

	if m.results != nil {
		key = m.cacheKey(message)
		if cached, ok := m.results.Get(key); ok {
			return cached
		}
	}

	out := m.translate(message)

	if m.results != nil {
		m.results.Add(key, out)
	}

	return out
}

func (m *Manager) translate(message string) string {
	m.ensureLanguage()

	if translated, ok := m.tryTranslateOverride(message); ok {
		return translated
	}

	if ref, ok := m.index.Lookup(message); ok {
		return m.index.Document(ref.Document).Translated(ref.String)
	}

	return message
}

// TranslatePlural resolves the (singular, plural) pair for n with the same
// precedence as [Manager.Translate]. The override layer is keyed by the
// singular form and applies its own plural label chain.
func (m *Manager) TranslatePlural(singular, plural string, n int) string {
	m.ensureLanguage()

	if translated, ok := m.tryTranslatePluralOverride(singular, n); ok {
		return translated
	}

	if ref, ok := m.index.Lookup(singular); ok {
		return m.index.Document(ref.Document).TranslatedPlural(ref.String, n)
	}

	if n == 1 {
		return singular
	}

	return plural
}

// TranslateWithContext disambiguates message under a context key for the
// compiled-catalog lookup.
//
// The override layer does not encode contexts, so the plain message is
// consulted there and applies as a global fallback. This is a documented
// limitation of the override catalog format, not an oversight; downstream
// behavior relies on context lookups falling through to plain overrides.
func (m *Manager) TranslateWithContext(context, message string) string {
	m.ensureLanguage()

	if translated, ok := m.tryTranslateOverride(message); ok {
		return translated
	}

	if ref, ok := m.index.Lookup(context + ContextSeparator + message); ok {
		return m.index.Document(ref.Document).Translated(ref.String)
	}

	return message
}

// TranslatePluralWithContext combines [Manager.TranslateWithContext] and
// [Manager.TranslatePlural]. The override layer again sees only the plain
// singular form.
func (m *Manager) TranslatePluralWithContext(context, singular, plural string, n int) string {
	m.ensureLanguage()

	if translated, ok := m.tryTranslatePluralOverride(singular, n); ok {
		return translated
	}

	if ref, ok := m.index.Lookup(context + ContextSeparator + singular); ok {
		return m.index.Document(ref.Document).TranslatedPlural(ref.String, n)
	}

	if n == 1 {
		return singular
	}

	return plural
}

// tryTranslateOverride consults the override engine for token. The second
// result is false when the override layer is unavailable or has no entry;
// the caller then falls through to the compiled catalogs.
func (m *Manager) tryTranslateOverride(token string) (string, bool) {
	m.tryLoadOverrides()

	if !m.overrideLoaded {
		return "", false
	}

	translated := m.overrides.Translate(token, nil)
	if errors.Is(m.overrides.LastError(), catalog.ErrTokenNotFound) {
		return "", false
	}

	return translated, true
}

func (m *Manager) tryTranslatePluralOverride(token string, n int) (string, bool) {
	m.tryLoadOverrides()

	if !m.overrideLoaded {
		return "", false
	}

	translated := m.overrides.TranslatePlural(token, n, nil)
	if errors.Is(m.overrides.LastError(), catalog.ErrTokenNotFound) {
		return "", false
	}

	return translated, true
}

// OverrideEngine exposes the override catalog engine for inspection
// operations such as dump and find. Mutating loads through it bypass the
// manager's cache bookkeeping; call [Manager.InvalidateOverrides] afterwards.
func (m *Manager) OverrideEngine() *catalog.Engine {
	return m.overrides
}

// CompiledIndex exposes the hash index over the loaded compiled documents.
func (m *Manager) CompiledIndex() *compiled.Index {
	return m.index
}
