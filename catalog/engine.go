// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// MaxCatalogFileSize is the ceiling for catalogs loaded from disk. Larger
// files are rejected before parsing to bound memory use from untrusted input.
const MaxCatalogFileSize = 16 << 20

// Sentinel errors recorded in the engine's last-error slot. Callers branch on
// [ErrTokenNotFound] with errors.Is to distinguish a plain miss from other
// failures.
var (
	ErrTokenNotFound  = errors.New("TOKEN_NOT_FOUND")
	ErrNoSource       = errors.New("no catalog to reload")
	ErrFileTooLarge   = errors.New("catalog file exceeds size limit")
	ErrNotImplemented = errors.New("binary export is not implemented")
)

// Engine owns a parsed text catalog and its meta block.
//
// Every public operation fails soft: nothing panics across the boundary and
// failures are recorded in a per-instance last-error slot consulted via
// [Engine.LastError] after the call.
//
// An Engine is not safe for concurrent use; the host serializes access.
type Engine struct {
	table Table
	meta  Meta

	lastErr error

	// Source remembered for Reload. At most one of the two is set.
	sourceText *string
	sourcePath *string
}

// NewEngine returns an empty engine. Loading a catalog is a separate step so
// that a failed load leaves a usable (empty) engine behind.
func NewEngine() *Engine {
	return &Engine{table: make(Table)}
}

// LastError returns the error recorded by the most recent operation, or nil.
func (e *Engine) LastError() error {
	return e.lastErr
}

func (e *Engine) setLastError(err error) {
	e.lastErr = err
}

func (e *Engine) clearLastError() {
	e.lastErr = nil
}

// MetaLocale returns the @meta.locale value of the loaded catalog.
func (e *Engine) MetaLocale() string { return e.meta.Locale }

// MetaFallback returns the @meta.fallback value of the loaded catalog.
func (e *Engine) MetaFallback() string { return e.meta.Fallback }

// MetaNote returns the @meta.note value of the loaded catalog.
func (e *Engine) MetaNote() string { return e.meta.Note }

// MetaPluralRule returns the @meta.plural_rule value of the loaded catalog.
func (e *Engine) MetaPluralRule() int { return e.meta.PluralRule }

// Load parses text and replaces the table and meta block wholesale on
// success. The text is remembered as the source for [Engine.Reload].
func (e *Engine) Load(text string, strict bool) bool {
	e.clearLastError()

	table, meta, err := Parse(text, strict)
	if err != nil {
		e.setLastError(err)

		return false
	}

	e.table = table
	e.meta = meta
	e.sourceText = &text
	e.sourcePath = nil

	return true
}

// LoadFile reads path and loads it like [Engine.Load], remembering the path
// for [Engine.Reload]. Files above [MaxCatalogFileSize] are rejected before
// being read.
func (e *Engine) LoadFile(path string, strict bool) bool {
	e.clearLastError()

	info, err := os.Stat(path)
	if err != nil {
		e.setLastError(fmt.Errorf("open catalog: %w", err))

		return false
	}

	if info.Size() > MaxCatalogFileSize {
		e.setLastError(fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, info.Size()))

		return false
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- catalog path comes from the host
	if err != nil {
		e.setLastError(fmt.Errorf("read catalog: %w", err))

		return false
	}

	if !e.Load(string(raw), strict) {
		return false
	}

	e.sourcePath = &path
	e.sourceText = nil

	return true
}

// Reload re-parses the last-loaded source in lenient mode. It fails if no
// source was ever loaded.
func (e *Engine) Reload() bool {
	if e.sourceText != nil {
		return e.Load(*e.sourceText, false)
	}

	if e.sourcePath != nil {
		return e.LoadFile(*e.sourcePath, false)
	}

	e.setLastError(ErrNoSource)

	return false
}

// findEntry returns the entry for (token, label) or nil. The label is
// compared lowercased, matching how entries are stored.
func (e *Engine) findEntry(token, label string) *Entry {
	bucket, ok := e.table[token]
	if !ok {
		return nil
	}

	label = lowerASCII(label)

	for i := range bucket {
		if bucket[i].Label == label {
			return &bucket[i]
		}
	}

	return nil
}

// Translate resolves token against the default entry and substitutes
// positional arguments. On a miss the token itself is returned and the
// last error is [ErrTokenNotFound].
func (e *Engine) Translate(token string, args []string) string {
	e.clearLastError()

	entry := e.findEntry(token, "")
	if entry == nil {
		e.setLastError(ErrTokenNotFound)

		return token
	}

	return applyArgs(entry.Text, args)
}

// TranslatePlural resolves token using the plural label chain.
//
// count == 1 tries "one", then "singular", then the default entry; any other
// count tries "other", then "plural", then the default. After positional
// substitution every literal "{count}" is replaced by the decimal count.
func (e *Engine) TranslatePlural(token string, count int, args []string) string {
	e.clearLastError()

	var labels [2]string
	if count == 1 {
		labels = [2]string{"one", "singular"}
	} else {
		labels = [2]string{"other", "plural"}
	}

	entry := e.findEntry(token, labels[0])
	if entry == nil {
		entry = e.findEntry(token, labels[1])
	}

	if entry == nil {
		entry = e.findEntry(token, "")
	}

	if entry == nil {
		e.setLastError(ErrTokenNotFound)

		return token
	}

	out := applyArgs(entry.Text, args)

	return strings.ReplaceAll(out, "{count}", strconv.Itoa(count))
}

// applyArgs substitutes positional placeholders {0}, {1}, ... with args by
// index. Placeholders that are not all-digit, or whose index is out of range,
// stay in the output literally.
func applyArgs(text string, args []string) string {
	if !strings.ContainsRune(text, '{') {
		return text
	}

	var b strings.Builder

	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			b.WriteByte(text[i])

			continue
		}

		end := strings.IndexByte(text[i+1:], '}')
		if end < 0 {
			b.WriteByte(text[i])

			continue
		}

		end += i + 1
		key := text[i+1 : end]

		if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx < len(args) && allDigits(key) {
			b.WriteString(args[idx])
		} else {
			b.WriteString(text[i : end+1])
		}

		i = end
	}

	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// renderEntry formats one table entry in the line format understood by Parse,
// escaping bytes that would otherwise break a re-parse.
func renderEntry(b *strings.Builder, token string, entry Entry) {
	b.WriteString(token)

	if entry.Label != "" {
		b.WriteByte('(')
		b.WriteString(entry.Label)
		b.WriteByte(')')
	}

	b.WriteString(": ")
	b.WriteString(escapeText(entry.Text))
	b.WriteByte('\n')
}

// DumpTable renders the whole table in the catalog line format, one entry per
// line, sorted by token for deterministic output. Parsing the dump with Load
// reproduces an equivalent table.
func (e *Engine) DumpTable() string {
	tokens := make([]string, 0, len(e.table))
	for token := range e.table {
		tokens = append(tokens, token)
	}

	sort.Strings(tokens)

	var b strings.Builder

	for _, token := range tokens {
		for _, entry := range e.table[token] {
			renderEntry(&b, token, entry)
		}
	}

	return b.String()
}

// FindAny searches token, label and text of every entry for query,
// case-insensitively, and returns the matches rendered like [Engine.DumpTable].
func (e *Engine) FindAny(query string) string {
	q := lowerASCII(query)

	tokens := make([]string, 0, len(e.table))
	for token := range e.table {
		tokens = append(tokens, token)
	}

	sort.Strings(tokens)

	var b strings.Builder

	for _, token := range tokens {
		tokenLC := lowerASCII(token)

		for _, entry := range e.table[token] {
			if strings.Contains(tokenLC, q) ||
				strings.Contains(entry.Label, q) ||
				strings.Contains(lowerASCII(entry.Text), q) {
				renderEntry(&b, token, entry)
			}
		}
	}

	return b.String()
}

// Check codes returned by [Engine.CheckCatalog].
const (
	CheckOK           = 0
	CheckEmptyCatalog = 1
)

// CheckCatalog reports the only integrity signal the engine exposes: whether
// the table is empty. Deeper validation (for example dangling {N} references)
// is deliberately not performed.
func (e *Engine) CheckCatalog() (string, int) {
	if len(e.table) == 0 {
		return "EMPTY_CATALOG", CheckEmptyCatalog
	}

	return "OK", CheckOK
}

// ExportBinary is a reserved extension point for writing a compiled catalog.
// It always fails; the capability gap is intentional and the last error is
// [ErrNotImplemented].
func (e *Engine) ExportBinary(path string) bool {
	e.setLastError(fmt.Errorf("%w: cannot export to %s", ErrNotImplemented, path))

	return false
}

// Len returns the number of distinct tokens in the table.
func (e *Engine) Len() int {
	return len(e.table)
}
