// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package compiled

import (
	"fmt"
	"path"
	"strings"
)

// EotSeparator joins a message context and its message id inside a compiled
// document's original string, matching the gettext convention.
const EotSeparator = "\x04"

// Document is an opaque compiled catalog. It supplies ordinal access to
// original strings and their translations; the index never depends on how
// the document was encoded.
//
// Documents are immutable once loaded.
type Document interface {
	// Count returns the number of strings in the document.
	Count() int

	// Original returns the original (untranslated) string at ordinal i.
	// Context-qualified strings keep their "context\x04message" form.
	// Ordinal 0 is conventionally the empty-msgid metadata header.
	Original(i int) string

	// Translated returns the translated string at ordinal i.
	Translated(i int) string

	// TranslatedPlural returns the plural form of the translation at
	// ordinal i appropriate for n.
	TranslatedPlural(i int, n int) string
}

// DocumentError reports a malformed compiled document. The index skips the
// offending document and keeps loading the rest.
type DocumentError struct {
	Path   string
	Reason string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("invalid compiled document %s: %s", e.Path, e.Reason)
}

// Open loads the compiled document at p, picking the decoder from the file
// extension: ".mo" for binary gettext catalogs, ".po" for source catalogs.
func Open(p string) (Document, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".mo":
		return OpenMoFile(p)
	case ".po":
		return OpenPoFile(p)
	default:
		return nil, &DocumentError{Path: p, Reason: "unrecognized catalog extension"}
	}
}
