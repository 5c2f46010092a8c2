// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog implements the human-editable override catalog: a
line-oriented text format parsed into a token table, and an engine that
resolves tokens with positional arguments and plural labels.

# Format

One entry per line. Blank lines and lines starting with '#' are skipped.

	token: text
	token(label): text
	@meta.locale: en
	@meta.plural_rule: 1

The first unescaped ':' separates the head from the text. Labels qualify
plural forms or variants and are matched case-insensitively; the empty label
marks the default entry. The text part understands the escapes \n \t \r \\
and \:. Any other escaped character is kept literally with the backslash
dropped.

Reserved @meta.* tokens describe the catalog itself and never enter the
table.

# Error model

Engine operations never panic and never return errors directly; each call
records its outcome in a per-instance last-error slot. A failed lookup
records [ErrTokenNotFound] and returns the token unchanged, so untranslated
tokens degrade to their identity rather than crashing or blocking the host.
*/
package catalog
