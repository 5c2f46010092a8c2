// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package compiled

import (
	"os"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// gotext's lookup methods take printf-style format strings. The msgids passed
// here are dynamic catalog strings and no format vars are ever supplied, so no
// formatting takes place; calling through these function values keeps the
// printf analyzer from treating the msgids as format strings.
var (
	poGet   = (*gotext.Po).Get
	poGetC  = (*gotext.Po).GetC
	poGetN  = (*gotext.Po).GetN
	poGetNC = (*gotext.Po).GetNC
)

// poEntry is one enumerated message of a PO catalog. The translation side is
// resolved through gotext so that the catalog's own Plural-Forms rule applies.
type poEntry struct {
	ctx         string
	msgid       string
	msgidPlural string
}

// poDocument adapts a gettext PO source catalog to the Document contract.
//
// gotext owns translation lookup and plural-rule evaluation; the adapter only
// contributes the ordinal enumeration of original strings that the hash index
// requires, which gotext does not expose.
type poDocument struct {
	path    string
	po      *gotext.Po
	entries []poEntry
}

// OpenPoFile parses the PO catalog at path.
func OpenPoFile(path string) (Document, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- document paths come from the locale scan
	if err != nil {
		return nil, &DocumentError{Path: path, Reason: err.Error()}
	}

	return NewPoDocument(path, string(raw))
}

// NewPoDocument parses an in-memory PO catalog. The path is used only for
// error reporting.
func NewPoDocument(path, source string) (Document, error) {
	entries, err := scanPoEntries(path, source)
	if err != nil {
		return nil, err
	}

	po := gotext.NewPo()
	po.Parse([]byte(source))

	return &poDocument{path: path, po: po, entries: entries}, nil
}

func (d *poDocument) Count() int {
	return len(d.entries)
}

func (d *poDocument) Original(i int) string {
	if i < 0 || i >= len(d.entries) {
		return ""
	}

	e := d.entries[i]
	if e.ctx != "" {
		return e.ctx + EotSeparator + e.msgid
	}

	return e.msgid
}

func (d *poDocument) Translated(i int) string {
	if i < 0 || i >= len(d.entries) {
		return ""
	}

	e := d.entries[i]
	if e.ctx != "" {
		return poGetC(d.po, e.msgid, e.ctx)
	}

	return poGet(d.po, e.msgid)
}

func (d *poDocument) TranslatedPlural(i int, n int) string {
	if i < 0 || i >= len(d.entries) {
		return ""
	}

	e := d.entries[i]
	if e.msgidPlural == "" {
		return d.Translated(i)
	}

	if e.ctx != "" {
		return poGetNC(d.po, e.msgid, e.msgidPlural, n, e.ctx)
	}

	return poGetN(d.po, e.msgid, e.msgidPlural, n)
}

// scanPoEntries enumerates the (msgctxt, msgid, msgid_plural) triples of a PO
// source in file order. Translations and comments are skipped; gotext parses
// those. Quoted strings use C-style escapes, which strconv.Unquote resolves.
func scanPoEntries(path, source string) ([]poEntry, error) {
	var (
		entries   []poEntry
		current   poEntry
		target    *string
		open      bool
		msgidSeen bool
	)

	flush := func() {
		if open {
			entries = append(entries, current)
			current = poEntry{}
			open = false
			msgidSeen = false
		}
	}

	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			target = nil

		case strings.HasPrefix(line, "msgctxt "):
			// msgctxt opens the next entry, ahead of its msgid.
			flush()

			s, err := unquotePoString(path, strings.TrimPrefix(line, "msgctxt "))
			if err != nil {
				return nil, err
			}

			current.ctx = s
			open = true
			target = &current.ctx

		case strings.HasPrefix(line, "msgid_plural "):
			s, err := unquotePoString(path, strings.TrimPrefix(line, "msgid_plural "))
			if err != nil {
				return nil, err
			}

			current.msgidPlural = s
			target = &current.msgidPlural

		case strings.HasPrefix(line, "msgid "):
			// A fresh msgid closes the previous entry, unless a msgctxt
			// line just opened this one.
			if msgidSeen {
				flush()
			}

			s, err := unquotePoString(path, strings.TrimPrefix(line, "msgid "))
			if err != nil {
				return nil, err
			}

			current.msgid = s
			open = true
			msgidSeen = true
			target = &current.msgid

		case strings.HasPrefix(line, "msgstr"):
			target = nil

		case strings.HasPrefix(line, `"`):
			// Continuation of the preceding keyword line.
			if target != nil {
				s, err := unquotePoString(path, line)
				if err != nil {
					return nil, err
				}

				*target += s
			}

		default:
			target = nil
		}
	}

	flush()

	return entries, nil
}

func unquotePoString(path, s string) (string, error) {
	s = strings.TrimSpace(s)

	out, err := strconv.Unquote(s)
	if err != nil {
		return "", &DocumentError{Path: path, Reason: "malformed quoted string " + s}
	}

	return out, nil
}
