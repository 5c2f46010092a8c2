// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one translation for a token, qualified by an optional label.
// Labels are stored lowercased; the empty label marks the default entry.
type Entry struct {
	Label string
	Text  string
}

// Table maps a token to its entries. Within one token's bucket there is at
// most one entry per distinct label.
type Table map[string][]Entry

// Meta holds the reserved @meta.* tokens of a catalog. They are captured
// separately and never inserted into the table.
type Meta struct {
	Locale     string
	Fallback   string
	Note       string
	PluralRule int
}

// ParseError describes a rejected line in strict mode.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
}

const (
	metaPrefix     = "@meta."
	metaLocale     = "@meta.locale"
	metaFallback   = "@meta.fallback"
	metaNote       = "@meta.note"
	metaPluralRule = "@meta.plural_rule"
)

// Parse reads a text catalog line by line.
//
// In strict mode any malformed line, or a duplicate (token, label) pair,
// aborts the parse with a [ParseError] carrying the line number. In lenient
// mode malformed lines are skipped and a duplicate overwrites the earlier
// entry.
func Parse(text string, strict bool) (Table, Meta, error) {
	table := make(Table)

	var meta Meta

	text = stripUTF8BOM(text)

	for num, raw := range strings.Split(text, "\n") {
		token, label, value, reason := parseLine(raw)
		if reason != "" {
			if strict {
				return nil, Meta{}, &ParseError{Line: num + 1, Reason: reason}
			}

			continue
		}

		if token == "" {
			// Blank line or comment.
			continue
		}

		if strings.HasPrefix(token, metaPrefix) {
			switch token {
			case metaLocale:
				meta.Locale = value
			case metaFallback:
				meta.Fallback = value
			case metaNote:
				meta.Note = value
			case metaPluralRule:
				// A non-numeric plural rule degrades to 0 without erroring.
				rule, err := strconv.Atoi(value)
				if err != nil {
					rule = 0
				}

				meta.PluralRule = rule
			}

			continue
		}

		label = lowerASCII(label)

		bucket := table[token]

		replaced := false

		for i := range bucket {
			if bucket[i].Label == label {
				if strict {
					return nil, Meta{}, &ParseError{
						Line:   num + 1,
						Reason: fmt.Sprintf("duplicate entry for token %q, label %q", token, label),
					}
				}

				bucket[i].Text = value
				replaced = true

				break
			}
		}

		if !replaced {
			bucket = append(bucket, Entry{Label: label, Text: value})
		}

		table[token] = bucket
	}

	return table, meta, nil
}

// parseLine splits one catalog line into token, label and unescaped text.
//
// Grammar: <token>[(<label>)] ':' <text>. A blank or comment line returns
// empty values with no reason; a malformed line returns a non-empty reason.
func parseLine(raw string) (token, label, text, reason string) {
	line := trimASCII(raw)
	if line == "" || line[0] == '#' {
		return "", "", "", ""
	}

	colon := indexUnescapedColon(line)
	if colon < 0 {
		return "", "", "", "missing ':' separator"
	}

	head := trimASCII(line[:colon])
	body := strings.TrimLeft(line[colon+1:], " \t\r\n\v\f")

	if open := strings.IndexByte(head, '('); open >= 0 {
		closing := strings.IndexByte(head[open+1:], ')')
		if closing < 0 {
			return "", "", "", "label '(' without closing ')'"
		}

		closing += open + 1

		if tail := trimASCII(head[closing+1:]); tail != "" {
			return "", "", "", "unexpected text after label"
		}

		label = trimASCII(head[open+1 : closing])
		head = trimASCII(head[:open])
	}

	token = trimASCII(head)
	if token == "" {
		return "", "", "", "empty token"
	}

	return token, label, unescapeText(body), ""
}

// indexUnescapedColon returns the index of the first ':' that is not
// preceded by a backslash escape, or -1.
func indexUnescapedColon(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip the escaped byte
		case ':':
			return i
		}
	}

	return -1
}

// unescapeText resolves the catalog escapes \n \t \r \\ and \:.
// Any other escaped byte passes through with the backslash dropped.
func unescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])

			continue
		}

		i++

		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			// Covers '\\' and ':' as well as pass-through for anything else.
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// escapeText is the inverse of unescapeText for the bytes that would
// otherwise break the line format on a re-parse. A leading space would be
// eaten by the parser's whitespace trim, so it is emitted as the
// pass-through escape "\ ".
func escapeText(s string) string {
	if !strings.ContainsAny(s, "\\\n\t\r") && !strings.HasPrefix(s, " ") {
		return s
	}

	var b strings.Builder

	b.Grow(len(s) + 4)

	start := 0
	if strings.HasPrefix(s, " ") {
		b.WriteString(`\ `)
		start = 1
	}

	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// stripUTF8BOM removes a leading UTF-8 byte order mark.
func stripUTF8BOM(s string) string {
	return strings.TrimPrefix(s, "\xef\xbb\xbf")
}

// trimASCII trims ASCII whitespace from both ends. The catalog format is
// deliberately Unicode-naive; multi-byte whitespace is significant.
func trimASCII(s string) string {
	return strings.Trim(s, " \t\r\n\v\f")
}

// lowerASCII lowercases ASCII letters only, leaving other bytes untouched.
func lowerASCII(s string) string {
	hasUpper := false

	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true

			break
		}
	}

	if !hasUpper {
		return s
	}

	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}
