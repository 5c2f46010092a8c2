// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package compiled

import (
	"bytes"
	"encoding/binary"
	"os"
)

// Magic byte order identifiers of the MO format.
const (
	moMagicLittleEndian uint32 = 0x950412de
	moMagicBigEndian    uint32 = 0xde120495
)

const moHeaderSize = 28

// moDocument is a Document backed by a binary gettext MO catalog, fully
// decoded at load time.
type moDocument struct {
	path      string
	originals []string
	singulars []string
	plurals   [][]string // nil when the entry has no plural forms
}

// OpenMoFile reads and decodes the MO catalog at path.
func OpenMoFile(path string) (Document, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- document paths come from the locale scan
	if err != nil {
		return nil, &DocumentError{Path: path, Reason: err.Error()}
	}

	return newMoDocument(path, raw)
}

// NewMoDocument decodes an in-memory MO catalog. The path is used only for
// error reporting.
func NewMoDocument(path string, raw []byte) (Document, error) {
	return newMoDocument(path, raw)
}

func newMoDocument(path string, raw []byte) (*moDocument, error) {
	if len(raw) < moHeaderSize {
		return nil, &DocumentError{Path: path, Reason: "truncated header"}
	}

	var order binary.ByteOrder

	switch binary.LittleEndian.Uint32(raw[0:4]) {
	case moMagicLittleEndian:
		order = binary.LittleEndian
	case moMagicBigEndian:
		order = binary.BigEndian
	default:
		return nil, &DocumentError{Path: path, Reason: "unrecognized byte order mark"}
	}

	// Readers must reject unexpected major revisions.
	if major := order.Uint16(raw[4:6]); major > 1 {
		return nil, &DocumentError{Path: path, Reason: "unsupported major revision"}
	}

	count := order.Uint32(raw[8:12])
	idTable := order.Uint32(raw[12:16])
	strTable := order.Uint32(raw[16:20])

	// The count is untrusted input; both descriptor tables must fit inside
	// the file before any count-sized allocation happens.
	tableSize := uint64(count) * 8
	if uint64(idTable)+tableSize > uint64(len(raw)) ||
		uint64(strTable)+tableSize > uint64(len(raw)) {
		return nil, &DocumentError{Path: path, Reason: "string table out of bounds"}
	}

	doc := &moDocument{
		path:      path,
		originals: make([]string, 0, count),
		singulars: make([]string, 0, count),
		plurals:   make([][]string, 0, count),
	}

	for i := uint32(0); i < count; i++ {
		id, err := moString(path, raw, order, idTable+i*8)
		if err != nil {
			return nil, err
		}

		str, err := moString(path, raw, order, strTable+i*8)
		if err != nil {
			return nil, err
		}

		// A NUL inside the msgid separates the singular from the plural
		// form. The stored original keeps any context prefix but drops the
		// plural part, so index lookups match on the singular alone.
		original := id

		var plural []string

		if nul := bytes.IndexByte(id, 0); nul >= 0 {
			original = id[:nul]
			plural = splitNul(str)
		}

		doc.originals = append(doc.originals, string(original))
		doc.plurals = append(doc.plurals, plural)

		if plural != nil {
			doc.singulars = append(doc.singulars, plural[0])
		} else {
			doc.singulars = append(doc.singulars, string(str))
		}
	}

	return doc, nil
}

// moString reads one length-prefixed string via the descriptor table entry
// at tableOffset.
func moString(path string, raw []byte, order binary.ByteOrder, tableOffset uint32) ([]byte, error) {
	if int(tableOffset)+8 > len(raw) || int(tableOffset) < 0 {
		return nil, &DocumentError{Path: path, Reason: "string table out of bounds"}
	}

	size := order.Uint32(raw[tableOffset : tableOffset+4])
	offset := order.Uint32(raw[tableOffset+4 : tableOffset+8])

	end := uint64(offset) + uint64(size)
	if end > uint64(len(raw)) {
		return nil, &DocumentError{Path: path, Reason: "string data out of bounds"}
	}

	return raw[offset:end], nil
}

func splitNul(b []byte) []string {
	parts := bytes.Split(b, []byte{0})

	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}

	return out
}

func (d *moDocument) Count() int {
	return len(d.originals)
}

func (d *moDocument) Original(i int) string {
	if i < 0 || i >= len(d.originals) {
		return ""
	}

	return d.originals[i]
}

func (d *moDocument) Translated(i int) string {
	if i < 0 || i >= len(d.singulars) {
		return ""
	}

	return d.singulars[i]
}

// TranslatedPlural selects a plural form for n. Entries without plural forms
// fall back to the singular translation. The form index uses the Germanic
// two-form rule (n != 1 selects form 1), clamped to the forms the document
// actually carries.
func (d *moDocument) TranslatedPlural(i int, n int) string {
	if i < 0 || i >= len(d.plurals) || d.plurals[i] == nil {
		return d.Translated(i)
	}

	forms := d.plurals[i]

	form := 0
	if n != 1 {
		form = 1
	}

	if form >= len(forms) {
		form = len(forms) - 1
	}

	return forms[form]
}
