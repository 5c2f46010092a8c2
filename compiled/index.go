// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package compiled

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TestDataMarker flags catalog paths that belong to test fixtures. Such
// paths are skipped by [Index.Load] unless test-only documents are allowed.
const TestDataMarker = "TEST_DATA"

// Ref locates one string inside the index: the document ordinal within the
// index and the string ordinal within that document.
type Ref struct {
	Document int
	String   int
}

// Index resolves exact original-string matches across a set of compiled
// documents without linear scans.
//
// The hash table maps a string hash to the list of candidates sharing it;
// every candidate is verified by true string equality before use, so hash
// collisions can never cross-resolve. This two-level structure is kept
// explicit rather than folded into a multimap to keep the disambiguation
// step visible and testable.
//
// An Index is not safe for concurrent mutation; the host serializes access.
type Index struct {
	documents []Document
	buckets   map[uint32][]Ref

	logger zerolog.Logger
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		buckets: make(map[uint32][]Ref),
		logger:  log.With().Str("sys", "compiled").Logger(),
	}
}

// Hash is the polynomial rolling hash used for the string index
// (djb2: seed 5381, multiplier 33).
func Hash(s string) uint32 {
	h := uint32(5381)

	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}

	return h
}

// Load opens every path as a compiled document and rebuilds the hash index
// over the result.
//
// Loading is resilient by default: a malformed document is logged and
// skipped, and never prevents the remaining documents from loading. Paths
// carrying [TestDataMarker] are skipped before opening unless allowTestOnly
// is set.
func (x *Index) Load(paths []string, allowTestOnly bool) {
	x.Reset()

	for _, path := range paths {
		if !allowTestOnly && strings.Contains(path, TestDataMarker) {
			continue
		}

		doc, err := Open(path)
		if err != nil {
			x.logger.Warn().Err(err).Str("path", path).Msg("Skipping compiled document")

			continue
		}

		x.documents = append(x.documents, doc)

		x.logger.Info().
			Str("path", path).
			Int("strings", doc.Count()).
			Msg("Loaded compiled document")
	}

	x.rebuild()
}

// Add appends an already-open document and rebuilds the index. It serves
// hosts that supply documents from sources other than the filesystem.
func (x *Index) Add(doc Document) {
	x.documents = append(x.documents, doc)
	x.rebuild()
}

// rebuild recomputes the hash buckets from the loaded documents. Empty
// original strings are catalog metadata headers and are not indexed.
func (x *Index) rebuild() {
	x.buckets = make(map[uint32][]Ref)

	for d, doc := range x.documents {
		for i := 0; i < doc.Count(); i++ {
			original := doc.Original(i)
			if original == "" {
				continue
			}

			h := Hash(original)
			x.buckets[h] = append(x.buckets[h], Ref{Document: d, String: i})
		}
	}
}

// Lookup returns the location of the document string exactly equal to query.
//
// Only the bucket matching the query's hash is scanned, and each candidate
// is confirmed by string comparison; a hash match alone is never accepted.
func (x *Index) Lookup(query string) (Ref, bool) {
	if len(x.documents) == 0 {
		return Ref{}, false
	}

	for _, ref := range x.buckets[Hash(query)] {
		if x.documents[ref.Document].Original(ref.String) == query {
			return ref, true
		}
	}

	return Ref{}, false
}

// Document returns the document at ordinal d, or nil if out of range.
func (x *Index) Document(d int) Document {
	if d < 0 || d >= len(x.documents) {
		return nil
	}

	return x.documents[d]
}

// DocumentCount returns the number of loaded documents.
func (x *Index) DocumentCount() int {
	return len(x.documents)
}

// Reset drops all documents and hash buckets. The manager resets the index
// before reloading a different language's documents, or when switching to a
// language with no documents at all.
func (x *Index) Reset() {
	x.documents = nil
	x.buckets = make(map[uint32][]Ref)
}
