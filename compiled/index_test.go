// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

package compiled

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocument is a Document stub for index tests.
type fakeDocument struct {
	originals  []string
	translated []string
}

func (d *fakeDocument) Count() int { return len(d.originals) }

func (d *fakeDocument) Original(i int) string {
	if i < 0 || i >= len(d.originals) {
		return ""
	}

	return d.originals[i]
}

func (d *fakeDocument) Translated(i int) string {
	if i < 0 || i >= len(d.translated) {
		return ""
	}

	return d.translated[i]
}

func (d *fakeDocument) TranslatedPlural(i, _ int) string { return d.Translated(i) }

func TestHash(t *testing.T) {
	t.Parallel()

	// djb2 with seed 5381 and multiplier 33.
	assert.Equal(t, uint32(5381), Hash(""))
	assert.Equal(t, uint32(5381*33+'a'), Hash("a"))
}

func TestIndexLookup(t *testing.T) {
	t.Parallel()

	index := NewIndex()
	index.Add(&fakeDocument{
		originals:  []string{"", "Hello", "Goodbye"},
		translated: []string{"hdr", "Hallo", "Tschüss"},
	})

	t.Run("Hit", func(t *testing.T) {
		t.Parallel()

		ref, ok := index.Lookup("Hello")
		require.True(t, ok)
		assert.Equal(t, Ref{Document: 0, String: 1}, ref)
		assert.Equal(t, "Hallo", index.Document(ref.Document).Translated(ref.String))
	})

	t.Run("Miss", func(t *testing.T) {
		t.Parallel()

		_, ok := index.Lookup("Absent")
		assert.False(t, ok)
	})

	t.Run("EmptyOriginalNotIndexed", func(t *testing.T) {
		t.Parallel()

		// Empty original strings are catalog metadata headers.
		_, ok := index.Lookup("")
		assert.False(t, ok)
	})
}

// "pxectfzd" and "illttbti" collide under the index hash; collision
// candidates must be disambiguated by true string equality.
func TestIndexHashCollision(t *testing.T) {
	t.Parallel()

	require.Equal(t, Hash("pxectfzd"), Hash("illttbti"), "test strings must collide")

	index := NewIndex()
	index.Add(&fakeDocument{
		originals:  []string{"pxectfzd"},
		translated: []string{"first"},
	})
	index.Add(&fakeDocument{
		originals:  []string{"illttbti"},
		translated: []string{"second"},
	})

	refA, ok := index.Lookup("pxectfzd")
	require.True(t, ok)
	assert.Equal(t, Ref{Document: 0, String: 0}, refA)

	refB, ok := index.Lookup("illttbti")
	require.True(t, ok)
	assert.Equal(t, Ref{Document: 1, String: 0}, refB)
}

func TestIndexHashCollisionNeverCrossResolves(t *testing.T) {
	t.Parallel()

	index := NewIndex()
	index.Add(&fakeDocument{
		originals:  []string{"pxectfzd"},
		translated: []string{"first"},
	})

	// The colliding string hits the same bucket but must not resolve.
	_, ok := index.Lookup("illttbti")
	assert.False(t, ok)
}

func TestIndexMultipleDocuments(t *testing.T) {
	t.Parallel()

	index := NewIndex()
	index.Add(&fakeDocument{originals: []string{"one"}, translated: []string{"eins"}})
	index.Add(&fakeDocument{originals: []string{"two"}, translated: []string{"zwei"}})

	assert.Equal(t, 2, index.DocumentCount())

	ref, ok := index.Lookup("two")
	require.True(t, ok)
	assert.Equal(t, 1, ref.Document)
}

func TestIndexReset(t *testing.T) {
	t.Parallel()

	index := NewIndex()
	index.Add(&fakeDocument{originals: []string{"one"}, translated: []string{"eins"}})

	index.Reset()

	assert.Zero(t, index.DocumentCount())

	_, ok := index.Lookup("one")
	assert.False(t, ok)
}

func TestIndexLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := filepath.Join(dir, "de.mo")
	require.NoError(t, os.WriteFile(good, buildMo(t, binary.LittleEndian, testEntries()), 0o600))

	bad := filepath.Join(dir, "broken.mo")
	require.NoError(t, os.WriteFile(bad, []byte("not a catalog"), 0o600))

	testOnly := filepath.Join(dir, "TEST_DATA", "extra.mo")
	require.NoError(t, os.MkdirAll(filepath.Dir(testOnly), 0o700))
	require.NoError(t, os.WriteFile(testOnly, buildMo(t, binary.LittleEndian, []moEntry{
		{id: "fixture", str: "Fixtur"},
	}), 0o600))

	t.Run("SkipsMalformedAndTestData", func(t *testing.T) {
		t.Parallel()

		index := NewIndex()
		index.Load([]string{good, bad, testOnly}, false)

		// The malformed document is skipped without aborting the load.
		assert.Equal(t, 1, index.DocumentCount())

		_, ok := index.Lookup("Hello")
		assert.True(t, ok)

		_, ok = index.Lookup("fixture")
		assert.False(t, ok)
	})

	t.Run("AllowsTestData", func(t *testing.T) {
		t.Parallel()

		index := NewIndex()
		index.Load([]string{good, testOnly}, true)

		assert.Equal(t, 2, index.DocumentCount())

		_, ok := index.Lookup("fixture")
		assert.True(t, ok)
	})

	t.Run("ReloadResetsPreviousDocuments", func(t *testing.T) {
		t.Parallel()

		index := NewIndex()
		index.Load([]string{good}, false)
		index.Load([]string{testOnly}, true)

		assert.Equal(t, 1, index.DocumentCount())

		_, ok := index.Lookup("Hello")
		assert.False(t, ok)
	})
}
