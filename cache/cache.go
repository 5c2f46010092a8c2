// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cache provides a fixed-capacity least-recently-used cache for
translation results. Keys and values are strings. When compression is
enabled, values are stored zstd-compressed whenever that reduces space and
are transparently decompressed on retrieval.

The translation manager stamps its keys with the current language version,
so entries belonging to a stale language fall out of the cache by eviction
rather than by an explicit purge.
*/
package cache

import (
	"container/list"
	"errors"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity LRU cache. Construct with [New]; the zero value
// is not ready for use.
//
// Cache is not safe for concurrent use. It lives behind the translation
// manager, which is itself confined to a single logical thread.
type Cache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element

	zstdEnc *zstd.Encoder
	zstdDec *zstd.Decoder
}

type cacheEntry struct {
	key        string
	value      []byte
	compressed bool
}

// New creates a cache holding at most size entries.
//
// If compress is true, values are stored zstd-compressed when that is
// smaller than the raw string.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}

	if compress {
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores value under key, making it the most recently used entry.
// Add reports whether an eviction occurred.
func (c *Cache) Add(key, value string) bool {
	stored, compressed := c.prepare(value)

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)

		if cacheEnt, ok := ent.Value.(*cacheEntry); ok {
			cacheEnt.value = stored
			cacheEnt.compressed = compressed
		}

		return false
	}

	c.items[key] = c.evictList.PushFront(&cacheEntry{
		key:        key,
		value:      stored,
		compressed: compressed,
	})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeOldest()
	}

	return evicted
}

// Get retrieves the value for key and marks it as most recently used.
// The second result reports whether the key was found.
func (c *Cache) Get(key string) (string, bool) {
	ent, ok := c.items[key]
	if !ok {
		return "", false
	}

	c.evictList.MoveToFront(ent)

	cacheEnt, ok := ent.Value.(*cacheEntry)
	if !ok {
		return "", false
	}

	return c.restore(cacheEnt.value, cacheEnt.compressed)
}

// Remove deletes the entry for key, reporting whether it was present.
func (c *Cache) Remove(key string) bool {
	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)

		return true
	}

	return false
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	return c.evictList.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.evictList.Init()
	c.items = make(map[string]*list.Element)
}

func (c *Cache) removeOldest() {
	if ent := c.evictList.Back(); ent != nil {
		c.removeElement(ent)
	}
}

func (c *Cache) removeElement(e *list.Element) {
	c.evictList.Remove(e)

	if kv, ok := e.Value.(*cacheEntry); ok {
		delete(c.items, kv.key)
	}
}

// prepare compresses value when compression is enabled and effective.
func (c *Cache) prepare(value string) (stored []byte, compressed bool) {
	raw := []byte(value)

	if c.zstdEnc != nil && len(raw) > 0 {
		packed := c.zstdEnc.EncodeAll(raw, nil)
		if len(packed) < len(raw) {
			return packed, true
		}
	}

	return raw, false
}

// restore undoes prepare. A decompression failure marks the entry as
// unavailable rather than returning corrupt text.
func (c *Cache) restore(stored []byte, compressed bool) (string, bool) {
	if !compressed {
		return string(stored), true
	}

	if c.zstdDec == nil {
		return "", false
	}

	raw, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return "", false
	}

	return string(raw), true
}
