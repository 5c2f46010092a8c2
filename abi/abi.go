// Copyright 2024 - 2026, the Lingora contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package abi exposes the override catalog engine to non-native callers
through a handle-based, buffer-copy surface that mirrors a C ABI.

# Buffer-copy convention

Every string-returning call takes a destination buffer. The return value is
one of:

  - the number of bytes written, excluding the trailing NUL, on success;
  - the required buffer size, including the trailing NUL, when the buffer
    was too small (nothing is written in that case);
  - a negative error code ([ErrBadHandle]) when the handle is stale.

This convention is part of the compatibility contract and must not change.

# Result lifetime

Results returned by reference via [TranslateRef] and [TranslatePluralRef]
live in a fixed ring of [ResultRingSize] slots per handle. A returned
reference stays valid until at least ResultRingSize further translate calls
have occurred on the same handle; after that its slot is overwritten without
notice. This is a deliberate bounded-lifetime contract, not a leak.

Callers sharing one handle across goroutines without external locking can
observe a ring slot being overwritten mid-read. The engine behind a handle
is single-threaded by contract; serialize access externally.
*/
package abi

import (
	"sync"

	"codeberg.org/lingora/lingora/catalog"
)

// ResultRingSize is the number of result slots each handle keeps alive.
const ResultRingSize = 32

// Compatibility probes.
const (
	// abiVersion identifies the call surface described in this package.
	abiVersion = 1

	// binaryVersionMax is the highest supported binary catalog version.
	// Binary export is a stubbed extension point, so no version exists yet.
	binaryVersionMax = 0
)

// ErrBadHandle is returned by every call that receives a handle that was
// never issued or has been freed.
const ErrBadHandle = -1

// Handle identifies one engine instance across the boundary.
type Handle int64

// session is the per-handle state: the engine plus the result ring.
type session struct {
	engine *catalog.Engine

	ring   [ResultRingSize]string
	cursor int
}

// storeResult copies text into the next ring slot and returns a reference
// to the slot. The previous content of that slot is overwritten.
func (s *session) storeResult(text string) *string {
	slot := &s.ring[s.cursor]
	*slot = text
	s.cursor = (s.cursor + 1) % ResultRingSize

	return slot
}

// The registry maps handles to sessions. Only the registry itself is
// locked; the engines behind the handles remain single-threaded.
var (
	registryMu sync.Mutex
	registry   = make(map[Handle]*session)
	nextHandle Handle = 1
)

func lookup(h Handle) *session {
	registryMu.Lock()
	defer registryMu.Unlock()

	return registry[h]
}

// New allocates an engine and returns its handle.
func New() Handle {
	registryMu.Lock()
	defer registryMu.Unlock()

	h := nextHandle
	nextHandle++

	registry[h] = &session{engine: catalog.NewEngine()}

	return h
}

// Free releases the engine behind h. Further calls with h fail with
// [ErrBadHandle]. Freeing an unknown handle is a no-op.
func Free(h Handle) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(registry, h)
}

// AbiVersion reports the version of this call surface.
func AbiVersion() uint32 {
	return abiVersion
}

// BinaryVersionSupportedMax reports the highest binary catalog version the
// export path supports.
func BinaryVersionSupportedMax() uint32 {
	return binaryVersionMax
}

// bufferCopy applies the package buffer-copy convention.
func bufferCopy(out []byte, s string) int {
	need := len(s) + 1
	if len(out) < need {
		return need
	}

	copy(out, s)
	out[len(s)] = 0

	return len(s)
}

// lastErrorString renders the engine's last error the way boundary callers
// expect: the empty string when clear, and the exact sentinel spelling
// "TOKEN_NOT_FOUND" for a plain lookup miss.
func lastErrorString(e *catalog.Engine) string {
	err := e.LastError()
	if err == nil {
		return ""
	}

	return err.Error()
}

// LastErrorCopy copies the last error of h into out.
func LastErrorCopy(h Handle, out []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return bufferCopy(out, lastErrorString(ses.engine))
}

// GetMetaLocaleCopy copies the loaded catalog's @meta.locale value into out.
func GetMetaLocaleCopy(h Handle, out []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return bufferCopy(out, ses.engine.MetaLocale())
}

// GetMetaFallbackCopy copies the loaded catalog's @meta.fallback value into out.
func GetMetaFallbackCopy(h Handle, out []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return bufferCopy(out, ses.engine.MetaFallback())
}

// GetMetaNoteCopy copies the loaded catalog's @meta.note value into out.
func GetMetaNoteCopy(h Handle, out []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return bufferCopy(out, ses.engine.MetaNote())
}

// GetMetaPluralRule returns the loaded catalog's @meta.plural_rule value.
func GetMetaPluralRule(h Handle) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return ses.engine.MetaPluralRule()
}

// LoadTxt parses txt as a catalog. It returns 1 on success and 0 on
// failure; the failure reason is available via [LastErrorCopy].
func LoadTxt(h Handle, txt string, strict bool) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	if ses.engine.Load(txt, strict) {
		return 1
	}

	return 0
}

// LoadTxtFile loads the catalog file at path. It returns 1 on success and
// 0 on failure.
func LoadTxtFile(h Handle, path string, strict bool) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	if ses.engine.LoadFile(path, strict) {
		return 1
	}

	return 0
}

// Reload re-parses the last-loaded source leniently. It returns 1 on
// success and 0 on failure.
func Reload(h Handle) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	if ses.engine.Reload() {
		return 1
	}

	return 0
}

// Translate resolves token with positional args and copies the result into
// out. A missing token yields the token itself with the last error set to
// the not-found sentinel.
func Translate(h Handle, token string, args []string, out []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return bufferCopy(out, *ses.storeResult(ses.engine.Translate(token, args)))
}

// TranslatePlural resolves token for count with positional args and copies
// the result into out.
func TranslatePlural(h Handle, token string, count int, args []string, out []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return bufferCopy(out, *ses.storeResult(ses.engine.TranslatePlural(token, count, args)))
}

// TranslateRef resolves token and returns a reference into the handle's
// result ring. See the package documentation for the lifetime contract.
func TranslateRef(h Handle, token string, args []string) *string {
	ses := lookup(h)
	if ses == nil {
		return nil
	}

	return ses.storeResult(ses.engine.Translate(token, args))
}

// TranslatePluralRef is the plural variant of [TranslateRef].
func TranslatePluralRef(h Handle, token string, count int, args []string) *string {
	ses := lookup(h)
	if ses == nil {
		return nil
	}

	return ses.storeResult(ses.engine.TranslatePlural(token, count, args))
}

// Print copies the catalog dump into out.
func Print(h Handle, out []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return bufferCopy(out, ses.engine.DumpTable())
}

// Find copies the rendered entries matching query into out.
func Find(h Handle, query string, out []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	return bufferCopy(out, ses.engine.FindAny(query))
}

// Check writes the integrity report into report, truncating it to the
// buffer, and returns the integrity code: 0 for OK, 1 for an empty catalog,
// [ErrBadHandle] for a stale handle.
func Check(h Handle, report []byte) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	text, code := ses.engine.CheckCatalog()

	if len(report) > 0 {
		n := copy(report, text)
		if n < len(report) {
			report[n] = 0
		} else {
			report[len(report)-1] = 0
		}
	}

	return code
}

// ExportBinary invokes the reserved binary export extension point. It
// currently always returns 0 (failure); the capability gap is intentional.
func ExportBinary(h Handle, path string) int {
	ses := lookup(h)
	if ses == nil {
		return ErrBadHandle
	}

	if ses.engine.ExportBinary(path) {
		return 1
	}

	return 0
}
