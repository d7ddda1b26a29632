/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package buffer implements the wire-level byte container the rest of the
// transport core is built on: a copy-on-write byte blob, a chunked buffer of
// blobs with a byte-granular cursor, and aligned/unaligned encode/decode
// cursors for the integer and float primitives the framed-message and
// option-map codecs need.
package buffer

import "sync/atomic"

// Blob is a sized, shareable, copy-on-write byte array. Multiple Blob values
// may share the same backing storage until one of them mutates, at which
// point that value privatizes its own copy. This is the Go-idiomatic
// replacement for the source's intrusive ref-counted buffer: cheap handoff
// of a receive-path payload to many fan-out sinks without copying, while a
// sender that needs to keep mutating its own staging buffer never disturbs
// a reader that already grabbed a reference.
type Blob struct {
	shared *sharedData
}

type sharedData struct {
	data []byte
	refs int32
}

// NewBlob allocates a blob of the given size, zero-filled.
func NewBlob(size int) Blob {
	return Blob{shared: &sharedData{data: make([]byte, size), refs: 1}}
}

// WrapBlob adopts a byte slice as a blob without copying it. The caller must
// not retain a mutable alias to b after this call.
func WrapBlob(b []byte) Blob {
	return Blob{shared: &sharedData{data: b, refs: 1}}
}

// Size reports the blob's payload length.
func (b Blob) Size() int {
	if b.shared == nil {
		return 0
	}
	return len(b.shared.data)
}

// Data returns a read-only view over the blob's contiguous storage. The
// returned slice must not be mutated; use Unique to get a private, mutable
// copy first.
func (b Blob) Data() []byte {
	if b.shared == nil {
		return nil
	}
	return b.shared.data
}

// Clone returns a new Blob value sharing the same backing storage, bumping
// the reference count. The clone is safe to read concurrently with the
// original and with other clones.
func (b Blob) Clone() Blob {
	if b.shared == nil {
		return b
	}
	atomic.AddInt32(&b.shared.refs, 1)
	return Blob{shared: b.shared}
}

// Unique returns a Blob guaranteed to have private backing storage, copying
// it first if the storage is currently shared with another Blob value. This
// is the copy-on-write boundary: call it immediately before any in-place
// mutation.
func (b Blob) Unique() Blob {
	if b.shared == nil {
		return NewBlob(0)
	}
	if atomic.LoadInt32(&b.shared.refs) == 1 {
		return b
	}
	cp := make([]byte, len(b.shared.data))
	copy(cp, b.shared.data)
	atomic.AddInt32(&b.shared.refs, -1)
	return Blob{shared: &sharedData{data: cp, refs: 1}}
}

// Resize grows or shrinks the blob in place, returning the (possibly
// reallocated, now-unique) result. Growing zero-fills the new tail.
func (b Blob) Resize(size int) Blob {
	u := b.Unique()
	if size == len(u.shared.data) {
		return u
	}
	grown := make([]byte, size)
	copy(grown, u.shared.data)
	u.shared.data = grown
	return u
}
