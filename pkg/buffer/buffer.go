/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package buffer

// Buffer is an ordered sequence of byte chunks (Blobs) addressed by a
// byte-granular Cursor, equivalent to a non-contiguous ring whose total
// length is the sum of its chunk sizes. It exists so a receive path can
// append freshly-read chunks and a packetizer can walk the whole chain
// without ever copying previously-received bytes into one contiguous
// allocation.
type Buffer struct {
	chunks []Blob
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Append adds a chunk to the end of the buffer.
func (buf *Buffer) Append(chunk Blob) {
	if chunk.Size() == 0 {
		return
	}
	buf.chunks = append(buf.chunks, chunk)
}

// Len returns the total number of bytes across all chunks.
func (buf *Buffer) Len() int {
	total := 0
	for _, c := range buf.chunks {
		total += c.Size()
	}
	return total
}

// Clear empties the buffer, releasing its chunk references.
func (buf *Buffer) Clear() {
	buf.chunks = buf.chunks[:0]
}

// Chunks exposes the underlying chunk list read-only, for scatter/gather
// I/O: a socket write can hand net.Buffers these slices directly instead of
// flattening them first.
func (buf *Buffer) Chunks() []Blob {
	return buf.chunks
}

// Bytes flattens the buffer into one contiguous slice. Packet bodies parsed
// by the packetizer are small (handshake envelopes, single framed
// messages), so the copy this implies is cheap; scatter/gather paths should
// use Chunks instead.
func (buf *Buffer) Bytes() []byte {
	out := make([]byte, 0, buf.Len())
	for _, c := range buf.chunks {
		out = append(out, c.Data()...)
	}
	return out
}

// Cursor is the pair (chunk index, offset within that chunk) the spec
// describes as (chunk_ref, offset). A Cursor is canonical when it never
// points at an empty chunk and never sits at offset == chunk size except at
// the very end of the buffer (equivalently: offset 0 of the following
// chunk).
type Cursor struct {
	buf       *Buffer
	chunk     int
	offset    int
	totalSeen int // bytes consumed strictly before (chunk, offset); used for At()
}

// Begin returns a cursor at the start of the buffer.
func (buf *Buffer) Begin() Cursor {
	c := Cursor{buf: buf}
	c.canonicalize()
	return c
}

// End returns a cursor one-past-the-last-byte of the buffer.
func (buf *Buffer) End() Cursor {
	return Cursor{buf: buf, chunk: len(buf.chunks), offset: 0, totalSeen: buf.Len()}
}

// canonicalize walks forward over any empty chunks and normalizes an
// offset sitting exactly at a chunk boundary to (next chunk, 0), except
// at end-of-buffer where (len(chunks), 0) is already canonical.
func (c *Cursor) canonicalize() {
	for c.chunk < len(c.buf.chunks) {
		sz := c.buf.chunks[c.chunk].Size()
		if c.offset < sz || sz == 0 && c.offset == 0 {
			if sz == 0 {
				c.chunk++
				continue
			}
			return
		}
		if c.offset >= sz {
			c.offset -= sz
			c.chunk++
			continue
		}
	}
	c.offset = 0
}

// AtEnd reports whether the cursor has no more bytes available.
func (c Cursor) AtEnd() bool {
	return c.chunk >= len(c.buf.chunks)
}

// ChunkSize returns the number of contiguous bytes reachable from the
// cursor without crossing into the next chunk, capped at remaining bytes
// up to (but not past) end's position when end is in the same chunk. This
// is what lets a socket layer issue one Write per chunk instead of one per
// byte.
func (c Cursor) ChunkSize(end Cursor) int {
	if c.AtEnd() {
		return 0
	}
	avail := c.buf.chunks[c.chunk].Size() - c.offset
	if end.chunk == c.chunk {
		if rem := end.offset - c.offset; rem < avail {
			avail = rem
		}
	}
	if avail < 0 {
		return 0
	}
	return avail
}

// Chunk returns the current chunk's bytes from the cursor's offset to the
// chunk's end (or, if within the same chunk as end, up to end).
func (c Cursor) Chunk(end Cursor) []byte {
	n := c.ChunkSize(end)
	if n == 0 {
		return nil
	}
	return c.buf.chunks[c.chunk].Data()[c.offset : c.offset+n]
}

// Advance moves the cursor forward by n bytes, crossing chunk boundaries as
// needed, and returns the advanced cursor. It panics if n is negative or
// would move past the buffer's end — callers that need a checked variant
// should compare against End() first (the decode cursor in this package
// does exactly that before calling Advance).
func (c Cursor) Advance(n int) Cursor {
	for n > 0 {
		if c.AtEnd() {
			panic("buffer: Advance past end of buffer")
		}
		remaining := c.buf.chunks[c.chunk].Size() - c.offset
		if n < remaining {
			c.offset += n
			c.totalSeen += n
			return c
		}
		c.totalSeen += remaining
		n -= remaining
		c.chunk++
		c.offset = 0
	}
	c.canonicalize()
	return c
}

// Retreat moves the cursor backward by n bytes, the symmetric inverse of
// Advance.
func (c Cursor) Retreat(n int) Cursor {
	for n > 0 {
		if c.offset >= n {
			c.offset -= n
			c.totalSeen -= n
			return c
		}
		n -= c.offset
		c.totalSeen -= c.offset
		c.chunk--
		if c.chunk < 0 {
			panic("buffer: Retreat past start of buffer")
		}
		c.offset = c.buf.chunks[c.chunk].Size()
	}
	return c
}

// Offset reports the cursor's absolute byte position from the start of the
// buffer, i.e. the number of bytes strictly before it.
func (c Cursor) Offset() int {
	return c.totalSeen
}

// Remaining reports the number of bytes between the cursor and the end of
// the buffer.
func (c Cursor) Remaining() int {
	return c.buf.Len() - c.totalSeen
}

// Equal reports whether two cursors address the same position in the same
// buffer, independent of which (chunk, offset) pair that canonicalizes to.
func (c Cursor) Equal(other Cursor) bool {
	return c.buf == other.buf && c.totalSeen == other.totalSeen
}
