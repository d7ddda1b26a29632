/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package buffer

import (
	"encoding/binary"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/openrti/rti/pkg/rtierr"
)

// alignPad is the padding byte value the spec requires aligned accessors to
// emit: 0xff, chosen so padding is visually distinct from the near-universal
// zero-fill of uninitialized buffers.
const alignPad = 0xff

// EncodeStream is the encode-side cursor over a single growable chunk: a
// monotonic byte offset plus primitives that append (auto-extending the
// backing blob as needed) rather than failing on overflow, mirroring the
// spec's "writes auto-extend the underlying blob."
type EncodeStream struct {
	blob Blob
}

// NewEncodeStream returns an empty encode stream.
func NewEncodeStream() *EncodeStream {
	return &EncodeStream{blob: NewBlob(0)}
}

// Bytes returns the bytes written so far.
func (e *EncodeStream) Bytes() []byte {
	return e.blob.Data()
}

// Len reports the number of bytes written so far.
func (e *EncodeStream) Len() int {
	return e.blob.Size()
}

func (e *EncodeStream) grow(n int) []byte {
	start := e.blob.Size()
	e.blob = e.blob.Resize(start + n)
	return e.blob.Data()[start : start+n]
}

// align pads with alignPad bytes up to the next multiple of n.
func (e *EncodeStream) align(n int) {
	if n <= 1 {
		return
	}
	rem := e.blob.Size() % n
	if rem == 0 {
		return
	}
	pad := e.grow(n - rem)
	for i := range pad {
		pad[i] = alignPad
	}
}

// WriteBytes appends raw bytes unaligned.
func (e *EncodeStream) WriteBytes(b []byte) {
	copy(e.grow(len(b)), b)
}

// ---- unaligned accessors ----

func (e *EncodeStream) PutUint8(v uint8) { e.grow(1)[0] = v }

func (e *EncodeStream) PutUint16LE(v uint16) { binary.LittleEndian.PutUint16(e.grow(2), v) }
func (e *EncodeStream) PutUint16BE(v uint16) { binary.BigEndian.PutUint16(e.grow(2), v) }
func (e *EncodeStream) PutUint32LE(v uint32) { binary.LittleEndian.PutUint32(e.grow(4), v) }
func (e *EncodeStream) PutUint32BE(v uint32) { binary.BigEndian.PutUint32(e.grow(4), v) }
func (e *EncodeStream) PutUint64LE(v uint64) { binary.LittleEndian.PutUint64(e.grow(8), v) }
func (e *EncodeStream) PutUint64BE(v uint64) { binary.BigEndian.PutUint64(e.grow(8), v) }

func (e *EncodeStream) PutFloat32LE(v float32) { e.PutUint32LE(math.Float32bits(v)) }
func (e *EncodeStream) PutFloat32BE(v float32) { e.PutUint32BE(math.Float32bits(v)) }
func (e *EncodeStream) PutFloat64LE(v float64) { e.PutUint64LE(math.Float64bits(v)) }
func (e *EncodeStream) PutFloat64BE(v float64) { e.PutUint64BE(math.Float64bits(v)) }

// ---- aligned accessors: pad to the type's size first ----

func (e *EncodeStream) PutAlignedUint16BE(v uint16) { e.align(2); e.PutUint16BE(v) }
func (e *EncodeStream) PutAlignedUint32BE(v uint32) { e.align(4); e.PutUint32BE(v) }
func (e *EncodeStream) PutAlignedUint64BE(v uint64) { e.align(8); e.PutUint64BE(v) }
func (e *EncodeStream) PutAlignedUint16LE(v uint16) { e.align(2); e.PutUint16LE(v) }
func (e *EncodeStream) PutAlignedUint32LE(v uint32) { e.align(4); e.PutUint32LE(v) }
func (e *EncodeStream) PutAlignedUint64LE(v uint64) { e.align(8); e.PutUint64LE(v) }
func (e *EncodeStream) PutAlignedFloat32BE(v float32) { e.align(4); e.PutFloat32BE(v) }
func (e *EncodeStream) PutAlignedFloat64BE(v float64) { e.align(8); e.PutFloat64BE(v) }

// Align pads the stream with alignPad bytes up to the next multiple of n.
// Exposed directly for codecs (e.g. the option map) that need 4-byte
// alignment without an accompanying scalar write.
func (e *EncodeStream) Align(n int) { e.align(n) }

// PutVarint appends x as a LEB128-shaped compressed integer: least
// significant 7-bit groups first, high bit set on every byte but the last.
// This is bit-for-bit the protobuf varint encoding, so it is built directly
// on protowire rather than a hand-rolled reimplementation of a format the
// ecosystem already ships correctly.
func (e *EncodeStream) PutVarint(x uint64) {
	e.blob = WrapBlob(protowire.AppendVarint(e.blob.Unique().Data(), x))
}

// ---- DecodeStream ----

// DecodeStream is the decode-side cursor over a single chunk: a buffer
// reference plus a monotonic offset. Every read advances offset and fails
// with a *rtierr.ProtocolError when it would cross Size().
type DecodeStream struct {
	data   []byte
	offset int
}

// NewDecodeStream wraps b for sequential decode.
func NewDecodeStream(b []byte) *DecodeStream {
	return &DecodeStream{data: b}
}

// Offset reports the current read position.
func (d *DecodeStream) Offset() int { return d.offset }

// Size reports the total decodable length.
func (d *DecodeStream) Size() int { return len(d.data) }

// Remaining reports the number of unread bytes.
func (d *DecodeStream) Remaining() int { return len(d.data) - d.offset }

func (d *DecodeStream) take(n int) ([]byte, error) {
	if n < 0 || d.offset+n > len(d.data) {
		return nil, rtierr.NewProtocolError("Reading beyond the end of the packet")
	}
	b := d.data[d.offset : d.offset+n]
	d.offset += n
	return b, nil
}

// align consumes padding bytes (value ignored) up to the next multiple of n.
func (d *DecodeStream) align(n int) error {
	if n <= 1 {
		return nil
	}
	rem := d.offset % n
	if rem == 0 {
		return nil
	}
	_, err := d.take(n - rem)
	return err
}

// Align consumes padding up to the next multiple of n, ignoring its value.
func (d *DecodeStream) Align(n int) error { return d.align(n) }

func (d *DecodeStream) ReadBytes(n int) ([]byte, error) { return d.take(n) }

func (d *DecodeStream) GetUint8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *DecodeStream) GetUint16LE() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *DecodeStream) GetUint16BE() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *DecodeStream) GetUint32LE() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *DecodeStream) GetUint32BE() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *DecodeStream) GetUint64LE() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *DecodeStream) GetUint64BE() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *DecodeStream) GetFloat32LE() (float32, error) {
	v, err := d.GetUint32LE()
	return math.Float32frombits(v), err
}

func (d *DecodeStream) GetFloat32BE() (float32, error) {
	v, err := d.GetUint32BE()
	return math.Float32frombits(v), err
}

func (d *DecodeStream) GetFloat64LE() (float64, error) {
	v, err := d.GetUint64LE()
	return math.Float64frombits(v), err
}

func (d *DecodeStream) GetFloat64BE() (float64, error) {
	v, err := d.GetUint64BE()
	return math.Float64frombits(v), err
}

func (d *DecodeStream) GetAlignedUint16BE() (uint16, error) {
	if err := d.align(2); err != nil {
		return 0, err
	}
	return d.GetUint16BE()
}

func (d *DecodeStream) GetAlignedUint32BE() (uint32, error) {
	if err := d.align(4); err != nil {
		return 0, err
	}
	return d.GetUint32BE()
}

func (d *DecodeStream) GetAlignedUint64BE() (uint64, error) {
	if err := d.align(8); err != nil {
		return 0, err
	}
	return d.GetUint64BE()
}

// GetVarint decodes a LEB128-shaped compressed integer via protowire,
// matching PutVarint's encoding exactly.
func (d *DecodeStream) GetVarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(d.data[d.offset:])
	if n < 0 {
		return 0, rtierr.NewProtocolError("Reading beyond the end of the packet")
	}
	d.offset += n
	return v, nil
}
