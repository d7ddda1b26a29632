/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package handshake implements the "OpenRTI\0" envelope: the length-
// prefixed option-map exchange every new connection starts with, ending in
// the handshake layer splicing in whatever follow-up protocol.Layer the
// negotiated encoding/compression selected.
package handshake

import (
	"bytes"
	"encoding/binary"

	"github.com/openrti/rti/pkg/buffer"
	"github.com/openrti/rti/pkg/optionmap"
	"github.com/openrti/rti/pkg/rtierr"
)

// magic is the 8-byte literal every envelope starts with.
var magic = [8]byte{'O', 'p', 'e', 'n', 'R', 'T', 'I', 0}

const headerSize = 12

// EncodeEnvelope renders m as a complete envelope: magic, big-endian total
// length, then the option map body.
func EncodeEnvelope(m *optionmap.Map) []byte {
	body := optionmap.Encode(m)
	total := headerSize + len(body)

	out := make([]byte, 0, total)
	out = append(out, magic[:]...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(total))
	out = append(out, lenBuf[:]...)
	out = append(out, body...)
	return out
}

// DecodeHeader validates and parses the 12-byte fixed header, returning the
// number of body bytes to expect next.
func DecodeHeader(header []byte) (bodyLen int, err error) {
	if len(header) != headerSize {
		return 0, rtierr.NewProtocolError("handshake: short header (%d bytes)", len(header))
	}
	if !bytes.Equal(header[:8], magic[:]) {
		return 0, rtierr.NewProtocolError("handshake: bad magic")
	}
	total := binary.BigEndian.Uint32(header[8:12])
	if total <= headerSize {
		return 0, rtierr.NewProtocolError("handshake: envelope length %d is not greater than the header size", total)
	}
	return int(total) - headerSize, nil
}

// DecodeBody parses the option-map body that follows a validated header.
func DecodeBody(body []byte) (*optionmap.Map, error) {
	return optionmap.Decode(body)
}

// asBuffer is a tiny helper so EncodeEnvelope's callers that already work in
// terms of buffer.Buffer (the packetizer) can get one back without a second
// conversion.
func asBuffer(b []byte) *buffer.Buffer {
	buf := buffer.New()
	buf.Append(buffer.WrapBlob(b))
	return buf
}
