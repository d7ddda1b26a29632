/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package wireformat

import (
	"github.com/openrti/rti/pkg/buffer"
	"github.com/openrti/rti/pkg/rtierr"
)

// Registry maps message tags to decoders. A server node assembled from a
// message taxonomy outside this package's representative subset registers
// its own kinds into the same Registry; nothing here needs to change.
type Registry struct {
	decoders map[Tag]Decoder
}

// NewRegistry builds a Registry pre-populated with this package's
// representative message subset.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[Tag]Decoder)}
	r.Register(TagConnectionLost, decodeConnectionLost)
	r.Register(TagJoinFederationExecution, decodeJoinFederationExecution)
	r.Register(TagResignFederationExecution, decodeResignFederationExecution)
	r.Register(TagSynchronizationPointAnnounce, decodeSynchronizationPointAnnounce)
	r.Register(TagUpdateAttributeValues, decodeUpdateAttributeValues)
	r.Register(TagSendInteraction, decodeSendInteraction)
	r.Register(TagTimeAdvanceRequest, decodeTimeAdvanceRequest)
	r.Register(TagTimeAdvanceGrant, decodeTimeAdvanceGrant)
	return r
}

// Register installs (or overrides) the decoder for tag.
func (r *Registry) Register(tag Tag, decode Decoder) {
	r.decoders[tag] = decode
}

// DefaultRegistry is a convenience constructor equivalent to NewRegistry,
// named for parity with the "TightBE1"-seeded encoder registry the source
// builds as a singleton (MessageEncodingRegistry); this one is an ordinary
// value callers construct and pass explicitly, never a package-level
// singleton.
func DefaultRegistry() *Registry { return NewRegistry() }

// EncodeMessage renders m as TightBE1: a varint tag followed by m's own
// field encoding, 4-byte aligned as a whole so the next message in the same
// packet (if any) starts aligned too.
func EncodeMessage(m Message) []byte {
	e := buffer.NewEncodeStream()
	e.PutVarint(uint64(m.Tag()))
	m.Encode(e)
	e.Align(4)
	return e.Bytes()
}

// DecodeMessage reads one TightBE1 message from b using r's registered
// decoders, returning a *rtierr.ProtocolError for an unknown tag or a
// truncated/malformed field.
func (r *Registry) DecodeMessage(b []byte) (Message, error) {
	d := buffer.NewDecodeStream(b)
	tagVal, err := d.GetVarint()
	if err != nil {
		return nil, rtierr.NewProtocolError("wireformat: reading message tag: %v", err)
	}
	tag := Tag(tagVal)
	decode, ok := r.decoders[tag]
	if !ok {
		return nil, rtierr.NewProtocolError("wireformat: unknown message tag %d", tag)
	}
	msg, err := decode(d)
	if err != nil {
		return nil, rtierr.NewProtocolError("wireformat: decoding message tag %d: %v", tag, err)
	}
	return msg, nil
}
