/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package streamproto implements the packetizer: the half of a protocol
// layer that turns a byte stream into a sequence of length-prefixed
// packets, driven by dispatcher read/write readiness. Concrete protocols
// (the handshake envelope, the framed message layer) supply a PacketReader
// that knows how big its next packet is and a PacketWriter that stages
// outbound packets; Packetizer does the buffering and the chunk recycling.
package streamproto

import (
	"github.com/openrti/rti/pkg/buffer"
	"github.com/openrti/rti/pkg/protocol"
	"github.com/openrti/rti/pkg/rtierr"
)

// PacketReader is implemented by the protocol that owns a Packetizer's read
// side. InitialReadSize is the number of bytes needed before the very first
// call to ReadPacket (the handshake's 12-byte header, for instance).
// ReadPacket is called once at least that many bytes have accumulated; it
// may return a positive needMore to extend the expected region (the
// handshake header telling the packetizer the body is N more bytes), or 0
// once the packet is complete, at which point the Packetizer resets for the
// next one.
type PacketReader interface {
	InitialReadSize() int
	ReadPacket(buf *buffer.Buffer) (needMore int, err error)
}

// PacketWriter is implemented by the protocol that owns a Packetizer's
// write side. WritePacket is called whenever the Packetizer has nothing
// staged; ok is false when there is nothing queued to send (outbound
// quiescence).
type PacketWriter interface {
	WritePacket() (pkt *buffer.Buffer, ok bool)
}

// Packetizer drives one direction of reads and one of writes across a
// protocol.Socket, calling back into a PacketReader/PacketWriter at packet
// boundaries. It holds no opinion about what the bytes mean — that is
// entirely the reader/writer's job — only about when enough of them have
// arrived or been sent.
type Packetizer struct {
	sock *protocol.Socket

	reader      PacketReader
	writer      PacketWriter
	input       *buffer.Buffer
	accumulated int
	expected    int

	outPkt    *buffer.Buffer
	outBytes  []byte
	outOffset int
}

// New creates a Packetizer reading and writing through sock.
func New(sock *protocol.Socket, reader PacketReader, writer PacketWriter) *Packetizer {
	p := &Packetizer{
		sock:   sock,
		reader: reader,
		writer: writer,
		input:  buffer.New(),
	}
	p.expected = reader.InitialReadSize()
	return p
}

// WantsRead reports whether the packetizer is still waiting on inbound
// bytes — true except while an oubound-only layer has finished reading for
// good (never the case for protocols still in use here, but kept for
// symmetry with WantsWrite).
func (p *Packetizer) WantsRead() bool { return true }

// WantsWrite reports whether there is a packet in flight, the writer has
// one ready to stage, or the underlying socket has its own buffered bytes
// still waiting to go out (the compression layer, mid-drain). Staging is
// idempotent — ensureStaged only ever consumes one packet from the writer
// and caches it — so calling WantsWrite does not skip packets the way
// calling PacketWriter.WritePacket directly here would.
func (p *Packetizer) WantsWrite() bool {
	p.ensureStaged()
	return p.outPkt != nil || p.sock.WantsWrite()
}

// ensureStaged asks the writer for a packet if none is currently staged.
func (p *Packetizer) ensureStaged() {
	if p.outPkt != nil {
		return
	}
	pkt, ok := p.writer.WritePacket()
	if !ok {
		return
	}
	p.outPkt = pkt
	p.outBytes = pkt.Bytes()
	p.outOffset = 0
}

// OnReadable is called by the owning connection when the dispatcher
// reports the underlying socket readable. It reads into the tail of the
// input chain until the currently expected region is satisfied, then
// dispatches to the reader.
func (p *Packetizer) OnReadable() error {
	for p.accumulated < p.expected {
		want := p.expected - p.accumulated
		scratch := make([]byte, want)
		n, err := p.sock.Recv(scratch)
		if err != nil {
			return rtierr.NewTransportError("streamproto: recv", err)
		}
		if n == 0 {
			return nil // would block; dispatcher will call again
		}
		p.input.Append(buffer.WrapBlob(scratch[:n]))
		p.accumulated += n
	}

	needMore, err := p.reader.ReadPacket(p.input)
	if err != nil {
		return err
	}
	if needMore > 0 {
		p.expected += needMore
		return nil
	}

	p.input.Clear()
	p.accumulated = 0
	p.expected = p.reader.InitialReadSize()
	return nil
}

// OnWritable is called by the owning connection when the dispatcher reports
// the underlying socket writable. If no packet is currently staged it asks
// the writer for one; then it writes until either the socket would block
// or the staged packet is fully drained.
func (p *Packetizer) OnWritable() error {
	p.ensureStaged()

	if p.outPkt == nil {
		// Nothing of our own to send, but the socket below us (a
		// compression layer mid-drain) may still have buffered bytes
		// left over from the last packet; give it a nudge.
		if p.sock.WantsWrite() {
			if _, err := p.sock.Send(nil); err != nil {
				return rtierr.NewTransportError("streamproto: send", err)
			}
		}
		return nil
	}

	for p.outOffset < len(p.outBytes) {
		n, err := p.sock.Send(p.outBytes[p.outOffset:])
		if err != nil {
			return rtierr.NewTransportError("streamproto: send", err)
		}
		if n == 0 {
			return nil // would block; dispatcher will call again
		}
		p.outOffset += n
	}

	p.outPkt = nil
	p.outBytes = nil
	p.outOffset = 0
	return nil
}

// Flush reports whether a packet is currently mid-write (true) or the
// write side is quiescent (false), the signal the compression layer needs
// to decide between SYNC_FLUSH and NO_FLUSH.
func (p *Packetizer) Flush() bool {
	return p.outPkt != nil
}
