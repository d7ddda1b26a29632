/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package wireformat

import (
	"encoding/binary"
	"sync"

	"github.com/openrti/rti/pkg/buffer"
	"github.com/openrti/rti/pkg/protocol"
	"github.com/openrti/rti/pkg/rtierr"
	"github.com/openrti/rti/pkg/streamproto"
)

const lengthPrefixSize = 4

// DefaultQueueCapacity bounds the outbound send queue per connection:
// a slow or stuck federate backs up against this limit rather than
// growing the server's memory without bound.
const DefaultQueueCapacity = 4096

// Sender is the (opaque, external per spec §4.9) server node's handle for
// one connection: every message the framed-message layer finishes decoding
// is routed here, including the synthesized ConnectionLostMessage.
type Sender interface {
	Receive(m Message)
}

// Connection is the framed-message layer's protocol.Stage: it drives a
// streamproto.Packetizer using a 4-byte big-endian length prefix per
// TightBE1 message, queues outbound messages from a bounded FIFO, and
// routes completed inbound messages to a Sender. It never itself swaps
// itself out — once negotiation hands off to it, it is the connection's
// Stage for the rest of the connection's life (spec §4.8).
type Connection struct {
	sock     *protocol.Socket
	pack     *streamproto.Packetizer
	registry *Registry
	sender   Sender
	flusher  func() error // compressproto.Layer.FlushSync, if compression is in use

	mu       sync.Mutex
	queue    []Message
	capacity int
	lost     bool

	bodyLen int
}

// NewConnection creates a Connection reading and writing framed TightBE1
// messages through sock. flusher, if non-nil, is called once the
// packetizer's write side goes idle, so a compression layer underneath can
// SYNC_FLUSH its pending deflate output (mirroring handshake.Stage's
// analogous check against its own packetizer, but against FlushSync
// instead of StageSlot.Quiesce since the framed-message layer never
// swaps itself out).
func NewConnection(sock *protocol.Socket, registry *Registry, sender Sender, flusher func() error, capacity int) *Connection {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	c := &Connection{
		sock:     sock,
		registry: registry,
		sender:   sender,
		flusher:  flusher,
		capacity: capacity,
	}
	c.pack = streamproto.New(sock, c, c)
	return c
}

// Enqueue appends m to the outbound queue. It reports false if the queue is
// at capacity, in which case the caller (the server node) must apply its
// own backpressure or resign the federate rather than grow without bound.
func (c *Connection) Enqueue(m Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) >= c.capacity {
		return false
	}
	c.queue = append(c.queue, m)
	return true
}

// InitialReadSize implements streamproto.PacketReader: the 4-byte
// big-endian body length comes first, with no outer envelope (unlike the
// handshake, TightBE1 has no magic/version prefix of its own — the
// handshake already pinned the encoding for the rest of the connection).
func (c *Connection) InitialReadSize() int { return lengthPrefixSize }

// ReadPacket implements streamproto.PacketReader.
func (c *Connection) ReadPacket(buf *buffer.Buffer) (int, error) {
	data := buf.Bytes()
	if c.bodyLen == 0 && len(data) == lengthPrefixSize {
		bodyLen := int(binary.BigEndian.Uint32(data))
		c.bodyLen = bodyLen
		return bodyLen, nil
	}

	body := data[lengthPrefixSize:]
	msg, err := c.registry.DecodeMessage(body)
	c.bodyLen = 0
	if err != nil {
		return 0, err
	}
	c.sender.Receive(msg)
	return 0, nil
}

// WritePacket implements streamproto.PacketWriter: pops the front of the
// outbound queue, frames it with its 4-byte length prefix.
func (c *Connection) WritePacket() (*buffer.Buffer, bool) {
	c.mu.Lock()
	if len(c.queue) == 0 {
		c.mu.Unlock()
		return nil, false
	}
	msg := c.queue[0]
	c.queue = c.queue[1:]
	c.mu.Unlock()

	body := EncodeMessage(msg)
	pkt := buffer.New()
	header := make([]byte, lengthPrefixSize)
	binary.BigEndian.PutUint32(header, uint32(len(body)))
	pkt.Append(buffer.WrapBlob(header))
	pkt.Append(buffer.WrapBlob(body))
	return pkt, true
}

// onError synthesizes a ConnectionLostMessage and routes it to the sender,
// per spec §4.8/§7: "A ConnectionLostMessage... is synthesized and
// injected to the server node whenever the read side detects EOF or a
// parse error." Idempotent: only the first error synthesizes the message.
func (c *Connection) onError(cause error) {
	c.mu.Lock()
	already := c.lost
	c.lost = true
	c.mu.Unlock()
	if already {
		return
	}
	c.sender.Receive(&ConnectionLostMessage{Reason: cause.Error()})
}

// OnReadable implements protocol.Stage. A transport-level recv error (EOF
// included, since LeafLayer.Recv passes the socket package's EOF sentinel,
// see socket.IsEOF, up through protocol.Layer)
// is translated into the same ConnectionLostMessage synthesis as a parse
// error, but the error is still returned: the dispatcher's own OnError/Erase
// handling is what actually closes the socket and drops the registration,
// so swallowing it here would synthesize the message and then leak the fd
// forever.
func (c *Connection) OnReadable() error {
	if err := c.pack.OnReadable(); err != nil {
		c.onError(err)
		return err
	}
	return nil
}

// OnWritable implements protocol.Stage, flushing a compression layer
// underneath (if any) once the packetizer's write side goes idle.
func (c *Connection) OnWritable() error {
	if err := c.pack.OnWritable(); err != nil {
		return rtierr.NewTransportError("wireformat: send", err)
	}
	if c.flusher != nil && !c.pack.Flush() {
		return c.flusher()
	}
	return nil
}

// WantsRead implements protocol.Stage.
func (c *Connection) WantsRead() bool { return c.pack.WantsRead() }

// WantsWrite implements protocol.Stage: also true whenever the outbound
// queue is non-empty, so the dispatcher polls for writability even before
// the packetizer has staged anything from it.
func (c *Connection) WantsWrite() bool {
	c.mu.Lock()
	pending := len(c.queue) > 0
	c.mu.Unlock()
	return pending || c.pack.WantsWrite()
}

// Lost reports whether a ConnectionLostMessage has already been
// synthesized for this connection.
func (c *Connection) Lost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lost
}
