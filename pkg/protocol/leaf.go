/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package protocol

import "github.com/openrti/rti/pkg/socket"

// socketConn is the subset of *socket.Conn the leaf layer depends on,
// narrowed for testability.
type socketConn interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// LeafLayer adapts a non-blocking socket.Conn to the Layer interface: it is
// always the bottommost Layer in a Socket's chain, the one whose Recv/Send
// actually touch the OS. It stays at the bottom for the connection's life:
// when compression is negotiated, Socket.Replace makes a compression layer
// wrapping it the active Layer, and the handshake swaps itself for the
// framed-message layer through a StageSlot, not through Socket.
type LeafLayer struct {
	conn   socketConn
	closed bool
}

// NewLeafLayer wraps conn as a Layer.
func NewLeafLayer(conn *socket.Conn) *LeafLayer {
	return &LeafLayer{conn: conn}
}

func (l *LeafLayer) Recv(p []byte) (int, error) {
	if l.closed {
		return 0, errClosed
	}
	return l.conn.Read(p)
}

func (l *LeafLayer) Send(p []byte) (int, error) {
	if l.closed {
		return 0, errClosed
	}
	return l.conn.Write(p)
}

func (l *LeafLayer) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.conn.Close()
}

// WantsRead always holds while open — the dispatcher, not this adapter,
// decides when the underlying fd is actually readable.
func (l *LeafLayer) WantsRead() bool { return !l.closed }

// WantsWrite is always false: a leaf has no buffering of its own to drain,
// so it never independently asks for a write opportunity. Layers that do
// buffer (compressproto.Layer) report true here while bytes are pending.
func (l *LeafLayer) WantsWrite() bool { return false }

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errClosed = sentinelErr("protocol: recv/send on a closed layer")
