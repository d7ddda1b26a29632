/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package compressproto implements the transparent zlib compression filter
// that nests between the handshake/framed-message stage and the leaf
// socket layer when negotiation selects "zlib". It is a protocol.Layer like
// any other; it is simply never the dispatcher-facing Stage itself, only
// something a Stage's streamproto.Packetizer reads/writes through.
package compressproto

import (
	"compress/zlib"
	"io"
	"sync"

	"github.com/openrti/rti/pkg/protocol"
	"github.com/openrti/rti/pkg/rtierr"
)

// writerFunc adapts a plain function to io.Writer, the same small idiom as
// http.HandlerFunc — used here so zlib.Writer can write directly into our
// outgoing pending-bytes slice without an intermediate bytes.Buffer.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// Layer is a stream-transparent zlib deflate/inflate filter wrapping a
// lower protocol.Layer. Outbound bytes are deflated synchronously (zlib's
// writer never blocks on external I/O, so Send can stay non-blocking by
// buffering whatever the lower layer's non-blocking Send doesn't accept
// yet). Inbound decompression is run on a dedicated goroutine reading
// through an io.Pipe, since compress/zlib's Reader assumes a blocking
// io.Reader and this layer's lower.Recv is not one — see DESIGN.md for why
// this is the one place in the stack that isn't purely single-threaded.
type Layer struct {
	lower protocol.Layer

	mu         sync.Mutex
	closed     bool
	zw         *zlib.Writer
	outPending []byte

	pw         *io.PipeWriter
	decoded    chan []byte
	readErr    chan error
	leftover   []byte
	closeOnce  sync.Once
}

// New wraps lower with a compression filter. lower is typically a
// protocol.LeafLayer, but nothing here depends on that — only on the
// protocol.Layer interface.
func New(lower protocol.Layer) *Layer {
	l := &Layer{
		lower:   lower,
		decoded: make(chan []byte, 8),
		readErr: make(chan error, 1),
	}
	l.zw = zlib.NewWriter(writerFunc(l.appendPending))

	pr, pw := io.Pipe()
	l.pw = pw
	go l.inflateLoop(pr)

	return l
}

func (l *Layer) appendPending(p []byte) (int, error) {
	l.mu.Lock()
	l.outPending = append(l.outPending, p...)
	l.mu.Unlock()
	return len(p), nil
}

func (l *Layer) inflateLoop(pr *io.PipeReader) {
	zr, err := zlib.NewReader(pr)
	if err != nil {
		// Closing pr here matters: a concurrent Recv may be mid-Write into
		// pw, racing this goroutine's exit. Without closing pr, that Write
		// blocks forever once nothing is left to read it — freezing the
		// single dispatcher goroutine that called Recv, not just this
		// connection.
		_ = pr.CloseWithError(err)
		l.readErr <- rtierr.NewProtocolError("compressproto: opening inflate stream: %v", err)
		return
	}
	buf := make([]byte, 4096)
	for {
		n, err := zr.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			l.decoded <- chunk
		}
		if err != nil {
			if err == io.EOF {
				_ = pr.CloseWithError(io.EOF)
				close(l.decoded)
			} else {
				_ = pr.CloseWithError(err)
				l.readErr <- rtierr.NewProtocolError("compressproto: inflate: %v", err)
			}
			return
		}
	}
}

// Recv implements protocol.Layer: it returns already-decoded plaintext if
// any is queued, otherwise pulls one chunk of compressed bytes from the
// lower layer, feeds it to the inflate goroutine, and returns (0, nil) —
// "try again" — if nothing has come out the other end yet within this call.
func (l *Layer) Recv(p []byte) (int, error) {
	if l.closed {
		return 0, io.EOF
	}
	if n := l.drainLeftover(p); n > 0 {
		return n, nil
	}
	if n, err, ok := l.tryDecoded(p); ok {
		return n, err
	}

	raw := make([]byte, 4096)
	n, err := l.lower.Recv(raw)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	if _, werr := l.pw.Write(raw[:n]); werr != nil {
		return 0, rtierr.NewProtocolError("compressproto: feeding inflate stream: %v", werr)
	}

	if n, err, ok := l.tryDecoded(p); ok {
		return n, err
	}
	return 0, nil
}

func (l *Layer) drainLeftover(p []byte) int {
	if len(l.leftover) == 0 {
		return 0
	}
	n := copy(p, l.leftover)
	l.leftover = l.leftover[n:]
	return n
}

// tryDecoded does a non-blocking check of the decoded-chunk/error channels.
func (l *Layer) tryDecoded(p []byte) (int, error, bool) {
	select {
	case chunk, ok := <-l.decoded:
		if !ok {
			return 0, io.EOF, true
		}
		n := copy(p, chunk)
		if n < len(chunk) {
			l.leftover = chunk[n:]
		}
		return n, nil, true
	case err := <-l.readErr:
		return 0, err, true
	default:
		return 0, nil, false
	}
}

// Send implements protocol.Layer: deflates p into the pending-output
// buffer and opportunistically pushes as much of it as the lower layer's
// non-blocking Send will currently accept.
func (l *Layer) Send(p []byte) (int, error) {
	if l.closed {
		return 0, errClosed
	}
	n, err := l.zw.Write(p)
	if err != nil {
		return 0, rtierr.NewProtocolError("compressproto: deflate: %v", err)
	}
	if err := l.drainPending(); err != nil {
		return 0, err
	}
	return n, nil
}

func (l *Layer) drainPending() error {
	l.mu.Lock()
	pending := l.outPending
	l.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}
	written, err := l.lower.Send(pending)
	if err != nil {
		return rtierr.NewTransportError("compressproto: send", err)
	}
	l.mu.Lock()
	l.outPending = l.outPending[written:]
	l.mu.Unlock()
	return nil
}

// FlushSync issues a zlib Z_SYNC_FLUSH-equivalent: it forces every deflated
// byte accepted so far out to the lower layer so the peer can make
// progress, without ending the stream. Callers (the owning Stage) invoke
// this on outbound quiescence — once the upper layer has nothing more
// queued — per §4.7's flush discipline; while more packets are queued,
// Send alone (favoring throughput over immediate delivery) is enough.
func (l *Layer) FlushSync() error {
	if err := l.zw.Flush(); err != nil {
		return rtierr.NewProtocolError("compressproto: flush: %v", err)
	}
	return l.drainPending()
}

// WantsWrite reports whether compressed bytes are buffered locally,
// waiting for the lower layer to accept them.
func (l *Layer) WantsWrite() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.outPending) > 0
}

// WantsRead always holds until Close — inflate never runs out of appetite
// for more compressed bytes mid-stream.
func (l *Layer) WantsRead() bool { return !l.closed }

// Close latches the layer closed: further Recv calls report io.EOF, further
// Send calls fail, and the
// underlying inflate goroutine is released. Per §4.7, a compression layer
// is never replaced, so there is no quiescence handshake to perform here —
// Close always means the connection itself is going away.
func (l *Layer) Close() error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		_ = l.pw.CloseWithError(io.EOF)
		_ = l.zw.Close()
	})
	return l.lower.Close()
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errClosed = sentinelErr("compressproto: send on a closed layer")
