/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package compressproto

import (
	"testing"
	"time"
)

// loopbackLayer is an in-memory protocol.Layer: bytes written on one end
// via Send become readable via Recv, like a pipe.
type loopbackLayer struct {
	buf []byte
}

func (l *loopbackLayer) Recv(p []byte) (int, error) {
	if len(l.buf) == 0 {
		return 0, nil
	}
	n := copy(p, l.buf)
	l.buf = l.buf[n:]
	return n, nil
}
func (l *loopbackLayer) Send(p []byte) (int, error) {
	l.buf = append(l.buf, p...)
	return len(p), nil
}
func (l *loopbackLayer) Close() error     { return nil }
func (l *loopbackLayer) WantsRead() bool  { return true }
func (l *loopbackLayer) WantsWrite() bool { return len(l.buf) > 0 }

func TestCompressionRoundTrip(t *testing.T) {
	wire := &loopbackLayer{}
	sender := New(wire)
	receiver := New(wire)

	msg := []byte("the quick brown fox jumps over the lazy dog, repeatedly, for compressibility")
	if _, err := sender.Send(msg); err != nil {
		t.Fatal(err)
	}
	if err := sender.FlushSync(); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	got := make([]byte, 0, len(msg))
	buf := make([]byte, 4096)
	for len(got) < len(msg) && time.Now().Before(deadline) {
		n, err := receiver.Recv(buf)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, buf[:n]...)
		if n == 0 {
			time.Sleep(time.Millisecond)
		}
	}

	if string(got) != string(msg) {
		t.Fatalf("got %q, want %q", got, msg)
	}
}
