/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package protocol

import "testing"

// fakeLayer is an in-memory Layer for exercising Socket's replace
// mechanics without a real socket.
type fakeLayer struct {
	tag     string
	recvBuf []byte
	sendBuf []byte
	closed  bool
}

func (f *fakeLayer) Recv(p []byte) (int, error) {
	n := copy(p, f.recvBuf)
	f.recvBuf = f.recvBuf[n:]
	return n, nil
}
func (f *fakeLayer) Send(p []byte) (int, error) {
	f.sendBuf = append(f.sendBuf, p...)
	return len(p), nil
}
func (f *fakeLayer) Close() error        { f.closed = true; return nil }
func (f *fakeLayer) WantsRead() bool     { return true }
func (f *fakeLayer) WantsWrite() bool    { return true }

func TestSocketDelegatesToActiveLayer(t *testing.T) {
	first := &fakeLayer{tag: "first", recvBuf: []byte("hello")}
	s := NewSocket(first)

	buf := make([]byte, 5)
	n, err := s.Recv(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("got %q", buf[:n])
	}
}

func TestReplaceDoesNotApplyUntilQuiesce(t *testing.T) {
	first := &fakeLayer{tag: "first"}
	second := &fakeLayer{tag: "second"}
	s := NewSocket(first)

	s.Replace(second)
	if s.Active() != first {
		t.Fatal("replace should not take effect before Quiesce")
	}
	if !s.HasPendingReplace() {
		t.Fatal("expected a pending replacement to be staged")
	}

	if !s.Quiesce() {
		t.Fatal("expected Quiesce to report it applied a replacement")
	}
	if s.Active() != second {
		t.Fatal("expected the staged layer to become active after Quiesce")
	}
	if s.HasPendingReplace() {
		t.Fatal("expected no pending replacement after Quiesce consumed it")
	}
}

func TestQuiesceWithoutPendingReplaceIsNoop(t *testing.T) {
	first := &fakeLayer{tag: "first"}
	s := NewSocket(first)

	if s.Quiesce() {
		t.Fatal("Quiesce should report false when nothing is staged")
	}
	if s.Active() != first {
		t.Fatal("active layer should be unchanged")
	}
}

func TestCloseClosesActiveLayerOnly(t *testing.T) {
	first := &fakeLayer{tag: "first"}
	second := &fakeLayer{tag: "second"}
	s := NewSocket(first)
	s.Replace(second)

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if !first.closed {
		t.Fatal("expected the active layer to be closed")
	}
	if second.closed {
		t.Fatal("a staged-but-not-applied layer should not be closed")
	}
}
