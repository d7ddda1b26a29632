/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package socket

import (
	"net"
	"testing"
	"time"
)

func TestFromNetConnDuplicatesAndClosesOriginal(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	clientDone := make(chan error, 1)
	go func() {
		c, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			clientDone <- err
			return
		}
		defer c.Close()
		_, err = c.Write([]byte("ping"))
		clientDone <- err
	}()

	nc, err := ln.Accept()
	if err != nil {
		t.Fatal(err)
	}

	conn, err := FromNetConn(nc)
	if err != nil {
		t.Fatalf("FromNetConn: %v", err)
	}
	defer conn.Close()

	if conn.Fd() < 0 {
		t.Fatal("expected a valid duplicated descriptor")
	}
	if conn.RemoteAddr() == nil {
		t.Fatal("expected RemoteAddr to be captured before the original net.Conn was closed")
	}

	if err := <-clientDone; err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	var n int
	buf := make([]byte, 16)
	for time.Now().Before(deadline) {
		n, err = conn.Read(buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if n > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if string(buf[:n]) != "ping" {
		t.Fatalf("got %q, want %q", buf[:n], "ping")
	}
}

func TestIsEOF(t *testing.T) {
	if !IsEOF(errEOF) {
		t.Fatal("IsEOF(errEOF) should be true")
	}
	if IsEOF(errNoFd) {
		t.Fatal("IsEOF(errNoFd) should be false")
	}
}
