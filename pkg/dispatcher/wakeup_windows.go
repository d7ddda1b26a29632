//go:build windows

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package dispatcher

import (
	"net"
	"time"

	"github.com/higebu/netfd"
)

// wakeupPipe on Windows is a loopback TCP socket pair rather than an
// anonymous pipe: WSAPoll (unlike poll(2)) only accepts SOCKET handles, so
// the self-pipe trick needs a real socket on this platform.
type wakeupPipe struct {
	listener net.Listener
	reader   net.Conn
	writer   net.Conn
	rfd      int
}

func newWakeupPipe() (*wakeupPipe, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	acceptCh := make(chan net.Conn, 1)
	go func() {
		c, _ := l.Accept()
		acceptCh <- c
	}()
	w, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		l.Close()
		return nil, err
	}
	r := <-acceptCh
	if r == nil {
		l.Close()
		w.Close()
		return nil, err
	}
	return &wakeupPipe{listener: l, reader: r, writer: w, rfd: netfd.GetFdFromConn(r)}, nil
}

func (p *wakeupPipe) readFd() int { return p.rfd }

func (p *wakeupPipe) signal() {
	_, _ = p.writer.Write([]byte{0})
}

func (p *wakeupPipe) drain() {
	buf := make([]byte, 64)
	_ = p.reader.SetReadDeadline(time.Now().Add(time.Millisecond))
	for {
		n, err := p.reader.Read(buf)
		if n <= 0 || err != nil {
			return
		}
	}
}

func (p *wakeupPipe) close() {
	p.reader.Close()
	p.writer.Close()
	p.listener.Close()
}
