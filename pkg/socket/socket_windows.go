//go:build windows

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package socket

import (
	"net"

	"github.com/higebu/netfd"
	"golang.org/x/sys/windows"

	"github.com/openrti/rti/pkg/rtierr"
)

// FromNetConn is the Windows counterpart of the Unix implementation: winsock
// SOCKET handles, not file descriptors, but the same duplicate-then-drive-
// with-our-own-poller shape (see common.go's package doc).
func FromNetConn(nc net.Conn) (*Conn, error) {
	fd := netfd.GetFdFromConn(nc)
	if fd < 0 {
		_ = nc.Close()
		return nil, rtierr.NewTransportError("socket: extract handle", errNoFd)
	}
	local, remote := nc.LocalAddr(), nc.RemoteAddr()
	_ = nc.Close()

	var nonblocking uint32 = 1
	if err := windows.Ioctlsocket(windows.Handle(fd), windows.FIONBIO, &nonblocking); err != nil {
		return nil, rtierr.NewTransportError("socket: set non-blocking", err)
	}

	return &Conn{fd: fd, localAddr: local, remoteAddr: remote}, nil
}

func (c *Conn) Read(p []byte) (int, error) {
	n, err := windows.Recv(windows.Handle(c.fd), p, 0)
	if err != nil {
		if err == windows.WSAEWOULDBLOCK {
			return 0, nil
		}
		return 0, rtierr.NewTransportError("socket: read", err)
	}
	if n == 0 {
		return 0, errEOF
	}
	return n, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	n, err := windows.Send(windows.Handle(c.fd), p, 0)
	if err != nil {
		if err == windows.WSAEWOULDBLOCK {
			return 0, nil
		}
		return 0, rtierr.NewTransportError("socket: write", err)
	}
	return n, nil
}

func (c *Conn) Close() error {
	return windows.Closesocket(windows.Handle(c.fd))
}
