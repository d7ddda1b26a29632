//go:build !windows

/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package socket

import (
	"net"

	"github.com/higebu/netfd"
	"golang.org/x/sys/unix"

	"github.com/openrti/rti/pkg/rtierr"
)

// FromNetConn detaches fd ownership from a standard net.Conn (as returned
// by net.Dial or a Listener's Accept) into a non-blocking Conn the
// dispatcher can poll. The supplied net.Conn is closed; all further I/O
// happens through the returned Conn.
func FromNetConn(nc net.Conn) (*Conn, error) {
	orig := netfd.GetFdFromConn(nc)
	if orig < 0 {
		_ = nc.Close()
		return nil, rtierr.NewTransportError("socket: extract fd", errNoFd)
	}
	fd, err := unix.Dup(orig)
	if err != nil {
		_ = nc.Close()
		return nil, rtierr.NewTransportError("socket: duplicate fd", err)
	}
	local, remote := nc.LocalAddr(), nc.RemoteAddr()
	_ = nc.Close()

	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, rtierr.NewTransportError("socket: set non-blocking", err)
	}
	applyKernelGatedOptions(fd)

	return &Conn{fd: fd, localAddr: local, remoteAddr: remote}, nil
}

// Read performs one non-blocking read. A result of (0, nil) means "would
// block, try again once the dispatcher says the fd is readable again";
// callers in this codebase treat that as "no data yet", not EOF.
func (c *Conn) Read(p []byte) (int, error) {
	n, err := unix.Read(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return 0, nil
		}
		return 0, rtierr.NewTransportError("socket: read", err)
	}
	if n == 0 {
		return 0, errEOF
	}
	return n, nil
}

// Write performs one non-blocking write, possibly partial.
func (c *Conn) Write(p []byte) (int, error) {
	n, err := unix.Write(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return 0, nil
		}
		return 0, rtierr.NewTransportError("socket: write", err)
	}
	return n, nil
}

// Close closes the underlying descriptor.
func (c *Conn) Close() error {
	return unix.Close(c.fd)
}
