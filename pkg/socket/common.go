/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package socket provides the non-blocking stream socket primitives the
// dispatcher polls directly: TCP sockets, named-pipe-equivalent local IPC,
// and a server-socket/accept wrapper, plus the raw-fd extraction the
// dispatcher's poller needs.
//
// Sockets are created the ordinary way, through net.Dial/net.Listen — that
// gets DNS resolution, IPv6 literal parsing, and all the other
// conveniences of the standard library for free — and then handed to
// netfd.GetFdFromConn exactly as the teacher's Prometheus collector does to
// read TCP_INFO, here to register the duplicated, non-blocking descriptor
// with our own poll loop instead of Go's runtime netpoller. The original
// net.Conn is then closed without being read from or written to again; all
// I/O after that point goes through the duplicated fd directly.
package socket

import "net"

// Conn is a non-blocking stream socket suitable for registration with
// pkg/dispatcher: Fd() returns a descriptor the dispatcher's poller can
// wait on directly, and Read/Write never block the calling goroutine.
type Conn struct {
	fd         int
	localAddr  net.Addr
	remoteAddr net.Addr
}

// Fd returns the raw descriptor for poll registration.
func (c *Conn) Fd() int { return c.fd }

// LocalAddr returns the socket's local address, captured at FromNetConn
// time (the duplicated fd no longer carries it).
func (c *Conn) LocalAddr() net.Addr { return c.localAddr }

// RemoteAddr returns the socket's peer address, captured at FromNetConn
// time.
func (c *Conn) RemoteAddr() net.Addr { return c.remoteAddr }

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errEOF = sentinelErr("eof")
const errNoFd = sentinelErr("connection has no extractable file descriptor")

// IsEOF reports whether err is the sentinel Read returns on an orderly
// peer shutdown.
func IsEOF(err error) bool { return err == errEOF }
