/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package rtiserver

import (
	"net"
	"time"

	"github.com/openrti/rti/pkg/dispatcher"
	"github.com/openrti/rti/pkg/rtierr"
	"github.com/openrti/rti/pkg/rtilog"
	"github.com/openrti/rti/pkg/rtiurl"
)

// boundListener pairs a net.Listener with the signal its accept loop
// watches to tell a Close-induced Accept error apart from a real one. It
// also doubles as a no-op dispatcher.Event (Fd() -1, nothing ever ready),
// registered with the dispatcher purely so the event set isn't empty while
// a listener exists and nothing has connected yet — Dispatcher.Exec returns
// immediately on an empty set, which would otherwise starve the
// Dispatcher.Enqueue call the accept goroutine uses to hand off a freshly
// accepted connection.
type boundListener struct {
	addr *rtiurl.Address
	ln   net.Listener
	done chan struct{}
}

func (*boundListener) Fd() int                                     { return -1 }
func (*boundListener) WantsRead() bool                             { return false }
func (*boundListener) WantsWrite() bool                            { return false }
func (*boundListener) Deadline() time.Time                         { return time.Time{} }
func (*boundListener) OnRead(d *dispatcher.Dispatcher) error        { return nil }
func (*boundListener) OnWrite(d *dispatcher.Dispatcher) error       { return nil }
func (*boundListener) OnTimeout(d *dispatcher.Dispatcher)           {}
func (*boundListener) OnError(d *dispatcher.Dispatcher, err error)  {}

// Listen binds addr and starts accepting connections on it, handing each
// one to the dispatcher goroutine via Dispatcher.Enqueue once accepted
// (net.Listener.Accept blocks, so it runs on its own goroutine rather than
// tying up the single-threaded dispatcher).
func (s *Server) Listen(addr *rtiurl.Address) error {
	network, address, err := dialNetwork(addr)
	if err != nil {
		return err
	}
	ln, err := net.Listen(network, address)
	if err != nil {
		return rtierr.NewTransportError("rtiserver: listen "+addr.String(), err)
	}

	bl := &boundListener{addr: addr, ln: ln, done: make(chan struct{})}
	s.mu.Lock()
	s.listeners = append(s.listeners, bl)
	s.mu.Unlock()
	s.dispatcher.Insert(bl)

	go s.acceptLoop(bl)
	return nil
}

func (s *Server) acceptLoop(bl *boundListener) {
	log := rtilog.For(rtilog.CategoryNetwork).WithField("listen", bl.addr.String())
	for {
		nc, err := bl.ln.Accept()
		if err != nil {
			select {
			case <-bl.done:
				return
			default:
			}
			log.WithError(err).Warn("rtiserver: accept failed, listener stopping")
			return
		}
		s.dispatcher.Enqueue(func() { s.onAccepted(nc) })
	}
}

// Close stops every listener this Server owns. It does not touch
// already-accepted connections, which remain driven by the Dispatcher
// until their own I/O fails or the caller erases them.
func (s *Server) Close() error {
	s.mu.Lock()
	listeners := s.listeners
	s.listeners = nil
	s.mu.Unlock()

	var firstErr error
	for _, bl := range listeners {
		close(bl.done)
		s.dispatcher.Erase(bl)
		if err := bl.ln.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
