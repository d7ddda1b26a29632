/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package rtiserver

import (
	"time"

	"github.com/rs/xid"

	"github.com/openrti/rti/pkg/dispatcher"
	"github.com/openrti/rti/pkg/protocol"
	"github.com/openrti/rti/pkg/rtilog"
	"github.com/openrti/rti/pkg/socket"
	"github.com/openrti/rti/pkg/wireformat"
)

// outboundSender adapts messages the server node pushes toward this
// connection onto the connection's outbound queue. It is handed to
// InsertConnect/InsertParentConnect before the wireformat.Connection it
// targets exists (the handshake hasn't completed yet), so bind fills in
// the target once buildFollowUp constructs it.
type outboundSender struct {
	conn *wireformat.Connection
}

func (o *outboundSender) bind(c *wireformat.Connection) { o.conn = c }

// Receive implements wireformat.Sender (== servernode.Sender).
func (o *outboundSender) Receive(m wireformat.Message) {
	if o.conn == nil {
		return
	}
	if !o.conn.Enqueue(m) {
		rtilog.For(rtilog.CategoryNetwork).Warn("rtiserver: outbound queue full, dropping message")
	}
}

// noopStage is a placeholder protocol.Stage occupying a StageSlot for the
// instant between its construction and the real Stage's Replace/Quiesce —
// never actually driven, since Insert into the dispatcher only happens
// afterward.
type noopStage struct{}

func (noopStage) OnReadable() error { return nil }
func (noopStage) OnWritable() error { return nil }
func (noopStage) WantsRead() bool   { return false }
func (noopStage) WantsWrite() bool  { return false }

// connEvent is one connection's dispatcher.Event: it drives the connection's
// current protocol.Stage (handshake, then the framed-message Connection)
// through read/write readiness and applies any Layer-slot swap (compression
// splice) a completed handshake staged, once each direction quiesces.
type connEvent struct {
	id       xid.ID
	conn     *socket.Conn
	sock     *protocol.Socket
	slot     *protocol.StageSlot
	recorder Recorder
}

func (c *connEvent) Fd() int             { return c.conn.Fd() }
func (c *connEvent) WantsRead() bool     { return c.slot.WantsRead() }
func (c *connEvent) WantsWrite() bool    { return c.slot.WantsWrite() }
func (c *connEvent) Deadline() time.Time { return time.Time{} }

func (c *connEvent) OnRead(d *dispatcher.Dispatcher) error {
	if err := c.slot.OnReadable(); err != nil {
		return err
	}
	c.sock.Quiesce()
	return nil
}

func (c *connEvent) OnWrite(d *dispatcher.Dispatcher) error {
	if err := c.slot.OnWritable(); err != nil {
		return err
	}
	c.sock.Quiesce()
	return nil
}

func (c *connEvent) OnTimeout(d *dispatcher.Dispatcher) {}

func (c *connEvent) OnError(d *dispatcher.Dispatcher, err error) {
	rtilog.For(rtilog.CategoryNetwork).WithError(err).WithField("conn_id", c.id.String()).Debug("rtiserver: connection closed")
	_ = c.sock.Close()
	if c.recorder != nil {
		c.recorder.ConnectionClosed()
	}
}
