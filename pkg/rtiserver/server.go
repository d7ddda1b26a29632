/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package rtiserver is the server/accept glue (spec §4.9's "exposed here
// only as the interface the core consumes" made concrete): it binds
// listening sockets from rtiurl addresses, accepts connections, dials the
// one optional parent uplink, and for each connection wires the leaf
// socket, the handshake, negotiation, optional compression, and the
// framed-message layer together behind a servernode.ServerNode. It owns the
// dispatcher.Dispatcher that drives all of it from a single goroutine.
package rtiserver

import (
	"net"
	"strconv"
	"sync"

	"github.com/rs/xid"

	"github.com/openrti/rti/pkg/compressproto"
	"github.com/openrti/rti/pkg/dispatcher"
	"github.com/openrti/rti/pkg/handshake"
	"github.com/openrti/rti/pkg/negotiate"
	"github.com/openrti/rti/pkg/optionmap"
	"github.com/openrti/rti/pkg/protocol"
	"github.com/openrti/rti/pkg/rtierr"
	"github.com/openrti/rti/pkg/rtilog"
	"github.com/openrti/rti/pkg/rtiurl"
	"github.com/openrti/rti/pkg/servernode"
	"github.com/openrti/rti/pkg/socket"
	"github.com/openrti/rti/pkg/wireformat"
)

// Server binds listeners and the parent uplink for one servernode.ServerNode
// and drives every resulting connection through a single Dispatcher.
type Server struct {
	dispatcher    *dispatcher.Dispatcher
	node          servernode.ServerNode
	registry      *wireformat.Registry
	queueCapacity int

	mu        sync.Mutex
	listeners []*boundListener

	recorder Recorder
}

// Recorder receives connection lifecycle and handshake-outcome observations
// for metrics (internal/metrics.Collector implements both this and
// handshake.Recorder). Nil by default: SetRecorder is optional.
type Recorder interface {
	handshake.Recorder
	ConnectionAccepted()
	ConnectionClosed()
}

// SetRecorder arranges for every connection this Server accepts or dials,
// and every handshake it runs, to report through r.
func (s *Server) SetRecorder(r Recorder) { s.recorder = r }

// New creates a Server that will drive connections through d. d is not
// started here; call Dispatcher() and Exec it.
func New(d *dispatcher.Dispatcher, node servernode.ServerNode, registry *wireformat.Registry) *Server {
	if registry == nil {
		registry = wireformat.DefaultRegistry()
	}
	return &Server{
		dispatcher:    d,
		node:          node,
		registry:      registry,
		queueCapacity: wireformat.DefaultQueueCapacity,
	}
}

// Dispatcher returns the Dispatcher this Server inserts connections into,
// for callers that want to drive it themselves (Exec/SetDone/WakeUp).
func (s *Server) Dispatcher() *dispatcher.Dispatcher { return s.dispatcher }

func (s *Server) serverOptionsAndPrefs() (*optionmap.Map, negotiate.Preferences) {
	raw, opts := s.node.ServerOptions()
	m := optionmap.New()
	for k, v := range raw {
		m.Set(k, v)
	}
	prefs := negotiate.Preferences{PreferCompression: opts.PreferCompression, ZlibAvailable: true}
	return m, prefs
}

// onAccepted wires one freshly-accepted connection through LeafLayer,
// Socket, StageSlot and a server-side handshake. It runs on the dispatcher
// goroutine (handed over via Dispatcher.Enqueue by the accept loop), so it
// may touch the dispatcher directly.
func (s *Server) onAccepted(nc net.Conn) {
	id := xid.New()
	conn, err := socket.FromNetConn(nc)
	if err != nil {
		rtilog.For(rtilog.CategoryNetwork).WithError(err).WithField("conn_id", id.String()).Warn("rtiserver: accept: extracting fd failed")
		return
	}
	rtilog.For(rtilog.CategoryNetwork).WithField("conn_id", id.String()).WithField("remote", nc.RemoteAddr().String()).Debug("rtiserver: accepted connection")

	leaf := protocol.NewLeafLayer(conn)
	sock := protocol.NewSocket(leaf)
	serverOptions, prefs := s.serverOptionsAndPrefs()
	obtainHandle := func() bool { return s.node.IsRunning() }

	sender := &outboundSender{}
	buildFollowUp := func(encoding, compression string) (protocol.Stage, error) {
		return s.buildFollowUp(sock, sender, encoding, compression, s.node.InsertConnect)
	}

	slot := protocol.NewStageSlot(noopStage{})
	stage := handshake.NewServerStage(sock, slot, serverOptions, prefs, obtainHandle, buildFollowUp)
	if s.recorder != nil {
		stage.SetRecorder(s.recorder)
	}
	slot.Replace(stage)
	slot.Quiesce()

	ev := &connEvent{id: id, conn: conn, sock: sock, slot: slot, recorder: s.recorder}
	s.dispatcher.Insert(ev)
	if s.recorder != nil {
		s.recorder.ConnectionAccepted()
	}
}

// insertFunc matches both servernode.ServerNode.InsertConnect and
// InsertParentConnect, so buildFollowUp serves both the accept and dial
// paths.
type insertFunc func(childSender servernode.Sender, childOptions map[string][]string) (servernode.Sender, error)

// buildFollowUp is the shared half of handshake.FollowUpBuilder used by
// both accepted and dialed connections: it optionally splices a
// compression layer into sock, registers the connection with the server
// node, and constructs the framed-message Connection that becomes the
// connection's Stage for the rest of its life.
func (s *Server) buildFollowUp(sock *protocol.Socket, sender *outboundSender, encoding, compression string, insert insertFunc) (protocol.Stage, error) {
	if encoding != "TightBE1" {
		return nil, rtierr.NewProtocolError("rtiserver: unsupported encoding %q", encoding)
	}

	var flusher func() error
	if compression == "zlib" {
		comp := compressproto.New(sock.Active())
		sock.Replace(comp)
		flusher = comp.FlushSync
	}

	// The raw option map the peer offered isn't threaded through
	// handshake.FollowUpBuilder (only the negotiated encoding/compression
	// are); the negotiated values are the only child options this layer
	// can report to the server node.
	childOptions := map[string][]string{
		"encoding":    {encoding},
		"compression": {compression},
	}
	serverSender, err := insert(sender, childOptions)
	if err != nil {
		return nil, err
	}

	c := wireformat.NewConnection(sock, s.registry, serverSender, flusher, s.queueCapacity)
	sender.bind(c)
	return c, nil
}

// DialParent dials the single uplink connection named by addr and performs
// the client side of the handshake, registering the result with the server
// node's InsertParentConnect once negotiation completes.
func (s *Server) DialParent(addr *rtiurl.Address) error {
	id := xid.New()
	network, address, err := dialNetwork(addr)
	if err != nil {
		return err
	}
	nc, err := net.Dial(network, address)
	if err != nil {
		return rtierr.NewTransportError("rtiserver: dial parent "+addr.String(), err)
	}
	rtilog.For(rtilog.CategoryNetwork).WithField("conn_id", id.String()).WithField("parent", addr.String()).Debug("rtiserver: dialed parent")

	conn, err := socket.FromNetConn(nc)
	if err != nil {
		return err
	}
	leaf := protocol.NewLeafLayer(conn)
	sock := protocol.NewSocket(leaf)

	_, prefs := s.serverOptionsAndPrefs()
	clientOptions := optionmap.New()
	clientOptions.Set("version", []string{negotiate.SupportedVersion})
	clientOptions.Set("encoding", append([]string(nil), negotiate.KnownEncodings...))
	if prefs.PreferCompression && prefs.ZlibAvailable {
		clientOptions.Set("compression", []string{"zlib"})
	}

	sender := &outboundSender{}
	slot := protocol.NewStageSlot(noopStage{})
	onAccepted := func(encoding, compression string) (protocol.Stage, error) {
		return s.buildFollowUp(sock, sender, encoding, compression, s.node.InsertParentConnect)
	}
	onRejected := func(errs []string) {
		rtilog.For(rtilog.CategoryNetwork).WithField("errors", errs).Warn("rtiserver: parent connection rejected")
	}
	stage := handshake.NewClientStage(sock, slot, clientOptions, onAccepted, onRejected)
	if s.recorder != nil {
		stage.SetRecorder(s.recorder)
	}
	slot.Replace(stage)
	slot.Quiesce()

	ev := &connEvent{id: id, conn: conn, sock: sock, slot: slot, recorder: s.recorder}
	s.dispatcher.Insert(ev)
	if s.recorder != nil {
		s.recorder.ConnectionAccepted()
	}
	return nil
}

func dialNetwork(addr *rtiurl.Address) (network, address string, err error) {
	switch addr.Scheme {
	case rtiurl.SchemeRTI:
		return "tcp", net.JoinHostPort(addr.Host, strconv.Itoa(addr.Port)), nil
	case rtiurl.SchemePipe, rtiurl.SchemeFile:
		return "unix", addr.Host, nil
	default:
		return "", "", rtierr.NewConfigError("rtiserver: scheme %q has no dialable/listenable transport", addr.Scheme)
	}
}
