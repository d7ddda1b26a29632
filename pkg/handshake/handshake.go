/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package handshake

import (
	"github.com/openrti/rti/pkg/buffer"
	"github.com/openrti/rti/pkg/negotiate"
	"github.com/openrti/rti/pkg/optionmap"
	"github.com/openrti/rti/pkg/protocol"
	"github.com/openrti/rti/pkg/rtierr"
	"github.com/openrti/rti/pkg/streamproto"
)

// readState tracks which half of the envelope the packetizer is currently
// assembling.
type readState int

const (
	expectHeader readState = iota
	expectBody
)

// FollowUpBuilder constructs the protocol.Stage (and, if compression was
// negotiated, the protocol.Layer wrapping the leaf) that takes over once
// the handshake completes. It is supplied by whoever owns the connection
// (the server/accept glue or the client dialer), since only they know how
// to build a framed-message layer bound to a server-node sender.
type FollowUpBuilder func(encoding, compression string) (protocol.Stage, error)

// Stage is the handshake's protocol.Stage implementation: it owns a
// streamproto.Packetizer reading/writing the "OpenRTI\0" envelope on top of
// the connection's Layer chain (never compressed — compression only wraps
// the follow-up), and on completion stages its FollowUpBuilder's Stage into
// the connection's protocol.StageSlot.
type Stage struct {
	sock *protocol.Socket
	pack *streamproto.Packetizer
	slot *protocol.StageSlot

	state   readState
	bodyLen int

	server bool
	// Server-side fields.
	serverOptions *optionmap.Map
	prefs         negotiate.Preferences
	obtainHandle  func() bool
	buildFollowUp FollowUpBuilder

	// Client-side fields.
	clientOptions *optionmap.Map
	onAccepted    func(encoding, compression string) (protocol.Stage, error)
	onRejected    func(errs []string)

	pendingOut *buffer.Buffer
	done       bool
	closeErr   error

	recorder Recorder
}

// Recorder receives the outcome of a completed handshake, for callers that
// want it observed (internal/metrics.Collector implements this). Nil by
// default: SetRecorder is optional, and every call site nil-checks first.
type Recorder interface {
	HandshakeOutcome(outcome string)
}

// SetRecorder arranges for every handshake outcome this Stage reaches
// ("accepted" or "rejected") to be reported to r.
func (s *Stage) SetRecorder(r Recorder) { s.recorder = r }

func (s *Stage) recordOutcome(outcome string) {
	if s.recorder != nil {
		s.recorder.HandshakeOutcome(outcome)
	}
}

// NewServerStage creates the server side of the handshake: it waits for
// the client's envelope, negotiates against serverOptions/prefs, and on
// success asks buildFollowUp for the Stage to install.
func NewServerStage(sock *protocol.Socket, slot *protocol.StageSlot, serverOptions *optionmap.Map, prefs negotiate.Preferences, obtainHandle func() bool, buildFollowUp FollowUpBuilder) *Stage {
	s := &Stage{
		sock:          sock,
		slot:          slot,
		server:        true,
		serverOptions: serverOptions,
		prefs:         prefs,
		obtainHandle:  obtainHandle,
		buildFollowUp: buildFollowUp,
	}
	s.pack = streamproto.New(sock, s, s)
	return s
}

// NewClientStage creates the client side of the handshake: it sends
// clientOptions immediately and waits for the server's response.
func NewClientStage(sock *protocol.Socket, slot *protocol.StageSlot, clientOptions *optionmap.Map, onAccepted func(encoding, compression string) (protocol.Stage, error), onRejected func(errs []string)) *Stage {
	s := &Stage{
		sock:          sock,
		slot:          slot,
		server:        false,
		clientOptions: clientOptions,
		onAccepted:    onAccepted,
		onRejected:    onRejected,
	}
	s.pendingOut = asBuffer(EncodeEnvelope(clientOptions))
	s.pack = streamproto.New(sock, s, s)
	return s
}

// InitialReadSize implements streamproto.PacketReader: the fixed 12-byte
// header comes first.
func (s *Stage) InitialReadSize() int { return headerSize }

// ReadPacket implements streamproto.PacketReader, alternating between the
// fixed header and the variable-length body it announces.
func (s *Stage) ReadPacket(buf *buffer.Buffer) (int, error) {
	switch s.state {
	case expectHeader:
		bodyLen, err := DecodeHeader(buf.Bytes())
		if err != nil {
			return 0, err
		}
		s.state = expectBody
		s.bodyLen = bodyLen
		return bodyLen, nil
	default:
		data := buf.Bytes()
		m, err := DecodeBody(data[headerSize:])
		if err != nil {
			return 0, err
		}
		s.state = expectHeader
		if err := s.onOptionMap(m); err != nil {
			return 0, err
		}
		return 0, nil
	}
}

// WritePacket implements streamproto.PacketWriter: the handshake ever
// sends at most one envelope (the client's request, or the server's
// response), staged ahead of time.
func (s *Stage) WritePacket() (*buffer.Buffer, bool) {
	if s.pendingOut == nil {
		return nil, false
	}
	pkt := s.pendingOut
	s.pendingOut = nil
	return pkt, true
}

// onOptionMap implements step 3 of §4.5: server and client diverge here.
func (s *Stage) onOptionMap(m *optionmap.Map) error {
	if s.server {
		decision := negotiate.Negotiate(m, s.serverOptions, s.prefs, s.obtainHandle)
		s.pendingOut = asBuffer(EncodeEnvelope(decision.Response))
		if !decision.OK {
			s.closeErr = rtierr.NewProtocolError("handshake: rejected: %v", mustGet(decision.Response, "error"))
			s.recordOutcome("rejected")
			return nil
		}
		followUp, err := s.buildFollowUp(decision.Encoding, decision.Compression)
		if err != nil {
			return err
		}
		s.slot.Replace(followUp)
		s.recordOutcome("accepted")
		return nil
	}

	if errs, ok := m.Get("error"); ok {
		s.onRejected(errs)
		s.closeErr = rtierr.NewProtocolError("handshake: connection failed: %v", errs)
		s.recordOutcome("rejected")
		return nil
	}
	encoding := firstOr(m, "encoding")
	compression := firstOr(m, "compression")
	followUp, err := s.onAccepted(encoding, compression)
	if err != nil {
		return err
	}
	s.slot.Replace(followUp)
	s.recordOutcome("accepted")
	return nil
}

func firstOr(m *optionmap.Map, key string) string {
	if values, ok := m.Get(key); ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

func mustGet(m *optionmap.Map, key string) []string {
	values, _ := m.Get(key)
	return values
}

// OnReadable implements protocol.Stage.
func (s *Stage) OnReadable() error { return s.pack.OnReadable() }

// OnWritable implements protocol.Stage. Once the handshake has staged its
// follow-up Stage and drained its last outbound packet, it asks the
// StageSlot to quiesce: this is the "once both the last inbound packet is
// fully processed and the last outbound packet is fully sent" instant §4.5
// requires.
func (s *Stage) OnWritable() error {
	if err := s.pack.OnWritable(); err != nil {
		return err
	}
	if s.slot != nil && !s.pack.Flush() {
		if s.closeErr != nil {
			// No follow-up was ever staged (negotiation rejected, or the
			// peer's response carried an error): once the rejection
			// envelope is fully flushed there is nothing left to quiesce
			// into, so report the terminal error instead — the caller
			// closes the socket and erases the event the same way any
			// other OnWritable error is handled.
			return s.closeErr
		}
		s.slot.Quiesce()
	}
	return nil
}

// WantsRead implements protocol.Stage.
func (s *Stage) WantsRead() bool { return s.pack.WantsRead() }

// WantsWrite implements protocol.Stage.
func (s *Stage) WantsWrite() bool { return s.pack.WantsWrite() }

// Err reports the terminal error (connection rejected, or the peer's
// response carried an "error" key) if the handshake ended without
// installing a follow-up.
func (s *Stage) Err() error { return s.closeErr }
