/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package protocol implements the two swappable slots a connection is built
// from. Socket holds the byte-oriented Layer chain (the leaf socket,
// optionally wrapped by the compression layer); StageSlot holds the
// readiness-driven Stage (the handshake, then the framed-message layer).
// Each Layer sees only the Layer interface of the layer beneath it, never a
// concrete type, so a completed handshake can splice a compression layer
// into the Socket and hand the StageSlot to the framed-message layer without
// the socket event above either slot knowing anything changed.
package protocol

import "sync"

// Layer is the capability one protocol layer exposes to the layer above it:
// byte-oriented recv/send, readiness predicates the dispatcher-facing event
// consults, and close. A leaf Layer reads/writes an actual socket; a nested
// Layer (compression, for instance) reads/writes the Layer beneath it.
type Layer interface {
	Recv(p []byte) (int, error)
	Send(p []byte) (int, error)
	Close() error
	WantsRead() bool
	WantsWrite() bool
}

// Socket holds the single mutable slot a connection's active Layer occupies.
// Everything above it — the packetizer, the socket event — talks to the
// Socket, never to a Layer directly, so Replace can swap the active Layer
// without their knowledge. Replace does not take effect immediately: it
// stages the next Layer and Quiesce applies it once the caller has reached
// a safe point (no partially-read inbound packet, no partially-written
// outbound packet).
type Socket struct {
	mu     sync.Mutex
	active Layer
	next   Layer
}

// NewSocket wraps leaf as the initial active Layer.
func NewSocket(leaf Layer) *Socket {
	return &Socket{active: leaf}
}

// Recv reads through the currently active Layer.
func (s *Socket) Recv(p []byte) (int, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	return active.Recv(p)
}

// Send writes through the currently active Layer.
func (s *Socket) Send(p []byte) (int, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	return active.Send(p)
}

// Close closes the currently active Layer. Closing does not cascade to a
// staged-but-not-yet-applied replacement Layer, since that Layer never
// became active.
func (s *Socket) Close() error {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	return active.Close()
}

// WantsRead reflects the currently active Layer.
func (s *Socket) WantsRead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.WantsRead()
}

// WantsWrite reflects the currently active Layer.
func (s *Socket) WantsWrite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.WantsWrite()
}

// Replace stages next as the Layer to become active at the next Quiesce
// call. Only one replacement can be staged at a time; a second Replace
// before Quiesce overwrites the first.
func (s *Socket) Replace(next Layer) {
	s.mu.Lock()
	s.next = next
	s.mu.Unlock()
}

// HasPendingReplace reports whether a Replace is staged and waiting for a
// quiescent point.
func (s *Socket) HasPendingReplace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next != nil
}

// Quiesce applies a staged replacement, if any, and reports whether it did.
// Callers are responsible for only calling this once both the last inbound
// packet has been fully processed and the last outbound packet has been
// fully sent on the Layer being replaced — Socket itself has no notion of
// "packet" to check that for them.
func (s *Socket) Quiesce() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == nil {
		return false
	}
	s.active = s.next
	s.next = nil
	return true
}

// Active returns the currently active Layer, for callers that wrap it in a
// new Layer and stage the wrapper with Replace (rtiserver splicing in a
// compression layer, for instance).
func (s *Socket) Active() Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
