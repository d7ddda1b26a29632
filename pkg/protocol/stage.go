/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package protocol

import "sync"

// Stage is the dispatcher-facing half of a connection's protocol: the
// handshake stage and the framed-message stage both implement it. Unlike
// Layer (the byte-oriented capability stacked below a Stage — the leaf
// socket, optionally wrapped by the compression filter), a Stage is driven
// directly by read/write readiness, not pulled from.
//
// A connection has exactly one active Stage at a time: the handshake until
// negotiation completes, then the framed-message layer for the rest of the
// connection's life. Both share the same underlying Layer chain (socket,
// optionally compression) — only the Stage swaps, never the bytes beneath
// it.
type Stage interface {
	OnReadable() error
	OnWritable() error
	WantsRead() bool
	WantsWrite() bool
}

// StageSlot holds the single mutable Stage a connection is currently
// driven through, with the same staged-Replace/Quiesce-at-a-safe-point
// discipline as Socket: the handshake calls Replace once both its last
// inbound packet is processed and its last outbound packet is sent, and
// the connection's event loop calls Quiesce between ticks.
type StageSlot struct {
	mu     sync.Mutex
	active Stage
	next   Stage
}

// NewStageSlot starts the slot with initial as the active Stage.
func NewStageSlot(initial Stage) *StageSlot {
	return &StageSlot{active: initial}
}

func (s *StageSlot) OnReadable() error {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	return active.OnReadable()
}

func (s *StageSlot) OnWritable() error {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	return active.OnWritable()
}

func (s *StageSlot) WantsRead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.WantsRead()
}

func (s *StageSlot) WantsWrite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.WantsWrite()
}

// Replace stages next to become active at the following Quiesce call.
func (s *StageSlot) Replace(next Stage) {
	s.mu.Lock()
	s.next = next
	s.mu.Unlock()
}

// Quiesce applies a staged replacement, if any, and reports whether it did.
func (s *StageSlot) Quiesce() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == nil {
		return false
	}
	s.active = s.next
	s.next = nil
	return true
}

// Active returns the currently active Stage.
func (s *StageSlot) Active() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
