/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package protocol

import "testing"

type fakeStage struct {
	name string
}

func (f *fakeStage) OnReadable() error { return nil }
func (f *fakeStage) OnWritable() error { return nil }
func (f *fakeStage) WantsRead() bool   { return true }
func (f *fakeStage) WantsWrite() bool  { return true }

func TestStageSlotReplaceAppliesOnQuiesce(t *testing.T) {
	handshake := &fakeStage{name: "handshake"}
	framed := &fakeStage{name: "framed"}

	slot := NewStageSlot(handshake)
	if slot.Active() != handshake {
		t.Fatal("expected handshake to be active initially")
	}

	slot.Replace(framed)
	if slot.Active() != handshake {
		t.Fatal("replace should not apply before quiescence")
	}

	if !slot.Quiesce() {
		t.Fatal("expected quiesce to apply the staged stage")
	}
	if slot.Active() != framed {
		t.Fatal("expected framed stage to become active")
	}
	if slot.Quiesce() {
		t.Fatal("a second quiesce with nothing staged should be a no-op")
	}
}
