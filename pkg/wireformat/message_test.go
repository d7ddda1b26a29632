/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package wireformat

import (
	"reflect"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	reg := NewRegistry()

	cases := []Message{
		&ConnectionLostMessage{Reason: "peer reset"},
		&JoinFederationExecutionMessage{FederateName: "fed-a", FederationName: "exercise"},
		&ResignFederationExecutionMessage{FederateHandle: 42},
		&SynchronizationPointAnnounceMessage{Label: "ReadyToRun", Tag_: []byte{1, 2, 3}},
		&UpdateAttributeValuesMessage{
			ObjectHandle:   7,
			AttributeIDs:   []uint64{1, 2},
			AttributeData:  [][]byte{{0xaa}, {0xbb, 0xcc}},
			Transportation: 1,
		},
		&SendInteractionMessage{
			InteractionClassHandle: 9,
			ParameterIDs:           []uint64{3},
			ParameterData:          [][]byte{{0x01, 0x02}},
			Transportation:         0,
			Order:                  1,
		},
		&TimeAdvanceRequestMessage{Time: 16384},
		&TimeAdvanceGrantMessage{Time: 128},
	}

	for _, want := range cases {
		encoded := EncodeMessage(want)
		if len(encoded)%4 != 0 {
			t.Fatalf("tag %d: encoded length %d not 4-byte aligned", want.Tag(), len(encoded))
		}
		got, err := reg.DecodeMessage(encoded)
		if err != nil {
			t.Fatalf("tag %d: decode: %v", want.Tag(), err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("tag %d: got %#v, want %#v", want.Tag(), got, want)
		}
	}
}

func TestDecodeMessageUnknownTag(t *testing.T) {
	reg := NewRegistry()
	// A tag well past any registered kind, varint-encoded as a single byte.
	_, err := reg.DecodeMessage([]byte{0x7f})
	if err == nil {
		t.Fatal("expected an error for an unregistered tag")
	}
}

func TestDecodeMessageTruncated(t *testing.T) {
	reg := NewRegistry()
	encoded := EncodeMessage(&TimeAdvanceRequestMessage{Time: 16384})
	_, err := reg.DecodeMessage(encoded[:1])
	if err == nil {
		t.Fatal("expected an error decoding a truncated message")
	}
}
