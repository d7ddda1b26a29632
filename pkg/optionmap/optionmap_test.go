/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package optionmap

import (
	"bytes"
	"testing"
)

func TestEmptyMapEncoding(t *testing.T) {
	m := New()
	got := Encode(m)
	want := []byte{0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(empty) = % x, want % x", got, want)
	}

	decoded, err := Decode(got)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Len() != 0 {
		t.Fatalf("decoded map has %d entries, want 0", decoded.Len())
	}
}

func TestSingleEntryEncoding(t *testing.T) {
	m := New()
	m.Set("version", []string{"8"})

	got := Encode(m)
	want := []byte{
		0x00, 0x00, 0x00, 0x01, // N = 1
		0x00, 0x00, 0x00, 0x07, 'v', 'e', 'r', 's', 'i', 'o', 'n', 0x00, // kL=7 "version" + 1 pad
		0x00, 0x00, 0x00, 0x01, // M = 1
		0x00, 0x00, 0x00, 0x01, '8', 0x00, 0x00, 0x00, // vL=1 "8" + 3 pad
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(version=[8]) = % x, want % x", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []*Map{
		New(),
		func() *Map { m := New(); m.Set("version", []string{"8"}); return m }(),
		func() *Map {
			m := New()
			m.Set("version", []string{"7", "8"})
			m.Set("encoding", []string{"TightBE1"})
			m.Set("empty", nil)
			return m
		}(),
	}

	for _, m := range cases {
		encoded := Encode(m)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !m.Equal(decoded) {
			t.Fatalf("round trip mismatch: %v vs %v", m.Keys(), decoded.Keys())
		}
		if len(encoded)%4 != 0 {
			t.Fatalf("encoded option map not 4-byte aligned: %d bytes", len(encoded))
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x00, 0x00, 0x01})
	if err == nil {
		t.Fatal("expected ProtocolError decoding a truncated map")
	}
}
