/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package optionmap implements the big-endian, 4-byte-aligned
// map<string, list<string>> encoding used on the handshake envelope body
// and, logically, by the server configuration reader's in-memory
// representation of listener/parent options.
package optionmap

import (
	"github.com/openrti/rti/pkg/buffer"
	"github.com/openrti/rti/pkg/rtierr"
)

// entry is one key and its ordered list of values.
type entry struct {
	key    string
	values []string
}

// Map is an ordered mapping from string keys to lists of strings. Insertion
// order is preserved on encode; Decode reconstructs entries in wire order.
type Map struct {
	entries []entry
	index   map[string]int
}

// New returns an empty option map.
func New() *Map {
	return &Map{index: make(map[string]int)}
}

// Set replaces (or appends) the value list for key, preserving the key's
// original position if it already existed.
func (m *Map) Set(key string, values []string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	cp := append([]string(nil), values...)
	if i, ok := m.index[key]; ok {
		m.entries[i].values = cp
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry{key: key, values: cp})
}

// Get returns the value list for key and whether it was present.
func (m *Map) Get(key string) ([]string, bool) {
	if m == nil || m.index == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].values, true
}

// Keys returns the keys in insertion/wire order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// Len reports the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Equal reports structural equality: same set of keys, each mapping to the
// same ordered value list, independent of key order (the option map is a
// map, not a sequence — spec §8's "Envelope round-trip" invariant compares
// decode(encode(m)) == m as maps).
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, e := range m.entries {
		ov, ok := other.Get(e.key)
		if !ok || len(ov) != len(e.values) {
			return false
		}
		for i := range e.values {
			if e.values[i] != ov[i] {
				return false
			}
		}
	}
	return true
}

// Encode serializes m per spec §6.1: u32 BE entry count, then per entry a
// length-prefixed, 4-byte-aligned key followed by a length-prefixed,
// 4-byte-aligned value count and value list.
func Encode(m *Map) []byte {
	e := buffer.NewEncodeStream()
	e.PutUint32BE(uint32(m.Len()))
	for _, ent := range m.entries {
		writeAlignedString(e, ent.key)
		e.PutUint32BE(uint32(len(ent.values)))
		for _, v := range ent.values {
			writeAlignedString(e, v)
		}
	}
	return e.Bytes()
}

func writeAlignedString(e *buffer.EncodeStream, s string) {
	e.PutUint32BE(uint32(len(s)))
	e.WriteBytes([]byte(s))
	e.Align(4)
}

// Decode parses the big-endian, 4-byte-aligned option map encoding from b.
// It returns a *rtierr.ProtocolError if b is truncated relative to its own
// length prefixes, or a *rtierr.ResourceError if a length prefix exceeds
// what this process can address.
func Decode(b []byte) (*Map, error) {
	d := buffer.NewDecodeStream(b)
	n, err := d.GetUint32BE()
	if err != nil {
		return nil, err
	}
	m := New()
	for i := uint32(0); i < n; i++ {
		key, err := readAlignedString(d)
		if err != nil {
			return nil, err
		}
		vn, err := d.GetUint32BE()
		if err != nil {
			return nil, err
		}
		values := make([]string, vn)
		for j := uint32(0); j < vn; j++ {
			v, err := readAlignedString(d)
			if err != nil {
				return nil, err
			}
			values[j] = v
		}
		m.Set(key, values)
	}
	return m, nil
}

const maxStringLen = 1 << 24 // 16 MiB; generous for option values, bounds a corrupt length prefix

func readAlignedString(d *buffer.DecodeStream) (string, error) {
	l, err := d.GetUint32BE()
	if err != nil {
		return "", err
	}
	if l > maxStringLen {
		return "", rtierr.NewResourceError("option map string length %d exceeds limit %d", l, maxStringLen)
	}
	b, err := d.ReadBytes(int(l))
	if err != nil {
		return "", err
	}
	s := string(b)
	if err := d.Align(4); err != nil {
		return "", err
	}
	return s, nil
}
