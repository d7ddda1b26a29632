/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package negotiate implements the server side of the handshake's version,
// encoding, and compression negotiation: given the client's option map and
// the server's own options, decide what this connection will speak, or
// reject it with an error map the handshake layer writes back verbatim.
package negotiate

import "github.com/openrti/rti/pkg/optionmap"

// SupportedVersion is the one protocol version this build understands.
const SupportedVersion = "8"

// KnownEncodings lists encodings the server can produce, in the order the
// server would prefer them if the client expressed no preference of its
// own (client order always wins when both know an encoding; see Negotiate).
var KnownEncodings = []string{"TightBE1"}

// Preferences carries the server-side negotiation bias that isn't itself
// part of the option map: whether to prefer compression when the client
// offers it, and whether this build was compiled with zlib support at all.
type Preferences struct {
	PreferCompression bool
	ZlibAvailable     bool
}

// Decision is the outcome of Negotiate: either OK with a fully-populated
// response map plus the chosen encoding/compression, or not OK with an
// error response map ready to write back as-is.
type Decision struct {
	Response    *optionmap.Map
	Encoding    string
	Compression string
	OK          bool
}

func errorDecision(message string) Decision {
	resp := optionmap.New()
	resp.Set("error", []string{message})
	return Decision{Response: resp}
}

// Negotiate runs the five-step algorithm from the handshake spec: version
// check, encoding intersection in client preference order, compression
// selection, connect-handle acquisition, response assembly. obtainHandle is
// called to ask the server node for a fresh connection handle; a false
// return means the server node declined (out of capacity, shutting down).
func Negotiate(client, serverOptions *optionmap.Map, prefs Preferences, obtainHandle func() bool) Decision {
	versions, ok := client.Get("version")
	if !ok || !contains(versions, SupportedVersion) {
		return errorDecision("No/incompatible version")
	}

	clientEncodings, _ := client.Get("encoding")
	encoding := firstCommon(clientEncodings, KnownEncodings)
	if encoding == "" {
		return errorDecision("no common encoding")
	}

	compression := "no"
	if prefs.PreferCompression && prefs.ZlibAvailable {
		if clientCompression, ok := client.Get("compression"); ok && contains(clientCompression, "zlib") {
			compression = "zlib"
		}
	}

	if !obtainHandle() {
		return errorDecision("no connect handle")
	}

	resp := optionmap.New()
	for _, key := range serverOptions.Keys() {
		values, _ := serverOptions.Get(key)
		resp.Set(key, values)
	}
	resp.Set("version", []string{SupportedVersion})
	resp.Set("encoding", []string{encoding})
	resp.Set("compression", []string{compression})

	return Decision{Response: resp, Encoding: encoding, Compression: compression, OK: true}
}

// firstCommon returns the first entry of preferred that also appears in
// known, preserving preferred's order — this is the "client order wins"
// behavior the spec documents (see the Open Question decision in
// DESIGN.md): the server never reorders by its own preference.
func firstCommon(preferred, known []string) string {
	for _, p := range preferred {
		if contains(known, p) {
			return p
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
