/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package servernode defines the abstract interface the transport core
// consumes but never implements: the federation execution bookkeeping,
// time-management algorithm, and object/attribute ownership tables live
// outside this repository (spec §4.9, "Exposed here only as the interface
// the core consumes"). What lives here is only the connection-registration
// surface (insert_connect/insert_parent_connect), the handful of
// concretely-typed options the wire actually negotiates against
// (permitTimeRegulation, compression preference), and the federation-RPC
// method set as an opaque pass-through.
package servernode

import "github.com/openrti/rti/pkg/wireformat"

// Options carries the subset of server_options() the handshake/negotiation
// layer needs typed rather than as a raw map<string, list<string>>: whether
// federates may become time-regulating, and whether this server node
// prefers zlib compression on new connections. original_source's
// AbstractServer concretely exposes both; spec §4.11's config reader feeds
// them from <permitTimeRegulation enable="..."/> and
// <enableZLibCompression enable="..."/>.
type Options struct {
	PermitTimeRegulation bool
	PreferCompression    bool
}

// Sender is the handle a ServerNode hands back from insert_connect /
// insert_parent_connect: the framed-message layer's Connection routes every
// decoded wireformat.Message (including synthesized ConnectionLostMessage)
// to it. It is the same role as wireformat.Sender; ServerNode is the thing
// that constructs one per connection.
type Sender = wireformat.Sender

// ServerNode is the abstract consumer/producer the framed-message layer
// feeds (spec §4.9). A real implementation owns federation execution
// state, the time-advance algorithm, and object/attribute ownership
// tables — none of which this repository implements; FederationRPC below
// is deliberately opaque so this interface can be satisfied by a stub in
// tests without dragging in that semantics.
type ServerNode interface {
	// InsertConnect registers an inbound (non-uplink) connection and
	// returns the Sender used to dispatch messages into it.
	InsertConnect(childSender Sender, childOptions map[string][]string) (Sender, error)

	// InsertParentConnect registers the single uplink connection, if any.
	InsertParentConnect(childSender Sender, childOptions map[string][]string) (Sender, error)

	// ServerOptions reports this node's negotiable options as the raw
	// map the handshake's option-map encodes, plus Options typed.
	ServerOptions() (map[string][]string, Options)

	// IsRunning reports whether the node is still accepting work; the
	// server-side handshake rejects new connections while this is false.
	IsRunning() bool

	// FederationRPC dispatches one of the opaque federation operations
	// named in spec §4.9 (join_federation_execution,
	// resign_federation_execution, register_federation_synchronization_point,
	// request_federation_save, and the HLA declaration/object/ownership/
	// time-management operations) by name. Errors are expected to be
	// *rtierr.FederationError with Kind set to the HLA exception name
	// (FederateNotExecutionMember, ObjectClassNotDefined,
	// InvalidLogicalTime, SaveInProgress, …) so bindings can map them
	// onto their own exception taxonomy unchanged.
	FederationRPC(name string, args wireformat.Message) (wireformat.Message, error)
}
