/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorReportsObservations(t *testing.T) {
	c := NewCollector("openrti_test", prometheus.Labels{"instance": "unit"})

	c.SetEventCount(3)
	c.ObservePollLatency(5 * time.Millisecond)
	c.ConnectionAccepted()
	c.ConnectionAccepted()
	c.ConnectionClosed()
	c.HandshakeOutcome("accepted")
	c.HandshakeOutcome("rejected")

	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(c.eventCount); got != 3 {
		t.Fatalf("eventCount = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.connectionsTotal.WithLabelValues("accepted")); got != 2 {
		t.Fatalf("connections accepted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.connectionsTotal.WithLabelValues("closed")); got != 1 {
		t.Fatalf("connections closed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.handshakeOutcomes.WithLabelValues("rejected")); got != 1 {
		t.Fatalf("handshake rejected = %v, want 1", got)
	}

	if _, err := reg.Gather(); err != nil {
		t.Fatalf("gather failed: %v", err)
	}
}
