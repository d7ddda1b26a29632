/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package metrics is the ambient Prometheus exposition for the transport
// core: dispatcher poll health, connection lifecycle, and handshake
// outcomes, mounted the same way the teacher's exporter_example2 mounts
// /metrics with promhttp.
//
// Collector implements prometheus.Collector by delegating to a fixed set of
// client_golang metrics built at construction time, and separately
// implements the small Recorder interfaces pkg/dispatcher, pkg/handshake,
// and pkg/rtiserver each declare for their own instrumentation hook — those
// packages never import this one, keeping the dependency pointed the
// conventional way (concrete implementation depends on abstraction, not the
// reverse).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a prometheus.Collector gathering dispatcher, connection, and
// handshake counters for one Server/Dispatcher pair.
type Collector struct {
	eventCount        prometheus.Gauge
	pollLatency       prometheus.Histogram
	connectionsTotal  *prometheus.CounterVec
	handshakeOutcomes *prometheus.CounterVec
}

// NewCollector builds a Collector whose metric names are prefixed with
// namespace (conventionally "openrti") and carry constLabels on every
// series, mirroring the prefix/constLabels split of the teacher's
// NewTCPInfoCollector.
func NewCollector(namespace string, constLabels prometheus.Labels) *Collector {
	return &Collector{
		eventCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "dispatcher_events",
			Help:        "Number of socket events currently registered with the dispatcher.",
			ConstLabels: constLabels,
		}),
		pollLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "dispatcher_poll_seconds",
			Help:        "Time spent blocked in one dispatcher poll/wait call.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}),
		connectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "connections_total",
			Help:        "Connections accepted or closed, by state.",
			ConstLabels: constLabels,
		}, []string{"state"}),
		handshakeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "handshake_outcomes_total",
			Help:        "Completed handshakes, by outcome (accepted/rejected).",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	c.eventCount.Describe(descs)
	c.pollLatency.Describe(descs)
	c.connectionsTotal.Describe(descs)
	c.handshakeOutcomes.Describe(descs)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	c.eventCount.Collect(metrics)
	c.pollLatency.Collect(metrics)
	c.connectionsTotal.Collect(metrics)
	c.handshakeOutcomes.Collect(metrics)
}

// SetEventCount implements dispatcher.Recorder.
func (c *Collector) SetEventCount(n int) { c.eventCount.Set(float64(n)) }

// ObservePollLatency implements dispatcher.Recorder.
func (c *Collector) ObservePollLatency(d time.Duration) { c.pollLatency.Observe(d.Seconds()) }

// ConnectionAccepted implements rtiserver.Recorder.
func (c *Collector) ConnectionAccepted() { c.connectionsTotal.WithLabelValues("accepted").Inc() }

// ConnectionClosed implements rtiserver.Recorder.
func (c *Collector) ConnectionClosed() { c.connectionsTotal.WithLabelValues("closed").Inc() }

// HandshakeOutcome implements handshake.Recorder.
func (c *Collector) HandshakeOutcome(outcome string) {
	c.handshakeOutcomes.WithLabelValues(outcome).Inc()
}
