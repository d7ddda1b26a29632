/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Command openrti-server runs the transport/coordination core against an
// OpenRTIServerConfig document and an out-of-tree ServerNode plugin: this
// repository never implements federation execution semantics itself (spec
// §4.9), so the node is loaded dynamically at startup.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/openrti/rti/internal/metrics"
	"github.com/openrti/rti/pkg/config"
	"github.com/openrti/rti/pkg/dispatcher"
	"github.com/openrti/rti/pkg/dynmodule"
	"github.com/openrti/rti/pkg/rtierr"
	"github.com/openrti/rti/pkg/rtiserver"
	"github.com/openrti/rti/pkg/servernode"
)

func main() {
	if len(os.Args) < 3 {
		logrus.Fatalf("usage: %s <config.xml> <node-plugin.so> [metrics-addr]", os.Args[0])
	}
	configPath, pluginPath := os.Args[1], os.Args[2]
	metricsAddr := ":9090"
	if len(os.Args) > 3 {
		metricsAddr = os.Args[3]
	}

	f, err := os.Open(configPath)
	if err != nil {
		logrus.Fatalf("openrti-server: open config: %v", err)
	}
	cfg, err := config.Read(f)
	f.Close()
	if err != nil {
		logrus.Fatalf("openrti-server: parse config: %v", err)
	}

	node, err := loadServerNode(pluginPath, cfg)
	if err != nil {
		logrus.Fatalf("openrti-server: load node plugin: %v", err)
	}

	d, err := dispatcher.New()
	if err != nil {
		logrus.Fatalf("openrti-server: create dispatcher: %v", err)
	}
	defer d.Close()

	collector := metrics.NewCollector("openrti", prometheus.Labels{})
	prometheus.MustRegister(collector)
	d.SetRecorder(collector)

	srv := rtiserver.New(d, node, nil)
	srv.SetRecorder(collector)

	for _, addr := range cfg.Listen {
		if err := srv.Listen(addr); err != nil {
			logrus.Fatalf("openrti-server: listen %s: %v", addr, err)
		}
		logrus.WithField("addr", addr.String()).Info("openrti-server: listening")
	}

	if cfg.ParentServer != nil {
		if err := srv.DialParent(cfg.ParentServer); err != nil {
			logrus.Fatalf("openrti-server: dial parent: %v", err)
		}
		logrus.WithField("addr", cfg.ParentServer.String()).Info("openrti-server: dialed parent")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logrus.WithError(err).Warn("openrti-server: metrics server stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logrus.Info("openrti-server: shutting down")
		d.SetDone(true)
	}()

	// A zero deadline blocks Exec's poll/wait indefinitely between ticks;
	// it only returns once SetDone(true) fires from the signal handler
	// above, or every event has been erased.
	if err := d.Exec(time.Time{}); err != nil {
		logrus.WithError(err).Fatal("openrti-server: dispatcher exec failed")
	}
}

// loadServerNode resolves the NewServerNode(servernode.Options) entry point
// a node plugin must export, and calls it with the options config.Read
// parsed. Go plugins can only be loaded once per process and never
// unloaded; that lifetime matches this command's own.
func loadServerNode(path string, cfg *config.ServerConfig) (servernode.ServerNode, error) {
	mod, err := dynmodule.Open(path)
	if err != nil {
		return nil, err
	}
	sym, err := mod.Lookup("NewServerNode")
	if err != nil {
		return nil, err
	}
	ctor, ok := sym.(func(servernode.Options) (servernode.ServerNode, error))
	if !ok {
		return nil, rtierr.NewConfigError("openrti-server: plugin %q's NewServerNode has the wrong signature", path)
	}
	return ctor(servernode.Options{
		PermitTimeRegulation: cfg.PermitTimeRegulation,
		PreferCompression:    cfg.EnableZLibCompression,
	})
}
