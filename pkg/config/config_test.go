/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package config

import (
	"strings"
	"testing"
)

func TestReadFullDocument(t *testing.T) {
	doc := `<?xml version="1.0"?>
<OpenRTIServerConfig version="1">
  <parentServer url="rti://upstream.example.org:14321"/>
  <permitTimeRegulation enable="true"/>
  <enableZLibCompression enable="0"/>
  <listen url="rti://0.0.0.0:14321"/>
  <listen url="pipe://.OpenRTI"/>
</OpenRTIServerConfig>`

	cfg, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ParentServer == nil || cfg.ParentServer.Host != "upstream.example.org" {
		t.Fatalf("got parent server %+v", cfg.ParentServer)
	}
	if !cfg.PermitTimeRegulation {
		t.Fatal("expected permitTimeRegulation true")
	}
	if cfg.EnableZLibCompression {
		t.Fatal("expected enableZLibCompression false")
	}
	if len(cfg.Listen) != 2 {
		t.Fatalf("got %d listeners, want 2", len(cfg.Listen))
	}
}

func TestReadRejectsWrongRoot(t *testing.T) {
	_, err := Read(strings.NewReader(`<NotAConfig/>`))
	if err == nil {
		t.Fatal("expected an error for the wrong root element")
	}
}

func TestReadRejectsBadBoolean(t *testing.T) {
	doc := `<OpenRTIServerConfig version="1"><permitTimeRegulation enable="maybe"/></OpenRTIServerConfig>`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for an unrecognized boolean")
	}
}

func TestReadRejectsUnknownElement(t *testing.T) {
	doc := `<OpenRTIServerConfig version="1"><bogus/></OpenRTIServerConfig>`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for an unrecognized child element")
	}
}

func TestReadAcceptsBooleanShortForms(t *testing.T) {
	for _, tc := range []struct {
		value string
		want  bool
	}{
		{"1", true}, {"0", false},
		{"t", true}, {"f", false},
		{"T", true}, {"F", false},
	} {
		doc := `<OpenRTIServerConfig version="1"><permitTimeRegulation enable="` + tc.value + `"/></OpenRTIServerConfig>`
		cfg, err := Read(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("value %q: %v", tc.value, err)
		}
		if cfg.PermitTimeRegulation != tc.want {
			t.Fatalf("value %q: got %v, want %v", tc.value, cfg.PermitTimeRegulation, tc.want)
		}
	}
}
