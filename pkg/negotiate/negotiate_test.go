/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package negotiate

import (
	"testing"

	"github.com/openrti/rti/pkg/optionmap"
)

func clientMap(version, encodings []string, compression []string) *optionmap.Map {
	m := optionmap.New()
	if version != nil {
		m.Set("version", version)
	}
	if encodings != nil {
		m.Set("encoding", encodings)
	}
	if compression != nil {
		m.Set("compression", compression)
	}
	return m
}

func TestNegotiateRejectsUnknownVersion(t *testing.T) {
	client := clientMap([]string{"7"}, []string{"TightBE1"}, nil)
	server := optionmap.New()

	d := Negotiate(client, server, Preferences{}, func() bool { return true })
	if d.OK {
		t.Fatal("expected rejection for incompatible version")
	}
	errs, ok := d.Response.Get("error")
	if !ok || errs[0] != "No/incompatible version" {
		t.Fatalf("got %v", errs)
	}
}

func TestNegotiateRejectsNoCommonEncoding(t *testing.T) {
	client := clientMap([]string{"8"}, []string{"SomeOtherEncoding"}, nil)
	server := optionmap.New()

	d := Negotiate(client, server, Preferences{}, func() bool { return true })
	if d.OK {
		t.Fatal("expected rejection for no common encoding")
	}
}

func TestNegotiatePicksNoCompressionByDefault(t *testing.T) {
	client := clientMap([]string{"8"}, []string{"TightBE1"}, []string{"zlib", "no"})
	server := optionmap.New()

	d := Negotiate(client, server, Preferences{PreferCompression: false, ZlibAvailable: true}, func() bool { return true })
	if !d.OK {
		t.Fatalf("expected success, got error response %v", d.Response)
	}
	if d.Compression != "no" {
		t.Fatalf("got compression %q, want %q", d.Compression, "no")
	}
}

func TestNegotiatePicksZlibWhenPreferredAndOffered(t *testing.T) {
	client := clientMap([]string{"8"}, []string{"TightBE1"}, []string{"zlib"})
	server := optionmap.New()

	d := Negotiate(client, server, Preferences{PreferCompression: true, ZlibAvailable: true}, func() bool { return true })
	if !d.OK {
		t.Fatalf("expected success, got error response %v", d.Response)
	}
	if d.Compression != "zlib" {
		t.Fatalf("got compression %q, want %q", d.Compression, "zlib")
	}
	if d.Encoding != "TightBE1" {
		t.Fatalf("got encoding %q", d.Encoding)
	}
}

func TestNegotiateRejectsWhenNoConnectHandleAvailable(t *testing.T) {
	client := clientMap([]string{"8"}, []string{"TightBE1"}, nil)
	server := optionmap.New()

	d := Negotiate(client, server, Preferences{}, func() bool { return false })
	if d.OK {
		t.Fatal("expected rejection when the server node declines a connect handle")
	}
	errs, _ := d.Response.Get("error")
	if errs[0] != "no connect handle" {
		t.Fatalf("got %v", errs)
	}
}

func TestNegotiateResponseCarriesServerBaseOptions(t *testing.T) {
	client := clientMap([]string{"8"}, []string{"TightBE1"}, nil)
	server := optionmap.New()
	server.Set("permitTimeRegulation", []string{"1"})

	d := Negotiate(client, server, Preferences{}, func() bool { return true })
	if !d.OK {
		t.Fatalf("expected success, got %v", d.Response)
	}
	values, ok := d.Response.Get("permitTimeRegulation")
	if !ok || values[0] != "1" {
		t.Fatalf("expected server base option to carry through, got %v", values)
	}
}
