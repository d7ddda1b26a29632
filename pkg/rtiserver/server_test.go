/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package rtiserver

import (
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/openrti/rti/pkg/dispatcher"
	"github.com/openrti/rti/pkg/handshake"
	"github.com/openrti/rti/pkg/optionmap"
	"github.com/openrti/rti/pkg/rtiurl"
	"github.com/openrti/rti/pkg/servernode"
	"github.com/openrti/rti/pkg/wireformat"
)

// fakeNode is a minimal servernode.ServerNode: it records every inserted
// connection's options and always accepts, so tests can assert the accept
// path reached insert_connect with the negotiated encoding/compression.
type fakeNode struct {
	running  bool
	inserted []map[string][]string
}

func (n *fakeNode) InsertConnect(sender servernode.Sender, options map[string][]string) (servernode.Sender, error) {
	n.inserted = append(n.inserted, options)
	return discardSender{}, nil
}

func (n *fakeNode) InsertParentConnect(sender servernode.Sender, options map[string][]string) (servernode.Sender, error) {
	return n.InsertConnect(sender, options)
}

func (n *fakeNode) ServerOptions() (map[string][]string, servernode.Options) {
	return map[string][]string{}, servernode.Options{}
}

func (n *fakeNode) IsRunning() bool { return n.running }

func (n *fakeNode) FederationRPC(name string, args wireformat.Message) (wireformat.Message, error) {
	return nil, nil
}

type discardSender struct{}

func (discardSender) Receive(m wireformat.Message) {}

func TestServerAcceptsConnectionAndNegotiates(t *testing.T) {
	node := &fakeNode{running: true}
	d, err := dispatcher.New()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	s := New(d, node, wireformat.DefaultRegistry())
	if err := s.Listen(&rtiurl.Address{Scheme: rtiurl.SchemeRTI, Host: "127.0.0.1", Port: 0}); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	addr := s.listeners[0].ln.Addr().(*net.TCPAddr)
	host := "127.0.0.1:" + strconv.Itoa(addr.Port)

	client, err := net.Dial("tcp", host)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	clientOpts := optionmap.New()
	clientOpts.Set("version", []string{"8"})
	clientOpts.Set("encoding", []string{"TightBE1"})
	if _, err := client.Write(handshake.EncodeEnvelope(clientOpts)); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(node.inserted) == 0 && time.Now().Before(deadline) {
		if err := d.Exec(time.Now().Add(50 * time.Millisecond)); err != nil {
			t.Fatal(err)
		}
	}

	header := make([]byte, 12)
	if _, err := readFull(client, header); err != nil {
		t.Fatal(err)
	}
	bodyLen, err := handshake.DecodeHeader(header)
	if err != nil {
		t.Fatal(err)
	}
	body := make([]byte, bodyLen)
	if _, err := readFull(client, body); err != nil {
		t.Fatal(err)
	}
	resp, err := handshake.DecodeBody(body)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := resp.Get("encoding"); len(v) != 1 || v[0] != "TightBE1" {
		t.Fatalf("got encoding response %+v", v)
	}

	if len(node.inserted) != 1 {
		t.Fatalf("expected exactly one insert_connect call, got %d", len(node.inserted))
	}
	if enc := node.inserted[0]["encoding"]; len(enc) != 1 || enc[0] != "TightBE1" {
		t.Fatalf("got inserted options %+v", node.inserted[0])
	}
}

func TestDialNetworkRejectsUnsupportedScheme(t *testing.T) {
	_, _, err := dialNetwork(&rtiurl.Address{Scheme: rtiurl.SchemeThread, Host: "x"})
	if err == nil {
		t.Fatal("expected an error for the thread:// scheme")
	}
	if !strings.Contains(err.Error(), "thread") {
		t.Fatalf("got error %v", err)
	}
}

func readFull(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
