/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package rtiurl parses and renders the address strings spec §6.3 defines
// for naming a server: scheme://host[:service][/federation-name], with a
// small fixed set of schemes (rti, pipe, file, thread, trace, http) each
// carrying its own meaning for Host. Query and fragment are ordinary
// percent-encoded components, handled by net/url underneath.
package rtiurl

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/openrti/rti/pkg/rtierr"
)

// Scheme enumerates the address schemes spec §6.3 names.
type Scheme string

const (
	SchemeRTI    Scheme = "rti"
	SchemePipe   Scheme = "pipe"
	SchemeFile   Scheme = "file"
	SchemeThread Scheme = "thread"
	SchemeTrace  Scheme = "trace"
	SchemeHTTP   Scheme = "http"
)

// DefaultRTIPort is the default TCP port for the rti:// scheme.
const DefaultRTIPort = 14321

// DefaultPipePath is the default local-IPC path when pipe://, file://, and
// bare-path addresses omit one.
const DefaultPipePath = ".OpenRTI"

// Address is a parsed OpenRTI address: scheme, host-or-path (meaning
// depends on Scheme), optional numeric port, optional federation name, and
// the query/fragment components carried through unchanged.
type Address struct {
	Scheme          Scheme
	Host            string
	Port            int
	FederationName  string
	Query           url.Values
	Fragment        string
}

// Parse parses raw per spec §6.3. A bare path with no "scheme://" prefix
// is treated as SchemePipe with that path as Host, matching "pipe://path,
// file://path, or bare path — named-pipe equivalent".
func Parse(raw string) (*Address, error) {
	if !strings.Contains(raw, "://") {
		return &Address{Scheme: SchemePipe, Host: orDefault(raw, DefaultPipePath)}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, rtierr.NewConfigError("rtiurl: parsing %q: %v", raw, err)
	}

	scheme := Scheme(strings.ToLower(u.Scheme))
	switch scheme {
	case SchemeRTI, SchemePipe, SchemeFile, SchemeThread, SchemeTrace, SchemeHTTP:
	default:
		return nil, rtierr.NewConfigError("rtiurl: unknown scheme %q in %q", u.Scheme, raw)
	}

	addr := &Address{
		Scheme:   scheme,
		Query:    u.Query(),
		Fragment: u.Fragment,
	}

	// An authority-less payload (pipe://path, thread://name, trace://wrapped)
	// lands in u.Path, not u.Host; there is then no separate room for a
	// federation-name suffix on the same address.
	host := u.Host
	remainder := strings.TrimPrefix(u.Path, "/")
	if host == "" {
		host = remainder
		remainder = ""
	}

	switch scheme {
	case SchemeRTI:
		hostPart, portPart, err := splitHostPort(host)
		if err != nil {
			return nil, err
		}
		addr.Host = hostPart
		if portPart == "" {
			addr.Port = DefaultRTIPort
		} else {
			port, err := strconv.Atoi(portPart)
			if err != nil {
				return nil, rtierr.NewConfigError("rtiurl: invalid port %q in %q", portPart, raw)
			}
			addr.Port = port
		}
		addr.FederationName = remainder
	case SchemePipe, SchemeFile:
		addr.Host = orDefault(host, DefaultPipePath)
	default:
		addr.Host = host
	}

	return addr, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// splitHostPort separates host[:port], tolerating bracketed IPv6 literals
// ("[::1]:14321" or bare "[::1]") per spec §6.3.
func splitHostPort(hostport string) (host, port string, err error) {
	if hostport == "" {
		return "", "", nil
	}
	if strings.HasPrefix(hostport, "[") {
		end := strings.Index(hostport, "]")
		if end < 0 {
			return "", "", rtierr.NewConfigError("rtiurl: unterminated IPv6 literal in %q", hostport)
		}
		host = hostport[1:end]
		rest := hostport[end+1:]
		if strings.HasPrefix(rest, ":") {
			port = rest[1:]
		}
		return host, port, nil
	}
	if idx := strings.LastIndex(hostport, ":"); idx >= 0 {
		return hostport[:idx], hostport[idx+1:], nil
	}
	return hostport, "", nil
}

// String renders addr back into scheme://host[:port][/federation-name]
// form, percent-encoding the query/fragment the way they were decoded.
func (a *Address) String() string {
	var b strings.Builder
	b.WriteString(string(a.Scheme))
	b.WriteString("://")

	switch a.Scheme {
	case SchemeRTI:
		if strings.Contains(a.Host, ":") {
			b.WriteString("[" + a.Host + "]")
		} else {
			b.WriteString(a.Host)
		}
		if a.Port != 0 && a.Port != DefaultRTIPort {
			b.WriteString(":" + strconv.Itoa(a.Port))
		}
	default:
		b.WriteString(a.Host)
	}

	if a.FederationName != "" {
		b.WriteString("/" + a.FederationName)
	}
	if len(a.Query) > 0 {
		b.WriteString("?" + a.Query.Encode())
	}
	if a.Fragment != "" {
		b.WriteString("#" + url.PathEscape(a.Fragment))
	}
	return b.String()
}
