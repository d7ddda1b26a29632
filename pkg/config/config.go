/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package config SAX-parses the OpenRTIServerConfig XML document (spec
// §4.11): the uplink address, the permitTimeRegulation and
// enableZLibCompression booleans, and the set of listener addresses.
package config

import (
	"encoding/xml"
	"io"

	"github.com/openrti/rti/pkg/rtierr"
	"github.com/openrti/rti/pkg/rtiurl"
)

// ServerConfig is the parsed result of an OpenRTIServerConfig document.
type ServerConfig struct {
	ParentServer         *rtiurl.Address
	PermitTimeRegulation bool
	EnableZLibCompression bool
	Listen               []*rtiurl.Address
}

// Read parses an OpenRTIServerConfig XML document from r.
func Read(r io.Reader) (*ServerConfig, error) {
	dec := xml.NewDecoder(r)
	cfg := &ServerConfig{}

	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rtierr.NewConfigError("config: parsing XML: %v", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !sawRoot {
			if start.Name.Local != "OpenRTIServerConfig" {
				return nil, rtierr.NewConfigError("config: expected root element OpenRTIServerConfig, got %q", start.Name.Local)
			}
			sawRoot = true
			continue
		}

		switch start.Name.Local {
		case "parentServer":
			raw, err := attr(start, "url")
			if err != nil {
				return nil, err
			}
			addr, err := rtiurl.Parse(raw)
			if err != nil {
				return nil, err
			}
			cfg.ParentServer = addr
		case "permitTimeRegulation":
			v, err := boolAttr(start, "enable")
			if err != nil {
				return nil, err
			}
			cfg.PermitTimeRegulation = v
		case "enableZLibCompression":
			v, err := boolAttr(start, "enable")
			if err != nil {
				return nil, err
			}
			cfg.EnableZLibCompression = v
		case "listen":
			raw, err := attr(start, "url")
			if err != nil {
				return nil, err
			}
			addr, err := rtiurl.Parse(raw)
			if err != nil {
				return nil, err
			}
			cfg.Listen = append(cfg.Listen, addr)
		default:
			return nil, rtierr.NewConfigError("config: unrecognized element %q", start.Name.Local)
		}
	}

	if !sawRoot {
		return nil, rtierr.NewConfigError("config: empty document, expected root element OpenRTIServerConfig")
	}
	return cfg, nil
}

func attr(start xml.StartElement, name string) (string, error) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, nil
		}
	}
	return "", rtierr.NewConfigError("config: <%s> missing required attribute %q", start.Name.Local, name)
}

// boolAttr implements spec §4.11's boolean parsing: first character of
// "1"/"0", "t"/"f", "T"/"F"; anything else is a configuration error.
func boolAttr(start xml.StartElement, name string) (bool, error) {
	raw, err := attr(start, name)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, rtierr.NewConfigError("config: <%s %s=\"\"> empty boolean attribute", start.Name.Local, name)
	}
	switch raw[0] {
	case '1', 't', 'T':
		return true, nil
	case '0', 'f', 'F':
		return false, nil
	default:
		return false, rtierr.NewConfigError("config: <%s %s=%q> not a recognized boolean", start.Name.Local, name, raw)
	}
}
