/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package fdd1516 reads the attribute-based FDD XML dialect (spec §4.10):
// objectClass/attribute/interactionClass/parameter carry their name, order,
// transportation and dimensions directly as XML attributes rather than as
// child elements, unlike the 1516e dialect's verbose element-per-field form.
package fdd1516

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/openrti/rti/pkg/objectmodel"
	"github.com/openrti/rti/pkg/rtierr"
)

// mode mirrors the content handler's "poor man's schema checking": a stack
// of the element kinds currently open, used to reject a tag appearing
// somewhere it can't.
type mode int

const (
	modeUnknown mode = iota
	modeObjectModel
	modeObjects
	modeObjectClass
	modeAttribute
	modeInteractions
	modeInteractionClass
	modeParameter
	modeDimensions
	modeDimension
	modeTransportations
	modeTransportation
)

// Read parses an FDD1516-dialect XML document from r and returns the
// validated Module.
func Read(r io.Reader) (*objectmodel.Module, error) {
	dec := xml.NewDecoder(r)
	b := objectmodel.NewBuilder()
	var stack []mode

	current := func() mode {
		if len(stack) == 0 {
			return modeUnknown
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rtierr.NewConfigError("fdd1516: parsing XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "objectModel":
				if len(stack) != 0 {
					return nil, rtierr.NewConfigError("fdd1516: objectModel tag not at top level")
				}
				stack = append(stack, modeObjectModel)
			case "objects":
				if current() != modeObjectModel {
					return nil, rtierr.NewConfigError("fdd1516: objects tag outside objectModel")
				}
				stack = append(stack, modeObjects)
			case "interactions":
				if current() != modeObjectModel {
					return nil, rtierr.NewConfigError("fdd1516: interactions tag outside objectModel")
				}
				stack = append(stack, modeInteractions)
			case "dimensions":
				if current() != modeObjectModel {
					return nil, rtierr.NewConfigError("fdd1516: dimensions tag outside objectModel")
				}
				stack = append(stack, modeDimensions)
			case "transportations":
				if current() != modeObjectModel {
					return nil, rtierr.NewConfigError("fdd1516: transportations tag outside objectModel")
				}
				stack = append(stack, modeTransportations)

			case "objectClass":
				if current() != modeObjects && current() != modeObjectClass {
					return nil, rtierr.NewConfigError("fdd1516: objectClass tag outside objects or objectClass")
				}
				stack = append(stack, modeObjectClass)
				b.PushObjectClass(strings.TrimSpace(attrValue(t, "name")))

			case "attribute":
				if current() != modeObjectClass {
					return nil, rtierr.NewConfigError("fdd1516: attribute tag outside objectClass")
				}
				stack = append(stack, modeAttribute)
				b.AddAttribute(objectmodel.Attribute{
					Name:           strings.TrimSpace(attrValue(t, "name")),
					Order:          strings.TrimSpace(attrValue(t, "order")),
					Transportation: strings.TrimSpace(attrValue(t, "transportation")),
				})
				for _, d := range splitDimensionList(attrValue(t, "dimensions")) {
					b.AddDimensionToCurrentObjectClass(d)
				}

			case "interactionClass":
				if current() != modeInteractions && current() != modeInteractionClass {
					return nil, rtierr.NewConfigError("fdd1516: interactionClass tag outside interactions or interactionClass")
				}
				stack = append(stack, modeInteractionClass)
				b.PushInteractionClass(
					strings.TrimSpace(attrValue(t, "name")),
					strings.TrimSpace(attrValue(t, "order")),
					strings.TrimSpace(attrValue(t, "transportation")),
				)
				for _, d := range splitDimensionList(attrValue(t, "dimensions")) {
					b.AddDimensionToCurrentInteractionClass(d)
				}

			case "parameter":
				if current() != modeInteractionClass {
					return nil, rtierr.NewConfigError("fdd1516: parameter tag outside interactionClass")
				}
				stack = append(stack, modeParameter)
				b.AddParameter(objectmodel.Parameter{Name: strings.TrimSpace(attrValue(t, "name"))})

			case "dimension":
				if current() != modeDimensions {
					return nil, rtierr.NewConfigError("fdd1516: dimension tag outside dimensions")
				}
				stack = append(stack, modeDimension)
				upperBound, err := parseUpperBound(attrValue(t, "upperBound"))
				if err != nil {
					return nil, err
				}
				b.AddDimension(objectmodel.Dimension{
					Name:       strings.TrimSpace(attrValue(t, "name")),
					UpperBound: upperBound,
				})

			case "transportation":
				if current() != modeTransportations {
					return nil, rtierr.NewConfigError("fdd1516: transportation tag outside transportations")
				}
				stack = append(stack, modeTransportation)
				b.AddTransportationType(objectmodel.TransportationType{Name: strings.TrimSpace(attrValue(t, "name"))})

			default:
				stack = append(stack, modeUnknown)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "objectClass":
				b.PopObjectClass()
			case "interactionClass":
				b.PopInteractionClass()
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return b.Validate()
}

func attrValue(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// splitDimensionList splits a whitespace/comma separated dimensions
// attribute, dropping empty entries and the literal "NA" placeholder.
func splitDimensionList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || f == "NA" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func parseUpperBound(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, rtierr.NewConfigError("fdd1516: invalid upperBound %q: %v", raw, err)
	}
	return v, nil
}
