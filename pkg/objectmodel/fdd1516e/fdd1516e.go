/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package fdd1516e reads the child-element FDD XML dialect (spec §4.10):
// unlike fdd1516's attribute-carrying tags, every field here (name,
// transportation, order, a dimension reference) is its own leaf element
// whose character data is the value, and context is resolved purely from
// a mode stack — "name" under an objectClass means the class's name, the
// same tag under an attribute means the attribute's name.
package fdd1516e

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/openrti/rti/pkg/objectmodel"
	"github.com/openrti/rti/pkg/rtierr"
)

type mode int

const (
	modeUnknown mode = iota
	modeObjectModel
	modeObjects
	modeInteractions
	modeDimensions
	modeTransportations

	modeObjectClass
	modeObjectClassName
	modeObjectClassAttribute
	modeObjectClassAttributeName
	modeObjectClassAttributeTransportation
	modeObjectClassAttributeOrder
	modeObjectClassAttributeDimensions
	modeObjectClassAttributeDimensionsDimension

	modeInteractionClass
	modeInteractionClassName
	modeInteractionClassTransportation
	modeInteractionClassOrder
	modeInteractionClassParameter
	modeInteractionClassParameterName
	modeInteractionClassDimensions
	modeInteractionClassDimensionsDimension

	modeDimensionsDimension
	modeDimensionsDimensionName
	modeDimensionsDimensionUpperBound

	modeTransportation
	modeTransportationName
)

// Read parses an FDD1516E-dialect XML document from r and returns the
// validated Module.
func Read(r io.Reader) (*objectmodel.Module, error) {
	dec := xml.NewDecoder(r)
	b := objectmodel.NewBuilder()
	var stack []mode
	var chars strings.Builder

	current := func() mode {
		if len(stack) == 0 {
			return modeUnknown
		}
		return stack[len(stack)-1]
	}
	push := func(m mode) { stack = append(stack, m) }

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rtierr.NewConfigError("fdd1516e: parsing XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			chars.Write(t)

		case xml.StartElement:
			chars.Reset()
			switch t.Name.Local {
			case "name":
				switch current() {
				case modeObjectClass:
					push(modeObjectClassName)
				case modeObjectClassAttribute:
					push(modeObjectClassAttributeName)
				case modeInteractionClass:
					push(modeInteractionClassName)
				case modeInteractionClassParameter:
					push(modeInteractionClassParameterName)
				case modeDimensionsDimension:
					push(modeDimensionsDimensionName)
				case modeTransportation:
					push(modeTransportationName)
				default:
					push(modeUnknown)
				}

			case "transportation":
				switch current() {
				case modeObjectClassAttribute:
					push(modeObjectClassAttributeTransportation)
				case modeInteractionClass:
					push(modeInteractionClassTransportation)
				case modeTransportations:
					push(modeTransportation)
					b.AddTransportationType(objectmodel.TransportationType{})
				default:
					push(modeUnknown)
				}

			case "order":
				switch current() {
				case modeObjectClassAttribute:
					push(modeObjectClassAttributeOrder)
				case modeInteractionClass:
					push(modeInteractionClassOrder)
				default:
					push(modeUnknown)
				}

			case "dimensions":
				switch current() {
				case modeObjectClassAttribute:
					push(modeObjectClassAttributeDimensions)
				case modeInteractionClass:
					push(modeInteractionClassDimensions)
				case modeObjectModel:
					push(modeDimensions)
				default:
					push(modeUnknown)
				}

			case "dimension":
				switch current() {
				case modeObjectClassAttributeDimensions:
					push(modeObjectClassAttributeDimensionsDimension)
				case modeInteractionClassDimensions:
					push(modeInteractionClassDimensionsDimension)
				case modeDimensions:
					push(modeDimensionsDimension)
					b.AddDimension(objectmodel.Dimension{})
				default:
					push(modeUnknown)
				}

			case "upperBound":
				if current() != modeDimensionsDimension {
					return nil, rtierr.NewConfigError("fdd1516e: upperBound tag outside dimension")
				}
				push(modeDimensionsDimensionUpperBound)

			case "objectModel":
				push(modeObjectModel)

			case "objects":
				if current() != modeObjectModel {
					return nil, rtierr.NewConfigError("fdd1516e: objects tag outside objectModel")
				}
				push(modeObjects)

			case "interactions":
				if current() != modeObjectModel {
					return nil, rtierr.NewConfigError("fdd1516e: interactions tag outside objectModel")
				}
				push(modeInteractions)

			case "transportations":
				if current() != modeObjectModel {
					return nil, rtierr.NewConfigError("fdd1516e: transportations tag outside objectModel")
				}
				push(modeTransportations)

			case "objectClass":
				if current() != modeObjects && current() != modeObjectClass {
					return nil, rtierr.NewConfigError("fdd1516e: objectClass tag outside objectClass or objects")
				}
				push(modeObjectClass)
				b.PushObjectClass("")

			case "attribute":
				if current() != modeObjectClass {
					return nil, rtierr.NewConfigError("fdd1516e: attribute tag outside objectClass")
				}
				push(modeObjectClassAttribute)
				b.AddAttribute(objectmodel.Attribute{})

			case "interactionClass":
				if current() != modeInteractions && current() != modeInteractionClass {
					return nil, rtierr.NewConfigError("fdd1516e: interactionClass tag outside interactionClass or interactions")
				}
				push(modeInteractionClass)
				b.PushInteractionClass("", "", "")

			case "parameter":
				if current() != modeInteractionClass {
					return nil, rtierr.NewConfigError("fdd1516e: parameter tag outside interactionClass")
				}
				push(modeInteractionClassParameter)
				b.AddParameter(objectmodel.Parameter{})

			default:
				push(modeUnknown)
			}

		case xml.EndElement:
			value := chars.String()
			chars.Reset()

			switch current() {
			case modeObjectClassName:
				if c := b.CurrentObjectClass(); c != nil {
					c.Name = value
				}
			case modeObjectClassAttributeName:
				setLastAttributeField(b, func(a *objectmodel.Attribute) { a.Name = value })
			case modeInteractionClassName:
				if c := b.CurrentInteractionClass(); c != nil {
					c.Name = value
				}
			case modeInteractionClassParameterName:
				setLastParameterField(b, func(p *objectmodel.Parameter) { p.Name = value })
			case modeObjectClassAttributeTransportation:
				setLastAttributeField(b, func(a *objectmodel.Attribute) { a.Transportation = value })
			case modeInteractionClassTransportation:
				if c := b.CurrentInteractionClass(); c != nil {
					c.Transportation = value
				}
			case modeObjectClassAttributeOrder:
				setLastAttributeField(b, func(a *objectmodel.Attribute) { a.Order = value })
			case modeInteractionClassOrder:
				if c := b.CurrentInteractionClass(); c != nil {
					c.Order = value
				}
			case modeObjectClassAttributeDimensionsDimension:
				b.AddDimensionToCurrentObjectClass(value)
			case modeInteractionClassDimensionsDimension:
				b.AddDimensionToCurrentInteractionClass(value)
			case modeDimensionsDimensionUpperBound:
				n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
				if err != nil {
					return nil, rtierr.NewConfigError("fdd1516e: invalid upperBound %q: %v", value, err)
				}
				setLastDimensionField(b, func(d *objectmodel.Dimension) { d.UpperBound = n })
			}

			switch t.Name.Local {
			case "objectClass":
				b.PopObjectClass()
			case "interactionClass":
				b.PopInteractionClass()
			case "name":
				switch current() {
				case modeDimensionsDimensionName:
					setLastDimensionField(b, func(d *objectmodel.Dimension) { d.Name = value })
				case modeTransportationName:
					setLastTransportationField(b, func(tt *objectmodel.TransportationType) { tt.Name = value })
				}
			}

			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return b.Validate()
}

func setLastAttributeField(b *objectmodel.Builder, set func(*objectmodel.Attribute)) {
	c := b.CurrentObjectClass()
	if c == nil || len(c.Attributes) == 0 {
		return
	}
	set(&c.Attributes[len(c.Attributes)-1])
}

func setLastParameterField(b *objectmodel.Builder, set func(*objectmodel.Parameter)) {
	c := b.CurrentInteractionClass()
	if c == nil || len(c.Parameters) == 0 {
		return
	}
	set(&c.Parameters[len(c.Parameters)-1])
}

func setLastDimensionField(b *objectmodel.Builder, set func(*objectmodel.Dimension)) {
	d := b.LastDimension()
	if d == nil {
		return
	}
	set(d)
}

func setLastTransportationField(b *objectmodel.Builder, set func(*objectmodel.TransportationType)) {
	t := b.LastTransportationType()
	if t == nil {
		return
	}
	set(t)
}
