/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package fdd1516e

import (
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0"?>
<objectModel>
  <dimensions>
    <dimension>
      <name>Spatial</name>
      <upperBound>65535</upperBound>
    </dimension>
  </dimensions>
  <transportations>
    <transportation>
      <name>HLAreliable</name>
    </transportation>
  </transportations>
  <objects>
    <objectClass>
      <name>Vehicle</name>
      <attribute>
        <name>Position</name>
        <order>TimeStamp</order>
        <transportation>HLAreliable</transportation>
        <dimensions>
          <dimension>Spatial</dimension>
        </dimensions>
      </attribute>
    </objectClass>
  </objects>
  <interactions>
    <interactionClass>
      <name>Fire</name>
      <order>TimeStamp</order>
      <transportation>HLAreliable</transportation>
      <parameter>
        <name>Target</name>
      </parameter>
    </interactionClass>
  </interactions>
</objectModel>`

func TestReadBuildsObjectClassFromChildElements(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	var vehicle *struct {
		attrs []string
	}
	for _, c := range m.ObjectClasses {
		if c.Name == "Vehicle" {
			vehicle = &struct{ attrs []string }{nil}
			for _, a := range c.Attributes {
				vehicle.attrs = append(vehicle.attrs, a.Name)
			}
		}
	}
	if vehicle == nil {
		t.Fatal("Vehicle class not found")
	}
	if len(vehicle.attrs) != 1 || vehicle.attrs[0] != "Position" {
		t.Fatalf("got attributes %+v", vehicle.attrs)
	}
}

func TestReadFillsDimensionFromChildElements(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Dimensions) != 1 || m.Dimensions[0].Name != "Spatial" || m.Dimensions[0].UpperBound != 65535 {
		t.Fatalf("got dimensions %+v", m.Dimensions)
	}
}

func TestReadFillsTransportationFromChildElement(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Transportations) != 1 || m.Transportations[0].Name != "HLAreliable" {
		t.Fatalf("got transportations %+v", m.Transportations)
	}
}

func TestReadWiresAttributeDimensionReference(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range m.ObjectClasses {
		if c.Name != "Vehicle" {
			continue
		}
		if len(c.Attributes) != 1 || len(c.Attributes[0].Dimensions) != 1 || c.Attributes[0].Dimensions[0] != "Spatial" {
			t.Fatalf("got attribute %+v", c.Attributes[0])
		}
	}
}

func TestReadRejectsUpperBoundOutsideDimension(t *testing.T) {
	doc := `<objectModel><upperBound>5</upperBound></objectModel>`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for upperBound outside dimension")
	}
}

func TestReadRejectsInteractionClassOutsideInteractions(t *testing.T) {
	doc := `<objectModel><objects><interactionClass/></objects></objectModel>`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for interactionClass outside interactions")
	}
}
