/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package fdd1516

import (
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0"?>
<objectModel>
  <dimensions>
    <dimension name="Spatial" upperBound="65535"/>
  </dimensions>
  <transportations>
    <transportation name="HLAreliable"/>
    <transportation name="HLAbestEffort"/>
  </transportations>
  <objects>
    <objectClass name="Vehicle">
      <attribute name="Position" order="TimeStamp" transportation="HLAreliable" dimensions="Spatial"/>
      <objectClass name="Car">
        <attribute name="Speed" order="Receive" transportation="HLAbestEffort" dimensions="NA"/>
      </objectClass>
    </objectClass>
  </objects>
  <interactions>
    <interactionClass name="Fire" order="TimeStamp" transportation="HLAreliable">
      <parameter name="Target"/>
    </interactionClass>
  </interactions>
</objectModel>`

func TestReadBuildsInheritanceTree(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.ObjectClasses) != 3 {
		t.Fatalf("got %d object classes, want 3 (synthesized root + Vehicle + Car)", len(m.ObjectClasses))
	}
	var car *struct{ idx int }
	for i, c := range m.ObjectClasses {
		if c.Name == "Car" {
			car = &struct{ idx int }{i}
		}
	}
	if car == nil {
		t.Fatal("Car class not found")
	}
	vehicleIdx := m.ObjectClasses[car.idx].ParentIndex
	if m.ObjectClasses[vehicleIdx].Name != "Vehicle" {
		t.Fatalf("Car's parent is %q, want Vehicle", m.ObjectClasses[vehicleIdx].Name)
	}
}

func TestReadParsesAttributeDimensionsIgnoringNA(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range m.ObjectClasses {
		if c.Name != "Car" {
			continue
		}
		if len(c.Attributes) != 1 || len(c.Attributes[0].Dimensions) != 0 {
			t.Fatalf("got Car attributes %+v, want empty dimensions (NA dropped)", c.Attributes)
		}
	}
}

func TestReadParsesInteractionAndDimension(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Dimensions) != 1 || m.Dimensions[0].Name != "Spatial" || m.Dimensions[0].UpperBound != 65535 {
		t.Fatalf("got dimensions %+v", m.Dimensions)
	}
	found := false
	for _, c := range m.InteractionClasses {
		if c.Name == "Fire" {
			found = true
			if len(c.Parameters) != 1 || c.Parameters[0].Name != "Target" {
				t.Fatalf("got Fire parameters %+v", c.Parameters)
			}
		}
	}
	if !found {
		t.Fatal("Fire interaction class not found")
	}
}

func TestReadRejectsObjectClassOutsideObjects(t *testing.T) {
	doc := `<objectModel><objectClass name="Vehicle"/></objectModel>`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for objectClass outside objects/objectClass")
	}
}

func TestReadRejectsMisplacedObjectModelTag(t *testing.T) {
	doc := `<wrapper><objectModel/></wrapper>`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for objectModel not at top level")
	}
}

func TestReadRejectsAttributeOutsideObjectClass(t *testing.T) {
	doc := `<objectModel><objects><attribute name="x"/></objects></objectModel>`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for attribute outside objectClass")
	}
}
