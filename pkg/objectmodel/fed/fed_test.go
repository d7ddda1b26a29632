/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package fed

import (
	"strings"
	"testing"
)

const sampleDoc = `
(FED
 (Federation Exercise)
 (FEDversion 1.3)
 (spaces
  (space Geo (dimension X) (dimension Y)))
 (objects
  (class ObjectRoot
   (attribute privilegeToDelete reliable receive)
   (class Vehicle
    (attribute Position reliable TimeStamp))))
 (interactions
  (class InteractionRoot reliable receive
   (class Fire reliable timestamp
    (parameter Target)))))
`

func TestReadBuildsTreeFromParentheses(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	var vehicle, root bool
	for _, c := range m.ObjectClasses {
		if c.Name == "Vehicle" {
			vehicle = true
		}
		if c.Name == "HLAobjectRoot" {
			root = true
		}
	}
	if !vehicle || !root {
		t.Fatalf("got object classes %+v", m.ObjectClasses)
	}
}

func TestReadNormalizesWellKnownNames(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range m.ObjectClasses {
		if c.Name == "HLAobjectRoot" {
			if len(c.Attributes) != 1 || c.Attributes[0].Name != "HLAprivilegeToDeleteObject" {
				t.Fatalf("got root attributes %+v", c.Attributes)
			}
		}
	}
}

func TestReadImplicitlyDeclaresTwoTransportationTypes(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Transportations) != 2 || m.Transportations[0].Name != "HLAreliable" || m.Transportations[1].Name != "HLAbestEffort" {
		t.Fatalf("got transportations %+v", m.Transportations)
	}
}

func TestReadNormalizesNonReceiveOrderTokensToTimeStamp(t *testing.T) {
	m, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range m.InteractionClasses {
		if c.Name == "Fire" {
			found = true
			if c.Order != "TimeStamp" {
				t.Fatalf("got order %q, want TimeStamp", c.Order)
			}
		}
	}
	if !found {
		t.Fatal("Fire interaction class not found")
	}
}

func TestReadOptionsStrictOrderTokensRejectsUnknownToken(t *testing.T) {
	doc := `(FED (FEDversion 1.3)
	 (interactions (class InteractionRoot reliable bogus)))`
	if _, err := ReadOptions(strings.NewReader(doc), Options{StrictOrderTokens: true}); err == nil {
		t.Fatal("expected an error for an unrecognized order token under StrictOrderTokens")
	}
}

func TestReadRejectsUnsupportedFEDVersion(t *testing.T) {
	doc := `(FED (FEDversion 2.0))`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for an unsupported FEDversion")
	}
}

func TestReadRejectsClassOutsideObjectsOrInteractions(t *testing.T) {
	doc := `(FED (class Bogus))`
	if _, err := Read(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for class outside objects/interactions")
	}
}
