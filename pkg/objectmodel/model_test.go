/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package objectmodel

import "testing"

func TestValidateSynthesizesRoots(t *testing.T) {
	b := NewBuilder()
	b.PushObjectClass("Vehicle")
	b.AddAttribute(Attribute{Name: "Position"})
	b.PopObjectClass()

	m, err := b.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if len(m.ObjectClasses) != 2 {
		t.Fatalf("got %d object classes, want 2 (synthesized root + Vehicle)", len(m.ObjectClasses))
	}
	if m.ObjectClasses[0].Name != RootObjectClassName || m.ObjectClasses[0].ParentIndex != -1 {
		t.Fatalf("got root %+v", m.ObjectClasses[0])
	}
	if m.ObjectClasses[1].ParentIndex != 0 || m.ObjectClasses[1].FQName != "HLAobjectRoot.Vehicle" {
		t.Fatalf("got %+v", m.ObjectClasses[1])
	}
}

func TestValidateForcesPrivilegeToDeleteAttribute(t *testing.T) {
	b := NewBuilder()
	m, err := b.Validate()
	if err != nil {
		t.Fatal(err)
	}
	root := m.ObjectClasses[0]
	if len(root.Attributes) != 1 || root.Attributes[0].Name != PrivilegeToDeleteName {
		t.Fatalf("got root attributes %+v", root.Attributes)
	}
}

func TestValidatePreservesExistingPrivilegeToDeleteSettings(t *testing.T) {
	b := NewBuilder()
	b.PushObjectClass(RootObjectClassName)
	b.AddAttribute(Attribute{Name: PrivilegeToDeleteName, Order: "TimeStamp"})
	b.PopObjectClass()

	m, err := b.Validate()
	if err != nil {
		t.Fatal(err)
	}
	root := m.ObjectClasses[0]
	if len(root.Attributes) != 1 || root.Attributes[0].Order != "TimeStamp" {
		t.Fatalf("got root attributes %+v, want order preserved", root.Attributes)
	}
}

func TestValidateDoesNotDoubleSynthesizeExistingRoot(t *testing.T) {
	b := NewBuilder()
	b.PushObjectClass(RootObjectClassName)
	b.PushObjectClass("Vehicle")
	b.PopObjectClass()
	b.PopObjectClass()

	m, err := b.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if len(m.ObjectClasses) != 2 {
		t.Fatalf("got %d object classes, want 2 (no extra root)", len(m.ObjectClasses))
	}
}

func TestValidateRejectsDuplicateObjectClassNames(t *testing.T) {
	b := NewBuilder()
	b.PushObjectClass("Vehicle")
	b.PopObjectClass()
	b.PushObjectClass("Vehicle")
	b.PopObjectClass()

	if _, err := b.Validate(); err == nil {
		t.Fatal("expected a duplicate-name error")
	}
}

func TestValidateRejectsUndeclaredDimension(t *testing.T) {
	b := NewBuilder()
	b.PushObjectClass("Vehicle")
	b.AddAttribute(Attribute{Name: "Position"})
	b.AddDimensionToCurrentObjectClass("Spatial")
	b.PopObjectClass()

	if _, err := b.Validate(); err == nil {
		t.Fatal("expected an undeclared-dimension error")
	}
}

func TestValidateAcceptsDeclaredDimension(t *testing.T) {
	b := NewBuilder()
	b.AddDimension(Dimension{Name: "Spatial", UpperBound: 100})
	b.PushObjectClass("Vehicle")
	b.AddAttribute(Attribute{Name: "Position"})
	b.AddDimensionToCurrentObjectClass("Spatial")
	b.PopObjectClass()

	if _, err := b.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejectsDuplicateTransportationName(t *testing.T) {
	b := NewBuilder()
	b.AddTransportationType(TransportationType{Name: "HLAreliable"})
	b.AddTransportationType(TransportationType{Name: "HLAreliable"})

	if _, err := b.Validate(); err == nil {
		t.Fatal("expected a duplicate-transportation error")
	}
}

func TestValidateRejectsDuplicateDimensionName(t *testing.T) {
	b := NewBuilder()
	b.AddDimension(Dimension{Name: "Spatial"})
	b.AddDimension(Dimension{Name: "Spatial"})

	if _, err := b.Validate(); err == nil {
		t.Fatal("expected a duplicate-dimension error")
	}
}

func TestValidateRejectsAttributeNameRepeatedAlongAncestry(t *testing.T) {
	b := NewBuilder()
	b.PushObjectClass("Vehicle")
	b.AddAttribute(Attribute{Name: "Position"})
	b.PushObjectClass("Car")
	b.AddAttribute(Attribute{Name: "Position"})
	b.PopObjectClass()
	b.PopObjectClass()

	if _, err := b.Validate(); err == nil {
		t.Fatal("expected an attribute-repeated-along-ancestry error")
	}
}

func TestValidateRejectsParameterNameRepeatedAlongAncestry(t *testing.T) {
	b := NewBuilder()
	b.PushInteractionClass("Fire", "TimeStamp", "HLAreliable")
	b.AddParameter(Parameter{Name: "Target"})
	b.PushInteractionClass("FireGuided", "TimeStamp", "HLAreliable")
	b.AddParameter(Parameter{Name: "Target"})
	b.PopInteractionClass()
	b.PopInteractionClass()

	if _, err := b.Validate(); err == nil {
		t.Fatal("expected a parameter-repeated-along-ancestry error")
	}
}

func TestValidateFullyQualifiesInteractionClassNames(t *testing.T) {
	b := NewBuilder()
	b.PushInteractionClass("Fire", "TimeStamp", "HLAreliable")
	b.PushInteractionClass("FireGuided", "TimeStamp", "HLAreliable")
	b.PopInteractionClass()
	b.PopInteractionClass()

	m, err := b.Validate()
	if err != nil {
		t.Fatal(err)
	}
	want := "HLAinteractionRoot.Fire.FireGuided"
	got := m.InteractionClasses[2].FQName
	if got != want {
		t.Fatalf("got FQName %q, want %q", got, want)
	}
}
