/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package objectmodel defines the canonical, dialect-independent object-model
// module record every FDD/FED reader (pkg/objectmodel/fdd1516,
// pkg/objectmodel/fdd1516e, pkg/objectmodel/fed) builds into, plus the
// shared Builder that performs validate()'s invariant checks (spec §4.10)
// regardless of which dialect produced the raw class tree.
package objectmodel

import (
	"strings"

	"github.com/openrti/rti/pkg/rtierr"
)

// RootObjectClassName and RootInteractionClassName are the two roots every
// module ends up with, synthesized if the source file didn't declare one
// itself (spec §4.10 rule 5).
const (
	RootObjectClassName      = "HLAobjectRoot"
	RootInteractionClassName = "HLAinteractionRoot"
	PrivilegeToDeleteName    = "HLAprivilegeToDeleteObject"
)

// Dimension is a named update-rate dimension with an upper bound.
type Dimension struct {
	Name       string
	UpperBound uint64
}

// TransportationType is a named transportation kind (HLAreliable,
// HLAbestEffort, or a module-defined extension).
type TransportationType struct {
	Name string
}

// Attribute is one object class's attribute: its own name plus its
// transportation/order and declared dimensions.
type Attribute struct {
	Name           string
	Order          string
	Transportation string
	Dimensions     []string
}

// Parameter is one interaction class's parameter: only a name.
type Parameter struct {
	Name string
}

// ObjectClass is one node of the object-class inheritance tree. ParentIndex
// is -1 for a root; Name is this node's own single-token name. FQName is
// filled in by Validate once the final tree (including any synthesized
// root) is known — it is empty on a class fresh out of a Builder.
type ObjectClass struct {
	Name        string
	ParentIndex int
	Attributes  []Attribute
	FQName      string
}

// InteractionClass is one node of the interaction-class inheritance tree.
type InteractionClass struct {
	Name           string
	ParentIndex    int
	Order          string
	Transportation string
	Dimensions     []string
	Parameters     []Parameter
	FQName         string
}

// Module is the validated canonical record spec §3 names "object-model
// module": ordered object/interaction class lists (indices double as
// handles, parent-pointers reference earlier indices), declared dimensions,
// and declared transportation types.
type Module struct {
	ObjectClasses      []ObjectClass
	InteractionClasses []InteractionClass
	Dimensions         []Dimension
	Transportations    []TransportationType
}

// Builder accumulates a Module while a dialect-specific reader walks its
// source document, maintaining the "stacks of the currently open
// object-class and interaction-class indices" spec §4.10 describes:
// PushObjectClass/PushInteractionClass open a new record whose parent is
// the current top of stack, Pop* leaves it.
type Builder struct {
	module Module

	objectStack      []int
	interactionStack []int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// PushObjectClass opens a new object class named name, child of whichever
// object class is currently on top of the stack (or a root if the stack is
// empty), and returns its index.
func (b *Builder) PushObjectClass(name string) int {
	parent := -1
	if len(b.objectStack) > 0 {
		parent = b.objectStack[len(b.objectStack)-1]
	}
	idx := len(b.module.ObjectClasses)
	b.module.ObjectClasses = append(b.module.ObjectClasses, ObjectClass{
		Name:        name,
		ParentIndex: parent,
	})
	b.objectStack = append(b.objectStack, idx)
	return idx
}

// PopObjectClass leaves the currently open object class.
func (b *Builder) PopObjectClass() {
	if len(b.objectStack) > 0 {
		b.objectStack = b.objectStack[:len(b.objectStack)-1]
	}
}

// CurrentObjectClass returns a pointer to the object class on top of the
// stack, or nil if none is open.
func (b *Builder) CurrentObjectClass() *ObjectClass {
	if len(b.objectStack) == 0 {
		return nil
	}
	return &b.module.ObjectClasses[b.objectStack[len(b.objectStack)-1]]
}

// AddAttribute appends attr to the object class currently on top of the
// stack.
func (b *Builder) AddAttribute(attr Attribute) {
	c := b.CurrentObjectClass()
	if c == nil {
		return
	}
	c.Attributes = append(c.Attributes, attr)
}

// PushInteractionClass opens a new interaction class, symmetric with
// PushObjectClass.
func (b *Builder) PushInteractionClass(name, order, transportation string) int {
	parent := -1
	if len(b.interactionStack) > 0 {
		parent = b.interactionStack[len(b.interactionStack)-1]
	}
	idx := len(b.module.InteractionClasses)
	b.module.InteractionClasses = append(b.module.InteractionClasses, InteractionClass{
		Name:           name,
		ParentIndex:    parent,
		Order:          order,
		Transportation: transportation,
	})
	b.interactionStack = append(b.interactionStack, idx)
	return idx
}

// PopInteractionClass leaves the currently open interaction class.
func (b *Builder) PopInteractionClass() {
	if len(b.interactionStack) > 0 {
		b.interactionStack = b.interactionStack[:len(b.interactionStack)-1]
	}
}

// CurrentInteractionClass returns a pointer to the interaction class on top
// of the stack, or nil if none is open.
func (b *Builder) CurrentInteractionClass() *InteractionClass {
	if len(b.interactionStack) == 0 {
		return nil
	}
	return &b.module.InteractionClasses[b.interactionStack[len(b.interactionStack)-1]]
}

// AddParameter appends p to the interaction class currently on top of the
// stack.
func (b *Builder) AddParameter(p Parameter) {
	c := b.CurrentInteractionClass()
	if c == nil {
		return
	}
	c.Parameters = append(c.Parameters, p)
}

// AddDimensionToCurrentObjectClass records a dimension name reference on
// the top-of-stack object class's current attribute (the last one added).
func (b *Builder) AddDimensionToCurrentObjectClass(dimension string) {
	c := b.CurrentObjectClass()
	if c == nil || len(c.Attributes) == 0 {
		return
	}
	a := &c.Attributes[len(c.Attributes)-1]
	a.Dimensions = append(a.Dimensions, dimension)
}

// AddDimensionToCurrentInteractionClass records a dimension name reference
// on the top-of-stack interaction class.
func (b *Builder) AddDimensionToCurrentInteractionClass(dimension string) {
	c := b.CurrentInteractionClass()
	if c == nil {
		return
	}
	c.Dimensions = append(c.Dimensions, dimension)
}

// AddDimension declares a module-level dimension.
func (b *Builder) AddDimension(d Dimension) {
	b.module.Dimensions = append(b.module.Dimensions, d)
}

// AddTransportationType declares a module-level transportation type.
func (b *Builder) AddTransportationType(t TransportationType) {
	b.module.Transportations = append(b.module.Transportations, t)
}

// LastDimension returns a pointer to the most recently added dimension, or
// nil if none has been added yet. Dialect readers that build a dimension's
// name and upper bound from separate child elements (fdd1516e) use this to
// fill in the placeholder AddDimension left open.
func (b *Builder) LastDimension() *Dimension {
	if len(b.module.Dimensions) == 0 {
		return nil
	}
	return &b.module.Dimensions[len(b.module.Dimensions)-1]
}

// LastTransportationType is the transportation-type analogue of
// LastDimension.
func (b *Builder) LastTransportationType() *TransportationType {
	if len(b.module.Transportations) == 0 {
		return nil
	}
	return &b.module.Transportations[len(b.module.Transportations)-1]
}

// Validate runs spec §4.10's seven validate() rules over the accumulated
// Module and returns it, or the first violated invariant as a
// *rtierr.ConfigError.
func (b *Builder) Validate() (*Module, error) {
	m := &b.module

	// Rule 5: synthesize HLAinteractionRoot/HLAobjectRoot at position 0 if
	// absent, prepending the synthesized name to every other class's chain.
	synthesizeInteractionRoot(&m.InteractionClasses)
	synthesizeObjectRoot(&m.ObjectClasses)

	// Rule 6: HLAobjectRoot's attribute list is forced to contain exactly
	// HLAprivilegeToDeleteObject, preserving any prior settings.
	if len(m.ObjectClasses) > 0 {
		root := &m.ObjectClasses[0]
		var existing *Attribute
		for i := range root.Attributes {
			if root.Attributes[i].Name == PrivilegeToDeleteName {
				existing = &root.Attributes[i]
				break
			}
		}
		if existing != nil {
			root.Attributes = []Attribute{*existing}
		} else {
			root.Attributes = []Attribute{{Name: PrivilegeToDeleteName}}
		}
	}

	// Rule 1: concatenate each class's own name with its ancestor chain into
	// FQName, then require uniqueness within kind.
	fillObjectFQNames(m.ObjectClasses)
	fillInteractionFQNames(m.InteractionClasses)
	if err := checkUniqueObjectNames(m.ObjectClasses); err != nil {
		return nil, err
	}
	if err := checkUniqueInteractionNames(m.InteractionClasses); err != nil {
		return nil, err
	}

	// Rule 2: non-empty transportation names, unique across the module.
	seenTransport := make(map[string]bool)
	for _, t := range m.Transportations {
		if t.Name == "" {
			return nil, rtierr.NewConfigError("objectmodel: empty transportation name")
		}
		if seenTransport[t.Name] {
			return nil, rtierr.NewConfigError("objectmodel: duplicate transportation name %q", t.Name)
		}
		seenTransport[t.Name] = true
	}

	// Rule 3: non-empty dimension names, unique across the module.
	seenDimension := make(map[string]bool)
	for _, d := range m.Dimensions {
		if d.Name == "" {
			return nil, rtierr.NewConfigError("objectmodel: empty dimension name")
		}
		if seenDimension[d.Name] {
			return nil, rtierr.NewConfigError("objectmodel: duplicate dimension name %q", d.Name)
		}
		seenDimension[d.Name] = true
	}

	// Rule 4: every referenced dimension must be declared.
	for _, c := range m.ObjectClasses {
		for _, a := range c.Attributes {
			for _, d := range a.Dimensions {
				if !seenDimension[d] {
					return nil, rtierr.NewConfigError("objectmodel: object class %q attribute %q references undeclared dimension %q", c.FQName, a.Name, d)
				}
			}
		}
	}
	for _, c := range m.InteractionClasses {
		for _, d := range c.Dimensions {
			if !seenDimension[d] {
				return nil, rtierr.NewConfigError("objectmodel: interaction class %q references undeclared dimension %q", c.FQName, d)
			}
		}
	}

	// Rule 7: attribute/parameter names unique across a class and its
	// ancestors.
	if err := checkUniqueAttributes(m.ObjectClasses); err != nil {
		return nil, err
	}
	if err := checkUniqueParameters(m.InteractionClasses); err != nil {
		return nil, err
	}

	return m, nil
}

// synthesizeObjectRoot implements rule 5 for object classes: if there is no
// class named exactly HLAobjectRoot at position 0, one is synthesized and
// prepended, and every pre-existing root-level class (ParentIndex == -1)
// becomes its child.
func synthesizeObjectRoot(classes *[]ObjectClass) {
	if len(*classes) > 0 && (*classes)[0].ParentIndex == -1 && (*classes)[0].Name == RootObjectClassName {
		return
	}
	root := ObjectClass{Name: RootObjectClassName, ParentIndex: -1}
	shifted := make([]ObjectClass, 0, len(*classes)+1)
	shifted = append(shifted, root)
	for _, c := range *classes {
		if c.ParentIndex == -1 {
			c.ParentIndex = 0
		} else {
			c.ParentIndex++
		}
		shifted = append(shifted, c)
	}
	*classes = shifted
}

// synthesizeInteractionRoot is the interaction-class analogue of
// synthesizeObjectRoot.
func synthesizeInteractionRoot(classes *[]InteractionClass) {
	if len(*classes) > 0 && (*classes)[0].ParentIndex == -1 && (*classes)[0].Name == RootInteractionClassName {
		return
	}
	root := InteractionClass{Name: RootInteractionClassName, ParentIndex: -1}
	shifted := make([]InteractionClass, 0, len(*classes)+1)
	shifted = append(shifted, root)
	for _, c := range *classes {
		if c.ParentIndex == -1 {
			c.ParentIndex = 0
		} else {
			c.ParentIndex++
		}
		shifted = append(shifted, c)
	}
	*classes = shifted
}

// fillObjectFQNames sets each class's FQName to its own Name concatenated
// with the chain of ancestor names (rule 1).
func fillObjectFQNames(classes []ObjectClass) {
	for i := range classes {
		var parts []string
		idx := i
		for idx != -1 {
			parts = append([]string{classes[idx].Name}, parts...)
			idx = classes[idx].ParentIndex
		}
		classes[i].FQName = strings.Join(parts, ".")
	}
}

// fillInteractionFQNames is the interaction-class analogue of
// fillObjectFQNames.
func fillInteractionFQNames(classes []InteractionClass) {
	for i := range classes {
		var parts []string
		idx := i
		for idx != -1 {
			parts = append([]string{classes[idx].Name}, parts...)
			idx = classes[idx].ParentIndex
		}
		classes[i].FQName = strings.Join(parts, ".")
	}
}

func checkUniqueObjectNames(classes []ObjectClass) error {
	seen := make(map[string]bool, len(classes))
	for _, c := range classes {
		if seen[c.FQName] {
			return rtierr.NewConfigError("objectmodel: duplicate object class name %q", c.FQName)
		}
		seen[c.FQName] = true
	}
	return nil
}

func checkUniqueInteractionNames(classes []InteractionClass) error {
	seen := make(map[string]bool, len(classes))
	for _, c := range classes {
		if seen[c.FQName] {
			return rtierr.NewConfigError("objectmodel: duplicate interaction class name %q", c.FQName)
		}
		seen[c.FQName] = true
	}
	return nil
}

// checkUniqueAttributes implements rule 7 for object classes: every
// attribute name must be unique across a class and its ancestor chain.
func checkUniqueAttributes(classes []ObjectClass) error {
	for i := range classes {
		seen := make(map[string]bool)
		idx := i
		for idx != -1 {
			for _, a := range classes[idx].Attributes {
				if seen[a.Name] {
					return rtierr.NewConfigError("objectmodel: attribute %q repeated along the inheritance chain of %q", a.Name, classes[i].FQName)
				}
				seen[a.Name] = true
			}
			idx = classes[idx].ParentIndex
		}
	}
	return nil
}

// checkUniqueParameters is the interaction-class analogue of
// checkUniqueAttributes.
func checkUniqueParameters(classes []InteractionClass) error {
	for i := range classes {
		seen := make(map[string]bool)
		idx := i
		for idx != -1 {
			for _, p := range classes[idx].Parameters {
				if seen[p.Name] {
					return rtierr.NewConfigError("objectmodel: parameter %q repeated along the inheritance chain of %q", p.Name, classes[i].FQName)
				}
				seen[p.Name] = true
			}
			idx = classes[idx].ParentIndex
		}
	}
	return nil
}
