/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

// Package fed reads the legacy FED dialect (spec §4.10): a parenthesized
// s-expression grammar, e.g. "(FED (Federation Exercise) (FEDversion 1.3)
// (objects (class ObjectRoot (attribute privilegeToDelete reliable
// TimeStamp))))". Two transportation types, reliable and best_effort, are
// implicitly declared before the document is read; every object/interaction
// class/attribute/parameter name and transportation/order token passes
// through the same normalization the source applies.
package fed

import (
	"io"

	"github.com/openrti/rti/pkg/objectmodel"
	"github.com/openrti/rti/pkg/rtierr"
)

type mode int

const (
	modeUnknown mode = iota
	modeFED
	modeFederation
	modeFEDversion
	modeSpaces
	modeSpace
	modeDimension
	modeObjects
	modeObjectClass
	modeAttribute
	modeInteractions
	modeInteractionClass
	modeParameter
)

// Options controls reader behavior not pinned down by the grammar itself.
type Options struct {
	// StrictOrderTokens rejects any order token other than "receive" or
	// "timestamp" instead of silently normalizing it to TimeStamp (the default, matching the
	// source's documented "probably safer" legacy behavior).
	StrictOrderTokens bool
}

// Read parses FED-dialect source from r using default Options.
func Read(r io.Reader) (*objectmodel.Module, error) {
	return ReadOptions(r, Options{})
}

// ReadOptions is Read with explicit Options.
func ReadOptions(r io.Reader, opts Options) (*objectmodel.Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, rtierr.NewConfigError("fed: reading source: %v", err)
	}
	toks, err := tokenize(string(data))
	if err != nil {
		return nil, err
	}

	rd := &reader{toks: toks, opts: opts, b: objectmodel.NewBuilder()}
	rd.b.AddTransportationType(objectmodel.TransportationType{Name: rd.normalizeTransportationType("reliable")})
	rd.b.AddTransportationType(objectmodel.TransportationType{Name: rd.normalizeTransportationType("best_effort")})

	if err := rd.parseGroup(); err != nil {
		return nil, err
	}
	if rd.pos != len(rd.toks) {
		return nil, rtierr.NewConfigError("fed: trailing tokens after top-level group")
	}
	return rd.b.Validate()
}

type reader struct {
	toks  []lexToken
	pos   int
	opts  Options
	stack []mode
	b     *objectmodel.Builder
}

func (r *reader) current() mode {
	if len(r.stack) == 0 {
		return modeUnknown
	}
	return r.stack[len(r.stack)-1]
}

func (r *reader) peek() (lexToken, bool) {
	if r.pos >= len(r.toks) {
		return lexToken{}, false
	}
	return r.toks[r.pos], true
}

// parseGroup consumes one "(" token0 token1 ... (nested groups)* ")" form,
// dispatching startElement with the bare tokens of this level and
// recursing into any nested groups before calling endElement.
func (r *reader) parseGroup() error {
	tok, ok := r.peek()
	if !ok || !tok.isOpen {
		return rtierr.NewConfigError("fed: expected '(' at token %d", r.pos)
	}
	r.pos++

	var tokens []string
	for {
		tok, ok := r.peek()
		if !ok {
			return rtierr.NewConfigError("fed: unterminated group")
		}
		if tok.isOpen || tok.isClose {
			break
		}
		tokens = append(tokens, tok.text)
		r.pos++
	}

	if err := r.startElement(tokens); err != nil {
		return err
	}

	for {
		tok, ok := r.peek()
		if !ok {
			return rtierr.NewConfigError("fed: unterminated group")
		}
		if !tok.isOpen {
			break
		}
		if err := r.parseGroup(); err != nil {
			return err
		}
	}

	tok, ok = r.peek()
	if !ok || !tok.isClose {
		return rtierr.NewConfigError("fed: expected ')' at token %d", r.pos)
	}
	r.pos++

	r.endElement()
	return nil
}

func (r *reader) startElement(tokens []string) error {
	if len(tokens) == 0 {
		return rtierr.NewConfigError("fed: empty group")
	}
	t0 := tokens[0]

	switch {
	case caseCompare(t0, "FED"):
		if r.current() != modeUnknown {
			return rtierr.NewConfigError("fed: FED token is not at top level")
		}
		if len(tokens) > 1 {
			return rtierr.NewConfigError("fed: FED contains too many tokens")
		}
		r.stack = append(r.stack, modeFED)

	case caseCompare(t0, "Federation"):
		if r.current() != modeFED {
			return rtierr.NewConfigError("fed: Federation token is not under the FED level")
		}
		if len(tokens) < 2 || len(tokens) > 2 {
			return rtierr.NewConfigError("fed: Federation must carry exactly one name token")
		}
		r.stack = append(r.stack, modeFederation)

	case caseCompare(t0, "FEDversion"):
		if r.current() != modeFED {
			return rtierr.NewConfigError("fed: FEDversion token is not under the FED level")
		}
		if len(tokens) != 2 {
			return rtierr.NewConfigError("fed: FEDversion must carry exactly one version token")
		}
		v := tokens[1]
		if v != "1.3" && !caseCompare(v, "v1.3") && v != "1_3" && !caseCompare(v, "v1_3") {
			return rtierr.NewConfigError("fed: FEDversion %q is not supported", v)
		}
		r.stack = append(r.stack, modeFEDversion)

	case caseCompare(t0, "spaces"):
		if r.current() != modeFED {
			return rtierr.NewConfigError("fed: spaces token is not under the FED level")
		}
		if len(tokens) > 1 {
			return rtierr.NewConfigError("fed: spaces contains too many tokens")
		}
		r.stack = append(r.stack, modeSpaces)

	case caseCompare(t0, "space"):
		if r.current() != modeSpaces {
			return rtierr.NewConfigError("fed: space token is not under the spaces level")
		}
		if len(tokens) != 2 {
			return rtierr.NewConfigError("fed: space must carry exactly one name token")
		}
		r.stack = append(r.stack, modeSpace)

	case caseCompare(t0, "dimension"):
		if r.current() != modeSpace {
			return rtierr.NewConfigError("fed: dimension token is not under the space level")
		}
		if len(tokens) != 2 {
			return rtierr.NewConfigError("fed: dimension must carry exactly one name token")
		}
		r.b.AddDimension(objectmodel.Dimension{Name: tokens[1]})
		r.stack = append(r.stack, modeDimension)

	case caseCompare(t0, "objects"):
		if r.current() != modeFED {
			return rtierr.NewConfigError("fed: objects token is not under the FED level")
		}
		if len(tokens) > 1 {
			return rtierr.NewConfigError("fed: objects contains too many tokens")
		}
		r.stack = append(r.stack, modeObjects)

	case caseCompare(t0, "interactions"):
		if r.current() != modeFED {
			return rtierr.NewConfigError("fed: interactions token is not under the FED level")
		}
		if len(tokens) > 1 {
			return rtierr.NewConfigError("fed: interactions contains too many tokens")
		}
		r.stack = append(r.stack, modeInteractions)

	case caseCompare(t0, "class"):
		cur := r.current()
		switch cur {
		case modeObjects, modeObjectClass:
			if len(tokens) != 2 {
				return rtierr.NewConfigError("fed: object class must carry exactly one name token")
			}
			r.b.PushObjectClass(r.normalizeObjectClassName(tokens[1]))
			r.stack = append(r.stack, modeObjectClass)
		case modeInteractions, modeInteractionClass:
			if len(tokens) < 4 || len(tokens) > 5 {
				return rtierr.NewConfigError("fed: interaction class must carry name, transportation and order tokens")
			}
			order, err := r.normalizeOrderType(tokens[3])
			if err != nil {
				return err
			}
			r.b.PushInteractionClass(r.normalizeInteractionClassName(tokens[1]), order, r.normalizeTransportationType(tokens[2]))
			r.stack = append(r.stack, modeInteractionClass)
		default:
			return rtierr.NewConfigError("fed: class only allowed in object class or interaction class definitions")
		}

	case caseCompare(t0, "attribute"):
		if r.current() != modeObjectClass {
			return rtierr.NewConfigError("fed: attribute token is not under an object class level")
		}
		if len(tokens) < 4 || len(tokens) > 5 {
			return rtierr.NewConfigError("fed: attribute must carry name, transportation and order tokens")
		}
		order, err := r.normalizeOrderType(tokens[3])
		if err != nil {
			return err
		}
		r.b.AddAttribute(objectmodel.Attribute{
			Name:           r.normalizeObjectClassAttributeName(tokens[1]),
			Transportation: r.normalizeTransportationType(tokens[2]),
			Order:          order,
		})
		r.stack = append(r.stack, modeAttribute)

	case caseCompare(t0, "parameter"):
		if r.current() != modeInteractionClass {
			return rtierr.NewConfigError("fed: parameter token is not under an interaction class level")
		}
		if len(tokens) != 2 {
			return rtierr.NewConfigError("fed: parameter must carry exactly one name token")
		}
		r.b.AddParameter(objectmodel.Parameter{Name: tokens[1]})
		r.stack = append(r.stack, modeParameter)

	default:
		r.stack = append(r.stack, modeUnknown)
	}

	return nil
}

func (r *reader) endElement() {
	switch r.current() {
	case modeObjectClass:
		r.b.PopObjectClass()
	case modeInteractionClass:
		r.b.PopInteractionClass()
	}
	if len(r.stack) > 0 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

func (r *reader) normalizeTransportationType(name string) string {
	switch {
	case caseCompare(name, "reliable"):
		return "HLAreliable"
	case caseCompare(name, "best_effort"):
		return "HLAbestEffort"
	default:
		return name
	}
}

// normalizeOrderType maps "receive" to Receive and everything else to
// TimeStamp, unless StrictOrderTokens is set, in which case any token other
// than "receive"/"timestamp" is rejected.
func (r *reader) normalizeOrderType(name string) (string, error) {
	if caseCompare(name, "receive") {
		return "Receive", nil
	}
	if r.opts.StrictOrderTokens && !caseCompare(name, "timestamp") {
		return "", rtierr.NewConfigError("fed: unrecognized order token %q", name)
	}
	return "TimeStamp", nil
}

func (r *reader) normalizeInteractionClassName(name string) string {
	if caseCompare(name, "InteractionRoot") {
		return objectmodel.RootInteractionClassName
	}
	return name
}

func (r *reader) normalizeObjectClassName(name string) string {
	if caseCompare(name, "ObjectRoot") {
		return objectmodel.RootObjectClassName
	}
	return name
}

func (r *reader) normalizeObjectClassAttributeName(name string) string {
	if caseCompare(name, "privilegeToDelete") {
		return objectmodel.PrivilegeToDeleteName
	}
	return name
}
