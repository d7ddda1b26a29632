/**
 * Copyright (c) 2025, OpenRTI Project Contributors.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package fed

import (
	"strings"

	"github.com/openrti/rti/pkg/rtierr"
)

// lexToken is one "(" / ")" / bareword token of the parenthesized FED
// grammar. Barewords are whitespace-separated and may be quoted with "..."
// to include whitespace or parentheses literally.
type lexToken struct {
	text    string
	isOpen  bool
	isClose bool
}

// tokenize splits raw FED source into a flat stream of lexTokens.
func tokenize(raw string) ([]lexToken, error) {
	var toks []lexToken
	runes := []rune(raw)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '(':
			toks = append(toks, lexToken{isOpen: true})
			i++
		case c == ')':
			toks = append(toks, lexToken{isClose: true})
			i++
		case c == ';':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case isSpace(c):
			i++
		case c == '"':
			var sb strings.Builder
			i++
			for i < len(runes) && runes[i] != '"' {
				sb.WriteRune(runes[i])
				i++
			}
			if i >= len(runes) {
				return nil, rtierr.NewConfigError("fed: unterminated quoted token")
			}
			i++
			toks = append(toks, lexToken{text: sb.String()})
		default:
			start := i
			for i < len(runes) && !isSpace(runes[i]) && runes[i] != '(' && runes[i] != ')' && runes[i] != ';' {
				i++
			}
			toks = append(toks, lexToken{text: string(runes[start:i])})
		}
	}
	return toks, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// caseCompare matches the source's ASCII case-insensitive token comparison.
func caseCompare(a, b string) bool {
	return strings.EqualFold(a, b)
}
