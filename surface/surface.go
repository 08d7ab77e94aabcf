// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of CHATFREQ.
//
//  CHATFREQ is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  CHATFREQ is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with CHATFREQ.  If not, see <https://www.gnu.org/licenses/>.

// Package surface turns the raw text of a CHAT main tier into
// a normalized token stream (the form the `%mor` tier is aligned with).
package surface

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrNoParse = errors.New("no surface parse")

// Parse is a result of a successful surface parsing
type Parse struct {

	// Replacement is the normalized text with all the
	// replacements, retracings and non-word material resolved
	Replacement string

	// Derivation is a bracketed tree rendering of the parse
	// (for debugging only)
	Derivation string
}

// Tokens splits the replacement text into tokens
func (p Parse) Tokens() []string {
	return strings.Fields(p.Replacement)
}

// Parser is a surface grammar. It either provides a Parse or
// returns an error wrapping ErrNoParse.
type Parser interface {
	Parse(raw string) (Parse, error)
}

const bullet = '\u0015'

type itemKind int

const (
	itemWord itemKind = iota
	itemGroup
	itemAnnotation
)

type item struct {
	kind     itemKind
	text     string
	children []item
}

type lexer struct {
	src []rune
	pos int
}

func (lx *lexer) fail(msg string) error {
	return fmt.Errorf("%w: %s at position %d", ErrNoParse, msg, lx.pos)
}

func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '<' || r == '>' || r == '[' || r == ']' || r == bullet
}

func (lx *lexer) readWord() string {
	start := lx.pos
	if lx.src[lx.pos] == '+' {
		for lx.pos < len(lx.src) && !unicode.IsSpace(lx.src[lx.pos]) {
			lx.pos++
		}
		return string(lx.src[start:lx.pos])
	}
	for lx.pos < len(lx.src) && !isWordBoundary(lx.src[lx.pos]) {
		lx.pos++
	}
	return string(lx.src[start:lx.pos])
}

func (lx *lexer) indexFrom(r rune) int {
	for i := lx.pos; i < len(lx.src); i++ {
		if lx.src[i] == r {
			return i
		}
	}
	return -1
}

// items reads items until the closing rune (or the end of input
// in case closing is 0)
func (lx *lexer) items(closing rune) ([]item, error) {
	ans := make([]item, 0, 10)
	for lx.pos < len(lx.src) {
		r := lx.src[lx.pos]
		switch {
		case unicode.IsSpace(r):
			lx.pos++
		case closing != 0 && r == closing:
			lx.pos++
			return ans, nil
		case r == '<':
			lx.pos++
			children, err := lx.items('>')
			if err != nil {
				return nil, err
			}
			ans = append(ans, item{kind: itemGroup, children: children})
		case r == '[':
			end := lx.indexFrom(']')
			if end < 0 {
				return nil, lx.fail("unclosed annotation")
			}
			ans = append(
				ans,
				item{kind: itemAnnotation, text: strings.TrimSpace(string(lx.src[lx.pos+1 : end]))},
			)
			lx.pos = end + 1
		case r == '>' || r == ']':
			return nil, lx.fail(fmt.Sprintf("unexpected %c", r))
		case r == bullet:
			lx.pos++
			end := lx.indexFrom(bullet)
			if end < 0 {
				return nil, lx.fail("unclosed time bullet")
			}
			lx.pos = end + 1
		default:
			w := lx.readWord()
			if strings.Count(w, "(") != strings.Count(w, ")") {
				return nil, lx.fail(fmt.Sprintf("unbalanced parentheses in %q", w))
			}
			ans = append(ans, item{kind: itemWord, text: w})
		}
	}
	if closing != 0 {
		return nil, lx.fail(fmt.Sprintf("missing %c", closing))
	}
	return ans, nil
}
