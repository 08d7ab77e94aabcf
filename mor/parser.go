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

package mor

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	preCliticSep  = "$"
	postCliticSep = "~"
	prefixSep     = "#"
	posSep        = "|"
	subCatSep     = ":"
	glossSep      = "="
	fusionalMark  = '&'
	suffixMark    = '-'
	compoundStart = "|+"
)

var ErrNoParse = errors.New("no morphology parse")

func noParse(token, reason string) error {
	return fmt.Errorf("%w: token %q (%s)", ErrNoParse, token, reason)
}

func isPunctuation(tok string) bool {
	if strings.Contains(tok, posSep) {
		return false
	}
	if strings.HasPrefix(tok, "+") {
		return true
	}
	for _, r := range tok {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// TierParser parses the standard MOR notation used in the `%mor`
// tiers. It has no state and is safe for concurrent use.
type TierParser struct{}

// Parse splits the payload into whitespace separated tokens
// and parses each of them into a morphology group.
func (tp TierParser) Parse(payload string) ([]Group, error) {
	tokens := strings.Fields(payload)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty tier", ErrNoParse)
	}
	ans := make([]Group, len(tokens))
	for i, tok := range tokens {
		g, err := ParseToken(tok)
		if err != nil {
			return nil, err
		}
		ans[i] = g
	}
	return ans, nil
}

// ParseToken parses a single MOR token (e.g. `pro|it~v|be&3S`).
func ParseToken(tok string) (Group, error) {
	if isPunctuation(tok) {
		return Group{Punctuation{Value: tok}}, nil
	}
	chunks := strings.Split(tok, postCliticSep)
	pre := strings.Split(chunks[0], preCliticSep)
	ans := make(Group, 0, len(chunks)+len(pre)-1)
	for _, p := range pre[:len(pre)-1] {
		w, err := parseWord(p)
		if err != nil {
			return nil, err
		}
		ans = append(ans, PreClitic{Word: w})
	}
	main, err := parseMain(pre[len(pre)-1])
	if err != nil {
		return nil, err
	}
	ans = append(ans, main)
	for _, p := range chunks[1:] {
		w, err := parseWord(p)
		if err != nil {
			return nil, err
		}
		ans = append(ans, PostClitic{Word: w})
	}
	return ans, nil
}

func parseMain(s string) (Variant, error) {
	if isPunctuation(s) && s != "" {
		return Punctuation{Value: s}, nil
	}
	idx := strings.Index(s, compoundStart)
	if idx < 0 {
		return parseWord(s)
	}
	cat, subcats, _, err := parsePos(s, s[:idx])
	if err != nil {
		return nil, err
	}
	ans := Compound{Category: cat, SubCategories: subcats}
	for _, p := range strings.Split(s[idx+len(compoundStart):], "+") {
		w, err := parseWord(p)
		if err != nil {
			return nil, err
		}
		ans.Parts = append(ans.Parts, w)
	}
	return ans, nil
}

func parsePos(tok, s string) (category string, subcats []string, prefixes []string, err error) {
	if i := strings.LastIndex(s, prefixSep); i >= 0 {
		prefixes = strings.Split(s[:i], prefixSep)
		s = s[i+1:]
	}
	items := strings.Split(s, subCatSep)
	if items[0] == "" {
		err = noParse(tok, "missing category")
		return
	}
	category = items[0]
	if len(items) > 1 {
		subcats = items[1:]
	}
	return
}

func parseWord(s string) (Word, error) {
	var ans Word
	bar := strings.Index(s, posSep)
	if bar < 0 {
		return ans, noParse(s, "missing category separator")
	}
	cat, subcats, prefixes, err := parsePos(s, s[:bar])
	if err != nil {
		return ans, err
	}
	ans.Category = cat
	ans.SubCategories = subcats
	ans.Prefixes = prefixes

	rest := s[bar+1:]
	if i := strings.Index(rest, glossSep); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, prefixSep); i >= 0 {
		ans.Prefixes = append(ans.Prefixes, strings.Split(rest[:i], prefixSep)...)
		rest = rest[i+1:]
	}
	stemEnd := strings.IndexFunc(rest, isAffixMark)
	if stemEnd < 0 {
		stemEnd = len(rest)
	}
	ans.Stem = rest[:stemEnd]
	if ans.Stem == "" {
		return ans, noParse(s, "missing stem")
	}
	rest = rest[stemEnd:]
	for rest != "" {
		mark := rest[0]
		rest = rest[1:]
		end := strings.IndexFunc(rest, isAffixMark)
		if end < 0 {
			end = len(rest)
		}
		value := rest[:end]
		if value == "" {
			return ans, noParse(s, "empty affix")
		}
		if mark == fusionalMark {
			ans.FusionalSuffixes = append(ans.FusionalSuffixes, value)

		} else {
			ans.Suffixes = append(ans.Suffixes, value)
		}
		rest = rest[end:]
	}
	return ans, nil
}

func isAffixMark(r rune) bool {
	return r == fusionalMark || r == suffixMark
}
