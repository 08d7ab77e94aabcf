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

package surface

import (
	"strings"

	"github.com/czcorpus/cnc-gokit/collections"
)

var (
	unintelligible = []string{"xxx", "yyy", "www"}
	retracings     = []string{"/", "//", "///", "/-", "/?"}
	linkers        = []string{"+\"", "+^", "+<", "+,", "++", "+≈", "+≋"}
	prosodicMarks  = strings.NewReplacer(":", "", "^", "", "ˈ", "", "ˌ", "", "↑", "", "↓", "", "(", "", ")", "")
)

// unit is a normalized word or a normalized `<...>` group. Annotations
// always apply to the unit right before them.
type unit struct {
	tokens []string
	tree   string
}

// ChatParser is a built-in surface grammar for the CHAT
// main tier. It resolves replacements (`[: x]`), retracings
// (`[/]`, `[//]`), removes scoped annotations, fillers, fragments,
// unintelligible and omitted words, pauses and time bullets and
// it also cleans up shortenings and special form markers.
type ChatParser struct{}

func (cp ChatParser) Parse(raw string) (Parse, error) {
	lx := &lexer{src: []rune(raw)}
	items, err := lx.items(0)
	if err != nil {
		return Parse{}, err
	}
	units := normalizeItems(items)
	tokens := make([]string, 0, len(units))
	trees := make([]string, 0, len(units))
	for _, u := range units {
		tokens = append(tokens, u.tokens...)
		trees = append(trees, u.tree)
	}
	return Parse{
		Replacement: strings.Join(tokens, " "),
		Derivation:  "(utterance " + strings.Join(trees, " ") + ")",
	}, nil
}

func normalizeItems(items []item) []unit {
	units := make([]unit, 0, len(items))
	for _, it := range items {
		switch it.kind {
		case itemWord:
			w, ok := normalizeWord(it.text)
			if ok {
				units = append(units, unit{tokens: []string{w}, tree: "(w " + w + ")"})

			} else {
				units = append(units, unit{tree: "(skip " + it.text + ")"})
			}
		case itemGroup:
			sub := normalizeItems(it.children)
			var g unit
			trees := make([]string, len(sub))
			for i, s := range sub {
				g.tokens = append(g.tokens, s.tokens...)
				trees[i] = s.tree
			}
			g.tree = "(group " + strings.Join(trees, " ") + ")"
			units = append(units, g)
		case itemAnnotation:
			if len(units) == 0 {
				continue
			}
			last := &units[len(units)-1]
			switch {
			case strings.HasPrefix(it.text, ":"):
				repl := strings.Fields(strings.TrimLeft(it.text, ":"))
				last.tokens = collections.SliceFilter(
					collections.SliceMap(repl, func(v string, i int) string {
						w, _ := normalizeWord(v)
						return w
					}),
					func(v string, i int) bool { return v != "" },
				)
				last.tree = "(replace " + last.tree + " " + strings.Join(last.tokens, " ") + ")"
			case collections.SliceContains(retracings, it.text):
				last.tokens = nil
				last.tree = "(retrace " + last.tree + ")"
			default:
				last.tree = "(annot " + last.tree + " [" + it.text + "])"
			}
		}
	}
	return units
}

func isPause(w string) bool {
	if !strings.HasPrefix(w, "(") || !strings.HasSuffix(w, ")") || len(w) < 3 {
		return false
	}
	for _, r := range w[1 : len(w)-1] {
		if r != '.' && r != ':' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// normalizeWord returns the normalized form of a word and
// a flag telling whether the word is part of the token stream.
func normalizeWord(w string) (string, bool) {
	switch {
	case w == "":
		return "", false
	case strings.HasPrefix(w, "&"):
		return "", false
	case strings.HasPrefix(w, "0"):
		return "", false
	case strings.HasPrefix(w, "#"):
		return "", false
	case collections.SliceContains(unintelligible, w):
		return "", false
	case strings.HasPrefix(w, "+"):
		if collections.SliceContains(linkers, w) {
			return "", false
		}
		return w, true
	case isPause(w):
		return "", false
	}
	if i := strings.Index(w, "@"); i > 0 {
		w = w[:i]
	}
	w = prosodicMarks.Replace(w)
	if w == "" {
		return "", false
	}
	return w, true
}
