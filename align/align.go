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

// Package align checks whether the normalized tokens of an utterance
// correspond to the groups of its `%mor` tier.
package align

import (
	"fmt"
	"strings"

	"chatfreq/diag"
	"chatfreq/utterance"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type Status int

const (
	StatusAligned Status = iota
	StatusNoTokens
	StatusNoMorphology
	StatusLengthMismatch
)

func (s Status) String() string {
	switch s {
	case StatusAligned:
		return "aligned"
	case StatusNoTokens:
		return "no-tokens"
	case StatusNoMorphology:
		return "no-morphology"
	case StatusLengthMismatch:
		return "length-mismatch"
	default:
		return "unknown"
	}
}

// Result describes an outcome of an alignment of a single utterance
type Result struct {
	Status Status

	// FormMismatches is the number of tokens whose form differs
	// from the form of the respective morphology group
	// (reported but tolerated)
	FormMismatches int
}

// Align validates the correspondence of tokens and morphology groups.
// In case their numbers differ, the utterance's morphology is removed.
// Tokens are never changed.
func Align(u *utterance.Utterance, sink diag.Sink) Result {
	if u.Tokens == nil {
		sink.Report(diag.Entry{
			Kind:      diag.KindNilTokenization,
			File:      u.File,
			Utterance: u.Num,
			Message:   "nil tokenization",
			Details:   []string{u.Raw},
		})
		return Result{Status: StatusNoTokens}
	}
	if u.Morphology == nil {
		return Result{Status: StatusNoMorphology}
	}
	forms := make([]string, len(u.Morphology))
	for i, g := range u.Morphology {
		forms[i] = g.Form()
	}

	if len(u.Tokens) != len(u.Morphology) {
		sink.Report(diag.Entry{
			Kind:      diag.KindLengthMismatch,
			File:      u.File,
			Utterance: u.Num,
			Message: fmt.Sprintf(
				"tokenization and morphology don't match (%d vs. %d)",
				len(u.Tokens), len(u.Morphology),
			),
			Details: []string{
				u.Raw,
				strings.Join(u.Tokens, " "),
				u.Tiers[utterance.TierMor],
				TokenDiff(u.Tokens, forms),
			},
		})
		u.Morphology = nil
		return Result{Status: StatusLengthMismatch}
	}

	var ans Result
	for i, tok := range u.Tokens {
		if forms[i] != tok {
			ans.FormMismatches++
			sink.Report(diag.Entry{
				Kind:      diag.KindFormMismatch,
				File:      u.File,
				Utterance: u.Num,
				Message:   "token and MOR don't match",
				Details:   []string{tok, forms[i]},
			})
		}
	}
	return ans
}

// TokenDiff renders a token-level difference between two token
// sequences. Tokens missing in `b` are prefixed with `-`, extra
// tokens with `+`.
func TokenDiff(a, b []string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(joinLines(a), joinLines(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	ans := make([]string, 0, len(a)+len(b))
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
			prefix = ""
		}
		for _, tok := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			ans = append(ans, prefix+tok)
		}
	}
	return strings.Join(ans, " ")
}

func joinLines(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, "\n") + "\n"
}
