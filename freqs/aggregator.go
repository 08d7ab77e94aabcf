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

package freqs

import (
	"fmt"
	"strings"

	"chatfreq/diag"
	"chatfreq/lexicon"
	"chatfreq/merror"
	"chatfreq/tagger"
	"chatfreq/utterance"

	"github.com/czcorpus/cnc-gokit/collections"
)

// DefaultExcludedRoles are roles of speakers whose utterances
// are not counted. A role matches if it contains any of the values.
var DefaultExcludedRoles = []string{
	"Target_Child",
	"Child",
	"Playmate",
	"Non_Human",
	"Environment",
	"Camera_Operator",
}

// AgeWindow is an inclusive range of ages (in months)
type AgeWindow struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (w AgeWindow) Contains(age float64) bool {
	return w.Min <= age && age <= w.Max
}

var DefaultAgeWindow = AgeWindow{Min: 18, Max: 60}

type SkipReason int

const (
	NotSkipped SkipReason = iota
	SkipUnusable
	SkipUnknownSpeaker
	SkipExcludedRole
	SkipAgeWindow
)

func (r SkipReason) String() string {
	switch r {
	case NotSkipped:
		return "-"
	case SkipUnusable:
		return "unusable"
	case SkipUnknownSpeaker:
		return "unknownSpeaker"
	case SkipExcludedRole:
		return "excludedRole"
	case SkipAgeWindow:
		return "ageWindow"
	default:
		return "unknown"
	}
}

// Outcome describes how a single utterance contributed
// to the frequency table
type Outcome struct {
	Skipped       SkipReason
	Counted       int
	Unresolved    int
	LexiconMisses int
}

// Aggregator counts verb-like tokens of utterances into
// a frequency table
type Aggregator struct {
	Lexicon       lexicon.Lexicon
	Tagger        *tagger.Tagger
	Diag          diag.Sink
	Table         *Table
	Window        AgeWindow
	ExcludedRoles []string
}

func (a *Aggregator) isExcludedRole(role string) bool {
	return collections.SliceFindIndex(
		a.ExcludedRoles,
		func(v string) bool { return strings.Contains(role, v) },
	) >= 0
}

// Count processes a single aligned utterance. Only fatal problems
// are returned as errors.
func (a *Aggregator) Count(u *utterance.Utterance) (Outcome, error) {
	if !u.Usable() {
		return Outcome{Skipped: SkipUnusable}, nil
	}
	if len(u.Tokens) != len(u.Morphology) {
		return Outcome{}, merror.InternalError{
			Msg: fmt.Sprintf("utterance %s#%d has not been aligned", u.File, u.Num),
		}
	}
	role, ok := u.Role()
	if !ok {
		a.Diag.Report(diag.Entry{
			Kind:      diag.KindUnknownSpeaker,
			File:      u.File,
			Utterance: u.Num,
			Message:   "speaker not declared in participants",
			Details:   []string{u.Speaker},
		})
		return Outcome{Skipped: SkipUnknownSpeaker}, nil
	}
	if a.isExcludedRole(role) {
		return Outcome{Skipped: SkipExcludedRole}, nil
	}
	if !a.Window.Contains(u.Age) {
		return Outcome{Skipped: SkipAgeWindow}, nil
	}

	var ans Outcome
	for i, word := range u.Tokens {
		tag, verbal, err := a.Tagger.Tag(word, u.Morphology[i], u.File, u.Num)
		if err != nil {
			return ans, err
		}
		if !verbal {
			continue
		}
		if tag == tagger.TagUnresolved {
			ans.Unresolved++
			continue
		}
		if _, ok := a.Lexicon.Lookup(word, string(tag)); ok {
			a.Table.Add(u.AgeBin, VerbTag{Verb: word, Tag: tag}, 1)
			ans.Counted++

		} else {
			ans.LexiconMisses++
			a.Diag.Report(diag.Entry{
				Kind:      diag.KindLexiconMiss,
				File:      u.File,
				Utterance: u.Num,
				Message:   fmt.Sprintf("cannot find an entry for (%s, %s)", word, tag),
				Details: []string{
					strings.Join(u.Tokens, " "),
					u.Morphology[i].String(),
				},
			})
		}
	}
	return ans, nil
}

// NewAggregator creates an aggregator with the default age
// window and excluded roles.
func NewAggregator(lex lexicon.Lexicon, table *Table, sink diag.Sink) *Aggregator {
	return &Aggregator{
		Lexicon:       lex,
		Tagger:        &tagger.Tagger{Diag: sink},
		Diag:          sink,
		Table:         table,
		Window:        DefaultAgeWindow,
		ExcludedRoles: DefaultExcludedRoles,
	}
}
