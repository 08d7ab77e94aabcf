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

// Package tagger resolves verb-like tokens to coarse Penn-style tags
// based on their MOR category, fusional suffixes and suffixes.
package tagger

import (
	"fmt"

	"chatfreq/diag"
	"chatfreq/merror"
	"chatfreq/mor"
)

type Tag string

const (
	TagVB         Tag = "VB"
	TagVBD        Tag = "VBD"
	TagVBZ        Tag = "VBZ"
	TagVBP        Tag = "VBP"
	TagVBG        Tag = "VBG"
	TagVBN        Tag = "VBN"
	TagUnresolved Tag = ""

	CategoryVerb       = "v"
	CategoryAux        = "aux"
	CategoryParticiple = "part"
)

type featureKey struct {
	fusional string
	suffix   string
}

type override struct {
	word string
	tag  Tag
}

// rule maps a pair of (fusional, suffix) to a tag. Word overrides
// are tested first, the default tag applies otherwise.
type rule struct {
	overrides []override
	dflt      Tag
}

func fixed(tag Tag) rule {
	return rule{dflt: tag}
}

var tagTable = map[string]map[featureKey]rule{
	CategoryVerb: {
		{"", "PAST"}:     fixed(TagVBD),
		{"PAST", ""}:     fixed(TagVBD),
		{"PRES", ""}:     fixed(TagVBP),
		{"PAST|13S", ""}: fixed(TagVBD),
		{"", "3S"}:       fixed(TagVBZ),
		{"3S", ""}:       fixed(TagVBZ),
		{"ZERO", ""}:     fixed(TagVBP),
		{"1S", ""}:       fixed(TagVBP),
		{"", ""}: {
			overrides: []override{{"be", TagVB}},
			dflt:      TagVBP,
		},
	},
	CategoryAux: {
		{"PAST", ""}: fixed(TagVBD),
		{"PRES", ""}: fixed(TagVBP),
		{"COND", ""}: fixed(TagVBP),
		{"", ""}: {
			overrides: []override{{"could", TagVBD}, {"be", TagVB}},
			dflt:      TagVBP,
		},
		{"3S", ""}:       fixed(TagVBZ),
		{"PAST|13S", ""}: fixed(TagVBD),
		{"PERF", ""}:     fixed(TagVBN),
		{"PASTP", ""}:    fixed(TagVBN),
		{"", "PRESP"}:    fixed(TagVBG),
		{"1S", ""}:       fixed(TagVBP),
	},
	CategoryParticiple: {
		{"", "PERF"}:  fixed(TagVBN),
		{"", "PROG"}:  fixed(TagVBG),
		{"PERF", ""}:  fixed(TagVBN),
		{"", "PRESP"}: fixed(TagVBG),
		{"PASTP", ""}: fixed(TagVBN),
		{"", "PASTP"}: fixed(TagVBN),
	},
}

// IsVerbal tells whether a flattened category is a tagging candidate
func IsVerbal(category string) bool {
	_, ok := tagTable[category]
	return ok
}

// Resolve finds a tag for a verb-like token. For combinations not
// covered by the rules, TagUnresolved is returned (this is not an error).
// A category which is not verb-like produces merror.InternalError.
func Resolve(category, fusional, suffix, word string) (Tag, error) {
	rules, ok := tagTable[category]
	if !ok {
		return TagUnresolved, merror.InternalError{
			Msg: fmt.Sprintf("category %q is not a tagging candidate", category),
		}
	}
	r, ok := rules[featureKey{fusional: fusional, suffix: suffix}]
	if !ok {
		return TagUnresolved, nil
	}
	for _, ov := range r.overrides {
		if ov.word == word {
			return ov.tag, nil
		}
	}
	return r.dflt, nil
}

// Tagger applies Resolve to morphology groups and reports
// unknown combinations.
type Tagger struct {
	Diag diag.Sink
}

// Tag resolves a tag for a token with the morphology group.
// The second returned value tells whether the token is
// a tagging candidate at all.
func (t *Tagger) Tag(word string, group mor.Group, file string, utt int) (Tag, bool, error) {
	flat, err := group.Flatten()
	if err != nil {
		return TagUnresolved, false, err
	}
	if !IsVerbal(flat.Category) {
		return TagUnresolved, false, nil
	}
	tag, err := Resolve(flat.Category, flat.Fusional, flat.Suffix, word)
	if err != nil {
		return TagUnresolved, true, err
	}
	if tag == TagUnresolved && t.Diag != nil {
		t.Diag.Report(diag.Entry{
			Kind:      diag.KindUnknownCombination,
			File:      file,
			Utterance: utt,
			Message:   "unknown combination",
			Details: []string{
				"category: " + flat.Category,
				"word: " + word,
				"suffix: " + flat.Suffix,
				"fusional: " + flat.Fusional,
			},
		})
	}
	return tag, true, nil
}
