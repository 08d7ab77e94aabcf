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

// Package mor contains a typed model of the `%mor` tier analyses
// and a parser for the standard MOR notation.
package mor

// Variant is one of the shapes a part of a morphology group
// can take. The set of variants is closed (see the unexported
// marker method).
type Variant interface {
	isVariant()
}

// Punctuation is a bare punctuation token (`.`, `?`, `+...`)
type Punctuation struct {
	Value string `json:"value" yaml:"Value"`
}

// Word is a regular analysis `pos[:sub]*|stem[&fus]*[-suf]*`
type Word struct {
	Stem             string   `json:"stem" yaml:"Stem"`
	Category         string   `json:"category" yaml:"Category"`
	SubCategories    []string `json:"subCategories,omitempty" yaml:"SubCategories,omitempty"`
	Prefixes         []string `json:"prefixes,omitempty" yaml:"Prefixes,omitempty"`
	FusionalSuffixes []string `json:"fusionalSuffixes,omitempty" yaml:"FusionalSuffixes,omitempty"`
	Suffixes         []string `json:"suffixes,omitempty" yaml:"Suffixes,omitempty"`
}

// PreClitic is a word attached in front of the main word (`$`)
type PreClitic struct {
	Word Word `json:"word" yaml:"Word"`
}

// PostClitic is a word attached after the main word (`~`)
type PostClitic struct {
	Word Word `json:"word" yaml:"Word"`
}

// Compound is a word composed of several parts (`n|+n|ice+n|cream`).
// The Category and SubCategories describe the compound as a whole.
type Compound struct {
	Category      string   `json:"category" yaml:"Category"`
	SubCategories []string `json:"subCategories,omitempty" yaml:"SubCategories,omitempty"`
	Parts         []Word   `json:"parts" yaml:"Parts"`
}

func (Punctuation) isVariant() {}
func (Word) isVariant()        {}
func (PreClitic) isVariant()   {}
func (PostClitic) isVariant()  {}
func (Compound) isVariant()    {}

// Group is an analysis of a single surface token. In most cases
// it contains one variant, clitics produce more of them.
type Group []Variant

// Parser converts a `%mor` tier payload (tier tag already stripped)
// into one group per surface token. On failure, an error wrapping
// ErrNoParse is expected.
type Parser interface {
	Parse(payload string) ([]Group, error)
}
