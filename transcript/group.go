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

package transcript

import (
	"chatfreq/merror"
)

// UtteranceGroup is an utterance field along with its
// trailing tier fields.
type UtteranceGroup struct {
	Utterance RawField
	Tiers     []RawField

	// Following contains the `@` fields placed after the tiers
	// (and before the next utterance)
	Following []RawField

	// Metadata contains texts of all the `@` fields
	// seen so far in the file (the snapshot valid
	// for the utterance)
	Metadata []string
}

// Lines returns texts of all the fields of the group in their
// original order (the utterance, its tiers and the following
// metadata fields)
func (g UtteranceGroup) Lines() []string {
	ans := make([]string, 0, len(g.Tiers)+len(g.Following)+1)
	ans = append(ans, g.Utterance.Text)
	for _, t := range g.Tiers {
		ans = append(ans, t.Text)
	}
	for _, t := range g.Following {
		ans = append(ans, t.Text)
	}
	return ans
}

// Group iterates over fields and produces utterance groups.
// The `@` fields are accumulated into a metadata batch which
// is attached (as a snapshot) to each group once the group
// is finalized - i.e. when the next utterance starts or the
// input ends.
func Group(fields []RawField) ([]UtteranceGroup, error) {
	var metadata []string
	var curr *UtteranceGroup
	ans := make([]UtteranceGroup, 0, len(fields)/2)

	finalize := func() {
		if curr == nil {
			return
		}
		curr.Metadata = metadata[:len(metadata):len(metadata)]
		ans = append(ans, *curr)
		curr = nil
	}

	for _, field := range fields {
		switch field.Kind {
		case FieldMetadata:
			if field.Text != "" {
				metadata = append(metadata, field.Text)
				if curr != nil {
					curr.Following = append(curr.Following, field)
				}
			}
		case FieldUtterance:
			finalize()
			curr = &UtteranceGroup{Utterance: field}
		case FieldTier:
			if curr == nil {
				return nil, merror.FormatError{
					Msg:  "tier without a preceding utterance",
					Line: field.Line,
					Text: field.Text,
				}
			}
			curr.Tiers = append(curr.Tiers, field)
		default:
			return nil, merror.FormatError{
				Msg:  "don't know how to handle field",
				Line: field.Line,
				Text: field.Text,
			}
		}
	}
	finalize()
	return ans, nil
}

// MetadataPrefix returns all the metadata fields found before
// the first utterance. This is the file header.
func MetadataPrefix(fields []RawField) []string {
	ans := make([]string, 0, 20)
	for _, f := range fields {
		if f.Kind == FieldUtterance {
			break
		}
		if f.Kind == FieldMetadata {
			ans = append(ans, f.Text)
		}
	}
	return ans
}
