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

package utterance

// Record is a serializable view of an utterance used
// for transcript dumps
type Record struct {
	Speaker     string         `json:"speaker" yaml:"speaker"`
	Raw         string         `json:"raw" yaml:"raw"`
	Tokenized   []string       `json:"tokenized" yaml:"tokenized"`
	Annotations map[string]any `json:"annotations" yaml:"annotations"`
	Num         int            `json:"num" yaml:"num"`

	// Fields are the source CHAT fields the utterance was
	// built from
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Record converts the utterance to its serializable form.
// The `%mor` tier is rendered as one string per token and
// the `%xgra` tier as a list of its items.
func (u *Utterance) Record() Record {
	annot := make(map[string]any)
	for kind, payload := range u.Tiers {
		switch kind {
		case TierMor:
			if u.Morphology != nil {
				morph := make([]string, len(u.Morphology))
				for i, g := range u.Morphology {
					morph[i] = g.String()
				}
				annot["Morphology"] = morph
			}
		case TierXgra:
			annot["Syntax"] = u.Syntax
		default:
			annot[kind.String()] = payload
		}
	}
	return Record{
		Speaker:     u.Speaker,
		Raw:         u.Raw,
		Tokenized:   u.Tokens,
		Annotations: annot,
		Num:         u.Num,
		Fields:      u.Fields,
	}
}
