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
	"fmt"
	"strings"

	"chatfreq/merror"
)

const (
	PunctMarker = "Punct"

	variantSep  = "-"
	partSep     = "+"
	listItemSep = "|"
)

// Flat is a single-string representation of a morphology group.
// Values of individual variants are joined by `-`, values of
// compound parts by `+` and list values (sub-categories, suffixes)
// by `|`.
type Flat struct {
	Form        string
	Category    string
	SubCategory string
	Fusional    string
	Suffix      string
}

type flatPart struct {
	form, category, subCategory, fusional, suffix string
}

func flattenWord(w Word) flatPart {
	return flatPart{
		form:        w.Stem,
		category:    w.Category,
		subCategory: strings.Join(w.SubCategories, listItemSep),
		fusional:    strings.Join(w.FusionalSuffixes, listItemSep),
		suffix:      strings.Join(w.Suffixes, listItemSep),
	}
}

func flattenVariant(v Variant) (flatPart, error) {
	switch tv := v.(type) {
	case Punctuation:
		return flatPart{
			form:        tv.Value,
			category:    PunctMarker,
			subCategory: PunctMarker,
			fusional:    PunctMarker,
			suffix:      PunctMarker,
		}, nil
	case Word:
		return flattenWord(tv), nil
	case PreClitic:
		return flattenWord(tv.Word), nil
	case PostClitic:
		return flattenWord(tv.Word), nil
	case Compound:
		if len(tv.Parts) == 0 {
			return flatPart{}, merror.FormError{Msg: "cannot handle this form: empty compound"}
		}
		parts := make([]flatPart, len(tv.Parts))
		for i, p := range tv.Parts {
			parts[i] = flattenWord(p)
		}
		return joinParts(parts, partSep), nil
	default:
		return flatPart{}, merror.FormError{Msg: fmt.Sprintf("cannot handle this form: %T", v)}
	}
}

func joinParts(parts []flatPart, sep string) flatPart {
	var forms, cats, subcats, fus, sufs []string
	for _, p := range parts {
		forms = append(forms, p.form)
		cats = append(cats, p.category)
		subcats = append(subcats, p.subCategory)
		fus = append(fus, p.fusional)
		sufs = append(sufs, p.suffix)
	}
	return flatPart{
		form:        strings.Join(forms, sep),
		category:    strings.Join(cats, sep),
		subCategory: strings.Join(subcats, sep),
		fusional:    strings.Join(fus, sep),
		suffix:      strings.Join(sufs, sep),
	}
}

// Flatten produces the single-string representation of the group.
// It fails with merror.FormError for groups which do not yield
// exactly one form (empty groups, nil variants, empty compounds).
func (g Group) Flatten() (Flat, error) {
	if len(g) == 0 {
		return Flat{}, merror.FormError{Msg: "cannot handle this form: empty group"}
	}
	parts := make([]flatPart, len(g))
	for i, v := range g {
		p, err := flattenVariant(v)
		if err != nil {
			return Flat{}, err
		}
		parts[i] = p
	}
	ans := joinParts(parts, variantSep)
	return Flat{
		Form:        ans.form,
		Category:    ans.category,
		SubCategory: ans.subCategory,
		Fusional:    ans.fusional,
		Suffix:      ans.suffix,
	}, nil
}

// Validate tests whether the group can be flattened
func (g Group) Validate() error {
	_, err := g.Flatten()
	return err
}

// Form returns the flattened surface form or an empty string
// for an invalid group.
func (g Group) Form() string {
	f, err := g.Flatten()
	if err != nil {
		return ""
	}
	return f.Form
}

// Category returns the flattened category or an empty string
// for an invalid group.
func (g Group) Category() string {
	f, err := g.Flatten()
	if err != nil {
		return ""
	}
	return f.Category
}

// String renders the group back in the MOR notation
func (g Group) String() string {
	var sb strings.Builder
	for _, v := range g {
		switch tv := v.(type) {
		case Punctuation:
			sb.WriteString(tv.Value)
		case Word:
			sb.WriteString(tv.String())
		case PreClitic:
			sb.WriteString(tv.Word.String())
			sb.WriteString("$")
		case PostClitic:
			sb.WriteString("~")
			sb.WriteString(tv.Word.String())
		case Compound:
			sb.WriteString(tv.Category)
			for _, s := range tv.SubCategories {
				sb.WriteString(":" + s)
			}
			sb.WriteString("|")
			for _, p := range tv.Parts {
				sb.WriteString("+" + p.String())
			}
		}
	}
	return sb.String()
}

func (w Word) String() string {
	var sb strings.Builder
	for _, p := range w.Prefixes {
		sb.WriteString(p + "#")
	}
	sb.WriteString(w.Category)
	for _, s := range w.SubCategories {
		sb.WriteString(":" + s)
	}
	sb.WriteString("|")
	sb.WriteString(w.Stem)
	for _, f := range w.FusionalSuffixes {
		sb.WriteString("&" + f)
	}
	for _, s := range w.Suffixes {
		sb.WriteString("-" + s)
	}
	return sb.String()
}
