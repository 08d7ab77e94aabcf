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

package align

import (
	"testing"

	"chatfreq/diag"
	"chatfreq/mor"
	"chatfreq/utterance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkUtterance(t *testing.T, tokens []string, morPayload string) *utterance.Utterance {
	u := &utterance.Utterance{
		Num:    1,
		File:   "test.cha",
		Raw:    "raw text",
		Tokens: tokens,
		Tiers:  map[utterance.TierKind]string{utterance.TierMor: morPayload},
	}
	if morPayload != "" {
		groups, err := mor.TierParser{}.Parse(morPayload)
		require.NoError(t, err)
		u.Morphology = groups
	}
	return u
}

func TestAlignThreeTokens(t *testing.T) {
	sink := &diag.Memory{}
	u := mkUtterance(t, []string{"it", "be", "will"}, "pro|it v|be&PRES aux|will&COND")
	res := Align(u, sink)
	assert.Equal(t, StatusAligned, res.Status)
	assert.Equal(t, 0, res.FormMismatches)
	assert.Len(t, u.Morphology, 3)
	assert.Empty(t, sink.Entries())
}

func TestAlignFormMismatchIsAdvisory(t *testing.T) {
	sink := &diag.Memory{}
	u := mkUtterance(t, []string{"he", "walked", "."}, "pro|he v|walk-PAST .")
	res := Align(u, sink)
	assert.Equal(t, StatusAligned, res.Status)
	assert.Equal(t, 1, res.FormMismatches)
	assert.NotNil(t, u.Morphology)
	entries := sink.OfKind(diag.KindFormMismatch)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"walked", "walk"}, entries[0].Details)
}

func TestAlignLengthMismatch(t *testing.T) {
	sink := &diag.Memory{}
	tokens := []string{"I", "want", "cookie", "."}
	u := mkUtterance(t, tokens, "pro|I v|want .")
	res := Align(u, sink)
	assert.Equal(t, StatusLengthMismatch, res.Status)
	assert.Nil(t, u.Morphology)
	assert.Equal(t, tokens, u.Tokens)
	entries := sink.OfKind(diag.KindLengthMismatch)
	require.Len(t, entries, 1)
	assert.Equal(t, "raw text", entries[0].Details[0])
	assert.Equal(t, "pro|I v|want .", entries[0].Details[2])
	assert.Equal(t, "I want -cookie .", entries[0].Details[3])
}

func TestAlignLengthMismatchRegardlessOfContent(t *testing.T) {
	sink := &diag.Memory{}
	u := mkUtterance(t, []string{"ball", "."}, "n|ball . .")
	Align(u, sink)
	assert.Nil(t, u.Morphology)
}

func TestAlignNilTokens(t *testing.T) {
	sink := &diag.Memory{}
	u := mkUtterance(t, nil, "n|ball .")
	res := Align(u, sink)
	assert.Equal(t, StatusNoTokens, res.Status)
	assert.NotNil(t, u.Morphology)
	assert.False(t, u.Usable())
	assert.Len(t, sink.OfKind(diag.KindNilTokenization), 1)
}

func TestAlignNoMorphology(t *testing.T) {
	sink := &diag.Memory{}
	u := mkUtterance(t, []string{"ball", "."}, "")
	res := Align(u, sink)
	assert.Equal(t, StatusNoMorphology, res.Status)
	assert.Empty(t, sink.Entries())
}

func TestTokenDiff(t *testing.T) {
	assert.Equal(t, "a +x b", TokenDiff([]string{"a", "b"}, []string{"a", "x", "b"}))
	assert.Equal(t, "a b", TokenDiff([]string{"a", "b"}, []string{"a", "b"}))
}
