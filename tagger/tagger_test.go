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

package tagger

import (
	"errors"
	"testing"

	"chatfreq/diag"
	"chatfreq/merror"
	"chatfreq/mor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVectors(t *testing.T) {
	vectors := []struct {
		category, fusional, suffix, word string
		expected                         Tag
	}{
		{"v", "", "PAST", "walked", TagVBD},
		{"v", "PAST", "", "went", TagVBD},
		{"v", "PAST|13S", "", "was", TagVBD},
		{"v", "", "3S", "walks", TagVBZ},
		{"v", "3S", "", "has", TagVBZ},
		{"v", "PRES", "", "are", TagVBP},
		{"v", "ZERO", "", "put", TagVBP},
		{"v", "1S", "", "am", TagVBP},
		{"v", "", "", "walk", TagVBP},
		{"v", "", "", "be", TagVB},
		{"aux", "PAST", "", "did", TagVBD},
		{"aux", "COND", "", "would", TagVBP},
		{"aux", "", "", "can", TagVBP},
		{"aux", "", "", "could", TagVBD},
		{"aux", "", "", "be", TagVB},
		{"aux", "3S", "", "has", TagVBZ},
		{"aux", "PERF", "", "been", TagVBN},
		{"aux", "PASTP", "", "been", TagVBN},
		{"aux", "", "PRESP", "being", TagVBG},
		{"part", "", "PERF", "walked", TagVBN},
		{"part", "", "PROG", "walking", TagVBG},
		{"part", "", "PRESP", "going", TagVBG},
		{"part", "PASTP", "", "gone", TagVBN},
		{"part", "", "PASTP", "taken", TagVBN},
	}
	for _, v := range vectors {
		tag, err := Resolve(v.category, v.fusional, v.suffix, v.word)
		require.NoError(t, err)
		assert.Equal(t, v.expected, tag, "%v", v)
	}
}

func TestResolveOverridesOnlyApplyToEmptyPair(t *testing.T) {
	tag, err := Resolve("v", "PAST", "", "be")
	require.NoError(t, err)
	assert.Equal(t, TagVBD, tag)

	tag, err = Resolve("part", "", "", "be")
	require.NoError(t, err)
	assert.Equal(t, TagUnresolved, tag)
}

func TestResolveIsPure(t *testing.T) {
	a, errA := Resolve("v", "PL", "", "foo")
	b, errB := Resolve("v", "PL", "", "foo")
	assert.Equal(t, a, b)
	assert.Equal(t, TagUnresolved, a)
	assert.NoError(t, errA)
	assert.NoError(t, errB)
}

func TestResolveNonVerbalCategory(t *testing.T) {
	_, err := Resolve("n", "", "", "dog")
	var ie merror.InternalError
	assert.True(t, errors.As(err, &ie))
	assert.True(t, merror.IsFatal(err))
}

func TestIsVerbal(t *testing.T) {
	assert.True(t, IsVerbal("v"))
	assert.True(t, IsVerbal("aux"))
	assert.True(t, IsVerbal("part"))
	assert.False(t, IsVerbal("v+v"))
	assert.False(t, IsVerbal("pro-v"))
	assert.False(t, IsVerbal("n"))
}

func TestTaggerReportsUnknownCombination(t *testing.T) {
	sink := &diag.Memory{}
	tg := Tagger{Diag: sink}
	g, err := mor.ParseToken("v|go&PAST-PRESP")
	require.NoError(t, err)
	tag, verbal, err := tg.Tag("goed", g, "x.cha", 4)
	require.NoError(t, err)
	assert.True(t, verbal)
	assert.Equal(t, TagUnresolved, tag)
	entries := sink.OfKind(diag.KindUnknownCombination)
	require.Len(t, entries, 1)
	assert.Equal(
		t,
		[]string{"category: v", "word: goed", "suffix: PRESP", "fusional: PAST"},
		entries[0].Details,
	)
}

func TestTaggerSkipsNonVerbal(t *testing.T) {
	sink := &diag.Memory{}
	tg := Tagger{Diag: sink}
	g, err := mor.ParseToken("n|dog-PL")
	require.NoError(t, err)
	_, verbal, err := tg.Tag("dogs", g, "x.cha", 1)
	require.NoError(t, err)
	assert.False(t, verbal)
	assert.Empty(t, sink.Entries())
}
