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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupUtterances(t *testing.T) {
	fields, err := Segment(sampleLines)
	require.NoError(t, err)
	groups, err := Group(fields)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "*MOT:\twhat did you \tsee ?", groups[0].Utterance.Text)
	assert.Len(t, groups[0].Tiers, 2)
	assert.Len(t, groups[0].Metadata, 4)

	// the last group is finalized at the end of input and
	// its snapshot contains the trailing @End
	assert.Equal(t, "*CHI:\tball .", groups[1].Utterance.Text)
	assert.Len(t, groups[1].Tiers, 1)
	assert.Len(t, groups[1].Metadata, 5)
	assert.Equal(t, "@End", groups[1].Metadata[4])
}

func TestGroupSnapshotsAreStable(t *testing.T) {
	fields, err := Segment([]string{
		"@UTF8",
		"*CHI:\tone .",
		"@Comment:\tfirst",
		"*CHI:\ttwo .",
		"@Comment:\tsecond",
		"*CHI:\tthree .",
	})
	require.NoError(t, err)
	groups, err := Group(fields)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"@UTF8", "@Comment:\tfirst"}, groups[0].Metadata)
	assert.Equal(t, []string{"@UTF8", "@Comment:\tfirst", "@Comment:\tsecond"}, groups[1].Metadata)
	assert.Len(t, groups[2].Metadata, 3)
}

func TestGroupTierBeforeUtterance(t *testing.T) {
	fields, err := Segment([]string{"@UTF8", "%mor:\tn|ball ."})
	require.NoError(t, err)
	_, err = Group(fields)
	assert.Error(t, err)
}

func TestGroupLines(t *testing.T) {
	fields, err := Segment(sampleLines)
	require.NoError(t, err)
	groups, err := Group(fields)
	require.NoError(t, err)
	assert.Equal(
		t,
		[]string{"*CHI:\tball .", "%mor:\tn|ball .", "@End"},
		groups[1].Lines(),
	)
	assert.Equal(
		t,
		[]string{
			"*MOT:\twhat did you \tsee ?",
			"%mor:\tpro:wh|what v|do&PAST pro|you \tv|see ?",
			"%com:\tlooking at the book",
		},
		groups[0].Lines(),
	)
}

func TestGroupFollowingMetadata(t *testing.T) {
	fields, err := Segment([]string{
		"@UTF8",
		"*CHI:\tone .",
		"%com:\tlaughs",
		"@Comment:\tfirst",
		"@G:\tbook",
		"*CHI:\ttwo .",
	})
	require.NoError(t, err)
	groups, err := Group(fields)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Len(t, groups[0].Following, 2)
	assert.Equal(t, "@G:\tbook", groups[0].Following[1].Text)
	assert.Empty(t, groups[1].Following)
}

func TestMetadataPrefix(t *testing.T) {
	fields, err := Segment(sampleLines)
	require.NoError(t, err)
	assert.Len(t, MetadataPrefix(fields), 4)
}
