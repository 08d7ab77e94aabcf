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

import (
	"errors"
	"testing"

	"chatfreq/diag"
	"chatfreq/merror"
	"chatfreq/metadata"
	"chatfreq/surface"
	"chatfreq/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSurface struct{}

func (fs failingSurface) Parse(raw string) (surface.Parse, error) {
	return surface.Parse{}, surface.ErrNoParse
}

func mkGroup(utt string, tiers ...string) transcript.UtteranceGroup {
	ans := transcript.UtteranceGroup{
		Utterance: transcript.RawField{Kind: transcript.FieldUtterance, Text: utt, Line: 1},
	}
	for i, t := range tiers {
		ans.Tiers = append(
			ans.Tiers,
			transcript.RawField{Kind: transcript.FieldTier, Text: t, Line: i + 2},
		)
	}
	return ans
}

func testMeta(t *testing.T) *metadata.Metadata {
	meta, err := metadata.Parse([]string{
		"@Participants:\tCHI Adam Target_Child, MOT Mother Mother",
		"@ID:\teng|brown|MOT|||||Mother|||",
	})
	require.NoError(t, err)
	return meta
}

func TestFixCommas(t *testing.T) {
	assert.Equal(t, "yes , please ,now , ok", FixCommas("yes, please ,now , ok"))
}

func TestTokenizeSubstitutions(t *testing.T) {
	assert.Equal(t, []string{"want", "to", "go", "yes", "."}, Tokenize("want ta go mhm ."))
}

func TestBuild(t *testing.T) {
	sink := &diag.Memory{}
	b := NewBuilder(sink)
	u, err := b.Build(
		3,
		mkGroup(
			"*MOT:\twhat did you \tsee ?",
			"%mor:\tpro:wh|what v|do&PAST pro|you v|see ?",
			"%com:\tlooking at the book",
			"%xgra:\t1|2|OBJ 2|0|ROOT",
		),
		testMeta(t),
		FileInfo{Path: "adam01.cha", AgeMonths: 27.1},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, u.Num)
	assert.Equal(t, "MOT", u.Speaker)
	assert.Equal(t, "what did you see ?", u.Raw)
	assert.Equal(t, []string{"what", "did", "you", "see", "?"}, u.Tokens)
	assert.Len(t, u.Morphology, 5)
	assert.Equal(t, "looking at the book", u.Tiers[TierCom])
	assert.Equal(t, []string{"1|2|OBJ", "2|0|ROOT"}, u.Syntax)
	assert.Equal(t, 28, u.AgeBin)
	assert.Len(t, u.Fields, 4)
	assert.Equal(t, "*MOT:\twhat did you \tsee ?", u.Fields[0])
	assert.True(t, u.Usable())
	role, ok := u.Role()
	assert.True(t, ok)
	assert.Equal(t, "Mother", role)
	assert.Empty(t, sink.Entries())
}

func TestBuildSurfaceFailure(t *testing.T) {
	sink := &diag.Memory{}
	b := NewBuilder(sink)
	b.Surface = failingSurface{}
	u, err := b.Build(1, mkGroup("*CHI:\tball .", "%mor:\tn|ball ."), testMeta(t), FileInfo{Path: "a.cha"})
	require.NoError(t, err)
	assert.Nil(t, u.Tokens)
	assert.NotNil(t, u.Morphology)
	assert.False(t, u.Usable())
	assert.Len(t, sink.OfKind(diag.KindChatParse), 1)
}

func TestBuildMorFailureIsRecoverable(t *testing.T) {
	sink := &diag.Memory{}
	b := NewBuilder(sink)
	u, err := b.Build(1, mkGroup("*CHI:\tball .", "%mor:\tball ."), testMeta(t), FileInfo{Path: "a.cha"})
	require.NoError(t, err)
	assert.Nil(t, u.Morphology)
	assert.Equal(t, "ball .", u.Tiers[TierMor])
	entries := sink.OfKind(diag.KindMorParse)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.cha", entries[0].File)
	assert.Equal(t, 1, entries[0].Utterance)
}

func TestBuildUnknownTier(t *testing.T) {
	b := NewBuilder(&diag.Memory{})
	_, err := b.Build(1, mkGroup("*CHI:\tball .", "%zzz:\tsomething"), testMeta(t), FileInfo{})
	var se merror.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "%zzz", se.Field)
	assert.True(t, merror.IsFatal(err))
}

func TestSplitTier(t *testing.T) {
	kind, tag, payload := SplitTier("%mor:\tv|go .")
	assert.Equal(t, TierMor, kind)
	assert.Equal(t, "mor", tag)
	assert.Equal(t, "v|go .", payload)

	kind, _, _ = SplitTier("%nocolon")
	assert.Equal(t, TierUnknown, kind)
	assert.Equal(t, "xpho", TierXpho.String())
}

func TestRecord(t *testing.T) {
	b := NewBuilder(&diag.Memory{})
	u, err := b.Build(
		2,
		mkGroup("*MOT:\tit's ok .", "%mor:\tpro|it~v|be&3S adj|ok .", "%act:\tnods"),
		testMeta(t),
		FileInfo{Path: "a.cha"},
	)
	require.NoError(t, err)
	rec := u.Record()
	assert.Equal(t, 2, rec.Num)
	assert.Equal(t, []string{"pro|it~v|be&3S", "adj|ok", "."}, rec.Annotations["Morphology"])
	assert.Equal(t, "nods", rec.Annotations["act"])
	assert.Equal(
		t,
		[]string{"*MOT:\tit's ok .", "%mor:\tpro|it~v|be&3S adj|ok .", "%act:\tnods"},
		rec.Fields,
	)
}
