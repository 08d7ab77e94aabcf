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
	"errors"
	"strings"
	"testing"

	"chatfreq/merror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleLines = []string{
	"@UTF8",
	"@Begin",
	"@Participants:\tCHI Adam Target_Child, MOT Mother Mother",
	"@ID:\teng|brown|CHI|2;3.4|male|||Target_Child|||",
	"*MOT:\twhat did you",
	"\tsee ?",
	"%mor:\tpro:wh|what v|do&PAST pro|you",
	"\tv|see ?",
	"%com:\tlooking at the book",
	"*CHI:\tball .",
	"%mor:\tn|ball .",
	"@End",
}

func countSigilLines(lines []string) int {
	var ans int
	for _, line := range lines {
		if line != "" && strings.ContainsAny(line[:1], "@*%") {
			ans++
		}
	}
	return ans
}

func TestSegmentFieldCount(t *testing.T) {
	fields, err := Segment(sampleLines)
	require.NoError(t, err)
	assert.Len(t, fields, countSigilLines(sampleLines))
}

func TestSegmentFoldsContinuation(t *testing.T) {
	fields, err := Segment(sampleLines)
	require.NoError(t, err)
	assert.Equal(t, FieldUtterance, fields[4].Kind)
	assert.Equal(t, "*MOT:\twhat did you \tsee ?", fields[4].Text)
	assert.Equal(t, 5, fields[4].Line)
	assert.Equal(t, FieldTier, fields[5].Kind)
	assert.Equal(t, "%mor:\tpro:wh|what v|do&PAST pro|you \tv|see ?", fields[5].Text)
	assert.Equal(t, FieldMetadata, fields[0].Kind)
}

func TestSegmentIllegalLine(t *testing.T) {
	lines := []string{"@UTF8", "*CHI:\thi .", "oops this is broken"}
	_, err := Segment(lines)
	require.Error(t, err)
	var fe merror.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Line)
	assert.Equal(t, "oops this is broken", fe.Text)
	assert.True(t, merror.IsFatal(err))
}

func TestSegmentEmptyLineIsFatal(t *testing.T) {
	_, err := Segment([]string{"@UTF8", "", "@Begin"})
	var fe merror.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
}

func TestSegmentContinuationWithoutField(t *testing.T) {
	_, err := Segment([]string{"\tdangling"})
	assert.Error(t, err)
}

func TestSegmentStripsBOMAndCR(t *testing.T) {
	fields, err := Segment([]string{"\ufeff@UTF8\r", "@Begin\r"})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "@UTF8", fields[0].Text)
	assert.Equal(t, "@Begin", fields[1].Text)
}

func TestSegmentReader(t *testing.T) {
	fields, err := SegmentReader(strings.NewReader(strings.Join(sampleLines, "\n")+"\n"), "adam.cha")
	require.NoError(t, err)
	assert.Len(t, fields, 10)

	_, err = SegmentReader(strings.NewReader("@UTF8\n#bad\n"), "adam.cha")
	var fe merror.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "adam.cha", fe.File)
}
