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

package results

import (
	"errors"
	"fmt"
	"testing"

	"chatfreq/corpus"
	"chatfreq/diag"
	"chatfreq/freqs"
	"chatfreq/merror"
	"chatfreq/rdb"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormRound(t *testing.T) {
	assert.Equal(t, 0.333, NormRound(1.0/3.0))
	assert.Equal(t, 0.667, NormRound(2.0/3.0))
}

func TestVerbFreqsRoundTrip(t *testing.T) {
	res := &VerbFreqs{
		RunID: "run1",
		Entries: []freqs.Entry{
			{Age: 24, Form: "walked", Category: "VBD", CHILDESCount: 2},
			{Age: 30, Form: "goes", Category: "VBZ", CHILDESCount: 1},
			{Age: 24, Form: "go", Category: "VBP", CHILDESCount: 4},
		},
		Files: []corpus.FileStats{
			{File: "a.cha", NumUtterances: 3, NumChatParseFailures: 1, NumCounted: 4},
			{File: "b.cha", NumUtterances: 3, NumMorParseFailures: 2, NumCounted: 3},
		},
		DiagnosticCounts: diag.Counts{diag.KindChatParse: 1, diag.KindMorParse: 2},
	}
	res.SetDiagnostics([]diag.Entry{
		{Kind: diag.KindChatParse, File: "a.cha", Utterance: 2, Message: "x"},
		{Kind: diag.KindMorParse, File: "b.cha", Utterance: 1, Message: "y"},
		{Kind: diag.KindMorParse, File: "b.cha", Utterance: 3, Message: "z"},
	})
	data, err := sonic.Marshal(res)
	require.NoError(t, err)

	var resp VerbFreqsResponse
	require.NoError(t, sonic.Unmarshal(data, &resp))
	assert.Equal(t, "run1", resp.RunID)
	assert.Equal(t, rdb.ResultTypeVerbFreqs, resp.ResultType)
	assert.Equal(t, 6, resp.NumUtterances)
	assert.Equal(t, 7, resp.NumCounted)
	assert.Equal(t, 0.167, resp.ChatFailureRate)
	assert.Equal(t, 0.333, resp.MorFailureRate)
	assert.Equal(t, []int{24, 30}, resp.Ages())
	assert.Len(t, resp.ForAge(24), 2)
	assert.Len(t, resp.ForAge(31), 0)
	assert.Len(t, resp.DiagnosticsOfKind(diag.KindMorParse), 2)
	assert.Len(t, resp.DiagnosticsOfKind(""), 3)
	assert.Equal(t, 2, resp.DiagnosticCounts[diag.KindMorParse])
	assert.Empty(t, resp.Error)
}

func TestVerbFreqsDiagnosticsLimit(t *testing.T) {
	var res VerbFreqs
	res.SetDiagnostics(make([]diag.Entry, MaxStoredDiagnostics+10))
	assert.Len(t, res.Diagnostics, MaxStoredDiagnostics)
}

func TestVerbFreqsError(t *testing.T) {
	res := &VerbFreqs{RunID: "run1", Error: errors.New("manifest not found")}
	data, err := sonic.Marshal(res)
	require.NoError(t, err)
	var resp VerbFreqsResponse
	require.NoError(t, sonic.Unmarshal(data, &resp))
	assert.Equal(t, "manifest not found", resp.Error)
}

func TestVerbFreqsErrorOmitsLineText(t *testing.T) {
	fe := merror.FormatError{Msg: "don't know how to handle line", File: "notes.txt", Line: 2, Text: "token=abc123"}
	res := &VerbFreqs{RunID: "run1", Error: fmt.Errorf("failed to process file notes.txt: %w", fe)}
	data, err := sonic.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "abc123")
	var resp VerbFreqsResponse
	require.NoError(t, sonic.Unmarshal(data, &resp))
	assert.Equal(t, "don't know how to handle line (file notes.txt, line 2)", resp.Error)
}

func TestErrorResult(t *testing.T) {
	res := &ErrorResult{Func: "countVerbs", Error: "boom"}
	assert.EqualError(t, res.Err(), "boom")
	assert.Equal(t, rdb.ResultTypeError, res.Type())
}
