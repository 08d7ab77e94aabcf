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
	"sort"

	"chatfreq/corpus"
	"chatfreq/diag"
	"chatfreq/freqs"
	"chatfreq/rdb"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/collections"
)

const (
	// MaxStoredDiagnostics limits number of diagnostic entries
	// stored along with a run result. Counts are always complete.
	MaxStoredDiagnostics = 1000
)

// VerbFreqs is a result of a verb counting run
type VerbFreqs struct {
	RunID            string
	Entries          []freqs.Entry
	Files            []corpus.FileStats
	DiagnosticCounts diag.Counts
	Diagnostics      []diag.Entry
	Error            error
}

func (res *VerbFreqs) Err() error {
	return res.Error
}

func (res *VerbFreqs) Type() rdb.ResultType {
	return rdb.ResultTypeVerbFreqs
}

// SetDiagnostics stores at most MaxStoredDiagnostics entries
func (res *VerbFreqs) SetDiagnostics(entries []diag.Entry) {
	if len(entries) > MaxStoredDiagnostics {
		entries = entries[:MaxStoredDiagnostics]
	}
	res.Diagnostics = entries
}

func (res *VerbFreqs) MarshalJSON() ([]byte, error) {
	stats := corpus.RunStats{Files: res.Files}
	totals := stats.Totals()
	return sonic.Marshal(VerbFreqsResponse{
		RunID:            res.RunID,
		Entries:          res.Entries,
		Files:            res.Files,
		NumUtterances:    totals.NumUtterances,
		NumCounted:       totals.NumCounted,
		ChatFailureRate:  NormRound(totals.ChatFailureRate()),
		MorFailureRate:   NormRound(totals.MorFailureRate()),
		DiagnosticCounts: res.DiagnosticCounts,
		Diagnostics:      res.Diagnostics,
		ResultType:       res.Type(),
		Error:            errToStr(res.Error),
	})
}

// VerbFreqsResponse is a serialized form of VerbFreqs
type VerbFreqsResponse struct {
	RunID            string             `json:"runId"`
	Entries          []freqs.Entry      `json:"entries"`
	Files            []corpus.FileStats `json:"files"`
	NumUtterances    int                `json:"numUtterances"`
	NumCounted       int                `json:"numCounted"`
	ChatFailureRate  float64            `json:"chatFailureRate"`
	MorFailureRate   float64            `json:"morFailureRate"`
	DiagnosticCounts diag.Counts        `json:"diagnosticCounts"`
	Diagnostics      []diag.Entry       `json:"diagnostics,omitempty"`
	ResultType       rdb.ResultType     `json:"resultType"`
	Error            string             `json:"error,omitempty"`
} // @name VerbFreqs

// Ages returns sorted age buckets present in the entries
func (resp *VerbFreqsResponse) Ages() []int {
	byAge := freqs.GroupByAge(resp.Entries)
	ans := make([]int, 0, len(byAge))
	for age := range byAge {
		ans = append(ans, age)
	}
	sort.Ints(ans)
	return ans
}

// ForAge returns entries of a single age bucket
func (resp *VerbFreqsResponse) ForAge(age int) []freqs.Entry {
	return collections.SliceFilter(
		resp.Entries,
		func(e freqs.Entry, i int) bool {
			return e.Age == age
		},
	)
}

// DiagnosticsOfKind filters stored diagnostics. An empty
// kind matches everything.
func (resp *VerbFreqsResponse) DiagnosticsOfKind(kind diag.Kind) []diag.Entry {
	if kind == "" {
		return resp.Diagnostics
	}
	return collections.SliceFilter(
		resp.Diagnostics,
		func(e diag.Entry, i int) bool {
			return e.Kind == kind
		},
	)
}
