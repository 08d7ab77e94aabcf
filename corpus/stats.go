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

package corpus

import (
	"time"

	"chatfreq/align"
	"chatfreq/freqs"
	"chatfreq/utterance"
)

// FileStats holds processing statistics of a single transcript file
type FileStats struct {
	File                 string    `json:"file"`
	Corpus               string    `json:"corpus"`
	AgeMonths            float64   `json:"ageMonths"`
	NumUtterances        int       `json:"numUtterances"`
	NumChatParseFailures int       `json:"numChatParseFailures"`
	NumMorParseFailures  int       `json:"numMorParseFailures"`
	NumLengthMismatches  int       `json:"numLengthMismatches"`
	NumFormMismatches    int       `json:"numFormMismatches"`
	NumSkipped           int       `json:"numSkipped"`
	NumCounted           int       `json:"numCounted"`
	NumUnresolved        int       `json:"numUnresolved"`
	NumLexiconMisses     int       `json:"numLexiconMisses"`
	Begin                time.Time `json:"begin"`
	End                  time.Time `json:"end"`
}

func (st *FileStats) Duration() time.Duration {
	return st.End.Sub(st.Begin)
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// ChatFailureRate is the ratio of utterances without tokenization
func (st *FileStats) ChatFailureRate() float64 {
	return rate(st.NumChatParseFailures, st.NumUtterances)
}

// MorFailureRate is the ratio of utterances whose `%mor` tier
// could not be parsed
func (st *FileStats) MorFailureRate() float64 {
	return rate(st.NumMorParseFailures, st.NumUtterances)
}

// addBuilt updates stats for a freshly built utterance
// (i.e. before alignment)
func (st *FileStats) addBuilt(u *utterance.Utterance) {
	st.NumUtterances++
	if u.Tokens == nil {
		st.NumChatParseFailures++
	}
	if _, ok := u.Tiers[utterance.TierMor]; ok && u.Morphology == nil {
		st.NumMorParseFailures++
	}
}

func (st *FileStats) addAligned(res align.Result) {
	if res.Status == align.StatusLengthMismatch {
		st.NumLengthMismatches++
	}
	st.NumFormMismatches += res.FormMismatches
}

func (st *FileStats) addOutcome(out freqs.Outcome) {
	if out.Skipped != freqs.NotSkipped {
		st.NumSkipped++
	}
	st.NumCounted += out.Counted
	st.NumUnresolved += out.Unresolved
	st.NumLexiconMisses += out.LexiconMisses
}

// RunStats summarizes a whole run
type RunStats struct {
	Files []FileStats `json:"files"`
}

func (rs *RunStats) Totals() FileStats {
	var ans FileStats
	for i, f := range rs.Files {
		if i == 0 {
			ans.Begin = f.Begin
		}
		ans.End = f.End
		ans.NumUtterances += f.NumUtterances
		ans.NumChatParseFailures += f.NumChatParseFailures
		ans.NumMorParseFailures += f.NumMorParseFailures
		ans.NumLengthMismatches += f.NumLengthMismatches
		ans.NumFormMismatches += f.NumFormMismatches
		ans.NumSkipped += f.NumSkipped
		ans.NumCounted += f.NumCounted
		ans.NumUnresolved += f.NumUnresolved
		ans.NumLexiconMisses += f.NumLexiconMisses
	}
	return ans
}
