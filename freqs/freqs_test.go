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

package freqs

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"chatfreq/diag"
	"chatfreq/lexicon"
	"chatfreq/metadata"
	"chatfreq/mor"
	"chatfreq/tagger"
	"chatfreq/utterance"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetaFields = []string{
	"@Participants:\tCHI Adam Target_Child, MOT Mother Mother, SIS Sarah Sister",
	"@ID:\teng|brown|CHI|||||Target_Child|||",
	"@ID:\teng|brown|MOT|||||Mother|||",
	"@ID:\teng|brown|SIS|||||Child|||",
}

func mkUtterance(t *testing.T, speaker string, age float64, tokens []string, morPayload string) *utterance.Utterance {
	meta, err := metadata.Parse(testMetaFields)
	require.NoError(t, err)
	groups, err := mor.TierParser{}.Parse(morPayload)
	require.NoError(t, err)
	return &utterance.Utterance{
		Num:        1,
		Speaker:    speaker,
		File:       "synthetic.cha",
		Tokens:     tokens,
		Morphology: groups,
		Meta:       meta,
		Age:        age,
		AgeBin:     int(age + 0.999),
	}
}

func walkedLexicon() *lexicon.Table {
	return lexicon.NewTable(lexicon.Entry{
		Form:           "walked",
		Category:       "VBD",
		Lemma:          "walk",
		StemTransform:  "none",
		Suffix:         "ed",
		CELEXFrequency: 10,
		PTBFrequency:   3,
	})
}

func TestRoundTripSingleVerb(t *testing.T) {
	sink := &diag.Memory{}
	table := NewTable()
	agg := NewAggregator(walkedLexicon(), table, sink)
	out, err := agg.Count(mkUtterance(t, "MOT", 24, []string{"walked"}, "v|walk-PAST"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Counted)
	assert.Equal(
		t,
		map[int]map[VerbTag]int{24: {{Verb: "walked", Tag: tagger.TagVBD}: 1}},
		table.Snapshot(),
	)
	assert.Empty(t, sink.Entries())
}

func TestRoundTripLexiconMiss(t *testing.T) {
	sink := &diag.Memory{}
	table := NewTable()
	agg := NewAggregator(lexicon.NewTable(), table, sink)
	out, err := agg.Count(mkUtterance(t, "MOT", 24, []string{"walked"}, "v|walk-PAST"))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Counted)
	assert.Equal(t, 1, out.LexiconMisses)
	assert.Equal(t, 0, table.Size())
	assert.Len(t, sink.OfKind(diag.KindLexiconMiss), 1)
	assert.Len(t, sink.Entries(), 1)
}

func TestExcludedRoles(t *testing.T) {
	agg := NewAggregator(walkedLexicon(), NewTable(), &diag.Memory{})
	for _, speaker := range []string{"CHI", "SIS"} {
		out, err := agg.Count(mkUtterance(t, speaker, 24, []string{"walked"}, "v|walk-PAST"))
		require.NoError(t, err)
		assert.Equal(t, SkipExcludedRole, out.Skipped, speaker)
	}
	assert.Equal(t, 0, agg.Table.Size())
}

func TestAgeWindow(t *testing.T) {
	agg := NewAggregator(walkedLexicon(), NewTable(), &diag.Memory{})
	for _, age := range []float64{17.9, 60.5, 72} {
		out, err := agg.Count(mkUtterance(t, "MOT", age, []string{"walked"}, "v|walk-PAST"))
		require.NoError(t, err)
		assert.Equal(t, SkipAgeWindow, out.Skipped, age)
	}
	for _, age := range []float64{18, 60} {
		out, err := agg.Count(mkUtterance(t, "MOT", age, []string{"walked"}, "v|walk-PAST"))
		require.NoError(t, err)
		assert.Equal(t, NotSkipped, out.Skipped, age)
	}
	assert.Equal(t, 1, agg.Table.Get(18, VerbTag{"walked", tagger.TagVBD}))
	assert.Equal(t, 1, agg.Table.Get(60, VerbTag{"walked", tagger.TagVBD}))
}

func TestUnknownSpeaker(t *testing.T) {
	sink := &diag.Memory{}
	agg := NewAggregator(walkedLexicon(), NewTable(), sink)
	out, err := agg.Count(mkUtterance(t, "GRA", 24, []string{"walked"}, "v|walk-PAST"))
	require.NoError(t, err)
	assert.Equal(t, SkipUnknownSpeaker, out.Skipped)
	assert.Len(t, sink.OfKind(diag.KindUnknownSpeaker), 1)
}

func TestUnusableAndUnresolved(t *testing.T) {
	sink := &diag.Memory{}
	agg := NewAggregator(walkedLexicon(), NewTable(), sink)
	u := mkUtterance(t, "MOT", 24, []string{"walked"}, "v|walk-PAST")
	u.Morphology = nil
	out, err := agg.Count(u)
	require.NoError(t, err)
	assert.Equal(t, SkipUnusable, out.Skipped)

	out, err = agg.Count(mkUtterance(t, "MOT", 24, []string{"walking", "dogs"}, "v|walk-PRESP n|dog-PL"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Unresolved)
	assert.Equal(t, 0, out.Counted)
	assert.Len(t, sink.OfKind(diag.KindUnknownCombination), 1)
	assert.Empty(t, sink.OfKind(diag.KindLexiconMiss))
}

func TestNotAlignedIsFatal(t *testing.T) {
	agg := NewAggregator(walkedLexicon(), NewTable(), &diag.Memory{})
	_, err := agg.Count(mkUtterance(t, "MOT", 24, []string{"he", "walked"}, "v|walk-PAST"))
	assert.Error(t, err)
}

func TestTableConcurrentAdd(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				table.Add(30, VerbTag{"went", tagger.TagVBD}, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, table.Get(30, VerbTag{"went", tagger.TagVBD}))
}

func TestEntriesJoin(t *testing.T) {
	table := NewTable()
	table.Add(30, VerbTag{"walked", tagger.TagVBD}, 2)
	table.Add(24, VerbTag{"walked", tagger.TagVBD}, 1)
	table.Add(24, VerbTag{"walked", tagger.TagVBD}, 4)

	entries := table.Entries(walkedLexicon())
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{
		CHILDESCount:   5,
		Age:            24,
		Form:           "walked",
		Category:       "VBD",
		Lemma:          "walk",
		StemTransform:  "none",
		Suffix:         "ed",
		CELEXFrequency: 10,
		PTBFrequency:   3,
	}, entries[0])
	assert.Equal(t, 30, entries[1].Age)
	assert.Equal(t, []int{24, 30}, table.Ages())
	assert.Len(t, GroupByAge(entries)[30], 1)
}

func TestExportToDB(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(CreateTableSQL("verb_freqs"))
	require.NoError(t, err)

	entries := make([]Entry, 0, 700)
	for i := 0; i < 700; i++ {
		entries = append(entries, Entry{Age: 24, Form: fmt.Sprintf("verb%d", i), Category: "VBD", CHILDESCount: i})
	}
	require.NoError(t, ExportToDB(context.Background(), db, "verb_freqs", entries))
	// second export replaces the data
	require.NoError(t, ExportToDB(context.Background(), db, "verb_freqs", entries))

	var count, total int
	require.NoError(t, db.QueryRow("SELECT COUNT(*), SUM(childes_count) FROM verb_freqs").Scan(&count, &total))
	assert.Equal(t, 700, count)
	assert.Equal(t, 699*700/2, total)

	assert.Error(t, ExportToDB(context.Background(), db, "verb_freqs; --", entries))
}
