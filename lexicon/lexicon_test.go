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

package lexicon

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Form,Category,Lemma,StemTransform,Suffix,CELEXFrequency,PTBFrequency
walked,VBD,walk,none,ed,120,45
went,VBD,go,irregular,,900,300
walks,VBZ,walk,none,s,,12
`

func TestReadCSV(t *testing.T) {
	lex, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, lex.Size())

	e, ok := lex.Lookup("walked", "VBD")
	require.True(t, ok)
	assert.Equal(t, "walk", e.Lemma)
	assert.Equal(t, "ed", e.Suffix)
	assert.Equal(t, 120, e.CELEXFrequency)
	assert.Equal(t, 45, e.PTBFrequency)

	e, ok = lex.Lookup("walks", "VBZ")
	require.True(t, ok)
	assert.Equal(t, 0, e.CELEXFrequency)

	_, ok = lex.Lookup("walked", "VBN")
	assert.False(t, ok)
}

func TestReadCSVColumnOrderAndOptionalColumns(t *testing.T) {
	lex, err := ReadCSV(strings.NewReader("Category,Form\nVBG,going\n"))
	require.NoError(t, err)
	e, ok := lex.Lookup("going", "VBG")
	require.True(t, ok)
	assert.Equal(t, "", e.Lemma)
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Form,Lemma\nwalked,walk\n"))
	assert.Error(t, err)
}

func TestReadCSVInvalidFrequency(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Form,Category,PTBFrequency\nwalked,VBD,many\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestEntriesAreSorted(t *testing.T) {
	lex := NewTable(
		Entry{Form: "went", Category: "VBD"},
		Entry{Form: "walked", Category: "VBN"},
		Entry{Form: "walked", Category: "VBD"},
	)
	entries := lex.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Key{"walked", "VBD"}, entries[0].Key())
	assert.Equal(t, Key{"walked", "VBN"}, entries[1].Key())
	assert.Equal(t, Key{"went", "VBD"}, entries[2].Key())
}

func TestFingerprint(t *testing.T) {
	a := NewTable(Entry{Form: "went", Category: "VBD", Lemma: "go"}, Entry{Form: "walked", Category: "VBD"})
	b := NewTable(Entry{Form: "walked", Category: "VBD"}, Entry{Form: "went", Category: "VBD", Lemma: "go"})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	b.Add(Entry{Form: "went", Category: "VBD", Lemma: "goes"})
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestSQLiteRoundTrip(t *testing.T) {
	lex, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "lexicon.db")
	require.NoError(t, SaveSQLite(path, DefaultSQLiteTable, lex))

	loaded, err := LoadSQLite(path, DefaultSQLiteTable)
	require.NoError(t, err)
	assert.Equal(t, lex.Entries(), loaded.Entries())
}

func TestSQLiteInvalidTable(t *testing.T) {
	_, err := LoadSQLite(filepath.Join(t.TempDir(), "x.db"), "lexicon; DROP TABLE x")
	assert.Error(t, err)
}
