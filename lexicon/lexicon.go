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

// Package lexicon provides the reference table of known
// (surface form, tag) pairs.
package lexicon

import (
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	ColForm           = "Form"
	ColCategory       = "Category"
	ColLemma          = "Lemma"
	ColStemTransform  = "StemTransform"
	ColSuffix         = "Suffix"
	ColCELEXFrequency = "CELEXFrequency"
	ColPTBFrequency   = "PTBFrequency"
)

var requiredColumns = []string{ColForm, ColCategory}

// Entry is a single lexicon record. The Category contains
// a tag (VBD, VBZ,...).
type Entry struct {
	Form           string `json:"form" yaml:"Form"`
	Category       string `json:"category" yaml:"Category"`
	Lemma          string `json:"lemma" yaml:"Lemma"`
	StemTransform  string `json:"stemTransform" yaml:"StemTransform"`
	Suffix         string `json:"suffix" yaml:"Suffix"`
	CELEXFrequency int    `json:"celexFrequency" yaml:"CELEXFrequency"`
	PTBFrequency   int    `json:"ptbFrequency" yaml:"PTBFrequency"`
}

type Key struct {
	Form     string
	Category string
}

func (e Entry) Key() Key {
	return Key{Form: e.Form, Category: e.Category}
}

// Lexicon is anything able to look up entries by
// a surface form and a tag
type Lexicon interface {
	Lookup(form, tag string) (Entry, bool)
}

// Table is an in-memory lexicon
type Table struct {
	entries map[Key]Entry
}

func (t *Table) Lookup(form, tag string) (Entry, bool) {
	v, ok := t.entries[Key{Form: form, Category: tag}]
	return v, ok
}

// Add inserts an entry. In case the key is already present,
// the former entry is replaced.
func (t *Table) Add(e Entry) {
	t.entries[e.Key()] = e
}

func (t *Table) Size() int {
	return len(t.entries)
}

// Entries returns all the entries sorted by form and category
func (t *Table) Entries() []Entry {
	ans := make([]Entry, 0, len(t.entries))
	for _, v := range t.entries {
		ans = append(ans, v)
	}
	sort.Slice(ans, func(i, j int) bool {
		if ans[i].Form == ans[j].Form {
			return ans[i].Category < ans[j].Category
		}
		return ans[i].Form < ans[j].Form
	})
	return ans
}

// Fingerprint identifies the contents of the table
func (t *Table) Fingerprint() string {
	h := sha1.New()
	for _, e := range t.Entries() {
		fmt.Fprintf(
			h, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			e.Form, e.Category, e.Lemma, e.StemTransform, e.Suffix,
			e.CELEXFrequency, e.PTBFrequency,
		)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func NewTable(entries ...Entry) *Table {
	ans := &Table{entries: make(map[Key]Entry, len(entries))}
	for _, e := range entries {
		ans.Add(e)
	}
	return ans
}

func parseFreq(v string, line int, col string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	ans, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value of %s on line %d: %w", col, line, err)
	}
	return ans, nil
}

// ReadCSV reads a lexicon from a CSV source with a header line.
// The Form and Category columns are required, the other ones
// are optional.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon header: %w", err)
	}
	cols := make(map[string]int)
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, rc := range requiredColumns {
		if _, ok := cols[rc]; !ok {
			return nil, fmt.Errorf("lexicon is missing the required column %s", rc)
		}
	}
	get := func(rec []string, col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(rec) {
			return ""
		}
		return rec[idx]
	}

	ans := NewTable()
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read lexicon: %w", err)
		}
		entry := Entry{
			Form:          get(rec, ColForm),
			Category:      get(rec, ColCategory),
			Lemma:         get(rec, ColLemma),
			StemTransform: get(rec, ColStemTransform),
			Suffix:        get(rec, ColSuffix),
		}
		if entry.Form == "" {
			continue
		}
		entry.CELEXFrequency, err = parseFreq(get(rec, ColCELEXFrequency), line, ColCELEXFrequency)
		if err != nil {
			return nil, err
		}
		entry.PTBFrequency, err = parseFreq(get(rec, ColPTBFrequency), line, ColPTBFrequency)
		if err != nil {
			return nil, err
		}
		ans.Add(entry)
	}
	return ans, nil
}

// LoadCSV reads a lexicon from a CSV file
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
