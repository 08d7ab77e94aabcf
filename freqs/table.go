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

// Package freqs counts resolved (verb, tag) occurrences
// bucketed by age.
package freqs

import (
	"sort"
	"sync"

	"chatfreq/lexicon"
	"chatfreq/tagger"
)

// VerbTag is a key of the frequency table within an age bucket
type VerbTag struct {
	Verb string     `json:"verb"`
	Tag  tagger.Tag `json:"tag"`
}

// Table maps age buckets to (verb, tag) counts. It only
// grows and it is safe for concurrent use.
type Table struct {
	data map[int]map[VerbTag]int
	lock sync.RWMutex
}

func (t *Table) Add(age int, key VerbTag, val int) {
	t.lock.Lock()
	defer t.lock.Unlock()
	bucket, ok := t.data[age]
	if !ok {
		bucket = make(map[VerbTag]int)
		t.data[age] = bucket
	}
	bucket[key] += val
}

func (t *Table) Get(age int, key VerbTag) int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.data[age][key]
}

// Ages returns sorted age buckets
func (t *Table) Ages() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	ans := make([]int, 0, len(t.data))
	for k := range t.data {
		ans = append(ans, k)
	}
	sort.Ints(ans)
	return ans
}

// Size returns number of all the (age, verb, tag) cells
func (t *Table) Size() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	var ans int
	for _, bucket := range t.data {
		ans += len(bucket)
	}
	return ans
}

// Snapshot returns a deep copy of the table data
func (t *Table) Snapshot() map[int]map[VerbTag]int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	ans := make(map[int]map[VerbTag]int, len(t.data))
	for age, bucket := range t.data {
		cp := make(map[VerbTag]int, len(bucket))
		for k, v := range bucket {
			cp[k] = v
		}
		ans[age] = cp
	}
	return ans
}

// Entry is a frequency table item joined with its
// lexicon record
type Entry struct {
	CHILDESCount   int    `json:"childesCount" yaml:"CHILDESCount"`
	Age            int    `json:"age" yaml:"Age"`
	Form           string `json:"form" yaml:"Form"`
	Category       string `json:"category" yaml:"Category"`
	Lemma          string `json:"lemma" yaml:"Lemma"`
	StemTransform  string `json:"stemTransform" yaml:"StemTransform"`
	Suffix         string `json:"suffix" yaml:"Suffix"`
	CELEXFrequency int    `json:"celexFrequency" yaml:"CELEXFrequency"`
	PTBFrequency   int    `json:"ptbFrequency" yaml:"PTBFrequency"`
}

// Entries joins the table with the lexicon. The result is sorted
// by age, form and category.
func (t *Table) Entries(lex lexicon.Lexicon) []Entry {
	ans := make([]Entry, 0, t.Size())
	for age, bucket := range t.Snapshot() {
		for k, count := range bucket {
			item := Entry{
				CHILDESCount: count,
				Age:          age,
				Form:         k.Verb,
				Category:     string(k.Tag),
			}
			if lex != nil {
				if le, ok := lex.Lookup(k.Verb, string(k.Tag)); ok {
					item.Form = le.Form
					item.Category = le.Category
					item.Lemma = le.Lemma
					item.StemTransform = le.StemTransform
					item.Suffix = le.Suffix
					item.CELEXFrequency = le.CELEXFrequency
					item.PTBFrequency = le.PTBFrequency
				}
			}
			ans = append(ans, item)
		}
	}
	sort.Slice(ans, func(i, j int) bool {
		if ans[i].Age != ans[j].Age {
			return ans[i].Age < ans[j].Age
		}
		if ans[i].Form != ans[j].Form {
			return ans[i].Form < ans[j].Form
		}
		return ans[i].Category < ans[j].Category
	})
	return ans
}

// GroupByAge organizes entries by their age buckets
func GroupByAge(entries []Entry) map[int][]Entry {
	ans := make(map[int][]Entry)
	for _, e := range entries {
		ans[e.Age] = append(ans[e.Age], e)
	}
	return ans
}

func NewTable() *Table {
	return &Table{data: make(map[int]map[VerbTag]int)}
}
