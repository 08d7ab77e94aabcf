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

// Package diag provides the append-only sink for non-fatal
// anomalies found while processing transcripts (parse failures,
// alignment mismatches, unknown tag combinations, lexicon misses).
package diag

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

type Kind string

const (
	KindChatParse          Kind = "chat-parse"
	KindMorParse           Kind = "mor-parse"
	KindNilTokenization    Kind = "nil-tokenization"
	KindLengthMismatch     Kind = "length-mismatch"
	KindFormMismatch       Kind = "form-mismatch"
	KindUnknownCombination Kind = "unknown-combination"
	KindLexiconMiss        Kind = "lexicon-miss"
	KindUnknownSpeaker     Kind = "unknown-speaker"
)

// Entry is a single self-describing diagnostic record
type Entry struct {
	Kind      Kind     `json:"kind" yaml:"kind"`
	File      string   `json:"file,omitempty" yaml:"file,omitempty"`
	Utterance int      `json:"utterance,omitempty" yaml:"utterance,omitempty"`
	Message   string   `json:"message" yaml:"message"`
	Details   []string `json:"details,omitempty" yaml:"details,omitempty"`
}

// String renders the entry as one line. Details are
// separated by tabs so the line stays greppable.
func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(e.Kind))
	sb.WriteString("] ")
	if e.File != "" {
		sb.WriteString(e.File)
		if e.Utterance > 0 {
			sb.WriteString(fmt.Sprintf("#%d", e.Utterance))
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	for _, d := range e.Details {
		sb.WriteString("\t")
		sb.WriteString(d)
	}
	return sb.String()
}

type Sink interface {
	Report(entry Entry)
}

// Counts maps diagnostic kinds to number of reported entries
type Counts map[Kind]int

func (c Counts) Total() int {
	var ans int
	for _, v := range c {
		ans += v
	}
	return ans
}

// ---------------------------

// Log writes diagnostics line by line into a writer
// (typically the mismatches file) and keeps per-kind counts.
type Log struct {
	w      *bufio.Writer
	closer io.Closer
	counts Counts
	lock   sync.Mutex
	err    error
}

func (dl *Log) Report(entry Entry) {
	dl.lock.Lock()
	defer dl.lock.Unlock()
	dl.counts[entry.Kind]++
	log.Debug().
		Str("kind", string(entry.Kind)).
		Str("file", entry.File).
		Int("utterance", entry.Utterance).
		Msg(entry.Message)
	if dl.err != nil {
		return
	}
	if _, err := dl.w.WriteString(entry.String() + "\n"); err != nil {
		dl.err = err
		log.Error().Err(err).Msg("failed to write diagnostics entry")
	}
}

func (dl *Log) Counts() Counts {
	dl.lock.Lock()
	defer dl.lock.Unlock()
	ans := make(Counts, len(dl.counts))
	for k, v := range dl.counts {
		ans[k] = v
	}
	return ans
}

// Close flushes buffered entries and closes the underlying
// writer in case it is closable. The writer is closed even if
// flushing or any previous write failed.
func (dl *Log) Close() error {
	dl.lock.Lock()
	defer dl.lock.Unlock()
	var flushErr, closeErr error
	if err := dl.w.Flush(); err != nil {
		flushErr = fmt.Errorf("failed to flush diagnostics: %w", err)
	}
	if dl.closer != nil {
		closeErr = dl.closer.Close()
	}
	return errors.Join(flushErr, dl.err, closeErr)
}

func NewLog(w io.Writer) *Log {
	ans := &Log{
		w:      bufio.NewWriter(w),
		counts: make(Counts),
	}
	if c, ok := w.(io.Closer); ok {
		ans.closer = c
	}
	return ans
}

// ---------------------------

// Memory keeps reported entries in RAM. With a positive Limit,
// entries above the limit are only counted.
type Memory struct {
	Limit   int
	entries []Entry
	counts  Counts
	lock    sync.Mutex
}

func (m *Memory) Report(entry Entry) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.counts == nil {
		m.counts = make(Counts)
	}
	m.counts[entry.Kind]++
	if m.Limit > 0 && len(m.entries) >= m.Limit {
		return
	}
	m.entries = append(m.entries, entry)
}

func (m *Memory) Entries() []Entry {
	m.lock.Lock()
	defer m.lock.Unlock()
	ans := make([]Entry, len(m.entries))
	copy(ans, m.entries)
	return ans
}

func (m *Memory) OfKind(kind Kind) []Entry {
	m.lock.Lock()
	defer m.lock.Unlock()
	ans := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Kind == kind {
			ans = append(ans, e)
		}
	}
	return ans
}

// Counts returns per-kind counts of all the reported
// entries (including the ones above the limit)
func (m *Memory) Counts() Counts {
	m.lock.Lock()
	defer m.lock.Unlock()
	ans := make(Counts, len(m.counts))
	for k, v := range m.counts {
		ans[k] = v
	}
	return ans
}

// ---------------------------

// Tee forwards each entry to all the wrapped sinks
type Tee []Sink

func (t Tee) Report(entry Entry) {
	for _, s := range t {
		s.Report(entry)
	}
}
