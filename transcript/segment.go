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

// Package transcript splits CHAT transcript lines into logical
// fields and groups the fields into utterances.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"chatfreq/merror"
)

const (
	byteOrderMark = "\ufeff"

	// maxLineSize limits a single physical line; some
	// transcripts contain very long %pho tiers
	maxLineSize = 4 * 1024 * 1024
)

type FieldKind int

const (
	FieldMetadata FieldKind = iota
	FieldUtterance
	FieldTier
)

func (fk FieldKind) String() string {
	switch fk {
	case FieldMetadata:
		return "metadata"
	case FieldUtterance:
		return "utterance"
	case FieldTier:
		return "tier"
	}
	return fmt.Sprintf("FieldKind(%d)", int(fk))
}

// RawField is a contiguous run of lines starting with one of the
// sigils `@`, `*`, `%` followed by folded continuation lines.
type RawField struct {
	Kind FieldKind

	// Text contains the field with continuation lines
	// joined by a single space (line breaks removed)
	Text string

	// Line is the 1-based line number the field starts at
	Line int
}

func kindOf(c byte) (FieldKind, bool) {
	switch c {
	case '@':
		return FieldMetadata, true
	case '*':
		return FieldUtterance, true
	case '%':
		return FieldTier, true
	}
	return 0, false
}

// Segmenter consumes lines one by one and produces fields.
// It is the streaming variant of Segment.
type Segmenter struct {
	fileName string
	curr     strings.Builder
	currKind FieldKind
	currLine int
	lineNum  int
	fields   []RawField
}

func (s *Segmenter) flush() {
	if s.curr.Len() == 0 {
		return
	}
	s.fields = append(
		s.fields,
		RawField{Kind: s.currKind, Text: s.curr.String(), Line: s.currLine},
	)
	s.curr.Reset()
}

// Feed processes a single line (without the trailing line break)
func (s *Segmenter) Feed(line string) error {
	s.lineNum++
	if s.lineNum == 1 {
		line = strings.TrimPrefix(line, byteOrderMark)
	}
	line = strings.TrimSuffix(line, "\r")
	if len(line) > 0 {
		if kind, ok := kindOf(line[0]); ok {
			s.flush()
			s.currKind = kind
			s.currLine = s.lineNum
			s.curr.WriteString(line)
			return nil
		}
		if line[0] == '\t' && s.curr.Len() > 0 {
			s.curr.WriteString(" ")
			s.curr.WriteString(line)
			return nil
		}
	}
	return merror.FormatError{
		Msg:  "don't know how to handle line",
		File: s.fileName,
		Line: s.lineNum,
		Text: line,
	}
}

// Fields closes the current field and returns all the fields
// collected so far.
func (s *Segmenter) Fields() []RawField {
	s.flush()
	return s.fields
}

func NewSegmenter(fileName string) *Segmenter {
	return &Segmenter{fileName: fileName}
}

// Segment splits the provided lines into fields. Any line not starting
// with `@`, `*`, `%` or a tab continuation is a fatal format error.
func Segment(lines []string) ([]RawField, error) {
	seg := NewSegmenter("")
	for _, line := range lines {
		if err := seg.Feed(line); err != nil {
			return nil, err
		}
	}
	return seg.Fields(), nil
}

// SegmentReader reads and segments all the lines available in r
func SegmentReader(r io.Reader, fileName string) ([]RawField, error) {
	seg := NewSegmenter(fileName)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := seg.Feed(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript %s: %w", fileName, err)
	}
	return seg.Fields(), nil
}

// ReadFile segments a transcript file
func ReadFile(path string) ([]RawField, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()
	return SegmentReader(f, path)
}
