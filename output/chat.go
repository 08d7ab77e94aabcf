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

package output

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"chatfreq/metadata"
	"chatfreq/utterance"
)

const (
	tierMorphology = "Morphology"
	tierSyntax     = "Syntax"
)

var idItems = []func(p *metadata.Participant) string{
	func(p *metadata.Participant) string { return p.Language },
	func(p *metadata.Participant) string { return p.Corpus },
	func(p *metadata.Participant) string { return p.Code },
	func(p *metadata.Participant) string { return p.Age },
	func(p *metadata.Participant) string { return p.Sex },
	func(p *metadata.Participant) string { return p.Group },
	func(p *metadata.Participant) string { return p.SES },
	func(p *metadata.Participant) string { return p.Role },
	func(p *metadata.Participant) string { return p.Education },
}

// headerLines reconstructs the file header out of the parsed
// metadata. Fields the metadata does not keep are lost.
func headerLines(meta *metadata.Metadata) []string {
	ans := []string{"@UTF8", "@Begin"}
	if meta.Languages != "" {
		ans = append(ans, "@Languages:\t"+meta.Languages)
	}
	codes := slices.Sorted(maps.Keys(meta.Participants))
	if len(codes) > 0 {
		names := make([]string, len(codes))
		for i, code := range codes {
			p := meta.Participants[code]
			names[i] = strings.TrimSpace(strings.Join([]string{code, p.Name, p.Description}, " "))
		}
		ans = append(ans, "@Participants:\t"+strings.Join(names, ", "))
		for _, code := range codes {
			p := meta.Participants[code]
			items := make([]string, len(idItems))
			for i, fn := range idItems {
				items[i] = fn(p)
			}
			ans = append(ans, "@ID:\t"+strings.Join(items, "|")+"|")
		}
	}
	for _, code := range slices.Sorted(maps.Keys(meta.Birth)) {
		ans = append(ans, fmt.Sprintf("@Birth of %s:\t%s", code, meta.Birth[code]))
	}
	if meta.Date != "" {
		ans = append(ans, "@Date:\t"+meta.Date)
	}
	if meta.Location != "" {
		ans = append(ans, "@Location:\t"+meta.Location)
	}
	if meta.Situation != "" {
		ans = append(ans, "@Situation:\t"+meta.Situation)
	}
	for _, w := range meta.Warnings {
		ans = append(ans, "@Warning:\t"+w)
	}
	for _, c := range meta.Comments {
		ans = append(ans, "@Comment:\t"+c)
	}
	return ans
}

func annotationValue(v any) string {
	switch tv := v.(type) {
	case []any:
		items := make([]string, len(tv))
		for i, item := range tv {
			items[i] = fmt.Sprint(item)
		}
		return strings.Join(items, " ")
	case []string:
		return strings.Join(tv, " ")
	}
	return fmt.Sprint(v)
}

// utteranceLines reconstructs the fields of an utterance. The
// source fields are preferred, older dumps without them are
// rendered from the speaker, the raw text and the annotations.
func utteranceLines(rec utterance.Record) []string {
	if len(rec.Fields) > 0 {
		return rec.Fields
	}
	ans := []string{fmt.Sprintf("*%s:\t%s", rec.Speaker, rec.Raw)}
	for _, k := range slices.Sorted(maps.Keys(rec.Annotations)) {
		tag := k
		switch k {
		case tierMorphology:
			tag = utterance.TierMor.String()
		case tierSyntax:
			tag = utterance.TierXgra.String()
		}
		ans = append(ans, fmt.Sprintf("%%%s:\t%s", tag, annotationValue(rec.Annotations[k])))
	}
	return ans
}

// CHATLines converts the dump back to CHAT fields, one
// field per line. The `@End` field is always the last one.
func (tr Transcript) CHATLines() []string {
	var ans []string
	if len(tr.Header) > 0 {
		ans = append(ans, tr.Header...)

	} else if tr.Metadata != nil {
		ans = append(ans, headerLines(tr.Metadata)...)
	}
	for _, rec := range tr.Utterances {
		ans = append(ans, utteranceLines(rec)...)
	}
	if len(ans) == 0 || ans[len(ans)-1] != "@End" {
		ans = append(ans, "@End")
	}
	return ans
}

func WriteCHAT(w io.Writer, tr Transcript) error {
	bw := bufio.NewWriter(w)
	for _, line := range tr.CHATLines() {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write CHAT transcript: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write CHAT transcript: %w", err)
	}
	return nil
}

// CHATPath derives a CHAT file path from a dump path
// (e.g. `adam01.yaml` => `dir/adam01.cha`)
func CHATPath(dir, dumpPath string) string {
	name := filepath.Base(dumpPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, name+".cha")
}

// SaveCHAT writes the dump as a CHAT file into the directory
// and returns path of the created file
func SaveCHAT(dir, dumpPath string, tr Transcript) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create CHAT directory: %w", err)
	}
	path := CHATPath(dir, dumpPath)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to save CHAT transcript: %w", err)
	}
	if err := WriteCHAT(f, tr); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
