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

// Package metadata parses the CHAT file header fields (`@...`)
// into a structured record.
package metadata

import (
	"strings"

	"chatfreq/merror"
)

const (
	EncodingUTF8 = "utf8"

	idNumPositions = 9
)

// Participant describes a single speaker. The basic properties
// come from the `@Participants` field, the rest is filled in by
// a respective `@ID` field.
type Participant struct {
	Code        string `json:"code" yaml:"Code"`
	Name        string `json:"name" yaml:"Name"`
	Description string `json:"description" yaml:"Description"`
	Language    string `json:"language" yaml:"Language"`
	Corpus      string `json:"corpus" yaml:"Corpus"`
	Age         string `json:"age" yaml:"Age"`
	Sex         string `json:"sex" yaml:"Sex"`
	Group       string `json:"group" yaml:"Group"`
	SES         string `json:"ses" yaml:"SES"`
	Role        string `json:"role" yaml:"Role"`
	Education   string `json:"education" yaml:"Education"`
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (p *Participant) mergeID(items []string) {
	setIfNotEmpty(&p.Language, items[0])
	setIfNotEmpty(&p.Corpus, items[1])
	setIfNotEmpty(&p.Age, items[3])
	setIfNotEmpty(&p.Sex, items[4])
	setIfNotEmpty(&p.Group, items[5])
	setIfNotEmpty(&p.SES, items[6])
	setIfNotEmpty(&p.Role, items[7])
	setIfNotEmpty(&p.Education, items[8])
}

// Metadata is a parsed file header
type Metadata struct {
	Encoding     string                  `json:"encoding" yaml:"encoding"`
	Participants map[string]*Participant `json:"participants" yaml:"participants"`
	Languages    string                  `json:"languages" yaml:"languages"`
	Situation    string                  `json:"situation" yaml:"situation"`
	Warnings     []string                `json:"warnings" yaml:"warnings"`
	Date         string                  `json:"date" yaml:"date"`
	Comments     []string                `json:"comments" yaml:"comments"`
	Birth        map[string]string       `json:"birth" yaml:"birth"`
	Location     string                  `json:"location" yaml:"location"`
}

// Role returns a role of a participant identified by the code.
// The second value is false if there is no such participant.
func (m *Metadata) Role(code string) (string, bool) {
	p, ok := m.Participants[code]
	if !ok {
		return "", false
	}
	return p.Role, true
}

func (m *Metadata) participant(code string) *Participant {
	p, ok := m.Participants[code]
	if !ok {
		p = &Participant{Code: code}
		m.Participants[code] = p
	}
	return p
}

func (m *Metadata) applyParticipants(value string) {
	for _, item := range strings.Split(value, ",") {
		parts := strings.Fields(item)
		if len(parts) == 0 {
			continue
		}
		p := m.participant(parts[0])
		if len(parts) > 1 {
			p.Name = parts[1]
		}
		if len(parts) > 2 {
			p.Description = parts[2]
		}
	}
}

func (m *Metadata) applyID(value string) {
	items := make([]string, idNumPositions)
	for i, v := range strings.Split(value, "|") {
		if i >= idNumPositions {
			break
		}
		items[i] = strings.TrimSpace(v)
	}
	if items[2] == "" {
		return
	}
	p := m.participant(items[2])
	p.mergeID(items)
}

// Apply processes a single metadata field. Unknown fields
// produce merror.SchemaError.
func (m *Metadata) Apply(field string) error {
	field = strings.ReplaceAll(field, "\t", " ")
	kind, value, code := Classify(field)
	switch kind {
	case FieldUTF8:
		m.Encoding = EncodingUTF8
	case FieldLanguages:
		m.Languages = value
	case FieldParticipants:
		m.applyParticipants(value)
	case FieldID:
		m.applyID(value)
	case FieldSituation:
		m.Situation = value
	case FieldWarning:
		m.Warnings = append(m.Warnings, value)
	case FieldDate:
		m.Date = value
	case FieldComment:
		m.Comments = append(m.Comments, value)
	case FieldBirth:
		m.Birth[code] = value
	case FieldLocation:
		m.Location = value
	case FieldBegin, FieldEnd, FieldMedia, FieldTapeLocation, FieldGem,
		FieldTimeStart, FieldActivities, FieldTimeDuration, FieldBeginGem,
		FieldEndGem, FieldNewEpisode, FieldTranscriber, FieldRoomLayout,
		FieldColorWords, FieldBck, FieldPID, FieldFont, FieldOptions,
		FieldTypes, FieldVideos, FieldTranscription, FieldNumber,
		FieldRecordingQuality, FieldPage, FieldBlank, FieldExceptions,
		FieldWindow:
		// recognized, nothing to store
	case FieldUnknown:
		return merror.SchemaError{Msg: "unknown metadata field", Field: field}
	default:
		return merror.InternalError{Msg: "unhandled metadata field kind for " + field}
	}
	return nil
}

func New() *Metadata {
	return &Metadata{
		Participants: make(map[string]*Participant),
		Birth:        make(map[string]string),
		Warnings:     []string{},
		Comments:     []string{},
	}
}

// Parse creates a metadata record out of a list of
// raw `@` fields.
func Parse(fields []string) (*Metadata, error) {
	ans := New()
	for _, f := range fields {
		if err := ans.Apply(f); err != nil {
			return nil, err
		}
	}
	return ans, nil
}
