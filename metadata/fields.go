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

package metadata

import (
	"strings"
)

// FieldKind enumerates all the recognized file metadata fields
type FieldKind int

const (
	FieldUnknown FieldKind = iota
	FieldUTF8
	FieldBegin
	FieldEnd
	FieldLanguages
	FieldParticipants
	FieldID
	FieldMedia
	FieldSituation
	FieldWarning
	FieldDate
	FieldComment
	FieldBirth
	FieldLocation
	FieldTapeLocation
	FieldGem
	FieldTimeStart
	FieldActivities
	FieldTimeDuration
	FieldBeginGem
	FieldEndGem
	FieldNewEpisode
	FieldTranscriber
	FieldRoomLayout
	FieldColorWords
	FieldBck
	FieldPID
	FieldFont
	FieldOptions
	FieldTypes
	FieldVideos
	FieldTranscription
	FieldNumber
	FieldRecordingQuality
	FieldPage
	FieldBlank
	FieldExceptions
	FieldWindow
)

const birthPrefix = "@Birth of "

type fieldPrefix struct {
	prefix string
	kind   FieldKind
}

// knownPrefixes is searched in order; an entry without a trailing
// colon also matches the colon variant (e.g. `@Bg` and `@Bg:`).
var knownPrefixes = []fieldPrefix{
	{"@UTF8", FieldUTF8},
	{"@Begin", FieldBegin},
	{"@End", FieldEnd},
	{"@Languages:", FieldLanguages},
	{"@Participants:", FieldParticipants},
	{"@ID:", FieldID},
	{"@Media:", FieldMedia},
	{"@Situation:", FieldSituation},
	{"@Warning:", FieldWarning},
	{"@Date:", FieldDate},
	{"@Comment:", FieldComment},
	{"@Tape Location:", FieldTapeLocation},
	{"@G:", FieldGem},
	{"@Time Start:", FieldTimeStart},
	{"@Location:", FieldLocation},
	{"@Activities:", FieldActivities},
	{"@Time Duration:", FieldTimeDuration},
	{"@Bg", FieldBeginGem},
	{"@Eg", FieldEndGem},
	{"@New Episode", FieldNewEpisode},
	{"@Transcriber:", FieldTranscriber},
	{"@Room Layout:", FieldRoomLayout},
	{"@Color words:", FieldColorWords},
	{"@Bck:", FieldBck},
	{"@PID:", FieldPID},
	{"@Font:", FieldFont},
	{"@Options:", FieldOptions},
	{"@Types:", FieldTypes},
	{"@Videos:", FieldVideos},
	{"@Transcription:", FieldTranscription},
	{"@Number:", FieldNumber},
	{"@Recording Quality:", FieldRecordingQuality},
	{"@Page:", FieldPage},
	{"@Blank", FieldBlank},
	{"@Exceptions:", FieldExceptions},
	{"@Window:", FieldWindow},
}

// Classify finds the kind of a metadata field. For recognized
// kinds, the returned value is the field's payload with the prefix
// removed and surrounding whitespace trimmed. For the `@Birth of XXX:`
// field, the participant code is returned as the third value.
func Classify(field string) (kind FieldKind, value string, code string) {
	if strings.HasPrefix(field, birthPrefix) {
		rest := field[len(birthPrefix):]
		colon := strings.Index(rest, ":")
		if colon > 0 {
			return FieldBirth, strings.TrimSpace(rest[colon+1:]), rest[:colon]
		}
		return FieldUnknown, field, ""
	}
	for _, p := range knownPrefixes {
		if strings.HasPrefix(field, p.prefix) {
			return p.kind, strings.TrimSpace(strings.TrimPrefix(field[len(p.prefix):], ":")), ""
		}
	}
	return FieldUnknown, field, ""
}
