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

// Package utterance assembles per-utterance records out of grouped
// transcript fields: speaker, raw text, normalized tokens, morphology
// and the other dependent tiers.
package utterance

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"chatfreq/diag"
	"chatfreq/merror"
	"chatfreq/metadata"
	"chatfreq/mor"
	"chatfreq/surface"
	"chatfreq/transcript"
)

var (
	speakerCleaner = strings.NewReplacer("*", "", ":", "")
	substitutions  = map[string]string{
		"ta":  "to",
		"mhm": "yes",
	}
)

// FileInfo describes the transcript file an utterance comes from
type FileInfo struct {
	Path string

	// AgeMonths is the age (in months) of the target child
	// at the time of the recording
	AgeMonths float64
}

// Utterance is a single utterance along with its analyses.
// Once built, only the Morphology can be changed (see the align
// package).
type Utterance struct {
	Num     int
	Speaker string
	Raw     string

	// Tokens is nil in case the surface parsing failed
	Tokens []string

	// Morphology contains one group per token. It is nil
	// in case the `%mor` tier is missing, cannot be parsed
	// or does not match the tokens.
	Morphology []mor.Group

	// Tiers contains raw payloads of all the dependent tiers
	// (including `%mor`)
	Tiers map[TierKind]string

	// Syntax is the whitespace split `%xgra` tier
	Syntax []string

	// Fields contains the source fields of the utterance
	// (see transcript.UtteranceGroup.Lines)
	Fields []string

	Meta   *metadata.Metadata
	File   string
	Age    float64
	AgeBin int
}

// Usable tells whether the utterance has both tokens and
// morphology available
func (u *Utterance) Usable() bool {
	return u.Tokens != nil && u.Morphology != nil
}

// Role returns the role of the speaker as declared by
// the file metadata.
func (u *Utterance) Role() (string, bool) {
	if u.Meta == nil {
		return "", false
	}
	return u.Meta.Role(u.Speaker)
}

// FixCommas inserts a space before each comma which is not
// already preceded by a whitespace.
func FixCommas(s string) string {
	var sb strings.Builder
	prev := ' '
	for _, r := range s {
		if r == ',' && !unicode.IsSpace(prev) {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

// Tokenize splits the normalized text into tokens and applies
// the fixed lexical substitutions.
func Tokenize(replacement string) []string {
	ans := strings.Fields(replacement)
	for i, tok := range ans {
		if subst, ok := substitutions[tok]; ok {
			ans[i] = subst
		}
	}
	return ans
}

// Builder creates utterances. All the collaborators
// must be set.
type Builder struct {
	Surface surface.Parser
	Mor     mor.Parser
	Diag    diag.Sink
}

// NewBuilder creates a builder with the built-in grammars
func NewBuilder(sink diag.Sink) *Builder {
	return &Builder{
		Surface: surface.ChatParser{},
		Mor:     mor.TierParser{},
		Diag:    sink,
	}
}

func (b *Builder) report(u *Utterance, kind diag.Kind, msg string, details ...string) {
	b.Diag.Report(diag.Entry{
		Kind:      kind,
		File:      u.File,
		Utterance: u.Num,
		Message:   msg,
		Details:   details,
	})
}

// Build creates an utterance out of a group of fields.
// Only fatal problems (unknown tiers, malformed morphology
// groups) are returned as errors, all the other problems
// are reported to the diagnostics sink.
func (b *Builder) Build(
	num int,
	group transcript.UtteranceGroup,
	meta *metadata.Metadata,
	file FileInfo,
) (*Utterance, error) {
	items := strings.Fields(group.Utterance.Text)
	if len(items) == 0 {
		return nil, merror.FormatError{
			Msg:  "empty utterance",
			File: file.Path,
			Line: group.Utterance.Line,
		}
	}
	ans := &Utterance{
		Num:     num,
		Speaker: strings.TrimSpace(speakerCleaner.Replace(items[0])),
		Raw:     FixCommas(strings.Join(items[1:], " ")),
		Tiers:   make(map[TierKind]string),
		Fields:  group.Lines(),
		Meta:    meta,
		File:    file.Path,
		Age:     file.AgeMonths,
		AgeBin:  int(math.Ceil(file.AgeMonths)),
	}

	parsed, err := b.Surface.Parse(ans.Raw)
	if err != nil {
		b.report(ans, diag.KindChatParse, "cannot parse utterance", ans.Raw, err.Error())

	} else {
		ans.Tokens = Tokenize(parsed.Replacement)
	}

	for _, tier := range group.Tiers {
		if err := b.applyTier(ans, tier); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

func (b *Builder) applyTier(u *Utterance, tier transcript.RawField) error {
	kind, tag, payload := SplitTier(tier.Text)
	switch kind {
	case TierMor:
		u.Tiers[kind] = payload
		groups, err := b.Mor.Parse(payload)
		if err != nil {
			if merror.IsFatal(err) {
				return err
			}
			b.report(u, diag.KindMorParse, "cannot parse morphology", payload, err.Error())
			u.Morphology = nil
			return nil
		}
		if len(groups) == 0 {
			b.report(u, diag.KindMorParse, "empty morphology", payload)
			u.Morphology = nil
			return nil
		}
		for i, g := range groups {
			if err := g.Validate(); err != nil {
				return fmt.Errorf("invalid morphology group %d in %q: %w", i, payload, err)
			}
		}
		u.Morphology = groups
	case TierXgra:
		u.Tiers[kind] = payload
		u.Syntax = strings.Fields(payload)
	case TierCom, TierAct, TierInt, TierExp, TierPho, TierSpa, TierPar,
		TierAlt, TierGpx, TierSit, TierAdd, TierErr, TierEng, TierTrn,
		TierXgrt, TierPht, TierGra, TierXpho, TierGrt:
		u.Tiers[kind] = payload
	case TierUnknown:
		return merror.SchemaError{Msg: "unknown tier", Field: "%" + tag}
	default:
		return merror.InternalError{Msg: "unhandled tier kind " + kind.String()}
	}
	return nil
}
