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

package corpus

import (
	"context"
	"fmt"
	"time"

	"chatfreq/align"
	"chatfreq/diag"
	"chatfreq/freqs"
	"chatfreq/merror"
	"chatfreq/metadata"
	"chatfreq/transcript"
	"chatfreq/utterance"

	"github.com/rs/zerolog/log"
)

// FileResult is an outcome of processing of a single file
type FileResult struct {
	Stats    FileStats
	Metadata *metadata.Metadata

	// Header contains the `@` fields found before
	// the first utterance
	Header     []string
	Utterances []*utterance.Utterance
}

// Processor runs the whole pipeline (segmentation, metadata,
// utterances, alignment, aggregation) for transcript files.
// Files are processed sequentially and the first fatal
// error stops the run.
type Processor struct {
	Builder    *utterance.Builder
	Aggregator *freqs.Aggregator
	Diag       diag.Sink

	// KeepUtterances makes the processor return all the built
	// utterances within FileResult (used for transcript dumps)
	KeepUtterances bool

	// FailOnUnknownSpeaker makes a speaker missing in
	// the participants table a fatal error
	FailOnUnknownSpeaker bool

	// OnFileDone is called (if set) once a file is processed
	OnFileDone func(stats FileStats)
}

// metadataCache parses metadata snapshots of a single file. All
// the snapshots are prefixes of the same list so their length
// identifies them.
type metadataCache struct {
	lastLen int
	last    *metadata.Metadata
}

func (mc *metadataCache) get(fields []string) (*metadata.Metadata, error) {
	if mc.last != nil && mc.lastLen == len(fields) {
		return mc.last, nil
	}
	meta, err := metadata.Parse(fields)
	if err != nil {
		return nil, err
	}
	mc.last = meta
	mc.lastLen = len(fields)
	return meta, nil
}

// ProcessFile processes a single transcript file
func (p *Processor) ProcessFile(ctx context.Context, path string, info FileInfo) (FileResult, error) {
	ans := FileResult{
		Stats: FileStats{
			File:      path,
			Corpus:    info.Corpus,
			AgeMonths: info.AgeMonths(),
			Begin:     time.Now(),
		},
	}
	fields, err := transcript.ReadFile(path)
	if err != nil {
		return ans, err
	}
	groups, err := transcript.Group(fields)
	if err != nil {
		return ans, annotateFormatError(err, path)
	}
	var cache metadataCache
	ans.Header = transcript.MetadataPrefix(fields)
	ans.Metadata, err = cache.get(ans.Header)
	if err != nil {
		return ans, fmt.Errorf("failed to process file %s: %w", path, err)
	}
	finfo := utterance.FileInfo{Path: path, AgeMonths: info.AgeMonths()}

	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return ans, err
		}
		meta, err := cache.get(group.Metadata)
		if err != nil {
			return ans, fmt.Errorf("failed to process file %s: %w", path, err)
		}
		u, err := p.Builder.Build(i+1, group, meta, finfo)
		if err != nil {
			return ans, fmt.Errorf("failed to process file %s: %w", path, annotateFormatError(err, path))
		}
		ans.Stats.addBuilt(u)
		ans.Stats.addAligned(align.Align(u, p.Diag))
		if p.Aggregator != nil {
			out, err := p.Aggregator.Count(u)
			if err != nil {
				return ans, fmt.Errorf("failed to process file %s: %w", path, err)
			}
			if out.Skipped == freqs.SkipUnknownSpeaker && p.FailOnUnknownSpeaker {
				return ans, merror.SchemaError{
					Msg:   fmt.Sprintf("undeclared speaker in %s, utterance %d", path, u.Num),
					Field: u.Speaker,
				}
			}
			ans.Stats.addOutcome(out)
		}
		if p.KeepUtterances {
			ans.Utterances = append(ans.Utterances, u)
		}
	}
	ans.Stats.End = time.Now()
	log.Info().
		Str("file", path).
		Int("utterances", ans.Stats.NumUtterances).
		Int("counted", ans.Stats.NumCounted).
		Float64("chatFailureRate", ans.Stats.ChatFailureRate()).
		Float64("morFailureRate", ans.Stats.MorFailureRate()).
		Float64("durationSec", ans.Stats.Duration().Seconds()).
		Msg("processed transcript file")
	if p.OnFileDone != nil {
		p.OnFileDone(ans.Stats)
	}
	return ans, nil
}

// Run processes all the files of the manifest
func (p *Processor) Run(ctx context.Context, manifest *Manifest, onFile func(FileResult) error) (RunStats, error) {
	var ans RunStats
	for _, fi := range manifest.Files {
		res, err := p.ProcessFile(ctx, manifest.Path(fi), fi)
		if err != nil {
			return ans, err
		}
		ans.Files = append(ans.Files, res.Stats)
		if onFile != nil {
			if err := onFile(res); err != nil {
				return ans, err
			}
		}
	}
	return ans, nil
}

func annotateFormatError(err error, path string) error {
	if fe, ok := err.(merror.FormatError); ok && fe.File == "" {
		fe.File = path
		return fe
	}
	return err
}
