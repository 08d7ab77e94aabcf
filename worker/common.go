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

package worker

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"chatfreq/corpus"
	"chatfreq/diag"
	"chatfreq/freqs"
	"chatfreq/lexicon"
	"chatfreq/merror"
	"chatfreq/rdb"
	"chatfreq/results"
	"chatfreq/utterance"
)

// RunSetup specifies everything needed to count verbs
// of a set of transcripts
type RunSetup struct {
	RunID   string
	Args    rdb.RunArgs
	Lexicon lexicon.Lexicon

	// Manifests is optional; without it, manifests are
	// loaded directly
	Manifests *ManifestCache

	// Diag is an optional additional sink (e.g. a mismatches file)
	Diag diag.Sink

	KeepUtterances bool
	OnFile         func(res corpus.FileResult) error
	OnFileDone     func(stats corpus.FileStats)
}

func (setup RunSetup) manifest() (*corpus.Manifest, error) {
	var m *corpus.Manifest
	if setup.Args.ManifestPath != "" {
		var err error
		if setup.Manifests != nil {
			m, err = setup.Manifests.Get(setup.Args.ManifestPath)

		} else {
			m, err = corpus.LoadManifest(setup.Args.ManifestPath)
		}
		if err != nil {
			return nil, err
		}

	} else {
		m = &corpus.Manifest{Files: setup.Args.Files}
	}
	if setup.Args.BaseDir != "" {
		cp := *m
		cp.BaseDir = setup.Args.BaseDir
		m = &cp
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return m, nil
}

func writeFileStamp(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%d\t%d\n", path, info.Size(), info.ModTime().UnixNano())
	return err
}

// InputsFingerprint identifies the current state of everything
// a run reads: the manifest, all the transcripts (by path, size
// and modification time) and the lexicon (if it is able to
// provide a fingerprint).
func InputsFingerprint(setup RunSetup) (string, error) {
	m, err := setup.manifest()
	if err != nil {
		return "", err
	}
	h := sha1.New()
	if setup.Args.ManifestPath != "" {
		if err := writeFileStamp(h, setup.Args.ManifestPath); err != nil {
			return "", err
		}
	}
	for _, fi := range m.Files {
		if err := writeFileStamp(h, m.Path(fi)); err != nil {
			return "", err
		}
	}
	if lex, ok := setup.Lexicon.(interface{ Fingerprint() string }); ok {
		fmt.Fprintf(h, "lexicon\t%s\n", lex.Fingerprint())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ResolveArgs turns the client provided (root relative) paths
// of the arguments into paths of the worker's file system.
// Absolute paths and paths leaving the corpora root produce
// merror.InputError.
func ResolveArgs(args rdb.RunArgs, corpora *corpus.CorporaSetup) (rdb.RunArgs, error) {
	if corpora == nil || corpora.RootDir == "" {
		return args, merror.InternalError{Msg: "corpora root directory not configured"}
	}
	if err := args.ValidatePaths(); err != nil {
		return args, err
	}
	ans := args
	if args.ManifestPath != "" {
		ans.ManifestPath = filepath.Join(corpora.RootDir, args.ManifestPath)
	}
	switch {
	case args.BaseDir != "":
		ans.BaseDir = filepath.Join(corpora.RootDir, args.BaseDir)
	case args.ManifestPath != "":
		if rel, err := corpora.RelManifestPath(); err == nil && rel == filepath.Clean(args.ManifestPath) {
			ans.BaseDir = corpora.BaseDir
		}
	default:
		ans.BaseDir = corpora.RootDir
	}
	return ans, nil
}

// AgeWindow returns the age window of the run. Missing
// limits fall back to the defaults.
func AgeWindow(args rdb.RunArgs) freqs.AgeWindow {
	ans := freqs.DefaultAgeWindow
	if args.AgeMin != nil {
		ans.Min = *args.AgeMin
	}
	if args.AgeMax != nil {
		ans.Max = *args.AgeMax
	}
	return ans
}

// ExecuteRun runs the whole pipeline for all the files of the run
// and joins the resulting frequency table with the lexicon.
// A failure is reported via the Error of the returned result, the
// result still contains statistics of files processed so far.
func ExecuteRun(ctx context.Context, setup RunSetup) *results.VerbFreqs {
	ans := &results.VerbFreqs{RunID: setup.RunID}
	if err := setup.Args.Validate(); err != nil {
		ans.Error = err
		return ans
	}
	manifest, err := setup.manifest()
	if err != nil {
		ans.Error = err
		return ans
	}

	mem := &diag.Memory{Limit: results.MaxStoredDiagnostics}
	var sink diag.Sink = mem
	if setup.Diag != nil {
		sink = diag.Tee{mem, setup.Diag}
	}
	table := freqs.NewTable()
	agg := freqs.NewAggregator(setup.Lexicon, table, sink)
	agg.Window = AgeWindow(setup.Args)
	if setup.Args.ExcludedRoles != nil {
		agg.ExcludedRoles = setup.Args.ExcludedRoles
	}
	proc := &corpus.Processor{
		Builder:              utterance.NewBuilder(sink),
		Aggregator:           agg,
		Diag:                 sink,
		KeepUtterances:       setup.KeepUtterances,
		FailOnUnknownSpeaker: setup.Args.FailOnUnknownSpeaker,
		OnFileDone:           setup.OnFileDone,
	}
	stats, err := proc.Run(ctx, manifest, setup.OnFile)
	ans.Files = stats.Files
	ans.Entries = table.Entries(setup.Lexicon)
	ans.DiagnosticCounts = mem.Counts()
	ans.SetDiagnostics(mem.Entries())
	ans.Error = err
	return ans
}
