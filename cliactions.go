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

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"chatfreq/cnf"
	"chatfreq/corpus"
	"chatfreq/diag"
	"chatfreq/engine"
	"chatfreq/lexicon"
	"chatfreq/monitoring"
	"chatfreq/output"
	"chatfreq/rdb"
	"chatfreq/results"
	"chatfreq/worker"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cliWorkerID = "cli"
)

func logRunSummary(res *results.VerbFreqs) {
	stats := corpus.RunStats{Files: res.Files}
	totals := stats.Totals()
	log.Info().
		Str("runId", res.RunID).
		Int("numFiles", len(res.Files)).
		Int("numUtterances", totals.NumUtterances).
		Int("numCounted", totals.NumCounted).
		Float64("chatFailureRate", results.NormRound(totals.ChatFailureRate())).
		Float64("morFailureRate", results.NormRound(totals.MorFailureRate())).
		Int("numEntries", len(res.Entries)).
		Msg("run finished")
	for kind, num := range res.DiagnosticCounts {
		log.Info().Str("kind", string(kind)).Int("count", num).Msg("diagnostics summary")
	}
}

// executeLogged runs the pipeline and records the job
// along with per-file statistics
func executeLogged(
	ctx context.Context,
	statsLogger *monitoring.StatsLogger,
	setup worker.RunSetup,
) *results.VerbFreqs {
	job := rdb.JobLog{
		WorkerID: cliWorkerID,
		Func:     rdb.FuncCountVerbs,
		RunID:    setup.RunID,
		Begin:    time.Now(),
	}
	setup.OnFileDone = statsLogger.LogFile
	ans := worker.ExecuteRun(ctx, setup)
	job.End = time.Now()
	if ans.Err() != nil {
		job.Error = ans.Err().Error()
	}
	statsLogger.Log(job)
	return ans
}

func loadLexiconOrFail(conf *cnf.Conf) *lexicon.Table {
	lex, err := lexicon.Load(conf.Lexicon)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load lexicon")
	}
	return lex
}

func runCounting(conf *cnf.Conf) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lex := loadLexiconOrFail(conf)
	diagFile, err := os.Create(conf.DiagnosticsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create diagnostics file")
	}
	diagLog := diag.NewLog(diagFile)

	statsLogger := newStatsLogger(ctx, conf)
	statsLogger.Start(ctx)

	res := executeLogged(ctx, statsLogger, worker.RunSetup{
		RunID:   uuid.New().String(),
		Args:    conf.RunArgs(),
		Lexicon: lex,
		Diag:    diagLog,
	})
	if err := diagLog.Close(); err != nil {
		log.Error().Err(err).Msg("failed to write diagnostics")
	}
	log.Info().Str("path", conf.DiagnosticsPath).Msg("diagnostics written")
	if res.Err() != nil {
		log.Fatal().Err(res.Err()).Str("runId", res.RunID).Msg("run failed")
	}
	logRunSummary(res)

	if err := output.SaveFreqs(conf.Output.Path, conf.Output.Format, res.Entries); err != nil {
		log.Fatal().Err(err).Msg("failed to save frequency table")
	}
	log.Info().
		Str("path", conf.Output.Path).
		Str("format", string(conf.Output.Format)).
		Msg("frequency table saved")

	if conf.DB != nil {
		if err := engine.ExportFreqs(ctx, conf.DB, res.Entries); err != nil {
			log.Fatal().Err(err).Msg("failed to export frequency table")
		}
		log.Info().Str("table", conf.DB.SafeGetFreqsTable()).Msg("frequency table exported")
	}
	if err := statsLogger.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop stats logger")
	}
}

func runTranscribe(conf *cnf.Conf) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lex := loadLexiconOrFail(conf)
	statsLogger := newStatsLogger(ctx, conf)
	statsLogger.Start(ctx)
	var numDumped int
	res := executeLogged(ctx, statsLogger, worker.RunSetup{
		RunID:          uuid.New().String(),
		Args:           conf.RunArgs(),
		Lexicon:        lex,
		KeepUtterances: true,
		OnFile: func(fr corpus.FileResult) error {
			path, err := output.SaveTranscript(
				conf.CorporaSetup.TranscriptDir,
				fr.Stats.File,
				output.NewTranscript(fr.Metadata, fr.Header, fr.Utterances),
			)
			if err != nil {
				return err
			}
			numDumped++
			log.Info().
				Str("source", fr.Stats.File).
				Str("path", path).
				Int("numUtterances", len(fr.Utterances)).
				Msg("transcript dumped")
			return nil
		},
	})
	if res.Err() != nil {
		log.Fatal().Err(res.Err()).Msg("transcription failed")
	}
	log.Info().
		Int("numFiles", numDumped).
		Str("dir", conf.CorporaSetup.TranscriptDir).
		Msg("transcription finished")
	if err := statsLogger.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop stats logger")
	}
}

// importLexicon converts a CSV lexicon into the configured
// SQLite database
func importLexicon(conf *cnf.Conf, csvPath string) {
	if conf.Lexicon == nil || conf.Lexicon.SQLitePath == "" {
		log.Fatal().Msg("`lexicon.sqlitePath` must be set to import a lexicon")
	}
	if csvPath == "" {
		csvPath = conf.Lexicon.CSVPath
	}
	if csvPath == "" {
		log.Fatal().Msg("no CSV lexicon specified")
	}
	table := conf.Lexicon.SQLiteTable
	if table == "" {
		table = lexicon.DefaultSQLiteTable
	}
	lex, err := lexicon.LoadCSV(csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load CSV lexicon")
	}
	if err := lexicon.SaveSQLite(conf.Lexicon.SQLitePath, table, lex); err != nil {
		log.Fatal().Err(err).Msg("failed to import lexicon")
	}
	log.Info().
		Str("source", csvPath).
		Str("path", conf.Lexicon.SQLitePath).
		Str("table", table).
		Int("size", lex.Size()).
		Msg("lexicon imported")
}

// dumpFiles returns the transcript dumps to be converted. The
// source can be either a single dump or a directory of dumps.
func dumpFiles(src string) ([]string, error) {
	isDir, err := fs.IsDir(src)
	if err != nil {
		return nil, err
	}
	if !isDir {
		return []string{src}, nil
	}
	files, err := fs.ListFilesInDir(src, false)
	if err != nil {
		return nil, err
	}
	ans := make([]string, 0, files.Len())
	files.ForEach(func(info os.FileInfo, idx int) bool {
		ext := strings.ToLower(filepath.Ext(info.Name()))
		if !info.IsDir() && (ext == ".yaml" || ext == ".yml") {
			ans = append(ans, filepath.Join(src, info.Name()))
		}
		return true
	})
	return ans, nil
}

// runUntranscribe converts transcript dumps back to CHAT files.
// Without an explicit source, the configured transcript directory
// is used. The CHAT files are written next to the dumps unless
// an output directory is specified.
func runUntranscribe(conf *cnf.Conf, src, outDir string) {
	if src == "" && conf.CorporaSetup != nil {
		src = conf.CorporaSetup.TranscriptDir
	}
	if src == "" {
		log.Fatal().Msg("no transcript dump specified")
	}
	paths, err := dumpFiles(src)
	if err != nil {
		log.Fatal().Err(err).Str("source", src).Msg("failed to list transcript dumps")
	}
	for _, dumpPath := range paths {
		tr, err := output.LoadTranscript(dumpPath)
		if err != nil {
			log.Fatal().Err(err).Str("source", dumpPath).Msg("failed to load transcript dump")
		}
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(dumpPath)
		}
		path, err := output.SaveCHAT(dir, dumpPath, tr)
		if err != nil {
			log.Fatal().Err(err).Str("source", dumpPath).Msg("failed to write CHAT transcript")
		}
		log.Info().
			Str("source", dumpPath).
			Str("path", path).
			Int("numUtterances", len(tr.Utterances)).
			Msg("CHAT transcript restored")
	}
	log.Info().Int("numFiles", len(paths)).Msg("untranscription finished")
}
