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

package monitoring

import (
	"context"
	"time"

	"chatfreq/corpus"
	"chatfreq/rdb"

	"github.com/czcorpus/hltscl"
	"github.com/rs/zerolog/log"
)

/*
Expected tables:

create table chatfreq_operations_stats (
  "time" timestamp with time zone NOT NULL,
  num_jobs int,
  num_errors int,
  duration_secs float
);
select create_hypertable('chatfreq_operations_stats', 'time');

create table chatfreq_file_stats (
	"time" timestamp with time zone NOT NULL,
	file text,
	corpus text,
	age_months float,
	num_utterances int,
	num_counted int,
	num_length_mismatches int,
	chat_failure_rate float,
	mor_failure_rate float,
	duration_secs float
);
select create_hypertable('chatfreq_file_stats', 'time');

*/

const (
	opsStatsTable  = "chatfreq_operations_stats"
	fileStatsTable = "chatfreq_file_stats"
)

type Conf struct {
	DB hltscl.PgConf `json:"db"`
}

type TimescaleDBWriter struct {
	tableWriter     *hltscl.TableWriter
	opsDataCh       chan<- hltscl.Entry
	errCh           <-chan hltscl.WriteError
	fileTableWriter *hltscl.TableWriter
	fileDataCh      chan<- hltscl.Entry
	fileErrCh       <-chan hltscl.WriteError
	location        *time.Location
}

func (sw *TimescaleDBWriter) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("about to close StatusWriter")
				return
			case err := <-sw.errCh:
				log.Error().
					Err(err.Err).
					Str("entry", err.Entry.String()).
					Str("table", opsStatsTable).
					Msg("error writing data to TimescaleDB")
			case err := <-sw.fileErrCh:
				log.Error().
					Err(err.Err).
					Str("entry", err.Entry.String()).
					Str("table", fileStatsTable).
					Msg("error writing data to TimescaleDB")
			}
		}
	}()
}

func (sw *TimescaleDBWriter) Stop(ctx context.Context) error {
	log.Warn().Msg("stopping StatusWriter")
	return nil
}

func (sw *TimescaleDBWriter) WriteJob(item rdb.JobLog) {
	var numErr int
	if item.HasError() {
		numErr++
	}
	sw.opsDataCh <- *sw.tableWriter.NewEntry(time.Now().In(sw.location)).
		Int("num_jobs", 1).
		Int("num_errors", numErr).
		Float("duration_secs", item.TimeSpent().Seconds())
}

func (sw *TimescaleDBWriter) WriteFileStats(stats corpus.FileStats) {
	sw.fileDataCh <- *sw.fileTableWriter.NewEntry(stats.End.In(sw.location)).
		Str("file", stats.File).
		Str("corpus", stats.Corpus).
		Float("age_months", stats.AgeMonths).
		Int("num_utterances", stats.NumUtterances).
		Int("num_counted", stats.NumCounted).
		Int("num_length_mismatches", stats.NumLengthMismatches).
		Float("chat_failure_rate", stats.ChatFailureRate()).
		Float("mor_failure_rate", stats.MorFailureRate()).
		Float("duration_secs", stats.Duration().Seconds())
}

func NewTimescaleDBWriter(
	ctx context.Context,
	conf hltscl.PgConf,
	tz *time.Location,
) (*TimescaleDBWriter, error) {

	conn, err := hltscl.CreatePool(conf)
	if err != nil {
		return nil, err
	}
	twriter := hltscl.NewTableWriter(conn, opsStatsTable, "time", tz)
	opsDataCh, errCh := twriter.Activate(
		ctx,
		hltscl.WithTimeout(20*time.Second),
	)

	fwriter := hltscl.NewTableWriter(conn, fileStatsTable, "time", tz)
	fileDataCh, fileErrCh := fwriter.Activate(
		ctx,
		hltscl.WithTimeout(20*time.Second),
	)

	return &TimescaleDBWriter{
		tableWriter:     twriter,
		opsDataCh:       opsDataCh,
		errCh:           errCh,
		fileTableWriter: fwriter,
		fileDataCh:      fileDataCh,
		fileErrCh:       fileErrCh,
		location:        tz,
	}, nil
}
