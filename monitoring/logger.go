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
	"errors"
	"sync"
	"time"

	"chatfreq/corpus"
	"chatfreq/rdb"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"
)

const (
	StaleWorkerLoadTTL = time.Hour * 24
	cleanupInterval    = 60 * time.Second
	recentLogSize      = 100

	// HighFailureRate is a ratio of unparseable utterances
	// considered worth a warning
	HighFailureRate = 0.5
)

var (
	ErrWorkerNotFound = errors.New("worker not found")
)

type StatusWriter interface {
	WriteJob(rec rdb.JobLog)
	WriteFileStats(stats corpus.FileStats)
}

// NullStatusWriter is used when no persistent
// statistics storage is configured
type NullStatusWriter struct{}

func (n *NullStatusWriter) WriteJob(rec rdb.JobLog) {}

func (n *NullStatusWriter) WriteFileStats(stats corpus.FileStats) {}

// ---

// StatsLogger collects worker jobs and per-file processing
// statistics. Recent records are kept in memory, all of them
// are passed to a StatusWriter.
type StatsLogger struct {
	loadData     WorkersLoad
	dataLock     sync.RWMutex
	recentLog    *collections.CircularList[rdb.JobLog]
	recentFiles  *collections.CircularList[corpus.FileStats]
	tz           *time.Location
	statusWriter StatusWriter
}

func (w *StatsLogger) Log(rec rdb.JobLog) {
	w.dataLock.Lock()
	defer w.dataLock.Unlock()

	entry, ok := w.loadData[rec.WorkerID]
	if !ok {
		entry.FirstUpdate = rec.Begin
		entry.NumWorkers = 1
	}
	entry.NumJobs++
	entry.LastUpdate = rec.End
	if rec.HasError() {
		entry.NumErrors++
	}
	entry.TotalTimeSecs += rec.TimeSpent().Seconds()
	w.loadData[rec.WorkerID] = entry
	w.recentLog.Append(rec)
	w.statusWriter.WriteJob(rec)
}

// LogFile records statistics of a processed transcript file.
// Files with a high ratio of parsing failures are reported.
func (w *StatsLogger) LogFile(stats corpus.FileStats) {
	w.dataLock.Lock()
	w.recentFiles.Append(stats)
	w.dataLock.Unlock()
	if stats.ChatFailureRate() > HighFailureRate || stats.MorFailureRate() > HighFailureRate {
		log.Warn().
			Str("file", stats.File).
			Float64("chatFailureRate", stats.ChatFailureRate()).
			Float64("morFailureRate", stats.MorFailureRate()).
			Msg("high ratio of unparseable utterances")
	}
	w.statusWriter.WriteFileStats(stats)
}

func (w *StatsLogger) TotalLoad() WorkerLoad {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	return w.loadData.SumLoad(w.tz)
}

func (w *StatsLogger) RecentRecords() []rdb.JobLog {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	ans := make([]rdb.JobLog, w.recentLog.Len())
	w.recentLog.ForEach(func(i int, item rdb.JobLog) bool {
		ans[i] = item
		return true
	})
	return ans
}

func (w *StatsLogger) RecentLoad() WorkerLoad {
	return LoadFromLogs(w.RecentRecords(), "")
}

func (w *StatsLogger) RecentFiles() []corpus.FileStats {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	ans := make([]corpus.FileStats, w.recentFiles.Len())
	w.recentFiles.ForEach(func(i int, item corpus.FileStats) bool {
		ans[i] = item
		return true
	})
	return ans
}

func (w *StatsLogger) TotalWorkerLoad(workerID string) (WorkerLoad, error) {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	ans, ok := w.loadData[workerID]
	if !ok {
		return ans, ErrWorkerNotFound
	}
	return ans, nil
}

func (w *StatsLogger) Start(ctx context.Context) {
	log.Info().Msg("starting stats logger")
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("requesting stats logger stop")
				return
			case <-ticker.C:
				w.dataLock.Lock()
				w.loadData.cleanOldRecords(time.Now())
				w.dataLock.Unlock()
			}
		}
	}()
}

func (w *StatsLogger) Stop(ctx context.Context) error {
	log.Info().Msg("shutting down stats logger")
	return nil
}

func NewStatsLogger(
	statusWriter StatusWriter,
	tz *time.Location,
) *StatsLogger {
	if statusWriter == nil {
		statusWriter = &NullStatusWriter{}
	}
	return &StatsLogger{
		loadData:     make(WorkersLoad),
		recentLog:    collections.NewCircularList[rdb.JobLog](recentLogSize),
		recentFiles:  collections.NewCircularList[corpus.FileStats](recentLogSize),
		statusWriter: statusWriter,
		tz:           tz,
	}
}
