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
	"errors"
	"fmt"
	"math/rand"
	"time"

	"chatfreq/corpus"
	"chatfreq/lexicon"
	"chatfreq/merror"
	"chatfreq/rdb"
	"chatfreq/results"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTickerInterval = 2 * time.Second
)

type jobLogger interface {
	Log(rec rdb.JobLog)
}

type fileStatsLogger interface {
	LogFile(stats corpus.FileStats)
}

// jobQueue is the part of rdb.Adapter a worker needs
type jobQueue interface {
	DequeueQuery() (rdb.Query, error)
	PublishResult(channelName string, value *rdb.WorkerResult) error
	GetRunStatus(runID string) (rdb.RunStatus, error)
	SetRunStatus(status rdb.RunStatus) error
	CachedResult(args rdb.RunArgs, inputsID string) (*rdb.WorkerResult, bool)
	CacheResult(args rdb.RunArgs, inputsID string, result *rdb.WorkerResult) error
	LogJob(rec rdb.JobLog) error
}

type Worker struct {
	ID          string
	messages    <-chan *redis.Message
	radapter    jobQueue
	ticker      *time.Ticker
	jobLogger   jobLogger
	statsLogger fileStatsLogger
	lexicon     lexicon.Lexicon
	corpora     *corpus.CorporaSetup
	manifests   *ManifestCache
	currJobLog  *rdb.JobLog
}

func (w *Worker) finishJobLog(jobErr error) {
	if w.currJobLog == nil {
		return
	}
	w.currJobLog.End = time.Now()
	if jobErr != nil {
		w.currJobLog.Error = merror.PublicMessage(jobErr)
	}
	w.jobLogger.Log(*w.currJobLog)
	if err := w.radapter.LogJob(*w.currJobLog); err != nil {
		log.Error().Err(err).Msg("failed to store job log")
	}
	w.currJobLog = nil
}

func (w *Worker) publishResult(query rdb.Query, res rdb.FuncResult) (*rdb.WorkerResult, error) {
	ans, err := rdb.CreateWorkerResult(query.RunID, res)
	if err != nil {
		return nil, err
	}
	if w.currJobLog != nil {
		ans.ProcBegin = w.currJobLog.Begin
	}
	ans.ProcEnd = time.Now()
	w.finishJobLog(res.Err())
	state := rdb.RunStateFinished
	if res.Err() != nil {
		state = rdb.RunStateFailed
		// failed runs with a regular result type are caused
		// by the processed data, not by the worker
		ans.HasUserError = res.Type() != rdb.ResultTypeError
	}
	if err := w.radapter.PublishResult(query.Channel, ans); err != nil {
		return ans, err
	}
	w.setRunState(query.RunID, state, res.Err())
	return ans, nil
}

func (w *Worker) sendPublishingErr(query rdb.Query, err error) {
	ans := &results.ErrorResult{Func: query.Func, Error: merror.PublicMessage(err)}
	if _, err := w.publishResult(query, ans); err != nil {
		log.Error().Err(err).Msg("failed to publish general publishing error")
	}
}

func (w *Worker) runQueryProtected(ctx context.Context, query rdb.Query) (ansErr error) {
	defer func() {
		if r := recover(); r != nil {
			ansErr = merror.RecoveredError{Msg: merror.PanicValueToErr(r).Error()}
			return
		}
	}()
	switch query.Func {
	case rdb.FuncCountVerbs:
		var args rdb.RunArgs
		if err := sonic.Unmarshal(query.Args, &args); err != nil {
			w.sendPublishingErr(query, fmt.Errorf("invalid run arguments: %w", err))
			return err
		}
		args, err := ResolveArgs(args, w.corpora)
		if err != nil {
			var inputErr merror.InputError
			if errors.As(err, &inputErr) {
				_, err = w.publishResult(query, &results.VerbFreqs{RunID: query.RunID, Error: err})
				return err
			}
			w.sendPublishingErr(query, err)
			return err
		}
		inputsID, err := InputsFingerprint(
			RunSetup{Args: args, Lexicon: w.lexicon, Manifests: w.manifests})
		cacheable := err == nil
		if !cacheable {
			log.Warn().Err(err).Str("runId", query.RunID).Msg("cannot fingerprint run inputs, skipping cache")
		}
		if cacheable {
			if cached, ok := w.radapter.CachedResult(args, inputsID); ok {
				log.Info().Str("runId", query.RunID).Msg("using cached result")
				cached.ID = query.RunID
				if err := w.radapter.PublishResult(query.Channel, cached); err != nil {
					return err
				}
				w.finishJobLog(nil)
				w.setRunState(query.RunID, rdb.RunStateFinished, nil)
				return nil
			}
		}
		ans := w.countVerbs(ctx, query.RunID, args)
		wr, err := w.publishResult(query, ans)
		if err != nil {
			w.sendPublishingErr(query, err)
			return err
		}
		if cacheable {
			if err := w.radapter.CacheResult(args, inputsID, wr); err != nil {
				log.Error().Err(err).Msg("failed to cache run result")
			}
		}
	default:
		ans := &results.ErrorResult{Error: fmt.Sprintf("unknown query function: %s", query.Func)}
		if _, err := w.publishResult(query, ans); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) tryNextQuery(ctx context.Context) error {

	time.Sleep(time.Duration(rand.Intn(40)) * time.Millisecond)
	query, err := w.radapter.DequeueQuery()
	if err == rdb.ErrorEmptyQueue {
		return nil

	} else if err != nil {
		return err
	}
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Str("runId", query.RunID).
		Msg("received query")

	w.currJobLog = &rdb.JobLog{
		WorkerID: w.ID,
		Func:     query.Func,
		RunID:    query.RunID,
		Begin:    time.Now(),
	}

	err = w.runQueryProtected(ctx, query)
	var rcvErr merror.RecoveredError
	if errors.As(err, &rcvErr) {
		ans := &results.ErrorResult{
			Error: fmt.Sprintf("worker panicked: %s", rcvErr.Error()),
			Func:  query.Func,
		}
		if _, err := w.publishResult(query, ans); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) Listen(ctx context.Context) {
	for {
		select {
		case <-w.ticker.C:
			if err := w.tryNextQuery(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process query")
			}
		case <-ctx.Done():
			log.Info().Msg("worker exiting")
			return
		case msg := <-w.messages:
			if msg.Payload == rdb.MsgNewQuery {
				if err := w.tryNextQuery(ctx); err != nil {
					log.Error().Err(err).Msg("failed to process query")
				}
			}
		}
	}
}

func (w *Worker) Start(ctx context.Context) {
	go w.Listen(ctx)
}

func (w *Worker) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down worker")
	w.ticker.Stop()
	return nil
}

func NewWorker(
	workerID string,
	radapter jobQueue,
	messages <-chan *redis.Message,
	jobLogger jobLogger,
	statsLogger fileStatsLogger,
	lex lexicon.Lexicon,
	corpora *corpus.CorporaSetup,
) *Worker {
	return &Worker{
		ID:          workerID,
		radapter:    radapter,
		messages:    messages,
		ticker:      time.NewTicker(DefaultTickerInterval),
		jobLogger:   jobLogger,
		statsLogger: statsLogger,
		lexicon:     lex,
		corpora:     corpora,
		manifests:   NewManifestCache(),
	}
}
