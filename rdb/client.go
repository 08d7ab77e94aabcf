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

package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	MsgNewQuery                = "newQuery"
	DefaultQueueKey            = "chatfreqQueue"
	DefaultResultChannelPrefix = "chatfreqResults"
	DefaultQueryChannel        = "chatfreqQueries"

	FuncCountVerbs = "countVerbs"
)

var (
	ErrorEmptyQueue = errors.New("no queries in the queue")
	ErrRunNotFound  = errors.New("run not found")
	ErrRunNotDone   = errors.New("run has not finished yet")
)

type Query struct {
	Channel string          `json:"channel"`
	RunID   string          `json:"runId"`
	Func    string          `json:"func"`
	Args    json.RawMessage `json:"args"`
}

func (q Query) ToJSON() (string, error) {
	ans, err := sonic.Marshal(q)
	if err != nil {
		return "", err
	}
	return string(ans), nil
}

func DecodeQuery(q string) (Query, error) {
	var ans Query
	err := sonic.Unmarshal([]byte(q), &ans)
	return ans, err
}

// Adapter provides the job queue, run statuses and run
// results, all backed by Redis
type Adapter struct {
	ctx                 context.Context
	c                   *redis.Client
	channelQuery        string
	channelResultPrefix string
	queueKey            string
	runTTL              time.Duration
	cachePath           string
}

func (a *Adapter) statusKey(runID string) string {
	return fmt.Sprintf("%s:status:%s", a.channelResultPrefix, runID)
}

func (a *Adapter) resultKey(runID string) string {
	return fmt.Sprintf("%s:result:%s", a.channelResultPrefix, runID)
}

// TestConnection pings Redis until it responds or
// the timeout elapses
func (a *Adapter) TestConnection(timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(a.ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		err := a.c.Ping(tctx).Err()
		if err == nil {
			log.Info().Msg("connection to Redis OK")
			return nil
		}
		log.Error().Err(err).Msg("failed to test Redis connection, will try again")
		select {
		case <-tctx.Done():
			return fmt.Errorf("failed to connect to Redis: %w", tctx.Err())
		case <-ticker.C:
		}
	}
}

// EnqueueRun stores a new run in the `queued` state and publishes
// its query for workers
func (a *Adapter) EnqueueRun(args RunArgs) (RunStatus, error) {
	rawArgs, err := sonic.Marshal(args)
	if err != nil {
		return RunStatus{}, fmt.Errorf("failed to enqueue run: %w", err)
	}
	now := time.Now()
	status := RunStatus{
		ID:      uuid.New().String(),
		State:   RunStateQueued,
		Created: now,
		Updated: now,
	}
	query := Query{
		Channel: fmt.Sprintf("%s:%s", a.channelResultPrefix, status.ID),
		RunID:   status.ID,
		Func:    FuncCountVerbs,
		Args:    rawArgs,
	}
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Str("runId", query.RunID).
		Msg("publishing query")

	if err := a.SetRunStatus(status); err != nil {
		return status, err
	}
	msg, err := query.ToJSON()
	if err != nil {
		return status, err
	}
	if err := a.c.LPush(a.ctx, a.queueKey, msg).Err(); err != nil {
		return status, fmt.Errorf("failed to enqueue run: %w", err)
	}
	return status, a.c.Publish(a.ctx, a.channelQuery, MsgNewQuery).Err()
}

func (a *Adapter) DequeueQuery() (Query, error) {
	cmd := a.c.RPop(a.ctx, a.queueKey)
	if cmd.Err() == redis.Nil {
		return Query{}, ErrorEmptyQueue

	} else if cmd.Err() != nil {
		return Query{}, fmt.Errorf("failed to dequeue query: %w", cmd.Err())
	}
	q, err := DecodeQuery(cmd.Val())
	if err != nil {
		return Query{}, fmt.Errorf("failed to deserialize query: %w", err)
	}
	return q, nil
}

func (a *Adapter) SetRunStatus(status RunStatus) error {
	data, err := sonic.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to serialize run status: %w", err)
	}
	if err := a.c.Set(a.ctx, a.statusKey(status.ID), string(data), a.runTTL).Err(); err != nil {
		return fmt.Errorf("failed to store run status: %w", err)
	}
	return nil
}

func (a *Adapter) GetRunStatus(runID string) (RunStatus, error) {
	var ans RunStatus
	cmd := a.c.Get(a.ctx, a.statusKey(runID))
	if cmd.Err() == redis.Nil {
		return ans, ErrRunNotFound

	} else if cmd.Err() != nil {
		return ans, fmt.Errorf("failed to get run status: %w", cmd.Err())
	}
	if err := sonic.Unmarshal([]byte(cmd.Val()), &ans); err != nil {
		return ans, fmt.Errorf("failed to deserialize run status: %w", err)
	}
	return ans, nil
}

// PublishResult stores a finished run result and notifies
// possible listeners of the result channel
func (a *Adapter) PublishResult(channelName string, value *WorkerResult) error {
	log.Debug().
		Str("channel", channelName).
		Str("resultType", value.ResultType.String()).
		Msg("publishing result")
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	key := a.resultKey(value.ID)
	if err := a.c.Set(a.ctx, key, string(data), a.runTTL).Err(); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return a.c.Publish(a.ctx, channelName, key).Err()
}

// GetResult returns a stored result of a finished run
func (a *Adapter) GetResult(runID string) (*WorkerResult, error) {
	cmd := a.c.Get(a.ctx, a.resultKey(runID))
	if cmd.Err() == redis.Nil {
		status, err := a.GetRunStatus(runID)
		if err != nil {
			return nil, err
		}
		if !status.IsDone() {
			return nil, ErrRunNotDone
		}
		return nil, ErrRunNotFound

	} else if cmd.Err() != nil {
		return nil, fmt.Errorf("failed to get run result: %w", cmd.Err())
	}
	ans := new(WorkerResult)
	if err := sonic.Unmarshal([]byte(cmd.Val()), ans); err != nil {
		return nil, fmt.Errorf("failed to deserialize run result: %w", err)
	}
	return ans, nil
}

func (a *Adapter) Subscribe() <-chan *redis.Message {
	sub := a.c.Subscribe(a.ctx, a.channelQuery)
	return sub.Channel()
}

func NewAdapter(conf *Conf, ctx context.Context) *Adapter {
	chRes := conf.ChannelResultPrefix
	chQuery := conf.ChannelQuery
	queueKey := conf.QueueKey
	if chRes == "" {
		chRes = DefaultResultChannelPrefix
		log.Warn().
			Str("channel", chRes).
			Msg("Redis channel for results not specified, using default")
	}
	if chQuery == "" {
		chQuery = DefaultQueryChannel
		log.Warn().
			Str("channel", chQuery).
			Msg("Redis channel for queries not specified, using default")
	}
	if queueKey == "" {
		queueKey = DefaultQueueKey
		log.Warn().
			Str("key", queueKey).
			Msg("Redis queue key not specified, using default")
	}
	return &Adapter{
		c: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
			Password: conf.Password,
			DB:       conf.DB,
		}),
		ctx:                 ctx,
		channelQuery:        chQuery,
		channelResultPrefix: chRes,
		queueKey:            queueKey,
		runTTL:              time.Duration(conf.RunTTLSecs) * time.Second,
		cachePath:           conf.CachePath,
	}
}
