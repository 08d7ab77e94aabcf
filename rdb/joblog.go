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
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

const (
	DefaultJobLogKey = "chatfreqJobLog"
	jobLogSize       = 100
)

// JobLog describes a single job processed by a worker
type JobLog struct {
	WorkerID string    `json:"workerId"`
	Func     string    `json:"func"`
	RunID    string    `json:"runId"`
	Begin    time.Time `json:"begin"`
	End      time.Time `json:"end"`
	Error    string    `json:"error,omitempty"`
}

func (jl JobLog) TimeSpent() time.Duration {
	return jl.End.Sub(jl.Begin)
}

func (jl JobLog) HasError() bool {
	return jl.Error != ""
}

// LogJob stores the record among recent job logs shared
// by all the workers
func (a *Adapter) LogJob(rec JobLog) error {
	data, err := sonic.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize job log: %w", err)
	}
	if err := a.c.LPush(a.ctx, DefaultJobLogKey, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to store job log: %w", err)
	}
	return a.c.LTrim(a.ctx, DefaultJobLogKey, 0, jobLogSize-1).Err()
}

// RecentJobLogs returns stored job logs, oldest first
func (a *Adapter) RecentJobLogs() ([]JobLog, error) {
	items, err := a.c.LRange(a.ctx, DefaultJobLogKey, 0, jobLogSize-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load job logs: %w", err)
	}
	ans := make([]JobLog, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		var rec JobLog
		if err := sonic.Unmarshal([]byte(items[i]), &rec); err != nil {
			return nil, fmt.Errorf("failed to deserialize job log: %w", err)
		}
		ans = append(ans, rec)
	}
	return ans, nil
}
