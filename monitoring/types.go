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
	"time"

	"chatfreq/rdb"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/collections"
)

// ---

type WorkerLoad struct {
	NumJobs       int
	TotalTimeSecs float64
	NumErrors     int
	FirstUpdate   time.Time
	LastUpdate    time.Time
	NumWorkers    int
}

// TotalSpan returns time span covered by the load info
func (wl WorkerLoad) TotalSpan() time.Duration {
	return wl.LastUpdate.Sub(wl.FirstUpdate)
}

func (wl WorkerLoad) AvgLoad() float64 {
	if wl.TotalTimeSecs == 0 || wl.NumWorkers == 0 || wl.TotalSpan() <= 0 {
		return 0
	}
	return wl.TotalTimeSecs / wl.TotalSpan().Seconds() / float64(wl.NumWorkers)
}

func (wl WorkerLoad) MarshalJSON() ([]byte, error) {
	var t0, t1 *time.Time
	if !wl.FirstUpdate.IsZero() {
		t0 = &wl.FirstUpdate
	}
	if !wl.LastUpdate.IsZero() {
		t1 = &wl.LastUpdate
	}
	return sonic.Marshal(
		struct {
			NumJobs       int        `json:"numJobs"`
			TotalTimeSecs float64    `json:"totalTimeSecs"`
			NumErrors     int        `json:"numErrors"`
			FirstUpdate   *time.Time `json:"firstUpdate,omitempty"`
			LastUpdate    *time.Time `json:"lastUpdate,omitempty"`
			AvgLoad       float64    `json:"avgLoad"`
			NumWorkers    int        `json:"numWorkers"`
		}{
			NumJobs:       wl.NumJobs,
			TotalTimeSecs: wl.TotalTimeSecs,
			NumErrors:     wl.NumErrors,
			FirstUpdate:   t0,
			LastUpdate:    t1,
			AvgLoad:       wl.AvgLoad(),
			NumWorkers:    wl.NumWorkers,
		},
	)
}

// LoadFromLogs summarizes job logs. With a non-empty workerID,
// only the respective worker's jobs are included.
func LoadFromLogs(logs []rdb.JobLog, workerID string) WorkerLoad {
	var ans WorkerLoad
	workers := collections.NewSet[string]()
	for _, item := range logs {
		if workerID != "" && item.WorkerID != workerID {
			continue
		}
		workers.Add(item.WorkerID)
		if ans.FirstUpdate.IsZero() || item.Begin.Before(ans.FirstUpdate) {
			ans.FirstUpdate = item.Begin
		}
		if item.End.After(ans.LastUpdate) {
			ans.LastUpdate = item.End
		}
		if item.HasError() {
			ans.NumErrors++
		}
		ans.NumJobs++
		ans.TotalTimeSecs += item.TimeSpent().Seconds()
	}
	ans.NumWorkers = workers.Size()
	return ans
}

// WorkersLoad maps worker IDs to their load
type WorkersLoad map[string]WorkerLoad

func (wl WorkersLoad) SumLoad(tz *time.Location) WorkerLoad {
	var ans WorkerLoad
	for _, v := range wl {
		if ans.FirstUpdate.IsZero() || v.FirstUpdate.Before(ans.FirstUpdate) {
			ans.FirstUpdate = v.FirstUpdate.In(tz)
		}
		if v.LastUpdate.After(ans.LastUpdate) {
			ans.LastUpdate = v.LastUpdate.In(tz)
		}
		ans.NumJobs += v.NumJobs
		ans.NumErrors += v.NumErrors
		ans.TotalTimeSecs += v.TotalTimeSecs
	}
	ans.NumWorkers = len(wl)
	return ans
}

func (wl WorkersLoad) cleanOldRecords(now time.Time) {
	for k, v := range wl {
		if now.Sub(v.LastUpdate) > StaleWorkerLoadTTL {
			delete(wl, k)
		}
	}
}
