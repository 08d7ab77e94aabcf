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

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatfreq/rdb"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogs struct {
	logs []rdb.JobLog
	err  error
}

func (f *fakeLogs) RecentJobLogs() ([]rdb.JobLog, error) {
	return f.logs, f.err
}

type loadResponse struct {
	NumJobs    int     `json:"numJobs"`
	NumErrors  int     `json:"numErrors"`
	NumWorkers int     `json:"numWorkers"`
	AvgLoad    float64 `json:"avgLoad"`
}

func newTestRouter(src JobLogSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	act := NewActions(src)
	engine := gin.New()
	engine.GET("/monitoring/workers-load", act.WorkersLoad)
	engine.GET("/monitoring/workers-load/:workerId", act.SingleWorkerLoad)
	engine.GET("/monitoring/recent-records", act.RecentRecords)
	return engine
}

func doGet(engine *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func sampleLogs() []rdb.JobLog {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []rdb.JobLog{
		{WorkerID: "w1", Func: rdb.FuncCountVerbs, RunID: "r1", Begin: t0, End: t0.Add(10 * time.Second)},
		{WorkerID: "w2", Func: rdb.FuncCountVerbs, RunID: "r2", Begin: t0.Add(5 * time.Second), End: t0.Add(20 * time.Second)},
		{WorkerID: "w1", Func: rdb.FuncCountVerbs, RunID: "r3", Begin: t0.Add(20 * time.Second), End: t0.Add(30 * time.Second), Error: "manifest not found"},
	}
}

func TestWorkersLoad(t *testing.T) {
	engine := newTestRouter(&fakeLogs{logs: sampleLogs()})
	w := doGet(engine, "/monitoring/workers-load")
	require.Equal(t, http.StatusOK, w.Code)
	var resp loadResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.NumJobs)
	assert.Equal(t, 1, resp.NumErrors)
	assert.Equal(t, 2, resp.NumWorkers)
	assert.InDelta(t, 35.0/30.0/2.0, resp.AvgLoad, 0.0001)
}

func TestWorkersLoadInvalidSpan(t *testing.T) {
	engine := newTestRouter(&fakeLogs{logs: sampleLogs()})
	w := doGet(engine, "/monitoring/workers-load?span=week")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkersLoadSourceError(t *testing.T) {
	engine := newTestRouter(&fakeLogs{err: errors.New("redis down")})
	w := doGet(engine, "/monitoring/workers-load")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSingleWorkerLoad(t *testing.T) {
	engine := newTestRouter(&fakeLogs{logs: sampleLogs()})
	w := doGet(engine, "/monitoring/workers-load/w1")
	require.Equal(t, http.StatusOK, w.Code)
	var resp loadResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.NumJobs)
	assert.Equal(t, 1, resp.NumWorkers)

	w = doGet(engine, "/monitoring/workers-load/w9")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecentRecords(t *testing.T) {
	engine := newTestRouter(&fakeLogs{logs: sampleLogs()})
	w := doGet(engine, "/monitoring/recent-records")
	require.Equal(t, http.StatusOK, w.Code)
	var logs []rdb.JobLog
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 3)
	assert.Equal(t, "manifest not found", logs[2].Error)
}
