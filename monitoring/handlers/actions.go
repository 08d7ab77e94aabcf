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
	"fmt"
	"net/http"

	"chatfreq/monitoring"
	"chatfreq/rdb"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

type timeSpan string

func (ts timeSpan) Validate() error {
	if ts != spanTypeRecent {
		return fmt.Errorf("unknown time span `%s`", ts)
	}
	return nil
}

const (
	spanTypeRecent timeSpan = "recent"
)

// JobLogSource provides job logs shared by all the workers
type JobLogSource interface {
	RecentJobLogs() ([]rdb.JobLog, error)
}

type Actions struct {
	logs JobLogSource
}

// WorkersLoad godoc
// @Summary      WorkersLoad
// @Description  Summarizes recent jobs of all the workers
// @Produce      json
// @Param        span query string false "time span (only `recent` is supported)"
// @Success      200 {object} monitoring.WorkerLoad
// @Router       /monitoring/workers-load [get]
func (a *Actions) WorkersLoad(ctx *gin.Context) {
	span := timeSpan(ctx.DefaultQuery("span", "recent"))
	if err := span.Validate(); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	logs, err := a.logs.RecentJobLogs()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, monitoring.LoadFromLogs(logs, ""))
}

func (a *Actions) SingleWorkerLoad(ctx *gin.Context) {
	workerID := ctx.Param("workerId")
	logs, err := a.logs.RecentJobLogs()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	ans := monitoring.LoadFromLogs(logs, workerID)
	if ans.NumJobs == 0 {
		uniresp.RespondWithErrorJSON(ctx, monitoring.ErrWorkerNotFound, http.StatusNotFound)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func (a *Actions) RecentRecords(ctx *gin.Context) {
	logs, err := a.logs.RecentJobLogs()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, logs)
}

func NewActions(logs JobLogSource) *Actions {
	return &Actions{logs: logs}
}
