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
	"fmt"
	"net/http"

	"chatfreq/rdb"
	"chatfreq/results"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

// HandleRunError writes a proper error response for errors
// produced by the run store. It returns true if the error
// was nil (i.e. nothing has been written).
func HandleRunError(ctx *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	status := http.StatusInternalServerError
	if errors.Is(err, rdb.ErrRunNotFound) {
		status = http.StatusNotFound

	} else if errors.Is(err, rdb.ErrRunNotDone) {
		status = http.StatusConflict
	}
	uniresp.WriteJSONErrorResponse(
		ctx.Writer,
		uniresp.NewActionErrorFrom(err),
		status,
	)
	return false
}

func HandleWorkerError(ctx *gin.Context, result *rdb.WorkerResult, resp *results.VerbFreqsResponse) bool {
	if resp.Error == "" {
		return true
	}
	err := errors.New(resp.Error)
	if result.HasUserError {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusBadRequest,
		)

	} else {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
	}
	return false
}

// loadResultOrFail loads a finished run result and decodes it.
// In case of any problem, a proper error response is written
// and false is returned.
func (a *Actions) loadResultOrFail(ctx *gin.Context) (*results.VerbFreqsResponse, bool) {
	wr, err := a.runs.GetResult(ctx.Param("runId"))
	if !HandleRunError(ctx, err) {
		return nil, false
	}
	var ans results.VerbFreqsResponse
	switch wr.ResultType {
	case rdb.ResultTypeVerbFreqs:
		if err := sonic.Unmarshal(wr.Value, &ans); err != nil {
			uniresp.RespondWithErrorJSON(
				ctx,
				fmt.Errorf("failed to decode run result: %w", err),
				http.StatusInternalServerError,
			)
			return nil, false
		}
	case rdb.ResultTypeError:
		var errRes results.ErrorResult
		if err := sonic.Unmarshal(wr.Value, &errRes); err != nil {
			uniresp.RespondWithErrorJSON(
				ctx,
				fmt.Errorf("failed to decode run error: %w", err),
				http.StatusInternalServerError,
			)
			return nil, false
		}
		ans.ResultType = rdb.ResultTypeError
		ans.Error = errRes.Error
	default:
		uniresp.RespondWithErrorJSON(
			ctx,
			fmt.Errorf("unexpected result type: %s", wr.ResultType),
			http.StatusInternalServerError,
		)
		return nil, false
	}
	// cached results may come from a different run
	ans.RunID = wr.ID
	if !HandleWorkerError(ctx, wr, &ans) {
		return nil, false
	}
	return &ans, true
}
