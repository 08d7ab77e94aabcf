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
	"io"
	"net/http"

	"chatfreq/corpus"
	"chatfreq/diag"
	"chatfreq/freqs"
	"chatfreq/rdb"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/unireq"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type freqsResponse struct {
	RunID   string        `json:"runId"`
	Age     int           `json:"age,omitempty"`
	Ages    []int         `json:"ages"`
	Entries []freqs.Entry `json:"entries"`
} // @name FreqsResponse

type diagnosticsResponse struct {
	RunID       string       `json:"runId"`
	Counts      diag.Counts  `json:"counts"`
	Diagnostics []diag.Entry `json:"diagnostics"`

	// Truncated is true if the worker stored only a part
	// of the reported diagnostics
	Truncated bool `json:"truncated"`
} // @name DiagnosticsResponse

type filesResponse struct {
	RunID           string             `json:"runId"`
	Files           []corpus.FileStats `json:"files"`
	NumUtterances   int                `json:"numUtterances"`
	NumCounted      int                `json:"numCounted"`
	ChatFailureRate float64            `json:"chatFailureRate"`
	MorFailureRate  float64            `json:"morFailureRate"`
} // @name FilesResponse

// applyDefaults fills in values the client left unset.
// Paths stay relative to the corpora root, the worker resolves them.
func (a *Actions) applyDefaults(args *rdb.RunArgs) error {
	if args.ManifestPath == "" && len(args.Files) == 0 && a.conf != nil {
		mp, err := a.conf.RelManifestPath()
		if err != nil {
			return err
		}
		args.ManifestPath = mp
	}
	if args.AgeMin == nil && a.dfltArgs.AgeMin != nil {
		args.AgeMin = rdb.AgeLimit(*a.dfltArgs.AgeMin)
	}
	if args.AgeMax == nil && a.dfltArgs.AgeMax != nil {
		args.AgeMax = rdb.AgeLimit(*a.dfltArgs.AgeMax)
	}
	if args.ExcludedRoles == nil {
		args.ExcludedRoles = a.dfltArgs.ExcludedRoles
	}
	if a.conf != nil && a.conf.FailOnUnknownSpeaker {
		args.FailOnUnknownSpeaker = true
	}
	return nil
}

// CreateRun godoc
// @Summary      CreateRun
// @Description  Enqueue a verb counting run. All the arguments are optional, the configured manifest and age window are used by default. Paths are relative to the configured corpora root.
// @Accept       json
// @Produce      json
// @Param        args body rdb.RunArgs false "run arguments"
// @Success      200 {object} rdb.RunStatus
// @Router       /runs [post]
func (a *Actions) CreateRun(ctx *gin.Context) {
	var args rdb.RunArgs
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &args); err != nil {
			uniresp.RespondWithErrorJSON(
				ctx,
				fmt.Errorf("invalid run arguments: %w", err),
				http.StatusBadRequest,
			)
			return
		}
	}
	if err := a.applyDefaults(&args); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if err := args.Validate(); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusUnprocessableEntity)
		return
	}
	if err := args.ValidatePaths(); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusUnprocessableEntity)
		return
	}
	status, err := a.runs.EnqueueRun(args)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	log.Info().Str("runId", status.ID).Msg("run enqueued")
	uniresp.WriteJSONResponse(ctx.Writer, status)
}

// RunStatus godoc
// @Summary      RunStatus
// @Description  Get the current state of a run
// @Produce      json
// @Param        runId path string true "run ID"
// @Success      200 {object} rdb.RunStatus
// @Router       /runs/{runId} [get]
func (a *Actions) RunStatus(ctx *gin.Context) {
	status, err := a.runs.GetRunStatus(ctx.Param("runId"))
	if !HandleRunError(ctx, err) {
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, status)
}

// RunResult godoc
// @Summary      RunResult
// @Description  Get the complete result of a finished run
// @Produce      json
// @Param        runId path string true "run ID"
// @Success      200 {object} results.VerbFreqsResponse
// @Router       /runs/{runId}/result [get]
func (a *Actions) RunResult(ctx *gin.Context) {
	resp, ok := a.loadResultOrFail(ctx)
	if !ok {
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, resp)
}

// RunFreqs godoc
// @Summary      RunFreqs
// @Description  Get the verb frequency table of a finished run, optionally for a single age (in months)
// @Produce      json
// @Param        runId path string true "run ID"
// @Param        age query int false "age of target children in months"
// @Success      200 {object} freqsResponse
// @Router       /runs/{runId}/freqs [get]
func (a *Actions) RunFreqs(ctx *gin.Context) {
	age, ok := unireq.GetURLIntArgOrFail(ctx, "age", -1)
	if !ok {
		return
	}
	resp, ok := a.loadResultOrFail(ctx)
	if !ok {
		return
	}
	ans := freqsResponse{
		RunID: resp.RunID,
		Ages:  resp.Ages(),
	}
	if age >= 0 {
		ans.Age = age
		ans.Entries = resp.ForAge(age)

	} else {
		ans.Entries = resp.Entries
	}
	if ans.Entries == nil {
		ans.Entries = []freqs.Entry{}
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// RunDiagnostics godoc
// @Summary      RunDiagnostics
// @Description  Get diagnostics reported during a run
// @Produce      json
// @Param        runId path string true "run ID"
// @Param        kind query string false "diagnostic kind (e.g. `length-mismatch`, `lexicon-miss`)"
// @Success      200 {object} diagnosticsResponse
// @Router       /runs/{runId}/diagnostics [get]
func (a *Actions) RunDiagnostics(ctx *gin.Context) {
	resp, ok := a.loadResultOrFail(ctx)
	if !ok {
		return
	}
	kind := diag.Kind(ctx.Query("kind"))
	ans := diagnosticsResponse{
		RunID:       resp.RunID,
		Counts:      resp.DiagnosticCounts,
		Diagnostics: resp.DiagnosticsOfKind(kind),
	}
	if ans.Diagnostics == nil {
		ans.Diagnostics = []diag.Entry{}
	}
	total := resp.DiagnosticCounts[kind]
	if kind == "" {
		total = resp.DiagnosticCounts.Total()
	}
	ans.Truncated = total > len(ans.Diagnostics)
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// RunFiles godoc
// @Summary      RunFiles
// @Description  Get per-file statistics of a run
// @Produce      json
// @Param        runId path string true "run ID"
// @Success      200 {object} filesResponse
// @Router       /runs/{runId}/files [get]
func (a *Actions) RunFiles(ctx *gin.Context) {
	resp, ok := a.loadResultOrFail(ctx)
	if !ok {
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, filesResponse{
		RunID:           resp.RunID,
		Files:           resp.Files,
		NumUtterances:   resp.NumUtterances,
		NumCounted:      resp.NumCounted,
		ChatFailureRate: resp.ChatFailureRate,
		MorFailureRate:  resp.MorFailureRate,
	})
}
