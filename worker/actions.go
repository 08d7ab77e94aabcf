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
	"time"

	"chatfreq/corpus"
	"chatfreq/merror"
	"chatfreq/rdb"
	"chatfreq/results"

	"github.com/rs/zerolog/log"
)

func (w *Worker) setRunState(runID string, state rdb.RunState, runErr error) {
	status, err := w.radapter.GetRunStatus(runID)
	if err != nil {
		log.Error().Err(err).Str("runId", runID).Msg("failed to load run status")
		status = rdb.RunStatus{ID: runID, Created: time.Now()}
	}
	status.State = state
	status.WorkerID = w.ID
	status.Updated = time.Now()
	if runErr != nil {
		status.Error = merror.PublicMessage(runErr)
	}
	if err := w.radapter.SetRunStatus(status); err != nil {
		log.Error().Err(err).Str("runId", runID).Msg("failed to update run status")
	}
}

func (w *Worker) countVerbs(ctx context.Context, runID string, args rdb.RunArgs) *results.VerbFreqs {
	w.setRunState(runID, rdb.RunStateRunning, nil)
	ans := ExecuteRun(ctx, RunSetup{
		RunID:     runID,
		Args:      args,
		Lexicon:   w.lexicon,
		Manifests: w.manifests,
		OnFileDone: func(stats corpus.FileStats) {
			if w.statsLogger != nil {
				w.statsLogger.LogFile(stats)
			}
		},
	})
	if ans.Err() != nil {
		log.Error().Err(ans.Err()).Str("runId", runID).Msg("verb counting run failed")

	} else {
		log.Info().
			Str("runId", runID).
			Int("numFiles", len(ans.Files)).
			Int("numEntries", len(ans.Entries)).
			Msg("verb counting run finished")
	}
	return ans
}
