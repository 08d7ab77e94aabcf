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
	"chatfreq/corpus"
	"chatfreq/freqs"
	"chatfreq/rdb"
)

// runStore is the part of rdb.Adapter the handlers need
type runStore interface {
	EnqueueRun(args rdb.RunArgs) (rdb.RunStatus, error)
	GetRunStatus(runID string) (rdb.RunStatus, error)
	GetResult(runID string) (*rdb.WorkerResult, error)
}

type Actions struct {
	conf     *corpus.CorporaSetup
	dfltArgs rdb.RunArgs
	runs     runStore
}

func NewActions(
	conf *corpus.CorporaSetup,
	ageWindow freqs.AgeWindow,
	excludedRoles []string,
	runs runStore,
) *Actions {
	return &Actions{
		conf: conf,
		dfltArgs: rdb.RunArgs{
			AgeMin:        rdb.AgeLimit(ageWindow.Min),
			AgeMax:        rdb.AgeLimit(ageWindow.Max),
			ExcludedRoles: excludedRoles,
		},
		runs: runs,
	}
}
