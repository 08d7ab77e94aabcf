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
	"encoding/json"
	"fmt"
	"time"

	"chatfreq/corpus"

	"github.com/bytedance/sonic"
)

const (
	ResultTypeVerbFreqs ResultType = "verbFreqs"
	ResultTypeError     ResultType = "error"
)

type ResultType string // @name ResultType

func (rt ResultType) String() string {
	return string(rt)
}

// ----------------

type FuncResult interface {
	Err() error
	Type() ResultType
}

// WorkerResult is a serialized result of a worker job
// along with its metadata
type WorkerResult struct {
	ID           string          `json:"id"`
	ResultType   ResultType      `json:"resultType"`
	Value        json.RawMessage `json:"value"`
	HasUserError bool            `json:"hasUserError"`
	ProcBegin    time.Time       `json:"procBegin"`
	ProcEnd      time.Time       `json:"procEnd"`
}

// AttachValue serializes a function result and sets it
// as the result value
func (wr *WorkerResult) AttachValue(value FuncResult) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to attach worker result value: %w", err)
	}
	wr.Value = data
	wr.ResultType = value.Type()
	return nil
}

func CreateWorkerResult(id string, value FuncResult) (*WorkerResult, error) {
	ans := &WorkerResult{ID: id}
	if err := ans.AttachValue(value); err != nil {
		return nil, err
	}
	return ans, nil
}

// ----------------

// RunArgs specifies a verb counting job
type RunArgs struct {

	// ManifestPath refers to a manifest file accessible
	// by workers
	ManifestPath string `json:"manifestPath"`

	// Files can be used instead of ManifestPath to specify
	// the transcripts directly (BaseDir is then used to
	// resolve relative paths)
	Files   []corpus.FileInfo `json:"files,omitempty"`
	BaseDir string            `json:"baseDir,omitempty"`

	// AgeMin and AgeMax limit the age window (in months).
	// A missing value means the default limit, zero is
	// a valid limit.
	AgeMin        *float64 `json:"ageMin,omitempty"`
	AgeMax        *float64 `json:"ageMax,omitempty"`
	ExcludedRoles []string `json:"excludedRoles"`

	FailOnUnknownSpeaker bool `json:"failOnUnknownSpeaker"`
}

// AgeLimit creates a value for RunArgs.AgeMin or RunArgs.AgeMax
func AgeLimit(months float64) *float64 {
	return &months
}

func (args RunArgs) Validate() error {
	if args.ManifestPath == "" && len(args.Files) == 0 {
		return fmt.Errorf("either manifestPath or files must be specified")
	}
	if args.ManifestPath != "" && len(args.Files) > 0 {
		return fmt.Errorf("manifestPath and files are mutually exclusive")
	}
	if args.AgeMin != nil && *args.AgeMin < 0 || args.AgeMax != nil && *args.AgeMax < 0 {
		return fmt.Errorf("age limits cannot be negative")
	}
	if args.AgeMin != nil && args.AgeMax != nil && *args.AgeMin > *args.AgeMax {
		return fmt.Errorf("invalid age window [%01.1f, %01.1f]", *args.AgeMin, *args.AgeMax)
	}
	return nil
}

// ValidatePaths tests that all the paths of the arguments are
// relative and that they do not leave the directory they are
// resolved against. Arguments received from API clients must
// pass the test.
func (args RunArgs) ValidatePaths() error {
	if args.ManifestPath != "" {
		if err := corpus.CheckLocalPath(args.ManifestPath); err != nil {
			return err
		}
	}
	if args.BaseDir != "" {
		if err := corpus.CheckLocalPath(args.BaseDir); err != nil {
			return err
		}
	}
	for _, fi := range args.Files {
		if err := corpus.CheckLocalPath(fi.File); err != nil {
			return err
		}
	}
	return nil
}

// ----------------

type RunState string

const (
	RunStateQueued   RunState = "queued"
	RunStateRunning  RunState = "running"
	RunStateFinished RunState = "finished"
	RunStateFailed   RunState = "failed"
)

// RunStatus describes a lifecycle of a single run
type RunStatus struct {
	ID       string    `json:"id"`
	State    RunState  `json:"state"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	WorkerID string    `json:"workerId,omitempty"`
	Error    string    `json:"error,omitempty"`
} // @name RunStatus

func (rs RunStatus) IsDone() bool {
	return rs.State == RunStateFinished || rs.State == RunStateFailed
}
