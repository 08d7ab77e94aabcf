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
	"errors"
	"os"
	"testing"
	"time"

	"chatfreq/corpus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dummyResult struct {
	Value string `json:"value"`
	Error error  `json:"-"`
}

func (r dummyResult) Err() error {
	return r.Error
}

func (r dummyResult) Type() ResultType {
	if r.Error != nil {
		return ResultTypeError
	}
	return ResultTypeVerbFreqs
}

func TestQueryRoundTrip(t *testing.T) {
	q := Query{Channel: "ch:1", RunID: "1", Func: FuncCountVerbs, Args: []byte(`{"ageMin":18}`)}
	s, err := q.ToJSON()
	require.NoError(t, err)
	q2, err := DecodeQuery(s)
	require.NoError(t, err)
	assert.Equal(t, q.Channel, q2.Channel)
	assert.Equal(t, q.RunID, q2.RunID)
	assert.JSONEq(t, `{"ageMin":18}`, string(q2.Args))
}

func TestCreateWorkerResult(t *testing.T) {
	wr, err := CreateWorkerResult("run1", dummyResult{Value: "x"})
	require.NoError(t, err)
	assert.Equal(t, "run1", wr.ID)
	assert.Equal(t, ResultTypeVerbFreqs, wr.ResultType)
	assert.JSONEq(t, `{"value":"x"}`, string(wr.Value))

	wr, err = CreateWorkerResult("run2", dummyResult{Error: errors.New("boom")})
	require.NoError(t, err)
	assert.Equal(t, ResultTypeError, wr.ResultType)
}

func TestRunArgsValidate(t *testing.T) {
	assert.Error(t, RunArgs{}.Validate())
	assert.NoError(t, RunArgs{ManifestPath: "/data/manifest.yaml"}.Validate())
	assert.Error(t, RunArgs{
		ManifestPath: "/data/manifest.yaml",
		Files:        []corpus.FileInfo{{File: "a.cha"}},
	}.Validate())
	assert.Error(t, RunArgs{ManifestPath: "m.yaml", AgeMin: AgeLimit(40), AgeMax: AgeLimit(20)}.Validate())
	assert.Error(t, RunArgs{ManifestPath: "m.yaml", AgeMin: AgeLimit(-1)}.Validate())
	assert.NoError(t, RunArgs{Files: []corpus.FileInfo{{File: "a.cha"}}, AgeMin: AgeLimit(20)}.Validate())
	assert.NoError(t, RunArgs{ManifestPath: "m.yaml", AgeMin: AgeLimit(0), AgeMax: AgeLimit(12)}.Validate())
}

func TestRunArgsValidatePaths(t *testing.T) {
	assert.NoError(t, RunArgs{ManifestPath: "brown/manifest.yaml", BaseDir: "brown"}.ValidatePaths())
	assert.NoError(t, RunArgs{Files: []corpus.FileInfo{{File: "brown/adam01.cha"}}}.ValidatePaths())
	assert.Error(t, RunArgs{ManifestPath: "/data/manifest.yaml"}.ValidatePaths())
	assert.Error(t, RunArgs{ManifestPath: "../manifest.yaml"}.ValidatePaths())
	assert.Error(t, RunArgs{ManifestPath: "m.yaml", BaseDir: "brown/../../etc"}.ValidatePaths())
	assert.Error(t, RunArgs{Files: []corpus.FileInfo{{File: "/etc/passwd"}}}.ValidatePaths())
	assert.Error(t, RunArgs{Files: []corpus.FileInfo{{File: "a.cha"}, {File: "../secret.txt"}}}.ValidatePaths())
}

func TestRunStatusIsDone(t *testing.T) {
	assert.False(t, RunStatus{State: RunStateQueued}.IsDone())
	assert.False(t, RunStatus{State: RunStateRunning}.IsDone())
	assert.True(t, RunStatus{State: RunStateFinished}.IsDone())
	assert.True(t, RunStatus{State: RunStateFailed}.IsDone())
}

func TestResultCache(t *testing.T) {
	a := &Adapter{cachePath: t.TempDir()}
	args := RunArgs{ManifestPath: "manifest.yaml", AgeMin: AgeLimit(18), AgeMax: AgeLimit(60)}
	_, ok := a.CachedResult(args, "inputs1")
	assert.False(t, ok)

	wr, err := CreateWorkerResult("run1", dummyResult{Value: "cached"})
	require.NoError(t, err)
	require.NoError(t, a.CacheResult(args, "inputs1", wr))

	cached, ok := a.CachedResult(args, "inputs1")
	require.True(t, ok)
	assert.Equal(t, "run1", cached.ID)
	assert.JSONEq(t, `{"value":"cached"}`, string(cached.Value))

	_, ok = a.CachedResult(args, "inputs2")
	assert.False(t, ok)

	args.AgeMax = AgeLimit(50)
	_, ok = a.CachedResult(args, "inputs1")
	assert.False(t, ok)
}

func TestResultCacheExpires(t *testing.T) {
	a := &Adapter{cachePath: t.TempDir(), runTTL: time.Hour}
	args := RunArgs{ManifestPath: "manifest.yaml"}
	wr, err := CreateWorkerResult("run1", dummyResult{Value: "cached"})
	require.NoError(t, err)
	require.NoError(t, a.CacheResult(args, "inputs1", wr))
	_, ok := a.CachedResult(args, "inputs1")
	require.True(t, ok)

	path, err := a.cacheFilePath(args, "inputs1")
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	_, ok = a.CachedResult(args, "inputs1")
	assert.False(t, ok)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestResultCacheSkipsErrors(t *testing.T) {
	a := &Adapter{cachePath: t.TempDir()}
	args := RunArgs{ManifestPath: "m.yaml"}
	wr, err := CreateWorkerResult("run1", dummyResult{Error: errors.New("boom")})
	require.NoError(t, err)
	require.NoError(t, a.CacheResult(args, "", wr))
	_, ok := a.CachedResult(args, "")
	assert.False(t, ok)
}

func TestConfValidateAndDefaults(t *testing.T) {
	var conf *Conf
	assert.Error(t, conf.ValidateAndDefaults("redis"))
	conf = &Conf{Host: "localhost"}
	require.NoError(t, conf.ValidateAndDefaults("redis"))
	assert.Equal(t, 6379, conf.Port)
	assert.Equal(t, dfltRunTTLSecs, conf.RunTTLSecs)
	conf.CachePath = "/nonexistent/chatfreq/cache"
	assert.Error(t, conf.ValidateAndDefaults("redis"))
}
