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
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

// cacheFilePath derives the cache file from the run arguments
// and from the fingerprint of the input files (see
// worker.InputsFingerprint) so a change of any transcript,
// manifest or the lexicon produces a different file.
func (a *Adapter) cacheFilePath(args RunArgs, inputsID string) (string, error) {
	rawArgs, err := sonic.Marshal(args)
	if err != nil {
		return "", err
	}
	h := sha1.New()
	h.Write(rawArgs)
	h.Write([]byte(inputsID))
	return filepath.Join(a.cachePath, FuncCountVerbs+hex.EncodeToString(h.Sum(nil))), nil
}

// isExpired tells whether a cache file outlived the configured
// run TTL. With no TTL, cache files never expire.
func (a *Adapter) isExpired(path string) bool {
	if a.runTTL <= 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) > a.runTTL
}

// CachedResult looks for a result of a previous run with the
// same arguments and the same input files. With no cache path
// configured, nothing is ever found. Expired entries are removed.
func (a *Adapter) CachedResult(args RunArgs, inputsID string) (*WorkerResult, bool) {
	if a.cachePath == "" {
		return nil, false
	}
	path, err := a.cacheFilePath(args, inputsID)
	if err != nil {
		log.Error().Err(err).Msg("failed to determine cache file")
		return nil, false
	}
	if isf, _ := fs.IsFile(path); !isf {
		return nil, false
	}
	if a.isExpired(path) {
		if err := os.Remove(path); err != nil {
			log.Error().Err(err).Msgf("failed to remove expired cache file %s", path)
		}
		return nil, false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Msgf("Error while reading cache file %s", path)
		return nil, false
	}
	ans := new(WorkerResult)
	if err := sonic.Unmarshal(content, ans); err != nil {
		log.Error().Err(err).Msgf("Error while decoding cache file %s", path)
		return nil, false
	}
	return ans, true
}

// CacheResult stores a successful result so runs with
// the same arguments and inputs can reuse it
func (a *Adapter) CacheResult(args RunArgs, inputsID string, result *WorkerResult) error {
	if a.cachePath == "" || result.HasUserError || result.ResultType == ResultTypeError {
		return nil
	}
	path, err := a.cacheFilePath(args, inputsID)
	if err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	data, err := sonic.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}
