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
	"fmt"
	"os"
	"sync"
	"time"

	"chatfreq/corpus"
)

type cachedManifest struct {
	modTime  time.Time
	manifest *corpus.Manifest
}

// ManifestCache keeps loaded manifests until their files change.
// Returned manifests are shared and must not be modified.
type ManifestCache struct {
	data map[string]cachedManifest
	lock sync.Mutex
}

func (mc *ManifestCache) Get(path string) (*corpus.Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	mc.lock.Lock()
	defer mc.lock.Unlock()
	v, ok := mc.data[path]
	if ok && v.modTime.Equal(info.ModTime()) {
		return v.manifest, nil
	}
	m, err := corpus.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	mc.data[path] = cachedManifest{modTime: info.ModTime(), manifest: m}
	return m, nil
}

func NewManifestCache() *ManifestCache {
	return &ManifestCache{
		data: make(map[string]cachedManifest),
	}
}
