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
	"fmt"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

const (
	dfltRunTTLSecs = 24 * 3600
)

type Conf struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DB       int    `json:"db"`
	Password string `json:"password" env:"CHATFREQ_REDIS_PASSWORD"`

	ChannelQuery        string `json:"channelQuery"`
	ChannelResultPrefix string `json:"channelResultPrefix"`
	QueueKey            string `json:"queueKey"`

	// RunTTLSecs specifies how long run statuses and results
	// are kept in Redis
	RunTTLSecs int `json:"runTtlSecs"`

	// CachePath is an optional directory where finished run
	// results are stored (keyed by run arguments) so repeated
	// runs with the same arguments are not recalculated
	CachePath string `json:"cachePath"`
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if conf == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if conf.Host == "" {
		return fmt.Errorf("missing `%s.host`", confContext)
	}
	if conf.Port == 0 {
		conf.Port = 6379
		log.Warn().
			Int("value", conf.Port).
			Msgf("`%s.port` not set, using default", confContext)
	}
	if conf.RunTTLSecs == 0 {
		conf.RunTTLSecs = dfltRunTTLSecs
		log.Warn().
			Int("value", conf.RunTTLSecs).
			Msgf("`%s.runTtlSecs` not set, using default", confContext)
	}
	if conf.CachePath != "" {
		isDir, err := fs.IsDir(conf.CachePath)
		if err != nil {
			return fmt.Errorf("failed to test `%s.cachePath`: %w", confContext, err)
		}
		if !isDir {
			return fmt.Errorf("`%s.cachePath` is not a directory", confContext)
		}
	}
	return nil
}
