// Copyright 2023 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2023 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chatfreq/freqs"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
)

const (
	dfltFreqsTable = "chatfreq_verb_freqs"
	dfltPoolSize   = 4
)

// DBConf configures an optional export of the frequency
// table into a MySQL/MariaDB database
type DBConf struct {
	Host       string `json:"host"`
	Name       string `json:"name"`
	User       string `json:"user"`
	Password   string `json:"password" env:"CHATFREQ_DB_PASSWORD"`
	PoolSize   int    `json:"poolSize"`
	FreqsTable string `json:"freqsTable"`

	// CreateTable makes the export create the table
	// in case it does not exist
	CreateTable bool `json:"createTable"`
}

func (dbc *DBConf) SafeGetFreqsTable() string {
	if dbc == nil {
		return ""
	}
	return dbc.FreqsTable
}

func (dbc *DBConf) ValidateAndDefaults(confContext string) error {
	if dbc == nil {
		return nil
	}
	if dbc.Host == "" || dbc.Name == "" || dbc.User == "" {
		return fmt.Errorf("`%s` requires `host`, `name` and `user`", confContext)
	}
	if dbc.FreqsTable == "" {
		dbc.FreqsTable = dfltFreqsTable
		log.Warn().
			Str("value", dbc.FreqsTable).
			Msgf("`%s.freqsTable` not set, using default", confContext)
	}
	if err := freqs.ValidateTableName(dbc.FreqsTable); err != nil {
		return fmt.Errorf("invalid `%s.freqsTable`: %w", confContext, err)
	}
	if dbc.PoolSize == 0 {
		dbc.PoolSize = dfltPoolSize
		log.Warn().
			Int("value", dbc.PoolSize).
			Msgf("`%s.poolSize` not set, using default", confContext)
	}
	return nil
}

func Open(conf *DBConf) (*sql.DB, error) {
	mconf := mysql.NewConfig()
	mconf.Net = "tcp"
	mconf.Addr = conf.Host
	mconf.User = conf.User
	mconf.Passwd = conf.Password
	mconf.DBName = conf.Name
	mconf.ParseTime = true
	mconf.Loc = time.Local
	mconf.Params = map[string]string{"autocommit": "true"}
	db, err := sql.Open("mysql", mconf.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(conf.PoolSize)
	return db, nil
}

// ExportFreqs writes the joined frequency table into
// the configured database table
func ExportFreqs(ctx context.Context, conf *DBConf, entries []freqs.Entry) error {
	db, err := Open(conf)
	if err != nil {
		return fmt.Errorf("failed to open export database: %w", err)
	}
	defer db.Close()
	if conf.CreateTable {
		if _, err := db.ExecContext(ctx, freqs.CreateTableSQL(conf.FreqsTable)); err != nil {
			return fmt.Errorf("failed to create export table: %w", err)
		}
	}
	return freqs.ExportToDB(ctx, db, conf.FreqsTable, entries)
}
