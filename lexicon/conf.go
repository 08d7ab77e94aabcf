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

package lexicon

import (
	"fmt"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

// Conf specifies a lexicon source. Exactly one of CSVPath
// and SQLitePath must be set.
type Conf struct {
	CSVPath     string `json:"csvPath"`
	SQLitePath  string `json:"sqlitePath"`
	SQLiteTable string `json:"sqliteTable"`
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if conf == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if (conf.CSVPath == "") == (conf.SQLitePath == "") {
		return fmt.Errorf("exactly one of `%s.csvPath`, `%s.sqlitePath` must be set", confContext, confContext)
	}
	path := conf.CSVPath
	if path == "" {
		path = conf.SQLitePath
	}
	isFile, err := fs.IsFile(path)
	if err != nil {
		return fmt.Errorf("failed to test lexicon file %s: %w", path, err)
	}
	if !isFile {
		return fmt.Errorf("lexicon file %s not found", path)
	}
	if conf.SQLitePath != "" && conf.SQLiteTable == "" {
		conf.SQLiteTable = DefaultSQLiteTable
		log.Warn().
			Str("value", conf.SQLiteTable).
			Msgf("`%s.sqliteTable` not set, using default", confContext)
	}
	return nil
}

// Load reads the lexicon from a configured source
func Load(conf *Conf) (*Table, error) {
	var ans *Table
	var err error
	if conf.CSVPath != "" {
		ans, err = LoadCSV(conf.CSVPath)

	} else {
		ans, err = LoadSQLite(conf.SQLitePath, conf.SQLiteTable)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int("numEntries", ans.Size()).Msg("loaded lexicon")
	return ans, nil
}
