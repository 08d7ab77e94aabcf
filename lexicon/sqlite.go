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
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const DefaultSQLiteTable = "lexicon"

var tableNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateTableName(name string) error {
	if !tableNameRegexp.MatchString(name) {
		return fmt.Errorf("invalid lexicon table name %q", name)
	}
	return nil
}

// LoadSQLite reads a lexicon from an SQLite database table
// (see SaveSQLite for the expected schema)
func LoadSQLite(path, table string) (*Table, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon database: %w", err)
	}
	defer db.Close()
	rows, err := db.Query(fmt.Sprintf(
		"SELECT form, category, lemma, stem_transform, suffix, celex_frequency, ptb_frequency FROM %s",
		table,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon from %s: %w", path, err)
	}
	defer rows.Close()
	ans := NewTable()
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.Form, &e.Category, &e.Lemma, &e.StemTransform,
			&e.Suffix, &e.CELEXFrequency, &e.PTBFrequency,
		); err != nil {
			return nil, fmt.Errorf("failed to load lexicon from %s: %w", path, err)
		}
		ans.Add(e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load lexicon from %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("size", ans.Size()).Msg("loaded lexicon from SQLite")
	return ans, nil
}

// SaveSQLite stores the lexicon into an SQLite database table.
// An existing table is replaced.
func SaveSQLite(path, table string, lex *Table) error {
	if err := validateTableName(table); err != nil {
		return err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open lexicon database: %w", err)
	}
	defer db.Close()
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to save lexicon: %w", err)
	}
	stmts := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", table),
		fmt.Sprintf(
			"CREATE TABLE %s ("+
				"form TEXT NOT NULL, category TEXT NOT NULL, lemma TEXT NOT NULL, "+
				"stem_transform TEXT NOT NULL, suffix TEXT NOT NULL, "+
				"celex_frequency INTEGER NOT NULL, ptb_frequency INTEGER NOT NULL, "+
				"PRIMARY KEY (form, category))",
			table,
		),
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save lexicon: %w", err)
		}
	}
	ins, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (form, category, lemma, stem_transform, suffix, celex_frequency, ptb_frequency) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?)",
		table,
	))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save lexicon: %w", err)
	}
	defer ins.Close()
	for _, e := range lex.Entries() {
		if _, err := ins.Exec(
			e.Form, e.Category, e.Lemma, e.StemTransform,
			e.Suffix, e.CELEXFrequency, e.PTBFrequency,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save lexicon entry %v: %w", e.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to save lexicon: %w", err)
	}
	return nil
}
