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

package freqs

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	bulkInsertChunkSize = 500
	numExportColumns    = 9
)

var exportTableRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName tests whether the name can be used
// as a plain SQL identifier
func ValidateTableName(table string) error {
	if !exportTableRegexp.MatchString(table) {
		return fmt.Errorf("invalid export table name %q", table)
	}
	return nil
}

// CreateTableSQL returns a DDL for a table ExportToDB
// writes to (MySQL dialect).
func CreateTableSQL(table string) string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s ("+
			"age INT NOT NULL, "+
			"form VARCHAR(100) NOT NULL, "+
			"category VARCHAR(10) NOT NULL, "+
			"lemma VARCHAR(100) NOT NULL, "+
			"stem_transform VARCHAR(50) NOT NULL, "+
			"suffix VARCHAR(50) NOT NULL, "+
			"childes_count INT NOT NULL, "+
			"celex_frequency INT NOT NULL, "+
			"ptb_frequency INT NOT NULL, "+
			"PRIMARY KEY (age, form, category))",
		table,
	)
}

// ExportToDB writes the entries into an SQL table in chunks.
// Existing rows of the table are removed first. The whole
// operation runs in a single transaction.
func ExportToDB(ctx context.Context, db *sql.DB, table string, entries []Entry) error {
	if err := ValidateTableName(table); err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to export frequencies: %w", err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to export frequencies: %w", err)
	}

	i := 0
	valueStrings := make([]string, 0, bulkInsertChunkSize)
	args := make([]any, 0, bulkInsertChunkSize*numExportColumns)

	mkStmt := func() string {
		return fmt.Sprintf(
			"INSERT INTO %s (age, form, category, lemma, stem_transform, suffix, "+
				"childes_count, celex_frequency, ptb_frequency) VALUES %s",
			table, strings.Join(valueStrings, ", "))
	}

	log.Info().Str("table", table).Int("numEntries", len(entries)).Msg("writing frequencies into database")
	t0 := time.Now()

	for _, v := range entries {
		if i == bulkInsertChunkSize {
			if _, err := tx.ExecContext(ctx, mkStmt(), args...); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to export frequencies: %w", err)
			}
			valueStrings = make([]string, 0, bulkInsertChunkSize)
			args = make([]any, 0, bulkInsertChunkSize*numExportColumns)
			i = 0
		}
		args = append(
			args,
			v.Age, v.Form, v.Category, v.Lemma, v.StemTransform, v.Suffix,
			v.CHILDESCount, v.CELEXFrequency, v.PTBFrequency,
		)
		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		i++
	}

	if len(args) > 0 {
		if _, err := tx.ExecContext(ctx, mkStmt(), args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to export frequencies: %w", err)
		}
	}
	err = tx.Commit()
	log.Info().Float64("durationSec", time.Since(t0).Seconds()).Msg("...writing done")
	return err
}
