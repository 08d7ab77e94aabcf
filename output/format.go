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

// Package output writes frequency tables and transcript
// dumps produced by a run.
package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

func (f Format) Validate() error {
	switch f {
	case FormatYAML, FormatJSON, FormatXLSX:
		return nil
	}
	return fmt.Errorf("unsupported output format `%s`", f)
}

// FormatFromPath guesses output format based on a file suffix.
// YAML is the fallback.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".xlsx":
		return FormatXLSX
	}
	return FormatYAML
}
