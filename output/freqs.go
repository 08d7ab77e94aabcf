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

package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"chatfreq/freqs"

	"github.com/bytedance/sonic"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

const (
	Sheet1 = "Sheet1"
)

// EntryKey identifies an entry within its age bucket
func EntryKey(e freqs.Entry) string {
	return e.Form + "/" + e.Category
}

// ByAge organizes entries into age buckets keyed by EntryKey
func ByAge(entries []freqs.Entry) map[int]map[string]freqs.Entry {
	ans := make(map[int]map[string]freqs.Entry)
	for age, items := range freqs.GroupByAge(entries) {
		bucket := make(map[string]freqs.Entry, len(items))
		for _, item := range items {
			bucket[EntryKey(item)] = item
		}
		ans[age] = bucket
	}
	return ans
}

// WriteFreqs writes the joined frequency table in the specified format
func WriteFreqs(w io.Writer, format Format, entries []freqs.Entry) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ByAge(entries)); err != nil {
			return fmt.Errorf("failed to write frequencies: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		data, err := sonic.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to write frequencies: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatXLSX:
		f, err := freqsWorkbook(entries)
		if err != nil {
			return err
		}
		defer f.Close()
		return f.Write(w)
	}
	return format.Validate()
}

// SaveFreqs writes the table into a file. An empty format
// is derived from the file suffix.
func SaveFreqs(path string, format Format, entries []freqs.Entry) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	if err := format.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save frequencies: %w", err)
	}
	if err := WriteFreqs(f, format, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var xlsxColumns = []struct {
	Name  string
	Col   string
	Width float64
}{
	{"Age", "A", 6},
	{"Form", "B", 18},
	{"Category", "C", 10},
	{"Lemma", "D", 18},
	{"StemTransform", "E", 14},
	{"Suffix", "F", 8},
	{"CHILDESCount", "G", 14},
	{"CELEXFrequency", "H", 16},
	{"PTBFrequency", "I", 14},
}

func xlsxRow(e freqs.Entry) []any {
	return []any{
		e.Age, e.Form, e.Category, e.Lemma, e.StemTransform,
		e.Suffix, e.CHILDESCount, e.CELEXFrequency, e.PTBFrequency,
	}
}

func freqsWorkbook(entries []freqs.Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	headStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   12,
			Family: "Calibri",
			Color:  "#000000",
			Bold:   true,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create xlsx style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   12,
			Family: "Calibri",
			Color:  "#000000",
		},
		Alignment: &excelize.Alignment{
			Vertical: "top",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create xlsx style: %w", err)
	}
	for _, col := range xlsxColumns {
		_ = f.SetColWidth(Sheet1, col.Col, col.Col, col.Width)
		if err := f.SetCellValue(Sheet1, col.Col+"1", col.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write xlsx header: %w", err)
		}
	}
	lastCol := xlsxColumns[len(xlsxColumns)-1].Col
	if err := f.SetCellStyle(Sheet1, "A1", lastCol+"1", headStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set xlsx header style: %w", err)
	}
	for i, e := range entries {
		row := strconv.Itoa(i + 2)
		vals := xlsxRow(e)
		if err := f.SetSheetRow(Sheet1, "A"+row, &vals); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}
	if len(entries) > 0 {
		lastCell := lastCol + strconv.Itoa(len(entries)+1)
		if err := f.SetCellStyle(Sheet1, "A2", lastCell, bodyStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set xlsx style: %w", err)
		}
	}
	return f, nil
}
