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

package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chatfreq/merror"

	"github.com/czcorpus/cnc-gokit/fs"
	"gopkg.in/yaml.v3"
)

// FileInfo describes a single transcript file of a corpus
type FileInfo struct {
	File string `yaml:"file" json:"file"`

	// Corpus is an identifier of the corpus and the child,
	// e.g. `Brown:Adam`
	Corpus string `yaml:"corpus" json:"corpus"`

	// Years and Months specify the age of the target child
	// at the time of the recording
	Years  int `yaml:"years" json:"years"`
	Months int `yaml:"months" json:"months"`
}

// AgeMonths returns the age of the target child in months
func (fi FileInfo) AgeMonths() float64 {
	return float64(fi.Years*12 + fi.Months)
}

// CorpusName returns the top level name of the corpus
// (e.g. `Bloom70` for `Bloom70:Peter`)
func (fi FileInfo) CorpusName() string {
	name, _, _ := strings.Cut(fi.Corpus, ":")
	return name
}

// Manifest is a list of transcript files to be processed
type Manifest struct {
	BaseDir string     `yaml:"baseDir" json:"baseDir"`
	Files   []FileInfo `yaml:"files" json:"files"`
}

// Path returns the full path of a transcript file
func (m *Manifest) Path(fi FileInfo) string {
	if filepath.IsAbs(fi.File) || m.BaseDir == "" {
		return fi.File
	}
	return filepath.Join(m.BaseDir, fi.File)
}

// Validate tests that all the listed files exist and that
// the ages are meaningful
func (m *Manifest) Validate() error {
	if len(m.Files) == 0 {
		return fmt.Errorf("manifest contains no files")
	}
	for i, fi := range m.Files {
		if fi.File == "" {
			return fmt.Errorf("manifest item %d: missing file", i)
		}
		if fi.Years < 0 || fi.Months < 0 || fi.Months > 11 {
			return fmt.Errorf("manifest item %d (%s): invalid age %d;%d", i, fi.File, fi.Years, fi.Months)
		}
		isFile, err := fs.IsFile(m.Path(fi))
		if err != nil {
			return fmt.Errorf("manifest item %d: %w", i, err)
		}
		if !isFile {
			return fmt.Errorf("manifest item %d: file %s not found", i, m.Path(fi))
		}
	}
	return nil
}

// LoadManifest reads a YAML manifest. A relative base directory
// is resolved against the directory of the manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	var ans Manifest
	if err := yaml.Unmarshal(data, &ans); err != nil {
		return nil, merror.DetailedError{
			Msg: fmt.Sprintf("failed to parse manifest %s", path),
			Err: err,
		}
	}
	if !filepath.IsAbs(ans.BaseDir) {
		ans.BaseDir = filepath.Join(filepath.Dir(path), ans.BaseDir)
	}
	return &ans, nil
}
