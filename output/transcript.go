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
	"path/filepath"
	"strings"

	"chatfreq/metadata"
	"chatfreq/utterance"

	"github.com/czcorpus/cnc-gokit/collections"
	"gopkg.in/yaml.v3"
)

// Transcript is a serializable dump of a single transcript file
type Transcript struct {
	Metadata *metadata.Metadata `yaml:"metadata" json:"metadata"`

	// Header contains the source `@` fields of the file header
	Header     []string           `yaml:"header,omitempty" json:"header,omitempty"`
	Utterances []utterance.Record `yaml:"utterances" json:"utterances"`
}

func NewTranscript(
	meta *metadata.Metadata,
	header []string,
	utterances []*utterance.Utterance,
) Transcript {
	return Transcript{
		Metadata: meta,
		Header:   header,
		Utterances: collections.SliceMap(
			utterances,
			func(u *utterance.Utterance, i int) utterance.Record {
				return u.Record()
			},
		),
	}
}

func WriteTranscript(w io.Writer, tr Transcript) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tr); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return enc.Close()
}

// ReadTranscript decodes a transcript dump
func ReadTranscript(r io.Reader) (Transcript, error) {
	var ans Transcript
	if err := yaml.NewDecoder(r).Decode(&ans); err != nil {
		return ans, fmt.Errorf("failed to read transcript: %w", err)
	}
	if ans.Metadata == nil {
		return ans, fmt.Errorf("failed to read transcript: no metadata found")
	}
	if ans.Utterances == nil {
		return ans, fmt.Errorf("failed to read transcript: no utterances found")
	}
	return ans, nil
}

// LoadTranscript reads a transcript dump file
func LoadTranscript(path string) (Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to load transcript: %w", err)
	}
	defer f.Close()
	return ReadTranscript(f)
}

// TranscriptPath derives a dump file path from a source
// transcript path (e.g. `adam01.cha` => `dir/adam01.yaml`)
func TranscriptPath(dir, srcPath string) string {
	name := filepath.Base(srcPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, name+".yaml")
}

// SaveTranscript dumps the transcript into the directory and
// returns path of the created file
func SaveTranscript(dir, srcPath string, tr Transcript) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create transcript directory: %w", err)
	}
	path := TranscriptPath(dir, srcPath)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to save transcript: %w", err)
	}
	if err := WriteTranscript(f, tr); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
