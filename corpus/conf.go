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
	"path/filepath"

	"chatfreq/merror"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

// CorporaSetup defines a root configuration of the processed
// transcripts
type CorporaSetup struct {

	// ManifestPath is a path to a YAML list of transcript files
	// along with the age of respective target children
	ManifestPath string `json:"manifestPath"`

	// BaseDir overrides the `baseDir` of the manifest. Relative paths
	// of transcript files are resolved against it.
	BaseDir string `json:"baseDir"`

	// RootDir is a directory all the paths requested by clients
	// of the HTTP API are resolved against. Nothing outside of it
	// can be processed by workers. By default, the directory of
	// ManifestPath is used.
	RootDir string `json:"rootDir"`

	// TranscriptDir is a directory where the `transcribe` action
	// writes its YAML dumps
	TranscriptDir string `json:"transcriptDir"`

	// FailOnUnknownSpeaker turns the unknown speaker diagnostic
	// into a fatal error
	FailOnUnknownSpeaker bool `json:"failOnUnknownSpeaker"`
}

func (cs *CorporaSetup) ValidateAndDefaults(confContext string) error {
	if cs == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if cs.ManifestPath == "" {
		return fmt.Errorf("missing `%s.manifestPath`", confContext)
	}
	isFile, err := fs.IsFile(cs.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to test `%s.manifestPath`: %w", confContext, err)
	}
	if !isFile {
		return fmt.Errorf("`%s.manifestPath` is not a file", confContext)
	}
	if cs.BaseDir != "" {
		isDir, err := fs.IsDir(cs.BaseDir)
		if err != nil {
			return fmt.Errorf("failed to test `%s.baseDir`: %w", confContext, err)
		}
		if !isDir {
			return fmt.Errorf("`%s.baseDir` is not a directory", confContext)
		}
	}
	if cs.RootDir == "" {
		cs.RootDir = filepath.Dir(cs.ManifestPath)
		log.Warn().
			Str("value", cs.RootDir).
			Msgf("`%s.rootDir` not set, using default", confContext)
	}
	isDir, err := fs.IsDir(cs.RootDir)
	if err != nil {
		return fmt.Errorf("failed to test `%s.rootDir`: %w", confContext, err)
	}
	if !isDir {
		return fmt.Errorf("`%s.rootDir` is not a directory", confContext)
	}
	if _, err := cs.RelManifestPath(); err != nil {
		return fmt.Errorf("invalid `%s.manifestPath`: %w", confContext, err)
	}
	if cs.TranscriptDir == "" {
		cs.TranscriptDir = filepath.Join(filepath.Dir(cs.ManifestPath), "transcripts")
		log.Warn().
			Str("value", cs.TranscriptDir).
			Msgf("`%s.transcriptDir` not set, using default", confContext)
	}
	return nil
}

// RelManifestPath returns the path of the configured manifest
// relative to RootDir
func (cs *CorporaSetup) RelManifestPath() (string, error) {
	root, err := filepath.Abs(cs.RootDir)
	if err != nil {
		return "", err
	}
	manifest, err := filepath.Abs(cs.ManifestPath)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, manifest)
	if err != nil || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("manifest %s is outside of the root directory %s", cs.ManifestPath, cs.RootDir)
	}
	return rel, nil
}

// CheckLocalPath tests that the path is relative and that it
// does not leave the directory it is resolved against
func CheckLocalPath(path string) error {
	if !filepath.IsLocal(path) {
		return merror.InputError{
			Msg: fmt.Sprintf("path %q must be relative and must stay within the corpora root", path),
		}
	}
	return nil
}

// ResolvePath joins a client provided path with the root
// directory. Absolute paths and paths leaving the root
// are rejected.
func ResolvePath(root, path string) (string, error) {
	if err := CheckLocalPath(path); err != nil {
		return "", err
	}
	return filepath.Join(root, path), nil
}
