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

package cnf

import (
	"os"
	"path/filepath"
	"testing"

	"chatfreq/freqs"
	"chatfreq/output"
	"chatfreq/rdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConf creates a config file along with the files it refers to
func writeConf(t *testing.T, body func(dir string) string) (string, string) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte("files: []\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lexicon.csv"), []byte("form,category\n"), 0644))
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(body(dir)), 0644))
	return dir, path
}

func minimalConf(dir string) string {
	return `{
		"corpora": {"manifestPath": "` + filepath.Join(dir, "manifest.yaml") + `"},
		"lexicon": {"csvPath": "` + filepath.Join(dir, "lexicon.csv") + `"},
		"timeZone": "UTC"
	}`
}

func TestLoadAndDefaults(t *testing.T) {
	dir, path := writeConf(t, minimalConf)
	conf, err := ReadConfig(path)
	require.NoError(t, err)
	require.NoError(t, Validate(conf))
	assert.Equal(t, filepath.Join(dir, dfltOutputFileName), conf.Output.Path)
	assert.Equal(t, output.FormatYAML, conf.Output.Format)
	assert.Equal(t, filepath.Join(dir, dfltDiagnosticsFileName), conf.DiagnosticsPath)
	assert.Equal(t, freqs.DefaultAgeWindow, conf.EffectiveAgeWindow())
	assert.Equal(t, dfltListenPort, conf.ListenPort)
	assert.Equal(t, filepath.Join(dir, "transcripts"), conf.CorporaSetup.TranscriptDir)
	assert.Nil(t, conf.DB)
	assert.Equal(t, path, conf.GetSourcePath())

	args := conf.RunArgs()
	assert.Equal(t, filepath.Join(dir, "manifest.yaml"), args.ManifestPath)
	assert.Equal(t, rdb.AgeLimit(18), args.AgeMin)
	assert.Equal(t, rdb.AgeLimit(60), args.AgeMax)
	assert.NoError(t, args.Validate())
}

func TestOutputFormatFromSuffix(t *testing.T) {
	_, path := writeConf(t, func(dir string) string {
		return `{
		"corpora": {"manifestPath": "` + filepath.Join(dir, "manifest.yaml") + `"},
		"lexicon": {"csvPath": "` + filepath.Join(dir, "lexicon.csv") + `"},
		"output": {"path": "` + filepath.Join(dir, "freqs.xlsx") + `"},
		"ageWindow": {"min": 24, "max": 36},
		"timeZone": "UTC"
	}`
	})
	conf, err := ReadConfig(path)
	require.NoError(t, err)
	require.NoError(t, Validate(conf))
	assert.Equal(t, output.FormatXLSX, conf.Output.Format)
	assert.Equal(t, freqs.AgeWindow{Min: 24, Max: 36}, conf.EffectiveAgeWindow())
}

func TestEnvOverride(t *testing.T) {
	_, path := writeConf(t, minimalConf)
	t.Setenv("CHATFREQ_LISTEN_PORT", "9090")
	conf, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, conf.ListenPort)
}

func TestValidateErrors(t *testing.T) {
	conf := &Conf{TimeZone: "UTC"}
	assert.Error(t, Validate(conf))

	_, path := writeConf(t, func(dir string) string {
		return `{
		"corpora": {"manifestPath": "` + filepath.Join(dir, "manifest.yaml") + `"},
		"lexicon": {"csvPath": "` + filepath.Join(dir, "lexicon.csv") + `"},
		"ageWindow": {"min": 40, "max": 20}
	}`
	})
	conf, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Error(t, Validate(conf))

	conf, err = ReadConfig(path)
	require.NoError(t, err)
	conf.AgeWindow = nil
	conf.Output.Format = "csv"
	assert.Error(t, Validate(conf))

	_, err = ReadConfig("")
	assert.Error(t, err)
}
