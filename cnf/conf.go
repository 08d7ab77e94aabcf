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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chatfreq/corpus"
	"chatfreq/engine"
	"chatfreq/freqs"
	"chatfreq/lexicon"
	"chatfreq/monitoring"
	"chatfreq/output"
	"chatfreq/rdb"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog/log"
)

const (
	dfltServerWriteTimeoutSecs = 30
	dfltTimeZone               = "Europe/Prague"
	dfltOutputFileName         = "verb_freqs.yaml"
	dfltDiagnosticsFileName    = "mismatches.txt"
	dfltListenAddress          = "localhost"
	dfltListenPort             = 8989
)

type OutputConf struct {

	// Path is a path of the resulting frequency table
	Path string `json:"path"`

	// Format is one of `yaml`, `json`, `xlsx`. If omitted,
	// the format is derived from the Path suffix.
	Format output.Format `json:"format"`
}

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string               `json:"listenAddress" env:"CHATFREQ_LISTEN_ADDRESS"`
	ListenPort             int                  `json:"listenPort" env:"CHATFREQ_LISTEN_PORT"`
	ServerReadTimeoutSecs  int                  `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                  `json:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string             `json:"corsAllowedOrigins"`
	CorporaSetup           *corpus.CorporaSetup `json:"corpora"`
	Lexicon                *lexicon.Conf        `json:"lexicon"`
	Output                 OutputConf           `json:"output"`

	// DiagnosticsPath is a text file where all the diagnostics
	// of a `run` are written (one per line)
	DiagnosticsPath string `json:"diagnosticsPath"`

	AgeWindow     *freqs.AgeWindow `json:"ageWindow"`
	ExcludedRoles []string         `json:"excludedRoles"`

	Redis       *rdb.Conf        `json:"redis"`
	DB          *engine.DBConf   `json:"db"`
	TimescaleDB *monitoring.Conf `json:"timescaleDb"`
	LogFile     string           `json:"logFile" env:"CHATFREQ_LOG_FILE"`
	LogLevel    logging.LogLevel `json:"logLevel" env:"CHATFREQ_LOG_LEVEL"`
	TimeZone    string           `json:"timeZone"`

	AuthHeaderName string   `json:"authHeaderName"`
	AuthTokens     []string `json:"authTokens"`

	srcPath string
}

func (conf *Conf) IsDebugMode() bool {
	return conf.LogLevel == "debug"
}

func (conf *Conf) TimezoneLocation() *time.Location {
	// we can ignore the error here as we always call c.Validate()
	// first (which also tries to load the location and report possible
	// error)
	loc, _ := time.LoadLocation(conf.TimeZone)
	return loc
}

// EffectiveAgeWindow returns the configured age window
// or the default one
func (conf *Conf) EffectiveAgeWindow() freqs.AgeWindow {
	if conf.AgeWindow == nil {
		return freqs.DefaultAgeWindow
	}
	return *conf.AgeWindow
}

// RunArgs creates arguments of a verb counting job
// based on the configuration.
func (conf *Conf) RunArgs() rdb.RunArgs {
	win := conf.EffectiveAgeWindow()
	return rdb.RunArgs{
		ManifestPath:         conf.CorporaSetup.ManifestPath,
		BaseDir:              conf.CorporaSetup.BaseDir,
		AgeMin:               rdb.AgeLimit(win.Min),
		AgeMax:               rdb.AgeLimit(win.Max),
		ExcludedRoles:        conf.ExcludedRoles,
		FailOnUnknownSpeaker: conf.CorporaSetup.FailOnUnknownSpeaker,
	}
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

// ReadConfig reads a JSON configuration and applies
// environment variable overrides.
func ReadConfig(path string) (*Conf, error) {
	if path == "" {
		return nil, fmt.Errorf("cannot load config - path not specified")
	}
	var conf Conf
	if err := cleanenv.ReadConfig(path, &conf); err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	conf.srcPath = path
	return &conf, nil
}

func LoadConfig(path string) *Conf {
	conf, err := ReadConfig(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return conf
}

// Validate checks the configuration and fills in default
// values where possible. Sections needed only by some of
// the actions (redis, db, timescaleDb) are validated only
// if present.
func Validate(conf *Conf) error {
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.ListenAddress == "" {
		conf.ListenAddress = dfltListenAddress
		log.Warn().Str("address", conf.ListenAddress).Msg("listenAddress not set, using default")
	}
	if conf.ListenPort == 0 {
		conf.ListenPort = dfltListenPort
		log.Warn().Int("port", conf.ListenPort).Msg("listenPort not set, using default")
	}
	if err := conf.CorporaSetup.ValidateAndDefaults("corpora"); err != nil {
		return err
	}
	if err := conf.Lexicon.ValidateAndDefaults("lexicon"); err != nil {
		return err
	}

	if conf.Output.Path == "" {
		conf.Output.Path = filepath.Join(filepath.Dir(conf.CorporaSetup.ManifestPath), dfltOutputFileName)
		log.Warn().
			Str("value", conf.Output.Path).
			Msg("`output.path` not set, using default")
	}
	isDir, err := fs.IsDir(filepath.Dir(conf.Output.Path))
	if err != nil {
		return fmt.Errorf("failed to test `output.path`: %w", err)
	}
	if !isDir {
		return fmt.Errorf("directory of `output.path` does not exist")
	}
	if conf.Output.Format == "" {
		conf.Output.Format = output.FormatFromPath(conf.Output.Path)
	}
	if err := conf.Output.Format.Validate(); err != nil {
		return fmt.Errorf("invalid `output.format`: %w", err)
	}

	if conf.DiagnosticsPath == "" {
		conf.DiagnosticsPath = filepath.Join(filepath.Dir(conf.Output.Path), dfltDiagnosticsFileName)
		log.Warn().
			Str("value", conf.DiagnosticsPath).
			Msg("`diagnosticsPath` not set, using default")
	}

	if conf.AgeWindow == nil {
		log.Warn().
			Float64("min", freqs.DefaultAgeWindow.Min).
			Float64("max", freqs.DefaultAgeWindow.Max).
			Msg("`ageWindow` not set, using default")

	} else if conf.AgeWindow.Min > conf.AgeWindow.Max {
		return fmt.Errorf("invalid `ageWindow` [%01.1f, %01.1f]", conf.AgeWindow.Min, conf.AgeWindow.Max)
	}

	if conf.Redis != nil {
		if err := conf.Redis.ValidateAndDefaults("redis"); err != nil {
			return err
		}
	}
	if err := conf.DB.ValidateAndDefaults("db"); err != nil {
		return err
	}

	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	if len(conf.AuthTokens) > 0 && conf.AuthHeaderName == "" {
		return fmt.Errorf("`authTokens` require `authHeaderName`")
	}
	return nil
}

func ValidateAndDefaults(conf *Conf) {
	if err := Validate(conf); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
}
