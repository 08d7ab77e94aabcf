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

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chatfreq/cnf"
	"chatfreq/general"
	"chatfreq/monitoring"
)

const (
	redisConnectionTestTimeout = 120 * time.Second
)

var (
	version   string
	buildDate string
	gitCommit string
)

type service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

func getEnv(name string) string {
	for _, p := range os.Environ() {
		items := strings.Split(p, "=")
		if len(items) == 2 && items[0] == name {
			return items[1]
		}
	}
	return ""
}

func getRequestOrigin(ctx *gin.Context) string {
	currOrigin, ok := ctx.Request.Header["Origin"]
	if ok {
		return currOrigin[0]
	}
	return ""
}

func additionalLogEvents() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		logging.AddLogEvent(ctx, "userAgent", ctx.Request.UserAgent())
		logging.AddLogEvent(ctx, "runId", ctx.Param("runId"))
		ctx.Next()
	}
}

func CORSMiddleware(conf *cnf.Conf) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if strings.HasSuffix(ctx.Request.URL.Path, "/openapi") {
			ctx.Header("Access-Control-Allow-Origin", "*")
			ctx.Header("Access-Control-Allow-Methods", "GET")
			ctx.Header("Access-Control-Allow-Headers", "Content-Type")

		} else {
			var allowedOrigin string
			currOrigin := getRequestOrigin(ctx)
			for _, origin := range conf.CorsAllowedOrigins {
				if currOrigin == origin {
					allowedOrigin = origin
					break
				}
			}
			if allowedOrigin != "" {
				ctx.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				ctx.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
				ctx.Writer.Header().Set(
					"Access-Control-Allow-Headers",
					"Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With",
				)
				ctx.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
			}

			if ctx.Request.Method == "OPTIONS" {
				ctx.AbortWithStatus(204)
				return
			}
		}
		ctx.Next()
	}
}

func AuthRequired(conf *cnf.Conf) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if len(conf.AuthHeaderName) > 0 && !collections.SliceContains(conf.AuthTokens, ctx.GetHeader(conf.AuthHeaderName)) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		ctx.Next()
	}
}

// newStatsLogger creates a logger of job and file statistics
// which also writes to TimescaleDB if configured
func newStatsLogger(ctx context.Context, conf *cnf.Conf) *monitoring.StatsLogger {
	var sw monitoring.StatusWriter
	if conf.TimescaleDB != nil {
		tsw, err := monitoring.NewTimescaleDBWriter(ctx, conf.TimescaleDB.DB, conf.TimezoneLocation())
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize TimescaleDB writer, statistics will not be stored")

		} else {
			tsw.Start(ctx)
			sw = tsw
		}
	}
	return monitoring.NewStatsLogger(sw, conf.TimezoneLocation())
}

func cleanVersionInfo(v string) string {
	return strings.TrimLeft(strings.Trim(v, "'"), "v")
}

// @title        CHATFREQ API
// @version      1.0
// @description  CHATFREQ computes verb frequency tables from CHILDES CHAT transcripts.
func main() {
	version := general.VersionInfo{
		Version:   cleanVersionInfo(version),
		BuildDate: cleanVersionInfo(buildDate),
		GitCommit: cleanVersionInfo(gitCommit),
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "CHATFREQ - verb frequencies of CHILDES CHAT transcripts\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t%s [options] run [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] transcribe [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] untranscribe [config.json] [dump.yaml|dump dir] [output dir]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] import-lexicon [config.json] [lexicon.csv]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] server [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] worker [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] test [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] version\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	action := flag.Arg(0)
	if action == "version" {
		fmt.Printf("chatfreq %s\nbuild date: %s\nlast commit: %s\n", version.Version, version.BuildDate, version.GitCommit)
		return
	}
	conf := cnf.LoadConfig(flag.Arg(1))

	switch action {
	case "worker":
		var wPath string
		if conf.LogFile != "" {
			wPath = filepath.Join(filepath.Dir(conf.LogFile), "worker.log")
		}
		logging.SetupLogging(logging.LoggingConf{Path: wPath, Level: conf.LogLevel})
		log.Logger = log.Logger.With().Str("worker", getWorkerID()).Logger()
	case "test":
		cnf.ValidateAndDefaults(conf)
		log.Info().Msg("config OK")
		return
	case "import-lexicon":
		logging.SetupLogging(logging.LoggingConf{Path: conf.LogFile, Level: conf.LogLevel})
		importLexicon(conf, flag.Arg(2))
		return
	case "untranscribe":
		logging.SetupLogging(logging.LoggingConf{Path: conf.LogFile, Level: conf.LogLevel})
		runUntranscribe(conf, flag.Arg(2), flag.Arg(3))
		return
	default:
		logging.SetupLogging(logging.LoggingConf{Path: conf.LogFile, Level: conf.LogLevel})
	}

	log.Info().Msg("Starting CHATFREQ")
	cnf.ValidateAndDefaults(conf)

	switch action {
	case "run":
		runCounting(conf)
	case "transcribe":
		runTranscribe(conf)
	case "server":
		runApiServer(conf, version)
	case "worker":
		runWorker(conf)
	default:
		log.Fatal().Msgf("Unknown action %s", action)
	}

}
