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
	"embed"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"chatfreq/cnf"
	runActions "chatfreq/corpus/handlers"
	"chatfreq/docs"
	"chatfreq/general"
	monitoringActions "chatfreq/monitoring/handlers"
	"chatfreq/rdb"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type serverInfo struct {
	Name     string              `json:"name"`
	Version  general.VersionInfo `json:"version"`
	Manifest string              `json:"manifest"`
}

type apiServer struct {
	server   *http.Server
	conf     *cnf.Conf
	radapter *rdb.Adapter
	version  general.VersionInfo
}

//go:embed docs/swagger.json
var swaggerJSON embed.FS

func mkServerInfo(conf *cnf.Conf, version general.VersionInfo) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uniresp.WriteJSONResponse(ctx.Writer, serverInfo{
			Name:     "CHATFREQ",
			Version:  version,
			Manifest: conf.CorporaSetup.ManifestPath,
		})
	}
}

func (api *apiServer) Start(ctx context.Context) {
	if !api.conf.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(additionalLogEvents())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(CORSMiddleware(api.conf))
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	protected := engine.Group("/").Use(AuthRequired(api.conf))

	rActions := runActions.NewActions(
		api.conf.CorporaSetup,
		api.conf.EffectiveAgeWindow(),
		api.conf.ExcludedRoles,
		api.radapter,
	)
	mActions := monitoringActions.NewActions(api.radapter)

	engine.GET("/", mkServerInfo(api.conf, api.version))

	docs.SwaggerInfo.Version = api.version.Version
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.GET(
		"/openapi",
		func(ctx *gin.Context) {
			jsonFile, err := swaggerJSON.ReadFile("docs/swagger.json")
			if err != nil {
				err = fmt.Errorf("failed to read Swagger file: %w", err)
				uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
				return
			}
			uniresp.WriteRawJSONResponse(ctx.Writer, jsonFile)
		},
	)

	protected.POST(
		"/runs", rActions.CreateRun)

	engine.GET(
		"/runs/:runId", rActions.RunStatus)

	engine.GET(
		"/runs/:runId/result", rActions.RunResult)

	engine.GET(
		"/runs/:runId/freqs", rActions.RunFreqs)

	engine.GET(
		"/runs/:runId/diagnostics", rActions.RunDiagnostics)

	engine.GET(
		"/runs/:runId/files", rActions.RunFiles)

	engine.GET(
		"/monitoring/workers-load", mActions.WorkersLoad)

	engine.GET(
		"/monitoring/workers-load/:workerId", mActions.SingleWorkerLoad)

	engine.GET(
		"/monitoring/recent-records", mActions.RecentRecords)

	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

}

func (s *apiServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down CHATFREQ HTTP API server")
	return s.server.Shutdown(ctx)
}

// shutdownServices stops all the services, waiting at most
// 10 seconds for them to finish
func shutdownServices(services []service) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range services {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}

func runApiServer(
	conf *cnf.Conf,
	version general.VersionInfo,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if conf.Redis == nil {
		log.Fatal().Msg("the `server` action requires the `redis` configuration section")
		return
	}
	radapter := rdb.NewAdapter(conf.Redis, ctx)
	err := radapter.TestConnection(redisConnectionTestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
		return
	}
	server := newAPIServer(conf, radapter, version)

	services := []service{server}
	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")
	shutdownServices(services)
}

func newAPIServer(
	conf *cnf.Conf,
	radapter *rdb.Adapter,
	version general.VersionInfo,
) *apiServer {
	return &apiServer{
		conf:     conf,
		radapter: radapter,
		version:  version,
	}
}
