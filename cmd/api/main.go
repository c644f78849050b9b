package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	server "stayhub/internal/adapters/http_server"
	"stayhub/internal/adapters/observability"
	redisad "stayhub/internal/adapters/redis"
	"stayhub/internal/app"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
	"stayhub/internal/storage/jsonfile"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	store := jsonfile.New(cfg.DataFile)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache enabled")
	}

	// one writer at a time per document; shared by catalog and uploads
	gate := semaphore.NewWeighted(1)

	catalog := app.NewCatalogService(store, cache, cfg.CacheTTL, gate)
	uploads := app.NewUploadService(store, cache, gate, cfg.UploadDir)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:   catalog,
		Uploads:   uploads,
		UploadDir: cfg.UploadDir,
		UploadRPS: cfg.UploadRPS,
	})

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("data_file", cfg.DataFile).
		Str("upload_dir", cfg.UploadDir).
		Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
