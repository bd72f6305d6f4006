package main

import (
	"context"
	"net/http"

	"songbook/internal/logging"
	"songbook/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fallback := logging.New(logging.Config{})
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	dataStore, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer dataStore.Close()

	if err := dataStore.EnsureSchema(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("prepare schema")
	}

	handler, catalogSvc := newHTTPHandler(cfg, dataStore, logger)

	warmMirror(context.Background(), catalogSvc, logger)

	logger.Info().Str("addr", cfg.Addr).Str("api", cfg.APIBaseURL).Msg("songbook listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
