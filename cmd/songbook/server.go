package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"songbook/internal/app/catalog"
	"songbook/internal/app/favorites"
	"songbook/internal/app/history"
	"songbook/internal/app/suggest"
	"songbook/internal/http/middleware"
	"songbook/internal/httpapi"
	"songbook/internal/songapi"
	"songbook/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, logger zerolog.Logger) (http.Handler, *catalog.Service) {
	apiClient := songapi.NewClient(cfg.APIBaseURL, logger.With().Str("component", "songapi").Logger())

	// Base services
	catalogSvc := catalog.New(apiClient, dataStore, logger.With().Str("component", "catalog").Logger())
	historySvc := history.New(dataStore, logger.With().Str("component", "history").Logger())
	favoritesSvc := favorites.New(dataStore, logger.With().Str("component", "favorites").Logger())
	suggestSvc := suggest.New(apiClient, logger.With().Str("component", "suggest").Logger())

	// The browse loader is a single shared list session.
	browseLoader := catalog.NewLoader(catalogSvc, logger.With().Str("component", "browse").Logger())

	routes := httpapi.New(catalogSvc, historySvc, favoritesSvc, suggestSvc, browseLoader).Routes()

	handler := middleware.CORS(cfg.AllowedOrigins)(routes)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler, catalogSvc
}
