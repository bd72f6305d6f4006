package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"songbook/internal/app/catalog"
	"songbook/internal/songapi"
	"songbook/internal/store"
)

// CatalogService captures the song catalog operations needed by the HTTP
// handlers.
type CatalogService interface {
	List(ctx context.Context, params songapi.ListParams) (*catalog.Page, error)
	Detail(ctx context.Context, slug string) (*store.Song, error)
	Filters(ctx context.Context) (*songapi.SearchFilters, error)
	RefreshMirror(ctx context.Context) error
	CheckVersion(ctx context.Context, req songapi.VersionCheckRequest) (*songapi.VersionCheckResponse, error)
}

// HistoryService coordinates the visit log.
type HistoryService interface {
	RecordVisit(ctx context.Context, song store.Song)
	List(ctx context.Context, limit int) ([]store.HistoryEntry, error)
	Remove(ctx context.Context, slug string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// FavoritesService coordinates the favorites set.
type FavoritesService interface {
	Toggle(ctx context.Context, song store.Song) (bool, error)
	Add(ctx context.Context, song store.Song) error
	Remove(ctx context.Context, slug string) error
	IsFavorite(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]store.FavoriteEntry, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// SuggestService forwards song suggestions upstream.
type SuggestService interface {
	Submit(ctx context.Context, req songapi.SuggestSongRequest) (*songapi.SuggestSongResponse, error)
}

// BrowseLoader is the stateful list session behind the browse endpoints.
type BrowseLoader interface {
	SetQuery(q catalog.Query)
	Flush(ctx context.Context) error
	LoadMore(ctx context.Context) error
	Refresh(ctx context.Context) error
	Snapshot() catalog.State
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	catalog   CatalogService
	history   HistoryService
	favorites FavoritesService
	suggest   SuggestService
	browse    BrowseLoader
}

// New configures a Server over the given services.
func New(
	catalogSvc CatalogService,
	historySvc HistoryService,
	favoritesSvc FavoritesService,
	suggestSvc SuggestService,
	browse BrowseLoader,
) *Server {
	return &Server{
		catalog:   catalogSvc,
		history:   historySvc,
		favorites: favoritesSvc,
		suggest:   suggestSvc,
		browse:    browse,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Song catalog routes
	mux.HandleFunc("GET /api/v1/songs", s.handleListSongs)
	mux.HandleFunc("GET /api/v1/songs/{slug}", s.handleSongDetail)
	mux.HandleFunc("GET /api/v1/search-filters", s.handleSearchFilters)
	mux.HandleFunc("POST /api/v1/mirror/refresh", s.handleRefreshMirror)

	// Visit history routes
	mux.HandleFunc("GET /api/v1/history", s.handleListHistory)
	mux.HandleFunc("GET /api/v1/history/count", s.handleHistoryCount)
	mux.HandleFunc("DELETE /api/v1/history", s.handleClearHistory)
	mux.HandleFunc("DELETE /api/v1/history/{slug}", s.handleRemoveHistory)

	// Favorites routes
	mux.HandleFunc("GET /api/v1/favorites", s.handleListFavorites)
	mux.HandleFunc("POST /api/v1/favorites", s.handleAddFavorite)
	mux.HandleFunc("POST /api/v1/favorites/toggle", s.handleToggleFavorite)
	mux.HandleFunc("GET /api/v1/favorites/check", s.handleCheckFavorite)
	mux.HandleFunc("GET /api/v1/favorites/count", s.handleFavoritesCount)
	mux.HandleFunc("DELETE /api/v1/favorites", s.handleClearFavorites)
	mux.HandleFunc("DELETE /api/v1/favorites/{slug}", s.handleRemoveFavorite)

	// Browse session routes
	mux.HandleFunc("GET /api/v1/browse", s.handleBrowseState)
	mux.HandleFunc("PUT /api/v1/browse/query", s.handleBrowseQuery)
	mux.HandleFunc("POST /api/v1/browse/more", s.handleBrowseMore)
	mux.HandleFunc("POST /api/v1/browse/refresh", s.handleBrowseRefresh)

	// Suggestion and version routes
	mux.HandleFunc("POST /api/v1/suggestions", s.handleSuggestSong)
	mux.HandleFunc("POST /api/v1/version/check", s.handleCheckVersion)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
