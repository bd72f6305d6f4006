package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"songbook/internal/songapi"
	"songbook/internal/store"
)

// API captures the remote catalog operations the service needs.
type API interface {
	ListSongs(ctx context.Context, params songapi.ListParams) (*songapi.PaginatedSongs, error)
	AllSongs(ctx context.Context) ([]songapi.Song, error)
	SongBySlug(ctx context.Context, slug string) (*songapi.Song, error)
	SearchFilters(ctx context.Context) (*songapi.SearchFilters, error)
	CheckVersion(ctx context.Context, req songapi.VersionCheckRequest) (*songapi.VersionCheckResponse, error)
}

// Mirror captures the local replace-all cache of the remote catalog.
type Mirror interface {
	ReplaceAll(ctx context.Context, songs []store.Song) error
	SongBySlug(ctx context.Context, slug string) (*store.Song, error)
	AllSongs(ctx context.Context) ([]store.Song, error)
}

// Page is one loaded page of the catalog, already converted to the local
// song shape.
type Page struct {
	Songs     []store.Song `json:"data"`
	Page      int          `json:"current_page"`
	LastPage  int          `json:"last_page"`
	Total     int          `json:"total"`
	HasMore   bool         `json:"has_more"`
	FromCache bool         `json:"from_cache"`
}

// Service combines the remote catalog with the local mirror: remote data
// wins when reachable, the mirror keeps last-known-good data usable offline.
type Service struct {
	api    API
	mirror Mirror
	logger zerolog.Logger
}

// New constructs a catalog Service.
func New(api API, mirror Mirror, logger zerolog.Logger) *Service {
	return &Service{api: api, mirror: mirror, logger: logger}
}

// List fetches one page from the remote catalog. When the remote end is
// unreachable and the request carries no search or filters, the full mirror
// is served instead as a single last-known-good page.
func (s *Service) List(ctx context.Context, params songapi.ListParams) (*Page, error) {
	remote, err := s.api.ListSongs(ctx, params)
	if err != nil {
		if !unfiltered(params) {
			return nil, err
		}

		s.logger.Warn().Err(err).Msg("song list fetch failed, serving mirror")
		cached, cacheErr := s.mirror.AllSongs(ctx)
		if cacheErr != nil {
			return nil, fmt.Errorf("mirror fallback: %w", cacheErr)
		}
		return &Page{
			Songs:     cached,
			Page:      1,
			LastPage:  1,
			Total:     len(cached),
			FromCache: true,
		}, nil
	}

	page := &Page{
		Songs:    FromAPISongs(remote.Data),
		Page:     remote.CurrentPage,
		LastPage: remote.LastPage,
		Total:    remote.Total,
		HasMore:  remote.HasMore(),
	}

	// An unlimited, unfiltered fetch that came back complete is the whole
	// catalog; mirror it so the next offline start has fresh data. Best
	// effort, a failed write never fails the read.
	if unfiltered(params) && params.Limit == 0 && !page.HasMore {
		if err := s.mirror.ReplaceAll(ctx, page.Songs); err != nil {
			s.logger.Warn().Err(err).Msg("mirror write after catalog fetch failed")
		}
	}

	return page, nil
}

// Detail returns one song by slug: remote first, mirror second. A slug
// unknown to both yields (nil, nil).
func (s *Service) Detail(ctx context.Context, slug string) (*store.Song, error) {
	remote, err := s.api.SongBySlug(ctx, slug)
	if err != nil {
		s.logger.Warn().Err(err).Str("slug", slug).Msg("song detail fetch failed, trying mirror")
		return s.mirror.SongBySlug(ctx, slug)
	}
	if remote == nil {
		return s.mirror.SongBySlug(ctx, slug)
	}

	song := FromAPISong(*remote)
	return &song, nil
}

// Filters returns the remote filter vocabulary.
func (s *Service) Filters(ctx context.Context) (*songapi.SearchFilters, error) {
	return s.api.SearchFilters(ctx)
}

// RefreshMirror replaces the whole mirror with the current remote catalog.
func (s *Service) RefreshMirror(ctx context.Context) error {
	songs, err := s.api.AllSongs(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}
	if err := s.mirror.ReplaceAll(ctx, FromAPISongs(songs)); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}
	s.logger.Info().Int("songs", len(songs)).Msg("mirror refreshed")
	return nil
}

// CheckVersion proxies the app-update check.
func (s *Service) CheckVersion(ctx context.Context, req songapi.VersionCheckRequest) (*songapi.VersionCheckResponse, error) {
	return s.api.CheckVersion(ctx, req)
}

func unfiltered(params songapi.ListParams) bool {
	return params.Search == "" &&
		params.StyleID == "" &&
		params.CategoryID == "" &&
		params.SongLanguageID == "" &&
		params.Page <= 1
}

// FromAPISong converts the remote song shape to the local one. Languages are
// intentionally dropped: no local table persists them.
func FromAPISong(song songapi.Song) store.Song {
	out := store.Song{
		ID:          string(song.ID),
		Code:        song.Code,
		Title:       song.Title,
		Slug:        song.Slug,
		YouTube:     song.YouTube,
		Description: song.Description,
		SongWriter:  song.SongWriter,
		Lyrics:      song.Lyrics,
		MusicNotes:  song.MusicNotes,
		Categories:  []store.Category{},
	}
	if song.Style != nil {
		out.Style = &store.Style{ID: string(song.Style.ID), Name: song.Style.Name}
	}
	for _, category := range song.Categories {
		out.Categories = append(out.Categories, store.Category{
			ID:   string(category.ID),
			Name: category.Name,
			Slug: category.Slug,
		})
	}
	return out
}

// FromAPISongs converts a slice of remote songs.
func FromAPISongs(songs []songapi.Song) []store.Song {
	out := make([]store.Song, 0, len(songs))
	for _, song := range songs {
		out = append(out, FromAPISong(song))
	}
	return out
}
