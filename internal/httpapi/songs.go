package httpapi

import (
	"net/http"
	"strconv"

	"songbook/internal/songapi"
	"songbook/internal/store"
)

// handleListSongs serves one page of the catalog, filtered by query params.
func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := songapi.ListParams{
		Search:         query.Get("search"),
		StyleID:        query.Get("style_id"),
		CategoryID:     query.Get("category_id"),
		SongLanguageID: query.Get("song_language_id"),
	}

	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid page parameter"})
			return
		}
		params.Page = page
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})
			return
		}
		params.Limit = limit
	}

	page, err := s.catalog.List(r.Context(), params)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, page)
}

type songDetailResponse struct {
	Data      *store.Song `json:"data"`
	Favorited bool        `json:"favorited"`
}

// handleSongDetail serves one song and records the visit as a side effect.
func (s *Server) handleSongDetail(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing song slug"})
		return
	}

	song, err := s.catalog.Detail(r.Context(), slug)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	if song == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "song not found"})
		return
	}

	s.history.RecordVisit(r.Context(), *song)

	favorited, err := s.favorites.IsFavorite(r.Context(), slug)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, songDetailResponse{Data: song, Favorited: favorited})
}

// handleSearchFilters serves the filter vocabulary for the search form.
func (s *Server) handleSearchFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := s.catalog.Filters(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, filters)
}

// handleRefreshMirror replaces the local mirror with the live catalog.
func (s *Server) handleRefreshMirror(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.RefreshMirror(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
