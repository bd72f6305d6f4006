package httpapi

import (
	"encoding/json"
	"net/http"

	"songbook/internal/store"
)

type favoritesResponse struct {
	Favorites []store.FavoriteEntry `json:"favorites"`
}

type favoriteStatusResponse struct {
	Slug      string `json:"slug"`
	Favorited bool   `json:"favorited"`
}

// handleListFavorites serves all favorites, newest first.
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	entries, err := s.favorites.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if entries == nil {
		entries = []store.FavoriteEntry{}
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: entries})
}

// handleAddFavorite marks the posted song as a favorite.
func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var song store.Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if song.Slug == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "song slug is required"})
		return
	}

	if err := s.favorites.Add(r.Context(), song); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, favoriteStatusResponse{Slug: song.Slug, Favorited: true})
}

// handleToggleFavorite flips the favorite state of the posted song.
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var song store.Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if song.Slug == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "song slug is required"})
		return
	}

	favorited, err := s.favorites.Toggle(r.Context(), song)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, favoriteStatusResponse{Slug: song.Slug, Favorited: favorited})
}

// handleCheckFavorite reports whether the slug in the query is favorited.
func (s *Server) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing slug parameter"})
		return
	}

	favorited, err := s.favorites.IsFavorite(r.Context(), slug)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, favoriteStatusResponse{Slug: slug, Favorited: favorited})
}

// handleFavoritesCount serves the size of the favorites set.
func (s *Server) handleFavoritesCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.favorites.Count(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Count int `json:"count"`
	}{Count: count})
}

// handleRemoveFavorite unmarks one slug. Absent slugs still return 204.
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing song slug"})
		return
	}

	if err := s.favorites.Remove(r.Context(), slug); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearFavorites empties the favorites set.
func (s *Server) handleClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := s.favorites.Clear(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
