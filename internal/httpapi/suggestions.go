package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"songbook/internal/app/suggest"
	"songbook/internal/songapi"
)

// handleSuggestSong forwards a song suggestion to the live API.
func (s *Server) handleSuggestSong(w http.ResponseWriter, r *http.Request) {
	var req songapi.SuggestSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	resp, err := s.suggest.Submit(r.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, suggest.ErrInvalidSuggestion) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleCheckVersion proxies the app-update check to the live API.
func (s *Server) handleCheckVersion(w http.ResponseWriter, r *http.Request) {
	var req songapi.VersionCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	resp, err := s.catalog.CheckVersion(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
