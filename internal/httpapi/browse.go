package httpapi

import (
	"encoding/json"
	"net/http"

	"songbook/internal/app/catalog"
)

// handleBrowseState serves the current browse session snapshot.
func (s *Server) handleBrowseState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.browse.Snapshot())
}

// handleBrowseQuery updates the browse query. The fetch itself is debounced;
// pass flush=true to wait for the results instead.
func (s *Server) handleBrowseQuery(w http.ResponseWriter, r *http.Request) {
	var query catalog.Query
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	s.browse.SetQuery(query)
	if r.URL.Query().Get("flush") == "true" {
		if err := s.browse.Flush(r.Context()); err != nil {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusAccepted, s.browse.Snapshot())
}

// handleBrowseMore appends the next page to the browse session.
func (s *Server) handleBrowseMore(w http.ResponseWriter, r *http.Request) {
	if err := s.browse.LoadMore(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.browse.Snapshot())
}

// handleBrowseRefresh reloads page 1 of the current browse query.
func (s *Server) handleBrowseRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.browse.Refresh(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.browse.Snapshot())
}
