package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"songbook/internal/songapi"
)

// ErrInvalidSuggestion marks suggestions rejected locally, before any remote
// call. Callers use it to distinguish caller mistakes from upstream failures.
var ErrInvalidSuggestion = errors.New("invalid suggestion")

// API captures the remote suggestion operation.
type API interface {
	SuggestSong(ctx context.Context, req songapi.SuggestSongRequest) (*songapi.SuggestSongResponse, error)
}

// Service validates and forwards song suggestions.
type Service struct {
	api    API
	logger zerolog.Logger
}

// New constructs a suggest Service.
func New(api API, logger zerolog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Submit trims and validates the suggestion, then forwards it upstream.
func (s *Service) Submit(ctx context.Context, req songapi.SuggestSongRequest) (*songapi.SuggestSongResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Lyrics = strings.TrimSpace(req.Lyrics)
	req.SongWriter = strings.TrimSpace(req.SongWriter)
	req.Email = strings.TrimSpace(req.Email)

	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidSuggestion)
	}
	if req.Lyrics == "" {
		return nil, fmt.Errorf("%w: lyrics are required", ErrInvalidSuggestion)
	}

	resp, err := s.api.SuggestSong(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("title", req.Title).Msg("song suggestion submitted")
	return resp, nil
}
