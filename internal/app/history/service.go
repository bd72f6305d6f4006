package history

import (
	"context"

	"github.com/rs/zerolog"

	"songbook/internal/store"
)

// Store captures the recency-log operations the service needs.
type Store interface {
	RecordVisit(ctx context.Context, song store.Song) error
	ListHistory(ctx context.Context, limit int) ([]store.HistoryEntry, error)
	RemoveHistory(ctx context.Context, slug string) error
	ClearHistory(ctx context.Context) error
	HistoryCount(ctx context.Context) (int, error)
}

// Service wraps the recency log. Recording is best-effort: a broken local
// store must never block opening a song.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// New constructs a history Service.
func New(st Store, logger zerolog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// RecordVisit logs the visit and swallows any storage error.
func (s *Service) RecordVisit(ctx context.Context, song store.Song) {
	if song.Slug == "" {
		return
	}
	if err := s.store.RecordVisit(ctx, song); err != nil {
		s.logger.Warn().Err(err).Str("slug", song.Slug).Msg("failed to record visit")
	}
}

// List returns the most recent visits, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]store.HistoryEntry, error) {
	return s.store.ListHistory(ctx, limit)
}

// Remove drops one entry by slug. Removing an absent slug is not an error.
func (s *Service) Remove(ctx context.Context, slug string) error {
	return s.store.RemoveHistory(ctx, slug)
}

// Clear empties the whole log.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.ClearHistory(ctx)
}

// Count returns the number of logged entries.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.HistoryCount(ctx)
}
