package favorites

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"songbook/internal/store"
)

// Store captures the favorites-set operations the service needs.
type Store interface {
	AddFavorite(ctx context.Context, song store.Song) error
	RemoveFavorite(ctx context.Context, slug string) error
	IsFavorite(ctx context.Context, slug string) (bool, error)
	ListFavorites(ctx context.Context) ([]store.FavoriteEntry, error)
	FavoritesCount(ctx context.Context) (int, error)
	ClearFavorites(ctx context.Context) error
}

// Service wraps the favorites set with an in-memory status map so repeated
// status checks for the same slugs skip the database.
type Service struct {
	store  Store
	logger zerolog.Logger

	mu     sync.RWMutex
	status map[string]bool
}

// New constructs a favorites Service.
func New(st Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger,
		status: map[string]bool{},
	}
}

// Toggle flips the favorite state of the song and returns the new state.
// After a successful flip the cached map is reconciled against storage so
// mutations made elsewhere are picked up.
func (s *Service) Toggle(ctx context.Context, song store.Song) (bool, error) {
	current, err := s.currentStatus(ctx, song.Slug)
	if err != nil {
		return false, err
	}

	if current {
		err = s.store.RemoveFavorite(ctx, song.Slug)
	} else {
		err = s.store.AddFavorite(ctx, song)
	}
	if err != nil {
		return current, err
	}

	s.mu.Lock()
	s.status[song.Slug] = !current
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Str("slug", song.Slug).Msg("favorites refresh after toggle failed")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[song.Slug], nil
}

// Add marks the song as a favorite. Adding an existing favorite keeps the
// original timestamp.
func (s *Service) Add(ctx context.Context, song store.Song) error {
	if err := s.store.AddFavorite(ctx, song); err != nil {
		return err
	}
	s.mu.Lock()
	s.status[song.Slug] = true
	s.mu.Unlock()
	return nil
}

// Remove unmarks the song. Removing an absent slug is not an error.
func (s *Service) Remove(ctx context.Context, slug string) error {
	if err := s.store.RemoveFavorite(ctx, slug); err != nil {
		return err
	}
	s.mu.Lock()
	s.status[slug] = false
	s.mu.Unlock()
	return nil
}

// IsFavorite checks storage and caches the answer.
func (s *Service) IsFavorite(ctx context.Context, slug string) (bool, error) {
	favorited, err := s.store.IsFavorite(ctx, slug)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	s.status[slug] = favorited
	s.mu.Unlock()
	return favorited, nil
}

// Status answers from the cached map only. Unknown slugs report false.
func (s *Service) Status(slug string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[slug]
}

// Refresh rebuilds the cached map from the authoritative list.
func (s *Service) Refresh(ctx context.Context) error {
	entries, err := s.store.ListFavorites(ctx)
	if err != nil {
		return err
	}

	fresh := make(map[string]bool, len(entries))
	for _, entry := range entries {
		fresh[entry.Slug] = true
	}

	s.mu.Lock()
	s.status = fresh
	s.mu.Unlock()
	return nil
}

// List returns all favorites, newest first.
func (s *Service) List(ctx context.Context) ([]store.FavoriteEntry, error) {
	return s.store.ListFavorites(ctx)
}

// Count returns the number of favorites.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.FavoritesCount(ctx)
}

// Clear empties the set and the cached map.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.ClearFavorites(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.status = map[string]bool{}
	s.mu.Unlock()
	return nil
}

func (s *Service) currentStatus(ctx context.Context, slug string) (bool, error) {
	s.mu.RLock()
	cached, ok := s.status[slug]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	return s.IsFavorite(ctx, slug)
}
