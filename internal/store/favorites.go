package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FavoriteEntry is one row of the user-curated favorites set. Same
// denormalised snapshot as a history entry, minus visit metadata.
type FavoriteEntry struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	SongWriter  string     `json:"song_writer,omitempty"`
	StyleName   string     `json:"style_name,omitempty"`
	Description string     `json:"description,omitempty"`
	Categories  []Category `json:"categories"`
	Lyrics      string     `json:"lyrics,omitempty"`
	AddedAt     time.Time  `json:"added_at"`
}

// AddFavorite inserts song into the favorites set. Adding a slug that is
// already present is a no-op: the existing row is not overwritten and keeps
// its original added_at.
func (s *Store) AddFavorite(ctx context.Context, song Song) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	var existing string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM favorites WHERE slug = ?`, song.Slug).
		Scan(&existing)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	default:
		return fmt.Errorf("lookup favorite: %w", err)
	}

	categoriesJSON, err := marshalCategories(song.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	styleName := ""
	if song.Style != nil {
		styleName = song.Style.Name
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (id, slug, title, song_writer, style_name, description, categories, lyrics, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		song.ID, song.Slug, song.Title, nullIfEmpty(song.SongWriter), nullIfEmpty(styleName),
		nullIfEmpty(song.Description), categoriesJSON, nullIfEmpty(song.Lyrics), formatTime(s.now()),
	); err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}

	return nil
}

// RemoveFavorite deletes one favorite by slug. Absent slugs are not an error.
func (s *Store) RemoveFavorite(ctx context.Context, slug string) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// IsFavorite reports whether slug is in the favorites set.
func (s *Store) IsFavorite(ctx context.Context, slug string) (bool, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return false, err
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE slug = ?)`, slug).
		Scan(&exists); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}

// ListFavorites returns all favorites, most recently added first.
func (s *Store) ListFavorites(ctx context.Context) ([]FavoriteEntry, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, title, song_writer, style_name, description, categories, lyrics, added_at
		FROM favorites
		ORDER BY added_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	defer rows.Close()

	entries := []FavoriteEntry{}
	for rows.Next() {
		var (
			entry                                    FavoriteEntry
			writer, style, description, cats, lyrics sql.NullString
			addedAt                                  string
		)
		if err := rows.Scan(&entry.ID, &entry.Slug, &entry.Title, &writer, &style,
			&description, &cats, &lyrics, &addedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}

		entry.SongWriter = writer.String
		entry.StyleName = style.String
		entry.Description = description.String
		entry.Lyrics = lyrics.String
		entry.AddedAt = parseTime(addedAt)
		entry.Categories = unmarshalCategories(cats.String)

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return entries, nil
}

// FavoritesCount reports the number of favorites.
func (s *Store) FavoritesCount(ctx context.Context) (int, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}

// ClearFavorites deletes every favorite.
func (s *Store) ClearFavorites(ctx context.Context) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	return nil
}
