package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// historyCap bounds the log to the most recently visited distinct songs.
const historyCap = 5

// HistoryEntry is one row of the bounded recently-viewed log. Display fields
// are a denormalised snapshot of the song at visit time; categories are
// serialised as JSON text because this table is a cache, not the source of
// truth for song data.
type HistoryEntry struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	SongWriter  string     `json:"song_writer,omitempty"`
	StyleName   string     `json:"style_name,omitempty"`
	Description string     `json:"description,omitempty"`
	Categories  []Category `json:"categories"`
	Lyrics      string     `json:"lyrics,omitempty"`
	VisitedAt   time.Time  `json:"visited_at"`
	VisitCount  int        `json:"visit_count"`
}

// RecordVisit upserts the history entry for song. An existing entry has its
// display fields refreshed, visited_at bumped and visit_count incremented in
// place. A fresh entry is inserted with visit_count 1, after which every row
// outside the five most recently visited is evicted. The cap runs only on
// insert, so repeat visits to a known slug never evict other entries.
func (s *Store) RecordVisit(ctx context.Context, song Song) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	categoriesJSON, err := marshalCategories(song.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	styleName := ""
	if song.Style != nil {
		styleName = song.Style.Name
	}
	visitedAt := formatTime(s.now())

	var visitCount int
	err = s.db.QueryRowContext(ctx, `
		SELECT visit_count FROM song_history WHERE slug = ?`, song.Slug).
		Scan(&visitCount)
	switch {
	case err == nil:
		if _, err := s.db.ExecContext(ctx, `
			UPDATE song_history
			SET title = ?,
				song_writer = ?,
				style_name = ?,
				description = ?,
				categories = ?,
				lyrics = ?,
				visited_at = ?,
				visit_count = visit_count + 1
			WHERE slug = ?`,
			song.Title, nullIfEmpty(song.SongWriter), nullIfEmpty(styleName),
			nullIfEmpty(song.Description), categoriesJSON, nullIfEmpty(song.Lyrics),
			visitedAt, song.Slug,
		); err != nil {
			return fmt.Errorf("update history entry: %w", err)
		}

	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO song_history (id, slug, title, song_writer, style_name, description, categories, lyrics, visited_at, visit_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			song.ID, song.Slug, song.Title, nullIfEmpty(song.SongWriter), nullIfEmpty(styleName),
			nullIfEmpty(song.Description), categoriesJSON, nullIfEmpty(song.Lyrics), visitedAt,
		); err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}

		// Tie-break on rowid so eviction is deterministic.
		if _, err := s.db.ExecContext(ctx, `
			DELETE FROM song_history
			WHERE slug NOT IN (
				SELECT slug FROM song_history
				ORDER BY visited_at DESC, rowid DESC
				LIMIT ?
			)`, historyCap,
		); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}

	default:
		return fmt.Errorf("lookup history entry: %w", err)
	}

	return nil
}

// ListHistory returns history entries most-recent-first. A non-positive limit
// falls back to the store's own cap.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = historyCap
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, title, song_writer, style_name, description, categories, lyrics, visited_at, visit_count
		FROM song_history
		ORDER BY visited_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var (
			entry                                    HistoryEntry
			writer, style, description, cats, lyrics sql.NullString
			visitedAt                                string
		)
		if err := rows.Scan(&entry.ID, &entry.Slug, &entry.Title, &writer, &style,
			&description, &cats, &lyrics, &visitedAt, &entry.VisitCount); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}

		entry.SongWriter = writer.String
		entry.StyleName = style.String
		entry.Description = description.String
		entry.Lyrics = lyrics.String
		entry.VisitedAt = parseTime(visitedAt)
		entry.Categories = unmarshalCategories(cats.String)

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return entries, nil
}

// RemoveHistory deletes one entry by slug. Absent slugs are not an error.
func (s *Store) RemoveHistory(ctx context.Context, slug string) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM song_history WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	return nil
}

// ClearHistory deletes every entry.
func (s *Store) ClearHistory(ctx context.Context) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM song_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// HistoryCount reports the number of stored entries.
func (s *Store) HistoryCount(ctx context.Context) (int, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM song_history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

func marshalCategories(categories []Category) (string, error) {
	if categories == nil {
		categories = []Category{}
	}
	b, err := json.Marshal(categories)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalCategories(raw string) []Category {
	if raw == "" {
		return []Category{}
	}
	var categories []Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil || categories == nil {
		return []Category{}
	}
	return categories
}
