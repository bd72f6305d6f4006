package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Style is a song style lookup row.
type Style struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is a song category lookup row.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Song is the denormalised catalog shape consumed by the UI layer. A song
// without a style carries a nil Style, never a zero-value one.
type Song struct {
	ID          string     `json:"id"`
	Code        int        `json:"code,omitempty"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	YouTube     string     `json:"youtube,omitempty"`
	Description string     `json:"description,omitempty"`
	SongWriter  string     `json:"song_writer,omitempty"`
	Lyrics      string     `json:"lyrics,omitempty"`
	MusicNotes  string     `json:"music_notes,omitempty"`
	Style       *Style     `json:"style"`
	Categories  []Category `json:"categories"`
}

// ReplaceAll clears and rewrites the whole mirror (songs, styles, categories
// and the join table) in one transaction. This is a replace-all cache, not an
// incremental merge: readers never observe some tables cleared and others
// not. Shared lookup rows are last-writer-wins.
func (s *Store) ReplaceAll(ctx context.Context, songs []Song) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		`DELETE FROM song_categories`,
		`DELETE FROM songs`,
		`DELETE FROM styles`,
		`DELETE FROM categories`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear mirror: %w", err)
		}
	}

	now := formatTime(s.now())
	for _, song := range songs {
		slug := song.Slug
		if slug == "" {
			slug = "song-" + song.ID
		}

		var styleID any
		if song.Style != nil {
			styleID = song.Style.ID
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO songs
			(id, code, title, slug, style_id, youtube, description, song_writer, lyrics, music_notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			song.ID, song.Code, song.Title, slug, styleID,
			nullIfEmpty(song.YouTube), nullIfEmpty(song.Description), nullIfEmpty(song.SongWriter),
			nullIfEmpty(song.Lyrics), nullIfEmpty(song.MusicNotes), now, now,
		); err != nil {
			return fmt.Errorf("insert song %q: %w", song.Slug, err)
		}

		if song.Style != nil {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO styles (id, name, created_at, updated_at)
				VALUES (?, ?, ?, ?)`,
				song.Style.ID, song.Style.Name, now, now,
			); err != nil {
				return fmt.Errorf("insert style %q: %w", song.Style.Name, err)
			}
		}

		for _, category := range song.Categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO categories (id, name, slug, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				category.ID, category.Name, categorySlug(category), now, now,
			); err != nil {
				return fmt.Errorf("insert category %q: %w", category.Name, err)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO song_categories (song_id, category_id)
				VALUES (?, ?)`,
				song.ID, category.ID,
			); err != nil {
				return fmt.Errorf("link category %q: %w", category.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mirror: %w", err)
	}
	tx = nil

	return nil
}

// SongBySlug returns the mirrored song with its style and categories
// re-attached, or nil when the slug is not mirrored.
func (s *Store) SongBySlug(ctx context.Context, slug string) (*Song, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	song, styleID, err := s.scanSong(s.db.QueryRowContext(ctx, `
		SELECT id, code, title, slug, style_id, youtube, description, song_writer, lyrics, music_notes
		FROM songs
		WHERE slug = ?
		LIMIT 1`, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup song %q: %w", slug, err)
	}

	if err := s.attachRelations(ctx, song, styleID); err != nil {
		return nil, err
	}
	return song, nil
}

// AllSongs returns every mirrored song with relations re-attached.
func (s *Store) AllSongs(ctx context.Context) ([]Song, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, title, slug, style_id, youtube, description, song_writer, lyrics, music_notes
		FROM songs
		ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("select songs: %w", err)
	}
	defer rows.Close()

	type pending struct {
		song    *Song
		styleID string
	}

	var scanned []pending
	for rows.Next() {
		song, styleID, err := s.scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		scanned = append(scanned, pending{song: song, styleID: styleID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	songs := make([]Song, 0, len(scanned))
	for _, p := range scanned {
		if err := s.attachRelations(ctx, p.song, p.styleID); err != nil {
			return nil, err
		}
		songs = append(songs, *p.song)
	}

	return songs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanSong(row rowScanner) (*Song, string, error) {
	var (
		song                                  Song
		styleID, youtube, description, writer sql.NullString
		lyrics, musicNotes                    sql.NullString
	)
	if err := row.Scan(&song.ID, &song.Code, &song.Title, &song.Slug, &styleID,
		&youtube, &description, &writer, &lyrics, &musicNotes); err != nil {
		return nil, "", err
	}

	song.YouTube = youtube.String
	song.Description = description.String
	song.SongWriter = writer.String
	song.Lyrics = lyrics.String
	song.MusicNotes = musicNotes.String
	song.Categories = []Category{}

	return &song, styleID.String, nil
}

func (s *Store) attachRelations(ctx context.Context, song *Song, styleID string) error {
	if styleID != "" {
		var style Style
		err := s.db.QueryRowContext(ctx, `
			SELECT id, name FROM styles WHERE id = ? LIMIT 1`, styleID).
			Scan(&style.ID, &style.Name)
		switch {
		case err == nil:
			song.Style = &style
		case errors.Is(err, sql.ErrNoRows):
			// dangling style reference, treat as no style
		default:
			return fmt.Errorf("lookup style: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug
		FROM categories c
		JOIN song_categories sc ON c.id = sc.category_id
		WHERE sc.song_id = ?
		ORDER BY c.name ASC`, song.ID)
	if err != nil {
		return fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		song.Categories = append(song.Categories, category)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate categories: %w", err)
	}

	return nil
}

func categorySlug(category Category) string {
	if category.Slug != "" {
		return category.Slug
	}
	return strings.ReplaceAll(strings.ToLower(category.Name), " ", "-")
}
