package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func expectMirrorClear(mock sqlmock.Sqlmock) {
	mock.ExpectExec("DELETE FROM song_categories").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM songs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM styles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM categories").WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestReplaceAllRewritesMirror(t *testing.T) {
	s, mock := newMockStore(t)

	song := testSong()
	now := formatTime(testNow)

	mock.ExpectBegin()
	expectMirrorClear(mock)
	mock.ExpectExec("INSERT INTO songs").
		WithArgs(song.ID, 0, song.Title, song.Slug, "3",
			nil, nil, "John Newton", song.Lyrics, nil, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR REPLACE INTO styles").
		WithArgs("3", "Hymn", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR REPLACE INTO categories").
		WithArgs("7", "Worship", "worship", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR IGNORE INTO song_categories").
		WithArgs(song.ID, "7").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := s.ReplaceAll(context.Background(), []Song{song}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReplaceAllEmptyClearsEverything(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	expectMirrorClear(mock)
	mock.ExpectCommit()

	if err := s.ReplaceAll(context.Background(), nil); err != nil {
		t.Fatalf("ReplaceAll with no songs: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReplaceAllRollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM song_categories").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	if err := s.ReplaceAll(context.Background(), nil); err == nil {
		t.Fatal("expected error from failed clear")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSongBySlugNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM songs").
		WithArgs("nonexistent-slug").
		WillReturnError(sql.ErrNoRows)

	song, err := s.SongBySlug(context.Background(), "nonexistent-slug")
	if err != nil {
		t.Fatalf("missing slug must not be an error: %v", err)
	}
	if song != nil {
		t.Fatalf("expected nil song, got %+v", song)
	}
}

func TestSongBySlugJoinsRelations(t *testing.T) {
	s, mock := newMockStore(t)

	songColumns := []string{"id", "code", "title", "slug", "style_id", "youtube", "description", "song_writer", "lyrics", "music_notes"}
	mock.ExpectQuery("SELECT (.+) FROM songs").
		WithArgs("amazing-grace").
		WillReturnRows(sqlmock.NewRows(songColumns).
			AddRow("12", 0, "Amazing Grace", "amazing-grace", "3", nil, nil, "John Newton", nil, nil))

	mock.ExpectQuery("SELECT id, name FROM styles").
		WithArgs("3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("3", "Hymn"))

	mock.ExpectQuery("SELECT c.id, c.name, c.slug").
		WithArgs("12").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow("7", "Worship", "worship"))

	song, err := s.SongBySlug(context.Background(), "amazing-grace")
	if err != nil {
		t.Fatalf("SongBySlug: %v", err)
	}
	if song == nil {
		t.Fatal("expected song")
	}
	if song.Style == nil || song.Style.Name != "Hymn" {
		t.Fatalf("style not attached: %+v", song.Style)
	}
	if len(song.Categories) != 1 || song.Categories[0].Slug != "worship" {
		t.Fatalf("categories not attached: %+v", song.Categories)
	}
}

func TestSongBySlugWithoutStyle(t *testing.T) {
	s, mock := newMockStore(t)

	songColumns := []string{"id", "code", "title", "slug", "style_id", "youtube", "description", "song_writer", "lyrics", "music_notes"}
	mock.ExpectQuery("SELECT (.+) FROM songs").
		WithArgs("how-great").
		WillReturnRows(sqlmock.NewRows(songColumns).
			AddRow("9", 0, "How Great Thou Art", "how-great", nil, nil, nil, nil, nil, nil))

	mock.ExpectQuery("SELECT c.id, c.name, c.slug").
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))

	song, err := s.SongBySlug(context.Background(), "how-great")
	if err != nil {
		t.Fatalf("SongBySlug: %v", err)
	}
	if song.Style != nil {
		t.Fatalf("expected nil style, got %+v", song.Style)
	}
	if song.Categories == nil || len(song.Categories) != 0 {
		t.Fatalf("expected empty categories, got %+v", song.Categories)
	}
}
