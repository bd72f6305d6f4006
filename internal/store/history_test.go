package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func testSong() Song {
	return Song{
		ID:    "12",
		Title: "Amazing Grace",
		Slug:  "amazing-grace",
		Style: &Style{ID: "3", Name: "Hymn"},
		Categories: []Category{
			{ID: "7", Name: "Worship"},
		},
		SongWriter: "John Newton",
		Lyrics:     "<p>Amazing grace, how sweet the sound</p>",
	}
}

func TestRecordVisitInsertsAndTrims(t *testing.T) {
	s, mock := newMockStore(t)

	song := testSong()

	mock.ExpectQuery("SELECT visit_count FROM song_history").
		WithArgs(song.Slug).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectExec("INSERT INTO song_history").
		WithArgs(song.ID, song.Slug, song.Title, "John Newton", "Hymn", nil,
			`[{"id":"7","name":"Worship"}]`, song.Lyrics, formatTime(testNow)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec("DELETE FROM song_history").
		WithArgs(historyCap).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.RecordVisit(context.Background(), song); err != nil {
		t.Fatalf("RecordVisit: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordVisitUpdatesInPlace(t *testing.T) {
	s, mock := newMockStore(t)

	song := testSong()

	mock.ExpectQuery("SELECT visit_count FROM song_history").
		WithArgs(song.Slug).
		WillReturnRows(sqlmock.NewRows([]string{"visit_count"}).AddRow(2))

	// Update path: no trim statement may follow, repeat visits never evict.
	mock.ExpectExec("UPDATE song_history").
		WithArgs(song.Title, "John Newton", "Hymn", nil,
			`[{"id":"7","name":"Worship"}]`, song.Lyrics, formatTime(testNow), song.Slug).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.RecordVisit(context.Background(), song); err != nil {
		t.Fatalf("RecordVisit: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListHistoryDecodesRows(t *testing.T) {
	s, mock := newMockStore(t)

	columns := []string{"id", "slug", "title", "song_writer", "style_name", "description", "categories", "lyrics", "visited_at", "visit_count"}
	mock.ExpectQuery("SELECT (.+) FROM song_history").
		WithArgs(historyCap).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("12", "amazing-grace", "Amazing Grace", "John Newton", "Hymn", nil,
				`[{"id":"7","name":"Worship"}]`, nil, formatTime(testNow), 3).
			AddRow("9", "how-great", "How Great Thou Art", nil, nil, nil, nil, nil, formatTime(testNow.Add(-1)), 1))

	entries, err := s.ListHistory(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Slug != "amazing-grace" || entries[0].VisitCount != 3 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if len(entries[0].Categories) != 1 || entries[0].Categories[0].Name != "Worship" {
		t.Fatalf("categories not decoded: %+v", entries[0].Categories)
	}
	if entries[1].StyleName != "" || len(entries[1].Categories) != 0 {
		t.Fatalf("null columns should decode to zero values: %+v", entries[1])
	}
	if !entries[0].VisitedAt.Equal(testNow) {
		t.Fatalf("visited_at not parsed: %v", entries[0].VisitedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListHistoryEmptyStore(t *testing.T) {
	s, mock := newMockStore(t)

	columns := []string{"id", "slug", "title", "song_writer", "style_name", "description", "categories", "lyrics", "visited_at", "visit_count"}
	mock.ExpectQuery("SELECT (.+) FROM song_history").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(columns))

	entries, err := s.ListHistory(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListHistory on empty store: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestRemoveHistoryAbsentSlug(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM song_history WHERE slug").
		WithArgs("nonexistent-slug").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.RemoveHistory(context.Background(), "nonexistent-slug"); err != nil {
		t.Fatalf("RemoveHistory should not fail for absent slug: %v", err)
	}
}

func TestClearHistory(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM song_history").
		WillReturnResult(sqlmock.NewResult(0, 5))

	if err := s.ClearHistory(context.Background()); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
}
