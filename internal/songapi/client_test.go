package songapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, zerolog.Nop())
}

func TestListSongsEncodesParams(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/songs" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("unexpected Accept header %q", got)
		}
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		json.NewEncoder(w).Encode(PaginatedSongs{
			CurrentPage: 2,
			LastPage:    3,
			Data:        []Song{{ID: "1", Title: "Amazing Grace", Slug: "amazing-grace"}},
		})
	})

	page, err := client.ListSongs(context.Background(), ListParams{
		Search:  "grace",
		StyleID: "3",
		Page:    2,
		Limit:   20,
	})
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}

	want := map[string]string{"search": "grace", "style_id": "3", "page": "2", "limit": "20"}
	for key, value := range want {
		if gotQuery[key] != value {
			t.Errorf("query %s = %q, want %q", key, gotQuery[key], value)
		}
	}
	if _, ok := gotQuery["category_id"]; ok {
		t.Error("empty filter must be omitted from the query")
	}

	if len(page.Data) != 1 || page.Data[0].Slug != "amazing-grace" {
		t.Fatalf("unexpected page data: %+v", page.Data)
	}
	if !page.HasMore() {
		t.Error("page 2 of 3 should report more pages")
	}
}

func TestSongBySlugNotFoundIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	})

	song, err := client.SongBySlug(context.Background(), "nonexistent-slug")
	if err != nil {
		t.Fatalf("404 must not be an error: %v", err)
	}
	if song != nil {
		t.Fatalf("expected nil song, got %+v", song)
	}
}

func TestSongBySlugDecodesNumericID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/songs/amazing-grace" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":12,"title":"Amazing Grace","slug":"amazing-grace","style":{"id":3,"name":"Hymn"}}}`))
	})

	song, err := client.SongBySlug(context.Background(), "amazing-grace")
	if err != nil {
		t.Fatalf("SongBySlug: %v", err)
	}
	if song.ID != "12" {
		t.Fatalf("numeric id should decode to string, got %q", song.ID)
	}
	if song.Style == nil || song.Style.ID != "3" {
		t.Fatalf("style id not decoded: %+v", song.Style)
	}
}

func TestSuggestSongAttachesClientReference(t *testing.T) {
	var received SuggestSongRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/suggest-songs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected Content-Type %q", got)
		}
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(SuggestSongResponse{Message: "thanks"})
	})

	resp, err := client.SuggestSong(context.Background(), SuggestSongRequest{
		Title:  "New Song",
		Lyrics: "<p>words</p>",
	})
	if err != nil {
		t.Fatalf("SuggestSong: %v", err)
	}
	if resp.Message != "thanks" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if received.ClientReference == "" {
		t.Fatal("client reference should be generated when unset")
	}
}

func TestSuggestSongValidatesRequiredFields(t *testing.T) {
	client := NewClient("http://localhost:0", zerolog.Nop())

	if _, err := client.SuggestSong(context.Background(), SuggestSongRequest{Lyrics: "x"}); err == nil {
		t.Fatal("expected error for missing title")
	}
	if _, err := client.SuggestSong(context.Background(), SuggestSongRequest{Title: "x"}); err == nil {
		t.Fatal("expected error for missing lyrics")
	}
}

func TestCheckVersion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/check-version" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req VersionCheckRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(VersionCheckResponse{
			NeedsUpdate:        req.VersionCode < 5,
			MinimumVersionCode: 5,
		})
	})

	resp, err := client.CheckVersion(context.Background(), VersionCheckRequest{VersionCode: 3, Platform: "android"})
	if err != nil {
		t.Fatalf("CheckVersion: %v", err)
	}
	if !resp.NeedsUpdate {
		t.Fatal("expected needs_update for an old version code")
	}
}

func TestServerErrorSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListSongs(context.Background(), ListParams{})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsNotFound(err) {
		t.Fatal("500 must not look like not-found")
	}
}
