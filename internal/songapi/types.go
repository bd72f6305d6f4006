package songapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ID is an opaque remote identifier. The API serves numeric ids in some
// payloads and strings in others, so both decode to a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Style is a remote style record.
type Style struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Category is a remote category record.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// SongLanguage is a remote language record. Languages appear only in live
// responses; none of the local tables persist them.
type SongLanguage struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Song is the remote song shape.
type Song struct {
	ID            ID             `json:"id"`
	Code          int            `json:"code,omitempty"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	YouTube       string         `json:"youtube,omitempty"`
	Description   string         `json:"description,omitempty"`
	SongWriter    string         `json:"song_writer,omitempty"`
	Lyrics        string         `json:"lyrics,omitempty"`
	MusicNotes    string         `json:"music_notes,omitempty"`
	Style         *Style         `json:"style"`
	Categories    []Category     `json:"categories"`
	SongLanguages []SongLanguage `json:"song_languages"`
}

// PaginatedSongs is the paginated list envelope served by GET /songs.
type PaginatedSongs struct {
	CurrentPage int     `json:"current_page"`
	Data        []Song  `json:"data"`
	LastPage    int     `json:"last_page"`
	PerPage     int     `json:"per_page"`
	Total       int     `json:"total"`
	NextPageURL *string `json:"next_page_url"`
	PrevPageURL *string `json:"prev_page_url"`
}

// HasMore reports whether pages remain after the current one.
func (p *PaginatedSongs) HasMore() bool {
	return p.NextPageURL != nil || p.CurrentPage < p.LastPage
}

// ListParams are the supported query parameters of GET /songs. Zero values
// are omitted from the request.
type ListParams struct {
	Search         string
	StyleID        string
	CategoryID     string
	SongLanguageID string
	Page           int
	Limit          int
}

func (p ListParams) values() url.Values {
	values := url.Values{}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if p.StyleID != "" {
		values.Set("style_id", p.StyleID)
	}
	if p.CategoryID != "" {
		values.Set("category_id", p.CategoryID)
	}
	if p.SongLanguageID != "" {
		values.Set("song_language_id", p.SongLanguageID)
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	return values
}

// SearchFilters is the filter vocabulary served by GET /search-filters.
type SearchFilters struct {
	Categories    []Category     `json:"categories"`
	Styles        []Style        `json:"styles"`
	SongLanguages []SongLanguage `json:"song_languages"`
}

// SuggestSongRequest is the payload of POST /suggest-songs. Title and Lyrics
// are required; everything else is optional.
type SuggestSongRequest struct {
	Title           string  `json:"title"`
	Lyrics          string  `json:"lyrics"`
	YouTube         string  `json:"youtube,omitempty"`
	Description     string  `json:"description,omitempty"`
	SongWriter      string  `json:"song_writer,omitempty"`
	Key             string  `json:"key,omitempty"`
	MusicNotes      string  `json:"music_notes,omitempty"`
	Email           string  `json:"email,omitempty"`
	StyleID         *int64  `json:"style_id,omitempty"`
	PopularRating   *int    `json:"popular_rating,omitempty"`
	CategoryIDs     []int64 `json:"category_ids,omitempty"`
	SongLanguageIDs []int64 `json:"song_language_ids,omitempty"`
	ClientReference string  `json:"client_reference,omitempty"`
}

// SuggestSongResponse acknowledges a submitted suggestion.
type SuggestSongResponse struct {
	Message string `json:"message"`
}

// VersionCheckRequest is the payload of POST /check-version.
type VersionCheckRequest struct {
	VersionCode int    `json:"version_code"`
	Platform    string `json:"platform"`
}

// VersionCheckResponse describes whether the installed app must update.
type VersionCheckResponse struct {
	NeedsUpdate        bool   `json:"needs_update"`
	CurrentVersionCode int    `json:"current_version_code"`
	MinimumVersionCode int    `json:"minimum_version_code"`
	LatestVersionCode  int    `json:"latest_version_code"`
	LatestVersionName  string `json:"latest_version_name"`
	UpdateURL          string `json:"update_url"`
	ReleaseNotes       string `json:"release_notes"`
	Message            string `json:"message"`
}
