package songapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultTimeout bounds every remote call; there is no retry policy.
const defaultTimeout = 15 * time.Second

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api: status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the remote songbook API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// ListSongs fetches one page of the catalog, optionally filtered.
func (c *Client) ListSongs(ctx context.Context, params ListParams) (*PaginatedSongs, error) {
	var page PaginatedSongs
	if err := c.doRequest(ctx, http.MethodGet, "/songs", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AllSongs fetches the whole catalog in one request (no limit parameter).
func (c *Client) AllSongs(ctx context.Context) ([]Song, error) {
	page, err := c.ListSongs(ctx, ListParams{})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

type songEnvelope struct {
	Data *Song `json:"data"`
}

// SongBySlug fetches one song. A 404 from the remote end is not an error;
// it yields a nil song.
func (c *Client) SongBySlug(ctx context.Context, slug string) (*Song, error) {
	var envelope songEnvelope
	err := c.doRequest(ctx, http.MethodGet, "/songs/"+url.PathEscape(slug), nil, nil, &envelope)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return envelope.Data, nil
}

// SearchFilters fetches the filter vocabulary for the advanced search form.
func (c *Client) SearchFilters(ctx context.Context) (*SearchFilters, error) {
	var filters SearchFilters
	if err := c.doRequest(ctx, http.MethodGet, "/search-filters", nil, nil, &filters); err != nil {
		return nil, err
	}
	return &filters, nil
}

// SuggestSong submits a new song suggestion for review. A client reference
// is attached when the caller did not set one, so resubmits are traceable.
func (c *Client) SuggestSong(ctx context.Context, req SuggestSongRequest) (*SuggestSongResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("suggestion title is required")
	}
	if strings.TrimSpace(req.Lyrics) == "" {
		return nil, errors.New("suggestion lyrics are required")
	}
	if req.ClientReference == "" {
		req.ClientReference = uuid.NewString()
	}

	var resp SuggestSongResponse
	if err := c.doRequest(ctx, http.MethodPost, "/suggest-songs", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckVersion asks the remote end whether the given app build must update.
func (c *Client) CheckVersion(ctx context.Context, req VersionCheckRequest) (*VersionCheckResponse, error) {
	var resp VersionCheckResponse
	if err := c.doRequest(ctx, http.MethodPost, "/check-version", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("url", endpoint).Msg("remote request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		if resp.StatusCode != http.StatusNotFound {
			c.logger.Error().
				Str("method", method).
				Str("url", endpoint).
				Int("status", resp.StatusCode).
				Msg("remote request returned error status")
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
