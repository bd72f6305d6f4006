package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"songbook/internal/songapi"
	"songbook/internal/store"
)

const (
	defaultDebounce = 400 * time.Millisecond
	defaultPageSize = 20
)

// Lister is the single catalog operation the loader consumes.
type Lister interface {
	List(ctx context.Context, params songapi.ListParams) (*Page, error)
}

// Query is the user-controlled part of a catalog request.
type Query struct {
	Search         string `json:"search,omitempty"`
	StyleID        string `json:"style_id,omitempty"`
	CategoryID     string `json:"category_id,omitempty"`
	SongLanguageID string `json:"song_language_id,omitempty"`
}

// State is a point-in-time snapshot of the loader.
type State struct {
	Query     Query        `json:"query"`
	Songs     []store.Song `json:"songs"`
	Page      int          `json:"page"`
	LastPage  int          `json:"last_page"`
	Total     int          `json:"total"`
	HasMore   bool         `json:"has_more"`
	Loading   bool         `json:"loading"`
	FromCache bool         `json:"from_cache"`
	Error     string       `json:"error,omitempty"`
}

// Loader drives the song list: query edits are debounced before triggering
// a page-1 fetch, LoadMore appends the next page to the loaded slice.
//
// Responses are applied in arrival order without request stamping, so a slow
// page-1 fetch that resolves after a newer one overwrites it. This matches
// the list behavior users see today; revisit if it bites.
type Loader struct {
	svc    Lister
	logger zerolog.Logger

	mu        sync.Mutex
	query     Query
	songs     []store.Song
	page      int
	lastPage  int
	total     int
	hasMore   bool
	loading   bool
	fromCache bool
	lastErr   error

	debounce      *time.Timer
	debounceDelay time.Duration
	pageSize      int
}

// NewLoader constructs a loader over the given catalog.
func NewLoader(svc Lister, logger zerolog.Logger) *Loader {
	return &Loader{
		svc:           svc,
		logger:        logger,
		songs:         []store.Song{},
		debounceDelay: defaultDebounce,
		pageSize:      defaultPageSize,
	}
}

// SetQuery records the new query and schedules a page-1 fetch after the
// debounce window. Rapid successive edits reset the window.
func (l *Loader) SetQuery(q Query) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.query = q
	if l.debounce != nil {
		l.debounce.Stop()
	}
	l.debounce = time.AfterFunc(l.debounceDelay, func() {
		if err := l.load(context.Background(), q, 1, false); err != nil {
			l.logger.Warn().Err(err).Msg("debounced song fetch failed")
		}
	})
}

// Flush cancels any pending debounce and fetches page 1 of the current
// query immediately.
func (l *Loader) Flush(ctx context.Context) error {
	l.mu.Lock()
	if l.debounce != nil {
		l.debounce.Stop()
		l.debounce = nil
	}
	q := l.query
	l.mu.Unlock()

	return l.load(ctx, q, 1, false)
}

// LoadMore fetches the next page and appends it. It is a no-op while a
// fetch is in flight or when the last page has been reached.
func (l *Loader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	q := l.query
	next := l.page + 1
	l.mu.Unlock()

	return l.load(ctx, q, next, true)
}

// Refresh reloads page 1 of the current query, replacing loaded songs.
func (l *Loader) Refresh(ctx context.Context) error {
	l.mu.Lock()
	q := l.query
	l.mu.Unlock()

	return l.load(ctx, q, 1, false)
}

// Snapshot returns the current loader state.
func (l *Loader) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := State{
		Query:     l.query,
		Songs:     append([]store.Song(nil), l.songs...),
		Page:      l.page,
		LastPage:  l.lastPage,
		Total:     l.total,
		HasMore:   l.hasMore,
		Loading:   l.loading,
		FromCache: l.fromCache,
	}
	if state.Songs == nil {
		state.Songs = []store.Song{}
	}
	if l.lastErr != nil {
		state.Error = l.lastErr.Error()
	}
	return state
}

// Stop cancels any pending debounced fetch.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.debounce != nil {
		l.debounce.Stop()
		l.debounce = nil
	}
}

func (l *Loader) load(ctx context.Context, q Query, page int, appendPage bool) error {
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()

	result, err := l.svc.List(ctx, songapi.ListParams{
		Search:         q.Search,
		StyleID:        q.StyleID,
		CategoryID:     q.CategoryID,
		SongLanguageID: q.SongLanguageID,
		Page:           page,
		Limit:          l.pageSize,
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.lastErr = err
		return err
	}

	l.lastErr = nil
	if appendPage {
		l.songs = append(l.songs, result.Songs...)
	} else {
		l.songs = result.Songs
	}
	if l.songs == nil {
		l.songs = []store.Song{}
	}
	l.page = result.Page
	l.lastPage = result.LastPage
	l.total = result.Total
	l.hasMore = result.HasMore
	l.fromCache = result.FromCache
	return nil
}
