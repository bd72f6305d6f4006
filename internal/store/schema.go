package store

// Schema DDL. Every statement is idempotent so EnsureSchema can run at each
// startup and from any number of first-time callers.
const (
	createSongs = `CREATE TABLE IF NOT EXISTS songs (
		id TEXT PRIMARY KEY,
		code INTEGER DEFAULT 0,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		style_id TEXT,
		youtube TEXT,
		description TEXT,
		song_writer TEXT,
		lyrics TEXT,
		music_notes TEXT,
		created_at TEXT,
		updated_at TEXT,
		FOREIGN KEY (style_id) REFERENCES styles(id)
	)`

	createStyles = `CREATE TABLE IF NOT EXISTS styles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT,
		updated_at TEXT
	)`

	createCategories = `CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		created_at TEXT,
		updated_at TEXT
	)`

	createSongCategories = `CREATE TABLE IF NOT EXISTS song_categories (
		song_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		PRIMARY KEY (song_id, category_id),
		FOREIGN KEY (song_id) REFERENCES songs(id),
		FOREIGN KEY (category_id) REFERENCES categories(id)
	)`

	createSongHistory = `CREATE TABLE IF NOT EXISTS song_history (
		id TEXT PRIMARY KEY,
		slug TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		song_writer TEXT,
		style_name TEXT,
		description TEXT,
		categories TEXT,
		lyrics TEXT,
		visited_at TEXT NOT NULL,
		visit_count INTEGER NOT NULL DEFAULT 1
	)`

	createFavorites = `CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		slug TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		song_writer TEXT,
		style_name TEXT,
		description TEXT,
		categories TEXT,
		lyrics TEXT,
		added_at TEXT NOT NULL
	)`

	createHistoryVisitedIndex  = `CREATE INDEX IF NOT EXISTS idx_history_visited_at ON song_history(visited_at DESC)`
	createFavoritesAddedIndex  = `CREATE INDEX IF NOT EXISTS idx_favorites_added_at ON favorites(added_at DESC)`
	createSongsSlugIndex       = `CREATE INDEX IF NOT EXISTS idx_songs_slug ON songs(slug)`
	createSongCategoriesLookup = `CREATE INDEX IF NOT EXISTS idx_song_categories_song ON song_categories(song_id)`
)

var schemaStatements = []string{
	createStyles,
	createSongs,
	createCategories,
	createSongCategories,
	createSongHistory,
	createFavorites,
	createHistoryVisitedIndex,
	createFavoritesAddedIndex,
	createSongsSlugIndex,
	createSongCategoriesLookup,
}
