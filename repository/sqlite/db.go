package sqlite

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/halioti2/recipe-loop-mvp/errors"
	"github.com/halioti2/recipe-loop-mvp/repository"
	"github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
    id TEXT PRIMARY KEY,
    youtube_video_id TEXT UNIQUE,
    title TEXT NOT NULL,
    channel TEXT,
    video_url TEXT NOT NULL,
    summary TEXT,
    transcript TEXT,
    ingredients TEXT,
    sync_status TEXT NOT NULL DEFAULT 'synced',
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS user_playlists (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    youtube_playlist_id TEXT NOT NULL,
    title TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    sync_enabled INTEGER NOT NULL DEFAULT 1,
    last_synced DATETIME,
    video_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    UNIQUE(user_id, youtube_playlist_id)
);

CREATE TABLE IF NOT EXISTS user_recipes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    recipe_id TEXT NOT NULL REFERENCES recipes(id),
    playlist_id TEXT NOT NULL REFERENCES user_playlists(id),
    position_in_playlist INTEGER NOT NULL,
    added_at DATETIME NOT NULL,
    favorite INTEGER NOT NULL DEFAULT 0,
    note TEXT,
    UNIQUE(user_id, recipe_id, playlist_id)
);

CREATE TABLE IF NOT EXISTS playlist_sync_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    playlist_id TEXT NOT NULL,
    youtube_playlist_id TEXT NOT NULL,
    status TEXT NOT NULL,
    sync_started DATETIME NOT NULL,
    sync_completed DATETIME,
    recipes_added INTEGER NOT NULL DEFAULT 0,
    recipes_updated INTEGER NOT NULL DEFAULT 0,
    recipes_skipped INTEGER NOT NULL DEFAULT 0,
    errors TEXT
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_recipes_video_url ON recipes(video_url);
CREATE INDEX IF NOT EXISTS idx_user_recipes_user ON user_recipes(user_id);
CREATE INDEX IF NOT EXISTS idx_user_playlists_user ON user_playlists(user_id);
`

func InitDB(dbPath string) (*sql.DB, error) {
	const op = "sqlite.InitDB"

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Internal(op, err, "failed to create database directory")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Internal(op, err, "failed to open database")
	}

	if err := configurePragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := execSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func configurePragmas(db *sql.DB) error {
	const op = "sqlite.configurePragmas"

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA cache_size = -2000", // Use up to 2MB of memory for cache
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Internal(op, err, fmt.Sprintf("failed to set pragma: %s", pragma))
		}
	}

	return nil
}

func execSchema(db *sql.DB) error {
	const op = "sqlite.execSchema"

	statements := strings.Split(schema, ";")

	tx, err := db.Begin()
	if err != nil {
		return errors.Internal(op, err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Internal(
				op,
				err,
				fmt.Sprintf("failed to execute schema statement: %s", stmt),
			)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Internal(op, err, "failed to commit schema transaction")
	}

	return nil
}

// Store bundles the per-entity repositories over one sqlite handle.
type Store struct {
	Recipes     *RecipeStore
	Playlists   *PlaylistStore
	UserRecipes *UserRecipeStore
	SyncLogs    *SyncLogStore
}

func NewStore(db *sql.DB) (*Store, error) {
	return &Store{
		Recipes:     &RecipeStore{db: db},
		Playlists:   &PlaylistStore{db: db},
		UserRecipes: &UserRecipeStore{db: db},
		SyncLogs:    &SyncLogStore{db: db},
	}, nil
}

// translateErr maps sqlite constraint violations onto the repository's
// duplicate sentinel so services never import the driver.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

// marshalStrings encodes a string list for a TEXT column; nil stays NULL
// so "never enriched" and "enriched with garbage" remain distinguishable.
func marshalStrings(values []string) (sql.NullString, error) {
	if values == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func unmarshalStrings(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, err
	}
	return values, nil
}
