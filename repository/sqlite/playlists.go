package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/halioti2/recipe-loop-mvp/errors"
	"github.com/halioti2/recipe-loop-mvp/models"
)

type PlaylistStore struct {
	db *sql.DB
}

const playlistColumns = `id, user_id, youtube_playlist_id, title, active,
       sync_enabled, last_synced, video_count, created_at`

func scanPlaylist(scan func(dest ...interface{}) error) (*models.UserPlaylist, error) {
	playlist := &models.UserPlaylist{}
	var lastSynced sql.NullTime

	err := scan(
		&playlist.ID,
		&playlist.UserID,
		&playlist.YouTubePlaylistID,
		&playlist.Title,
		&playlist.Active,
		&playlist.SyncEnabled,
		&lastSynced,
		&playlist.VideoCount,
		&playlist.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastSynced.Valid {
		playlist.LastSynced = &lastSynced.Time
	}
	return playlist, nil
}

func (s *PlaylistStore) Find(ctx context.Context, id string) (*models.UserPlaylist, error) {
	const op = "PlaylistStore.Find"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+playlistColumns+` FROM user_playlists WHERE id = ?`, id)

	playlist, err := scanPlaylist(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Playlist not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query playlist")
	}
	return playlist, nil
}

func (s *PlaylistStore) FindByUserAndYouTubeID(ctx context.Context, userID, youtubePlaylistID string) (*models.UserPlaylist, error) {
	const op = "PlaylistStore.FindByUserAndYouTubeID"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+playlistColumns+` FROM user_playlists
         WHERE user_id = ? AND youtube_playlist_id = ?`, userID, youtubePlaylistID)

	playlist, err := scanPlaylist(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Playlist not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query playlist")
	}
	return playlist, nil
}

func (s *PlaylistStore) ListByUser(ctx context.Context, userID string) ([]*models.UserPlaylist, error) {
	const op = "PlaylistStore.ListByUser"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+playlistColumns+` FROM user_playlists
         WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query playlists")
	}
	defer rows.Close()

	var playlists []*models.UserPlaylist
	for rows.Next() {
		playlist, err := scanPlaylist(rows.Scan)
		if err != nil {
			return nil, errors.Internal(op, err, "Failed to scan playlist")
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate playlists")
	}

	return playlists, nil
}

func (s *PlaylistStore) Create(ctx context.Context, playlist *models.UserPlaylist) error {
	const op = "PlaylistStore.Create"

	var lastSynced sql.NullTime
	if playlist.LastSynced != nil {
		lastSynced = sql.NullTime{Time: *playlist.LastSynced, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_playlists (
            id, user_id, youtube_playlist_id, title, active,
            sync_enabled, last_synced, video_count, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		playlist.ID,
		playlist.UserID,
		playlist.YouTubePlaylistID,
		playlist.Title,
		playlist.Active,
		playlist.SyncEnabled,
		lastSynced,
		playlist.VideoCount,
		playlist.CreatedAt,
	)
	if err != nil {
		if translated := translateErr(err); translated != err {
			return translated
		}
		return errors.Internal(op, err, "Failed to create playlist")
	}
	return nil
}

func (s *PlaylistStore) SetActive(ctx context.Context, id string, active bool) error {
	const op = "PlaylistStore.SetActive"

	_, err := s.db.ExecContext(ctx,
		`UPDATE user_playlists SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return errors.Internal(op, err, "Failed to update playlist")
	}
	return nil
}

func (s *PlaylistStore) UpdateSyncState(ctx context.Context, id string, lastSynced time.Time, videoCount int) error {
	const op = "PlaylistStore.UpdateSyncState"

	_, err := s.db.ExecContext(ctx,
		`UPDATE user_playlists SET last_synced = ?, video_count = ? WHERE id = ?`,
		lastSynced, videoCount, id)
	if err != nil {
		return errors.Internal(op, err, "Failed to update playlist sync state")
	}
	return nil
}
