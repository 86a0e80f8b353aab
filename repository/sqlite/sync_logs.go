package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/halioti2/recipe-loop-mvp/errors"
	"github.com/halioti2/recipe-loop-mvp/models"
)

type SyncLogStore struct {
	db *sql.DB
}

func (s *SyncLogStore) Create(ctx context.Context, log *models.SyncLog) error {
	const op = "SyncLogStore.Create"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO playlist_sync_logs (
            id, user_id, playlist_id, youtube_playlist_id,
            status, sync_started
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.UserID,
		log.PlaylistID,
		log.YouTubePlaylistID,
		log.Status,
		log.SyncStarted,
	)
	if err != nil {
		return errors.Internal(op, err, "Failed to create sync log")
	}
	return nil
}

func (s *SyncLogStore) Finish(ctx context.Context, log *models.SyncLog) error {
	const op = "SyncLogStore.Finish"

	var errorsJSON sql.NullString
	if len(log.Errors) > 0 {
		raw, err := json.Marshal(log.Errors)
		if err != nil {
			return errors.Internal(op, err, "Failed to encode sync errors")
		}
		errorsJSON = sql.NullString{String: string(raw), Valid: true}
	}

	var completed sql.NullTime
	if log.SyncCompleted != nil {
		completed = sql.NullTime{Time: *log.SyncCompleted, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE playlist_sync_logs SET
            status = ?,
            sync_completed = ?,
            recipes_added = ?,
            recipes_updated = ?,
            recipes_skipped = ?,
            errors = ?
         WHERE id = ?`,
		log.Status,
		completed,
		log.RecipesAdded,
		log.RecipesUpdated,
		log.RecipesSkipped,
		errorsJSON,
		log.ID,
	)
	if err != nil {
		return errors.Internal(op, err, "Failed to finish sync log")
	}
	return nil
}

func (s *SyncLogStore) Find(ctx context.Context, id string) (*models.SyncLog, error) {
	const op = "SyncLogStore.Find"

	log := &models.SyncLog{}
	var completed sql.NullTime
	var errorsJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, playlist_id, youtube_playlist_id, status,
                sync_started, sync_completed, recipes_added,
                recipes_updated, recipes_skipped, errors
         FROM playlist_sync_logs WHERE id = ?`, id).Scan(
		&log.ID,
		&log.UserID,
		&log.PlaylistID,
		&log.YouTubePlaylistID,
		&log.Status,
		&log.SyncStarted,
		&completed,
		&log.RecipesAdded,
		&log.RecipesUpdated,
		&log.RecipesSkipped,
		&errorsJSON,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Sync log not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query sync log")
	}

	if completed.Valid {
		log.SyncCompleted = &completed.Time
	}
	if errorsJSON.Valid && errorsJSON.String != "" {
		if err := json.Unmarshal([]byte(errorsJSON.String), &log.Errors); err != nil {
			return nil, errors.Internal(op, err, "Failed to decode sync errors")
		}
	}

	return log, nil
}
