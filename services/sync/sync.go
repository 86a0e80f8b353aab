package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halioti2/recipe-loop-mvp/errors"
	"github.com/halioti2/recipe-loop-mvp/models"
	"github.com/halioti2/recipe-loop-mvp/repository"
	"github.com/halioti2/recipe-loop-mvp/validation"
	"github.com/halioti2/recipe-loop-mvp/youtube"
)

// Service runs one full playlist sync: fetch the playlist's videos,
// resolve each video to a global recipe, and link the recipes into the
// user's playlist.
type Service interface {
	Run(ctx context.Context, userPlaylistID, accessToken string) (*models.SyncResult, error)
}

type service struct {
	recipes     repository.RecipeRepository
	playlists   repository.PlaylistRepository
	userRecipes repository.UserRecipeRepository
	syncLogs    repository.SyncLogRepository
	source      youtube.VideoSource
	log         *logrus.Logger
}

func NewService(
	recipes repository.RecipeRepository,
	playlists repository.PlaylistRepository,
	userRecipes repository.UserRecipeRepository,
	syncLogs repository.SyncLogRepository,
	source youtube.VideoSource,
	log *logrus.Logger,
) Service {
	return &service{
		recipes:     recipes,
		playlists:   playlists,
		userRecipes: userRecipes,
		syncLogs:    syncLogs,
		source:      source,
		log:         log,
	}
}

// counters accumulated over one run.
type runTotals struct {
	created    int
	linked     int
	skipped    int
	backfilled int
	errors     []models.SyncItemError
}

func (s *service) Run(ctx context.Context, userPlaylistID, accessToken string) (*models.SyncResult, error) {
	const op = "sync.Run"

	playlist, err := s.playlists.Find(ctx, userPlaylistID)
	if err != nil {
		return nil, err
	}

	syncLog := &models.SyncLog{
		ID:                uuid.New().String(),
		UserID:            playlist.UserID,
		PlaylistID:        playlist.ID,
		YouTubePlaylistID: playlist.YouTubePlaylistID,
		Status:            models.SyncLogRunning,
		SyncStarted:       time.Now().UTC(),
	}
	if err := s.syncLogs.Create(ctx, syncLog); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":     playlist.UserID,
		"playlist_id": playlist.ID,
		"sync_log_id": syncLog.ID,
	}).Info("Starting playlist sync")

	videos, err := s.source.PlaylistVideos(ctx, playlist.YouTubePlaylistID, accessToken)
	if err != nil {
		s.failLog(ctx, syncLog, err)
		return nil, errors.Internal(op, err, "Failed to fetch playlist videos")
	}

	totals := runTotals{}
	for position, video := range videos {
		if itemErr := s.syncVideo(ctx, playlist, video, position, &totals); itemErr != nil {
			totals.errors = append(totals.errors, *itemErr)
			s.log.WithFields(logrus.Fields{
				"video_id": itemErr.VideoID,
				"position": itemErr.Position,
			}).Warn(itemErr.Message)
		}
	}

	now := time.Now().UTC()
	if err := s.playlists.UpdateSyncState(ctx, playlist.ID, now, len(videos)); err != nil {
		s.log.WithField("playlist_id", playlist.ID).
			WithError(err).Error("Failed to record playlist sync state")
	}

	status := models.SyncLogCompleted
	if len(videos) > 0 && len(totals.errors) == len(videos) {
		// Only a run where every single video failed counts as failed.
		status = models.SyncLogFailed
	}

	syncLog.Status = status
	syncLog.SyncCompleted = &now
	syncLog.RecipesAdded = totals.linked
	syncLog.RecipesUpdated = totals.backfilled
	syncLog.RecipesSkipped = totals.skipped
	syncLog.Errors = totals.errors
	if err := s.syncLogs.Finish(ctx, syncLog); err != nil {
		s.log.WithField("sync_log_id", syncLog.ID).
			WithError(err).Error("Failed to finish sync log")
	}

	s.log.WithFields(logrus.Fields{
		"sync_log_id":     syncLog.ID,
		"total_videos":    len(videos),
		"recipes_created": totals.created,
		"recipes_linked":  totals.linked,
		"errors":          len(totals.errors),
		"status":          status,
	}).Info("Playlist sync finished")

	return &models.SyncResult{
		PlaylistName:         playlist.Title,
		TotalVideos:          len(videos),
		GlobalRecipesCreated: totals.created,
		UserRecipesAdded:     totals.linked,
		AlreadyInPlaylist:    totals.skipped,
		ErrorsCount:          len(totals.errors),
		Errors:               totals.errors,
		SyncLogID:            syncLog.ID,
	}, nil
}

// syncVideo resolves one playlist entry to a global recipe and links it.
// A non-nil return is recorded as an item error; the run continues.
func (s *service) syncVideo(
	ctx context.Context,
	playlist *models.UserPlaylist,
	video youtube.Video,
	position int,
	totals *runTotals,
) *models.SyncItemError {
	if video.VideoID == "" {
		return &models.SyncItemError{
			Position: position,
			Message:  "Playlist item has no video id",
		}
	}

	recipe, err := s.resolveRecipe(ctx, video, totals)
	if err != nil {
		return &models.SyncItemError{
			VideoID:  video.VideoID,
			Position: position,
			Message:  fmt.Sprintf("Failed to resolve recipe: %v", err),
		}
	}

	exists, err := s.userRecipes.Exists(ctx, playlist.UserID, recipe.ID, playlist.ID)
	if err != nil {
		return &models.SyncItemError{
			VideoID:  video.VideoID,
			Position: position,
			Message:  fmt.Sprintf("Failed to check playlist membership: %v", err),
		}
	}
	if exists {
		totals.skipped++
		return nil
	}

	link := &models.UserRecipe{
		ID:                 uuid.New().String(),
		UserID:             playlist.UserID,
		RecipeID:           recipe.ID,
		PlaylistID:         playlist.ID,
		PositionInPlaylist: position,
		AddedAt:            time.Now().UTC(),
	}
	if err := s.userRecipes.Create(ctx, link); err != nil {
		if repository.IsDuplicate(err) {
			totals.skipped++
			return nil
		}
		return &models.SyncItemError{
			VideoID:  video.VideoID,
			Position: position,
			Message:  fmt.Sprintf("Failed to link recipe: %v", err),
		}
	}

	totals.linked++
	return nil
}

// resolveRecipe finds or creates the global recipe for a video, in
// order: canonical video id, then legacy URL backfill, then insert.
func (s *service) resolveRecipe(
	ctx context.Context,
	video youtube.Video,
	totals *runTotals,
) (*models.Recipe, error) {
	canonicalURL := validation.CanonicalVideoURL(video.VideoID)

	recipe, err := s.recipes.FindByVideoID(ctx, video.VideoID)
	if err == nil {
		return recipe, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	legacy, err := s.recipes.FindByLegacyURL(ctx, canonicalURL, video.VideoID)
	if err == nil {
		if err := s.recipes.SetCanonicalVideo(ctx, legacy.ID, video.VideoID, canonicalURL); err != nil {
			if !repository.IsDuplicate(err) {
				return nil, err
			}
			// Another row already owns this video id; use that one.
			return s.recipes.FindByVideoID(ctx, video.VideoID)
		}
		legacy.YouTubeVideoID = video.VideoID
		legacy.VideoURL = canonicalURL
		totals.backfilled++
		s.log.WithFields(logrus.Fields{
			"recipe_id": legacy.ID,
			"video_id":  video.VideoID,
		}).Debug("Backfilled canonical video id on legacy recipe")
		return legacy, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	recipe = &models.Recipe{
		ID:             uuid.New().String(),
		YouTubeVideoID: video.VideoID,
		Title:          video.Title,
		Channel:        video.ChannelTitle,
		VideoURL:       canonicalURL,
		Summary:        video.Description,
		SyncStatus:     models.SyncStatusSynced,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		if repository.IsDuplicate(err) {
			// Lost the insert race to a concurrent sync; re-resolve.
			return s.recipes.FindByVideoID(ctx, video.VideoID)
		}
		return nil, err
	}

	totals.created++
	s.log.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"video_id":  video.VideoID,
	}).Debug("Created global recipe")
	return recipe, nil
}

// failLog marks a sync log failed before any videos were processed.
func (s *service) failLog(ctx context.Context, syncLog *models.SyncLog, cause error) {
	now := time.Now().UTC()
	syncLog.Status = models.SyncLogFailed
	syncLog.SyncCompleted = &now
	syncLog.Errors = []models.SyncItemError{{
		Message: fmt.Sprintf("Playlist fetch failed: %v", cause),
	}}
	if err := s.syncLogs.Finish(ctx, syncLog); err != nil {
		s.log.WithField("sync_log_id", syncLog.ID).
			WithError(err).Error("Failed to finish sync log")
	}
}
