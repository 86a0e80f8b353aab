package playlists

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halioti2/recipe-loop-mvp/errors"
	"github.com/halioti2/recipe-loop-mvp/models"
	"github.com/halioti2/recipe-loop-mvp/repository"
)

// Service manages a user's playlist connections. Disconnecting never
// deletes anything; the connection is deactivated so existing recipe
// links and sync history survive a reconnect.
type Service interface {
	Connect(ctx context.Context, userID, youtubePlaylistID, title string) (*models.UserPlaylist, error)
	Disconnect(ctx context.Context, userID, playlistID string) error
	List(ctx context.Context, userID string) ([]*models.UserPlaylist, error)
}

type service struct {
	playlists repository.PlaylistRepository
	log       *logrus.Logger
}

func NewService(playlists repository.PlaylistRepository, log *logrus.Logger) Service {
	return &service{playlists: playlists, log: log}
}

func (s *service) Connect(ctx context.Context, userID, youtubePlaylistID, title string) (*models.UserPlaylist, error) {
	existing, err := s.playlists.FindByUserAndYouTubeID(ctx, userID, youtubePlaylistID)
	if err == nil {
		if !existing.Active {
			if err := s.playlists.SetActive(ctx, existing.ID, true); err != nil {
				return nil, err
			}
			existing.Active = true
			s.log.WithFields(logrus.Fields{
				"user_id":     userID,
				"playlist_id": existing.ID,
			}).Info("Reactivated playlist connection")
		}
		return existing, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	playlist := &models.UserPlaylist{
		ID:                uuid.New().String(),
		UserID:            userID,
		YouTubePlaylistID: youtubePlaylistID,
		Title:             title,
		Active:            true,
		SyncEnabled:       true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		if repository.IsDuplicate(err) {
			// Concurrent connect for the same playlist; use the winner.
			return s.playlists.FindByUserAndYouTubeID(ctx, userID, youtubePlaylistID)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":             userID,
		"playlist_id":         playlist.ID,
		"youtube_playlist_id": youtubePlaylistID,
	}).Info("Connected playlist")

	return playlist, nil
}

func (s *service) Disconnect(ctx context.Context, userID, playlistID string) error {
	playlist, err := s.playlists.Find(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.UserID != userID {
		// Do not reveal other users' playlists.
		return errors.NotFound("playlists.Disconnect", nil, "Playlist not found")
	}

	if err := s.playlists.SetActive(ctx, playlistID, false); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":     userID,
		"playlist_id": playlistID,
	}).Info("Disconnected playlist")

	return nil
}

func (s *service) List(ctx context.Context, userID string) ([]*models.UserPlaylist, error) {
	return s.playlists.ListByUser(ctx, userID)
}
