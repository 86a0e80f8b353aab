package models

import "time"

// UserPlaylist is a user's connection to one YouTube playlist.
// Disconnecting toggles Active rather than deleting the row, so sync
// history and existing user links survive a reconnect.
type UserPlaylist struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	YouTubePlaylistID string     `json:"youtube_playlist_id"`
	Title             string     `json:"title"`
	Active            bool       `json:"active"`
	SyncEnabled       bool       `json:"sync_enabled"`
	LastSynced        *time.Time `json:"last_synced,omitempty"`
	VideoCount        int        `json:"video_count"`
	CreatedAt         time.Time  `json:"created_at"`
}

// UserRecipe links one user to one global recipe within one playlist.
// Unique over (user_id, recipe_id, playlist_id); the same recipe may
// appear for a user again only under a different playlist.
type UserRecipe struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	RecipeID           string    `json:"recipe_id"`
	PlaylistID         string    `json:"playlist_id"`
	PositionInPlaylist int       `json:"position_in_playlist"`
	AddedAt            time.Time `json:"added_at"`
	Favorite           bool      `json:"favorite,omitempty"`
	Note               string    `json:"note,omitempty"`
}

// SyncLog statuses.
const (
	SyncLogRunning   = "running"
	SyncLogCompleted = "completed"
	SyncLogFailed    = "failed"
)

// SyncLog records one sync invocation. A retried sync creates a new row;
// rows are never updated more than once after creation.
type SyncLog struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	PlaylistID        string     `json:"playlist_id"`
	YouTubePlaylistID string     `json:"youtube_playlist_id"`
	Status            string     `json:"status"`
	SyncStarted       time.Time  `json:"sync_started"`
	SyncCompleted     *time.Time `json:"sync_completed,omitempty"`
	RecipesAdded      int        `json:"recipes_added"`
	RecipesUpdated    int        `json:"recipes_updated"`
	RecipesSkipped    int        `json:"recipes_skipped"`
	Errors            []SyncItemError `json:"errors,omitempty"`
}

// SyncItemError identifies one failed video within a sync run with
// enough context to retry it individually.
type SyncItemError struct {
	VideoID  string `json:"video_id,omitempty"`
	Position int    `json:"position"`
	Message  string `json:"error"`
}
