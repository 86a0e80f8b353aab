package repository

import (
	"context"
	"errors"
	"time"

	"github.com/halioti2/recipe-loop-mvp/models"
)

// ErrDuplicate is returned when an insert hits a uniqueness constraint.
// Callers treat the pre-insert existence check as an optimization only;
// this sentinel is the store-level backstop for concurrent writers.
var ErrDuplicate = errors.New("duplicate row")

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

type RecipeRepository interface {
	Find(ctx context.Context, id string) (*models.Recipe, error)
	FindByIDs(ctx context.Context, ids []string) ([]*models.Recipe, error)
	FindByVideoID(ctx context.Context, videoID string) (*models.Recipe, error)
	// FindByLegacyURL matches pre-migration rows either by the exact
	// canonical URL or by a substring match on the stored URL.
	FindByLegacyURL(ctx context.Context, canonicalURL, videoID string) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	// SetCanonicalVideo backfills the canonical video id and normalizes
	// the URL on a legacy row.
	SetCanonicalVideo(ctx context.Context, id, videoID, videoURL string) error
	// UpdateEnrichment writes only the fields present in the update.
	UpdateEnrichment(ctx context.Context, id string, update models.EnrichmentUpdate) error
}

type PlaylistRepository interface {
	Find(ctx context.Context, id string) (*models.UserPlaylist, error)
	FindByUserAndYouTubeID(ctx context.Context, userID, youtubePlaylistID string) (*models.UserPlaylist, error)
	ListByUser(ctx context.Context, userID string) ([]*models.UserPlaylist, error)
	Create(ctx context.Context, playlist *models.UserPlaylist) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdateSyncState(ctx context.Context, id string, lastSynced time.Time, videoCount int) error
}

type UserRecipeRepository interface {
	Exists(ctx context.Context, userID, recipeID, playlistID string) (bool, error)
	Create(ctx context.Context, link *models.UserRecipe) error
	// FindEnrichable returns every user link whose playlist is active,
	// joined with the recipe's enrichment state.
	FindEnrichable(ctx context.Context, userID string) ([]models.EnrichableRecipe, error)
}

type SyncLogRepository interface {
	Create(ctx context.Context, log *models.SyncLog) error
	// Finish writes the terminal status, counters and error list. Each
	// log row is finished at most once.
	Finish(ctx context.Context, log *models.SyncLog) error
}
