package sqlite

import (
	"context"
	"database/sql"

	"github.com/halioti2/recipe-loop-mvp/errors"
	"github.com/halioti2/recipe-loop-mvp/models"
)

type UserRecipeStore struct {
	db *sql.DB
}

func (s *UserRecipeStore) Exists(ctx context.Context, userID, recipeID, playlistID string) (bool, error) {
	const op = "UserRecipeStore.Exists"

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM user_recipes
         WHERE user_id = ? AND recipe_id = ? AND playlist_id = ?`,
		userID, recipeID, playlistID).Scan(&count)
	if err != nil {
		return false, errors.Internal(op, err, "Failed to query user recipe")
	}
	return count > 0, nil
}

func (s *UserRecipeStore) Create(ctx context.Context, link *models.UserRecipe) error {
	const op = "UserRecipeStore.Create"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_recipes (
            id, user_id, recipe_id, playlist_id,
            position_in_playlist, added_at, favorite, note
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		link.ID,
		link.UserID,
		link.RecipeID,
		link.PlaylistID,
		link.PositionInPlaylist,
		link.AddedAt,
		link.Favorite,
		link.Note,
	)
	if err != nil {
		if translated := translateErr(err); translated != err {
			return translated
		}
		return errors.Internal(op, err, "Failed to create user recipe")
	}
	return nil
}

// FindEnrichable joins a user's links through active playlists onto the
// recipe enrichment columns. One row per link; the finder merges
// duplicates by recipe id.
func (s *UserRecipeStore) FindEnrichable(ctx context.Context, userID string) ([]models.EnrichableRecipe, error) {
	const op = "UserRecipeStore.FindEnrichable"

	rows, err := s.db.QueryContext(ctx,
		`SELECT ur.id, ur.recipe_id, r.title, r.video_url,
                r.youtube_video_id, p.title, r.transcript, r.ingredients
         FROM user_recipes ur
         JOIN recipes r ON r.id = ur.recipe_id
         JOIN user_playlists p ON p.id = ur.playlist_id
         WHERE ur.user_id = ? AND p.active = 1
         ORDER BY ur.added_at`, userID)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query enrichable recipes")
	}
	defer rows.Close()

	var results []models.EnrichableRecipe
	for rows.Next() {
		var row models.EnrichableRecipe
		var videoID, transcript, ingredients sql.NullString

		if err := rows.Scan(
			&row.UserRecipeID,
			&row.RecipeID,
			&row.Title,
			&row.VideoURL,
			&videoID,
			&row.PlaylistTitle,
			&transcript,
			&ingredients,
		); err != nil {
			return nil, errors.Internal(op, err, "Failed to scan enrichable recipe")
		}

		row.YouTubeVideoID = videoID.String
		row.Transcript = transcript.String
		if row.Ingredients, err = unmarshalStrings(ingredients); err != nil {
			return nil, errors.Internal(op, err, "Failed to decode ingredients")
		}

		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate enrichable recipes")
	}

	return results, nil
}
