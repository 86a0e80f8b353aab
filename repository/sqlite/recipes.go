package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/halioti2/recipe-loop-mvp/errors"
	"github.com/halioti2/recipe-loop-mvp/models"
)

type RecipeStore struct {
	db *sql.DB
}

const recipeColumns = `id, youtube_video_id, title, channel, video_url,
       summary, transcript, ingredients, sync_status, created_at`

func (s *RecipeStore) scanRecipe(row *sql.Row) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	var videoID, channel, summary, transcript, ingredients sql.NullString

	err := row.Scan(
		&recipe.ID,
		&videoID,
		&recipe.Title,
		&channel,
		&recipe.VideoURL,
		&summary,
		&transcript,
		&ingredients,
		&recipe.SyncStatus,
		&recipe.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.YouTubeVideoID = videoID.String
	recipe.Channel = channel.String
	recipe.Summary = summary.String
	recipe.Transcript = transcript.String

	recipe.Ingredients, err = unmarshalStrings(ingredients)
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

func (s *RecipeStore) Find(ctx context.Context, id string) (*models.Recipe, error) {
	const op = "RecipeStore.Find"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)

	recipe, err := s.scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Recipe not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query recipe")
	}
	return recipe, nil
}

func (s *RecipeStore) FindByIDs(ctx context.Context, ids []string) ([]*models.Recipe, error) {
	const op = "RecipeStore.FindByIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query recipes")
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe := &models.Recipe{}
		var videoID, channel, summary, transcript, ingredients sql.NullString

		if err := rows.Scan(
			&recipe.ID,
			&videoID,
			&recipe.Title,
			&channel,
			&recipe.VideoURL,
			&summary,
			&transcript,
			&ingredients,
			&recipe.SyncStatus,
			&recipe.CreatedAt,
		); err != nil {
			return nil, errors.Internal(op, err, "Failed to scan recipe")
		}

		recipe.YouTubeVideoID = videoID.String
		recipe.Channel = channel.String
		recipe.Summary = summary.String
		recipe.Transcript = transcript.String
		if recipe.Ingredients, err = unmarshalStrings(ingredients); err != nil {
			return nil, errors.Internal(op, err, "Failed to decode ingredients")
		}

		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate recipes")
	}

	return recipes, nil
}

func (s *RecipeStore) FindByVideoID(ctx context.Context, videoID string) (*models.Recipe, error) {
	const op = "RecipeStore.FindByVideoID"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE youtube_video_id = ?`, videoID)

	recipe, err := s.scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Recipe not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query recipe")
	}
	return recipe, nil
}

// FindByLegacyURL matches rows created before canonical video ids were
// stored, by exact canonical URL or substring on the stored URL.
func (s *RecipeStore) FindByLegacyURL(ctx context.Context, canonicalURL, videoID string) (*models.Recipe, error) {
	const op = "RecipeStore.FindByLegacyURL"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes
         WHERE video_url = ? OR video_url LIKE '%' || ? || '%'
         LIMIT 1`, canonicalURL, videoID)

	recipe, err := s.scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Recipe not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query recipe")
	}
	return recipe, nil
}

func (s *RecipeStore) Create(ctx context.Context, recipe *models.Recipe) error {
	const op = "RecipeStore.Create"

	ingredients, err := marshalStrings(recipe.Ingredients)
	if err != nil {
		return errors.Internal(op, err, "Failed to encode ingredients")
	}

	videoID := sql.NullString{String: recipe.YouTubeVideoID, Valid: recipe.YouTubeVideoID != ""}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (
            id, youtube_video_id, title, channel, video_url,
            summary, transcript, ingredients, sync_status, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID,
		videoID,
		recipe.Title,
		recipe.Channel,
		recipe.VideoURL,
		recipe.Summary,
		recipe.Transcript,
		ingredients,
		recipe.SyncStatus,
		recipe.CreatedAt,
	)
	if err != nil {
		if translated := translateErr(err); translated != err {
			return translated
		}
		return errors.Internal(op, err, "Failed to create recipe")
	}
	return nil
}

func (s *RecipeStore) SetCanonicalVideo(ctx context.Context, id, videoID, videoURL string) error {
	const op = "RecipeStore.SetCanonicalVideo"

	_, err := s.db.ExecContext(ctx,
		`UPDATE recipes SET youtube_video_id = ?, video_url = ? WHERE id = ?`,
		videoID, videoURL, id)
	if err != nil {
		if translated := translateErr(err); translated != err {
			return translated
		}
		return errors.Internal(op, err, "Failed to backfill canonical video id")
	}
	return nil
}

func (s *RecipeStore) UpdateEnrichment(ctx context.Context, id string, update models.EnrichmentUpdate) error {
	const op = "RecipeStore.UpdateEnrichment"

	if update.Empty() {
		return nil
	}

	var sets []string
	var args []interface{}

	if update.Transcript != nil {
		sets = append(sets, "transcript = ?")
		args = append(args, *update.Transcript)
	}
	if update.Ingredients != nil {
		ingredients, err := marshalStrings(update.Ingredients)
		if err != nil {
			return errors.Internal(op, err, "Failed to encode ingredients")
		}
		sets = append(sets, "ingredients = ?")
		args = append(args, ingredients)
	}

	args = append(args, id)
	_, err := s.db.ExecContext(ctx,
		`UPDATE recipes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return errors.Internal(op, err, "Failed to update recipe enrichment")
	}
	return nil
}
