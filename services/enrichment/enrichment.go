package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/halioti2/recipe-loop-mvp/gemini"
	"github.com/halioti2/recipe-loop-mvp/models"
	"github.com/halioti2/recipe-loop-mvp/repository"
	"github.com/halioti2/recipe-loop-mvp/transcript"
	"github.com/halioti2/recipe-loop-mvp/validation"
)

// Service finds recipes that still need transcripts or ingredients and
// processes them in bounded batches.
type Service interface {
	Find(ctx context.Context, userID string) (*models.EnrichmentReport, error)
	Process(ctx context.Context, recipeIDs []string, maxBatchSize int) (*models.ProcessResult, error)
}

type service struct {
	recipes          repository.RecipeRepository
	userRecipes      repository.UserRecipeRepository
	transcripts      transcript.Source
	generator        gemini.Generator
	validator        *validation.Validator
	defaultBatchSize int
	log              *logrus.Logger
}

func NewService(
	recipes repository.RecipeRepository,
	userRecipes repository.UserRecipeRepository,
	transcripts transcript.Source,
	generator gemini.Generator,
	defaultBatchSize int,
	log *logrus.Logger,
) Service {
	if defaultBatchSize <= 0 {
		defaultBatchSize = 5
	}
	return &service{
		recipes:          recipes,
		userRecipes:      userRecipes,
		transcripts:      transcripts,
		generator:        generator,
		validator:        validation.NewValidator(),
		defaultBatchSize: defaultBatchSize,
		log:              log,
	}
}

// Find scans the user's active playlists and reports every recipe still
// missing a transcript or a valid ingredient list. A recipe linked from
// several playlists appears once, attributed to the playlist of its
// earliest link.
func (s *service) Find(ctx context.Context, userID string) (*models.EnrichmentReport, error) {
	rows, err := s.userRecipes.FindEnrichable(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	playlists := make(map[string]bool)
	var playlistOrder []string
	report := &models.EnrichmentReport{
		Recipes: []models.EnrichmentCandidate{},
	}

	for _, row := range rows {
		if seen[row.RecipeID] {
			continue
		}
		seen[row.RecipeID] = true

		hasTranscript := row.Transcript != ""
		hasIngredients := models.HasValidIngredients(row.Ingredients)
		if hasTranscript && hasIngredients {
			continue
		}

		report.Recipes = append(report.Recipes, models.EnrichmentCandidate{
			UserRecipeID:     row.UserRecipeID,
			RecipeID:         row.RecipeID,
			Title:            row.Title,
			VideoURL:         row.VideoURL,
			YouTubeVideoID:   row.YouTubeVideoID,
			Playlist:         row.PlaylistTitle,
			NeedsTranscript:  !hasTranscript,
			NeedsIngredients: !hasIngredients,
			HasTranscript:    hasTranscript,
			HasIngredients:   hasIngredients,
		})

		switch {
		case !hasTranscript && !hasIngredients:
			report.Stats.NeedsBoth++
		case !hasTranscript:
			report.Stats.NeedsTranscriptOnly++
		default:
			report.Stats.NeedsIngredientsOnly++
		}

		if !playlists[row.PlaylistTitle] {
			playlists[row.PlaylistTitle] = true
			playlistOrder = append(playlistOrder, row.PlaylistTitle)
		}
	}

	report.Stats.TotalRecipesNeedingEnrichment = len(report.Recipes)
	report.Stats.PlaylistsInvolved = playlistOrder
	// Roughly half a minute per recipe, rounded up.
	report.Stats.EstimatedProcessingTimeMinutes = (len(report.Recipes) + 1) / 2

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"candidates": len(report.Recipes),
	}).Info("Enrichment scan finished")

	return report, nil
}

// Process enriches up to maxBatchSize of the given recipes and returns
// the ids left over for the next call. Every batch slot counts toward
// Processed, including slots consumed by failures.
func (s *service) Process(ctx context.Context, recipeIDs []string, maxBatchSize int) (*models.ProcessResult, error) {
	batchSize := maxBatchSize
	if batchSize <= 0 {
		batchSize = s.defaultBatchSize
	}
	if batchSize > len(recipeIDs) {
		batchSize = len(recipeIDs)
	}

	batch := recipeIDs[:batchSize]
	remaining := recipeIDs[batchSize:]

	result := &models.ProcessResult{
		BatchSize:          batchSize,
		Errors:             []models.ProcessError{},
		RemainingRecipeIDs: remaining,
		HasMore:            len(remaining) > 0,
	}

	found, err := s.recipes.FindByIDs(ctx, batch)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Recipe, len(found))
	for _, recipe := range found {
		byID[recipe.ID] = recipe
	}

	for _, id := range batch {
		result.Processed++

		recipe, ok := byID[id]
		if !ok {
			result.Errors = append(result.Errors, models.ProcessError{
				RecipeID: id,
				Message:  "Recipe not found",
			})
			continue
		}

		gotTranscript, gotIngredients, perr := s.enrichOne(ctx, recipe)
		if gotTranscript {
			result.SuccessfulTranscript++
		}
		if gotIngredients {
			result.SuccessfulIngredients++
		}
		if perr != nil {
			result.Errors = append(result.Errors, *perr)
		}
	}

	s.log.WithFields(logrus.Fields{
		"batch_size":  batchSize,
		"processed":   result.Processed,
		"transcripts": result.SuccessfulTranscript,
		"ingredients": result.SuccessfulIngredients,
		"errors":      len(result.Errors),
		"remaining":   len(remaining),
	}).Info("Enrichment batch finished")

	return result, nil
}

// enrichOne runs the transcript and ingredient stages for a single
// recipe and persists whatever was gained, even when a later stage
// fails.
func (s *service) enrichOne(ctx context.Context, recipe *models.Recipe) (gotTranscript, gotIngredients bool, perr *models.ProcessError) {
	need := recipe.Need()
	if need == models.NeedNone {
		return false, false, nil
	}

	update := models.EnrichmentUpdate{}
	transcriptText := recipe.Transcript

	if need.Transcript() {
		text, err := s.fetchTranscript(ctx, recipe)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"recipe_id": recipe.ID,
			}).WithError(err).Warn("Transcript fetch failed")
			perr = &models.ProcessError{
				RecipeID: recipe.ID,
				Title:    recipe.Title,
				Message:  fmt.Sprintf("Transcript fetch failed: %v", err),
			}
		} else if text != "" {
			update.Transcript = &text
			transcriptText = text
			gotTranscript = true
		}
	}

	// The model only sees recipes with a transcript; without one the
	// recipe is left for a later run once a transcript turns up.
	if need.Ingredients() && transcriptText != "" {
		ingredients, err := s.extractIngredients(ctx, recipe, transcriptText)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"recipe_id": recipe.ID,
			}).WithError(err).Warn("Ingredient extraction failed")
			if perr == nil {
				perr = &models.ProcessError{
					RecipeID: recipe.ID,
					Title:    recipe.Title,
					Message:  fmt.Sprintf("Ingredient extraction failed: %v", err),
				}
			}
		} else {
			update.Ingredients = ingredients
			gotIngredients = true
		}
	}

	if update.Empty() {
		return gotTranscript, gotIngredients, perr
	}

	if err := s.recipes.UpdateEnrichment(ctx, recipe.ID, update); err != nil {
		s.log.WithFields(logrus.Fields{
			"recipe_id": recipe.ID,
		}).WithError(err).Error("Failed to persist enrichment")
		return false, false, &models.ProcessError{
			RecipeID: recipe.ID,
			Title:    recipe.Title,
			Message:  fmt.Sprintf("Failed to persist enrichment: %v", err),
		}
	}

	return gotTranscript, gotIngredients, perr
}

func (s *service) fetchTranscript(ctx context.Context, recipe *models.Recipe) (string, error) {
	videoID := recipe.YouTubeVideoID
	if videoID == "" {
		// Legacy rows can hold arbitrary URLs; the last-11 fallback in
		// ExtractVideoID would turn a non-YouTube URL into a garbage id.
		if err := s.validator.ValidateURL(recipe.VideoURL); err != nil {
			return "", err
		}
		derived, err := validation.ExtractVideoID(recipe.VideoURL)
		if err != nil {
			return "", err
		}
		videoID = derived
	}
	return s.transcripts.Fetch(ctx, videoID)
}

func (s *service) extractIngredients(ctx context.Context, recipe *models.Recipe, transcriptText string) ([]string, error) {
	raw, err := s.generator.Generate(ctx, buildPrompt(recipe, transcriptText))
	if err != nil {
		return nil, err
	}

	ingredients, err := parseIngredients(raw)
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

func buildPrompt(recipe *models.Recipe, transcriptText string) string {
	var b strings.Builder
	b.WriteString("Extract the ingredient list from this cooking video. ")
	b.WriteString("Respond with ONLY a JSON array of ingredient strings, ")
	b.WriteString("including quantities where mentioned. ")
	b.WriteString("If no ingredients can be determined, respond with [].\n\n")
	fmt.Fprintf(&b, "Title: %s\n", recipe.Title)
	if recipe.Channel != "" {
		fmt.Fprintf(&b, "Channel: %s\n", recipe.Channel)
	}
	if recipe.Summary != "" {
		fmt.Fprintf(&b, "Description: %s\n", recipe.Summary)
	}
	if transcriptText != "" {
		fmt.Fprintf(&b, "Transcript: %s\n", transcriptText)
	}
	return b.String()
}

// parseIngredients decodes the model output and rejects responses that
// contain no usable ingredient, so a garbage result is retried on the
// next run instead of marking the recipe enriched.
func parseIngredients(raw string) ([]string, error) {
	cleaned := gemini.StripCodeFence(raw)

	var ingredients []string
	if err := json.Unmarshal([]byte(cleaned), &ingredients); err != nil {
		return nil, fmt.Errorf("model response is not a JSON string array: %w", err)
	}
	if !models.HasValidIngredients(ingredients) {
		return nil, fmt.Errorf("model returned no usable ingredients")
	}
	return ingredients, nil
}
