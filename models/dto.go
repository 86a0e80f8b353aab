package models

// SyncResult is the response of one playlist sync run.
type SyncResult struct {
	PlaylistName         string          `json:"playlist_name"`
	TotalVideos          int             `json:"total_videos"`
	GlobalRecipesCreated int             `json:"global_recipes_created"`
	UserRecipesAdded     int             `json:"user_recipes_added"`
	AlreadyInPlaylist    int             `json:"already_in_playlist"`
	ErrorsCount          int             `json:"errors_count"`
	Errors               []SyncItemError `json:"errors,omitempty"`
	SyncLogID            string          `json:"sync_log_id"`
}

// EnrichmentCandidate is one recipe the finder flagged, merged across the
// active playlists it appears in.
type EnrichmentCandidate struct {
	UserRecipeID     string `json:"user_recipe_id"`
	RecipeID         string `json:"recipe_id"`
	Title            string `json:"title"`
	VideoURL         string `json:"video_url"`
	YouTubeVideoID   string `json:"youtube_video_id,omitempty"`
	Playlist         string `json:"playlist"`
	NeedsTranscript  bool   `json:"needs_transcript"`
	NeedsIngredients bool   `json:"needs_ingredients"`
	HasTranscript    bool   `json:"has_transcript"`
	HasIngredients   bool   `json:"has_ingredients"`
}

// EnrichmentStats summarizes a finder run.
type EnrichmentStats struct {
	TotalRecipesNeedingEnrichment  int      `json:"total_recipes_needing_enrichment"`
	NeedsTranscriptOnly            int      `json:"needs_transcript_only"`
	NeedsIngredientsOnly           int      `json:"needs_ingredients_only"`
	NeedsBoth                      int      `json:"needs_both"`
	PlaylistsInvolved              []string `json:"playlists_involved"`
	EstimatedProcessingTimeMinutes int      `json:"estimated_processing_time_minutes"`
}

// EnrichmentReport is the finder response.
type EnrichmentReport struct {
	Stats   EnrichmentStats       `json:"stats"`
	Recipes []EnrichmentCandidate `json:"recipes"`
}

// ProcessError identifies one recipe that failed during batch enrichment.
type ProcessError struct {
	RecipeID string `json:"recipe_id"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"error"`
}

// ProcessResult is the response of one enrichment batch. The caller
// resubmits RemainingRecipeIDs until it comes back empty.
type ProcessResult struct {
	BatchSize             int            `json:"batch_size"`
	Processed             int            `json:"processed"`
	SuccessfulTranscript  int            `json:"successful_transcript"`
	SuccessfulIngredients int            `json:"successful_ingredients"`
	Errors                []ProcessError `json:"errors"`
	RemainingRecipeIDs    []string       `json:"remaining_recipe_ids"`
	HasMore               bool           `json:"has_more"`
}

// EnrichableRecipe is the finder's raw join row: one user link plus the
// recipe enrichment state and the active playlist it came through.
type EnrichableRecipe struct {
	UserRecipeID   string
	RecipeID       string
	Title          string
	VideoURL       string
	YouTubeVideoID string
	PlaylistTitle  string
	Transcript     string
	Ingredients    []string
}

// EnrichmentUpdate carries only the fields recomputed this round so the
// store writes a partial update, never a full overwrite.
type EnrichmentUpdate struct {
	Transcript  *string
	Ingredients []string
}

func (u EnrichmentUpdate) Empty() bool {
	return u.Transcript == nil && u.Ingredients == nil
}
