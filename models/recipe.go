package models

import (
	"strings"
	"time"
)

// SyncStatus values stored on recipes.sync_status.
const (
	SyncStatusSynced = "synced"
)

// Recipe is the global, deduplicated record for one YouTube video. All
// users who have the same video in some playlist share one row, keyed by
// the canonical video id.
type Recipe struct {
	ID             string    `json:"id"`
	YouTubeVideoID string    `json:"youtube_video_id,omitempty"`
	Title          string    `json:"title"`
	Channel        string    `json:"channel,omitempty"`
	VideoURL       string    `json:"video_url"`
	Summary        string    `json:"summary,omitempty"`
	Transcript     string    `json:"transcript,omitempty"`
	Ingredients    []string  `json:"ingredients,omitempty"`
	SyncStatus     string    `json:"sync_status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r *Recipe) HasTranscript() bool {
	return r.Transcript != ""
}

func (r *Recipe) HasValidIngredients() bool {
	return HasValidIngredients(r.Ingredients)
}

// HasValidIngredients reports whether an ingredients list contains at
// least one non-blank entry. A list of empty strings does not count as
// enriched, so a garbage model result gets retried instead of sticking.
func HasValidIngredients(ingredients []string) bool {
	if len(ingredients) == 0 {
		return false
	}
	for _, ing := range ingredients {
		if strings.TrimSpace(ing) != "" {
			return true
		}
	}
	return false
}

// EnrichmentNeed is the four-state classification of what a recipe still
// requires before it is usable in a grocery list.
type EnrichmentNeed int

const (
	NeedNone EnrichmentNeed = iota
	NeedTranscript
	NeedIngredients
	NeedBoth
)

func (n EnrichmentNeed) Transcript() bool {
	return n == NeedTranscript || n == NeedBoth
}

func (n EnrichmentNeed) Ingredients() bool {
	return n == NeedIngredients || n == NeedBoth
}

// Need computes the recipe's enrichment state once, so callers never
// re-derive the transcript/ingredient combination piecemeal.
func (r *Recipe) Need() EnrichmentNeed {
	switch {
	case !r.HasTranscript() && !r.HasValidIngredients():
		return NeedBoth
	case !r.HasTranscript():
		return NeedTranscript
	case !r.HasValidIngredients():
		return NeedIngredients
	default:
		return NeedNone
	}
}
