package sync

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halioti2/recipe-loop-mvp/models"
	"github.com/halioti2/recipe-loop-mvp/repository/sqlite"
	"github.com/halioti2/recipe-loop-mvp/youtube"
)

type fakeSource struct {
	videos []youtube.Video
	err    error
}

func (f *fakeSource) PlaylistVideos(ctx context.Context, playlistID, accessToken string) ([]youtube.Video, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T, source youtube.VideoSource) (Service, *sqlite.Store, *models.UserPlaylist) {
	t.Helper()

	db, err := sqlite.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := sqlite.NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	playlist := &models.UserPlaylist{
		ID:                uuid.New().String(),
		UserID:            "user-1",
		YouTubePlaylistID: "PLtest",
		Title:             "Dinner Ideas",
		Active:            true,
		SyncEnabled:       true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := store.Playlists.Create(context.Background(), playlist); err != nil {
		t.Fatalf("playlist Create() error = %v", err)
	}

	svc := NewService(store.Recipes, store.Playlists, store.UserRecipes, store.SyncLogs, source, testLogger())
	return svc, store, playlist
}

func TestRunThreeVideoScenario(t *testing.T) {
	// Video A is brand new, video B already exists as a global recipe
	// from another user, video C is already linked into this playlist.
	source := &fakeSource{videos: []youtube.Video{
		{VideoID: "aaaaaaaaaaa", Title: "Pasta Night", ChannelTitle: "Chef A"},
		{VideoID: "bbbbbbbbbbb", Title: "Quick Curry", ChannelTitle: "Chef B"},
		{VideoID: "ccccccccccc", Title: "Taco Tuesday", ChannelTitle: "Chef C"},
	}}
	svc, store, playlist := newFixture(t, source)
	ctx := context.Background()

	existing := &models.Recipe{
		ID:             uuid.New().String(),
		YouTubeVideoID: "bbbbbbbbbbb",
		Title:          "Quick Curry",
		VideoURL:       "https://www.youtube.com/watch?v=bbbbbbbbbbb",
		SyncStatus:     models.SyncStatusSynced,
		CreatedAt:      time.Now().UTC(),
	}
	if err := store.Recipes.Create(ctx, existing); err != nil {
		t.Fatal(err)
	}

	linked := &models.Recipe{
		ID:             uuid.New().String(),
		YouTubeVideoID: "ccccccccccc",
		Title:          "Taco Tuesday",
		VideoURL:       "https://www.youtube.com/watch?v=ccccccccccc",
		SyncStatus:     models.SyncStatusSynced,
		CreatedAt:      time.Now().UTC(),
	}
	if err := store.Recipes.Create(ctx, linked); err != nil {
		t.Fatal(err)
	}
	if err := store.UserRecipes.Create(ctx, &models.UserRecipe{
		ID:         uuid.New().String(),
		UserID:     playlist.UserID,
		RecipeID:   linked.ID,
		PlaylistID: playlist.ID,
		AddedAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Run(ctx, playlist.ID, "token")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.TotalVideos != 3 {
		t.Errorf("TotalVideos = %d, want 3", result.TotalVideos)
	}
	if result.GlobalRecipesCreated != 1 {
		t.Errorf("GlobalRecipesCreated = %d, want 1", result.GlobalRecipesCreated)
	}
	if result.UserRecipesAdded != 2 {
		t.Errorf("UserRecipesAdded = %d, want 2", result.UserRecipesAdded)
	}
	if result.AlreadyInPlaylist != 1 {
		t.Errorf("AlreadyInPlaylist = %d, want 1", result.AlreadyInPlaylist)
	}
	if result.ErrorsCount != 0 {
		t.Errorf("ErrorsCount = %d, want 0; errors: %+v", result.ErrorsCount, result.Errors)
	}

	log, err := store.SyncLogs.Find(ctx, result.SyncLogID)
	if err != nil {
		t.Fatalf("sync log Find() error = %v", err)
	}
	if log.Status != models.SyncLogCompleted {
		t.Errorf("sync log status = %q, want completed", log.Status)
	}
	if log.SyncCompleted == nil {
		t.Error("sync log has no completion time")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	source := &fakeSource{videos: []youtube.Video{
		{VideoID: "aaaaaaaaaaa", Title: "Pasta Night", ChannelTitle: "Chef A"},
		{VideoID: "bbbbbbbbbbb", Title: "Quick Curry", ChannelTitle: "Chef B"},
	}}
	svc, _, playlist := newFixture(t, source)
	ctx := context.Background()

	first, err := svc.Run(ctx, playlist.ID, "token")
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.GlobalRecipesCreated != 2 || first.UserRecipesAdded != 2 {
		t.Fatalf("first run = %+v", first)
	}

	second, err := svc.Run(ctx, playlist.ID, "token")
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.GlobalRecipesCreated != 0 {
		t.Errorf("second run created %d recipes, want 0", second.GlobalRecipesCreated)
	}
	if second.UserRecipesAdded != 0 {
		t.Errorf("second run added %d links, want 0", second.UserRecipesAdded)
	}
	if second.AlreadyInPlaylist != 2 {
		t.Errorf("second run AlreadyInPlaylist = %d, want 2", second.AlreadyInPlaylist)
	}
}

func TestRunBackfillsLegacyRecipe(t *testing.T) {
	source := &fakeSource{videos: []youtube.Video{
		{VideoID: "dQw4w9WgXcQ", Title: "Classic Roast", ChannelTitle: "Chef A"},
	}}
	svc, store, playlist := newFixture(t, source)
	ctx := context.Background()

	legacy := &models.Recipe{
		ID:         uuid.New().String(),
		Title:      "Classic Roast",
		VideoURL:   "https://youtu.be/dQw4w9WgXcQ",
		SyncStatus: models.SyncStatusSynced,
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.Recipes.Create(ctx, legacy); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Run(ctx, playlist.ID, "token")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.GlobalRecipesCreated != 0 {
		t.Errorf("GlobalRecipesCreated = %d, want 0 (legacy row reused)", result.GlobalRecipesCreated)
	}
	if result.UserRecipesAdded != 1 {
		t.Errorf("UserRecipesAdded = %d, want 1", result.UserRecipesAdded)
	}

	got, err := store.Recipes.FindByVideoID(ctx, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FindByVideoID() after backfill error = %v", err)
	}
	if got.ID != legacy.ID {
		t.Errorf("backfill created a new row %s instead of reusing %s", got.ID, legacy.ID)
	}
	if got.VideoURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("VideoURL not normalized: %q", got.VideoURL)
	}
}

func TestRunRecordsItemErrorForMissingVideoID(t *testing.T) {
	source := &fakeSource{videos: []youtube.Video{
		{VideoID: "", Title: "Deleted video", ChannelTitle: "Unknown Channel"},
		{VideoID: "aaaaaaaaaaa", Title: "Pasta Night", ChannelTitle: "Chef A"},
	}}
	svc, _, playlist := newFixture(t, source)

	result, err := svc.Run(context.Background(), playlist.ID, "token")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.ErrorsCount != 1 {
		t.Fatalf("ErrorsCount = %d, want 1", result.ErrorsCount)
	}
	if result.Errors[0].Position != 0 {
		t.Errorf("error position = %d, want 0", result.Errors[0].Position)
	}
	if result.UserRecipesAdded != 1 {
		t.Errorf("UserRecipesAdded = %d, want 1 (good video still processed)", result.UserRecipesAdded)
	}
}

func TestRunAllVideosFailedMarksLogFailed(t *testing.T) {
	source := &fakeSource{videos: []youtube.Video{
		{VideoID: "", Title: "Deleted video"},
	}}
	svc, store, playlist := newFixture(t, source)

	result, err := svc.Run(context.Background(), playlist.ID, "token")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	log, err := store.SyncLogs.Find(context.Background(), result.SyncLogID)
	if err != nil {
		t.Fatal(err)
	}
	if log.Status != models.SyncLogFailed {
		t.Errorf("sync log status = %q, want failed", log.Status)
	}
}

func TestRunSourceFailure(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("quota exceeded")}
	svc, _, playlist := newFixture(t, source)

	if _, err := svc.Run(context.Background(), playlist.ID, "token"); err == nil {
		t.Fatal("Run() expected error when playlist fetch fails")
	}
}

func TestRunUnknownPlaylist(t *testing.T) {
	svc, _, _ := newFixture(t, &fakeSource{})
	if _, err := svc.Run(context.Background(), "no-such-playlist", "token"); err == nil {
		t.Fatal("Run() expected error for unknown playlist")
	}
}
