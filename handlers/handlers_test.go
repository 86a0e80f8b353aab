package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/halioti2/recipe-loop-mvp/config"
	"github.com/halioti2/recipe-loop-mvp/models"
)

type fakeSyncService struct {
	result *models.SyncResult
	err    error
}

func (f *fakeSyncService) Run(ctx context.Context, userPlaylistID, accessToken string) (*models.SyncResult, error) {
	return f.result, f.err
}

type fakeEnrichmentService struct {
	report *models.EnrichmentReport
	result *models.ProcessResult
	err    error
}

func (f *fakeEnrichmentService) Find(ctx context.Context, userID string) (*models.EnrichmentReport, error) {
	return f.report, f.err
}

func (f *fakeEnrichmentService) Process(ctx context.Context, recipeIDs []string, maxBatchSize int) (*models.ProcessResult, error) {
	return f.result, f.err
}

type fakePlaylistService struct {
	playlist *models.UserPlaylist
	list     []*models.UserPlaylist
	err      error
}

func (f *fakePlaylistService) Connect(ctx context.Context, userID, youtubePlaylistID, title string) (*models.UserPlaylist, error) {
	return f.playlist, f.err
}

func (f *fakePlaylistService) Disconnect(ctx context.Context, userID, playlistID string) error {
	return f.err
}

func (f *fakePlaylistService) List(ctx context.Context, userID string) ([]*models.UserPlaylist, error) {
	return f.list, f.err
}

func newTestHandler() *Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return New(
		&config.Config{Version: "test"},
		&fakeSyncService{result: &models.SyncResult{PlaylistName: "Dinner Ideas", TotalVideos: 3}},
		&fakeEnrichmentService{
			report: &models.EnrichmentReport{Recipes: []models.EnrichmentCandidate{}},
			result: &models.ProcessResult{Processed: 1},
		},
		&fakePlaylistService{
			playlist: &models.UserPlaylist{ID: "pl-1", Title: "Dinner Ideas"},
			list:     []*models.UserPlaylist{},
		},
		log,
	)
}

func TestHealth(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

func TestSyncValidation(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name     string
		method   string
		body     string
		wantCode int
	}{
		{
			name:     "wrong method",
			method:   http.MethodGet,
			body:     "",
			wantCode: http.StatusMethodNotAllowed,
		},
		{
			name:     "invalid body",
			method:   http.MethodPost,
			body:     "{not json",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing playlist id",
			method:   http.MethodPost,
			body:     `{"youtube_token": "tok"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing token",
			method:   http.MethodPost,
			body:     `{"user_playlist_id": "pl-1"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "valid request",
			method:   http.MethodPost,
			body:     `{"user_playlist_id": "pl-1", "youtube_token": "tok"}`,
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/playlists/sync", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.Sync(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d; body: %s", rr.Code, tt.wantCode, rr.Body.String())
			}
		})
	}
}

func TestSyncResponseBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/playlists/sync",
		strings.NewReader(`{"user_playlist_id": "pl-1", "youtube_token": "tok"}`))
	rr := httptest.NewRecorder()
	h.Sync(rr, req)

	var result models.SyncResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.PlaylistName != "Dinner Ideas" || result.TotalVideos != 3 {
		t.Errorf("result = %+v", result)
	}
}

func TestEnrichFindValidation(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/enrich/find", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.EnrichFind(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing user_id", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/enrich/find", strings.NewReader(`{"user_id": "user-1"}`))
	rr = httptest.NewRecorder()
	h.EnrichFind(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestEnrichProcessValidation(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/enrich/process", strings.NewReader(`{"recipe_ids": []}`))
	rr := httptest.NewRecorder()
	h.EnrichProcess(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty recipe_ids", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/enrich/process",
		strings.NewReader(`{"recipe_ids": ["r-1"], "max_batch_size": 3}`))
	rr = httptest.NewRecorder()
	h.EnrichProcess(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestListPlaylistsRequiresUserID(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/playlists", nil)
	rr := httptest.NewRecorder()
	h.ListPlaylists(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/playlists?user_id=user-1", nil)
	rr = httptest.NewRecorder()
	h.ListPlaylists(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestConnectPlaylistValidation(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/playlists/connect",
		strings.NewReader(`{"user_id": "user-1"}`))
	rr := httptest.NewRecorder()
	h.ConnectPlaylist(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing youtube_playlist_id", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/playlists/connect",
		strings.NewReader(`{"user_id": "user-1", "youtube_playlist_id": "PLabc", "title": "Dinner"}`))
	rr = httptest.NewRecorder()
	h.ConnectPlaylist(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestDisconnectPlaylistValidation(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/playlists/disconnect",
		strings.NewReader(`{"user_id": "user-1"}`))
	rr := httptest.NewRecorder()
	h.DisconnectPlaylist(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing playlist_id", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/playlists/disconnect",
		strings.NewReader(`{"user_id": "user-1", "playlist_id": "pl-1"}`))
	rr = httptest.NewRecorder()
	h.DisconnectPlaylist(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
