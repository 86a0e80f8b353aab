package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halioti2/recipe-loop-mvp/config"
	"github.com/halioti2/recipe-loop-mvp/errors"
	"github.com/halioti2/recipe-loop-mvp/services/enrichment"
	"github.com/halioti2/recipe-loop-mvp/services/playlists"
	"github.com/halioti2/recipe-loop-mvp/services/sync"
	"github.com/halioti2/recipe-loop-mvp/utils"
)

type Handler struct {
	cfg        *config.Config
	sync       sync.Service
	enrichment enrichment.Service
	playlists  playlists.Service
	log        *logrus.Logger
	started    time.Time
}

func New(
	cfg *config.Config,
	syncService sync.Service,
	enrichmentService enrichment.Service,
	playlistService playlists.Service,
	log *logrus.Logger,
) *Handler {
	return &Handler{
		cfg:        cfg,
		sync:       syncService,
		enrichment: enrichmentService,
		playlists:  playlistService,
		log:        log,
		started:    time.Now(),
	}
}

// Register wires all routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/api/playlists/sync", h.Sync)
	mux.HandleFunc("/api/enrich/find", h.EnrichFind)
	mux.HandleFunc("/api/enrich/process", h.EnrichProcess)
	mux.HandleFunc("/api/playlists", h.ListPlaylists)
	mux.HandleFunc("/api/playlists/connect", h.ConnectPlaylist)
	mux.HandleFunc("/api/playlists/disconnect", h.DisconnectPlaylist)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.cfg.Version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

type syncRequest struct {
	UserPlaylistID string `json:"user_playlist_id"`
	YouTubeToken   string `json:"youtube_token"`
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Sync"

	if r.Method != http.MethodPost {
		utils.RespondWithError(w, errors.E(op, nil, "Invalid request method", http.StatusMethodNotAllowed))
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, errors.InvalidInput(op, err, "Invalid request body"))
		return
	}
	if req.UserPlaylistID == "" {
		utils.RespondWithError(w, errors.InvalidInput(op, nil, "user_playlist_id is required"))
		return
	}
	if req.YouTubeToken == "" {
		utils.RespondWithError(w, errors.InvalidInput(op, nil, "youtube_token is required"))
		return
	}

	result, err := h.sync.Run(r.Context(), req.UserPlaylistID, req.YouTubeToken)
	if err != nil {
		h.log.WithError(err).WithField("user_playlist_id", req.UserPlaylistID).
			Error("Playlist sync failed")
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

type enrichFindRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) EnrichFind(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.EnrichFind"

	if r.Method != http.MethodPost {
		utils.RespondWithError(w, errors.E(op, nil, "Invalid request method", http.StatusMethodNotAllowed))
		return
	}

	var req enrichFindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, errors.InvalidInput(op, err, "Invalid request body"))
		return
	}
	if req.UserID == "" {
		utils.RespondWithError(w, errors.InvalidInput(op, nil, "user_id is required"))
		return
	}

	report, err := h.enrichment.Find(r.Context(), req.UserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", req.UserID).Error("Enrichment scan failed")
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}

type enrichProcessRequest struct {
	RecipeIDs    []string `json:"recipe_ids"`
	MaxBatchSize int      `json:"max_batch_size"`
}

func (h *Handler) EnrichProcess(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.EnrichProcess"

	if r.Method != http.MethodPost {
		utils.RespondWithError(w, errors.E(op, nil, "Invalid request method", http.StatusMethodNotAllowed))
		return
	}

	var req enrichProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, errors.InvalidInput(op, err, "Invalid request body"))
		return
	}
	if len(req.RecipeIDs) == 0 {
		utils.RespondWithError(w, errors.InvalidInput(op, nil, "recipe_ids is required"))
		return
	}

	result, err := h.enrichment.Process(r.Context(), req.RecipeIDs, req.MaxBatchSize)
	if err != nil {
		h.log.WithError(err).Error("Enrichment batch failed")
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListPlaylists"

	if r.Method != http.MethodGet {
		utils.RespondWithError(w, errors.E(op, nil, "Invalid request method", http.StatusMethodNotAllowed))
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		utils.RespondWithError(w, errors.InvalidInput(op, nil, "user_id is required"))
		return
	}

	list, err := h.playlists.List(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("Failed to list playlists")
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"playlists": list})
}

type connectPlaylistRequest struct {
	UserID            string `json:"user_id"`
	YouTubePlaylistID string `json:"youtube_playlist_id"`
	Title             string `json:"title"`
}

func (h *Handler) ConnectPlaylist(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ConnectPlaylist"

	if r.Method != http.MethodPost {
		utils.RespondWithError(w, errors.E(op, nil, "Invalid request method", http.StatusMethodNotAllowed))
		return
	}

	var req connectPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, errors.InvalidInput(op, err, "Invalid request body"))
		return
	}
	if req.UserID == "" || req.YouTubePlaylistID == "" {
		utils.RespondWithError(w, errors.InvalidInput(op, nil, "user_id and youtube_playlist_id are required"))
		return
	}

	playlist, err := h.playlists.Connect(r.Context(), req.UserID, req.YouTubePlaylistID, req.Title)
	if err != nil {
		h.log.WithError(err).WithField("user_id", req.UserID).Error("Failed to connect playlist")
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, playlist)
}

type disconnectPlaylistRequest struct {
	UserID     string `json:"user_id"`
	PlaylistID string `json:"playlist_id"`
}

func (h *Handler) DisconnectPlaylist(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DisconnectPlaylist"

	if r.Method != http.MethodPost {
		utils.RespondWithError(w, errors.E(op, nil, "Invalid request method", http.StatusMethodNotAllowed))
		return
	}

	var req disconnectPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, errors.InvalidInput(op, err, "Invalid request body"))
		return
	}
	if req.UserID == "" || req.PlaylistID == "" {
		utils.RespondWithError(w, errors.InvalidInput(op, nil, "user_id and playlist_id are required"))
		return
	}

	if err := h.playlists.Disconnect(r.Context(), req.UserID, req.PlaylistID); err != nil {
		h.log.WithError(err).WithField("user_id", req.UserID).Error("Failed to disconnect playlist")
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}
