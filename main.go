package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/halioti2/recipe-loop-mvp/config"
	"github.com/halioti2/recipe-loop-mvp/gemini"
	"github.com/halioti2/recipe-loop-mvp/handlers"
	"github.com/halioti2/recipe-loop-mvp/logger"
	"github.com/halioti2/recipe-loop-mvp/middleware"
	"github.com/halioti2/recipe-loop-mvp/repository/sqlite"
	"github.com/halioti2/recipe-loop-mvp/services/enrichment"
	"github.com/halioti2/recipe-loop-mvp/services/playlists"
	syncservice "github.com/halioti2/recipe-loop-mvp/services/sync"
	"github.com/halioti2/recipe-loop-mvp/transcript"
	"github.com/halioti2/recipe-loop-mvp/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	if err := logger.Init(cfg.LogDir, cfg.Debug); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logging")
	}
	log := logrus.StandardLogger()

	db, err := sqlite.InitDB(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("Failed to close database")
		}
	}()

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	store, err := sqlite.NewStore(db)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize store")
	}

	videoSource := youtube.NewClient(youtube.Config{
		PageSize: cfg.YouTube.PageSize,
	})
	transcriptClient := transcript.NewClient(transcript.Config{
		BaseURL:  cfg.Transcript.BaseURL,
		Timeout:  cfg.Transcript.Timeout,
		MaxChars: cfg.Transcript.MaxChars,
	})
	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		Timeout:           cfg.Gemini.Timeout,
		MaxOutputTokens:   cfg.Gemini.MaxOutputTokens,
		Temperature:       cfg.Gemini.Temperature,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
	})

	syncSvc := syncservice.NewService(
		store.Recipes,
		store.Playlists,
		store.UserRecipes,
		store.SyncLogs,
		videoSource,
		log,
	)
	enrichmentSvc := enrichment.NewService(
		store.Recipes,
		store.UserRecipes,
		transcriptClient,
		geminiClient,
		cfg.Enrichment.DefaultBatchSize,
		log,
	)
	playlistSvc := playlists.NewService(store.Playlists, log)

	handler := handlers.New(cfg, syncSvc, enrichmentSvc, playlistSvc, log)

	mux := http.NewServeMux()
	handler.Register(mux)

	var chain []func(http.Handler) http.Handler
	chain = append(chain, middleware.RequestID(), middleware.Recovery(log))
	if cfg.Middleware.EnableLogger {
		chain = append(chain, middleware.Logging(log))
	}
	if cfg.Middleware.EnableCORS {
		chain = append(chain, middleware.CORS(cfg.CORS))
	}
	if cfg.Middleware.EnableRateLimit && cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
		chain = append(chain, limiter.Middleware)
	}
	if cfg.Middleware.EnableTimeout {
		chain = append(chain, middleware.Timeout(cfg.RequestTimeout))
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Chain(mux, chain...),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.WithField("port", cfg.ServerPort).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down the server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server shutdown failed")
	}
}
