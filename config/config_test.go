package config

import (
	"path/filepath"
	"testing"
	"time"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("DB_PATH", filepath.Join(dir, "data.db"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.Transcript.Timeout != 10*time.Second {
		t.Errorf("Transcript.Timeout = %v, want 10s", cfg.Transcript.Timeout)
	}
	if cfg.Transcript.MaxChars != 3000 {
		t.Errorf("Transcript.MaxChars = %d, want 3000", cfg.Transcript.MaxChars)
	}
	if cfg.Gemini.Timeout != 12*time.Second {
		t.Errorf("Gemini.Timeout = %v, want 12s", cfg.Gemini.Timeout)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.MaxOutputTokens != 512 {
		t.Errorf("Gemini.MaxOutputTokens = %d, want 512", cfg.Gemini.MaxOutputTokens)
	}
	if cfg.Enrichment.DefaultBatchSize != 5 {
		t.Errorf("Enrichment.DefaultBatchSize = %d, want 5", cfg.Enrichment.DefaultBatchSize)
	}
	if cfg.YouTube.PageSize != 50 {
		t.Errorf("YouTube.PageSize = %d, want 50", cfg.YouTube.PageSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	setTestDirs(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TRANSCRIPT_TIMEOUT", "5s")
	t.Setenv("GEMINI_TEMPERATURE", "0.7")
	t.Setenv("ENRICH_BATCH_SIZE", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.Transcript.Timeout != 5*time.Second {
		t.Errorf("Transcript.Timeout = %v, want 5s", cfg.Transcript.Timeout)
	}
	if cfg.Gemini.Temperature != 0.7 {
		t.Errorf("Gemini.Temperature = %v, want 0.7", cfg.Gemini.Temperature)
	}
	if cfg.Enrichment.DefaultBatchSize != 10 {
		t.Errorf("Enrichment.DefaultBatchSize = %d, want 10", cfg.Enrichment.DefaultBatchSize)
	}
}

func TestProductionMiddlewarePreset(t *testing.T) {
	setTestDirs(t)
	t.Setenv("ENV", "production")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Middleware.EnableRateLimit || !cfg.Middleware.EnableTimeout {
		t.Errorf("production middleware = %+v, want rate limit and timeout enabled", cfg.Middleware)
	}
}

func TestProductionRequiresGeminiKey(t *testing.T) {
	setTestDirs(t)
	t.Setenv("ENV", "production")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for missing Gemini key in production")
	}
}

func TestValidateRejectsBadTimeouts(t *testing.T) {
	setTestDirs(t)
	t.Setenv("TRANSCRIPT_TIMEOUT", "-1s")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for negative transcript timeout")
	}
}
