package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	// Server settings
	Env          string        `json:"env"`
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir string `json:"log_dir"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	Middleware MiddlewareConfig `json:"middleware"`
	CORS       CORSConfig       `json:"cors"`
	RateLimit  RateLimitConfig  `json:"rate_limit"`
	Database   DatabaseConfig   `json:"database"`
	YouTube    YouTubeConfig    `json:"youtube"`
	Transcript TranscriptConfig `json:"transcript"`
	Gemini     GeminiConfig     `json:"gemini"`
	Enrichment EnrichmentConfig `json:"enrichment"`

	Version string `json:"version"`
}

type MiddlewareConfig struct {
	EnableLogger    bool `json:"enable_logger"`
	EnableCORS      bool `json:"enable_cors"`
	EnableRateLimit bool `json:"enable_rate_limit"`
	EnableTimeout   bool `json:"enable_timeout"`
}

type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstSize         int  `json:"burst_size"`
}

type DatabaseConfig struct {
	Path               string        `json:"path"`
	MaxConnections     int           `json:"max_connections"`
	MaxIdleConnections int           `json:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime"`
}

type YouTubeConfig struct {
	PageSize int64 `json:"page_size"`
}

type TranscriptConfig struct {
	BaseURL  string        `json:"base_url"`
	Timeout  time.Duration `json:"timeout"`
	MaxChars int           `json:"max_chars"`
}

type GeminiConfig struct {
	APIKey            string        `json:"-"`
	Model             string        `json:"model"`
	Timeout           time.Duration `json:"timeout"`
	MaxOutputTokens   int           `json:"max_output_tokens"`
	Temperature       float64       `json:"temperature"`
	RequestsPerMinute int           `json:"requests_per_minute"`
}

type EnrichmentConfig struct {
	DefaultBatchSize int `json:"default_batch_size"`
}

func defaultDevMiddleware() MiddlewareConfig {
	return MiddlewareConfig{
		EnableLogger:    true,
		EnableCORS:      true,
		EnableRateLimit: false, // Disabled for testing
		EnableTimeout:   false, // Disabled for easier debugging
	}
}

func defaultProdMiddleware() MiddlewareConfig {
	return MiddlewareConfig{
		EnableLogger:    true,
		EnableCORS:      true,
		EnableRateLimit: true,
		EnableTimeout:   true,
	}
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Env:          getEnv("ENV", "development"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		LogDir: getEnv("LOG_DIR", "/var/log/recipe-loop"),

		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 2*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		Version: getEnv("VERSION", "1.0.0"),

		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "OPTIONS"},
			),
			AllowedHeaders: getEnvAsStringSlice(
				"CORS_ALLOWED_HEADERS",
				[]string{"Content-Type", "Authorization"},
			),
			ExposedHeaders:   getEnvAsStringSlice("CORS_EXPOSED_HEADERS", []string{}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
		},

		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "/var/lib/recipe-loop/data.db"),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		YouTube: YouTubeConfig{
			PageSize: int64(getEnvAsInt("YOUTUBE_PAGE_SIZE", 50)),
		},

		Transcript: TranscriptConfig{
			BaseURL:  getEnv("TRANSCRIPT_API_URL", "https://transcript-microservice.fly.dev/transcript"),
			Timeout:  getEnvAsDuration("TRANSCRIPT_TIMEOUT", 10*time.Second),
			MaxChars: getEnvAsInt("TRANSCRIPT_MAX_CHARS", 3000),
		},

		Gemini: GeminiConfig{
			APIKey:            getEnv("GEMINI_API_KEY", ""),
			Model:             getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:           getEnvAsDuration("GEMINI_TIMEOUT", 12*time.Second),
			MaxOutputTokens:   getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 512),
			Temperature:       getEnvAsFloat("GEMINI_TEMPERATURE", 0.2),
			RequestsPerMinute: getEnvAsInt("GEMINI_RPM", 15),
		},

		Enrichment: EnrichmentConfig{
			DefaultBatchSize: getEnvAsInt("ENRICH_BATCH_SIZE", 5),
		},

		Middleware: defaultDevMiddleware(),
	}

	if cfg.Env == "production" {
		cfg.Middleware = defaultProdMiddleware()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}
	if err := validateTimeouts(c); err != nil {
		return err
	}
	return validateServices(c)
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{filepath.Dir(c.Database.Path), "database directory"},
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return errors.Wrapf(err, "failed to create %s", p.name)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be positive")
	}
	if c.Transcript.Timeout <= 0 {
		return errors.New("transcript timeout must be positive")
	}
	if c.Gemini.Timeout <= 0 {
		return errors.New("gemini timeout must be positive")
	}
	return nil
}

func validateServices(c *Config) error {
	if c.Transcript.MaxChars <= 0 {
		return errors.New("transcript max chars must be positive")
	}
	if c.Enrichment.DefaultBatchSize <= 0 {
		return errors.New("enrichment batch size must be positive")
	}
	// Development runs may stub enrichment out; production must not
	// start without the key and fail on the first enrichment request.
	if c.Env == "production" && c.Gemini.APIKey == "" {
		return errors.New("gemini api key is required in production")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
