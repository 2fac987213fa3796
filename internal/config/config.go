// Package config defines configuration parsing and lexicon table loading.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all engine configuration parsed from environment variables.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Pool filtering
	FreshnessWindowDays int `env:"FRESHNESS_WINDOW_DAYS" envDefault:"30"`
	MaxPoolSize         int `env:"MAX_POOL_SIZE" envDefault:"1000"`

	// Scoring fan-out: per-posting scoring is independent, so the bounded
	// pool is spread across this many workers.
	ScoreWorkers int `env:"SCORE_WORKERS" envDefault:"8"`

	// EmbeddingRefs is K, the number of reference embeddings drawn from the
	// candidate's prior high-confidence comparisons.
	EmbeddingRefs int `env:"EMBEDDING_REFS" envDefault:"5"`

	// ComparisonWindowDays bounds the historical window for gap analysis.
	ComparisonWindowDays int `env:"COMPARISON_WINDOW_DAYS" envDefault:"90"`

	// Result cache (optional; disabled when RedisAddr is empty).
	RedisAddr      string        `env:"REDIS_ADDR"`
	ResultCacheTTL time.Duration `env:"RESULT_CACHE_TTL" envDefault:"5m"`

	// Per-user request throttling.
	RateLimitPerMin int `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	RateLimitBurst  int `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// Optional Qdrant-backed embedding history.
	QdrantURL        string `env:"QDRANT_URL"`
	QdrantAPIKey     string `env:"QDRANT_API_KEY"`
	QdrantCollection string `env:"QDRANT_COLLECTION" envDefault:"comparison_embeddings"`

	// LexiconDir holds the YAML lexicon tables; compiled-in defaults are
	// used for any table missing from the directory.
	LexiconDir string `env:"LEXICON_DIR" envDefault:"configs/lexicons"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// FreshnessWindow returns the posting freshness window as a duration.
func (c Config) FreshnessWindow() time.Duration {
	return time.Duration(c.FreshnessWindowDays) * 24 * time.Hour
}

// ComparisonWindow returns the gap-analysis history window as a duration.
func (c Config) ComparisonWindow() time.Duration {
	return time.Duration(c.ComparisonWindowDays) * 24 * time.Hour
}

// IsDev reports whether the engine runs in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the engine runs in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }
