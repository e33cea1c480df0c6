package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const (
	DEFAULT_MODEL             = "gpt-3.5-turbo"
	DEFAULT_CHUNK_SIZE        = 200
	DEFAULT_CHUNK_TOKENS      = 500
	DEFAULT_AGGREGATE_TOKENS  = 800
	DEFAULT_CHUNK_PACING      = 1500 * time.Millisecond
	DEFAULT_MAX_ATTEMPTS      = 3
	DEFAULT_INITIAL_BACKOFF   = 2 * time.Second
	DEFAULT_MAX_BACKOFF       = 10 * time.Second
	DEFAULT_RATELIMIT_COOLDOWN = 60 * time.Second
	DEFAULT_REVIEWS_CSV       = "data/raw/reviews.csv"
	DEFAULT_SUMMARIES_CSV     = "data/processed/ai_summaries.csv"
	DEFAULT_REQUESTS_PER_MIN  = 30
	DEFAULT_CRAWLER_TIMEOUT   = 30 * time.Second
)

// ErrMissingAPIKey is the only fatal startup condition: without a credential
// for the generation service no product can be processed at all.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// Config carries every tunable of the pipeline. It is built once at startup
// and passed by value into component constructors so tests can substitute
// their own values without touching the environment.
type Config struct {
	OpenAIAPIKey string
	Model        string

	ChunkSize       int
	ChunkTokens     int
	AggregateTokens int
	ChunkPacing     time.Duration

	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RateLimitCooldown time.Duration

	ReviewsCSV   string
	SummariesCSV string

	RequestsPerMinute int
	CrawlerTimeout    time.Duration

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
}

// FromEnv builds a Config from the process environment, falling back to the
// defaults above for anything unset.
func FromEnv() Config {
	return Config{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		Model:        envString("AI_MODEL", DEFAULT_MODEL),

		ChunkSize:       envInt("CHUNK_SIZE", DEFAULT_CHUNK_SIZE),
		ChunkTokens:     envInt("CHUNK_TOKENS", DEFAULT_CHUNK_TOKENS),
		AggregateTokens: envInt("AGGREGATE_TOKENS", DEFAULT_AGGREGATE_TOKENS),
		ChunkPacing:     envDuration("CHUNK_PACING", DEFAULT_CHUNK_PACING),

		MaxAttempts:       envInt("MAX_ATTEMPTS", DEFAULT_MAX_ATTEMPTS),
		InitialBackoff:    envDuration("INITIAL_BACKOFF", DEFAULT_INITIAL_BACKOFF),
		MaxBackoff:        envDuration("MAX_BACKOFF", DEFAULT_MAX_BACKOFF),
		RateLimitCooldown: envDuration("RATELIMIT_COOLDOWN", DEFAULT_RATELIMIT_COOLDOWN),

		ReviewsCSV:   envString("REVIEWS_CSV", DEFAULT_REVIEWS_CSV),
		SummariesCSV: envString("SUMMARIES_CSV", DEFAULT_SUMMARIES_CSV),

		RequestsPerMinute: envInt("REQUESTS_PER_MINUTE", DEFAULT_REQUESTS_PER_MIN),
		CrawlerTimeout:    envDuration("CRAWLER_TIMEOUT", DEFAULT_CRAWLER_TIMEOUT),

		ValkeyAddress:  os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:      os.Getenv("VALKEY_TLS") == "true",
	}
}

// Validate reports the fatal startup conditions. Everything else is fail-soft
// at the component level.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
