package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Cache      CacheConfig
	Log        LogConfig
	Pipeline   PipelineConfig
	Summarizer SummarizerConfig
	Breaker    BreakerConfig
	Search     SearchConfig
	Notify     NotifyConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls the clean-response and embedding caches.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 1000

	// EmbeddingTTL bounds how long ranking embeddings are reused.
	EmbeddingTTL time.Duration // default: 30m
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// PipelineConfig gathers the cleaning pipeline's heuristic knobs.
//
// The scoring coefficients live with their scorers (quality.Coefficients,
// cleaner.RegionWeights); this struct holds the cross-phase thresholds.
type PipelineConfig struct {
	// MaxInputBytes rejects oversized raw HTML before any DOM parsing.
	MaxInputBytes int // default: 10 MB

	// MinInputChars below which input is treated as "no content" rather
	// than parsed.
	MinInputChars int // default: 100

	// MinReadableChars is the minimum extracted text length for the
	// readability result to be considered valid.
	MinReadableChars int // default: 500

	// MinChunkScore is the quality-gate threshold; chunks scoring below it
	// are dropped from the output entirely.
	MinChunkScore int // default: 25

	// ChunkWords is the word budget per chunk when splitting for summary mode.
	ChunkWords int // default: 600

	// MinChunkWords floors the per-chunk summary target after splitting
	// the document budget across kept chunks.
	MinChunkWords int // default: 40
}

// SummarizerConfig controls the abstractive summarization backend.
type SummarizerConfig struct {
	// APIKey for the OpenAI-compatible backend. Empty disables the
	// abstractive tier; the extractive and key-fact fallbacks still run.
	APIKey string

	// BaseURL of the OpenAI-compatible API.
	BaseURL string // default: "https://api.openai.com/v1"

	// Models is the ordered candidate list probed at initialization;
	// the first one that responds within InitTimeout is kept.
	Models []string // default: ["gpt-4o-mini", "gpt-4o"]

	// EmbeddingModel used by the ranking sibling.
	EmbeddingModel string // default: "text-embedding-3-small"

	// InitTimeout bounds each candidate probe during lazy initialization.
	InitTimeout time.Duration // default: 30s

	// PassTimeout bounds a single summarization pass.
	PassTimeout time.Duration // default: 30s

	// DocumentTimeout bounds all summarization work for one document.
	DocumentTimeout time.Duration // default: 120s
}

// BreakerConfig controls the shared circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the consecutive-failure count that opens the breaker.
	FailureThreshold int // default: 5

	// CoolDown is how long the breaker stays open before a half-open probe.
	CoolDown time.Duration // default: 5m
}

// SearchConfig controls the DuckDuckGo search collaborator.
type SearchConfig struct {
	// Timeout is the per-request deadline for search and page fetches.
	Timeout time.Duration // default: 15s

	// MaxBodyBytes caps how much of a fetched page is read.
	MaxBodyBytes int // default: 10 MB
}

// NotifyConfig controls the fire-and-forget notification sink.
type NotifyConfig struct {
	// WebhookURL receives extraction-failure events. Empty disables delivery.
	WebhookURL string

	// Secret signs event payloads with HMAC-SHA256 when non-empty.
	Secret string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("DISTILL_HOST", "0.0.0.0"),
			Port: envIntOr("DISTILL_PORT", 8080),
			Mode: envOr("DISTILL_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("DISTILL_AUTH_ENABLED", true),
			APIKeys: envSliceOr("DISTILL_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("DISTILL_RATE_RPS", 5.0),
			Burst:             envIntOr("DISTILL_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries:   envIntOr("DISTILL_CACHE_MAX_ENTRIES", 1000),
			EmbeddingTTL: envDurationOr("DISTILL_EMBEDDING_TTL", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  envOr("DISTILL_LOG_LEVEL", "info"),
			Format: envOr("DISTILL_LOG_FORMAT", "json"),
		},
		Pipeline: PipelineConfig{
			MaxInputBytes:    envIntOr("DISTILL_MAX_INPUT_BYTES", 10<<20),
			MinInputChars:    envIntOr("DISTILL_MIN_INPUT_CHARS", 100),
			MinReadableChars: envIntOr("DISTILL_MIN_READABLE_CHARS", 500),
			MinChunkScore:    envIntOr("DISTILL_MIN_CHUNK_SCORE", 25),
			ChunkWords:       envIntOr("DISTILL_CHUNK_WORDS", 600),
			MinChunkWords:    envIntOr("DISTILL_MIN_CHUNK_WORDS", 40),
		},
		Summarizer: SummarizerConfig{
			APIKey:          os.Getenv("DISTILL_LLM_API_KEY"),
			BaseURL:         envOr("DISTILL_LLM_BASE_URL", "https://api.openai.com/v1"),
			Models:          envSliceOr("DISTILL_LLM_MODELS", []string{"gpt-4o-mini", "gpt-4o"}),
			EmbeddingModel:  envOr("DISTILL_EMBEDDING_MODEL", "text-embedding-3-small"),
			InitTimeout:     envDurationOr("DISTILL_LLM_INIT_TIMEOUT", 30*time.Second),
			PassTimeout:     envDurationOr("DISTILL_LLM_PASS_TIMEOUT", 30*time.Second),
			DocumentTimeout: envDurationOr("DISTILL_LLM_DOC_TIMEOUT", 120*time.Second),
		},
		Breaker: BreakerConfig{
			FailureThreshold: envIntOr("DISTILL_BREAKER_FAILURES", 5),
			CoolDown:         envDurationOr("DISTILL_BREAKER_COOLDOWN", 5*time.Minute),
		},
		Search: SearchConfig{
			Timeout:      envDurationOr("DISTILL_SEARCH_TIMEOUT", 15*time.Second),
			MaxBodyBytes: envIntOr("DISTILL_FETCH_MAX_BYTES", 10<<20),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("DISTILL_NOTIFY_WEBHOOK"),
			Secret:     os.Getenv("DISTILL_NOTIFY_SECRET"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
