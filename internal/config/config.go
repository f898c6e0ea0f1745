package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	Embedding   EmbeddingConfig
	VectorStore VectorStoreConfig
	Feedback    FeedbackConfig
	Scoring     ScoringConfig
	Sentry      SentryConfig
	Anthropic   AnthropicConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// EmbeddingConfig holds the embedding-model client configuration
type EmbeddingConfig struct {
	ModelID   string
	Dimension int
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	// MaxTextChars is the longest composed text, in characters, that the
	// embedding client accepts; longer input is rejected as invalid
	MaxTextChars int
	// CacheTTL controls how long composed-text embeddings are cached in Redis
	CacheTTL time.Duration
}

// VectorStoreConfig holds the vector-store configuration. It defaults
// to the primary database: tender/profile embeddings live in pgvector
// columns on the same Postgres instance unless overridden.
type VectorStoreConfig struct {
	URL string
}

// FeedbackConfig holds the feedback processor's tuning knobs
type FeedbackConfig struct {
	ReembedMinInterval     time.Duration
	InteractionDedupWindow time.Duration
	NReembed               int
	DiscoveredInterestMin  int
}

// ScoringConfig holds the rule scorer's default per-dimension weights
type ScoringConfig struct {
	DefaultWeights map[string]float64
}

// SentryConfig holds error-reporting configuration
type SentryConfig struct {
	DSN         string
	Environment string
}

// AnthropicConfig holds the content-generation extractor's API key
type AnthropicConfig struct {
	APIKey string
}

// defaultScoringWeights is the default weight share per scoring
// dimension, overridden in whole or in part by DEFAULT_SCORING_WEIGHTS.
var defaultScoringWeights = map[string]float64{
	"category":      20,
	"sub_sector":    10,
	"keyword":       15,
	"region":        10,
	"budget":        10,
	"certification": 5,
	"language":      5,
	"deadline":      5,
	"urgency":       5,
	"popularity":    5,
	"semantic":      10,
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "tenderlens"),
			Password:        getEnv("DB_PASSWORD", "tenderlens"),
			DBName:          getEnv("DB_NAME", "tenderlens"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Embedding: EmbeddingConfig{
			ModelID:      getEnv("EMBEDDING_MODEL_ID", "amazon.titan-embed-text-v2:0"),
			Dimension:    getEnvAsInt("EMBEDDING_DIMENSION", 1024),
			Endpoint:     getEnv("EMBEDDING_ENDPOINT", ""),
			Region:       getEnv("EMBEDDING_AWS_REGION", "us-east-1"),
			AccessKey:    getEnv("EMBEDDING_AWS_ACCESS_KEY", ""),
			SecretKey:    getEnv("EMBEDDING_AWS_SECRET_KEY", ""),
			MaxTextChars: getEnvAsInt("EMBEDDING_MAX_TEXT_CHARS", 4000),
			CacheTTL:     getEnvAsDuration("EMBEDDING_CACHE_TTL", 30*24*time.Hour),
		},
		VectorStore: VectorStoreConfig{
			URL: getEnv("VECTOR_STORE_URL", ""),
		},
		Feedback: FeedbackConfig{
			ReembedMinInterval:     getEnvAsDuration("REEMBED_MIN_INTERVAL", time.Hour),
			InteractionDedupWindow: getEnvAsDuration("INTERACTION_DEDUP_WINDOW", 10*time.Second),
			NReembed:               getEnvAsInt("N_REEMBED", 25),
			DiscoveredInterestMin:  getEnvAsInt("D_MIN", 3),
		},
		Scoring: ScoringConfig{
			DefaultWeights: getEnvAsWeights("DEFAULT_SCORING_WEIGHTS", defaultScoringWeights),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Environment: getEnv("SENTRY_ENVIRONMENT", getEnv("SERVER_ENV", "development")),
		},
		Anthropic: AnthropicConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
		},
	}

	// Validate required fields
	if cfg.JWT.AccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.JWT.RefreshSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// DSNOrDefault falls back to the primary database DSN when no dedicated
// vector-store URL is configured; the reference deployment keeps tender and
// profile embeddings in pgvector columns on the same Postgres instance.
func (c *VectorStoreConfig) DSNOrDefault(dbDSN string) string {
	if c.URL != "" {
		return c.URL
	}
	return dbDSN
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsWeights parses a "dim=share,dim=share" env string into a weight
// map, falling back to defaults entirely when unset or malformed.
func getEnvAsWeights(key string, defaultValue map[string]float64) map[string]float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	weights := make(map[string]float64, len(defaultValue))
	for _, pair := range strings.Split(value, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			return defaultValue
		}
		share, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return defaultValue
		}
		weights[strings.TrimSpace(kv[0])] = share
	}
	return weights
}
