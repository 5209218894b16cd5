// ABOUTME: Centralized configuration for the docchat service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all deployment-time settings. Everything here is resolved
// once at startup; nothing is a per-request parameter.
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	OpenAIBaseURL  string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Server settings
	Addr      string
	DBPath    string
	UploadDir string

	// Ingest settings
	ChunkSize       int
	ChunkOverlap    int
	MinTextLength   int
	IngestBatchSize int
	EmbedWorkers    int
	VectorDimension int

	// Query settings
	TopK              int
	KeepAliveInterval time.Duration
	MaxStreamDuration time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		ChatModel:         getEnv("CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:           getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:        getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:        getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		Addr:              getEnv("DOCCHAT_ADDR", ":3000"),
		DBPath:            getEnv("DOCCHAT_DB_PATH", "docchat.db"),
		UploadDir:         getEnv("DOCCHAT_UPLOAD_DIR", "uploads"),
		ChunkSize:         getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:      getEnvInt("CHUNK_OVERLAP", 200),
		MinTextLength:     getEnvInt("MIN_TEXT_LENGTH", 100),
		IngestBatchSize:   getEnvInt("INGEST_BATCH_SIZE", 50),
		EmbedWorkers:      getEnvInt("EMBED_WORKERS", 8),
		VectorDimension:   getEnvInt("VECTOR_DIMENSION", 1536),
		TopK:              getEnvInt("RETRIEVAL_TOP_K", 5),
		KeepAliveInterval: getEnvDuration("KEEPALIVE_INTERVAL", 15*time.Second),
		MaxStreamDuration: getEnvDuration("MAX_STREAM_DURATION", 5*time.Minute),
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations that would break ingest or retrieval.
// Chunking violations are fatal at startup, never per-request.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_OVERLAP must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MinTextLength < 0 {
		return fmt.Errorf("MIN_TEXT_LENGTH must not be negative, got %d", c.MinTextLength)
	}
	if c.IngestBatchSize <= 0 {
		return fmt.Errorf("INGEST_BATCH_SIZE must be positive, got %d", c.IngestBatchSize)
	}
	if c.EmbedWorkers <= 0 {
		return fmt.Errorf("EMBED_WORKERS must be positive, got %d", c.EmbedWorkers)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.KeepAliveInterval <= 0 {
		return fmt.Errorf("KEEPALIVE_INTERVAL must be positive, got %v", c.KeepAliveInterval)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
