package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	// Report history; empty disables persistence
	DatabasePath string

	// Artifacts
	ArtifactBackend string
	ArtifactDir     string
	WorkspaceDir    string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// External tools
	TextChunkProbe string
	MediaProber    string
	ToolTimeout    time.Duration

	// Redis result cache; empty address disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Upload limits
	MaxFileSize int64

	// Images declaring more pixels than this skip error level analysis
	MaxImagePixels int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabasePath:      os.Getenv("DATABASE_PATH"),
		ArtifactBackend:   getEnv("ARTIFACT_BACKEND", "local"),
		ArtifactDir:       getEnv("ARTIFACT_DIR", "data/artifacts"),
		WorkspaceDir:      os.Getenv("WORKSPACE_DIR"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "forensics-artifacts"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		TextChunkProbe:    getEnv("TEXT_CHUNK_PROBE", "native"),
		MediaProber:       getEnv("MEDIA_PROBER", "auto"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
	}

	if _, ok := os.LookupEnv("DATABASE_PATH"); !ok {
		cfg.DatabasePath = "data/reports.db"
	}

	var err error
	if cfg.ToolTimeout, err = getDuration("TOOL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	maxSize, err := getInt("MAX_FILE_SIZE", 50<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxFileSize = int64(maxSize)
	maxPixels, err := getInt("MAX_IMAGE_PIXELS", 40_000_000)
	if err != nil {
		return nil, err
	}
	cfg.MaxImagePixels = int64(maxPixels)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ArtifactBackend {
	case "local", "s3":
	default:
		return fmt.Errorf("ARTIFACT_BACKEND must be local or s3, got %q", c.ArtifactBackend)
	}
	switch c.TextChunkProbe {
	case "native", "identify":
	default:
		return fmt.Errorf("TEXT_CHUNK_PROBE must be native or identify, got %q", c.TextChunkProbe)
	}
	switch c.MediaProber {
	case "auto", "native", "ffprobe":
	default:
		return fmt.Errorf("MEDIA_PROBER must be auto, native or ffprobe, got %q", c.MediaProber)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive")
	}
	if c.ToolTimeout <= 0 {
		return fmt.Errorf("TOOL_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
