// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/ovsx/storage/internal/storage"
)

// Defaults applied when the matching variable is unset.
const (
	DefaultPort               = "8080"
	DefaultMultipartThreshold = 5 * 1024 * 1024
	DefaultPartSize           = 1 * 1024 * 1024
	DefaultPoolSize           = 16
	DefaultJanitorSchedule    = "@hourly"
	DefaultJanitorMaxAge      = 24 * time.Hour
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port      string
	JWTSecret string
	AppEnv    string
	Log       LogConfig
	Storage   StorageConfig
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig holds the Tencent COS backend settings.
type StorageConfig struct {
	SecretID   string
	SecretKey  string
	Region     string
	BucketName string
	// RootDir nests every key, e.g. "openvsx".
	RootDir string
	// Endpoint is the public base URL used for locations; honored only when it ends with '/'.
	Endpoint string
	// APIEndpoint overrides the S3 API host (e.g. "http://localhost:9000" for a local MinIO).
	APIEndpoint string

	MultipartThreshold int64
	PartSize           int64
	PoolSize           int
	CopyPolicy         storage.CopyPolicy
	Cache              storage.CachePolicy

	// JanitorSchedule is a cron spec; empty disables cleanup of stale multipart uploads.
	JanitorSchedule string
	JanitorMaxAge   time.Duration
}

// Enabled reports whether a bucket is configured.
func (c StorageConfig) Enabled() bool {
	return strings.TrimSpace(c.BucketName) != ""
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading from environment")
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := &Config{
		Port:      getEnv("PORT", DefaultPort),
		JWTSecret: getEnv("JWT_SECRET", ""),
		AppEnv:    getEnv("APP_ENV", "development"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Storage: StorageConfig{
			SecretID:        getEnv("COS_SECRET_ID", ""),
			SecretKey:       getEnv("COS_SECRET_KEY", ""),
			Region:          getEnv("COS_REGION", ""),
			BucketName:      getEnv("COS_BUCKET_NAME", ""),
			RootDir:         getEnv("COS_ROOT_DIR", ""),
			Endpoint:        getEnv("COS_ENDPOINT", ""),
			APIEndpoint:     getEnv("COS_API_ENDPOINT", ""),
			JanitorSchedule: getEnv("COS_JANITOR_SCHEDULE", DefaultJanitorSchedule),
		},
	}

	s := &cfg.Storage
	var err error
	s.MultipartThreshold, err = getBytes("COS_MULTIPART_THRESHOLD", DefaultMultipartThreshold)
	collect(err)
	s.PartSize, err = getBytes("COS_PART_SIZE", DefaultPartSize)
	collect(err)
	s.PoolSize, err = getInt("COS_POOL_SIZE", DefaultPoolSize)
	collect(err)
	s.CopyPolicy, err = storage.ParseCopyPolicy(os.Getenv("COS_COPY_POLICY"))
	collect(err)
	s.JanitorMaxAge, err = getDuration("COS_JANITOR_MAX_AGE", DefaultJanitorMaxAge)
	collect(err)

	s.Cache = storage.DefaultCachePolicy()
	s.Cache.MaxAge, err = getDuration("COS_CACHE_MAX_AGE", s.Cache.MaxAge)
	collect(err)
	s.Cache.MutableMaxAge, err = getDuration("COS_CACHE_MUTABLE_MAX_AGE", 0)
	collect(err)
	if v, ok := os.LookupEnv("COS_CACHE_MUTABLE_NAMES"); ok {
		s.Cache.MutableNames = splitList(v)
	}

	if s.PartSize <= 0 {
		errs = append(errs, errors.New("COS_PART_SIZE must be positive"))
	}
	if s.PoolSize <= 0 {
		errs = append(errs, errors.New("COS_POOL_SIZE must be positive"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("load config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getBytes accepts plain byte counts or sizes such as "5MiB" and "8 MB".
func getBytes(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := humanize.ParseBytes(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return int64(n), nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
