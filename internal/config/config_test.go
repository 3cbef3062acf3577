package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovsx/storage/internal/storage"
)

var storageVars = []string{
	"COS_SECRET_ID", "COS_SECRET_KEY", "COS_REGION", "COS_BUCKET_NAME", "COS_ROOT_DIR",
	"COS_ENDPOINT", "COS_API_ENDPOINT", "COS_MULTIPART_THRESHOLD", "COS_PART_SIZE",
	"COS_POOL_SIZE", "COS_COPY_POLICY", "COS_JANITOR_SCHEDULE", "COS_JANITOR_MAX_AGE",
	"COS_CACHE_MAX_AGE", "COS_CACHE_MUTABLE_MAX_AGE", "PORT", "APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range storageVars {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "info", cfg.Log.Level)

	s := cfg.Storage
	assert.False(t, s.Enabled())
	assert.Equal(t, int64(DefaultMultipartThreshold), s.MultipartThreshold)
	assert.Equal(t, int64(DefaultPartSize), s.PartSize)
	assert.Equal(t, DefaultPoolSize, s.PoolSize)
	assert.Equal(t, storage.CopyAbortOnError, s.CopyPolicy)
	assert.Equal(t, DefaultJanitorSchedule, s.JanitorSchedule)
	assert.Equal(t, DefaultJanitorMaxAge, s.JanitorMaxAge)
	assert.Equal(t, storage.DefaultCachePolicy().MaxAge, s.Cache.MaxAge)
}

func TestLoadStorageSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("COS_SECRET_ID", "AKID")
	t.Setenv("COS_SECRET_KEY", "secret")
	t.Setenv("COS_REGION", "ap-guangzhou")
	t.Setenv("COS_BUCKET_NAME", "openvsx-1250000000")
	t.Setenv("COS_ROOT_DIR", "/openvsx/")
	t.Setenv("COS_ENDPOINT", "https://cdn.example.com/")
	t.Setenv("COS_MULTIPART_THRESHOLD", "8MiB")
	t.Setenv("COS_PART_SIZE", "2 MiB")
	t.Setenv("COS_POOL_SIZE", "4")
	t.Setenv("COS_COPY_POLICY", "continue")
	t.Setenv("COS_JANITOR_MAX_AGE", "6h")
	t.Setenv("COS_CACHE_MAX_AGE", "1h")
	t.Setenv("COS_CACHE_MUTABLE_NAMES", "latest, nightly ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())

	s := cfg.Storage
	assert.True(t, s.Enabled())
	assert.Equal(t, "ap-guangzhou", s.Region)
	assert.Equal(t, "/openvsx/", s.RootDir)
	assert.Equal(t, "https://cdn.example.com/", s.Endpoint)
	assert.Equal(t, int64(8<<20), s.MultipartThreshold)
	assert.Equal(t, int64(2<<20), s.PartSize)
	assert.Equal(t, 4, s.PoolSize)
	assert.Equal(t, storage.CopyContinueOnError, s.CopyPolicy)
	assert.Equal(t, 6*time.Hour, s.JanitorMaxAge)
	assert.Equal(t, time.Hour, s.Cache.MaxAge)
	assert.Equal(t, []string{"latest", "nightly"}, s.Cache.MutableNames)
}

func TestLoadReportsEveryInvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("COS_PART_SIZE", "lots")
	t.Setenv("COS_POOL_SIZE", "0")
	t.Setenv("COS_COPY_POLICY", "retry")
	t.Setenv("COS_JANITOR_MAX_AGE", "yesterday")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"COS_PART_SIZE", "COS_POOL_SIZE must be positive", "copy policy", "COS_JANITOR_MAX_AGE"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestBlankBucketIsDisabled(t *testing.T) {
	assert.False(t, StorageConfig{BucketName: "  "}.Enabled())
	assert.True(t, StorageConfig{BucketName: "b"}.Enabled())
}
