package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, StoreMongo, cfg.Store.Driver)
	assert.Equal(t, "coresync", cfg.Database.Name)
	assert.Equal(t, "https://whimsical-greyhound-498.convex.cloud", cfg.Convex.URL)
	assert.Equal(t, "gemini-2.0-flash-001", cfg.GenAI.Model)
	assert.InDelta(t, 0.4, cfg.GenAI.Temperature, 0.0001)
	assert.Equal(t, "34caa6a5-e59f-4a2a-a0de-9642aabdfe48", cfg.Vapi.AssistantID)
	assert.Equal(t, 24*time.Hour, cfg.Redis.DeliveryTTL)
	assert.Equal(t, 15*time.Minute, cfg.S3.URLExpiry)
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Resend.Enabled())
}

func TestLoadConfig_EnvAliases(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_CONVEX_URL", "https://public.convex.cloud")
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_abc")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("SERVER_ADDRESS", ":9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://public.convex.cloud", cfg.Convex.URL)
	assert.Equal(t, "whsec_abc", cfg.Clerk.WebhookSecret)
	assert.Equal(t, "gemini-key", cfg.GenAI.APIKey)
	assert.True(t, cfg.Resend.Enabled())
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoadConfig_EnvOverridesEveryKey(t *testing.T) {
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "AKIA")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET_NAME", "plans")
	t.Setenv("S3_USE_SSL", "false")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RESEND_FROM", "Coach <coach@example.com>")
	t.Setenv("LOG_DEVELOPMENT", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, "AKIA", cfg.S3.AccessKeyID)
	assert.Equal(t, "secret", cfg.S3.SecretAccessKey)
	assert.Equal(t, "plans", cfg.S3.BucketName)
	assert.False(t, cfg.S3.UseSSL)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "Coach <coach@example.com>", cfg.Resend.From)
	assert.True(t, cfg.Log.Development)
}

func TestLoadConfig_AliasPriority(t *testing.T) {
	t.Setenv("CONVEX_URL", "https://server.convex.cloud")
	t.Setenv("NEXT_PUBLIC_CONVEX_URL", "https://public.convex.cloud")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://server.convex.cloud", cfg.Convex.URL)
	assert.Equal(t, "google-key", cfg.GenAI.APIKey)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
store:
  driver: convex
redis:
  address: localhost:6379
  delivery_ttl: 2h
s3:
  bucket_name: plans
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, StoreConvex, cfg.Store.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2*time.Hour, cfg.Redis.DeliveryTTL)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
