package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "reviews", cfg.MongoDB)
	assert.Equal(t, "review-images", cfg.MinioBucket)
	assert.False(t, cfg.AdminGateModeration)
	assert.Equal(t, "http://localhost:9000", cfg.MinioPublicURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ADMIN_GATE_MODERATION", "true")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_ENDPOINT", "media.example.com")

	cfg := Load()

	assert.Equal(t, "9999", cfg.Port)
	assert.True(t, cfg.AdminGateModeration)
	assert.Equal(t, "https://media.example.com", cfg.MinioPublicURL)
}

func TestLoadExplicitPublicURL(t *testing.T) {
	t.Setenv("MINIO_PUBLIC_URL", "https://cdn.example.com")

	cfg := Load()
	assert.Equal(t, "https://cdn.example.com", cfg.MinioPublicURL)
}

func TestGetEnvBoolBadValue(t *testing.T) {
	t.Setenv("ADMIN_GATE_MODERATION", "banana")

	cfg := Load()
	assert.False(t, cfg.AdminGateModeration)
}
