package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "../image-server", cfg.ImageServerDir)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 300, cfg.MaxAttempts)
	assert.Equal(t, "!image", cfg.CommandPrefix)
	assert.Zero(t, cfg.ArtifactTTLSeconds, "очистка по умолчанию выключена")
	assert.False(t, cfg.Gallery.Enabled)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IMAGE_SERVER_DIR_PATH", "/tmp/exchange")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("MAX_ATTEMPTS", "10")
	t.Setenv("GALLERY_ENABLED", "true")

	cfg := Defaults()
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "/tmp/exchange", cfg.ImageServerDir)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 10, cfg.MaxAttempts)
	assert.True(t, cfg.Gallery.Enabled)
}
