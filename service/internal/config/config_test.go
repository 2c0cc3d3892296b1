package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{"HTTP_ADDR", "LOG_LEVEL", "SMART_TAP", "AUTO_PLAY", "FEEDBACK_DELAY", "DRAG_THRESHOLD", "DEFAULT_GAME", "REDIS_URL"}

// clearEnv empties every setting for the test and restores it afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, logrus.InfoLevel, c.LogLevel)
	assert.False(t, c.SmartTap)
	assert.Equal(t, 600*time.Millisecond, c.FeedbackDelay)
	assert.Equal(t, 10.0, c.DragThreshold)
	assert.Equal(t, "freecell", c.DefaultGame)
	assert.Empty(t, c.RedisURL)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMART_TAP", "true")
	t.Setenv("FEEDBACK_DELAY", "250ms")
	t.Setenv("DRAG_THRESHOLD", "14.5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_GAME", "klondike")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, c.SmartTap)
	assert.Equal(t, 250*time.Millisecond, c.FeedbackDelay)
	assert.Equal(t, 14.5, c.DragThreshold)
	assert.Equal(t, logrus.DebugLevel, c.LogLevel)
	assert.Equal(t, "klondike", c.DefaultGame)
}

func TestDotEnvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:7000\nREDIS_URL=redis://cache:6379/0\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.HTTPAddr)
	assert.Equal(t, "redis://cache:6379/0", c.RedisURL)
}

func TestInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"LOG_LEVEL":      "loud",
		"SMART_TAP":      "maybe",
		"FEEDBACK_DELAY": "-1s",
		"DRAG_THRESHOLD": "0",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
