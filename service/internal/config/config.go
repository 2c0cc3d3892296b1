// Package config loads service settings from the environment, after merging
// any .env file found in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr      string
	LogLevel      logrus.Level
	SmartTap      bool
	FeedbackDelay time.Duration
	DragThreshold float64
	DefaultGame   string
	AutoPlay      bool
	RedisURL      string // Empty disables move publishing.
}

// Load reads files (".env" when none are given) into the environment without
// overriding variables that are already set, then parses the settings.
// Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv parses the settings from the process environment.
func FromEnv() (Config, error) {
	c := Config{
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		FeedbackDelay: 600 * time.Millisecond,
		DragThreshold: 10,
		DefaultGame:   envOr("DEFAULT_GAME", "freecell"),
		RedisURL:      os.Getenv("REDIS_URL"),
	}

	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	if c.SmartTap, err = parseBool("SMART_TAP"); err != nil {
		return Config{}, err
	}
	if c.AutoPlay, err = parseBool("AUTO_PLAY"); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("FEEDBACK_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid FEEDBACK_DELAY %q", v)
		}
		c.FeedbackDelay = d
	}
	if v := os.Getenv("DRAG_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return Config{}, fmt.Errorf("invalid DRAG_THRESHOLD %q", v)
		}
		c.DragThreshold = f
	}
	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
