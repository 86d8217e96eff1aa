package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"

	"github.com/pfrederiksen/contrib-tracker/internal/logger"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port        string `default:"8080"`
	GinMode     string `default:"release"`
	LogLevel    string `default:"info"`
	LogFile     string
	UpstreamURL string `default:"https://github.com"`
	Concurrency int    `default:"4"`
}

// Load reads .env.local and .env when present, then the environment, into a
// Config with defaults applied. Each file is optional and loaded on its own;
// variables already set win, so .env.local takes precedence over .env.
func Load() (Config, error) {
	for _, file := range envFiles {
		_ = godotenv.Load(file)
	}
	return FromEnv()
}

var envFiles = []string{".env.local", ".env"}

// FromEnv reads the current environment into a Config.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:        strings.TrimSpace(os.Getenv("PORT")),
		GinMode:     strings.TrimSpace(os.Getenv("GIN_MODE")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogFile:     strings.TrimSpace(os.Getenv("LOG_FILE")),
		UpstreamURL: strings.TrimSpace(os.Getenv("UPSTREAM_URL")),
	}

	concurrency, err := parseIntEnv("STATS_CONCURRENCY")
	if err != nil {
		return Config{}, fmt.Errorf("parse STATS_CONCURRENCY: %w", err)
	}
	cfg.Concurrency = concurrency

	if err := defaults.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("apply defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures fields hold usable values.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("PORT must be a port number, got %q", c.Port)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	u, err := url.Parse(c.UpstreamURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("UPSTREAM_URL must be an http(s) URL, got %q", c.UpstreamURL)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("STATS_CONCURRENCY must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() logger.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

func parseIntEnv(key string) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return 0, nil
	}
	return strconv.Atoi(val)
}
