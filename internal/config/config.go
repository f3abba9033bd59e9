// Package config loads zlemon settings from an optional .env file and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zarlcorp/zlemon/internal/menu"
)

// Store backends.
const (
	BackendLocal = "local"
	BackendRedis = "redis"
)

// Config holds all application configuration.
type Config struct {
	DataDir      string
	MenuURL      string
	ImageBaseURL string
	Store        StoreConfig
	LogLevel     slog.Level
}

// StoreConfig selects and configures the secure store backend.
type StoreConfig struct {
	Backend string
	Redis   RedisConfig
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Load reads .env from the working directory if present, then the
// environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		DataDir:      getEnv("ZLEMON_DATA_DIR", defaultDataDir()),
		MenuURL:      getEnv("ZLEMON_MENU_URL", menu.DefaultURL),
		ImageBaseURL: getEnv("ZLEMON_IMAGE_BASE_URL", menu.DefaultImageBaseURL),
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("ZLEMON_STORE", BackendLocal)),
			Redis: RedisConfig{
				Addr:     getEnv("ZLEMON_REDIS_ADDR", "localhost:6379"),
				Password: getEnv("ZLEMON_REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("ZLEMON_REDIS_DB", 0),
				Prefix:   getEnv("ZLEMON_REDIS_PREFIX", "zlemon"),
			},
		},
	}

	level, err := parseLevel(getEnv("ZLEMON_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	switch cfg.Store.Backend {
	case BackendLocal, BackendRedis:
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}

// LogPath is where the TUI writes its log; the terminal is taken.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "zlemon.log")
}

func defaultDataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zlemon"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zlemon"
	}
	return home + "/.local/share/zlemon"
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}
