package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarlcorp/zlemon/internal/menu"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/custom/data/zlemon", cfg.DataDir)
	assert.Equal(t, menu.DefaultURL, cfg.MenuURL)
	assert.Equal(t, menu.DefaultImageBaseURL, cfg.ImageBaseURL)
	assert.Equal(t, BackendLocal, cfg.Store.Backend)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "zlemon", cfg.Store.Redis.Prefix)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "/custom/data/zlemon/zlemon.log", cfg.LogPath())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ZLEMON_DATA_DIR", "/tmp/lemon")
	t.Setenv("ZLEMON_MENU_URL", "http://localhost/menu.json")
	t.Setenv("ZLEMON_STORE", "REDIS")
	t.Setenv("ZLEMON_REDIS_ADDR", "redis:6380")
	t.Setenv("ZLEMON_REDIS_DB", "3")
	t.Setenv("ZLEMON_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/lemon", cfg.DataDir)
	assert.Equal(t, "http://localhost/menu.json", cfg.MenuURL)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6380", cfg.Store.Redis.Addr)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ZLEMON_REDIS_PREFIX", "")
	os.Unsetenv("ZLEMON_REDIS_PREFIX")

	env := "ZLEMON_REDIS_PREFIX=fromfile\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() { os.Unsetenv("ZLEMON_REDIS_PREFIX") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Store.Redis.Prefix)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ZLEMON_STORE", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "sqlite"))
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ZLEMON_LOG_LEVEL", "loud")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 7},
		{"number", "2", 2},
		{"garbage", "two", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZLEMON_TEST_INT", tt.value)
			assert.Equal(t, tt.want, getEnvAsInt("ZLEMON_TEST_INT", 7))
		})
	}
}
