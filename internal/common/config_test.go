package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "http://127.0.0.1:8000/api", config.API.BaseURL)
	assert.Equal(t, 10, config.API.RateLimit)
	assert.Equal(t, 30*time.Second, config.API.GetTimeout())
	assert.Equal(t, 30*time.Second, config.Auth.GetRefreshTimeout())
	assert.Equal(t, "file", config.Storage.Backend)
	assert.Equal(t, "info", config.Logging.Level)
	assert.False(t, config.IsProduction())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "myguide.toml")
	content := `
environment = "production"

[api]
base_url = "https://api.myguide.ma/api"
rate_limit = 50
timeout = "10s"

[auth]
refresh_timeout = "5s"

[storage]
backend = "keyring"
service = "ma.myguide.cli"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, "https://api.myguide.ma/api", config.API.BaseURL)
	assert.Equal(t, 50, config.API.RateLimit)
	assert.Equal(t, 10*time.Second, config.API.GetTimeout())
	assert.Equal(t, 5*time.Second, config.Auth.GetRefreshTimeout())
	assert.Equal(t, "keyring", config.Storage.Backend)
	assert.Equal(t, "ma.myguide.cli", config.Storage.Service)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "development", config.Environment)
}

func TestLoadConfig_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")
	require.NoError(t, os.WriteFile(base, []byte("[api]\nbase_url = \"https://one.example/api\"\nrate_limit = 5\n"), 0644))
	require.NoError(t, os.WriteFile(local, []byte("[api]\nbase_url = \"https://two.example/api\"\n"), 0644))

	config, err := LoadConfig(base, local)
	require.NoError(t, err)

	assert.Equal(t, "https://two.example/api", config.API.BaseURL)
	assert.Equal(t, 5, config.API.RateLimit, "values absent from the later file survive")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MYGUIDE_ENV", "prod")
	t.Setenv("MYGUIDE_API_BASE_URL", "https://env.example/api")
	t.Setenv("MYGUIDE_API_RATE_LIMIT", "99")
	t.Setenv("MYGUIDE_AUTH_REFRESH_TIMEOUT", "2s")
	t.Setenv("MYGUIDE_STORAGE_BACKEND", "memory")
	t.Setenv("MYGUIDE_LOG_LEVEL", "warn")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, "https://env.example/api", config.API.BaseURL)
	assert.Equal(t, 99, config.API.RateLimit)
	assert.Equal(t, 2*time.Second, config.Auth.GetRefreshTimeout())
	assert.Equal(t, "memory", config.Storage.Backend)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadConfig_InvalidRateLimitEnvIgnored(t *testing.T) {
	t.Setenv("MYGUIDE_API_RATE_LIMIT", "lots")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, config.API.RateLimit)
}

func TestGetTimeout_InvalidFallsBack(t *testing.T) {
	api := APIConfig{Timeout: "soon"}
	assert.Equal(t, 30*time.Second, api.GetTimeout())

	auth := AuthConfig{RefreshTimeout: ""}
	assert.Equal(t, 30*time.Second, auth.GetRefreshTimeout())
}
