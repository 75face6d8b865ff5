package notemirror

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notemirror/notemirror/pkg/core"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://api.example.com
token: file-token
page_limit: 100
timeout: 5s
origins:
  twitter_notes:
    - "https://x.com/**"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, 100, cfg.PageLimit)
	assert.Equal(t, 5*time.Second, cfg.Timeout.Std())

	origins, err := cfg.OriginPatterns()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x.com/**"}, origins[core.KindTwitter])
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: file-token\n"), 0o644))

	t.Setenv("NOTEMIRROR_TOKEN", "env-token")
	t.Setenv("NOTEMIRROR_BASE_URL", "https://env.example.com")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestOriginPatternsRejectUnknownKind(t *testing.T) {
	cfg := Config{Origins: map[string][]string{"discord_notes": {"**"}}}
	_, err := cfg.OriginPatterns()
	require.Error(t, err)
}
