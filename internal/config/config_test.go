package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfigWithDefaults(t *testing.T) {
	path := writeConfig(t, `
repos:
  - https://github.com/acme/widgets.git
  - https://gitlab.com/acme/gears.git
from: sender@example.com
to: recipient@example.com
token: app-password
max_commits: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Repos, 2)
	assert.Equal(t, "sender@example.com", cfg.From)
	assert.Equal(t, 50, cfg.MaxCommits)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "Git Commit Notification", cfg.Subject)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_UnparseableFileIsAnError(t *testing.T) {
	path := writeConfig(t, "repos: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "no repos",
			content: `
repos: []
from: sender@example.com
to: recipient@example.com
token: app-password
`,
		},
		{
			name: "missing token",
			content: `
repos: [https://github.com/acme/widgets.git]
from: sender@example.com
to: recipient@example.com
`,
		},
		{
			name: "invalid sender address",
			content: `
repos: [https://github.com/acme/widgets.git]
from: not-an-address
to: recipient@example.com
token: app-password
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestDefaultPath_PrefersXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg-test")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/etc/xdg-test", "gitmon", "config.yaml"), path)
}

func TestDefaultPath_FallsBackToHomeConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "gitmon", "config.yaml"), path)
}

func TestResolveCacheRoot_ExpandsTilde(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg := &Config{CacheDir: "~/mirrors"}
	root, err := cfg.ResolveCacheRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", "mirrors"), root)
}

func TestResolveCacheRoot_KeepsAbsolutePaths(t *testing.T) {
	cfg := &Config{CacheDir: "/var/cache/mirrors"}
	root, err := cfg.ResolveCacheRoot()
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/mirrors", root)
}

func TestResolveCacheRoot_DefaultsToPlatformCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/home/tester/.cache")

	cfg := &Config{}
	root, err := cfg.ResolveCacheRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester/.cache", "gitmon"), root)
}

func TestGitAuth_RequiresBothFields(t *testing.T) {
	cfg := &Config{GitUsername: "bot"}
	_, _, ok := cfg.GitAuth()
	assert.False(t, ok)

	cfg.GitToken = "secret"
	username, token, ok := cfg.GitAuth()
	assert.True(t, ok)
	assert.Equal(t, "bot", username)
	assert.Equal(t, "secret", token)
}
