package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".wekan")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "WEKAN_BASE_URL=https://kanban.example.com/\nWEKAN_USERNAME=admin\nWEKAN_PASSWORD=hunter2\nWEKAN_TIMEOUT=5000\n")
	t.Chdir(dir)

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "https://kanban.example.com", cfg.BaseURL)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadDefaultsTimeout(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "WEKAN_BASE_URL=https://kanban.example.com\n")
	t.Chdir(dir)

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "WEKAN_BASE_URL=https://stale.example.com\nWEKAN_USERNAME=filed\n")
	t.Chdir(dir)
	t.Setenv("WEKAN_BASE_URL", "https://fresh.example.com")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "https://fresh.example.com", cfg.BaseURL)
	assert.Equal(t, "filed", cfg.Username)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing base url", Config{Username: "u", Password: "p"}, "WEKAN_BASE_URL"},
		{"relative base url", Config{BaseURL: "kanban.example.com", Username: "u", Password: "p"}, "not a valid absolute URL"},
		{"missing username", Config{BaseURL: "https://kanban.example.com", Password: "p"}, "WEKAN_USERNAME"},
		{"missing password", Config{BaseURL: "https://kanban.example.com", Username: "u"}, "WEKAN_PASSWORD"},
		{"complete", Config{BaseURL: "https://kanban.example.com", Username: "u", Password: "p"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".wekan")

	original := &Config{
		BaseURL:  "https://kanban.example.com",
		Username: "admin",
		Password: "hunter2",
		Timeout:  12 * time.Second,
	}
	require.NoError(t, original.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	t.Chdir(dir)
	loaded, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, original.BaseURL, loaded.BaseURL)
	assert.Equal(t, original.Username, loaded.Username)
	assert.Equal(t, original.Password, loaded.Password)
	assert.Equal(t, original.Timeout, loaded.Timeout)
}
