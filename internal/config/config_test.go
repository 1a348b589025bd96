// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Chat.PollInterval)
	assert.Zero(t, cfg.API.Timeout, "no timeout by default")
	assert.True(t, cfg.Policy.GuestReadOnly)
	assert.Equal(t, "feed", cfg.UI.InitialTab)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoadFromPath_File(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://campus.example.edu/api/"
requests_per_second = 4.5

[chat]
poll_interval = "10s"

[policy]
guest_read_only = false
`)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://campus.example.edu/api", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 4.5, cfg.API.RequestsPerSecond)
	assert.Equal(t, 10*time.Second, cfg.Chat.PollInterval)
	assert.False(t, cfg.Policy.GuestReadOnly)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep defaults")
}

func TestLoadFromPath_Malformed(t *testing.T) {
	path := writeConfig(t, "[api\nbase_url = ")
	_, err := LoadFromPath(path)
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://file.example/api"
`)
	t.Setenv("UNICONNECT_API_URL", "https://env.example/api")
	t.Setenv("UNICONNECT_POLL_INTERVAL", "2s")
	t.Setenv("UNICONNECT_LOG_LEVEL", "debug")
	t.Setenv("NO_COLOR", "1")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/api", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Chat.PollInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.UI.NoColor)
}

func TestEnvOverrides_BadDuration(t *testing.T) {
	t.Setenv("UNICONNECT_API_TIMEOUT", "soon")
	cfg := Default()
	require.Error(t, cfg.ApplyEnvOverrides())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "ftp://nope"
	cfg.Chat.PollInterval = 100 * time.Millisecond
	cfg.Log.Level = "loud"
	cfg.UI.InitialTab = "searchResults"

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"api.base_url", "chat.poll_interval", "log.level", "ui.initial_tab"}, fields)
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.toml")
	cfg := Default()
	cfg.API.BaseURL = "https://saved.example/api"
	cfg.Chat.PollInterval = 7 * time.Second
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.BaseURL, loaded.API.BaseURL)
	assert.Equal(t, cfg.Chat.PollInterval, loaded.Chat.PollInterval)
}

func TestGlobal(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	custom := Default()
	custom.API.BaseURL = "https://custom.example/api"
	SetGlobal(custom)
	assert.Same(t, custom, Global())
}

func TestSessionDirAndLogFile(t *testing.T) {
	cfg := Default()
	cfg.Session.Dir = "/tmp/uc"
	dir, err := cfg.SessionDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/uc", dir)

	cfg.Log.File = "/tmp/uc.log"
	file, err := cfg.LogFile()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/uc.log", file)
}
