// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/uniconnect/uniconnect-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete uniconnect configuration.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Session SessionConfig `toml:"session" json:"session"`
	Chat    ChatConfig    `toml:"chat" json:"chat"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Policy  PolicyConfig  `toml:"policy" json:"policy"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the REST root, including the /api prefix.
	BaseURL string `toml:"base_url" json:"base_url"`

	// Timeout bounds a single request. Zero leaves it to the transport.
	Timeout time.Duration `toml:"timeout" json:"timeout"`

	// RequestsPerSecond throttles outgoing calls. Zero disables throttling.
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`

	UserAgent string `toml:"user_agent" json:"user_agent"`
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	// Dir holds session.json. Defaults to the config directory.
	Dir string `toml:"dir" json:"dir"`

	// Watch reloads the session when another process changes it.
	Watch bool `toml:"watch" json:"watch"`
}

// ChatConfig configures the background chat refresh.
type ChatConfig struct {
	PollInterval time.Duration `toml:"poll_interval" json:"poll_interval"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	NoColor    bool   `toml:"no_color" json:"no_color"`
	InitialTab string `toml:"initial_tab" json:"initial_tab"`
}

// PolicyConfig holds client-side access policy.
type PolicyConfig struct {
	// GuestReadOnly blocks every mutating action for guest sessions.
	// When false only post creation is blocked.
	GuestReadOnly bool `toml:"guest_read_only" json:"guest_read_only"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultBaseURL is the backend root used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8080/api"

	// DefaultPollInterval is the chat refresh interval.
	DefaultPollInterval = 5 * time.Second

	// MinPollInterval keeps background polling from hammering the backend.
	MinPollInterval = time.Second

	defaultUserAgent = "uniconnect-tui"
)

// Default returns a configuration with built-in defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: defaultUserAgent,
		},
		Session: SessionConfig{
			Watch: true,
		},
		Chat: ChatConfig{
			PollInterval: DefaultPollInterval,
		},
		UI: UIConfig{
			InitialTab: "feed",
		},
		Policy: PolicyConfig{
			GuestReadOnly: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the uniconnect configuration directory (~/.uniconnect).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".uniconnect"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SessionDir returns the directory holding the session file.
func (c *Config) SessionDir() (string, error) {
	if c.Session.Dir != "" {
		return c.Session.Dir, nil
	}
	return Dir()
}

// LogFile returns the log file path, defaulting to uniconnect.log in the
// config directory.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "uniconnect.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.uniconnect/config.toml when it exists, then applies
// environment overrides, defaults and validation.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from path. A missing file yields the
// defaults; a malformed one is an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides holds raw environment values. Pointer fields stay nil when the
// variable is unset so file values survive.
type envOverrides struct {
	BaseURL      *string        `env:"UNICONNECT_API_URL"`
	Timeout      *time.Duration `env:"UNICONNECT_API_TIMEOUT"`
	RPS          *float64       `env:"UNICONNECT_RPS"`
	SessionDir   *string        `env:"UNICONNECT_SESSION_DIR"`
	PollInterval *time.Duration `env:"UNICONNECT_POLL_INTERVAL"`
	GuestRO      *bool          `env:"UNICONNECT_GUEST_READ_ONLY"`
	LogLevel     *string        `env:"UNICONNECT_LOG_LEVEL"`
	LogFile      *string        `env:"UNICONNECT_LOG_FILE"`
	NoColor      string         `env:"NO_COLOR"`
}

// ApplyEnvOverrides overlays environment variables onto c.
//
//   - UNICONNECT_API_URL: api.base_url
//   - UNICONNECT_API_TIMEOUT: api.timeout (Go duration)
//   - UNICONNECT_RPS: api.requests_per_second
//   - UNICONNECT_SESSION_DIR: session.dir
//   - UNICONNECT_POLL_INTERVAL: chat.poll_interval
//   - UNICONNECT_GUEST_READ_ONLY: policy.guest_read_only
//   - UNICONNECT_LOG_LEVEL, UNICONNECT_LOG_FILE: log.level, log.file
//   - NO_COLOR: any non-empty value disables color
func (c *Config) ApplyEnvOverrides() error {
	var raw envOverrides
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if raw.BaseURL != nil {
		c.API.BaseURL = *raw.BaseURL
	}
	if raw.Timeout != nil {
		c.API.Timeout = *raw.Timeout
	}
	if raw.RPS != nil {
		c.API.RequestsPerSecond = *raw.RPS
	}
	if raw.SessionDir != nil {
		c.Session.Dir = *raw.SessionDir
	}
	if raw.PollInterval != nil {
		c.Chat.PollInterval = *raw.PollInterval
	}
	if raw.GuestRO != nil {
		c.Policy.GuestReadOnly = *raw.GuestRO
	}
	if raw.LogLevel != nil {
		c.Log.Level = *raw.LogLevel
	}
	if raw.LogFile != nil {
		c.Log.File = *raw.LogFile
	}
	if raw.NoColor != "" {
		c.UI.NoColor = true
	}
	return nil
}

// SetDefaults fills zero values that have a sensible default.
func (c *Config) SetDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.UserAgent == "" {
		c.API.UserAgent = d.API.UserAgent
	}
	if c.Chat.PollInterval == 0 {
		c.Chat.PollInterval = d.Chat.PollInterval
	}
	if c.UI.InitialTab == "" {
		c.UI.InitialTab = d.UI.InitialTab
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes c to the default config path.
func Save(c *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTOML(c, path)
}

// SaveTOML writes c as TOML with owner-only permissions.
func SaveTOML(c *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# uniconnect configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a single invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validTabs = map[string]bool{
	"feed": true, "pyq": true, "confessions": true, "alumni": true,
	"freshers": true, "marketplace": true, "events": true, "messages": true,
}

// Validate checks c and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL %q, must be an absolute http(s) URL", c.API.BaseURL),
		})
	}
	if c.API.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout", Message: "must not be negative"})
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "api.requests_per_second", Message: "must not be negative"})
	}
	if c.Chat.PollInterval < MinPollInterval {
		errs = append(errs, ValidationError{
			Field:   "chat.poll_interval",
			Message: fmt.Sprintf("must be at least %s", MinPollInterval),
		})
	}
	if !validTabs[c.UI.InitialTab] {
		errs = append(errs, ValidationError{
			Field:   "ui.initial_tab",
			Message: fmt.Sprintf("unknown tab %q", c.UI.InitialTab),
		})
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level %q, must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults with a warning on stderr.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}

// String renders c as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
