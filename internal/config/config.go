// Package config handles notion-cli configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config represents the notion-cli configuration.
type Config struct {
	// Token is the integration token sent as a bearer credential.
	Token string `mapstructure:"token"`

	// APIBaseURL overrides the API endpoint. Empty means the public API.
	APIBaseURL string `mapstructure:"api_base_url"`

	// NotionVersion overrides the Notion-Version header.
	NotionVersion string `mapstructure:"notion_version"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`

	// Output is the default output format for listing commands.
	Output string `mapstructure:"output"`

	// LogLevel is the logrus level used when no -v flag is given.
	LogLevel string `mapstructure:"log_level"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `mapstructure:"ui"`

	// Path is the file the config was loaded from.
	Path string `mapstructure:"-"`

	// TokenSource names where Token came from: an environment variable,
	// "config file", or empty when no token is set.
	TokenSource string `mapstructure:"-"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `mapstructure:"accent"`
}

const (
	DefaultTimeout  = 60 * time.Second
	DefaultOutput   = "table"
	DefaultLogLevel = "warn"
)

// tokenEnv lists the environment variables consulted for the token, in
// priority order.
var tokenEnv = []string{"NOTION_TOKEN", "NOTION_API_KEY"}

var envBindings = map[string][]string{
	"token":          tokenEnv,
	"api_base_url":   {"NOTION_API_BASE_URL"},
	"notion_version": {"NOTION_VERSION"},
	"timeout":        {"NOTION_TIMEOUT"},
	"output":         {"NOTION_OUTPUT"},
	"log_level":      {"NOTION_LOG_LEVEL"},
	"ui.accent":      {"NOTION_UI_ACCENT"},
}

// DefaultPath returns $XDG_CONFIG_HOME/notion-cli/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "notion-cli", "config.toml")
}

// Load reads the config file at path (DefaultPath when empty) and overlays
// environment variables. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("log_level", DefaultLogLevel)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	fileExists := true
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		fileExists = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.Path = path
	cfg.TokenSource = tokenSource(cfg.Token, fileExists)
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &cfg, nil
}

// SourceFile is the TokenSource of a token read from the config file.
const SourceFile = "config file"

func tokenSource(token string, fileExists bool) string {
	if token == "" {
		return ""
	}
	for _, env := range tokenEnv {
		if strings.TrimSpace(os.Getenv(env)) != "" {
			return env
		}
	}
	if fileExists {
		return SourceFile
	}
	return ""
}

// MaskedToken returns the token with all but its prefix and last four
// characters hidden.
func (c *Config) MaskedToken() string {
	t := c.Token
	if len(t) <= 8 {
		return strings.Repeat("*", len(t))
	}
	prefix := ""
	if i := strings.Index(t, "_"); i > 0 && i < 8 {
		prefix = t[:i+1]
	}
	return prefix + "****" + t[len(t)-4:]
}
