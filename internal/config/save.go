package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/notion-cli/internal/atomicfile"
)

type fileConfig struct {
	Token         *string `toml:"token,omitempty"`
	APIBaseURL    *string `toml:"api_base_url,omitempty"`
	NotionVersion *string `toml:"notion_version,omitempty"`
	Timeout       *string `toml:"timeout,omitempty"`
	Output        *string `toml:"output,omitempty"`
	LogLevel      *string `toml:"log_level,omitempty"`
	UI            *fileUI `toml:"ui,omitempty"`
}

type fileUI struct {
	Accent *string `toml:"accent,omitempty"`
}

func optional(value string) *string {
	if v := strings.TrimSpace(value); v != "" {
		return &v
	}
	return nil
}

// changed skips values equal to their default so saved files only
// carry what the user changed.
func changed(value, def string) *string {
	if strings.TrimSpace(value) == def {
		return nil
	}
	return optional(value)
}

// Save writes cfg back to the file it was loaded from.
func Save(cfg *Config) error {
	path := cfg.Path
	if path == "" {
		path = DefaultPath()
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the config to a specific path atomically. The file holds a
// token, so it is created owner-readable only.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("no config path")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := fileConfig{
		Token:         optional(cfg.Token),
		APIBaseURL:    optional(cfg.APIBaseURL),
		NotionVersion: optional(cfg.NotionVersion),
		Output:        changed(cfg.Output, DefaultOutput),
		LogLevel:      changed(cfg.LogLevel, DefaultLogLevel),
	}
	if cfg.Timeout > 0 && cfg.Timeout != DefaultTimeout {
		timeout := cfg.Timeout.String()
		out.Timeout = &timeout
	}
	if accent := optional(cfg.UI.Accent); accent != nil {
		out.UI = &fileUI{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}

	return nil
}
