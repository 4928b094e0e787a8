// Package config loads client settings from an optional YAML file with
// environment overrides. A .env file in the working directory is honored
// when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "http://localhost:8000"

// Config is the full client configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Store    StoreConfig    `yaml:"store"`
	Export   ExportConfig   `yaml:"export"`
	Telegram TelegramConfig `yaml:"telegram"`
	Discord  DiscordConfig  `yaml:"discord"`
	Gemini   GeminiConfig   `yaml:"gemini"`
}

// APIConfig locates the remote notes service.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StoreConfig locates the durable session store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig configures the markdown export directory. When the
// directory is a git worktree, exports are committed and pushed.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// TelegramConfig configures the optional Telegram frontend.
type TelegramConfig struct {
	Token string `yaml:"token"`
}

// DiscordConfig configures the optional Discord confirmation sink.
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// GeminiConfig configures the note digest summarizer.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
}

// Load reads the config file at path (skipped when path is empty or the
// file does not exist), then applies environment overrides. Precedence:
// defaults < file < environment.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{BaseURL: defaultBaseURL},
	}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.Store.Path = filepath.Join(dir, "notesync", "notesync.db")
	} else {
		cfg.Store.Path = "notesync.db"
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NOTESYNC_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("NOTESYNC_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("NOTESYNC_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("DISCORD_CHANNEL_ID"); v != "" {
		cfg.Discord.ChannelID = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
}
