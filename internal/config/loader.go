package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load loads config from the default path (~/.artcast/config.json).
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromFile(filepath.Join(home, ".artcast", "config.json"))
}

// LoadFromFile loads config from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader loads config from an io.Reader, applying defaults and env
// overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	expandStorePath(cfg)

	return cfg, nil
}

// applyEnvOverrides applies ARTCAST_-prefixed environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	envMap := map[string]*string{
		"ARTCAST_DISCORD_TOKEN":   &cfg.Channels.Discord.Token,
		"ARTCAST_TELEGRAM_TOKEN":  &cfg.Channels.Telegram.Token,
		"ARTCAST_CONTENT_BASEURL": &cfg.Content.BaseURL,
		"ARTCAST_CONTENT_APIKEY":  &cfg.Content.APIKey,
		"ARTCAST_STORE_PATH":      &cfg.StorePath,
		"ARTCAST_LOG_LEVEL":       &cfg.LogLevel,
	}

	for env, ptr := range envMap {
		if val := os.Getenv(env); val != "" {
			*ptr = val
		}
	}
}

// expandStorePath expands a leading ~ in the store path.
func expandStorePath(cfg *Config) {
	sp := cfg.StorePath
	if len(sp) >= 2 && sp[0] == '~' && sp[1] == '/' {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.StorePath = filepath.Join(home, sp[2:])
		}
	}
}
