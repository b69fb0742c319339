// Package config provides YAML-based configuration loading for taskdeck.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level taskdeck configuration, loaded from
// taskdeck.yaml.
type Config struct {
	Workspace    string       `yaml:"workspace"`
	DBPath       string       `yaml:"db_path"`
	LegacyDBPath string       `yaml:"legacy_db_path"`
	Server       ServerConfig `yaml:"server"`
	Sync         SyncConfig   `yaml:"sync"`
	Notify       NotifyConfig `yaml:"notify"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// SyncConfig holds the initial mode override, the remote mirror base
// URL, and the platform hint. All three also resolve from environment
// keys when left blank here.
type SyncConfig struct {
	Mode         string `yaml:"mode"`
	CloudBaseURL string `yaml:"cloud_base_url"`
	Platform     string `yaml:"platform"`
}

// NotifyConfig holds optional chat notification settings.
type NotifyConfig struct {
	Slack      SlackConfig   `yaml:"slack"`
	Discord    DiscordConfig `yaml:"discord"`
	DigestCron string        `yaml:"digest_cron"`
}

// SlackConfig holds Slack bot credentials and the target channel.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// DiscordConfig holds Discord bot credentials and the target channel.
type DiscordConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// Load reads a YAML config file from path and returns a validated
// Config. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse: %w", err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Workspace == "" {
		if wd, err := os.Getwd(); err == nil {
			c.Workspace = wd
		}
	}
	if c.DBPath == "" {
		if custom := os.Getenv("TASKDECK_TASK_DB_PATH"); custom != "" {
			c.DBPath = custom
		} else {
			c.DBPath = "taskdeck.db"
		}
	}
	if c.LegacyDBPath == "" {
		if custom := os.Getenv("TASKDECK_LEGACY_DB_PATH"); custom != "" {
			c.LegacyDBPath = custom
		} else if home, err := os.UserHomeDir(); err == nil {
			c.LegacyDBPath = home + "/Code/mission-control/tasks.db"
		}
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
}

// validate checks that all present fields are consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if mode := strings.ToUpper(strings.TrimSpace(c.Sync.Mode)); mode != "" && mode != "LOCAL" && mode != "CLOUD" {
		errs = append(errs, fmt.Sprintf("sync.mode %q must be LOCAL or CLOUD", c.Sync.Mode))
	}
	if c.Notify.Slack.BotToken != "" && c.Notify.Slack.Channel == "" {
		errs = append(errs, "notify.slack.channel is required when a bot token is set")
	}
	if c.Notify.Discord.BotToken != "" && c.Notify.Discord.Channel == "" {
		errs = append(errs, "notify.discord.channel is required when a bot token is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
