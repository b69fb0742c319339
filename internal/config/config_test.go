package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Full(t *testing.T) {
	yaml := `
workspace: /srv/deck
db_path: /srv/deck/taskdeck.db
legacy_db_path: /srv/old/tasks.db
server:
  port: 4000
sync:
  mode: LOCAL
  cloud_base_url: https://deck.example.com
  platform: electron
notify:
  slack:
    bot_token: xoxb-test
    channel: C123
  digest_cron: "0 9 * * *"
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Workspace != "/srv/deck" {
		t.Errorf("workspace = %q", cfg.Workspace)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Sync.Mode != "LOCAL" || cfg.Sync.CloudBaseURL != "https://deck.example.com" {
		t.Errorf("sync = %+v", cfg.Sync)
	}
	if cfg.Sync.Platform != "electron" {
		t.Errorf("platform = %q", cfg.Sync.Platform)
	}
	if cfg.Notify.Slack.Channel != "C123" {
		t.Errorf("slack channel = %q", cfg.Notify.Slack.Channel)
	}
	if cfg.Notify.DigestCron != "0 9 * * *" {
		t.Errorf("digest cron = %q", cfg.Notify.DigestCron)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("default port = %d, want 3001", cfg.Server.Port)
	}
	if cfg.DBPath == "" {
		t.Error("db path not defaulted")
	}
	if cfg.Workspace == "" {
		t.Error("workspace not defaulted")
	}
}

func TestParse_DBPathFromEnv(t *testing.T) {
	t.Setenv("TASKDECK_TASK_DB_PATH", "/custom/tasks.db")
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DBPath != "/custom/tasks.db" {
		t.Errorf("db path = %q, want env value", cfg.DBPath)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad port", "server:\n  port: 99999\n", "out of range"},
		{"bad mode", "sync:\n  mode: HYBRID\n", "must be LOCAL or CLOUD"},
		{"slack without channel", "notify:\n  slack:\n    bot_token: xoxb-test\n", "slack.channel is required"},
		{"discord without channel", "notify:\n  discord:\n    bot_token: tok\n", "discord.channel is required"},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.yaml))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error = %q, want to contain %q", tt.name, err, tt.want)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("workspace: [unclosed")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("port = %d, want default", cfg.Server.Port)
	}
}
