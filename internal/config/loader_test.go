package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWritesDefaultConfigWithoutSecrets(t *testing.T) {
	t.Setenv("SWIPECHAT_RELAY_API_KEY", "sk-test-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Addr != Default().Addr {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.Relay.APIKey != "sk-test-secret" {
		t.Fatalf("api key not read from env, got %q", cfg.Relay.APIKey)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if strings.Contains(string(data), "sk-test-secret") || strings.Contains(string(data), "api_key") {
		t.Fatalf("config file leaks credentials:\n%s", data)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":9000\"\nlog_level: debug\nrelay:\n  review_model: file-model\n  timeout: 10s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SWIPECHAT_ADDR", ":9100")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9100" {
		t.Fatalf("env should override file, got %q", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("file should override default, got %q", cfg.LogLevel)
	}
	if cfg.Relay.ReviewModel != "file-model" {
		t.Fatalf("unexpected review model %q", cfg.Relay.ReviewModel)
	}
	if cfg.Relay.Timeout != 10*time.Second {
		t.Fatalf("unexpected relay timeout %v", cfg.Relay.Timeout)
	}
	if cfg.Relay.ReplyModel != Default().Relay.ReplyModel {
		t.Fatalf("missing key should keep default, got %q", cfg.Relay.ReplyModel)
	}
}

func TestUpdateFromKeepsZeroValues(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":4000"})

	if cfg.Addr != ":4000" {
		t.Fatalf("addr not overridden: %q", cfg.Addr)
	}
	if cfg.ShutdownTimeout != Default().ShutdownTimeout {
		t.Fatalf("zero value should not override: %v", cfg.ShutdownTimeout)
	}
}

func TestLoadIgnoresAPIKeysInConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "relay:\n  api_key: from-file\n  reply_api_key: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SWIPECHAT_RELAY_API_KEY", "")
	t.Setenv("SWIPECHAT_RELAY_REPLY_API_KEY", "sk-reply")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Relay.APIKey != "" {
		t.Fatalf("api key must not come from the config file, got %q", cfg.Relay.APIKey)
	}
	if cfg.Relay.ReplyAPIKey != "sk-reply" {
		t.Fatalf("reply api key not read from env, got %q", cfg.Relay.ReplyAPIKey)
	}
	if cfg.Relay.ReplyBaseURL != Default().Relay.ReplyBaseURL {
		t.Fatalf("unexpected reply base url %q", cfg.Relay.ReplyBaseURL)
	}
}
