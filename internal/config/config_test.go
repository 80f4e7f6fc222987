package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Digits != nil || cfg.Practice.Operations != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
operations = ["+", "div"]
time = 2.5
digits = 3
feedback-ms = 250

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	p := cfg.Practice
	if strings.Join(p.Operations, ",") != "+,div" {
		t.Fatalf("unexpected operations: %v", p.Operations)
	}
	if p.TimeSeconds == nil || *p.TimeSeconds != 2.5 {
		t.Fatalf("unexpected time: %v", p.TimeSeconds)
	}
	if p.Digits == nil || *p.Digits != 3 {
		t.Fatalf("unexpected digits: %v", p.Digits)
	}
	if p.FeedbackPauseMs == nil || *p.FeedbackPauseMs != 250 {
		t.Fatalf("unexpected pause: %v", p.FeedbackPauseMs)
	}
	if p.Start != nil {
		t.Fatalf("expected start to be unset")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" || cfg.Log.File != nil {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nwords = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "practice.words") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestEnsureConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathrun", "config.toml")
	created, err := EnsureConfig(path)
	if err != nil || !created {
		t.Fatalf("expected config to be created, got %v %v", created, err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("template must decode: %v", err)
	}
	if cfg.Practice.Digits != nil {
		t.Fatalf("template values should be commented out")
	}
	created, err = EnsureConfig(path)
	if err != nil || created {
		t.Fatalf("expected existing config to be kept, got %v %v", created, err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	if got := DefaultConfigPath(); got != filepath.Join(dir, "mathrun", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(dir, "mathrun", "mathrun.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}
