package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Practice.Retries != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[practice]\ndocument = \"poems/ozymandias.md\"\nretries = 3\n\n[log]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Practice.Document == nil || *cfg.Practice.Document != "poems/ozymandias.md" {
		t.Fatalf("unexpected document: %v", cfg.Practice.Document)
	}
	if cfg.Practice.Retries == nil || *cfg.Practice.Retries != 3 {
		t.Fatalf("unexpected retries: %v", cfg.Practice.Retries)
	}
	if cfg.Practice.NoHistory != nil {
		t.Fatalf("expected unset no-history")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "recite", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "recite", "recite.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/state", "recite", "recite.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
