package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("Load = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Fatal("Exists = true with no config file")
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.DataFile = "/tmp/purse/accounts.db"
	cfg.Appearance.Color = false
	cfg.Log.Level = "debug"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("Load = %+v, want %+v", got, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "purse", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"info\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Storage.Backend != "toml" || !cfg.Appearance.Color {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "purse", "config.toml")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("[storage\n"), 0o600)

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted malformed config")
	}
}

func TestDataPath(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	cfg := DefaultConfig()
	if got, want := DataPath(cfg), filepath.Join(data, "purse", "accounts.toml"); got != want {
		t.Fatalf("toml DataPath = %q, want %q", got, want)
	}

	cfg.Storage.Backend = "sqlite"
	if got, want := DataPath(cfg), filepath.Join(data, "purse", "accounts.db"); got != want {
		t.Fatalf("sqlite DataPath = %q, want %q", got, want)
	}

	cfg.Storage.DataFile = "/srv/purse.toml"
	if got := DataPath(cfg); got != "/srv/purse.toml" {
		t.Fatalf("explicit DataPath = %q", got)
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelWarn,
		"":        slog.LevelWarn,
	}
	for in, want := range cases {
		if got := LogLevel(in); got != want {
			t.Fatalf("LogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
