package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"chemviz/internal/platform/config"
)

func TestDefaultsWithoutConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(config.Options{StateDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Fatalf("expected default base url, got %s", cfg.BaseURL)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10 MiB ceiling, got %d", cfg.MaxUploadBytes)
	}
	if cfg.DBPath != filepath.Join(dir, "chemviz.db") || cfg.SessionStore != config.StoreFile {
		t.Fatalf("unexpected state paths: %+v", cfg)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("requests must not time out by default, got %s", cfg.RequestTimeout)
	}
}

func TestFileThenEnvThenFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := "base_url: https://file.example/api/\nsession_store: sqlite\nrequest_timeout: 30s\noutput_dir: reports\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CHEMVIZ_OUTPUT_DIR", "/tmp/chemviz-out")

	cfg, err := config.New(config.Options{StateDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.BaseURL != "https://file.example/api" {
		t.Fatalf("expected trimmed file base url, got %s", cfg.BaseURL)
	}
	if cfg.SessionStore != config.StoreSQLite || cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.OutputDir != "/tmp/chemviz-out" {
		t.Fatalf("env must override file, got %s", cfg.OutputDir)
	}

	cfg, err = config.New(config.Options{StateDir: dir, BaseURL: "http://flag.example:9000/api", EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("new config with flag: %v", err)
	}
	if cfg.BaseURL != "http://flag.example:9000/api" {
		t.Fatalf("flag must override file, got %s", cfg.BaseURL)
	}
}

func TestEnvFileIsLoaded(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "chemviz.env")
	if err := os.WriteFile(envPath, []byte("CHEMVIZ_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("CHEMVIZ_LOG_LEVEL") })

	cfg, err := config.New(config.Options{StateDir: dir, EnvFile: envPath})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level from env file, got %s", cfg.LogLevel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()
	base := config.Config{BaseURL: config.DefaultBaseURL, SessionStore: config.StoreFile, MaxUploadBytes: 1}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	bad := []config.Config{
		{BaseURL: "ftp://x", SessionStore: config.StoreFile, MaxUploadBytes: 1},
		{BaseURL: "/api", SessionStore: config.StoreFile, MaxUploadBytes: 1},
		{BaseURL: config.DefaultBaseURL, SessionStore: "redis", MaxUploadBytes: 1},
		{BaseURL: config.DefaultBaseURL, SessionStore: config.StoreFile, MaxUploadBytes: 0},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", cfg)
		}
	}
}
