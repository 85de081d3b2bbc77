package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:8000/api"
	DefaultMaxUploadBytes = 10 << 20

	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

type Config struct {
	BaseURL        string        `yaml:"base_url" env:"CHEMVIZ_BASE_URL"`
	StateDir       string        `yaml:"-"`
	DBPath         string        `yaml:"-"`
	SessionStore   string        `yaml:"session_store" env:"CHEMVIZ_SESSION_STORE"`
	OutputDir      string        `yaml:"output_dir" env:"CHEMVIZ_OUTPUT_DIR"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" env:"CHEMVIZ_MAX_UPLOAD_BYTES"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"CHEMVIZ_REQUEST_TIMEOUT"`
	LogLevel       string        `yaml:"log_level" env:"CHEMVIZ_LOG_LEVEL"`
	LogFile        string        `yaml:"log_file" env:"CHEMVIZ_LOG_FILE"`
}

// Options carries values given on the command line. Empty fields fall back
// to the file, the environment and the defaults, in that order.
type Options struct {
	StateDir string
	BaseURL  string
	EnvFile  string
}

func New(opts Options) (Config, error) {
	stateDir := opts.StateDir
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		stateDir = filepath.Join(home, ".chemviz")
	}

	cfg := Config{
		BaseURL:        DefaultBaseURL,
		StateDir:       stateDir,
		SessionStore:   StoreFile,
		OutputDir:      ".",
		MaxUploadBytes: DefaultMaxUploadBytes,
		LogLevel:       "info",
		LogFile:        filepath.Join(stateDir, "chemviz.log"),
	}

	if err := cfg.loadFile(filepath.Join(stateDir, "config.yaml")); err != nil {
		return Config{}, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.DBPath = filepath.Join(stateDir, "chemviz.db")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(payload, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base url must be an absolute http(s) url: %q", c.BaseURL)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	switch c.SessionStore {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	return nil
}
