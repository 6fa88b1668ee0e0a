package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Addr         string        `yaml:"addr"`
	DataDir      string        `yaml:"data_dir"`
	ScoreBackend string        `yaml:"score_backend"`
	DatabaseURL  string        `yaml:"database_url"`
	SQLitePath   string        `yaml:"sqlite_path"`
	SaveTimeout  time.Duration `yaml:"save_timeout"`
	LogLevel     string        `yaml:"log_level"`
	APIBaseURL   string        `yaml:"api_base_url"`
}

func defaults() Config {
	return Config{
		Addr:         ":8080",
		DataDir:      defaultDataDir(),
		ScoreBackend: BackendFile,
		SaveTimeout:  5 * time.Second,
		LogLevel:     "info",
		APIBaseURL:   "http://localhost:8080",
	}
}

// Load reads the optional FRONTIER_CONFIG file and then applies env overrides.
func Load() (Config, error) {
	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("FRONTIER_CONFIG")); path != "" {
		raw, err := os.ReadFile(expandHome(path))
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	} else {
		cfg.Addr = envDefault("FRONTIER_API_ADDR", cfg.Addr)
	}
	cfg.DataDir = expandHome(envDefault("FRONTIER_DATA_DIR", cfg.DataDir))
	cfg.ScoreBackend = strings.ToLower(envDefault("FRONTIER_SCORE_BACKEND", cfg.ScoreBackend))
	cfg.DatabaseURL = envDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = expandHome(envDefault("FRONTIER_SQLITE_PATH", cfg.SQLitePath))
	cfg.SaveTimeout = envDurationDefault("FRONTIER_SAVE_TIMEOUT", cfg.SaveTimeout)
	cfg.LogLevel = strings.ToLower(envDefault("FRONTIER_LOG_LEVEL", cfg.LogLevel))
	cfg.APIBaseURL = strings.TrimRight(envDefault("FRONTIER_API_BASE_URL", cfg.APIBaseURL), "/")

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "scores.db")
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 5 * time.Second
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.ScoreBackend {
	case BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres score backend")
		}
	default:
		return fmt.Errorf("unknown score backend %q", c.ScoreBackend)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".frontier"
	}
	return filepath.Join(home, ".frontier")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
