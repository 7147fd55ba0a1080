package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	AppDirName      = "hockey-coach"
	DatabaseFile    = "hockey-coach.db"
	DefaultListen   = "127.0.0.1:8765"
	DefaultOrigin   = "http://localhost:5173"
	DefaultLogMode  = "dev"
	DefaultSQLLevel = "warn"
)

const defaultShutdownTimeoutSeconds = 5

type Config struct {
	// sqlite file; lives in the per-user application data directory unless overridden
	DatabasePath string `yaml:"database_path" toml:"database_path"`

	// loopback address the UI process talks to
	ListenAddr     string   `yaml:"listen_addr" toml:"listen_addr"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`

	LogMode     string `yaml:"log_mode" toml:"log_mode"`           // dev | prod
	SQLLogLevel string `yaml:"sql_log_level" toml:"sql_log_level"` // silent | error | warn | info

	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`

	// problems found while loading that fell back to a default; logged by main
	// once the logger exists
	Warnings []string `yaml:"-" toml:"-"`
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvIntOrDefault returns the positive integer in envVar, or defaultVal
// plus a warning when the value is set but unusable.
func getEnvIntOrDefault(envVar string, defaultVal int) (int, string) {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal, ""
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		return defaultVal, fmt.Sprintf("invalid %s '%s', using default %d", envVar, valStr, defaultVal)
	}
	return val, ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultDataDir returns the per-user application data directory,
// e.g. ~/.config/hockey-coach on Linux.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

func defaults() (Config, error) {
	dataDir, err := DefaultDataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DatabasePath:           filepath.Join(dataDir, DatabaseFile),
		ListenAddr:             DefaultListen,
		AllowedOrigins:         []string{DefaultOrigin},
		LogMode:                DefaultLogMode,
		SQLLogLevel:            DefaultSQLLevel,
		ShutdownTimeoutSeconds: defaultShutdownTimeoutSeconds,
	}, nil
}

// loadFile overlays values from a yaml or toml file onto cfg. Fields absent
// from the file keep their current value.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse yaml config '%s': %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse toml config '%s': %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension for '%s'", path)
	}
	return nil
}

func LoadConfig() (Config, error) {
	cfg, err := defaults()
	if err != nil {
		return Config{}, err
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		if err := loadFile(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", cfg.DatabasePath)
	cfg.ListenAddr = getEnvOrDefault("LISTEN_ADDR", cfg.ListenAddr)
	if origins := splitList(os.Getenv("CORS_ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}
	cfg.LogMode = getEnvOrDefault("LOG_MODE", cfg.LogMode)
	cfg.SQLLogLevel = getEnvOrDefault("DB_LOG_LEVEL", cfg.SQLLogLevel)
	if cfg.ShutdownTimeoutSeconds <= 0 {
		cfg.ShutdownTimeoutSeconds = defaultShutdownTimeoutSeconds
	}
	var warning string
	cfg.ShutdownTimeoutSeconds, warning = getEnvIntOrDefault("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeoutSeconds)
	if warning != "" {
		cfg.Warnings = append(cfg.Warnings, warning)
	}

	absDB, err := filepath.Abs(cfg.DatabasePath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for database '%s': %w", cfg.DatabasePath, err)
	}
	cfg.DatabasePath = absDB

	return cfg, nil
}
