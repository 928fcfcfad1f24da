// Package config loads Samvaad settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides (SAMVAAD_DATA_DIR, ...).
const EnvPrefix = "SAMVAAD_"

const maxConfigFileSize = 1024 * 1024 // 1MB

var (
	validLanguages  = []string{"en", "hi"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
)

// Config is the top-level configuration.
type Config struct {
	DataDir      string `koanf:"data_dir"`
	DefaultUser  string `koanf:"default_user"`
	Language     string `koanf:"language"`
	HistoryLimit int    `koanf:"history_limit"`
	Log          Log    `koanf:"log"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Dir returns ~/.samvaad, the default home of the database and config file.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".samvaad"), nil
}

// Load reads configuration from the YAML file at path, then applies
// SAMVAAD_* environment overrides.
//
// Precedence (highest to lowest):
//  1. Environment variables (SAMVAAD_DATA_DIR, SAMVAAD_LOG_LEVEL, ...)
//  2. YAML config file (~/.samvaad/config.yaml when path is empty)
//  3. Defaults
//
// A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	content, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// envKey maps SAMVAAD_LOG_LEVEL to log.level and SAMVAAD_DATA_DIR to
// data_dir. Only the log section is nested.
//
//	SAMVAAD_DEFAULT_USER -> default_user
//	SAMVAAD_LOG_FORMAT   -> log.format
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log." + rest
	}
	return key
}

func applyDefaults(cfg *Config) error {
	if cfg.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		cfg.DataDir = dir
	}
	if cfg.DefaultUser == "" {
		cfg.DefaultUser = "default"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	return nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DefaultUser) == "" {
		return errors.New("default_user must not be blank")
	}
	if !slices.Contains(validLanguages, c.Language) {
		return fmt.Errorf("invalid language %q (must be one of %s)", c.Language, strings.Join(validLanguages, ", "))
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("invalid history_limit: %d (must be positive)", c.HistoryLimit)
	}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if !slices.Contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}
