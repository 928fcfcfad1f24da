package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// setupTestHome points HOME at a temp dir and clears SAMVAAD_* overrides.
func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// --- Load ---

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	home := setupTestHome(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := &Config{
		DataDir:      filepath.Join(home, ".samvaad"),
		DefaultUser:  "default",
		Language:     "en",
		HistoryLimit: 20,
		Log:          Log{Level: "info", Format: "json"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	setupTestHome(t)
	path := writeConfig(t, `data_dir: /tmp/samvaad-test
default_user: priya
language: hi
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != "/tmp/samvaad-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.DefaultUser != "priya" || cfg.Language != "hi" {
		t.Errorf("user/lang = %q/%q", cfg.DefaultUser, cfg.Language)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	setupTestHome(t)
	path := writeConfig(t, "language: hi\nlog:\n  level: debug\n")
	t.Setenv("SAMVAAD_LANGUAGE", "en")
	t.Setenv("SAMVAAD_LOG_LEVEL", "warn")
	t.Setenv("SAMVAAD_DEFAULT_USER", "arjun")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q, want en", cfg.Language)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.DefaultUser != "arjun" {
		t.Errorf("DefaultUser = %q, want arjun", cfg.DefaultUser)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"language", "language: fr\n"},
		{"log level", "log:\n  level: verbose\n"},
		{"log format", "log:\n  format: xml\n"},
		{"history limit", "history_limit: -1\n"},
		{"malformed yaml", "language: [en\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestHome(t)
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_RejectsDirectory(t *testing.T) {
	setupTestHome(t)
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for directory path")
	}
}

// --- envKey ---

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SAMVAAD_DATA_DIR":      "data_dir",
		"SAMVAAD_DEFAULT_USER":  "default_user",
		"SAMVAAD_LOG_LEVEL":     "log.level",
		"SAMVAAD_LOG_FORMAT":    "log.format",
		"SAMVAAD_HISTORY_LIMIT": "history_limit",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
