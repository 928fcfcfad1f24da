package server

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/samvaad/internal/config"
	"github.com/HendryAvila/samvaad/internal/logging"
	"github.com/HendryAvila/samvaad/internal/tools"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:      t.TempDir(),
		DefaultUser:  "default",
		Language:     "en",
		HistoryLimit: 20,
		Log:          config.Log{Level: "debug", Format: "json"},
	}
}

func TestNew(t *testing.T) {
	log, logs := logging.NewObserved()
	cfg := testConfig(t)

	s, cleanup, err := New(cfg, log)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer cleanup()

	if s == nil {
		t.Fatal("server is nil")
	}
	if logs.FilterMessage("server ready").Len() != 1 {
		t.Error("expected a startup log")
	}
}

func TestNew_BadDataDir(t *testing.T) {
	log, _ := logging.NewObserved()
	cfg := testConfig(t)
	// A file where the data directory should be.
	cfg.DataDir = filepath.Join("/dev/null", "samvaad")

	_, cleanup, err := New(cfg, log)
	if err == nil {
		t.Fatal("expected error for unusable data dir")
	}
	if cleanup == nil {
		t.Fatal("cleanup must never be nil")
	}
	cleanup()
}

func TestTools_UniqueNames(t *testing.T) {
	list := Tools(tools.Deps{})
	if len(list) != 12 {
		t.Errorf("got %d tools, want 12", len(list))
	}
	seen := map[string]bool{}
	for _, tl := range list {
		name := tl.Definition().Name
		if seen[name] {
			t.Errorf("duplicate tool %q", name)
		}
		seen[name] = true
	}
}

func TestServerInstructions_MentionsEveryTool(t *testing.T) {
	text := serverInstructions()
	for _, tl := range Tools(tools.Deps{}) {
		name := tl.Definition().Name
		if !strings.Contains(text, "`"+name+"`") {
			t.Errorf("instructions do not mention %q", name)
		}
	}
}
