package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"teamtasks/internal/config"
)

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte("data_dir: /var/lib/teamtasks\njournal:\n  enabled: false\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DataDir != "/var/lib/teamtasks" {
		t.Fatalf("data_dir = %q", cfg.DataDir)
	}
	if cfg.Journal.Enabled {
		t.Fatal("journal should be disabled")
	}
}

func TestFromYAMLDefaultsFillGaps(t *testing.T) {
	cfg, err := config.FromYAML([]byte("data_dir: /tmp/tt\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("journal default should be enabled")
	}
}

func TestFromYAMLInvalid(t *testing.T) {
	if _, err := config.FromYAML([]byte("data_dir: [")); err == nil {
		t.Fatal("expected yaml error")
	}
	if _, err := config.FromYAML([]byte("data_dir: \"\"\n")); err == nil || !strings.Contains(err.Error(), "data_dir") {
		t.Fatalf("expected data_dir validation error, got %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.LoadOptional(filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.DataDir == "" || !cfg.Journal.Enabled {
		t.Fatalf("defaults not applied: %+v", cfg)
	}

	path := filepath.Join(dir, "teamtasks.yml")
	if err := os.WriteFile(path, []byte("data_dir: /srv/tt\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = config.LoadOptional(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/srv/tt" {
		t.Fatalf("data_dir = %q", cfg.DataDir)
	}
}
