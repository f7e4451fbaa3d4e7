package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ZGENT_DATA_DIR", "/srv/zgent/data")
	t.Setenv("ZGENT_HISTORY_CAPACITY", "25")

	Load()
	s := Current()

	if s.DataDir != "/srv/zgent/data" {
		t.Errorf("DataDir = %q, want %q", s.DataDir, "/srv/zgent/data")
	}
	if s.HistoryCapacity != 25 {
		t.Errorf("HistoryCapacity = %d, want 25", s.HistoryCapacity)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", s.LogLevel, "info")
	}
}

func TestSet_WritesConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	Load()
	if err := Set(KeyArtifactRoot, "/tmp/artifacts"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	path := filepath.Join(home, ".zgent", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if len(data) == 0 {
		t.Error("config file is empty after Set")
	}
	if got := Get(KeyArtifactRoot); got != "/tmp/artifacts" {
		t.Errorf("Get(%s) = %q, want %q", KeyArtifactRoot, got, "/tmp/artifacts")
	}
}
