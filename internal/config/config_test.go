package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Default log level mismatch: got %s, want info", cfg.LogLevel)
	}

	if cfg.Library != "icu4x" {
		t.Errorf("Default library mismatch: got %s, want icu4x", cfg.Library)
	}

	if len(cfg.LibraryPaths) != 1 || cfg.LibraryPaths[0] != "./libraries" {
		t.Errorf("Default library paths mismatch: got %v, want [./libraries]", cfg.LibraryPaths)
	}

	if cfg.Wasm.MemoryPages != 256 {
		t.Errorf("Default memory pages mismatch: got %d, want 256", cfg.Wasm.MemoryPages)
	}

	if cfg.Wasm.MaxInstances != 100 {
		t.Errorf("Default max instances mismatch: got %d, want 100", cfg.Wasm.MaxInstances)
	}

	if cfg.Wasm.CacheDir != "" {
		t.Errorf("Cache dir should be empty by default, got %s", cfg.Wasm.CacheDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `
log_level: debug
library: icu4x-lite
library_paths:
  - /opt/icu4x
  - ./vendor/icu4x
wasm:
  memory_pages: 512
  debug: true
`
	if err := os.WriteFile(path, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Log level mismatch: got %s, want debug", cfg.LogLevel)
	}

	if cfg.Library != "icu4x-lite" {
		t.Errorf("Library mismatch: got %s, want icu4x-lite", cfg.Library)
	}

	if len(cfg.LibraryPaths) != 2 || cfg.LibraryPaths[1] != "./vendor/icu4x" {
		t.Errorf("Library paths mismatch: got %v", cfg.LibraryPaths)
	}

	if cfg.Wasm.MemoryPages != 512 || !cfg.Wasm.Debug {
		t.Errorf("Wasm config mismatch: got %+v", cfg.Wasm)
	}

	// Unset keys keep their defaults.
	if cfg.Wasm.MaxInstances != 100 {
		t.Errorf("Max instances mismatch: got %d, want 100", cfg.Wasm.MaxInstances)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ICU4X_LOG_LEVEL", "warn")
	t.Setenv("ICU4X_WASM_MAX_INSTANCES", "7")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Env should win over file: got %s, want warn", cfg.LogLevel)
	}

	if cfg.Wasm.MaxInstances != 7 {
		t.Errorf("Max instances mismatch: got %d, want 7", cfg.Wasm.MaxInstances)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}
