package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaultsFillsUnsetValues(t *testing.T) {
	cfg := StoreConfig{}
	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults failed: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BasePath != cwd {
		t.Errorf("BasePath = %q, want working directory %q", cfg.BasePath, cwd)
	}
	if cfg.URLPrefix != DefaultURLPrefix {
		t.Errorf("URLPrefix = %q, want %q", cfg.URLPrefix, DefaultURLPrefix)
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	base := t.TempDir()
	cfg := StoreConfig{
		BasePath:    base,
		URLPrefix:   "/media",
		Domain:      "https://cdn.example.com",
		Destination: "avatars",
	}

	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults failed: %v", err)
	}

	if cfg.BasePath != base {
		t.Errorf("BasePath = %q, want %q", cfg.BasePath, base)
	}
	if cfg.URLPrefix != "/media" {
		t.Errorf("URLPrefix = %q, want /media", cfg.URLPrefix)
	}
	if cfg.Domain != "https://cdn.example.com" || cfg.Destination != "avatars" {
		t.Errorf("Domain/Destination disturbed: %q, %q", cfg.Domain, cfg.Destination)
	}
}

func TestApplyDefaultsIsIdempotent(t *testing.T) {
	cfg := StoreConfig{BasePath: t.TempDir(), URLPrefix: "/media"}

	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatal(err)
	}
	first := cfg

	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatal(err)
	}
	if cfg != first {
		t.Errorf("second ApplyDefaults changed the config: %+v != %+v", cfg, first)
	}
}

func TestApplyDefaultsResolvesRelativeBasePath(t *testing.T) {
	cfg := StoreConfig{BasePath: "data/files"}
	if err := cfg.ApplyDefaults(); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(cfg.BasePath) {
		t.Errorf("BasePath = %q, want an absolute path", cfg.BasePath)
	}
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("Address = %q, want 0.0.0.0:8080", cfg.Server.Address())
	}
	if !cfg.Store.IsLocal() {
		t.Errorf("default provider = %q, want local", cfg.Store.Provider)
	}
	if cfg.Store.URLPrefix != DefaultURLPrefix {
		t.Errorf("URLPrefix = %q, want %q", cfg.Store.URLPrefix, DefaultURLPrefix)
	}
	if !filepath.IsAbs(cfg.Store.BasePath) {
		t.Errorf("BasePath = %q, want an absolute path", cfg.Store.BasePath)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  host: 127.0.0.1
  port: 9090
store:
  provider: local
  base_path: ` + dir + `
  url_prefix: /media
  destination: avatars
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address() != "127.0.0.1:9090" {
		t.Errorf("Address = %q, want 127.0.0.1:9090", cfg.Server.Address())
	}
	if cfg.Store.URLPrefix != "/media" {
		t.Errorf("URLPrefix = %q, want /media", cfg.Store.URLPrefix)
	}
	if cfg.Store.Destination != "avatars" {
		t.Errorf("Destination = %q, want avatars", cfg.Store.Destination)
	}
}

func TestLoadRejectsInvalidProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  provider: gcs\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted an unsupported provider")
	}
}
