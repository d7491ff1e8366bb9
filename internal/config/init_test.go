package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idspispopd.yaml")

	if err := Init(path, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of generated config: %v", err)
	}
	if len(cfg.Pages) != 4 {
		t.Fatalf("expected 4 pages in generated config, got %d", len(cfg.Pages))
	}
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idspispopd.yaml")
	if err := os.WriteFile(path, []byte("site:\n  title: keep\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	if err := Init(path, false); err == nil {
		t.Fatalf("expected error without --force")
	}

	if err := Init(path, true); err != nil {
		t.Fatalf("Init with force: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) == "site:\n  title: keep\n" {
		t.Fatalf("expected file to be overwritten")
	}
}
