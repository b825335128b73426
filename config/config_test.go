package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("missing config must not be an error: %v", err)
	}
	if cfg.VaultPath == "" || cfg.BoardFile != "Notes/Board.md" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestLoadAppliesDefaultsForAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"vault_path":"/vault"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.VaultPath != "/vault" {
		t.Fatalf("unexpected vault path: %q", cfg.VaultPath)
	}
	if cfg.BoardFile != "Notes/Board.md" {
		t.Fatalf("board file should default, got %q", cfg.BoardFile)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	want := Config{VaultPath: "/vault", BoardFile: "Work/Board.md"}
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %#v want %#v", got, want)
	}
}

func TestBoardPathAndBriefsDir(t *testing.T) {
	cfg := Config{VaultPath: "/vault", BoardFile: "Work/Board.md"}
	if got := cfg.BoardPath(); got != filepath.Join("/vault", "Work", "Board.md") {
		t.Fatalf("unexpected board path: %q", got)
	}
	if got := cfg.BriefsDir(); got != "Work/Briefs" {
		t.Fatalf("unexpected briefs dir: %q", got)
	}
	flat := Config{VaultPath: "/vault", BoardFile: "Board.md"}
	if got := flat.BriefsDir(); got != "Briefs" {
		t.Fatalf("unexpected briefs dir for flat layout: %q", got)
	}
}
