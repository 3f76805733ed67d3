package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestConfig(t *testing.T, home, content string) string {
	t.Helper()
	path := GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyFileInitializesDefaultWorkspace(t *testing.T) {
	home := t.TempDir()
	writeTestConfig(t, home, "")

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.CurrentWorkspace != "default" {
		t.Fatalf("expected default workspace, got %q", cfg.CurrentWorkspace)
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		t.Fatalf("ActiveWorkspace returned error: %v", err)
	}
	if ws.Editor != "nvim" {
		t.Fatalf("expected nvim default editor, got %q", ws.Editor)
	}
}

func TestLoadParsesCacheTuning(t *testing.T) {
	home := t.TempDir()
	writeTestConfig(t, home, `
workspaces:
  primary:
    vaultdir: /tmp/vault
    editor: vim
    ignored_folders: [archive]
    cache:
      primary_ttl: 10m
      filter_ttl: 90s
      suggestion_ttl: 15s
      max_filter_entries: 32
current_workspace: primary
`)

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		t.Fatalf("ActiveWorkspace returned error: %v", err)
	}
	if ws.Cache.PrimaryTTL.Duration != 10*time.Minute {
		t.Fatalf("expected 10m primary ttl, got %v", ws.Cache.PrimaryTTL.Duration)
	}
	if ws.Cache.SuggestionTTL.Duration != 15*time.Second {
		t.Fatalf("expected 15s suggestion ttl, got %v", ws.Cache.SuggestionTTL.Duration)
	}
	if ws.Cache.MaxFilterEntries != 32 {
		t.Fatalf("expected 32 filter entries, got %d", ws.Cache.MaxFilterEntries)
	}
}

func TestLoadRejectsInvalidEditor(t *testing.T) {
	home := t.TempDir()
	writeTestConfig(t, home, `
workspaces:
  primary:
    vaultdir: /tmp/vault
    editor: butterflies
current_workspace: primary
`)

	if _, err := Load(home); err == nil {
		t.Fatalf("expected invalid editor error")
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	home := t.TempDir()
	writeTestConfig(t, home, `
workspaces:
  primary:
    vaultdir: /tmp/vault
    editor: vim
    cache:
      primary_ttl: soon
current_workspace: primary
`)

	if _, err := Load(home); err == nil {
		t.Fatalf("expected invalid duration error")
	}
}

func TestActivateWorkspace(t *testing.T) {
	home := t.TempDir()
	writeTestConfig(t, home, `
workspaces:
  primary:
    vaultdir: /tmp/vault
    editor: vim
  scratch:
    vaultdir: /tmp/scratch
    editor: nano
current_workspace: primary
`)

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if err := cfg.ActivateWorkspace("scratch"); err != nil {
		t.Fatalf("ActivateWorkspace returned error: %v", err)
	}
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		t.Fatalf("ActiveWorkspace returned error: %v", err)
	}
	if ws.VaultDir != "/tmp/scratch" {
		t.Fatalf("expected scratch workspace, got %q", ws.VaultDir)
	}

	if err := cfg.ActivateWorkspace("missing"); err == nil {
		t.Fatalf("expected error for unknown workspace")
	}
}

func TestAddWorkspaceAndSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	writeTestConfig(t, home, "")

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if err := cfg.AddWorkspace("notes", "/tmp/notes", "vim"); err != nil {
		t.Fatalf("AddWorkspace returned error: %v", err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded, err := Load(home)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if reloaded.CurrentWorkspace != "notes" {
		t.Fatalf("expected notes workspace to persist, got %q", reloaded.CurrentWorkspace)
	}
	ws, err := reloaded.ActiveWorkspace()
	if err != nil {
		t.Fatalf("ActiveWorkspace returned error: %v", err)
	}
	if ws.VaultDir != "/tmp/notes" {
		t.Fatalf("expected persisted vault dir, got %q", ws.VaultDir)
	}
}
