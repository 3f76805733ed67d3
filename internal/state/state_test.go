package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// setTestHome points the config and cache directories at temp dirs so state
// construction never touches the real home.
func setTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	return home
}

func TestNewStateWithoutVaultDir(t *testing.T) {
	setTestHome(t)

	s, err := NewState("")
	if err != nil {
		t.Fatalf("NewState on a fresh install returned error: %v", err)
	}
	defer s.Close()

	if s.Vault != "" {
		t.Fatalf("expected empty vault dir, got %q", s.Vault)
	}
	if s.Watcher != nil {
		t.Fatalf("expected no watcher without a vault dir")
	}

	// The cache still answers; the missing vault degrades to an empty
	// snapshot rather than an error.
	snap := s.Tags.Get(context.Background(), false)
	if len(snap.TopTags) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap.TopTags)
	}
}

func TestNewStateWithVaultDir(t *testing.T) {
	home := setTestHome(t)
	vault := filepath.Join(home, "vault")
	if err := os.MkdirAll(vault, 0o755); err != nil {
		t.Fatalf("mkdir vault: %v", err)
	}

	configBody := "workspaces:\n  default:\n    vaultdir: " + vault + "\n    editor: vim\ncurrent_workspace: default\n"
	configPath := filepath.Join(home, ".scribe", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s, err := NewState("")
	if err != nil {
		t.Fatalf("NewState returned error: %v", err)
	}
	defer s.Close()

	if s.Vault != vault {
		t.Fatalf("expected vault %q, got %q", vault, s.Vault)
	}
	if s.Watcher == nil {
		t.Fatalf("expected a vault watcher for a configured workspace")
	}
}

func TestNewStateUnknownWorkspaceOverride(t *testing.T) {
	setTestHome(t)

	if _, err := NewState("missing"); err == nil {
		t.Fatalf("expected error for unknown workspace override")
	}
}
