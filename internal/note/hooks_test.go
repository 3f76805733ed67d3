package note

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/davenportd/scribe/internal/config"
)

func TestHookPlaceholderExpansion(t *testing.T) {
	ctx := newHookContext("/vault", "/vault/atoms/robot-ideas.md")

	got := applyHookPlaceholders("{vault}|{relative}|{filename}", ctx)
	want := "/vault|atoms/robot-ideas.md|robot-ideas.md"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPostCreateHookRuns(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	ws := &config.Workspace{
		VaultDir: dir,
		Hooks: config.HookConfig{
			PostCreate: []config.CommandTemplate{
				{Exec: "touch", Args: []string{marker}},
			},
		},
	}

	if err := RunPostCreateHooks(ws, filepath.Join(dir, "note.md")); err != nil {
		t.Fatalf("RunPostCreateHooks returned error: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("expected hook to create marker file: %v", err)
	}
}

func TestFailingHookSurfacesError(t *testing.T) {
	ws := &config.Workspace{
		VaultDir: t.TempDir(),
		Hooks: config.HookConfig{
			PreOpen: []config.CommandTemplate{
				{Exec: "false"},
			},
		},
	}

	if err := runPreOpenHooks(ws, filepath.Join(ws.VaultDir, "note.md")); err == nil {
		t.Fatalf("expected error from failing hook")
	}
}

func TestEmptyHookExecIsSkipped(t *testing.T) {
	ws := &config.Workspace{
		VaultDir: t.TempDir(),
		Hooks: config.HookConfig{
			PostOpen: []config.CommandTemplate{{Exec: "   "}},
		},
	}

	if err := runPostOpenHooks(ws, filepath.Join(ws.VaultDir, "note.md")); err != nil {
		t.Fatalf("expected blank hook to be skipped, got %v", err)
	}
}
