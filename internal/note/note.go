// Package note creates and opens markdown notes with YAML frontmatter.
package note

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/davenportd/scribe/internal/config"
)

type Note struct {
	VaultDir string
	SubDir   string
	Title    string
	Tags     []string
}

func New(vaultDir, subDir, title string, tags []string) *Note {
	return &Note{
		VaultDir: vaultDir,
		SubDir:   subDir,
		Title:    title,
		Tags:     tags,
	}
}

// Path returns where this note lives on disk.
func (n *Note) Path() string {
	return filepath.Join(n.VaultDir, n.SubDir, n.fileName())
}

func (n *Note) fileName() string {
	name := strings.TrimSpace(n.Title)
	name = strings.ReplaceAll(name, " ", "-")
	return name + ".md"
}

type frontMatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Tags  []string `yaml:"tags"`
}

// Create writes the note file with frontmatter. With pasteBody set, the
// initial body comes from the system clipboard; clipboard failures leave
// the body empty rather than failing the note.
func (n *Note) Create(pasteBody bool) (string, error) {
	path := n.Path()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create note directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("note already exists: %s", path)
	}

	fm, err := yaml.Marshal(frontMatter{
		Title: n.Title,
		Date:  time.Now().Format("2006-01-02"),
		Tags:  n.Tags,
	})
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	var body string
	if pasteBody {
		if content, err := clipboard.ReadAll(); err == nil {
			body = strings.TrimSpace(content) + "\n"
		}
	}

	content := fmt.Sprintf("---\n%s---\n\n%s", fm, body)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}

	return path, nil
}

// Launch opens the path in the workspace editor, attached to the caller's
// terminal, with the workspace's open hooks around it.
func Launch(path string, ws *config.Workspace) error {
	editor := ws.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return fmt.Errorf("no editor configured")
	}

	if err := runPreOpenHooks(ws, path); err != nil {
		return err
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return err
	}

	return runPostOpenHooks(ws, path)
}
