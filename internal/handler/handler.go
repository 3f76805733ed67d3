// Package handler performs vault file operations for the TUI and commands.
package handler

import (
	"os"
	"path/filepath"
	"strings"
)

type FileHandler struct {
	vaultDir string
}

func NewFileHandler(vaultDir string) *FileHandler {
	return &FileHandler{vaultDir: vaultDir}
}

// VaultDir reports the vault root this handler operates on.
func (h *FileHandler) VaultDir() string {
	return h.vaultDir
}

// WalkFiles returns every markdown note under the vault, skipping hidden
// directories and the provided folder names.
func (h *FileHandler) WalkFiles(excludeDirs []string) ([]string, error) {
	excluded := make(map[string]struct{}, len(excludeDirs))
	for _, d := range excludeDirs {
		excluded[strings.ToLower(d)] = struct{}{}
	}

	var files []string
	err := filepath.Walk(
		h.vaultDir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			name := info.Name()
			if info.IsDir() {
				if path == h.vaultDir {
					return nil
				}
				if strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				if _, skip := excluded[strings.ToLower(name)]; skip {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") {
				return nil
			}
			if filepath.Ext(name) == ".md" {
				files = append(files, path)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Archive moves a note into the archive subdirectory, preserving its
// position relative to the vault root.
func (h *FileHandler) Archive(path string) error {
	return h.moveUnder(path, "archive")
}

// Unarchive restores a note from the archive subdirectory.
func (h *FileHandler) Unarchive(path string) error {
	return h.moveOut(path, "archive")
}

// Trash moves a note into the trash subdirectory.
func (h *FileHandler) Trash(path string) error {
	return h.moveUnder(path, "trash")
}

// Untrash restores a note from the trash subdirectory.
func (h *FileHandler) Untrash(path string) error {
	return h.moveOut(path, "trash")
}

func (h *FileHandler) moveUnder(path, bucket string) error {
	subDir, err := filepath.Rel(h.vaultDir, filepath.Dir(path))
	if err != nil {
		return err
	}

	targetDir := filepath.Join(h.vaultDir, bucket, subDir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	return os.Rename(path, filepath.Join(targetDir, filepath.Base(path)))
}

func (h *FileHandler) moveOut(path, bucket string) error {
	subDir, err := filepath.Rel(filepath.Join(h.vaultDir, bucket), filepath.Dir(path))
	if err != nil {
		return err
	}

	targetDir := filepath.Join(h.vaultDir, subDir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	return os.Rename(path, filepath.Join(targetDir, filepath.Base(path)))
}
