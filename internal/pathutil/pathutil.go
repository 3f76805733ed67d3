package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath rewrites Windows-style separators to the platform separator
// and cleans the result.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// VaultRelative returns target relative to the vault directory, always with
// forward slashes so downstream keys are platform agnostic.
func VaultRelative(vaultDir, target string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(vaultDir), NormalizePath(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
