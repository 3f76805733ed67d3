// Package finder wraps fuzzy selection over vault notes, decorated with the
// cached tag lists and a rendered markdown preview.
package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/davenportd/scribe/internal/handler"
	"github.com/davenportd/scribe/internal/pathutil"
	"github.com/davenportd/scribe/internal/tagcache"
)

type Finder struct {
	handler *handler.FileHandler
	vault   string
	header  string
	tags    map[string][]string
	files   []string
}

// New builds a finder over the vault. The snapshot decorates entries with
// their tags; a nil snapshot just lists file names.
func New(vaultDir, header string, snap *tagcache.GlobalTags) *Finder {
	tags := make(map[string][]string)
	if snap != nil {
		for _, doc := range snap.Documents {
			tags[doc.FilePath] = doc.Tags
		}
	}
	return &Finder{
		handler: handler.NewFileHandler(vaultDir),
		vault:   vaultDir,
		header:  header,
		tags:    tags,
	}
}

// Run lets the user pick a note and returns its path.
func (f *Finder) Run(query string) (string, error) {
	files, err := f.handler.WalkFiles(nil)
	if err != nil {
		return "", fmt.Errorf("error listing files: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no notes found in %s", f.vault)
	}
	f.files = files

	idx, err := f.selectFile(query)
	if err != nil {
		return "", err
	}
	return f.files[idx], nil
}

func (f *Finder) selectFile(query string) (int, error) {
	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.header))
	}

	return fuzzyfinder.Find(f.files, func(i int) string {
		return f.displayName(f.files[i])
	}, options...)
}

func (f *Finder) displayName(path string) string {
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	rel, err := pathutil.VaultRelative(f.vault, path)
	if err != nil {
		return title
	}
	if tags := f.tags[rel]; len(tags) > 0 {
		return fmt.Sprintf("%s [@%s]", title, strings.Join(tags, " @"))
	}
	return title
}

func (f *Finder) renderPreview(i, w, h int) string {
	if i < 0 || i >= len(f.files) {
		return ""
	}

	content, err := os.ReadFile(f.files[i])
	if err != nil {
		return fmt.Sprintf("error reading file: %v", err)
	}

	rendered, err := glamour.Render(string(content), "dark")
	if err != nil {
		return string(content)
	}
	return rendered
}
