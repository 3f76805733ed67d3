package notes

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/davenportd/scribe/internal/pathutil"
	"github.com/davenportd/scribe/internal/tagcache"
)

type noteItem struct {
	title string
	path  string
	rel   string
	tags  []string
}

func (i noteItem) Title() string { return i.title }

func (i noteItem) Description() string {
	if len(i.tags) == 0 {
		return i.rel
	}
	return i.rel + "  @" + strings.Join(i.tags, " @")
}

// FilterValue includes tags so the built-in list filter matches either.
func (i noteItem) FilterValue() string {
	return i.title + " " + strings.Join(i.tags, " ")
}

// buildItems pairs the vault's note files with their cached tag lists.
func buildItems(files []string, vault string, snap *tagcache.GlobalTags) []list.Item {
	tagsByPath := make(map[string][]string, len(snap.Documents))
	for _, doc := range snap.Documents {
		tagsByPath[doc.FilePath] = doc.Tags
	}

	items := make([]list.Item, 0, len(files))
	for _, path := range files {
		rel, err := pathutil.VaultRelative(vault, path)
		if err != nil {
			rel = path
		}

		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		items = append(items, noteItem{
			title: title,
			path:  path,
			rel:   rel,
			tags:  tagsByPath[rel],
		})
	}

	sort.Slice(items, func(a, b int) bool {
		return items[a].(noteItem).rel < items[b].(noteItem).rel
	})
	return items
}

// filterByTag keeps the notes carrying the given tag.
func filterByTag(items []list.Item, tag string) []list.Item {
	if tag == "" {
		return items
	}

	lowered := strings.ToLower(tag)
	kept := make([]list.Item, 0, len(items))
	for _, it := range items {
		note, ok := it.(noteItem)
		if !ok {
			continue
		}
		for _, t := range note.tags {
			if strings.ToLower(t) == lowered {
				kept = append(kept, it)
				break
			}
		}
	}
	return kept
}
