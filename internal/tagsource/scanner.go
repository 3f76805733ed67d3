// Package tagsource aggregates tag usage across a vault of markdown notes.
// It is the data source behind the global tag cache: a full scan produces
// one tagcache.GlobalTags snapshot with top tag counts, co-occurrence
// relations, and per-document tag lists.
package tagsource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/davenportd/scribe/internal/tagcache"
)

// Options controls which notes participate in a scan.
type Options struct {
	IgnoredFolders []string
	// ModifiedAfter, when non-zero, restricts the scan to notes modified
	// at or after the given instant.
	ModifiedAfter time.Time
}

// Scanner walks a vault and builds tag snapshots.
type Scanner struct {
	vault string
	opts  Options
}

func NewScanner(vault string, opts Options) *Scanner {
	return &Scanner{vault: filepath.Clean(vault), opts: opts}
}

// Source adapts the scanner to the tag cache's fetch contract.
func (s *Scanner) Source() tagcache.Source {
	return s.Snapshot
}

var (
	frontMatterRe = regexp.MustCompile(`(?ms)^---\s*\n(.*?)\n---\s*\n?`)
	inlineTagRe   = regexp.MustCompile(`(?:^|[^\w@#])[@#]([a-zA-Z][\w/-]*)`)
)

// Snapshot scans every markdown note under the vault and aggregates its
// tags. Unreadable or unparsable individual notes are skipped; only walk
// failures and cancellation surface as errors.
func (s *Scanner) Snapshot(ctx context.Context) (*tagcache.GlobalTags, error) {
	paths, err := s.collectNotePaths()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	pairs := make(map[[2]string]float64)
	documents := make([]tagcache.DocumentTags, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tags, err := s.noteTags(path)
		if err != nil {
			continue
		}
		if len(tags) == 0 {
			continue
		}

		for _, tag := range tags {
			counts[tag]++
		}
		for _, pair := range tagPairs(tags) {
			pairs[pair]++
		}

		rel, err := filepath.Rel(s.vault, path)
		if err != nil {
			rel = path
		}
		documents = append(documents, tagcache.DocumentTags{
			FilePath: filepath.ToSlash(rel),
			Tags:     tags,
		})
	}

	snap := tagcache.Empty()
	snap.Documents = documents

	for tag, count := range counts {
		snap.TopTags = append(snap.TopTags, tagcache.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(snap.TopTags, func(i, j int) bool {
		if snap.TopTags[i].Count != snap.TopTags[j].Count {
			return snap.TopTags[i].Count > snap.TopTags[j].Count
		}
		return snap.TopTags[i].Tag < snap.TopTags[j].Tag
	})

	for pair, strength := range pairs {
		snap.Relations = append(snap.Relations, tagcache.TagRelation{
			Source:   pair[0],
			Target:   pair[1],
			Strength: strength,
		})
	}
	sort.Slice(snap.Relations, func(i, j int) bool {
		if snap.Relations[i].Strength != snap.Relations[j].Strength {
			return snap.Relations[i].Strength > snap.Relations[j].Strength
		}
		if snap.Relations[i].Source != snap.Relations[j].Source {
			return snap.Relations[i].Source < snap.Relations[j].Source
		}
		return snap.Relations[i].Target < snap.Relations[j].Target
	})

	return snap, nil
}

// noteTags extracts the unique tags of one note, frontmatter first and then
// inline mentions, preserving first-seen order.
func (s *Scanner) noteTags(path string) ([]string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, body := splitFrontMatter(source)

	var tags []string
	seen := make(map[string]struct{})
	add := func(raw string) {
		tag := normalizeTag(raw)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, tag := range frontMatterTags(fm) {
		add(tag)
	}
	for _, tag := range inlineTags(body) {
		add(tag)
	}

	return tags, nil
}

func (s *Scanner) collectNotePaths() ([]string, error) {
	if s.vault == "" || s.vault == "." {
		return nil, fmt.Errorf("tagsource: vault directory cannot be empty")
	}

	ignored := make(map[string]struct{}, len(s.opts.IgnoredFolders))
	for _, dir := range s.opts.IgnoredFolders {
		ignored[strings.ToLower(dir)] = struct{}{}
	}

	paths := make([]string, 0)
	err := filepath.WalkDir(s.vault, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := strings.ToLower(d.Name())
			if strings.HasPrefix(name, ".") && path != s.vault {
				return filepath.SkipDir
			}
			if _, skip := ignored[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		if !s.opts.ModifiedAfter.IsZero() {
			info, err := d.Info()
			if err != nil || info.ModTime().Before(s.opts.ModifiedAfter) {
				return nil
			}
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tagsource: walk vault: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

func splitFrontMatter(data []byte) ([]byte, []byte) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if len(loc) < 4 {
		return nil, data
	}
	return data[loc[2]:loc[3]], data[loc[1]:]
}

// frontMatterTags pulls the "tags" key out of YAML frontmatter, accepting
// both sequence and scalar forms.
func frontMatterTags(fm []byte) []string {
	if len(fm) == 0 {
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(fm, &doc); err != nil {
		return nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != "tags" {
			continue
		}
		value := mapping.Content[i+1]
		switch value.Kind {
		case yaml.SequenceNode:
			tags := make([]string, 0, len(value.Content))
			for _, child := range value.Content {
				tags = append(tags, child.Value)
			}
			return tags
		case yaml.ScalarNode:
			return strings.Fields(value.Value)
		}
	}
	return nil
}

// inlineTags walks the markdown AST and collects @tag and #tag mentions
// from text nodes. Code spans and fenced blocks never produce text nodes,
// so tag-looking tokens inside code are not counted.
func inlineTags(body []byte) []string {
	parser := goldmark.DefaultParser()
	document := parser.Parse(text.NewReader(body))

	var tags []string
	ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, isCode := n.(*ast.CodeSpan); isCode {
			return ast.WalkSkipChildren, nil
		}
		textNode, ok := n.(*ast.Text)
		if !ok {
			return ast.WalkContinue, nil
		}
		segment := textNode.Segment
		for _, match := range inlineTagRe.FindAllSubmatch(body[segment.Start:segment.Stop], -1) {
			tags = append(tags, string(match[1]))
		}
		return ast.WalkContinue, nil
	})
	return tags
}

func normalizeTag(raw string) string {
	tag := strings.TrimSpace(raw)
	tag = strings.TrimLeft(tag, "@#")
	return strings.ToLower(tag)
}

// tagPairs enumerates the unordered co-occurring pairs of one document's
// tag set, each ordered lexically so the same pair always maps to the same
// relation key.
func tagPairs(tags []string) [][2]string {
	if len(tags) < 2 {
		return nil
	}

	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)

	pairs := make([][2]string, 0, len(sorted)*(len(sorted)-1)/2)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			pairs = append(pairs, [2]string{sorted[i], sorted[j]})
		}
	}
	return pairs
}
