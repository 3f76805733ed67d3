// Package notes is the vault browser: a filterable note list with live
// tag autocomplete backed by the global tag cache.
package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davenportd/scribe/internal/state"
	"github.com/davenportd/scribe/internal/tagcache"
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)
	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	queryBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			MarginTop(1)
)

const suggestionLimit = 8

// tagsRefreshedMsg carries a fresh snapshot delivered by the cache's
// change notifier.
type tagsRefreshedMsg struct {
	data *tagcache.GlobalTags
}

// NoteListModel drives the note browser. Tag suggestions are served from
// the cache's suggestion tier, so typing never rescans the vault.
type NoteListModel struct {
	list        list.Model
	input       textinput.Model
	keys        *listKeyMap
	state       *state.State
	allItems    []list.Item
	suggestions []tagcache.TagCount
	updates     chan *tagcache.GlobalTags
	unsubscribe func()
	activeTag   string
	querying    bool
	selected    string
}

func NewNoteListModel(s *state.State) (*NoteListModel, error) {
	files, err := s.Handler.WalkFiles(s.Workspace.IgnoredFolders)
	if err != nil {
		return nil, err
	}

	snap := s.Tags.Get(context.Background(), false)
	items := buildItems(files, s.Vault, snap)

	keys := newListKeyMap()
	delegate := list.NewDefaultDelegate()

	l := list.New(items, delegate, 0, 0)
	l.Title = fmt.Sprintf("%s notes", s.WorkspaceName)
	l.Styles.Title = titleStyle
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.tagQuery, keys.refreshTags, keys.archiveNote, keys.trashNote}
	}

	input := textinput.New()
	input.Prompt = "@"
	input.Placeholder = "tag"
	input.CharLimit = 64

	updates := make(chan *tagcache.GlobalTags, 1)
	unsubscribe := s.Tags.Subscribe(func(data *tagcache.GlobalTags) {
		select {
		case updates <- data:
		default:
		}
	})

	return &NoteListModel{
		list:        l,
		input:       input,
		keys:        keys,
		state:       s,
		allItems:    items,
		updates:     updates,
		unsubscribe: unsubscribe,
	}, nil
}

// Selected returns the note path chosen with enter, if any, once the
// program has finished.
func (m *NoteListModel) Selected() string {
	return m.selected
}

func (m *NoteListModel) Init() tea.Cmd {
	return m.waitForTags()
}

// waitForTags blocks on the subscription channel and resurfaces snapshots
// as messages.
func (m *NoteListModel) waitForTags() tea.Cmd {
	return func() tea.Msg {
		data, ok := <-m.updates
		if !ok {
			return nil
		}
		return tagsRefreshedMsg{data: data}
	}
}

func (m *NoteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case tagsRefreshedMsg:
		m.refreshItems(msg.data)
		return m, m.waitForTags()

	case tea.KeyMsg:
		if m.querying {
			return m.updateQuery(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *NoteListModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the built-in list filter see keystrokes first while active.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.unsubscribe()
		return m, tea.Quit

	case key.Matches(msg, m.keys.openNote):
		if note, ok := m.list.SelectedItem().(noteItem); ok {
			m.selected = note.path
			m.unsubscribe()
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.tagQuery):
		m.querying = true
		m.input.SetValue("")
		m.input.Focus()
		m.suggestions = m.state.Tags.SuggestTags("", suggestionLimit)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.clearFilter):
		m.activeTag = ""
		m.list.SetItems(m.allItems)
		return m, nil

	case key.Matches(msg, m.keys.refreshTags):
		return m, func() tea.Msg {
			m.state.Tags.Refresh(context.Background())
			return nil
		}

	case key.Matches(msg, m.keys.archiveNote):
		if note, ok := m.list.SelectedItem().(noteItem); ok {
			if err := m.state.Handler.Archive(note.path); err == nil {
				m.removeItem(note.path)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.trashNote):
		if note, ok := m.list.SelectedItem().(noteItem); ok {
			if err := m.state.Handler.Trash(note.path); err == nil {
				m.removeItem(note.path)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *NoteListModel) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancelQuery):
		m.querying = false
		m.input.Blur()
		m.suggestions = nil
		return m, nil

	case key.Matches(msg, m.keys.acceptQuery):
		tag := strings.TrimSpace(m.input.Value())
		if len(m.suggestions) > 0 {
			tag = m.suggestions[0].Tag
		}
		m.activeTag = tag
		m.querying = false
		m.input.Blur()
		m.suggestions = nil
		m.list.SetItems(filterByTag(m.allItems, tag))
		m.list.ResetSelected()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggestions = m.state.Tags.SuggestTags(m.input.Value(), suggestionLimit)
	return m, cmd
}

// refreshItems rebuilds the list against a fresh snapshot, keeping any
// active tag filter applied.
func (m *NoteListModel) refreshItems(snap *tagcache.GlobalTags) {
	files, err := m.state.Handler.WalkFiles(m.state.Workspace.IgnoredFolders)
	if err != nil {
		return
	}
	m.allItems = buildItems(files, m.state.Vault, snap)
	m.list.SetItems(filterByTag(m.allItems, m.activeTag))
}

func (m *NoteListModel) removeItem(path string) {
	kept := make([]list.Item, 0, len(m.allItems))
	for _, it := range m.allItems {
		if note, ok := it.(noteItem); ok && note.path == path {
			continue
		}
		kept = append(kept, it)
	}
	m.allItems = kept
	m.list.SetItems(filterByTag(m.allItems, m.activeTag))
}

func (m *NoteListModel) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())

	if m.querying {
		b.WriteString("\n")
		b.WriteString(queryBarStyle.Render(m.input.View()))
		if len(m.suggestions) > 0 {
			parts := make([]string, 0, len(m.suggestions))
			for _, tc := range m.suggestions {
				parts = append(parts,
					suggestionStyle.Render("@"+tc.Tag)+
						countStyle.Render(fmt.Sprintf("(%d)", tc.Count)))
			}
			b.WriteString("\n" + strings.Join(parts, "  "))
		}
	} else if m.activeTag != "" {
		b.WriteString("\n")
		b.WriteString(queryBarStyle.Render("filtered by " + suggestionStyle.Render("@"+m.activeTag)))
	}

	return b.String()
}
