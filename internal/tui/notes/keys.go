package notes

import "github.com/charmbracelet/bubbles/key"

type listKeyMap struct {
	openNote    key.Binding
	tagQuery    key.Binding
	clearFilter key.Binding
	refreshTags key.Binding
	archiveNote key.Binding
	trashNote   key.Binding
	acceptQuery key.Binding
	cancelQuery key.Binding
	quit        key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		openNote: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open note"),
		),
		tagQuery: key.NewBinding(
			key.WithKeys("@"),
			key.WithHelp("@", "tag query"),
		),
		clearFilter: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear tag filter"),
		),
		refreshTags: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh tags"),
		),
		archiveNote: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "archive"),
		),
		trashNote: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "trash"),
		),
		acceptQuery: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply tag filter"),
		),
		cancelQuery: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel tag query"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
