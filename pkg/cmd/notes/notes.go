package notes

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/davenportd/scribe/internal/note"
	"github.com/davenportd/scribe/internal/state"
	"github.com/davenportd/scribe/internal/tui/notes"
)

func NewCmdNotes(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"ls"},
		Short:   "Browse the vault with tag filtering and autocomplete.",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := notes.NewNoteListModel(s)
			if err != nil {
				return fmt.Errorf("failed to build note browser: %w", err)
			}

			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("note browser exited with error: %w", err)
			}

			// Opening the editor happens after the TUI releases the
			// terminal.
			if path := model.Selected(); path != "" {
				return note.Launch(path, s.Workspace)
			}
			return nil
		},
	}

	return cmd
}
