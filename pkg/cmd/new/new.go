package new

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/davenportd/scribe/internal/note"
	"github.com/davenportd/scribe/internal/state"
)

func NewCmdNew(s *state.State) *cobra.Command {
	var (
		paste  bool
		launch bool
		subDir string
	)

	cmd := &cobra.Command{
		Use:     "new <title> [tags]",
		Aliases: []string{"n"},
		Short:   "Create a new note in the active vault.",
		Example: heredoc.Doc(`
			scribe new "read later"
			scribe new "api design" "project-x draft" --paste
		`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			var tags []string
			if len(args) == 2 {
				tags = strings.Fields(args[1])
			}

			n := &note.Note{
				VaultDir: s.Vault,
				SubDir:   subDir,
				Title:    title,
				Tags:     tags,
			}

			path, err := n.Create(paste)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", path)

			if err := note.RunPostCreateHooks(s.Workspace, path); err != nil {
				return err
			}

			if len(tags) > 0 {
				s.Tags.Refresh(cmd.Context())
			}
			if launch {
				return note.Launch(path, s.Workspace)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&paste, "paste", "p", false, "Seed the note body from the clipboard.")
	cmd.Flags().BoolVarP(&launch, "open", "o", false, "Open the note in the configured editor.")
	cmd.Flags().StringVarP(&subDir, "dir", "d", "", "Subdirectory of the vault to create the note in.")

	return cmd
}
