package find

import (
	"errors"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/davenportd/scribe/internal/finder"
	"github.com/davenportd/scribe/internal/note"
	"github.com/davenportd/scribe/internal/state"
)

func NewCmdFind(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "find [query]",
		Aliases: []string{"f"},
		Short:   "Fuzzy find a note and open it.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			snap := s.Tags.Get(cmd.Context(), false)
			f := finder.New(s.Vault, "Select a note to edit.", snap)

			path, err := f.Run(query)
			if err != nil {
				if errors.Is(err, fuzzyfinder.ErrAbort) {
					return nil
				}
				return err
			}
			return note.Launch(path, s.Workspace)
		},
	}
}
