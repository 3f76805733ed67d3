package root

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davenportd/scribe/internal/state"
	"github.com/davenportd/scribe/pkg/cmd/find"
	"github.com/davenportd/scribe/pkg/cmd/initialize"
	"github.com/davenportd/scribe/pkg/cmd/new"
	"github.com/davenportd/scribe/pkg/cmd/notes"
	"github.com/davenportd/scribe/pkg/cmd/tags"
	"github.com/davenportd/scribe/pkg/cmd/view"
)

var workspaceName string

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "scribe",
		Short: "Browse and write markdown notes with tag-aware autocomplete.",
		Long: heredoc.Doc(`
			scribe keeps a vault of markdown notes and maintains a global
			index of @tag usage, so every browser and editor surface gets
			instant tag suggestions without rescanning the vault.

			           [title]   [tags]
			scribe new robotics "robotics science study-notes"
		`),
		RunE: notes.NewCmdNotes(s).RunE,
	}

	cmd.PersistentFlags().StringVarP(
		&workspaceName,
		"workspace",
		"w",
		"",
		"Workspace to use for this command.",
	)
	viper.BindPFlag("workspace", cmd.PersistentFlags().Lookup("workspace"))

	cmd.AddCommand(
		initialize.NewCmdInit(s.Config),
		new.NewCmdNew(s),
		notes.NewCmdNotes(s),
		tags.NewCmdTags(s),
		find.NewCmdFind(s),
		view.NewCmdView(s),
	)

	return cmd, nil
}

// Execute wires the application state, runs the root command, and tears the
// state down again.
func Execute() int {
	// The workspace flag has to be known before state construction, so it
	// is pre-parsed from the raw arguments.
	override := peekWorkspaceFlag(os.Args[1:])

	s, err := state.NewState(override)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribe: %v\n", err)
		return 1
	}
	defer s.Close()

	cmd, err := NewCmdRoot(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribe: %v\n", err)
		return 1
	}

	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func peekWorkspaceFlag(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--workspace" || arg == "-w":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(arg) > len("--workspace=") && arg[:len("--workspace=")] == "--workspace=":
			return arg[len("--workspace="):]
		}
	}
	return ""
}
