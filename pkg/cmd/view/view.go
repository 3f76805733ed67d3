package view

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/davenportd/scribe/internal/state"
)

func NewCmdView(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "view <note>",
		Aliases: []string{"v"},
		Short:   "Render a note to the terminal.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveNote(s.Vault, args[0])
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading note: %w", err)
			}

			rendered, err := render(string(content))
			if err != nil {
				return fmt.Errorf("error rendering note: %w", err)
			}
			fmt.Print(rendered)
			return nil
		},
	}
}

// resolveNote accepts an absolute path, a vault-relative path, or a bare
// title without the .md extension.
func resolveNote(vault, arg string) string {
	if filepath.Ext(arg) == "" {
		arg += ".md"
	}
	if filepath.IsAbs(arg) {
		return arg
	}
	return filepath.Join(vault, arg)
}

func render(content string) (string, error) {
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}
