package initialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erikgeiser/promptkit/selection"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/spf13/cobra"

	"github.com/davenportd/scribe/internal/config"
)

func NewCmdInit(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "init [workspace]",
		Aliases: []string{"i"},
		Short:   "Set up a workspace interactively.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "default"
			if len(args) == 1 {
				name = args[0]
			}

			vault, err := promptVaultDir()
			if err != nil {
				return err
			}
			editor, err := promptEditor()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(vault, 0o755); err != nil {
				return fmt.Errorf("create vault directory: %w", err)
			}
			if err := cfg.AddWorkspace(name, vault, editor); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			fmt.Printf("Workspace %q ready at %s.\n", name, vault)
			return nil
		},
	}
}

func promptVaultDir() (string, error) {
	input := textinput.New("Where should your notes live?")
	input.Placeholder = "~/notes"

	dir, err := input.RunPrompt()
	if err != nil {
		return "", err
	}

	dir = strings.TrimSpace(dir)
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	if dir == "" {
		return "", fmt.Errorf("vault directory cannot be empty")
	}
	return filepath.Clean(dir), nil
}

func promptEditor() (string, error) {
	sel := selection.New(
		"Which editor do you use?",
		[]string{"nvim", "vim", "nano", "vscode", "obsidian"},
	)
	sel.Filter = nil

	return sel.RunPrompt()
}
