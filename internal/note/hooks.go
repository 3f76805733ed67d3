package note

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/davenportd/scribe/internal/config"
	"github.com/davenportd/scribe/internal/pathutil"
)

type hookContext struct {
	File     string
	Vault    string
	Relative string
	Filename string
}

// RunPostCreateHooks runs the workspace's post-create hook commands for a
// freshly written note.
func RunPostCreateHooks(ws *config.Workspace, path string) error {
	return executeHookCommands("post_create", ws.Hooks.PostCreate, ws.VaultDir, path)
}

func runPreOpenHooks(ws *config.Workspace, path string) error {
	return executeHookCommands("pre_open", ws.Hooks.PreOpen, ws.VaultDir, path)
}

func runPostOpenHooks(ws *config.Workspace, path string) error {
	return executeHookCommands("post_open", ws.Hooks.PostOpen, ws.VaultDir, path)
}

func executeHookCommands(phase string, commands []config.CommandTemplate, vault, path string) error {
	if len(commands) == 0 {
		return nil
	}

	ctx := newHookContext(vault, path)
	for _, command := range commands {
		cmd, wait, name := buildHookCommand(command, ctx)
		if cmd == nil {
			continue
		}

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("%s hook %q failed to start: %w", phase, name, err)
		}

		if wait {
			if err := cmd.Wait(); err != nil {
				return fmt.Errorf("%s hook %q failed: %w", phase, name, err)
			}
			continue
		}

		if err := cmd.Process.Release(); err != nil {
			return fmt.Errorf("%s hook %q release failed: %w", phase, name, err)
		}
	}

	return nil
}

func buildHookCommand(template config.CommandTemplate, ctx hookContext) (*exec.Cmd, bool, string) {
	execName := strings.TrimSpace(applyHookPlaceholders(template.Exec, ctx))
	if execName == "" {
		return nil, false, ""
	}

	args := expandHookArgs(template.Args, ctx)
	cmd := exec.Command(execName, args...)

	if template.Silence != nil && *template.Silence {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}

	wait := true
	if template.Wait != nil {
		wait = *template.Wait
	}

	return cmd, wait, execName
}

func newHookContext(vault, path string) hookContext {
	relative, err := pathutil.VaultRelative(vault, path)
	if err != nil {
		relative = path
	}

	return hookContext{
		File:     path,
		Vault:    vault,
		Relative: relative,
		Filename: filepath.Base(path),
	}
}

func expandHookArgs(args []string, ctx hookContext) []string {
	if len(args) == 0 {
		return nil
	}

	expanded := make([]string, 0, len(args))
	for _, arg := range args {
		expanded = append(expanded, applyHookPlaceholders(arg, ctx))
	}

	return expanded
}

func applyHookPlaceholders(value string, ctx hookContext) string {
	replacements := map[string]string{
		"{file}":     ctx.File,
		"{vault}":    ctx.Vault,
		"{relative}": ctx.Relative,
		"{filename}": ctx.Filename,
	}

	result := value
	for placeholder, replacement := range replacements {
		result = strings.ReplaceAll(result, placeholder, replacement)
	}

	return result
}
