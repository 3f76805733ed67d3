// Package config loads and persists the scribe configuration file: a set of
// named workspaces, each pointing at a vault with its own editor and tag
// cache tuning.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so ttl values read naturally in yaml
// ("5m", "30s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid duration node for %q", value.Value)
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// CacheConfig tunes the global tag cache. Zero values fall back to the
// cache package defaults.
type CacheConfig struct {
	PrimaryTTL           Duration `yaml:"primary_ttl"            json:"primary_ttl"`
	FilterTTL            Duration `yaml:"filter_ttl"             json:"filter_ttl"`
	SuggestionTTL        Duration `yaml:"suggestion_ttl"         json:"suggestion_ttl"`
	MaxFilterEntries     int      `yaml:"max_filter_entries"     json:"max_filter_entries"`
	MaxSuggestionEntries int      `yaml:"max_suggestion_entries" json:"max_suggestion_entries"`
}

// CommandTemplate is one hook command. Exec and Args may reference the
// placeholders {file}, {vault}, {relative}, and {filename}.
type CommandTemplate struct {
	Exec    string   `yaml:"exec"    json:"exec"`
	Args    []string `yaml:"args"    json:"args"`
	Wait    *bool    `yaml:"wait"    json:"wait"`
	Silence *bool    `yaml:"silence" json:"silence"`
}

// HookConfig holds commands to run around note lifecycle events.
type HookConfig struct {
	PostCreate []CommandTemplate `yaml:"post_create" json:"post_create"`
	PreOpen    []CommandTemplate `yaml:"pre_open"    json:"pre_open"`
	PostOpen   []CommandTemplate `yaml:"post_open"   json:"post_open"`
}

// Workspace is one vault with its settings.
type Workspace struct {
	VaultDir       string      `yaml:"vaultdir"        json:"vault_dir"`
	Editor         string      `yaml:"editor"          json:"editor"`
	IgnoredFolders []string    `yaml:"ignored_folders" json:"ignored_folders"`
	Cache          CacheConfig `yaml:"cache"           json:"cache"`
	Hooks          HookConfig  `yaml:"hooks"           json:"hooks"`
}

type Config struct {
	Workspaces       map[string]*Workspace `yaml:"workspaces"        json:"workspaces"`
	CurrentWorkspace string                `yaml:"current_workspace" json:"current_workspace"`

	path   string     `yaml:"-"`
	active *Workspace `yaml:"-"`
}

const defaultWorkspaceName = "default"

var validEditorNames = []string{"nvim", "vim", "nano", "vscode", "code", "obsidian", "custom"}

var ValidEditors = func() map[string]bool {
	editors := make(map[string]bool, len(validEditorNames))
	for _, editor := range validEditorNames {
		editors[editor] = true
	}
	return editors
}()

func ValidateEditor(editor string) error {
	if _, valid := ValidEditors[editor]; valid {
		return nil
	}
	return fmt.Errorf(
		"invalid editor: %q. Please choose from %s",
		editor,
		strings.Join(validEditorNames, ", "),
	)
}

func newWorkspace() *Workspace {
	return &Workspace{
		Editor:         "nvim",
		IgnoredFolders: []string{"archive", "trash"},
	}
}

// Load reads the config file at the standard location under home. An empty
// or missing-workspaces file initializes a default workspace.
func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{path: path}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}
	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}
	if len(cfg.Workspaces) == 0 {
		cfg.Workspaces[defaultWorkspaceName] = newWorkspace()
		cfg.CurrentWorkspace = defaultWorkspaceName
	}
	if cfg.CurrentWorkspace == "" {
		cfg.CurrentWorkspace = firstWorkspaceName(cfg.Workspaces)
	}
	for _, ws := range cfg.Workspaces {
		if ws.Editor == "" {
			ws.Editor = "nvim"
		}
	}
	return nil
}

func firstWorkspaceName(workspaces map[string]*Workspace) string {
	names := make([]string, 0, len(workspaces))
	for name := range workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return defaultWorkspaceName
	}
	return names[0]
}

// ActiveWorkspace resolves the workspace named by CurrentWorkspace.
func (cfg *Config) ActiveWorkspace() (*Workspace, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}
	ws, ok := cfg.Workspaces[cfg.CurrentWorkspace]
	if !ok {
		return nil, fmt.Errorf("unknown workspace %q", cfg.CurrentWorkspace)
	}
	cfg.active = ws
	return ws, nil
}

// ActivateWorkspace switches the active workspace for this process without
// persisting the change.
func (cfg *Config) ActivateWorkspace(name string) error {
	ws, ok := cfg.Workspaces[name]
	if !ok {
		return fmt.Errorf("unknown workspace %q", name)
	}
	cfg.CurrentWorkspace = name
	cfg.active = ws
	return nil
}

// AddWorkspace registers a workspace and makes it current.
func (cfg *Config) AddWorkspace(name, vaultDir, editor string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("workspace name cannot be empty")
	}
	if err := ValidateEditor(editor); err != nil {
		return err
	}

	ws := newWorkspace()
	ws.VaultDir = vaultDir
	ws.Editor = editor

	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}
	cfg.Workspaces[name] = ws
	cfg.CurrentWorkspace = name
	cfg.active = ws
	return nil
}

// Save writes the config back to its file.
func (cfg *Config) Save() error {
	if cfg.path == "" {
		return errors.New("config has no backing file")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(cfg.path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
