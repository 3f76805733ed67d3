// Package state assembles the application: configuration, vault handler,
// the global tag cache service, and the vault watcher that keeps the cache
// fresh.
package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davenportd/scribe/internal/config"
	"github.com/davenportd/scribe/internal/constants"
	"github.com/davenportd/scribe/internal/handler"
	"github.com/davenportd/scribe/internal/storage"
	"github.com/davenportd/scribe/internal/tagcache"
	"github.com/davenportd/scribe/internal/tagsource"
)

type State struct {
	Config        *config.Config
	Workspace     *config.Workspace
	WorkspaceName string
	Handler       *handler.FileHandler
	Tags          *tagcache.Service
	Watcher       *VaultWatcher
	Home          string
	Vault         string
}

// NewState wires the application together for the active (or overridden)
// workspace.
func NewState(workspaceOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}
	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}

	if workspaceOverride != "" {
		if err := cfg.ActivateWorkspace(workspaceOverride); err != nil {
			return nil, err
		}
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}

	h := handler.NewFileHandler(ws.VaultDir)

	store, err := newCacheStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open cache storage: %w", err)
	}

	scanner := tagsource.NewScanner(ws.VaultDir, tagsource.Options{
		IgnoredFolders: ws.IgnoredFolders,
	})
	tags := tagcache.NewService(scanner.Source(), store, cacheConfig(ws))

	// A fresh install has no vault directory yet. Skip the watcher and the
	// preload so init can run; commands that need notes surface their own
	// errors.
	var watcher *VaultWatcher
	if ws.VaultDir != "" {
		tags.Preload(context.Background())

		watcher, err = NewVaultWatcher(ws.VaultDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create vault watcher: %w", err)
		}
		watcher.OnChange(func() {
			tags.Refresh(context.Background())
		})
		watcher.Start()
	}

	return &State{
		Config:        cfg,
		Workspace:     ws,
		WorkspaceName: cfg.CurrentWorkspace,
		Handler:       h,
		Tags:          tags,
		Watcher:       watcher,
		Home:          home,
		Vault:         ws.VaultDir,
	}, nil
}

// Close releases the watcher and flushes the tag cache.
func (s *State) Close() error {
	if s == nil {
		return nil
	}
	if s.Watcher != nil {
		_ = s.Watcher.Close()
	}
	if s.Tags != nil {
		return s.Tags.Close()
	}
	return nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return home, nil
}

func newCacheStore() (storage.Store, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return storage.NewFileStore(filepath.Join(base, constants.CacheDirName))
}

// cacheConfig maps workspace tuning onto the cache config, leaving zero
// values to the cache defaults.
func cacheConfig(ws *config.Workspace) tagcache.Config {
	return tagcache.Config{
		PrimaryTTL:           ws.Cache.PrimaryTTL.Duration,
		FilterTTL:            ws.Cache.FilterTTL.Duration,
		SuggestionTTL:        ws.Cache.SuggestionTTL.Duration,
		MaxFilterEntries:     ws.Cache.MaxFilterEntries,
		MaxSuggestionEntries: ws.Cache.MaxSuggestionEntries,
	}
}
