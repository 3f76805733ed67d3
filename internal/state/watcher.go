package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/davenportd/scribe/internal/pathutil"
)

// VaultWatcher observes the vault for note changes and fires a debounced
// callback, which the state layer uses to refresh the tag cache.
type VaultWatcher struct {
	watcher  *fsnotify.Watcher
	vault    string
	done     chan struct{}
	once     sync.Once
	mu       sync.Mutex
	timer    *time.Timer
	debounce time.Duration
	onChange func()
}

func NewVaultWatcher(vault string) (*VaultWatcher, error) {
	normalized := pathutil.NormalizePath(vault)
	if normalized == "" || normalized == "." {
		return nil, errors.New("vault directory cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &VaultWatcher{
		watcher:  w,
		vault:    normalized,
		done:     make(chan struct{}),
		debounce: 500 * time.Millisecond,
	}

	if err := watcher.addRecursive(normalized); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// OnChange registers the callback fired after vault activity settles. It
// must be set before Start.
func (w *VaultWatcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start launches the event loop goroutine.
func (w *VaultWatcher) Start() {
	go w.loop()
}

func (w *VaultWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *VaultWatcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	// New directories need their own watch before changes inside them are
	// visible.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			w.schedule()
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(name), ".md") {
		return
	}
	w.schedule()
}

// schedule arms (or re-arms) the debounce timer; bursts of writes collapse
// into one callback.
func (w *VaultWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.onChange == nil {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	fn := w.onChange
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
		default:
			fn()
		}
	})
}

func (w *VaultWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *VaultWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
