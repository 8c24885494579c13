// Package watch triggers a callback when files beneath the watched roots
// change, coalescing bursts of filesystem events into single triggers.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period required before a trigger fires.
const DefaultDebounce = 250 * time.Millisecond

// ErrNoRoots indicates that no watch roots were provided.
var ErrNoRoots = errors.New("watch: no roots to watch")

// ErrRootNotDirectory indicates a watch root that is not a directory.
var ErrRootNotDirectory = errors.New("watch: root is not a directory")

// Watcher watches directory trees recursively. Directories created while
// watching are picked up; editor chmod noise is ignored.
type Watcher struct {
	notifier *fsnotify.Watcher
	debounce time.Duration
	triggers chan struct{}

	mutex sync.Mutex
	timer *time.Timer
}

// NewWatcher builds a watcher over the roots. A non-positive debounce takes
// the default.
func NewWatcher(roots []string, debounce time.Duration) (*Watcher, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	notifier, notifierError := fsnotify.NewWatcher()
	if notifierError != nil {
		return nil, notifierError
	}
	watcher := &Watcher{
		notifier: notifier,
		debounce: debounce,
		triggers: make(chan struct{}, 1),
	}
	for _, root := range roots {
		rootInfo, statError := os.Stat(root)
		if statError != nil {
			_ = notifier.Close()
			return nil, statError
		}
		if !rootInfo.IsDir() {
			_ = notifier.Close()
			return nil, ErrRootNotDirectory
		}
		if addError := watcher.addRecursive(root); addError != nil {
			_ = notifier.Close()
			return nil, addError
		}
	}
	return watcher, nil
}

// Run processes filesystem events until the context ends, invoking onChange
// once per settled burst of changes. Run returns nil when the context is
// done or the watcher is closed.
func (watcher *Watcher) Run(parentContext context.Context, onChange func()) error {
	for {
		select {
		case <-parentContext.Done():
			return nil
		case event, open := <-watcher.notifier.Events:
			if !open {
				return nil
			}
			watcher.handleEvent(event)
		case watchError, open := <-watcher.notifier.Errors:
			if !open {
				return nil
			}
			return watchError
		case <-watcher.triggers:
			onChange()
		}
	}
}

// Close stops the watcher. Safe to call while Run is active; Run returns
// once the event channels drain.
func (watcher *Watcher) Close() error {
	watcher.mutex.Lock()
	if watcher.timer != nil {
		watcher.timer.Stop()
	}
	watcher.mutex.Unlock()
	return watcher.notifier.Close()
}

func (watcher *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if event.Has(fsnotify.Create) {
		if createdInfo, statError := os.Stat(event.Name); statError == nil && createdInfo.IsDir() {
			_ = watcher.addRecursive(event.Name)
			watcher.schedule()
			return
		}
	}
	if !isEntryPath(event.Name) {
		return
	}
	watcher.schedule()
}

func (watcher *Watcher) schedule() {
	watcher.mutex.Lock()
	defer watcher.mutex.Unlock()
	if watcher.timer != nil {
		watcher.timer.Stop()
	}
	watcher.timer = time.AfterFunc(watcher.debounce, func() {
		select {
		case watcher.triggers <- struct{}{}:
		default:
		}
	})
}

func (watcher *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if strings.HasPrefix(directoryEntry.Name(), ".") && path != root {
			return fs.SkipDir
		}
		return watcher.notifier.Add(path)
	})
}

func isEntryPath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".md")
}
