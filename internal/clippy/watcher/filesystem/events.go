package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dimasma0305/evilclippy/internal/log"
)

// ChangeKind distinguishes new files from rewritten ones
type ChangeKind int

// Change kinds
const (
	ChangeCreated ChangeKind = iota
	ChangeModified
)

func (k ChangeKind) String() string {
	if k == ChangeCreated {
		return "created"
	}
	return "modified"
}

// ChangeEvent is one qualifying file change
type ChangeEvent struct {
	Path string
	Kind ChangeKind
}

// EventHandler receives qualifying changes from WatchLoop
type EventHandler interface {
	HandleChange(ev ChangeEvent)
}

// ToChangeEvent converts an fsnotify event; removals, renames and chmods are not changes
func ToChangeEvent(event fsnotify.Event) (ChangeEvent, bool) {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return ChangeEvent{}, false
	}
	switch {
	case event.Has(fsnotify.Create):
		return ChangeEvent{Path: abs, Kind: ChangeCreated}, true
	case event.Has(fsnotify.Write):
		return ChangeEvent{Path: abs, Kind: ChangeModified}, true
	}
	return ChangeEvent{}, false
}

// Subscribe registers every directory the qualifier needs with the fsnotify watcher.
// Explicit files are watched through their parent directory.
func Subscribe(watcher *fsnotify.Watcher, q *Qualifier) error {
	seen := make(map[string]struct{})
	add := func(dir string) error {
		if _, ok := seen[dir]; ok {
			return nil
		}
		seen[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			return err
		}
		log.DebugH3("[watcher] Watching directory: %s", dir)
		return nil
	}

	for _, root := range q.Folders() {
		if !q.Recursive() {
			if err := add(root); err != nil {
				return err
			}
			continue
		}
		if err := walkDirs(root, q, add); err != nil {
			return err
		}
	}

	for _, file := range q.Files() {
		if err := add(filepath.Dir(file)); err != nil {
			return err
		}
	}
	return nil
}

// walkDirs calls add for root and every non-excluded directory below it
func walkDirs(root string, q *Qualifier, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.DebugH3("[watcher] Skipping unreadable path %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && q.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		return add(path)
	})
}

// WatchLoop is the main event loop for file watching
func WatchLoop(ctx context.Context, watcher *fsnotify.Watcher, q *Qualifier, handler EventHandler) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			change, ok := ToChangeEvent(event)
			if !ok {
				continue
			}

			if change.Kind == ChangeCreated && q.Recursive() && isDir(change.Path) {
				if !q.ShouldIgnoreDir(change.Path) {
					if err := walkDirs(change.Path, q, watcher.Add); err != nil {
						log.Error("[watcher] Failed to watch new directory %s: %v", change.Path, err)
					}
				}
				continue
			}

			if !q.Qualifies(change.Path) {
				continue
			}

			log.DebugH2("[watcher] File change detected: %s (%s)", change.Path, change.Kind)
			handler.HandleChange(change)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("[watcher] Watcher error: %v", err)
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
