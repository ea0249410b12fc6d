// Package filesystem decides which file system events qualify for analysis
package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// excludedDirs are never descended into nor analyzed
var excludedDirs = map[string]struct{}{
	// version control
	".git": {}, ".hg": {}, ".svn": {},
	// dependencies
	"node_modules": {}, "vendor": {}, "bower_components": {},
	".venv": {}, "venv": {}, "__pycache__": {},
	// build output
	"dist": {}, "build": {}, "out": {}, "target": {}, ".next": {}, "coverage": {},
}

// folderRule is one watched root with its optional .gitignore
type folderRule struct {
	root      string
	gitignore *ignore.GitIgnore
}

// Qualifier answers whether a changed path should be analyzed
type Qualifier struct {
	folders    []folderRule
	files      map[string]struct{}
	extensions map[string]struct{}
	recursive  bool
}

// NewQualifier compiles the watch configuration into a Qualifier.
// Folders and files are resolved to absolute, cleaned paths.
func NewQualifier(config types.WatcherConfig) (*Qualifier, error) {
	q := &Qualifier{
		files:      make(map[string]struct{}, len(config.Files)),
		extensions: make(map[string]struct{}, len(config.Extensions)),
		recursive:  config.WatchSubfolders,
	}

	for _, ext := range config.Extensions {
		q.extensions[strings.ToLower(ext)] = struct{}{}
	}

	for _, file := range config.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, err
		}
		q.files[abs] = struct{}{}
	}

	for _, folder := range config.Folders {
		abs, err := filepath.Abs(folder)
		if err != nil {
			return nil, err
		}
		rule := folderRule{root: abs}
		if config.RespectGitignore {
			rule.gitignore = loadGitignore(abs)
		}
		q.folders = append(q.folders, rule)
	}

	return q, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		log.Error("[watcher] Failed to compile %s: %v", path, err)
		return nil
	}
	log.DebugH3("[watcher] Honoring %s", path)
	return gi
}

// Folders returns the absolute watched roots
func (q *Qualifier) Folders() []string {
	roots := make([]string, 0, len(q.folders))
	for _, f := range q.folders {
		roots = append(roots, f.root)
	}
	return roots
}

// Files returns the absolute explicitly watched files
func (q *Qualifier) Files() []string {
	files := make([]string, 0, len(q.files))
	for f := range q.files {
		files = append(files, f)
	}
	return files
}

// Recursive reports whether subfolders are watched
func (q *Qualifier) Recursive() bool {
	return q.recursive
}

// Qualifies reports whether path should be analyzed: an explicitly watched
// file, or a file with a watched extension inside a watched folder that no
// exclusion rule removes.
func (q *Qualifier) Qualifies(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	if IsTempFile(filepath.Base(abs)) {
		return false
	}

	if _, ok := q.files[abs]; ok {
		return true
	}

	if _, ok := q.extensions[strings.ToLower(filepath.Ext(abs))]; !ok {
		return false
	}

	for _, folder := range q.folders {
		rel, ok := relativeTo(folder.root, abs)
		if !ok {
			continue
		}
		if !q.recursive && strings.Contains(rel, "/") {
			continue
		}
		if hasExcludedSegment(rel) {
			continue
		}
		if folder.gitignore != nil && folder.gitignore.MatchesPath(rel) {
			continue
		}
		return true
	}
	return false
}

// ShouldIgnoreDir reports whether a directory must not be subscribed
func (q *Qualifier) ShouldIgnoreDir(path string) bool {
	if IsExcludedDir(filepath.Base(path)) {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	for _, folder := range q.folders {
		if folder.gitignore == nil {
			continue
		}
		if rel, ok := relativeTo(folder.root, abs); ok && rel != "." && folder.gitignore.MatchesPath(rel+"/") {
			return true
		}
	}
	return false
}

// IsExcludedDir reports whether a directory name is always excluded
func IsExcludedDir(name string) bool {
	_, ok := excludedDirs[name]
	return ok
}

// IsTempFile reports whether name looks like an editor swap or backup file
func IsTempFile(name string) bool {
	switch {
	case strings.HasSuffix(name, "~"),
		strings.HasSuffix(name, ".swp"),
		strings.HasSuffix(name, ".swo"),
		strings.HasSuffix(name, ".swx"),
		strings.HasSuffix(name, ".tmp"),
		strings.HasPrefix(name, ".#"),
		strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#"),
		name == "4913": // vim write check file
		return true
	}
	return false
}

// relativeTo returns path relative to root in slash form when path lies inside root
func relativeTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func hasExcludedSegment(rel string) bool {
	parts := strings.Split(rel, "/")
	// the last segment is the file itself
	for _, part := range parts[:len(parts)-1] {
		if IsExcludedDir(part) {
			return true
		}
	}
	return false
}
