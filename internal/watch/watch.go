// Package watch observes the content root and reports page and board
// changes so connected editors can live-reload.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/marden/tetrion/internal/sse"
	"github.com/marden/tetrion/internal/storage"
)

// EventCallback is called for every observed content change.
// scope is sse.ScopePage or sse.ScopeBoard; kind is one of
// "created", "updated", "deleted". For pages, path is the page path;
// for boards it is the board's content-root path (its opaque id).
type EventCallback func(scope, kind, path string)

var reserved = map[string]struct{}{
	storage.BoardsDir: {},
	"pages":           {},
	"boards_old":      {},
}

// Watch starts an fsnotify watcher on the content root and processes file
// change events until ctx is cancelled. New directories created at runtime
// are added to the watch list automatically; files already inside them are
// announced as created.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: start watching and announce any content
			// already inside (editors copying a page folder in one go).
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					announceDir(root, absPath, logger, cb)
					continue
				}
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			scope, contentPath, ok := Classify(filepath.ToSlash(rel))
			if !ok {
				continue
			}

			var kind string
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = "created"
			case ev.Op&fsnotify.Write != 0:
				kind = "updated"
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path; a create for the new
				// path follows if it lands in a watched dir.
				kind = "deleted"
			default:
				continue
			}

			logger.Debug("watcher: content event",
				slog.String("scope", scope),
				slog.String("op", kind),
				slog.String("path", contentPath))
			if cb != nil {
				cb(scope, kind, contentPath)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// Classify maps a content-root-relative slash path to a change scope.
// page.txt files under non-reserved directories are page changes, files
// under a boards directory are board changes, everything else (including
// dotfiles and the atomic-write temp files) is ignored.
func Classify(rel string) (scope, path string, ok bool) {
	base := filepath.Base(rel)
	if strings.HasPrefix(base, ".") {
		return "", "", false
	}
	dir := filepath.ToSlash(filepath.Dir(rel))

	if base == storage.PageFile {
		if dir == "." {
			return "", "", false
		}
		if _, res := reserved[filepath.Base(dir)]; res {
			return "", "", false
		}
		return sse.ScopePage, dir, true
	}

	if filepath.Base(dir) == storage.BoardsDir {
		return sse.ScopeBoard, rel, true
	}

	return "", "", false
}

// announceDir reports page and board files found in a newly created
// directory as created.
func announceDir(root, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		scope, contentPath, ok := Classify(filepath.ToSlash(rel))
		if !ok {
			return nil
		}
		logger.Debug("watcher: announced from new dir", slog.String("path", contentPath))
		if cb != nil {
			cb(scope, "created", contentPath)
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
