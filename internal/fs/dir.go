// Package fs provides the filesystem helpers used to discover formatting targets.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
)

// SkipAll can be returned by a WalkFunc to stop the walk without error.
var SkipAll = iofs.SkipAll

// Dir is a single step of a directory walk: a directory path and the names of
// the non-directory entries directly inside it.
type Dir struct {
	Path  string
	Files []string
}

// HasFile reports whether name is one of the directory's direct files.
func (d Dir) HasFile(name string) bool {
	return slices.Contains(d.Files, name)
}

// WalkFunc is called once for every directory visited by a Walker.
type WalkFunc func(d Dir) error

// Walker performs a pre-order walk of a directory tree, visiting each directory
// before its children. Symlinked directories are not followed.
type Walker struct {
	// OnError is called for any directory that cannot be listed. The directory
	// and everything below it is skipped.
	OnError func(path string, err error)

	readDir func(name string) ([]os.DirEntry, error)
	stat    func(name string) (os.FileInfo, error)
}

// NewWalker creates a Walker backed by the real filesystem.
func NewWalker() *Walker {
	return &Walker{
		readDir: os.ReadDir,
		stat:    os.Stat,
	}
}

// WalkDirs walks root with a default Walker.
func WalkDirs(ctx context.Context, root string, fn WalkFunc) error {
	return NewWalker().Walk(ctx, root, fn)
}

// Walk visits root and every directory beneath it. Entries are visited in
// lexical order. If fn returns SkipAll the walk ends and Walk returns nil; any
// other error ends the walk and is returned unchanged.
func (w *Walker) Walk(ctx context.Context, root string, fn WalkFunc) error {
	err := w.walk(ctx, root, fn)
	if errors.Is(err, SkipAll) {
		return nil
	}
	return err
}

func (w *Walker) walk(ctx context.Context, path string, fn WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := w.readDir(path)
	if err != nil {
		if w.OnError != nil {
			w.OnError(path, err)
		}
		return nil
	}

	d := Dir{Path: path}
	var subdirs []string
	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		isDir, descend := w.classify(full, entry)
		switch {
		case descend:
			subdirs = append(subdirs, full)
		case isDir:
			// a symlink to a directory is neither a file nor walked into
		default:
			d.Files = append(d.Files, entry.Name())
		}
	}

	if err := fn(d); err != nil {
		return err
	}

	for _, sub := range subdirs {
		if err := w.walk(ctx, sub, fn); err != nil {
			return err
		}
	}
	return nil
}

// classify reports whether an entry is a directory, and whether the walk
// should descend into it. Symlinks are resolved to decide the first but
// never the second.
func (w *Walker) classify(path string, entry os.DirEntry) (isDir, descend bool) {
	if entry.IsDir() {
		return true, true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false, false
	}
	info, err := w.stat(path)
	if err != nil {
		return false, false
	}
	return info.IsDir(), false
}
