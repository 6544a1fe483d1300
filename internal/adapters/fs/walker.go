// Package fs provides file system adapters for walking, hashing and locating files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/zerr"
)

// Entry is one file system entry found by Walker.
type Entry struct {
	// Rel is the slash-separated path relative to the walk base.
	Rel string

	// Path is the native path of the entry.
	Path string

	// Info describes the entry itself; symlinks are not followed.
	Info fs.FileInfo
}

// Walker provides deterministic file walking.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields dir and every entry below it in lexical order. Rel names are computed relative
// to base, so archives can record "target/..." while walking base/target.
// A walk error is yielded once and ends the iteration.
func (w *Walker) Walk(base, dir string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		start := filepath.Join(base, dir)
		stopped := false
		err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			info, err := d.Info()
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to stat entry"), "path", path)
			}

			rel, err := filepath.Rel(base, path)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
			}

			if !yield(Entry{Rel: filepath.ToSlash(rel), Path: path, Info: info}, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield(Entry{}, err)
		}
	}
}
