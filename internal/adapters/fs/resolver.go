package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// Resolver locates files relative to a working directory.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// FindUp searches start and its parents for a file called name.
// It returns the empty string when no such file exists up to the file system root.
func (r *Resolver) FindUp(start, name string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve directory"), "path", start)
	}

	for {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !os.IsNotExist(err):
			return "", zerr.With(zerr.Wrap(err, "failed to stat file"), "path", candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
