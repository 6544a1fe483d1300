package fs

import (
	"os"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/zerr"
)

// Verifier checks preconditions on the file system.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Exists reports whether path exists. Symlinks are not followed.
func (v *Verifier) Exists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return true, nil
}

// EnsureAbsent fails with domain.ErrTargetDirExists when path already exists.
func (v *Verifier) EnsureAbsent(path string) error {
	exists, err := v.Exists(path)
	if err != nil {
		return err
	}
	if exists {
		return zerr.With(domain.ErrTargetDirExists, "path", path)
	}
	return nil
}
