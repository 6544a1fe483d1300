package fs

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash digests of file and stream content.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	sum, err := h.ComputeHash(f)
	if err != nil {
		return 0, zerr.With(err, "path", path)
	}
	return sum, nil
}

// ComputeHash computes the XXHash of everything read from r.
func (h *Hasher) ComputeHash(r io.Reader) (uint64, error) {
	digest := xxhash.New()
	if _, err := io.Copy(digest, r); err != nil {
		return 0, zerr.Wrap(err, "failed to hash content")
	}
	return digest.Sum64(), nil
}
