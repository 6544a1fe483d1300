package ports

import (
	"context"
	"io"

	"go.trai.ch/quick/internal/core/domain"
)

// CacheRepository is the content-addressed store of packed build outputs.
//
//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks
type CacheRepository interface {
	// Has reports whether a committed archive exists for the fingerprint.
	Has(fp domain.Fingerprint) bool

	// Read opens the committed archive. It fails with domain.ErrCacheEntryNotFound if absent.
	Read(fp domain.Fingerprint) (io.ReadCloser, error)

	// BeginWrite opens the temporary archive file for the fingerprint.
	BeginWrite(fp domain.Fingerprint) (io.WriteCloser, error)

	// Commit writes the stats sidecar and atomically publishes the archive.
	Commit(fp domain.Fingerprint, stats domain.BuildStats) error

	// Discard removes temporary files left by an abandoned write.
	Discard(fp domain.Fingerprint) error

	// Stats reads the stats sidecar of a committed entry.
	Stats(fp domain.Fingerprint) (domain.BuildStats, error)

	// List enumerates the fingerprints of committed entries in sorted order.
	List() ([]domain.Fingerprint, error)

	// Search returns the fingerprints whose archives contain an entry at path.
	Search(ctx context.Context, path string) ([]domain.Fingerprint, error)
}
