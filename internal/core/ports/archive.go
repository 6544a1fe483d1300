package ports

import (
	"context"
	"io"

	"go.trai.ch/quick/internal/core/domain"
)

// PackOptions configures a pack operation.
type PackOptions struct {
	// Exclude lists files already provided by dependency archives. A file with an identical
	// timestamp is skipped; a differing timestamp is a determinism anomaly.
	Exclude domain.TimestampMap

	// Baseline returns the previously cached content of a path, used to diff anomalies.
	// It may be nil.
	Baseline func(path string) ([]byte, error)
}

// ArchiveCodec packs and unpacks output trees while preserving nanosecond timestamps.
//
//go:generate mockgen -source=archive.go -destination=mocks/mock_archive.go -package=mocks
type ArchiveCodec interface {
	// Pack writes dir (relative to root) into w. Entry names are relative to root.
	Pack(ctx context.Context, w io.Writer, root, dir string, opts PackOptions) error

	// Unpack extracts r into dest and returns the timestamp of every entry it wrote.
	Unpack(ctx context.Context, r io.Reader, dest string) (domain.TimestampMap, error)

	// ReadEntry returns the content of one regular file entry.
	ReadEntry(r io.Reader, name string) ([]byte, error)

	// ListEntries returns the names of all entries in archive order.
	ListEntries(r io.Reader) ([]string, error)
}
