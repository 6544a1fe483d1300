package ports

import "io"

// Hasher computes fast non-cryptographic content digests.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputeFileHash hashes the content of the file at path.
	ComputeFileHash(path string) (uint64, error)

	// ComputeHash hashes everything read from r.
	ComputeHash(r io.Reader) (uint64, error)
}
