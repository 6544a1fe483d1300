package domain

import (
	"runtime"
	"time"
)

// Settings is the resolved configuration of one invocation.
type Settings struct {
	// CacheDir holds {fingerprint}.tar archives and their stats sidecars.
	CacheDir string

	// Cargo is the compiler driver executable.
	Cargo string

	// Jobs is passed to the compiler as --jobs. Zero leaves the compiler default.
	Jobs int

	// CompileTimeout bounds one compiler invocation. Zero disables the limit.
	CompileTimeout time.Duration

	// Offline makes the first compile attempt run without network access.
	Offline bool

	// Parallelism bounds how many packages of one wave build at the same time.
	Parallelism int

	// ScratchRoot is the parent directory of scratch build directories. Empty means os.TempDir.
	ScratchRoot string

	// Compression selects the framing of newly written archives.
	Compression Compression

	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
}

// Compression is the framing applied around the tar stream of an archive.
type Compression string

const (
	// CompressionNone writes plain tar.
	CompressionNone Compression = "none"
	// CompressionZstd writes a zstd frame around the tar stream.
	CompressionZstd Compression = "zstd"
)

// ParseCompression validates a configured compression name. The empty string means none.
func ParseCompression(s string) (Compression, bool) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, true
	case CompressionZstd:
		return CompressionZstd, true
	default:
		return "", false
	}
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		CacheDir:       DefaultCacheDir(),
		Cargo:          "cargo",
		Jobs:           1,
		CompileTimeout: 30 * time.Minute,
		Offline:        true,
		Parallelism:    runtime.NumCPU(),
		Compression:    CompressionNone,
	}
}
