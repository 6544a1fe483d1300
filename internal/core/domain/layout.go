package domain

import (
	"os"
	"path/filepath"
)

const (
	// CacheDirEnv names the environment variable that overrides the cache directory.
	CacheDirEnv = "QUICK_CACHE_DIR"

	// LegacyCacheDirEnv is the older name of CacheDirEnv, still honoured when it is unset.
	LegacyCacheDirEnv = "CARGO_QUICK_TARBALL_DIR"

	// CacheDirName is the directory created under the user cache directory.
	CacheDirName = "quick"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "quick.yaml"

	// EnvFileName is the dotenv file read from the working directory.
	EnvFileName = ".env"

	// ArchiveExt is the extension of cached archives.
	ArchiveExt = ".tar"

	// StatsExt is the extension of stats sidecars.
	StatsExt = ".stats.json"

	// TempSuffix is appended to final cache paths while they are being written.
	TempSuffix = ".temp"

	// ScratchPackageName is the package name of the synthesized build manifest.
	ScratchPackageName = "quick-scratchpad"

	// ScratchDirPattern is the os.MkdirTemp pattern for scratch build directories.
	ScratchDirPattern = "quick-scratch-*"

	// ManifestFileName is the name of the build manifest written into scratch directories.
	ManifestFileName = "Cargo.toml"

	// LockfileName marks the root of a workspace.
	LockfileName = "Cargo.lock"

	// OutputDirName is the compiler's output directory inside a build root.
	OutputDirName = "target"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCacheDir returns the per-user cache directory for archives.
// It prefers os.UserCacheDir and falls back to ~/tmp/quick.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, CacheDirName)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, "tmp", CacheDirName)
	}
	return filepath.Join(os.TempDir(), CacheDirName)
}
