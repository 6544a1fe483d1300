package domain

import "go.trai.ch/zerr"

// Top-level failure categories. Finer errors below wrap one of these, so errors.Is
// matches the category even after metadata is attached.
var (
	// ErrGraphInconsistency is returned when the resolved graph cannot be scheduled or walked.
	ErrGraphInconsistency = zerr.New("graph inconsistency")

	// ErrCacheIO is returned when the cache directory cannot be read or written.
	ErrCacheIO = zerr.New("cache i/o failure")

	// ErrArchiveFormat is returned when an archive is missing data required to trust it.
	ErrArchiveFormat = zerr.New("invalid archive format")

	// ErrDeterminismAnomaly is returned when a cached file changed without a cache key change.
	ErrDeterminismAnomaly = zerr.New("build determinism anomaly")

	// ErrCompilerFailure is returned when the compiler toolchain exits unsuccessfully.
	ErrCompilerFailure = zerr.New("compiler failure")
)

var (
	// ErrPackageAlreadyExists is returned when a package is added to a graph twice.
	ErrPackageAlreadyExists = zerr.New("package already exists")

	// ErrMissingPackage is returned when an edge or root references a package not in the graph.
	ErrMissingPackage = zerr.Wrap(ErrGraphInconsistency, "missing package")

	// ErrCycleDetected is returned when the dependency graph contains a cycle.
	ErrCycleDetected = zerr.Wrap(ErrGraphInconsistency, "cycle detected")

	// ErrDevDependencyUnsupported is returned when a development edge is reached below the root.
	ErrDevDependencyUnsupported = zerr.Wrap(ErrGraphInconsistency, "development dependencies are not supported")

	// ErrSchedulingStuck is returned when a wave is empty while packages are still pending.
	ErrSchedulingStuck = zerr.Wrap(ErrGraphInconsistency, "no package is ready to build")

	// ErrNoRootPackage is returned when the root package of a graph cannot be determined.
	ErrNoRootPackage = zerr.New("could not determine root package")

	// ErrInvalidPackageSpec is returned when a package spec is not in name@version form.
	ErrInvalidPackageSpec = zerr.New("invalid package spec, expected format: name@version")

	// ErrCacheEntryNotFound is returned when a fingerprint has no archive in the cache.
	ErrCacheEntryNotFound = zerr.Wrap(ErrCacheIO, "cache entry not found")

	// ErrCacheCreateFailed is returned when the cache directory cannot be created.
	ErrCacheCreateFailed = zerr.Wrap(ErrCacheIO, "failed to create cache directory")

	// ErrCacheReadFailed is returned when a cache entry cannot be opened.
	ErrCacheReadFailed = zerr.Wrap(ErrCacheIO, "failed to read cache entry")

	// ErrCacheWriteFailed is returned when a cache entry cannot be written.
	ErrCacheWriteFailed = zerr.Wrap(ErrCacheIO, "failed to write cache entry")

	// ErrCacheCommitFailed is returned when a cache entry cannot be published.
	ErrCacheCommitFailed = zerr.Wrap(ErrCacheIO, "failed to commit cache entry")

	// ErrStatsMarshalFailed is returned when build stats cannot be encoded.
	ErrStatsMarshalFailed = zerr.New("failed to marshal build stats")

	// ErrStatsUnmarshalFailed is returned when a stats sidecar cannot be decoded.
	ErrStatsUnmarshalFailed = zerr.New("failed to unmarshal build stats")

	// ErrMissingTimestamp is returned when an archive entry lacks a high-resolution mtime.
	ErrMissingTimestamp = zerr.Wrap(ErrArchiveFormat, "entry has no high-resolution mtime")

	// ErrUnsafeArchivePath is returned when an entry would be written outside the destination.
	ErrUnsafeArchivePath = zerr.Wrap(ErrArchiveFormat, "entry escapes destination")

	// ErrUnsupportedEntry is returned for archive entries other than files, directories and symlinks.
	ErrUnsupportedEntry = zerr.Wrap(ErrArchiveFormat, "unsupported entry type")

	// ErrArchiveReadFailed is returned when an archive stream cannot be read.
	ErrArchiveReadFailed = zerr.New("failed to read archive")

	// ErrArchiveWriteFailed is returned when an archive stream cannot be written.
	ErrArchiveWriteFailed = zerr.New("failed to write archive")

	// ErrExtractFailed is returned when an archive entry cannot be written to disk.
	ErrExtractFailed = zerr.New("failed to extract archive entry")

	// ErrEntryNotFound is returned when an archive does not contain the requested entry.
	ErrEntryNotFound = zerr.New("archive entry not found")

	// ErrCompileTimeout is returned when the compiler does not finish within the configured limit.
	ErrCompileTimeout = zerr.Wrap(ErrCompilerFailure, "timed out")

	// ErrScratchSetupFailed is returned when the scratch build directory cannot be prepared.
	ErrScratchSetupFailed = zerr.New("failed to prepare scratch directory")

	// ErrTargetDirExists is returned when the final build would overwrite an existing target dir.
	ErrTargetDirExists = zerr.New("target directory already exists, remove it before continuing")

	// ErrBuildFailed is returned when scheduling the closure of the root package fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidSetting is returned when a configuration value is out of range.
	ErrInvalidSetting = zerr.New("invalid setting")

	// ErrMetadataFailed is returned when the external resolver cannot produce a graph.
	ErrMetadataFailed = zerr.New("failed to load package metadata")
)
