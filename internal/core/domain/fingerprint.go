package domain

// Descriptor is the canonical text describing one build configuration: every closure entry
// with its exact version and features, split into a target and a host section.
type Descriptor string

// Fingerprint identifies a build configuration: {name}-{version}-{hex(sha256(descriptor))}.
type Fingerprint string

// String returns the fingerprint text.
func (f Fingerprint) String() string {
	return string(f)
}

// ArchiveName returns the cache file name of the packed archive.
func (f Fingerprint) ArchiveName() string {
	return string(f) + ArchiveExt
}

// StatsName returns the cache file name of the stats sidecar.
func (f Fingerprint) StatsName() string {
	return string(f) + StatsExt
}
