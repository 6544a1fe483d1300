package domain

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// TimestampMap maps archive-relative paths (slash separated) to modification times with
// nanosecond precision. It is produced by unpacking and consumed by packing.
type TimestampMap map[string]time.Time

// Merge copies every entry of other into m. Later archives win on conflicting paths.
func (m TimestampMap) Merge(other TimestampMap) {
	maps.Copy(m, other)
}

// Paths returns the sorted paths of the map.
func (m TimestampMap) Paths() []string {
	return slices.Sorted(maps.Keys(m))
}

// Anomaly describes a file whose modification time diverges from the recorded one.
type Anomaly struct {
	// Path is the archive-relative path of the file.
	Path string
	// Recorded is the timestamp the cache recorded for the file.
	Recorded time.Time
	// Found is the timestamp observed on disk.
	Found time.Time
	// Diff is a unified diff of the content, "binary", or a note that contents are identical.
	Diff string
}

// String renders the anomaly as a headline followed by its diff.
func (a Anomaly) String() string {
	var b strings.Builder
	b.WriteString(a.Path)
	b.WriteString(": recorded ")
	b.WriteString(a.Recorded.UTC().Format(time.RFC3339Nano))
	b.WriteString(", found ")
	b.WriteString(a.Found.UTC().Format(time.RFC3339Nano))
	b.WriteString("\n")
	if a.Diff != "" {
		b.WriteString(a.Diff)
		if !strings.HasSuffix(a.Diff, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}
