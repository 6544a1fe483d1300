//go:build unix

package archive

import (
	"time"

	"golang.org/x/sys/unix"
)

// lchtimes sets the timestamps of path itself, not of the file a symlink points to.
func lchtimes(path string, mtime time.Time) error {
	ts := unix.NsecToTimespec(mtime.UnixNano())
	return unix.UtimesNanoAt(unix.AT_FDCWD, path, []unix.Timespec{ts, ts}, unix.AT_SYMLINK_NOFOLLOW)
}
