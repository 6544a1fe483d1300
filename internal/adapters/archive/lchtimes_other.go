//go:build !unix

package archive

import "time"

// lchtimes is a no-op where symlink timestamps cannot be set without following the link.
func lchtimes(string, time.Time) error { return nil }
