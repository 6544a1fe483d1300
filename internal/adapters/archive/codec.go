// Package archive packs compiled output trees into tar archives and unpacks them again,
// preserving nanosecond modification times through PAX mtime records.
package archive

import (
	"archive/tar"
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	quickfs "go.trai.ch/quick/internal/adapters/fs"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArchiveCodec = (*Codec)(nil)

// Codec implements ports.ArchiveCodec on top of archive/tar.
type Codec struct {
	walker      *quickfs.Walker
	hasher      ports.Hasher
	compression domain.Compression
}

// New creates a Codec writing archives with the given compression.
func New(walker *quickfs.Walker, hasher ports.Hasher, compression domain.Compression) *Codec {
	return &Codec{
		walker:      walker,
		hasher:      hasher,
		compression: compression,
	}
}

// Pack writes dir, relative to root, into w.
//
// Entries whose path is in opts.Exclude with an identical timestamp are skipped. A regular file
// whose timestamp differs from the excluded one is still written, and all such files are
// reported together as a determinism anomaly once the walk is complete.
func (c *Codec) Pack(ctx context.Context, w io.Writer, root, dir string, opts ports.PackOptions) error {
	out, closeOut, err := compress(w, c.compression)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	tw := tar.NewWriter(bw)

	var anomalies []domain.Anomaly
	for entry, err := range c.walker.Walk(root, dir) {
		if err != nil {
			return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		mtime := entry.Info.ModTime()
		if recorded, ok := opts.Exclude[entry.Rel]; ok {
			if recorded.Equal(mtime) {
				continue
			}
			if entry.Info.Mode().IsRegular() {
				anomaly, err := c.packAnomaly(entry, recorded, opts.Baseline)
				if err != nil {
					return err
				}
				anomalies = append(anomalies, anomaly)
			}
		}

		if err := c.writeEntry(tw, bw, entry); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	if err := bw.Flush(); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	if err := closeOut(); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}

	if len(anomalies) > 0 {
		return anomalyError(anomalies)
	}
	return nil
}

// packAnomaly describes a file that was rebuilt with a new timestamp. The on-disk file is
// only read when its digest differs from the baseline copy.
func (c *Codec) packAnomaly(entry quickfs.Entry, recorded time.Time, baseline func(string) ([]byte, error)) (domain.Anomaly, error) {
	var cached []byte
	ok := false
	if baseline != nil {
		if data, err := baseline(entry.Rel); err == nil {
			cached, ok = data, true
		}
	}

	if ok && int64(len(cached)) == entry.Info.Size() {
		onDisk, err := c.hasher.ComputeFileHash(entry.Path)
		if err != nil {
			return domain.Anomaly{}, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", entry.Path)
		}
		if onDisk == c.sum(string(cached)) {
			return domain.Anomaly{Path: entry.Rel, Recorded: recorded, Found: entry.Info.ModTime(), Diff: diffIdentical}, nil
		}
	}

	current, err := os.ReadFile(entry.Path)
	if err != nil {
		return domain.Anomaly{}, zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", entry.Path)
	}
	return c.describe(entry.Rel, recorded, entry.Info.ModTime(), cached, ok, current), nil
}

// writeEntry writes the PAX block of one entry followed by its USTAR header and content.
func (c *Codec) writeEntry(tw *tar.Writer, raw io.Writer, entry quickfs.Entry) error {
	mode := entry.Info.Mode()
	hdr := &tar.Header{
		Name:    entry.Rel,
		Mode:    int64(mode.Perm()),
		ModTime: entry.Info.ModTime().Truncate(time.Second),
		Format:  tar.FormatUSTAR,
	}

	switch {
	case mode.IsDir():
		hdr.Typeflag = tar.TypeDir
		hdr.Name += "/"
	case mode.IsRegular():
		hdr.Typeflag = tar.TypeReg
		hdr.Size = entry.Info.Size()
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(entry.Path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", entry.Path)
		}
		hdr.Typeflag = tar.TypeSymlink
		hdr.Linkname = target
	default:
		return nil
	}

	records := []paxRecord{{key: paxMtime, value: formatMtime(entry.Info.ModTime())}}
	if !fitsUSTAR(hdr.Name) {
		records = append(records, paxRecord{key: paxPath, value: hdr.Name})
		hdr.Name = fallbackName(hdr.Name, c.sum(hdr.Name))
	}
	if len(hdr.Linkname) > nameSize || !isASCII(hdr.Linkname) {
		records = append(records, paxRecord{key: paxLinkpath, value: hdr.Linkname})
		hdr.Linkname = fallbackName("", c.sum(hdr.Linkname))
	}

	if err := tw.Flush(); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	if _, err := raw.Write(paxBlock(records)); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "entry", entry.Rel)
	}

	if hdr.Typeflag != tar.TypeReg {
		return nil
	}
	f, err := os.Open(entry.Path) //nolint:gosec // Path comes from walking the output tree
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", entry.Path)
	}
	defer f.Close() //nolint:errcheck // Read-only file
	if _, err := io.CopyN(tw, f, hdr.Size); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error()), "path", entry.Path)
	}
	return nil
}

func (c *Codec) sum(s string) uint64 {
	sum, _ := c.hasher.ComputeHash(strings.NewReader(s))
	return sum
}

type pendingDir struct {
	name  string
	mode  fs.FileMode
	mtime time.Time
}

// Unpack extracts r into dest and returns the timestamp of every entry.
//
// Directories are created on demand and get their mode and timestamp applied after every
// other entry, so read-only parents never block their children. A regular file that already
// exists with a different timestamp fails the unpack with a determinism anomaly.
func (c *Codec) Unpack(ctx context.Context, r io.Reader, dest string) (domain.TimestampMap, error) {
	in, release, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", dest)
	}
	root, err := os.OpenRoot(dest)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", dest)
	}
	defer root.Close() //nolint:errcheck // Directory handle

	stamps := make(domain.TimestampMap)
	var dirs []pendingDir

	tr := tar.NewReader(in)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, tar.ErrInsecurePath) && hdr != nil {
			return nil, zerr.With(domain.ErrUnsafeArchivePath, "entry", hdr.Name)
		}
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mtime, err := entryMtime(hdr)
		if err != nil {
			return nil, err
		}
		name, err := entryName(hdr.Name)
		if err != nil {
			return nil, err
		}
		local := filepath.FromSlash(name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := root.MkdirAll(local, domain.DirPerm); err != nil {
				return nil, extractError(err, name)
			}
			dirs = append(dirs, pendingDir{name: local, mode: hdr.FileInfo().Mode().Perm(), mtime: mtime})
		case tar.TypeReg:
			if err := c.extractFile(root, tr, hdr, name, mtime); err != nil {
				return nil, err
			}
		case tar.TypeSymlink:
			if err := extractSymlink(root, dest, hdr, name, mtime); err != nil {
				return nil, err
			}
		default:
			return nil, zerr.With(zerr.With(domain.ErrUnsupportedEntry, "entry", name), "type", string(hdr.Typeflag))
		}
		stamps[name] = mtime
	}

	for _, d := range dirs {
		if err := root.Chmod(d.name, d.mode|0o700); err != nil {
			return nil, extractError(err, d.name)
		}
		if err := root.Chtimes(d.name, d.mtime, d.mtime); err != nil {
			return nil, extractError(err, d.name)
		}
	}

	return stamps, nil
}

func (c *Codec) extractFile(root *os.Root, tr *tar.Reader, hdr *tar.Header, name string, mtime time.Time) error {
	local := filepath.FromSlash(name)
	if err := root.MkdirAll(filepath.Dir(local), domain.DirPerm); err != nil {
		return extractError(err, name)
	}

	existing, err := root.Lstat(local)
	switch {
	case err == nil && existing.Mode().IsRegular():
		if existing.ModTime().Equal(mtime) {
			return nil
		}
		onDisk, err := root.ReadFile(local)
		if err != nil {
			return extractError(err, name)
		}
		incoming, err := io.ReadAll(tr)
		if err != nil {
			return zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
		}
		return anomalyError([]domain.Anomaly{c.describe(name, mtime, existing.ModTime(), incoming, true, onDisk)})
	case err == nil:
		if err := root.Remove(local); err != nil {
			return extractError(err, name)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return extractError(err, name)
	}

	f, err := root.OpenFile(local, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
	if err != nil {
		return extractError(err, name)
	}
	if _, err := io.Copy(f, tr); err != nil {
		_ = f.Close()
		return extractError(err, name)
	}
	if err := f.Close(); err != nil {
		return extractError(err, name)
	}
	if err := root.Chtimes(local, mtime, mtime); err != nil {
		return extractError(err, name)
	}
	return nil
}

// extractSymlink creates a symlink and stamps the link itself with mtime.
func extractSymlink(root *os.Root, dest string, hdr *tar.Header, name string, mtime time.Time) error {
	local := filepath.FromSlash(name)
	if err := root.MkdirAll(filepath.Dir(local), domain.DirPerm); err != nil {
		return extractError(err, name)
	}
	if _, err := root.Lstat(local); err == nil {
		if err := root.Remove(local); err != nil {
			return extractError(err, name)
		}
	}
	if err := root.Symlink(hdr.Linkname, local); err != nil {
		return extractError(err, name)
	}
	if err := lchtimes(filepath.Join(dest, local), mtime); err != nil {
		return extractError(err, name)
	}
	return nil
}

func extractError(err error, name string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "entry", name)
}

// entryName normalises an entry name and rejects names that leave the destination.
func entryName(raw string) (string, error) {
	name := strings.TrimSuffix(raw, "/")
	if name == "" || path.IsAbs(name) || !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", zerr.With(domain.ErrUnsafeArchivePath, "entry", raw)
	}
	return path.Clean(name), nil
}

// ReadEntry returns the content of the regular file entry called name.
func (c *Codec) ReadEntry(r io.Reader, name string) ([]byte, error) {
	in, release, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer release()

	tr := tar.NewReader(in)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, zerr.With(domain.ErrEntryNotFound, "entry", name)
		}
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
		}
		if hdr.Typeflag != tar.TypeReg || strings.TrimSuffix(hdr.Name, "/") != name {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
		}
		return data, nil
	}
}

// ListEntries returns the entry names of r in archive order, without trailing slashes.
func (c *Codec) ListEntries(r io.Reader) ([]string, error) {
	in, release, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer release()

	var names []string
	tr := tar.NewReader(in)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
		}
		names = append(names, strings.TrimSuffix(hdr.Name, "/"))
	}
}
