// Package cas implements the content-addressed cache of packed build outputs.
package cas

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/quick/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const memoSize = 1024

var _ ports.CacheRepository = (*Repository)(nil)

// Repository implements ports.CacheRepository on a flat directory of
// {fingerprint}.tar archives and {fingerprint}.stats.json sidecars.
type Repository struct {
	dir   string
	codec ports.ArchiveCodec

	// present remembers positive Has answers; entries are never removed from the cache
	// directory during a run.
	present *lru.Cache[domain.Fingerprint, struct{}]
	stats   *lru.Cache[domain.Fingerprint, domain.BuildStats]
}

// New creates a Repository rooted at dir, creating the directory if needed.
func New(dir string, codec ports.ArchiveCodec) (*Repository, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", dir)
	}

	present, err := lru.New[domain.Fingerprint, struct{}](memoSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create cache memo")
	}
	stats, err := lru.New[domain.Fingerprint, domain.BuildStats](memoSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create cache memo")
	}

	return &Repository{
		dir:     dir,
		codec:   codec,
		present: present,
		stats:   stats,
	}, nil
}

// Dir returns the cache directory.
func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) archivePath(fp domain.Fingerprint) string {
	return filepath.Join(r.dir, fp.ArchiveName())
}

func (r *Repository) statsPath(fp domain.Fingerprint) string {
	return filepath.Join(r.dir, fp.StatsName())
}

// Has reports whether a committed archive exists for fp.
func (r *Repository) Has(fp domain.Fingerprint) bool {
	if r.present.Contains(fp) {
		return true
	}
	if _, err := os.Stat(r.archivePath(fp)); err != nil {
		return false
	}
	r.present.Add(fp, struct{}{})
	return true
}

// Read opens the committed archive of fp.
func (r *Repository) Read(fp domain.Fingerprint) (io.ReadCloser, error) {
	path := r.archivePath(fp)
	f, err := os.Open(path) //nolint:gosec // Path is derived from the fingerprint
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrCacheEntryNotFound, "fingerprint", fp.String())
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	return f, nil
}

// BeginWrite opens {fingerprint}.tar.temp next to the final archive.
func (r *Repository) BeginWrite(fp domain.Fingerprint) (io.WriteCloser, error) {
	path := r.archivePath(fp) + domain.TempSuffix
	//nolint:gosec // Path is derived from the fingerprint
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return f, nil
}

// Commit writes the stats sidecar and publishes the archive.
//
// The sidecar is renamed into place first and the archive last, so a visible archive always
// has its stats next to it.
func (r *Repository) Commit(fp domain.Fingerprint, stats domain.BuildStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStatsMarshalFailed.Error())
	}

	statsPath := r.statsPath(fp)
	//nolint:gosec // Path is derived from the fingerprint
	if err := os.WriteFile(statsPath+domain.TempSuffix, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", statsPath+domain.TempSuffix)
	}
	if err := publish(statsPath+domain.TempSuffix, statsPath); err != nil {
		return err
	}

	archivePath := r.archivePath(fp)
	if err := publish(archivePath+domain.TempSuffix, archivePath); err != nil {
		return err
	}

	r.present.Add(fp, struct{}{})
	r.stats.Add(fp, stats)
	return nil
}

// publish renames tmp to final. A failed rename onto an existing destination counts as
// success, since concurrent writers of one fingerprint produce identical content.
func publish(tmp, final string) error {
	if err := os.Rename(tmp, final); err != nil {
		if _, statErr := os.Stat(final); statErr == nil {
			_ = os.Remove(tmp)
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCommitFailed.Error()), "path", final)
	}
	return nil
}

// Discard removes the temporary files of an abandoned write.
func (r *Repository) Discard(fp domain.Fingerprint) error {
	var errs error
	for _, path := range []string{r.archivePath(fp) + domain.TempSuffix, r.statsPath(fp) + domain.TempSuffix} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path))
		}
	}
	return errs
}

// Stats reads the stats sidecar of fp.
func (r *Repository) Stats(fp domain.Fingerprint) (domain.BuildStats, error) {
	if stats, ok := r.stats.Get(fp); ok {
		return stats, nil
	}

	path := r.statsPath(fp)
	data, err := os.ReadFile(path) //nolint:gosec // Path is derived from the fingerprint
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.BuildStats{}, zerr.With(domain.ErrCacheEntryNotFound, "fingerprint", fp.String())
		}
		return domain.BuildStats{}, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	var stats domain.BuildStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return domain.BuildStats{}, zerr.With(zerr.Wrap(err, domain.ErrStatsUnmarshalFailed.Error()), "path", path)
	}
	r.stats.Add(fp, stats)
	return stats, nil
}

// List enumerates committed fingerprints in sorted order.
func (r *Repository) List() ([]domain.Fingerprint, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", r.dir)
	}

	var fps []domain.Fingerprint
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, domain.ArchiveExt) {
			continue
		}
		fps = append(fps, domain.Fingerprint(strings.TrimSuffix(name, domain.ArchiveExt)))
	}
	slices.Sort(fps)
	return fps, nil
}

// Search returns the fingerprints whose archives contain an entry named path.
func (r *Repository) Search(ctx context.Context, path string) ([]domain.Fingerprint, error) {
	fps, err := r.List()
	if err != nil {
		return nil, err
	}
	path = strings.TrimSuffix(filepath.ToSlash(path), "/")

	found := make([]bool, len(fps))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, fp := range fps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := r.contains(fp, path)
			if err != nil {
				return err
			}
			found[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var matches []domain.Fingerprint
	for i, fp := range fps {
		if found[i] {
			matches = append(matches, fp)
		}
	}
	return matches, nil
}

func (r *Repository) contains(fp domain.Fingerprint, path string) (bool, error) {
	rc, err := r.Read(fp)
	if err != nil {
		return false, err
	}
	defer rc.Close() //nolint:errcheck // Read-only file

	names, err := r.codec.ListEntries(rc)
	if err != nil {
		return false, zerr.With(err, "fingerprint", fp.String())
	}
	return slices.Contains(names, path), nil
}
