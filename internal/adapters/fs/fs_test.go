package fs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quick/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_Walk_LexicalOrderRelativeToBase(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "target", "debug", "b.rlib"), "b")
	writeFile(t, filepath.Join(base, "target", "debug", "a.rlib"), "a")
	writeFile(t, filepath.Join(base, "target", "CACHEDIR.TAG"), "tag")
	writeFile(t, filepath.Join(base, "Cargo.toml"), "outside")

	var rels []string
	for entry, err := range fs.NewWalker().Walk(base, "target") {
		require.NoError(t, err)
		rels = append(rels, entry.Rel)
	}

	assert.Equal(t, []string{
		"target",
		"target/CACHEDIR.TAG",
		"target/debug",
		"target/debug/a.rlib",
		"target/debug/b.rlib",
	}, rels)
}

func TestWalker_Walk_DoesNotFollowSymlinks(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "elsewhere", "secret"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "target"), 0o750))
	require.NoError(t, os.Symlink(filepath.Join(base, "elsewhere"), filepath.Join(base, "target", "link")))

	var rels []string
	for entry, err := range fs.NewWalker().Walk(base, "target") {
		require.NoError(t, err)
		rels = append(rels, entry.Rel)
		if entry.Rel == "target/link" {
			assert.NotZero(t, entry.Info.Mode()&os.ModeSymlink)
		}
	}

	assert.Equal(t, []string{"target", "target/link"}, rels)
}

func TestWalker_Walk_MissingDirYieldsError(t *testing.T) {
	base := t.TempDir()

	var errs []error
	for _, err := range fs.NewWalker().Walk(base, "target") {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.Error(t, errs[0])
}

func TestHasher_ComputeFileHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.rs")
	writeFile(t, path, "hello world")

	hasher := fs.NewHasher()

	first, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.NotZero(t, first)

	second, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fromReader, err := hasher.ComputeHash(bytes.NewReader([]byte("hello world")))
	require.NoError(t, err)
	assert.Equal(t, first, fromReader)

	other, err := hasher.ComputeHash(bytes.NewReader([]byte("hello world!")))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestHasher_ComputeFileHash_Missing(t *testing.T) {
	_, err := fs.NewHasher().ComputeFileHash(filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}
