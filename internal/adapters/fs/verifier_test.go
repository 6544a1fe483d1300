package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quick/internal/adapters/fs"
	"go.trai.ch/quick/internal/core/domain"
)

func TestVerifier_EnsureAbsent(t *testing.T) {
	dir := t.TempDir()
	verifier := fs.NewVerifier()

	target := filepath.Join(dir, "target")
	require.NoError(t, verifier.EnsureAbsent(target))

	writeFile(t, filepath.Join(target, "debug", ".fingerprint"), "")

	exists, err := verifier.Exists(target)
	require.NoError(t, err)
	assert.True(t, exists)

	err = verifier.EnsureAbsent(target)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTargetDirExists.Error())
}
