package wiring_test

import (
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quick/internal/app"
	"go.trai.ch/quick/internal/core/domain"
	_ "go.trai.ch/quick/internal/wiring"
)

// TestComponentsResolve builds the whole node graph the way the entry point does.
// graft.AssertDepsValid is not used: it infers dependency ids from the package of the type
// passed to Dep[T], and most nodes here resolve interfaces from the shared ports package.
func TestComponentsResolve(t *testing.T) {
	graft.ResetDefaultCache()
	t.Cleanup(graft.ResetDefaultCache)

	dir := t.TempDir()
	t.Setenv(domain.CacheDirEnv, filepath.Join(dir, "cache"))
	t.Chdir(dir)

	components, _, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	assert.NotNil(t, components.Logger)
	assert.DirExists(t, filepath.Join(dir, "cache"))
}
